package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paramedit/paramedit/internal/command"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one parameter in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]

	h, err := openHost(ctx)
	if err != nil {
		return err
	}

	set, err := h.List(ctx)
	if err != nil {
		return err
	}

	p := set.Get(name)
	if p == nil {
		if hint := command.Suggest(name, set.Names()); hint != "" {
			return fmt.Errorf("no parameter %q (did you mean %q?)", name, hint)
		}
		return fmt.Errorf("no parameter %q", name)
	}

	fmt.Printf("name:       %s\n", p.Name)
	fmt.Printf("expression: %s\n", p.Expression)
	fmt.Printf("value:      %s\n", formatValue(p))
	if p.Unit != "" {
		fmt.Printf("unit:       %s\n", p.Unit)
	}
	if p.Comment != "" {
		fmt.Printf("comment:    %s\n", p.Comment)
	}
	if len(p.DependsOn) > 0 {
		fmt.Printf("depends on: %s\n", strings.Join(p.DependsOn, ", "))
	}
	if len(p.UsedBy) > 0 {
		fmt.Printf("used by:    %s\n", strings.Join(p.UsedBy, ", "))
	}
	return nil
}
