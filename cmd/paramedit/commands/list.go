package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/paramedit/paramedit/pkg/types"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the document's user parameters",
	Long: `List the document's user parameters with their resolved values.

A glob filter matches against parameter names:

  paramedit list --filter 'wall_*'`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Glob pattern to filter parameter names")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	h, err := openHost(ctx)
	if err != nil {
		return err
	}

	set, err := h.List(ctx)
	if err != nil {
		return err
	}

	if listFilter != "" && !doublestar.ValidatePattern(listFilter) {
		return fmt.Errorf("invalid filter pattern %q", listFilter)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEXPRESSION\tVALUE\tUNIT\tCOMMENT")
	for _, p := range set.All() {
		if listFilter != "" {
			if ok, _ := doublestar.Match(listFilter, p.Name); !ok {
				continue
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Expression, formatValue(p), p.Unit, p.Comment)
	}
	return w.Flush()
}

func formatValue(p *types.Parameter) string {
	v := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", p.Value), "0"), ".")
	if p.Invalid {
		return v + " (invalid)"
	}
	return v
}
