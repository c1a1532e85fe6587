package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paramedit/paramedit/internal/session"
)

var delCmd = &cobra.Command{
	Use:   "del <name>",
	Short: "Delete a parameter",
	Long: `Delete a parameter. A parameter that other parameters reference
cannot be deleted until those references are removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runDel,
}

func runDel(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	svc := session.NewService(h, cfg.Navigation)

	sess, err := svc.Open(ctx)
	if err != nil {
		return err
	}

	if err := sess.DeleteParameter(ctx, name); err != nil {
		names := sess.Working().Names()
		svc.Cancel(ctx)
		return explainEditError(err, names)
	}

	if _, _, err := svc.Commit(ctx); err != nil {
		return err
	}

	fmt.Printf("deleted %s\n", name)
	return nil
}
