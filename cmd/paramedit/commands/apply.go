package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paramedit/paramedit/internal/command"
	"github.com/paramedit/paramedit/internal/session"
	"github.com/paramedit/paramedit/pkg/types"
)

var applyDryRun bool

var applyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Apply a batch of commands in one session",
	Long: `Apply a file of command lines (or stdin when no file is given)
inside a single session. All edits commit together; any failure rolls the
whole batch back.

Lines are assignments or deletions, one per line; blank lines and lines
starting with # are skipped:

  wall = 2.5mm
  height = width / 2
  del old_offset`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Validate the batch and roll it back instead of committing")
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	svc := session.NewService(h, cfg.Navigation)

	sess, err := svc.Open(ctx)
	if err != nil {
		return err
	}

	applied := 0
	scanner := bufio.NewScanner(in)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parsed, err := command.Parse(line)
		if err != nil {
			svc.Cancel(ctx)
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		switch parsed.Kind {
		case command.KindAssign:
			if sess.Working().Get(parsed.Name) != nil {
				_, err = sess.PreviewEdit(ctx, parsed.Name, types.FieldExpression, parsed.Expression)
			} else {
				_, err = sess.AddParameter(ctx, parsed.Name, parsed.Expression, parsed.Unit, "")
			}
		case command.KindDelete:
			err = sess.DeleteParameter(ctx, parsed.Name)
		}
		if err != nil {
			names := sess.Working().Names()
			svc.Cancel(ctx)
			return fmt.Errorf("line %d: %w", lineNo, explainEditError(err, names))
		}
		applied++
	}
	if err := scanner.Err(); err != nil {
		svc.Cancel(ctx)
		return err
	}

	if applyDryRun {
		if _, issues, err := svc.Cancel(ctx); err != nil {
			return err
		} else if len(issues) > 0 {
			return fmt.Errorf("rollback left %d issue(s)", len(issues))
		}
		fmt.Printf("dry run ok: %d command(s) validated and rolled back\n", applied)
		return nil
	}

	_, summary, err := svc.Commit(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("applied %d command(s): %d updated, %d added, %d deleted\n",
		applied, len(summary.Updated), len(summary.Added), len(summary.Deleted))
	return nil
}
