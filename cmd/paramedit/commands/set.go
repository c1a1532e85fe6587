package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paramedit/paramedit/internal/command"
	"github.com/paramedit/paramedit/internal/session"
	"github.com/paramedit/paramedit/pkg/types"
)

var setComment string

var setCmd = &cobra.Command{
	Use:   "set <name = value[unit]>",
	Short: "Set or create a parameter",
	Long: `Set a parameter's expression, creating the parameter when it does
not exist yet:

  paramedit set 'width = 10mm'
  paramedit set 'height = width / 2'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&setComment, "comment", "", "Comment for a newly created parameter")
}

func runSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	parsed, err := command.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if parsed.Kind != command.KindAssign {
		return fmt.Errorf("set expects an assignment, got %q", strings.Join(args, " "))
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

	var param *types.Parameter
	if sess.Working().Get(parsed.Name) != nil {
		param, err = sess.PreviewEdit(ctx, parsed.Name, types.FieldExpression, parsed.Expression)
	} else {
		param, err = sess.AddParameter(ctx, parsed.Name, parsed.Expression, parsed.Unit, setComment)
	}
	if err != nil {
		svc.Cancel(ctx)
		return err
	}

	if _, _, err := svc.Commit(ctx); err != nil {
		return err
	}

	fmt.Printf("%s = %s (%s)\n", param.Name, param.Expression, formatValue(param))
	return nil
}

// explainEditError adds a name suggestion to a NOT_FOUND failure.
func explainEditError(err error, names []string) error {
	var ee *types.EditError
	if errors.As(err, &ee) && ee.Code == types.ErrCodeNotFound && ee.Name != "" {
		if hint := command.Suggest(ee.Name, names); hint != "" {
			return fmt.Errorf("%w (did you mean %q?)", err, hint)
		}
	}
	return err
}
