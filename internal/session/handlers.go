package session

import (
	"context"

	"github.com/paramedit/paramedit/pkg/types"
)

// The handler surface is what the command-input UI drives. It exposes exactly
// the four reactions the dialog needs and nothing else; the UI never touches
// the session type directly.

// OnFieldChanged reacts to the user editing a field of the focused or named
// record. An empty name targets the focused record.
func (s *Service) OnFieldChanged(ctx context.Context, name string, field types.Field, value string) (*types.Parameter, error) {
	sess, err := s.require()
	if err != nil {
		return nil, err
	}
	if name == "" {
		focused := sess.Focused()
		if focused == nil {
			return nil, types.NewEditError(types.ErrCodeNotFound, "", "nothing focused")
		}
		name = focused.Name
	}
	return sess.PreviewEdit(ctx, name, field, value)
}

// OnFocusMoved reacts to tab/arrow navigation between fields.
func (s *Service) OnFocusMoved(ctx context.Context, dir types.Direction) error {
	sess, err := s.require()
	if err != nil {
		return err
	}
	return sess.Navigate(dir)
}

// OnCommit reacts to the user accepting the dialog.
func (s *Service) OnCommit(ctx context.Context) error {
	_, _, err := s.Commit(ctx)
	return err
}

// OnCancel reacts to the user dismissing the dialog.
func (s *Service) OnCancel(ctx context.Context) error {
	_, _, err := s.Cancel(ctx)
	return err
}
