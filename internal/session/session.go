// Package session implements the parameter edit session: a bounded
// interactive episode over the host's live parameters with live-preview
// edits, a rollback snapshot, and commit/cancel semantics.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/paramedit/paramedit/internal/event"
	"github.com/paramedit/paramedit/internal/host"
	"github.com/paramedit/paramedit/internal/logging"
	"github.com/paramedit/paramedit/pkg/types"
)

// Session is one editing interaction. It shadows the host's parameter set
// with a working copy, pushes every accepted edit to the host immediately so
// the preview stays live, and keeps a snapshot for Cancel.
//
// A session is single-threaded by contract: it reacts to one input event at a
// time and is never shared across goroutines.
type Session struct {
	id     string
	host   host.Host
	state  types.SessionState
	opened time.Time

	// snapshot is the set as it was at Open; working is the live copy.
	snapshot *types.ParameterSet
	working  *types.ParameterSet

	// cursor indexes working in insertion order; -1 is the new-parameter
	// slot shown when the set is empty.
	cursor int
	wrap   bool

	dirty map[string]bool
}

// Open takes the host's current parameters and starts a session over them.
// The host is not touched beyond the initial list.
func Open(ctx context.Context, h host.Host, nav types.NavigationConfig) (*Session, error) {
	current, err := h.List(ctx)
	if err != nil {
		return nil, types.WrapHostError("", err)
	}

	s := &Session{
		id:       ulid.Make().String(),
		host:     h,
		state:    types.SessionEditing,
		opened:   time.Now(),
		snapshot: current.Clone(),
		working:  current.Clone(),
		wrap:     nav.Wrap,
		dirty:    make(map[string]bool),
	}
	if s.working.Len() == 0 {
		s.cursor = -1
	}

	logging.Info().Str("session", s.id).Int("params", s.working.Len()).Msg("session opened")
	event.PublishSync(event.Event{Type: event.SessionOpened, Data: &event.SessionOpenedData{Info: s.Info()}})
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle state.
func (s *Session) State() types.SessionState {
	return s.state
}

// Working returns the live working set. Callers must not mutate it.
func (s *Session) Working() *types.ParameterSet {
	return s.working
}

// Focused returns the record under the cursor, or nil on the new-parameter
// slot.
func (s *Session) Focused() *types.Parameter {
	return s.working.At(s.cursor)
}

// Info returns the wire representation of the session.
func (s *Session) Info() *types.SessionInfo {
	info := &types.SessionInfo{
		ID:     s.id,
		State:  s.state,
		Cursor: s.cursor,
		Count:  s.working.Len(),
		Opened: s.opened.UnixMilli(),
	}
	if p := s.working.At(s.cursor); p != nil {
		info.Focused = p.Name
	}
	// Dirty names in display order, not map order.
	for _, name := range s.working.Names() {
		if s.dirty[name] {
			info.Dirty = append(info.Dirty, name)
		}
	}
	return info
}

// guard rejects operations on a terminal session.
func (s *Session) guard() error {
	if s.state.Terminal() {
		return types.NewEditError(types.ErrCodeSessionClosed, "", "session is %s", s.state)
	}
	return nil
}

// Navigate moves the cursor. It never mutates a record or a dirty flag. At
// the bounds it wraps or stops depending on configuration.
func (s *Session) Navigate(dir types.Direction) error {
	if err := s.guard(); err != nil {
		return err
	}
	n := s.working.Len()
	if n == 0 {
		return nil
	}

	next := s.cursor
	switch dir {
	case types.DirectionNext:
		next++
		if next >= n {
			if s.wrap {
				next = 0
			} else {
				next = n - 1
			}
		}
	case types.DirectionPrev:
		next--
		if next < 0 {
			if s.wrap {
				next = n - 1
			} else {
				next = 0
			}
		}
	default:
		return types.NewEditError(types.ErrCodeUnsupportedOperation, "", "unknown direction %q", dir)
	}

	s.cursor = next
	event.PublishSync(event.Event{Type: event.CursorMoved, Data: &event.CursorMovedData{
		SessionID: s.id,
		Cursor:    s.cursor,
		Focused:   s.working.At(s.cursor).Name,
	}})
	return nil
}

// Focus moves the cursor directly to the named record.
func (s *Session) Focus(name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	idx := s.working.Index(name)
	if idx < 0 {
		return types.NewEditError(types.ErrCodeNotFound, name, "no such parameter")
	}
	s.cursor = idx
	event.PublishSync(event.Event{Type: event.CursorMoved, Data: &event.CursorMovedData{
		SessionID: s.id,
		Cursor:    s.cursor,
		Focused:   name,
	}})
	return nil
}

// PreviewEdit applies a single field edit to the working copy and pushes it
// to the host so the preview recomputes immediately. A host rejection leaves
// the record editable in an error state with its last valid value; any other
// host failure leaves the working copy untouched.
func (s *Session) PreviewEdit(ctx context.Context, name string, field types.Field, value string) (*types.Parameter, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if field == types.FieldName {
		return nil, types.NewEditError(types.ErrCodeUnsupportedOperation, name, "renaming parameters is not supported")
	}
	if !types.ValidField(field) {
		return nil, types.NewEditError(types.ErrCodeUnsupportedOperation, name, "unknown field %q", field)
	}
	p := s.working.Get(name)
	if p == nil {
		return nil, types.NewEditError(types.ErrCodeNotFound, name, "no such parameter")
	}

	var (
		updated *types.Parameter
		err     error
	)
	switch field {
	case types.FieldExpression:
		updated, err = s.host.SetExpression(ctx, name, value)
	case types.FieldUnit:
		// A unitful parameter cannot become unitless; only unitless
		// parameters may gain a unit.
		if p.Unit != "" && strings.TrimSpace(value) == "" {
			return nil, types.NewEditError(types.ErrCodeInvalidExpression, name,
				"cannot convert from %q to no units", p.Unit)
		}
		updated, err = s.host.SetUnit(ctx, name, value)
	case types.FieldComment:
		updated, err = s.host.SetComment(ctx, name, value)
	}

	if err != nil {
		if host.IsRejection(err) {
			// Keep the rejected text visible in the working copy; the
			// resolved value stays at the last valid one.
			if field == types.FieldExpression {
				p.Expression = value
			}
			p.Invalid = true
			event.PublishSync(event.Event{Type: event.ParamInvalid, Data: &event.ParamInvalidData{
				SessionID: s.id,
				Name:      name,
				Value:     value,
				Reason:    err.Error(),
			}})
			return nil, &types.EditError{Code: types.ErrCodeInvalidExpression, Name: name, Message: "rejected by host", Err: err}
		}
		return nil, types.WrapHostError(name, err)
	}

	// Refresh every record the recompute may have touched, then overlay the
	// edited one from the host's answer.
	s.refreshValues(ctx)
	s.working.Put(updated.Clone())
	s.dirty[name] = true

	event.PublishSync(event.Event{Type: event.ParamUpdated, Data: &event.ParamUpdatedData{
		SessionID: s.id,
		Field:     field,
		Param:     updated.Clone(),
	}})
	return updated, nil
}

// AddParameter creates a new parameter at the end of the set.
func (s *Session) AddParameter(ctx context.Context, name, expr, unit, comment string) (*types.Parameter, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if s.working.Get(name) != nil {
		return nil, types.NewEditError(types.ErrCodeDuplicateName, name, "parameter already exists")
	}

	created, err := s.host.Create(ctx, name, expr, unit, comment)
	if err != nil {
		if errors.Is(err, host.ErrDuplicate) {
			// The host knows a name the session list missed; treat it the
			// same as a local collision.
			return nil, types.NewEditError(types.ErrCodeDuplicateName, name, "parameter already exists")
		}
		if host.IsRejection(err) {
			return nil, &types.EditError{Code: types.ErrCodeInvalidExpression, Name: name, Message: "rejected by host", Err: err}
		}
		return nil, types.WrapHostError(name, err)
	}

	s.working.Put(created.Clone())
	s.dirty[name] = true
	if s.cursor < 0 {
		s.cursor = 0
	}

	event.PublishSync(event.Event{Type: event.ParamAdded, Data: &event.ParamAddedData{
		SessionID: s.id,
		Param:     created.Clone(),
	}})
	return created, nil
}

// DeleteParameter removes a parameter unless another record references it.
// The guard uses host-reported dependents and is best-effort: the host's own
// delete does not reliably refuse referenced parameters, and a racing change
// between the check and the delete cannot be detected here.
func (s *Session) DeleteParameter(ctx context.Context, name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.working.Get(name) == nil {
		return types.NewEditError(types.ErrCodeNotFound, name, "no such parameter")
	}

	dependents, err := s.host.Dependents(ctx, name)
	if err != nil {
		return types.WrapHostError(name, err)
	}
	if len(dependents) > 0 {
		return types.NewEditError(types.ErrCodeReferencedByOthers, name,
			"referenced by %s", strings.Join(dependents, ", "))
	}

	if err := s.host.Delete(ctx, name); err != nil {
		return types.WrapHostError(name, err)
	}

	removedIdx := s.working.Index(name)
	s.working.Remove(name)
	delete(s.dirty, name)
	if s.cursor >= s.working.Len() {
		s.cursor = s.working.Len() - 1
	} else if s.cursor > removedIdx {
		s.cursor--
	}

	event.PublishSync(event.Event{Type: event.ParamDeleted, Data: &event.ParamDeletedData{
		SessionID: s.id,
		Name:      name,
	}})
	return nil
}

// Commit ends the session keeping all changes. Edits were applied to the host
// live during preview, so commit only discards the snapshot and reports what
// changed.
func (s *Session) Commit(ctx context.Context) (*types.ParameterSet, *types.ChangeSummary, error) {
	if err := s.guard(); err != nil {
		return nil, nil, err
	}

	summary := s.summarize()
	s.state = types.SessionCommitted
	s.snapshot = nil

	logging.Info().Str("session", s.id).
		Int("updated", len(summary.Updated)).
		Int("added", len(summary.Added)).
		Int("deleted", len(summary.Deleted)).
		Msg("session committed")
	event.PublishSync(event.Event{Type: event.SessionCommitted, Data: &event.SessionCommittedData{
		SessionID: s.id,
		Summary:   summary,
	}})
	return s.working, summary, nil
}

// Cancel ends the session restoring the host to the Open-time snapshot:
// added parameters are removed, deleted ones recreated, edited fields reset.
// Cancel always terminates the session; host failures during the restore are
// retried once and then reported as issues rather than aborting the rest.
func (s *Session) Cancel(ctx context.Context) (*types.ParameterSet, []types.RestoreIssue, error) {
	if err := s.guard(); err != nil {
		return nil, nil, err
	}

	issues := s.restore(ctx)
	s.state = types.SessionCancelled
	restored := s.snapshot
	s.working = restored

	logging.Info().Str("session", s.id).Int("issues", len(issues)).Msg("session cancelled")
	event.PublishSync(event.Event{Type: event.SessionCancelled, Data: &event.SessionCancelledData{
		SessionID: s.id,
		Issues:    issues,
	}})
	return restored, issues, nil
}

// refreshValues re-reads resolved values from the host after a recompute so
// dependent records in the working copy show fresh numbers. Field text the
// user typed (including invalid text) is preserved.
func (s *Session) refreshValues(ctx context.Context) {
	current, err := s.host.List(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("could not refresh values after preview")
		return
	}
	for _, p := range s.working.All() {
		if fresh := current.Get(p.Name); fresh != nil && !p.Invalid {
			p.Value = fresh.Value
			p.DependsOn = fresh.DependsOn
			p.UsedBy = fresh.UsedBy
		}
	}
}

// hostOp calls fn, retrying once on failure, and records a RestoreIssue when
// both attempts fail.
func (s *Session) hostOp(name, op string, issues *[]types.RestoreIssue, fn func() error) {
	err := fn()
	if err != nil {
		logging.Warn().Err(err).Str("param", name).Str("op", op).Msg("restore failed, retrying")
		err = fn()
	}
	if err != nil {
		*issues = append(*issues, types.RestoreIssue{Name: name, Op: op, Error: err.Error()})
	}
}

// restore re-applies the snapshot onto the host.
func (s *Session) restore(ctx context.Context) []types.RestoreIssue {
	var issues []types.RestoreIssue

	// Remove parameters added during the session. Reverse order so a
	// parameter added on top of another added one goes first.
	added := make([]string, 0)
	for _, name := range s.working.Names() {
		if s.snapshot.Get(name) == nil {
			added = append(added, name)
		}
	}
	for i := len(added) - 1; i >= 0; i-- {
		name := added[i]
		s.hostOp(name, "delete", &issues, func() error {
			return s.host.Delete(ctx, name)
		})
	}

	// Recreate parameters deleted during the session. A placeholder
	// expression breaks any forward reference between recreated records; the
	// real expressions are restored in the field pass below.
	for _, snap := range s.snapshot.All() {
		if s.working.Get(snap.Name) != nil {
			continue
		}
		snap := snap
		s.hostOp(snap.Name, "create", &issues, func() error {
			_, err := s.host.Create(ctx, snap.Name, "0", snap.Unit, snap.Comment)
			return err
		})
	}

	// Reset every field to its snapshot value. Expressions go last so that
	// placeholder records exist before anything references them.
	for _, snap := range s.snapshot.All() {
		cur := s.working.Get(snap.Name)
		recreated := cur == nil
		snap := snap

		if recreated || cur.Unit != snap.Unit {
			s.hostOp(snap.Name, "set", &issues, func() error {
				_, err := s.host.SetUnit(ctx, snap.Name, snap.Unit)
				return err
			})
		}
		if !recreated && cur.Comment != snap.Comment {
			s.hostOp(snap.Name, "set", &issues, func() error {
				_, err := s.host.SetComment(ctx, snap.Name, snap.Comment)
				return err
			})
		}
		if recreated || cur.Expression != snap.Expression || cur.Invalid {
			s.hostOp(snap.Name, "set", &issues, func() error {
				_, err := s.host.SetExpression(ctx, snap.Name, snap.Expression)
				return err
			})
		}
	}

	// Hosts append recreations, so deleting a record from the middle of the
	// list leaves the display order wrong after the passes above. Rebuild
	// the whole set in snapshot order when that happened.
	if current, err := s.host.List(ctx); err == nil && !sameOrder(current.Names(), s.snapshot.Names()) {
		issues = append(issues, s.rebuild(ctx, current)...)
	}

	return issues
}

// rebuild clears the host and recreates the snapshot from scratch, in order.
func (s *Session) rebuild(ctx context.Context, current *types.ParameterSet) []types.RestoreIssue {
	var issues []types.RestoreIssue

	for _, name := range current.Names() {
		name := name
		s.hostOp(name, "delete", &issues, func() error {
			return s.host.Delete(ctx, name)
		})
	}
	for _, snap := range s.snapshot.All() {
		snap := snap
		s.hostOp(snap.Name, "create", &issues, func() error {
			_, err := s.host.Create(ctx, snap.Name, "0", snap.Unit, snap.Comment)
			return err
		})
	}
	for _, snap := range s.snapshot.All() {
		snap := snap
		s.hostOp(snap.Name, "set", &issues, func() error {
			_, err := s.host.SetExpression(ctx, snap.Name, snap.Expression)
			return err
		})
	}
	return issues
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
