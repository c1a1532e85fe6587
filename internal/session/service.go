package session

import (
	"context"
	"sync"

	"github.com/paramedit/paramedit/internal/host"
	"github.com/paramedit/paramedit/pkg/types"
)

// Service enforces the one-open-session-at-a-time discipline over a host.
// The session itself is single-threaded; the service's lock only protects
// the open/close bookkeeping against concurrent API calls.
type Service struct {
	host host.Host
	nav  types.NavigationConfig

	mu      sync.Mutex
	current *Session
}

// NewService creates a session service over the given host.
func NewService(h host.Host, nav *types.NavigationConfig) *Service {
	s := &Service{host: h, nav: types.NavigationConfig{Wrap: true}}
	if nav != nil {
		s.nav = *nav
	}
	return s
}

// Host exposes the underlying host for read-only use outside a session.
func (s *Service) Host() host.Host {
	return s.host
}

// Open starts a session. A second concurrent session is refused.
func (s *Service) Open(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.current.State().Terminal() {
		return nil, types.NewEditError(types.ErrCodeSessionActive, "",
			"session %s is already open", s.current.ID())
	}

	sess, err := Open(ctx, s.host, s.nav)
	if err != nil {
		return nil, err
	}
	s.current = sess
	return sess, nil
}

// Current returns the open session, or nil.
func (s *Service) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.State().Terminal() {
		return nil
	}
	return s.current
}

// require returns the open session or a SESSION_CLOSED error.
func (s *Service) require() (*Session, error) {
	sess := s.Current()
	if sess == nil {
		return nil, types.NewEditError(types.ErrCodeSessionClosed, "", "no open session")
	}
	return sess, nil
}

// Commit commits the open session and releases the slot.
func (s *Service) Commit(ctx context.Context) (*types.ParameterSet, *types.ChangeSummary, error) {
	sess, err := s.require()
	if err != nil {
		return nil, nil, err
	}
	set, summary, err := sess.Commit(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.release(sess)
	return set, summary, nil
}

// Cancel cancels the open session and releases the slot.
func (s *Service) Cancel(ctx context.Context) (*types.ParameterSet, []types.RestoreIssue, error) {
	sess, err := s.require()
	if err != nil {
		return nil, nil, err
	}
	set, issues, err := sess.Cancel(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.release(sess)
	return set, issues, nil
}

func (s *Service) release(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == sess {
		s.current = nil
	}
}
