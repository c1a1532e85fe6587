// Package types provides the core data types for the paramedit server.
package types

// SessionState tracks where a session is in its lifecycle.
type SessionState string

const (
	SessionEditing   SessionState = "editing"
	SessionCommitted SessionState = "committed"
	SessionCancelled SessionState = "cancelled"
)

// Terminal reports whether no further operations are valid on the session.
func (s SessionState) Terminal() bool {
	return s == SessionCommitted || s == SessionCancelled
}

// Direction is a cursor movement for Navigate.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// SessionInfo is the wire representation of an open session.
type SessionInfo struct {
	ID     string       `json:"id"`
	State  SessionState `json:"state"`
	Cursor int          `json:"cursor"`
	// Focused is the name of the record under the cursor, empty on the
	// new-parameter slot.
	Focused string   `json:"focused,omitempty"`
	Count   int      `json:"count"`
	Dirty   []string `json:"dirty,omitempty"`
	Opened  int64    `json:"opened"` // unix millis
}

// ParameterChange records one modified parameter in a commit summary.
type ParameterChange struct {
	Name          string `json:"name"`
	OldExpression string `json:"oldExpression"`
	NewExpression string `json:"newExpression"`
	// Diff is a human-readable rendering of the expression change.
	Diff string `json:"diff,omitempty"`
}

// ChangeSummary describes what a session changed relative to its snapshot.
type ChangeSummary struct {
	Updated []ParameterChange `json:"updated,omitempty"`
	Added   []string          `json:"added,omitempty"`
	Deleted []string          `json:"deleted,omitempty"`
}

// Empty reports whether the session changed nothing.
func (c *ChangeSummary) Empty() bool {
	return len(c.Updated) == 0 && len(c.Added) == 0 && len(c.Deleted) == 0
}

// RestoreIssue records a host failure during Cancel rollback. Rollback
// continues past individual failures; issues are reported, not fatal.
type RestoreIssue struct {
	Name  string `json:"name"`
	Op    string `json:"op"` // "set" | "create" | "delete"
	Error string `json:"error"`
}
