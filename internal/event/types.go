package event

import "github.com/paramedit/paramedit/pkg/types"

// SessionOpenedData is the data for session.opened events.
type SessionOpenedData struct {
	Info *types.SessionInfo `json:"info"`
}

// SessionCommittedData is the data for session.committed events.
type SessionCommittedData struct {
	SessionID string               `json:"sessionID"`
	Summary   *types.ChangeSummary `json:"summary"`
}

// SessionCancelledData is the data for session.cancelled events.
type SessionCancelledData struct {
	SessionID string               `json:"sessionID"`
	Issues    []types.RestoreIssue `json:"issues,omitempty"`
}

// CursorMovedData is the data for cursor.moved events.
type CursorMovedData struct {
	SessionID string `json:"sessionID"`
	Cursor    int    `json:"cursor"`
	Focused   string `json:"focused,omitempty"`
}

// ParamUpdatedData is the data for param.updated events. The record carries
// the host-resolved value after the live preview recompute.
type ParamUpdatedData struct {
	SessionID string           `json:"sessionID"`
	Field     types.Field      `json:"field"`
	Param     *types.Parameter `json:"param"`
}

// ParamInvalidData is the data for param.invalid events, published when the
// host rejects an expression during preview.
type ParamInvalidData struct {
	SessionID string `json:"sessionID"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	Reason    string `json:"reason"`
}

// ParamAddedData is the data for param.added events.
type ParamAddedData struct {
	SessionID string           `json:"sessionID"`
	Param     *types.Parameter `json:"param"`
}

// ParamDeletedData is the data for param.deleted events.
type ParamDeletedData struct {
	SessionID string `json:"sessionID"`
	Name      string `json:"name"`
}

// ConfigReloadedData is the data for config.reloaded events.
type ConfigReloadedData struct {
	Path string `json:"path"`
}
