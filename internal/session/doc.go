/*
Package session implements the parameter edit session that backs the
keyboard-driven "Change Parameters" dialog.

A session is the bounded interactive episode between opening the dialog and
committing or cancelling it. All real parameter state lives in the host; the
session shadows it with a working copy and a rollback snapshot so that Cancel
is a pure data operation rather than a walk back through the host's opaque
undo history.

# Lifecycle

	Opened -> Editing (Navigate | PreviewEdit | AddParameter | DeleteParameter) -> Committed | Cancelled

Committed and Cancelled are terminal; every operation on a terminal session
returns a SESSION_CLOSED error.

# Live preview

PreviewEdit pushes each accepted edit to the host immediately, so geometry
driven by the parameters re-renders as the user types. A host rejection
(unparsable expression, circular reference, unknown unit) flags the record as
invalid but keeps the session editable and the record's last valid value
visible; any other host failure leaves the working copy untouched and the
user free to retry or cancel.

# Structural edits

AddParameter refuses case-sensitive name collisions. DeleteParameter refuses
to remove a parameter that host-reported dependents still reference; the
check compensates for the host's own unreliable delete guard and is
best-effort by nature, since it races against the host's internal state.

# Service

Service wraps a host with the one-open-session-at-a-time discipline and the
four UI-facing handlers (OnFieldChanged, OnFocusMoved, OnCommit, OnCancel).
Every state change is published on the event bus for the SSE stream.
*/
package session
