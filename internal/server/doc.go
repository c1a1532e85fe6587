// Package server exposes the parameter edit session over HTTP.
//
// The API is small: /session owns the single edit session (open, navigate,
// preview edits, add and delete parameters, commit, cancel), /params is a
// read-only view of the host's committed state, and /event streams bus
// events to clients over Server-Sent Events.
//
// Session-layer errors carry an EditError code; statusForCode maps each code
// to an HTTP status so clients can branch on either.
package server
