/*
Package event provides a type-safe pub/sub event system for the paramedit
server.

The event system lets the session layer announce what the editor did without
knowing who is listening: the SSE endpoint mirrors every event to connected
UI front ends, and the CLI subscribes when it wants live feedback.

# Architecture

The package is built on top of watermill's gochannel for infrastructure while
maintaining direct-call semantics to preserve type information. It provides
both synchronous and asynchronous publishing.

# Event Types

Session lifecycle:
  - session.opened: An edit session was opened over the host document
  - session.committed: The session ended keeping its changes
  - session.cancelled: The session ended and the snapshot was restored

Editing:
  - cursor.moved: The focus cursor moved to another record
  - param.updated: A live preview edit was applied and recomputed
  - param.invalid: The host rejected an expression during preview
  - param.added: A parameter was created
  - param.deleted: A parameter was removed

Configuration:
  - config.reloaded: The config file changed on disk and was reloaded

# Usage

	unsub := event.Subscribe(event.ParamUpdated, func(e event.Event) {
		data := e.Data.(*event.ParamUpdatedData)
		fmt.Println("updated", data.Param.Name)
	})
	defer unsub()

	event.Publish(event.Event{Type: event.ParamUpdated, Data: data})

PublishSync delivers in the caller's goroutine and is what the session layer
uses, matching the single-threaded, event-at-a-time editing model.
*/
package event
