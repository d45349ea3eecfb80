// Package eventcore implements a process-local, component-oriented event
// bus: an Event value type, a Handler descriptor model with channel/target
// addressing, a Manager that owns a pending-event queue and handler index,
// a Component attach/detach lifecycle built on top of Manager, and a Driver
// loop that drains sub-manager ticks and flushes the queue.
//
// A Manager is either a root (it owns its own queue and index) or a
// delegate (it forwards Push and Send to the root it is currently attached
// to). Components are Managers that additionally know how to register their
// own handlers with a parent's index under a channel prefix derived from
// their own channel, and recursively delegate everything else.
package eventcore
