// Package remotebridge lets two process-local event buses talk to each
// other over a websocket, the Go shape of the original framework's
// circuits.node.Node: a component that owns a set of named peer
// connections and forwards an event to one of them when asked, instead of
// broadcasting everything everywhere. A peer that forwards an event back
// to the bus it just received it from would loop forever, so every event
// that crosses the wire is stamped with Event.Source (the peer it came
// from) and checked against Event.Ignore before being re-sent.
package remotebridge
