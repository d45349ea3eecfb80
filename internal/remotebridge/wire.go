package remotebridge

import "github.com/dshills/eventcore/internal/eventcore"

// wireEvent is the JSON shape an Event takes on the wire. It carries the
// same fields Event.Equal compares plus the addressing the receiving side
// should dispatch on; Source is filled in by the receiver, not the sender.
type wireEvent struct {
	Name    string         `json:"name"`
	Args    []any          `json:"args,omitempty"`
	Kwargs  map[string]any `json:"kwargs,omitempty"`
	Channel string         `json:"channel"`
	Target  string         `json:"target,omitempty"`
	Ignore  []string       `json:"ignore,omitempty"`
}

func toWire(e *eventcore.Event) wireEvent {
	return wireEvent{
		Name:    e.Name,
		Args:    e.Args,
		Kwargs:  e.Kwargs,
		Channel: e.Channel,
		Target:  e.Target,
		Ignore:  e.Ignore,
	}
}

func (w wireEvent) toEvent(source string) *eventcore.Event {
	ev := eventcore.New(w.Name, w.Args...).WithKwargs(w.Kwargs)
	ev.Channel = w.Channel
	ev.Target = w.Target
	ev.Ignore = w.Ignore
	ev.Source = source
	return ev
}

func ignores(ev *eventcore.Event, peer string) bool {
	if ev.Source == peer {
		return true
	}
	for _, name := range ev.Ignore {
		if name == peer {
			return true
		}
	}
	return false
}
