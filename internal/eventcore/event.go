package eventcore

import (
	"fmt"
	"strings"
)

// Event is a named occurrence carried through a Manager's dispatch. Name,
// Args and Kwargs are supplied by the producer; Channel and Target are
// stamped by Send at dispatch time. Source and Ignore exist solely so an
// out-of-process bridge collaborator can tag a forwarded event and prevent
// it from being rebroadcast back to where it came from; the core never
// reads or writes them itself.
type Event struct {
	Name    string
	Args    []any
	Kwargs  map[string]any
	Channel string
	Target  string

	// Source identifies the remote peer an event arrived from, if any.
	Source string
	// Ignore lists peer names that must not receive this event when a
	// bridge collaborator rebroadcasts it.
	Ignore []string
}

// New builds an Event with the given name and positional/keyword payload.
// Channel and Target are left unset; Send stamps them.
func New(name string, args ...any) *Event {
	return &Event{Name: name, Args: args}
}

// WithKwargs returns the same event with kwargs attached, for chaining at
// the call site: eventcore.New("go").WithKwargs(map[string]any{"n": 1}).
func (e *Event) WithKwargs(kwargs map[string]any) *Event {
	e.Kwargs = kwargs
	return e
}

// Address returns the "target:channel" or "channel" form of this event's
// resolved address, or "" if neither is set.
func (e *Event) Address() string {
	switch {
	case e.Target != "" && e.Channel != "":
		return e.Target + ":" + e.Channel
	case e.Channel != "":
		return e.Channel
	default:
		return ""
	}
}

// Equal implements structural equality over the five fields the spec
// defines equality on: name, args, kwargs, channel and target.
func (e *Event) Equal(o *Event) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Name != o.Name || e.Channel != o.Channel || e.Target != o.Target {
		return false
	}
	if len(e.Args) != len(o.Args) {
		return false
	}
	for i := range e.Args {
		if e.Args[i] != o.Args[i] {
			return false
		}
	}
	if len(e.Kwargs) != len(o.Kwargs) {
		return false
	}
	for k, v := range e.Kwargs {
		ov, ok := o.Kwargs[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// String renders the event as <Name[addr] args k=v…>, mirroring the
// original framework's repr.
func (e *Event) String() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.Name)
	if addr := e.Address(); addr != "" {
		b.WriteString("[")
		b.WriteString(addr)
		b.WriteString("]")
	}
	for _, a := range e.Args {
		b.WriteString(" ")
		fmt.Fprintf(&b, "%v", a)
	}
	for k, v := range e.Kwargs {
		b.WriteString(" ")
		fmt.Fprintf(&b, "%s=%v", k, v)
	}
	b.WriteString(">")
	return b.String()
}

// Arg returns the i'th positional argument, failing with ErrIndexMisuse
// semantics via the ok flag when i is out of range.
func (e *Event) Arg(i int) (any, bool) {
	if i < 0 || i >= len(e.Args) {
		return nil, false
	}
	return e.Args[i], true
}

// Kwarg returns the keyword argument named key.
func (e *Event) Kwarg(key string) (any, bool) {
	v, ok := e.Kwargs[key]
	return v, ok
}

// Get performs the polymorphic index access described in the data model:
// an int indexes Args, a string indexes Kwargs, anything else is a misuse.
func (e *Event) Get(index any) (any, error) {
	switch k := index.(type) {
	case int:
		v, ok := e.Arg(k)
		if !ok {
			return nil, fmt.Errorf("%w: arg index %d out of range", ErrIndexMisuse, k)
		}
		return v, nil
	case string:
		v, ok := e.Kwarg(k)
		if !ok {
			return nil, fmt.Errorf("%w: no kwarg named %q", ErrIndexMisuse, k)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: index must be int or string, got %T", ErrIndexMisuse, index)
	}
}

// NewError builds the reserved Error event pushed to the "error" channel
// when a handler fails during dispatch.
func NewError(failed *Event, handlerName string, cause any) *Event {
	return &Event{
		Name: "Error",
		Args: []any{cause},
		Kwargs: map[string]any{
			"event":   failed,
			"handler": handlerName,
		},
	}
}
