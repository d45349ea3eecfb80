package eventcore

import "errors"

// Sentinel errors for the event core, named after the taxonomy the
// framework's error handling design enumerates.
var (
	// ErrInvalidHandler is returned when a callable lacking a valid
	// descriptor (no Func or EventFunc body) is registered.
	ErrInvalidHandler = errors.New("eventcore: invalid handler")

	// ErrNotRegistered is returned when detaching a component that is not
	// currently attached to the manager it names.
	ErrNotRegistered = errors.New("eventcore: component not registered with this manager")

	// ErrIndexMisuse is returned when an Event is indexed with a key that
	// is neither an int nor a string. Event.Get also wraps it for an
	// out-of-range positional index and for a missing keyword name.
	ErrIndexMisuse = errors.New("eventcore: invalid event index")

	// ErrAlreadyAttached is returned when attaching a component that is
	// already attached somewhere other than itself.
	ErrAlreadyAttached = errors.New("eventcore: component already attached to a different manager")

	// ErrDriverRunning is returned by Start when the background loop is
	// already running.
	ErrDriverRunning = errors.New("eventcore: driver already running")

	// ErrDriverNotRunning is returned by Stop when no background loop is
	// running.
	ErrDriverNotRunning = errors.New("eventcore: driver not running")
)

// HandlerFailure wraps an error or recovered panic raised by a handler
// during dispatch. It is attached to the Error event pushed on the
// reserved "error" channel and, when RaiseErrors is set, returned to the
// Send caller.
type HandlerFailure struct {
	Handler string
	Event   *Event
	Err     error
	Panic   any
	Stack   []byte
}

// Error implements the error interface.
func (f *HandlerFailure) Error() string {
	if f.Panic != nil {
		return "eventcore: handler " + f.Handler + " panicked"
	}
	return "eventcore: handler " + f.Handler + " failed: " + f.Err.Error()
}

// Unwrap returns the underlying error. For a recovered panic this is the
// panic value itself when it was an error, or an error formatted from the
// value otherwise.
func (f *HandlerFailure) Unwrap() error {
	return f.Err
}
