package eventcore

import (
	"context"
	"fmt"
	"runtime/debug"
)

// panicErr wraps a recovered panic value as an error, carrying the stack
// trace captured at the moment of recovery.
type panicErr struct {
	value any
	stack []byte
}

func (e *panicErr) Error() string {
	return fmt.Sprintf("eventcore: handler panicked: %v", e.value)
}

// invoke calls h with event's arguments, recovering from any panic the
// handler raises. This mirrors the teacher's dispatch.Executor.Execute:
// recover, capture runtime/debug.Stack(), and turn the panic into an error
// instead of letting it cross the dispatch loop.
func invoke(ctx context.Context, h *Handler, event *Event) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicErr{value: r, stack: debug.Stack()}
		}
	}()
	return h.call(ctx, event, event.Args, event.Kwargs)
}

func unwrapHandlerError(err error) error {
	if pe, ok := err.(*panicErr); ok {
		if asErr, ok := pe.value.(error); ok {
			return asErr
		}
		return fmt.Errorf("%v", pe.value)
	}
	return err
}

func panicValue(err error) any {
	if pe, ok := err.(*panicErr); ok {
		return pe.value
	}
	return nil
}

func stackValue(err error) []byte {
	if pe, ok := err.(*panicErr); ok {
		return pe.stack
	}
	return nil
}
