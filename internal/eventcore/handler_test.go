package eventcore

import (
	"context"
	"testing"
)

func TestHandlerPassEvent(t *testing.T) {
	h1 := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return nil, nil })
	if h1.PassEvent() {
		t.Error("Listener handler should not pass the raw event")
	}

	h2 := ListenerWithEvent(func(_ context.Context, _ *Event, _ []any, _ map[string]any) (any, error) { return nil, nil })
	if !h2.PassEvent() {
		t.Error("ListenerWithEvent handler should pass the raw event")
	}
}

func TestHandlerChannelsOrGlobal(t *testing.T) {
	h := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return nil, nil })
	got := h.channelsOrGlobal()
	if len(got) != 1 || got[0] != GlobalChannel {
		t.Errorf("channelsOrGlobal() = %v, want [%q]", got, GlobalChannel)
	}

	h2 := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return nil, nil }, OnChannels("a", "b"))
	got2 := h2.channelsOrGlobal()
	if len(got2) != 2 || got2[0] != "a" || got2[1] != "b" {
		t.Errorf("channelsOrGlobal() = %v, want [a b]", got2)
	}
}

func TestValidHandlerRejectsEmptyHandler(t *testing.T) {
	empty := &Handler{Kind: KindListener}
	if empty.valid() {
		t.Error("handler with no body should be invalid")
	}
}
