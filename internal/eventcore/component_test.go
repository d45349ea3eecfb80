package eventcore

import (
	"context"
	"testing"
)

// Scenario 3 & 4: targeted routing and wildcard target.
func TestComponentTargetedRouting(t *testing.T) {
	root := NewManager()

	aRan, bRan := false, false
	a := NewComponent("a", nil, []*Handler{
		Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { aRan = true; return nil, nil }, OnChannels("go")),
	}, WithChannel("a"))
	b := NewComponent("b", nil, []*Handler{
		Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { bRan = true; return nil, nil }, OnChannels("go")),
	}, WithChannel("b"))

	if err := a.Register(root); err != nil {
		t.Fatal(err)
	}
	if err := b.Register(root); err != nil {
		t.Fatal(err)
	}

	if _, err := root.Send(context.Background(), New("go"), "go", "a"); err != nil {
		t.Fatal(err)
	}
	if !aRan || bRan {
		t.Errorf("targeted send: aRan=%v bRan=%v, want true,false", aRan, bRan)
	}

	aRan, bRan = false, false
	if _, err := root.Send(context.Background(), New("go"), "go", "*"); err != nil {
		t.Fatal(err)
	}
	if !aRan || !bRan {
		t.Errorf("wildcard-target send: aRan=%v bRan=%v, want true,true", aRan, bRan)
	}
}

func TestDetachRestoresIndex(t *testing.T) {
	root := NewManager()
	c := NewComponent("c", nil, []*Handler{
		Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return nil, nil }, OnChannels("go")),
	}, WithChannel("c"))

	before := len(root.Handlers("*:*"))
	if err := c.Register(root); err != nil {
		t.Fatal(err)
	}
	if len(root.Handlers("*:*")) == before {
		t.Fatal("expected handler count to grow after Register")
	}
	if err := c.Unregister(); err != nil {
		t.Fatal(err)
	}
	if got := len(root.Handlers("*:*")); got != before {
		t.Errorf("handler count after Unregister = %d, want %d", got, before)
	}
}

func TestUnregisterUnattachedComponentFails(t *testing.T) {
	c := NewComponent("solo", nil, nil)
	if err := c.Unregister(); err == nil {
		t.Fatal("expected error unregistering an unattached component")
	}
}

func TestRegisteredUnregisteredHooks(t *testing.T) {
	root := NewManager()
	tracker := &hookTracker{}
	c := NewComponent("tracked", tracker, nil)

	if err := c.Register(root); err != nil {
		t.Fatal(err)
	}
	if !tracker.registered {
		t.Error("Registered hook was not invoked")
	}
	if err := c.Unregister(); err != nil {
		t.Fatal(err)
	}
	if !tracker.unregistered {
		t.Error("Unregistered hook was not invoked")
	}
}

type hookTracker struct {
	registered   bool
	unregistered bool
}

func (h *hookTracker) Registered()   { h.registered = true }
func (h *hookTracker) Unregistered() { h.unregistered = true }
