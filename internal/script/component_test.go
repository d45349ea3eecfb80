package script

import (
	"context"
	"testing"

	"github.com/dshills/eventcore/internal/eventcore"
)

func TestLoadRegistersListener(t *testing.T) {
	src := `
eventcore.listener("ping", function(arg)
  return "pong:" .. arg
end)
`
	comp, err := Load("greeter", src)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer comp.Close()

	root := eventcore.NewManager()
	if err := comp.Register(root); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := root.Send(context.Background(), eventcore.New("e", "world"), "ping", "")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got != "pong:world" {
		t.Errorf("Send() = %v, want pong:world", got)
	}
}

func TestLoadRejectsInvalidSource(t *testing.T) {
	if _, err := Load("broken", "this is not lua("); err == nil {
		t.Fatal("expected Load to fail on invalid Lua source")
	}
}
