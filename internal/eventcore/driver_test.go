package eventcore

import (
	"context"
	"testing"
	"time"
)

type countingTicker struct{ n int }

func (c *countingTicker) Tick(context.Context) { c.n++ }

func TestDriverBackgroundTicksAndFlushes(t *testing.T) {
	m := NewManager()
	ticker := &countingTicker{}
	m.AddTicker(ticker)

	delivered := 0
	l := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { delivered++; return nil, nil })
	_ = m.Add(l, "x")
	m.Push(New("e"), "x", "")

	d := NewDriver(m, 2*time.Millisecond)
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(500 * time.Millisecond)
	for ticker.n == 0 || delivered == 0 {
		select {
		case <-deadline:
			t.Fatal("driver did not tick/flush within deadline")
		case <-time.After(time.Millisecond):
		}
	}
	if err := d.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestDriverStartTwiceFails(t *testing.T) {
	m := NewManager()
	d := NewDriver(m, time.Millisecond)
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer d.Stop()
	if err := d.Start(ctx); err != ErrDriverRunning {
		t.Errorf("second Start() = %v, want ErrDriverRunning", err)
	}
}

func TestDriverStopWithoutStartFails(t *testing.T) {
	m := NewManager()
	d := NewDriver(m, time.Millisecond)
	if err := d.Stop(); err != ErrDriverNotRunning {
		t.Errorf("Stop() = %v, want ErrDriverNotRunning", err)
	}
}
