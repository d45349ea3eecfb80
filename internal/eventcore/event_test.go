package eventcore

import "testing"

func TestEventEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Event
		want bool
	}{
		{
			name: "identical",
			a:    &Event{Name: "ping", Args: []any{1}, Channel: "x"},
			b:    &Event{Name: "ping", Args: []any{1}, Channel: "x"},
			want: true,
		},
		{
			name: "different name",
			a:    &Event{Name: "ping"},
			b:    &Event{Name: "pong"},
			want: false,
		},
		{
			name: "different target",
			a:    &Event{Name: "go", Target: "a"},
			b:    &Event{Name: "go", Target: "b"},
			want: false,
		},
		{
			name: "different kwargs",
			a:    &Event{Name: "go", Kwargs: map[string]any{"n": 1}},
			b:    &Event{Name: "go", Kwargs: map[string]any{"n": 2}},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventGet(t *testing.T) {
	ev := &Event{Args: []any{"hi"}, Kwargs: map[string]any{"n": 1}}

	if v, err := ev.Get(0); err != nil || v != "hi" {
		t.Fatalf("Get(0) = %v, %v; want hi, nil", v, err)
	}
	if v, err := ev.Get("n"); err != nil || v != 1 {
		t.Fatalf(`Get("n") = %v, %v; want 1, nil`, v, err)
	}
	if _, err := ev.Get(5); err == nil {
		t.Fatal("Get(5) should fail with out-of-range index")
	}
	if _, err := ev.Get("missing"); err == nil {
		t.Fatal(`Get("missing") should fail`)
	}
	if _, err := ev.Get(3.14); err == nil {
		t.Fatal("Get(float64) should fail with ErrIndexMisuse")
	}
}

func TestEventString(t *testing.T) {
	ev := &Event{Name: "go", Channel: "a"}
	got := ev.String()
	want := "<go[a]>"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
