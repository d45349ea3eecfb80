package eventcore

import (
	"context"
	"testing"
)

func noopHandler() (any, error) { return nil, nil }

func TestBucketSortFiltersFirst(t *testing.T) {
	idx := newHandlerIndex()
	l1 := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return noopHandler() }, Named("l1"))
	f1 := Filter(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return noopHandler() }, Named("f1"))
	l2 := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return noopHandler() }, Named("l2"))

	_ = idx.add(l1, "x")
	_ = idx.add(f1, "x")
	_ = idx.add(l2, "x")

	bucket := idx.bucket("x")
	if len(bucket) != 3 {
		t.Fatalf("bucket len = %d, want 3", len(bucket))
	}
	if bucket[0] != f1 {
		t.Errorf("bucket[0] = %v, want filter f1", bucket[0].Name)
	}
	if bucket[1] != l1 || bucket[2] != l2 {
		t.Error("listeners out of relative order after filter-first sort")
	}
}

func TestResolveAddressing(t *testing.T) {
	idx := newHandlerIndex()
	g := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return noopHandler() }, Named("global"))
	plain := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return noopHandler() }, Named("plain"))
	at := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return noopHandler() }, Named("a:go"))
	bt := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return noopHandler() }, Named("b:go"))

	_ = idx.add(g, GlobalChannel)
	_ = idx.add(plain, "go")
	_ = idx.add(at, "a:go")
	_ = idx.add(bt, "b:go")

	contains := func(hs []*Handler, want *Handler) bool {
		for _, h := range hs {
			if h == want {
				return true
			}
		}
		return false
	}

	t.Run("star star returns everything", func(t *testing.T) {
		got := idx.resolve("*:*")
		for _, h := range []*Handler{g, plain, at, bt} {
			if !contains(got, h) {
				t.Errorf("missing %s in *:* resolution", h.Name)
			}
		}
	})

	t.Run("plain channel unions globals", func(t *testing.T) {
		got := idx.resolve("go")
		if !contains(got, g) || !contains(got, plain) {
			t.Error("expected globals and plain bucket in bare channel resolution")
		}
		if contains(got, at) || contains(got, bt) {
			t.Error("bare channel resolution should not include targeted buckets")
		}
	})

	t.Run("wildcard target unions all targeted buckets for the channel", func(t *testing.T) {
		got := idx.resolve("*:go")
		if !contains(got, g) || !contains(got, at) || !contains(got, bt) {
			t.Error("expected globals plus both a:go and b:go handlers")
		}
	})

	t.Run("specific target plus channel", func(t *testing.T) {
		got := idx.resolve("a:go")
		if !contains(got, g) || !contains(got, plain) || !contains(got, at) {
			t.Error("expected globals, plain bucket and a:go handler")
		}
		if contains(got, bt) {
			t.Error("a:go resolution should not include b:go handler")
		}
	})
}

func TestRemove(t *testing.T) {
	idx := newHandlerIndex()
	h := Listener(func(_ context.Context, _ []any, _ map[string]any) (any, error) { return noopHandler() })

	_ = idx.add(h, "x")
	_ = idx.add(h, "y")
	idx.remove(h, "x")
	if len(idx.bucket("x")) != 0 {
		t.Error("handler should be gone from bucket x")
	}
	if len(idx.bucket("y")) != 1 {
		t.Error("handler should remain in bucket y")
	}

	idx.remove(h, "")
	if len(idx.bucket("y")) != 0 {
		t.Error("empty-key remove should strip handler from every bucket")
	}
}

func TestAddRejectsInvalidHandler(t *testing.T) {
	idx := newHandlerIndex()
	if err := idx.add(&Handler{Kind: KindListener}, "x"); err != ErrInvalidHandler {
		t.Errorf("add() = %v, want ErrInvalidHandler", err)
	}
}
