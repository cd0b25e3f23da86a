package handle

import (
	"testing"
)

func TestArena_Basic(t *testing.T) {
	a := NewArena()

	h, err := a.Put("client")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if h == Zero {
		t.Fatal("Expected non-zero handle")
	}

	v, ok := a.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if v != "client" {
		t.Fatalf("Expected 'client', got %v", v)
	}

	v, ok = a.Remove(h)
	if !ok {
		t.Fatal("Remove failed")
	}
	if v != "client" {
		t.Fatalf("Expected 'client', got %v", v)
	}

	if a.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestArena_ZeroHandle(t *testing.T) {
	a := NewArena()

	if _, ok := a.Get(Zero); ok {
		t.Fatal("Get(Zero) should fail")
	}
	if _, ok := a.Remove(Zero); ok {
		t.Fatal("Remove(Zero) should fail")
	}
}

func TestArena_StaleGeneration(t *testing.T) {
	a := NewArena()

	h1, _ := a.Put("first")
	a.Remove(h1)

	// Slot gets reused, but under a new generation.
	h2, _ := a.Put("second")
	if h1 == h2 {
		t.Fatal("Reused slot must produce a distinct handle")
	}

	if _, ok := a.Get(h1); ok {
		t.Fatal("Stale handle should not resolve after slot reuse")
	}
	if _, ok := a.Remove(h1); ok {
		t.Fatal("Stale handle should not be removable")
	}

	v, ok := a.Get(h2)
	if !ok || v != "second" {
		t.Fatalf("New handle should resolve, got %v ok=%v", v, ok)
	}
}

func TestArena_DoubleRemove(t *testing.T) {
	a := NewArena()

	h, _ := a.Put("x")
	if _, ok := a.Remove(h); !ok {
		t.Fatal("First Remove failed")
	}
	if _, ok := a.Remove(h); ok {
		t.Fatal("Second Remove should fail")
	}
}

func TestArena_Each(t *testing.T) {
	a := NewArena()

	h1, _ := a.Put("a")
	a.Put("b")
	a.Put("c")
	a.Remove(h1)

	seen := map[any]bool{}
	a.Each(func(h Handle, v any) bool {
		seen[v] = true
		return true
	})

	if len(seen) != 2 || !seen["b"] || !seen["c"] {
		t.Fatalf("Expected live values b and c, got %v", seen)
	}
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestArena_Close(t *testing.T) {
	a := NewArena()
	d := &dropCounter{}

	a.Put(d)
	a.Put("plain")

	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d.count != 1 {
		t.Fatalf("Expected Drop() called once, got %d", d.count)
	}

	if _, err := a.Put("late"); err != ErrClosed {
		t.Fatalf("Expected ErrClosed after Close, got %v", err)
	}
}

func TestArena_FreeListReuse(t *testing.T) {
	a := NewArena()

	h1, _ := a.Put(1)
	h2, _ := a.Put(2)
	a.Remove(h1)
	a.Remove(h2)

	// Two new values should reuse the freed slots rather than grow.
	a.Put(3)
	a.Put(4)

	if a.Len() != 2 {
		t.Fatalf("Expected 2 live handles, got %d", a.Len())
	}
}
