package fragment

import (
	"testing"

	"github.com/zsiec/mmtdemux/mpu"
)

func TestAssembler_NotFragmented(t *testing.T) {
	t.Parallel()

	a := NewAssembler()
	a.CheckState(1)
	out, ok := a.Assemble([]byte("hello"), mpu.NotFragmented, 1)
	if !ok || string(out) != "hello" {
		t.Fatalf("out=%q ok=%v", out, ok)
	}
	if a.State() != Init {
		t.Fatalf("state = %v, want Init", a.State())
	}
}

func TestAssembler_HeadMiddleTail(t *testing.T) {
	t.Parallel()

	a := NewAssembler()

	a.CheckState(10)
	if _, ok := a.Assemble([]byte("AB"), mpu.Head, 10); ok {
		t.Fatal("head should not complete")
	}
	if a.State() != InFragment {
		t.Fatalf("state = %v, want InFragment", a.State())
	}

	a.CheckState(11)
	if _, ok := a.Assemble([]byte("CD"), mpu.Middle, 11); ok {
		t.Fatal("middle should not complete")
	}

	a.CheckState(12)
	out, ok := a.Assemble([]byte("EF"), mpu.Tail, 12)
	if !ok {
		t.Fatal("tail should complete")
	}
	if string(out) != "ABCDEF" {
		t.Fatalf("out = %q, want ABCDEF", out)
	}
	if a.State() != Init {
		t.Fatalf("state = %v, want Init after completion", a.State())
	}
}

func TestAssembler_SequenceGapResets(t *testing.T) {
	t.Parallel()

	a := NewAssembler()
	a.CheckState(10)
	a.Assemble([]byte("AB"), mpu.Head, 10)

	// Gap: expected 11, got 13.
	a.CheckState(13)
	if a.State() != Init {
		t.Fatalf("state after gap = %v, want Init", a.State())
	}

	if _, ok := a.Assemble([]byte("XY"), mpu.Middle, 13); ok {
		t.Fatal("middle with no preceding head after reset should drop, not complete")
	}
}

func TestAssembler_MiddleOrTailWithoutHeadDrops(t *testing.T) {
	t.Parallel()

	a := NewAssembler()
	a.CheckState(1)
	if _, ok := a.Assemble([]byte("x"), mpu.Middle, 1); ok {
		t.Fatal("middle with no head should drop")
	}
	if a.State() != Init {
		t.Fatalf("state = %v, want Init", a.State())
	}
}

func TestRegistry_LazyCreateAndClear(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a1 := r.Get(100)
	a2 := r.Get(100)
	if a1 != a2 {
		t.Fatal("expected the same assembler for the same packet id")
	}

	a1.CheckState(1)
	a1.Assemble([]byte("x"), mpu.Head, 1)
	r.Clear()

	a3 := r.Get(100)
	if a3 == a1 {
		t.Fatal("expected a fresh assembler after Clear")
	}
	if a3.State() != Init {
		t.Fatalf("fresh assembler state = %v, want Init", a3.State())
	}
}
