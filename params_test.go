package latticesim

import "testing"

func TestParamBlockEncode(t *testing.T) {
	p := paramBlock{width: 20, height: 30, depth: 40, stepCount: 7}
	buf := p.encode()

	if len(buf) != paramsByteSize {
		t.Fatalf("expected %d bytes, got %d", paramsByteSize, len(buf))
	}

	want := []byte{
		20, 0, 0, 0,
		30, 0, 0, 0,
		40, 0, 0, 0,
		7, 0, 0, 0,
	}
	for i, b := range want {
		if buf[i] != b {
			t.Fatalf("byte %d: want %d, got %d", i, b, buf[i])
		}
	}
}

func TestIdxLinearization(t *testing.T) {
	w, h, d := 4, 5, 6
	if got := idx(0, 0, 0, w, h, d); got != 0 {
		t.Fatalf("origin index: want 0, got %d", got)
	}
	if got := idx(1, 0, 0, w, h, d); got != 1 {
		t.Fatalf("x=1 index: want 1, got %d", got)
	}
	if got := idx(0, 1, 0, w, h, d); got != w {
		t.Fatalf("y=1 index: want %d, got %d", w, got)
	}
	if got := idx(0, 0, 1, w, h, d); got != w*h {
		t.Fatalf("z=1 index: want %d, got %d", w*h, got)
	}
	if got := idx(w, 0, 0, w, h, d); got != -1 {
		t.Fatalf("out of range x: want -1, got %d", got)
	}
	if got := idx(-1, 0, 0, w, h, d); got != -1 {
		t.Fatalf("negative x: want -1, got %d", got)
	}
	if !inBounds(3, 4, 5, w, h, d) {
		t.Fatalf("expected (3,4,5) in bounds for %dx%dx%d", w, h, d)
	}
	if inBounds(4, 4, 5, w, h, d) {
		t.Fatalf("expected (4,4,5) out of bounds for %dx%dx%d", w, h, d)
	}
}
