package edn

import (
	"io"
	"strings"
	"testing"
)

// chunkReader yields its input in fixed-size pieces so boundary handling
// gets exercised at every offset.
type chunkReader struct {
	data []byte
	size int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.size
	if n > len(c.data) {
		n = len(c.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func readAll(t *testing.T, sr *StreamReader) []*Value {
	t.Helper()
	var out []*Value
	for {
		v, err := sr.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, v)
	}
}

// ============================================================
// Basic Streaming
// ============================================================

func TestStreamReader_Sequence(t *testing.T) {
	sr := NewStreamReader(strings.NewReader(`1 2 #{4 5} "foo" [bar qux]`))
	got := readAll(t, sr)
	want := []*Value{
		Int(1), Int(2), Set(Int(4), Int(5)), Str("foo"),
		Vector(Sym("", "bar"), Sym("", "qux")),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("value %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestStreamReader_EOFIsSticky(t *testing.T) {
	sr := NewStreamReader(strings.NewReader("1"))
	if _, err := sr.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := sr.Next(); err != io.EOF {
			t.Fatalf("expected io.EOF, got %v", err)
		}
	}
}

func TestStreamReader_Empty(t *testing.T) {
	for _, input := range []string{"", "  \n, ", "; just a comment", "#_ 42"} {
		t.Run(input, func(t *testing.T) {
			sr := NewStreamReader(strings.NewReader(input))
			if _, err := sr.Next(); err != io.EOF {
				t.Errorf("expected io.EOF, got %v", err)
			}
		})
	}
}

// ============================================================
// Boundary Handling
// ============================================================

// Every form must survive arbitrary read-boundary placement, including
// literals whose bytes land on either side of a chunk edge.
func TestStreamReader_ChunkBoundaries(t *testing.T) {
	input := `123 \newline foo/bar "split string" 10e5 4.25M [1 2 {:a 3}] #inst "1985-04-12T23:20:50Z" #{7 8}`
	want := readAll(t, NewStreamReader(strings.NewReader(input)))

	for size := 1; size <= 8; size++ {
		sr := NewStreamReader(&chunkReader{data: []byte(input), size: size})
		got := readAll(t, sr)
		if len(got) != len(want) {
			t.Fatalf("chunk size %d: got %d values, want %d", size, len(got), len(want))
		}
		for i := range want {
			if !got[i].Equal(want[i]) {
				t.Errorf("chunk size %d: value %d = %s, want %s",
					size, i, got[i], want[i])
			}
		}
	}
}

// An integer ending exactly at a read boundary must not be cut short.
func TestStreamReader_MaximalMunch(t *testing.T) {
	sr := NewStreamReader(&chunkReader{data: []byte("12345 6"), size: 2})
	v, err := sr.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !v.Equal(Int(12345)) {
		t.Errorf("got %s, want 12345", v)
	}
}

func TestStreamReader_TruncatedForm(t *testing.T) {
	inputs := []string{"[1 2", `"abc`, "#foo", "{:a", "#_"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			sr := NewStreamReader(strings.NewReader(input))
			_, err := sr.Next()
			if err == nil || err == io.EOF {
				t.Fatalf("expected a parse error, got %v", err)
			}
			// Errors stick.
			if _, again := sr.Next(); again != err {
				t.Errorf("error not sticky: %v then %v", err, again)
			}
		})
	}
}

func TestStreamReader_ErrorAfterValues(t *testing.T) {
	sr := NewStreamReader(strings.NewReader("1 2 04"))
	if v, err := sr.Next(); err != nil || !v.Equal(Int(1)) {
		t.Fatalf("first Next = %s, %v", v, err)
	}
	if v, err := sr.Next(); err != nil || !v.Equal(Int(2)) {
		t.Fatalf("second Next = %s, %v", v, err)
	}
	if _, err := sr.Next(); err == nil || err == io.EOF {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

// ============================================================
// Positions Across Refills
// ============================================================

func TestStreamReader_PositionsAreAbsolute(t *testing.T) {
	sr := NewStreamReader(&chunkReader{data: []byte("1\n2\n3"), size: 1})
	lines := []int{1, 2, 3}
	for _, want := range lines {
		v, err := sr.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if v.Pos().Line != want {
			t.Errorf("position = %s, want line %d", v.Pos(), want)
		}
	}
}
