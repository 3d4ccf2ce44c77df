package edn

import (
	"math/big"
	"strings"
	"testing"
)

// ============================================================
// Scalar Printing
// ============================================================

func TestPrint_Scalars(t *testing.T) {
	tests := []struct {
		value    *Value
		expected string
	}{
		{Nil(), "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(1), "1"},
		{Int(-42), "-42"},
		{BigInt(big.NewInt(10000)), "10000N"},
		{Float(0.3), "0.3"},
		{Float(-1180.0), "-1180.0"},
		{Float(1e30), "1e+30"},
		{Str("foo"), `"foo"`},
		{Str("☃"), `"☃"`},
		{Char('a'), `\a`},
		{Char('☃'), `\☃`},
		{Sym("", "foo"), "foo"},
		{Sym("", ".foo"), ".foo"},
		{Sym("", "/"), "/"},
		{Sym("foo", "bar"), "foo/bar"},
		{Kw("", "foo"), ":foo"},
		{Kw("my", "foo"), ":my/foo"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Print(tt.value); got != tt.expected {
				t.Errorf("Print = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPrint_Decimals(t *testing.T) {
	tests := []struct {
		coef     int64
		scale    int32
		expected string
	}{
		{42, 1, "4.2M"},
		{42, 0, "42M"},
		{4, 0, "4M"},
		{-15, 1, "-1.5M"},
		{974, 3, "0.974M"},
		{5, 4, "0.0005M"},
		{42, -1, "420M"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			v := Dec(NewDecimal(big.NewInt(tt.coef), tt.scale))
			if got := Print(v); got != tt.expected {
				t.Errorf("Print = %q, want %q", got, tt.expected)
			}
		})
	}
}

// Named character forms are read-side aliases; the printer always emits
// backslash plus the literal rune, and the result re-reads to the same
// character.
func TestPrint_CharactersAreLiteral(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`\newline`, "\\\n"},
		{`\tab`, "\\\t"},
		{`\return`, "\\\r"},
		{`\space`, `\ `},
		{`\c`, `\c`},
	}

	for _, tt := range tests {
		v := mustParse(t, tt.input)
		if got := Print(v); got != tt.expected {
			t.Errorf("Print(Parse(%q)) = %q, want %q", tt.input, got, tt.expected)
		}
		if again := mustParse(t, Print(v)); !again.Equal(v) {
			t.Errorf("character %q did not round trip: %s vs %s", tt.input, v, again)
		}
	}
}

// Printed floats must re-parse as floats, never as integers.
func TestPrint_FloatAlwaysMarked(t *testing.T) {
	for _, f := range []float64{1, -3, 0, 1e30, 2.5} {
		s := Print(Float(f))
		v := mustParse(t, s)
		if v.Type() != TypeFloat {
			t.Errorf("Print(Float(%v)) = %q re-parsed as %s", f, s, v.Type())
		}
	}
}

// ============================================================
// String Escaping
// ============================================================

func TestPrint_StringEscapes(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"foo\nbar", `"foo\nbar"`},
		{"foo\rbar", `"foo\rbar"`},
		{`foo\bar`, `"foo\\bar"`},
		{`foo"bar`, `"foo\"bar"`},
		{"foo\tbar", `"foo\tbar"`},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Print(Str(tt.value)); got != tt.expected {
				t.Errorf("Print = %q, want %q", got, tt.expected)
			}
		})
	}
}

// Literal newlines in string input are legal but always re-printed in
// escaped form.
func TestPrint_NormalizesRawNewlines(t *testing.T) {
	v := mustParse(t, "\"foo\nbar\"")
	if got := Print(v); got != `"foo\nbar"` {
		t.Errorf("got %q, want %q", got, `"foo\nbar"`)
	}
}

// ============================================================
// Collection Printing
// ============================================================

func TestPrint_Collections(t *testing.T) {
	tests := []struct {
		value    *Value
		expected string
	}{
		{List(), "()"},
		{List(Sym("", "a")), "(a)"},
		{List(List(), List()), "(() ())"},
		{List(Int(1), Int(2)), "(1 2)"},
		{List(Str("b"), Nil()), `("b" nil)`},
		{Vector(), "[]"},
		{Vector(Sym("", "a")), "[a]"},
		{Vector(Vector(), List()), "[[] ()]"},
		{Set(), "#{}"},
		{Set(Int(1), Int(2), Int(3)), "#{1 2 3}"},
		{Map(), "{}"},
		{Map(Pair(Kw("", "foo"), Str("bar"))), `{:foo "bar"}`},
		{Map(Pair(Int(1), Int(2)), Pair(Int(3), Int(4))), "{1 2 3 4}"},
		{Tag(Symbol{Name: "foo"}, Str("bar")), `#foo "bar"`},
		{Tag(Symbol{Prefix: "my", Name: "foo"}, Vector(Int(1))), "#my/foo [1]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Print(tt.value); got != tt.expected {
				t.Errorf("Print = %q, want %q", got, tt.expected)
			}
		})
	}
}

// ============================================================
// Round Trips
// ============================================================

func TestPrint_RoundTrip(t *testing.T) {
	inputs := []string{
		"nil", "true", "42", "-7", "10000N", "3.14", "4.2M", "42M",
		`"hello\nworld"`, `\c`, `\newline`, "foo", "foo/bar", ":foo",
		"(1 2 3)", "[1 [2] 3]", "{:a 1 :b 2}", "#{1 2 3}",
		`#inst "1985-04-12T23:20:50Z"`, "#foo (1 2)",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v := mustParse(t, input)
			again := mustParse(t, Print(v))
			if !v.Equal(again) {
				t.Errorf("round trip changed value: %s vs %s", v, again)
			}
		})
	}
}

func TestPrintStream(t *testing.T) {
	var b strings.Builder
	err := PrintStream(&b, []*Value{Sym("", "foo"), Str("bar")})
	if err != nil {
		t.Fatalf("PrintStream failed: %v", err)
	}
	if got := b.String(); got != "foo\n\"bar\"\n" {
		t.Errorf("got %q, want %q", got, "foo\n\"bar\"\n")
	}
}
