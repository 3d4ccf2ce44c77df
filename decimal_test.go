package edn

import (
	"math/big"
	"testing"
)

// ============================================================
// Parsing
// ============================================================

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		coef  int64
		scale int32
	}{
		{"4.2", 42, 1},
		{"+4.7", 47, 1},
		{"32", 32, 0},
		{"-1.5", -15, 1},
		{"4.122e2", 4122, 1},
		{"97.4E-02", 974, 3},
		{"0.0005", 5, 4},
		{"0", 0, 0},
		{"12e3", 12, -3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDecimal(tt.input)
			if err != nil {
				t.Fatalf("ParseDecimal failed: %v", err)
			}
			if d.Coef().Int64() != tt.coef || d.Scale() != tt.scale {
				t.Errorf("got coef %s scale %d, want %d and %d",
					d.Coef(), d.Scale(), tt.coef, tt.scale)
			}
		})
	}
}

func TestParseDecimal_Invalid(t *testing.T) {
	inputs := []string{"", "abc", "1.2.3", "1e", "--4", ".", "+"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if d, err := ParseDecimal(input); err == nil {
				t.Errorf("ParseDecimal(%q) should fail, got %s", input, d)
			}
		})
	}
}

// ============================================================
// Arithmetic and Comparison
// ============================================================

func TestDecimal_Cmp(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"4.2", "4.20", 0},
		{"4.2", "4.3", -1},
		{"10", "9.99", 1},
		{"-1.5", "1.5", -1},
		{"0", "0.000", 0},
		{"412.2", "4.122e2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, err := ParseDecimal(tt.a)
			if err != nil {
				t.Fatal(err)
			}
			b, err := ParseDecimal(tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if got := a.Cmp(b); got != tt.want {
				t.Errorf("Cmp = %d, want %d", got, tt.want)
			}
			if got := b.Cmp(a); got != -tt.want {
				t.Errorf("reverse Cmp = %d, want %d", got, -tt.want)
			}
		})
	}
}

func TestDecimal_SignNegAbs(t *testing.T) {
	d, _ := ParseDecimal("-4.2")
	if d.Sign() != -1 {
		t.Errorf("Sign = %d, want -1", d.Sign())
	}
	if got := d.Neg().String(); got != "4.2" {
		t.Errorf("Neg = %s, want 4.2", got)
	}
	if got := d.Abs().String(); got != "4.2" {
		t.Errorf("Abs = %s, want 4.2", got)
	}
	if !DecimalFromInt64(0).IsZero() {
		t.Error("zero decimal should report IsZero")
	}
	var zero Decimal
	if !zero.IsZero() || zero.String() != "0" {
		t.Errorf("zero value misbehaves: %s", zero)
	}
}

func TestDecimal_Float64(t *testing.T) {
	d, _ := ParseDecimal("0.974")
	if got := d.Float64(); got != 0.974 {
		t.Errorf("Float64 = %v, want 0.974", got)
	}
	scaled, _ := ParseDecimal("12e3")
	if got := scaled.Float64(); got != 12000 {
		t.Errorf("Float64 = %v, want 12000", got)
	}
}

// ============================================================
// Rendering
// ============================================================

func TestDecimal_String(t *testing.T) {
	tests := []struct {
		coef     int64
		scale    int32
		expected string
	}{
		{42, 1, "4.2"},
		{4, 0, "4"},
		{42, -1, "420"},
		{-15, 1, "-1.5"},
		{974, 3, "0.974"},
		{5, 4, "0.0005"},
		{0, 0, "0"},
		{0, 2, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			d := NewDecimal(big.NewInt(tt.coef), tt.scale)
			if got := d.String(); got != tt.expected {
				t.Errorf("String = %q, want %q", got, tt.expected)
			}
		})
	}
}
