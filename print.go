package edn

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Print renders a value as canonical edn text. The output always
// re-parses to an equal value; in particular strings are printed with
// escaped newlines even when the parsed input carried literal ones, and
// floats always carry a decimal point or exponent.
func Print(v *Value) string {
	var b strings.Builder
	printValue(&b, v)
	return b.String()
}

// PrintStream writes each value as one line of edn text.
func PrintStream(w io.Writer, values []*Value) error {
	for _, v := range values {
		if _, err := io.WriteString(w, Print(v)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func printValue(b *strings.Builder, v *Value) {
	if v == nil {
		b.WriteString("nil")
		return
	}
	switch v.typ {
	case TypeNil:
		b.WriteString("nil")
	case TypeBool:
		if v.boolVal {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case TypeInt:
		b.WriteString(v.intVal.String())
		if v.bigLit {
			b.WriteByte('N')
		}
	case TypeFloat:
		printFloat(b, v.floatVal)
	case TypeDecimal:
		b.WriteString(v.decVal.String())
		b.WriteByte('M')
	case TypeChar:
		printChar(b, v.charVal)
	case TypeString:
		printString(b, v.strVal)
	case TypeSymbol:
		b.WriteString(v.symVal.String())
	case TypeKeyword:
		b.WriteByte(':')
		b.WriteString(v.symVal.String())
	case TypeList:
		printElems(b, "(", ")", v.elems)
	case TypeVector:
		printElems(b, "[", "]", v.elems)
	case TypeSet:
		printElems(b, "#{", "}", v.elems)
	case TypeMap:
		b.WriteByte('{')
		for i, en := range v.entries {
			if i > 0 {
				b.WriteByte(' ')
			}
			printValue(b, en.Key)
			b.WriteByte(' ')
			printValue(b, en.Value)
		}
		b.WriteByte('}')
	case TypeTagged:
		b.WriteByte('#')
		b.WriteString(v.symVal.String())
		b.WriteByte(' ')
		printValue(b, v.inner)
	default:
		fmt.Fprintf(b, "#<invalid %d>", v.typ)
	}
}

func printElems(b *strings.Builder, open, close string, elems []*Value) {
	b.WriteString(open)
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(' ')
		}
		printValue(b, e)
	}
	b.WriteString(close)
}

// printFloat uses the shortest representation that round-trips, forcing
// a trailing .0 when the result would otherwise read back as an integer.
func printFloat(b *strings.Builder, f float64) {
	switch {
	case math.IsNaN(f):
		b.WriteString("NaN")
		return
	case math.IsInf(f, 1):
		b.WriteString("Infinity")
		return
	case math.IsInf(f, -1):
		b.WriteString("-Infinity")
		return
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	b.WriteString(s)
	if !strings.ContainsAny(s, ".eE") {
		b.WriteString(".0")
	}
}

// printChar writes backslash plus the literal rune. The named forms
// (\newline and friends) are read-side aliases only.
func printChar(b *strings.Builder, r rune) {
	b.WriteByte('\\')
	b.WriteRune(r)
}

func printString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
}
