package edn

import (
	"fmt"
	"math/big"
)

// Type identifies the variant of a Value.
type Type uint8

const (
	TypeNil Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeDecimal // exact decimal: 4.7M
	TypeChar
	TypeString
	TypeSymbol
	TypeKeyword
	TypeList
	TypeVector
	TypeMap
	TypeSet
	TypeTagged
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeDecimal:
		return "decimal"
	case TypeChar:
		return "character"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeKeyword:
		return "keyword"
	case TypeList:
		return "list"
	case TypeVector:
		return "vector"
	case TypeMap:
		return "map"
	case TypeSet:
		return "set"
	case TypeTagged:
		return "tagged value"
	default:
		return "unknown"
	}
}

// Symbol is a symbolic identifier, optionally namespaced: prefix/name.
// The zero Name is only legal for the literal symbol "/".
type Symbol struct {
	Prefix string
	Name   string
}

// String returns the symbol in prefix/name form.
func (s Symbol) String() string {
	if s.Prefix != "" {
		return s.Prefix + "/" + s.Name
	}
	return s.Name
}

// Keyword is a keyword identifier: :name or :prefix/name. It is a distinct
// type from Symbol; :foo and foo are never equal.
type Keyword struct {
	Prefix string
	Name   string
}

// String returns the keyword with its leading colon.
func (k Keyword) String() string {
	if k.Prefix != "" {
		return ":" + k.Prefix + "/" + k.Name
	}
	return ":" + k.Name
}

// Tagged carries a tagged element whose tag had no reader during Decode.
type Tagged struct {
	Tag   Symbol
	Value interface{}
}

// Entry is one key/value pair of a map value.
type Entry struct {
	Key   *Value
	Value *Value
}

// Position is a source location within parsed input.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Value is one edn element. Values are immutable once constructed; the
// mutating surface is limited to SetPos, which only affects error
// reporting, never equality.
type Value struct {
	typ Type

	// Scalar payloads (one valid based on typ)
	boolVal  bool
	intVal   *big.Int
	bigLit   bool // literal carried the explicit N suffix
	floatVal float64
	decVal   Decimal
	charVal  rune
	strVal   string
	symVal   Symbol // Symbol, Keyword, and the tag of a tagged value

	// Composite payloads
	elems   []*Value // List, Vector, Set
	entries []Entry  // Map
	inner   *Value   // Tagged payload

	// Source location for error reporting
	pos Position
}

// ============================================================
// Constructors
// ============================================================

// Nil creates the nil value.
func Nil() *Value {
	return &Value{typ: TypeNil}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{typ: TypeBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{typ: TypeInt, intVal: big.NewInt(v)}
}

// BigInt creates an integer value that prints with the explicit N suffix.
func BigInt(v *big.Int) *Value {
	return &Value{typ: TypeInt, intVal: new(big.Int).Set(v), bigLit: true}
}

// Float creates a binary float value.
func Float(v float64) *Value {
	return &Value{typ: TypeFloat, floatVal: v}
}

// Dec creates an exact decimal value.
func Dec(v Decimal) *Value {
	return &Value{typ: TypeDecimal, decVal: v}
}

// Char creates a character value.
func Char(v rune) *Value {
	return &Value{typ: TypeChar, charVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{typ: TypeString, strVal: v}
}

// Sym creates a symbol value. Pass an empty prefix for a plain symbol.
func Sym(prefix, name string) *Value {
	return &Value{typ: TypeSymbol, symVal: Symbol{Prefix: prefix, Name: name}}
}

// Kw creates a keyword value. Pass an empty prefix for a plain keyword.
func Kw(prefix, name string) *Value {
	return &Value{typ: TypeKeyword, symVal: Symbol{Prefix: prefix, Name: name}}
}

// List creates a list value.
func List(elems ...*Value) *Value {
	return &Value{typ: TypeList, elems: elems}
}

// Vector creates a vector value.
func Vector(elems ...*Value) *Value {
	return &Value{typ: TypeVector, elems: elems}
}

// Set creates a set value, deduplicating elements under structural
// equality. Element order is preserved for printing but carries no meaning.
func Set(elems ...*Value) *Value {
	var out []*Value
	for _, e := range elems {
		dup := false
		for _, have := range out {
			if have.Equal(e) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return &Value{typ: TypeSet, elems: out}
}

// Map creates a map value. Keys are unique under structural equality; a
// later pair with an equal key replaces the earlier value.
func Map(entries ...Entry) *Value {
	var out []Entry
	for _, en := range entries {
		replaced := false
		for i := range out {
			if out[i].Key.Equal(en.Key) {
				out[i].Value = en.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, en)
		}
	}
	return &Value{typ: TypeMap, entries: out}
}

// Pair creates a map Entry.
func Pair(key, value *Value) Entry {
	return Entry{Key: key, Value: value}
}

// Tag creates a tagged value: #tag payload.
func Tag(tag Symbol, value *Value) *Value {
	return &Value{typ: TypeTagged, symVal: tag, inner: value}
}

// ============================================================
// Accessors
// ============================================================

// Type returns the value variant.
func (v *Value) Type() Type {
	if v == nil {
		return TypeNil
	}
	return v.typ
}

// IsNil returns true for the nil value.
func (v *Value) IsNil() bool {
	return v == nil || v.typ == TypeNil
}

func (v *Value) typeErr(want Type) error {
	if v == nil {
		return fmt.Errorf("edn: nil value")
	}
	return fmt.Errorf("edn: expected %s, got %s", want, v.typ)
}

// AsBool returns the boolean payload.
func (v *Value) AsBool() (bool, error) {
	if v == nil || v.typ != TypeBool {
		return false, v.typeErr(TypeBool)
	}
	return v.boolVal, nil
}

// AsInt returns a copy of the integer payload.
func (v *Value) AsInt() (*big.Int, error) {
	if v == nil || v.typ != TypeInt {
		return nil, v.typeErr(TypeInt)
	}
	return new(big.Int).Set(v.intVal), nil
}

// AsInt64 returns the integer payload as an int64, or an error when the
// value does not fit.
func (v *Value) AsInt64() (int64, error) {
	if v == nil || v.typ != TypeInt {
		return 0, v.typeErr(TypeInt)
	}
	if !v.intVal.IsInt64() {
		return 0, fmt.Errorf("edn: integer %s overflows int64", v.intVal)
	}
	return v.intVal.Int64(), nil
}

// AsFloat returns the float payload.
func (v *Value) AsFloat() (float64, error) {
	if v == nil || v.typ != TypeFloat {
		return 0, v.typeErr(TypeFloat)
	}
	return v.floatVal, nil
}

// AsDecimal returns the exact decimal payload.
func (v *Value) AsDecimal() (Decimal, error) {
	if v == nil || v.typ != TypeDecimal {
		return Decimal{}, v.typeErr(TypeDecimal)
	}
	return v.decVal, nil
}

// AsChar returns the character payload.
func (v *Value) AsChar() (rune, error) {
	if v == nil || v.typ != TypeChar {
		return 0, v.typeErr(TypeChar)
	}
	return v.charVal, nil
}

// AsStr returns the string payload.
func (v *Value) AsStr() (string, error) {
	if v == nil || v.typ != TypeString {
		return "", v.typeErr(TypeString)
	}
	return v.strVal, nil
}

// AsSymbol returns the symbol payload.
func (v *Value) AsSymbol() (Symbol, error) {
	if v == nil || v.typ != TypeSymbol {
		return Symbol{}, v.typeErr(TypeSymbol)
	}
	return v.symVal, nil
}

// AsKeyword returns the keyword payload.
func (v *Value) AsKeyword() (Keyword, error) {
	if v == nil || v.typ != TypeKeyword {
		return Keyword{}, v.typeErr(TypeKeyword)
	}
	return Keyword{Prefix: v.symVal.Prefix, Name: v.symVal.Name}, nil
}

// AsList returns the list elements.
func (v *Value) AsList() ([]*Value, error) {
	if v == nil || v.typ != TypeList {
		return nil, v.typeErr(TypeList)
	}
	return v.elems, nil
}

// AsVector returns the vector elements.
func (v *Value) AsVector() ([]*Value, error) {
	if v == nil || v.typ != TypeVector {
		return nil, v.typeErr(TypeVector)
	}
	return v.elems, nil
}

// AsSet returns the set elements in print order.
func (v *Value) AsSet() ([]*Value, error) {
	if v == nil || v.typ != TypeSet {
		return nil, v.typeErr(TypeSet)
	}
	return v.elems, nil
}

// AsMap returns the map entries in print order.
func (v *Value) AsMap() ([]Entry, error) {
	if v == nil || v.typ != TypeMap {
		return nil, v.typeErr(TypeMap)
	}
	return v.entries, nil
}

// AsTagged returns the tag and payload of a tagged value.
func (v *Value) AsTagged() (Symbol, *Value, error) {
	if v == nil || v.typ != TypeTagged {
		return Symbol{}, nil, v.typeErr(TypeTagged)
	}
	return v.symVal, v.inner, nil
}

// Len returns the element count of a collection, or 0 otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.typ {
	case TypeList, TypeVector, TypeSet:
		return len(v.elems)
	case TypeMap:
		return len(v.entries)
	default:
		return 0
	}
}

// Get returns the value mapped to key in a map value, or nil.
func (v *Value) Get(key *Value) *Value {
	if v == nil || v.typ != TypeMap {
		return nil
	}
	for _, en := range v.entries {
		if en.Key.Equal(key) {
			return en.Value
		}
	}
	return nil
}

// Pos returns the source position of this value.
func (v *Value) Pos() Position {
	if v == nil {
		return Position{}
	}
	return v.pos
}

// SetPos sets the source position.
func (v *Value) SetPos(pos Position) {
	v.pos = pos
}

// ============================================================
// Equality
// ============================================================

// Equal reports structural equality. Variants must match: a list and a
// vector are never equal even with identical elements. Map and set
// comparison ignores element order. Integer comparison ignores the N
// provenance marker, and decimal comparison is numeric, so 4.20M equals
// 4.2M. Source positions never participate.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeNil:
		return true
	case TypeBool:
		return v.boolVal == o.boolVal
	case TypeInt:
		return v.intVal.Cmp(o.intVal) == 0
	case TypeFloat:
		return v.floatVal == o.floatVal
	case TypeDecimal:
		return v.decVal.Cmp(o.decVal) == 0
	case TypeChar:
		return v.charVal == o.charVal
	case TypeString:
		return v.strVal == o.strVal
	case TypeSymbol, TypeKeyword:
		return v.symVal == o.symVal
	case TypeList, TypeVector:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case TypeSet:
		// Both sides are deduplicated, so equal size plus containment
		// implies equality.
		if len(v.elems) != len(o.elems) {
			return false
		}
		for _, e := range v.elems {
			found := false
			for _, oe := range o.elems {
				if e.Equal(oe) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case TypeMap:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for _, en := range v.entries {
			ov := o.Get(en.Key)
			if ov == nil || !en.Value.Equal(ov) {
				return false
			}
		}
		return true
	case TypeTagged:
		return v.symVal == o.symVal && v.inner.Equal(o.inner)
	default:
		return false
	}
}

// String returns the canonical edn rendering of the value.
func (v *Value) String() string {
	return Print(v)
}
