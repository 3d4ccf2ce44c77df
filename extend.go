package edn

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// ReadHandler converts the decoded payload of a tagged element into a
// richer native value. The payload has already been decoded recursively.
type ReadHandler func(interface{}) (interface{}, error)

// ReadHandlers maps tag symbols to their read handlers.
type ReadHandlers map[Symbol]ReadHandler

// DefaultReader is consulted for tagged elements whose tag has no
// handler. When nil, unknown tags decode to a Tagged carrier.
type DefaultReader func(tag Symbol, value interface{}) (interface{}, error)

// WriteHandler turns matching native values into tagged elements while
// encoding. Handlers are tried in order; the first Match wins. Convert
// produces the payload, which is then encoded recursively and wrapped
// in Tag.
type WriteHandler struct {
	Match   func(interface{}) bool
	Tag     Symbol
	Convert func(interface{}) (interface{}, error)
}

// DefaultWriter is consulted for native values nothing else can encode.
// Its result is encoded again from the top. When nil, such values
// produce an EncodeError.
type DefaultWriter func(interface{}) (interface{}, error)

// EncodeError reports a native value that could not be turned into edn.
type EncodeError struct {
	Value interface{}
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("edn: cannot encode value of type %T", e.Value)
}

// Tags with built-in handlers.
var (
	TagInst = Symbol{Name: "inst"}
	TagUUID = Symbol{Name: "uuid"}
)

// BuiltinReadHandlers returns a fresh table of the built-in tag readers:
// #inst to time.Time and #uuid to uuid.UUID. Caller-supplied handlers
// for the same tags take precedence.
func BuiltinReadHandlers() ReadHandlers {
	return ReadHandlers{
		TagInst: func(payload interface{}) (interface{}, error) {
			s, ok := payload.(string)
			if !ok {
				return nil, fmt.Errorf("edn: #inst expects a string, got %T", payload)
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, fmt.Errorf("edn: invalid #inst %q: %w", s, err)
			}
			return t, nil
		},
		TagUUID: func(payload interface{}) (interface{}, error) {
			s, ok := payload.(string)
			if !ok {
				return nil, fmt.Errorf("edn: #uuid expects a string, got %T", payload)
			}
			u, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("edn: invalid #uuid %q: %w", s, err)
			}
			return u, nil
		},
	}
}

// BuiltinWriteHandlers returns the built-in write handlers for time.Time
// and uuid.UUID. Caller-supplied handlers run first and may shadow them.
func BuiltinWriteHandlers() []WriteHandler {
	return []WriteHandler{
		{
			Match: func(x interface{}) bool { _, ok := x.(time.Time); return ok },
			Tag:   TagInst,
			Convert: func(x interface{}) (interface{}, error) {
				return x.(time.Time).Format(time.RFC3339Nano), nil
			},
		},
		{
			Match: func(x interface{}) bool { _, ok := x.(uuid.UUID); return ok },
			Tag:   TagUUID,
			Convert: func(x interface{}) (interface{}, error) {
				return x.(uuid.UUID).String(), nil
			},
		},
	}
}

// ============================================================
// Decoding: Value to native Go
// ============================================================

type decoder struct {
	readers ReadHandlers
	def     DefaultReader
}

func newDecoder(readers ReadHandlers, def DefaultReader) *decoder {
	merged := BuiltinReadHandlers()
	for tag, h := range readers {
		merged[tag] = h
	}
	return &decoder{readers: merged, def: def}
}

// Decode converts a value into native Go data. Scalars map to their
// native counterparts, lists and vectors to []interface{}, maps to
// map[interface{}]interface{}, and sets to map[interface{}]struct{}.
// Integers decode to int64 when they fit and had no N suffix, otherwise
// to *big.Int.
//
// Tagged elements consult readers (merged over the builtins, caller
// entries winning), then def; with neither, they decode to a Tagged
// carrier rather than failing.
//
// A set element or map key that is not a valid Go map key, such as a
// decoded collection, is a decode error.
func Decode(v *Value, readers ReadHandlers, def DefaultReader) (interface{}, error) {
	return newDecoder(readers, def).decode(v)
}

func (d *decoder) decode(v *Value) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch v.typ {
	case TypeNil:
		return nil, nil
	case TypeBool:
		return v.boolVal, nil
	case TypeInt:
		if !v.bigLit && v.intVal.IsInt64() {
			return v.intVal.Int64(), nil
		}
		return new(big.Int).Set(v.intVal), nil
	case TypeFloat:
		return v.floatVal, nil
	case TypeDecimal:
		return v.decVal, nil
	case TypeChar:
		return v.charVal, nil
	case TypeString:
		return v.strVal, nil
	case TypeSymbol:
		return v.symVal, nil
	case TypeKeyword:
		return Keyword{Prefix: v.symVal.Prefix, Name: v.symVal.Name}, nil
	case TypeList, TypeVector:
		out := make([]interface{}, len(v.elems))
		for i, e := range v.elems {
			dec, err := d.decode(e)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil
	case TypeSet:
		out := make(map[interface{}]struct{}, len(v.elems))
		for _, e := range v.elems {
			dec, err := d.decode(e)
			if err != nil {
				return nil, err
			}
			if !isMapKeyable(dec) {
				return nil, fmt.Errorf("edn: set element of type %T is not hashable", dec)
			}
			out[dec] = struct{}{}
		}
		return out, nil
	case TypeMap:
		out := make(map[interface{}]interface{}, len(v.entries))
		for _, en := range v.entries {
			k, err := d.decode(en.Key)
			if err != nil {
				return nil, err
			}
			if !isMapKeyable(k) {
				return nil, fmt.Errorf("edn: map key of type %T is not hashable", k)
			}
			val, err := d.decode(en.Value)
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	case TypeTagged:
		payload, err := d.decode(v.inner)
		if err != nil {
			return nil, err
		}
		if h, ok := d.readers[v.symVal]; ok {
			return h(payload)
		}
		if d.def != nil {
			return d.def(v.symVal, payload)
		}
		return Tagged{Tag: v.symVal, Value: payload}, nil
	default:
		return nil, fmt.Errorf("edn: cannot decode %s value", v.typ)
	}
}

// isMapKeyable checks the dynamic value, not just its type: a Tagged
// carrier is a comparable struct type but still panics as a map key when
// its payload holds a slice or map.
func isMapKeyable(x interface{}) bool {
	if x == nil {
		return true
	}
	return reflect.ValueOf(x).Comparable()
}

// ============================================================
// Encoding: native Go to Value
// ============================================================

type encoder struct {
	writers []WriteHandler
	def     DefaultWriter
}

func newEncoder(writers []WriteHandler, def DefaultWriter) *encoder {
	chain := make([]WriteHandler, 0, len(writers)+2)
	chain = append(chain, writers...)
	chain = append(chain, BuiltinWriteHandlers()...)
	return &encoder{writers: chain, def: def}
}

// Encode converts native Go data into a value. Slices become vectors,
// arrays become lists, maps become maps, and a map with a struct{}
// element type becomes a set. *Value, Symbol, Keyword, and Tagged pass
// through at the value level.
//
// Write handlers run before the structural mapping: caller handlers
// first, then the builtins for time.Time and uuid.UUID. A value no rule
// covers goes to def, whose result is encoded again; with no def it is
// an EncodeError.
func Encode(obj interface{}, writers []WriteHandler, def DefaultWriter) (*Value, error) {
	return newEncoder(writers, def).encode(obj)
}

func (e *encoder) encode(obj interface{}) (*Value, error) {
	if obj == nil {
		return Nil(), nil
	}
	switch x := obj.(type) {
	case *Value:
		return x, nil
	case Symbol:
		return &Value{typ: TypeSymbol, symVal: x}, nil
	case Keyword:
		return &Value{typ: TypeKeyword, symVal: Symbol{Prefix: x.Prefix, Name: x.Name}}, nil
	case Tagged:
		inner, err := e.encode(x.Value)
		if err != nil {
			return nil, err
		}
		return Tag(x.Tag, inner), nil
	}

	for _, h := range e.writers {
		if h.Match(obj) {
			conv, err := h.Convert(obj)
			if err != nil {
				return nil, err
			}
			inner, err := e.encode(conv)
			if err != nil {
				return nil, err
			}
			return Tag(h.Tag, inner), nil
		}
	}

	switch x := obj.(type) {
	case bool:
		return Bool(x), nil
	case string:
		return Str(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return uintValue(uint64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return uintValue(x), nil
	case *big.Int:
		if x == nil {
			return Nil(), nil
		}
		return BigInt(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case Decimal:
		return Dec(x), nil
	case []interface{}:
		elems := make([]*Value, len(x))
		for i, el := range x {
			ev, err := e.encode(el)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return Vector(elems...), nil
	case map[interface{}]struct{}:
		var elems []*Value
		for el := range x {
			ev, err := e.encode(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ev)
		}
		return Set(elems...), nil
	case map[interface{}]interface{}:
		var entries []Entry
		for k, val := range x {
			kv, err := e.encode(k)
			if err != nil {
				return nil, err
			}
			vv, err := e.encode(val)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Key: kv, Value: vv})
		}
		return Map(entries...), nil
	}

	if v, ok, err := e.encodeReflect(obj); err != nil {
		return nil, err
	} else if ok {
		return v, nil
	}

	if e.def != nil {
		conv, err := e.def(obj)
		if err != nil {
			return nil, err
		}
		return e.encode(conv)
	}
	return nil, &EncodeError{Value: obj}
}

func uintValue(u uint64) *Value {
	if u <= math.MaxInt64 {
		return Int(int64(u))
	}
	return &Value{typ: TypeInt, intVal: new(big.Int).SetUint64(u)}
}

var structEmpty = reflect.TypeOf(struct{}{})

// encodeReflect covers typed slices, arrays, and maps that the
// interface fast paths above cannot see, plus named scalar types.
func (e *encoder) encodeReflect(obj interface{}) (*Value, bool, error) {
	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintValue(rv.Uint()), true, nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), true, nil
	case reflect.String:
		return Str(rv.String()), true, nil
	case reflect.Slice:
		elems := make([]*Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := e.encode(rv.Index(i).Interface())
			if err != nil {
				return nil, false, err
			}
			elems[i] = ev
		}
		return Vector(elems...), true, nil
	case reflect.Array:
		elems := make([]*Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := e.encode(rv.Index(i).Interface())
			if err != nil {
				return nil, false, err
			}
			elems[i] = ev
		}
		return List(elems...), true, nil
	case reflect.Map:
		if rv.Type().Elem() == structEmpty {
			var elems []*Value
			iter := rv.MapRange()
			for iter.Next() {
				ev, err := e.encode(iter.Key().Interface())
				if err != nil {
					return nil, false, err
				}
				elems = append(elems, ev)
			}
			return Set(elems...), true, nil
		}
		var entries []Entry
		iter := rv.MapRange()
		for iter.Next() {
			kv, err := e.encode(iter.Key().Interface())
			if err != nil {
				return nil, false, err
			}
			vv, err := e.encode(iter.Value().Interface())
			if err != nil {
				return nil, false, err
			}
			entries = append(entries, Entry{Key: kv, Value: vv})
		}
		return Map(entries...), true, nil
	}
	return nil, false, nil
}

// ============================================================
// Convenience wrappers
// ============================================================

// Loads parses one edn form and decodes it to native Go data.
func Loads(input string, readers ReadHandlers, def DefaultReader) (interface{}, error) {
	v, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return Decode(v, readers, def)
}

// Dumps encodes native Go data and renders it as edn text.
func Dumps(obj interface{}, writers []WriteHandler, def DefaultWriter) (string, error) {
	v, err := Encode(obj, writers, def)
	if err != nil {
		return "", err
	}
	return Print(v), nil
}

// Decoder lazily reads forms from a source and decodes each to native
// Go data. The handler tables are captured once at construction.
type Decoder struct {
	sr  *StreamReader
	dec *decoder
}

// NewDecoder creates a decoding stream reader over r.
func NewDecoder(r io.Reader, readers ReadHandlers, def DefaultReader) *Decoder {
	return &Decoder{sr: NewStreamReader(r), dec: newDecoder(readers, def)}
}

// Next returns the next decoded form, or io.EOF after the final one.
func (d *Decoder) Next() (interface{}, error) {
	v, err := d.sr.Next()
	if err != nil {
		return nil, err
	}
	return d.dec.decode(v)
}

// Dump encodes each object and writes it as one line of edn text.
func Dump(w io.Writer, objs []interface{}, writers []WriteHandler, def DefaultWriter) error {
	enc := newEncoder(writers, def)
	for _, obj := range objs {
		v, err := enc.encode(obj)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, Print(v)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
