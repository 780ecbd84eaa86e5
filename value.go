package redisdict

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// Kind is the variant of a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindSequence
	KindMapping
	KindExtended
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindText:     "text",
	KindSequence: "sequence",
	KindMapping:  "mapping",
	KindExtended: "extended",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is a structured value that can be stored in a hash field.
// The zero Value is Null.
type Value struct {
	kind Kind

	b   bool
	i   int64
	f   float64
	s   string // text, or the tag name of an extended value
	seq []Value
	m   map[string]Value
	ext interface{}
}

// Tuple is a sequence that keeps its identity through the codec,
// it never decodes back as a plain Sequence.
type Tuple []Value

// Markup is text that is already safe HTML.
type Markup string

func Null() Value                { return Value{} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Int(i int64) Value          { return Value{kind: KindInt, i: i} }
func Float(f float64) Value      { return Value{kind: KindFloat, f: f} }
func Text(s string) Value        { return Value{kind: KindText, s: s} }
func Sequence(vs ...Value) Value { return Value{kind: KindSequence, seq: vs} }

func Mapping(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMapping, m: m}
}

// Ext builds an extended value, x is serialized by the tag registered under tag.
func Ext(tag string, x interface{}) Value {
	return Value{kind: KindExtended, s: tag, ext: x}
}

func Time(t time.Time) Value    { return Ext(TagTime, t) }
func Bytes(b []byte) Value      { return Ext(TagBytes, b) }
func UUID(u uuid.UUID) Value    { return Ext(TagUUID, u) }
func TupleOf(vs ...Value) Value { return Ext(TagTuple, Tuple(vs)) }
func MarkupOf(s string) Value   { return Ext(TagMarkup, Markup(s)) }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }
func (v Value) AsText() (string, bool)   { return v.s, v.kind == KindText }

func (v Value) AsSequence() ([]Value, bool) {
	return v.seq, v.kind == KindSequence
}

func (v Value) AsMapping() (map[string]Value, bool) {
	return v.m, v.kind == KindMapping
}

// AsExtended returns the tag name and payload of an extended value
func (v Value) AsExtended() (string, interface{}, bool) {
	if v.kind != KindExtended {
		return "", nil, false
	}
	return v.s, v.ext, true
}

// Interface returns the native Go form: nil, bool, int64, float64, string,
// []interface{}, map[string]interface{} or the extended payload.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindSequence:
		res := make([]interface{}, len(v.seq))
		for i, e := range v.seq {
			res[i] = e.Interface()
		}
		return res
	case KindMapping:
		res := make(map[string]interface{}, len(v.m))
		for k, e := range v.m {
			res[k] = e.Interface()
		}
		return res
	case KindExtended:
		return v.ext
	}
	return nil
}

// Equal reports structural equality, extended payloads are compared with
// their own Equal method when they have one.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindText:
		return v.s == o.s
	case KindSequence:
		return equalValues(v.seq, o.seq)
	case KindMapping:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, e := range v.m {
			oe, ok := o.m[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	case KindExtended:
		if v.s != o.s {
			return false
		}
		return equalExt(v.ext, o.ext)
	}
	return false
}

func equalExt(a, b interface{}) bool {
	switch x := a.(type) {
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalValues(x, y)
	}
	return cmp.Equal(a, b, cmp.Exporter(func(reflect.Type) bool { return true }))
}

func equalValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// stringCodec is never given extra tags
var stringCodec = DefaultCodec()

func (v Value) String() string {
	s, err := stringCodec.Encode(v)
	if err != nil {
		return fmt.Sprintf("%s(%v)", v.kind, v.Interface())
	}
	return s
}

// sortedKeys of a mapping, encoding writes keys in this order
func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
