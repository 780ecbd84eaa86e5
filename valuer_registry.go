package redisdict

import (
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Wire names of the built-in tags. A tagged value is written as a JSON
// object with exactly one member whose name is the tag.
const (
	TagTuple  = " t"
	TagBytes  = " b"
	TagMarkup = " m"
	TagUUID   = " u"
	TagTime   = " d"

	// mapping whose only key collides with a tag name
	tagDict = " di"
	// compressed payload, see CodecOpt.CompressThreshold
	tagCompress = " z"
)

// Tag serializes one extended type. Check claims native Go values for the
// tag, ToWire turns the payload into a plain Value that the codec can write,
// FromWire reverses it.
//
// Register application types with Codec.Register; names starting with a
// space never collide with ordinary mapping keys in practice.
type Tag interface {
	Name() string
	Check(x interface{}) bool
	ToWire(x interface{}) (Value, error)
	FromWire(v Value) (interface{}, error)
}

func builtinTags() []Tag {
	return []Tag{tupleTag{}, bytesTag{}, markupTag{}, uuidTag{}, timeTag{}}
}

func wrongPayload(tag string, want Kind, got Value) error {
	return errors.Errorf("tag %q wants a %s payload, got %s", tag, want, got.Kind())
}

func wrongType(tag string, x interface{}) error {
	return errors.Errorf("tag %q can not serialize %T", tag, x)
}

// ====== tuple ======

type tupleTag struct{}

func (tupleTag) Name() string { return TagTuple }

func (tupleTag) Check(x interface{}) bool {
	_, ok := x.(Tuple)
	return ok
}

func (tupleTag) ToWire(x interface{}) (Value, error) {
	t, ok := x.(Tuple)
	if !ok {
		return Value{}, wrongType(TagTuple, x)
	}
	return Sequence(t...), nil
}

func (tupleTag) FromWire(v Value) (interface{}, error) {
	seq, ok := v.AsSequence()
	if !ok {
		return nil, wrongPayload(TagTuple, KindSequence, v)
	}
	return Tuple(seq), nil
}

// ====== bytes ======

type bytesTag struct{}

func (bytesTag) Name() string { return TagBytes }

func (bytesTag) Check(x interface{}) bool {
	_, ok := x.([]byte)
	return ok
}

func (bytesTag) ToWire(x interface{}) (Value, error) {
	b, ok := x.([]byte)
	if !ok {
		return Value{}, wrongType(TagBytes, x)
	}
	return Text(base64.StdEncoding.EncodeToString(b)), nil
}

func (bytesTag) FromWire(v Value) (interface{}, error) {
	s, ok := v.AsText()
	if !ok {
		return nil, wrongPayload(TagBytes, KindText, v)
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode bytes fail")
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

// ====== markup ======

type markupTag struct{}

func (markupTag) Name() string { return TagMarkup }

func (markupTag) Check(x interface{}) bool {
	_, ok := x.(Markup)
	return ok
}

func (markupTag) ToWire(x interface{}) (Value, error) {
	m, ok := x.(Markup)
	if !ok {
		return Value{}, wrongType(TagMarkup, x)
	}
	return Text(string(m)), nil
}

func (markupTag) FromWire(v Value) (interface{}, error) {
	s, ok := v.AsText()
	if !ok {
		return nil, wrongPayload(TagMarkup, KindText, v)
	}
	return Markup(s), nil
}

// ====== uuid ======

type uuidTag struct{}

func (uuidTag) Name() string { return TagUUID }

func (uuidTag) Check(x interface{}) bool {
	_, ok := x.(uuid.UUID)
	return ok
}

func (uuidTag) ToWire(x interface{}) (Value, error) {
	u, ok := x.(uuid.UUID)
	if !ok {
		return Value{}, wrongType(TagUUID, x)
	}
	return Text(hex.EncodeToString(u[:])), nil
}

func (uuidTag) FromWire(v Value) (interface{}, error) {
	s, ok := v.AsText()
	if !ok {
		return nil, wrongPayload(TagUUID, KindText, v)
	}

	// only the 32 hex digit form is written
	if len(s) != 32 {
		return nil, errors.Errorf("invalid uuid length %d", len(s))
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode uuid fail")
	}
	return u, nil
}

// ====== time ======

type timeTag struct{}

func (timeTag) Name() string { return TagTime }

func (timeTag) Check(x interface{}) bool {
	_, ok := x.(time.Time)
	return ok
}

func (timeTag) ToWire(x interface{}) (Value, error) {
	t, ok := x.(time.Time)
	if !ok {
		return Value{}, wrongType(TagTime, x)
	}
	if y := t.Year(); y < 0 || y > 9999 {
		return Value{}, errors.Errorf("year %d out of range", y)
	}
	// RFC 3339 offsets stop at minutes
	if _, off := t.Zone(); off%60 != 0 {
		return Value{}, errors.Errorf("zone offset %ds is not whole minutes", off)
	}
	return Text(t.Format(time.RFC3339Nano)), nil
}

func (timeTag) FromWire(v Value) (interface{}, error) {
	s, ok := v.AsText()
	if !ok {
		return nil, wrongPayload(TagTime, KindText, v)
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, errors.Wrap(err, "decode time fail")
	}
	return t, nil
}
