package redisdict

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"redisdict/compressor"
	"redisdict/registry"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var jsonAPI = jsoniter.Config{
	EscapeHTML: false,
	UseNumber:  true,
}.Froze()

type CodecOpt struct {
	// Tags are registered after the built-in ones
	Tags []Tag

	// CompressThreshold > 0 compresses encoded payloads longer than it
	CompressThreshold int
	// Compressor name, compressor.Snappy2Name when empty
	Compressor string
}

// Codec turns Values into tagged JSON text and back. Plain JSON is used for
// null, bool, int, float, string, sequence and mapping; extended values are
// written as a single member object keyed by their tag, e.g. {" t":[1,2]}.
//
// A Codec is safe for concurrent use.
type Codec struct {
	tags *registry.Registry[Tag]
	api  jsoniter.API

	compressThreshold int
	compressor        compressor.Compressor
}

func NewCodec(opt CodecOpt) (*Codec, error) {
	c := &Codec{
		tags: registry.New[Tag](),
		api:  jsonAPI,

		compressThreshold: opt.CompressThreshold,
	}

	berr := BundleErr{}
	for _, t := range builtinTags() {
		berr.Add(c.Register(t))
	}
	for _, t := range opt.Tags {
		berr.Add(c.Register(t))
	}
	if err := berr.Err(); err != nil {
		return nil, errors.Wrap(err, "register codec tags fail")
	}

	if opt.CompressThreshold > 0 {
		name := opt.Compressor
		if name == "" {
			name = compressor.Snappy2Name
		}

		cp, ok := compressor.Get(name)
		if !ok {
			return nil, errors.Errorf("no such compressor %s", name)
		}
		c.compressor = cp
	}

	return c, nil
}

// DefaultCodec returns a new codec with only the built-in tags
func DefaultCodec() *Codec {
	c, _ := NewCodec(CodecOpt{})
	return c
}

// Register adds an extended tag. Names of registered tags and the internal
// names " di" and " z" can not be taken twice.
func (c *Codec) Register(t Tag) error {
	name := t.Name()
	if name == tagDict || name == tagCompress {
		return errors.Wrap(ErrTagExists, name)
	}

	if err := c.tags.Register(t); err != nil {
		return errors.Wrap(ErrTagExists, err.Error())
	}
	return nil
}

// Tags lists the registered tag names
func (c *Codec) Tags() []string {
	return c.tags.Names()
}

func (c *Codec) reserved(key string) bool {
	return key == tagDict || key == tagCompress || c.tags.Has(key)
}

// ValueOf converts a native Go value. Values of registered tags are claimed
// in registration order after the plain JSON kinds.
func (c *Codec) ValueOf(x interface{}) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Value:
		if t == nil {
			return Null(), nil
		}
		return *t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return Value{}, unsupported(x)
		}
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, unsupported(x)
		}
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return Text(t), nil
	case []Value:
		return Sequence(t...), nil
	case []string:
		seq := make([]Value, len(t))
		for i, s := range t {
			seq[i] = Text(s)
		}
		return Sequence(seq...), nil
	case []interface{}:
		seq := make([]Value, len(t))
		for i, e := range t {
			v, err := c.ValueOf(e)
			if err != nil {
				return Value{}, err
			}
			seq[i] = v
		}
		return Sequence(seq...), nil
	case map[string]Value:
		return Mapping(t), nil
	case map[string]string:
		m := make(map[string]Value, len(t))
		for k, s := range t {
			m[k] = Text(s)
		}
		return Mapping(m), nil
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := c.ValueOf(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = v
		}
		return Mapping(m), nil
	}

	for _, tag := range c.tags.Ordered() {
		if tag.Check(x) {
			return Ext(tag.Name(), x), nil
		}
	}

	return Value{}, unsupported(x)
}

// Marshal is ValueOf followed by Encode
func (c *Codec) Marshal(x interface{}) (string, error) {
	v, err := c.ValueOf(x)
	if err != nil {
		return "", err
	}
	return c.Encode(v)
}

// Encode returns the tagged text of v. It fails with *UnsupportedTypeError
// for extended values without a registered tag, non finite floats and
// strings that are not valid UTF-8.
func (c *Codec) Encode(v Value) (string, error) {
	stream := c.api.BorrowStream(nil)
	defer c.api.ReturnStream(stream)

	if err := c.write(stream, v); err != nil {
		return "", err
	}
	if stream.Error != nil {
		return "", errors.Wrap(stream.Error, "encode fail")
	}

	out := string(stream.Buffer())
	if c.compressor != nil && len(out) > c.compressThreshold {
		return c.compress(out)
	}

	return out, nil
}

func (c *Codec) write(s *jsoniter.Stream, v Value) error {
	switch v.kind {
	case KindNull:
		s.WriteNil()

	case KindBool:
		s.WriteBool(v.b)

	case KindInt:
		s.WriteInt64(v.i)

	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return &UnsupportedTypeError{Type: fmt.Sprintf("float64(%v)", v.f)}
		}
		s.WriteRaw(formatFloat(v.f))

	case KindText:
		if !utf8.ValidString(v.s) {
			return &UnsupportedTypeError{Type: "string with invalid UTF-8"}
		}
		s.WriteString(v.s)

	case KindSequence:
		s.WriteArrayStart()
		for i, e := range v.seq {
			if i > 0 {
				s.WriteMore()
			}
			if err := c.write(s, e); err != nil {
				return err
			}
		}
		s.WriteArrayEnd()

	case KindMapping:
		return c.writeMapping(s, v.m)

	case KindExtended:
		tag, ok := c.tags.Get(v.s)
		if !ok {
			return &UnsupportedTypeError{Type: fmt.Sprintf("%T with tag %q", v.ext, v.s)}
		}

		payload, err := tag.ToWire(v.ext)
		if err != nil {
			return errors.Wrap(unsupported(v.ext), err.Error())
		}

		s.WriteObjectStart()
		s.WriteObjectField(v.s)
		if err := c.write(s, payload); err != nil {
			return err
		}
		s.WriteObjectEnd()

	default:
		return &UnsupportedTypeError{Type: v.kind.String()}
	}

	return nil
}

func (c *Codec) writeMapping(s *jsoniter.Stream, m map[string]Value) error {
	if len(m) == 1 {
		for k, e := range m {
			if !c.reserved(k) {
				break
			}

			// {"<tag>": x} would read back as a tagged value
			s.WriteObjectStart()
			s.WriteObjectField(tagDict)
			s.WriteObjectStart()
			s.WriteObjectField(k + "__")
			if err := c.write(s, e); err != nil {
				return err
			}
			s.WriteObjectEnd()
			s.WriteObjectEnd()
			return nil
		}
	}

	s.WriteObjectStart()
	for i, k := range sortedKeys(m) {
		if !utf8.ValidString(k) {
			return &UnsupportedTypeError{Type: "mapping key with invalid UTF-8"}
		}
		if i > 0 {
			s.WriteMore()
		}
		s.WriteObjectField(k)
		if err := c.write(s, m[k]); err != nil {
			return err
		}
	}
	s.WriteObjectEnd()

	return nil
}

func (c *Codec) compress(out string) (string, error) {
	cb, err := compressor.CompressBytes(c.compressor, []byte(out))
	if err != nil {
		return "", err
	}

	stream := c.api.BorrowStream(nil)
	defer c.api.ReturnStream(stream)

	stream.WriteObjectStart()
	stream.WriteObjectField(tagCompress)
	stream.WriteArrayStart()
	stream.WriteString(c.compressor.Name())
	stream.WriteMore()
	stream.WriteString(base64.StdEncoding.EncodeToString(cb))
	stream.WriteArrayEnd()
	stream.WriteObjectEnd()

	return string(stream.Buffer()), nil
}

// formatFloat always leaves a '.' or an exponent so the number reads back
// as a float
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Decode parses text written by Encode. Every failure is a
// *MalformedPayloadError.
func (c *Codec) Decode(s string) (Value, error) {
	if s == "" {
		return Value{}, malformed(s, errors.New("empty payload"))
	}

	var raw interface{}
	if err := c.api.UnmarshalFromString(s, &raw); err != nil {
		return Value{}, malformed(s, err)
	}

	v, err := c.fromJSON(raw)
	if err != nil {
		if _, ok := err.(*MalformedPayloadError); ok {
			return Value{}, err
		}
		return Value{}, malformed(s, err)
	}

	return v, nil
}

func (c *Codec) fromJSON(x interface{}) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil

	case bool:
		return Bool(t), nil

	case json.Number:
		return parseNumber(string(t))

	case string:
		if !utf8.ValidString(t) {
			return Value{}, errors.New("string with invalid UTF-8")
		}
		return Text(t), nil

	case []interface{}:
		seq := make([]Value, len(t))
		for i, e := range t {
			v, err := c.fromJSON(e)
			if err != nil {
				return Value{}, err
			}
			seq[i] = v
		}
		return Sequence(seq...), nil

	case map[string]interface{}:
		if len(t) == 1 {
			for k, inner := range t {
				if v, ok, err := c.fromTagged(k, inner); ok {
					return v, err
				}
			}
		}

		m := make(map[string]Value, len(t))
		for k, e := range t {
			if !utf8.ValidString(k) {
				return Value{}, errors.New("mapping key with invalid UTF-8")
			}
			v, err := c.fromJSON(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = v
		}
		return Mapping(m), nil
	}

	return Value{}, errors.Errorf("unexpected json value %T", x)
}

// fromTagged decodes {"<key>": inner}, ok is false when key is not a tag
func (c *Codec) fromTagged(key string, inner interface{}) (Value, bool, error) {
	switch key {
	case tagDict:
		m, isMap := inner.(map[string]interface{})
		if !isMap || len(m) != 1 {
			return Value{}, true, errors.New("tag \" di\" wants a single member object")
		}
		for k, e := range m {
			if !utf8.ValidString(k) {
				return Value{}, true, errors.New("mapping key with invalid UTF-8")
			}
			if !strings.HasSuffix(k, "__") {
				return Value{}, true, errors.Errorf("tag \" di\" key %q lacks suffix", k)
			}
			v, err := c.fromJSON(e)
			if err != nil {
				return Value{}, true, err
			}
			return Mapping(map[string]Value{strings.TrimSuffix(k, "__"): v}), true, nil
		}

	case tagCompress:
		v, err := c.decompress(inner)
		return v, true, err
	}

	tag, ok := c.tags.Get(key)
	if !ok {
		return Value{}, false, nil
	}

	payload, err := c.fromJSON(inner)
	if err != nil {
		return Value{}, true, err
	}

	x, err := tag.FromWire(payload)
	if err != nil {
		return Value{}, true, err
	}

	return Ext(key, x), true, nil
}

func (c *Codec) decompress(inner interface{}) (Value, error) {
	parts, ok := inner.([]interface{})
	if !ok || len(parts) != 2 {
		return Value{}, errors.New("tag \" z\" wants [compressor, data]")
	}

	name, nameOk := parts[0].(string)
	data, dataOk := parts[1].(string)
	if !nameOk || !dataOk {
		return Value{}, errors.New("tag \" z\" wants string members")
	}

	cp, ok := compressor.Get(name)
	if !ok {
		return Value{}, errors.Errorf("no such compressor %s", name)
	}

	cb, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return Value{}, errors.Wrap(err, "decode compressed data fail")
	}

	b, err := compressor.DecompressBytes(cp, cb)
	if err != nil {
		return Value{}, err
	}

	return c.Decode(string(b))
}

func parseNumber(s string) (Value, error) {
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, errors.Wrapf(err, "parse float %s fail", s)
		}
		return Float(f), nil
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, errors.Wrapf(err, "parse int %s fail", s)
	}
	return Int(i), nil
}
