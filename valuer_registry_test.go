package redisdict

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type valueOfTests []struct {
	Ori    interface{}
	Expect Value
}

func TestValueOf(t *testing.T) {
	now := time.Date(2023, 5, 6, 7, 8, 9, 10, time.UTC)
	u := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	ts := valueOfTests{
		{Ori: nil, Expect: Null()},
		{Ori: true, Expect: Bool(true)},
		{Ori: 18, Expect: Int(18)},
		{Ori: int8(-3), Expect: Int(-3)},
		{Ori: uint32(7), Expect: Int(7)},
		{Ori: uint64(math.MaxInt64), Expect: Int(math.MaxInt64)},
		{Ori: float32(0.5), Expect: Float(0.5)},
		{Ori: 2.25, Expect: Float(2.25)},
		{Ori: "longalong", Expect: Text("longalong")},
		{Ori: []string{"a", "b"}, Expect: Sequence(Text("a"), Text("b"))},
		{Ori: []interface{}{1, "a", nil}, Expect: Sequence(Int(1), Text("a"), Null())},
		{Ori: map[string]string{"k": "v"}, Expect: Mapping(map[string]Value{"k": Text("v")})},
		{
			Ori:    map[string]interface{}{"hello": "world", "age": 18},
			Expect: Mapping(map[string]Value{"hello": Text("world"), "age": Int(18)}),
		},
		{Ori: []byte("hi"), Expect: Bytes([]byte("hi"))},
		{Ori: Tuple{Int(1)}, Expect: TupleOf(Int(1))},
		{Ori: Markup("<i>x</i>"), Expect: MarkupOf("<i>x</i>")},
		{Ori: u, Expect: UUID(u)},
		{Ori: now, Expect: Time(now)},
		{Ori: Int(5), Expect: Int(5)},
	}

	c := DefaultCodec()

	for _, xt := range ts {
		v, err := c.ValueOf(xt.Ori)
		assert.Nil(t, err, "%v", xt.Ori)
		assert.True(t, v.Equal(xt.Expect), "%v: got %s", xt.Ori, v)
	}
}

func TestValueOfUnsupported(t *testing.T) {
	ts := []interface{}{
		uint64(math.MaxUint64),
		struct{ Name string }{Name: "longalong"},
		make(chan int),
		[]interface{}{1, struct{}{}},
		map[string]interface{}{"f": func() {}},
		map[int]string{1: "a"},
	}

	c := DefaultCodec()

	for _, x := range ts {
		_, err := c.ValueOf(x)
		assert.IsType(t, &UnsupportedTypeError{}, err, "%T", x)
	}
}

func TestBuiltinTagsRejectWrongTypes(t *testing.T) {
	for _, tag := range builtinTags() {
		assert.False(t, tag.Check(42), tag.Name())

		_, err := tag.ToWire(42)
		assert.NotNil(t, err, tag.Name())

		_, err = tag.FromWire(Bool(true))
		assert.NotNil(t, err, tag.Name())
	}
}

func TestUUIDTagShortFormOnly(t *testing.T) {
	u := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tag := uuidTag{}

	x, err := tag.FromWire(Text("6ba7b8109dad11d180b400c04fd430c8"))
	assert.Nil(t, err)
	assert.Equal(t, u, x)

	_, err = tag.FromWire(Text(u.String()))
	assert.NotNil(t, err)

	_, err = tag.FromWire(Text("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
	assert.NotNil(t, err)
}

func TestBytesTagEmpty(t *testing.T) {
	x, err := bytesTag{}.FromWire(Text(""))
	assert.Nil(t, err)
	assert.NotNil(t, x)
	assert.Equal(t, []byte{}, x)
}
