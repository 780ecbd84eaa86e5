package redisdict

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var canonicalID = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{}, 10000)

	for i := 0; i < 10000; i++ {
		id, err := NewID()
		assert.Nil(t, err)
		assert.Len(t, id, 36)
		assert.Regexp(t, canonicalID, id)

		_, dup := seen[id]
		assert.False(t, dup, id)
		seen[id] = struct{}{}
	}

	id, _ := NewID()
	u, err := uuid.Parse(id)
	assert.Nil(t, err)
	assert.Equal(t, uuid.Version(4), u.Version())
	assert.Equal(t, uuid.RFC4122, u.Variant())
}
