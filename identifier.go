package redisdict

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// IDFunc generates the key of a new hash when none is given
type IDFunc func() (string, error)

// NewID returns a random (version 4) UUID in its canonical 36 character
// form. Collisions with existing hashes are not checked.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "generate id fail")
	}

	return u.String(), nil
}
