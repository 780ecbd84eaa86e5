package redisdict

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrFieldNotFound = errors.New("field not found")
	ErrNoStore       = errors.New("dict has no store")
	ErrTagExists     = errors.New("tag already exists")
)

// UnsupportedTypeError is returned when a value has no serialization rule.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("redisdict: unsupported type %s", e.Type)
}

// MalformedPayloadError is returned when stored text can not be decoded,
// it means the hash holds corrupted data or data from another codec.
type MalformedPayloadError struct {
	Payload string
	Err     error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("redisdict: malformed payload %q: %v", truncate(e.Payload, 64), e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }
func (e *MalformedPayloadError) Cause() error  { return e.Err }

// StoreUnavailableError wraps transport failures of a HashStore.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("redisdict: store unavailable: op: %q err: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }
func (e *StoreUnavailableError) Cause() error  { return e.Err }

func unsupported(x interface{}) error {
	return &UnsupportedTypeError{Type: fmt.Sprintf("%T", x)}
}

func malformed(payload string, err error) error {
	return &MalformedPayloadError{Payload: payload, Err: err}
}

func unavailable(op string, err error) error {
	return &StoreUnavailableError{Op: op, Err: err}
}
