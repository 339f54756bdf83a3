package bufferplus

import (
	"errors"
	"fmt"

	"github.com/rawbytedev/bufferplus/pkg/varint"
)

var (
	// ErrOutOfRange is returned by strict reads that run past the logical end
	// of the buffer, and by seeks to a negative position.
	ErrOutOfRange = errors.New("out of range")

	// ErrUnknownType is returned when a type identifier is not registered.
	ErrUnknownType = errors.New("unknown type")

	// ErrMalformedVarint is returned for truncated or over-long varints.
	ErrMalformedVarint = varint.ErrMalformed

	// ErrTypeMismatch is returned when a value handed to an encoder is of the
	// wrong kind, or does not fit the identifier's width.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNegativePosition is returned by cursor moves that land before zero.
	// It matches ErrOutOfRange as well.
	ErrNegativePosition = fmt.Errorf("%w: negative position", ErrOutOfRange)

	ErrUnknownEncoding = errors.New("unknown text encoding")
	ErrInvalidEntry    = errors.New("invalid type entry")
)
