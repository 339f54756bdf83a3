package bufferplus

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/bufferplus/internal/common"
)

// ReadArray reads count consecutive values of the registered type id. Strings
// and buffers are read packed. Values are converted to T when the decoded Go
// type differs, e.g. reading "int16be" into []int.
func ReadArray[T any](b *Buffer, id string, count int, opts ...Option) ([]T, error) {
	e, err := Types().Lookup(id)
	if err != nil {
		return nil, err
	}
	p := b.Sanitize(opts...)
	out := make([]T, 0, min(max(count, 0), b.Remaining()))
	for i := range count {
		v, err := b.ReadValue(e, Using(p.Encoding), forceIf(p.Force))
		if err != nil {
			b.pos = p.Position
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		t, ok := v.(T)
		if !ok {
			if err := common.Assign(reflect.ValueOf(&t).Elem(), v); err != nil {
				b.pos = p.Position
				return nil, fmt.Errorf("element %d: %w: %w", i, ErrTypeMismatch, err)
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// ReadPackedArray reads a varuint element count followed by the elements.
func ReadPackedArray[T any](b *Buffer, id string, opts ...Option) ([]T, error) {
	if _, err := Types().Lookup(id); err != nil {
		return nil, err
	}
	p := b.Sanitize(opts...)
	n, err := b.readCount(p)
	if err != nil {
		return nil, err
	}
	out, err := ReadArray[T](b, id, n, Using(p.Encoding), forceIf(p.Force))
	b.unread(p.Position, err)
	return out, err
}

// WriteArray writes each value as type id and returns the bytes written.
func WriteArray[T any](b *Buffer, id string, values []T, opts ...Option) (int, error) {
	e, err := Types().Lookup(id)
	if err != nil {
		return 0, err
	}
	p := b.Sanitize(opts...)
	for i, v := range values {
		if _, err := b.WriteValue(e, v, Using(p.Encoding)); err != nil {
			return b.pos - p.Position, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return b.pos - p.Position, nil
}

// WritePackedArray writes a varuint element count, then the elements.
func WritePackedArray[T any](b *Buffer, id string, values []T, opts ...Option) (int, error) {
	if _, err := Types().Lookup(id); err != nil {
		return 0, err
	}
	p := b.Sanitize(opts...)
	b.WriteVarUint(uint32(len(values)))
	_, err := WriteArray(b, id, values, Using(p.Encoding))
	return b.pos - p.Position, err
}
