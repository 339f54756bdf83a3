package compactwire

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/rawbytedev/bufferplus"
)

// DecodeDataFrame checks and unwraps a data frame, decompressing the payload
// if needed.
func DecodeDataFrame(data []byte) (DataFrame, error) {
	if len(data) < minFrame || data[0] != Magic0 || data[1] != Magic1 {
		return DataFrame{}, ErrNotDataFrame
	}
	r := bufferplus.From(data)
	if t, _ := r.ReadUint8(bufferplus.At(2)); t != TypeData {
		return DataFrame{}, fmt.Errorf("%w: type 0x%02x", ErrNotDataFrame, t)
	}
	length, _ := r.ReadUint32LE()
	if int(length) != len(data) {
		return DataFrame{}, fmt.Errorf("%w: header says %d, got %d", ErrLengthMismatch, length, len(data))
	}
	flags, _ := r.ReadUint8()

	end := len(data) - trailerSize
	want := binary.LittleEndian.Uint32(data[end:])
	if got := crc32.ChecksumIEEE(data[2:end]); got != want {
		return DataFrame{}, fmt.Errorf("%w: 0x%08x != 0x%08x", ErrCRCMismatch, got, want)
	}

	payload, err := r.ReadExact(bufferplus.Length(end - headerSize))
	if err != nil {
		return DataFrame{}, err
	}
	if flags&FlagCompressed != 0 {
		_, dec, err := codecs()
		if err != nil {
			return DataFrame{}, fmt.Errorf("zstd: %w", err)
		}
		if payload, err = dec.DecodeAll(payload, nil); err != nil {
			return DataFrame{}, fmt.Errorf("zstd: %w", err)
		}
	}
	return DataFrame{Flags: flags, Payload: payload}, nil
}

// UnpackBuffer decodes a frame into a fresh buffer with the cursor at 0.
func UnpackBuffer(data []byte) (*bufferplus.Buffer, error) {
	f, err := DecodeDataFrame(data)
	if err != nil {
		return nil, err
	}
	return bufferplus.From(f.Payload), nil
}
