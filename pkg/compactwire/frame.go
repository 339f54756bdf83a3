// Package compactwire frames sealed buffers for transport: a fixed preamble,
// the total frame length, a flags byte, the payload (optionally zstd
// compressed) and a trailing CRC32.
//
//	0xBF 0x01 | type | length u32le | flags | payload ... | crc32 u32le
//
// The length covers the whole frame including the CRC. The CRC (IEEE) covers
// everything after the two magic bytes.
package compactwire

import (
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	Magic0 byte = 0xBF
	Magic1 byte = 0x01

	TypeData byte = 0x01

	// FlagCompressed marks a zstd-compressed payload.
	FlagCompressed byte = 1 << 0
)

const (
	headerSize  = 8 // magic(2) type(1) length(4) flags(1)
	trailerSize = 4
	minFrame    = headerSize + trailerSize

	// maxDecoded bounds the decompressed payload of one frame.
	maxDecoded = 64 << 20
)

var (
	ErrNotDataFrame   = errors.New("not a data frame")
	ErrLengthMismatch = errors.New("frame length mismatch")
	ErrCRCMismatch    = errors.New("crc mismatch")
)

// DataFrame is a decoded data frame.
type DataFrame struct {
	Flags   byte
	Payload []byte
}

// Compressed reports whether the frame carried a compressed payload.
func (d DataFrame) Compressed() bool { return d.Flags&FlagCompressed != 0 }

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

// codecs returns the shared zstd encoder and decoder. EncodeAll and DecodeAll
// are safe for concurrent use.
func codecs() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecoded))
	})
	return zstdEnc, zstdDec, zstdErr
}
