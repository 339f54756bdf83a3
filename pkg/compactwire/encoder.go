package compactwire

import (
	"fmt"
	"hash/crc32"

	"github.com/rawbytedev/bufferplus"
)

// EncodeDataFrame wraps payload in a data frame. With FlagCompressed set the
// payload is zstd-compressed first.
func EncodeDataFrame(payload []byte, flags byte) ([]byte, error) {
	if flags&FlagCompressed != 0 {
		enc, _, err := codecs()
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		payload = enc.EncodeAll(payload, nil)
	}

	b := bufferplus.New(len(payload) + minFrame)
	b.WriteUint8(Magic0).WriteUint8(Magic1).WriteUint8(TypeData)
	b.WriteUint32LE(0) // length, patched below
	b.WriteUint8(flags)
	b.WriteBytes(payload)

	total := b.Len() + trailerSize
	b.WriteUint32LE(uint32(total), bufferplus.At(3))

	// crc over everything after the magic
	crc := crc32.ChecksumIEEE(b.Bytes()[2:])
	b.WriteUint32LE(crc, bufferplus.At(b.Len()))
	return b.Bytes(), nil
}

// PackBuffer frames the logical contents of b.
func PackBuffer(b *bufferplus.Buffer, flags byte) ([]byte, error) {
	return EncodeDataFrame(b.Bytes(), flags)
}
