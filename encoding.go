package bufferplus

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Text encodings understood by string reads and writes. Any other
// encoding.Encoding from golang.org/x/text works too.
var (
	UTF8    encoding.Encoding = unicode.UTF8
	UTF16LE                   = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	UTF16BE                   = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	Latin1  encoding.Encoding = charmap.ISO8859_1

	// DefaultEncoding is the encoding new buffers start with.
	DefaultEncoding = UTF8
)

// LookupEncoding resolves an encoding by name ("utf-8", "utf-16le",
// "latin1", or any WHATWG label). The empty name is UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", "utf-8":
		return UTF8, nil
	case "utf16le", "utf-16le":
		return UTF16LE, nil
	case "utf16be", "utf-16be":
		return UTF16BE, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return Latin1, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// EncodingName returns the canonical name of enc, or "" if it has none.
func EncodingName(enc encoding.Encoding) string {
	switch enc {
	case nil, UTF8:
		return "utf-8"
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	case Latin1:
		return "iso-8859-1"
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return ""
	}
	return name
}

func encodeText(enc encoding.Encoding, s string) ([]byte, error) {
	if enc == nil || enc == UTF8 {
		return []byte(s), nil
	}
	raw, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: encode text: %w", ErrTypeMismatch, err)
	}
	return raw, nil
}

func decodeText(enc encoding.Encoding, raw []byte) (string, error) {
	if enc == nil || enc == UTF8 {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}

// textByteCount reports the encoded size of s in bytes, not characters.
func textByteCount(enc encoding.Encoding, s string) (int, error) {
	if enc == nil || enc == UTF8 {
		return len(s), nil
	}
	raw, err := encodeText(enc, s)
	if err != nil {
		return 0, err
	}
	return len(raw), nil
}
