package field

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
)

// FixedString is a string field of exactly Length bytes: null-padded on
// encode, null-trimmed on decode, truncated on encode if the input exceeds
// Length (unless Strict is set, in which case an over-length input is an
// OutOfRange error).
type FixedString struct {
	Length int
	Strict bool
}

func (FixedString) Kind() Kind        { return KindFixedString }
func (FixedString) Primitive() bool   { return false }
func (f FixedString) FixedSize() (int, bool) { return f.Length, true }

func (f FixedString) Encode(buf []byte, _ endian.EndianEngine, value any) ([]byte, error) {
	s, _ := value.(string)

	encoded := []byte(s)
	if len(encoded) > f.Length {
		if f.Strict {
			return buf, fmt.Errorf("%w: string length %d exceeds fixed length %d", errs.ErrOutOfRange, len(encoded), f.Length)
		}
		encoded = encoded[:f.Length]
	}

	start := len(buf)
	buf = append(buf, make([]byte, f.Length)...)
	copy(buf[start:], encoded)

	return buf, nil
}

func (f FixedString) Decode(data []byte, _ endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, f.Length); err != nil {
		return nil, 0, err
	}

	raw := data[:f.Length]
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}

	return string(raw[:end]), f.Length, nil
}

// ToString renders value in the ascii-mode canonical textual form:
// space-padded to Length, since the wire encoding's null padding would not
// survive as printable text.
func (f FixedString) ToString(value any) string {
	s, _ := value.(string)
	if len(s) >= f.Length {
		return s[:f.Length]
	}

	return s + strings.Repeat(" ", f.Length-len(s))
}

// FromString parses the ascii-mode textual form back into a string,
// trimming the trailing space padding ToString applies.
func (FixedString) FromString(s string) (string, error) {
	return strings.TrimRight(s, " "), nil
}

// PrefixedString is a variable-length string: a 4-byte little-endian
// unsigned length prefix followed by the raw UTF-8 bytes.
type PrefixedString struct{}

func (PrefixedString) Kind() Kind             { return KindPrefixedString }
func (PrefixedString) Primitive() bool        { return false }
func (PrefixedString) FixedSize() (int, bool) { return 0, false }

func (PrefixedString) Encode(buf []byte, _ endian.EndianEngine, value any) ([]byte, error) {
	s, _ := value.(string)

	encoded := []byte(s)
	prefix := make([]byte, 4)
	binary.LittleEndian.PutUint32(prefix, uint32(len(encoded)))
	buf = append(buf, prefix...)
	buf = append(buf, encoded...)

	return buf, nil
}

func (PrefixedString) Decode(data []byte, _ endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 4); err != nil {
		return nil, 0, err
	}

	length := binary.LittleEndian.Uint32(data[:4])
	total := 4 + int(length)
	if err := needBytes(data, total); err != nil {
		return nil, 0, err
	}

	return string(data[4:total]), total, nil
}
