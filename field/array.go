package field

import (
	"encoding/binary"
	"fmt"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
)

// ArrayMode selects how an Array field's element count is determined.
type ArrayMode uint8

const (
	// ArrayFixed encodes/decodes exactly Count elements with no length
	// marker on the wire.
	ArrayFixed ArrayMode = iota
	// ArrayPrefixed writes a 4-byte little-endian element count ahead of
	// the elements, mirroring PrefixedString's length prefix.
	ArrayPrefixed
	// ArrayDynamic has no explicit count: decode consumes items until the
	// remaining bytes are exhausted or an item fails to decode, matching
	// a best-effort stop at the first undecodable item.
	ArrayDynamic
)

// Array is a homogeneous sequence field. ItemField must be a non-nested
// leaf field kind; arrays of nested messages are not supported.
type Array struct {
	Mode      ArrayMode
	Count     int // meaningful only when Mode == ArrayFixed
	ItemField Field
}

func (Array) Kind() Kind             { return KindArray }
func (Array) Primitive() bool        { return false }
func (a Array) FixedSize() (int, bool) {
	if a.Mode != ArrayFixed {
		return 0, false
	}
	itemSize, ok := a.ItemField.FixedSize()
	if !ok {
		return 0, false
	}

	return itemSize * a.Count, true
}

func (a Array) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	items, err := toSlice(value)
	if err != nil {
		return buf, err
	}

	switch a.Mode {
	case ArrayFixed:
		if len(items) != a.Count {
			return buf, fmt.Errorf("%w: fixed array expects %d elements, got %d", errs.ErrOutOfRange, a.Count, len(items))
		}
	case ArrayPrefixed:
		prefix := make([]byte, 4)
		binary.LittleEndian.PutUint32(prefix, uint32(len(items)))
		buf = append(buf, prefix...)
	}

	for _, item := range items {
		buf, err = a.ItemField.Encode(buf, engine, item)
		if err != nil {
			return buf, err
		}
	}

	return buf, nil
}

func (a Array) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	switch a.Mode {
	case ArrayFixed:
		return a.decodeCount(data, engine, a.Count, 0)
	case ArrayPrefixed:
		if err := needBytes(data, 4); err != nil {
			return nil, 0, err
		}
		count := int(binary.LittleEndian.Uint32(data[:4]))

		return a.decodeCount(data, engine, count, 4)
	default: // ArrayDynamic
		return a.decodeDynamic(data, engine)
	}
}

func (a Array) decodeCount(data []byte, engine endian.EndianEngine, count, offset int) (any, int, error) {
	items := make([]any, 0, count)
	consumed := offset

	for i := 0; i < count; i++ {
		if consumed > len(data) {
			return nil, 0, errs.ErrIncomplete
		}

		item, n, err := a.ItemField.Decode(data[consumed:], engine)
		if err != nil {
			return nil, 0, err
		}

		items = append(items, item)
		consumed += n
	}

	return items, consumed, nil
}

// decodeDynamic decodes items until the remaining bytes run out or an item
// fails to decode, at which point the items decoded so far are returned
// with no error: a partially-consumed tail is not itself malformed.
func (a Array) decodeDynamic(data []byte, engine endian.EndianEngine) (any, int, error) {
	items := make([]any, 0)
	consumed := 0

	for consumed < len(data) {
		item, n, err := a.ItemField.Decode(data[consumed:], engine)
		if err != nil || n == 0 {
			break
		}

		items = append(items, item)
		consumed += n
	}

	return items, consumed, nil
}

func toSlice(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case nil:
		return nil, nil
	}

	return nil, fmt.Errorf("%w: array field requires a []any value", errs.ErrSchemaError)
}
