// Package field implements the closed set of field kinds a message schema
// may declare: fixed-width primitives, strings, enums, fixed-point scalars,
// bit-packed groups, arrays, and nested messages. Each kind is a stateless
// sum-type variant exposing a shared Encode/Decode contract; the layout
// compiler (package plan) is the only place that needs to switch over the
// full set.
package field

import (
	"github.com/coreframe/telemetrycodec/endian"
)

// Kind tags which field variant a Field value implements.
type Kind uint8

const (
	KindInt8 Kind = iota + 1
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindFixedString
	KindPrefixedString
	KindEnum
	KindFixedPoint
	KindBitGroup
	KindArray
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindUint8:
		return "Uint8"
	case KindUint16:
		return "Uint16"
	case KindUint32:
		return "Uint32"
	case KindUint64:
		return "Uint64"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindBool:
		return "Bool"
	case KindFixedString:
		return "FixedString"
	case KindPrefixedString:
		return "PrefixedString"
	case KindEnum:
		return "Enum"
	case KindFixedPoint:
		return "FixedPoint"
	case KindBitGroup:
		return "BitGroup"
	case KindArray:
		return "Array"
	case KindNested:
		return "Nested"
	default:
		return "Unknown"
	}
}

// Field is the shared contract every field kind implements. Implementations
// are stateless with respect to any single message instance: all per-field
// configuration (length, member tables, bit layout, ...) lives on the value
// itself, constructed once when the schema is declared.
type Field interface {
	// Kind returns the variant tag, used by the layout compiler's switch
	// and by diagnostics.
	Kind() Kind

	// Primitive reports whether this field can be coalesced into a
	// FixedRun alongside adjacent fields sharing the same byte order.
	// True for integers, floats, bool, enum, fixed-point, and bit-group.
	// False for strings, arrays, and nested messages, even when those
	// happen to have a statically known size.
	Primitive() bool

	// FixedSize returns the field's encoded byte size and true when that
	// size is known without inspecting a value (e.g. a fixed-length
	// string or a fixed-count array of primitives). Returns (0, false)
	// for length-prefixed strings, prefixed or dynamic-mode arrays, and
	// nested messages.
	FixedSize() (size int, ok bool)

	// Encode appends value's wire representation to buf using engine for
	// byte order where relevant, returning the extended slice.
	Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error)

	// Decode reads one value from the front of data, returning the
	// decoded value and the number of bytes consumed. Decode must not
	// read past len(data); if data is too short it returns errs.ErrIncomplete.
	Decode(data []byte, engine endian.EndianEngine) (value any, consumed int, err error)
}
