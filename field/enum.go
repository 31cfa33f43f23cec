package field

import (
	"fmt"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
)

// EnumValue is the decoded representation of an Enum field: Value always
// holds the raw backing integer; Name holds the matching member name when
// the value is a known member, or "" when it falls through to the raw
// integer per spec (unknown values decode without a fault).
type EnumValue struct {
	Value int64
	Name  string
}

// Known reports whether Value matched a declared enum member.
func (e EnumValue) Known() bool { return e.Name != "" }

// Enum is an enum field backed by an integer primitive of the stated
// width. Decode maps known values to their member name; unknown values
// decode to an EnumValue with an empty Name and no error.
type Enum struct {
	Width     int // 1, 2, 4, or 8 bytes
	Signed    bool
	NameByVal map[int64]string
	ValByName map[string]int64
}

// NewEnum builds an Enum field from a map of member names to values.
func NewEnum(width int, signed bool, members map[string]int64) (Enum, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return Enum{}, fmt.Errorf("%w: invalid enum backing width %d", errs.ErrSchemaError, width)
	}

	nameByVal := make(map[int64]string, len(members))
	for name, val := range members {
		nameByVal[val] = name
	}

	return Enum{Width: width, Signed: signed, NameByVal: nameByVal, ValByName: members}, nil
}

func (Enum) Kind() Kind      { return KindEnum }
func (Enum) Primitive() bool { return true }
func (e Enum) FixedSize() (int, bool) {
	return e.Width, true
}

// backing returns the primitive field used to pack/unpack the underlying
// integer, chosen from width and signedness.
func (e Enum) backing() Field {
	switch e.Width {
	case 1:
		if e.Signed {
			return Int8{}
		}

		return Uint8{}
	case 2:
		if e.Signed {
			return Int16{}
		}

		return Uint16{}
	case 4:
		if e.Signed {
			return Int32{}
		}

		return Uint32{}
	default:
		if e.Signed {
			return Int64{}
		}

		return Uint64{}
	}
}

func (e Enum) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	var raw int64

	switch v := value.(type) {
	case EnumValue:
		raw = v.Value
	case string:
		val, ok := e.ValByName[v]
		if !ok {
			return buf, fmt.Errorf("%w: unknown enum member %q", errs.ErrOutOfRange, v)
		}
		raw = val
	default:
		iv, err := toInt64(value)
		if err != nil {
			return buf, err
		}
		raw = iv
	}

	return e.backing().Encode(buf, engine, raw)
}

func (e Enum) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	raw, consumed, err := e.backing().Decode(data, engine)
	if err != nil {
		return nil, 0, err
	}

	val, _ := toInt64(raw)
	name := e.NameByVal[val]

	return EnumValue{Value: val, Name: name}, consumed, nil
}

// ToString renders value in the ascii-mode canonical textual form: the
// member name when known, otherwise the decimal value.
func (e Enum) ToString(value any) string {
	switch v := value.(type) {
	case EnumValue:
		if v.Known() {
			return v.Name
		}

		return fmt.Sprintf("%d", v.Value)
	case string:
		return v
	default:
		iv, err := toInt64(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		if name, ok := e.NameByVal[iv]; ok {
			return name
		}

		return fmt.Sprintf("%d", iv)
	}
}

// FromString parses the ascii-mode textual form back into an EnumValue,
// trying the member name first, then falling back to a decimal integer.
func (e Enum) FromString(s string) (EnumValue, error) {
	if val, ok := e.ValByName[s]; ok {
		return EnumValue{Value: val, Name: s}, nil
	}

	var iv int64
	if _, err := fmt.Sscanf(s, "%d", &iv); err == nil {
		return EnumValue{Value: iv, Name: e.NameByVal[iv]}, nil
	}

	return EnumValue{}, fmt.Errorf("%w: unknown enum token %q", errs.ErrOutOfRange, s)
}
