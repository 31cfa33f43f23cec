package field

import (
	"fmt"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
)

// BitOrder selects how member bits are assigned positions within the
// backing primitive.
type BitOrder uint8

const (
	// LSBFirst assigns the first declared bit member to the low-order
	// bits of the backing primitive.
	LSBFirst BitOrder = iota
	// MSBFirst assigns the first declared bit member to the high-order
	// bits of the backing primitive.
	MSBFirst
)

// Bit describes one member of a BitGroup: a name, a width in bits, and
// whether it should decode as a bool (Width==1 and DataKind==KindBool)
// or as an unsigned integer.
type Bit struct {
	Name     string
	Width    int
	DataKind Kind // KindBool or KindUint8/16/32/64; zero value defaults to unsigned
}

// BitGroup packs several named sub-fields into a single backing integer
// primitive. Decode returns a map[string]any keyed by member name (bool members decode to bool, others to int64).
type BitGroup struct {
	Width   int // backing primitive width in bytes
	Order   BitOrder
	Members []Bit

	totalBits int
}

// NewBitGroup validates member widths fit within width*8 bits and builds a
// BitGroup field.
func NewBitGroup(width int, order BitOrder, members []Bit) (BitGroup, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return BitGroup{}, fmt.Errorf("%w: invalid bit group backing width %d", errs.ErrSchemaError, width)
	}

	total := 0
	for _, m := range members {
		if m.Width <= 0 {
			return BitGroup{}, fmt.Errorf("%w: bit member %q has non-positive width", errs.ErrSchemaError, m.Name)
		}
		total += m.Width
	}
	if total > width*8 {
		return BitGroup{}, fmt.Errorf("%w: bit group members total %d bits, exceeds %d-bit backing primitive", errs.ErrSchemaError, total, width*8)
	}

	return BitGroup{Width: width, Order: order, Members: members, totalBits: total}, nil
}

func (BitGroup) Kind() Kind      { return KindBitGroup }
func (BitGroup) Primitive() bool { return true }
func (b BitGroup) FixedSize() (int, bool) {
	return b.Width, true
}

func (b BitGroup) backing() Field {
	switch b.Width {
	case 1:
		return Uint8{}
	case 2:
		return Uint16{}
	case 4:
		return Uint32{}
	default:
		return Uint64{}
	}
}

// memberShifts returns, for each member index, the bit offset of its
// low-order bit within the backing primitive.
func (b BitGroup) memberShifts() []uint {
	shifts := make([]uint, len(b.Members))

	switch b.Order {
	case MSBFirst:
		pos := uint(b.Width*8) - 1
		for i, m := range b.Members {
			pos -= uint(m.Width) - 1
			shifts[i] = pos
			pos -= 1
		}
	default: // LSBFirst
		pos := uint(0)
		for i, m := range b.Members {
			shifts[i] = pos
			pos += uint(m.Width)
		}
	}

	return shifts
}

func (b BitGroup) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	values, ok := value.(map[string]any)
	if !ok {
		return buf, fmt.Errorf("%w: bit group requires a map[string]any value", errs.ErrSchemaError)
	}

	shifts := b.memberShifts()

	var packed uint64
	for i, m := range b.Members {
		raw, present := values[m.Name]
		var iv int64
		if present {
			switch v := raw.(type) {
			case bool:
				if v {
					iv = 1
				}
			default:
				parsed, err := toInt64(raw)
				if err != nil {
					return buf, err
				}
				iv = parsed
			}
		}

		mask := uint64(1)<<uint(m.Width) - 1
		packed |= (uint64(iv) & mask) << shifts[i]
	}

	return b.backing().Encode(buf, engine, packed)
}

func (b BitGroup) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	raw, consumed, err := b.backing().Decode(data, engine)
	if err != nil {
		return nil, 0, err
	}
	packed, _ := toUint64(raw)

	shifts := b.memberShifts()
	result := make(map[string]any, len(b.Members))

	for i, m := range b.Members {
		mask := uint64(1)<<uint(m.Width) - 1
		v := (packed >> shifts[i]) & mask

		if m.Width == 1 && m.DataKind == KindBool {
			result[m.Name] = v != 0
		} else {
			result[m.Name] = int64(v)
		}
	}

	return result, consumed, nil
}
