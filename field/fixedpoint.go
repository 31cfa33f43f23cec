package field

import (
	"fmt"
	"math"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/coreframe/telemetrycodec/errs"
)

// FixedPointEncoding selects how a FixedPoint field's sign is represented.
type FixedPointEncoding uint8

const (
	// FixedPointUnsigned rounds value*scale into an unsigned primitive.
	// Negative values are not representable.
	FixedPointUnsigned FixedPointEncoding = iota
	// FixedPointSigned rounds value*scale into a signed two's-complement
	// primitive of the same total width.
	FixedPointSigned
	// FixedPointDirectionMagnitude stores abs(value)*scale as a magnitude
	// masked to IntegerBits+FractionalBits, with a separate sign bit at
	// position IntegerBits+FractionalBits of an unsigned backing primitive.
	FixedPointDirectionMagnitude
)

// FixedPoint is a fixed-point scalar field: IntegerBits integer bits,
// FractionalBits fractional bits, encoded per Encoding. The backing
// primitive width is the smallest of {8,16,32,64} that fits the total bit
// count (total+1 for direction-magnitude, to hold the sign bit).
type FixedPoint struct {
	IntegerBits    int
	FractionalBits int
	Encoding       FixedPointEncoding

	totalBits int
	width     int // backing primitive width in bytes
	scale     float64
}

// NewFixedPoint validates and constructs a FixedPoint field, failing with
// ErrSchemaError if the total bit count exceeds 64 backing bits.
func NewFixedPoint(integerBits, fractionalBits int, encoding FixedPointEncoding) (FixedPoint, error) {
	extra := 0
	if encoding == FixedPointDirectionMagnitude {
		extra = 1
	}
	total := integerBits + fractionalBits + extra

	var width int
	switch {
	case total <= 8:
		width = 1
	case total <= 16:
		width = 2
	case total <= 32:
		width = 4
	case total <= 64:
		width = 8
	default:
		return FixedPoint{}, fmt.Errorf("%w: fixed-point total bits %d exceeds 64-bit backing primitive", errs.ErrSchemaError, total)
	}

	return FixedPoint{
		IntegerBits:    integerBits,
		FractionalBits: fractionalBits,
		Encoding:       encoding,
		totalBits:      total,
		width:          width,
		scale:          math.Ldexp(1, fractionalBits),
	}, nil
}

func (FixedPoint) Kind() Kind      { return KindFixedPoint }
func (FixedPoint) Primitive() bool { return true }
func (f FixedPoint) FixedSize() (int, bool) {
	return f.width, true
}

func (f FixedPoint) backing(signed bool) Field {
	switch f.width {
	case 1:
		if signed {
			return Int8{}
		}

		return Uint8{}
	case 2:
		if signed {
			return Int16{}
		}

		return Uint16{}
	case 4:
		if signed {
			return Int32{}
		}

		return Uint32{}
	default:
		if signed {
			return Int64{}
		}

		return Uint64{}
	}
}

func (f FixedPoint) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	v, err := toFloat64(value)
	if err != nil {
		return buf, err
	}

	switch f.Encoding {
	case FixedPointDirectionMagnitude:
		direction := int64(0)
		magnitude := v
		if v < 0 {
			direction = 1
			magnitude = -v
		}

		raw := int64(math.Round(magnitude * f.scale))
		mask := int64(1)<<(f.IntegerBits+f.FractionalBits) - 1
		raw &= mask
		msbPos := f.IntegerBits + f.FractionalBits
		final := uint64(raw) | uint64(direction)<<msbPos

		return f.backing(false).Encode(buf, engine, final)
	case FixedPointSigned:
		scaled := math.Round(v * f.scale)
		limit := math.Ldexp(1, f.IntegerBits+f.FractionalBits-1)
		if scaled < -limit || scaled >= limit {
			return buf, fmt.Errorf("%w: fixed-point value %v does not fit %d signed bits", errs.ErrOutOfRange, v, f.IntegerBits+f.FractionalBits)
		}
		raw := int64(scaled)

		return f.backing(true).Encode(buf, engine, raw)
	default: // FixedPointUnsigned
		scaled := math.Round(v * f.scale)
		if scaled < 0 || scaled >= math.Ldexp(1, f.IntegerBits+f.FractionalBits) {
			return buf, fmt.Errorf("%w: fixed-point value %v does not fit %d unsigned bits", errs.ErrOutOfRange, v, f.IntegerBits+f.FractionalBits)
		}
		raw := uint64(scaled)

		return f.backing(false).Encode(buf, engine, raw)
	}
}

func (f FixedPoint) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	switch f.Encoding {
	case FixedPointDirectionMagnitude:
		raw, consumed, err := f.backing(false).Decode(data, engine)
		if err != nil {
			return nil, 0, err
		}
		rawU, _ := toUint64(raw)

		msbPos := uint(f.IntegerBits + f.FractionalBits)
		direction := (rawU >> msbPos) & 1
		mask := uint64(1)<<msbPos - 1
		magnitude := float64(rawU&mask) / f.scale
		if direction == 1 {
			magnitude = -magnitude
		}

		return magnitude, consumed, nil
	case FixedPointSigned:
		raw, consumed, err := f.backing(true).Decode(data, engine)
		if err != nil {
			return nil, 0, err
		}
		rawI, _ := toInt64(raw)

		return float64(rawI) / f.scale, consumed, nil
	default:
		raw, consumed, err := f.backing(false).Decode(data, engine)
		if err != nil {
			return nil, 0, err
		}
		rawU, _ := toUint64(raw)

		return float64(rawU) / f.scale, consumed, nil
	}
}
