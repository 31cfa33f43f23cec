package field

import (
	"github.com/coreframe/telemetrycodec/endian"
)

// Int8 is a signed 8-bit integer field. Instance values and decoded values
// are normalized to int64.
type Int8 struct{}

func (Int8) Kind() Kind               { return KindInt8 }
func (Int8) Primitive() bool          { return true }
func (Int8) FixedSize() (int, bool)   { return 1, true }
func (Int8) Encode(buf []byte, _ endian.EndianEngine, value any) ([]byte, error) {
	v, err := toInt64(value)
	if err != nil {
		return buf, err
	}

	return append(buf, byte(int8(v))), nil
}
func (Int8) Decode(data []byte, _ endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 1); err != nil {
		return nil, 0, err
	}

	return int64(int8(data[0])), 1, nil
}

// Uint8 is an unsigned 8-bit integer field. Instance values and decoded
// values are normalized to uint64.
type Uint8 struct{}

func (Uint8) Kind() Kind             { return KindUint8 }
func (Uint8) Primitive() bool        { return true }
func (Uint8) FixedSize() (int, bool) { return 1, true }
func (Uint8) Encode(buf []byte, _ endian.EndianEngine, value any) ([]byte, error) {
	v, err := toUint64(value)
	if err != nil {
		return buf, err
	}

	return append(buf, byte(v)), nil
}
func (Uint8) Decode(data []byte, _ endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 1); err != nil {
		return nil, 0, err
	}

	return uint64(data[0]), 1, nil
}

// Bool is a single byte field whose wire value is 0 or 1.
type Bool struct{}

func (Bool) Kind() Kind             { return KindBool }
func (Bool) Primitive() bool        { return true }
func (Bool) FixedSize() (int, bool) { return 1, true }
func (Bool) Encode(buf []byte, _ endian.EndianEngine, value any) ([]byte, error) {
	v, err := toBool(value)
	if err != nil {
		return buf, err
	}
	if v {
		return append(buf, 1), nil
	}

	return append(buf, 0), nil
}
func (Bool) Decode(data []byte, _ endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 1); err != nil {
		return nil, 0, err
	}

	return data[0] != 0, 1, nil
}

// Int16 is a signed 16-bit integer field with configurable byte order.
type Int16 struct{}

func (Int16) Kind() Kind             { return KindInt16 }
func (Int16) Primitive() bool        { return true }
func (Int16) FixedSize() (int, bool) { return 2, true }
func (Int16) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	v, err := toInt64(value)
	if err != nil {
		return buf, err
	}

	return engine.AppendUint16(buf, uint16(int16(v))), nil
}
func (Int16) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 2); err != nil {
		return nil, 0, err
	}

	return int64(int16(engine.Uint16(data))), 2, nil
}

// Uint16 is an unsigned 16-bit integer field with configurable byte order.
type Uint16 struct{}

func (Uint16) Kind() Kind             { return KindUint16 }
func (Uint16) Primitive() bool        { return true }
func (Uint16) FixedSize() (int, bool) { return 2, true }
func (Uint16) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	v, err := toUint64(value)
	if err != nil {
		return buf, err
	}

	return engine.AppendUint16(buf, uint16(v)), nil
}
func (Uint16) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 2); err != nil {
		return nil, 0, err
	}

	return uint64(engine.Uint16(data)), 2, nil
}

// Int32 is a signed 32-bit integer field with configurable byte order.
type Int32 struct{}

func (Int32) Kind() Kind             { return KindInt32 }
func (Int32) Primitive() bool        { return true }
func (Int32) FixedSize() (int, bool) { return 4, true }
func (Int32) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	v, err := toInt64(value)
	if err != nil {
		return buf, err
	}

	return engine.AppendUint32(buf, uint32(int32(v))), nil
}
func (Int32) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 4); err != nil {
		return nil, 0, err
	}

	return int64(int32(engine.Uint32(data))), 4, nil
}

// Uint32 is an unsigned 32-bit integer field with configurable byte order.
type Uint32 struct{}

func (Uint32) Kind() Kind             { return KindUint32 }
func (Uint32) Primitive() bool        { return true }
func (Uint32) FixedSize() (int, bool) { return 4, true }
func (Uint32) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	v, err := toUint64(value)
	if err != nil {
		return buf, err
	}

	return engine.AppendUint32(buf, uint32(v)), nil
}
func (Uint32) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 4); err != nil {
		return nil, 0, err
	}

	return uint64(engine.Uint32(data)), 4, nil
}

// Int64 is a signed 64-bit integer field with configurable byte order.
type Int64 struct{}

func (Int64) Kind() Kind             { return KindInt64 }
func (Int64) Primitive() bool        { return true }
func (Int64) FixedSize() (int, bool) { return 8, true }
func (Int64) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	v, err := toInt64(value)
	if err != nil {
		return buf, err
	}

	return engine.AppendUint64(buf, uint64(v)), nil
}
func (Int64) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 8); err != nil {
		return nil, 0, err
	}

	return int64(engine.Uint64(data)), 8, nil
}

// Uint64 is an unsigned 64-bit integer field with configurable byte order.
type Uint64 struct{}

func (Uint64) Kind() Kind             { return KindUint64 }
func (Uint64) Primitive() bool        { return true }
func (Uint64) FixedSize() (int, bool) { return 8, true }
func (Uint64) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	v, err := toUint64(value)
	if err != nil {
		return buf, err
	}

	return engine.AppendUint64(buf, v), nil
}
func (Uint64) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 8); err != nil {
		return nil, 0, err
	}

	return engine.Uint64(data), 8, nil
}

// Float32 is an IEEE-754 single-precision float field.
type Float32 struct{}

func (Float32) Kind() Kind             { return KindFloat32 }
func (Float32) Primitive() bool        { return true }
func (Float32) FixedSize() (int, bool) { return 4, true }
func (Float32) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	v, err := toFloat64(value)
	if err != nil {
		return buf, err
	}

	return engine.AppendUint32(buf, float32ToBits(float32(v))), nil
}
func (Float32) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 4); err != nil {
		return nil, 0, err
	}

	return float64(bitsToFloat32(engine.Uint32(data))), 4, nil
}

// Float64 is an IEEE-754 double-precision float field.
type Float64 struct{}

func (Float64) Kind() Kind             { return KindFloat64 }
func (Float64) Primitive() bool        { return true }
func (Float64) FixedSize() (int, bool) { return 8, true }
func (Float64) Encode(buf []byte, engine endian.EndianEngine, value any) ([]byte, error) {
	v, err := toFloat64(value)
	if err != nil {
		return buf, err
	}

	return engine.AppendUint64(buf, float64ToBits(v)), nil
}
func (Float64) Decode(data []byte, engine endian.EndianEngine) (any, int, error) {
	if err := needBytes(data, 8); err != nil {
		return nil, 0, err
	}

	return bitsToFloat64(engine.Uint64(data)), 8, nil
}
