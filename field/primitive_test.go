package field

import (
	"testing"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/stretchr/testify/require"
)

// TestPrimitiveEndiannessMix reproduces seed scenario 1: a u16-big,
// u8, u16-little trio encodes to CA FE 01 34 12.
func TestPrimitiveEndiannessMix(t *testing.T) {
	big := endian.GetBigEndianEngine()
	little := endian.GetLittleEndianEngine()

	var buf []byte
	var err error

	buf, err = Uint16{}.Encode(buf, big, uint64(0xCAFE))
	require.NoError(t, err)
	buf, err = Uint8{}.Encode(buf, big, uint64(1))
	require.NoError(t, err)
	buf, err = Uint16{}.Encode(buf, little, uint64(0x1234))
	require.NoError(t, err)

	require.Equal(t, []byte{0xCA, 0xFE, 0x01, 0x34, 0x12}, buf)

	magic, n, err := Uint16{}.Decode(buf[0:], big)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, uint64(0xCAFE), magic)

	version, n, err := Uint8{}.Decode(buf[2:], big)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, uint64(1), version)

	value, n, err := Uint16{}.Decode(buf[3:], little)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, uint64(0x1234), value)
}

func TestInt8_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	buf, err := Int8{}.Encode(nil, engine, int64(-5))
	require.NoError(t, err)
	require.Equal(t, []byte{0xFB}, buf)

	v, n, err := Int8{}.Decode(buf, engine)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, int64(-5), v)
}

func TestBool_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	buf, err := Bool{}.Encode(nil, engine, true)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, buf)

	v, n, err := Bool{}.Decode(buf, engine)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, true, v)
}

func TestInt32_RoundTrip_BothEndian(t *testing.T) {
	little := endian.GetLittleEndianEngine()
	big := endian.GetBigEndianEngine()

	bufLittle, err := Int32{}.Encode(nil, little, int64(-1000000))
	require.NoError(t, err)
	bufBig, err := Int32{}.Encode(nil, big, int64(-1000000))
	require.NoError(t, err)

	require.NotEqual(t, bufLittle, bufBig)

	vLittle, _, err := Int32{}.Decode(bufLittle, little)
	require.NoError(t, err)
	require.Equal(t, int64(-1000000), vLittle)

	vBig, _, err := Int32{}.Decode(bufBig, big)
	require.NoError(t, err)
	require.Equal(t, int64(-1000000), vBig)
}

func TestFloat64_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	buf, err := Float64{}.Encode(nil, engine, 3.14159)
	require.NoError(t, err)
	require.Len(t, buf, 8)

	v, n, err := Float64{}.Decode(buf, engine)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.InDelta(t, 3.14159, v, 1e-12)
}

func TestPrimitive_DecodeIncomplete(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	_, _, err := Uint32{}.Decode([]byte{0x01, 0x02}, engine)
	require.Error(t, err)
}
