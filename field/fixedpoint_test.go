package field

import (
	"testing"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/stretchr/testify/require"
)

// TestFixedPoint_DirectionMagnitude reproduces seed scenario 3: I=7, F=8,
// direction-magnitude encoding of -5.0 yields little-endian bytes 00 85.
func TestFixedPoint_DirectionMagnitude(t *testing.T) {
	f, err := NewFixedPoint(7, 8, FixedPointDirectionMagnitude)
	require.NoError(t, err)
	require.Equal(t, 2, f.width)

	little := endian.GetLittleEndianEngine()

	buf, err := f.Encode(nil, little, -5.0)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x85}, buf)

	v, n, err := f.Decode(buf, little)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.InDelta(t, -5.0, v, 1.0/256)
}

func TestFixedPoint_Unsigned_RoundTrip(t *testing.T) {
	f, err := NewFixedPoint(4, 4, FixedPointUnsigned)
	require.NoError(t, err)

	little := endian.GetLittleEndianEngine()

	buf, err := f.Encode(nil, little, 10.5)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, little)
	require.NoError(t, err)
	require.InDelta(t, 10.5, v, 1.0/16)
}

func TestFixedPoint_Signed_RoundTrip(t *testing.T) {
	f, err := NewFixedPoint(7, 8, FixedPointSigned)
	require.NoError(t, err)

	little := endian.GetLittleEndianEngine()

	buf, err := f.Encode(nil, little, -12.25)
	require.NoError(t, err)

	v, _, err := f.Decode(buf, little)
	require.NoError(t, err)
	require.InDelta(t, -12.25, v, 1.0/256)
}

func TestNewFixedPoint_OverflowIsSchemaError(t *testing.T) {
	_, err := NewFixedPoint(40, 30, FixedPointDirectionMagnitude)
	require.Error(t, err)
}
