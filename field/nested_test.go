package field

import (
	"testing"

	"github.com/coreframe/telemetrycodec/endian"
	"github.com/stretchr/testify/require"
)

func TestNested_Marker(t *testing.T) {
	n := Nested{}

	require.Equal(t, KindNested, n.Kind())
	require.False(t, n.Primitive())

	_, ok := n.FixedSize()
	require.False(t, ok)
}

func TestNested_EncodeDecodeAreUnreachableSentinels(t *testing.T) {
	n := Nested{}
	engine := endian.GetLittleEndianEngine()

	_, err := n.Encode(nil, engine, nil)
	require.Error(t, err)

	_, _, err = n.Decode(nil, engine)
	require.Error(t, err)
}
