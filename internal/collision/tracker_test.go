package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker_Track(t *testing.T) {
	t.Run("tracks distinct fingerprints without collision", func(t *testing.T) {
		tr := NewTracker()
		require.NoError(t, tr.Track("SensorReading", 0x1111))
		require.NoError(t, tr.Track("HeartbeatAck", 0x2222))
		require.False(t, tr.HasCollision())
		require.Equal(t, 2, tr.Count())
		require.Equal(t, []string{"SensorReading", "HeartbeatAck"}, tr.Names())
	})

	t.Run("flags collision when two names share a fingerprint", func(t *testing.T) {
		tr := NewTracker()
		require.NoError(t, tr.Track("SensorReading", 0x1111))
		require.NoError(t, tr.Track("HeartbeatAck", 0x1111))
		require.True(t, tr.HasCollision())
	})

	t.Run("rejects duplicate registration of the same name", func(t *testing.T) {
		tr := NewTracker()
		require.NoError(t, tr.Track("SensorReading", 0x1111))
		require.Error(t, tr.Track("SensorReading", 0x1111))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		tr := NewTracker()
		require.Error(t, tr.Track("", 0x1111))
	})

	t.Run("reset clears state", func(t *testing.T) {
		tr := NewTracker()
		require.NoError(t, tr.Track("SensorReading", 0x1111))
		tr.Reset()
		require.Equal(t, 0, tr.Count())
		require.False(t, tr.HasCollision())
	})
}
