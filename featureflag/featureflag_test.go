package featureflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeatureFlag(t *testing.T) {
	f := New([]string{" push_down_occupants", "", string(FlagTraceInsertions)})

	t.Run("flags are normalized", func(t *testing.T) {
		require.True(t, f.Has(FlagPushDownOccupants))
		require.True(t, f.Has(FlagTraceInsertions))
		require.Len(t, f, 2)
		require.Equal(t, []string{"PUSH_DOWN_OCCUPANTS", "TRACE_INSERTIONS"}, f.Strings())
	})

	t.Run("run if enabled", func(t *testing.T) {
		var pushDown bool
		f.IfSet(FlagPushDownOccupants, func() {
			pushDown = true
		})
		require.True(t, pushDown)

		var unknown bool
		f.IfSet("UNKNOWN", func() {
			unknown = true
		})
		require.False(t, unknown)
	})

	t.Run("run if disabled", func(t *testing.T) {
		var pushDown bool
		f.IfNotSet(FlagPushDownOccupants, func() {
			pushDown = true
		})
		require.False(t, pushDown)

		var unknown bool
		f.IfNotSet("UNKNOWN", func() {
			unknown = true
		})
		require.True(t, unknown)
	})
}
