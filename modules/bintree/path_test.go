package bintree

import (
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func TestPathOf(t *testing.T) {
	require.Empty(t, PathOf(0.3, 0))
	require.Equal(t, "LRL", PathOf(0.3, 3).String())
	require.Equal(t, "R", PathOf(0.5, 1).String())
	require.Equal(t, "RR", PathOf(0.75, 2).String())
	require.Equal(t, "LLLL", PathOf(0, 4).String())
}

func TestPathText(t *testing.T) {
	t.Run("path is encoded as letters", func(t *testing.T) {
		b, err := json.Marshal(Path{Left, Right, Right})
		require.NoError(t, err)
		require.Equal(t, `"LRR"`, string(b))
	})

	t.Run("path is decoded from letters", func(t *testing.T) {
		var p Path
		require.NoError(t, json.Unmarshal([]byte(`"RLR"`), &p))
		require.Equal(t, Path{Right, Left, Right}, p)
	})

	t.Run("invalid branch is rejected", func(t *testing.T) {
		var p Path
		require.Error(t, p.UnmarshalText([]byte("LXR")))
	})
}
