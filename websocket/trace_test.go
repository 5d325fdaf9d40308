package websocket

import (
	"testing"
	"time"

	"github.com/aukilabs/treecode/models"
	"github.com/aukilabs/treecode/modules/bintree"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func receiveUntilDone(t *testing.T, conn *websocket.Conn) []TraceMsg {
	var msgs []TraceMsg
	for {
		var msg TraceMsg
		require.NoError(t, JSON.Receive(conn, &msg))
		msgs = append(msgs, msg)

		if msg.Type != MsgTypeInsert {
			return msgs
		}
	}
}

func TestHandleTrace(t *testing.T) {
	t.Run("insertions are streamed", func(t *testing.T) {
		store := &models.SceneStore{}
		conn, close := NewTestingEnv(t, HandleTrace(&models.Builder{Store: store}, time.Second))
		defer close()

		err := JSON.Send(conn, models.BuildRequest{Positions: []float64{0.2, 0.7, 0.3}})
		require.NoError(t, err)

		msgs := receiveUntilDone(t, conn)
		require.Len(t, msgs, 4)

		expectedPaths := []string{"", "R", "L"}
		for i, path := range expectedPaths {
			require.Equal(t, MsgTypeInsert, msgs[i].Type)
			require.Equal(t, bintree.ParticleID(i), msgs[i].Insert.ID)
			require.Equal(t, path, msgs[i].Insert.Path.String())
		}

		summary := msgs[3]
		require.Equal(t, MsgTypeSummary, summary.Type)
		require.Equal(t, 3, summary.Build.Count)
		require.Nil(t, summary.Build.Tree)

		latest, ok := store.Latest()
		require.True(t, ok)
		require.Equal(t, latest.ID, summary.Build.ID)
		require.Equal(t, latest.Fingerprint, summary.Build.Fingerprint)
	})

	t.Run("seeded build", func(t *testing.T) {
		conn, close := NewTestingEnv(t, HandleTrace(&models.Builder{}, time.Second))
		defer close()

		count := 25
		require.NoError(t, JSON.Send(conn, models.BuildRequest{Count: &count, Seed: 3}))

		msgs := receiveUntilDone(t, conn)
		require.Len(t, msgs, count+1)
		require.Equal(t, MsgTypeSummary, msgs[count].Type)
		require.Equal(t, uint64(3), msgs[count].Build.Seed)
	})

	t.Run("build error", func(t *testing.T) {
		conn, close := NewTestingEnv(t, HandleTrace(&models.Builder{
			Config: &bintree.Config{Policy: bintree.PushDownOccupant, MaxDepth: 4},
		}, time.Second))
		defer close()

		require.NoError(t, JSON.Send(conn, models.BuildRequest{Positions: []float64{0.5, 0, 0}}))

		msgs := receiveUntilDone(t, conn)
		require.Len(t, msgs, 3)
		require.Equal(t, MsgTypeError, msgs[2].Type)
		require.Equal(t, bintree.ErrTypeDepthExceeded, msgs[2].ErrorType)
	})

	t.Run("invalid request", func(t *testing.T) {
		conn, close := NewTestingEnv(t, HandleTrace(&models.Builder{}, time.Second))
		defer close()

		require.NoError(t, JSON.Send(conn, models.BuildRequest{Positions: []float64{2}}))

		msgs := receiveUntilDone(t, conn)
		require.Len(t, msgs, 1)
		require.Equal(t, models.ErrTypeInvalidBuildRequest, msgs[0].ErrorType)
	})

	t.Run("malformed request", func(t *testing.T) {
		conn, close := NewTestingEnv(t, HandleTrace(&models.Builder{}, time.Second))
		defer close()

		_, err := conn.Write([]byte("{"))
		require.NoError(t, err)

		msgs := receiveUntilDone(t, conn)
		require.Len(t, msgs, 1)
		require.Equal(t, MsgTypeError, msgs[0].Type)
	})
}
