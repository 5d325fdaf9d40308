package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aukilabs/treecode/models"
	"github.com/aukilabs/treecode/modules/bintree"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func newSceneTestBuilder(cfg *bintree.Config) *models.Builder {
	return &models.Builder{
		Config:       cfg,
		DefaultCount: 16,
		MaxCount:     100,
		Store:        &models.SceneStore{},
	}
}

func TestHandleScene(t *testing.T) {
	t.Run("no scene built", func(t *testing.T) {
		h := HandleScene(newSceneTestBuilder(nil))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/scene", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("scene is built and served", func(t *testing.T) {
		h := HandleScene(newSceneTestBuilder(nil))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/scene", strings.NewReader(`{"positions":[0.2,0.7,0.3]}`)))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var built models.Build
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &built))
		require.Equal(t, 3, built.Count)
		require.Equal(t, bintree.ParticleID(0), *built.Tree.Occupant)
		require.Equal(t, bintree.ParticleID(2), *built.Tree.Left.Occupant)
		require.Equal(t, bintree.ParticleID(1), *built.Tree.Right.Occupant)

		w = httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/scene", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var latest models.Build
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
		require.Equal(t, built.ID, latest.ID)
		require.Equal(t, built.Fingerprint, latest.Fingerprint)
	})

	t.Run("seeded scene", func(t *testing.T) {
		h := HandleScene(newSceneTestBuilder(nil))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/scene", strings.NewReader(`{"count":42,"seed":7}`)))
		require.Equal(t, http.StatusOK, w.Code)

		var built models.Build
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &built))
		require.Equal(t, 42, built.Count)
		require.Equal(t, uint64(7), built.Seed)
		require.Equal(t, 42, built.Info.OccupantCount)
	})

	t.Run("empty positions", func(t *testing.T) {
		h := HandleScene(newSceneTestBuilder(nil))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/scene", strings.NewReader(`{"positions":[]}`)))
		require.Equal(t, http.StatusOK, w.Code)

		var built models.Build
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &built))
		require.Zero(t, built.Count)
		require.Equal(t, 1, built.Info.NodeCount)
		require.Nil(t, built.Tree.Occupant)
	})

	t.Run("max count positions fit in the body limit", func(t *testing.T) {
		b := newSceneTestBuilder(nil)
		b.MaxCount = 20000
		h := HandleScene(b)

		var body strings.Builder
		body.WriteString(`{"positions":[`)
		for i := 0; i < b.MaxCount; i++ {
			if i > 0 {
				body.WriteString(", ")
			}
			fmt.Fprintf(&body, "%.17g", (float64(i)+0.123456789)/float64(b.MaxCount))
		}
		body.WriteString(`]}`)
		require.Greater(t, body.Len(), 18*b.MaxCount)

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/scene", strings.NewReader(body.String())))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		b := newSceneTestBuilder(nil)
		b.MaxCount = 3
		h := HandleScene(b)

		body := `{"positions":[0.1` + strings.Repeat(" ", int(buildRequestSize(b.MaxCount))) + `]}`

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/scene", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := HandleScene(newSceneTestBuilder(nil))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/scene", strings.NewReader(`{"count":`)))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid positions", func(t *testing.T) {
		h := HandleScene(newSceneTestBuilder(nil))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/scene", strings.NewReader(`{"positions":[0.2,1.5]}`)))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("colliding positions", func(t *testing.T) {
		h := HandleScene(newSceneTestBuilder(&bintree.Config{
			Policy:   bintree.PushDownOccupant,
			MaxDepth: 4,
		}))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/scene", strings.NewReader(`{"positions":[0,0]}`)))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var res errorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Equal(t, bintree.ErrTypeDepthExceeded, res.ErrorType)
	})

	t.Run("unsupported method", func(t *testing.T) {
		h := HandleScene(newSceneTestBuilder(nil))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodDelete, "/scene", nil))
		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestBuildRequestSize(t *testing.T) {
	require.Equal(t, int64(defaultBuildRequestSize), buildRequestSize(0))

	// A million full precision positions.
	const maxCount = 1 << 20
	require.Greater(t, buildRequestSize(maxCount), int64(maxCount*len("0.12345678901234568, ")))
}
