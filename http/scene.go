package http

import (
	"net/http"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	httpcmn "github.com/aukilabs/hagall-common/http"
	"github.com/aukilabs/treecode/models"
	"github.com/aukilabs/treecode/modules/bintree"
	"github.com/segmentio/encoding/json"
)

const (
	// Body limit when the builder has no particle limit.
	defaultBuildRequestSize = 8 << 20

	// Room for one encoded position: up to 24 characters for a float64, a
	// separator and some whitespace.
	positionEncodedSize = 32

	buildRequestOverhead = 4 << 10
)

// buildRequestSize returns the largest build request body accepted for a
// builder allowing maxCount particles.
func buildRequestSize(maxCount int) int64 {
	if maxCount <= 0 {
		return defaultBuildRequestSize
	}
	return int64(maxCount)*positionEncodedSize + buildRequestOverhead
}

type errorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type,omitempty"`
}

// HandleScene serves the latest scene build on GET and builds a new scene
// from the request body on POST.
func HandleScene(builder *models.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handleGetScene(builder, w, r)

		case http.MethodPost:
			handleBuildScene(builder, w, r)

		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func handleGetScene(builder *models.Builder, w http.ResponseWriter, r *http.Request) {
	if builder.Store == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	build, ok := builder.Store.Latest()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, build)
}

func handleBuildScene(builder *models.Builder, w http.ResponseWriter, r *http.Request) {
	var req models.BuildRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, buildRequestSize(builder.MaxCount))).Decode(&req); err != nil {
		logs.Warn(errors.New("decoding build request failed").Wrap(err))
		httpcmn.BadRequest(w, httpcmn.ErrBadRequest)
		return
	}

	build, err := builder.Run(req, nil)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, build)

	case errors.IsType(err, models.ErrTypeInvalidBuildRequest):
		httpcmn.BadRequest(w, err)

	case errors.IsType(err, bintree.ErrTypeDepthExceeded):
		logs.Warn(err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:     "too many colliding insertions",
			ErrorType: bintree.ErrTypeDepthExceeded,
		})

	default:
		httpcmn.InternalServerError(w, errors.New("building scene failed").Wrap(err))
	}
}
