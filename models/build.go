package models

import (
	"math"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/treecode/modules/bintree"
	"github.com/google/uuid"
)

const (
	// ErrTypeInvalidBuildRequest is the type of the errors returned when a build
	// request can't be served.
	ErrTypeInvalidBuildRequest = "invalid_build_request"
)

// BuildRequest describes the particles of a scene to build. Either Count or
// Positions is used: when Positions is set, even empty, particles are created
// in its order, otherwise Count particles are drawn from a sampler seeded with
// Seed.
type BuildRequest struct {
	Count     *int      `json:"count,omitempty"`
	Seed      uint64    `json:"seed,omitempty"`
	Positions []float64 `json:"positions,omitempty"`
}

// Build is the result of a scene build.
type Build struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	Count       int               `json:"count"`
	Seed        uint64            `json:"seed,omitempty"`
	Info        bintree.DebugInfo `json:"info"`
	Fingerprint string            `json:"fingerprint"`
	Tree        *bintree.Snapshot `json:"tree,omitempty"`
}

// Builder builds scenes for incoming requests. Each build runs on its own
// scene so concurrent builds don't share tree state.
type Builder struct {
	// The tree configuration used by every build.
	Config *bintree.Config

	// The particle count used when a request has neither a count nor
	// positions.
	DefaultCount int

	// The maximum number of particles in a scene. No limit when 0.
	MaxCount int

	// Logs each insertion at debug level when true.
	TraceInsertions bool

	// Where successful builds are stored. Optional.
	Store *SceneStore
}

// Run builds the scene described by req. onInsert, when not nil, is called
// after each insertion in particle id order.
func (b *Builder) Run(req BuildRequest, onInsert func(bintree.InsertEvent)) (*Build, error) {
	if err := b.validate(req); err != nil {
		return nil, err
	}

	buildID := uuid.NewString()
	scene := bintree.NewScene(b.Config)

	seed := req.Seed
	if req.Positions != nil {
		seed = 0
		scene.SetPositions(req.Positions)
	} else {
		count := b.DefaultCount
		if req.Count != nil {
			count = *req.Count
		}
		if err := scene.Initialize(count, bintree.NewSampler(seed)); err != nil {
			return nil, err
		}
	}

	scene.OnInsert = func(e bintree.InsertEvent) {
		if b.TraceInsertions {
			logs.WithTag("build_id", buildID).
				WithTag("particle_id", e.ID).
				WithTag("position", e.Position).
				WithTag("path", e.Path.String()).
				Debug("particle inserted")
		}
		if onInsert != nil {
			onInsert(e)
		}
	}

	if err := scene.Build(); err != nil {
		instrumentBuildError(err)
		return nil, errors.New("building scene failed").
			WithType(errors.Type(err)).
			WithTag("build_id", buildID).
			Wrap(err)
	}

	tree := scene.Tree()
	snapshot := tree.Snapshot()
	fingerprint, err := snapshot.Fingerprint()
	if err != nil {
		return nil, err
	}

	build := &Build{
		ID:          buildID,
		CreatedAt:   time.Now(),
		Count:       len(scene.Particles()),
		Seed:        seed,
		Info:        tree.GetDebugInfo(),
		Fingerprint: fingerprint,
		Tree:        snapshot,
	}

	if b.Store != nil {
		b.Store.Set(build)
	}

	logs.WithTag("build_id", build.ID).
		WithTag("count", build.Count).
		WithTag("seed", build.Seed).
		WithTag("policy", build.Info.Policy.String()).
		WithTag("node_count", build.Info.NodeCount).
		WithTag("depth", build.Info.Depth).
		WithTag("fingerprint", build.Fingerprint).
		Info("scene built")
	return build, nil
}

func (b *Builder) validate(req BuildRequest) error {
	if req.Count != nil && req.Positions != nil {
		return errors.New("count and positions are mutually exclusive").
			WithType(ErrTypeInvalidBuildRequest)
	}

	count := len(req.Positions)
	if req.Count != nil {
		count = *req.Count
	}
	if count < 0 {
		return errors.New("particle count is negative").
			WithType(ErrTypeInvalidBuildRequest).
			WithTag("count", count)
	}
	if b.MaxCount > 0 && count > b.MaxCount {
		return errors.New("too many particles").
			WithType(ErrTypeInvalidBuildRequest).
			WithTag("count", count).
			WithTag("max_count", b.MaxCount)
	}

	for i, p := range req.Positions {
		if math.IsNaN(p) || p < 0 || p >= 1 {
			return errors.New("position is out of [0,1)").
				WithType(ErrTypeInvalidBuildRequest).
				WithTag("index", i).
				WithTag("position", p)
		}
	}
	return nil
}
