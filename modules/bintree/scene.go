package bintree

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Particle is a point-like entity with a position in [0,1).
type Particle struct {
	Position float64
}

// InsertEvent describes where a particle landed during a build.
type InsertEvent struct {
	ID       ParticleID `json:"id"`
	Position float64    `json:"position"`
	Path     Path       `json:"path"`
	Depth    int        `json:"depth"`
}

// Scene owns a particle sequence and the tree built from it.
type Scene struct {
	// Called after each successful insertion during Build, in id order.
	OnInsert func(InsertEvent)

	particles []Particle
	tree      *Tree
}

// NewScene creates a scene without particles. Uses default config if cfg is
// nil.
func NewScene(cfg *Config) *Scene {
	return &Scene{
		tree: NewTree(cfg),
	}
}

// Initialize replaces the particles with count particles drawn from sampler.
func (s *Scene) Initialize(count int, sampler Sampler) error {
	if count < 0 {
		return errors.New("particle count is negative").
			WithType(ErrTypeInvalidCount).
			WithTag("count", count)
	}

	particles := make([]Particle, count)
	for i := range particles {
		particles[i].Position = sampler.Float64()
	}
	s.particles = particles
	return nil
}

// SetPositions replaces the particles with one particle per position, ids
// following the slice order.
func (s *Scene) SetPositions(positions []float64) {
	particles := make([]Particle, len(positions))
	for i, p := range positions {
		particles[i].Position = p
	}
	s.particles = particles
}

func (s *Scene) Particles() []Particle {
	return s.particles
}

func (s *Scene) Tree() *Tree {
	return s.tree
}

// Build discards the current tree and inserts every particle in id order. It
// stops at the first insertion that fails.
func (s *Scene) Build() error {
	defer instrumentBuildLatency(time.Now())

	s.tree.Reset()
	for i, p := range s.particles {
		id := ParticleID(i)

		path, err := s.tree.Insert(id, p.Position)
		if err != nil {
			return err
		}

		if s.OnInsert != nil {
			s.OnInsert(InsertEvent{
				ID:       id,
				Position: p.Position,
				Path:     path,
				Depth:    len(path),
			})
		}
	}
	return nil
}
