package models

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel = "error_type"
	policyLabel  = "policy"
)

var (
	sceneBuildCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scene_build_count_total",
		Help: "The total number of scene builds.",
	}, []string{policyLabel})

	sceneBuildErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scene_build_errors",
		Help: "The errors that occured while building a scene.",
	}, []string{errTypeLabel})

	sceneParticleCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scene_particle_count",
		Help: "The number of particles in the latest scene.",
	})

	sceneNodeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scene_node_count",
		Help: "The number of tree nodes in the latest scene.",
	})

	sceneTreeDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scene_tree_depth",
		Help: "The depth of the tree of the latest scene.",
	})
)

func instrumentBuild(b *Build) {
	sceneBuildCountTotal.
		With(prometheus.Labels{policyLabel: b.Info.Policy.String()}).
		Inc()
	sceneParticleCount.Set(float64(b.Count))
	sceneNodeCount.Set(float64(b.Info.NodeCount))
	sceneTreeDepth.Set(float64(b.Info.Depth))
}

func instrumentBuildError(err error) {
	sceneBuildErrors.
		With(prometheus.Labels{errTypeLabel: errors.Type(err)}).
		Inc()
}
