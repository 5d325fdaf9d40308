package bintree

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel = "error_type"
	policyLabel  = "policy"
)

var (
	bintreeInsertions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bintree_insertions",
		Help: "The number of particles inserted in partition trees.",
	}, []string{
		policyLabel,
	})

	bintreeInsertErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bintree_insert_errors",
		Help: "The errors that occured while inserting a particle.",
	}, []string{
		errTypeLabel,
	})

	bintreeInsertDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bintree_insert_depth",
		Help:    "The depth of the node where a particle was stored.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 11),
	})

	bintreeBuildLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "bintree_build_latency",
		Help: "The time to build a scene tree.",
	})
)

func instrumentInsert(policy OccupantPolicy, depth int) {
	bintreeInsertions.
		With(prometheus.Labels{policyLabel: policy.String()}).
		Inc()
	bintreeInsertDepth.Observe(float64(depth))
}

func instrumentInsertError(err error) {
	bintreeInsertErrors.
		With(prometheus.Labels{errTypeLabel: errors.Type(err)}).
		Inc()
}

func instrumentBuildLatency(start time.Time) {
	bintreeBuildLatency.Observe(time.Since(start).Seconds())
}
