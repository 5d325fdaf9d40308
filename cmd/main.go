package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/treecode/featureflag"
	treecodehttp "github.com/aukilabs/treecode/http"
	"github.com/aukilabs/treecode/models"
	"github.com/aukilabs/treecode/modules/bintree"
	twebsocket "github.com/aukilabs/treecode/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

var (
	// The treecode version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "treecode_info",
		Help:        "Treecode information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr                string        `cli:""        env:"TREECODE_ADDR"                  help:"Listening address for scene requests."`
	AdminAddr           string        `cli:""        env:"TREECODE_ADMIN_ADDR"            help:"Admin listening address."`
	LogLevel            string        `cli:""        env:"TREECODE_LOG_LEVEL"             help:"Log level (debug|info|warning|error)."`
	LogIndent           bool          `cli:""        env:"TREECODE_LOG_INDENT"            help:"Indent logs."`
	ParticleCount       int           `cli:""        env:"TREECODE_PARTICLE_COUNT"        help:"The number of particles of the startup scene and of requests without a count."`
	MaxParticleCount    int           `cli:""        env:"TREECODE_MAX_PARTICLE_COUNT"    help:"The maximum number of particles of a requested scene."`
	Seed                int           `cli:""        env:"TREECODE_SEED"                  help:"The seed of the startup scene sampler."`
	MaxDepth            int           `cli:""        env:"TREECODE_MAX_DEPTH"             help:"The deepest tree level a particle can be stored at."`
	TraceReceiveTimeout time.Duration `cli:",hidden" env:"TREECODE_TRACE_RECEIVE_TIMEOUT" help:"Time to wait for the build request of a trace connection."`
	ShutdownTimeout     time.Duration `cli:",hidden" env:"TREECODE_SHUTDOWN_TIMEOUT"      help:"Time given to in-flight requests on shutdown."`
	Events              eventsConfig  `cli:",hidden" env:"-"                              help:"Event pusher configuration."`
	FeatureFlags        []string      `cli:",hidden" env:"TREECODE_FEATURE_FLAGS"         help:"Comma separated feature flags"`
	Version             bool          `cli:""        env:"-"                              help:"Show version."`
	Help                bool          `cli:""        env:"-"                              help:"Show help."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"TREECODE_EVENTS_ENDPOINT"       help:"Endpoint to where events are pushed."`
	FlushInterval time.Duration `cli:",hidden" env:"TREECODE_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"TREECODE_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"TREECODE_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func main() {
	conf := config{
		Addr:                ":4100",
		AdminAddr:           ":18191",
		LogLevel:            logs.InfoLevel.String(),
		ParticleCount:       1,
		MaxParticleCount:    1 << 20,
		Seed:                1,
		MaxDepth:            bintree.DefaultMaxDepth,
		TraceReceiveTimeout: time.Second * 10,
		ShutdownTimeout:     time.Second * 5,
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Builds one-dimensional partition trees and serves them.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     metrics.HTTPTransport(http.DefaultTransport),
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "treecode",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	flags := featureflag.New(conf.FeatureFlags)
	builder := newBuilder(conf, flags)

	// The startup scene. It makes the service ready once built.
	if _, err := builder.Run(models.BuildRequest{Seed: uint64(conf.Seed)}, nil); err != nil {
		logs.Fatal(errors.New("building startup scene failed").Wrap(err))
	}

	readinessCheck := func() bool {
		_, ok := builder.Store.Latest()
		return ok
	}

	var service http.ServeMux
	service.Handle("/scene", treecodehttp.HandleScene(builder))
	service.Handle("/trace", websocket.Server{
		Handler: twebsocket.HandleTrace(builder, conf.TraceReceiveTimeout),
	})
	service.HandleFunc("/health", treecodehttp.HandleHealthCheck)
	service.HandleFunc("/ready", treecodehttp.HandleReadyCheck(readinessCheck))
	service.HandleFunc("/version", treecodehttp.HandleVersion(version))

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", treecodehttp.HandleHealthCheck)
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.HandleFunc("/ready", treecodehttp.HandleReadyCheck(readinessCheck))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("policy", builder.Config.Policy.String()).
		WithTag("max_depth", builder.Config.MaxDepth).
		WithTag("feature_flags", flags.Strings()).
		Info("starting treecode server")

	treecodehttp.ListenAndServe(ctx, conf.ShutdownTimeout,
		&http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			treecodehttp.MetricsPathFormatter)},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)
}

func newBuilder(conf config, flags featureflag.FeatureFlag) *models.Builder {
	treeConfig := &bintree.Config{
		MaxDepth: conf.MaxDepth,
		Policy:   bintree.KeepOccupant,
	}
	flags.IfSet(featureflag.FlagPushDownOccupants, func() {
		treeConfig.Policy = bintree.PushDownOccupant
	})

	return &models.Builder{
		Config:          treeConfig.OrDefault(),
		DefaultCount:    conf.ParticleCount,
		MaxCount:        conf.MaxParticleCount,
		TraceInsertions: flags.Has(featureflag.FlagTraceInsertions),
		Store:           &models.SceneStore{},
	}
}

func validateConfig(conf config) error {
	if conf.ParticleCount < 0 {
		return errors.New("particle count is negative").
			WithTag("particle_count", conf.ParticleCount)
	}

	if conf.Seed < 0 {
		return errors.New("seed is negative").
			WithTag("seed", conf.Seed)
	}

	if conf.MaxParticleCount > 0 && conf.ParticleCount > conf.MaxParticleCount {
		return errors.New("particle count is greater than the max particle count").
			WithTag("particle_count", conf.ParticleCount).
			WithTag("max_particle_count", conf.MaxParticleCount)
	}

	if conf.MaxDepth <= 0 {
		return errors.New("max depth must be positive").
			WithTag("max_depth", conf.MaxDepth)
	}

	return nil
}
