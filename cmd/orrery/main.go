package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/config"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/observability"
	"github.com/signalsfoundry/orrery/internal/sim"
	"github.com/signalsfoundry/orrery/kb"
	"github.com/signalsfoundry/orrery/timectrl"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	healthService = "orrery"
	// autopilotDwellTicks is three seconds at the default tick.
	autopilotDwellTicks = 180
	// summaryEvery controls how often a frame summary is logged.
	summaryEvery = 60
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "orrery: %v\n", err)
		os.Exit(2)
	}
	cfg, err = parseFlags(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "orrery: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, log := logging.WithRunLogger(ctx, logging.New(cfg.Logging))
	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "orrery exited with error", logging.Err(err))
		os.Exit(1)
	}
}

// parseFlags overlays command-line flags on cfg.
func parseFlags(args []string, cfg config.Config, output io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("orrery", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.DurationVar(&cfg.Tick, "tick", cfg.Tick, "fixed simulation timestep")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "total simulated time (0 runs until interrupted)")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "time mode: realtime or accelerated")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "YAML catalog path (empty uses the built-in system)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "HTTP address for Prometheus /metrics (empty disables)")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "TCP address for the gRPC health server (empty disables)")
	fs.BoolVar(&cfg.Autopilot, "autopilot", cfg.Autopilot, "tour the planets automatically")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// run wires the simulation and blocks until the configured duration has
// elapsed or ctx is cancelled.
func run(ctx context.Context, cfg config.Config, log logging.Logger) error {
	mode, err := cfg.TimeMode()
	if err != nil {
		return err
	}

	tracing := cfg.Tracing
	tracing.Catalog = cfg.CatalogPath
	tracing.TimeMode = mode.String()
	shutdownTracing, err := observability.InitTracing(ctx, tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewSimCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	metricsSrv := serveMetrics(cfg.MetricsAddr, collector, log)

	start := time.Now().UTC()
	catalog, err := core.LoadCatalogFile(cfg.CatalogPath)
	if err != nil {
		return err
	}
	system, err := core.NewSolarSystemFromCatalog(catalog, core.WithTLEEpoch(start))
	if err != nil {
		return err
	}
	log.Info(ctx, "solar system loaded",
		logging.String("star", system.Star().Name()),
		logging.Int("planets", system.PlanetCount()),
		logging.String("catalog", catalogName(cfg.CatalogPath)),
	)

	store := kb.NewKnowledgeBase()
	unsubscribe := store.Subscribe(func(ev kb.Event) {
		if ev.Type != kb.EventFramePublished || ev.Frame.Tick%summaryEvery != 0 {
			return
		}
		log.Debug(ctx, "frame",
			logging.Any("tick", ev.Frame.Tick),
			logging.Float("time", ev.Frame.Time),
			logging.String("mode", ev.Frame.Mode),
			logging.Vec("eye", ev.Frame.Camera.Eye),
			logging.Float("distortion", ev.Frame.Distortion),
		)
	})
	defer unsubscribe()

	engine := sim.NewEngine(system, log,
		sim.WithMetrics(collector),
		sim.WithKnowledgeBase(store),
	)

	var pilot *sim.Autopilot
	if cfg.Autopilot {
		pilot = sim.NewAutopilot(system.PlanetCount(), autopilotDwellTicks)
	}

	var (
		grpcSrv   *grpc.Server
		healthSrv *health.Server
	)
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen for gRPC on %s: %w", cfg.GRPCAddr, err)
		}
		grpcSrv, healthSrv = serveHealth(ctx, lis, collector, log)
	}

	tc := timectrl.NewTimeController(start, cfg.Tick, mode)
	tc.AddListener(func(_ time.Time, dt time.Duration) {
		if pilot != nil {
			engine.Enqueue(pilot.Next(engine.Warp().IsActive())...)
		}
		engine.Step(ctx, dt.Seconds())
	})

	log.Info(ctx, "starting simulation",
		logging.String("tick", cfg.Tick.String()),
		logging.String("duration", cfg.Duration.String()),
		logging.String("mode", mode.String()),
		logging.Bool("autopilot", cfg.Autopilot),
	)
	<-tc.Start(ctx, cfg.Duration)

	log.Info(ctx, "simulation stopped",
		logging.Any("ticks", tc.Ticks()),
		logging.String("sim_elapsed", tc.Elapsed().String()),
		logging.Any("frames_published", store.Published()),
	)

	if healthSrv != nil {
		healthSrv.Shutdown()
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return nil
}

func catalogName(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

func serveMetrics(addr string, collector *observability.SimCollector, log logging.Logger) *http.Server {
	if collector == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

// serveHealth starts a gRPC server on lis exposing the standard health
// service.
func serveHealth(ctx context.Context, lis net.Listener, collector *observability.SimCollector, log logging.Logger) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			observability.TracingUnaryServerInterceptor(log),
			collector.UnaryServerInterceptor(),
		),
	)
	hs := health.NewServer()
	hs.SetServingStatus(healthService, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, hs)

	log.Info(ctx, "starting gRPC health server", logging.String("addr", lis.Addr().String()))
	go func() {
		if err := server.Serve(lis); err != nil {
			log.Error(ctx, "gRPC server exited", logging.Err(err))
		}
	}()
	return server, hs
}
