package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Camera mode label values reported on orrery_camera_mode.
var cameraModes = []string{"manual", "following", "warping"}

// SimCollector bundles Prometheus metrics for the simulation loop and the
// control-plane gRPC surface.
type SimCollector struct {
	gatherer prometheus.Gatherer

	Ticks         prometheus.Counter
	TickDurations prometheus.Histogram
	Bodies        prometheus.Gauge
	CameraMode    *prometheus.GaugeVec
	WarpsStarted  prometheus.Counter
	Collisions    *prometheus.CounterVec
	Relocations   prometheus.Counter
	HazardStreak  prometheus.Gauge

	RPCRequests  *prometheus.CounterVec
	RPCDurations *prometheus.HistogramVec
}

// NewSimCollector registers simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_ticks_total",
		Help: "Total number of simulation ticks stepped.",
	}), "orrery_ticks_total")
	if err != nil {
		return nil, err
	}

	tickDurations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orrery_tick_duration_seconds",
		Help:    "Wall-clock time spent computing one simulation tick.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}), "orrery_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	bodies, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_bodies",
		Help: "Number of bodies in the most recent frame.",
	}), "orrery_bodies")
	if err != nil {
		return nil, err
	}

	mode, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "orrery_camera_mode",
		Help: "Current camera mode; the active mode is 1, all others 0.",
	}, []string{"mode"}), "orrery_camera_mode")
	if err != nil {
		return nil, err
	}

	warps, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_warps_started_total",
		Help: "Total number of warp sequences started.",
	}), "orrery_warps_started_total")
	if err != nil {
		return nil, err
	}

	collisions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_collisions_resolved_total",
		Help: "Camera collisions pushed out of a body, labeled by body kind.",
	}, []string{"kind"}), "orrery_collisions_resolved_total")
	if err != nil {
		return nil, err
	}

	relocations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_safe_zone_relocations_total",
		Help: "Times the camera was relocated out of a danger zone.",
	}), "orrery_safe_zone_relocations_total")
	if err != nil {
		return nil, err
	}

	streak, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_danger_streak",
		Help: "Consecutive frames the camera has spent inside a danger zone.",
	}), "orrery_danger_streak")
	if err != nil {
		return nil, err
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_rpc_requests_total",
		Help: "Total number of handled control-plane RPCs, labeled by service, method, and gRPC status code.",
	}, []string{"service", "method", "code"}), "orrery_rpc_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orrery_rpc_duration_seconds",
		Help:    "Control-plane RPC latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"service", "method"}), "orrery_rpc_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:      gatherer,
		Ticks:         ticks,
		TickDurations: tickDurations,
		Bodies:        bodies,
		CameraMode:    mode,
		WarpsStarted:  warps,
		Collisions:    collisions,
		Relocations:   relocations,
		HazardStreak:  streak,
		RPCRequests:   requests,
		RPCDurations:  durations,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SimCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveTick records one stepped tick, its duration and the frame's body count.
func (c *SimCollector) ObserveTick(d time.Duration, bodies int) {
	if c == nil {
		return
	}
	if c.Ticks != nil {
		c.Ticks.Inc()
	}
	if c.TickDurations != nil {
		c.TickDurations.Observe(d.Seconds())
	}
	if c.Bodies != nil {
		c.Bodies.Set(float64(bodies))
	}
}

// SetCameraMode marks mode as the active camera mode. Unknown modes clear
// every label.
func (c *SimCollector) SetCameraMode(mode string) {
	if c == nil || c.CameraMode == nil {
		return
	}
	for _, m := range cameraModes {
		v := 0.0
		if m == mode {
			v = 1
		}
		c.CameraMode.WithLabelValues(m).Set(v)
	}
}

func (c *SimCollector) IncWarpsStarted() {
	if c == nil || c.WarpsStarted == nil {
		return
	}
	c.WarpsStarted.Inc()
}

// IncCollision counts a resolved collision against a body of the given kind.
func (c *SimCollector) IncCollision(kind string) {
	if c == nil || c.Collisions == nil {
		return
	}
	c.Collisions.WithLabelValues(kind).Inc()
}

func (c *SimCollector) IncRelocations() {
	if c == nil || c.Relocations == nil {
		return
	}
	c.Relocations.Inc()
}

// SetDangerStreak updates the danger-zone streak gauge.
func (c *SimCollector) SetDangerStreak(frames int) {
	if c == nil || c.HazardStreak == nil {
		return
	}
	if frames < 0 {
		frames = 0
	}
	c.HazardStreak.Set(float64(frames))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
