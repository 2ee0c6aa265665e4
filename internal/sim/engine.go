// Package sim runs the per-tick navigation pipeline over a solar system and
// exports each settled frame.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/kb"
	"github.com/signalsfoundry/orrery/model"
	"github.com/signalsfoundry/orrery/nav"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/signalsfoundry/orrery/internal/sim"

const (
	// CameraRadius is the eye's collision sphere.
	CameraRadius = 0.5
	// StarCollisionFactor and PlanetCollisionFactor scale a body's render
	// scale into its collision radius.
	StarCollisionFactor   = 1.5
	PlanetCollisionFactor = 1.8

	// WarpDistance is how far from the target a warp arrives.
	WarpDistance = 5.0
	// FollowLambda is the per-tick blend toward a followed planet.
	FollowLambda = 0.05

	MoveSpeed = 0.3
	LookSpeed = 0.03
	ZoomStep  = 0.2

	DefaultAspect = 16.0 / 9.0
)

// HomeEye is where the camera starts and where a reset returns it.
var HomeEye = mgl64.Vec3{0, 15, 30}

// MetricsRecorder receives per-tick measurements and navigation events.
type MetricsRecorder interface {
	ObserveTick(d time.Duration, bodies int)
	SetCameraMode(mode string)
	IncWarpsStarted()
	IncCollision(kind string)
	IncRelocations()
	SetDangerStreak(frames int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveTick(time.Duration, int) {}
func (noopMetrics) SetCameraMode(string)           {}
func (noopMetrics) IncWarpsStarted()               {}
func (noopMetrics) IncCollision(string)            {}
func (noopMetrics) IncRelocations()                {}
func (noopMetrics) SetDangerStreak(int)            {}

// Option customises Engine construction.
type Option func(*Engine)

// WithMetrics attaches a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithTracer overrides the tracer used for per-tick spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithKnowledgeBase publishes every settled frame to store.
func WithKnowledgeBase(store *kb.KnowledgeBase) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithShipOffset mounts the cockpit ship at a camera-local offset.
func WithShipOffset(offset mgl64.Vec3) Option {
	return func(e *Engine) {
		e.ship.Offset = offset
	}
}

// WithShipScale sets the cockpit ship's render scale.
func WithShipScale(scale float64) Option {
	return func(e *Engine) {
		if scale > 0 {
			e.ship.Scale = scale
		}
	}
}

// WithAspect sets the viewport aspect ratio used for the projection matrix.
func WithAspect(aspect float64) Option {
	return func(e *Engine) {
		if aspect > 0 {
			e.aspect = aspect
		}
	}
}

// Engine owns the model and the viewpoint and steps them one tick at a time.
//
// Step and the accessors belong to a single driving goroutine. Enqueue may
// be called from anywhere.
type Engine struct {
	system *core.SolarSystem
	camera *nav.Camera
	warp   *nav.WarpSequencer
	safe   *core.SafeZoneMonitor
	ship   nav.Ship
	mode   nav.Mode
	aspect float64

	tick    uint64
	simTime float64

	pendingMu sync.Mutex
	pending   []model.Command

	log       logging.Logger
	metrics   MetricsRecorder
	tracer    trace.Tracer
	store     *kb.KnowledgeBase
	relocLogs rate.Sometimes
}

// NewEngine places the camera at HomeEye looking at the origin.
func NewEngine(system *core.SolarSystem, log logging.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	e := &Engine{
		system:    system,
		camera:    nav.NewCamera(HomeEye, core.Origin, core.WorldUp),
		warp:      nav.NewWarpSequencer(nav.DefaultWarpDuration),
		safe:      core.NewSafeZoneMonitor(HomeEye),
		ship:      nav.NewShip(),
		mode:      nav.Manual(),
		aspect:    DefaultAspect,
		log:       log,
		metrics:   noopMetrics{},
		tracer:    otel.Tracer(tracerName),
		relocLogs: rate.Sometimes{First: 3, Interval: 5 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.metrics.SetCameraMode(e.mode.Kind.String())
	return e
}

// Enqueue buffers commands for the next Step.
func (e *Engine) Enqueue(cmds ...model.Command) {
	e.pendingMu.Lock()
	e.pending = append(e.pending, cmds...)
	e.pendingMu.Unlock()
}

func (e *Engine) drain() []model.Command {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	cmds := e.pending
	e.pending = nil
	return cmds
}

// Step advances the simulation by dt seconds and returns the settled frame.
func (e *Engine) Step(ctx context.Context, dt float64) model.Frame {
	start := time.Now()
	e.tick++
	e.simTime += dt

	ctx, span := e.tracer.Start(ctx, "sim.Step", trace.WithAttributes(
		attribute.Int64("tick", int64(e.tick)),
		attribute.Float64("dt", dt),
	))
	defer span.End()

	e.system.Update(dt)
	e.advanceWarp(dt)
	e.follow()

	cmds := e.drain()
	for _, cmd := range cmds {
		e.apply(ctx, cmd)
	}

	collisions := e.resolveCollisions()
	relocated := false
	if e.warp.IsActive() {
		// The warp owns the eye until arrival.
		e.safe.Reset(e.camera.Eye)
		e.metrics.SetDangerStreak(0)
	} else {
		relocated = e.checkSafeZone(ctx)
	}

	frame := e.buildFrame()
	if e.store != nil {
		e.store.PublishFrame(frame)
	}

	span.SetAttributes(
		attribute.String("mode", frame.Mode),
		attribute.Int("commands", len(cmds)),
		attribute.Int("collisions", collisions),
		attribute.Bool("relocated", relocated),
	)
	e.metrics.SetCameraMode(e.mode.Kind.String())
	e.metrics.ObserveTick(time.Since(start), len(frame.Bodies))
	return frame
}

// advanceWarp lets an active warp drive the eye. A finished warp hands the
// eye back to following the warp's planet.
func (e *Engine) advanceWarp(dt float64) {
	if pos, ok := e.warp.Update(dt); ok {
		e.camera.SetEye(pos)
	}
	if !e.warp.IsActive() && e.mode.Kind == nav.ModeWarping {
		e.mode = nav.Following(e.mode.Body)
	}
}

func (e *Engine) follow() {
	if e.mode.Kind != nav.ModeFollowing || e.warp.IsActive() {
		return
	}
	if p, ok := e.system.Planet(e.mode.Body); ok {
		e.camera.SmoothFollow(p.Position(), FollowLambda)
	}
}

func (e *Engine) apply(ctx context.Context, cmd model.Command) {
	switch cmd.Kind {
	case model.CmdSelectBody:
		e.selectBody(ctx, cmd.Index)
	case model.CmdStartWarp:
		e.startWarp(ctx)
	case model.CmdResetCamera:
		e.resetCamera(ctx)
	case model.CmdMoveForward:
		e.camera.MoveForward(MoveSpeed)
	case model.CmdMoveBackward:
		e.camera.MoveBackward(MoveSpeed)
	case model.CmdMoveLeft:
		e.camera.MoveLeft(MoveSpeed)
	case model.CmdMoveRight:
		e.camera.MoveRight(MoveSpeed)
	case model.CmdMoveUp:
		e.camera.MoveUp(MoveSpeed)
	case model.CmdMoveDown:
		e.camera.MoveDown(MoveSpeed)
	case model.CmdLookUp:
		e.camera.RotatePitch(LookSpeed)
	case model.CmdLookDown:
		e.camera.RotatePitch(-LookSpeed)
	case model.CmdLookLeft:
		e.camera.RotateYaw(LookSpeed)
	case model.CmdLookRight:
		e.camera.RotateYaw(-LookSpeed)
	case model.CmdZoomIn:
		e.camera.Zoom(ZoomStep)
	case model.CmdZoomOut:
		e.camera.Zoom(-ZoomStep)
	case model.CmdOrbit:
		e.camera.Orbit(cmd.Yaw, cmd.Pitch)
	default:
		e.log.Debug(ctx, "ignoring unknown command", logging.Int("kind", int(cmd.Kind)))
	}
}

// selectBody recentres on planet i. During a warp the selection becomes the
// warp's follow target instead of interrupting it.
func (e *Engine) selectBody(ctx context.Context, i int) {
	p, ok := e.system.Planet(i)
	if !ok {
		e.log.Debug(ctx, "ignoring selection of unknown planet", logging.Int("index", i))
		return
	}
	if e.warp.IsActive() && e.mode.Kind == nav.ModeWarping {
		e.mode = nav.Warping(i)
	} else {
		e.mode = nav.Following(i)
	}
	e.camera.SetTarget(p.Position())
	e.log.Info(ctx, "planet selected",
		logging.String("planet", p.Name()),
		logging.Int("index", i),
		logging.Vec("position", p.Position()),
		logging.Float("orbit_radius", p.Orbit().Radius),
	)
}

func (e *Engine) startWarp(ctx context.Context) {
	i, ok := e.mode.Selected()
	if !ok {
		e.log.Debug(ctx, "warp requested with no planet selected")
		return
	}
	if e.warp.IsActive() {
		return
	}
	p, ok := e.system.Planet(i)
	if !ok {
		return
	}

	target := p.Position()
	arrival := nav.WarpArrival(target, WarpDistance)
	e.warp.StartWarp(e.camera.Eye, arrival)
	e.camera.LookAt(target)
	e.mode = nav.Warping(i)
	e.metrics.IncWarpsStarted()
	e.log.Info(ctx, "warp started",
		logging.String("planet", p.Name()),
		logging.Vec("from", e.camera.Eye),
		logging.Vec("to", arrival),
	)
}

// resetCamera returns to the home view. An active warp keeps driving the
// eye until it ends.
func (e *Engine) resetCamera(ctx context.Context) {
	e.camera.Reset(HomeEye, core.Origin, core.WorldUp)
	e.safe.Reset(HomeEye)
	e.mode = nav.Manual()
	e.log.Info(ctx, "camera reset")
}

// resolveCollisions pushes the eye out of the star and every planet, in
// that order, and returns how many bodies it hit.
func (e *Engine) resolveCollisions() int {
	eye := e.camera.Eye
	hits := 0

	if star := e.system.Star(); star != nil {
		r := star.Scale() * StarCollisionFactor
		if core.CheckSphereCollision(eye, CameraRadius, star.Position(), r) {
			eye = core.ResolveSphereCollision(eye, CameraRadius, star.Position(), r)
			e.metrics.IncCollision(model.BodyKindStar.String())
			hits++
		}
	}

	eye, planetHits := core.ResolveAgainst(eye, CameraRadius, e.planetSpheres())
	for i := 0; i < planetHits; i++ {
		e.metrics.IncCollision(model.BodyKindPlanet.String())
	}
	hits += planetHits

	if hits > 0 {
		e.camera.SetEye(eye)
	}
	return hits
}

func (e *Engine) planetSpheres() []core.Sphere {
	planets := e.system.Planets()
	out := make([]core.Sphere, 0, len(planets))
	for _, p := range planets {
		out = append(out, core.Sphere{Center: p.Position(), Radius: p.Scale() * PlanetCollisionFactor})
	}
	return out
}

func (e *Engine) checkSafeZone(ctx context.Context) bool {
	pos, relocated := e.safe.CheckAndCorrect(e.camera.Eye, e.planetSpheres(), e.system.OrbitRadii())
	e.metrics.SetDangerStreak(e.safe.DangerCounter())
	if !relocated {
		return false
	}

	from := e.camera.Eye
	e.camera.SetEye(pos)
	e.metrics.IncRelocations()
	e.relocLogs.Do(func() {
		e.log.Warn(ctx, "camera relocated out of danger zone",
			logging.Vec("from", from),
			logging.Vec("to", pos),
		)
	})
	return true
}

func (e *Engine) buildFrame() model.Frame {
	bodies := make([]model.BodyState, 0, e.system.PlanetCount()+3)
	e.system.Walk(func(b, parent *core.OrbitalBody) {
		kind := model.BodyKindPlanet
		parentName := ""
		switch {
		case b == e.system.Star():
			kind = model.BodyKindStar
		case parent != nil:
			kind = model.BodyKindSatellite
			parentName = parent.Name()
		}
		bodies = append(bodies, model.BodyState{
			Name:     b.Name(),
			Kind:     kind,
			Parent:   parentName,
			Position: b.Position(),
			Rotation: b.Rotation(),
			Scale:    b.Scale(),
			Material: b.MaterialTag(),
		})
		if b.HasRing() {
			bodies = append(bodies, model.BodyState{
				Name:     b.Name() + RingSuffix,
				Kind:     model.BodyKindRing,
				Parent:   b.Name(),
				Position: b.Position(),
				Rotation: mgl64.Vec3{RingTilt, b.Rotation().Y(), 0},
				Scale:    b.Scale(),
				Material: RingMaterial,
			})
		}
	})

	shipPos, shipRot := e.ship.Pose(e.camera)
	bodies = append(bodies, model.BodyState{
		Name:     ShipName,
		Kind:     model.BodyKindShip,
		Position: shipPos,
		Rotation: shipRot,
		Scale:    e.ship.Scale,
		Material: ShipMaterial,
	})

	return model.Frame{
		Tick:   e.tick,
		Time:   e.simTime,
		Bodies: bodies,
		Orbits: e.system.Orbits(),
		Camera: model.CameraState{
			Eye:        e.camera.Eye,
			Center:     e.camera.Center,
			Up:         e.camera.Up,
			View:       e.camera.ViewMatrix(),
			Projection: e.camera.ProjectionMatrix(e.aspect),
			Aspect:     e.aspect,
		},
		Distortion: e.warp.DistortionFactor(),
		Mode:       e.mode.String(),
	}
}

// Ship render identity in exported frames.
const (
	ShipName     = "ship"
	ShipMaterial = "spaceship"
)

// Ring render identity. A ring shares its planet's position and scale, and
// spins with it about a fixed tilt.
const (
	RingSuffix   = " ring"
	RingMaterial = "ring"
	RingTilt     = 0.4
)

func (e *Engine) Mode() nav.Mode                  { return e.mode }
func (e *Engine) Camera() *nav.Camera             { return e.camera }
func (e *Engine) Warp() *nav.WarpSequencer        { return e.warp }
func (e *Engine) System() *core.SolarSystem       { return e.system }
func (e *Engine) SafeZone() *core.SafeZoneMonitor { return e.safe }
func (e *Engine) Tick() uint64                    { return e.tick }
