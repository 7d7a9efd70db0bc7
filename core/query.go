package core

import (
	"errors"
	"time"

	"github.com/signalsfoundry/orbitviz/kb"
	"github.com/signalsfoundry/orbitviz/model"
)

// ErrTrajectoryNotReady is returned when a position query targets an object
// whose trajectory is absent, still loading, or failed. The caller decides
// whether to show a spinner or a retry affordance.
var ErrTrajectoryNotReady = errors.New("trajectory not ready")

// QueryObserver receives the outcome and latency of each engine query. The
// metrics collector satisfies it; tests use lightweight fakes.
type QueryObserver interface {
	ObserveQuery(kind string, d time.Duration, err error)
}

// Query kind labels, matching the observability collector.
const (
	queryKindGeodetic = "geodetic"
	queryKindScene    = "scene"
	queryKindFrame    = "frame"
	queryKindPlane    = "plane"
)

// QueryService is the outbound surface of the engine: pure query functions
// over the session's trajectories, consumed by rendering collaborators on
// every tick. It holds no mutable state of its own beyond configuration.
type QueryService struct {
	session *kb.Session
	align   AlignmentSource
	obs     QueryObserver

	// PlaneWidth and AspectRatio describe the map plane used by PlaneAt
	// and GroundTrack.
	PlaneWidth  float64
	AspectRatio float64
}

// NewQueryService builds the query surface over a session. A nil alignment
// source composes frames with the identity alignment; a nil observer
// disables instrumentation.
func NewQueryService(session *kb.Session, align AlignmentSource, obs QueryObserver) *QueryService {
	return &QueryService{
		session:     session,
		align:       align,
		obs:         obs,
		PlaneWidth:  360,
		AspectRatio: 2,
	}
}

// GeodeticAt returns the interpolated geodetic position of an object at
// mission time t.
func (q *QueryService) GeodeticAt(objectID string, t model.MissionTime) (g model.GeodeticPosition, err error) {
	defer q.observe(queryKindGeodetic, time.Now(), &err)

	traj, status := q.session.Trajectory(objectID)
	if status != model.TrackPresent {
		return model.GeodeticPosition{}, ErrTrajectoryNotReady
	}
	return InterpolateGeodetic(traj, t)
}

// SceneAt returns the interpolated scaled Cartesian position of an object
// at mission time t, in the requested frame. The frame rotation is
// composed once for the query instant and shared between the conversion
// and the caller via FrameAt, so the 3D marker and map marker can never
// drift apart at segment boundaries.
func (q *QueryService) SceneAt(objectID string, t model.MissionTime, frame model.Frame) (p model.CartesianPosition, err error) {
	defer q.observe(queryKindScene, time.Now(), &err)

	traj, status := q.session.Trajectory(objectID)
	if status != model.TrackPresent {
		return model.CartesianPosition{}, ErrTrajectoryNotReady
	}

	c, err := ToCalendar(t)
	if err != nil {
		return model.CartesianPosition{}, err
	}
	rot, err := ComposeRotation(c, q.align)
	if err != nil {
		return model.CartesianPosition{}, err
	}
	return InterpolateScene(traj, t, frame, rot)
}

// FrameAt returns the composed frame rotation for a calendar instant. Both
// the rendered body pose and the terrestrial axis triad must be driven from
// this single value per time step.
func (q *QueryService) FrameAt(c time.Time) (r FrameRotation, err error) {
	defer q.observe(queryKindFrame, time.Now(), &err)
	return ComposeRotation(c, q.align)
}

// PlaneAt returns the map-plane position of an object at mission time t.
func (q *QueryService) PlaneAt(objectID string, t model.MissionTime) (p model.PlanePosition, err error) {
	defer q.observe(queryKindPlane, time.Now(), &err)

	g, err := q.geodeticAtUnobserved(objectID, t)
	if err != nil {
		return model.PlanePosition{}, err
	}
	return ToPlane(g, q.PlaneWidth, q.AspectRatio), nil
}

// GroundTrack projects an object's full trajectory onto the map plane as
// drawable polyline runs, broken at the antimeridian.
func (q *QueryService) GroundTrack(objectID string) ([][]model.PlanePosition, error) {
	traj, status := q.session.Trajectory(objectID)
	if status != model.TrackPresent {
		return nil, ErrTrajectoryNotReady
	}
	points := make([]model.GeodeticPosition, len(traj.Samples))
	for i, s := range traj.Samples {
		points[i] = s.Geodetic
	}
	return ProjectPath(points, q.PlaneWidth, q.AspectRatio), nil
}

func (q *QueryService) geodeticAtUnobserved(objectID string, t model.MissionTime) (model.GeodeticPosition, error) {
	traj, status := q.session.Trajectory(objectID)
	if status != model.TrackPresent {
		return model.GeodeticPosition{}, ErrTrajectoryNotReady
	}
	return InterpolateGeodetic(traj, t)
}

func (q *QueryService) observe(kind string, start time.Time, err *error) {
	if q.obs == nil {
		return
	}
	q.obs.ObserveQuery(kind, time.Since(start), *err)
}
