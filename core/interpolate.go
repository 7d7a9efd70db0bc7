package core

import (
	"errors"
	"sort"

	"github.com/signalsfoundry/orbitviz/model"
)

// ErrEmptyTrajectory is returned when interpolation is requested on a
// trajectory with zero samples.
var ErrEmptyTrajectory = errors.New("trajectory has no samples")

// InterpolateGeodetic returns the geodetic position along the trajectory at
// mission time t. Query times before the first sample clamp to the first
// sample, times after the last clamp to the last; out-of-range queries are
// never an error. Longitude interpolation is antimeridian-aware so a
// trajectory crossing ±180° never sweeps across the whole map.
func InterpolateGeodetic(tr *model.Trajectory, t model.MissionTime) (model.GeodeticPosition, error) {
	lo, hi, f, err := bracket(tr, t)
	if err != nil {
		return model.GeodeticPosition{}, err
	}
	return lerpGeodetic(lo.Geodetic, hi.Geodetic, f), nil
}

// InterpolateScene returns the scaled Cartesian position at mission time t
// in the requested frame. It shares the bracketing and fraction computation
// with InterpolateGeodetic, so the two outputs always agree at segment
// boundaries; only the output coordinate space differs. Converting to the
// inertial frame requires the frame rotation valid for the query instant.
func InterpolateScene(tr *model.Trajectory, t model.MissionTime, frame model.Frame, rot FrameRotation) (model.CartesianPosition, error) {
	g, err := InterpolateGeodetic(tr, t)
	if err != nil {
		return model.CartesianPosition{}, err
	}
	terr := GeodeticToScene(g)
	if frame == model.FrameTerrestrial {
		return terr, nil
	}
	v := rot.Inverse().Rotate(Vec3{X: terr.X, Y: terr.Y, Z: terr.Z})
	return model.CartesianPosition{X: v.X, Y: v.Y, Z: v.Z}, nil
}

// bracket locates the pair of samples surrounding t and the interpolation
// fraction between them. Clamped queries return the boundary sample twice
// with fraction zero. A zero-duration bracket (duplicate timestamps) also
// clamps the fraction to zero rather than dividing by zero.
func bracket(tr *model.Trajectory, t model.MissionTime) (lo, hi model.TrajectorySample, f float64, err error) {
	if tr.Empty() {
		return model.TrajectorySample{}, model.TrajectorySample{}, 0, ErrEmptyTrajectory
	}
	s := tr.Samples
	if t <= s[0].Time {
		return s[0], s[0], 0, nil
	}
	last := s[len(s)-1]
	if t >= last.Time {
		return last, last, 0, nil
	}

	// First sample with Time > t; the bracket is [i-1, i]. Binary search
	// gives results identical to a linear scan over ascending samples.
	i := sort.Search(len(s), func(i int) bool { return s[i].Time > t })
	lo, hi = s[i-1], s[i]

	dt := hi.Time - lo.Time
	if dt > 0 {
		f = float64(t-lo.Time) / float64(dt)
	}
	return lo, hi, f, nil
}

// lerpGeodetic interpolates between two geodetic positions. Latitude is
// linear. When the longitudes differ by more than 180° the segment crosses
// the antimeridian: the negative endpoint is lifted by 360 before
// interpolating and the result is wrapped back into [-180, 180).
func lerpGeodetic(a, b model.GeodeticPosition, f float64) model.GeodeticPosition {
	lonA, lonB := a.Longitude, b.Longitude
	if diff := lonB - lonA; diff > 180 || diff < -180 {
		if lonA < 0 {
			lonA += 360
		}
		if lonB < 0 {
			lonB += 360
		}
	}
	return model.GeodeticPosition{
		Longitude: NormalizeLongitude(lonA + f*(lonB-lonA)),
		Latitude:  a.Latitude + f*(b.Latitude-a.Latitude),
	}
}
