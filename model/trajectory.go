package model

// MissionTime is a continuous fractional-day time coordinate following the
// Modified Julian Date convention (epoch 1858-11-17T00:00:00 UTC). One unit
// is exactly 86,400 seconds.
type MissionTime float64

// TrajectorySample is one time-stamped point of a trajectory. Cartesian is
// optional; a zero value with HasCartesian == false means the fetch did not
// supply one and consumers derive it from the geodetic coordinates.
type TrajectorySample struct {
	Time         MissionTime
	Geodetic     GeodeticPosition
	Cartesian    CartesianPosition
	HasCartesian bool
}

// Trajectory is an immutable, ascending-by-time sequence of samples owned by
// exactly one tracked object. It is created atomically when a fetch
// completes; there are no partial or streaming updates.
type Trajectory struct {
	Samples []TrajectorySample
	Start   MissionTime
	End     MissionTime
}

// Empty reports whether the trajectory holds no samples.
func (tr *Trajectory) Empty() bool {
	return tr == nil || len(tr.Samples) == 0
}

// TrackStatus describes the lifecycle of a tracked object's trajectory.
type TrackStatus int

const (
	TrackAbsent TrackStatus = iota
	TrackLoading
	TrackPresent
	TrackFailed
)

func (s TrackStatus) String() string {
	switch s {
	case TrackAbsent:
		return "absent"
	case TrackLoading:
		return "loading"
	case TrackPresent:
		return "present"
	case TrackFailed:
		return "failed"
	default:
		return "unknown"
	}
}
