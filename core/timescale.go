package core

import (
	"errors"
	"math"
	"time"

	"github.com/signalsfoundry/orbitviz/model"
)

// ErrInvalidInstant is returned when a time value cannot represent a finite
// instant (NaN/Inf mission time, or a zero calendar value from a failed
// parse upstream).
var ErrInvalidInstant = errors.New("invalid time instant")

// mjdUnixEpoch is the Modified Julian Date of the Unix epoch
// (1970-01-01T00:00:00 UTC). The MJD epoch itself is 1858-11-17T00:00:00 UTC.
const mjdUnixEpoch = 40587.0

const secondsPerDay = 86400.0

// ToMissionTime converts a calendar instant to mission time (MJD fractional
// days). The conversion is linear in elapsed seconds: adding d seconds to c
// adds exactly d/86400 to the result. The engine operates in a uniform,
// zone-less elapsed-time model, so c's location only affects display, never
// the value returned here.
func ToMissionTime(c time.Time) (model.MissionTime, error) {
	if c.IsZero() {
		return 0, ErrInvalidInstant
	}
	sec := float64(c.Unix()) + float64(c.Nanosecond())/1e9
	return model.MissionTime(mjdUnixEpoch + sec/secondsPerDay), nil
}

// ToCalendar converts mission time back to a calendar instant in UTC.
// ToMissionTime(ToCalendar(t)) == t within 1e-8 days (sub-millisecond).
func ToCalendar(t model.MissionTime) (time.Time, error) {
	v := float64(t)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, ErrInvalidInstant
	}
	sec := (v - mjdUnixEpoch) * secondsPerDay
	whole := math.Floor(sec)
	nanos := math.Round((sec - whole) * 1e9)
	return time.Unix(int64(whole), int64(nanos)).UTC(), nil
}

// MissionTimeAdd advances a mission time by a wall-clock duration.
func MissionTimeAdd(t model.MissionTime, d time.Duration) model.MissionTime {
	return t + model.MissionTime(d.Seconds()/secondsPerDay)
}
