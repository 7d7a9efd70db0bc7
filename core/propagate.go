package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/orbitviz/model"
)

// TLEPropagator produces trajectory samples from a two-line element set
// using SGP4. Construction parses the elements once; sampling is pure with
// respect to the query window.
type TLEPropagator struct {
	sat satellite.Satellite
}

// NewTLEPropagator constructs a propagator from pre-validated TLE lines.
func NewTLEPropagator(line1, line2 string) *TLEPropagator {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &TLEPropagator{sat: sat}
}

// SampleTrajectory propagates the orbit across [start, end] at the given
// step and returns a fully-present trajectory: geodetic subsatellite points
// plus terrestrial scene coordinates per sample, ascending by time. The
// last sample always lands exactly on end so clamp-high queries return the
// window boundary.
//
// go-satellite works in kilometres and ECI; each sample is rotated into the
// Earth-fixed frame through GMST before the geodetic reduction.
func (p *TLEPropagator) SampleTrajectory(start, end model.MissionTime, step time.Duration) (*model.Trajectory, error) {
	if end < start {
		return nil, fmt.Errorf("trajectory window end %f before start %f", float64(end), float64(start))
	}
	if step <= 0 {
		return nil, fmt.Errorf("non-positive sample step %v", step)
	}

	var samples []model.TrajectorySample
	for t := start; ; t = MissionTimeAdd(t, step) {
		if t > end {
			t = end
		}
		s, err := p.sampleAt(t)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
		if t >= end {
			break
		}
	}

	return &model.Trajectory{Samples: samples, Start: start, End: end}, nil
}

func (p *TLEPropagator) sampleAt(t model.MissionTime) (model.TrajectorySample, error) {
	c, err := ToCalendar(t)
	if err != nil {
		return model.TrajectorySample{}, err
	}

	year, month, day := c.Date()
	hour, min, sec := c.Clock()

	posECI, _ := satellite.Propagate(p.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	geo := SubsatellitePoint(Vec3{X: posECEF.X, Y: posECEF.Y, Z: posECEF.Z})
	return model.TrajectorySample{
		Time:         t,
		Geodetic:     geo,
		Cartesian:    GeodeticToScene(geo),
		HasCartesian: true,
	}, nil
}

// EpochFromTLE extracts the element epoch from the first TLE line
// (columns 19-32: two-digit year plus fractional day of year) and returns
// it as a UTC instant. Years below 57 are read as 20xx per convention.
func EpochFromTLE(line1 string) (time.Time, error) {
	if len(line1) < 32 {
		return time.Time{}, fmt.Errorf("TLE line 1 too short for epoch field: %d chars", len(line1))
	}
	yy, err := strconv.Atoi(strings.TrimSpace(line1[18:20]))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse TLE epoch year: %w", err)
	}
	doy, err := strconv.ParseFloat(strings.TrimSpace(line1[20:32]), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse TLE epoch day: %w", err)
	}

	year := yy + 1900
	if yy < 57 {
		year = yy + 2000
	}

	base := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	elapsed := time.Duration((doy - 1) * 24 * float64(time.Hour))
	return base.Add(elapsed), nil
}
