package core

import (
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/orbitviz/model"
)

const (
	issTLELine1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	issTLELine2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

func TestEpochFromTLE(t *testing.T) {
	epoch, err := EpochFromTLE(issTLELine1)
	if err != nil {
		t.Fatalf("EpochFromTLE: %v", err)
	}

	want := time.Date(2021, time.October, 2, 14, 10, 59, 0, time.UTC)
	if d := epoch.Sub(want); d < -time.Second || d > time.Second {
		t.Fatalf("epoch = %v, want within 1s of %v", epoch, want)
	}

	mjd, err := ToMissionTime(epoch)
	if err != nil {
		t.Fatalf("ToMissionTime: %v", err)
	}
	if math.Abs(float64(mjd)-59489.59097222) > 1e-6 {
		t.Fatalf("epoch mjd = %f, want 59489.59097222", float64(mjd))
	}
}

func TestEpochFromTLE_Errors(t *testing.T) {
	cases := []struct {
		name  string
		line1 string
	}{
		{"too short", "1 25544U"},
		{"bad year", issTLELine1[:18] + "xx" + issTLELine1[20:]},
		{"bad day", issTLELine1[:20] + "not-a-number" + issTLELine1[32:]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := EpochFromTLE(tc.line1); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestSampleTrajectory_WindowShape(t *testing.T) {
	p := NewTLEPropagator(issTLELine1, issTLELine2)

	start := model.MissionTime(59489.59097222)
	end := MissionTimeAdd(start, 10*time.Minute)

	tr, err := p.SampleTrajectory(start, end, time.Minute)
	if err != nil {
		t.Fatalf("SampleTrajectory: %v", err)
	}
	if tr.Empty() {
		t.Fatal("trajectory is empty")
	}
	if tr.Start != start || tr.End != end {
		t.Fatalf("window = [%f, %f], want [%f, %f]",
			float64(tr.Start), float64(tr.End), float64(start), float64(end))
	}
	// 10 one-minute steps plus the start sample; rounding in the step
	// accumulation may add one extra clamped sample at the window end.
	if n := len(tr.Samples); n < 11 || n > 12 {
		t.Fatalf("got %d samples, want 11 or 12", n)
	}

	for i, s := range tr.Samples {
		if i > 0 && s.Time <= tr.Samples[i-1].Time {
			t.Fatalf("samples not strictly ascending at %d: %f <= %f",
				i, float64(s.Time), float64(tr.Samples[i-1].Time))
		}
		if !s.HasCartesian {
			t.Fatalf("sample %d missing cartesian position", i)
		}
		if s.Geodetic.Latitude < -90 || s.Geodetic.Latitude > 90 {
			t.Fatalf("sample %d latitude out of range: %f", i, s.Geodetic.Latitude)
		}
		if s.Geodetic.Longitude < -180 || s.Geodetic.Longitude >= 180 {
			t.Fatalf("sample %d longitude out of range: %f", i, s.Geodetic.Longitude)
		}
	}
	if last := tr.Samples[len(tr.Samples)-1]; last.Time != end {
		t.Fatalf("last sample at %f, want window end %f", float64(last.Time), float64(end))
	}
}

func TestSampleTrajectory_LastSampleClampedToEnd(t *testing.T) {
	p := NewTLEPropagator(issTLELine1, issTLELine2)

	start := model.MissionTime(59489.6)
	end := MissionTimeAdd(start, 150*time.Second)

	tr, err := p.SampleTrajectory(start, end, time.Minute)
	if err != nil {
		t.Fatalf("SampleTrajectory: %v", err)
	}
	// Samples at +0s, +60s, +120s, then the clamped end at +150s.
	if n := len(tr.Samples); n != 4 {
		t.Fatalf("got %d samples, want 4", n)
	}
	if last := tr.Samples[len(tr.Samples)-1]; last.Time != end {
		t.Fatalf("last sample at %f, want %f", float64(last.Time), float64(end))
	}
}

func TestSampleTrajectory_ObjectMoves(t *testing.T) {
	p := NewTLEPropagator(issTLELine1, issTLELine2)

	start := model.MissionTime(59489.59097222)
	end := MissionTimeAdd(start, 5*time.Minute)

	tr, err := p.SampleTrajectory(start, end, time.Minute)
	if err != nil {
		t.Fatalf("SampleTrajectory: %v", err)
	}

	first, last := tr.Samples[0], tr.Samples[len(tr.Samples)-1]
	dLon := math.Abs(last.Geodetic.Longitude - first.Geodetic.Longitude)
	dLat := math.Abs(last.Geodetic.Latitude - first.Geodetic.Latitude)
	if dLon < 1e-3 && dLat < 1e-3 {
		t.Fatalf("subsatellite point did not move over 5 minutes: first %#v last %#v",
			first.Geodetic, last.Geodetic)
	}

	// LEO scene positions stay near the unit body surface.
	for i, s := range tr.Samples {
		r := math.Sqrt(s.Cartesian.X*s.Cartesian.X + s.Cartesian.Y*s.Cartesian.Y + s.Cartesian.Z*s.Cartesian.Z)
		if math.Abs(r-SceneUnitsPerBody) > 1e-6 {
			t.Fatalf("sample %d scene radius %f, want %f", i, r, SceneUnitsPerBody)
		}
	}
}

func TestSampleTrajectory_InvalidWindow(t *testing.T) {
	p := NewTLEPropagator(issTLELine1, issTLELine2)

	if _, err := p.SampleTrajectory(59001, 59000, time.Minute); err == nil {
		t.Fatal("expected error for end before start")
	}
	if _, err := p.SampleTrajectory(59000, 59001, 0); err == nil {
		t.Fatal("expected error for zero step")
	}
	if _, err := p.SampleTrajectory(59000, 59001, -time.Second); err == nil {
		t.Fatal("expected error for negative step")
	}
}

func TestSampleTrajectory_SingleInstantWindow(t *testing.T) {
	p := NewTLEPropagator(issTLELine1, issTLELine2)

	at := model.MissionTime(59489.6)
	tr, err := p.SampleTrajectory(at, at, time.Minute)
	if err != nil {
		t.Fatalf("SampleTrajectory: %v", err)
	}
	if len(tr.Samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(tr.Samples))
	}
	if tr.Samples[0].Time != at {
		t.Fatalf("sample at %f, want %f", float64(tr.Samples[0].Time), float64(at))
	}
}
