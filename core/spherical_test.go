package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/orbitviz/model"
)

func TestNormalizeLongitude(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{179.9, 179.9},
		{180, -180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{540, -180},
		{-540, -180},
		{360, 0},
	}
	for _, tc := range cases {
		if got := NormalizeLongitude(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("NormalizeLongitude(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGeodeticToScene_Anchors(t *testing.T) {
	cases := []struct {
		name string
		g    model.GeodeticPosition
		want model.CartesianPosition
	}{
		{"origin", model.GeodeticPosition{}, model.CartesianPosition{X: SceneUnitsPerBody}},
		{"east 90", model.GeodeticPosition{Longitude: 90}, model.CartesianPosition{Y: SceneUnitsPerBody}},
		{"north pole", model.GeodeticPosition{Latitude: 90}, model.CartesianPosition{Z: SceneUnitsPerBody}},
		{"south pole", model.GeodeticPosition{Latitude: -90}, model.CartesianPosition{Z: -SceneUnitsPerBody}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GeodeticToScene(tc.g)
			if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 || math.Abs(got.Z-tc.want.Z) > 1e-9 {
				t.Fatalf("GeodeticToScene(%#v) = %#v, want %#v", tc.g, got, tc.want)
			}
		})
	}
}

func TestSubsatellitePoint_InvertsGeodeticToScene(t *testing.T) {
	points := []model.GeodeticPosition{
		{Longitude: 0, Latitude: 0},
		{Longitude: -10, Latitude: 51.6},
		{Longitude: 170, Latitude: -45},
		{Longitude: -179.9, Latitude: 89},
	}
	for _, g := range points {
		p := GeodeticToScene(g)
		back := SubsatellitePoint(Vec3{X: p.X, Y: p.Y, Z: p.Z})
		if math.Abs(back.Longitude-g.Longitude) > 1e-9 || math.Abs(back.Latitude-g.Latitude) > 1e-9 {
			t.Fatalf("round trip of %#v gave %#v", g, back)
		}
	}
}

func TestSubsatellitePoint_Origin(t *testing.T) {
	got := SubsatellitePoint(Vec3{})
	if got != (model.GeodeticPosition{}) {
		t.Fatalf("SubsatellitePoint(0) = %#v, want zero", got)
	}
}
