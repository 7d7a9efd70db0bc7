package core

import (
	"math"

	"github.com/signalsfoundry/orbitviz/model"
)

const degToRad = math.Pi / 180.0

// NormalizeLongitude wraps a longitude in degrees into [-180, 180).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// GeodeticToScene converts a geodetic position to terrestrial-frame scene
// coordinates on the body surface (radius SceneUnitsPerBody).
func GeodeticToScene(g model.GeodeticPosition) model.CartesianPosition {
	lat := g.Latitude * degToRad
	lon := g.Longitude * degToRad
	cl := math.Cos(lat)
	return model.CartesianPosition{
		X: SceneUnitsPerBody * cl * math.Cos(lon),
		Y: SceneUnitsPerBody * cl * math.Sin(lon),
		Z: SceneUnitsPerBody * math.Sin(lat),
	}
}

// SubsatellitePoint returns the geodetic point directly beneath a
// terrestrial-frame Cartesian position. The origin yields (0, 0).
func SubsatellitePoint(v Vec3) model.GeodeticPosition {
	r := v.Norm()
	if r == 0 {
		return model.GeodeticPosition{}
	}
	return model.GeodeticPosition{
		Longitude: NormalizeLongitude(math.Atan2(v.Y, v.X) / degToRad),
		Latitude:  math.Asin(v.Z/r) / degToRad,
	}
}
