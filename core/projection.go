package core

import "github.com/signalsfoundry/orbitviz/model"

// ToPlane projects a geodetic position onto the equirectangular map plane.
// The plane is planeWidth wide and planeWidth/aspectRatio tall, centred on
// (0, 0); longitude maps linearly to x and latitude to y.
func ToPlane(g model.GeodeticPosition, planeWidth, aspectRatio float64) model.PlanePosition {
	planeHeight := planeWidth / aspectRatio
	return model.PlanePosition{
		X: g.Longitude / 180 * planeWidth / 2,
		Y: g.Latitude / 90 * planeHeight / 2,
	}
}

// ToGeodetic is the exact inverse of ToPlane on the open domain.
func ToGeodetic(p model.PlanePosition, planeWidth, aspectRatio float64) model.GeodeticPosition {
	planeHeight := planeWidth / aspectRatio
	return model.GeodeticPosition{
		Longitude: p.X / (planeWidth / 2) * 180,
		Latitude:  p.Y / (planeHeight / 2) * 90,
	}
}

// SegmentPath splits a ground track into runs that can be drawn as
// continuous polylines: a break is inserted wherever consecutive longitudes
// differ by more than 180 degrees, so the drawn line wraps at the map edge
// instead of crossing the whole map.
func SegmentPath(points []model.GeodeticPosition) [][]model.GeodeticPosition {
	if len(points) == 0 {
		return nil
	}
	var segments [][]model.GeodeticPosition
	start := 0
	for i := 1; i < len(points); i++ {
		d := points[i].Longitude - points[i-1].Longitude
		if d > 180 || d < -180 {
			segments = append(segments, points[start:i])
			start = i
		}
	}
	return append(segments, points[start:])
}

// ProjectPath segments a ground track at the antimeridian and projects each
// run onto the map plane.
func ProjectPath(points []model.GeodeticPosition, planeWidth, aspectRatio float64) [][]model.PlanePosition {
	segments := SegmentPath(points)
	out := make([][]model.PlanePosition, len(segments))
	for i, seg := range segments {
		run := make([]model.PlanePosition, len(seg))
		for j, g := range seg {
			run[j] = ToPlane(g, planeWidth, aspectRatio)
		}
		out[i] = run
	}
	return out
}
