package model

// GeodeticPosition is a point on the reference sphere.
// Longitude is in [-180, 180) degrees, latitude in [-90, 90] degrees.
// Altitude is out of scope for the flat-map view, so there is none.
type GeodeticPosition struct {
	Longitude float64
	Latitude  float64
}

// Frame identifies which Cartesian frame a position is expressed in.
type Frame int

const (
	// FrameInertial is the non-rotating celestial frame.
	FrameInertial Frame = iota
	// FrameTerrestrial rotates with the Earth's surface.
	FrameTerrestrial
)

// CartesianPosition is a position in scaled scene units.
// One scene unit is 1/100 of the reference body radius.
type CartesianPosition struct {
	X float64
	Y float64
	Z float64
}

// PlanePosition is a point on the 2D equirectangular map plane,
// centred on (0, 0) with x growing eastward and y growing northward.
type PlanePosition struct {
	X float64
	Y float64
}
