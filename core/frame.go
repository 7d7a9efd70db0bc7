package core

import (
	"math"
	"time"

	"github.com/signalsfoundry/orbitviz/model"
)

// AlignmentSource supplies the slowly-varying rotation that carries
// inertial-frame coordinates into the Earth's mean equatorial frame at date.
// The astronomical model behind it is a collaborator concern; the engine
// only requires a 3x3 rotation matrix per calendar instant.
type AlignmentSource interface {
	Alignment(c time.Time) Mat3
}

// IdentityAlignment treats the inertial and equator-of-date frames as
// coincident. Useful in tests and for short visualization spans where
// precession is not discernible.
type IdentityAlignment struct{}

func (IdentityAlignment) Alignment(time.Time) Mat3 { return IdentityMat3() }

// PrecessionAlignment implements the IAU-76 precession model: the alignment
// matrix R3(-z) R2(theta) R3(-zeta) mapping J2000 inertial coordinates to
// the mean equator and equinox of date.
type PrecessionAlignment struct{}

func (PrecessionAlignment) Alignment(c time.Time) Mat3 {
	t, err := ToMissionTime(c.UTC())
	if err != nil {
		return IdentityMat3()
	}
	// Julian centuries since J2000.0.
	T := (float64(t) - mjdJ2000) / 36525.0

	const arcsec = degToRad / 3600.0
	zeta := (2306.2181*T + 0.30188*T*T + 0.017998*T*T*T) * arcsec
	z := (2306.2181*T + 1.09468*T*T + 0.018203*T*T*T) * arcsec
	theta := (2004.3109*T - 0.42665*T*T - 0.041833*T*T*T) * arcsec

	return RotationZ(-z).Mul(RotationY(theta)).Mul(RotationZ(-zeta))
}

// mjdJ2000 is the Modified Julian Date of the J2000.0 epoch.
const mjdJ2000 = 51544.5

// GMST returns the Greenwich Mean Sidereal Time angle in radians, wrapped
// into [0, 2pi), for a given mission time. It is computed as a single
// linear function of elapsed days since J2000 so it stays continuous as the
// day count crosses integer boundaries; a per-day split would produce a
// visible once-a-day jump in the spin.
func GMST(t model.MissionTime) float64 {
	du := float64(t) - mjdJ2000
	// Earth rotation angle coefficients (Capitaine et al.): turns at the
	// epoch plus sidereal turns per UT1 day.
	turns := 0.7790572732640 + 1.00273781191135448*du
	frac := turns - math.Floor(turns)
	return frac * 2 * math.Pi
}

// FrameRotation is the composed rotation mapping inertial-frame coordinates
// to Earth-fixed (terrestrial) coordinates for exactly one calendar
// instant. It is a value: recomputed per query, never cached across
// instants, and shared by every consumer of that instant (body pose and
// axis triad move in lockstep from the same value).
type FrameRotation struct {
	q    Quat
	gmst float64
}

// ComposeRotation builds the frame rotation for a calendar instant as the
// composition of the alignment rotation and the diurnal spin about the
// polar axis through the GMST angle. The alignment is applied first and the
// spin on top; swapping the order breaks the precession/obliquity
// relationship and is a correctness bug, not a style choice.
func ComposeRotation(c time.Time, align AlignmentSource) (FrameRotation, error) {
	t, err := ToMissionTime(c)
	if err != nil {
		return FrameRotation{}, err
	}
	if align == nil {
		align = IdentityAlignment{}
	}
	gmst := GMST(t)
	m := RotationZ(gmst).Mul(align.Alignment(c))
	return FrameRotation{q: QuatFromMatrix(m), gmst: gmst}, nil
}

// Rotate maps an inertial-frame vector to the terrestrial frame.
func (r FrameRotation) Rotate(v Vec3) Vec3 {
	return r.q.Rotate(v)
}

// Inverse returns the terrestrial-to-inertial rotation.
func (r FrameRotation) Inverse() FrameRotation {
	return FrameRotation{q: r.q.Conjugate(), gmst: r.gmst}
}

// Quaternion returns the rotation as a unit quaternion.
func (r FrameRotation) Quaternion() Quat { return r.q }

// Matrix returns the rotation as a 3x3 matrix.
func (r FrameRotation) Matrix() Mat3 { return r.q.Matrix() }

// SpinAngle returns the GMST angle the rotation was composed with, in
// radians within [0, 2pi).
func (r FrameRotation) SpinAngle() float64 { return r.gmst }
