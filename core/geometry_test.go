package core

import (
	"math"
	"testing"
)

func TestRotationZ_QuarterTurn(t *testing.T) {
	m := RotationZ(math.Pi / 2)
	got := m.MulVec(Vec3{X: 1})
	// Frame rotation by +90° carries the x axis onto -y in the new frame.
	want := Vec3{X: 0, Y: -1, Z: 0}
	if got.Sub(want).Norm() > 1e-12 {
		t.Fatalf("RotationZ(pi/2)*(1,0,0) = %#v, want %#v", got, want)
	}
}

func TestMat3_TransposeIsInverseForRotations(t *testing.T) {
	m := RotationZ(0.7).Mul(RotationY(0.3))
	id := m.Mul(m.Transpose())
	want := IdentityMat3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(id[i][j]-want[i][j]) > 1e-12 {
				t.Fatalf("m * mᵀ != I at (%d,%d): %v", i, j, id[i][j])
			}
		}
	}
}

func TestQuat_AxisAngleMatchesMatrix(t *testing.T) {
	for _, angle := range []float64{0, 0.1, math.Pi / 3, math.Pi, 5.9} {
		q := QuatFromAxisAngle(Vec3{Z: 1}, angle)
		v := Vec3{X: 0.6, Y: -0.2, Z: 0.9}

		// Vector rotation by +angle is the frame rotation by -angle.
		want := RotationZ(-angle).MulVec(v)
		if q.Rotate(v).Sub(want).Norm() > 1e-12 {
			t.Fatalf("angle %v: quaternion rotate %#v, matrix rotate %#v", angle, q.Rotate(v), want)
		}
	}
}

func TestQuatFromMatrix_RoundTrip(t *testing.T) {
	matrices := []Mat3{
		IdentityMat3(),
		RotationZ(1.2),
		RotationY(2.9),
		RotationZ(-0.4).Mul(RotationY(0.3)).Mul(RotationZ(-1.8)),
		RotationY(math.Pi - 1e-4), // near the trace-negative branch
	}

	v := Vec3{X: 0.3, Y: 0.5, Z: -0.7}
	for i, m := range matrices {
		q := QuatFromMatrix(m)
		if q.Rotate(v).Sub(m.MulVec(v)).Norm() > 1e-9 {
			t.Fatalf("matrix %d: quaternion conversion changed the rotation", i)
		}
	}
}

func TestQuat_MulComposesRightToLeft(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{Z: 1}, 0.5)
	b := QuatFromAxisAngle(Vec3{X: 1}, 1.1)
	v := Vec3{X: 0.2, Y: 0.4, Z: 0.8}

	want := a.Rotate(b.Rotate(v))
	got := a.Mul(b).Rotate(v)
	if got.Sub(want).Norm() > 1e-12 {
		t.Fatalf("(a*b) v = %#v, want a(b(v)) = %#v", got, want)
	}
}

func TestQuat_ConjugateInverts(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 1, Y: 2, Z: -0.5}, 2.2)
	v := Vec3{X: 1, Y: -1, Z: 0.5}
	back := q.Conjugate().Rotate(q.Rotate(v))
	if back.Sub(v).Norm() > 1e-12 {
		t.Fatalf("conjugate round trip drifted: %#v", back)
	}
}
