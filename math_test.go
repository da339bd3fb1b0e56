package spacetrains

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("code did not panic")
		}
	}()
	f()
}

func TestMisc(t *testing.T) {
	nilVec := []float64{0, 0, 0}
	if norm(nilVec) != 0 {
		t.Fatal("norm of a nil vector was not nil")
	}
	five0 := []float64{5, 6, 7}
	five1 := []float64{7, 6, 5}
	five2 := []float64{6, 7, 5}
	if norm(five0) != math.Sqrt(110) || norm(five0) != norm(five1) || norm(five0) != norm(five2) {
		t.Fatal("norm of the [5, 6, 7] and permutations is invalid")
	}
	uNilVec := unit(nilVec)
	for i := 0; i < 3; i++ {
		if uNilVec[i] != nilVec[i] {
			t.Fatalf("%f != %f @ i=%d", uNilVec[i], nilVec[i], i)
		}
	}
	if !scalar.EqualWithinAbs(norm(unit(five0)), 1, 1e-12) {
		t.Fatal("unit vector is not of norm 1")
	}
}

func TestVectorOps(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, -5, 6}
	if d := dot(a, b); d != 12 {
		t.Fatalf("dot=%f != 12", d)
	}
	if !floats.Equal(sub(b, a), []float64{3, -7, 3}) {
		t.Fatalf("sub=%v", sub(b, a))
	}
	if !floats.Equal(scale(2, a), []float64{2, 4, 6}) {
		t.Fatalf("scale=%v", scale(2, a))
	}
	if !floats.Equal(lerp(a, b, 0), a) || !floats.Equal(lerp(a, b, 1), b) {
		t.Fatal("lerp does not reach its bounds")
	}
	if !floats.EqualApprox(lerp(a, b, 0.5), []float64{2.5, -1.5, 4.5}, 1e-12) {
		t.Fatalf("lerp midpoint=%v", lerp(a, b, 0.5))
	}
	if d2 := sqDist(a, b); d2 != 9+49+9 {
		t.Fatalf("sqDist=%f", d2)
	}
	// The inputs are left untouched.
	if !floats.Equal(a, []float64{1, 2, 3}) || !floats.Equal(b, []float64{4, -5, 6}) {
		t.Fatal("inputs were modified")
	}
}

func TestPrograde(t *testing.T) {
	for _, φ := range []float64{0, 0.3, math.Pi / 2, 2, math.Pi, 4.5} {
		R := []float64{2 * math.Cos(φ), 2 * math.Sin(φ), 0}
		p := prograde(R)
		if !scalar.EqualWithinAbs(dot(p, R), 0, 1e-12) {
			t.Fatalf("prograde not perpendicular at φ=%f", φ)
		}
		if !scalar.EqualWithinAbs(norm(p), 1, 1e-12) {
			t.Fatalf("prograde not a unit vector at φ=%f", φ)
		}
		// Counter-clockwise motion: the z component of R×p is positive.
		if R[0]*p[1]-R[1]*p[0] <= 0 {
			t.Fatalf("prograde is retrograde at φ=%f", φ)
		}
	}
}
