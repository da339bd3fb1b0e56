package spacetrains

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unit returns the unit vector of a given vector.
func unit(a []float64) (b []float64) {
	n := norm(a)
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// dot performs the inner product via mat/BLAS.
func dot(a, b []float64) float64 {
	return mat.Dot(mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b))
}

// sub returns a - b.
func sub(a, b []float64) []float64 {
	rslt := mat.NewVecDense(len(a), nil)
	rslt.SubVec(mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b))
	return rslt.RawVector().Data
}

// lerp linearly interpolates between a and b, f being in [0, 1].
func lerp(a, b []float64, f float64) []float64 {
	rslt := mat.NewVecDense(len(a), nil)
	rslt.SubVec(mat.NewVecDense(len(b), b), mat.NewVecDense(len(a), a))
	rslt.AddScaledVec(mat.NewVecDense(len(a), a), f, rslt)
	return rslt.RawVector().Data
}

// scale returns s*a.
func scale(s float64, a []float64) []float64 {
	rslt := mat.NewVecDense(len(a), nil)
	rslt.ScaleVec(s, mat.NewVecDense(len(a), a))
	return rslt.RawVector().Data
}

// sqDist returns the squared distance between a and b.
func sqDist(a, b []float64) float64 {
	d := sub(a, b)
	return dot(d, d)
}

// prograde returns the in-plane unit vector perpendicular to R, in the direction of motion.
func prograde(R []float64) []float64 {
	u := unit(R)
	return []float64{-u[1], u[0], 0}
}
