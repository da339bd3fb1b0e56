package spacetrains

import (
	"fmt"
	"math"
)

// velocityε is the time span (in years) of the finite difference used to estimate velocities.
const velocityε = 0.01

// AnalyticOrbit is the circular, in-plane orbit of a body around its primary.
type AnalyticOrbit struct {
	Body    *Body
	Primary *Body
	μ       float64
}

// NewAnalyticOrbit returns the orbit of body around primary for the gravity parameter μ.
func NewAnalyticOrbit(body, primary *Body, μ float64) *AnalyticOrbit {
	return &AnalyticOrbit{body, primary, μ}
}

// GM returns μ times the mass of the primary.
func (o *AnalyticOrbit) GM() float64 {
	return o.μ * o.Primary.Mass
}

// Period returns the orbital period in years.
func (o *AnalyticOrbit) Period() float64 {
	d := o.Body.Distance
	return 2 * math.Pi * math.Sqrt(d*d*d/o.GM())
}

// Phase returns the angular phase in [0, 2π) at time t.
func (o *AnalyticOrbit) Phase(t float64) float64 {
	φ := math.Mod(2*math.Pi*t/o.Period(), 2*math.Pi)
	if φ < 0 {
		φ += 2 * math.Pi
	}
	return φ
}

// Position returns the position of the body at time t.
func (o *AnalyticOrbit) Position(t float64) []float64 {
	if o.Body.Distance == 0 {
		// The primary sits at the origin.
		return []float64{0, 0, 0}
	}
	sφ, cφ := math.Sincos(o.Phase(t))
	return []float64{o.Body.Distance * cφ, o.Body.Distance * sφ, 0}
}

// Velocity returns the velocity at time t as a backward difference of the position.
func (o *AnalyticOrbit) Velocity(t float64) []float64 {
	return scale(1/velocityε, sub(o.Position(t), o.Position(t-velocityε)))
}

// String implements the Stringer interface.
func (o *AnalyticOrbit) String() string {
	return fmt.Sprintf("%s around %s: d=%.4f AU\tT=%.4f yr", o.Body.Name, o.Primary.Name, o.Body.Distance, o.Period())
}

// CircularVelocity returns the velocity in AU/year of a circular orbit at distance d.
func CircularVelocity(d, μ float64) float64 {
	return math.Sqrt(μ / d)
}
