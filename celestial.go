package spacetrains

import (
	"fmt"
	"strings"
)

const (
	// GravityParameter is G expressed in AU^3 / (solar mass * year^2).
	GravityParameter = 39.4876393
	// AUPerYearToMps converts a velocity from AU/year to m/s.
	AUPerYearToMps = 4740.57172
)

// Body defines a celestial body on a circular orbit around its primary.
// Distances are in AU and masses in solar masses. The mass is only used when
// the body is the primary of an orbit.
type Body struct {
	Name     string
	Distance float64 // Fixed orbital distance from the primary
	Mass     float64
	Radius   float64
	orbit    *AnalyticOrbit
}

// Orbit returns the analytic orbit of this body, which is nil until the body is
// added to a Simulation (or is the primary).
func (b *Body) Orbit() *AnalyticOrbit {
	return b.orbit
}

// String implements the Stringer interface.
func (b Body) String() string {
	return b.Name
}

// Equals returns whether the provided body is the same.
func (b *Body) Equals(o *Body) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Name == o.Name && b.Distance == o.Distance && b.Mass == o.Mass
}

// VelToMps converts a velocity from AU/year to m/s.
func VelToMps(vel float64) float64 {
	return vel * AUPerYearToMps
}

// BodyFromString returns the body from its name.
func BodyFromString(name string) (Body, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "mercury":
		return Mercury, nil
	case "venus":
		return Venus, nil
	case "earth":
		return Earth, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	default:
		return Body{}, fmt.Errorf("undefined body '%s'", name)
	}
}

/* Definitions */

// Sun is the primary of the default system.
var Sun = Body{Name: "Sun", Distance: 0, Mass: 1, Radius: 0.00465047}

// Mercury is the innermost planet.
var Mercury = Body{Name: "Mercury", Distance: 0.387098, Mass: 1.6601e-7, Radius: 1.6308e-5}

// Venus is poisonous.
var Venus = Body{Name: "Venus", Distance: 0.723332, Mass: 2.4478383e-6, Radius: 4.0454e-5}

// Earth is home.
var Earth = Body{Name: "Earth", Distance: 1.0, Mass: 3.003489e-6, Radius: 4.2635e-5}

// Mars is the vacation place.
var Mars = Body{Name: "Mars", Distance: 1.524, Mass: 3.227151e-7, Radius: 2.2702e-5}

// Jupiter is big.
var Jupiter = Body{Name: "Jupiter", Distance: 5.2026, Mass: 9.547919e-4, Radius: 4.7789e-4}
