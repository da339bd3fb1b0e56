package spacetrains

import (
	"math"
)

// HohmannTransferTime returns the time of flight in years of a Hohmann transfer between a and b.
func HohmannTransferTime(a, b *Body, μ float64) float64 {
	return math.Pi * math.Sqrt(math.Pow(a.Distance+b.Distance, 3)/8/μ)
}

// HohmannVelocityDeparture returns the velocity (AU/year) on the transfer ellipse when leaving a.
func HohmannVelocityDeparture(a, b *Body, μ float64) float64 {
	return math.Sqrt(2 * b.Distance * μ / a.Distance / (a.Distance + b.Distance))
}

// HohmannVelocityArrival returns the velocity (AU/year) on the transfer ellipse when reaching b.
func HohmannVelocityArrival(a, b *Body, μ float64) float64 {
	return math.Sqrt(2 * a.Distance * μ / b.Distance / (a.Distance + b.Distance))
}

// HohmannΔvDeparture returns the departure burn in AU/year. It is negative for inward transfers.
func HohmannΔvDeparture(a, b *Body, μ float64) float64 {
	return HohmannVelocityDeparture(a, b, μ) - CircularVelocity(a.Distance, μ)
}

// HohmannΔvArrival returns the arrival burn in AU/year. It is negative for inward transfers.
func HohmannΔvArrival(a, b *Body, μ float64) float64 {
	return CircularVelocity(b.Distance, μ) - HohmannVelocityArrival(a, b, μ)
}

// SynodicPeriod returns the time between two alignments of a and b. It returns false
// if both periods are equal, in which case the bodies never realign.
func SynodicPeriod(a, b *AnalyticOrbit) (float64, bool) {
	rate := 1/b.Period() - 1/a.Period()
	if rate == 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, false
	}
	return math.Abs(1 / rate), true
}

// TimeUntilHohmann returns the time in years, in [0, synodic period), until the next
// departure from a which reaches b with a single Hohmann transfer. It returns false if
// the window never opens.
func TimeUntilHohmann(a, b *AnalyticOrbit, t float64) (float64, bool) {
	syncT, ok := SynodicPeriod(a, b)
	if !ok {
		return 0, false
	}
	transferT := HohmannTransferTime(a.Body, b.Body, a.GM())
	// Lead of b over a at departure so that b is at the apse when the vehicle arrives.
	lead := math.Pi * (1 - 2*transferT/b.Period())
	missing := b.Phase(t) - a.Phase(t) - lead
	if b.Period() < a.Period() {
		// Inward: b gains on a, so the relative phase increases.
		missing = -missing
	}
	missing = math.Mod(missing, 2*math.Pi)
	if missing < 0 {
		missing += 2 * math.Pi
	}
	return missing / (2 * math.Pi) * syncT, true
}
