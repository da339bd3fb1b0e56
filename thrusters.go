package spacetrains

import (
	"math"
	"time"
)

// MaxManeuverTime is the default duration allowed for an impulsive burn.
const MaxManeuverTime = 30 * time.Minute

// Engine burns a Fuel. The power limit is only meaningful for power-limited propulsion,
// where the Isp depends on the available power.
type Engine struct {
	Fuel         *Fuel
	PowerLimitGW float64
	DryMass      float64 // kg
}

// NewChemicalEngine returns an engine whose power is not limited.
func NewChemicalEngine(fuel *Fuel, dryMass float64) *Engine {
	return &Engine{fuel, 1e60, dryMass}
}

// RequiredPropellant returns the propellant burned to change the velocity of a vehicle of
// mass shipMass (kg) by Δv (m/s), from the rocket equation.
// NOTE: maxManeuverTime is not a constraint yet. It will limit low thrust burns.
func (e *Engine) RequiredPropellant(shipMass, Δv float64, maxManeuverTime time.Duration) float64 {
	return shipMass * (1 - math.Exp(-math.Abs(Δv)/e.Fuel.IspMps(e.PowerLimitGW)))
}

// CanProvideΔv returns whether there is enough propellant to perform Δv.
func (e *Engine) CanProvideΔv(shipMass, Δv float64, maxManeuverTime time.Duration) bool {
	return e.RequiredPropellant(shipMass, Δv, maxManeuverTime) <= e.Fuel.Amount()
}

// BurnFuelByΔv burns the propellant needed to perform Δv and returns its mass. It does not
// check whether that propellant is available: use CanProvideΔv first.
func (e *Engine) BurnFuelByΔv(shipMass, Δv float64, maxManeuverTime time.Duration) float64 {
	burned := e.RequiredPropellant(shipMass, Δv, maxManeuverTime)
	e.Fuel.Burn(burned)
	return burned
}

// BurnFuel burns the provided amount of propellant.
func (e *Engine) BurnFuel(amount float64) {
	e.Fuel.Burn(amount)
}

// Mass returns the dry mass of the engine.
func (e *Engine) Mass() float64 {
	return e.DryMass
}
