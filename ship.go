package spacetrains

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
)

// dryMassRatio is the dry mass of tanks and engines as a ratio of the propellant they are sized for.
const dryMassRatio = 0.07

// Ship is a vehicle with its flight state, engine, tanks and, when in transfer, its trajectory.
type Ship struct {
	Name       string
	Engine     *Engine
	Tanks      []*FuelTank
	Autopilot  *Autopilot
	state      FlightState
	trajectory *Trajectory
	position   []float64
	t          float64 // time of the last position update
	logger     kitlog.Logger
	listeners  listeners
}

// NewShip returns a new ship. The tanks are not refilled.
func NewShip(name string, start FlightState, engine *Engine, tanks []*FuelTank, logger kitlog.Logger) *Ship {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Ship{
		Name:     name,
		Engine:   engine,
		Tanks:    tanks,
		state:    start,
		position: []float64{0, 0, 0},
		logger:   kitlog.With(logger, "ship", name),
	}
}

// NewStandardShip returns a ship with a chemical engine burning fuelMass kg of the provided fuel
// and the matching oxidizer mass. Tanks and the engine weigh 7% of the propellant they are
// sized for. The tanks are full.
func NewStandardShip(name string, start FlightState, fuel PropellantKind, fuelMass float64, logger kitlog.Logger) (*Ship, error) {
	if fuel.IsOxidizer() {
		return nil, fmt.Errorf("%s is not a fuel", fuel)
	}
	fuelRes := NewResource(fuel)
	lox := NewResource(LOX)
	f, err := NewChemicalFuel(fuelRes, lox)
	if err != nil {
		return nil, err
	}
	oxMass := fuelMass * fuelRes.OxidizerRatio()
	tanks := []*FuelTank{
		NewFuelTank(fuelRes, fuelMass, fuelMass*dryMassRatio),
		NewFuelTank(lox, oxMass, oxMass*dryMassRatio),
	}
	ship := NewShip(name, start, NewChemicalEngine(f, fuelMass*dryMassRatio), tanks, logger)
	ship.Refuel()
	return ship, nil
}

// FlightState returns the current flight state.
func (s *Ship) FlightState() FlightState {
	return s.state
}

// Trajectory returns the trajectory, which is only set during an interplanetary transfer.
func (s *Ship) Trajectory() *Trajectory {
	return s.trajectory
}

// Position returns the position as of the last update.
func (s *Ship) Position() []float64 {
	return []float64{s.position[0], s.position[1], s.position[2]}
}

// Velocity returns the velocity at time t, from the trajectory or the parent body.
func (s *Ship) Velocity(t float64) []float64 {
	if s.trajectory != nil {
		return s.trajectory.Velocity(t)
	}
	if b := s.state.Body(); b != nil && b.Orbit() != nil {
		return b.Orbit().Velocity(t)
	}
	return []float64{0, 0, 0}
}

// UpdatePosition refreshes the position at time t, from the trajectory if any, else from
// the parent body.
func (s *Ship) UpdatePosition(t float64) {
	s.t = t
	if s.trajectory != nil {
		s.position = s.trajectory.Position(t)
		return
	}
	if b := s.state.Body(); b != nil && b.Orbit() != nil {
		s.position = b.Orbit().Position(t)
	}
}

// Mass returns the total mass in kg.
func (s *Ship) Mass() float64 {
	mass := s.Engine.Mass()
	for _, tank := range s.Tanks {
		mass += tank.Mass()
	}
	return mass
}

// Refuel fills all tanks to capacity.
func (s *Ship) Refuel() {
	for _, tank := range s.Tanks {
		tank.Refill()
	}
	s.logger.Log("level", "info", "subsys", "prop", "status", "refueled", "fuel(kg)", s.Engine.Fuel.Amount())
}

// SetNextFlightState transitions to next, burning the propellant for Δv (m/s). The trajectory
// is required when next is an interplanetary transfer. Any error leaves the ship untouched.
// The propellant is not checked: the caller must use Engine.CanProvideΔv first.
func (s *Ship) SetNextFlightState(next FlightState, tr *Trajectory, Δv float64) error {
	if err := checkTransition(s.state, next, tr); err != nil {
		s.logger.Log("level", "warning", "subsys", "astro", "from", s.state, "to", next, "err", err)
		return err
	}
	if next.Regime() == InterplanetaryTransfer {
		s.trajectory = tr
	} else if s.state.Regime() == InterplanetaryTransfer {
		s.trajectory = nil
	}
	burned := s.Engine.BurnFuelByΔv(s.Mass(), Δv, MaxManeuverTime)
	prev := s.state
	s.state = next
	remaining := s.Engine.Fuel.Amount()
	s.logger.Log("level", "info", "subsys", "astro", "from", prev, "to", next, "Δv(m/s)", Δv, "burned(kg)", burned)
	if remaining < 0 {
		s.logger.Log("level", "critical", "subsys", "prop", "fuel(kg)", remaining)
	}
	s.listeners.burn(BurnEvent{s.Name, s.t, Δv, burned, remaining})
	s.listeners.transition(TransitionEvent{s.Name, s.t, prev, next})
	return nil
}

// String implements the Stringer interface.
func (s *Ship) String() string {
	return fmt.Sprintf("%s (%s, %.1f kg)", s.Name, s.state, s.Mass())
}
