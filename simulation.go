package spacetrains

import (
	"errors"
	"fmt"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/v3/julian"
)

// daysPerYear is the number of days in a Julian year.
const daysPerYear = 365.25

// ErrTimeReversed is returned when stepping the simulation back in time.
var ErrTimeReversed = errors.New("simulation time must not decrease")

// ErrUnknownBody is returned when a body is not part of the simulation.
var ErrUnknownBody = errors.New("body is not part of the simulation")

// Simulation holds the bodies and the ships, and advances them one tick at a time.
// It is not safe for concurrent use.
type Simulation struct {
	Primary   *Body
	Epoch     time.Time // date of t=0
	μ         float64
	bodies    []*Body
	ships     []*Ship
	t         float64
	started   bool
	listeners listeners
	logger    kitlog.Logger
}

// NewSimulation returns a new simulation around the primary. Simulation time is in years since epoch.
func NewSimulation(primary Body, μ float64, epoch time.Time, logger kitlog.Logger) *Simulation {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	p := primary
	p.orbit = NewAnalyticOrbit(&p, &p, μ)
	// Must switch to UTC as the Julian dates are in UTC.
	if epoch.Location() != time.UTC {
		epoch = epoch.UTC()
	}
	return &Simulation{Primary: &p, Epoch: epoch, μ: μ, logger: logger}
}

// GM returns μ times the mass of the primary.
func (s *Simulation) GM() float64 {
	return s.μ * s.Primary.Mass
}

// Time returns the time of the last step.
func (s *Simulation) Time() float64 {
	return s.t
}

// Date returns the calendar date of the simulation time t.
func (s *Simulation) Date(t float64) time.Time {
	return julian.JDToTime(julian.TimeToJD(s.Epoch) + t*daysPerYear)
}

// AddBody adds a body orbiting the primary and returns it.
func (s *Simulation) AddBody(b Body) (*Body, error) {
	if b.Distance <= 0 {
		return nil, fmt.Errorf("body %s must have a positive distance", b.Name)
	}
	if _, err := s.Body(b.Name); err == nil || b.Name == s.Primary.Name {
		return nil, fmt.Errorf("body %s already exists", b.Name)
	}
	body := b
	body.orbit = NewAnalyticOrbit(&body, s.Primary, s.μ)
	s.bodies = append(s.bodies, &body)
	s.logger.Log("level", "info", "subsys", "sim", "body", body.orbit)
	return &body, nil
}

// Body returns the body with the provided name, which may be the primary.
func (s *Simulation) Body(name string) (*Body, error) {
	if name == s.Primary.Name {
		return s.Primary, nil
	}
	for _, b := range s.bodies {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("unknown body '%s'", name)
}

// Bodies returns the bodies orbiting the primary.
func (s *Simulation) Bodies() []*Body {
	return append([]*Body(nil), s.bodies...)
}

// Orbit returns the orbit of the body, or nil if it is not part of this simulation.
func (s *Simulation) Orbit(b *Body) *AnalyticOrbit {
	if b == s.Primary {
		return b.Orbit()
	}
	for _, body := range s.bodies {
		if body == b {
			return b.Orbit()
		}
	}
	return nil
}

// BodyPosition returns the position of the body at time t. The body must be part of this simulation.
func (s *Simulation) BodyPosition(b *Body, t float64) []float64 {
	orbit := s.Orbit(b)
	if orbit == nil {
		panic(fmt.Errorf("body %s is not part of the simulation", b))
	}
	return orbit.Position(t)
}

// AddShip adds a ship to the simulation. The ship then reports its events to the listeners.
func (s *Simulation) AddShip(ship *Ship) error {
	for _, other := range s.ships {
		if other.Name == ship.Name {
			return fmt.Errorf("ship %s already exists", ship.Name)
		}
	}
	ship.listeners = s.listeners
	ship.UpdatePosition(s.t)
	s.ships = append(s.ships, ship)
	s.logger.Log("level", "info", "subsys", "sim", "added", ship)
	return nil
}

// RemoveShip removes the ship, releasing its trajectory.
func (s *Simulation) RemoveShip(name string) error {
	for i, ship := range s.ships {
		if ship.Name == name {
			ship.trajectory = nil
			ship.listeners = nil
			s.ships = append(s.ships[:i], s.ships[i+1:]...)
			s.logger.Log("level", "info", "subsys", "sim", "removed", name)
			return nil
		}
	}
	return fmt.Errorf("unknown ship '%s'", name)
}

// Ships returns the ships.
func (s *Simulation) Ships() []*Ship {
	return append([]*Ship(nil), s.ships...)
}

// AddListener registers a listener for the events of all ships.
func (s *Simulation) AddListener(l EventListener) {
	s.listeners = append(s.listeners, l)
	for _, ship := range s.ships {
		ship.listeners = s.listeners
	}
}

// Step advances the simulation to time t: each ship position is refreshed, then its autopilot runs.
// Autopilot errors are logged and only affect that ship.
func (s *Simulation) Step(t float64) error {
	if s.started && t < s.t {
		return fmt.Errorf("%w: %f < %f", ErrTimeReversed, t, s.t)
	}
	s.t = t
	s.started = true
	for _, ship := range s.ships {
		ship.UpdatePosition(t)
		if ship.Autopilot == nil {
			continue
		}
		act, err := ship.Autopilot.Update(ship, s, t)
		if err != nil {
			s.logger.Log("level", "error", "subsys", "sim", "ship", ship.Name, "date", s.Date(t).Format(time.RFC3339), "err", err)
			continue
		}
		if act != Idle && act != AwaitingWindow {
			s.logger.Log("level", "debug", "subsys", "sim", "ship", ship.Name, "date", s.Date(t).Format(time.RFC3339), "action", act)
		}
	}
	return nil
}

// Run steps the simulation from its current time until end, every step years.
func (s *Simulation) Run(end, step float64) error {
	if step <= 0 {
		return fmt.Errorf("step must be positive, got %f", step)
	}
	t := s.t
	if s.started {
		t += step
	}
	for ; t <= end; t += step {
		if err := s.Step(t); err != nil {
			return err
		}
	}
	return nil
}

// ShipSnapshot is the state of a ship for presentation.
type ShipSnapshot struct {
	Name       string
	State      FlightState
	Position   []float64
	Trajectory [][]float64 // nil unless in transfer
	Propellant float64     // kg
}

// Snapshot is the state of the simulation at the last step.
type Snapshot struct {
	T      float64
	Bodies map[string][]float64
	Ships  []ShipSnapshot
}

// Snapshot returns the positions of all bodies and ships, and the trajectories of ships in transfer.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{T: s.t, Bodies: make(map[string][]float64, len(s.bodies)+1)}
	snap.Bodies[s.Primary.Name] = []float64{0, 0, 0}
	for _, b := range s.bodies {
		snap.Bodies[b.Name] = b.Orbit().Position(s.t)
	}
	for _, ship := range s.ships {
		ss := ShipSnapshot{Name: ship.Name, State: ship.FlightState(), Position: ship.Position(), Propellant: ship.Engine.Fuel.Amount()}
		if tr := ship.Trajectory(); tr != nil {
			ss.Trajectory = tr.Points()
		}
		snap.Ships = append(snap.Ships, ss)
	}
	return snap
}
