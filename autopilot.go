package spacetrains

import (
	"errors"
	"fmt"
	"strings"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// HohmannWindowTolerance is the time (years) before a Hohmann window within which departure is allowed.
	HohmannWindowTolerance = 0.002
	// ArrivalDistance2 is the squared distance (AU^2) to the destination under which a transfer arrives.
	ArrivalDistance2 = 0.00025
)

// ErrTargetLost is returned when the next target cannot be determined from the current flight state.
var ErrTargetLost = errors.New("target lost")

// StrategyKind defines the available transfer strategies.
type StrategyKind uint8

const (
	// HohmannKind departs in Hohmann windows on Hohmann transfer ellipses.
	HohmannKind StrategyKind = iota + 1
)

func (k StrategyKind) String() string {
	switch k {
	case HohmannKind:
		return "Hohmann"
	}
	panic("cannot stringify unknown strategy")
}

// StrategyFromString returns the strategy kind from its name.
func StrategyFromString(name string) (StrategyKind, error) {
	switch strings.ToLower(name) {
	case "hohmann":
		return HohmannKind, nil
	default:
		return 0, fmt.Errorf("undefined strategy '%s'", name)
	}
}

// TransferStrategy defines when and how a vehicle leaves one body for another.
// All Δv are in m/s.
type TransferStrategy interface {
	Kind() StrategyKind
	InLaunchWindow(sim *Simulation, from, to *Body, t float64) bool
	TransferTrajectory(sim *Simulation, from, to *Body, t float64) (*Trajectory, error)
	DepartureΔv(sim *Simulation, from, to *Body) float64
	RegimeΔv(body *Body, from, to Regime) float64
}

// NewStrategy returns the strategy of the provided kind. The launch and landing Δv (m/s)
// are the costs between the surface and the low orbit.
func NewStrategy(kind StrategyKind, launchΔv, landingΔv float64) (TransferStrategy, error) {
	switch kind {
	case HohmannKind:
		return &Hohmann{HohmannWindowTolerance, launchΔv, landingΔv}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %d", kind)
	}
}

// Hohmann is the Hohmann transfer strategy.
type Hohmann struct {
	WindowTolerance float64 // years
	LaunchΔv        float64 // surface to low orbit
	LandingΔv       float64 // low orbit to surface
}

// Kind implements the TransferStrategy interface.
func (h *Hohmann) Kind() StrategyKind {
	return HohmannKind
}

// InLaunchWindow implements the TransferStrategy interface.
func (h *Hohmann) InLaunchWindow(sim *Simulation, from, to *Body, t float64) bool {
	dt, ok := TimeUntilHohmann(sim.Orbit(from), sim.Orbit(to), t)
	return ok && dt < h.WindowTolerance
}

// TransferTrajectory implements the TransferStrategy interface. The departure is tangential
// at the current position of the origin.
func (h *Hohmann) TransferTrajectory(sim *Simulation, from, to *Body, t float64) (*Trajectory, error) {
	R := sim.BodyPosition(from, t)
	V := scale(HohmannVelocityDeparture(from, to, sim.GM()), prograde(R))
	return NewTrajectory(R, V, t, sim.GM())
}

// DepartureΔv implements the TransferStrategy interface.
func (h *Hohmann) DepartureΔv(sim *Simulation, from, to *Body) float64 {
	return VelToMps(HohmannΔvDeparture(from, to, sim.GM()))
}

// RegimeΔv implements the TransferStrategy interface.
func (h *Hohmann) RegimeΔv(body *Body, from, to Regime) float64 {
	switch {
	case from == OnSurface && to == LowOrbit:
		return h.LaunchΔv
	case from == LowOrbit && to == OnSurface:
		return h.LandingΔv
	}
	return 0
}

// TargetSelector determines the next target once a target is reached.
type TargetSelector interface {
	OnTargetReached(now FlightState) (FlightState, error)
}

// PendlerSelector alternates between two flight states.
type PendlerSelector struct {
	a, b FlightState
}

// NewPendlerSelector returns a selector alternating between a and b.
func NewPendlerSelector(a, b FlightState) *PendlerSelector {
	return &PendlerSelector{a, b}
}

// OnTargetReached implements the TargetSelector interface.
func (p *PendlerSelector) OnTargetReached(now FlightState) (FlightState, error) {
	if now.Equals(p.a) {
		return p.b, nil
	}
	if now.Equals(p.b) {
		return p.a, nil
	}
	return FlightState{}, fmt.Errorf("%w: pendler in state %s", ErrTargetLost, now)
}

// Action defines what the autopilot did during a tick.
type Action uint8

const (
	// Idle means nothing to do, e.g. cruising.
	Idle Action = iota + 1
	// Retargeted means the target was reached and a new one selected.
	Retargeted
	// Launched means the ship left the surface for a low orbit.
	Launched
	// Departed means the ship started an interplanetary transfer.
	Departed
	// Arrived means the ship left its transfer for the destination.
	Arrived
	// Landed means the ship reached the surface.
	Landed
	// Maneuvered means the ship changed orbit around the same body.
	Maneuvered
	// AwaitingWindow means the launch window is not open yet.
	AwaitingWindow
	// InsufficientFuel means a burn was not affordable and will be retried.
	InsufficientFuel
	// Stranded means the arrival burn was not affordable.
	Stranded
)

func (a Action) String() string {
	switch a {
	case Idle:
		return "idle"
	case Retargeted:
		return "retargeted"
	case Launched:
		return "launched"
	case Departed:
		return "departed"
	case Arrived:
		return "arrived"
	case Landed:
		return "landed"
	case Maneuvered:
		return "maneuvered"
	case AwaitingWindow:
		return "awaiting window"
	case InsufficientFuel:
		return "insufficient fuel"
	case Stranded:
		return "stranded"
	}
	panic("cannot stringify unknown action")
}

// Autopilot flies a ship from target to target.
type Autopilot struct {
	Strategy         TransferStrategy
	Selector         TargetSelector
	ArrivalDistance2 float64 // AU^2
	target           FlightState
	lost             error
	logger           kitlog.Logger
}

// NewAutopilot returns a new autopilot flying towards target.
func NewAutopilot(strategy TransferStrategy, selector TargetSelector, target FlightState, logger kitlog.Logger) *Autopilot {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Autopilot{strategy, selector, ArrivalDistance2, target, nil, logger}
}

// NewPendlerAutopilot returns an autopilot shuttling between start and end, starting towards end.
func NewPendlerAutopilot(strategy TransferStrategy, start, end FlightState, logger kitlog.Logger) *Autopilot {
	return NewAutopilot(strategy, NewPendlerSelector(start, end), end, logger)
}

// Target returns the current target.
func (ap *Autopilot) Target() FlightState {
	return ap.target
}

// Lost returns the error which made this autopilot lose its target, if any.
func (ap *Autopilot) Lost() error {
	return ap.lost
}

// Update decides what ship should do at time t. Its position must be up to date.
// Missing fuel or a closed window are not errors: the decision is retried on the next tick.
func (ap *Autopilot) Update(ship *Ship, sim *Simulation, t float64) (Action, error) {
	if ap.lost != nil {
		return Idle, ap.lost
	}
	logger := kitlog.With(ap.logger, "subsys", "autopilot", "ship", ship.Name)
	act := Idle
	cur := ship.FlightState()
	if cur.Equals(ap.target) {
		next, err := ap.Selector.OnTargetReached(cur)
		if err != nil {
			ap.lost = err
			logger.Log("level", "critical", "status", "lost", "err", err)
			return Idle, err
		}
		logger.Log("level", "info", "status", "target switched", "from", ap.target, "to", next)
		ap.target = next
		act = Retargeted
		if cur.Equals(next) {
			return act, nil
		}
	}

	dest := ap.target.Body()
	if dest == nil {
		return act, ErrNoParentBody
	}
	if sim.Orbit(dest) == nil {
		return act, fmt.Errorf("%w: %s", ErrUnknownBody, dest)
	}
	switch {
	case cur.Body() != dest && cur.Regime() == OnSurface:
		return ap.changeRegime(ship, LowOrbit, act)

	case cur.Body() != dest && cur.Regime() != InterplanetaryTransfer:
		from := cur.Body()
		if from == nil {
			return act, ErrNoParentBody
		}
		if sim.Orbit(from) == nil {
			return act, fmt.Errorf("%w: %s", ErrUnknownBody, from)
		}
		if !ap.Strategy.InLaunchWindow(sim, from, dest, t) {
			return orAction(act, AwaitingWindow), nil
		}
		Δv := ap.Strategy.DepartureΔv(sim, from, dest)
		if !ship.Engine.CanProvideΔv(ship.Mass(), Δv, MaxManeuverTime) {
			logger.Log("level", "warning", "status", "insufficient fuel", "Δv(m/s)", Δv, "fuel(kg)", ship.Engine.Fuel.Amount())
			return InsufficientFuel, nil
		}
		tr, err := ap.Strategy.TransferTrajectory(sim, from, dest, t)
		if err != nil {
			logger.Log("level", "error", "status", "no trajectory", "to", dest, "err", err)
			return act, err
		}
		if err := ship.SetNextFlightState(NewFlightState(dest, InterplanetaryTransfer), tr, Δv); err != nil {
			return act, err
		}
		logger.Log("level", "notice", "status", "departed", "to", dest, "arrival", t+HohmannTransferTime(from, dest, sim.GM()))
		return Departed, nil

	case cur.Body() != dest:
		// In transfer towards another body than the target: wait for the arrival.
		return act, nil

	case cur.Regime() == InterplanetaryTransfer:
		if sqDist(ship.Position(), sim.BodyPosition(dest, t)) >= ap.ArrivalDistance2 {
			return act, nil
		}
		// NOTE: the relative velocity is sampled at t, not when the threshold was crossed.
		Δv := VelToMps(norm(sub(ship.Velocity(t), sim.Orbit(dest).Velocity(t))))
		if !ship.Engine.CanProvideΔv(ship.Mass(), Δv, MaxManeuverTime) {
			logger.Log("level", "critical", "status", "stranded", "at", dest, "Δv(m/s)", Δv, "fuel(kg)", ship.Engine.Fuel.Amount())
			return Stranded, nil
		}
		if err := ship.SetNextFlightState(NewFlightState(dest, ap.target.Regime()), nil, Δv); err != nil {
			return act, err
		}
		ship.Refuel()
		return Arrived, nil

	default:
		next := ap.target.Regime()
		if cur.Regime() == OnSurface {
			next = LowOrbit
		}
		return ap.changeRegime(ship, next, act)
	}
}

// changeRegime moves the ship to another regime around its current body.
func (ap *Autopilot) changeRegime(ship *Ship, next Regime, act Action) (Action, error) {
	cur := ship.FlightState()
	Δv := ap.Strategy.RegimeΔv(cur.Body(), cur.Regime(), next)
	if !ship.Engine.CanProvideΔv(ship.Mass(), Δv, MaxManeuverTime) {
		return InsufficientFuel, nil
	}
	if err := ship.SetNextFlightState(NewFlightState(cur.Body(), next), nil, Δv); err != nil {
		return act, err
	}
	switch {
	case cur.Regime() == OnSurface:
		return Launched, nil
	case next == OnSurface:
		return Landed, nil
	}
	return Maneuvered, nil
}

// orAction returns act unless it is Idle, in which case it returns other.
func orAction(act, other Action) Action {
	if act == Idle {
		return other
	}
	return act
}
