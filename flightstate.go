package spacetrains

import (
	"errors"
	"fmt"
	"strings"
)

// Regime defines the possible flight regimes.
type Regime uint8

const (
	// OnSurface is landed on the parent body.
	OnSurface Regime = iota + 1
	// LowOrbit is a low orbit around the parent body.
	LowOrbit
	// SyncOrbit is a synchronous orbit around the parent body.
	SyncOrbit
	// FarOrbit is a far orbit around the parent body.
	FarOrbit
	// InterplanetaryTransfer orbits the primary on an explicitly integrated trajectory.
	// The parent body is then the destination.
	InterplanetaryTransfer
)

func (r Regime) String() string {
	switch r {
	case OnSurface:
		return "surface"
	case LowOrbit:
		return "LO"
	case SyncOrbit:
		return "GO"
	case FarOrbit:
		return "FO"
	case InterplanetaryTransfer:
		return "transfer"
	}
	panic("cannot stringify unknown regime")
}

// RegimeFromString returns the regime from its name.
func RegimeFromString(name string) (Regime, error) {
	switch strings.ToLower(name) {
	case "surface", "onsurface":
		return OnSurface, nil
	case "lo", "low", "loworbit":
		return LowOrbit, nil
	case "go", "sync", "syncorbit":
		return SyncOrbit, nil
	case "fo", "far", "farorbit":
		return FarOrbit, nil
	case "transfer", "interplanetary", "interplanetarytransfer":
		return InterplanetaryTransfer, nil
	default:
		return 0, fmt.Errorf("undefined regime '%s'", name)
	}
}

var (
	// ErrBodyMismatch is returned when changing body without an interplanetary transfer.
	ErrBodyMismatch = errors.New("inconsistent parent body")
	// ErrNoParentBody is returned when the next flight state has no parent body.
	ErrNoParentBody = errors.New("no parent body")
	// ErrSurfaceDeparture is returned when leaving a surface for anything but a low orbit.
	ErrSurfaceDeparture = errors.New("can only leave a surface to low orbit")
	// ErrTrajectoryRequired is returned when starting a transfer without a closed trajectory.
	ErrTrajectoryRequired = errors.New("trajectory required for interplanetary transfer")
)

// FlightState is where a vehicle is. It is a value: transitions replace it.
type FlightState struct {
	regime Regime
	body   *Body
}

// NewFlightState returns a new flight state.
func NewFlightState(body *Body, regime Regime) FlightState {
	return FlightState{regime, body}
}

// Regime returns the regime.
func (s FlightState) Regime() Regime {
	return s.regime
}

// Body returns the parent body, or the destination when in transfer.
func (s FlightState) Body() *Body {
	return s.body
}

// Equals returns whether both states have the same regime and parent body.
func (s FlightState) Equals(o FlightState) bool {
	return s.regime == o.regime && s.body == o.body
}

// String implements the Stringer interface.
func (s FlightState) String() string {
	name := "<nil>"
	if s.body != nil {
		name = s.body.Name
	}
	if s.regime == 0 {
		return name + "-unset"
	}
	return fmt.Sprintf("%s-%s", name, s.regime)
}

// checkTransition returns an error if the transition from cur to next is structurally illegal.
func checkTransition(cur, next FlightState, tr *Trajectory) error {
	if cur.body != next.body && cur.regime != InterplanetaryTransfer && next.regime != InterplanetaryTransfer {
		return ErrBodyMismatch
	}
	if next.body == nil {
		return ErrNoParentBody
	}
	if cur.regime == OnSurface && next.regime != LowOrbit {
		return ErrSurfaceDeparture
	}
	if next.regime == InterplanetaryTransfer && (tr == nil || tr.Period() <= 0) {
		return ErrTrajectoryRequired
	}
	return nil
}
