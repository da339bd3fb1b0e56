package spacetrains

// TransitionEvent is emitted when a ship changes flight state.
type TransitionEvent struct {
	Ship     string
	T        float64 // simulation time in years
	From, To FlightState
}

// BurnEvent is emitted when propellant is burned.
type BurnEvent struct {
	Ship      string
	T         float64
	Δv        float64 // m/s
	Burned    float64 // kg
	Remaining float64 // kg of burnable propellant left
}

// EventListener receives the events of a simulation, e.g. for telemetry.
type EventListener interface {
	OnTransition(TransitionEvent)
	OnBurn(BurnEvent)
}

type listeners []EventListener

func (ls listeners) transition(e TransitionEvent) {
	for _, l := range ls {
		l.OnTransition(e)
	}
}

func (ls listeners) burn(e BurnEvent) {
	for _, l := range ls {
		l.OnBurn(e)
	}
}
