package spacetrains

import (
	"errors"
	"testing"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// recorder is an EventListener which keeps all events.
type recorder struct {
	transitions []TransitionEvent
	burns       []BurnEvent
	order       []string
}

func (r *recorder) OnTransition(e TransitionEvent) {
	r.transitions = append(r.transitions, e)
	r.order = append(r.order, "transition")
}

func (r *recorder) OnBurn(e BurnEvent) {
	r.burns = append(r.burns, e)
	r.order = append(r.order, "burn")
}

func testSim(t *testing.T) (*Simulation, *Body, *Body) {
	sim := NewSimulation(Sun, GravityParameter, julian.JDToTime(2451545.0), kitlog.NewNopLogger())
	earth, err := sim.AddBody(Earth)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	mars, err := sim.AddBody(Mars)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	return sim, earth, mars
}

func testShip(t *testing.T, start FlightState) *Ship {
	ship, err := NewStandardShip("Ares", start, RP1, 100000, nil)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	return ship
}

func TestRegime(t *testing.T) {
	for _, r := range []Regime{OnSurface, LowOrbit, SyncOrbit, FarOrbit, InterplanetaryTransfer} {
		if got, err := RegimeFromString(r.String()); err != nil || got != r {
			t.Fatalf("%s: got %v (%v)", r, got, err)
		}
	}
	if _, err := RegimeFromString("suborbital"); err == nil {
		t.Fatal("suborbital is not a regime")
	}
	assertPanic(t, func() {
		_ = Regime(0).String()
	})
}

func TestFlightState(t *testing.T) {
	_, earth, mars := testSim(t)
	lo := NewFlightState(earth, LowOrbit)
	if lo.String() != "Earth-LO" {
		t.Fatalf("got %s\nexp: Earth-LO", lo)
	}
	if lo.Body() != earth || lo.Regime() != LowOrbit {
		t.Fatal("invalid accessors")
	}
	if !lo.Equals(NewFlightState(earth, LowOrbit)) {
		t.Fatal("same regime and body should be equal")
	}
	if lo.Equals(NewFlightState(mars, LowOrbit)) || lo.Equals(NewFlightState(earth, OnSurface)) {
		t.Fatal("different regime or body should differ")
	}
	// A copy of the body is another body.
	other := *earth
	if lo.Equals(NewFlightState(&other, LowOrbit)) {
		t.Fatal("flight states compare bodies by identity")
	}
	if s := (FlightState{}).String(); s != "<nil>-unset" {
		t.Fatalf("got %s\nexp: <nil>-unset", s)
	}
}

func TestStandardShip(t *testing.T) {
	_, earth, _ := testSim(t)
	ship := testShip(t, NewFlightState(earth, OnSurface))
	if !scalar.EqualWithinAbs(ship.Mass(), 402900, 1e-6) {
		t.Fatalf("mass: got %f\nexp: 402900", ship.Mass())
	}
	if !scalar.EqualWithinAbs(ship.Engine.Fuel.Amount(), 370000, 1e-6) {
		t.Fatalf("propellant: got %f\nexp: 370000", ship.Engine.Fuel.Amount())
	}
	if ship.Trajectory() != nil {
		t.Fatal("a landed ship has no trajectory")
	}
	if _, err := NewStandardShip("Nope", NewFlightState(earth, OnSurface), LOX, 1000, nil); err == nil {
		t.Fatal("LOX is not a fuel")
	}
	ship.Engine.BurnFuel(1000)
	ship.Refuel()
	if !scalar.EqualWithinAbs(ship.Engine.Fuel.Amount(), 370000, 1e-6) {
		t.Fatal("refueling should fill the tanks")
	}
}

func TestShipRejectedTransitions(t *testing.T) {
	sim, earth, mars := testSim(t)
	tr, err := (&Hohmann{}).TransferTrajectory(sim, earth, mars, 0)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	for _, test := range []struct {
		from, to FlightState
		tr       *Trajectory
		err      error
	}{
		{NewFlightState(earth, OnSurface), NewFlightState(earth, FarOrbit), nil, ErrSurfaceDeparture},
		{NewFlightState(earth, OnSurface), NewFlightState(mars, InterplanetaryTransfer), tr, ErrSurfaceDeparture},
		{NewFlightState(earth, LowOrbit), NewFlightState(mars, LowOrbit), nil, ErrBodyMismatch},
		{NewFlightState(mars, InterplanetaryTransfer), NewFlightState(nil, LowOrbit), nil, ErrNoParentBody},
		{NewFlightState(earth, LowOrbit), NewFlightState(mars, InterplanetaryTransfer), nil, ErrTrajectoryRequired},
		{NewFlightState(earth, LowOrbit), NewFlightState(mars, InterplanetaryTransfer), &Trajectory{}, ErrTrajectoryRequired},
	} {
		ship := testShip(t, test.from)
		rec := &recorder{}
		ship.listeners = listeners{rec}
		before := ship.Engine.Fuel.Amount()
		err := ship.SetNextFlightState(test.to, test.tr, 1000)
		if !errors.Is(err, test.err) {
			t.Fatalf("%s -> %s: got %v\nexp: %s", test.from, test.to, err, test.err)
		}
		if !ship.FlightState().Equals(test.from) {
			t.Fatalf("%s -> %s: state changed to %s", test.from, test.to, ship.FlightState())
		}
		if ship.Engine.Fuel.Amount() != before || ship.Trajectory() != nil {
			t.Fatalf("%s -> %s: ship modified by a rejected transition", test.from, test.to)
		}
		if len(rec.order) != 0 {
			t.Fatalf("%s -> %s: events emitted for a rejected transition", test.from, test.to)
		}
	}
}

func TestShipTransfer(t *testing.T) {
	sim, earth, mars := testSim(t)
	ship := testShip(t, NewFlightState(earth, LowOrbit))
	rec := &recorder{}
	ship.listeners = listeners{rec}
	ship.UpdatePosition(0.5)
	if !floats.EqualApprox(ship.Position(), sim.BodyPosition(earth, 0.5), 1e-12) {
		t.Fatal("an orbiting ship is at its parent body")
	}
	tr, err := (&Hohmann{}).TransferTrajectory(sim, earth, mars, 0.5)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	before := ship.Engine.Fuel.Amount()
	if err := ship.SetNextFlightState(NewFlightState(mars, InterplanetaryTransfer), tr, 2946.5); err != nil {
		t.Fatalf("err %s", err)
	}
	if ship.Trajectory() != tr {
		t.Fatal("the trajectory was not installed")
	}
	if ship.Engine.Fuel.Amount() >= before {
		t.Fatal("no propellant burned")
	}
	ship.UpdatePosition(0.8)
	if !floats.EqualApprox(ship.Position(), tr.Position(0.8), 1e-12) {
		t.Fatal("a ship in transfer follows its trajectory")
	}
	if floats.EqualApprox(ship.Position(), sim.BodyPosition(earth, 0.8), 1e-3) {
		t.Fatal("a ship in transfer should have left its origin")
	}
	if !floats.EqualApprox(ship.Velocity(0.8), tr.Velocity(0.8), 1e-12) {
		t.Fatal("a ship in transfer has the velocity of its trajectory")
	}

	if err := ship.SetNextFlightState(NewFlightState(mars, LowOrbit), nil, 2650); err != nil {
		t.Fatalf("err %s", err)
	}
	if ship.Trajectory() != nil {
		t.Fatal("the trajectory was not released")
	}
	ship.UpdatePosition(1.2)
	if !floats.EqualApprox(ship.Position(), sim.BodyPosition(mars, 1.2), 1e-12) {
		t.Fatal("an orbiting ship is at its parent body")
	}

	if exp := []string{"burn", "transition", "burn", "transition"}; len(rec.order) != len(exp) {
		t.Fatalf("got events %v\nexp: %v", rec.order, exp)
	}
	for i, exp := range []string{"burn", "transition", "burn", "transition"} {
		if rec.order[i] != exp {
			t.Fatalf("got events %v", rec.order)
		}
	}
	first := rec.transitions[0]
	if first.Ship != "Ares" || first.T != 0.5 || !first.From.Equals(NewFlightState(earth, LowOrbit)) || !first.To.Equals(NewFlightState(mars, InterplanetaryTransfer)) {
		t.Fatalf("invalid transition event %+v", first)
	}
	if rec.burns[0].Δv != 2946.5 || rec.burns[0].Burned <= 0 || !scalar.EqualWithinAbs(rec.burns[0].Remaining+rec.burns[0].Burned, before, 1e-6) {
		t.Fatalf("invalid burn event %+v", rec.burns[0])
	}
}

func TestShipBurnIsUnconditional(t *testing.T) {
	_, earth, _ := testSim(t)
	ship := testShip(t, NewFlightState(earth, OnSurface))
	if err := ship.SetNextFlightState(NewFlightState(earth, LowOrbit), nil, 1e5); err != nil {
		t.Fatalf("err %s", err)
	}
	if ship.Engine.Fuel.Amount() >= 0 {
		t.Fatalf("the burn should have overdrawn the tanks, %f kg left", ship.Engine.Fuel.Amount())
	}
	if !ship.FlightState().Equals(NewFlightState(earth, LowOrbit)) {
		t.Fatalf("got %s\nexp: Earth-LO", ship.FlightState())
	}
}
