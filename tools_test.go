package spacetrains

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestHohmannTransferTime(t *testing.T) {
	earth, mars := Earth, Mars
	tt := HohmannTransferTime(&earth, &mars, GravityParameter)
	if !scalar.EqualWithinAbs(tt, 0.708775, 1e-6) {
		t.Fatalf("got %f\nexp: 0.708775", tt)
	}
	if tt != HohmannTransferTime(&mars, &earth, GravityParameter) {
		t.Fatal("transfer time should not depend on the direction")
	}
}

func TestHohmannΔv(t *testing.T) {
	earth, mars := Earth, Mars
	for _, test := range []struct {
		from, to   *Body
		dep, arr   float64 // m/s
		depV, arrV float64 // AU/year
	}{
		{&earth, &mars, 2946.518, 2650.398, 6.90547, 4.53115},
		{&mars, &earth, -2650.398, -2946.518, 4.53115, 6.90547},
	} {
		dep := VelToMps(HohmannΔvDeparture(test.from, test.to, GravityParameter))
		arr := VelToMps(HohmannΔvArrival(test.from, test.to, GravityParameter))
		if !scalar.EqualWithinAbs(dep, test.dep, 0.01) {
			t.Fatalf("%s->%s departure: got %f\nexp: %f", test.from, test.to, dep, test.dep)
		}
		if !scalar.EqualWithinAbs(arr, test.arr, 0.01) {
			t.Fatalf("%s->%s arrival: got %f\nexp: %f", test.from, test.to, arr, test.arr)
		}
		if vd := HohmannVelocityDeparture(test.from, test.to, GravityParameter); !scalar.EqualWithinAbs(vd, test.depV, 1e-4) {
			t.Fatalf("%s->%s departure velocity: got %f\nexp: %f", test.from, test.to, vd, test.depV)
		}
		if va := HohmannVelocityArrival(test.from, test.to, GravityParameter); !scalar.EqualWithinAbs(va, test.arrV, 1e-4) {
			t.Fatalf("%s->%s arrival velocity: got %f\nexp: %f", test.from, test.to, va, test.arrV)
		}
	}
}

func TestSynodicPeriod(t *testing.T) {
	earth, mars := testOrbit(Earth), testOrbit(Mars)
	syn, ok := SynodicPeriod(earth, mars)
	if !ok || !scalar.EqualWithinAbs(syn, 2.13433, 1e-5) {
		t.Fatalf("got %f (%v)\nexp: 2.13433", syn, ok)
	}
	if synR, _ := SynodicPeriod(mars, earth); synR != syn {
		t.Fatal("synodic period should not depend on the order")
	}
	if _, ok := SynodicPeriod(earth, testOrbit(Earth)); ok {
		t.Fatal("equal periods never realign")
	}
}

func TestTimeUntilHohmann(t *testing.T) {
	earth, mars := testOrbit(Earth), testOrbit(Mars)
	if dt, ok := TimeUntilHohmann(earth, mars, 0); !ok || !scalar.EqualWithinAbs(dt, 1.871326, 1e-5) {
		t.Fatalf("Earth->Mars: got %f\nexp: 1.871326", dt)
	}
	if dt, ok := TimeUntilHohmann(mars, earth, 0); !ok || !scalar.EqualWithinAbs(dt, 1.688559, 1e-5) {
		t.Fatalf("Mars->Earth: got %f\nexp: 1.688559", dt)
	}
	syn, _ := SynodicPeriod(earth, mars)
	for _, pair := range [][2]*AnalyticOrbit{{earth, mars}, {mars, earth}} {
		a, b := pair[0], pair[1]
		tt := HohmannTransferTime(a.Body, b.Body, GravityParameter)
		for t0 := -3.0; t0 < 10; t0 += 0.173 {
			dt, ok := TimeUntilHohmann(a, b, t0)
			if !ok {
				t.Fatal("window should open")
			}
			if dt < 0 || dt >= syn {
				t.Fatalf("%s->%s: %f out of [0, %f) at t=%f", a.Body, b.Body, dt, syn, t0)
			}
			// Departing then arrives where the destination will be.
			dep := t0 + dt
			exp := math.Mod(a.Phase(dep)+math.Pi, 2*math.Pi)
			got := b.Phase(dep + tt)
			if diff := math.Abs(got - exp); diff > 1e-6 && math.Abs(diff-2*math.Pi) > 1e-6 {
				t.Fatalf("%s->%s: destination at %f rad instead of %f at arrival (t=%f)", a.Body, b.Body, got, exp, t0)
			}
			// The time to the window decreases with time.
			if dt > 0.1 {
				if later, _ := TimeUntilHohmann(a, b, t0+0.05); !scalar.EqualWithinAbs(later, dt-0.05, 1e-9) {
					t.Fatalf("%s->%s: got %f 0.05 yr later\nexp: %f", a.Body, b.Body, later, dt-0.05)
				}
			}
		}
	}
	if _, ok := TimeUntilHohmann(earth, testOrbit(Earth), 0); ok {
		t.Fatal("window between equal periods should never open")
	}
}
