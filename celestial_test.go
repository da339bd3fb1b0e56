package spacetrains

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestBodyFromString(t *testing.T) {
	for _, body := range []Body{Sun, Mercury, Venus, Earth, Mars, Jupiter} {
		got, err := BodyFromString(body.Name)
		if err != nil {
			t.Fatalf("%s: %s", body, err)
		}
		if !got.Equals(&body) {
			t.Fatalf("got %s\nexp: %s", got, body)
		}
	}
	if b, err := BodyFromString("mArS"); err != nil || b.Name != "Mars" {
		t.Fatal("body names should be case insensitive")
	}
	if _, err := BodyFromString("Pluto"); err == nil {
		t.Fatal("Pluto is not a planet here")
	}
}

func TestBodyEquals(t *testing.T) {
	earth := Earth
	other := Earth
	if !earth.Equals(&other) {
		t.Fatal("copies of the same body should be equal")
	}
	other.Distance = 1.1
	if earth.Equals(&other) {
		t.Fatal("bodies at different distances should differ")
	}
	var nilBody *Body
	if earth.Equals(nilBody) || !nilBody.Equals(nil) {
		t.Fatal("nil handling is incorrect")
	}
}

func TestVelToMps(t *testing.T) {
	// Earth's mean orbital velocity is about 29.78 km/s.
	v := VelToMps(CircularVelocity(Earth.Distance, GravityParameter))
	if !scalar.EqualWithinAbs(v, 29789, 5) {
		t.Fatalf("got %f m/s\nexp: 29789 m/s", v)
	}
}
