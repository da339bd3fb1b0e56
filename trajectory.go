package spacetrains

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	// TrajectoryStep is the default integration step in years.
	TrajectoryStep = 1 / 3650.0
	// TrajectoryDecimation is the default number of integration steps per stored sample.
	TrajectoryDecimation = 10
	// TrajectoryMaxSteps is the default integration budget.
	TrajectoryMaxSteps = 100000
)

// ErrOpenTrajectory is returned when the integration did not close a full revolution within its budget.
var ErrOpenTrajectory = errors.New("trajectory did not close within the step budget")

// Trajectory is a sampled two-body trajectory covering exactly one revolution.
type Trajectory struct {
	pts    [][]float64
	times  []float64
	t0     float64
	period float64 // positive if closed
}

// NewTrajectory is the same as NewPreciseTrajectory with the default step, decimation and budget.
func NewTrajectory(R, V []float64, t0, μ float64) (*Trajectory, error) {
	return NewPreciseTrajectory(R, V, t0, μ, TrajectoryStep, TrajectoryDecimation, TrajectoryMaxSteps)
}

// NewPreciseTrajectory integrates the trajectory from R and V at time t0 around a primary
// at the origin. Every decimation-th step is kept as a sample. The integration stops once
// the swept angle wraps past a full turn, and that elapsed time is the period.
// The motion is kept in the XY plane.
func NewPreciseTrajectory(R, V []float64, t0, μ, step float64, decimation, maxSteps int) (*Trajectory, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %f", step)
	}
	if decimation <= 0 {
		return nil, fmt.Errorf("decimation must be positive, got %d", decimation)
	}
	if len(R) < 2 || len(V) < 2 {
		return nil, errors.New("R and V must have at least two components")
	}
	x, y := R[0], R[1]
	vx, vy := V[0], V[1]
	if x == 0 && y == 0 {
		return nil, errors.New("cannot integrate from the origin")
	}
	tr := &Trajectory{t0: t0}
	t := t0
	φ0 := math.Atan2(y, x)
	var φTotal, lastφTotal float64
	for i := 0; i < maxSteps; i++ {
		if i%decimation == 0 {
			tr.pts = append(tr.pts, []float64{x, y, 0})
			tr.times = append(tr.times, t)
		}
		// Position first with the previous velocity, then the velocity at the new position.
		x += vx * step
		y += vy * step
		rg := μ / math.Pow(x*x+y*y, 1.5)
		vx -= x * rg * step
		vy -= y * rg * step
		t += step

		lastφTotal = φTotal
		φTotal = math.Mod(2*math.Pi+math.Atan2(y, x)-φ0, 2*math.Pi)
		if φTotal < lastφTotal {
			tr.period = t - t0
			return tr, nil
		}
	}
	return nil, ErrOpenTrajectory
}

// Period returns the period in years.
func (tr *Trajectory) Period() float64 {
	return tr.period
}

// Start returns the reference time of the trajectory.
func (tr *Trajectory) Start() float64 {
	return tr.t0
}

// Points returns a copy of the stored samples, e.g. for display.
func (tr *Trajectory) Points() [][]float64 {
	pts := make([][]float64, len(tr.pts))
	for i, pt := range tr.pts {
		pts[i] = []float64{pt[0], pt[1], pt[2]}
	}
	return pts
}

// Position returns the position at time t, by linear interpolation between the two
// samples around t once reduced into [t0, t0+period).
func (tr *Trajectory) Position(t float64) []float64 {
	t = math.Mod(t-tr.t0, tr.period)
	if t < 0 {
		t += tr.period
	}
	t += tr.t0
	last := len(tr.times) - 1
	if t >= tr.times[last] {
		// Between the last sample and the closure, i.e. the first sample one period later.
		f := (t - tr.times[last]) / (tr.t0 + tr.period - tr.times[last])
		return lerp(tr.pts[last], tr.pts[0], f)
	}
	// Index of the first sample strictly after t.
	i := sort.Search(len(tr.times), func(i int) bool { return tr.times[i] > t })
	if i == 0 {
		return tr.Points()[0]
	}
	f := (t - tr.times[i-1]) / (tr.times[i] - tr.times[i-1])
	return lerp(tr.pts[i-1], tr.pts[i], f)
}

// Velocity returns the velocity at time t as a backward difference of the position.
// This is an approximation, not the velocity of the integrator.
func (tr *Trajectory) Velocity(t float64) []float64 {
	return scale(1/velocityε, sub(tr.Position(t), tr.Position(t-velocityε)))
}

// String implements the Stringer interface.
func (tr *Trajectory) String() string {
	return fmt.Sprintf("trajectory t0=%.4f yr\tT=%.4f yr\t%d samples", tr.t0, tr.period, len(tr.pts))
}
