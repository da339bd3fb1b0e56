package spacetrains

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

const (
	// DefaultStep is the default tick in years (about 8.8 hours).
	DefaultStep = 0.001
	// DefaultDuration is the default simulated duration in years.
	DefaultDuration = 10.0
)

// ShipConfig is the configuration of a ship shuttling between two bodies.
type ShipConfig struct {
	Name          string
	From, To      string // body names; the ship starts on the surface of From
	Fuel          PropellantKind
	FuelMass      float64 // kg, the oxidizer mass follows from the fuel
	Strategy      StrategyKind
	LaunchΔv      float64 // m/s
	LandingΔv     float64 // m/s
	InitialRegime Regime
}

// Scenario is a simulation configuration.
type Scenario struct {
	Primary  Body
	μ        float64
	Epoch    time.Time
	Step     float64 // years
	Duration float64 // years
	Bodies   []Body
	Ships    []ShipConfig
	Export   ExportConfig
}

// Mu returns the gravity parameter μ per unit of primary mass.
func (sc Scenario) Mu() float64 {
	return sc.μ
}

// LoadScenario reads the scenario from the provided TOML file.
func LoadScenario(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("toml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ScenarioFromViper(v)
}

// ScenarioFromViper reads the scenario from an already loaded configuration.
func ScenarioFromViper(v *viper.Viper) (*Scenario, error) {
	v.SetDefault("simulation.mu", GravityParameter)
	v.SetDefault("simulation.primary", "Sun")
	v.SetDefault("simulation.step", DefaultStep)
	v.SetDefault("simulation.duration", DefaultDuration)

	sc := &Scenario{
		μ:        v.GetFloat64("simulation.mu"),
		Step:     v.GetFloat64("simulation.step"),
		Duration: v.GetFloat64("simulation.duration"),
		Epoch:    confReadJDEorTime(v, "simulation.epoch"),
		Export: ExportConfig{
			Dir:          v.GetString("export.dir"),
			Filename:     v.GetString("export.filename"),
			Timestamp:    v.GetBool("export.timestamp"),
			Trajectories: v.GetBool("export.trajectories"),
		},
	}
	if sc.μ <= 0 {
		return nil, fmt.Errorf("simulation.mu must be positive, got %f", sc.μ)
	}
	if sc.Step <= 0 {
		return nil, fmt.Errorf("simulation.step must be positive, got %f", sc.Step)
	}
	primary, err := BodyFromString(v.GetString("simulation.primary"))
	if err != nil {
		return nil, fmt.Errorf("simulation.primary: %w", err)
	}
	sc.Primary = primary

	if !v.IsSet("bodies.0") {
		sc.Bodies = []Body{Mercury, Venus, Earth, Mars, Jupiter}
	}
	for bodyNo := 0; v.IsSet(fmt.Sprintf("bodies.%d", bodyNo)); bodyNo++ {
		key := fmt.Sprintf("bodies.%d", bodyNo)
		name := v.GetString(key + ".name")
		body, err := BodyFromString(name)
		if err != nil {
			// Custom body, all parameters must be provided.
			body = Body{Name: name}
		}
		if v.IsSet(key + ".distance") {
			body.Distance = v.GetFloat64(key + ".distance")
		}
		if v.IsSet(key + ".mass") {
			body.Mass = v.GetFloat64(key + ".mass")
		}
		if v.IsSet(key + ".radius") {
			body.Radius = v.GetFloat64(key + ".radius")
		}
		if body.Name == "" || body.Distance <= 0 {
			return nil, fmt.Errorf("%s: name and positive distance required", key)
		}
		sc.Bodies = append(sc.Bodies, body)
	}

	for shipNo := 0; v.IsSet(fmt.Sprintf("ships.%d", shipNo)); shipNo++ {
		key := fmt.Sprintf("ships.%d", shipNo)
		v.SetDefault(key+".fuel", "rp1")
		v.SetDefault(key+".strategy", "hohmann")
		v.SetDefault(key+".regime", "surface")
		conf := ShipConfig{
			Name:      v.GetString(key + ".name"),
			From:      v.GetString(key + ".from"),
			To:        v.GetString(key + ".to"),
			FuelMass:  v.GetFloat64(key + ".fuelMass"),
			LaunchΔv:  v.GetFloat64(key + ".launchDeltaV"),
			LandingΔv: v.GetFloat64(key + ".landingDeltaV"),
		}
		if conf.Name == "" {
			conf.Name = fmt.Sprintf("Ship #%d", shipNo+1)
		}
		if conf.FuelMass <= 0 {
			return nil, fmt.Errorf("%s.fuelMass must be positive", key)
		}
		if conf.Fuel, err = PropellantFromString(v.GetString(key + ".fuel")); err != nil {
			return nil, fmt.Errorf("%s.fuel: %w", key, err)
		}
		if conf.Fuel.IsOxidizer() {
			return nil, fmt.Errorf("%s.fuel: %s is not a fuel", key, conf.Fuel)
		}
		if conf.Strategy, err = StrategyFromString(v.GetString(key + ".strategy")); err != nil {
			return nil, fmt.Errorf("%s.strategy: %w", key, err)
		}
		if conf.InitialRegime, err = RegimeFromString(v.GetString(key + ".regime")); err != nil {
			return nil, fmt.Errorf("%s.regime: %w", key, err)
		}
		if conf.InitialRegime == InterplanetaryTransfer {
			return nil, fmt.Errorf("%s.regime: cannot start in transfer", key)
		}
		from, okFrom := sc.bodyName(conf.From)
		to, okTo := sc.bodyName(conf.To)
		if !okFrom || !okTo {
			return nil, fmt.Errorf("%s: unknown body in %s -> %s", key, conf.From, conf.To)
		}
		conf.From, conf.To = from, to
		if conf.From == conf.To {
			return nil, fmt.Errorf("%s: cannot shuttle from %s to itself", key, conf.From)
		}
		sc.Ships = append(sc.Ships, conf)
	}
	return sc, nil
}

// bodyName returns the name of the body matching name regardless of case.
func (sc *Scenario) bodyName(name string) (string, bool) {
	for _, b := range sc.Bodies {
		if strings.EqualFold(b.Name, name) {
			return b.Name, true
		}
	}
	return "", false
}

// Build returns the simulation described by the scenario, with one pendler per ship.
func (sc *Scenario) Build(logger kitlog.Logger) (*Simulation, error) {
	sim := NewSimulation(sc.Primary, sc.μ, sc.Epoch, logger)
	for _, b := range sc.Bodies {
		if _, err := sim.AddBody(b); err != nil {
			return nil, err
		}
	}
	for _, conf := range sc.Ships {
		from, err := sim.Body(conf.From)
		if err != nil {
			return nil, err
		}
		to, err := sim.Body(conf.To)
		if err != nil {
			return nil, err
		}
		start := NewFlightState(from, conf.InitialRegime)
		ship, err := NewStandardShip(conf.Name, start, conf.Fuel, conf.FuelMass, logger)
		if err != nil {
			return nil, err
		}
		strategy, err := NewStrategy(conf.Strategy, conf.LaunchΔv, conf.LandingΔv)
		if err != nil {
			return nil, err
		}
		ship.Autopilot = NewPendlerAutopilot(strategy, start, NewFlightState(to, conf.InitialRegime), logger)
		if err := sim.AddShip(ship); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

// confReadJDEorTime reads a date either as a Julian day or as a time. Unset dates are J2000.
func confReadJDEorTime(v *viper.Viper, key string) (dt time.Time) {
	if !v.IsSet(key) {
		return julian.JDToTime(2451545.0)
	}
	jde := v.GetFloat64(key)
	if jde == 0 {
		dt = v.GetTime(key)
	} else {
		dt = julian.JDToTime(jde)
	}
	return dt.UTC()
}
