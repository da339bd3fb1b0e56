package spacetrains

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// StandardGravity converts a specific impulse in seconds to m/s.
const StandardGravity = 9.81

// PropellantKind defines the possible propellants.
type PropellantKind uint8

const (
	// LOX is liquid oxygen, the oxidizer of all chemical fuels.
	LOX PropellantKind = iota + 1
	// RP1 is rocket grade kerosene.
	RP1
	// Methane is liquid methane.
	Methane
	// Hydrogen is liquid hydrogen.
	Hydrogen
)

// propellantProps stores the physical properties of a propellant. The oxidizer ratio
// and the Isp are only defined for fuels.
type propellantProps struct {
	density       float64 // kg/m^3
	pressure      float64 // bar
	temperature   float64 // K
	oxidizerRatio float64 // oxidizer mass per fuel mass
	isp           float64 // s
}

var propellants = map[PropellantKind]propellantProps{
	LOX:      {1250.4, 6.89, 67.15, 0, 0},
	RP1:      {813, 6.89, 295, 2.7, 370},
	Methane:  {422, 6.89, 111.115, 3.7, 459},
	Hydrogen: {71, 2, 20, 6, 532},
}

func (k PropellantKind) String() string {
	switch k {
	case LOX:
		return "LOX"
	case RP1:
		return "RP-1"
	case Methane:
		return "methane"
	case Hydrogen:
		return "hydrogen"
	}
	panic("cannot stringify unknown propellant")
}

// IsOxidizer returns whether this propellant is an oxidizer.
func (k PropellantKind) IsOxidizer() bool {
	return k == LOX
}

// PropellantFromString returns the propellant kind from its name.
func PropellantFromString(name string) (PropellantKind, error) {
	switch strings.ToLower(name) {
	case "lox", "oxygen":
		return LOX, nil
	case "rp1", "rp-1", "kerosene":
		return RP1, nil
	case "methane", "ch4":
		return Methane, nil
	case "hydrogen", "lh2":
		return Hydrogen, nil
	default:
		return 0, fmt.Errorf("undefined propellant '%s'", name)
	}
}

// Resource is a physical propellant store.
type Resource struct {
	Kind        PropellantKind
	Density     float64 // kg/m^3
	Pressure    float64 // bar
	Temperature float64 // K, assumed constant for now
	Amount      float64 // kg
}

// NewResource returns an empty resource of the provided kind.
func NewResource(kind PropellantKind) *Resource {
	p, ok := propellants[kind]
	if !ok {
		panic(fmt.Errorf("unknown propellant %d", kind))
	}
	return &Resource{kind, p.density, p.pressure, p.temperature, 0}
}

// OxidizerRatio returns the oxidizer mass burned per unit mass of this fuel.
func (r *Resource) OxidizerRatio() float64 {
	return propellants[r.Kind].oxidizerRatio
}

// String implements the Stringer interface.
func (r *Resource) String() string {
	return fmt.Sprintf("%s: %.1f kg", r.Kind, r.Amount)
}

// Fuel combines resources which are burned with fixed mass ratios.
type Fuel struct {
	Resources []*Resource
	Ratios    []float64
	isp       float64 // m/s
}

// NewChemicalFuel returns a fuel burning the provided fuel with the provided oxidizer.
func NewChemicalFuel(fuel, oxidizer *Resource) (*Fuel, error) {
	if fuel == nil || oxidizer == nil {
		return nil, errors.New("fuel and oxidizer are required")
	}
	if fuel.Kind.IsOxidizer() {
		return nil, fmt.Errorf("%s is not a fuel", fuel.Kind)
	}
	if !oxidizer.Kind.IsOxidizer() {
		return nil, fmt.Errorf("%s is not an oxidizer", oxidizer.Kind)
	}
	return &Fuel{
		Resources: []*Resource{oxidizer, fuel},
		Ratios:    []float64{fuel.OxidizerRatio(), 1},
		isp:       propellants[fuel.Kind].isp * StandardGravity,
	}, nil
}

// Amount returns the combined mass which can be burned while respecting the ratios,
// i.e. the binding resource limits all the others.
func (f *Fuel) Amount() float64 {
	if len(f.Resources) == 0 {
		return 0
	}
	minByRatio := math.Inf(1)
	for i, res := range f.Resources {
		if byRatio := res.Amount / f.Ratios[i]; byRatio < minByRatio {
			minByRatio = byRatio
		}
	}
	return minByRatio * f.ratioSum()
}

// Burn debits each resource by its share of amount. The amount is not checked against
// Amount(): this is done by the Engine.
func (f *Fuel) Burn(amount float64) {
	sum := f.ratioSum()
	for i, res := range f.Resources {
		res.Amount -= amount * f.Ratios[i] / sum
	}
}

// IspMps returns the specific impulse in m/s. The power is ignored by chemical fuels.
func (f *Fuel) IspMps(powerGW float64) float64 {
	return f.isp
}

func (f *Fuel) ratioSum() (sum float64) {
	for _, ratio := range f.Ratios {
		sum += ratio
	}
	return
}

// FuelTank stores a resource.
type FuelTank struct {
	Resource *Resource
	Capacity float64 // kg
	DryMass  float64 // kg
}

// NewFuelTank returns a new empty tank.
func NewFuelTank(res *Resource, capacity, dryMass float64) *FuelTank {
	return &FuelTank{res, capacity, dryMass}
}

// Mass returns the dry mass plus the stored propellant.
func (t *FuelTank) Mass() float64 {
	return t.DryMass + t.Resource.Amount
}

// Refill fills the tank to capacity.
func (t *FuelTank) Refill() {
	t.Resource.Amount = t.Capacity
}
