// Package units converts field inputs between engineering units and the
// SI base units the calculation engine works in. Every quantity kind maps
// to a fixed multiplicative factor except temperature, which is an affine
// conversion routed through a Kelvin pivot.
package units

import (
	"fmt"
	"math"
	"sort"
)

// Kind identifies a physical quantity with its own unit registry.
type Kind string

const (
	Length              Kind = "length"       // pipe runs
	LengthSmall         Kind = "length_small" // diameters, roughness, tube pitch
	Area                Kind = "area"
	FlowRate            Kind = "flow_rate"
	MassFlow            Kind = "mass_flow"
	Density             Kind = "density"
	Viscosity           Kind = "viscosity"
	Pressure            Kind = "pressure"
	Temperature         Kind = "temperature"
	Velocity            Kind = "velocity"
	Power               Kind = "power"
	SpecificHeat        Kind = "specific_heat"
	ThermalConductivity Kind = "thermal_conductivity"
	HeatTransferCoeff   Kind = "heat_transfer_coefficient"
	FoulingResistance   Kind = "fouling_resistance"
)

// Exact reference constants (NIST SP 811 / international definitions).
// Derived factors below are written as constant expressions of these so
// the registry stays auditable against the definitions.
const (
	inch     = 0.0254          // m
	foot     = 0.3048          // m
	pound    = 0.45359237      // kg
	poundF   = 4.4482216152605 // N
	usGallon = 3.785411784e-3  // m³
	usBarrel = 42 * usGallon   // m³ (petroleum barrel)
	cubicFt  = foot * foot * foot
	btuIT    = 1055.05585262   // J (International Table)
	rankine  = 5.0 / 9.0       // K
)

// factors maps (kind, unit) to the multiplier that takes a value in that
// unit to SI. Temperature is intentionally absent; see toKelvin.
var factors = map[Kind]map[string]float64{
	Length: {
		"m":  1,
		"km": 1e3,
		"ft": foot,
	},
	LengthSmall: {
		"m":  1,
		"cm": 1e-2,
		"mm": 1e-3,
		"in": inch,
	},
	Area: {
		"m2":  1,
		"cm2": 1e-4,
		"mm2": 1e-6,
		"ft2": foot * foot,
		"in2": inch * inch,
	},
	FlowRate: {
		"m3/s":   1,
		"m3/h":   1.0 / 3600,
		"m3/d":   1.0 / 86400,
		"L/s":    1e-3,
		"L/min":  1e-3 / 60,
		"gpm":    usGallon / 60,
		"bbl/d":  usBarrel / 86400,
		"ft3/h":  cubicFt / 3600,
		"MMSCFD": 1e6 * cubicFt / 86400, // volume basis; standard conditions handled by the gas calculator
	},
	MassFlow: {
		"kg/s": 1,
		"kg/h": 1.0 / 3600,
		"t/h":  1e3 / 3600,
		"t/d":  1e3 / 86400,
		"lb/s": pound,
		"lb/h": pound / 3600,
	},
	Density: {
		"kg/m3":  1,
		"kg/L":   1e3,
		"g/cm3":  1e3,
		"lb/ft3": pound / cubicFt,
		"sg":     1e3, // specific gravity referenced to 1000 kg/m³
	},
	Viscosity: {
		"Pa.s":  1,
		"mPa.s": 1e-3,
		"cP":    1e-3,
		"P":     0.1,
	},
	Pressure: {
		"Pa":      1,
		"kPa":     1e3,
		"MPa":     1e6,
		"bar":     1e5,
		"mbar":    1e2,
		"psi":     poundF / (inch * inch),
		"atm":     101325,
		"kgf/cm2": 98066.5,
		"mmHg":    133.322387415,
	},
	Velocity: {
		"m/s":    1,
		"m/min":  1.0 / 60,
		"km/h":   1.0 / 3.6,
		"ft/s":   foot,
		"ft/min": foot / 60,
	},
	Power: {
		"W":  1,
		"kW": 1e3,
		"MW": 1e6,
		"hp": 550 * foot * poundF, // mechanical horsepower
	},
	SpecificHeat: {
		"J/kg.K":    1,
		"kJ/kg.K":   1e3,
		"kcal/kg.C": 4186.8,
		"Btu/lb.F":  btuIT / (pound * rankine),
	},
	ThermalConductivity: {
		"W/m.K":      1,
		"kcal/h.m.C": 4186.8 / 3600,
		"Btu/h.ft.F": btuIT / (3600 * foot * rankine),
	},
	HeatTransferCoeff: {
		"W/m2.K":      1,
		"kcal/h.m2.C": 4186.8 / 3600,
		"Btu/h.ft2.F": btuIT / (3600 * foot * foot * rankine),
	},
	FoulingResistance: {
		"m2.K/W":      1,
		"m2.h.C/kcal": 3600 / 4186.8,
		"h.ft2.F/Btu": 3600 * foot * foot * rankine / btuIT,
	},
}

// InvalidUnitError reports a unit string that is not registered for the
// requested quantity kind.
type InvalidUnitError struct {
	Kind Kind
	Unit string
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("unit %q is not registered for quantity kind %q", e.Unit, e.Kind)
}

// ErrNonFinite is returned when a conversion is asked to handle NaN or an
// infinity; those must never reach the calculation chain.
var ErrNonFinite = fmt.Errorf("value is not finite")

// ToSI converts value from the given unit to the SI base unit of kind.
func ToSI(value float64, kind Kind, unit string) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNonFinite
	}
	if kind == Temperature {
		return toKelvin(value, unit)
	}
	f, ok := factors[kind][unit]
	if !ok {
		return 0, &InvalidUnitError{Kind: kind, Unit: unit}
	}
	return value * f, nil
}

// FromSI converts an SI value back to the given unit. It is the exact
// inverse of ToSI: FromSI(ToSI(x)) round-trips to x at float precision.
func FromSI(value float64, kind Kind, unit string) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNonFinite
	}
	if kind == Temperature {
		return fromKelvin(value, unit)
	}
	f, ok := factors[kind][unit]
	if !ok {
		return 0, &InvalidUnitError{Kind: kind, Unit: unit}
	}
	return value / f, nil
}

// toKelvin applies the affine temperature transforms. Rankine is a pure
// scale factor but is handled here with the other temperature units so the
// pivot stays in one place.
func toKelvin(value float64, unit string) (float64, error) {
	switch unit {
	case "K":
		return value, nil
	case "C":
		return value + 273.15, nil
	case "F":
		return (value-32)*rankine + 273.15, nil
	case "R":
		return value * rankine, nil
	}
	return 0, &InvalidUnitError{Kind: Temperature, Unit: unit}
}

func fromKelvin(value float64, unit string) (float64, error) {
	switch unit {
	case "K":
		return value, nil
	case "C":
		return value - 273.15, nil
	case "F":
		return (value-273.15)/rankine + 32, nil
	case "R":
		return value / rankine, nil
	}
	return 0, &InvalidUnitError{Kind: Temperature, Unit: unit}
}

// Units lists the registered unit strings for a kind, sorted, for
// populating external pickers. Unknown kinds yield an empty list.
func Units(kind Kind) []string {
	if kind == Temperature {
		return []string{"C", "F", "K", "R"}
	}
	reg := factors[kind]
	out := make([]string, 0, len(reg))
	for u := range reg {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Kinds lists every registered quantity kind, sorted.
func Kinds() []Kind {
	out := make([]Kind, 0, len(factors)+1)
	for k := range factors {
		out = append(out, k)
	}
	out = append(out, Temperature)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether unit is registered for kind.
func Known(kind Kind, unit string) bool {
	if kind == Temperature {
		switch unit {
		case "K", "C", "F", "R":
			return true
		}
		return false
	}
	_, ok := factors[kind][unit]
	return ok
}
