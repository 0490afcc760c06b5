// Package fluid provides the real-gas property closed forms shared by
// the gas line-sizing and compressor calculators. Inputs are SI and
// assumed validated by the caller; every function is pure.
package fluid

import "math"

const (
	// UniversalGasConstant is R in J/(kmol·K), CODATA value.
	UniversalGasConstant = 8314.462618

	// StandardPressure and StandardTemperature define the reference
	// state for standard volumetric gas flow: 101.325 kPa and 15 °C.
	StandardPressure    = 101325.0
	StandardTemperature = 288.15

	// AirMolarMass is the molar mass of dry air in kg/kmol.
	AirMolarMass = 28.9647
)

// Density returns ρ = P·MW/(Z·R·T) in kg/m³.
func Density(pressure, temperature, molarMass, z float64) float64 {
	return pressure * molarMass / (z * UniversalGasConstant * temperature)
}

// StandardDensity returns the density at the standard reference state
// with Z = 1.
func StandardDensity(molarMass float64) float64 {
	return Density(StandardPressure, StandardTemperature, molarMass, 1)
}

// SonicVelocity returns the speed of sound c = √(k·Z·R·T/MW) in m/s.
func SonicVelocity(k, z, temperature, molarMass float64) float64 {
	return math.Sqrt(k * z * UniversalGasConstant * temperature / molarMass)
}

// ActualFlow converts a standard volumetric flow to flowing conditions:
// Q = Q_std · (P_std/P) · (T/T_std) · Z.
func ActualFlow(standardFlow, pressure, temperature, z float64) float64 {
	return standardFlow * (StandardPressure / pressure) * (temperature / StandardTemperature) * z
}

// MolarMassFromGravity converts a gas specific gravity relative to air
// into a molar mass in kg/kmol.
func MolarMassFromGravity(sg float64) float64 {
	return sg * AirMolarMass
}
