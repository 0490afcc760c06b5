// Package hydro implements the single-phase hydraulic engine: flow
// properties, Darcy friction factor, and pressure-drop / head-loss
// integration. Every function is pure and works in SI units; callers
// normalize inputs first and convert results for display afterwards.
package hydro

import (
	"fmt"
	"math"
)

// Regime is the flow regime derived from the Reynolds number.
type Regime string

const (
	Laminar    Regime = "laminar"
	Transition Regime = "transition"
	Turbulent  Regime = "turbulent"
)

// Regime boundaries. Fixed constants; friction-factor selection depends
// on the exact values.
const (
	laminarLimit   = 2300.0
	turbulentLimit = 4000.0
)

// Classify maps a Reynolds number to its regime. Re < 2300 is laminar,
// Re ≥ 4000 turbulent, the band between is the transition region.
func Classify(re float64) Regime {
	switch {
	case re < laminarLimit:
		return Laminar
	case re < turbulentLimit:
		return Transition
	default:
		return Turbulent
	}
}

// InvalidFlowError reports a quantity the hydraulic formulas cannot
// accept: non-positive, NaN or infinite where a positive finite value is
// required.
type InvalidFlowError struct {
	Quantity string
	Value    float64
}

func (e *InvalidFlowError) Error() string {
	return fmt.Sprintf("invalid %s: %g", e.Quantity, e.Value)
}

func positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &InvalidFlowError{Quantity: name, Value: v}
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return &InvalidFlowError{Quantity: name, Value: v}
	}
	return nil
}

// FlowState carries the derived flow properties of one line segment.
// Regime is always consistent with Reynolds; construct through
// NewFlowState or FlowStateAt, never by hand.
type FlowState struct {
	FlowRate        float64 `json:"flow_rate_m3s"`
	Velocity        float64 `json:"velocity_ms"`
	Reynolds        float64 `json:"reynolds"`
	Regime          Regime  `json:"regime"`
	DynamicPressure float64 `json:"dynamic_pressure_pa"`
}

// Momentum returns the ρV² erosion/vibration screening quantity in Pa.
func (s FlowState) Momentum() float64 {
	return 2 * s.DynamicPressure
}

// NewFlowState derives velocity, Reynolds number and regime for a
// volumetric flow through a circular bore of the given inside diameter.
func NewFlowState(flowRate, diameter, density, viscosity float64) (FlowState, error) {
	if err := positive("flow rate", flowRate); err != nil {
		return FlowState{}, err
	}
	if err := positive("diameter", diameter); err != nil {
		return FlowState{}, err
	}
	area := math.Pi / 4 * diameter * diameter
	return FlowStateAt(flowRate/area, diameter, density, viscosity)
}

// FlowStateAt builds the state from an already-known mean velocity. Used
// where the velocity is not Q/A of a single phase, e.g. mixture velocity
// in two-phase lines.
func FlowStateAt(velocity, diameter, density, viscosity float64) (FlowState, error) {
	if err := positive("velocity", velocity); err != nil {
		return FlowState{}, err
	}
	if err := positive("diameter", diameter); err != nil {
		return FlowState{}, err
	}
	if err := positive("density", density); err != nil {
		return FlowState{}, err
	}
	if err := positive("viscosity", viscosity); err != nil {
		return FlowState{}, err
	}
	area := math.Pi / 4 * diameter * diameter
	re := density * velocity * diameter / viscosity
	return FlowState{
		FlowRate:        velocity * area,
		Velocity:        velocity,
		Reynolds:        re,
		Regime:          Classify(re),
		DynamicPressure: density * velocity * velocity / 2,
	}, nil
}
