package linesize

import (
	"fmt"

	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/fluid"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/pipe"
	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
)

// GasInput sizes a single-phase gas line. Flow is given at the standard
// reference state; pressure is the flowing absolute pressure. Gas
// composition comes from either MolarMass (kg/kmol) or SpecificGravity
// relative to air, with MolarMass winning when both are set. Z and
// SpecificHeatRatio left at zero default to 1 and 1.4.
type GasInput struct {
	Service           string         `json:"service"`
	StandardFlow      units.Quantity `json:"standard_flow"`
	Pressure          units.Quantity `json:"pressure"`
	Temperature       units.Quantity `json:"temperature"`
	Viscosity         units.Quantity `json:"viscosity"`
	MolarMass         float64        `json:"molar_mass,omitempty"`
	SpecificGravity   float64        `json:"specific_gravity,omitempty"`
	Z                 float64        `json:"z,omitempty"`
	SpecificHeatRatio float64        `json:"specific_heat_ratio,omitempty"`
	Pipe              PipeInput      `json:"pipe"`
}

// GasResult is the complete gas line calculation.
type GasResult struct {
	Geometry      pipe.Geometry            `json:"geometry"`
	MolarMass     float64                  `json:"molar_mass_kg_kmol"`
	Density       float64                  `json:"density_kgm3"`
	ActualFlow    float64                  `json:"actual_flow_m3s"`
	Flow          hydro.FlowState          `json:"flow"`
	SonicVelocity float64                  `json:"sonic_velocity_ms"`
	Mach          float64                  `json:"mach"`
	Friction      hydro.FrictionResult     `json:"friction"`
	Drop          hydro.PressureDropResult `json:"pressure_drop"`
	Gradient      float64                  `json:"gradient_kpa_km"`
	Checks        []criteria.Check         `json:"checks"`
	Warnings      []string                 `json:"warnings"`
}

// compressibleLimit is the fraction of inlet pressure beyond which the
// incompressible Darcy treatment stops being trustworthy.
const compressibleLimit = 0.10

// Gas runs the gas line calculation.
func (e *Engine) Gas(in GasInput) (*GasResult, error) {
	var vc validate.Collector
	stdFlow := vc.SI("standard_flow", in.StandardFlow, units.FlowRate)
	vc.Positive("standard_flow", stdFlow)
	p := vc.SI("pressure", in.Pressure, units.Pressure)
	vc.Positive("pressure", p)
	tk := vc.SI("temperature", in.Temperature, units.Temperature)
	vc.Positive("temperature", tk)
	mu := vc.SI("viscosity", in.Viscosity, units.Viscosity)
	vc.Positive("viscosity", mu)

	mw := in.MolarMass
	if mw == 0 && in.SpecificGravity != 0 {
		mw = fluid.MolarMassFromGravity(in.SpecificGravity)
	}
	vc.Positive("molar_mass", mw)
	z := in.Z
	if z == 0 {
		z = 1
	}
	vc.Positive("z", z)
	k := in.SpecificHeatRatio
	if k == 0 {
		k = 1.4
	}
	vc.Positive("specific_heat_ratio", k)

	g := e.ResolveGeometry(&vc, in.Pipe, true)
	totalK := e.totalK(&vc, in.Pipe.Fittings)
	dz := elevation(&vc, in.Pipe.Elevation)
	limits, ok := e.limitsFor(in.Service)
	if !ok {
		vc.Addf("service", "unknown service class %q", in.Service)
	}
	if err := vc.Err(); err != nil {
		return nil, err
	}

	rho := fluid.Density(p, tk, mw, z)
	actual := fluid.ActualFlow(stdFlow, p, tk, z)
	state, err := hydro.NewFlowState(actual, g.InsideDiameter, rho, mu)
	if err != nil {
		return nil, err
	}
	fr, err := hydro.FrictionFactor(state.Reynolds, g.Roughness/g.InsideDiameter, e.Solver)
	if err != nil {
		return nil, err
	}
	drop, err := hydro.PressureDrop(fr, state, g.Length, g.InsideDiameter, rho, totalK, dz)
	if err != nil {
		return nil, err
	}

	sonic := fluid.SonicVelocity(k, z, tk, mw)
	mach := state.Velocity / sonic
	velocity := state.Velocity
	momentum := state.Momentum()
	gradient := drop.PerLength(g.Length)
	checks, warnings := criteria.Evaluate(limits, criteria.Measured{
		Velocity:         &velocity,
		Momentum:         &momentum,
		Mach:             &mach,
		PressureGradient: &gradient,
		NPS:              g.NPS,
	})
	if drop.Total > compressibleLimit*p {
		warnings = append(warnings, fmt.Sprintf(
			"Pressure drop is %.4g%% of inlet pressure; incompressible treatment is unreliable above %.4g%%",
			100*drop.Total/p, 100*compressibleLimit))
	}
	return &GasResult{
		Geometry:      g,
		MolarMass:     mw,
		Density:       rho,
		ActualFlow:    actual,
		Flow:          state,
		SonicVelocity: sonic,
		Mach:          mach,
		Friction:      fr,
		Drop:          drop,
		Gradient:      gradient,
		Checks:        checks,
		Warnings:      warnings,
	}, nil
}
