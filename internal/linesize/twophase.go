package linesize

import (
	"math"

	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/fluid"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/pipe"
	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
)

// TwoPhaseInput sizes a gas/liquid line with the homogeneous no-slip
// model of API RP 14E: both phases travel at the mixture velocity, with
// volume-weighted mixture density and viscosity. CFactor overrides the
// erosional constant from the service table when set.
type TwoPhaseInput struct {
	Service         string         `json:"service"`
	LiquidFlow      units.Quantity `json:"liquid_flow"`
	LiquidDensity   units.Quantity `json:"liquid_density"`
	LiquidViscosity units.Quantity `json:"liquid_viscosity"`
	GasStandardFlow units.Quantity `json:"gas_standard_flow"`
	GasViscosity    units.Quantity `json:"gas_viscosity"`
	MolarMass       float64        `json:"molar_mass,omitempty"`
	SpecificGravity float64        `json:"specific_gravity,omitempty"`
	Z               float64        `json:"z,omitempty"`
	Pressure        units.Quantity `json:"pressure"`
	Temperature     units.Quantity `json:"temperature"`
	CFactor         float64        `json:"c_factor,omitempty"`
	Pipe            PipeInput      `json:"pipe"`
}

// TwoPhaseResult is the complete two-phase line calculation.
// MinimumDiameter is the smallest bore that keeps the mixture below the
// erosional velocity at the given flows.
type TwoPhaseResult struct {
	Geometry          pipe.Geometry            `json:"geometry"`
	GasDensity        float64                  `json:"gas_density_kgm3"`
	GasActualFlow     float64                  `json:"gas_actual_flow_m3s"`
	LiquidHoldup      float64                  `json:"liquid_holdup"`
	MixtureDensity    float64                  `json:"mixture_density_kgm3"`
	MixtureViscosity  float64                  `json:"mixture_viscosity_pas"`
	Flow              hydro.FlowState          `json:"flow"`
	ErosionalVelocity float64                  `json:"erosional_velocity_ms"`
	MinimumDiameter   float64                  `json:"minimum_diameter_m"`
	Friction          hydro.FrictionResult     `json:"friction"`
	Drop              hydro.PressureDropResult `json:"pressure_drop"`
	Gradient          float64                  `json:"gradient_kpa_km"`
	Checks            []criteria.Check         `json:"checks"`
	Warnings          []string                 `json:"warnings"`
}

// TwoPhase runs the two-phase line calculation.
func (e *Engine) TwoPhase(in TwoPhaseInput) (*TwoPhaseResult, error) {
	var vc validate.Collector
	ql := vc.SI("liquid_flow", in.LiquidFlow, units.FlowRate)
	vc.Positive("liquid_flow", ql)
	rhoL := vc.SI("liquid_density", in.LiquidDensity, units.Density)
	vc.Positive("liquid_density", rhoL)
	muL := vc.SI("liquid_viscosity", in.LiquidViscosity, units.Viscosity)
	vc.Positive("liquid_viscosity", muL)
	qgStd := vc.SI("gas_standard_flow", in.GasStandardFlow, units.FlowRate)
	vc.Positive("gas_standard_flow", qgStd)
	muG := vc.SI("gas_viscosity", in.GasViscosity, units.Viscosity)
	vc.Positive("gas_viscosity", muG)
	p := vc.SI("pressure", in.Pressure, units.Pressure)
	vc.Positive("pressure", p)
	tk := vc.SI("temperature", in.Temperature, units.Temperature)
	vc.Positive("temperature", tk)

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
	if in.CFactor < 0 {
		vc.Addf("c_factor", "must not be negative, got %g", in.CFactor)
	}

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

	rhoG := fluid.Density(p, tk, mw, z)
	qg := fluid.ActualFlow(qgStd, p, tk, z)
	total := ql + qg
	holdup := ql / total
	rhoM := holdup*rhoL + (1-holdup)*rhoG
	muM := holdup*muL + (1-holdup)*muG

	state, err := hydro.FlowStateAt(total/g.Area, g.InsideDiameter, rhoM, muM)
	if err != nil {
		return nil, err
	}
	fr, err := hydro.FrictionFactor(state.Reynolds, g.Roughness/g.InsideDiameter, e.Solver)
	if err != nil {
		return nil, err
	}
	drop, err := hydro.PressureDrop(fr, state, g.Length, g.InsideDiameter, rhoM, totalK, dz)
	if err != nil {
		return nil, err
	}

	c := in.CFactor
	if c == 0 && limits.CFactor != nil {
		c = *limits.CFactor
	}
	if c == 0 {
		c = criteria.CFactorContinuous
	}
	ve := criteria.ErosionalVelocity(c, rhoM)
	minDiameter := math.Sqrt(4 * total / (math.Pi * ve))

	momentum := state.Momentum()
	gradient := drop.PerLength(g.Length)
	checks, _ := criteria.Evaluate(limits, criteria.Measured{
		Momentum:         &momentum,
		PressureGradient: &gradient,
		NPS:              g.NPS,
	})
	erosional := criteria.Compare("Erosional velocity", state.Velocity, &ve, "m/s")
	checks = append([]criteria.Check{erosional}, checks...)
	return &TwoPhaseResult{
		Geometry:          g,
		GasDensity:        rhoG,
		GasActualFlow:     qg,
		LiquidHoldup:      holdup,
		MixtureDensity:    rhoM,
		MixtureViscosity:  muM,
		Flow:              state,
		ErosionalVelocity: ve,
		MinimumDiameter:   minDiameter,
		Friction:          fr,
		Drop:              drop,
		Gradient:          gradient,
		Checks:            checks,
		Warnings:          criteria.Warnings(checks),
	}, nil
}
