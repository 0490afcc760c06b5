package linesize

import (
	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/pipe"
	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
)

// LiquidInput sizes a single-phase liquid line.
type LiquidInput struct {
	Service   string         `json:"service"`
	FlowRate  units.Quantity `json:"flow_rate"`
	Density   units.Quantity `json:"density"`
	Viscosity units.Quantity `json:"viscosity"`
	Pipe      PipeInput      `json:"pipe"`
}

// LiquidResult is the complete liquid line calculation. Once built it is
// never mutated.
type LiquidResult struct {
	Geometry pipe.Geometry            `json:"geometry"`
	Flow     hydro.FlowState          `json:"flow"`
	Friction hydro.FrictionResult     `json:"friction"`
	Drop     hydro.PressureDropResult `json:"pressure_drop"`
	HeadLoss float64                  `json:"head_loss_m"`
	Gradient float64                  `json:"gradient_kpa_km"`
	Checks   []criteria.Check         `json:"checks"`
	Warnings []string                 `json:"warnings"`
}

// Liquid runs the liquid line calculation.
func (e *Engine) Liquid(in LiquidInput) (*LiquidResult, error) {
	var vc validate.Collector
	q := vc.SI("flow_rate", in.FlowRate, units.FlowRate)
	vc.Positive("flow_rate", q)
	rho := vc.SI("density", in.Density, units.Density)
	vc.Positive("density", rho)
	mu := vc.SI("viscosity", in.Viscosity, units.Viscosity)
	vc.Positive("viscosity", mu)
	g := e.ResolveGeometry(&vc, in.Pipe, true)
	k := e.totalK(&vc, in.Pipe.Fittings)
	dz := elevation(&vc, in.Pipe.Elevation)
	limits, ok := e.limitsFor(in.Service)
	if !ok {
		vc.Addf("service", "unknown service class %q", in.Service)
	}
	if err := vc.Err(); err != nil {
		return nil, err
	}

	state, err := hydro.NewFlowState(q, g.InsideDiameter, rho, mu)
	if err != nil {
		return nil, err
	}
	fr, err := hydro.FrictionFactor(state.Reynolds, g.Roughness/g.InsideDiameter, e.Solver)
	if err != nil {
		return nil, err
	}
	drop, err := hydro.PressureDrop(fr, state, g.Length, g.InsideDiameter, rho, k, dz)
	if err != nil {
		return nil, err
	}

	velocity := state.Velocity
	momentum := state.Momentum()
	gradient := drop.PerLength(g.Length)
	checks, warnings := criteria.Evaluate(limits, criteria.Measured{
		Velocity:         &velocity,
		Momentum:         &momentum,
		PressureGradient: &gradient,
		NPS:              g.NPS,
	})
	return &LiquidResult{
		Geometry: g,
		Flow:     state,
		Friction: fr,
		Drop:     drop,
		HeadLoss: hydro.Head(drop.Friction+drop.Fittings, rho),
		Gradient: gradient,
		Checks:   checks,
		Warnings: warnings,
	}, nil
}
