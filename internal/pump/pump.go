// Package pump implements the pump hydraulic calculator: total dynamic
// head composed from static, pressure, friction, and velocity terms,
// NPSH available, and hydraulic/brake power. Two named strategies cover
// the common cases: system sizing works from the source and destination
// vessels through the connected piping, flange rating works from gauge
// readings at the pump nozzles. Reciprocating acceleration head and the
// HI viscosity correction are layered on as decorators so the base
// integration stays auditable.
package pump

import (
	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/pipe"
	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
)

// Mode names the calculation strategy.
type Mode string

const (
	// ModeSystemSizing derives the duty from vessel conditions and
	// line hydraulics on both sides of the pump.
	ModeSystemSizing Mode = "system-sizing"
	// ModeFlangeRating derives the duty from pressures at the pump
	// nozzles; no system friction enters the head.
	ModeFlangeRating Mode = "flange-rating"
)

// Side describes one side of the pump. In system sizing, Pressure and
// Elevation are the surface pressure and liquid level of the connected
// vessel relative to the pump datum, and Pipe is the connected line. In
// flange rating they are the nozzle gauge reading and gauge elevation,
// and Pipe only supplies the nozzle bore (optional). Pipe.Elevation is
// ignored on both modes: statics are covered by Elevation here.
type Side struct {
	Pressure  units.Quantity     `json:"pressure"`
	Elevation units.Quantity     `json:"elevation"`
	Pipe      linesize.PipeInput `json:"pipe"`
}

// Input is a complete pump duty definition.
type Input struct {
	Mode          Mode           `json:"mode"`
	FlowRate      units.Quantity `json:"flow_rate"`
	Density       units.Quantity `json:"density"`
	Viscosity     units.Quantity `json:"viscosity"`
	VaporPressure units.Quantity `json:"vapor_pressure"`
	NPSHRequired  units.Quantity `json:"npsh_required"`        // from the vendor curve, optional
	Efficiency    float64        `json:"efficiency,omitempty"` // hydraulic efficiency in (0,1], 0 means unknown
	Suction       Side           `json:"suction"`
	Discharge     Side           `json:"discharge"`
}

// HeadBreakdown itemizes the total dynamic head in meters of fluid. The
// named terms always sum exactly to Total. Acceleration stays zero
// unless the reciprocating decorator is applied.
type HeadBreakdown struct {
	Static       float64 `json:"static_m"`
	Pressure     float64 `json:"pressure_m"`
	Friction     float64 `json:"friction_m"`
	Velocity     float64 `json:"velocity_m"`
	Acceleration float64 `json:"acceleration_m"`
	Total        float64 `json:"total_m"`
}

// SideResult carries the line hydraulics of one side. In flange rating
// only Geometry and Flow are populated, and only when a nozzle bore was
// given.
type SideResult struct {
	Geometry     pipe.Geometry            `json:"geometry"`
	Flow         hydro.FlowState          `json:"flow"`
	Friction     hydro.FrictionResult     `json:"friction"`
	Drop         hydro.PressureDropResult `json:"pressure_drop"`
	FrictionHead float64                  `json:"friction_head_m"`
}

// Result is the complete pump calculation. Once built it is never
// mutated.
type Result struct {
	Mode           Mode                 `json:"mode"`
	Suction        *SideResult          `json:"suction,omitempty"`
	Discharge      *SideResult          `json:"discharge,omitempty"`
	Head           HeadBreakdown        `json:"head"`
	NPSHa          float64              `json:"npsha_m"`
	NPSHMargin     *float64             `json:"npsh_margin_m,omitempty"`
	Viscosity      *ViscosityCorrection `json:"viscosity_correction,omitempty"`
	HydraulicPower float64              `json:"hydraulic_power_w"`
	BrakePower     float64              `json:"brake_power_w,omitempty"`
	Checks         []criteria.Check     `json:"checks"`
	Warnings       []string             `json:"warnings"`
}

// Engine runs pump calculations against the line engine's reference
// tables.
type Engine struct {
	Lines *linesize.Engine
}

// DefaultEngine wires the built-in tables.
func DefaultEngine() *Engine {
	return &Engine{Lines: linesize.DefaultEngine()}
}

// normalized side inputs, ready for the hydraulic pass.
type sideSI struct {
	pressure float64
	elev     float64
	geom     pipe.Geometry
	totalK   float64
	hasBore  bool
}

func optionalLength(vc *validate.Collector, field string, q units.Quantity) float64 {
	if q.IsZero() {
		return 0
	}
	v := vc.SI(field, q, units.Length)
	vc.Finite(field, v)
	return v
}

func (e *Engine) normalizeSide(vc *validate.Collector, mode Mode, s Side) sideSI {
	var si sideSI
	si.pressure = vc.SI("pressure", s.Pressure, units.Pressure)
	vc.Positive("pressure", si.pressure)
	si.elev = optionalLength(vc, "elevation", s.Elevation)

	s.Pipe.Elevation = units.Quantity{}
	switch mode {
	case ModeFlangeRating:
		if s.Pipe.Nominal == "" && s.Pipe.Diameter.IsZero() {
			return si
		}
		si.geom = e.Lines.ResolveGeometry(vc, s.Pipe, false)
		si.hasBore = si.geom.InsideDiameter > 0
	default:
		si.geom = e.Lines.ResolveGeometry(vc, s.Pipe, true)
		si.hasBore = si.geom.InsideDiameter > 0
		k, err := e.Lines.Fittings.TotalK(s.Pipe.Fittings)
		if err != nil {
			vc.Addf("pipe.fittings", "%v", err)
		}
		si.totalK = k
	}
	return si
}

func (e *Engine) sideHydraulics(mode Mode, si sideSI, q, rho, mu float64) (*SideResult, error) {
	if !si.hasBore {
		return nil, nil
	}
	state, err := hydro.NewFlowState(q, si.geom.InsideDiameter, rho, mu)
	if err != nil {
		return nil, err
	}
	out := &SideResult{Geometry: si.geom, Flow: state}
	if mode == ModeFlangeRating {
		return out, nil
	}
	fr, err := hydro.FrictionFactor(state.Reynolds, si.geom.Roughness/si.geom.InsideDiameter, e.Lines.Solver)
	if err != nil {
		return nil, err
	}
	drop, err := hydro.PressureDrop(fr, state, si.geom.Length, si.geom.InsideDiameter, rho, si.totalK, 0)
	if err != nil {
		return nil, err
	}
	out.Friction = fr
	out.Drop = drop
	out.FrictionHead = hydro.Head(drop.Friction+drop.Fittings, rho)
	return out, nil
}

// Calculate runs the pump calculation. Decorators are applied after the
// base head integration and before grading and power.
func (e *Engine) Calculate(in Input, decs ...Decorator) (*Result, error) {
	var vc validate.Collector
	q := vc.SI("flow_rate", in.FlowRate, units.FlowRate)
	vc.Positive("flow_rate", q)
	rho := vc.SI("density", in.Density, units.Density)
	vc.Positive("density", rho)
	mu := vc.SI("viscosity", in.Viscosity, units.Viscosity)
	vc.Positive("viscosity", mu)
	pvap := vc.SI("vapor_pressure", in.VaporPressure, units.Pressure)
	vc.Positive("vapor_pressure", pvap)

	mode := in.Mode
	if mode == "" {
		mode = ModeSystemSizing
	}
	if mode != ModeSystemSizing && mode != ModeFlangeRating {
		vc.Addf("mode", "unknown mode %q", in.Mode)
	}
	if in.Efficiency < 0 || in.Efficiency > 1 {
		vc.Addf("efficiency", "must be within (0, 1], got %g", in.Efficiency)
	}
	var npshr float64
	haveNPSHr := !in.NPSHRequired.IsZero()
	if haveNPSHr {
		npshr = vc.SI("npsh_required", in.NPSHRequired, units.Length)
		vc.NonNegative("npsh_required", npshr)
	}

	suctionSI := e.normalizeSide(vc.Scoped("suction"), mode, in.Suction)
	dischargeSI := e.normalizeSide(vc.Scoped("discharge"), mode, in.Discharge)
	if err := vc.Err(); err != nil {
		return nil, err
	}

	suction, err := e.sideHydraulics(mode, suctionSI, q, rho, mu)
	if err != nil {
		return nil, err
	}
	discharge, err := e.sideHydraulics(mode, dischargeSI, q, rho, mu)
	if err != nil {
		return nil, err
	}

	var vs, vd, hfs, hfd float64
	if suction != nil {
		vs = suction.Flow.Velocity
		hfs = suction.FrictionHead
	}
	if discharge != nil {
		vd = discharge.Flow.Velocity
		hfd = discharge.FrictionHead
	}

	head := HeadBreakdown{
		Static:   dischargeSI.elev - suctionSI.elev,
		Pressure: hydro.Head(dischargeSI.pressure-suctionSI.pressure, rho),
		Friction: hfs + hfd,
		Velocity: hydro.VelocityHead(vd) - hydro.VelocityHead(vs),
	}
	head.Total = head.Static + head.Pressure + head.Friction + head.Velocity

	npsha := hydro.Head(suctionSI.pressure-pvap, rho) + suctionSI.elev
	if mode == ModeFlangeRating {
		// A nozzle gauge does not see the velocity head; add it back.
		npsha += hydro.VelocityHead(vs)
	} else {
		npsha -= hfs
	}

	r := &Result{
		Mode:      mode,
		Suction:   suction,
		Discharge: discharge,
		Head:      head,
		NPSHa:     npsha,
	}
	ctx := Context{FlowRate: q, Density: rho, Viscosity: mu}
	for _, d := range decs {
		if err := d(ctx, r); err != nil {
			return nil, err
		}
	}

	var checks []criteria.Check
	if mode == ModeSystemSizing && suction != nil {
		if limits, ok := criteria.Service("liquid-suction"); ok && limits.LiquidVelocity != nil {
			band, lim := limits.LiquidVelocity.ForNominal(suction.Geometry.NPS)
			c := criteria.Compare("Suction velocity", vs, lim, "m/s")
			c.Band = band
			checks = append(checks, c)
		}
	}
	if haveNPSHr {
		margin := r.NPSHa - npshr
		r.NPSHMargin = &margin
		var floor *float64
		if limits, ok := criteria.Service("pump"); ok {
			floor = limits.NPSHMargin
		}
		checks = append(checks, criteria.CompareMin("NPSH margin", margin, floor, "m"))
	}
	r.Checks = checks
	r.Warnings = append(criteria.Warnings(checks), r.Warnings...)

	r.HydraulicPower = rho * hydro.Gravity * q * r.Head.Total
	if in.Efficiency > 0 {
		eff := in.Efficiency
		if r.Viscosity != nil {
			eff *= r.Viscosity.CEta
		}
		r.BrakePower = r.HydraulicPower / eff
	}
	return r, nil
}
