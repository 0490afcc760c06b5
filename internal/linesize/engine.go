// Package linesize implements the line-sizing calculators for liquid,
// gas, and two-phase service. Each calculator is a pure function chain:
// normalize inputs, resolve geometry, derive flow properties, solve the
// friction factor, integrate pressure drop, and grade the result against
// the service criteria. Inputs are collected into a single validation
// error; no partial results are ever returned.
package linesize

import (
	"errors"
	"math"

	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/pipe"
	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
)

// Engine carries the reference tables and solver choice shared by the
// line calculators. Tables are injected so the engine can be exercised
// against synthetic data.
type Engine struct {
	Pipes     pipe.Table
	Roughness pipe.RoughnessTable
	Fittings  pipe.KTable
	Limits    map[string]criteria.Limit
	Solver    hydro.Solver
}

// DefaultEngine wires the built-in reference tables with the default
// turbulent-branch solver.
func DefaultEngine() *Engine {
	return &Engine{
		Pipes:     pipe.Default(),
		Roughness: pipe.DefaultRoughness(),
		Fittings:  pipe.DefaultFittings(),
		Solver:    hydro.SwameeJain,
	}
}

// limitsFor resolves a service class, preferring the engine's injected
// table over the built-in defaults. The empty service name means "no
// criteria requested".
func (e *Engine) limitsFor(service string) (criteria.Limit, bool) {
	if service == "" {
		return criteria.Limit{}, true
	}
	if l, ok := e.Limits[service]; ok {
		return l, true
	}
	return criteria.Service(service)
}

// PipeInput is the pipe selection shared by all line calculators. The
// designation is resolved against the schedule table; when it misses,
// Diameter is the caller-supplied fallback bore. Roughness overrides the
// material lookup when set.
type PipeInput struct {
	Nominal   string              `json:"nominal"`
	Schedule  string              `json:"schedule"`
	Material  string              `json:"material"`
	Diameter  units.Quantity      `json:"diameter"`  // fallback inside diameter
	Roughness units.Quantity      `json:"roughness"` // absolute, overrides material
	Length    units.Quantity      `json:"length"`
	Elevation units.Quantity      `json:"elevation"` // rise along the run, may be negative
	Fittings  []pipe.FittingCount `json:"fittings"`
}

// ResolveGeometry produces the working geometry for a pipe input,
// recording problems instead of failing. On a schedule-table miss the
// fallback diameter is used and the nominal size in inches is
// approximated by the bore for band selection. requireRun demands the
// length and surface data a friction calculation needs; flange-style
// lookups that only want a bore pass false.
func (e *Engine) ResolveGeometry(vc *validate.Collector, in PipeInput, requireRun bool) pipe.Geometry {
	var g pipe.Geometry
	if in.Nominal != "" || in.Schedule != "" {
		resolved, err := e.Pipes.Resolve(in.Nominal, in.Schedule)
		if err == nil {
			g = resolved
		} else {
			var ge *pipe.UnknownGeometryError
			if !errors.As(err, &ge) {
				vc.Addf("pipe", "%v", err)
				return g
			}
			if in.Diameter.IsZero() {
				vc.Addf("pipe", "%v and no fallback diameter supplied", err)
				return g
			}
		}
	}
	if g.InsideDiameter == 0 {
		if in.Diameter.IsZero() {
			vc.Addf("pipe", "no pipe designation or diameter supplied")
			return g
		}
		d := vc.SI("diameter", in.Diameter, units.LengthSmall)
		vc.Positive("diameter", d)
		if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return g
		}
		g = pipe.Geometry{
			NPS:             d / 0.0254,
			InsideDiameter:  d,
			OutsideDiameter: d,
			Area:            math.Pi / 4 * d * d,
		}
	}

	if !in.Roughness.IsZero() {
		g.Roughness = vc.SI("roughness", in.Roughness, units.LengthSmall)
		vc.NonNegative("roughness", g.Roughness)
	} else if in.Material != "" {
		eps, err := e.Roughness.Lookup(in.Material)
		if err != nil {
			vc.Addf("material", "%v", err)
		}
		g.Roughness = eps
	} else if requireRun {
		vc.Addf("material", "no pipe material or roughness supplied")
	}

	if requireRun || !in.Length.IsZero() {
		g.Length = vc.SI("length", in.Length, units.Length)
		vc.Positive("length", g.Length)
	}
	return g
}

// totalK sums the fitting loss coefficients, recording unknown fittings
// as problems.
func (e *Engine) totalK(vc *validate.Collector, fittings []pipe.FittingCount) float64 {
	k, err := e.Fittings.TotalK(fittings)
	if err != nil {
		vc.Addf("fittings", "%v", err)
		return 0
	}
	return k
}

// elevation normalizes the optional elevation rise.
func elevation(vc *validate.Collector, q units.Quantity) float64 {
	if q.IsZero() {
		return 0
	}
	dz := vc.SI("elevation", q, units.Length)
	vc.Finite("elevation", dz)
	return dz
}
