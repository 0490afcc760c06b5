// Package compressor implements the single-stage gas compressor
// estimator: adiabatic or polytropic head, discharge temperature, and
// gas power from a standard volumetric flow.
package compressor

import (
	"math"

	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/fluid"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
)

// Process selects the compression model.
type Process string

const (
	Adiabatic  Process = "adiabatic"
	Polytropic Process = "polytropic"
)

// defaultEfficiency is a typical centrifugal stage efficiency used when
// the caller does not supply one.
const defaultEfficiency = 0.75

// Input is a single-stage compression duty. Gas composition comes from
// MolarMass (kg/kmol) or SpecificGravity relative to air. Z is the
// average compressibility over the stage; Z and SpecificHeatRatio left
// at zero default to 1 and 1.4. Efficiency is adiabatic or polytropic
// depending on Process.
type Input struct {
	Process            Process        `json:"process"`
	StandardFlow       units.Quantity `json:"standard_flow"`
	SuctionPressure    units.Quantity `json:"suction_pressure"`
	DischargePressure  units.Quantity `json:"discharge_pressure"`
	SuctionTemperature units.Quantity `json:"suction_temperature"`
	MolarMass          float64        `json:"molar_mass,omitempty"`
	SpecificGravity    float64        `json:"specific_gravity,omitempty"`
	Z                  float64        `json:"z,omitempty"`
	SpecificHeatRatio  float64        `json:"specific_heat_ratio,omitempty"`
	Efficiency         float64        `json:"efficiency,omitempty"`
}

// Result is a complete compression estimate. Head is the specific work
// in J/kg; HeadMeters is the same head expressed as a fluid column for
// comparison with vendor curves.
type Result struct {
	Process              Process          `json:"process"`
	MolarMass            float64          `json:"molar_mass_kg_kmol"`
	SuctionDensity       float64          `json:"suction_density_kgm3"`
	ActualFlow           float64          `json:"actual_flow_m3s"`
	MassFlow             float64          `json:"mass_flow_kgs"`
	PressureRatio        float64          `json:"pressure_ratio"`
	PolytropicExponent   float64          `json:"polytropic_exponent,omitempty"`
	Head                 float64          `json:"head_jkg"`
	HeadMeters           float64          `json:"head_m"`
	DischargeTemperature float64          `json:"discharge_temperature_k"`
	GasPower             float64          `json:"gas_power_w"`
	Checks               []criteria.Check `json:"checks"`
	Warnings             []string         `json:"warnings"`
}

// Calculate runs the compression estimate.
func Calculate(in Input) (*Result, error) {
	var vc validate.Collector
	qStd := vc.SI("standard_flow", in.StandardFlow, units.FlowRate)
	vc.Positive("standard_flow", qStd)
	p1 := vc.SI("suction_pressure", in.SuctionPressure, units.Pressure)
	vc.Positive("suction_pressure", p1)
	p2 := vc.SI("discharge_pressure", in.DischargePressure, units.Pressure)
	vc.Positive("discharge_pressure", p2)
	t1 := vc.SI("suction_temperature", in.SuctionTemperature, units.Temperature)
	vc.Positive("suction_temperature", t1)
	if p1 > 0 && p2 > 0 {
		vc.Require(p2 > p1, "discharge_pressure", "must exceed suction pressure (%g <= %g Pa)", p2, p1)
	}

	process := in.Process
	if process == "" {
		process = Adiabatic
	}
	if process != Adiabatic && process != Polytropic {
		vc.Addf("process", "unknown process %q", in.Process)
	}
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
	vc.Require(k > 1, "specific_heat_ratio", "must exceed 1, got %g", k)
	eff := in.Efficiency
	if eff == 0 {
		eff = defaultEfficiency
	}
	vc.Require(eff > 0 && eff <= 1, "efficiency", "must be within (0, 1], got %g", eff)
	if err := vc.Err(); err != nil {
		return nil, err
	}

	ratio := p2 / p1
	exp := (k - 1) / k
	rt := z * fluid.UniversalGasConstant / mw * t1

	r := &Result{
		Process:        process,
		MolarMass:      mw,
		SuctionDensity: fluid.Density(p1, t1, mw, z),
		ActualFlow:     fluid.ActualFlow(qStd, p1, t1, z),
		MassFlow:       fluid.StandardDensity(mw) * qStd,
		PressureRatio:  ratio,
	}

	switch process {
	case Polytropic:
		// (n−1)/n = (k−1)/(k·ηp)
		pexp := exp / eff
		r.PolytropicExponent = 1 / (1 - pexp)
		r.Head = rt / pexp * (math.Pow(ratio, pexp) - 1)
		r.DischargeTemperature = t1 * math.Pow(ratio, pexp)
	default:
		r.Head = rt / exp * (math.Pow(ratio, exp) - 1)
		idealRise := t1 * (math.Pow(ratio, exp) - 1)
		r.DischargeTemperature = t1 + idealRise/eff
	}
	r.HeadMeters = r.Head / hydro.Gravity
	r.GasPower = r.MassFlow * r.Head / eff

	limits, _ := criteria.Service("compressor")
	checks := []criteria.Check{
		criteria.Compare("Pressure ratio", ratio, limits.PressureRatio, ""),
		criteria.Compare("Discharge temperature", r.DischargeTemperature, limits.DischargeTemperature, "K"),
	}
	r.Checks = checks
	r.Warnings = criteria.Warnings(checks)
	return r, nil
}
