// Package criteria grades computed line and pump quantities against
// service-specific limit tables and produces the verdicts and warning
// strings attached to a calculation result. Limits are optional by
// design: an absent limit yields a NotApplicable verdict, never a
// silent pass.
package criteria

import (
	"fmt"
	"strings"
)

// Verdict is the outcome of a single criterion check.
type Verdict string

const (
	Pass          Verdict = "pass"
	Fail          Verdict = "fail"
	NotApplicable Verdict = "not-applicable"
)

// Check is one graded criterion. Limit is nil when the service table
// defines no limit for it. Band names the size band a piecewise limit
// was taken from, empty otherwise.
type Check struct {
	Name    string   `json:"name"`
	Band    string   `json:"band,omitempty"`
	Value   float64  `json:"value"`
	Limit   *float64 `json:"limit,omitempty"`
	Unit    string   `json:"unit,omitempty"`
	Verdict Verdict  `json:"verdict"`

	floor bool
}

// Compare grades a ceiling-type criterion: the check fails when the
// value exceeds the limit.
func Compare(name string, value float64, limit *float64, unit string) Check {
	c := Check{Name: name, Value: value, Limit: limit, Unit: unit, Verdict: NotApplicable}
	if limit != nil {
		if value > *limit {
			c.Verdict = Fail
		} else {
			c.Verdict = Pass
		}
	}
	return c
}

// CompareMin grades a floor-type criterion: the check fails when the
// value drops below the limit. Used for NPSH margin.
func CompareMin(name string, value float64, limit *float64, unit string) Check {
	c := Check{Name: name, Value: value, Limit: limit, Unit: unit, Verdict: NotApplicable, floor: true}
	if limit != nil {
		if value < *limit {
			c.Verdict = Fail
		} else {
			c.Verdict = Pass
		}
	}
	return c
}

// Warning renders the display string for a failed check. The second
// return is false for passing or not-applicable checks.
func (c Check) Warning() (string, bool) {
	if c.Verdict != Fail || c.Limit == nil {
		return "", false
	}
	if c.floor {
		return strings.TrimSpace(fmt.Sprintf("%s below minimum: %.4g < %.4g %s", c.Name, c.Value, *c.Limit, c.Unit)), true
	}
	return strings.TrimSpace(fmt.Sprintf("%s exceeds limit: %.4g > %.4g %s", c.Name, c.Value, *c.Limit, c.Unit)), true
}

// Warnings collects the warning strings of every failed check, in check
// order.
func Warnings(checks []Check) []string {
	var out []string
	for _, c := range checks {
		if w, ok := c.Warning(); ok {
			out = append(out, w)
		}
	}
	return out
}

// VelocityBands is a liquid velocity limit in m/s, piecewise by nominal
// pipe size. Band edges are inclusive upper bounds on the nominal size
// in inches; the smallest matching band wins.
type VelocityBands struct {
	Size2      *float64 `json:"size2,omitempty"`    // up to 2"
	Size3to6   *float64 `json:"size3to6,omitempty"` // over 2" up to 6"
	Size8to12  *float64 `json:"size8to12,omitempty"`
	Size14to18 *float64 `json:"size14to18,omitempty"`
	Size20up   *float64 `json:"size20up,omitempty"`
}

// ForNominal selects the band for a nominal size in inches and returns
// its name with the limit, which may be nil when the band has none.
func (b VelocityBands) ForNominal(nps float64) (string, *float64) {
	switch {
	case nps <= 2:
		return "size2", b.Size2
	case nps <= 6:
		return "size3to6", b.Size3to6
	case nps <= 12:
		return "size8to12", b.Size8to12
	case nps <= 18:
		return "size14to18", b.Size14to18
	default:
		return "size20up", b.Size20up
	}
}

// Limit is the limit set of one service class. Every field is optional;
// LiquidVelocity takes precedence over the flat Velocity limit when both
// are present.
type Limit struct {
	Service              string         `json:"service"`
	Velocity             *float64       `json:"velocity,omitempty"`              // m/s
	LiquidVelocity       *VelocityBands `json:"liquid_velocity,omitempty"`       // m/s by size band
	Momentum             *float64       `json:"momentum,omitempty"`              // ρV², Pa
	Mach                 *float64       `json:"mach,omitempty"`                  // dimensionless
	PressureGradient     *float64       `json:"pressure_gradient,omitempty"`     // kPa/km
	CFactor              *float64       `json:"c_factor,omitempty"`              // API 14E erosional constant, SI
	NPSHMargin           *float64       `json:"npsh_margin,omitempty"`           // m
	PressureRatio        *float64       `json:"pressure_ratio,omitempty"`        // per compression stage
	DischargeTemperature *float64       `json:"discharge_temperature,omitempty"` // K
}

// Measured is the set of quantities a calculator produced for grading.
// A nil field means the quantity was not computed and yields no check at
// all, as opposed to a computed value with no limit, which yields a
// NotApplicable check.
type Measured struct {
	Velocity         *float64
	Momentum         *float64
	Mach             *float64
	PressureGradient *float64
	NPS              float64 // nominal size in inches, selects the liquid band
}

// Evaluate grades every measured quantity against the service limits and
// returns the checks with their collected warnings.
func Evaluate(limits Limit, m Measured) ([]Check, []string) {
	var checks []Check
	if m.Velocity != nil {
		if limits.LiquidVelocity != nil {
			band, lim := limits.LiquidVelocity.ForNominal(m.NPS)
			c := Compare("Velocity", *m.Velocity, lim, "m/s")
			c.Band = band
			checks = append(checks, c)
		} else {
			checks = append(checks, Compare("Velocity", *m.Velocity, limits.Velocity, "m/s"))
		}
	}
	if m.Momentum != nil {
		checks = append(checks, Compare("Momentum (ρV²)", *m.Momentum, limits.Momentum, "Pa"))
	}
	if m.Mach != nil {
		checks = append(checks, Compare("Mach number", *m.Mach, limits.Mach, ""))
	}
	if m.PressureGradient != nil {
		checks = append(checks, Compare("Pressure gradient", *m.PressureGradient, limits.PressureGradient, "kPa/km"))
	}
	return checks, Warnings(checks)
}
