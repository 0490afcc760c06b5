package pump

import (
	"fmt"
	"math"

	"github.com/pipecalc/pipecalc/internal/hydro"
)

// Context carries the normalized SI inputs decorators may need.
type Context struct {
	FlowRate  float64 // m³/s
	Density   float64 // kg/m³
	Viscosity float64 // Pa·s
}

// Decorator adjusts a computed result between the base head integration
// and grading. Decorators run in the order supplied.
type Decorator func(c Context, r *Result) error

// PlungerConfig identifies the reciprocating pump arrangement for the
// acceleration head term.
type PlungerConfig string

const (
	SimplexDoubleActing PlungerConfig = "simplex-double-acting"
	DuplexDoubleActing  PlungerConfig = "duplex-double-acting"
	Triplex             PlungerConfig = "triplex"
	Quintuplex          PlungerConfig = "quintuplex"
	Septuplex           PlungerConfig = "septuplex"
)

// plungerC is the arrangement constant of the HI acceleration head
// formula; more plungers mean smoother flow and a smaller constant.
var plungerC = map[PlungerConfig]float64{
	SimplexDoubleActing: 0.200,
	DuplexDoubleActing:  0.115,
	Triplex:             0.066,
	Quintuplex:          0.040,
	Septuplex:           0.028,
}

// Fluid factors for the acceleration head formula.
const (
	FluidFactorDeaeratedWater = 1.4
	FluidFactorWater          = 1.5
	FluidFactorHydrocarbon    = 2.0
	FluidFactorCompressible   = 2.5
)

// WithAccelerationHead adds the reciprocating-pump acceleration head
// h = L·V·N·C/(K·g) to the duty and deducts it from NPSHa. L and V are
// the suction line length and velocity, N the pump speed in rpm, C the
// plunger arrangement constant, K the fluid factor. Requires a system
// sizing result with a suction line.
func WithAccelerationHead(config PlungerConfig, speedRPM, fluidFactor float64) Decorator {
	return func(c Context, r *Result) error {
		cc, ok := plungerC[config]
		if !ok {
			return fmt.Errorf("unknown plunger configuration %q", config)
		}
		if speedRPM <= 0 {
			return fmt.Errorf("pump speed must be positive, got %g", speedRPM)
		}
		if fluidFactor <= 0 {
			return fmt.Errorf("fluid factor must be positive, got %g", fluidFactor)
		}
		if r.Mode != ModeSystemSizing || r.Suction == nil || r.Suction.Geometry.Length <= 0 {
			return fmt.Errorf("acceleration head needs a system sizing result with a suction line")
		}
		h := r.Suction.Geometry.Length * r.Suction.Flow.Velocity * speedRPM * cc / (fluidFactor * hydro.Gravity)
		r.Head.Acceleration += h
		r.Head.Total += h
		r.NPSHa -= h
		return nil
	}
}

// ViscosityCorrection carries the HI 9.6.7 correction factors and the
// water-equivalent duty for pump selection.
type ViscosityCorrection struct {
	B         float64 `json:"b"`
	CQ        float64 `json:"cq"`
	CH        float64 `json:"ch"`
	CEta      float64 `json:"ceta"`
	WaterFlow float64 `json:"water_flow_m3s"`
	WaterHead float64 `json:"water_head_m"`
}

// WithViscosityCorrection applies the HI 9.6.7 viscous performance
// correction for rotodynamic pumps. The parameter B is evaluated from
// kinematic viscosity in cSt, flow in m³/h, head in m, and speed in
// rpm; B ≤ 1 leaves the duty uncorrected. The water-equivalent flow and
// head are what the pump must be selected for; CEta derates the brake
// power efficiency.
func WithViscosityCorrection(speedRPM float64) Decorator {
	return func(c Context, r *Result) error {
		if speedRPM <= 0 {
			return fmt.Errorf("pump speed must be positive, got %g", speedRPM)
		}
		if r.Head.Total <= 0 {
			return fmt.Errorf("viscosity correction needs a positive total head, got %g", r.Head.Total)
		}
		nu := c.Viscosity / c.Density * 1e6 // cSt
		q := c.FlowRate * 3600              // m³/h
		b := 16.5 * math.Sqrt(nu) * math.Pow(r.Head.Total, 0.0625) /
			(math.Pow(q, 0.375) * math.Pow(speedRPM, 0.25))
		corr := &ViscosityCorrection{B: b, CQ: 1, CH: 1, CEta: 1}
		if b > 1 {
			lb := math.Log10(b)
			ch := math.Pow(2.71, -0.165*math.Pow(lb, 3.15))
			corr.CQ = ch
			corr.CH = ch
			corr.CEta = math.Pow(b, -0.0547*math.Pow(b, 0.69))
		}
		if b > 40 {
			r.Warnings = append(r.Warnings, fmt.Sprintf(
				"Viscosity parameter B = %.4g is beyond the correction's validated range (1–40)", b))
		}
		corr.WaterFlow = c.FlowRate / corr.CQ
		corr.WaterHead = r.Head.Total / corr.CH
		r.Viscosity = corr
		return nil
	}
}
