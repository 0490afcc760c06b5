package criteria

import (
	"math"
	"sort"
)

func f(v float64) *float64 { return &v }

// ErosionalVelocity returns the API RP 14E limit Ve = C/√ρ in m/s, for
// the SI form of the empirical constant and a (mixture) density in
// kg/m³. Returns 0 for a non-positive density; callers validate density
// upstream.
func ErosionalVelocity(c, density float64) float64 {
	if density <= 0 {
		return 0
	}
	return c / math.Sqrt(density)
}

// API RP 14E erosional constants converted to SI (C=100 and C=125 in
// imperial units for continuous and intermittent service).
const (
	CFactorContinuous   = 122.0
	CFactorIntermittent = 152.0
)

// defaultLimits holds the built-in service classes. Velocity bands and
// gradients follow common carbon-steel line sizing practice; gas Mach
// limits are 0.3 for process lines and 0.7 for relief/flare tailpipes.
var defaultLimits = map[string]Limit{
	"liquid-process": {
		Service: "liquid-process",
		LiquidVelocity: &VelocityBands{
			Size2:      f(1.5),
			Size3to6:   f(2.1),
			Size8to12:  f(2.7),
			Size14to18: f(3.0),
			Size20up:   f(3.6),
		},
		PressureGradient: f(90),
	},
	"liquid-suction": {
		Service: "liquid-suction",
		LiquidVelocity: &VelocityBands{
			Size2:      f(0.9),
			Size3to6:   f(1.2),
			Size8to12:  f(1.5),
			Size14to18: f(1.8),
			Size20up:   f(2.1),
		},
		PressureGradient: f(45),
	},
	"gas-process": {
		Service:          "gas-process",
		Velocity:         f(20),
		Momentum:         f(6000),
		Mach:             f(0.3),
		PressureGradient: f(115),
	},
	"gas-flare": {
		Service:  "gas-flare",
		Momentum: f(10000),
		Mach:     f(0.7),
	},
	"two-phase-continuous": {
		Service:  "two-phase-continuous",
		Momentum: f(10000),
		CFactor:  f(CFactorContinuous),
	},
	"two-phase-intermittent": {
		Service:  "two-phase-intermittent",
		Momentum: f(10000),
		CFactor:  f(CFactorIntermittent),
	},
	"pump": {
		Service:    "pump",
		NPSHMargin: f(0.6),
	},
	"compressor": {
		Service:              "compressor",
		PressureRatio:        f(4.0),
		DischargeTemperature: f(448.15), // 175 °C, usual seal/coating ceiling
	},
}

// Service returns the built-in limit set for a service class.
func Service(name string) (Limit, bool) {
	l, ok := defaultLimits[name]
	return l, ok
}

// Defaults returns a fresh map of the built-in service classes, for
// callers that layer overrides on top. Limit pointer fields are shared;
// overriding replaces them rather than mutating through them.
func Defaults() map[string]Limit {
	out := make(map[string]Limit, len(defaultLimits))
	for name, l := range defaultLimits {
		out[name] = l
	}
	return out
}

// Services lists the built-in service classes in lexical order.
func Services() []string {
	out := make([]string, 0, len(defaultLimits))
	for s := range defaultLimits {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
