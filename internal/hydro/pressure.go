package hydro

// Gravity is standard gravitational acceleration in m/s².
const Gravity = 9.80665

// PressureDropResult itemizes the pressure change over a line segment,
// in pascals. Components always sum exactly to Total. Elevation rise is
// a positive contribution; a falling line contributes negative pressure
// demand.
type PressureDropResult struct {
	Friction  float64 `json:"friction_pa"`
	Fittings  float64 `json:"fittings_pa"`
	Elevation float64 `json:"elevation_pa"`
	Total     float64 `json:"total_pa"`
}

// PerLength returns the frictional gradient (pipe plus fittings) in
// Pa/m, which is numerically the same as kPa/km.
func (r PressureDropResult) PerLength(length float64) float64 {
	if length <= 0 {
		return 0
	}
	return (r.Friction + r.Fittings) / length
}

// PressureDrop integrates Darcy–Weisbach pipe friction, fitting losses
// and the hydrostatic elevation term over one segment:
//
//	ΔP = f·(L/D)·(ρV²/2) + ΣK·(ρV²/2) + ρ·g·Δz
func PressureDrop(fr FrictionResult, state FlowState, length, diameter, density, totalK, elevationRise float64) (PressureDropResult, error) {
	if err := nonNegative("length", length); err != nil {
		return PressureDropResult{}, err
	}
	if err := positive("diameter", diameter); err != nil {
		return PressureDropResult{}, err
	}
	if err := positive("density", density); err != nil {
		return PressureDropResult{}, err
	}
	if err := nonNegative("fitting loss coefficient", totalK); err != nil {
		return PressureDropResult{}, err
	}
	dyn := state.DynamicPressure
	friction := fr.Factor * (length / diameter) * dyn
	fittings := totalK * dyn
	elevation := density * Gravity * elevationRise
	return PressureDropResult{
		Friction:  friction,
		Fittings:  fittings,
		Elevation: elevation,
		Total:     friction + fittings + elevation,
	}, nil
}

// Head converts a pressure difference to meters of fluid column.
func Head(pressure, density float64) float64 {
	return pressure / (density * Gravity)
}

// VelocityHead returns V²/2g in meters.
func VelocityHead(velocity float64) float64 {
	return velocity * velocity / (2 * Gravity)
}
