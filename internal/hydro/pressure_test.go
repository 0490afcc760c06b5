package hydro

import (
	"math"
	"testing"
)

// Reference case: water, 100 m³/h, 6" schedule 40 (ID 154.051 mm),
// commercial steel, 100 m run.
func waterLine(t *testing.T, solver Solver) (FlowState, PressureDropResult) {
	t.Helper()
	state, err := NewFlowState(100.0/3600, 0.154051, 1000, 0.001)
	if err != nil {
		t.Fatalf("NewFlowState: %v", err)
	}
	fr, err := FrictionFactor(state.Reynolds, 4.57e-5/0.154051, solver)
	if err != nil {
		t.Fatalf("FrictionFactor: %v", err)
	}
	dp, err := PressureDrop(fr, state, 100, 0.154051, 1000, 0, 0)
	if err != nil {
		t.Fatalf("PressureDrop: %v", err)
	}
	return state, dp
}

func TestWaterLinePressureDrop(t *testing.T) {
	_, dp := waterLine(t, SwameeJain)
	if dp.Friction < 12000 || dp.Friction > 13500 {
		t.Errorf("friction drop = %v Pa, want about 12.6 kPa", dp.Friction)
	}
	if dp.Fittings != 0 || dp.Elevation != 0 {
		t.Errorf("unexpected non-friction terms: %+v", dp)
	}

	_, ref := waterLine(t, Colebrook)
	if math.Abs(dp.Total-ref.Total) > 0.01*ref.Total {
		t.Errorf("swamee–jain total %v differs from colebrook %v by more than 1%%", dp.Total, ref.Total)
	}
}

func TestBreakdownAdditive(t *testing.T) {
	state, err := NewFlowState(0.02, 0.1023, 860, 0.0032)
	if err != nil {
		t.Fatalf("NewFlowState: %v", err)
	}
	fr, err := FrictionFactor(state.Reynolds, 4.5e-4, SwameeJain)
	if err != nil {
		t.Fatalf("FrictionFactor: %v", err)
	}
	for _, rise := range []float64{-12.5, 0, 7.3} {
		dp, err := PressureDrop(fr, state, 250, 0.1023, 860, 3.4, rise)
		if err != nil {
			t.Fatalf("PressureDrop: %v", err)
		}
		sum := dp.Friction + dp.Fittings + dp.Elevation
		if math.Abs(sum-dp.Total) > 1e-9*math.Abs(dp.Total) {
			t.Errorf("rise %v: breakdown sum %v != total %v", rise, sum, dp.Total)
		}
		relClose(t, "elevation term", dp.Elevation, 860*Gravity*rise, 1e-12)
	}
}

func TestPerLengthGradient(t *testing.T) {
	_, dp := waterLine(t, SwameeJain)
	relClose(t, "gradient", dp.PerLength(100), (dp.Friction+dp.Fittings)/100, 1e-12)
	if dp.PerLength(0) != 0 {
		t.Errorf("zero length gradient = %v, want 0", dp.PerLength(0))
	}
}

func TestHeadConversions(t *testing.T) {
	relClose(t, "head of 1 bar water", Head(1e5, 1000), 1e5/(1000*Gravity), 1e-12)
	relClose(t, "velocity head at 3 m/s", VelocityHead(3), 9.0/(2*Gravity), 1e-12)
}

func TestPressureDropRejectsBadInputs(t *testing.T) {
	state, _ := NewFlowState(0.02, 0.1, 1000, 0.001)
	fr, _ := FrictionFactor(state.Reynolds, 1e-4, SwameeJain)
	if _, err := PressureDrop(fr, state, -1, 0.1, 1000, 0, 0); err == nil {
		t.Error("negative length accepted")
	}
	if _, err := PressureDrop(fr, state, 10, 0, 1000, 0, 0); err == nil {
		t.Error("zero diameter accepted")
	}
	if _, err := PressureDrop(fr, state, 10, 0.1, 1000, -2, 0); err == nil {
		t.Error("negative fitting K accepted")
	}
}
