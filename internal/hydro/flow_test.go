package hydro

import (
	"errors"
	"math"
	"testing"
)

func relClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol*math.Abs(want) {
		t.Errorf("%s = %.9g, want %.9g (rel tol %g)", name, got, want, tol)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		re   float64
		want Regime
	}{
		{100, Laminar},
		{2299.999, Laminar},
		{2300, Transition},
		{3000, Transition},
		{3999.999, Transition},
		{4000, Turbulent},
		{2.3e5, Turbulent},
	}
	for _, c := range cases {
		if got := Classify(c.re); got != c.want {
			t.Errorf("Classify(%v) = %v, want %v", c.re, got, c.want)
		}
	}
}

func TestNewFlowStateWaterLine(t *testing.T) {
	// 100 m³/h of water through 6" schedule 40.
	s, err := NewFlowState(100.0/3600, 0.154051, 1000, 0.001)
	if err != nil {
		t.Fatalf("NewFlowState: %v", err)
	}
	relClose(t, "velocity", s.Velocity, 1.4903, 1e-3)
	relClose(t, "reynolds", s.Reynolds, 2.2958e5, 1e-3)
	if s.Regime != Turbulent {
		t.Errorf("regime = %v, want %v", s.Regime, Turbulent)
	}
	relClose(t, "dynamic pressure", s.DynamicPressure, 1000*s.Velocity*s.Velocity/2, 1e-12)
	relClose(t, "momentum", s.Momentum(), 2*s.DynamicPressure, 1e-12)
	relClose(t, "flow rate round trip", s.FlowRate, 100.0/3600, 1e-12)
}

func TestFlowStateAt(t *testing.T) {
	s, err := FlowStateAt(3, 0.1, 800, 0.002)
	if err != nil {
		t.Fatalf("FlowStateAt: %v", err)
	}
	relClose(t, "reynolds", s.Reynolds, 800*3*0.1/0.002, 1e-12)
	relClose(t, "flow rate", s.FlowRate, 3*math.Pi/4*0.01, 1e-12)
}

func TestFlowStateRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name                               string
		flow, diameter, density, viscosity float64
	}{
		{"zero flow", 0, 0.1, 1000, 0.001},
		{"negative flow", -1, 0.1, 1000, 0.001},
		{"zero diameter", 0.01, 0, 1000, 0.001},
		{"zero density", 0.01, 0.1, 0, 0.001},
		{"zero viscosity", 0.01, 0.1, 1000, 0},
		{"nan viscosity", 0.01, 0.1, 1000, math.NaN()},
		{"inf flow", math.Inf(1), 0.1, 1000, 0.001},
	}
	for _, c := range cases {
		_, err := NewFlowState(c.flow, c.diameter, c.density, c.viscosity)
		var fe *InvalidFlowError
		if !errors.As(err, &fe) {
			t.Errorf("%s: err = %v, want InvalidFlowError", c.name, err)
		}
	}
}
