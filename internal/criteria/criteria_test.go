package criteria

import (
	"math"
	"strings"
	"testing"
)

func TestCompareAroundLimit(t *testing.T) {
	limit := 1.2
	eps := 1e-9
	if c := Compare("Velocity", limit+eps, &limit, "m/s"); c.Verdict != Fail {
		t.Errorf("value just over limit: verdict %v, want %v", c.Verdict, Fail)
	}
	if c := Compare("Velocity", limit-eps, &limit, "m/s"); c.Verdict != Pass {
		t.Errorf("value just under limit: verdict %v, want %v", c.Verdict, Pass)
	}
	if c := Compare("Velocity", limit, &limit, "m/s"); c.Verdict != Pass {
		t.Errorf("value equal to limit: verdict %v, want %v", c.Verdict, Pass)
	}
	if c := Compare("Velocity", 1e12, nil, "m/s"); c.Verdict != NotApplicable {
		t.Errorf("nil limit: verdict %v, want %v", c.Verdict, NotApplicable)
	}
}

func TestCompareMin(t *testing.T) {
	floor := 0.6
	if c := CompareMin("NPSH margin", 0.3, &floor, "m"); c.Verdict != Fail {
		t.Errorf("margin below floor: verdict %v", c.Verdict)
	}
	if c := CompareMin("NPSH margin", 0.9, &floor, "m"); c.Verdict != Pass {
		t.Errorf("margin above floor: verdict %v", c.Verdict)
	}
	c := CompareMin("NPSH margin", 0.3, &floor, "m")
	w, ok := c.Warning()
	if !ok || w != "NPSH margin below minimum: 0.3 < 0.6 m" {
		t.Errorf("floor warning = %q (%v)", w, ok)
	}
}

func TestWarningFormat(t *testing.T) {
	limit := 1.2
	c := Compare("Velocity", 1.3, &limit, "m/s")
	w, ok := c.Warning()
	if !ok {
		t.Fatal("failed check produced no warning")
	}
	if w != "Velocity exceeds limit: 1.3 > 1.2 m/s" {
		t.Errorf("warning = %q", w)
	}

	mach := 0.3
	c = Compare("Mach number", 0.351234, &mach, "")
	w, _ = c.Warning()
	if !strings.Contains(w, "0.3512 > 0.3") || strings.HasSuffix(w, " ") {
		t.Errorf("dimensionless warning = %q", w)
	}

	if _, ok := Compare("Velocity", 1.0, &limit, "m/s").Warning(); ok {
		t.Error("passing check produced a warning")
	}
}

func TestBandSelection(t *testing.T) {
	bands := VelocityBands{
		Size2:      f(1.5),
		Size3to6:   f(1.2),
		Size8to12:  f(2.7),
		Size14to18: f(3.0),
		Size20up:   f(3.6),
	}
	cases := []struct {
		nps  float64
		want string
	}{
		{0.5, "size2"},
		{2, "size2"},
		{2.5, "size3to6"},
		{6, "size3to6"}, // inclusive upper bound, smaller band wins
		{6.001, "size8to12"},
		{12, "size8to12"},
		{14, "size14to18"},
		{18, "size14to18"},
		{20, "size20up"},
		{36, "size20up"},
	}
	for _, c := range cases {
		name, _ := bands.ForNominal(c.nps)
		if name != c.want {
			t.Errorf("ForNominal(%v) = %q, want %q", c.nps, name, c.want)
		}
	}
}

func TestEvaluateLiquidService(t *testing.T) {
	limits := Limit{
		Service:        "liquid",
		LiquidVelocity: &VelocityBands{Size3to6: f(1.2)},
	}
	v := 1.3
	checks, warnings := Evaluate(limits, Measured{Velocity: &v, NPS: 6})
	if len(checks) != 1 {
		t.Fatalf("checks = %d, want 1", len(checks))
	}
	c := checks[0]
	if c.Band != "size3to6" || c.Verdict != Fail {
		t.Errorf("check = %+v", c)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "1.3") || !strings.Contains(warnings[0], "1.2") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestEvaluateSkipsUnmeasured(t *testing.T) {
	limits, ok := Service("gas-process")
	if !ok {
		t.Fatal("gas-process service missing")
	}
	v, mom := 12.0, 3000.0
	checks, warnings := Evaluate(limits, Measured{Velocity: &v, Momentum: &mom})
	if len(checks) != 2 {
		t.Fatalf("checks = %d, want velocity and momentum only", len(checks))
	}
	for _, c := range checks {
		if c.Verdict != Pass {
			t.Errorf("%s: verdict %v", c.Name, c.Verdict)
		}
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestEvaluateNotApplicableWithoutLimit(t *testing.T) {
	mach := 0.9
	checks, warnings := Evaluate(Limit{Service: "bare"}, Measured{Mach: &mach})
	if len(checks) != 1 || checks[0].Verdict != NotApplicable {
		t.Fatalf("checks = %+v", checks)
	}
	if len(warnings) != 0 {
		t.Errorf("not-applicable check must not warn: %v", warnings)
	}
}

func TestErosionalVelocity(t *testing.T) {
	got := ErosionalVelocity(CFactorContinuous, 800)
	want := 122.0 / math.Sqrt(800)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ErosionalVelocity = %v, want %v", got, want)
	}
	if ErosionalVelocity(CFactorContinuous, 0) != 0 {
		t.Error("zero density must yield zero limit")
	}
}

func TestBuiltinServices(t *testing.T) {
	names := Services()
	if len(names) == 0 {
		t.Fatal("no built-in services")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("service list not sorted at %q", names[i])
		}
	}
	if _, ok := Service("liquid-process"); !ok {
		t.Error("liquid-process service missing")
	}
	if _, ok := Service("no-such-service"); ok {
		t.Error("unknown service resolved")
	}
}
