package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/units"
)

func TestDefaultsComplete(t *testing.T) {
	s := Defaults()
	if _, err := s.Pipes.Resolve("6", "40"); err != nil {
		t.Errorf("schedule table: %v", err)
	}
	if _, err := s.Roughness.Lookup("commercial-steel"); err != nil {
		t.Errorf("roughness table: %v", err)
	}
	if _, err := s.Fittings.K("gate-valve"); err != nil {
		t.Errorf("fittings table: %v", err)
	}
	for _, svc := range criteria.Services() {
		if _, ok := s.Limits[svc]; !ok {
			t.Errorf("service %q missing from defaults", svc)
		}
	}
}

func TestLoadWithoutOverrides(t *testing.T) {
	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := s.Roughness.Lookup("commercial-steel"); err != nil {
		t.Errorf("defaults not carried: %v", err)
	}
}

func writeOverride(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "roughness.yaml", `
materials:
  hdpe: 1.5e-6
  commercial-steel: 5.0e-5
`)
	writeOverride(t, dir, "fittings.yaml", `
fittings:
  venturi: 0.05
`)
	writeOverride(t, dir, "criteria.yaml", `
services:
  liquid-process:
    pressure_gradient: 200
    liquid_velocity:
      size2: 1.8
  chemical-injection:
    velocity: 1.0
`)

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if eps, _ := s.Roughness.Lookup("hdpe"); eps != 1.5e-6 {
		t.Errorf("hdpe roughness = %v", eps)
	}
	if eps, _ := s.Roughness.Lookup("commercial-steel"); eps != 5.0e-5 {
		t.Errorf("override did not win: %v", eps)
	}
	if _, err := s.Roughness.Lookup("pvc"); err != nil {
		t.Errorf("built-in material dropped: %v", err)
	}
	if k, _ := s.Fittings.K("venturi"); k != 0.05 {
		t.Errorf("venturi K = %v", k)
	}

	lp := s.Limits["liquid-process"]
	if lp.PressureGradient == nil || *lp.PressureGradient != 200 {
		t.Errorf("gradient override = %+v", lp.PressureGradient)
	}
	if lp.LiquidVelocity == nil || *lp.LiquidVelocity.Size2 != 1.8 {
		t.Fatalf("band override = %+v", lp.LiquidVelocity)
	}
	if *lp.LiquidVelocity.Size3to6 != 2.1 {
		t.Errorf("untouched band changed: %v", *lp.LiquidVelocity.Size3to6)
	}
	ci, ok := s.Limits["chemical-injection"]
	if !ok || ci.Velocity == nil || *ci.Velocity != 1.0 {
		t.Errorf("new service = %+v", ci)
	}
	if ci.Service != "chemical-injection" {
		t.Errorf("service name = %q", ci.Service)
	}

	// The compiled-in defaults must not alias the merged snapshot.
	base, _ := criteria.Service("liquid-process")
	if *base.LiquidVelocity.Size2 != 1.5 {
		t.Errorf("built-in band mutated: %v", *base.LiquidVelocity.Size2)
	}
	if *base.PressureGradient != 90 {
		t.Errorf("built-in gradient mutated: %v", *base.PressureGradient)
	}
	if eps, _ := Defaults().Roughness.Lookup("commercial-steel"); eps != 4.57e-5 {
		t.Errorf("built-in roughness mutated: %v", eps)
	}
	if _, err := Defaults().Fittings.K("venturi"); err == nil {
		t.Error("override fitting leaked into the built-ins")
	}
}

func TestLoadedLimitsReachTheEngine(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "criteria.yaml", `
services:
  liquid-process:
    pressure_gradient: 200
`)
	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	in := linesize.LiquidInput{
		Service:   "liquid-process",
		FlowRate:  units.Q(100, "m3/h"),
		Density:   units.Q(1000, "kg/m3"),
		Viscosity: units.Q(1, "cP"),
		Pipe: linesize.PipeInput{
			Nominal:  "6",
			Schedule: "40",
			Material: "commercial-steel",
			Length:   units.Q(100, "m"),
		},
	}
	// About 126 kPa/km: fails the built-in 90 limit, passes the
	// relaxed 200.
	res, err := s.Engine(hydro.SwameeJain).Liquid(in)
	if err != nil {
		t.Fatalf("Liquid: %v", err)
	}
	for _, c := range res.Checks {
		if c.Name == "Pressure gradient" && c.Verdict != criteria.Pass {
			t.Errorf("gradient check = %+v", c)
		}
	}
	res, err = Defaults().Engine(hydro.SwameeJain).Liquid(in)
	if err != nil {
		t.Fatalf("Liquid defaults: %v", err)
	}
	for _, c := range res.Checks {
		if c.Name == "Pressure gradient" && c.Verdict != criteria.Fail {
			t.Errorf("default gradient check = %+v", c)
		}
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "roughness.yaml", "materials: [unclosed\n")
	if _, err := Load(dir); err == nil {
		t.Fatal("malformed file accepted")
	}

	dir = t.TempDir()
	writeOverride(t, dir, "fittings.yaml", `
fittings:
  venturi: not-a-number
`)
	if _, err := Load(dir); err == nil {
		t.Fatal("non-numeric K accepted")
	}
}
