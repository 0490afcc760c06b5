package linesize

import (
	"errors"
	"math"
	"testing"

	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
)

func waterInput() LiquidInput {
	return LiquidInput{
		Service:   "liquid-process",
		FlowRate:  units.Q(100, "m3/h"),
		Density:   units.Q(1000, "kg/m3"),
		Viscosity: units.Q(1, "cP"),
		Pipe: PipeInput{
			Nominal:  "6",
			Schedule: "40",
			Material: "commercial-steel",
			Length:   units.Q(100, "m"),
		},
	}
}

func TestValidationAggregatesAllProblems(t *testing.T) {
	in := waterInput()
	in.FlowRate = units.Q(-10, "m3/h")
	in.Viscosity = units.Q(1, "parsecs")
	in.Pipe.Material = "unobtanium"
	res, err := DefaultEngine().Liquid(in)
	if res != nil {
		t.Fatal("invalid input produced a result")
	}
	var ve *validate.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(ve.Problems) != 3 {
		t.Errorf("problems = %d, want 3: %+v", len(ve.Problems), ve.Problems)
	}
}

func TestUnknownServiceRejected(t *testing.T) {
	in := waterInput()
	in.Service = "molten-salt"
	if _, err := DefaultEngine().Liquid(in); err == nil {
		t.Fatal("unknown service accepted")
	}
}

func TestInjectedLimitsWin(t *testing.T) {
	e := DefaultEngine()
	strict := 0.5
	e.Limits = map[string]criteria.Limit{
		"liquid-process": {Service: "liquid-process", Velocity: &strict},
	}
	res, err := e.Liquid(waterInput())
	if err != nil {
		t.Fatalf("Liquid: %v", err)
	}
	var velocityCheck *criteria.Check
	for i := range res.Checks {
		if res.Checks[i].Name == "Velocity" {
			velocityCheck = &res.Checks[i]
		}
	}
	if velocityCheck == nil {
		t.Fatal("no velocity check")
	}
	if velocityCheck.Verdict != criteria.Fail || *velocityCheck.Limit != strict {
		t.Errorf("injected limit not applied: %+v", velocityCheck)
	}
}

func TestGeometryFallbackDiameter(t *testing.T) {
	in := waterInput()
	in.Pipe.Nominal = "7" // no such size
	in.Pipe.Diameter = units.Q(154.051, "mm")
	res, err := DefaultEngine().Liquid(in)
	if err != nil {
		t.Fatalf("Liquid with fallback: %v", err)
	}
	if math.Abs(res.Geometry.InsideDiameter-0.154051) > 1e-9 {
		t.Errorf("fallback diameter = %v", res.Geometry.InsideDiameter)
	}
	if math.Abs(res.Geometry.NPS-6.065) > 1e-3 {
		t.Errorf("fallback size = %v in, want bore in inches", res.Geometry.NPS)
	}
}

func TestGeometryMissWithoutFallback(t *testing.T) {
	in := waterInput()
	in.Pipe.Nominal = "7"
	res, err := DefaultEngine().Liquid(in)
	if res != nil || err == nil {
		t.Fatalf("res=%v err=%v, want validation failure", res, err)
	}
	var ve *validate.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestExplicitRoughnessOverride(t *testing.T) {
	in := waterInput()
	in.Pipe.Material = ""
	in.Pipe.Roughness = units.Q(0.1, "mm")
	res, err := DefaultEngine().Liquid(in)
	if err != nil {
		t.Fatalf("Liquid: %v", err)
	}
	if math.Abs(res.Geometry.Roughness-1e-4) > 1e-12 {
		t.Errorf("roughness override = %v", res.Geometry.Roughness)
	}
}
