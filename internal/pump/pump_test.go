package pump

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
)

func line(nominal string, lengthM float64) linesize.PipeInput {
	return linesize.PipeInput{
		Nominal:  nominal,
		Schedule: "40",
		Material: "commercial-steel",
		Length:   units.Q(lengthM, "m"),
	}
}

func systemInput() Input {
	return Input{
		Mode:          ModeSystemSizing,
		FlowRate:      units.Q(100, "m3/h"),
		Density:       units.Q(1000, "kg/m3"),
		Viscosity:     units.Q(1, "cP"),
		VaporPressure: units.Q(2340, "Pa"),
		Efficiency:    0.7,
		Suction: Side{
			Pressure:  units.Q(101325, "Pa"),
			Elevation: units.Q(2, "m"),
			Pipe:      line("6", 10),
		},
		Discharge: Side{
			Pressure:  units.Q(301325, "Pa"),
			Elevation: units.Q(10, "m"),
			Pipe:      line("4", 150),
		},
	}
}

func TestSystemSizingHeadComposition(t *testing.T) {
	res, err := DefaultEngine().Calculate(systemInput())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.Suction == nil || res.Discharge == nil {
		t.Fatal("missing side results")
	}
	h := res.Head
	if math.Abs(h.Static-8) > 1e-9 {
		t.Errorf("static head = %v, want 8", h.Static)
	}
	wantPressure := hydro.Head(2e5, 1000)
	if math.Abs(h.Pressure-wantPressure) > 1e-9 {
		t.Errorf("pressure head = %v, want %v", h.Pressure, wantPressure)
	}
	wantFriction := res.Suction.FrictionHead + res.Discharge.FrictionHead
	if h.Friction <= 0 || math.Abs(h.Friction-wantFriction) > 1e-9 {
		t.Errorf("friction head = %v, want %v", h.Friction, wantFriction)
	}
	wantVelocity := hydro.VelocityHead(res.Discharge.Flow.Velocity) - hydro.VelocityHead(res.Suction.Flow.Velocity)
	if math.Abs(h.Velocity-wantVelocity) > 1e-9 {
		t.Errorf("velocity head = %v, want %v", h.Velocity, wantVelocity)
	}
	sum := h.Static + h.Pressure + h.Friction + h.Velocity + h.Acceleration
	if math.Abs(sum-h.Total) > 1e-9*math.Abs(h.Total) {
		t.Errorf("breakdown sum %v != total %v", sum, h.Total)
	}

	// The 4" discharge runs much faster than the 6" suction.
	if res.Discharge.Flow.Velocity <= res.Suction.Flow.Velocity {
		t.Errorf("velocities: discharge %v, suction %v", res.Discharge.Flow.Velocity, res.Suction.Flow.Velocity)
	}

	wantHydraulic := 1000 * hydro.Gravity * (100.0 / 3600) * h.Total
	if math.Abs(res.HydraulicPower-wantHydraulic) > 1e-9*wantHydraulic {
		t.Errorf("hydraulic power = %v, want %v", res.HydraulicPower, wantHydraulic)
	}
	if math.Abs(res.BrakePower-wantHydraulic/0.7) > 1e-9*wantHydraulic {
		t.Errorf("brake power = %v, want %v", res.BrakePower, wantHydraulic/0.7)
	}
}

func TestNPSHaAtmosphericSuction(t *testing.T) {
	in := systemInput()
	in.Suction.Elevation = units.Q(3, "m")
	in.Suction.Pipe = line("6", 38.9) // about 0.5 m of friction at 100 m³/h
	in.NPSHRequired = units.Q(4, "m")
	res, err := DefaultEngine().Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if math.Abs(res.Suction.FrictionHead-0.5) > 0.02 {
		t.Fatalf("suction friction head = %v, want about 0.5", res.Suction.FrictionHead)
	}
	// (101325−2340)/(ρg) + 3 − 0.5 ≈ 12.59 m
	if res.NPSHa < 12.5 || res.NPSHa > 12.7 {
		t.Errorf("NPSHa = %v, want about 12.59", res.NPSHa)
	}
	exact := hydro.Head(101325-2340, 1000) + 3 - res.Suction.FrictionHead
	if math.Abs(res.NPSHa-exact) > 1e-9 {
		t.Errorf("NPSHa = %v, composition gives %v", res.NPSHa, exact)
	}
	if res.NPSHMargin == nil || math.Abs(*res.NPSHMargin-(res.NPSHa-4)) > 1e-9 {
		t.Errorf("NPSH margin = %v", res.NPSHMargin)
	}
	for _, c := range res.Checks {
		if c.Name == "NPSH margin" && c.Verdict != criteria.Pass {
			t.Errorf("margin check = %+v", c)
		}
	}
}

func TestNPSHMarginFailure(t *testing.T) {
	in := systemInput()
	in.NPSHRequired = units.Q(30, "m")
	res, err := DefaultEngine().Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.HasPrefix(w, "NPSH margin below minimum:") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want NPSH margin failure", res.Warnings)
	}
}

func TestFlangeRating(t *testing.T) {
	in := Input{
		Mode:          ModeFlangeRating,
		FlowRate:      units.Q(100, "m3/h"),
		Density:       units.Q(1000, "kg/m3"),
		Viscosity:     units.Q(1, "cP"),
		VaporPressure: units.Q(2340, "Pa"),
		Suction: Side{
			Pressure: units.Q(2, "bar"),
			Pipe:     linesize.PipeInput{Nominal: "6", Schedule: "40"},
		},
		Discharge: Side{
			Pressure:  units.Q(8, "bar"),
			Elevation: units.Q(0.5, "m"),
			Pipe:      linesize.PipeInput{Nominal: "4", Schedule: "40"},
		},
	}
	res, err := DefaultEngine().Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.Head.Friction != 0 {
		t.Errorf("flange rating has a friction term: %v", res.Head.Friction)
	}
	if math.Abs(res.Head.Pressure-hydro.Head(6e5, 1000)) > 1e-9 {
		t.Errorf("pressure head = %v", res.Head.Pressure)
	}
	if math.Abs(res.Head.Static-0.5) > 1e-9 {
		t.Errorf("static head = %v", res.Head.Static)
	}
	if res.Head.Velocity <= 0 {
		t.Errorf("velocity head difference = %v, want positive for 6\"→4\"", res.Head.Velocity)
	}
	// NPSHa at the gauge includes the suction velocity head.
	want := hydro.Head(2e5-2340, 1000) + hydro.VelocityHead(res.Suction.Flow.Velocity)
	if math.Abs(res.NPSHa-want) > 1e-9 {
		t.Errorf("NPSHa = %v, want %v", res.NPSHa, want)
	}
	if res.Suction.Drop.Total != 0 {
		t.Errorf("flange rating computed a line drop: %+v", res.Suction.Drop)
	}
}

func TestFlangeRatingWithoutBores(t *testing.T) {
	in := Input{
		Mode:          ModeFlangeRating,
		FlowRate:      units.Q(100, "m3/h"),
		Density:       units.Q(1000, "kg/m3"),
		Viscosity:     units.Q(1, "cP"),
		VaporPressure: units.Q(2340, "Pa"),
		Suction:       Side{Pressure: units.Q(2, "bar")},
		Discharge:     Side{Pressure: units.Q(8, "bar")},
	}
	res, err := DefaultEngine().Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.Suction != nil || res.Discharge != nil {
		t.Errorf("side results without bores: %v %v", res.Suction, res.Discharge)
	}
	if res.Head.Velocity != 0 {
		t.Errorf("velocity head without bores = %v", res.Head.Velocity)
	}
}

func TestValidationCoversBothSides(t *testing.T) {
	in := systemInput()
	in.FlowRate = units.Q(-1, "m3/h")
	in.Suction.Pressure = units.Q(0, "Pa")
	in.Discharge.Pipe.Length = units.Q(-5, "m")
	res, err := DefaultEngine().Calculate(in)
	if res != nil {
		t.Fatal("invalid input produced a result")
	}
	var ve *validate.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	fields := map[string]bool{}
	for _, p := range ve.Problems {
		fields[p.Field] = true
	}
	for _, want := range []string{"flow_rate", "suction.pressure", "discharge.length"} {
		if !fields[want] {
			t.Errorf("missing problem for %q in %v", want, ve.Problems)
		}
	}
}

func TestSuctionVelocityCheckUsesBands(t *testing.T) {
	res, err := DefaultEngine().Calculate(systemInput())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	var found bool
	for _, c := range res.Checks {
		if c.Name == "Suction velocity" {
			found = true
			if c.Band != "size3to6" {
				t.Errorf("band = %q, want size3to6", c.Band)
			}
			// 1.49 m/s against the 1.2 m/s suction band limit.
			if c.Verdict != criteria.Fail {
				t.Errorf("verdict = %v, want %v", c.Verdict, criteria.Fail)
			}
		}
	}
	if !found {
		t.Error("no suction velocity check emitted")
	}
}
