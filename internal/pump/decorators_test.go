package pump

import (
	"math"
	"testing"

	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/units"
)

func TestAccelerationHead(t *testing.T) {
	in := systemInput()
	in.Suction.Pipe = line("6", 5)
	base, err := DefaultEngine().Calculate(in)
	if err != nil {
		t.Fatalf("base: %v", err)
	}
	res, err := DefaultEngine().Calculate(in, WithAccelerationHead(Triplex, 300, FluidFactorWater))
	if err != nil {
		t.Fatalf("decorated: %v", err)
	}
	want := 5.0 * res.Suction.Flow.Velocity * 300 * 0.066 / (FluidFactorWater * hydro.Gravity)
	if math.Abs(res.Head.Acceleration-want) > 1e-9*want {
		t.Errorf("acceleration head = %v, want %v", res.Head.Acceleration, want)
	}
	if math.Abs(res.Head.Total-(base.Head.Total+want)) > 1e-9*res.Head.Total {
		t.Errorf("total = %v, base %v + acc %v", res.Head.Total, base.Head.Total, want)
	}
	if math.Abs(res.NPSHa-(base.NPSHa-want)) > 1e-9 {
		t.Errorf("NPSHa = %v, want base %v − acc %v", res.NPSHa, base.NPSHa, want)
	}
	sum := res.Head.Static + res.Head.Pressure + res.Head.Friction + res.Head.Velocity + res.Head.Acceleration
	if math.Abs(sum-res.Head.Total) > 1e-9*math.Abs(res.Head.Total) {
		t.Errorf("breakdown sum %v != total %v", sum, res.Head.Total)
	}
}

func TestAccelerationHeadRequiresSuctionLine(t *testing.T) {
	in := Input{
		Mode:          ModeFlangeRating,
		FlowRate:      units.Q(100, "m3/h"),
		Density:       units.Q(1000, "kg/m3"),
		Viscosity:     units.Q(1, "cP"),
		VaporPressure: units.Q(2340, "Pa"),
		Suction:       Side{Pressure: units.Q(2, "bar")},
		Discharge:     Side{Pressure: units.Q(8, "bar")},
	}
	if _, err := DefaultEngine().Calculate(in, WithAccelerationHead(Triplex, 300, FluidFactorWater)); err == nil {
		t.Fatal("flange rating accepted an acceleration head")
	}
	if _, err := DefaultEngine().Calculate(systemInput(), WithAccelerationHead("octuplex", 300, 1.5)); err == nil {
		t.Fatal("unknown plunger arrangement accepted")
	}
}

func TestViscosityCorrectionViscousOil(t *testing.T) {
	in := Input{
		Mode:          ModeFlangeRating,
		FlowRate:      units.Q(50, "m3/h"),
		Density:       units.Q(800, "kg/m3"),
		Viscosity:     units.Q(160, "cP"), // 200 cSt
		VaporPressure: units.Q(100, "Pa"),
		Efficiency:    0.65,
		Suction:       Side{Pressure: units.Q(2, "bar")},
		Discharge:     Side{Pressure: units.Q(6, "bar")},
	}
	res, err := DefaultEngine().Calculate(in, WithViscosityCorrection(1450))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	corr := res.Viscosity
	if corr == nil {
		t.Fatal("no correction attached")
	}
	if corr.B < 10 || corr.B > 12.5 {
		t.Errorf("B = %v, want about 11", corr.B)
	}
	if corr.CH < 0.78 || corr.CH > 0.87 || corr.CQ != corr.CH {
		t.Errorf("CH = %v CQ = %v", corr.CH, corr.CQ)
	}
	if corr.CEta < 0.44 || corr.CEta > 0.56 {
		t.Errorf("CEta = %v, want about 0.5", corr.CEta)
	}
	if math.Abs(corr.WaterHead-res.Head.Total/corr.CH) > 1e-9 {
		t.Errorf("water head = %v", corr.WaterHead)
	}
	if corr.WaterHead <= res.Head.Total {
		t.Error("water-equivalent head must exceed the viscous duty")
	}
	wantBrake := res.HydraulicPower / (0.65 * corr.CEta)
	if math.Abs(res.BrakePower-wantBrake) > 1e-9*wantBrake {
		t.Errorf("brake power = %v, want %v", res.BrakePower, wantBrake)
	}
}

func TestViscosityCorrectionWaterIsIdentity(t *testing.T) {
	in := Input{
		Mode:          ModeFlangeRating,
		FlowRate:      units.Q(50, "m3/h"),
		Density:       units.Q(1000, "kg/m3"),
		Viscosity:     units.Q(1, "cP"),
		VaporPressure: units.Q(2340, "Pa"),
		Suction:       Side{Pressure: units.Q(2, "bar")},
		Discharge:     Side{Pressure: units.Q(6, "bar")},
	}
	res, err := DefaultEngine().Calculate(in, WithViscosityCorrection(1450))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	corr := res.Viscosity
	if corr == nil || corr.B > 1 {
		t.Fatalf("correction = %+v", corr)
	}
	if corr.CQ != 1 || corr.CH != 1 || corr.CEta != 1 {
		t.Errorf("thin fluid must be uncorrected: %+v", corr)
	}
}
