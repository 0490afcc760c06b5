package exchanger

import (
	"math"

	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
)

// Arrangement is the relative flow direction of the two streams.
type Arrangement string

const (
	CounterCurrent Arrangement = "counter-current"
	CoCurrent      Arrangement = "co-current"
)

// TubeSpec describes the tube field used to turn required area into a
// tube count and a shell bore. WallThickness and Conductivity enable
// the wall conduction term; without them the tubes are treated as thin.
type TubeSpec struct {
	OuterDiameter units.Quantity `json:"outer_diameter"`
	WallThickness units.Quantity `json:"wall_thickness"`
	Conductivity  units.Quantity `json:"conductivity"`
	Length        units.Quantity `json:"length"`
	Pattern       Pattern        `json:"pattern"` // defaults to triangular
	Passes        int            `json:"passes"`  // defaults to 1
	Head          Head           `json:"head"`    // defaults to fixed-tubesheet
}

// RatingInput sizes a shell-and-tube exchanger by the LMTD method.
// Duty may be given directly or computed from the hot stream as
// mass flow × specific heat × temperature drop. Film coefficients are
// inside and outside of the tube wall; foulings are optional.
type RatingInput struct {
	Arrangement      Arrangement    `json:"arrangement"`
	HotInlet         units.Quantity `json:"hot_inlet"`
	HotOutlet        units.Quantity `json:"hot_outlet"`
	ColdInlet        units.Quantity `json:"cold_inlet"`
	ColdOutlet       units.Quantity `json:"cold_outlet"`
	Duty             units.Quantity `json:"duty"`
	HotMassFlow      units.Quantity `json:"hot_mass_flow"`
	HotSpecificHeat  units.Quantity `json:"hot_specific_heat"`
	InsideFilm       units.Quantity `json:"inside_film"`
	OutsideFilm      units.Quantity `json:"outside_film"`
	InsideFouling    units.Quantity `json:"inside_fouling"`
	OutsideFouling   units.Quantity `json:"outside_fouling"`
	CorrectionFactor float64        `json:"correction_factor"` // F, defaults to 1
	Tubes            *TubeSpec      `json:"tubes,omitempty"`
}

// BundleResult is the tube field sized for the required area.
type BundleResult struct {
	TubeCount      int     `json:"tube_count"`
	TubeLength     float64 `json:"tube_length_m"`
	AreaPerTube    float64 `json:"area_per_tube_m2"`
	BundleDiameter float64 `json:"bundle_diameter_m"`
	ShellDiameter  float64 `json:"shell_diameter_m"`
}

// RatingResult reports the LMTD chain. Overall coefficients are
// referenced to the tube outside area; OverSurface is the margin the
// fouling allowances add to the clean surface requirement.
type RatingResult struct {
	Duty           float64       `json:"duty_w"`
	LMTD           float64       `json:"lmtd_k"`
	EffectiveLMTD  float64       `json:"effective_lmtd_k"`
	CleanOverall   float64       `json:"clean_overall_w_m2k"`
	ServiceOverall float64       `json:"service_overall_w_m2k"`
	Area           float64       `json:"area_m2"`
	OverSurface    float64       `json:"over_surface_pct"`
	Bundle         *BundleResult `json:"bundle,omitempty"`
}

type tubeSI struct {
	do, di, wall, kw, length float64
	pattern                  Pattern
	passes                   int
	head                     Head
}

func normalizeTubes(vc *validate.Collector, t TubeSpec) *tubeSI {
	s := &tubeSI{pattern: t.Pattern, passes: t.Passes, head: t.Head}
	if s.pattern == "" {
		s.pattern = Triangular
	}
	if s.passes == 0 {
		s.passes = 1
	}
	if s.head == "" {
		s.head = FixedTubesheet
	}
	if _, err := regressionFor(s.pattern, s.passes); err != nil {
		vc.Addf("layout", "%v", err)
	}
	switch s.head {
	case FixedTubesheet, UTube, OutsidePacked, SplitRing, PullThrough:
	default:
		vc.Addf("head", "unknown head construction %q", t.Head)
	}

	s.do = vc.SI("outer_diameter", t.OuterDiameter, units.LengthSmall)
	vc.Positive("outer_diameter", s.do)
	s.length = vc.SI("length", t.Length, units.Length)
	vc.Positive("length", s.length)
	s.di = s.do
	if !t.WallThickness.IsZero() {
		s.wall = vc.SI("wall_thickness", t.WallThickness, units.LengthSmall)
		vc.Positive("wall_thickness", s.wall)
		if s.do > 0 && s.wall > 0 {
			s.di = s.do - 2*s.wall
			vc.Require(s.di > 0, "wall_thickness", "wall %g m swallows the %g m tube", s.wall, s.do)
		}
		if t.Conductivity.IsZero() {
			vc.Addf("conductivity", "no wall conductivity supplied for the conduction term")
		} else {
			s.kw = vc.SI("conductivity", t.Conductivity, units.ThermalConductivity)
			vc.Positive("conductivity", s.kw)
		}
	}
	return s
}

// Rating runs the LMTD sizing chain: duty, log-mean temperature
// difference for the arrangement, overall coefficients clean and with
// fouling, required outside area, and, when a tube spec is given, the
// tube count and shell bore that carry it.
func Rating(in RatingInput) (*RatingResult, error) {
	var vc validate.Collector

	arr := in.Arrangement
	if arr == "" {
		arr = CounterCurrent
	}
	if arr != CounterCurrent && arr != CoCurrent {
		vc.Addf("arrangement", "unknown arrangement %q", in.Arrangement)
	}

	thIn := vc.SI("hot_inlet", in.HotInlet, units.Temperature)
	vc.Positive("hot_inlet", thIn)
	thOut := vc.SI("hot_outlet", in.HotOutlet, units.Temperature)
	vc.Positive("hot_outlet", thOut)
	tcIn := vc.SI("cold_inlet", in.ColdInlet, units.Temperature)
	vc.Positive("cold_inlet", tcIn)
	tcOut := vc.SI("cold_outlet", in.ColdOutlet, units.Temperature)
	vc.Positive("cold_outlet", tcOut)
	if thIn > 0 && thOut > 0 {
		vc.Require(thIn > thOut, "hot_outlet", "hot stream must cool (%g >= %g K)", thOut, thIn)
	}
	if tcIn > 0 && tcOut > 0 {
		vc.Require(tcOut > tcIn, "cold_outlet", "cold stream must heat (%g <= %g K)", tcOut, tcIn)
	}

	var duty float64
	if !in.Duty.IsZero() {
		duty = vc.SI("duty", in.Duty, units.Power)
		vc.Positive("duty", duty)
	} else {
		m := vc.SI("hot_mass_flow", in.HotMassFlow, units.MassFlow)
		vc.Positive("hot_mass_flow", m)
		cp := vc.SI("hot_specific_heat", in.HotSpecificHeat, units.SpecificHeat)
		vc.Positive("hot_specific_heat", cp)
		duty = m * cp * (thIn - thOut)
	}

	hi := vc.SI("inside_film", in.InsideFilm, units.HeatTransferCoeff)
	vc.Positive("inside_film", hi)
	ho := vc.SI("outside_film", in.OutsideFilm, units.HeatTransferCoeff)
	vc.Positive("outside_film", ho)
	var rfi, rfo float64
	if !in.InsideFouling.IsZero() {
		rfi = vc.SI("inside_fouling", in.InsideFouling, units.FoulingResistance)
		vc.NonNegative("inside_fouling", rfi)
	}
	if !in.OutsideFouling.IsZero() {
		rfo = vc.SI("outside_fouling", in.OutsideFouling, units.FoulingResistance)
		vc.NonNegative("outside_fouling", rfo)
	}

	f := in.CorrectionFactor
	if f == 0 {
		f = 1
	}
	vc.Require(f > 0 && f <= 1, "correction_factor", "must be within (0, 1], got %g", f)

	var tub *tubeSI
	if in.Tubes != nil {
		tub = normalizeTubes(vc.Scoped("tubes"), *in.Tubes)
	}
	if err := vc.Err(); err != nil {
		return nil, err
	}

	var dt1, dt2 float64
	if arr == CoCurrent {
		dt1 = thIn - tcIn
		dt2 = thOut - tcOut
	} else {
		dt1 = thIn - tcOut
		dt2 = thOut - tcIn
	}
	if dt1 <= 0 || dt2 <= 0 {
		vc.Addf("arrangement", "temperature cross: terminal approaches %.4g K and %.4g K must both be positive", dt1, dt2)
		return nil, vc.Err()
	}
	lmtd := dt1
	if math.Abs(dt1-dt2) > 1e-12*math.Max(dt1, dt2) {
		lmtd = (dt1 - dt2) / math.Log(dt1/dt2)
	}

	// Resistances in series referenced to the outside area. Without a
	// tube spec the films and foulings are summed flat.
	ref := 1.0 // do/di
	var wall float64
	if tub != nil {
		ref = tub.do / tub.di
		if tub.wall > 0 {
			wall = tub.do * math.Log(tub.do/tub.di) / (2 * tub.kw)
		}
	}
	clean := 1/ho + wall + ref/hi
	service := clean + rfo + ref*rfi

	res := &RatingResult{
		Duty:           duty,
		LMTD:           lmtd,
		EffectiveLMTD:  f * lmtd,
		CleanOverall:   1 / clean,
		ServiceOverall: 1 / service,
		OverSurface:    (service/clean - 1) * 100,
	}
	res.Area = duty / (res.ServiceOverall * res.EffectiveLMTD)

	if tub != nil {
		perTube := math.Pi * tub.do * tub.length
		count := int(math.Ceil(res.Area / perTube))
		db, err := BundleDiameter(tub.do, count, tub.pattern, tub.passes)
		if err != nil {
			return nil, err
		}
		clr, err := BundleClearance(tub.head, db)
		if err != nil {
			return nil, err
		}
		res.Bundle = &BundleResult{
			TubeCount:      count,
			TubeLength:     tub.length,
			AreaPerTube:    perTube,
			BundleDiameter: db,
			ShellDiameter:  db + clr,
		}
	}
	return res, nil
}
