// Package exchanger sizes shell-and-tube exchanger internals: tube-count
// estimation for a given shell bore, bundle and shell diameter regression,
// and LMTD thermal rating.
package exchanger

import (
	"fmt"
	"math"
)

// Pattern is the tube layout angle.
type Pattern string

const (
	// Triangular packs tubes on a 30 degree grid.
	Triangular Pattern = "triangular"
	// Square packs tubes on a 90 degree grid, leaving cleaning lanes.
	Square Pattern = "square"
)

// Head selects the rear-head construction, which sets the diametrical
// clearance between the outermost tubes and the shell bore.
type Head string

const (
	FixedTubesheet Head = "fixed-tubesheet"
	UTube          Head = "u-tube"
	OutsidePacked  Head = "outside-packed"
	SplitRing      Head = "split-ring"
	PullThrough    Head = "pull-through"
)

// LayoutError reports a layout the constant tables do not cover.
type LayoutError struct {
	Pattern Pattern
	Passes  int
}

func (e *LayoutError) Error() string {
	if e.Passes == 0 {
		return fmt.Sprintf("unknown tube layout %q", e.Pattern)
	}
	return fmt.Sprintf("no tube-count constants for %q layout with %d passes", e.Pattern, e.Passes)
}

// InvalidGeometryError reports a dimension that cannot describe a real
// tube field.
type InvalidGeometryError struct {
	Quantity string
	Value    float64
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid %s: %g", e.Quantity, e.Value)
}

// Tube-count regression Nt = K1·(Db/do)^n1 for the customary 1.25·do
// pitch, per the TEMA layout tables.
type regression struct {
	k1, n1 float64
}

var tubeRegression = map[Pattern]map[int]regression{
	Triangular: {
		1: {0.319, 2.142},
		2: {0.249, 2.207},
		4: {0.175, 2.285},
		6: {0.0743, 2.499},
		8: {0.0365, 2.675},
	},
	Square: {
		1: {0.215, 2.207},
		2: {0.156, 2.291},
		4: {0.158, 2.263},
		6: {0.0402, 2.617},
		8: {0.0331, 2.643},
	},
}

func regressionFor(pattern Pattern, passes int) (regression, error) {
	byPass, ok := tubeRegression[pattern]
	if !ok {
		return regression{}, &LayoutError{Pattern: pattern}
	}
	r, ok := byPass[passes]
	if !ok {
		return regression{}, &LayoutError{Pattern: pattern, Passes: passes}
	}
	return r, nil
}

// layoutConstant is CL, the fraction of a pitch cell a tube occupies.
// Callers vet the pattern through regressionFor first.
func layoutConstant(pattern Pattern) float64 {
	if pattern == Square {
		return 1.0
	}
	return 0.866 // sin 60°
}

// passFraction is CTP, the share of the shell circle left to the tube
// field once pass partition lanes are taken out.
func passFraction(passes int) float64 {
	switch passes {
	case 1:
		return 0.93
	case 2:
		return 0.90
	}
	return 0.85
}

// Patterns lists the supported layout angles.
func Patterns() []Pattern { return []Pattern{Triangular, Square} }

// Heads lists the supported head constructions.
func Heads() []Head {
	return []Head{FixedTubesheet, UTube, OutsidePacked, SplitRing, PullThrough}
}

// PassCounts lists the tube-pass counts the regression tables cover.
func PassCounts() []int { return []int{1, 2, 4, 6, 8} }

// TubeCountEstimate carries both closed-form estimates and the count
// reported to the caller.
type TubeCountEstimate struct {
	AreaCount  float64 `json:"area_count"`
	PalenCount float64 `json:"palen_count"`
	Count      int     `json:"count"`
}

// TubeCount estimates how many tubes of outside diameter tubeOD on the
// given pitch fit a shell of bore shellID, with the bundle assumed to
// fill the shell. Two independent estimates are formed, a pitch-area
// ratio and the Palen correlation, and the count is their arithmetic
// mean rounded down to a whole tube. Lengths are in metres.
func TubeCount(shellID, tubeOD, pitch float64, pattern Pattern, passes int) (TubeCountEstimate, error) {
	var est TubeCountEstimate
	switch {
	case shellID <= 0 || math.IsNaN(shellID) || math.IsInf(shellID, 0):
		return est, &InvalidGeometryError{Quantity: "shell diameter", Value: shellID}
	case tubeOD <= 0 || math.IsNaN(tubeOD) || math.IsInf(tubeOD, 0):
		return est, &InvalidGeometryError{Quantity: "tube diameter", Value: tubeOD}
	case math.IsNaN(pitch) || math.IsInf(pitch, 0) || pitch <= tubeOD:
		return est, &InvalidGeometryError{Quantity: "tube pitch", Value: pitch}
	}
	if _, err := regressionFor(pattern, passes); err != nil {
		return est, err
	}
	cl := layoutConstant(pattern)
	ctp := passFraction(passes)
	ratio := shellID / pitch
	est.AreaCount = ctp * (math.Pi / 4) * ratio * ratio / cl
	est.PalenCount = ctp * (0.78 / cl) * ratio * ratio
	est.Count = int((est.AreaCount + est.PalenCount) / 2)
	return est, nil
}

// BundleDiameter inverts the tube-count regression: the envelope
// diameter a given number of tubes needs. The regression constants
// assume a 1.25·do pitch.
func BundleDiameter(tubeOD float64, count int, pattern Pattern, passes int) (float64, error) {
	if tubeOD <= 0 || math.IsNaN(tubeOD) || math.IsInf(tubeOD, 0) {
		return 0, &InvalidGeometryError{Quantity: "tube diameter", Value: tubeOD}
	}
	if count <= 0 {
		return 0, &InvalidGeometryError{Quantity: "tube count", Value: float64(count)}
	}
	r, err := regressionFor(pattern, passes)
	if err != nil {
		return 0, err
	}
	return tubeOD * math.Pow(float64(count)/r.k1, 1/r.n1), nil
}

// BundleClearance is the diametrical shell-to-bundle gap for a head
// construction, linearized from the TEMA clearance chart. Both the
// bundle diameter and the clearance are in metres.
func BundleClearance(head Head, bundle float64) (float64, error) {
	if bundle <= 0 || math.IsNaN(bundle) || math.IsInf(bundle, 0) {
		return 0, &InvalidGeometryError{Quantity: "bundle diameter", Value: bundle}
	}
	switch head {
	case FixedTubesheet, UTube:
		return 0.010 + 0.006*bundle, nil
	case OutsidePacked:
		return 0.038, nil
	case SplitRing:
		return 0.050 + 0.016*bundle, nil
	case PullThrough:
		return 0.088 + 0.008*bundle, nil
	}
	return 0, fmt.Errorf("unknown head construction %q", head)
}

// ShellDiameter sizes the shell bore holding a tube count: the
// regression bundle envelope plus the head-construction clearance.
func ShellDiameter(tubeOD float64, count int, pattern Pattern, passes int, head Head) (float64, error) {
	db, err := BundleDiameter(tubeOD, count, pattern, passes)
	if err != nil {
		return 0, err
	}
	c, err := BundleClearance(head, db)
	if err != nil {
		return 0, err
	}
	return db + c, nil
}
