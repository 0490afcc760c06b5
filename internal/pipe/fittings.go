package pipe

import "sort"

// KTable maps fitting keys to dimensionless excess-head loss
// coefficients.
type KTable map[string]float64

// FittingCount pairs a fitting key with how many of it the line carries.
type FittingCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// K returns the loss coefficient for a single fitting.
func (t KTable) K(fitting string) (float64, error) {
	k, ok := t[fitting]
	if !ok {
		return 0, &UnknownGeometryError{Table: "fitting", Key: fitting}
	}
	return k, nil
}

// TotalK sums the loss coefficients over a fitting schedule. A zero or
// negative count contributes nothing; an unknown fitting key fails the
// whole sum.
func (t KTable) TotalK(fittings []FittingCount) (float64, error) {
	var total float64
	for _, f := range fittings {
		if f.Count <= 0 {
			continue
		}
		k, err := t.K(f.Type)
		if err != nil {
			return 0, err
		}
		total += float64(f.Count) * k
	}
	return total, nil
}

// Fittings lists the registered fitting keys in lexical order.
func (t KTable) Fittings() []string {
	out := make([]string, 0, len(t))
	for f := range t {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// DefaultFittings returns a copy of the built-in loss coefficient table.
// Values are the turbulent-flow coefficients from Crane TP-410 for
// screwed and flanged steel fittings; gate and ball valves are fully
// open.
func DefaultFittings() KTable {
	out := make(KTable, len(defaultFittings))
	for name, k := range defaultFittings {
		out[name] = k
	}
	return out
}

var defaultFittings = KTable{
	"elbow-90-lr":       0.45,
	"elbow-90-std":      0.75,
	"elbow-45":          0.35,
	"tee-through":       0.40,
	"tee-branch":        1.00,
	"gate-valve":        0.17,
	"globe-valve":       6.00,
	"ball-valve":        0.05,
	"butterfly-valve":   0.60,
	"check-valve-swing": 2.00,
	"check-valve-lift":  10.0,
	"strainer":          1.30,
	"entrance-sharp":    0.50,
	"entrance-rounded":  0.05,
	"exit":              1.00,
	"reducer":           0.30,
	"expander":          0.60,
}
