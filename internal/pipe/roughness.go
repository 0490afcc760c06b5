package pipe

import "sort"

// RoughnessTable maps material keys to absolute roughness in meters.
type RoughnessTable map[string]float64

// Lookup returns the absolute roughness for a material key.
func (t RoughnessTable) Lookup(material string) (float64, error) {
	eps, ok := t[material]
	if !ok {
		return 0, &UnknownGeometryError{Table: "roughness", Key: material}
	}
	return eps, nil
}

// Materials lists the registered material keys in lexical order.
func (t RoughnessTable) Materials() []string {
	out := make([]string, 0, len(t))
	for m := range t {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// DefaultRoughness returns a copy of the built-in absolute roughness
// table. Values follow the Crane TP-410 surface data; drawn tubing
// doubles for copper and stainless heat-exchanger tube.
func DefaultRoughness() RoughnessTable {
	out := make(RoughnessTable, len(defaultRoughness))
	for name, eps := range defaultRoughness {
		out[name] = eps
	}
	return out
}

var defaultRoughness = RoughnessTable{
	"commercial-steel": 4.57e-5,
	"drawn-tubing":     1.5e-6,
	"stainless-steel":  1.5e-5,
	"galvanized-iron":  1.52e-4,
	"cast-iron":        2.59e-4,
	"ductile-iron":     1.22e-4,
	"pvc":              1.5e-6,
	"hdpe":             1.5e-6,
	"frp":              5.0e-6,
	"concrete":         1.2e-3,
	"riveted-steel":    1.83e-3,
}
