// Package pipe resolves nominal pipe designations to flow geometry and
// holds the static reference tables the hydraulic engine is keyed by:
// schedule dimensions (ASME B36.10M/B36.19M), material roughness, and
// fitting loss coefficients. Tables are plain immutable values so the
// engine can be exercised against synthetic ones.
package pipe

import (
	"fmt"
	"math"
	"sort"
)

// Geometry is a fully resolved pipe section. Diameters and lengths are in
// meters; Area in m². Roughness and Length are filled by the calculator
// from its own inputs, Resolve leaves them zero.
type Geometry struct {
	Nominal         string  `json:"nominal"`
	NPS             float64 `json:"nps"` // nominal size in inches, used for service band selection
	Schedule        string  `json:"schedule"`
	OutsideDiameter float64 `json:"outside_diameter_m"`
	InsideDiameter  float64 `json:"inside_diameter_m"`
	Area            float64 `json:"area_m2"`
	Roughness       float64 `json:"roughness_m"`
	Length          float64 `json:"length_m"`
}

// UnknownGeometryError reports a reference-table miss. Callers are
// expected to fall back to an explicitly supplied dimension rather than
// assume anything about the missing entry.
type UnknownGeometryError struct {
	Table string // "schedule", "roughness" or "fitting"
	Key   string
}

func (e *UnknownGeometryError) Error() string {
	return fmt.Sprintf("no %s entry for %q", e.Table, e.Key)
}

// SizeEntry is one nominal size with its wall thickness per schedule.
// Dimensions are in inches, as published; conversion happens on resolve.
type SizeEntry struct {
	Nominal string
	NPS     float64
	OD      float64
	Walls   map[string]float64
}

// Table is the (nominal size, schedule) → dimensions lookup.
type Table struct {
	sizes map[string]SizeEntry
}

// NewTable builds a lookup from size entries, copying the wall maps so
// the table owns its data.
func NewTable(entries []SizeEntry) Table {
	sizes := make(map[string]SizeEntry, len(entries))
	for _, e := range entries {
		walls := make(map[string]float64, len(e.Walls))
		for s, w := range e.Walls {
			walls[s] = w
		}
		e.Walls = walls
		sizes[e.Nominal] = e
	}
	return Table{sizes: sizes}
}

// Resolve returns the flow geometry for a (nominal, schedule) pair.
func (t Table) Resolve(nominal, schedule string) (Geometry, error) {
	entry, ok := t.sizes[nominal]
	if !ok {
		return Geometry{}, &UnknownGeometryError{Table: "schedule", Key: nominal}
	}
	wall, ok := entry.Walls[schedule]
	if !ok {
		return Geometry{}, &UnknownGeometryError{Table: "schedule", Key: nominal + " sch " + schedule}
	}
	idIn := entry.OD - 2*wall
	if idIn <= 0 {
		return Geometry{}, &UnknownGeometryError{Table: "schedule", Key: nominal + " sch " + schedule}
	}
	id := idIn * 0.0254
	return Geometry{
		Nominal:         nominal,
		NPS:             entry.NPS,
		Schedule:        schedule,
		OutsideDiameter: entry.OD * 0.0254,
		InsideDiameter:  id,
		Area:            math.Pi / 4 * id * id,
	}, nil
}

// scheduleOrder fixes the presentation order for schedule identifiers:
// numeric schedules ascending, then the weight designations.
var scheduleOrder = []string{"5", "10", "20", "30", "40", "60", "80", "100", "120", "140", "160", "STD", "XS", "XXS"}

// AvailableSchedules lists the schedules defined for a nominal size, in
// presentation order. Availability differs per size; the caller restricts
// its picker to this list but Resolve performs no validation beyond the
// lookup itself.
func (t Table) AvailableSchedules(nominal string) []string {
	entry, ok := t.sizes[nominal]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(entry.Walls))
	for _, s := range scheduleOrder {
		if _, ok := entry.Walls[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Nominals lists the registered nominal sizes, smallest first.
func (t Table) Nominals() []string {
	out := make([]string, 0, len(t.sizes))
	for n := range t.sizes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return t.sizes[out[i]].NPS < t.sizes[out[j]].NPS })
	return out
}

// NPS returns the numeric nominal size in inches for a registered
// designation.
func (t Table) NPS(nominal string) (float64, error) {
	entry, ok := t.sizes[nominal]
	if !ok {
		return 0, &UnknownGeometryError{Table: "schedule", Key: nominal}
	}
	return entry.NPS, nil
}

// Default returns the built-in ASME B36.10M/B36.19M table. Wall
// thicknesses are the published inch values; schedule 10 walls for sizes
// 12 and below are the B36.19M 10S values used for stainless lines.
func Default() Table {
	return defaultTable
}

var defaultTable = NewTable([]SizeEntry{
	{Nominal: "1/2", NPS: 0.5, OD: 0.840, Walls: map[string]float64{
		"10": 0.083, "40": 0.109, "80": 0.147, "160": 0.188, "STD": 0.109, "XS": 0.147,
	}},
	{Nominal: "3/4", NPS: 0.75, OD: 1.050, Walls: map[string]float64{
		"10": 0.083, "40": 0.113, "80": 0.154, "160": 0.219, "STD": 0.113, "XS": 0.154,
	}},
	{Nominal: "1", NPS: 1, OD: 1.315, Walls: map[string]float64{
		"10": 0.109, "40": 0.133, "80": 0.179, "160": 0.250, "STD": 0.133, "XS": 0.179,
	}},
	{Nominal: "1-1/4", NPS: 1.25, OD: 1.660, Walls: map[string]float64{
		"10": 0.109, "40": 0.140, "80": 0.191, "160": 0.250, "STD": 0.140, "XS": 0.191,
	}},
	{Nominal: "1-1/2", NPS: 1.5, OD: 1.900, Walls: map[string]float64{
		"10": 0.109, "40": 0.145, "80": 0.200, "160": 0.281, "STD": 0.145, "XS": 0.200,
	}},
	{Nominal: "2", NPS: 2, OD: 2.375, Walls: map[string]float64{
		"10": 0.109, "40": 0.154, "80": 0.218, "160": 0.344, "STD": 0.154, "XS": 0.218,
	}},
	{Nominal: "3", NPS: 3, OD: 3.500, Walls: map[string]float64{
		"10": 0.120, "40": 0.216, "80": 0.300, "160": 0.438, "STD": 0.216, "XS": 0.300,
	}},
	{Nominal: "4", NPS: 4, OD: 4.500, Walls: map[string]float64{
		"10": 0.120, "40": 0.237, "80": 0.337, "120": 0.438, "160": 0.531, "STD": 0.237, "XS": 0.337,
	}},
	{Nominal: "6", NPS: 6, OD: 6.625, Walls: map[string]float64{
		"10": 0.134, "40": 0.280, "80": 0.432, "120": 0.562, "160": 0.719, "STD": 0.280, "XS": 0.432,
	}},
	{Nominal: "8", NPS: 8, OD: 8.625, Walls: map[string]float64{
		"10": 0.148, "20": 0.250, "40": 0.322, "80": 0.500, "120": 0.719, "160": 0.906, "STD": 0.322, "XS": 0.500,
	}},
	{Nominal: "10", NPS: 10, OD: 10.750, Walls: map[string]float64{
		"10": 0.165, "20": 0.250, "40": 0.365, "60": 0.500, "80": 0.594, "160": 1.125, "STD": 0.365, "XS": 0.500,
	}},
	{Nominal: "12", NPS: 12, OD: 12.750, Walls: map[string]float64{
		"10": 0.180, "20": 0.250, "40": 0.406, "80": 0.688, "160": 1.312, "STD": 0.375, "XS": 0.500,
	}},
	{Nominal: "14", NPS: 14, OD: 14.000, Walls: map[string]float64{
		"10": 0.250, "40": 0.438, "80": 0.750, "160": 1.406, "STD": 0.375, "XS": 0.500,
	}},
	{Nominal: "16", NPS: 16, OD: 16.000, Walls: map[string]float64{
		"10": 0.250, "40": 0.500, "80": 0.844, "160": 1.594, "STD": 0.375, "XS": 0.500,
	}},
	{Nominal: "18", NPS: 18, OD: 18.000, Walls: map[string]float64{
		"10": 0.250, "40": 0.562, "80": 0.938, "160": 1.781, "STD": 0.375, "XS": 0.500,
	}},
	{Nominal: "20", NPS: 20, OD: 20.000, Walls: map[string]float64{
		"10": 0.250, "40": 0.594, "80": 1.031, "160": 1.969, "STD": 0.375, "XS": 0.500,
	}},
	{Nominal: "24", NPS: 24, OD: 24.000, Walls: map[string]float64{
		"10": 0.250, "40": 0.688, "80": 1.219, "160": 2.344, "STD": 0.375, "XS": 0.500,
	}},
})
