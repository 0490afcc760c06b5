package validate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pipecalc/pipecalc/internal/units"
)

func TestCollectorGathersAllProblems(t *testing.T) {
	var c Collector
	c.Positive("length", -5)
	c.Positive("density", 0)
	c.NonNegative("roughness", -1e-6)
	c.Positive("flow", 10) // fine
	c.Finite("elevation", math.NaN())

	if c.Ok() {
		t.Fatal("collector reported ok with problems recorded")
	}
	var ve *ValidationError
	if !errors.As(c.Err(), &ve) {
		t.Fatalf("Err() = %v, want ValidationError", c.Err())
	}
	if len(ve.Problems) != 4 {
		t.Errorf("problems = %d, want 4: %+v", len(ve.Problems), ve.Problems)
	}
	msg := ve.Error()
	for _, field := range []string{"length", "density", "roughness", "elevation"} {
		if !strings.Contains(msg, field) {
			t.Errorf("error %q does not mention %q", msg, field)
		}
	}
	if strings.Contains(msg, "flow") {
		t.Errorf("error %q mentions a valid field", msg)
	}
}

func TestCollectorCleanPass(t *testing.T) {
	var c Collector
	c.Positive("diameter", 0.154)
	c.NonNegative("roughness", 0)
	c.Require(true, "schedule", "unused")
	if !c.Ok() || c.Err() != nil {
		t.Errorf("clean pass: Ok=%v Err=%v", c.Ok(), c.Err())
	}
}

func TestFirstProblemPerFieldWins(t *testing.T) {
	var c Collector
	v := c.SI("viscosity", units.Q(1, "parsecs"), units.Viscosity)
	c.Positive("viscosity", v)
	var ve *ValidationError
	if !errors.As(c.Err(), &ve) {
		t.Fatalf("Err() = %v", c.Err())
	}
	if len(ve.Problems) != 1 {
		t.Fatalf("problems = %+v, want the conversion failure only", ve.Problems)
	}
	if !strings.Contains(ve.Problems[0].Message, "not registered") {
		t.Errorf("kept problem = %+v", ve.Problems[0])
	}
}

func TestCollectorSIConversion(t *testing.T) {
	var c Collector
	v := c.SI("flow", units.Q(100, "m3/h"), units.FlowRate)
	if math.Abs(v-100.0/3600) > 1e-12 {
		t.Errorf("SI conversion = %v", v)
	}
	if !c.Ok() {
		t.Fatalf("valid conversion recorded a problem: %v", c.Err())
	}

	if got := c.SI("flow", units.Q(100, "furlongs"), units.FlowRate); got != 0 {
		t.Errorf("failed conversion returned %v, want 0", got)
	}
	if c.Ok() {
		t.Error("unknown unit not recorded")
	}
}

func TestScopedCollector(t *testing.T) {
	var c Collector
	c.Positive("flow", 1)
	s := c.Scoped("suction")
	s.Positive("length", -2)
	s.Scoped("pipe").Addf("schedule", "missing")
	c.Scoped("discharge").Positive("length", -3)

	var ve *ValidationError
	if !errors.As(c.Err(), &ve) {
		t.Fatalf("Err() = %v", c.Err())
	}
	fields := make([]string, len(ve.Problems))
	for i, p := range ve.Problems {
		fields[i] = p.Field
	}
	want := []string{"suction.length", "suction.pipe.schedule", "discharge.length"}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("fields[%d] = %q, want %q", i, fields[i], want[i])
		}
	}
}

func TestRequire(t *testing.T) {
	var c Collector
	c.Require(2 > 3, "passes", "tube passes %d not supported", 3)
	var ve *ValidationError
	if !errors.As(c.Err(), &ve) || len(ve.Problems) != 1 {
		t.Fatalf("Err() = %v", c.Err())
	}
	if ve.Problems[0].Message != "tube passes 3 not supported" {
		t.Errorf("message = %q", ve.Problems[0].Message)
	}
}
