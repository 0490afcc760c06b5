// Package validate collects input-level problems across a whole form so
// a caller can report every failure at once. Calculators never return
// partial results: any collected problem voids the calculation.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/pipecalc/pipecalc/internal/units"
)

// Problem is one rejected input field with a display message.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every problem found in one validation
// pass.
type ValidationError struct {
	Problems []Problem `json:"problems"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Collector accumulates problems during input validation. The zero
// value is ready to use. Scoped views share the parent's problem list,
// so one collector covers a whole nested input. A field keeps only its
// first problem: range checks on a value that already failed conversion
// stay silent.
type Collector struct {
	prefix string
	shared *shared
}

type shared struct {
	problems []Problem
	seen     map[string]bool
}

// Scoped returns a view that prefixes every field with "<scope>.".
// Problems recorded through the view land in this collector.
func (c *Collector) Scoped(scope string) *Collector {
	c.init()
	prefix := scope
	if c.prefix != "" {
		prefix = c.prefix + "." + scope
	}
	return &Collector{prefix: prefix, shared: c.shared}
}

func (c *Collector) init() {
	if c.shared == nil {
		c.shared = &shared{seen: make(map[string]bool)}
	}
}

// Addf records a problem against a field unless the field already has
// one.
func (c *Collector) Addf(field, format string, args ...any) {
	c.init()
	if c.prefix != "" {
		field = c.prefix + "." + field
	}
	if c.shared.seen[field] {
		return
	}
	c.shared.seen[field] = true
	c.shared.problems = append(c.shared.problems, Problem{Field: field, Message: fmt.Sprintf(format, args...)})
}

// SI converts a quantity to SI for the given kind, recording a problem
// instead of failing when the unit is unknown or the value non-finite.
// Returns 0 on a recorded problem.
func (c *Collector) SI(field string, q units.Quantity, kind units.Kind) float64 {
	v, err := q.SI(kind)
	if err != nil {
		c.Addf(field, "%v", err)
		return 0
	}
	return v
}

// Positive requires a finite value greater than zero.
func (c *Collector) Positive(field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.Addf(field, "must be a finite number, got %g", v)
		return
	}
	if v <= 0 {
		c.Addf(field, "must be positive, got %g", v)
	}
}

// NonNegative requires a finite value of zero or more.
func (c *Collector) NonNegative(field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.Addf(field, "must be a finite number, got %g", v)
		return
	}
	if v < 0 {
		c.Addf(field, "must not be negative, got %g", v)
	}
}

// Finite requires a finite value of any sign.
func (c *Collector) Finite(field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.Addf(field, "must be a finite number, got %g", v)
	}
}

// Require records a problem when the condition does not hold.
func (c *Collector) Require(cond bool, field, format string, args ...any) {
	if !cond {
		c.Addf(field, format, args...)
	}
}

// Ok reports whether no problem has been collected.
func (c *Collector) Ok() bool {
	return c.shared == nil || len(c.shared.problems) == 0
}

// Err returns the aggregated error, or nil when validation passed.
func (c *Collector) Err() error {
	if c.Ok() {
		return nil
	}
	return &ValidationError{Problems: c.shared.problems}
}
