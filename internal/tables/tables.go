// Package tables assembles the reference data the engines query: pipe
// schedule geometry, material roughness, fitting loss factors, and
// service criteria limits. The built-in values are compiled in; an
// optional directory of YAML files layers site overrides on top.
// Engine packages receive snapshots and never read files themselves.
package tables

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/pipe"
)

// Set is one immutable snapshot of the reference tables. Callers swap
// whole snapshots instead of editing one in place.
type Set struct {
	Pipes     pipe.Table
	Roughness pipe.RoughnessTable
	Fittings  pipe.KTable
	Limits    map[string]criteria.Limit
}

// Defaults returns the compiled-in tables.
func Defaults() *Set {
	return &Set{
		Pipes:     pipe.Default(),
		Roughness: pipe.DefaultRoughness(),
		Fittings:  pipe.DefaultFittings(),
		Limits:    criteria.Defaults(),
	}
}

// Engine builds a line-sizing engine over this snapshot.
func (s *Set) Engine(solver hydro.Solver) *linesize.Engine {
	return &linesize.Engine{
		Pipes:     s.Pipes,
		Roughness: s.Roughness,
		Fittings:  s.Fittings,
		Limits:    s.Limits,
		Solver:    solver,
	}
}

// Override files Load looks for in the tables directory. Pipe schedule
// geometry stays compiled in; dimensional standards do not vary by site.
const (
	roughnessFile = "roughness.yaml"
	fittingsFile  = "fittings.yaml"
	criteriaFile  = "criteria.yaml"
)

// Load returns the defaults with any YAML overrides in dir layered on
// top. A missing directory or file keeps the built-ins; a malformed
// file is an error.
func Load(dir string) (*Set, error) {
	s := Defaults()
	if dir == "" {
		return s, nil
	}
	if err := mergeScalars(filepath.Join(dir, roughnessFile), "materials", s.Roughness); err != nil {
		return nil, err
	}
	if err := mergeScalars(filepath.Join(dir, fittingsFile), "fittings", s.Fittings); err != nil {
		return nil, err
	}
	if err := s.mergeLimits(filepath.Join(dir, criteriaFile)); err != nil {
		return nil, err
	}
	return s, nil
}

func readYAML(path string) (*viper.Viper, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return v, true, nil
}

func mergeScalars(path, key string, into map[string]float64) error {
	v, ok, err := readYAML(path)
	if err != nil || !ok {
		return err
	}
	for name, raw := range v.GetStringMap(key) {
		val, err := cast.ToFloat64E(raw)
		if err != nil {
			return fmt.Errorf("%s: %s %q: %w", path, key, name, err)
		}
		into[name] = val
	}
	return nil
}

// YAML shapes for service limit overrides. Pointer fields distinguish
// "absent" from an explicit zero, so a file can tighten one limit
// without restating the rest.
type bandSpec struct {
	Size2      *float64 `mapstructure:"size2"`
	Size3to6   *float64 `mapstructure:"size3to6"`
	Size8to12  *float64 `mapstructure:"size8to12"`
	Size14to18 *float64 `mapstructure:"size14to18"`
	Size20up   *float64 `mapstructure:"size20up"`
}

type limitSpec struct {
	Velocity             *float64  `mapstructure:"velocity"`
	LiquidVelocity       *bandSpec `mapstructure:"liquid_velocity"`
	Momentum             *float64  `mapstructure:"momentum"`
	Mach                 *float64  `mapstructure:"mach"`
	PressureGradient     *float64  `mapstructure:"pressure_gradient"`
	CFactor              *float64  `mapstructure:"c_factor"`
	NPSHMargin           *float64  `mapstructure:"npsh_margin"`
	PressureRatio        *float64  `mapstructure:"pressure_ratio"`
	DischargeTemperature *float64  `mapstructure:"discharge_temperature"`
}

func (s *Set) mergeLimits(path string) error {
	v, ok, err := readYAML(path)
	if err != nil || !ok {
		return err
	}
	var specs map[string]limitSpec
	if err := v.UnmarshalKey("services", &specs); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for name, spec := range specs {
		l := s.Limits[name] // zero Limit starts a new service class
		l.Service = name
		if spec.Velocity != nil {
			l.Velocity = spec.Velocity
		}
		if b := spec.LiquidVelocity; b != nil {
			bands := &criteria.VelocityBands{}
			if l.LiquidVelocity != nil {
				*bands = *l.LiquidVelocity
			}
			if b.Size2 != nil {
				bands.Size2 = b.Size2
			}
			if b.Size3to6 != nil {
				bands.Size3to6 = b.Size3to6
			}
			if b.Size8to12 != nil {
				bands.Size8to12 = b.Size8to12
			}
			if b.Size14to18 != nil {
				bands.Size14to18 = b.Size14to18
			}
			if b.Size20up != nil {
				bands.Size20up = b.Size20up
			}
			l.LiquidVelocity = bands
		}
		if spec.Momentum != nil {
			l.Momentum = spec.Momentum
		}
		if spec.Mach != nil {
			l.Mach = spec.Mach
		}
		if spec.PressureGradient != nil {
			l.PressureGradient = spec.PressureGradient
		}
		if spec.CFactor != nil {
			l.CFactor = spec.CFactor
		}
		if spec.NPSHMargin != nil {
			l.NPSHMargin = spec.NPSHMargin
		}
		if spec.PressureRatio != nil {
			l.PressureRatio = spec.PressureRatio
		}
		if spec.DischargeTemperature != nil {
			l.DischargeTemperature = spec.DischargeTemperature
		}
		s.Limits[name] = l
	}
	return nil
}
