/*
 * config.go, part of goDiffract.
 *
 * Copyright 2026 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config contains the configuration of the godiffract command: its YAML
//schema, defaults, loading and validation, and the conversion to the types of
//the diffract package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	diffract "github.com/rmera/godiffract"
	"gopkg.in/yaml.v3"
)

//Config is the full configuration of an analysis.
type Config struct {
	Data         Data         `yaml:"data"`
	Composition  []Species    `yaml:"composition" validate:"required,min=1,dive"`
	Density      float64      `yaml:"density" validate:"gt=0"`
	Method       string       `yaml:"method" validate:"oneof=ashcroft-langreth faber-ziman"`
	Modification Modification `yaml:"modification"`
	Refinement   Refinement   `yaml:"refinement"`
	RGrid        RGrid        `yaml:"rgrid"`
	Optimizer    Optimizer    `yaml:"optimizer"`
	Output       Output       `yaml:"output"`
	LogLevel     string       `yaml:"log_level" validate:"oneof=debug info warn error"`
}

//Data describes the input pattern and its preprocessing.
type Data struct {
	File            string  `yaml:"file"`
	Background      string  `yaml:"background,omitempty"`
	BackgroundScale float64 `yaml:"background_scale" validate:"gte=0"` //0 means fitted
	TwoTheta        bool    `yaml:"two_theta"`
	Wavelength      float64 `yaml:"wavelength" validate:"required_if=TwoTheta true,gte=0"`
	QMin            float64 `yaml:"qmin" validate:"gte=0"`
	QMax            float64 `yaml:"qmax" validate:"gte=0"`
	RebinStep       float64 `yaml:"rebin_step" validate:"gte=0"` //0 disables rebinning
	Smooth          Smooth  `yaml:"smooth"`
	ZeroNorm        bool    `yaml:"zero_norm"` //shift the intensity so its first point is 0
}

//Smooth configures the Savitzky-Golay filter.
type Smooth struct {
	Enabled bool `yaml:"enabled"`
	Window  int  `yaml:"window" validate:"gte=3"`
	Order   int  `yaml:"order" validate:"gte=0,ltfield=Window"`
}

//Species is one entry of the composition.
type Species struct {
	Symbol string  `yaml:"symbol" validate:"required"`
	Charge int     `yaml:"charge"`
	Amount float64 `yaml:"amount" validate:"gt=0"`
}

//Modification selects the modification function.
type Modification struct {
	Kind        string   `yaml:"kind" validate:"oneof=none lorch cosine-window"`
	WindowStart *float64 `yaml:"window_start,omitempty"` //required by cosine-window
}

//Refinement contains the parameters of the Eggert refinement.
type Refinement struct {
	RMin       float64 `yaml:"r_min" validate:"gt=0"`
	DPQ        float64 `yaml:"d_pq" validate:"gte=0"`
	Iterations int     `yaml:"iterations" validate:"gte=0"`
}

//RGrid is the real-space grid, in A.
type RGrid struct {
	Step       float64 `yaml:"step" validate:"gt=0"`
	Max        float64 `yaml:"max" validate:"gt=0,gtfield=Step"`
	Integrator string  `yaml:"integrator" validate:"oneof=trapezoid dst"`
}

//Optimizer configures the density optimization.
type Optimizer struct {
	Enabled      bool    `yaml:"enabled"`
	Lower        float64 `yaml:"lower" validate:"gte=0"`
	Upper        float64 `yaml:"upper" validate:"gte=0"`
	FuncTol      float64 `yaml:"func_tol" validate:"gte=0"`
	GradTol      float64 `yaml:"grad_tol" validate:"gte=0"`
	MaxIter      int     `yaml:"max_iter" validate:"gte=0"`
	MaxFuncEvals int     `yaml:"max_func_evals" validate:"gte=0"`
}

//Output says where the results go.
type Output struct {
	Dir     string `yaml:"dir"`
	Log     string `yaml:"log"`     //refinement log, relative to Dir, empty for none
	Summary string `yaml:"summary"` //JSON summary, relative to Dir, empty for none
}

//DefaultConfig returns a configuration for liquid argon, which only lacks the data file.
func DefaultConfig() *Config {
	return &Config{
		Data: Data{
			RebinStep: 0.02,
			Smooth:    Smooth{Window: 31, Order: 3},
		},
		Composition:  []Species{{Symbol: "Ar", Amount: 1}},
		Density:      0.0213,
		Method:       diffract.AshcroftLangreth.String(),
		Modification: Modification{Kind: diffract.ModLorch.String()},
		Refinement:   Refinement{RMin: 2.5, DPQ: 2.9, Iterations: 5},
		RGrid:        RGrid{Step: diffract.DefaultRStep, Max: diffract.DefaultRMax, Integrator: diffract.Trapezoid.String()},
		Optimizer: Optimizer{
			Lower:        0.01,
			Upper:        0.05,
			FuncTol:      diffract.DefaultFuncTol,
			GradTol:      diffract.DefaultGradTol,
			MaxIter:      diffract.DefaultMaxIter,
			MaxFuncEvals: diffract.DefaultMaxFuncEvals,
		},
		Output:   Output{Dir: ".", Log: "refinement.log", Summary: "summary.json"},
		LogLevel: "info",
	}
}

var validate = validator.New()

//Validate checks the configuration. Besides the field rules, it checks the
//density bounds when the optimization is enabled, and that the data cuts make sense.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid configuration: %s: failed on %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Mod(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Optimizer.Enabled {
		b := diffract.Bounds{Lower: c.Optimizer.Lower, Upper: c.Optimizer.Upper}
		if b.Lower <= 0 || b.Lower >= b.Upper || c.Density < b.Lower || c.Density > b.Upper {
			return fmt.Errorf("invalid configuration: density %v and bounds [%v, %v] are inconsistent: %w", c.Density, b.Lower, b.Upper, diffract.ErrInvalidBounds)
		}
	}
	if c.Data.QMin > 0 && c.Data.QMax > 0 && c.Data.QMin >= c.Data.QMax {
		return fmt.Errorf("invalid configuration: qmin (%v) must be smaller than qmax (%v)", c.Data.QMin, c.Data.QMax)
	}
	if c.Data.Smooth.Enabled && c.Data.Smooth.Window%2 == 0 {
		return fmt.Errorf("invalid configuration: the smoothing window (%d) must be odd", c.Data.Smooth.Window)
	}
	return nil
}

//Load reads the YAML file at path on top of the default configuration,
//so missing keys keep their default values, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

//WriteDefault writes the default configuration to path, creating its directory
//if needed. An existing file is not overwritten.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

//Entries returns the composition as entries for diffract.NewComposition.
func (c *Config) Entries() []diffract.Entry {
	ret := make([]diffract.Entry, 0, len(c.Composition))
	for _, s := range c.Composition {
		ret = append(ret, diffract.Entry{Symbol: s.Symbol, Charge: s.Charge, Amount: s.Amount})
	}
	return ret
}

//Mod returns the configured modification function.
func (c *Config) Mod() (diffract.Modification, error) {
	kind, err := diffract.ParseModKind(c.Modification.Kind)
	if err != nil {
		return diffract.NoModification, err
	}
	m := diffract.Modification{Kind: kind}
	if c.Modification.WindowStart != nil {
		m.WindowStart = *c.Modification.WindowStart
		m.HasStart = true
	}
	return m, m.Validate()
}

//RefineInput returns the refinement parameters for the pattern q, intensity.
func (c *Config) RefineInput(q, intensity []float64) (diffract.RefineInput, error) {
	comp, err := diffract.NewComposition(diffract.DefaultTable(), c.Entries()...)
	if err != nil {
		return diffract.RefineInput{}, err
	}
	method, err := diffract.ParseMethod(c.Method)
	if err != nil {
		return diffract.RefineInput{}, err
	}
	mod, err := c.Mod()
	if err != nil {
		return diffract.RefineInput{}, err
	}
	return diffract.RefineInput{
		Q:           q,
		Intensity:   intensity,
		Composition: comp,
		Density:     c.Density,
		RMin:        c.Refinement.RMin,
		DPQ:         c.Refinement.DPQ,
		Iterations:  c.Refinement.Iterations,
		Method:      method,
		Mod:         mod,
	}, nil
}

//Options returns the numerical options of the analysis.
func (c *Config) Options() (*diffract.Options, error) {
	integ, err := diffract.ParseIntegrator(c.RGrid.Integrator)
	if err != nil {
		return nil, err
	}
	o := diffract.DefaultOptions()
	o.RStep(c.RGrid.Step)
	o.RMax(c.RGrid.Max)
	o.Integrator(integ)
	o.Optimizer(diffract.OptimizerSettings{
		FuncTol:      c.Optimizer.FuncTol,
		GradTol:      c.Optimizer.GradTol,
		MaxIter:      c.Optimizer.MaxIter,
		MaxFuncEvals: c.Optimizer.MaxFuncEvals,
	})
	return o, nil
}

//Bounds returns the density bounds of the optimizer.
func (c *Config) Bounds() diffract.Bounds {
	return diffract.Bounds{Lower: c.Optimizer.Lower, Upper: c.Optimizer.Upper}
}
