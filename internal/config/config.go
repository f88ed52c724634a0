// Public domain.

// Package config loads microlens configuration from YAML with environment
// variable expansion, struct tag defaults, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/soniakeys/unit"
	"gopkg.in/yaml.v3"

	"github.com/soniakeys/microlens/internal/lensdata"
	"github.com/soniakeys/microlens/internal/target"
)

// EnvFile is the environment variable naming the configuration file.
const EnvFile = "MICROLENS_CONFIG"

// Config is the complete configuration.
type Config struct {
	Log    Log    `yaml:"log"`
	Data   Data   `yaml:"data"`
	Fit    Fit    `yaml:"fit"`
	Solver Solver `yaml:"solver"`
	PosErr PosErr `yaml:"poserr"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"` // console or json
}

// Data locates input tables.
type Data struct {
	PhotDir string `yaml:"phot_dir" default:"/g/lu/microlens/cross_epoch"`
	// root of the fit output directories
	AlignDir string `yaml:"align_dir"`
	// relative to AlignDir unless absolute
	PointsDir  string  `yaml:"points_dir" default:"points_d/"`
	PlateScale float64 `yaml:"plate_scale" default:"0.00995"` // arc seconds per pixel
}

// Fit holds fit selection.  Command line flags override these.
type Fit struct {
	Target   string `yaml:"target"`
	Parallax bool   `yaml:"parallax"`
	PhotOnly bool   `yaml:"phot_only"`
	Solve    bool   `yaml:"solve" default:"true"`
	Runcode  string `yaml:"runcode" default:"aa_"`
	NoXLSX   bool   `yaml:"no_xlsx"`
}

// Solver configures the external modeling program.
type Solver struct {
	Command []string `yaml:"command" default:"[\"microlens-solver\"]"`
}

// PosErr configures the positional uncertainty plots.
type PosErr struct {
	DataRoot  string  `yaml:"data_root" default:"/u/jlu/data/microlens/"`
	MagCutoff float64 `yaml:"mag_cutoff" default:"17"`
	Radius    float64 `yaml:"radius" default:"4"` // arc seconds
}

// Default returns the configuration given by struct tag defaults.
func Default() (*Config, error) {
	c := new(Config)
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return c, nil
}

// Load reads configuration file fn over the defaults.  A missing file, or
// an empty fn, leaves the defaults.  The result is validated.
func Load(fn string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if fn != "" {
		data, err := os.ReadFile(fn)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", fn, err)
		default:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), c); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", fn, err)
			}
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Fit.Validate(); err != nil {
		return err
	}
	return c.PosErr.Validate()
}

// Validate validates the log configuration.
func (c *Log) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required,
			validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("console", "json")),
	)
}

// Validate validates the data configuration.
func (c *Data) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PhotDir, validation.Required),
		validation.Field(&c.PlateScale, validation.Required, validation.Min(0.).Exclusive()),
	)
}

// Paths returns the input locations for the loader.
func (c *Data) Paths() lensdata.Paths {
	pd := c.PointsDir
	if !filepath.IsAbs(pd) {
		pd = filepath.Join(c.AlignDir, pd)
	}
	return lensdata.Paths{
		PhotDir:   c.PhotDir,
		PointsDir: pd,
		Scale:     unit.AngleFromSec(c.PlateScale),
	}
}

// Validate validates fit selection.  An empty target is allowed here and
// must be supplied on the command line.
func (c *Fit) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Target, validation.By(knownTarget)),
		validation.Field(&c.Runcode, validation.Required),
	)
}

func knownTarget(v any) error {
	id, _ := v.(string)
	if id == "" {
		return nil
	}
	_, err := target.Lookup(id)
	return err
}

// Validate validates the solver configuration.  It is checked only when
// the solver is about to be run.
func (c *Solver) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Command, validation.Required),
	)
}

// Validate validates the positional uncertainty configuration.
func (c *PosErr) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DataRoot, validation.Required),
		validation.Field(&c.MagCutoff, validation.Required),
		validation.Field(&c.Radius, validation.Required, validation.Min(0.).Exclusive()),
	)
}
