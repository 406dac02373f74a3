package bench

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sgostarter/i/commerr"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	Learner1D        = "1d"
	Learner2D        = "2d"
	LearnerBalancing = "balancing"
	LearnerAverage   = "average"
)

type Config struct {
	Learner       string  `yaml:"learner" json:"learner" validate:"required,oneof=1d 2d balancing average"`
	Points        int     `yaml:"points" json:"points" validate:"gt=0"`
	Bounds        string  `yaml:"bounds" json:"bounds"`
	Offset        float64 `yaml:"offset" json:"offset" validate:"gte=-1,lte=1"`
	Children      int     `yaml:"children" json:"children" validate:"gte=1,lte=64"`
	MinResolution int     `yaml:"minResolution" json:"minResolution" validate:"gte=2"`
	Atol          float64 `yaml:"atol" json:"atol" validate:"gt=0"`
	Seed          uint64  `yaml:"seed" json:"seed"`
	History       string  `yaml:"history" json:"history"`

	StallTimeout time.Duration `yaml:"stallTimeout" json:"stallTimeout" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		Learner:       Learner1D,
		Points:        1000,
		Children:      4,
		MinResolution: 2,
		Atol:          0.01,
		Seed:          1,
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(file string) (cfg Config, err error) {
	cfg = DefaultConfig()

	d, err := os.ReadFile(file)
	if err != nil {
		return
	}

	err = yaml.Unmarshal(d, &cfg)

	return
}

var validate = validator.New()

func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", commerr.ErrInvalidArgument, err)
	}

	_, err := cfg.ParseBounds()

	return err
}

// ParseBounds parses Bounds as comma separated numbers: "lo,hi" for one-dimensional learners
// and "xlo,xhi,ylo,yhi" for the 2-D learner. Empty bounds mean [-1, 1] on every axis.
func (cfg Config) ParseBounds() (bounds []float64, err error) {
	want := 2

	switch cfg.Learner {
	case Learner2D:
		want = 4
	case LearnerAverage:
		return
	}

	if strings.TrimSpace(cfg.Bounds) == "" {
		for len(bounds) < want {
			bounds = append(bounds, -1, 1)
		}

		return
	}

	for _, s := range strings.Split(cfg.Bounds, ",") {
		v, e := cast.ToFloat64E(strings.TrimSpace(s))
		if e != nil {
			err = fmt.Errorf("bounds %q: %w", cfg.Bounds, commerr.ErrInvalidArgument)

			return
		}

		bounds = append(bounds, v)
	}

	if len(bounds) != want {
		err = fmt.Errorf("bounds %q: want %d numbers for %s learner: %w", cfg.Bounds, want, cfg.Learner, commerr.ErrInvalidArgument)
	}

	return
}
