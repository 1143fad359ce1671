package scoring

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var ErrInvalidConfig = errors.New("invalid scoring config")

// Config is a room's point table. DNFPenalty is a magnitude; the engine
// applies it as a deduction.
type Config struct {
	PositionPoints     []float64
	FastestLapPoints   float64
	PolePositionPoints float64
	DNFPenalty         float64
}

func DefaultConfig() Config {
	return Config{
		PositionPoints:     []float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1},
		FastestLapPoints:   1,
		PolePositionPoints: 2,
		DNFPenalty:         1,
	}
}

func (c Config) Validate() error {
	if len(c.PositionPoints) == 0 {
		return fmt.Errorf("%w: position points table is empty", ErrInvalidConfig)
	}
	for i, p := range c.PositionPoints {
		if !validAmount(p) {
			return fmt.Errorf("%w: position points[%d]=%v", ErrInvalidConfig, i, p)
		}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"fastest lap points", c.FastestLapPoints},
		{"pole position points", c.PolePositionPoints},
		{"dnf penalty magnitude", c.DNFPenalty},
	} {
		if !validAmount(f.value) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidConfig, f.name, f.value)
		}
	}
	return nil
}

func (c Config) Clone() Config {
	c.PositionPoints = slices.Clone(c.PositionPoints)
	return c
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
