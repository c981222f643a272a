package validation

import "github.com/keelcad/keel/pkg/geom"

// Config controls a validation run. The zero value is not usable; start from
// DefaultConfig and override fields as needed.
type Config struct {
	// Tolerance is the coincidence distance: vertices closer than this are
	// the same point, gaps wider than this are openings.
	Tolerance geom.Tolerance

	// Disabled lists checks to skip. Skipping a check means its invariant is
	// taken on faith, which only makes sense for shapes produced by an
	// operation that guarantees it.
	Disabled []Kind
}

// DefaultConfig returns a config with a coincidence tolerance suited to
// model-scale coordinates and every check enabled.
func DefaultConfig() Config {
	return Config{Tolerance: geom.MustTolerance(1e-6)}
}

func (c Config) enabled(k Kind) bool {
	for _, d := range c.Disabled {
		if d == k {
			return false
		}
	}
	return true
}
