package geo

import "math"

const (
	// DefaultMoveDistance is the length of one drone move in degrees.
	DefaultMoveDistance = 0.00015
	// DefaultCloseDistance is the threshold below which two positions are "close".
	DefaultCloseDistance = 0.00015
	// DefaultMaxExpansions bounds a single path search.
	DefaultMaxExpansions = 50000
)

// Config carries the scale of the discretised flight model.
// It is passed explicitly so the kernel can be exercised at other scales.
type Config struct {
	MoveDistance  float64
	CloseDistance float64
	Headings      []float64
	MaxExpansions int
}

// DefaultConfig returns the production flight model: 0.00015 degree moves,
// a 0.00015 degree close radius and the 16 compass headings.
func DefaultConfig() Config {
	return Config{
		MoveDistance:  DefaultMoveDistance,
		CloseDistance: DefaultCloseDistance,
		Headings:      CompassHeadings(),
		MaxExpansions: DefaultMaxExpansions,
	}
}

// CompassHeadings returns the 16 headings 0, 22.5, ..., 337.5.
func CompassHeadings() []float64 {
	hs := make([]float64, 16)
	for i := range hs {
		hs[i] = float64(i) * 22.5
	}
	return hs
}

// IsHeading reports whether angle is one of the configured headings.
func (c Config) IsHeading(angle float64) bool {
	for _, h := range c.Headings {
		if math.Abs(h-angle) < 1e-9 {
			return true
		}
	}
	return false
}
