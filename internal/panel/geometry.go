package panel

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when a layout supplies unusable extents.
var ErrInvalidGeometry = errors.New("invalid panel geometry")

// Geometry holds the two rest extents of a panel along its drag axis.
// Offsets grow from Collapsed toward Expanded.
type Geometry struct {
	Collapsed float64
	Expanded  float64
}

// Validate returns an error wrapping ErrInvalidGeometry unless
// Expanded > Collapsed and both extents are finite.
func (g Geometry) Validate() error {
	if math.IsNaN(g.Collapsed) || math.IsInf(g.Collapsed, 0) ||
		math.IsNaN(g.Expanded) || math.IsInf(g.Expanded, 0) {
		return fmt.Errorf("%w: non-finite extent (collapsed=%g expanded=%g)", ErrInvalidGeometry, g.Collapsed, g.Expanded)
	}
	if g.Expanded <= g.Collapsed {
		return fmt.Errorf("%w: expanded extent %g must exceed collapsed extent %g", ErrInvalidGeometry, g.Expanded, g.Collapsed)
	}
	return nil
}

// Range returns the distance between the two extents.
func (g Geometry) Range() float64 {
	return g.Expanded - g.Collapsed
}

// Clamp limits offset to [Collapsed, Expanded]. NaN maps to Collapsed.
func (g Geometry) Clamp(offset float64) float64 {
	if math.IsNaN(offset) || offset < g.Collapsed {
		return g.Collapsed
	}
	if offset > g.Expanded {
		return g.Expanded
	}
	return offset
}

// ToProgress maps an offset to a progress value in [0, 1].
// Overshooting offsets are clamped. An invalid geometry maps everything to 0.
func ToProgress(offset float64, g Geometry) float64 {
	if g.Validate() != nil || math.IsNaN(offset) {
		return 0
	}
	return clamp01((offset - g.Collapsed) / g.Range())
}

// ToOffset is the inverse of ToProgress. The progress is clamped to [0, 1];
// an invalid geometry maps everything to g.Collapsed.
func ToOffset(progress float64, g Geometry) float64 {
	if g.Validate() != nil || math.IsNaN(progress) {
		return g.Collapsed
	}
	p := clamp01(progress)
	switch p {
	case 0:
		return g.Collapsed
	case 1:
		return g.Expanded
	}
	return g.Collapsed + p*g.Range()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
