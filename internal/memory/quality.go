package memory

import (
	"errors"
	"fmt"
)

// Quality is the canonical 0-5 outcome of a graded answer.
// 0-2 are failing grades, 3-5 are passing grades under the default params.
type Quality int

const (
	MinQuality Quality = 0
	MaxQuality Quality = 5
)

// ErrInvalidRating is returned when a quality rating is outside the
// canonical 0-5 range or a button index does not exist on its scale.
var ErrInvalidRating = errors.New("invalid quality rating")

// Valid reports whether q is within the canonical range.
func (q Quality) Valid() bool {
	return q >= MinQuality && q <= MaxQuality
}

// ScaleSet maps UI rating scales (number of buttons) onto canonical
// qualities. The model itself only ever sees the canonical value.
type ScaleSet map[int][]Quality

// DefaultScales covers the 3, 4 and 6 button layouts.
var DefaultScales = ScaleSet{
	3: {1, 4, 5},          // again / good / easy
	4: {1, 3, 4, 5},       // again / hard / good / easy
	6: {0, 1, 2, 3, 4, 5}, // full canonical scale
}

// MapButton converts a zero-based button index on the given scale to a
// canonical quality.
func (s ScaleSet) MapButton(scaleSize, button int) (Quality, error) {
	scale, ok := s[scaleSize]
	if !ok {
		return 0, fmt.Errorf("%w: unknown scale size %d", ErrInvalidRating, scaleSize)
	}
	if button < 0 || button >= len(scale) {
		return 0, fmt.Errorf("%w: button %d out of range for %d-button scale", ErrInvalidRating, button, scaleSize)
	}
	return scale[button], nil
}
