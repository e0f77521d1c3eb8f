package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrDimensionCount is returned when a size expression has fewer than 2 or more than 3 parts.
var ErrDimensionCount = errors.New("size must be 2 or 3 dimensions")

// BadDimensionTokenError names the part of a size expression that is not <number><unit>.
type BadDimensionTokenError struct {
	Token string
}

func (e *BadDimensionTokenError) Error() string {
	return fmt.Sprintf("bad dimension token: %q", e.Token)
}

var (
	dimensionSeparators = regexp.MustCompile(`[x×*]`)
	dimensionToken      = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)(mm|cm|m|in|inch|inches|ft|foot|feet|["']?)$`)
)

// Dimensions is a parsed size expression in millimeters.
type Dimensions struct {
	ThicknessMM float64
	WidthMM     float64
	LengthMM    *float64
}

// ParseDimensions parses "2x4", "2x4x8ft", "50mm*100mm*3m" and similar. Unitless thickness and
// width are inches, an unitless length is feet.
func ParseDimensions(text string) (Dimensions, error) {
	compact := strings.Join(strings.Fields(text), "")
	parts := dimensionSeparators.Split(compact, -1)
	if len(parts) != 2 && len(parts) != 3 {
		return Dimensions{}, fmt.Errorf("%w: got %d", ErrDimensionCount, len(parts))
	}

	defaults := []string{defaultCrossUnit, defaultCrossUnit, defaultLengthUnit}
	mm := make([]float64, len(parts))
	for i, part := range parts {
		m := dimensionToken.FindStringSubmatch(part)
		if m == nil {
			return Dimensions{}, &BadDimensionTokenError{Token: part}
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Dimensions{}, &BadDimensionTokenError{Token: part}
		}
		unit := m[2]
		if unit == "" {
			unit = defaults[i]
		}
		mm[i], err = ToMillimeters(value, unit)
		if err != nil {
			return Dimensions{}, err
		}
	}

	dims := Dimensions{ThicknessMM: mm[0], WidthMM: mm[1]}
	if len(mm) == 3 {
		dims.LengthMM = &mm[2]
	}
	return dims, nil
}
