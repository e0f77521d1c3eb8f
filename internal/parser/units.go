package parser

import (
	"errors"
	"fmt"
	"strings"
)

const (
	mmPerInch = 25.4
	mmPerFoot = 304.8
)

// ErrUnknownUnit is returned for a unit token outside the recognized set.
var ErrUnknownUnit = errors.New("unknown unit")

var unitFactors = map[string]float64{
	"mm":     1,
	"cm":     10,
	"m":      1000,
	"in":     mmPerInch,
	"inch":   mmPerInch,
	"inches": mmPerInch,
	`"`:      mmPerInch,
	"ft":     mmPerFoot,
	"foot":   mmPerFoot,
	"feet":   mmPerFoot,
	"'":      mmPerFoot,
}

const (
	// Sawn-wood thickness and width are quoted in inches, length in feet.
	defaultCrossUnit  = "in"
	defaultLengthUnit = "ft"
)

// ToMillimeters converts value in unit to millimeters. An empty unit returns the
// value unchanged; callers pick the context default before calling.
func ToMillimeters(value float64, unit string) (float64, error) {
	if unit == "" {
		return value, nil
	}
	factor, ok := unitFactors[strings.ToLower(unit)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return value * factor, nil
}
