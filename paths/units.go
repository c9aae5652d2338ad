package paths

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrUnit is returned when a length isn't a positive integer followed
// by one of the known unit suffixes.
var ErrUnit = errors.New("unrecognized length")

// unitMagnitude is the size in meters of each unit.
var unitMagnitude = map[string]float64{
	"m":    1,
	"dm":   0.1,
	"cm":   0.01,
	"mm":   0.001,
	"inch": 0.0254,
}

// Alternatives are tried in order, so longer suffixes must come
// before the suffixes they end with ("mm" before "m").
var lengthRE = regexp.MustCompile(`^([0-9]+)(inch|dm|cm|mm|m)`)

// ParseLength converts a length such as "10cm" to meters.
// Only the start of s must match; anything after the unit is ignored.
func ParseLength(s string) (float64, error) {
	m := lengthRE.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w %q: want <integer><m|dm|cm|mm|inch>", ErrUnit, s)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrUnit, s, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w %q: length must be positive", ErrUnit, s)
	}
	return n * unitMagnitude[m[2]], nil
}
