package enums

import "fmt"

// FlooringType is the sub-type that picks which flooring row table an
// estimate writes to. The set is closed so table names are never derived
// from caller input.
type FlooringType string

const (
	FlooringTypeWooden FlooringType = "wooden"
	FlooringTypeVinyl  FlooringType = "vinyl"
	FlooringTypeCarpet FlooringType = "carpet"
)

var validFlooringTypes = []FlooringType{
	FlooringTypeWooden,
	FlooringTypeVinyl,
	FlooringTypeCarpet,
}

// String implements fmt.Stringer.
func (f FlooringType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FlooringType.
func (f FlooringType) IsValid() bool {
	for _, candidate := range validFlooringTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFlooringType converts raw input into a FlooringType.
func ParseFlooringType(value string) (FlooringType, error) {
	for _, candidate := range validFlooringTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid flooring type %q", value)
}
