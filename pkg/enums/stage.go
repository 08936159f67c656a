package enums

import "fmt"

// Stage is the workflow position of an estimate. Transitions are
// unidirectional: Sales → Pre-Designer → Designer, with Designer terminal.
type Stage string

const (
	StageSales       Stage = "Sales"
	StagePreDesigner Stage = "Pre-Designer"
	StageDesigner    Stage = "Designer"
)

var validStages = []Stage{
	StageSales,
	StagePreDesigner,
	StageDesigner,
}

var nextStage = map[Stage]Stage{
	StageSales:       StagePreDesigner,
	StagePreDesigner: StageDesigner,
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Stage.
func (s Stage) IsValid() bool {
	for _, candidate := range validStages {
		if candidate == s {
			return true
		}
	}
	return false
}

// Next returns the successor stage, or false when no transition is defined.
func (s Stage) Next() (Stage, bool) {
	next, ok := nextStage[s]
	return next, ok
}

// ParseStage converts raw input into a Stage.
func ParseStage(value string) (Stage, error) {
	for _, candidate := range validStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stage %q", value)
}
