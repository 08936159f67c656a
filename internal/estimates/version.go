package estimates

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
)

// Version is a customer-scoped "major.minor" revision marker. The zero
// value sorts before every allocated version.
type Version struct {
	Major int
	Minor int
}

// String renders the canonical "major.minor" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Less orders versions numerically, so "1.10" sorts after "1.9".
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

// ParseVersion converts the stored string form back into a Version.
func ParseVersion(value string) (Version, error) {
	major, minor, ok := strings.Cut(value, ".")
	if !ok {
		return Version{}, pkgerrors.New(pkgerrors.CodeInternal,
			fmt.Sprintf("malformed estimate version %q", value))
	}
	majorN, err := strconv.Atoi(major)
	if err != nil || majorN < 0 {
		return Version{}, pkgerrors.New(pkgerrors.CodeInternal,
			fmt.Sprintf("malformed estimate version %q", value))
	}
	minorN, err := strconv.Atoi(minor)
	if err != nil || minorN < 0 {
		return Version{}, pkgerrors.New(pkgerrors.CodeInternal,
			fmt.Sprintf("malformed estimate version %q", value))
	}
	return Version{Major: majorN, Minor: minorN}, nil
}

// NextVersion advances the counter: a customer's first estimate in a
// category gets 1.1, minors roll at 9 into the next major, otherwise the
// minor increments.
func NextVersion(current Version) Version {
	if current == (Version{}) {
		return Version{Major: 1, Minor: 1}
	}
	if current.Minor == 9 {
		return Version{Major: current.Major + 1, Minor: 1}
	}
	return Version{Major: current.Major, Minor: current.Minor + 1}
}

// MaxVersion picks the numerically highest version from the stored
// strings. The comparison happens here rather than in SQL so the ordering
// is identical across postgres and the sqlite test harness.
func MaxVersion(stored []string) (Version, error) {
	var max Version
	for _, raw := range stored {
		parsed, err := ParseVersion(raw)
		if err != nil {
			return Version{}, err
		}
		if max.Less(parsed) {
			max = parsed
		}
	}
	return max, nil
}
