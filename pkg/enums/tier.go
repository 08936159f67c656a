package enums

import "fmt"

// Tier is the resolved visibility scope a caller holds over a module's
// estimate collection.
type Tier string

const (
	TierAll    Tier = "all"
	TierMember Tier = "member-scope"
	TierTeam   Tier = "team-scope"
	TierSelf   Tier = "self"
)

var validTiers = []Tier{
	TierAll,
	TierMember,
	TierTeam,
	TierSelf,
}

// String implements fmt.Stringer.
func (t Tier) String() string {
	return string(t)
}

// IsValid reports whether the value is a known Tier.
func (t Tier) IsValid() bool {
	for _, candidate := range validTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTier converts raw input into a Tier.
func ParseTier(value string) (Tier, error) {
	for _, candidate := range validTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tier %q", value)
}
