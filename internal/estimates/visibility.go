package estimates

import (
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisibilityScope narrows a header query to what the caller's tier allows.
// There is no permissive fallback: a tier the switch does not recognise is
// denied outright rather than widened.
func VisibilityScope(tier enums.Tier, userID uuid.UUID) (func(*gorm.DB) *gorm.DB, error) {
	switch tier {
	case enums.TierAll:
		return func(q *gorm.DB) *gorm.DB { return q }, nil

	case enums.TierMember:
		// Everyone sharing at least one team with the caller, caller
		// included through their own membership rows.
		return func(q *gorm.DB) *gorm.DB {
			return q.Where(
				"user_id IN (SELECT tm.user_id FROM team_members tm WHERE tm.team_id IN "+
					"(SELECT team_id FROM team_members WHERE user_id = ?))",
				userID,
			)
		}, nil

	case enums.TierTeam:
		// The caller plus members of any team the caller leads.
		return func(q *gorm.DB) *gorm.DB {
			return q.Where(
				"user_id = ? OR user_id IN (SELECT tm.user_id FROM team_members tm "+
					"JOIN teams t ON t.id = tm.team_id WHERE t.team_lead_id = ?)",
				userID, userID,
			)
		}, nil

	case enums.TierSelf:
		return func(q *gorm.DB) *gorm.DB {
			return q.Where("user_id = ?", userID)
		}, nil

	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unresolvable visibility tier")
	}
}
