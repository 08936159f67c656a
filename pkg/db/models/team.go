package models

import (
	"time"

	"github.com/google/uuid"
)

// Team groups users for visibility scoping. The lead reference is owned by
// the team; the user it points at is owned elsewhere.
type Team struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string     `gorm:"type:text;not null"`
	TeamLeadID *uuid.UUID `gorm:"column:team_lead_id;type:uuid"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TeamMember joins users to teams (many-to-many).
type TeamMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TeamID    uuid.UUID `gorm:"column:team_id;type:uuid;not null;uniqueIndex:idx_team_members_team_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_team_members_team_user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
