package teams

import (
	"context"
	"testing"

	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTeamsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	teams := `
CREATE TABLE IF NOT EXISTS teams (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  team_lead_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	teamMembers := `
CREATE TABLE IF NOT EXISTS team_members (
  id TEXT PRIMARY KEY,
  team_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  created_at DATETIME,
  CONSTRAINT idx_team_members_team_user UNIQUE (team_id, user_id)
);`
	require.NoError(t, conn.Exec(teams).Error)
	require.NoError(t, conn.Exec(teamMembers).Error)

	return conn
}

func createTeam(t *testing.T, conn *gorm.DB, name string, leadID *uuid.UUID) *models.Team {
	t.Helper()
	team := &models.Team{ID: uuid.New(), Name: name, TeamLeadID: leadID}
	require.NoError(t, conn.Create(team).Error)
	return team
}

func TestTeamMembershipLookups(t *testing.T) {
	conn := setupTeamsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	lead := uuid.New()
	member := uuid.New()
	site := createTeam(t, conn, "site crew", &lead)
	design := createTeam(t, conn, "design desk", nil)

	require.NoError(t, repo.AddMember(ctx, site.ID, member))
	require.NoError(t, repo.AddMember(ctx, design.ID, member))

	teams, err := repo.TeamsForUser(ctx, member)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "design desk", teams[0].Name)

	ids, err := repo.MemberIDs(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{member}, ids)

	led, err := repo.TeamsLedBy(ctx, lead)
	require.NoError(t, err)
	require.Len(t, led, 1)
	assert.Equal(t, site.ID, led[0].ID)
}

func TestAddMember_DuplicateRejected(t *testing.T) {
	conn := setupTeamsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	team := createTeam(t, conn, "site crew", nil)
	member := uuid.New()

	require.NoError(t, repo.AddMember(ctx, team.ID, member))
	require.Error(t, repo.AddMember(ctx, team.ID, member))
}

func TestRemoveMember(t *testing.T) {
	conn := setupTeamsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	team := createTeam(t, conn, "site crew", nil)
	member := uuid.New()
	require.NoError(t, repo.AddMember(ctx, team.ID, member))

	affected, err := repo.RemoveMember(ctx, team.ID, member)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.RemoveMember(ctx, team.ID, member)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
