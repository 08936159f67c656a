package teams

import (
	"context"
	"testing"

	"github.com/avenirinteriors/estimation-backend/internal/users"
	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMembershipService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupTeamsTestDB(t)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  role TEXT NOT NULL,
  reports_to TEXT,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(usersTable).Error)

	return NewService(NewRepository(conn), users.NewRepository(conn)), conn
}

func createUser(t *testing.T, conn *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Asha",
		LastName:  "Rao",
		Role:      "Sales",
		IsActive:  true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func TestMembershipLifecycle(t *testing.T) {
	svc, conn := setupMembershipService(t)
	ctx := context.Background()

	lead := createUser(t, conn, "lead@avenir.test")
	member := createUser(t, conn, "member@avenir.test")
	team := createTeam(t, conn, "site crew", &lead.ID)

	require.NoError(t, svc.AddMember(ctx, team.ID, member.ID))

	mine, err := svc.ListMine(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, team.ID, mine[0].ID)

	ids, err := svc.Members(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{member.ID}, ids)

	require.NoError(t, svc.RemoveMember(ctx, team.ID, member.ID))

	err = svc.RemoveMember(ctx, team.ID, member.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAddMember_UnknownUserRejected(t *testing.T) {
	svc, conn := setupMembershipService(t)
	ctx := context.Background()

	team := createTeam(t, conn, "design desk", nil)

	err := svc.AddMember(ctx, team.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAddMember_DuplicateIsConflict(t *testing.T) {
	svc, conn := setupMembershipService(t)
	ctx := context.Background()

	member := createUser(t, conn, "member@avenir.test")
	team := createTeam(t, conn, "site crew", nil)

	require.NoError(t, svc.AddMember(ctx, team.ID, member.ID))

	err := svc.AddMember(ctx, team.ID, member.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestAddMember_RequiresIdentifiers(t *testing.T) {
	svc, _ := setupMembershipService(t)

	err := svc.AddMember(context.Background(), uuid.Nil, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
