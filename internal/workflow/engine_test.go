package workflow

import (
	"context"
	"testing"

	"github.com/avenirinteriors/estimation-backend/internal/estimates"
	"github.com/avenirinteriors/estimation-backend/pkg/db"
	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type emitted struct {
	userID uuid.UUID
	title  string
	typ    enums.NotificationType
}

type captureSink struct {
	notifications []emitted
}

func (c *captureSink) Emit(ctx context.Context, userID uuid.UUID, title, message string, typ enums.NotificationType) error {
	c.notifications = append(c.notifications, emitted{userID: userID, title: title, typ: typ})
	return nil
}

type sqliteTx struct {
	conn *gorm.DB
}

func (s *sqliteTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return db.RunInTx(s.conn.WithContext(ctx), fn)
}

func setupWorkflowTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	headers := `
CREATE TABLE IF NOT EXISTS woodwork_estimates (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  version TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  status TEXT NOT NULL,
  stage TEXT NOT NULL,
  assigned_to TEXT,
  flooring_type TEXT,
  created_at DATETIME,
  CONSTRAINT woodwork_estimates_customer_version_key UNIQUE (customer_id, version)
);`
	require.NoError(t, conn.Exec(headers).Error)

	return conn
}

func seedWoodworkEstimate(t *testing.T, conn *gorm.DB, owner uuid.UUID, version string, stage enums.Stage) *models.Estimate {
	t.Helper()
	header := &models.Estimate{
		CustomerID:  uuid.New(),
		UserID:      owner,
		Version:     version,
		TotalAmount: decimal.RequireFromString("100.00"),
		Status:      enums.EstimateStatusDraft,
		Stage:       stage,
	}
	require.NoError(t, conn.Table("woodwork_estimates").Create(header).Error)
	return header
}

func newEngine(t *testing.T, conn *gorm.DB, directory RoleDirectory, sink estimates.NotificationSink) *Engine {
	t.Helper()
	repo := estimates.NewRepository(conn)
	return NewEngine(repo, &sqliteTx{conn: conn}, directory, sink, nil, nil)
}

func TestPromote_SalesToPreDesigner(t *testing.T) {
	conn := setupWorkflowTestDB(t)
	sink := &captureSink{}
	assignee := uuid.New()
	engine := newEngine(t, conn, &stubDirectory{byRole: map[string]*models.User{}}, sink)

	owner := uuid.New()
	header := seedWoodworkEstimate(t, conn, owner, "1.1", enums.StageSales)

	result, err := engine.Promote(context.Background(), PromoteInput{
		Category:     enums.CategoryWoodwork,
		ActorID:      owner,
		Version:      "1.1",
		CurrentStage: enums.StageSales,
		AssignedTo:   &assignee,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.StagePreDesigner, result.NewStage)

	var stored models.Estimate
	require.NoError(t, conn.Table("woodwork_estimates").Where("id = ?", header.ID).First(&stored).Error)
	assert.Equal(t, enums.StagePreDesigner, stored.Stage)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, assignee, *stored.AssignedTo)

	// No Pre-Designer role holder exists, so the assignee is notified.
	require.Len(t, sink.notifications, 1)
	assert.Equal(t, assignee, sink.notifications[0].userID)
	assert.Equal(t, "Estimate Promoted", sink.notifications[0].title)
	assert.Equal(t, enums.NotificationTypeEstimate, sink.notifications[0].typ)
}

func TestPromote_PreDesignerToDesignerNotifiesRoleHolder(t *testing.T) {
	conn := setupWorkflowTestDB(t)
	sink := &captureSink{}
	designer := &models.User{ID: uuid.New(), Role: "Designer"}
	engine := newEngine(t, conn, &stubDirectory{byRole: map[string]*models.User{"Designer": designer}}, sink)

	owner := uuid.New()
	seedWoodworkEstimate(t, conn, owner, "2.3", enums.StagePreDesigner)

	result, err := engine.Promote(context.Background(), PromoteInput{
		Category:     enums.CategoryWoodwork,
		ActorID:      owner,
		Version:      "2.3",
		CurrentStage: enums.StagePreDesigner,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.StageDesigner, result.NewStage)

	require.Len(t, sink.notifications, 1)
	assert.Equal(t, designer.ID, sink.notifications[0].userID)
}

func TestPromote_TerminalStageRejected(t *testing.T) {
	conn := setupWorkflowTestDB(t)
	engine := newEngine(t, conn, &stubDirectory{}, &captureSink{})

	owner := uuid.New()
	seedWoodworkEstimate(t, conn, owner, "1.1", enums.StageDesigner)

	_, err := engine.Promote(context.Background(), PromoteInput{
		Category:     enums.CategoryWoodwork,
		ActorID:      owner,
		Version:      "1.1",
		CurrentStage: enums.StageDesigner,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestPromote_UnknownStageRejected(t *testing.T) {
	conn := setupWorkflowTestDB(t)
	engine := newEngine(t, conn, &stubDirectory{}, &captureSink{})

	_, err := engine.Promote(context.Background(), PromoteInput{
		Category:     enums.CategoryWoodwork,
		ActorID:      uuid.New(),
		Version:      "1.1",
		CurrentStage: enums.Stage("Imagineer"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestPromote_PreconditionMismatchIsNotFound(t *testing.T) {
	conn := setupWorkflowTestDB(t)
	sink := &captureSink{}
	engine := newEngine(t, conn, &stubDirectory{}, sink)

	owner := uuid.New()
	header := seedWoodworkEstimate(t, conn, owner, "1.1", enums.StageSales)

	cases := []PromoteInput{
		// Wrong version.
		{Category: enums.CategoryWoodwork, ActorID: owner, Version: "1.2", CurrentStage: enums.StageSales},
		// Wrong actor.
		{Category: enums.CategoryWoodwork, ActorID: uuid.New(), Version: "1.1", CurrentStage: enums.StageSales},
		// Stage already advanced past the claimed one.
		{Category: enums.CategoryWoodwork, ActorID: owner, Version: "1.1", CurrentStage: enums.StagePreDesigner},
	}
	for i, input := range cases {
		_, err := engine.Promote(context.Background(), input)
		require.Error(t, err, "case %d", i)
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code(), "case %d", i)
	}

	var stored models.Estimate
	require.NoError(t, conn.Table("woodwork_estimates").Where("id = ?", header.ID).First(&stored).Error)
	assert.Equal(t, enums.StageSales, stored.Stage)
	assert.Empty(t, sink.notifications)
}
