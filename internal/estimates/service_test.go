package estimates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/avenirinteriors/estimation-backend/pkg/db"
	"github.com/avenirinteriors/estimation-backend/pkg/db/models"
	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordedNotification struct {
	userID  uuid.UUID
	title   string
	message string
	typ     enums.NotificationType
}

type fakeSink struct {
	emitted []recordedNotification
	fail    bool
}

func (f *fakeSink) Emit(ctx context.Context, userID uuid.UUID, title, message string, typ enums.NotificationType) error {
	if f.fail {
		return errors.New("sink unavailable")
	}
	f.emitted = append(f.emitted, recordedNotification{userID: userID, title: title, message: message, typ: typ})
	return nil
}

type sqliteTx struct {
	conn *gorm.DB
}

func (s *sqliteTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return db.RunInTx(s.conn.WithContext(ctx), fn)
}

func newSQLiteService(t *testing.T, sink NotificationSink) (Service, *gorm.DB) {
	t.Helper()
	conn := setupEstimatesTestDB(t)
	repo := NewRepository(conn)
	return NewService(repo, &sqliteTx{conn: conn}, sink, nil, nil), conn
}

func selfGrants() map[string][]string {
	return map[string][]string{"estimate": {enums.PermissionViewEstimate}}
}

func twoRows() []RowInput {
	return []RowInput{
		{Description: "panel", Quantity: decimal.NewFromInt(2), Rate: decimal.RequireFromString("100.00")},
		{Description: "polish", Quantity: decimal.NewFromInt(1), Rate: decimal.RequireFromString("50.50")},
	}
}

func TestCreate_FirstEstimateScenario(t *testing.T) {
	sink := &fakeSink{}
	svc, _ := newSQLiteService(t, sink)
	ctx := context.Background()

	customer := uuid.New()
	owner := uuid.New()

	version, err := svc.NextVersion(ctx, enums.CategoryWoodwork, nil, customer)
	if err != nil {
		t.Fatalf("next version: %v", err)
	}
	if version != "1.1" {
		t.Fatalf("expected first version 1.1, got %s", version)
	}

	detail, err := svc.Create(ctx, CreateEstimateInput{
		Category:   enums.CategoryWoodwork,
		CustomerID: customer,
		UserID:     owner,
		Rows:       twoRows(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if detail.Estimate.Version != "1.1" {
		t.Fatalf("expected version 1.1, got %s", detail.Estimate.Version)
	}
	if detail.Estimate.Stage != enums.StageSales {
		t.Fatalf("new estimates start in Sales, got %s", detail.Estimate.Stage)
	}
	if len(detail.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(detail.Rows))
	}
	if got := detail.Estimate.TotalAmount.StringFixed(2); got != "250.50" {
		t.Fatalf("expected total 250.50, got %s", got)
	}

	got, err := svc.GetWithRows(ctx, GetEstimateInput{
		Category:   enums.CategoryWoodwork,
		EstimateID: detail.Estimate.ID,
		CallerID:   owner,
		Grants:     selfGrants(),
	})
	if err != nil {
		t.Fatalf("get with rows: %v", err)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows via read path, got %d", len(got.Rows))
	}

	if len(sink.emitted) != 1 {
		t.Fatalf("expected one creation notification, got %d", len(sink.emitted))
	}
	if sink.emitted[0].title != "Estimate Created" || sink.emitted[0].userID != owner {
		t.Fatalf("unexpected notification %+v", sink.emitted[0])
	}

	// Sequential creates keep advancing the counter.
	version, err = svc.NextVersion(ctx, enums.CategoryWoodwork, nil, customer)
	if err != nil {
		t.Fatalf("next version: %v", err)
	}
	if version != "1.2" {
		t.Fatalf("expected 1.2 after first create, got %s", version)
	}
}

func TestCreate_MissingFieldsListedTogether(t *testing.T) {
	svc, _ := newSQLiteService(t, &fakeSink{})

	_, err := svc.Create(context.Background(), CreateEstimateInput{Category: enums.CategoryWoodwork})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	missing, ok := details["missingFields"].([]string)
	if !ok {
		t.Fatalf("expected missingFields list, got %T", details["missingFields"])
	}
	if len(missing) != 3 {
		t.Fatalf("expected customerId, userId and rows flagged together, got %v", missing)
	}
}

func TestCreate_RowFailureRollsBackHeader(t *testing.T) {
	sink := &fakeSink{}
	svc, conn := newSQLiteService(t, sink)
	ctx := context.Background()

	// Losing the row table makes the batch insert fail after the header
	// insert has already succeeded inside the transaction.
	if err := conn.Exec("DROP TABLE woodwork_estimate_rows").Error; err != nil {
		t.Fatalf("drop rows table: %v", err)
	}

	_, err := svc.Create(ctx, CreateEstimateInput{
		Category:   enums.CategoryWoodwork,
		CustomerID: uuid.New(),
		UserID:     uuid.New(),
		Rows:       twoRows(),
	})
	if err == nil {
		t.Fatal("expected create to fail")
	}

	var count int64
	if err := conn.Table("woodwork_estimates").Count(&count).Error; err != nil {
		t.Fatalf("count headers: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rolled-back header, found %d", count)
	}
	if len(sink.emitted) != 0 {
		t.Fatalf("no notification may be emitted for a rolled-back write, got %d", len(sink.emitted))
	}
}

func TestCreate_NotificationFailureDoesNotUndoCommit(t *testing.T) {
	svc, conn := newSQLiteService(t, &fakeSink{fail: true})

	detail, err := svc.Create(context.Background(), CreateEstimateInput{
		Category:   enums.CategoryWoodwork,
		CustomerID: uuid.New(),
		UserID:     uuid.New(),
		Rows:       twoRows(),
	})
	if err != nil {
		t.Fatalf("create must survive sink failure: %v", err)
	}

	var count int64
	if err := conn.Table("woodwork_estimates").Where("id = ?", detail.Estimate.ID).Count(&count).Error; err != nil {
		t.Fatalf("count headers: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected committed header, found %d", count)
	}
}

func TestList_SelfTierOnlyReturnsOwnRows(t *testing.T) {
	svc, conn := newSQLiteService(t, &fakeSink{})
	ctx := context.Background()

	binding, _ := Bind(enums.CategoryWoodwork, nil)
	caller := uuid.New()
	customer := uuid.New()
	seedHeader(t, conn, binding, customer, caller, "1.1")
	seedHeader(t, conn, binding, customer, uuid.New(), "1.2")

	headers, err := svc.List(ctx, ListEstimatesInput{
		Category: enums.CategoryWoodwork,
		CallerID: caller,
		Grants:   selfGrants(),
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, header := range headers {
		if header.UserID != caller {
			t.Fatalf("self tier leaked foreign row %d", header.ID)
		}
	}
	if len(headers) != 1 {
		t.Fatalf("expected exactly the caller's row, got %d", len(headers))
	}
}

func TestList_NoGrantsDenied(t *testing.T) {
	svc, _ := newSQLiteService(t, &fakeSink{})

	_, err := svc.List(context.Background(), ListEstimatesInput{
		Category: enums.CategoryWoodwork,
		CallerID: uuid.New(),
		Grants:   map[string][]string{},
	})
	if err == nil {
		t.Fatal("expected access denied")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDelete_RemovesRowsAndHeader(t *testing.T) {
	svc, conn := newSQLiteService(t, &fakeSink{})
	ctx := context.Background()

	detail, err := svc.Create(ctx, CreateEstimateInput{
		Category:   enums.CategoryWoodwork,
		CustomerID: uuid.New(),
		UserID:     uuid.New(),
		Rows:       twoRows(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := svc.Delete(ctx, DeleteEstimateInput{
		Category:   enums.CategoryWoodwork,
		EstimateID: detail.Estimate.ID,
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 2 rows + 1 header deleted, got %d", deleted)
	}

	var count int64
	if err := conn.Table("woodwork_estimate_rows").Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected orphan-free row table, found %d", count)
	}
}

func TestDelete_MissingEstimateIsNotFound(t *testing.T) {
	svc, _ := newSQLiteService(t, &fakeSink{})

	_, err := svc.Delete(context.Background(), DeleteEstimateInput{
		Category:   enums.CategoryWoodwork,
		EstimateID: 4242,
	})
	if err == nil {
		t.Fatal("expected not found")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSummary_AggregatesVisibleHeaders(t *testing.T) {
	svc, conn := newSQLiteService(t, &fakeSink{})
	ctx := context.Background()

	binding, _ := Bind(enums.CategoryWoodwork, nil)
	caller := uuid.New()
	customer := uuid.New()
	seedHeader(t, conn, binding, customer, caller, "1.1")
	seedHeader(t, conn, binding, customer, caller, "1.2")
	seedHeader(t, conn, binding, customer, uuid.New(), "1.3")

	summary, err := svc.Summary(ctx, ListEstimatesInput{
		Category: enums.CategoryWoodwork,
		CallerID: caller,
		Grants:   selfGrants(),
	})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 2 {
		t.Fatalf("expected 2 visible headers, got %d", summary.Count)
	}
	if got := summary.TotalAmount.StringFixed(2); got != "200.00" {
		t.Fatalf("expected total 200.00, got %s", got)
	}
	if summary.ByStage[enums.StageSales.String()] != 2 {
		t.Fatalf("unexpected stage breakdown %v", summary.ByStage)
	}
}

// stubConflictRepo loses the version race a fixed number of times before
// letting the insert through.
type stubConflictRepo struct {
	Repository
	conflicts int
	versions  []string
	created   *models.Estimate
}

func (s *stubConflictRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubConflictRepo) VersionsForCustomer(ctx context.Context, binding Binding, customerID uuid.UUID) ([]string, error) {
	return s.versions, nil
}

func (s *stubConflictRepo) CreateHeader(ctx context.Context, binding Binding, header *models.Estimate) (*models.Estimate, error) {
	if s.conflicts > 0 {
		s.conflicts--
		s.versions = append(s.versions, header.Version)
		return nil, fmt.Errorf("duplicate key value violates unique constraint %q", binding.VersionConstraint)
	}
	header.ID = 7
	s.created = header
	return header, nil
}

func (s *stubConflictRepo) CreateRows(ctx context.Context, binding Binding, rows []models.EstimateRow) error {
	return nil
}

func (s *stubConflictRepo) FindRows(ctx context.Context, binding Binding, estimateID int64) ([]models.EstimateRow, error) {
	return nil, nil
}

type noopTx struct{}

func (noopTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func TestCreate_RetriesAfterVersionConflict(t *testing.T) {
	repo := &stubConflictRepo{conflicts: 1, versions: []string{"1.1"}}
	svc := NewService(repo, noopTx{}, &fakeSink{}, nil, nil)

	detail, err := svc.Create(context.Background(), CreateEstimateInput{
		Category:   enums.CategoryWoodwork,
		CustomerID: uuid.New(),
		UserID:     uuid.New(),
		Rows:       twoRows(),
	})
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	// The losing attempt computed 1.2; the retry saw the winner's row and
	// moved on to 1.3.
	if detail.Estimate.Version != "1.3" {
		t.Fatalf("expected recomputed version 1.3, got %s", detail.Estimate.Version)
	}
}

func TestCreate_ConflictExhaustionSurfacesRetryable(t *testing.T) {
	repo := &stubConflictRepo{conflicts: versionRetryAttempts, versions: []string{"1.1"}}
	svc := NewService(repo, noopTx{}, &fakeSink{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateEstimateInput{
		Category:   enums.CategoryWoodwork,
		CustomerID: uuid.New(),
		UserID:     uuid.New(),
		Rows:       twoRows(),
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !pkgerrors.MetadataFor(typed.Code()).Retryable {
		t.Fatal("version contention must surface as retryable")
	}
}

func TestGetWithRows_StoredFlooringTypeWins(t *testing.T) {
	svc, _ := newSQLiteService(t, &fakeSink{})
	ctx := context.Background()
	owner := uuid.New()
	vinyl := enums.FlooringTypeVinyl
	wooden := enums.FlooringTypeWooden

	detail, err := svc.Create(ctx, CreateEstimateInput{
		Category:     enums.CategoryFlooring,
		FlooringType: &vinyl,
		CustomerID:   uuid.New(),
		UserID:       owner,
		Rows:         twoRows(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetWithRows(ctx, GetEstimateInput{
		Category:     enums.CategoryFlooring,
		FlooringType: &wooden,
		EstimateID:   detail.Estimate.ID,
		CallerID:     owner,
		Grants:       selfGrants(),
	})
	if err != nil {
		t.Fatalf("get with rows: %v", err)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected the persisted vinyl rows, got %d rows", len(got.Rows))
	}
	if got.Estimate.FlooringType == nil || *got.Estimate.FlooringType != vinyl {
		t.Fatalf("expected stored flooring type vinyl, got %v", got.Estimate.FlooringType)
	}
}

func TestDelete_StoredFlooringTypePicksRowTable(t *testing.T) {
	svc, conn := newSQLiteService(t, &fakeSink{})
	ctx := context.Background()
	vinyl := enums.FlooringTypeVinyl
	wooden := enums.FlooringTypeWooden

	detail, err := svc.Create(ctx, CreateEstimateInput{
		Category:     enums.CategoryFlooring,
		FlooringType: &vinyl,
		CustomerID:   uuid.New(),
		UserID:       uuid.New(),
		Rows:         twoRows(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := svc.Delete(ctx, DeleteEstimateInput{
		Category:     enums.CategoryFlooring,
		FlooringType: &wooden,
		EstimateID:   detail.Estimate.ID,
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 2 rows + 1 header deleted, got %d", deleted)
	}

	var orphans int64
	if err := conn.Table("flooring_vinyl_estimate_rows").Where("estimate_id = ?", detail.Estimate.ID).Count(&orphans).Error; err != nil {
		t.Fatalf("count vinyl rows: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected no orphaned vinyl rows, found %d", orphans)
	}
}
