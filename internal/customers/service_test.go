package customers

import (
	"context"
	"testing"

	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)

	return conn
}

func TestCustomerLifecycle(t *testing.T) {
	svc := NewService(NewRepository(setupCustomersTestDB(t)))
	ctx := context.Background()

	email := "ritu@example.com"
	created, err := svc.Create(ctx, CreateCustomerInput{Name: "Ritu Sharma", Email: &email})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ritu Sharma", got.Name)

	phone := "+91 98100 00000"
	updated, err := svc.Update(ctx, created.ID, UpdateCustomerInput{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCustomerCreate_RequiresName(t *testing.T) {
	svc := NewService(NewRepository(setupCustomersTestDB(t)))

	_, err := svc.Create(context.Background(), CreateCustomerInput{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCustomerList_Search(t *testing.T) {
	svc := NewService(NewRepository(setupCustomersTestDB(t)))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCustomerInput{Name: "Anand Verma"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCustomerInput{Name: "Bhavna Rao"})
	require.NoError(t, err)

	customers, err := svc.List(ctx, "Verma", 0)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Anand Verma", customers[0].Name)

	customers, err = svc.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, customers, 2)
}

func TestCustomerUpdate_MissingRow(t *testing.T) {
	svc := NewService(NewRepository(setupCustomersTestDB(t)))

	name := "Ghost"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateCustomerInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
