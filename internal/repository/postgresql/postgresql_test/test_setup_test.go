package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// The calling test is skipped when the variable is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")

	ctx := context.Background()
	require.NoError(t, postgresql.Migrate(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row from the schema tables.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendances",
		"users",
		"employees",
		"companies",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

func (s *TestDatabaseSetup) CreateCompany(t *testing.T, name string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := s.DB.Exec(context.Background(),
		`INSERT INTO companies (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
	return id
}

func (s *TestDatabaseSetup) CreateEmployee(t *testing.T, companyID, firstName, lastName string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := s.DB.Exec(context.Background(),
		`INSERT INTO employees (id, company_id, first_name, last_name) VALUES ($1, $2, $3, $4)`,
		id, companyID, firstName, lastName)
	require.NoError(t, err)
	return id
}

func (s *TestDatabaseSetup) CreateUser(t *testing.T, email, role string, employeeID, companyID *string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := s.DB.Exec(context.Background(),
		`INSERT INTO users (id, email, password_hash, role, employee_id, company_id) VALUES ($1, $2, 'hash', $3, $4, $5)`,
		id, email, role, employeeID, companyID)
	require.NoError(t, err)
	return id
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
