package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckIn(employeeID string, date time.Time, hour int) attendance.Attendance {
	location := "Head office"
	return attendance.Attendance{
		EmployeeID:      employeeID,
		Date:            date,
		CheckInTime:     date.Add(time.Duration(hour) * time.Hour),
		CheckInLocation: &location,
	}
}

func TestAttendanceRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	companyID := setup.CreateCompany(t, "Acme")
	employeeID := setup.CreateEmployee(t, companyID, "Alice", "Doe")
	day := utcDate(2025, time.March, 3)

	created, err := repo.Create(ctx, newCheckIn(employeeID, day, 1))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.CheckOutTime)

	got, err := repo.GetByID(ctx, created.ID, false)
	require.NoError(t, err)
	require.NotNil(t, got.Employee)
	require.NotNil(t, got.Employee.Company)
	assert.Equal(t, "Alice Doe", got.Employee.FullName())
	assert.Equal(t, companyID, got.Employee.Company.ID)
	assert.True(t, got.Date.Equal(day))

	found, err := repo.GetByEmployeeAndDate(ctx, employeeID, day, false)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := repo.GetByEmployeeAndDate(ctx, employeeID, day.AddDate(0, 0, 1), false)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_DuplicateDay(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	employeeID := setup.CreateEmployee(t, setup.CreateCompany(t, "Acme"), "Alice", "Doe")
	day := utcDate(2025, time.March, 3)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
		passed int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, newCheckIn(employeeID, day, 1))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			passed++
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, passed)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], attendance.ErrDuplicateAttendance)
}

func TestAttendanceRepository_UpdateAndSoftDelete(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	employeeID := setup.CreateEmployee(t, setup.CreateCompany(t, "Acme"), "Alice", "Doe")
	day := utcDate(2025, time.March, 3)

	created, err := repo.Create(ctx, newCheckIn(employeeID, day, 1))
	require.NoError(t, err)

	checkOut := day.Add(10 * time.Hour)
	created.CheckOutTime = &checkOut
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	require.NotNil(t, updated.CheckOutTime)
	assert.True(t, updated.CheckOutTime.Equal(checkOut))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, repo.SoftDelete(ctx, created.ID))
	assert.ErrorIs(t, repo.SoftDelete(ctx, created.ID), attendance.ErrAttendanceNotFound)

	_, err = repo.GetByID(ctx, created.ID, false)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = repo.Update(ctx, created)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	// The day is free again once the record is gone.
	_, err = repo.Create(ctx, newCheckIn(employeeID, day, 2))
	assert.NoError(t, err)
}

func TestAttendanceRepository_List(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	companyA := setup.CreateCompany(t, "Acme")
	companyB := setup.CreateCompany(t, "Globex")
	alice := setup.CreateEmployee(t, companyA, "Alice", "Doe")
	bob := setup.CreateEmployee(t, companyA, "Bob", "Roe")
	carol := setup.CreateEmployee(t, companyB, "Carol", "Poe")

	start := utcDate(2025, time.March, 1)
	for i := 0; i < 5; i++ {
		for _, employeeID := range []string{alice, bob, carol} {
			_, err := repo.Create(ctx, newCheckIn(employeeID, start.AddDate(0, 0, i), 1))
			require.NoError(t, err)
		}
	}

	t.Run("unrestricted page", func(t *testing.T) {
		rows, total, err := repo.List(ctx, attendance.ListQuery{Limit: 4})
		require.NoError(t, err)
		assert.EqualValues(t, 15, total)
		require.Len(t, rows, 4)
		for i := 1; i < len(rows); i++ {
			assert.False(t, rows[i].CreatedAt.After(rows[i-1].CreatedAt), "rows must be newest first")
		}
	})

	t.Run("company scope", func(t *testing.T) {
		rows, total, err := repo.List(ctx, attendance.ListQuery{
			Scope: attendance.Scope{CompanyID: &companyA},
			Limit: 100,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 10, total)
		for _, row := range rows {
			assert.Equal(t, companyA, row.Employee.CompanyID)
		}
	})

	t.Run("employee scope intersects filter", func(t *testing.T) {
		_, total, err := repo.List(ctx, attendance.ListQuery{
			Scope:      attendance.Scope{EmployeeID: &alice},
			EmployeeID: &bob,
			Limit:      10,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		from := start.AddDate(0, 0, 1)
		to := start.AddDate(0, 0, 2)
		rows, total, err := repo.List(ctx, attendance.ListQuery{
			EmployeeID: &carol,
			FromDate:   &from,
			ToDate:     &to,
			Limit:      10,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, rows, 2)
	})

	t.Run("offset past the end", func(t *testing.T) {
		rows, total, err := repo.List(ctx, attendance.ListQuery{Limit: 10, Offset: 50})
		require.NoError(t, err)
		assert.EqualValues(t, 15, total)
		assert.Empty(t, rows)
	})
}

func TestAttendanceRepository_LockedLookupInTransaction(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	employeeID := setup.CreateEmployee(t, setup.CreateCompany(t, "Acme"), "Alice", "Doe")
	day := utcDate(2025, time.March, 3)
	created, err := repo.Create(ctx, newCheckIn(employeeID, day, 1))
	require.NoError(t, err)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := repo.GetByEmployeeAndDate(ctx, employeeID, day, true)
		if err != nil {
			return err
		}
		require.NotNil(t, locked)

		byID, err := repo.GetByID(ctx, created.ID, true)
		if err != nil {
			return err
		}
		assert.Equal(t, locked.ID, byID.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestAttendanceRepository_ListOpenBefore(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	companyID := setup.CreateCompany(t, "Acme")
	alice := setup.CreateEmployee(t, companyID, "Alice", "Doe")
	bob := setup.CreateEmployee(t, companyID, "Bob", "Roe")
	today := utcDate(2025, time.March, 5)

	staleAlice, err := repo.Create(ctx, newCheckIn(alice, today.AddDate(0, 0, -2), 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCheckIn(alice, today, 1))
	require.NoError(t, err)

	closed := newCheckIn(bob, today.AddDate(0, 0, -1), 1)
	checkOut := closed.CheckInTime.Add(8 * time.Hour)
	closed.CheckOutTime = &checkOut
	_, err = repo.Create(ctx, closed)
	require.NoError(t, err)

	staleBob, err := repo.Create(ctx, newCheckIn(bob, today.AddDate(0, 0, -3), 1))
	require.NoError(t, err)

	all, err := repo.ListOpenBefore(ctx, nil, today, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, staleBob.ID, all[0].ID, "oldest first")
	assert.Equal(t, staleAlice.ID, all[1].ID)

	onlyAlice, err := repo.ListOpenBefore(ctx, &alice, today, false)
	require.NoError(t, err)
	require.Len(t, onlyAlice, 1)
	assert.Equal(t, staleAlice.ID, onlyAlice[0].ID)
	require.NotNil(t, onlyAlice[0].Employee)

	err = postgresql.NewTransactor(setup.DB).WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := repo.ListOpenBefore(ctx, &bob, today, true)
		return err
	})
	assert.NoError(t, err)
}
