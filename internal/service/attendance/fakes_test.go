package attendance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
	"github.com/google/uuid"
)

type fakeTransactor struct{ calls int }

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type memoryEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (m *memoryEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok || e.IsDeleted() {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// memoryAttendanceRepo mirrors the PostgreSQL repository: the partial unique
// index on (employee_id, date), soft deletes and joined reads.
type memoryAttendanceRepo struct {
	mu        sync.Mutex
	records   map[string]attendance.Attendance
	employees *memoryEmployeeRepo
	created   time.Time

	// staleLookup makes GetByEmployeeAndDate miss, as a concurrent request would.
	staleLookup bool
	createErr   error
	updateErr   error
}

func newMemoryAttendanceRepo(employees *memoryEmployeeRepo) *memoryAttendanceRepo {
	return &memoryAttendanceRepo{
		records:   make(map[string]attendance.Attendance),
		employees: employees,
		created:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryAttendanceRepo) join(a attendance.Attendance) attendance.Attendance {
	if e, ok := m.employees.employees[a.EmployeeID]; ok {
		a.Employee = &e
	}
	return a
}

func (m *memoryAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return attendance.Attendance{}, m.createErr
	}
	for _, r := range m.records {
		if r.DeletedAt == nil && r.EmployeeID == a.EmployeeID && r.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance
		}
	}

	m.created = m.created.Add(time.Second)
	a.ID = uuid.NewString()
	a.CreatedAt = m.created
	a.UpdatedAt = m.created
	m.records[a.ID] = a
	return m.join(a), nil
}

func (m *memoryAttendanceRepo) GetByID(ctx context.Context, id string, forUpdate bool) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok || r.DeletedAt != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return m.join(r), nil
}

func (m *memoryAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, forUpdate bool) (*attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.staleLookup {
		return nil, nil
	}
	for _, r := range m.records {
		if r.DeletedAt == nil && r.EmployeeID == employeeID && r.Date.Equal(date) {
			joined := m.join(r)
			return &joined, nil
		}
	}
	return nil, nil
}

func (m *memoryAttendanceRepo) ListOpenBefore(ctx context.Context, employeeID *string, date time.Time, forUpdate bool) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var open []attendance.Attendance
	for _, r := range m.records {
		switch {
		case r.DeletedAt != nil, r.CheckOutTime != nil, !r.Date.Before(date):
			continue
		case employeeID != nil && r.EmployeeID != *employeeID:
			continue
		}
		open = append(open, m.join(r))
	}
	sort.Slice(open, func(i, j int) bool {
		if !open[i].Date.Equal(open[j].Date) {
			return open[i].Date.Before(open[j].Date)
		}
		return open[i].ID < open[j].ID
	})
	return open, nil
}

// openCount counts live records without a check-out for one employee.
func (m *memoryAttendanceRepo) openCount(employeeID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range m.records {
		if r.EmployeeID == employeeID && attendance.StateOf(&r) == attendance.StateOpen {
			n++
		}
	}
	return n
}

func (m *memoryAttendanceRepo) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateErr != nil {
		return attendance.Attendance{}, m.updateErr
	}
	r, ok := m.records[a.ID]
	if !ok || r.DeletedAt != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	r.CheckInPhoto = a.CheckInPhoto
	r.CheckInLocation = a.CheckInLocation
	r.CheckOutTime = a.CheckOutTime
	r.CheckOutPhoto = a.CheckOutPhoto
	r.CheckOutLocation = a.CheckOutLocation
	r.UpdatedAt = r.UpdatedAt.Add(time.Minute)
	m.records[a.ID] = r
	return r, nil
}

func (m *memoryAttendanceRepo) SoftDelete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok || r.DeletedAt != nil {
		return attendance.ErrAttendanceNotFound
	}
	now := time.Now()
	r.DeletedAt = &now
	m.records[id] = r
	return nil
}

func (m *memoryAttendanceRepo) List(ctx context.Context, q attendance.ListQuery) ([]attendance.Attendance, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []attendance.Attendance
	for _, r := range m.records {
		r = m.join(r)
		switch {
		case r.DeletedAt != nil, !q.Scope.Matches(r):
			continue
		case q.EmployeeID != nil && r.EmployeeID != *q.EmployeeID:
			continue
		case q.FromDate != nil && r.Date.Before(*q.FromDate):
			continue
		case q.ToDate != nil && r.Date.After(*q.ToDate):
			continue
		}
		matched = append(matched, r)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return []attendance.Attendance{}, total, nil
	}
	end := min(q.Offset+q.Limit, len(matched))
	return matched[q.Offset:end], total, nil
}

// recordingFileService wraps a real file service and remembers deletions.
type recordingFileService struct {
	file.FileService
	uploadErr error
	deleted   []string
}

func (r *recordingFileService) UploadAttendancePhoto(ctx context.Context, employeeID string, date time.Time, kind file.PhotoKind, payload string) (string, error) {
	if r.uploadErr != nil {
		return "", r.uploadErr
	}
	return r.FileService.UploadAttendancePhoto(ctx, employeeID, date, kind, payload)
}

func (r *recordingFileService) DeleteFile(ctx context.Context, key string) error {
	r.deleted = append(r.deleted, key)
	return r.FileService.DeleteFile(ctx, key)
}

var errStoreDown = errors.New("store unavailable")
