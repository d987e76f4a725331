package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	RecordAction(w http.ResponseWriter, r *http.Request)
	GetTodayStatus(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// RecordAction implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordAction(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	// An empty body is a plain check-in/out without location data.
	var req attendance.RecordActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("RecordAction decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	result, transition, err := h.attendanceService.RecordAction(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if transition == attendance.TransitionCheckedIn {
		response.Created(w, "Checked in successfully", result)
		return
	}
	response.Success(w, "Checked out successfully", result)
}

// GetTodayStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetTodayStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetTodayStatus(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Today's attendance retrieved successfully", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := attendance.AttendanceFilter{}

	if fromDate := query.Get("fromDate"); fromDate != "" {
		filter.FromDate = &fromDate
	}
	if toDate := query.Get("toDate"); toDate != "" {
		filter.ToDate = &toDate
	}
	if employeeID := query.Get("employeeId"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	// Pagination
	var errs validator.ValidationErrors
	limit, ok := validator.ParseNonNegativeInt(query.Get("limit"), attendance.DefaultLimit)
	if !ok {
		errs.Add("limit", "must be a non-negative integer")
	}
	offset, ok := validator.ParseNonNegativeInt(query.Get("offset"), 0)
	if !ok {
		errs.Add("offset", "must be a non-negative integer")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}
	filter.Limit = limit
	filter.Offset = offset

	result, err := h.attendanceService.List(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, "Attendances retrieved successfully", result.Data, result.Meta)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Attendance retrieved successfully", result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.Update(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Attendance updated successfully", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	if err := h.attendanceService.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Attendance deleted successfully", nil)
}

func principalFrom(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
	}
	return principal, ok
}
