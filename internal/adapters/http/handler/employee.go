package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/codex-records-api/internal/core/employee"
)

// EmployeeHandler は社員 API の HTTP 実装です。
type EmployeeHandler struct {
	svc    employee.UseCase
	logger *slog.Logger
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, logger: logger}
}

type createEmployeeRequest struct {
	Name       *string    `json:"name" validate:"required"`
	Position   *string    `json:"position" validate:"required"`
	Department *string    `json:"department" validate:"required"`
	Salary     *float64   `json:"salary" validate:"required"`
	HireDate   *dateValue `json:"hireDate" validate:"required"`
	Email      *string    `json:"email" validate:"required,email"`
}

type updateEmployeeRequest struct {
	Name       *string    `json:"name"`
	Position   *string    `json:"position"`
	Department *string    `json:"department"`
	Salary     *float64   `json:"salary"`
	HireDate   *dateValue `json:"hireDate"`
	Email      *string    `json:"email" validate:"omitempty,email"`
}

type employeeResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Salary     float64   `json:"salary"`
	HireDate   time.Time `json:"hireDate"`
	Email      string    `json:"email"`
}

// Routes は /employees 以下のルートを登録します。
func (h *EmployeeHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.svc.CreateEmployee(r.Context(), employee.CreateEmployeeInput{
		Name:       *req.Name,
		Position:   *req.Position,
		Department: *req.Department,
		Salary:     *req.Salary,
		HireDate:   req.HireDate.Time,
		Email:      *req.Email,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeResponse(created))
}

func (h *EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.svc.ListEmployees(r.Context(), employee.ListEmployeesInput{
		Page:  q.Get("page"),
		Limit: q.Get("limit"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, mapPage(result, toEmployeeResponse))
}

func (h *EmployeeHandler) get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetEmployee(r.Context(), employee.GetEmployeeInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(found))
}

func (h *EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	in := employee.UpdateEmployeeInput{
		ID:         chi.URLParam(r, "id"),
		Name:       req.Name,
		Position:   req.Position,
		Department: req.Department,
		Salary:     req.Salary,
		Email:      req.Email,
	}
	if req.HireDate != nil {
		hireDate := req.HireDate.Time
		in.HireDate = &hireDate
	}

	updated, err := h.svc.UpdateEmployee(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(updated))
}

func (h *EmployeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeleteEmployee(r.Context(), employee.DeleteEmployeeInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(deleted))
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Position:   e.Position,
		Department: e.Department,
		Salary:     e.Salary,
		HireDate:   e.HireDate,
		Email:      e.Email,
	}
}
