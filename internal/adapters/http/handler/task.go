package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/codex-records-api/internal/core/pagination"
	"github.com/ogurasousui/codex-records-api/internal/core/task"
)

// TaskHandler はタスク API の HTTP 実装です。
type TaskHandler struct {
	svc    task.UseCase
	logger *slog.Logger
}

// NewTaskHandler は TaskHandler を生成します。
func NewTaskHandler(svc task.UseCase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

type createTaskRequest struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Routes は /tasks 以下のルートを登録します。
func (h *TaskHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.svc.CreateTask(r.Context(), task.CreateTaskInput{
		Title:       *req.Title,
		Description: req.Description,
		Status:      toTaskStatus(req.Status),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(created))
}

func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.svc.ListTasks(r.Context(), task.ListTasksInput{
		Page:   q.Get("page"),
		Limit:  q.Get("limit"),
		Status: toTaskStatus(optionalQuery(q.Get("status"))),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, mapPage(result, toTaskResponse))
}

func (h *TaskHandler) get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetTask(r.Context(), task.GetTaskInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(found))
}

func (h *TaskHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.svc.UpdateTask(r.Context(), task.UpdateTaskInput{
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      toTaskStatus(req.Status),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(updated))
}

func (h *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeleteTask(r.Context(), task.DeleteTaskInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(deleted))
}

func toTaskStatus(raw *string) *task.Status {
	if raw == nil {
		return nil
	}
	status := task.Status(*raw)
	return &status
}

func toTaskResponse(t *task.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// mapPage はエンベロープの要素をレスポンス用の型へ変換します。
func mapPage[T, R any](page *pagination.PageResult[T], fn func(T) R) *pagination.PageResult[R] {
	data := make([]R, 0, len(page.Data))
	for _, item := range page.Data {
		data = append(data, fn(item))
	}
	return &pagination.PageResult[R]{
		Data:        data,
		TotalCount:  page.TotalCount,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	}
}
