package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/core/pagination"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service はタスクに関するユースケースをまとめます。
type Service struct {
	repo   Repository
	clock  Clock
	logger *slog.Logger
}

// UseCase はタスクユースケースの公開インターフェースです。
type UseCase interface {
	CreateTask(ctx context.Context, in CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, in GetTaskInput) (*Task, error)
	ListTasks(ctx context.Context, in ListTasksInput) (*pagination.PageResult[*Task], error)
	UpdateTask(ctx context.Context, in UpdateTaskInput) (*Task, error)
	DeleteTask(ctx context.Context, in DeleteTaskInput) (*Task, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, clock: clock, logger: logger.With("service", "tasks")}
}

// CreateTaskInput はタスク作成時の入力です。
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *Status
}

// UpdateTaskInput はタスク更新時の入力です。
type UpdateTaskInput struct {
	ID          string
	Title       *string
	Description *string
	Status      *Status
}

// GetTaskInput はタスク取得時の入力です。
type GetTaskInput struct {
	ID string
}

// DeleteTaskInput はタスク削除時の入力です。
type DeleteTaskInput struct {
	ID string
}

// ListTasksInput は一覧取得時の入力です。Page / Limit はクエリ文字列のまま受け取ります。
type ListTasksInput struct {
	Page   string
	Limit  string
	Status *Status
}

// CreateTask は新しいタスクを作成します。状態の既定値は OPEN です。
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}

	status := StatusOpen
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	s.logger.InfoContext(ctx, "creating task", "title", title)

	now := s.clock.Now()
	created, err := s.repo.Create(ctx, &Task{
		Title:       title,
		Description: cloneString(in.Description),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListTasks はタスクの一覧を取得します。状態が指定された場合は完全一致で絞り込みます。
func (s *Service) ListTasks(ctx context.Context, in ListTasksInput) (*pagination.PageResult[*Task], error) {
	req := pagination.NewPageRequest(in.Page, in.Limit)

	var filter ListFilter
	if in.Status != nil {
		status := *in.Status
		filter.Status = &status
	}

	s.logger.InfoContext(ctx, "fetching tasks", "page", req.Page, "limit", req.Limit)

	return pagination.Fetch(ctx, req,
		func(ctx context.Context) (int64, error) {
			return s.repo.Count(ctx, filter)
		},
		func(ctx context.Context, limit, skip int) ([]*Task, error) {
			return s.repo.List(ctx, filter, limit, skip)
		},
	)
}

// GetTask はタスクを取得します。
func (s *Service) GetTask(ctx context.Context, in GetTaskInput) (*Task, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "fetching task", "id", id)

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.warnNotFound(ctx, err, id)
		return nil, err
	}
	return found, nil
}

// UpdateTask はタスクを部分更新します。
func (s *Service) UpdateTask(ctx context.Context, in UpdateTaskInput) (*Task, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	patch := Patch{UpdatedAt: s.clock.Now()}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrInvalidTitle
		}
		patch.Title = &title
	}

	if in.Description != nil {
		patch.Description = cloneString(in.Description)
	}

	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		patch.Status = &status
	}

	s.logger.InfoContext(ctx, "updating task", "id", id)

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.warnNotFound(ctx, err, id)
		return nil, err
	}
	return updated, nil
}

// DeleteTask はタスクを削除し、削除したタスクを返します。
func (s *Service) DeleteTask(ctx context.Context, in DeleteTaskInput) (*Task, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "removing task", "id", id)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.warnNotFound(ctx, err, id)
		return nil, err
	}
	return deleted, nil
}

func (s *Service) warnNotFound(ctx context.Context, err error, id string) {
	if errors.Is(err, ErrTaskNotFound) {
		s.logger.WarnContext(ctx, "task not found", "id", id)
	}
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return trimmed, nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
