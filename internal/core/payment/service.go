package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/core/employee"
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

// Service は支払いに関するユースケースをまとめます。
type Service struct {
	repo      Repository
	employees EmployeeReader
	clock     Clock
	logger    *slog.Logger
}

// UseCase は支払いユースケースの公開インターフェースです。
type UseCase interface {
	CreatePayment(ctx context.Context, in CreatePaymentInput) (*Payment, error)
	ListEmployeePayments(ctx context.Context, in ListEmployeePaymentsInput) (*pagination.PageResult[*Payment], error)
	UpdatePaymentStatus(ctx context.Context, in UpdatePaymentStatusInput) (*Payment, error)
	DeletePayment(ctx context.Context, in DeletePaymentInput) (*Payment, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, employees EmployeeReader, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:      repo,
		employees: employees,
		clock:     clock,
		logger:    logger.With("service", "payments"),
	}
}

// CreatePaymentInput は支払い作成時の入力です。全フィールドが必須です。
type CreatePaymentInput struct {
	EmployeeID string
	Amount     float64
	Date       time.Time
	Status     Status
}

// ListEmployeePaymentsInput は社員単位の一覧取得時の入力です。
type ListEmployeePaymentsInput struct {
	EmployeeID string
	Page       string
	Limit      string
	Status     *Status
}

// UpdatePaymentStatusInput は状態更新時の入力です。
type UpdatePaymentStatusInput struct {
	ID     string
	Status Status
}

// DeletePaymentInput は支払い削除時の入力です。
type DeletePaymentInput struct {
	ID string
}

// CreatePayment は支払いを作成します。参照先の社員が存在しない場合は作成しません。
func (s *Service) CreatePayment(ctx context.Context, in CreatePaymentInput) (*Payment, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return nil, ErrInvalidAmount
	}

	if !in.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if in.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	s.logger.InfoContext(ctx, "creating payment", "employee_id", employeeID)

	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			s.logger.WarnContext(ctx, "employee not found", "employee_id", employeeID)
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("resolve employee %s: %w", employeeID, err)
	}

	now := s.clock.Now()
	created, err := s.repo.Create(ctx, &Payment{
		EmployeeID: employeeID,
		Amount:     in.Amount,
		Date:       in.Date.UTC(),
		Status:     in.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListEmployeePayments は指定社員の支払い一覧を取得します。状態が指定された場合は完全一致で絞り込みます。
func (s *Service) ListEmployeePayments(ctx context.Context, in ListEmployeePaymentsInput) (*pagination.PageResult[*Payment], error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	req := pagination.NewPageRequest(in.Page, in.Limit)
	filter := ListFilter{EmployeeID: employeeID}
	if in.Status != nil {
		status := *in.Status
		filter.Status = &status
	}

	s.logger.InfoContext(ctx, "fetching payments", "employee_id", employeeID, "page", req.Page, "limit", req.Limit)

	return pagination.Fetch(ctx, req,
		func(ctx context.Context) (int64, error) {
			return s.repo.Count(ctx, filter)
		},
		func(ctx context.Context, limit, skip int) ([]*Payment, error) {
			return s.repo.List(ctx, filter, limit, skip)
		},
	)
}

// UpdatePaymentStatus は支払いの状態のみを更新します。
func (s *Service) UpdatePaymentStatus(ctx context.Context, in UpdatePaymentStatusInput) (*Payment, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}
	if !in.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	s.logger.InfoContext(ctx, "updating payment status", "id", id, "status", in.Status)

	updated, err := s.repo.UpdateStatus(ctx, id, in.Status, s.clock.Now())
	if err != nil {
		s.warnNotFound(ctx, err, id)
		return nil, err
	}
	return updated, nil
}

// DeletePayment は支払いを削除し、削除した支払いを返します。
func (s *Service) DeletePayment(ctx context.Context, in DeletePaymentInput) (*Payment, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "removing payment", "id", id)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.warnNotFound(ctx, err, id)
		return nil, err
	}
	return deleted, nil
}

func (s *Service) warnNotFound(ctx context.Context, err error, id string) {
	if errors.Is(err, ErrPaymentNotFound) {
		s.logger.WarnContext(ctx, "payment not found", "id", id)
	}
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return trimmed, nil
}
