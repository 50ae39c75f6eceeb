package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ogurasousui/codex-records-api/internal/core/pagination"
)

var validate = validator.New()

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*pagination.PageResult[*Employee], error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger.With("service", "employees")}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Name       string
	Position   string
	Department string
	Salary     float64
	HireDate   time.Time
	Email      string
}

// UpdateEmployeeInput は社員更新時の入力です。
type UpdateEmployeeInput struct {
	ID         string
	Name       *string
	Position   *string
	Department *string
	Salary     *float64
	HireDate   *time.Time
	Email      *string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	Page  string
	Limit string
}

// CreateEmployee は新しい社員を作成します。同じ email の社員が存在する場合は作成しません。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	name, err := requireText(in.Name, ErrInvalidName)
	if err != nil {
		return nil, err
	}
	position, err := requireText(in.Position, ErrInvalidPosition)
	if err != nil {
		return nil, err
	}
	department, err := requireText(in.Department, ErrInvalidDepartment)
	if err != nil {
		return nil, err
	}
	if err := validateSalary(in.Salary); err != nil {
		return nil, err
	}
	if in.HireDate.IsZero() {
		return nil, ErrInvalidHireDate
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "creating employee", "email", email)

	if err := s.ensureEmailNotExists(ctx, email, ""); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Employee{
		Name:       name,
		Position:   position,
		Department: department,
		Salary:     in.Salary,
		HireDate:   in.HireDate.UTC(),
		Email:      email,
	})
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			s.logger.WarnContext(ctx, "email already exists", "email", email)
		}
		return nil, err
	}
	return created, nil
}

// ListEmployees は社員の一覧を取得します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*pagination.PageResult[*Employee], error) {
	req := pagination.NewPageRequest(in.Page, in.Limit)

	s.logger.InfoContext(ctx, "fetching employees", "page", req.Page, "limit", req.Limit)

	return pagination.Fetch(ctx, req,
		s.repo.Count,
		func(ctx context.Context, limit, skip int) ([]*Employee, error) {
			return s.repo.List(ctx, limit, skip)
		},
	)
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "fetching employee", "id", id)

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.warnNotFound(ctx, err, id)
		return nil, err
	}
	return found, nil
}

// UpdateEmployee は社員情報を部分更新します。
// email を変更する場合、他の社員が同じ email を持っていれば更新前に失敗します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var patch Patch

	if in.Name != nil {
		name, err := requireText(*in.Name, ErrInvalidName)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}

	if in.Position != nil {
		position, err := requireText(*in.Position, ErrInvalidPosition)
		if err != nil {
			return nil, err
		}
		patch.Position = &position
	}

	if in.Department != nil {
		department, err := requireText(*in.Department, ErrInvalidDepartment)
		if err != nil {
			return nil, err
		}
		patch.Department = &department
	}

	if in.Salary != nil {
		if err := validateSalary(*in.Salary); err != nil {
			return nil, err
		}
		salary := *in.Salary
		patch.Salary = &salary
	}

	if in.HireDate != nil {
		if in.HireDate.IsZero() {
			return nil, ErrInvalidHireDate
		}
		hireDate := in.HireDate.UTC()
		patch.HireDate = &hireDate
	}

	s.logger.InfoContext(ctx, "updating employee", "id", id)

	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if err := s.ensureEmailNotExists(ctx, email, id); err != nil {
			return nil, err
		}
		patch.Email = &email
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.warnNotFound(ctx, err, id)
		return nil, err
	}
	return updated, nil
}

// DeleteEmployee は社員を削除し、削除した社員を返します。関連する支払いは変更しません。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "removing employee", "id", id)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.warnNotFound(ctx, err, id)
		return nil, err
	}
	return deleted, nil
}

func (s *Service) ensureEmailNotExists(ctx context.Context, email, excludeID string) error {
	emp, err := s.repo.FindByEmail(ctx, email, excludeID)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if emp != nil {
		s.logger.WarnContext(ctx, "email already exists", "email", email)
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) warnNotFound(ctx context.Context, err error, id string) {
	if errors.Is(err, ErrEmployeeNotFound) {
		s.logger.WarnContext(ctx, "employee not found", "id", id)
	}
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return trimmed, nil
}

func requireText(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func validateSalary(salary float64) error {
	if math.IsNaN(salary) || math.IsInf(salary, 0) {
		return ErrInvalidSalary
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	if err := validate.Var(trimmed, "email"); err != nil {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}
