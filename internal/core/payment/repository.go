package payment

import (
	"context"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/core/employee"
)

// Repository は支払い永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, payment *Payment) (*Payment, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	List(ctx context.Context, filter ListFilter, limit, skip int) ([]*Payment, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) (*Payment, error)
	Delete(ctx context.Context, id string) (*Payment, error)
}

// ListFilter は一覧取得用フィルタです。EmployeeID は必須です。
type ListFilter struct {
	EmployeeID string
	Status     *Status
}

// EmployeeReader は支払い作成時に参照先社員を解決します。
type EmployeeReader interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}
