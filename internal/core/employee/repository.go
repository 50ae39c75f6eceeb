package employee

import (
	"context"
	"time"
)

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	// FindByEmail は email が完全一致する社員を返します。excludeID が空でなければその社員を除外します。
	FindByEmail(ctx context.Context, email, excludeID string) (*Employee, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit, skip int) ([]*Employee, error)
	Update(ctx context.Context, id string, patch Patch) (*Employee, error)
	Delete(ctx context.Context, id string) (*Employee, error)
}

// Patch は部分更新の内容です。nil のフィールドは変更しません。
type Patch struct {
	Name       *string
	Position   *string
	Department *string
	Salary     *float64
	HireDate   *time.Time
	Email      *string
}

// IsEmpty は変更内容が無いかを返します。
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Position == nil && p.Department == nil &&
		p.Salary == nil && p.HireDate == nil && p.Email == nil
}
