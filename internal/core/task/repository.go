package task

import (
	"context"
	"time"
)

// Repository はタスク永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, task *Task) (*Task, error)
	FindByID(ctx context.Context, id string) (*Task, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	List(ctx context.Context, filter ListFilter, limit, skip int) ([]*Task, error)
	Update(ctx context.Context, id string, patch Patch) (*Task, error)
	Delete(ctx context.Context, id string) (*Task, error)
}

// ListFilter は一覧取得用フィルタです。
type ListFilter struct {
	Status *Status
}

// Patch は部分更新の内容です。nil のフィールドは変更しません。
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
	UpdatedAt   time.Time
}
