package payment

import "time"

// Status は支払いの状態を表します。状態間の遷移に制約はありません。
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// IsValid は定義済みの状態かを返します。
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Payment は支払いエンティティです。EmployeeID は社員への弱参照です。
type Payment struct {
	ID         string
	EmployeeID string
	Amount     float64
	Date       time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
