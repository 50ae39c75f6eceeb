package employee

import "time"

// Employee は社員エンティティです。Email は全社員で一意です。
type Employee struct {
	ID         string
	Name       string
	Position   string
	Department string
	Salary     float64
	HireDate   time.Time
	Email      string
}
