// Package document はドキュメントストア上にリソースごとのリポジトリを実装します。
package document

import (
	"errors"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
)

// コレクション名です。PostgreSQL ではテーブル名、MongoDB ではコレクション名として使用されます。
const (
	TasksCollection     = "tasks"
	EmployeesCollection = "employees"
	PaymentsCollection  = "payments"
)

// Repositories はストアから生成した全リポジトリです。
type Repositories struct {
	Tasks     *TaskRepository
	Employees *EmployeeRepository
	Payments  *PaymentRepository
}

// NewRepositories はストアの各コレクションに対するリポジトリを生成します。
func NewRepositories(store docstore.Store) Repositories {
	return Repositories{
		Tasks:     NewTaskRepository(store.Collection(TasksCollection)),
		Employees: NewEmployeeRepository(store.Collection(EmployeesCollection)),
		Payments:  NewPaymentRepository(store.Collection(PaymentsCollection)),
	}
}

// translateNotFound は docstore.ErrNotFound をドメインのエラーへ置き換えます。
func translateNotFound(err, notFound error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return notFound
	}
	return err
}

func utc(t time.Time) time.Time {
	return t.UTC()
}
