package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
	"github.com/ogurasousui/codex-records-api/internal/core/employee"
)

// EmployeeRepository はドキュメントストアを利用した社員永続化の実装です。
//
// email の一意性はストア側の一意インデックスでも担保し、重複は ErrEmailAlreadyExists として返します。
type EmployeeRepository struct {
	coll docstore.Collection
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(coll docstore.Collection) *EmployeeRepository {
	return &EmployeeRepository{coll: coll}
}

// Create は社員を保存します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	inserted, err := r.coll.Insert(ctx, docstore.Document{
		"name":       e.Name,
		"position":   e.Position,
		"department": e.Department,
		"salary":     e.Salary,
		"hireDate":   utc(e.HireDate),
		"email":      e.Email,
	})
	if err != nil {
		return nil, translateEmployeeError("insert", err)
	}
	return employeeFromDocument(inserted), nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	doc, err := r.coll.FindByID(ctx, id)
	if err != nil {
		return nil, translateEmployeeError("find", err)
	}
	return employeeFromDocument(doc), nil
}

// FindByEmail は email が一致する社員を返します。excludeID が指定された場合はその社員を除外します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email, excludeID string) (*employee.Employee, error) {
	filter := docstore.Where("email", email)
	if excludeID != "" {
		filter = filter.ExcludingID(excludeID)
	}

	doc, err := r.coll.FindOne(ctx, filter)
	if err != nil {
		return nil, translateEmployeeError("find by email", err)
	}
	return employeeFromDocument(doc), nil
}

// Count は社員数を返します。
func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.Count(ctx, docstore.Filter{})
	if err != nil {
		return 0, fmt.Errorf("document: count employees: %w", err)
	}
	return n, nil
}

// List は社員を作成順に返します。
func (r *EmployeeRepository) List(ctx context.Context, limit, skip int) ([]*employee.Employee, error) {
	docs, err := r.coll.Find(ctx, docstore.Filter{}, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("document: list employees: %w", err)
	}

	employees := make([]*employee.Employee, 0, len(docs))
	for _, doc := range docs {
		employees = append(employees, employeeFromDocument(doc))
	}
	return employees, nil
}

// Update は patch の非 nil フィールドを反映します。
func (r *EmployeeRepository) Update(ctx context.Context, id string, patch employee.Patch) (*employee.Employee, error) {
	doc := docstore.Document{}
	if patch.Name != nil {
		doc["name"] = *patch.Name
	}
	if patch.Position != nil {
		doc["position"] = *patch.Position
	}
	if patch.Department != nil {
		doc["department"] = *patch.Department
	}
	if patch.Salary != nil {
		doc["salary"] = *patch.Salary
	}
	if patch.HireDate != nil {
		doc["hireDate"] = utc(*patch.HireDate)
	}
	if patch.Email != nil {
		doc["email"] = *patch.Email
	}

	updated, err := r.coll.UpdateByID(ctx, id, doc)
	if err != nil {
		return nil, translateEmployeeError("update", err)
	}
	return employeeFromDocument(updated), nil
}

// Delete は社員を削除し、削除した社員を返します。支払いは削除しません。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*employee.Employee, error) {
	deleted, err := r.coll.DeleteByID(ctx, id)
	if err != nil {
		return nil, translateEmployeeError("delete", err)
	}
	return employeeFromDocument(deleted), nil
}

func translateEmployeeError(op string, err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return employee.ErrEmployeeNotFound
	case errors.Is(err, docstore.ErrDuplicate):
		return employee.ErrEmailAlreadyExists
	default:
		return fmt.Errorf("document: %s employee: %w", op, err)
	}
}

func employeeFromDocument(doc docstore.Document) *employee.Employee {
	return &employee.Employee{
		ID:         doc.ID(),
		Name:       doc.String("name"),
		Position:   doc.String("position"),
		Department: doc.String("department"),
		Salary:     doc.Float("salary"),
		HireDate:   doc.Time("hireDate"),
		Email:      doc.String("email"),
	}
}
