package document

import (
	"context"
	"fmt"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
	"github.com/ogurasousui/codex-records-api/internal/core/payment"
)

// PaymentRepository はドキュメントストアを利用した支払い永続化の実装です。
type PaymentRepository struct {
	coll docstore.Collection
}

// NewPaymentRepository は PaymentRepository を生成します。
func NewPaymentRepository(coll docstore.Collection) *PaymentRepository {
	return &PaymentRepository{coll: coll}
}

// Create は支払いを保存します。
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) (*payment.Payment, error) {
	inserted, err := r.coll.Insert(ctx, docstore.Document{
		"employeeId": p.EmployeeID,
		"amount":     p.Amount,
		"date":       utc(p.Date),
		"status":     string(p.Status),
		"createdAt":  utc(p.CreatedAt),
		"updatedAt":  utc(p.UpdatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("document: insert payment: %w", err)
	}
	return paymentFromDocument(inserted), nil
}

// Count は条件に一致する支払い数を返します。
func (r *PaymentRepository) Count(ctx context.Context, filter payment.ListFilter) (int64, error) {
	n, err := r.coll.Count(ctx, paymentFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("document: count payments: %w", err)
	}
	return n, nil
}

// List は条件に一致する支払いを作成順に返します。
func (r *PaymentRepository) List(ctx context.Context, filter payment.ListFilter, limit, skip int) ([]*payment.Payment, error) {
	docs, err := r.coll.Find(ctx, paymentFilter(filter), limit, skip)
	if err != nil {
		return nil, fmt.Errorf("document: list payments: %w", err)
	}

	payments := make([]*payment.Payment, 0, len(docs))
	for _, doc := range docs {
		payments = append(payments, paymentFromDocument(doc))
	}
	return payments, nil
}

// UpdateStatus は状態と更新日時のみを変更します。
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status payment.Status, updatedAt time.Time) (*payment.Payment, error) {
	updated, err := r.coll.UpdateByID(ctx, id, docstore.Document{
		"status":    string(status),
		"updatedAt": utc(updatedAt),
	})
	if err != nil {
		return nil, translateNotFound(err, payment.ErrPaymentNotFound)
	}
	return paymentFromDocument(updated), nil
}

// Delete は支払いを削除し、削除した支払いを返します。
func (r *PaymentRepository) Delete(ctx context.Context, id string) (*payment.Payment, error) {
	deleted, err := r.coll.DeleteByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, payment.ErrPaymentNotFound)
	}
	return paymentFromDocument(deleted), nil
}

func paymentFilter(filter payment.ListFilter) docstore.Filter {
	f := docstore.Where("employeeId", filter.EmployeeID)
	if filter.Status != nil {
		f = f.And("status", string(*filter.Status))
	}
	return f
}

func paymentFromDocument(doc docstore.Document) *payment.Payment {
	return &payment.Payment{
		ID:         doc.ID(),
		EmployeeID: doc.String("employeeId"),
		Amount:     doc.Float("amount"),
		Date:       doc.Time("date"),
		Status:     payment.Status(doc.String("status")),
		CreatedAt:  doc.Time("createdAt"),
		UpdatedAt:  doc.Time("updatedAt"),
	}
}
