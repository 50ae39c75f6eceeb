package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/codex-records-api/internal/core/payment"
)

// PaymentHandler は支払い API の HTTP 実装です。
//
// /payments/{id} の id は GET では社員 ID、PATCH / DELETE では支払い ID を表します。
type PaymentHandler struct {
	svc    payment.UseCase
	logger *slog.Logger
}

// NewPaymentHandler は PaymentHandler を生成します。
func NewPaymentHandler(svc payment.UseCase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, logger: logger}
}

type createPaymentRequest struct {
	EmployeeID *string    `json:"employeeId" validate:"required"`
	Amount     *float64   `json:"amount" validate:"required"`
	Status     *string    `json:"status" validate:"required,oneof=PENDING COMPLETED FAILED"`
	Date       *dateValue `json:"date" validate:"required"`
}

type updatePaymentStatusRequest struct {
	Status *string `json:"status" validate:"required,oneof=PENDING COMPLETED FAILED"`
}

type paymentResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Amount     float64   `json:"amount"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Routes は /payments 以下のルートを登録します。
func (h *PaymentHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.listByEmployee)
	r.Patch("/{id}", h.updateStatus)
	r.Delete("/{id}", h.delete)
}

func (h *PaymentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.svc.CreatePayment(r.Context(), payment.CreatePaymentInput{
		EmployeeID: *req.EmployeeID,
		Amount:     *req.Amount,
		Date:       req.Date.Time,
		Status:     payment.Status(*req.Status),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentResponse(created))
}

func (h *PaymentHandler) listByEmployee(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.svc.ListEmployeePayments(r.Context(), payment.ListEmployeePaymentsInput{
		EmployeeID: chi.URLParam(r, "id"),
		Page:       q.Get("page"),
		Limit:      q.Get("limit"),
		Status:     toPaymentStatus(optionalQuery(q.Get("status"))),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, mapPage(result, toPaymentResponse))
}

func (h *PaymentHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updatePaymentStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.svc.UpdatePaymentStatus(r.Context(), payment.UpdatePaymentStatusInput{
		ID:     chi.URLParam(r, "id"),
		Status: payment.Status(*req.Status),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(updated))
}

func (h *PaymentHandler) delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeletePayment(r.Context(), payment.DeletePaymentInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(deleted))
}

func optionalQuery(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

func toPaymentStatus(raw *string) *payment.Status {
	if raw == nil {
		return nil
	}
	status := payment.Status(*raw)
	return &status
}

func toPaymentResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Amount:     p.Amount,
		Date:       p.Date,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
