package payment

import "github.com/ogurasousui/codex-records-api/internal/core/apperr"

var (
	ErrInvalidID         = apperr.Invalid("payment: invalid id")
	ErrInvalidEmployeeID = apperr.Invalid("payment: invalid employee id")
	ErrInvalidAmount     = apperr.Invalid("payment: invalid amount")
	ErrInvalidStatus     = apperr.Invalid("payment: invalid status")
	ErrInvalidDate       = apperr.Invalid("payment: date is required")
	ErrPaymentNotFound   = apperr.NotFound("payment not found")
	ErrEmployeeNotFound  = apperr.NotFound("employee not found")
)
