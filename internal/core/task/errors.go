package task

import "github.com/ogurasousui/codex-records-api/internal/core/apperr"

var (
	ErrInvalidID     = apperr.Invalid("task: invalid id")
	ErrInvalidTitle  = apperr.Invalid("task: title is required")
	ErrInvalidStatus = apperr.Invalid("task: invalid status")
	ErrTaskNotFound  = apperr.NotFound("task not found")
)
