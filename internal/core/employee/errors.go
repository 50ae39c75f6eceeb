package employee

import "github.com/ogurasousui/codex-records-api/internal/core/apperr"

var (
	ErrInvalidID          = apperr.Invalid("employee: invalid id")
	ErrInvalidName        = apperr.Invalid("employee: name is required")
	ErrInvalidPosition    = apperr.Invalid("employee: position is required")
	ErrInvalidDepartment  = apperr.Invalid("employee: department is required")
	ErrInvalidSalary      = apperr.Invalid("employee: invalid salary")
	ErrInvalidHireDate    = apperr.Invalid("employee: hire date is required")
	ErrInvalidEmail       = apperr.Invalid("employee: invalid email")
	ErrEmployeeNotFound   = apperr.NotFound("employee not found")
	ErrEmailAlreadyExists = apperr.Conflict("email already exists")
)
