package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ogurasousui/codex-records-api/internal/core/apperr"
)

// requestValidator はリクエスト DTO の validate タグを検証します。
// エラーメッセージには json タグのフィールド名を使用します。
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest は最初の違反を apperr.Invalid に変換して返します。
func validateRequest(dst any) error {
	err := requestValidator.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Invalid("invalid request body")
	}
	return fieldError(fieldErrs[0])
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return requiredField(fe.Field())
	case "email":
		return apperr.Invalid(fe.Field() + " must be an email")
	case "oneof":
		return apperr.Invalid(fmt.Sprintf("%s must be one of the following values: %s",
			fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
	default:
		return apperr.Invalid(fe.Field() + " is invalid")
	}
}
