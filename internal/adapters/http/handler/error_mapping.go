package handler

import (
	"net/http"

	"github.com/ogurasousui/codex-records-api/internal/core/apperr"
)

func toHTTPStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalid:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
