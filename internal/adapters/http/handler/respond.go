package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/core/apperr"
)

const (
	maxBodyBytes         = 1 << 20
	internalErrorMessage = "Internal server error"
	dateOnlyLayout       = "2006-01-02"
)

var errEmptyBody = apperr.Invalid("request body is required")

// errorResponse はエラー時のレスポンスボディです。
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError はエラー分類に応じたステータスでエラーボディを書き込みます。
// 分類を持たないエラーは 500 とし、詳細はログにのみ出力します。
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := toHTTPStatus(err)

	message := internalErrorMessage
	var appErr *apperr.Error
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		message = appErr.Error()
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, errorResponse{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Path:       r.URL.Path,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// decodeJSON はリクエストボディを厳密にデコードし、validate タグで検証します。未知のフィールドは拒否します。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Invalid("request body must contain a single JSON object")
	}
	return validateRequest(dst)
}

func decodeError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
		appErr      *apperr.Error
	)

	switch {
	case errors.Is(err, io.EOF):
		return errEmptyBody
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.Invalid("request body contains malformed JSON")
	case errors.As(err, &typeErr):
		return apperr.Invalid(fmt.Sprintf("%s must be a %s", typeErr.Field, describeKind(typeErr.Type.Kind().String())))
	case errors.As(err, &maxBytesErr):
		return apperr.Invalid("request body is too large")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return apperr.Invalid(fmt.Sprintf("property %s should not exist", strings.Trim(field, `"`)))
	default:
		return apperr.Invalid("invalid request body")
	}
}

func describeKind(kind string) string {
	switch kind {
	case "float64", "float32", "int", "int64":
		return "number"
	case "ptr", "struct":
		return "valid value"
	default:
		return kind
	}
}

func requiredField(name string) error {
	return apperr.Invalid(name + " is required")
}

// dateValue は RFC 3339 または YYYY-MM-DD 形式の日付を受け付けます。
type dateValue struct {
	time.Time
}

func (d *dateValue) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return apperr.Invalid("date must be an ISO 8601 date string")
	}
	parsed, err := parseDate(raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperr.Invalid(fmt.Sprintf("%q is not a valid ISO 8601 date", raw))
}
