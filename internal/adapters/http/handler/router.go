// Package handler は REST API の HTTP ハンドラーとルーティングを提供します。
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ogurasousui/codex-records-api/internal/core/apperr"
	"github.com/ogurasousui/codex-records-api/internal/core/employee"
	"github.com/ogurasousui/codex-records-api/internal/core/payment"
	"github.com/ogurasousui/codex-records-api/internal/core/task"
	"github.com/ogurasousui/codex-records-api/internal/platform/logging"
)

// APIPrefix は全リソースルートの接頭辞です。
const APIPrefix = "/api/v1"

// Services はルーターが公開するユースケースです。
type Services struct {
	Tasks     task.UseCase
	Employees employee.UseCase
	Payments  payment.UseCase
}

// RouterOptions はルーターの横断的な設定です。
type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter は API 全体のルーティングを構築します。
func NewRouter(svcs Services, opts RouterOptions) http.Handler {
	logger := logging.OrDiscard(opts.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(securityHeaders()...)
	r.Use(corsPolicy(opts.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, logger, apperr.NotFound("Cannot "+req.Method+" "+req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, logger, apperr.NotFound("Cannot "+req.Method+" "+req.URL.Path))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route(APIPrefix, func(r chi.Router) {
		r.Route("/tasks", NewTaskHandler(svcs.Tasks, logger).Routes)
		r.Route("/employees", NewEmployeeHandler(svcs.Employees, logger).Routes)
		r.Route("/payments", NewPaymentHandler(svcs.Payments, logger).Routes)
	})

	return r
}
