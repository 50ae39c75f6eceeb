package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// requestLogger はリクエストごとにメソッド・パス・ステータス・所要時間を記録します。
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// securityHeaders は一般的なセキュリティ関連ヘッダーを付与するミドルウェア群です。
func securityHeaders() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.SetHeader("X-Content-Type-Options", "nosniff"),
		middleware.SetHeader("X-Frame-Options", "SAMEORIGIN"),
		middleware.SetHeader("X-DNS-Prefetch-Control", "off"),
		middleware.SetHeader("Referrer-Policy", "no-referrer"),
		middleware.SetHeader("Strict-Transport-Security", "max-age=15552000; includeSubDomains"),
		middleware.SetHeader("Cross-Origin-Opener-Policy", "same-origin"),
		middleware.SetHeader("Content-Security-Policy", "default-src 'self'"),
	}
}

// corsPolicy は許可オリジンに対する CORS ミドルウェアです。プリフライトには 204 を返します。
// 許可オリジンが空、または "*" を含む場合は全オリジンを許可します。
func corsPolicy(allowed []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders:       []string{"*"},
		OptionsPassthrough:   false,
		OptionsSuccessStatus: http.StatusNoContent,
	}).Handler
}

// recoverer はパニックを 500 のエラーボディに変換します。http.ErrAbortHandler は再送出します。
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				writeError(w, r, logger, fmt.Errorf("panic: %v", rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
