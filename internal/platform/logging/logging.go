// Package logging は設定からアプリケーションのロガーを構築します。
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/ogurasousui/codex-records-api/internal/platform/config"
)

// New は log 設定に従って slog.Logger を生成します。format が text 以外の場合は JSON を出力します。
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel はレベル名を slog.Level へ変換します。不明な値は info として扱います。
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OrDiscard は nil の場合に出力を破棄するロガーを返します。
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
