package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/core/apperr"
)

func TestToHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{err: apperr.Invalid("bad"), want: http.StatusBadRequest},
		{err: apperr.NotFound("missing"), want: http.StatusNotFound},
		{err: apperr.Conflict("dup"), want: http.StatusConflict},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := toHTTPStatus(tc.err); got != tc.want {
			t.Errorf("toHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	cases := map[string]time.Time{
		"2024-04-01":                time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		"2024-04-01T10:30:00Z":      time.Date(2024, 4, 1, 10, 30, 0, 0, time.UTC),
		"2024-04-01T10:30:00+02:00": time.Date(2024, 4, 1, 8, 30, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		got, err := parseDate(raw)
		if err != nil {
			t.Fatalf("parseDate(%q) returned error: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Errorf("parseDate(%q) = %v, want %v", raw, got, want)
		}
	}

	if _, err := parseDate("01/04/2024"); !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("expected invalid error, got %v", err)
	}
}
