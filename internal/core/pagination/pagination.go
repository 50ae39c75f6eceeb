// Package pagination は一覧取得のページング値の正規化と、一覧レスポンスの組み立てを提供します。
package pagination

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageRequest は正規化済みのページング値です。Page と Limit は常に 1 以上です。
type PageRequest struct {
	Page  int
	Limit int
	Skip  int
}

// NewPageRequest はクエリ文字列の page / limit を正規化します。
// 未指定・数値でない値は既定値に、1 未満の値は 1 に、上限を超える値は math.MaxInt32 に丸めます。
func NewPageRequest(rawPage, rawLimit string) PageRequest {
	page := parsePositive(rawPage, DefaultPage)
	limit := parsePositive(rawLimit, DefaultLimit)
	return PageRequest{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

func parsePositive(raw string, fallback int) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		f, ferr := strconv.ParseFloat(trimmed, 64)
		if ferr != nil && !errors.Is(ferr, strconv.ErrRange) {
			return fallback
		}
		// literal NaN / Inf are not numbers; out-of-range values are clamped below
		if math.IsNaN(f) || (ferr == nil && math.IsInf(f, 0)) {
			return fallback
		}
		n = int(max(min(f, math.MaxInt32), -math.MaxInt32))
	}

	// zero is treated as absent
	if n == 0 {
		return fallback
	}
	if n < 1 {
		return 1
	}
	return min(n, math.MaxInt32)
}

// PageResult は一覧レスポンスのエンベロープです。
type PageResult[T any] struct {
	Data        []T   `json:"data"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

// NewPageResult は取得結果と総件数からエンベロープを組み立てます。
func NewPageResult[T any](data []T, totalCount int64, req PageRequest) *PageResult[T] {
	if data == nil {
		data = []T{}
	}
	return &PageResult[T]{
		Data:        data,
		TotalCount:  totalCount,
		TotalPages:  TotalPages(totalCount, req.Limit),
		CurrentPage: req.Page,
	}
}

// TotalPages は ceil(totalCount / limit) を返します。
func TotalPages(totalCount int64, limit int) int64 {
	if limit < 1 || totalCount <= 0 {
		return 0
	}
	l := int64(limit)
	return (totalCount + l - 1) / l
}

// Fetch は件数取得と一覧取得を並行に実行し、両方の完了を待ってエンベロープを返します。
// どちらかが失敗した場合は一覧全体が失敗します。
func Fetch[T any](
	ctx context.Context,
	req PageRequest,
	count func(ctx context.Context) (int64, error),
	find func(ctx context.Context, limit, skip int) ([]T, error),
) (*PageResult[T], error) {
	var (
		total int64
		items []T
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := count(gctx)
		if err != nil {
			return err
		}
		total = n
		return nil
	})
	g.Go(func() error {
		found, err := find(gctx, req.Limit, req.Skip)
		if err != nil {
			return err
		}
		items = found
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewPageResult(items, total, req), nil
}
