// Package docstore はコレクション単位のドキュメントストア抽象を定義します。
//
// 実装は internal/adapters/docstore 以下にあり、メモリ・PostgreSQL (JSONB)・MongoDB
// を提供します。存在しないドキュメントは nil ではなく ErrNotFound で表現します。
package docstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("docstore: document not found")
	ErrDuplicate = errors.New("docstore: duplicate key")
)

// IDField はドキュメント ID を保持するフィールド名です。
const IDField = "id"

// Collection はリソース種別ごとのドキュメント操作です。
type Collection interface {
	Insert(ctx context.Context, doc Document) (Document, error)
	FindByID(ctx context.Context, id string) (Document, error)
	FindOne(ctx context.Context, filter Filter) (Document, error)
	Find(ctx context.Context, filter Filter, limit, skip int) ([]Document, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	UpdateByID(ctx context.Context, id string, patch Document) (Document, error)
	DeleteByID(ctx context.Context, id string) (Document, error)
}

// Store はコレクションを名前で提供します。
type Store interface {
	Collection(name string) Collection
	Close(ctx context.Context) error
}
