// Package memory はプロセス内メモリで動作する docstore 実装です。テストおよびローカル開発用です。
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
)

// Option は Store の設定を変更します。
type Option func(*Store)

// WithUniqueIndex は指定コレクションのフィールドに一意制約を設定します。
func WithUniqueIndex(collection, field string) Option {
	return func(s *Store) {
		s.unique[collection] = append(s.unique[collection], field)
	}
}

// WithIDGenerator は ID 生成関数を差し替えます。
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// Store はメモリ上のドキュメントストアです。
type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
	unique      map[string][]string
	newID       func() string
}

// NewStore は Store を生成します。
func NewStore(opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]*Collection),
		unique:      make(map[string][]string),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collection は名前に対応するコレクションを返します。存在しない場合は作成します。
func (s *Store) Collection(name string) docstore.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &Collection{
			docs:   make(map[string]docstore.Document),
			unique: s.unique[name],
			newID:  s.newID,
		}
		s.collections[name] = c
	}
	return c
}

// Close は何もしません。
func (s *Store) Close(context.Context) error {
	return nil
}

// Collection は挿入順を保持するメモリ上のコレクションです。
type Collection struct {
	mu     sync.RWMutex
	docs   map[string]docstore.Document
	order  []string
	unique []string
	newID  func() string
}

// Insert はドキュメントを追加します。
func (c *Collection) Insert(ctx context.Context, doc docstore.Document) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored := doc.Clone()
	if stored == nil {
		stored = docstore.Document{}
	}
	id := stored.ID()
	if id == "" {
		id = c.newID()
		stored[docstore.IDField] = id
	}
	if _, exists := c.docs[id]; exists {
		return nil, docstore.ErrDuplicate
	}
	if err := c.checkUnique(stored, id); err != nil {
		return nil, err
	}

	c.docs[id] = stored
	c.order = append(c.order, id)
	return stored.Clone(), nil
}

// FindByID は ID でドキュメントを取得します。
func (c *Collection) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return doc.Clone(), nil
}

// FindOne は条件に一致する最初のドキュメントを返します。
func (c *Collection) FindOne(ctx context.Context, filter docstore.Filter) (docstore.Document, error) {
	found, err := c.Find(ctx, filter, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, docstore.ErrNotFound
	}
	return found[0], nil
}

// Find は条件に一致するドキュメントを挿入順で返します。limit が 0 以下の場合は上限なしです。
func (c *Collection) Find(ctx context.Context, filter docstore.Filter, limit, skip int) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]docstore.Document, 0)
	matched := 0
	for _, id := range c.order {
		doc := c.docs[id]
		if !filter.Matches(doc) {
			continue
		}
		matched++
		if matched <= skip {
			continue
		}
		out = append(out, doc.Clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Count は条件に一致するドキュメント数を返します。
func (c *Collection) Count(ctx context.Context, filter docstore.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, doc := range c.docs {
		if filter.Matches(doc) {
			n++
		}
	}
	return n, nil
}

// UpdateByID は patch のフィールドで上書きし、更新後のドキュメントを返します。
func (c *Collection) UpdateByID(ctx context.Context, id string, patch docstore.Document) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.docs[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}

	next := current.Clone()
	for k, v := range patch {
		if k == docstore.IDField {
			continue
		}
		next[k] = v
	}
	if err := c.checkUnique(next, id); err != nil {
		return nil, err
	}

	c.docs[id] = next
	return next.Clone(), nil
}

// DeleteByID はドキュメントを削除し、削除前の内容を返します。
func (c *Collection) DeleteByID(ctx context.Context, id string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	delete(c.docs, id)
	for idx, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:idx], c.order[idx+1:]...)
			break
		}
	}
	return doc, nil
}

func (c *Collection) checkUnique(doc docstore.Document, selfID string) error {
	for _, field := range c.unique {
		value, ok := doc[field]
		if !ok {
			continue
		}
		filter := docstore.Where(field, value).ExcludingID(selfID)
		for _, other := range c.docs {
			if filter.Matches(other) {
				return docstore.ErrDuplicate
			}
		}
	}
	return nil
}
