// Package postgres は PostgreSQL の JSONB 列を利用した docstore 実装です。
//
// コレクションごとに次の形のテーブルを使用します (assets/migrations を参照)。
//
//	seq  BIGSERIAL, id TEXT PRIMARY KEY, data JSONB NOT NULL
//
// 一覧は seq 昇順 (挿入順) で返します。
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
	pgdb "github.com/ogurasousui/codex-records-api/internal/platform/db/postgres"
)

const uniqueViolationCode = "23505"

// Store は PostgreSQL を利用したドキュメントストアです。
type Store struct {
	pool  pgdb.Queryer
	newID func() string
}

// NewStore は Store を生成します。プールのクローズは呼び出し元の責務です。
func NewStore(pool pgdb.Queryer) *Store {
	return &Store{pool: pool, newID: uuid.NewString}
}

// Collection は名前と同名のテーブルを対象とするコレクションを返します。
func (s *Store) Collection(name string) docstore.Collection {
	return &Collection{
		pool:  s.pool,
		table: pgx.Identifier{name}.Sanitize(),
		newID: s.newID,
	}
}

// Close は何もしません。
func (s *Store) Close(context.Context) error {
	return nil
}

// Collection は単一テーブルに対するドキュメント操作です。
type Collection struct {
	pool  pgdb.Queryer
	table string
	newID func() string
}

// Insert はドキュメントを追加します。
func (c *Collection) Insert(ctx context.Context, doc docstore.Document) (docstore.Document, error) {
	id := doc.ID()
	if id == "" {
		id = c.newID()
	}

	payload, err := encodeDocument(doc)
	if err != nil {
		return nil, err
	}

	row := c.pool.QueryRow(ctx,
		`INSERT INTO `+c.table+` (id, data) VALUES ($1, $2::jsonb) RETURNING id, data`,
		id, payload,
	)
	inserted, err := scanDocument(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return inserted, nil
}

// FindByID は ID でドキュメントを取得します。
func (c *Collection) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	row := c.pool.QueryRow(ctx, `SELECT id, data FROM `+c.table+` WHERE id = $1`, id)
	found, err := scanDocument(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return found, nil
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
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, data FROM ` + c.table + where + ` ORDER BY seq`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT ` + placeholder(len(args))
	}
	if skip > 0 {
		args = append(args, skip)
		query += ` OFFSET ` + placeholder(len(args))
	}

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	docs := make([]docstore.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, translatePgError(err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err)
	}
	return docs, nil
}

// Count は条件に一致するドキュメント数を返します。
func (c *Collection) Count(ctx context.Context, filter docstore.Filter) (int64, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := c.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+c.table+where, args...).Scan(&n); err != nil {
		return 0, translatePgError(err)
	}
	return n, nil
}

// UpdateByID は patch を JSONB としてマージし、更新後のドキュメントを返します。
func (c *Collection) UpdateByID(ctx context.Context, id string, patch docstore.Document) (docstore.Document, error) {
	payload, err := encodeDocument(patch)
	if err != nil {
		return nil, err
	}

	row := c.pool.QueryRow(ctx,
		`UPDATE `+c.table+` SET data = data || $2::jsonb WHERE id = $1 RETURNING id, data`,
		id, payload,
	)
	updated, err := scanDocument(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return updated, nil
}

// DeleteByID はドキュメントを削除し、削除前の内容を返します。
func (c *Collection) DeleteByID(ctx context.Context, id string) (docstore.Document, error) {
	row := c.pool.QueryRow(ctx, `DELETE FROM `+c.table+` WHERE id = $1 RETURNING id, data`, id)
	deleted, err := scanDocument(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return deleted, nil
}

func buildWhere(filter docstore.Filter) (string, []any, error) {
	args := make([]any, 0, 4)
	conditions := make([]string, 0, 2)

	if keys := filter.Keys(); len(keys) > 0 {
		fields := make(map[string]any, len(keys))
		for _, k := range keys {
			fields[k] = filter.Value(k)
		}
		payload, err := json.Marshal(fields)
		if err != nil {
			return "", nil, fmt.Errorf("postgres: encode filter: %w", err)
		}
		args = append(args, string(payload))
		conditions = append(conditions, "data @> "+placeholder(len(args))+"::jsonb")
	}

	if excluded := filter.ExcludedID(); excluded != "" {
		args = append(args, excluded)
		conditions = append(conditions, "id <> "+placeholder(len(args)))
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func encodeDocument(doc docstore.Document) (string, error) {
	body := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == docstore.IDField {
			continue
		}
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("postgres: encode document: %w", err)
	}
	return string(payload), nil
}

func scanDocument(row pgx.Row) (docstore.Document, error) {
	var (
		id   string
		data []byte
	)
	if err := row.Scan(&id, &data); err != nil {
		return nil, err
	}

	doc := docstore.Document{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("postgres: decode document %s: %w", id, err)
		}
	}
	doc[docstore.IDField] = id
	return doc, nil
}

func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return docstore.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s", docstore.ErrDuplicate, pgErr.ConstraintName)
	}

	return err
}
