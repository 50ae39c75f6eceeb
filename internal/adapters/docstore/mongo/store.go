// Package mongo は MongoDB を利用した docstore 実装です。
//
// ドキュメント ID は文字列として _id に保存し、挿入順は内部フィールド _ord (ObjectID) で保持します。
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	idKey    = "_id"
	orderKey = "_ord"
)

// Store は MongoDB データベースに対するドキュメントストアです。
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	newID  func() string
}

// NewStore は Store を生成します。Close でクライアントを切断します。
func NewStore(client *mongo.Client, database string) *Store {
	return &Store{
		client: client,
		db:     client.Database(database),
		newID:  uuid.NewString,
	}
}

// Database は対象のデータベースを返します。
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Collection は同名の MongoDB コレクションを返します。
func (s *Store) Collection(name string) docstore.Collection {
	return newCollection(s.db.Collection(name), s.newID)
}

// Close はクライアントを切断します。
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnect: %w", err)
	}
	return nil
}

// Collection は単一の MongoDB コレクションに対するドキュメント操作です。
type Collection struct {
	coll  *mongo.Collection
	newID func() string
}

func newCollection(coll *mongo.Collection, newID func() string) *Collection {
	return &Collection{coll: coll, newID: newID}
}

// Insert はドキュメントを追加します。
func (c *Collection) Insert(ctx context.Context, doc docstore.Document) (docstore.Document, error) {
	id := doc.ID()
	if id == "" {
		id = c.newID()
	}

	body := encodeFields(doc)
	body[idKey] = id
	body[orderKey] = primitive.NewObjectID()

	if _, err := c.coll.InsertOne(ctx, body); err != nil {
		return nil, translateMongoError(err)
	}

	inserted := doc.Clone()
	inserted[docstore.IDField] = id
	return inserted, nil
}

// FindByID は ID でドキュメントを取得します。
func (c *Collection) FindByID(ctx context.Context, id string) (docstore.Document, error) {
	var raw bson.M
	if err := c.coll.FindOne(ctx, bson.D{{Key: idKey, Value: id}}).Decode(&raw); err != nil {
		return nil, translateMongoError(err)
	}
	return decodeDocument(raw), nil
}

// FindOne は条件に一致する最初のドキュメントを返します。
func (c *Collection) FindOne(ctx context.Context, filter docstore.Filter) (docstore.Document, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: orderKey, Value: 1}})

	var raw bson.M
	if err := c.coll.FindOne(ctx, buildFilter(filter), opts).Decode(&raw); err != nil {
		return nil, translateMongoError(err)
	}
	return decodeDocument(raw), nil
}

// Find は条件に一致するドキュメントを挿入順で返します。limit が 0 以下の場合は上限なしです。
func (c *Collection) Find(ctx context.Context, filter docstore.Filter, limit, skip int) ([]docstore.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: orderKey, Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}

	cursor, err := c.coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, translateMongoError(err)
	}
	defer cursor.Close(ctx)

	docs := make([]docstore.Document, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("mongo: decode document: %w", err)
		}
		docs = append(docs, decodeDocument(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, translateMongoError(err)
	}
	return docs, nil
}

// Count は条件に一致するドキュメント数を返します。
func (c *Collection) Count(ctx context.Context, filter docstore.Filter) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, translateMongoError(err)
	}
	return n, nil
}

// UpdateByID は patch のフィールドを $set し、更新後のドキュメントを返します。
func (c *Collection) UpdateByID(ctx context.Context, id string, patch docstore.Document) (docstore.Document, error) {
	fields := encodeFields(patch)
	if len(fields) == 0 {
		return c.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var raw bson.M
	err := c.coll.FindOneAndUpdate(ctx, bson.D{{Key: idKey, Value: id}}, bson.D{{Key: "$set", Value: fields}}, opts).Decode(&raw)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return decodeDocument(raw), nil
}

// DeleteByID はドキュメントを削除し、削除前の内容を返します。
func (c *Collection) DeleteByID(ctx context.Context, id string) (docstore.Document, error) {
	var raw bson.M
	if err := c.coll.FindOneAndDelete(ctx, bson.D{{Key: idKey, Value: id}}).Decode(&raw); err != nil {
		return nil, translateMongoError(err)
	}
	return decodeDocument(raw), nil
}

func buildFilter(filter docstore.Filter) bson.D {
	out := bson.D{}
	for _, k := range filter.Keys() {
		out = append(out, bson.E{Key: k, Value: filter.Value(k)})
	}
	if excluded := filter.ExcludedID(); excluded != "" {
		out = append(out, bson.E{Key: idKey, Value: bson.D{{Key: "$ne", Value: excluded}}})
	}
	return out
}

// encodeFields は ID と内部フィールドを除いた保存用のフィールドを返します。
func encodeFields(doc docstore.Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if k == docstore.IDField || k == idKey || k == orderKey {
			continue
		}
		out[k] = v
	}
	return out
}

func decodeDocument(raw bson.M) docstore.Document {
	doc := make(docstore.Document, len(raw))
	for k, v := range raw {
		switch k {
		case orderKey:
			continue
		case idKey:
			doc[docstore.IDField] = fmt.Sprint(v)
		default:
			doc[k] = normalizeValue(v)
		}
	}
	return doc
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case time.Time:
		return val.UTC()
	case primitive.ObjectID:
		return val.Hex()
	case bson.M:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = normalizeValue(inner)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}

func translateMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", docstore.ErrDuplicate, err)
	}
	return err
}
