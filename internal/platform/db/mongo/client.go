// Package mongo は MongoDB クライアントの生成とコレクションの初期化を提供します。
package mongo

import (
	"context"
	"fmt"

	"github.com/ogurasousui/codex-records-api/internal/platform/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewClient は mongo.Client を生成し疎通確認を行います。
func NewClient(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return client, nil
}

// IndexModels はコレクションごとに作成するインデックスを返します。
func IndexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"employees": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("employees_email_key").SetUnique(true),
			},
		},
		"payments": {
			{
				Keys:    bson.D{{Key: "employeeId", Value: 1}, {Key: "_ord", Value: 1}},
				Options: options.Index().SetName("payments_employee_id_idx"),
			},
		},
		"tasks": {
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "_ord", Value: 1}},
				Options: options.Index().SetName("tasks_status_idx"),
			},
		},
	}
}

// EnsureIndexes は IndexModels のインデックスを作成します。既存のインデックスはそのまま残ります。
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range IndexModels() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: create indexes for %s: %w", name, err)
		}
	}
	return nil
}
