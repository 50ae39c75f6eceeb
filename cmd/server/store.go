package main

import (
	"context"
	"fmt"

	"github.com/ogurasousui/codex-records-api/internal/adapters/docstore/memory"
	mongostore "github.com/ogurasousui/codex-records-api/internal/adapters/docstore/mongo"
	pgstore "github.com/ogurasousui/codex-records-api/internal/adapters/docstore/postgres"
	"github.com/ogurasousui/codex-records-api/internal/adapters/repository/document"
	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
	"github.com/ogurasousui/codex-records-api/internal/platform/config"
	mongodb "github.com/ogurasousui/codex-records-api/internal/platform/db/mongo"
	pg "github.com/ogurasousui/codex-records-api/internal/platform/db/postgres"
)

// openStore は store.driver に応じたドキュメントストアを生成します。
func openStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return &pooledStore{Store: pgstore.NewStore(pool), close: pool.Close}, nil

	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
		defer cancel()

		client, err := mongodb.NewClient(connectCtx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		store := mongostore.NewStore(client, cfg.Mongo.Database)
		if err := mongodb.EnsureIndexes(connectCtx, store.Database()); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil

	case config.DriverMemory:
		return memory.NewStore(memory.WithUniqueIndex(document.EmployeesCollection, "email")), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// pooledStore は Close 時にコネクションプールも閉じます。
type pooledStore struct {
	*pgstore.Store
	close func()
}

func (s *pooledStore) Close(ctx context.Context) error {
	err := s.Store.Close(ctx)
	s.close()
	return err
}
