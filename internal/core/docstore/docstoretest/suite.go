// Package docstoretest は docstore.Collection 実装が満たすべき振る舞いを検証する共通テストを提供します。
package docstoretest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
)

// Factory は空のコレクションを生成します。一意制約付きのフィールド "email" を持つ必要があります。
type Factory func(t *testing.T) docstore.Collection

// Run はコレクション実装に対して共通の振る舞いを検証します。
func Run(t *testing.T, newCollection Factory) {
	t.Helper()

	t.Run("insert assigns id and find by id", func(t *testing.T) {
		coll := newCollection(t)
		ctx := context.Background()

		inserted, err := coll.Insert(ctx, docstore.Document{"email": "a@x.com", "name": "A"})
		if err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
		if inserted.ID() == "" {
			t.Fatal("expected generated id")
		}

		found, err := coll.FindByID(ctx, inserted.ID())
		if err != nil {
			t.Fatalf("FindByID returned error: %v", err)
		}
		if found.String("name") != "A" || found.ID() != inserted.ID() {
			t.Fatalf("unexpected document: %v", found)
		}
	})

	t.Run("absent ids are ErrNotFound", func(t *testing.T) {
		coll := newCollection(t)
		ctx := context.Background()

		if _, err := coll.FindByID(ctx, "000"); !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("FindByID: expected ErrNotFound, got %v", err)
		}
		if _, err := coll.UpdateByID(ctx, "000", docstore.Document{"name": "x"}); !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("UpdateByID: expected ErrNotFound, got %v", err)
		}
		if _, err := coll.DeleteByID(ctx, "000"); !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("DeleteByID: expected ErrNotFound, got %v", err)
		}
		if _, err := coll.FindOne(ctx, docstore.Where("email", "none@x.com")); !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("FindOne: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("find count filter limit skip", func(t *testing.T) {
		coll := newCollection(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			status := "PENDING"
			if i%2 == 1 {
				status = "DONE"
			}
			if _, err := coll.Insert(ctx, docstore.Document{"email": fmt.Sprintf("u%d@x.com", i), "status": status, "seq": float64(i)}); err != nil {
				t.Fatalf("Insert returned error: %v", err)
			}
		}

		total, err := coll.Count(ctx, docstore.Filter{})
		if err != nil || total != 5 {
			t.Fatalf("Count(all) = %d, %v", total, err)
		}
		pending, err := coll.Count(ctx, docstore.Where("status", "PENDING"))
		if err != nil || pending != 3 {
			t.Fatalf("Count(PENDING) = %d, %v", pending, err)
		}

		page, err := coll.Find(ctx, docstore.Where("status", "PENDING"), 2, 1)
		if err != nil {
			t.Fatalf("Find returned error: %v", err)
		}
		if len(page) != 2 || page[0].Float("seq") != 2 || page[1].Float("seq") != 4 {
			t.Fatalf("unexpected page: %v", page)
		}

		beyond, err := coll.Find(ctx, docstore.Filter{}, 10, 10)
		if err != nil || len(beyond) != 0 {
			t.Fatalf("expected empty page beyond range, got %v, %v", beyond, err)
		}
	})

	t.Run("update merges patch and returns new document", func(t *testing.T) {
		coll := newCollection(t)
		ctx := context.Background()

		inserted, err := coll.Insert(ctx, docstore.Document{"email": "a@x.com", "name": "A", "status": "OPEN"})
		if err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}

		updated, err := coll.UpdateByID(ctx, inserted.ID(), docstore.Document{"status": "DONE"})
		if err != nil {
			t.Fatalf("UpdateByID returned error: %v", err)
		}
		if updated.String("status") != "DONE" || updated.String("name") != "A" {
			t.Fatalf("unexpected updated document: %v", updated)
		}

		unchanged, err := coll.UpdateByID(ctx, inserted.ID(), docstore.Document{})
		if err != nil {
			t.Fatalf("UpdateByID with empty patch returned error: %v", err)
		}
		if unchanged.String("status") != "DONE" {
			t.Fatalf("unexpected document after empty patch: %v", unchanged)
		}
	})

	t.Run("unique field rejects duplicates", func(t *testing.T) {
		coll := newCollection(t)
		ctx := context.Background()

		first, err := coll.Insert(ctx, docstore.Document{"email": "a@x.com"})
		if err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
		second, err := coll.Insert(ctx, docstore.Document{"email": "b@x.com"})
		if err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}

		if _, err := coll.Insert(ctx, docstore.Document{"email": "a@x.com"}); !errors.Is(err, docstore.ErrDuplicate) {
			t.Fatalf("Insert duplicate: expected ErrDuplicate, got %v", err)
		}
		if _, err := coll.UpdateByID(ctx, second.ID(), docstore.Document{"email": "a@x.com"}); !errors.Is(err, docstore.ErrDuplicate) {
			t.Fatalf("UpdateByID duplicate: expected ErrDuplicate, got %v", err)
		}
		if _, err := coll.UpdateByID(ctx, first.ID(), docstore.Document{"email": "a@x.com"}); err != nil {
			t.Fatalf("UpdateByID to own value returned error: %v", err)
		}

		other, err := coll.FindOne(ctx, docstore.Where("email", "a@x.com").ExcludingID(first.ID()))
		if !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("expected self to be excluded, got %v, %v", other, err)
		}
	})

	t.Run("delete returns document and is not repeatable", func(t *testing.T) {
		coll := newCollection(t)
		ctx := context.Background()

		inserted, err := coll.Insert(ctx, docstore.Document{"email": "a@x.com", "name": "A"})
		if err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}

		deleted, err := coll.DeleteByID(ctx, inserted.ID())
		if err != nil {
			t.Fatalf("DeleteByID returned error: %v", err)
		}
		if deleted.String("name") != "A" {
			t.Fatalf("unexpected deleted document: %v", deleted)
		}
		if _, err := coll.DeleteByID(ctx, inserted.ID()); !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("second DeleteByID: expected ErrNotFound, got %v", err)
		}
		if n, err := coll.Count(ctx, docstore.Filter{}); err != nil || n != 0 {
			t.Fatalf("Count after delete = %d, %v", n, err)
		}
	})
}
