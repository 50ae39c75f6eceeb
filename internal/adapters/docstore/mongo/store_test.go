package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCollection_WithMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		coll := newCollection(mt.Coll, func() string { return "t-1" })
		inserted, err := coll.Insert(ctx, docstore.Document{"title": "A", "status": "OPEN"})
		if err != nil {
			mt.Fatalf("Insert returned error: %v", err)
		}
		if inserted.ID() != "t-1" || inserted.String("title") != "A" {
			mt.Fatalf("unexpected document: %v", inserted)
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "insert" {
			mt.Fatalf("expected insert command, got %v", started)
		}
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: records.employees index: employees_email_key",
		}))

		coll := newCollection(mt.Coll, func() string { return "e-2" })
		_, err := coll.Insert(ctx, docstore.Document{"email": "a@x.com"})
		if !errors.Is(err, docstore.ErrDuplicate) {
			mt.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "records.tasks", mtest.FirstBatch))

		coll := newCollection(mt.Coll, nil)
		if _, err := coll.FindByID(ctx, "000"); !errors.Is(err, docstore.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("find", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "records.payments", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "p-1"}, {Key: "_ord", Value: primitive.NewObjectID()}, {Key: "employeeId", Value: "e-1"}, {Key: "amount", Value: 10.5}},
			bson.D{{Key: "_id", Value: "p-2"}, {Key: "_ord", Value: primitive.NewObjectID()}, {Key: "employeeId", Value: "e-1"}, {Key: "amount", Value: int32(20)}},
		))

		coll := newCollection(mt.Coll, nil)
		docs, err := coll.Find(ctx, docstore.Where("employeeId", "e-1"), 10, 0)
		if err != nil {
			mt.Fatalf("Find returned error: %v", err)
		}
		if len(docs) != 2 || docs[0].ID() != "p-1" || docs[1].Float("amount") != 20 {
			mt.Fatalf("unexpected documents: %v", docs)
		}
		if docs[0].Has("_ord") || docs[0].Has("_id") {
			mt.Fatalf("internal fields leaked: %v", docs[0])
		}
	})

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "records.tasks", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}},
		))

		coll := newCollection(mt.Coll, nil)
		n, err := coll.Count(ctx, docstore.Where("status", "OPEN"))
		if err != nil {
			mt.Fatalf("Count returned error: %v", err)
		}
		if n != 3 {
			mt.Fatalf("expected 3, got %d", n)
		}
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "value",
			Value: bson.D{{Key: "_id", Value: "p-1"}, {Key: "status", Value: "COMPLETED"}},
		}))

		coll := newCollection(mt.Coll, nil)
		updated, err := coll.UpdateByID(ctx, "p-1", docstore.Document{"status": "COMPLETED"})
		if err != nil {
			mt.Fatalf("UpdateByID returned error: %v", err)
		}
		if updated.ID() != "p-1" || updated.String("status") != "COMPLETED" {
			mt.Fatalf("unexpected document: %v", updated)
		}
	})

	mt.Run("delete not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		coll := newCollection(mt.Coll, nil)
		if _, err := coll.DeleteByID(ctx, "missing"); !errors.Is(err, docstore.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBuildFilter(t *testing.T) {
	t.Parallel()

	got := buildFilter(docstore.Where("status", "PENDING").And("employeeId", "e-1").ExcludingID("p-9"))

	want := bson.D{
		{Key: "employeeId", Value: "e-1"},
		{Key: "status", Value: "PENDING"},
		{Key: "_id", Value: bson.D{{Key: "$ne", Value: "p-9"}}},
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected filter: %v", got)
	}
	for i := range want {
		if got[i].Key != want[i].Key {
			t.Fatalf("unexpected key at %d: %s", i, got[i].Key)
		}
	}
	if got[0].Value != "e-1" || got[1].Value != "PENDING" {
		t.Fatalf("unexpected values: %v", got)
	}

	if empty := buildFilter(docstore.Filter{}); len(empty) != 0 {
		t.Fatalf("expected empty filter, got %v", empty)
	}
}

func TestEncodeFields_StripsIdentifiers(t *testing.T) {
	t.Parallel()

	fields := encodeFields(docstore.Document{"id": "x", "_id": "y", "_ord": 1, "title": "A"})
	if len(fields) != 1 || fields["title"] != "A" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestDecodeDocument_NormalizesValues(t *testing.T) {
	t.Parallel()

	hired := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	doc := decodeDocument(bson.M{
		"_id":      "e-1",
		"_ord":     primitive.NewObjectID(),
		"hireDate": primitive.NewDateTimeFromTime(hired),
		"tags":     bson.A{"a", primitive.NewDateTimeFromTime(hired)},
		"meta":     bson.M{"at": primitive.NewDateTimeFromTime(hired)},
	})

	if doc.ID() != "e-1" || doc.Has("_ord") {
		t.Fatalf("unexpected identifiers: %v", doc)
	}
	if !doc.Time("hireDate").Equal(hired) {
		t.Fatalf("unexpected hireDate: %v", doc["hireDate"])
	}
	tags, ok := doc["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Fatalf("unexpected tags: %v", doc["tags"])
	}
	if at, ok := tags[1].(time.Time); !ok || !at.Equal(hired) {
		t.Fatalf("nested date not normalized: %v", tags[1])
	}
	meta, ok := doc["meta"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected meta: %v", doc["meta"])
	}
	if _, ok := meta["at"].(time.Time); !ok {
		t.Fatalf("nested document date not normalized: %v", meta["at"])
	}
}
