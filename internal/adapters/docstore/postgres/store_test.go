package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newMockCollection(t *testing.T, name string) (pgxmock.PgxPoolIface, docstore.Collection) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	store := NewStore(mock)
	store.newID = func() string { return "id-1" }
	return mock, store.Collection(name)
}

func TestCollection_Insert(t *testing.T) {
	t.Parallel()

	mock, coll := newMockCollection(t, "tasks")

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tasks" (id, data) VALUES ($1, $2::jsonb) RETURNING id, data`)).
		WithArgs("id-1", `{"status":"OPEN","title":"A"}`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "data"}).
			AddRow("id-1", []byte(`{"status":"OPEN","title":"A"}`)))

	inserted, err := coll.Insert(context.Background(), docstore.Document{"title": "A", "status": "OPEN"})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if inserted.ID() != "id-1" || inserted.String("title") != "A" {
		t.Fatalf("unexpected document: %v", inserted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollection_Insert_UniqueViolation(t *testing.T) {
	t.Parallel()

	mock, coll := newMockCollection(t, "employees")

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "employees"`)).
		WithArgs("id-1", `{"email":"a@x.com"}`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "employees_email_key"})

	_, err := coll.Insert(context.Background(), docstore.Document{"email": "a@x.com"})
	if !errors.Is(err, docstore.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollection_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, coll := newMockCollection(t, "tasks")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, data FROM "tasks" WHERE id = $1`)).
		WithArgs("000").
		WillReturnError(pgx.ErrNoRows)

	if _, err := coll.FindByID(context.Background(), "000"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollection_Find_WithFilterLimitSkip(t *testing.T) {
	t.Parallel()

	mock, coll := newMockCollection(t, "payments")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, data FROM "payments" WHERE data @> $1::jsonb ORDER BY seq LIMIT $2 OFFSET $3`)).
		WithArgs(`{"employeeId":"emp-1","status":"PENDING"}`, 2, 4).
		WillReturnRows(pgxmock.NewRows([]string{"id", "data"}).
			AddRow("p-5", []byte(`{"employeeId":"emp-1","status":"PENDING","amount":10}`)).
			AddRow("p-6", []byte(`{"employeeId":"emp-1","status":"PENDING","amount":20}`)))

	docs, err := coll.Find(context.Background(), docstore.Where("employeeId", "emp-1").And("status", "PENDING"), 2, 4)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(docs) != 2 || docs[0].ID() != "p-5" || docs[1].Float("amount") != 20 {
		t.Fatalf("unexpected documents: %v", docs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollection_FindOne_ExcludingID(t *testing.T) {
	t.Parallel()

	mock, coll := newMockCollection(t, "employees")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, data FROM "employees" WHERE data @> $1::jsonb AND id <> $2 ORDER BY seq LIMIT $3`)).
		WithArgs(`{"email":"a@x.com"}`, "emp-1", 1).
		WillReturnRows(pgxmock.NewRows([]string{"id", "data"}))

	_, err := coll.FindOne(context.Background(), docstore.Where("email", "a@x.com").ExcludingID("emp-1"))
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollection_Count(t *testing.T) {
	t.Parallel()

	mock, coll := newMockCollection(t, "employees")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "employees"`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	n, err := coll.Count(context.Background(), docstore.Filter{})
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7, got %d", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollection_UpdateByID(t *testing.T) {
	t.Parallel()

	mock, coll := newMockCollection(t, "payments")

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE "payments" SET data = data || $2::jsonb WHERE id = $1 RETURNING id, data`)).
		WithArgs("p-1", `{"status":"COMPLETED"}`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "data"}).
			AddRow("p-1", []byte(`{"employeeId":"emp-1","status":"COMPLETED"}`)))

	updated, err := coll.UpdateByID(context.Background(), "p-1", docstore.Document{"id": "ignored", "status": "COMPLETED"})
	if err != nil {
		t.Fatalf("UpdateByID returned error: %v", err)
	}
	if updated.String("status") != "COMPLETED" || updated.ID() != "p-1" {
		t.Fatalf("unexpected document: %v", updated)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollection_DeleteByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, coll := newMockCollection(t, "tasks")

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM "tasks" WHERE id = $1 RETURNING id, data`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := coll.DeleteByID(context.Background(), "missing"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTranslatePgError(t *testing.T) {
	t.Parallel()

	other := errors.New("other")
	if translatePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
	if translatePgError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
