package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestIndexModels(t *testing.T) {
	t.Parallel()

	models := IndexModels()

	employees := models["employees"]
	if len(employees) != 1 {
		t.Fatalf("expected one employees index, got %d", len(employees))
	}
	keys, ok := employees[0].Keys.(bson.D)
	if !ok || len(keys) != 1 || keys[0].Key != "email" {
		t.Fatalf("unexpected employees index keys: %v", employees[0].Keys)
	}
	if employees[0].Options.Unique == nil || !*employees[0].Options.Unique {
		t.Fatal("expected employees email index to be unique")
	}

	payments := models["payments"]
	if len(payments) != 1 {
		t.Fatalf("expected one payments index, got %d", len(payments))
	}
	if keys, ok := payments[0].Keys.(bson.D); !ok || keys[0].Key != "employeeId" {
		t.Fatalf("unexpected payments index keys: %v", payments[0].Keys)
	}
	if payments[0].Options.Unique != nil && *payments[0].Options.Unique {
		t.Fatal("payments index must not be unique")
	}
}
