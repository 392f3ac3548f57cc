package docstore

import (
	"context"
	"testing"
)

func TestMemory_InsertionOrderPreserved(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id1, err := store.Insert(ctx, "things", Document{"n": "one"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id2, err := store.Insert(ctx, "things", Document{"n": "two"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	docs, err := store.FetchAll(ctx, "things")
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != id1 || docs[1].ID != id2 {
		t.Fatalf("expected [%s %s], got %+v", id1, id2, docs)
	}
}

func TestMemory_FetchWhereEquality(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, err := store.Insert(ctx, "things", Document{"color": "red"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	want, err := store.Insert(ctx, "things", Document{"color": "blue"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	docs, err := store.FetchWhere(ctx, "things", "color", "blue")
	if err != nil {
		t.Fatalf("fetch where: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != want {
		t.Fatalf("expected single blue doc %s, got %+v", want, docs)
	}

	docs, err = store.FetchWhere(ctx, "things", "color", "green")
	if err != nil {
		t.Fatalf("fetch where: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no matches, got %+v", docs)
	}
}

func TestMemory_DeleteByID(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Insert(ctx, "things", Document{"n": "one"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := store.DeleteByID(ctx, "things", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting a missing id is a no-op, like the remote store contract.
	if err := store.DeleteByID(ctx, "things", id); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	docs, err := store.FetchAll(ctx, "things")
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty collection, got %+v", docs)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	doc := Document{"n": "one"}
	id, err := store.Insert(ctx, "things", doc)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	doc["n"] = "mutated"

	docs, err := store.FetchAll(ctx, "things")
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if docs[0].Data["n"] != "one" {
		t.Fatalf("caller mutation leaked into store for %s: %+v", id, docs[0].Data)
	}

	docs[0].Data["n"] = "also mutated"
	again, _ := store.FetchAll(ctx, "things")
	if again[0].Data["n"] != "one" {
		t.Fatal("fetched copy mutation leaked into store")
	}
}
