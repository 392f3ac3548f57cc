package employee

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"staffbook/docstore"
)

func seededController(t *testing.T) (*ListController, *fakeStore, []string) {
	t.Helper()
	store := newFakeStore()
	idA := seedRecord(t, store, "a@example.com", "EMP100")
	idB := seedRecord(t, store, "b@example.com", "EMP101")

	c := NewListController(store)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	return c, store, []string{idA, idB}
}

func TestListController_RefreshMirrorsStore(t *testing.T) {
	c, _, ids := seededController(t)

	records := c.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != ids[0] || records[1].ID != ids[1] {
		t.Fatalf("expected insertion order %v, got [%s %s]", ids, records[0].ID, records[1].ID)
	}
}

func TestListController_RefreshIdempotent(t *testing.T) {
	c, _, _ := seededController(t)

	first := c.Records()
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	second := c.Records()

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical sequences, got %v then %v", first, second)
	}
}

func TestListController_RefreshFailureRetainsPrevious(t *testing.T) {
	c, store, _ := seededController(t)

	store.setFetchAllErr(docstore.ErrRemoteRead)
	err := c.Refresh(context.Background())
	if !errors.Is(err, docstore.ErrRemoteRead) {
		t.Fatalf("expected remote read error, got %v", err)
	}
	if c.Count() != 2 {
		t.Fatalf("expected previous mirror retained, got %d records", c.Count())
	}
}

func TestListController_DeleteSuccess(t *testing.T) {
	c, store, ids := seededController(t)

	// While the remote delete is in flight the record is marked and stays in
	// the sequence.
	store.mu.Lock()
	store.beforeDelete = func() {
		if !c.Deleting(ids[0]) {
			t.Error("expected record marked deleting during remote call")
		}
		if c.Count() != 2 {
			t.Errorf("expected record still present during remote call, count=%d", c.Count())
		}
	}
	store.mu.Unlock()

	if err := c.Delete(context.Background(), ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if c.Deleting(ids[0]) {
		t.Fatal("expected in-flight mark cleared after success")
	}
	records := c.Records()
	if len(records) != 1 || records[0].ID != ids[1] {
		t.Fatalf("expected only second record left, got %v", records)
	}
}

func TestListController_DeleteFailureClearsMarkKeepsRecord(t *testing.T) {
	c, store, ids := seededController(t)
	store.setDeleteErr(docstore.ErrRemoteWrite)

	err := c.Delete(context.Background(), ids[0])
	if !errors.Is(err, docstore.ErrRemoteWrite) {
		t.Fatalf("expected remote write error, got %v", err)
	}

	if c.Deleting(ids[0]) {
		t.Fatal("expected in-flight mark cleared after failure")
	}
	if c.Count() != 2 {
		t.Fatalf("expected both records retained, got %d", c.Count())
	}
}

func TestListController_DeleteUnknownID(t *testing.T) {
	c, _, _ := seededController(t)

	if err := c.Delete(context.Background(), "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestListController_RefusesConcurrentDeleteOfSameRecord(t *testing.T) {
	c, store, ids := seededController(t)

	release := make(chan struct{})
	started := make(chan struct{})
	store.mu.Lock()
	store.beforeDelete = func() {
		close(started)
		<-release
	}
	store.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.Delete(context.Background(), ids[0]) }()

	<-started
	if err := c.Delete(context.Background(), ids[0]); !errors.Is(err, ErrDeleteInFlight) {
		t.Fatalf("expected ErrDeleteInFlight, got %v", err)
	}

	// A different record can still be deleted concurrently.
	store.mu.Lock()
	store.beforeDelete = nil
	store.mu.Unlock()
	if err := c.Delete(context.Background(), ids[1]); err != nil {
		t.Fatalf("independent delete failed: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
}

func TestListController_StaleRefreshDoesNotResurrectDeleted(t *testing.T) {
	c, store, ids := seededController(t)

	snapshotTaken := make(chan struct{})
	releaseFetch := make(chan struct{})
	store.mu.Lock()
	store.afterFetchAll = func() {
		close(snapshotTaken)
		<-releaseFetch
	}
	store.mu.Unlock()

	refreshDone := make(chan error, 1)
	go func() { refreshDone <- c.Refresh(context.Background()) }()

	// The refresh snapshot still contains the record; delete it while the
	// response is in flight.
	<-snapshotTaken
	store.mu.Lock()
	store.afterFetchAll = nil
	store.mu.Unlock()
	if err := c.Delete(context.Background(), ids[0]); err != nil {
		t.Fatalf("delete during refresh: %v", err)
	}

	close(releaseFetch)
	if err := <-refreshDone; err != nil {
		t.Fatalf("refresh: %v", err)
	}

	for _, r := range c.Records() {
		if r.ID == ids[0] {
			t.Fatal("stale refresh resurrected a deleted record")
		}
	}
	if c.Count() != 1 {
		t.Fatalf("expected 1 record, got %d", c.Count())
	}
}

func TestListController_PostDeleteSnapshotReappearanceIsKept(t *testing.T) {
	c, store, ids := seededController(t)

	if err := c.Delete(context.Background(), ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The same id shows up again: the confirming response was lost and the
	// delete never landed remotely. A refresh whose snapshot postdates the
	// delete reports what the store has.
	store.mem.WithIDGenerator(func() string { return ids[0] })
	seedRecord(t, store, "a@example.com", "EMP100")
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if c.Count() != 2 {
		t.Fatalf("expected reappeared record kept, got %d records", c.Count())
	}
}
