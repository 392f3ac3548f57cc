package employee

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"staffbook/docstore"
)

var (
	// ErrDeleteInFlight signals a delete for a record whose previous delete
	// has not completed yet.
	ErrDeleteInFlight = errors.New("employee: delete already in flight")
	// ErrRecordNotFound signals a delete for an id absent from the local
	// sequence.
	ErrRecordNotFound = errors.New("employee: record not found")
)

// ListController maintains an in-memory mirror of the employee collection as
// of the last successful refresh, plus the set of ids with an outstanding
// remote delete. One controller instance belongs to one list view; the mirror
// and the in-flight set are never shared.
type ListController struct {
	mu         sync.Mutex
	store      docstore.Store
	collection string

	records  []Record
	deleting map[string]struct{}

	// deleteGen counts completed deletes; tombstones records the generation
	// at which each id was deleted. A refresh whose snapshot was taken before
	// a delete completed must not resurrect that record.
	deleteGen  uint64
	tombstones map[string]uint64
}

// NewListController creates a controller with an empty mirror.
func NewListController(store docstore.Store) *ListController {
	return &ListController{
		store:      store,
		collection: Collection,
		deleting:   make(map[string]struct{}),
		tombstones: make(map[string]uint64),
	}
}

// Refresh replaces the mirror with a fresh full fetch. On failure the
// previous mirror is retained and the error returned. Records deleted while
// the fetch was in flight are masked out of the stale snapshot; a record the
// store still returns in a snapshot taken after its delete completed has
// genuinely reappeared and is kept.
func (c *ListController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	startGen := c.deleteGen
	c.mu.Unlock()

	stored, err := c.store.FetchAll(ctx, c.collection)
	if err != nil {
		return fmt.Errorf("employee: refresh: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]Record, 0, len(stored))
	for _, s := range stored {
		if gen, ok := c.tombstones[s.ID]; ok {
			if gen > startGen {
				continue
			}
			delete(c.tombstones, s.ID)
		}
		records = append(records, recordFromStored(s))
	}

	c.records = records
	return nil
}

// Delete removes the record remotely and then from the mirror. The id is
// marked in flight before the remote call and cleared when it completes,
// success or not; a second Delete for the same id while one is outstanding is
// refused. Callers are expected to have confirmed the irreversible delete
// with the user before invoking this.
func (c *ListController) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if _, inFlight := c.deleting[id]; inFlight {
		c.mu.Unlock()
		return ErrDeleteInFlight
	}
	if c.indexOf(id) < 0 {
		c.mu.Unlock()
		return ErrRecordNotFound
	}
	c.deleting[id] = struct{}{}
	c.mu.Unlock()

	err := c.store.DeleteByID(ctx, c.collection, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.deleting, id)

	if err != nil {
		// Record stays in the mirror so the caller can retry.
		return fmt.Errorf("employee: delete %s: %w", id, err)
	}

	c.deleteGen++
	c.tombstones[id] = c.deleteGen
	if i := c.indexOf(id); i >= 0 {
		c.records = append(c.records[:i:i], c.records[i+1:]...)
	}
	return nil
}

// Records returns a copy of the mirrored sequence.
func (c *ListController) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Deleting reports whether id has a delete in flight. List views use this to
// mark the record and disable its delete action.
func (c *ListController) Deleting(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.deleting[id]
	return ok
}

// Count returns the number of mirrored records.
func (c *ListController) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *ListController) indexOf(id string) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
