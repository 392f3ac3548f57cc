package employee

import (
	"context"
	"sync"

	"staffbook/docstore"
)

// fakeStore wraps the in-memory store with call counting, error injection,
// and hooks for ordering tests.
type fakeStore struct {
	mem *docstore.Memory

	mu              sync.Mutex
	insertErr       error
	fetchAllErr     error
	fetchWhereErr   error
	deleteErr       error
	insertCalls     int
	fetchAllCalls   int
	fetchWhereCalls int
	deleteCalls     int

	// afterFetchAll runs after the snapshot is taken but before it is
	// returned, simulating a slow response carrying stale data.
	afterFetchAll func()
	beforeDelete  func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{mem: docstore.NewMemory()}
}

func (f *fakeStore) Insert(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	f.mu.Lock()
	f.insertCalls++
	err := f.insertErr
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	return f.mem.Insert(ctx, collection, doc)
}

func (f *fakeStore) FetchAll(ctx context.Context, collection string) ([]docstore.Stored, error) {
	f.mu.Lock()
	f.fetchAllCalls++
	err := f.fetchAllErr
	hook := f.afterFetchAll
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out, ferr := f.mem.FetchAll(ctx, collection)
	if hook != nil {
		hook()
	}
	return out, ferr
}

func (f *fakeStore) FetchWhere(ctx context.Context, collection, field, value string) ([]docstore.Stored, error) {
	f.mu.Lock()
	f.fetchWhereCalls++
	err := f.fetchWhereErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.mem.FetchWhere(ctx, collection, field, value)
}

func (f *fakeStore) DeleteByID(ctx context.Context, collection, id string) error {
	f.mu.Lock()
	f.deleteCalls++
	err := f.deleteErr
	hook := f.beforeDelete
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return err
	}
	return f.mem.DeleteByID(ctx, collection, id)
}

func (f *fakeStore) setInsertErr(err error)     { f.mu.Lock(); f.insertErr = err; f.mu.Unlock() }
func (f *fakeStore) setFetchAllErr(err error)   { f.mu.Lock(); f.fetchAllErr = err; f.mu.Unlock() }
func (f *fakeStore) setFetchWhereErr(err error) { f.mu.Lock(); f.fetchWhereErr = err; f.mu.Unlock() }
func (f *fakeStore) setDeleteErr(err error)     { f.mu.Lock(); f.deleteErr = err; f.mu.Unlock() }

func (f *fakeStore) calls() (insert, fetchAll, fetchWhere, del int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertCalls, f.fetchAllCalls, f.fetchWhereCalls, f.deleteCalls
}
