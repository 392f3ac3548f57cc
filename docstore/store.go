package docstore

import (
	"context"
	"errors"
)

var (
	// ErrRemoteRead signals a failed fetch against the backing store.
	ErrRemoteRead = errors.New("docstore: remote read failed")
	// ErrRemoteWrite signals a failed insert or delete against the backing store.
	ErrRemoteWrite = errors.New("docstore: remote write failed")
)

// Document is a schemaless record as held by the store. Field names and value
// types are the caller's business; the store never inspects them beyond the
// equality filter in FetchWhere.
type Document map[string]any

// Stored pairs a document with the id the store assigned on insert.
type Stored struct {
	ID   string
	Data Document
}

// Store is the remote document store consumed by the core. There are no
// transactions and no server-side uniqueness constraints; callers that need
// uniqueness approximate it with FetchWhere before Insert.
type Store interface {
	// Insert adds doc to collection and returns the assigned id.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	// FetchAll returns every document in collection.
	FetchAll(ctx context.Context, collection string) ([]Stored, error)
	// FetchWhere returns the documents whose field equals value, compared as
	// the field's string form.
	FetchWhere(ctx context.Context, collection, field, value string) ([]Stored, error)
	// DeleteByID removes the document with the given id. Deleting an id that
	// does not exist is not an error.
	DeleteByID(ctx context.Context, collection, id string) error
}
