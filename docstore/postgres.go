package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Store on top of a single jsonb documents table. The
// table carries no constraints on document fields, matching the schemaless
// contract.
type Postgres struct {
	pool        *pgxpool.Pool
	idGenerator func() string
}

// NewPostgres creates a PostgreSQL-backed document store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{
		pool:        pool,
		idGenerator: func() string { return uuid.NewString() },
	}
}

// WithIDGenerator overrides document id generation, for tests.
func (s *Postgres) WithIDGenerator(gen func() string) *Postgres {
	s.idGenerator = gen
	return s
}

// Insert adds doc to collection and returns the generated id.
func (s *Postgres) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode document for %q: %v", ErrRemoteWrite, collection, err)
	}

	id := s.idGenerator()
	const insertSQL = `
		INSERT INTO documents (id, collection, data)
		VALUES ($1, $2, $3::jsonb)
	`
	if _, err := s.pool.Exec(ctx, insertSQL, id, collection, payload); err != nil {
		return "", fmt.Errorf("%w: insert into %q: %v", ErrRemoteWrite, collection, err)
	}

	return id, nil
}

// FetchAll returns every document in collection in insertion order.
func (s *Postgres) FetchAll(ctx context.Context, collection string) ([]Stored, error) {
	const selectSQL = `
		SELECT id, data
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`

	rows, err := s.pool.Query(ctx, selectSQL, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch all from %q: %v", ErrRemoteRead, collection, err)
	}
	defer rows.Close()

	return scanDocuments(rows, collection)
}

// FetchWhere returns the documents in collection whose field equals value.
func (s *Postgres) FetchWhere(ctx context.Context, collection, field, value string) ([]Stored, error) {
	const selectSQL = `
		SELECT id, data
		FROM documents
		WHERE collection = $1 AND data ->> $2 = $3
		ORDER BY created_at, id
	`

	rows, err := s.pool.Query(ctx, selectSQL, collection, field, value)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch from %q where %s: %v", ErrRemoteRead, collection, field, err)
	}
	defer rows.Close()

	return scanDocuments(rows, collection)
}

// DeleteByID removes the document with the given id. Missing ids are a no-op.
func (s *Postgres) DeleteByID(ctx context.Context, collection, id string) error {
	const deleteSQL = `
		DELETE FROM documents
		WHERE collection = $1 AND id = $2
	`
	if _, err := s.pool.Exec(ctx, deleteSQL, collection, id); err != nil {
		return fmt.Errorf("%w: delete %s from %q: %v", ErrRemoteWrite, id, collection, err)
	}
	return nil
}

func scanDocuments(rows pgx.Rows, collection string) ([]Stored, error) {
	var out []Stored
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("%w: scan document from %q: %v", ErrRemoteRead, collection, err)
		}
		var data Document
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("%w: decode document %s from %q: %v", ErrRemoteRead, id, collection, err)
		}
		out = append(out, Stored{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %q: %v", ErrRemoteRead, collection, err)
	}
	return out, nil
}
