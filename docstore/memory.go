package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Memory implements Store entirely in process. It preserves insertion order
// per collection and is safe for concurrent use.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]Stored
	idGenerator func() string
}

// NewMemory creates an empty in-memory document store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string][]Stored),
		idGenerator: func() string { return uuid.NewString() },
	}
}

// WithIDGenerator overrides document id generation, for tests.
func (s *Memory) WithIDGenerator(gen func() string) *Memory {
	s.idGenerator = gen
	return s
}

func (s *Memory) Insert(_ context.Context, collection string, doc Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.idGenerator()
	s.collections[collection] = append(s.collections[collection], Stored{ID: id, Data: cloneDocument(doc)})
	return id, nil
}

func (s *Memory) FetchAll(_ context.Context, collection string) ([]Stored, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	out := make([]Stored, 0, len(docs))
	for _, d := range docs {
		out = append(out, Stored{ID: d.ID, Data: cloneDocument(d.Data)})
	}
	return out, nil
}

func (s *Memory) FetchWhere(_ context.Context, collection, field, value string) ([]Stored, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Stored
	for _, d := range s.collections[collection] {
		v, ok := d.Data[field]
		if !ok {
			continue
		}
		if fmt.Sprint(v) == value {
			out = append(out, Stored{ID: d.ID, Data: cloneDocument(d.Data)})
		}
	}
	return out, nil
}

func (s *Memory) DeleteByID(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, d := range docs {
		if d.ID == id {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
