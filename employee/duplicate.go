package employee

import (
	"context"
	"fmt"

	"staffbook/docstore"
)

// DuplicateResult reports whether a candidate collides with an existing
// record and, if so, on which uniqueness key.
type DuplicateResult struct {
	IsDuplicate bool
	Field       string
	Message     string
}

// DuplicateChecker approximates a uniqueness constraint the store does not
// enforce by querying for exact collisions before insert. Two concurrent
// submissions can still both pass the check before either insert lands; that
// race is accepted, not locked against.
type DuplicateChecker struct {
	store      docstore.Store
	collection string
}

// NewDuplicateChecker builds a checker over the given store.
func NewDuplicateChecker(store docstore.Store) *DuplicateChecker {
	return &DuplicateChecker{store: store, collection: Collection}
}

// Check queries email first, then employeeID. The first hit wins: a candidate
// colliding on both keys is reported as an email duplicate. A store failure
// during either fetch propagates; callers must not insert when the check
// itself failed.
func (c *DuplicateChecker) Check(ctx context.Context, email, employeeID string) (DuplicateResult, error) {
	matches, err := c.store.FetchWhere(ctx, c.collection, FieldEmail, email)
	if err != nil {
		return DuplicateResult{}, fmt.Errorf("employee: check duplicate email: %w", err)
	}
	if len(matches) > 0 {
		return DuplicateResult{
			IsDuplicate: true,
			Field:       FieldEmail,
			Message:     "Email already exists",
		}, nil
	}

	matches, err = c.store.FetchWhere(ctx, c.collection, FieldEmployeeID, employeeID)
	if err != nil {
		return DuplicateResult{}, fmt.Errorf("employee: check duplicate employee id: %w", err)
	}
	if len(matches) > 0 {
		return DuplicateResult{
			IsDuplicate: true,
			Field:       FieldEmployeeID,
			Message:     "Employee ID already exists",
		}, nil
	}

	return DuplicateResult{}, nil
}
