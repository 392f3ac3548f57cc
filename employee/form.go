package employee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"staffbook/docstore"
)

// ErrSubmitInFlight signals that a Submit was attempted while a previous one
// had not completed yet.
var ErrSubmitInFlight = errors.New("employee: submit already in flight")

// SubmitResult is the outcome of a Submit that did not fail on the remote
// side: either an inserted id or the field errors that rejected the input.
type SubmitResult struct {
	InsertedID  string
	FieldErrors FieldErrors
}

// Rejected reports whether the submission was turned down by validation or
// the duplicate check.
func (r SubmitResult) Rejected() bool {
	return len(r.FieldErrors) > 0
}

// Form owns the state of one employee entry form: the raw fields, the
// employment-type toggle (held apart from the validated field set, default
// part-time), and the submit-in-flight guard. Submit runs the write pipeline:
// validation, duplicate check, insert, each a hard gate on the next.
type Form struct {
	mu         sync.Mutex
	fields     Fields
	fullTime   bool
	submitting bool

	store   docstore.Store
	checker *DuplicateChecker
	now     func() time.Time
}

// NewForm creates an empty form writing to the given store.
func NewForm(store docstore.Store) *Form {
	return &Form{
		store:   store,
		checker: NewDuplicateChecker(store),
		now:     time.Now,
	}
}

// WithClock overrides the timestamp source, for tests.
func (f *Form) WithClock(now func() time.Time) *Form {
	f.now = now
	return f
}

// SetField updates a single field and returns its validation message, so
// callers can surface errors on every change. Unknown field names are
// ignored.
func (f *Form) SetField(field, value string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldFullName:
		f.fields.FullName = value
	case FieldEmail:
		f.fields.Email = value
	case FieldEmployeeID:
		f.fields.EmployeeID = value
	case FieldDepartment:
		f.fields.Department = value
	case FieldPhoneNumber:
		f.fields.PhoneNumber = value
	case FieldPosition:
		f.fields.Position = value
	case FieldSalary:
		f.fields.Salary = value
	default:
		return ""
	}

	return ValidateField(field, value)
}

// SetFields replaces the whole field set at once.
func (f *Form) SetFields(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

// Fields returns a copy of the current field values.
func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// SetFullTime flips the employment-type toggle.
func (f *Form) SetFullTime(fullTime bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fullTime = fullTime
}

// FullTime reports the toggle state.
func (f *Form) FullTime() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fullTime
}

// Submit runs the pipeline against a snapshot of the current form state.
//
// Validation or duplicate rejection returns a SubmitResult carrying the field
// errors and a nil error. A store failure returns a non-nil error wrapping
// docstore.ErrRemoteRead (duplicate check) or docstore.ErrRemoteWrite
// (insert); the form is preserved in both cases so the caller can retry
// without re-entering data. On success the form is also left intact: callers
// reset it explicitly once they have acknowledged the result.
func (f *Form) Submit(ctx context.Context) (SubmitResult, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return SubmitResult{}, ErrSubmitInFlight
	}
	f.submitting = true
	fields := f.fields
	fullTime := f.fullTime
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	if errs := Validate(fields); len(errs) > 0 {
		return SubmitResult{FieldErrors: errs}, nil
	}

	dup, err := f.checker.Check(ctx, fields.Email, fields.EmployeeID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("employee: submit: %w", err)
	}
	if dup.IsDuplicate {
		return SubmitResult{FieldErrors: FieldErrors{dup.Field: dup.Message}}, nil
	}

	record := f.buildRecord(fields, fullTime)
	id, err := f.store.Insert(ctx, Collection, record.document())
	if err != nil {
		return SubmitResult{}, fmt.Errorf("employee: insert record: %w", err)
	}

	return SubmitResult{InsertedID: id}, nil
}

// Reset clears every field and returns the toggle to its part-time default.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = Fields{}
	f.fullTime = false
}

func (f *Form) buildRecord(fields Fields, fullTime bool) Record {
	// Salary already passed validation; a parse failure here is impossible.
	salary, _ := strconv.ParseFloat(fields.Salary, 64)

	employmentType := PartTime
	if fullTime {
		employmentType = FullTime
	}

	return Record{
		FullName:       fields.FullName,
		Email:          fields.Email,
		EmployeeID:     fields.EmployeeID,
		Department:     fields.Department,
		Position:       fields.Position,
		PhoneNumber:    fields.PhoneNumber,
		Salary:         salary,
		EmploymentType: employmentType,
		CreatedAt:      f.now(),
	}
}
