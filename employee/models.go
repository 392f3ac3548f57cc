package employee

import (
	"strconv"
	"time"

	"staffbook/docstore"
)

// Collection is the document store collection holding employee records.
const Collection = "employees"

// EmploymentType distinguishes full-time from part-time employees.
type EmploymentType string

const (
	FullTime EmploymentType = "Full-Time"
	PartTime EmploymentType = "Part-Time"
)

// Document field names as persisted in the store. FieldEmail and
// FieldEmployeeID double as the uniqueness keys for the duplicate check.
const (
	FieldFullName       = "fullName"
	FieldEmail          = "email"
	FieldEmployeeID     = "employeeId"
	FieldDepartment     = "department"
	FieldPhoneNumber    = "phoneNumber"
	FieldPosition       = "position"
	FieldSalary         = "salary"
	FieldEmploymentType = "employmentType"
	FieldCreatedAt      = "createdAt"
)

// Record is the domain representation of a stored employee. The id is
// assigned by the store on insert; records are immutable once created, the
// only mutation in scope is deletion.
type Record struct {
	ID             string
	FullName       string
	Email          string
	EmployeeID     string
	Department     string
	Position       string
	PhoneNumber    string
	Salary         float64
	EmploymentType EmploymentType
	CreatedAt      time.Time
}

func (r Record) document() docstore.Document {
	return docstore.Document{
		FieldFullName:       r.FullName,
		FieldEmail:          r.Email,
		FieldEmployeeID:     r.EmployeeID,
		FieldDepartment:     r.Department,
		FieldPhoneNumber:    r.PhoneNumber,
		FieldPosition:       r.Position,
		FieldSalary:         r.Salary,
		FieldEmploymentType: string(r.EmploymentType),
		FieldCreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// recordFromStored tolerates missing or oddly typed fields rather than
// failing the whole fetch; the store is schemaless and older documents may
// not carry every field.
func recordFromStored(s docstore.Stored) Record {
	r := Record{
		ID:             s.ID,
		FullName:       stringField(s.Data, FieldFullName),
		Email:          stringField(s.Data, FieldEmail),
		EmployeeID:     stringField(s.Data, FieldEmployeeID),
		Department:     stringField(s.Data, FieldDepartment),
		Position:       stringField(s.Data, FieldPosition),
		PhoneNumber:    stringField(s.Data, FieldPhoneNumber),
		EmploymentType: EmploymentType(stringField(s.Data, FieldEmploymentType)),
	}

	switch v := s.Data[FieldSalary].(type) {
	case float64:
		r.Salary = v
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			r.Salary = parsed
		}
	}

	if raw := stringField(s.Data, FieldCreatedAt); raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			r.CreatedAt = ts
		}
	}

	return r
}

func stringField(doc docstore.Document, field string) string {
	v, ok := doc[field].(string)
	if !ok {
		return ""
	}
	return v
}
