package employee

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
)

// MinSalary is the lowest salary accepted by validation.
const MinSalary = 20000

var (
	employeeIDPattern  = regexp.MustCompile(`^EMP[0-9]{3,6}$`)
	phoneNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Fields holds the raw text inputs of the employee form, before validation.
// Salary arrives as text because that is how form input is captured.
type Fields struct {
	FullName    string
	Email       string
	EmployeeID  string
	Department  string
	PhoneNumber string
	Position    string
	Salary      string
}

// FieldErrors maps a document field name to a human-readable message. An
// empty map means the input passed.
type FieldErrors map[string]string

// Validate evaluates every rule independently and returns the failures keyed
// by field name. It is pure: no store access, no state.
func Validate(f Fields) FieldErrors {
	errs := make(FieldErrors)

	for _, check := range []struct {
		field string
		value string
	}{
		{FieldFullName, f.FullName},
		{FieldEmail, f.Email},
		{FieldEmployeeID, f.EmployeeID},
		{FieldDepartment, f.Department},
		{FieldPhoneNumber, f.PhoneNumber},
		{FieldPosition, f.Position},
		{FieldSalary, f.Salary},
	} {
		if msg := ValidateField(check.field, check.value); msg != "" {
			errs[check.field] = msg
		}
	}

	return errs
}

// ValidateField evaluates the rule for a single field and returns the error
// message, or "" when the value passes. Unknown field names pass.
func ValidateField(field, value string) string {
	value = strings.TrimSpace(value)

	switch field {
	case FieldFullName:
		if value == "" {
			return "Full name is required"
		}
		if len(value) < 2 {
			return "Full name must be at least 2 characters long"
		}
		if len(value) > 50 {
			return "Full name must not exceed 50 characters"
		}
	case FieldEmail:
		if value == "" {
			return "Email is required"
		}
		if _, err := mail.ParseAddress(value); err != nil {
			return "Invalid email address"
		}
	case FieldEmployeeID:
		if value == "" {
			return "Employee ID is required"
		}
		if !employeeIDPattern.MatchString(value) {
			return "Employee ID must be in format EMP followed by 3-6 digits"
		}
	case FieldDepartment:
		if value == "" {
			return "Department is required"
		}
		if len(value) < 2 {
			return "Department must be at least 2 characters"
		}
	case FieldPhoneNumber:
		if value == "" {
			return "Phone number is required"
		}
		if !phoneNumberPattern.MatchString(value) {
			return "Phone number must be a valid 10-digit number"
		}
	case FieldPosition:
		if value == "" {
			return "Position is required"
		}
		if len(value) < 2 {
			return "Position must be at least 2 characters"
		}
	case FieldSalary:
		if value == "" {
			return "Salary is required"
		}
		salary, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "Salary must be a number"
		}
		if salary <= 0 {
			return "Salary must be positive"
		}
		if salary < MinSalary {
			return "Salary must be at least $20,000"
		}
	}

	return ""
}
