package schema

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"salescockpit/internal/models"
)

// How many field errors a batch error message shows before cutting off.
const maxShownErrors = 20

// FieldError is one failed rule, addressed by 1-based row number and field
// name.
type FieldError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("row %d, field %q: %s", e.Row, e.Field, e.Message)
}

// BatchError rejects an entire upload. Partial success is not supported: a
// single bad row poisons the batch and nothing is written.
type BatchError struct {
	Errors []FieldError
}

func (e *BatchError) Error() string {
	shown := e.Errors
	if len(shown) > maxShownErrors {
		shown = shown[:maxShownErrors]
	}
	lines := make([]string, 0, len(shown)+1)
	for _, fe := range shown {
		lines = append(lines, fe.Error())
	}
	if len(e.Errors) > maxShownErrors {
		lines = append(lines, fmt.Sprintf("... and %d more (%d errors total)",
			len(e.Errors)-maxShownErrors, len(e.Errors)))
	}
	return fmt.Sprintf("validation failed:\n%s", strings.Join(lines, "\n"))
}

// ValidateRow checks one transformed row against the schema and returns the
// rule violations found. rowNum is the 1-based position of the row in the
// batch and only labels the errors. Fields the schema does not declare are
// ignored.
func ValidateRow(row models.Row, s Schema, rowNum int) []FieldError {
	var errs []FieldError

	for field, rule := range s {
		value, ok := row[field]
		if !ok || value == nil {
			if rule.Required {
				errs = append(errs, FieldError{Row: rowNum, Field: field, Message: "is required"})
			}
			continue
		}

		switch rule.Kind {
		case Number:
			f, isNum := value.(float64)
			if !isNum {
				errs = append(errs, FieldError{Row: rowNum, Field: field, Message: "must be a number"})
				continue
			}
			if rule.Min != nil && f < *rule.Min {
				errs = append(errs, FieldError{Row: rowNum, Field: field,
					Message: fmt.Sprintf("must be at least %g", *rule.Min)})
			}
			if rule.Max != nil && f > *rule.Max {
				errs = append(errs, FieldError{Row: rowNum, Field: field,
					Message: fmt.Sprintf("must be at most %g", *rule.Max)})
			}
			if rule.Integer && f != math.Trunc(f) {
				errs = append(errs, FieldError{Row: rowNum, Field: field, Message: "must be a whole number"})
			}

		default:
			str, isStr := value.(string)
			if !isStr {
				errs = append(errs, FieldError{Row: rowNum, Field: field, Message: "must be a string"})
				continue
			}
			if rule.Required && str == "" {
				errs = append(errs, FieldError{Row: rowNum, Field: field, Message: "is required"})
				continue
			}
			if rule.MaxLen > 0 && len([]rune(str)) > rule.MaxLen {
				errs = append(errs, FieldError{Row: rowNum, Field: field,
					Message: fmt.Sprintf("exceeds %d characters", rule.MaxLen)})
			}
			if len(rule.Enum) > 0 && !contains(rule.Enum, str) {
				errs = append(errs, FieldError{Row: rowNum, Field: field,
					Message: fmt.Sprintf("must be one of %s", strings.Join(nonEmpty(rule.Enum), ", "))})
			}
			if rule.URL && str != "" && !validURL(str) {
				errs = append(errs, FieldError{Row: rowNum, Field: field, Message: "must be a valid URL"})
			}
		}
	}

	return errs
}

// ValidateBatch validates every row independently and accumulates all
// errors. If any row fails, the whole batch is rejected: the returned error
// is a *BatchError and no rows should be persisted. All-or-nothing is a
// deliberate atomicity trade-off over partial commits.
func ValidateBatch(rows []models.Row, s Schema) error {
	var all []FieldError
	for i, row := range rows {
		all = append(all, ValidateRow(row, s, i+1)...)
	}
	if len(all) > 0 {
		return &BatchError{Errors: all}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func nonEmpty(set []string) []string {
	var out []string
	for _, s := range set {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
