package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Errors lists every missing or invalid field of a request.
type Errors struct {
	Fields []string
}

func (e *Errors) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Add records a field once, keeping first-seen order.
func (e *Errors) Add(field string) {
	for _, existing := range e.Fields {
		if existing == field {
			return
		}
	}
	e.Fields = append(e.Fields, field)
}

// Err returns nil when nothing was recorded.
func (e *Errors) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Fields returns the invalid field list carried by err, if any.
func Fields(err error) ([]string, bool) {
	var vErr *Errors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr.Fields, true
	}
	return nil, false
}

// Field builds a single-field validation error.
func Field(name string) error {
	return &Errors{Fields: []string{name}}
}
