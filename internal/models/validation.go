package models

import (
	"fmt"
	"strings"
)

// ValidationError lists the required fields that were left empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please fill in all required fields: %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Missing = append(e.Missing, field)
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Missing) == 0 {
		return nil
	}
	return e
}
