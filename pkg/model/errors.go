package model

import (
	"fmt"
	"strings"
)

const MsgDateOrder = "End date must be after start date"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors enumerates every offending field of a payload.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(e), strings.Join(messages, "; "))
}

func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	seen := make(map[string]struct{}, len(e))
	for _, err := range e {
		if _, ok := seen[err.Field]; ok {
			continue
		}
		seen[err.Field] = struct{}{}
		fields = append(fields, err.Field)
	}
	return fields
}
