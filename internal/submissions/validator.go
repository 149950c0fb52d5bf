package submissions

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	submissionmodels "io.winapps.sparkbrush/internal/models/submission"
)

const (
	minImages   = 1
	maxImages   = 3
	maxNotesLen = 500
	maxTags     = 10
	maxTagLen   = 30
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failed field check; a rejected
// submission is terminal and never queued.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "invalid submission: " + strings.Join(msgs, "; ")
}

// Validate runs every structural check on a candidate payload before
// any I/O happens. Returns nil when the payload is acceptable.
func Validate(p submissionmodels.Payload) *ValidationError {
	var fields []FieldError

	if _, err := uuid.Parse(p.PromptID); err != nil {
		fields = append(fields, FieldError{Field: "promptId", Message: "must be a well-formed prompt ID"})
	}
	if len(p.Images) < minImages || len(p.Images) > maxImages {
		fields = append(fields, FieldError{Field: "images", Message: fmt.Sprintf("must contain between %d and %d images", minImages, maxImages)})
	}
	if utf8.RuneCountInString(p.Notes) > maxNotesLen {
		fields = append(fields, FieldError{Field: "notes", Message: fmt.Sprintf("must be at most %d characters", maxNotesLen)})
	}
	if len(p.Tags) > maxTags {
		fields = append(fields, FieldError{Field: "tags", Message: fmt.Sprintf("must contain at most %d tags", maxTags)})
	}
	for i, tag := range p.Tags {
		if tag == "" {
			fields = append(fields, FieldError{Field: fmt.Sprintf("tags[%d]", i), Message: "must not be empty"})
			continue
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			fields = append(fields, FieldError{Field: fmt.Sprintf("tags[%d]", i), Message: fmt.Sprintf("must be at most %d characters", maxTagLen)})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
