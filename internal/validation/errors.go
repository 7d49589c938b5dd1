package validation

import "fmt"

// FieldError describes the first rule a payload broke.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "max":
		return fmt.Sprintf("%s must not exceed %s", e.Field, e.Param)
	case "min":
		return fmt.Sprintf("%s must contain at least %s entries", e.Field, e.Param)
	case "gte", "gt", "lt", "lte":
		return fmt.Sprintf("%s is out of range", e.Field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field, e.Param)
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", e.Field, e.Param)
	case "upload_url":
		return fmt.Sprintf("%s must be a URL returned by the upload service", e.Field)
	case "web_url":
		return fmt.Sprintf("%s must be an http(s) URL", e.Field)
	case "quiz_answers":
		return fmt.Sprintf("%s must contain %d to %d answers", e.Field, MinQuizAnswers, MaxQuizAnswers)
	case "excluded":
		return fmt.Sprintf("%s is only allowed on quiz sections", e.Field)
	}
	return fmt.Sprintf("%s is invalid", e.Field)
}
