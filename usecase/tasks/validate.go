package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taskmock/backend/api/transport"
	"github.com/taskmock/backend/domain"
)

// Draft is a validated, normalized task creation payload: trimmed title,
// confirmed priority, parsed due date (nil when absent).
type Draft struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
}

// createRules is the shape checked by the validator. The canonical minimum
// title length is 3 characters.
type createRules struct {
	Title    string `validate:"required,min=3,max=200"`
	Priority string `validate:"required,oneof=low medium high"`
}

var createValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateCreate checks a creation payload and returns either a normalized
// draft or a 422 ValidationError carrying every violated field's message.
// Past due dates are not rejected here; only parseability is required.
func ValidateCreate(req transport.CreateTaskRequest) (*Draft, *domain.Error) {
	var msgs []string

	rules := createRules{
		Title:    strings.TrimSpace(req.Title),
		Priority: req.Priority,
	}
	if err := createValidator.Struct(rules); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				msgs = append(msgs, fieldMessage(fe))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
	}

	var due *time.Time
	if req.DueDate != "" {
		parsed, err := parseDate(req.DueDate)
		if err != nil {
			msgs = append(msgs, "dueDate must be a valid date")
		} else {
			due = &parsed
		}
	}

	if len(msgs) > 0 {
		return nil, domain.Validation(msgs)
	}

	return &Draft{
		Title:       rules.Title,
		Description: req.Description,
		Priority:    domain.Priority(rules.Priority),
		DueDate:     due,
	}, nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is a required field", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
