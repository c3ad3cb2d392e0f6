package service

import (
	"errors"
	"strings"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs struct tags and folds the first failure into a ValidationError
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.Validation("invalid input")
	}
	fe := verrs[0]
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return common.Validation("%s is required", field)
	case "max":
		return common.Validation("%s must be at most %s", field, fe.Param())
	case "oneof":
		return common.Validation("%s must be one of [%s]", field, fe.Param())
	default:
		return common.Validation("%s is invalid", field)
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return common.Validation("%s is required", field)
	}
	return nil
}

func statusError(status string) error {
	return common.Validation("unknown status %q", status)
}
