package request

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxPlateLength = 16

var (
	plateRegex   = regexp.MustCompile(`^[A-Za-z0-9 \-]*$`)
	registerOnce sync.Once
	registerErr  error
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterValidators adds the custom tags to gin's binding validator. Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding validator is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("plate", validatePlate); err != nil {
			registerErr = fmt.Errorf("failed to register 'plate' validator: %w", err)
		}
	})
	return registerErr
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// validatePlate only bounds the charset and length; blank plates are rejected by the domain.
func validatePlate(fl validator.FieldLevel) bool {
	plate := fl.Field().String()
	return len(strings.TrimSpace(plate)) <= maxPlateLength && plateRegex.MatchString(plate)
}

// TranslateBindError flattens validator errors into per-field messages. Other errors yield nil.
func TranslateBindError(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "plate":
		return fmt.Sprintf("must be at most %d letters, digits, spaces or hyphens", maxPlateLength)
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}
