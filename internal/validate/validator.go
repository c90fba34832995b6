package validate

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Custom tags registered on the shared validator.
const (
	TagHangulFree = "hangulfree"
	TagEmailShape = "emailshape"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator with the user field rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails for empty tags or nil funcs.
		_ = v.RegisterValidation(TagHangulFree, func(fl validator.FieldLevel) bool {
			return !ContainsKoreanScript(fl.Field().String())
		})
		_ = v.RegisterValidation(TagEmailShape, func(fl validator.FieldLevel) bool {
			return IsValidEmailShape(fl.Field().Interface())
		})
		instance = v
	})
	return instance
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return Validator().Struct(s)
}

// FieldError is a single failed rule.
type FieldError struct {
	Field string
	Tag   string
}

// FieldErrors flattens a validator error into field/tag pairs in declaration order.
// It returns nil when err is not a validation failure.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out
}

// HasTag reports whether any failure in errs was produced by tag.
func HasTag(errs []FieldError, tag string) bool {
	for _, fe := range errs {
		if fe.Tag == tag {
			return true
		}
	}
	return false
}

// HasField reports whether any failure in errs concerns field.
func HasField(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}
