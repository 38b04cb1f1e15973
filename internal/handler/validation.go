package handler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// formatValidationError converts validator errors into a descriptive,
// human-readable message for the first failing field.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := snakeCase(fe.Field())
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be blank"
			case "email":
				return "invalid request: " + field + " must be a valid email address"
			case "gte":
				return "invalid request: " + field + " must be at least " + fe.Param()
			case "lte":
				return "invalid request: " + field + " must be at most " + fe.Param()
			case "min":
				return "invalid request: " + field + " is below the minimum length of " + fe.Param()
			case "max":
				return "invalid request: " + field + " exceeds the maximum length of " + fe.Param()
			case "oneof":
				return "invalid request: " + field + " must be one of: " + fe.Param()
			}
			return "invalid request: " + field + " is invalid"
		}
	}
	return "invalid request"
}

// snakeCase converts a Go field name to its json form (CouponCode ->
// coupon_code).
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
