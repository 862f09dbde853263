// Package validation decides whether listing, message and upload requests are
// well-formed and normalizes the fields that are stored.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"marketplace/internal/format"
)

var (
	uuidV4Pattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "uuid4ci", func(fl validator.FieldLevel) bool {
		return IsUUIDv4(fl.Field().String())
	})
	mustRegister(v, "emaillite", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	mustRegister(v, "httpurl", func(fl validator.FieldLevel) bool {
		return format.IsValidURL(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// IsUUIDv4 reports whether s is a canonical version-4 UUID, in either case.
func IsUUIDv4(s string) bool {
	return uuidV4Pattern.MatchString(s)
}

// IsEmail reports whether s looks like local@domain.tld.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail trims and lowercases an address. It is idempotent.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateID checks a listing id taken from the URL path and returns it in
// lowercase form.
func ValidateID(id string) (string, error) {
	if validate.Var(id, "uuid4ci") != nil {
		return "", newError(InvalidID, "Invalid listing ID", "Listing ID must be a valid UUID")
	}
	return strings.ToLower(id), nil
}

// ValidateListingIDParam checks the listing_id query parameter of GET /api/messages.
func ValidateListingIDParam(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", newError(MissingField, "Missing listing_id", "listing_id query parameter is required")
	}
	if validate.Var(id, "uuid4ci") != nil {
		return "", newError(InvalidListingID, "Invalid listing ID", "listing_id must be a valid UUID")
	}
	return strings.ToLower(id), nil
}

// ValidateImageKey checks an object key addressed by DELETE /api/upload/:key.
func ValidateImageKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.Contains(key, "/") {
		return newError(InvalidKey, "Invalid image key", "Image key must be a non-empty file name")
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || validate.Var(strings.TrimSpace(*s), "required") != nil
}

// positivePrice accepts only JSON numbers greater than zero.
func positivePrice(raw interface{}) (float64, bool) {
	p, ok := raw.(float64)
	if !ok {
		return 0, false
	}
	return p, validate.Var(p, "gt=0") == nil
}

func validEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "emaillite") == nil
}

func validURL(s string) bool {
	return validate.Var(s, "httpurl") == nil
}
