package errors

import (
	"strings"
	"unicode"
)

// Limits applied by the validators below.
const (
	MaxDocumentIDLength = 128
	MaxTitleLength      = 200
)

// ValidateDocumentID checks a stored document id. Ids are used as file names
// and key suffixes, so only ASCII letters, digits, '-' and '_' are allowed.
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "document id cannot be empty")
	}
	if len(id) > MaxDocumentIDLength {
		return New(ErrCodeInvalidInput, "document id too long (max %d characters)", MaxDocumentIDLength)
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		ok := c == '-' || c == '_' ||
			('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
		if !ok {
			return New(ErrCodeInvalidInput, "document id contains invalid character %q", c)
		}
	}
	return nil
}

// ValidateTitle checks a human-entered document title.
func ValidateTitle(title string) error {
	if len(title) > MaxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", MaxTitleLength)
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains control characters")
		}
	}
	return nil
}

// ValidateOneOf checks that value is one of allowed, returning an error with
// the given code that names the field and the accepted values.
func ValidateOneOf(code Code, field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(code, "invalid %s %q (want one of: %s)", field, value, strings.Join(allowed, ", "))
}
