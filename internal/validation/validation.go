package validation

import (
	"net/mail"
	"net/url"
	"strings"
)

// Violations maps a field name to a user-facing error message.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Required records a violation when value is blank.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "This field is required."
	}
}

// Email records a violation when value is not a plain email address.
func Email(field, value string, v Violations) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v[field] = "Invalid email address."
	}
}

// URL records a violation when value is not an absolute http(s) URL.
func URL(field, value string, v Violations) {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v[field] = "Invalid URL."
	}
}

// Equal records a violation on field when value differs from other. Used for
// password confirmation.
func Equal(field, value, other string, v Violations) {
	if value != other {
		v[field] = "Does not match."
	}
}
