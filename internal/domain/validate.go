package domain

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

const maxNameLength = 256

// ValidateID checks that id is a UUID; field names the input in the error.
func ValidateID(field, id string) error {
	if id == "" {
		return invalid(field, "is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return invalid(field, "must be a valid UUID")
	}
	return nil
}

// ValidateEmail accepts bare addresses only ("a@b.c"), not "Name <a@b.c>".
func ValidateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "must be a valid email address")
	}
	// net/mail accepts dotless hosts like "a@localhost".
	host := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(host, ".") || strings.HasSuffix(host, ".") {
		return invalid("email", "must be a valid email address")
	}
	return nil
}

// ValidateName checks an optional display name.
func ValidateName(name string) error {
	if len([]rune(name)) > maxNameLength {
		return invalid("name", "must be at most 256 characters")
	}
	return nil
}

// ValidateTimeTaken rejects negative durations.
func ValidateTimeTaken(ms int) error {
	if ms < 0 {
		return invalid("timeTakenMs", "must be a non-negative integer")
	}
	return nil
}
