package validator

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 128
	minHandleLength   = 3
	maxHandleLength   = 32
	maxNameLength     = 255
	maxSubjectLength  = 255
	maxBodyLength     = 10000
	maxCodeLength     = 32
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt        = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalidFmt      = "invalid email format"
	errPasswordMinLengthFmt = "password must be at least %d characters"
	errPasswordMaxLengthFmt = "password must not exceed %d characters"
	errHandleLengthFmt      = "handle must be between %d and %d characters"
	errHandleCharsFmt       = "handle may only contain lowercase letters, digits, dots and dashes"
	errHandleAtSignFmt      = "handle cannot contain '@'"
	errNameEmptyFmt         = "%s cannot be empty"
	errNameMaxLengthFmt     = "%s must not exceed %d characters"
	errNameControlCharsFmt  = "%s cannot contain control characters"
	errProjectCodeEmptyFmt  = "project code cannot be empty"
	errProjectCodeLengthFmt = "project code must not exceed %d characters"
	errProjectCodeCharsFmt  = "project code may only contain letters, digits and dashes"
	errSubjectEmptyFmt      = "subject cannot be empty"
	errSubjectMaxLengthFmt  = "subject must not exceed %d characters"
	errBodyEmptyFmt         = "body cannot be empty"
	errBodyMaxLengthFmt     = "body must not exceed %d characters"
	errAmountNegativeFmt    = "amount cannot be negative"
)

var (
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	handleRegex      = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*$`)
	projectCodeRegex = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

// Handle validates an account handle. Handles must never contain '@' so
// that the login identifier can be disambiguated from an email address.
func Handle(handle string) error {
	if strings.Contains(handle, "@") {
		return fmt.Errorf(errHandleAtSignFmt)
	}

	if len(handle) < minHandleLength || len(handle) > maxHandleLength {
		return fmt.Errorf(errHandleLengthFmt, minHandleLength, maxHandleLength)
	}

	if !handleRegex.MatchString(handle) {
		return fmt.Errorf(errHandleCharsFmt)
	}

	return nil
}

// DisplayName validates a human-readable name field; label names the field
// in the returned error.
func DisplayName(label, name string) error {
	if name == "" {
		return fmt.Errorf(errNameEmptyFmt, label)
	}

	if len(name) > maxNameLength {
		return fmt.Errorf(errNameMaxLengthFmt, label, maxNameLength)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errNameControlCharsFmt, label)
		}
	}

	return nil
}

func ProjectCode(code string) error {
	if code == "" {
		return fmt.Errorf(errProjectCodeEmptyFmt)
	}

	if len(code) > maxCodeLength {
		return fmt.Errorf(errProjectCodeLengthFmt, maxCodeLength)
	}

	if !projectCodeRegex.MatchString(code) {
		return fmt.Errorf(errProjectCodeCharsFmt)
	}

	return nil
}

func Subject(subject string) error {
	if subject == "" {
		return fmt.Errorf(errSubjectEmptyFmt)
	}

	if len(subject) > maxSubjectLength {
		return fmt.Errorf(errSubjectMaxLengthFmt, maxSubjectLength)
	}

	return nil
}

func Body(body string) error {
	if body == "" {
		return fmt.Errorf(errBodyEmptyFmt)
	}

	if len(body) > maxBodyLength {
		return fmt.Errorf(errBodyMaxLengthFmt, maxBodyLength)
	}

	return nil
}

func AmountCents(amount int64) error {
	if amount < 0 {
		return fmt.Errorf(errAmountNegativeFmt)
	}

	return nil
}
