package util

import (
	"fmt"
	"strings"
)

// ValidateNoWhitespace rejects values containing any whitespace.
// Configuration values are consumed as single API and shell tokens, so
// embedded spaces are always a configuration mistake.
func ValidateNoWhitespace(key, value string) error {
	if strings.ContainsAny(value, " \t\n\r") {
		return fmt.Errorf("%s contains whitespace, which is not acceptable in configuration values", key)
	}
	return nil
}

// ValidateDisplayName checks that a display name is usable as an
// instance hostname:
//   - At least 1 character
//   - Only alphanumeric characters, hyphens, and periods
//   - First character must be alphanumeric
//   - Last character must not be a hyphen or period
func ValidateDisplayName(name string) error {
	if name == "" {
		return fmt.Errorf("display name must not be empty")
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isAlphanumeric(c) && c != '-' && c != '.' {
			return fmt.Errorf("display name %q contains invalid character %q", name, string(c))
		}
	}

	if !isAlphanumeric(name[0]) {
		return fmt.Errorf("display name must start with an alphanumeric character, got %q", string(name[0]))
	}

	last := name[len(name)-1]
	if last == '-' || last == '.' {
		return fmt.Errorf("display name must not end with a hyphen or period, got %q", string(last))
	}

	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
