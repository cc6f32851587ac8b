package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxUsernameLen is GitHub's limit on account names.
const maxUsernameLen = 39

// ValidateUsername checks an account identifier before it is placed in a
// request path. Only ASCII letters, digits and single interior hyphens are
// accepted, which is the alphabet GitHub allows for logins. An empty name is
// INVALID_INPUT; a malformed one is INVALID_USERNAME.
func ValidateUsername(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return New(ErrCodeInvalidInput, "username cannot be empty")
	}
	if len(name) > maxUsernameLen {
		return New(ErrCodeInvalidUsername, "username too long (max %d characters)", maxUsernameLen)
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return New(ErrCodeInvalidUsername, "username cannot start or end with a hyphen")
	}
	if strings.Contains(name, "--") {
		return New(ErrCodeInvalidUsername, "username cannot contain consecutive hyphens")
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-') {
			return New(ErrCodeInvalidUsername, "username contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateCatalogPath validates a content catalog path supplied on the
// command line and returns its lower-cased extension.
func ValidateCatalogPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", New(ErrCodeInvalidInput, "catalog path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return "", New(ErrCodeInvalidInput, "catalog path contains null bytes")
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".yaml", ".yml":
		return ext, nil
	default:
		return "", New(ErrCodeInvalidFormat, "unsupported catalog format %q (want .toml, .yaml or .yml)", ext)
	}
}
