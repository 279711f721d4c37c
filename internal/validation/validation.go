package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// allowedImageExtensions is the whitelist of profile image formats.
var allowedImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// unsafeFilenameChars matches everything outside the charset considered safe
// for a standalone filename.
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// AllowedImageExtension reports whether filename ends in a whitelisted image
// extension. A filename without a dot is rejected.
func AllowedImageExtension(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedImageExtensions[strings.ToLower(filename[idx+1:])]
}

// MissingFields returns the names from required that are absent or blank in
// fields, preserving the order of required.
func MissingFields(fields map[string]string, required []string) []string {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// ValidEmail reports whether email looks like local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword requires at least 8 non-blank characters.
func ValidPassword(password string) bool {
	return len(strings.TrimSpace(password)) >= 8
}

// ValidName requires a name between 2 and 100 characters.
func ValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 2 && n <= 100
}

// SanitizeFilename reduces a client-supplied filename to a form that is safe
// to use as a standalone file name: any directory components are dropped and
// characters outside [A-Za-z0-9._-] are replaced with underscores.
func SanitizeFilename(name string) string {
	// Strip path components regardless of the client's separator convention.
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	return name
}
