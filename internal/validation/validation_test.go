package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowedImageExtension(t *testing.T) {
	allowed := []string{"profile.jpg", "photo.png", "image.JPEG", "a.b.PNG", "x.Jpg"}
	for _, name := range allowed {
		require.True(t, AllowedImageExtension(name), "expected %q to be allowed", name)
	}

	rejected := []string{"script.exe", "document.pdf", "imagefile", "", ".jpg.", "archive.tar.gz"}
	for _, name := range rejected {
		require.False(t, AllowedImageExtension(name), "expected %q to be rejected", name)
	}
}

func TestMissingFields(t *testing.T) {
	required := []string{"first_name", "last_name", "email", "password"}

	missing := MissingFields(map[string]string{
		"first_name": "Ann",
		"last_name":  "Lee",
		"email":      "ann@example.com",
		"password":   "secret123",
	}, required)
	require.Empty(t, missing)

	missing = MissingFields(map[string]string{
		"first_name": "Ann",
		"email":      "   ",
	}, required)
	require.Equal(t, []string{"last_name", "email", "password"}, missing)
}

func TestValidEmail(t *testing.T) {
	for _, email := range []string{"user@example.com", "john.doe@company.co.uk", "test123@domain.org"} {
		require.True(t, ValidEmail(email), "expected %q to be valid", email)
	}
	for _, email := range []string{"invalid.email", "@example.com", "user@", "user@.com", ""} {
		require.False(t, ValidEmail(email), "expected %q to be invalid", email)
	}
}

func TestValidPassword(t *testing.T) {
	require.True(t, ValidPassword("password123"))
	require.True(t, ValidPassword("12345678"))
	require.False(t, ValidPassword("pass"))
	require.False(t, ValidPassword(""))
	require.False(t, ValidPassword("        "))
}

func TestValidName(t *testing.T) {
	require.True(t, ValidName("John"))
	require.True(t, ValidName("Mary-Jane"))
	require.False(t, ValidName("J"))
	require.False(t, ValidName(""))

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	require.False(t, ValidName(string(long)))
	require.True(t, ValidName(string(long[:100])))
}

func TestValidNameCountsCharactersNotBytes(t *testing.T) {
	require.True(t, ValidName("Åsa"))
	require.True(t, ValidName("Zoë"))

	// 100 two-byte runes is 200 bytes but still within the 100-char bound.
	require.True(t, ValidName(strings.Repeat("é", 100)))
	require.False(t, ValidName(strings.Repeat("é", 101)))
}

func TestSanitizeFilename(t *testing.T) {
	require.Equal(t, "photo.jpg", SanitizeFilename("photo.jpg"))
	require.Equal(t, "photo.jpg", SanitizeFilename("../../etc/photo.jpg"))
	require.Equal(t, "photo.jpg", SanitizeFilename(`C:\Users\me\photo.jpg`))
	require.Equal(t, "my_photo.jpg", SanitizeFilename("my photo.jpg"))
	require.Equal(t, "env", SanitizeFilename(".env"))
	require.Equal(t, "", SanitizeFilename("../.."))
}
