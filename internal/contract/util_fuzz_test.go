package contract

import (
	"strings"
	"testing"
)

// FuzzTruncatePath fuzzes TruncatePath with random paths and widths.
func FuzzTruncatePath(f *testing.F) {
	seeds := []struct {
		path  string
		width int
	}{
		{"/", 10},
		{"/review-requests", 8},
		{"/utm-builder?source=google", 4},
		{"", 0},
		{"/ünïcödé/päth", 6},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.width)
	}

	f.Fuzz(func(t *testing.T, path string, width int) {
		got := TruncatePath(path, width)
		if got != path && !strings.HasPrefix(got, "...") {
			t.Fatalf("truncated path %q lacks ellipsis", got)
		}
	})
}

// FuzzValidateBaseURL ensures arbitrary input never panics and accepted URLs are normalized.
func FuzzValidateBaseURL(f *testing.F) {
	for _, seed := range []string{"", "http://localhost:3000", "https://example.com/", "ftp://x", "://"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		got, err := ValidateBaseURL(raw)
		if err == nil && strings.HasSuffix(got, "/") {
			t.Fatalf("accepted URL %q keeps a trailing slash", got)
		}
	})
}
