package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText checks that truncation never exceeds the requested width.
func FuzzTruncateText(f *testing.F) {
	seeds := []struct {
		text  string
		width int
	}{
		{"Solid risk management & compliance", 16},
		{"24/7 availability", 4},
		{"short", 10},
		{"", 5},
		{"ÅÄÖ multi-byte target name", 8},
	}
	for _, seed := range seeds {
		f.Add(seed.text, seed.width)
	}

	f.Fuzz(func(t *testing.T, text string, width int) {
		if width < 4 || width > 200 || !utf8.ValidString(text) {
			return
		}
		got := TruncateText(text, width)
		if n := utf8.RuneCountInString(got); n > width {
			t.Fatalf("TruncateText(%q, %d) has %d runes", text, width, n)
		}
	})
}

// FuzzParseBoolString checks that only the documented spellings are accepted.
func FuzzParseBoolString(f *testing.F) {
	for _, seed := range []string{"yes", "NO", "true", "0", "", "maybe"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseBoolString(s)
		if err != nil {
			return
		}
		again, err := ParseBoolString(map[bool]string{true: "yes", false: "no"}[v])
		if err != nil || again != v {
			t.Fatalf("ParseBoolString(%q) = %v is not stable", s, v)
		}
	})
}
