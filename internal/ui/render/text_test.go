package render

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain ascii untouched",
			input: "AC/DC - Back in Black",
			want:  "AC/DC - Back in Black",
		},
		{
			name:  "control characters removed",
			input: "bad\x00tag\x1b[31m",
			want:  "badtag[31m",
		},
		{
			name:  "tab preserved",
			input: "a\tb",
			want:  "a\tb",
		},
		{
			name:  "nbsp becomes space",
			input: "Sigur\u00a0Rós",
			want:  "Sigur Rós",
		},
		{
			name:  "invalid utf8 dropped",
			input: "a\xffb",
			want:  "ab",
		},
		{
			name:  "unicode kept",
			input: "Björk — Début",
			want:  "Björk — Début",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("no-op truncate = %q", got)
	}

	got := Truncate("a very long artist name", 10)
	if w := runewidth.StringWidth(got); w > 10 {
		t.Errorf("width after truncate = %d, want <= 10", w)
	}
	if got[len(got)-len("…"):] != "…" {
		t.Errorf("truncated string %q missing ellipsis", got)
	}
}

func TestTruncateAndPadExactWidth(t *testing.T) {
	for _, s := range []string{"", "ab", "日本語のタイトル", "exactly ten chars plus more"} {
		got := TruncateAndPad(s, 10)
		if w := runewidth.StringWidth(got); w != 10 {
			t.Errorf("TruncateAndPad(%q) width = %d, want 10", s, w)
		}
	}
}

func TestRow(t *testing.T) {
	got := Row("left", "right", 20)
	if len([]rune(got)) != 20 {
		t.Errorf("Row length = %d, want 20", len([]rune(got)))
	}
	if got[:4] != "left" || got[len(got)-5:] != "right" {
		t.Errorf("Row = %q", got)
	}

	// Overflowing content still gets a single space gap.
	got = Row("a very long left side", "and a right side", 10)
	if got != "a very long left side and a right side" {
		t.Errorf("overflow Row = %q", got)
	}
}

func TestSeparatorAndEmptyLine(t *testing.T) {
	if got := runewidth.StringWidth(Separator(12)); got != 12 {
		t.Errorf("Separator width = %d, want 12", got)
	}
	if got := EmptyLine(5); got != "     " {
		t.Errorf("EmptyLine = %q", got)
	}
}
