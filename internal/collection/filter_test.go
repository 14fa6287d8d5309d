package collection

import (
	"testing"
	"time"
)

func TestFilterText(t *testing.T) {
	song := Song{
		Title:  "Paranoid Android",
		Artist: "Radiohead",
		Album:  "OK Computer",
		Genre:  "Alternative",
	}

	tests := []struct {
		text    string
		matches bool
	}{
		{"", true},
		{"radiohead", true},
		{"RADIOHEAD", true},
		{"paranoid computer", true}, // tokens match across fields
		{"android alternative", true},
		{"paranoid beatles", false}, // every token must match
		{"nirvana", false},
	}

	now := time.Now()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			o := FilterOptions{Text: tt.text}
			if got := o.matchesAt(song, now); got != tt.matches {
				t.Errorf("matchesAt(%q) = %v, want %v", tt.text, got, tt.matches)
			}
		})
	}
}

func TestFilterModeNew(t *testing.T) {
	now := time.Now()
	fresh := Song{Title: "Fresh", CTime: now.Add(-time.Hour).Unix()}
	stale := Song{Title: "Stale", CTime: now.Add(-48 * time.Hour).Unix()}

	o := FilterOptions{Mode: FilterModeNew, MaxAge: 24 * time.Hour}
	if !o.matchesAt(fresh, now) {
		t.Error("fresh song filtered out")
	}
	if o.matchesAt(stale, now) {
		t.Error("stale song passed the filter")
	}

	// MaxAge zero means no age limit.
	o = FilterOptions{Mode: FilterModeNew}
	if !o.matchesAt(stale, now) {
		t.Error("unlimited age filtered a song out")
	}

	// FilterModeAll ignores age entirely.
	o = FilterOptions{Mode: FilterModeAll, MaxAge: 24 * time.Hour}
	if !o.matchesAt(stale, now) {
		t.Error("FilterModeAll applied the age limit")
	}
}
