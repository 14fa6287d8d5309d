package state

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestManager(t *testing.T) (*Manager, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state.db")
	m, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m, path
}

func TestGetBrowserFirstRun(t *testing.T) {
	m, _ := openTestManager(t)

	got, err := m.GetBrowser()
	if err != nil {
		t.Fatalf("GetBrowser: %v", err)
	}
	if got != nil {
		t.Errorf("first run state = %+v, want nil", got)
	}
}

func TestSaveAndReload(t *testing.T) {
	m, path := openTestManager(t)

	want := BrowserState{
		Grouping: "020300",
		Expanded: []string{"artist1", "artist1-album1"},
	}
	m.SaveBrowser(want)
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenPath(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetBrowser()
	if err != nil {
		t.Fatalf("GetBrowser: %v", err)
	}
	if got == nil {
		t.Fatal("expected saved state after reopen")
	}
	if got.Grouping != want.Grouping {
		t.Errorf("grouping = %q, want %q", got.Grouping, want.Grouping)
	}
	if !reflect.DeepEqual(got.Expanded, want.Expanded) {
		t.Errorf("expanded = %v, want %v", got.Expanded, want.Expanded)
	}
}

func TestSaveDebounces(t *testing.T) {
	m, _ := openTestManager(t)

	m.SaveBrowser(BrowserState{Grouping: "010400"})
	m.SaveBrowser(BrowserState{Grouping: "020300"})

	// Nothing written yet inside the debounce window.
	got, err := m.GetBrowser()
	if err != nil {
		t.Fatalf("GetBrowser: %v", err)
	}
	if got != nil {
		t.Fatalf("state before debounce = %+v, want nil", got)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err = m.GetBrowser()
		if err != nil {
			t.Fatalf("GetBrowser: %v", err)
		}
		if got != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("debounced save never flushed")
		}
		time.Sleep(20 * time.Millisecond)
	}
	if got.Grouping != "020300" {
		t.Errorf("flushed grouping = %q, want the last save", got.Grouping)
	}
}

func TestLastSaveWinsOnClose(t *testing.T) {
	m, path := openTestManager(t)

	m.SaveBrowser(BrowserState{Grouping: "010400"})
	m.SaveBrowser(BrowserState{Grouping: "120300"})
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenPath(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetBrowser()
	if err != nil {
		t.Fatalf("GetBrowser: %v", err)
	}
	if got == nil || got.Grouping != "120300" {
		t.Fatalf("state after close = %+v, want grouping 120300", got)
	}
}
