package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func strptr(s string) *string { return &s }

func sampleEntries() []Entry {
	return []Entry{
		{
			Version:    "3.13.0",
			Stable:     true,
			ReleaseURL: "https://github.com/example/python-dist/releases/tag/v3.13.0",
			Files: []FileEntry{
				{
					Filename:        "python-3.13.0-linux-22.04-ppc64le.tar.gz",
					Arch:            "ppc64le",
					Platform:        "linux",
					PlatformVersion: strptr("22.04"),
					DownloadURL:     "https://github.com/example/python-dist/releases/download/v3.13.0/python-3.13.0-linux-22.04-ppc64le.tar.gz",
				},
			},
		},
		{
			Version: "3.12.5",
			Stable:  true,
			Files: []FileEntry{
				{
					Filename: "python-3.12.5-linux-22.04-s390x.tar.gz",
					Arch:     "s390x",
					Platform: "linux",
				},
			},
		},
		{Version: "3.11.0-rc.1", Stable: false},
		{Version: "3.11.0-beta.2", Stable: false},
		{Version: "3.8.10", Stable: true},
		{Version: "", Stable: true},
	}
}

func TestLoad_MissingFileIsEmptyManifest(t *testing.T) {
	entries, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Load of missing file returned %d entries, want 0", len(entries))
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidManifest) {
		t.Errorf("Load of invalid JSON = %v, want ErrInvalidManifest", err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifests", "python.json")
	want := sampleEntries()[:2]

	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("round trip returned %d entries, want %d", len(got), len(want))
	}
	if got[0].Version != want[0].Version || got[0].Files[0].Filename != want[0].Files[0].Filename {
		t.Errorf("round trip entry mismatch: %+v", got[0])
	}
	if got[0].Files[0].PlatformVersion == nil || *got[0].Files[0].PlatformVersion != "22.04" {
		t.Errorf("platform_version not preserved: %+v", got[0].Files[0])
	}
}

func TestSave_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	if err := Save(path, nil); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]\n" {
		t.Errorf("Save(nil) wrote %q, want %q", data, "[]\n")
	}

	if err := Save(path, sampleEntries()[:1]); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("saved manifest should end with a newline")
	}
	if !strings.Contains(string(data), "\n  {") {
		t.Error("saved manifest should use two-space indentation")
	}
	if !strings.Contains(string(data), `"platform_version"`) {
		t.Error("saved manifest should use snake_case field names")
	}
}

func TestSave_NullPlatformVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	entries := []Entry{{
		Version: "3.12.5",
		Stable:  true,
		Files:   []FileEntry{{Filename: "f.tar.gz", Arch: "s390x", Platform: "linux"}},
	}}
	if err := Save(path, entries); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"platform_version": null`) {
		t.Errorf("missing platform_version should serialize as null, got:\n%s", data)
	}
}

func TestMerge(t *testing.T) {
	existing := sampleEntries()[:2]
	incoming := []Entry{
		{
			Version: "3.13.0",
			Stable:  true,
			Files: []FileEntry{
				// Duplicate filename, must not be added twice.
				{Filename: "python-3.13.0-linux-22.04-ppc64le.tar.gz", Arch: "ppc64le", Platform: "linux"},
				{Filename: "python-3.13.0-linux-22.04-s390x.tar.gz", Arch: "s390x", Platform: "linux"},
			},
		},
		{Version: "3.14.0", Stable: true},
	}

	merged := Merge(existing, incoming)

	if len(merged) != 3 {
		t.Fatalf("Merge returned %d entries, want 3", len(merged))
	}
	if merged[0].Version != "3.13.0" || merged[1].Version != "3.12.5" || merged[2].Version != "3.14.0" {
		t.Errorf("Merge order = [%s %s %s], want existing first then new", merged[0].Version, merged[1].Version, merged[2].Version)
	}
	if len(merged[0].Files) != 2 {
		t.Errorf("merged 3.13.0 has %d files, want 2 (duplicate dropped)", len(merged[0].Files))
	}
}

func TestMerge_Idempotent(t *testing.T) {
	entries := sampleEntries()[:2]
	once := Merge(entries, entries)
	twice := Merge(once, entries)

	if len(once) != len(entries) || len(twice) != len(entries) {
		t.Fatalf("self-merge changed entry count: %d then %d, want %d", len(once), len(twice), len(entries))
	}
	for i := range entries {
		if len(once[i].Files) != len(entries[i].Files) {
			t.Errorf("self-merge changed file count for %s", entries[i].Version)
		}
	}
}

func TestApplyUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "python.json")
	u := Update{
		Version:     "3.13.0",
		Stable:      true,
		Filename:    "python-3.13.0-linux-22.04-ppc64le.tar.gz",
		Arch:        "ppc64le",
		Platform:    "linux",
		DownloadURL: "https://github.com/example/python-dist/releases/download/v3.13.0/python-3.13.0-linux-22.04-ppc64le.tar.gz",
	}

	action, err := ApplyUpdate(path, u)
	if err != nil {
		t.Fatalf("ApplyUpdate returned error: %v", err)
	}
	if action != ActionCreated {
		t.Errorf("first update = %q, want %q", action, ActionCreated)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("manifest has %d entries, want 1", len(entries))
	}
	if entries[0].ReleaseURL != "https://github.com/example/python-dist/releases/tag/v3.13.0" {
		t.Errorf("release_url = %q", entries[0].ReleaseURL)
	}

	// Same file again: skipped.
	action, err = ApplyUpdate(path, u)
	if err != nil {
		t.Fatal(err)
	}
	if action != ActionSkipped {
		t.Errorf("repeat update = %q, want %q", action, ActionSkipped)
	}

	// Different file for the same version: added.
	u2 := u
	u2.Filename = "python-3.13.0-linux-22.04-s390x.tar.gz"
	u2.Arch = "s390x"
	action, err = ApplyUpdate(path, u2)
	if err != nil {
		t.Fatal(err)
	}
	if action != ActionAdded {
		t.Errorf("new file update = %q, want %q", action, ActionAdded)
	}

	entries, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || len(entries[0].Files) != 2 {
		t.Errorf("manifest = %d entries / %d files, want 1 / 2", len(entries), len(entries[0].Files))
	}
}
