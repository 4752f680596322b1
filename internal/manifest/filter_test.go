package manifest

import (
	"errors"
	"reflect"
	"testing"
)

func TestFilterVersions_DefaultStable(t *testing.T) {
	got, err := FilterVersions(sampleEntries(), Filter{})
	if err != nil {
		t.Fatalf("FilterVersions returned error: %v", err)
	}

	var versions []string
	for _, e := range got {
		versions = append(versions, e.Version)
	}
	want := []string{"3.13.0", "3.12.5", "3.8.10"}
	if !reflect.DeepEqual(versions, want) {
		t.Errorf("default filter = %v, want %v", versions, want)
	}
}

func TestFilterVersions_ReleaseTypes(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "rc only",
			filter: Filter{ReleaseTypes: []string{"rc"}},
			want:   []string{"3.11.0-rc.1"},
		},
		{
			name:   "beta only",
			filter: Filter{ReleaseTypes: []string{"beta"}},
			want:   []string{"3.11.0-beta.2"},
		},
		{
			name:   "stable and rc",
			filter: Filter{ReleaseTypes: []string{"stable", "rc"}},
			want:   []string{"3.13.0", "3.12.5", "3.11.0-rc.1", "3.8.10"},
		},
		{
			name:   "glob restricts versions",
			filter: Filter{Pattern: "3.1*"},
			want:   []string{"3.13.0", "3.12.5"},
		},
		{
			name:   "glob with pre-release stages",
			filter: Filter{Pattern: "3.11.*", ReleaseTypes: []string{"rc", "beta"}},
			want:   []string{"3.11.0-rc.1", "3.11.0-beta.2"},
		},
		{
			name:   "exact version glob",
			filter: Filter{Pattern: "3.12.5"},
			want:   []string{"3.12.5"},
		},
		{
			name:   "leading wildcard",
			filter: Filter{Pattern: "*.13.0"},
			want:   []string{"3.13.0"},
		},
		{
			name:   "wildcard at every position",
			filter: Filter{Pattern: "*.*.*"},
			want:   []string{"3.13.0", "3.12.5", "3.8.10"},
		},
		{
			name:   "trailing wildcard only",
			filter: Filter{Pattern: "3.8*"},
			want:   []string{"3.8.10"},
		},
		{
			name:   "no match",
			filter: Filter{Pattern: "4.*"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterVersions(sampleEntries(), tt.filter)
			if err != nil {
				t.Fatalf("FilterVersions returned error: %v", err)
			}
			var versions []string
			for _, e := range got {
				versions = append(versions, e.Version)
			}
			if !reflect.DeepEqual(versions, tt.want) {
				t.Errorf("FilterVersions = %v, want %v", versions, tt.want)
			}
		})
	}
}

func TestFilterVersions_ClassifiesFromVersionString(t *testing.T) {
	// The stable flag lies; classification must come from the version.
	entries := []Entry{{Version: "3.11.0-rc.1", Stable: true}}
	got, err := FilterVersions(entries, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("mislabeled pre-release leaked into stable selection: %v", got)
	}
}

func TestListVersions_Descending(t *testing.T) {
	got, err := ListVersions(sampleEntries(), Filter{ReleaseTypes: []string{"stable", "rc", "beta"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"3.13.0", "3.12.5", "3.11.0-rc.1", "3.11.0-beta.2", "3.8.10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListVersions = %v, want %v", got, want)
	}
}

func TestLatestVersion(t *testing.T) {
	got, err := LatestVersion(sampleEntries(), Filter{ReleaseTypes: []string{"rc"}})
	if err != nil {
		t.Fatal(err)
	}
	if got != "3.11.0-rc.1" {
		t.Errorf("latest rc = %q, want 3.11.0-rc.1", got)
	}

	_, err = LatestVersion(sampleEntries(), Filter{Pattern: "4.*"})
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("LatestVersion with no match = %v, want ErrNoMatch", err)
	}
}
