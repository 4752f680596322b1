package github

import (
	"errors"
	"testing"
)

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"valid", "example/python-dist", "example", "python-dist", false},
		{"valid with spaces", " example / python-dist ", "example", "python-dist", false},
		{"empty", "", "", "", true},
		{"missing slash", "example", "", "", true},
		{"too many parts", "a/b/c", "", "", true},
		{"empty owner", "/repo", "", "", true},
		{"empty repo", "owner/", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := parseRepository(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRepo) {
					t.Errorf("parseRepository(%q) error = %v, want ErrInvalidRepo", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRepository(%q) returned error: %v", tt.input, err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("parseRepository(%q) = %q/%q, want %q/%q", tt.input, owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("", "example/python-dist")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.Owner() != "example" || c.Repo() != "python-dist" {
		t.Errorf("client = %s/%s", c.Owner(), c.Repo())
	}

	if _, err := NewClient("token", "bad"); !errors.Is(err, ErrInvalidRepo) {
		t.Errorf("NewClient with bad repo = %v, want ErrInvalidRepo", err)
	}
}
