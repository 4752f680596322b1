package manifest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/clean-dependency-project/manifestctl/internal/version"
)

// Filter selects manifest entries by version pattern and release
// stage. Pattern is a shell-style glob where "*" matches any run of
// characters; an empty Pattern matches every version. ReleaseTypes
// names the stages to keep ("alpha", "beta", "rc", "stable"); empty
// means stable only.
type Filter struct {
	Pattern      string
	ReleaseTypes []string
}

// DefaultReleaseTypes is the stage selection applied when a filter
// names none.
var DefaultReleaseTypes = []string{version.StageStable}

func (f Filter) releaseTypes() map[string]struct{} {
	types := f.ReleaseTypes
	if len(types) == 0 {
		types = DefaultReleaseTypes
	}
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return set
}

// globToRegexp compiles a version glob to an anchored regular
// expression. "*" is the only metacharacter; everything else matches
// literally.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i, part := range strings.Split(pattern, "*") {
		if i > 0 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// FilterVersions returns the entries whose version matches the filter.
// Stage membership is classified from the version string itself, not
// from the entry's stable flag, so a mislabeled entry cannot leak a
// pre-release into a stable selection. Entries with an empty version
// are dropped. Input order is preserved.
func FilterVersions(entries []Entry, f Filter) ([]Entry, error) {
	var re *regexp.Regexp
	if f.Pattern != "" {
		var err error
		re, err = globToRegexp(f.Pattern)
		if err != nil {
			return nil, err
		}
	}
	stages := f.releaseTypes()

	var out []Entry
	for _, e := range entries {
		if e.Version == "" {
			continue
		}
		if re != nil && !re.MatchString(e.Version) {
			continue
		}
		if _, ok := stages[version.Classify(e.Version)]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ListVersions returns the matching version strings ordered from most
// to least recent.
func ListVersions(entries []Entry, f Filter) ([]string, error) {
	matched, err := FilterVersions(entries, f)
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(matched))
	for _, e := range matched {
		versions = append(versions, e.Version)
	}
	sort.Slice(versions, func(i, j int) bool {
		return version.Compare(versions[j], versions[i]) < 0
	})
	return versions, nil
}

// LatestVersion returns the most recent version matching the filter,
// or ErrNoMatch when nothing qualifies.
func LatestVersion(entries []Entry, f Filter) (string, error) {
	versions, err := ListVersions(entries, f)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", ErrNoMatch
	}
	return versions[0], nil
}
