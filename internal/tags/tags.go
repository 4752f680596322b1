// Package tags resolves a requested release tag against the set of
// tags actually published for a distribution. Requested versions on a
// secondary architecture frequently have no exact counterpart, so the
// resolver falls back to the closest published release rather than
// failing outright.
package tags

import (
	"errors"
	"sort"
	"strings"

	"github.com/clean-dependency-project/manifestctl/internal/sdkversion"
)

// ErrNoTags indicates that no published tags were available to resolve
// against.
var ErrNoTags = errors.New("no tags available")

// Asset is a single downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

// TagRecord is one published release tag and its assets.
type TagRecord struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

func normalize(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "v")
}

// Resolve maps a requested tag to the best matching published tag.
// An empty request resolves to the empty string. Resolution prefers,
// in order: an exact match, the greatest tag extending the request as
// a dotted prefix, the closest published tag below the request, and
// finally the lowest published tag above it. The returned tag is
// always one of the input tag names, untouched.
func Resolve(requested string, tags []TagRecord) (string, error) {
	if requested == "" {
		return "", nil
	}
	if len(tags) == 0 {
		return "", ErrNoTags
	}

	want := normalize(requested)

	// Index published tags by their normalized form so the caller
	// gets back the tag exactly as it was published.
	published := make(map[string]string, len(tags))
	keys := make([]string, 0, len(tags))
	for _, t := range tags {
		norm := normalize(t.TagName)
		if _, ok := published[norm]; ok {
			continue
		}
		published[norm] = t.TagName
		keys = append(keys, norm)
	}

	if original, ok := published[want]; ok {
		return original, nil
	}

	sort.Slice(keys, func(i, j int) bool {
		return sdkversion.Compare(keys[i], keys[j]) < 0
	})

	// Prefix request, e.g. "9.0" matching "9.0.100": take the
	// greatest extension.
	for i := len(keys) - 1; i >= 0; i-- {
		if strings.HasPrefix(keys[i], want+".") {
			return published[keys[i]], nil
		}
	}

	// Closest published tag at or below the request; key-equal tags
	// with a different spelling (rc1 vs rc.1) count as matches.
	wantKey := sdkversion.Parse(want)
	for i := len(keys) - 1; i >= 0; i-- {
		if sdkversion.Parse(keys[i]).Compare(wantKey) <= 0 {
			return published[keys[i]], nil
		}
	}

	// Nothing below the request either; fall forward to the lowest.
	return published[keys[0]], nil
}

// FilterAndSort returns the tags whose normalized name contains the
// normalized prefix, ordered from most to least recent. An empty
// prefix keeps every tag.
func FilterAndSort(tags []TagRecord, prefix string) []TagRecord {
	want := normalize(prefix)

	out := make([]TagRecord, 0, len(tags))
	for _, t := range tags {
		if strings.Contains(normalize(t.TagName), want) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return sdkversion.Compare(normalize(out[j].TagName), normalize(out[i].TagName)) < 0
	})
	return out
}
