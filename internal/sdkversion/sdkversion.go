// Package sdkversion provides parsing, rendering, and a total ordering
// for SDK-distribution version strings such as "v9.0.100" or
// "v9.0.0-preview.7.25351.106". The SDK scheme carries four named
// pre-release stages plus a numeric build tuple, which is why it is a
// separate model from the interpreter scheme in the version package.
package sdkversion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Stage priorities. Stable carries the greatest priority so that tuple
// comparison always prefers a stable release.
const (
	PriorityAlpha   = 0
	PriorityPreview = 1
	PriorityRC      = 2
	PriorityRTM     = 3
	PriorityStable  = 4
)

// stagePriorities maps a stage label to its priority.
var stagePriorities = map[string]int{
	"alpha":   PriorityAlpha,
	"preview": PriorityPreview,
	"rc":      PriorityRC,
	"rtm":     PriorityRTM,
}

// stageNames maps a priority back to its label for rendering.
var stageNames = map[int]string{
	PriorityAlpha:   "alpha",
	PriorityPreview: "preview",
	PriorityRC:      "rc",
	PriorityRTM:     "rtm",
}

// Key is the totally ordered representation of an SDK version string.
// Build holds the trailing numeric tuple of a pre-release identifier
// (e.g. 25351.106) and is compared element-wise with numeric
// semantics. Malformed input parses to the zero Key.
type Key struct {
	Major         int
	Minor         int
	Patch         int
	StagePriority int
	StageNumber   int
	Build         []int
}

// Parse converts an SDK version string into a Key. A leading "v" is
// accepted.
func Parse(raw string) Key {
	sv, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return Key{}
	}

	key := Key{
		Major:         int(sv.Major()),
		Minor:         int(sv.Minor()),
		Patch:         int(sv.Patch()),
		StagePriority: PriorityStable,
	}

	pre := sv.Prerelease()
	if pre == "" {
		return key
	}

	parts := strings.Split(pre, ".")
	priority, num, fused, ok := splitStageToken(parts[0])
	if !ok {
		return Key{Major: key.Major, Minor: key.Minor, Patch: key.Patch}
	}
	key.StagePriority = priority

	// "rc1" and "rc.1" denote the same release.
	rest := parts[1:]
	if fused {
		key.StageNumber = num
	} else if len(rest) > 0 {
		key.StageNumber, _ = strconv.Atoi(rest[0])
		rest = rest[1:]
	}

	for _, p := range rest {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		key.Build = append(key.Build, n)
	}
	return key
}

// splitStageToken parses the leading pre-release identifier, accepting
// both a bare stage label ("rc") and a label with fused digits ("rc1").
func splitStageToken(tok string) (priority, num int, fused, ok bool) {
	if p, exact := stagePriorities[tok]; exact {
		return p, 0, false, true
	}
	for label, p := range stagePriorities {
		if !strings.HasPrefix(tok, label) {
			continue
		}
		n, err := strconv.Atoi(tok[len(label):])
		if err != nil {
			continue
		}
		return p, n, true, true
	}
	return 0, 0, false, false
}

// Stable reports whether the key denotes a stable release.
func (k Key) Stable() bool {
	return k.StagePriority == PriorityStable
}

// String renders the key back to its canonical dotted/hyphenated form,
// reproducing the layout of the original string including the build
// tuple. It is the inverse of Parse for well-formed input.
func (k Key) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", k.Major, k.Minor, k.Patch)
	if k.Stable() {
		return b.String()
	}
	fmt.Fprintf(&b, "-%s.%d", stageNames[k.StagePriority], k.StageNumber)
	for _, n := range k.Build {
		fmt.Fprintf(&b, ".%d", n)
	}
	return b.String()
}

// Compare returns -1, 0, or 1 ordering k against other by the full
// tuple; the build tuple breaks ties element-wise, with a missing
// element ordering below a present one.
func (k Key) Compare(other Key) int {
	pairs := [5][2]int{
		{k.Major, other.Major},
		{k.Minor, other.Minor},
		{k.Patch, other.Patch},
		{k.StagePriority, other.StagePriority},
		{k.StageNumber, other.StageNumber},
	}
	for _, p := range pairs {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}

	for i := 0; i < len(k.Build) || i < len(other.Build); i++ {
		a, b := 0, 0
		if i < len(k.Build) {
			a = k.Build[i]
		}
		if i < len(other.Build) {
			b = other.Build[i]
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// LessThan reports whether k orders strictly before other.
func (k Key) LessThan(other Key) bool {
	return k.Compare(other) < 0
}

// Compare orders two raw SDK version strings by their parsed keys.
func Compare(a, b string) int {
	return Parse(a).Compare(Parse(b))
}
