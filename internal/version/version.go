// Package version provides parsing, stability classification, and a
// total ordering for interpreter-distribution version strings such as
// "3.13.0", "3.11.0-rc.1", or "3.9.0-alpha.1".
package version

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Release stage names. These double as classification results and as
// the values accepted by release-type filters.
const (
	StageAlpha  = "alpha"
	StageBeta   = "beta"
	StageRC     = "rc"
	StageStable = "stable"
)

// Numeric stage ranks used inside Key. Stable carries the greatest
// rank so that plain tuple comparison always prefers a stable release
// over any pre-release with the same major/minor/patch.
const (
	RankAlpha  = 1
	RankBeta   = 2
	RankRC     = 3
	RankStable = 4
)

// stageRanks maps a stage name to its rank.
var stageRanks = map[string]int{
	StageAlpha:  RankAlpha,
	StageBeta:   RankBeta,
	StageRC:     RankRC,
	StageStable: RankStable,
}

// classifyOrder is the fixed priority in which stage cues are checked;
// the first matching stage wins.
var classifyOrder = []string{StageAlpha, StageBeta, StageRC}

// Key is the totally ordered representation of a version string.
// Malformed input parses to the zero Key, which sorts below every
// valid version; callers exclude such entries from listings rather
// than failing a batch.
type Key struct {
	Major     int
	Minor     int
	Patch     int
	StageRank int
	StageSeq  int
}

// Parse converts a version string into a Key. A leading "v" is
// accepted. The pre-release stage and its numeric sub-ordinal are
// resolved once here so that comparison never re-scans the raw string.
func Parse(raw string) Key {
	sv, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return Key{}
	}

	key := Key{
		Major:     int(sv.Major()),
		Minor:     int(sv.Minor()),
		Patch:     int(sv.Patch()),
		StageRank: RankStable,
	}

	pre := sv.Prerelease()
	if pre == "" {
		return key
	}

	stage, seq := splitStage(pre)
	rank, ok := stageRanks[stage]
	if !ok {
		// Unknown pre-release label: rank below every known stage so
		// the entry never outranks a recognized release.
		return Key{Major: key.Major, Minor: key.Minor, Patch: key.Patch}
	}
	key.StageRank = rank
	key.StageSeq = seq
	return key
}

// splitStage separates a pre-release identifier like "rc.1", "rc1", or
// "beta.2.5" into its stage name and numeric sub-ordinal. "rc.1" and
// "rc1" yield the same result.
func splitStage(pre string) (stage string, seq int) {
	parts := strings.Split(pre, ".")
	head := parts[0]

	for _, name := range classifyOrder {
		if !strings.HasPrefix(head, name) {
			continue
		}
		stage = name
		if trailing := head[len(name):]; trailing != "" {
			seq, _ = strconv.Atoi(trailing)
			return stage, seq
		}
		if len(parts) > 1 {
			seq, _ = strconv.Atoi(parts[1])
		}
		return stage, seq
	}

	return head, 0
}

// Compare returns -1, 0, or 1 ordering k against other by the full
// (major, minor, patch, stage rank, stage sequence) tuple.
func (k Key) Compare(other Key) int {
	pairs := [5][2]int{
		{k.Major, other.Major},
		{k.Minor, other.Minor},
		{k.Patch, other.Patch},
		{k.StageRank, other.StageRank},
		{k.StageSeq, other.StageSeq},
	}
	for _, p := range pairs {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return 0
}

// LessThan reports whether k orders strictly before other.
func (k Key) LessThan(other Key) bool {
	return k.Compare(other) < 0
}

// Compare orders two raw version strings by their parsed keys.
func Compare(a, b string) int {
	return Parse(a).Compare(Parse(b))
}

// Classify returns the release stage of a version string: one of
// StageAlpha, StageBeta, StageRC, or StageStable. Detection is purely
// lexical and checked in fixed priority order so a string matching
// several cues classifies deterministically.
func Classify(raw string) string {
	for _, stage := range classifyOrder {
		if matchesStage(raw, stage) {
			return stage
		}
	}
	return StageStable
}

// matchesStage reports whether the raw string carries the lexical cues
// of the given pre-release stage.
func matchesStage(raw, stage string) bool {
	return strings.HasSuffix(raw, stage) ||
		strings.Contains(raw, "-"+stage+".") ||
		strings.Contains(raw, "-"+stage)
}

// IsAlpha reports whether the version string denotes an alpha release.
func IsAlpha(raw string) bool { return Classify(raw) == StageAlpha }

// IsBeta reports whether the version string denotes a beta release.
func IsBeta(raw string) bool { return Classify(raw) == StageBeta }

// IsRC reports whether the version string denotes a release candidate.
func IsRC(raw string) bool { return Classify(raw) == StageRC }

// IsStable reports whether the version string denotes a stable release.
func IsStable(raw string) bool { return Classify(raw) == StageStable }
