package version

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"3.9.0-alpha.1", StageAlpha},
		{"3.9.0alpha", StageAlpha},
		{"3.9.0-alpha", StageAlpha},
		{"3.10.0-beta.2", StageBeta},
		{"3.10.0beta", StageBeta},
		{"3.11.0-rc.1", StageRC},
		{"3.11.0rc", StageRC},
		{"3.13.0", StageStable},
		{"3.12.5", StageStable},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Classify(tt.raw); got != tt.expected {
				t.Errorf("Classify(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestClassify_ExactlyOneStage(t *testing.T) {
	versions := []string{
		"3.13.0", "3.12.5", "3.11.0-rc.1", "3.10.0-beta.2", "3.9.0-alpha.1", "3.8.10",
	}
	for _, v := range versions {
		stable := IsStable(v)
		pre := IsAlpha(v) || IsBeta(v) || IsRC(v)
		if stable == pre {
			t.Errorf("version %q: stable=%v but prerelease=%v, want exactly one", v, stable, pre)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw      string
		expected Key
	}{
		{"3.13.0", Key{3, 13, 0, RankStable, 0}},
		{"v3.13.0", Key{3, 13, 0, RankStable, 0}},
		{"3.11.0-rc.1", Key{3, 11, 0, RankRC, 1}},
		{"3.11.0-rc1", Key{3, 11, 0, RankRC, 1}},
		{"3.10.0-beta.2", Key{3, 10, 0, RankBeta, 2}},
		{"3.9.0-alpha.1", Key{3, 9, 0, RankAlpha, 1}},
		{"3.10.0-rc.1.2.3", Key{3, 10, 0, RankRC, 1}},
		{"999.999.999", Key{999, 999, 999, RankStable, 0}},
		{"invalid", Key{}},
		{"", Key{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Parse(tt.raw); got != tt.expected {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	// Descending order: each element must be strictly greater than the next.
	descending := []string{
		"3.11.0",
		"3.11.0-rc.2",
		"3.11.0-rc.1",
		"3.11.0-beta.2",
		"3.11.0-beta.1",
		"3.11.0-alpha.1",
		"3.10.10",
		"3.10.2",
		"3.10.1",
		"3.9.0",
	}

	for i := 0; i < len(descending)-1; i++ {
		hi, lo := descending[i], descending[i+1]
		if Compare(hi, lo) <= 0 {
			t.Errorf("Compare(%q, %q) = %d, want > 0", hi, lo, Compare(hi, lo))
		}
		if Compare(lo, hi) >= 0 {
			t.Errorf("Compare(%q, %q) = %d, want < 0", lo, hi, Compare(lo, hi))
		}
	}
}

func TestCompare_Equal(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"3.13.0", "3.13.0"},
		{"3.13.0", "v3.13.0"},
		{"3.11.0-rc.1", "3.11.0-rc1"},
	}
	for _, tt := range tests {
		if Compare(tt.a, tt.b) != 0 {
			t.Errorf("Compare(%q, %q) = %d, want 0", tt.a, tt.b, Compare(tt.a, tt.b))
		}
	}
}

func TestCompare_StableBeatsPrerelease(t *testing.T) {
	prereleases := []string{"3.11.0-rc.1", "3.11.0-beta.2", "3.11.0-alpha.1"}
	for _, pre := range prereleases {
		if Compare("3.11.0", pre) <= 0 {
			t.Errorf("stable 3.11.0 should outrank %q", pre)
		}
	}
}

func TestParse_HighSubOrdinalIsMoreRecent(t *testing.T) {
	ordered := []string{"3.10.0-rc.1", "3.10.0-rc.2", "3.10.0-rc.5", "3.10.0-rc.10"}
	for i := 0; i < len(ordered)-1; i++ {
		if Compare(ordered[i], ordered[i+1]) >= 0 {
			t.Errorf("expected %q < %q", ordered[i], ordered[i+1])
		}
	}
}

func TestLessThan(t *testing.T) {
	if !Parse("3.12.0").LessThan(Parse("3.13.0")) {
		t.Error("expected 3.12.0 < 3.13.0")
	}
	if Parse("3.13.0").LessThan(Parse("3.12.0")) {
		t.Error("expected 3.13.0 not < 3.12.0")
	}
}
