package team

import (
	"errors"
	"testing"
)

func TestSkillSetAddTrimsAndClamps(t *testing.T) {
	var set SkillSet
	if err := set.Add("  Go  ", 15); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(set))
	}
	if set[0].Name != "Go" {
		t.Fatalf("expected trimmed name, got %q", set[0].Name)
	}
	if set[0].Level != MaxSkillLevel {
		t.Fatalf("expected level clamped to %d, got %d", MaxSkillLevel, set[0].Level)
	}
}

func TestSkillSetRejectsEmptyName(t *testing.T) {
	var set SkillSet
	if err := set.Add("   ", 5); !errors.Is(err, ErrSkillName) {
		t.Fatalf("expected ErrSkillName, got %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("set must stay empty, got %d entries", len(set))
	}
}

func TestSkillSetRejectsCaseInsensitiveDuplicate(t *testing.T) {
	set := SkillSet{{Name: "Python", Level: 6}}
	err := set.Add("python", 3)
	if !errors.Is(err, ErrDuplicateSkill) {
		t.Fatalf("expected ErrDuplicateSkill, got %v", err)
	}
	if len(set) != 1 || set[0].Level != 6 {
		t.Fatalf("duplicate add must leave the set unchanged: %+v", set)
	}
}

func TestSkillSetRemoveIsPositional(t *testing.T) {
	set := SkillSet{{Name: "Go", Level: 5}, {Name: "SQL", Level: 4}, {Name: "Docker", Level: 3}}
	set.Remove(1)
	if len(set) != 2 || set[0].Name != "Go" || set[1].Name != "Docker" {
		t.Fatalf("unexpected set after remove: %+v", set)
	}
	set.Remove(10)
	set.Remove(-1)
	if len(set) != 2 {
		t.Fatalf("out-of-range remove must be a no-op, got %+v", set)
	}
}

func TestClassifyLevel(t *testing.T) {
	cases := []struct {
		level int
		want  Tier
	}{
		{0, TierLow},
		{3, TierLow},
		{4, TierMid},
		{6, TierMid},
		{7, TierHigh},
		{10, TierHigh},
	}
	for _, tc := range cases {
		if got := ClassifyLevel(tc.level); got != tc.want {
			t.Errorf("ClassifyLevel(%d) = %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestClassifyScoreUsesItsOwnThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
	}{
		{0, TierLow},
		{39, TierLow},
		{40, TierMid},
		{69, TierMid},
		{70, TierHigh},
		{100, TierHigh},
	}
	for _, tc := range cases {
		if got := ClassifyScore(tc.score); got != tc.want {
			t.Errorf("ClassifyScore(%d) = %v, want %v", tc.score, got, tc.want)
		}
	}
	// A score of 10 would be a high skill level but is still a low score.
	if ClassifyScore(10) != TierLow {
		t.Fatalf("score bands must not reuse skill-level thresholds")
	}
}
