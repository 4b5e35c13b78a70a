package team

import (
	"errors"
	"strings"
)

// Skill levels are self-reported on a 0..10 scale. Role requirements reuse
// the same shape as minimum thresholds.
const (
	MinSkillLevel = 0
	MaxSkillLevel = 10
)

var (
	ErrSkillName      = errors.New("team: skill name is required")
	ErrDuplicateSkill = errors.New("team: skill already added")
)

// Skill is one (name, level) pair on a profile or a role requirement.
type Skill struct {
	Name  string `json:"name" yaml:"name"`
	Level int    `json:"level" yaml:"level"`
}

// SkillSet is an ordered collection of skills. Names are unique under
// case-insensitive comparison; order is insertion order.
type SkillSet []Skill

// Add appends a skill after trimming the name. An empty name or a
// case-insensitive duplicate is rejected and leaves the set unchanged.
func (s *SkillSet) Add(name string, level int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrSkillName
	}
	if s.Has(name) {
		return ErrDuplicateSkill
	}
	*s = append(*s, Skill{Name: name, Level: ClampLevel(level)})
	return nil
}

// Remove drops the skill at index i. Out-of-range indices are ignored.
func (s *SkillSet) Remove(i int) {
	set := *s
	if i < 0 || i >= len(set) {
		return
	}
	*s = append(set[:i], set[i+1:]...)
}

// Has reports whether a skill with the given name exists, ignoring case.
func (s SkillSet) Has(name string) bool {
	name = strings.TrimSpace(name)
	for _, skill := range s {
		if strings.EqualFold(skill.Name, name) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy so edits on a working set never leak
// into a snapshot held elsewhere.
func (s SkillSet) Clone() SkillSet {
	if len(s) == 0 {
		return nil
	}
	dup := make(SkillSet, len(s))
	copy(dup, s)
	return dup
}

// ClampLevel forces a level into the supported 0..10 range.
func ClampLevel(level int) int {
	if level < MinSkillLevel {
		return MinSkillLevel
	}
	if level > MaxSkillLevel {
		return MaxSkillLevel
	}
	return level
}

// Tier is the shared three-band classification used for skill tags and
// candidate score badges.
type Tier int

const (
	TierLow Tier = iota
	TierMid
	TierHigh
)

// ClassifyLevel maps a skill level to its display tier.
func ClassifyLevel(level int) Tier {
	switch {
	case level >= 7:
		return TierHigh
	case level >= 4:
		return TierMid
	default:
		return TierLow
	}
}

// ClassifyScore maps a candidate match score (0..100) to its display tier.
// The thresholds differ from skill levels; the two scales must not be
// conflated.
func ClassifyScore(score int) Tier {
	switch {
	case score >= 70:
		return TierHigh
	case score >= 40:
		return TierMid
	default:
		return TierLow
	}
}
