package team

import (
	"errors"
	"strings"
)

// Headcount bounds enforced on role requirements.
const (
	MinRoleCount = 1
	MaxRoleCount = 100
)

var (
	ErrRoleName      = errors.New("team: role name is required")
	ErrDuplicateRole = errors.New("team: role already added")
)

// Role is a named slot on a project: how many people are needed and the
// minimum skill thresholds they should meet.
type Role struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Skills SkillSet `json:"skills"`
}

// RoleList is a project's ordered role requirements. Role names are unique
// under case-insensitive comparison.
type RoleList []Role

// AddRole appends a role. An empty name or a case-insensitive duplicate is
// rejected and leaves the list unchanged. The headcount is clamped to the
// supported range.
func (l *RoleList) AddRole(name string, count int, skills SkillSet) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrRoleName
	}
	if l.Has(name) {
		return ErrDuplicateRole
	}
	*l = append(*l, Role{Name: name, Count: ClampCount(count), Skills: skills.Clone()})
	return nil
}

// RemoveRole drops the role at index i. Out-of-range indices are ignored.
func (l *RoleList) RemoveRole(i int) {
	roles := *l
	if i < 0 || i >= len(roles) {
		return
	}
	*l = append(roles[:i], roles[i+1:]...)
}

// SetCount replaces the headcount of the role at index i, clamped to the
// supported range.
func (l RoleList) SetCount(i, count int) {
	if i < 0 || i >= len(l) {
		return
	}
	l[i].Count = ClampCount(count)
}

// SetSkills replaces the skill thresholds of the role at index i.
func (l RoleList) SetSkills(i int, skills SkillSet) {
	if i < 0 || i >= len(l) {
		return
	}
	l[i].Skills = skills.Clone()
}

// Has reports whether a role with the given name exists, ignoring case.
func (l RoleList) Has(name string) bool {
	name = strings.TrimSpace(name)
	for _, role := range l {
		if strings.EqualFold(role.Name, name) {
			return true
		}
	}
	return false
}

// TotalNeeded is the sum of headcounts across all roles. It is display
// state only and never sent to the backend.
func (l RoleList) TotalNeeded() int {
	total := 0
	for _, role := range l {
		total += role.Count
	}
	return total
}

// Clone returns a deep copy suitable for a working edit buffer.
func (l RoleList) Clone() RoleList {
	if len(l) == 0 {
		return nil
	}
	dup := make(RoleList, len(l))
	for i, role := range l {
		dup[i] = role
		dup[i].Skills = role.Skills.Clone()
	}
	return dup
}

// ClampCount forces a headcount into the supported 1..100 range.
func ClampCount(count int) int {
	if count < MinRoleCount {
		return MinRoleCount
	}
	if count > MaxRoleCount {
		return MaxRoleCount
	}
	return count
}
