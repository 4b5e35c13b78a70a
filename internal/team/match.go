package team

import (
	"errors"
	"fmt"
)

var ErrCandidateGone = errors.New("team: candidate not present in session")

// Candidate is one scored suggestion from the matching service.
type Candidate struct {
	ID     int    `json:"id"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// RoleMatch is the matching service's verdict for one role: the tally as
// the service saw it and a ranked candidate list.
type RoleMatch struct {
	RoleName   string      `json:"role_name"`
	Needed     int         `json:"needed"`
	Filled     int         `json:"filled"`
	Candidates []Candidate `json:"candidates"`
}

// Full reports whether the role's tally is already met. A full role keeps
// showing its candidates but accepting them is suppressed.
func (m RoleMatch) Full() bool {
	return m.Filled >= m.Needed
}

// MatchSession is one ephemeral snapshot from the matching service. It is
// advisory state: accepted candidates are patched in place and the session
// may drift from the authoritative roster until the next full run.
type MatchSession struct {
	Roles []RoleMatch
}

// Role returns the entry for the given role name, matched literally.
func (s *MatchSession) Role(name string) (*RoleMatch, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Roles {
		if s.Roles[i].RoleName == name {
			return &s.Roles[i], true
		}
	}
	return nil, false
}

// Accept applies the session-local patch for a confirmed assignment: the
// role's filled tally goes up by exactly one and the accepted candidate
// leaves that role's list. The same user listed under other roles is left
// alone. The session is unchanged if the role or candidate is absent.
func (s *MatchSession) Accept(roleName string, userID int) error {
	role, ok := s.Role(roleName)
	if !ok {
		return fmt.Errorf("team: role %q not in session: %w", roleName, ErrCandidateGone)
	}
	for i, c := range role.Candidates {
		if c.ID == userID {
			role.Candidates = append(role.Candidates[:i], role.Candidates[i+1:]...)
			role.Filled++
			return nil
		}
	}
	return fmt.Errorf("team: user %d not a candidate for %q: %w", userID, roleName, ErrCandidateGone)
}

// Clone returns a deep copy, used by tests and by callers that need a
// before/after comparison across a failed mutation.
func (s *MatchSession) Clone() *MatchSession {
	if s == nil {
		return nil
	}
	dup := &MatchSession{Roles: make([]RoleMatch, len(s.Roles))}
	for i, role := range s.Roles {
		dup.Roles[i] = role
		dup.Roles[i].Candidates = append([]Candidate(nil), role.Candidates...)
	}
	return dup
}
