package api

import (
	"context"
	"net/http"

	"github.com/Negibkaya/Mias-sema/internal/team"
)

// ProfileUpdate edits the session user's own profile; nil fields are left
// untouched.
type ProfileUpdate struct {
	Name   *string        `json:"name,omitempty"`
	Bio    *string        `json:"bio,omitempty"`
	Skills *team.SkillSet `json:"skills,omitempty"`
}

// Me returns the profile behind the session token.
func (s *Session) Me(ctx context.Context) (team.User, error) {
	var out team.User
	if err := s.do(ctx, http.MethodGet, "/users/me", nil, nil, &out); err != nil {
		return team.User{}, err
	}
	return out, nil
}

// UpdateMe edits the session user's profile.
func (s *Session) UpdateMe(ctx context.Context, update ProfileUpdate) (team.User, error) {
	var out team.User
	if err := s.do(ctx, http.MethodPut, "/users/me", nil, update, &out); err != nil {
		return team.User{}, err
	}
	return out, nil
}

// Users lists every registered profile.
func (s *Session) Users(ctx context.Context) ([]team.User, error) {
	var out []team.User
	if err := s.do(ctx, http.MethodGet, "/users/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User fetches a single profile.
func (s *Session) User(ctx context.Context, id int) (team.User, error) {
	var out team.User
	if err := s.do(ctx, http.MethodGet, "/users/"+itoa(id), nil, nil, &out); err != nil {
		return team.User{}, err
	}
	return out, nil
}
