package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Negibkaya/Mias-sema/internal/team"
)

// ProjectDraft is the payload for creating a project.
type ProjectDraft struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Roles       team.RoleList `json:"roles,omitempty"`
}

// ProjectPatch updates a project; nil fields are left untouched.
type ProjectPatch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Roles       *team.RoleList `json:"roles,omitempty"`
}

// Projects lists every project visible to the session.
func (s *Session) Projects(ctx context.Context) ([]team.Project, error) {
	var out []team.Project
	if err := s.do(ctx, http.MethodGet, "/projects/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Project fetches a single project with its role requirements.
func (s *Session) Project(ctx context.Context, id int) (team.Project, error) {
	var out team.Project
	if err := s.do(ctx, http.MethodGet, "/projects/"+itoa(id), nil, nil, &out); err != nil {
		return team.Project{}, err
	}
	return out, nil
}

// CreateProject registers a new project owned by the session's user.
func (s *Session) CreateProject(ctx context.Context, draft ProjectDraft) (team.Project, error) {
	var out team.Project
	if err := s.do(ctx, http.MethodPost, "/projects/", nil, draft, &out); err != nil {
		return team.Project{}, err
	}
	return out, nil
}

// UpdateProject patches a project and returns the updated record.
func (s *Session) UpdateProject(ctx context.Context, id int, patch ProjectPatch) (team.Project, error) {
	var out team.Project
	if err := s.do(ctx, http.MethodPatch, "/projects/"+itoa(id), nil, patch, &out); err != nil {
		return team.Project{}, err
	}
	return out, nil
}

// DeleteProject removes a project. Owner-only on the backend side.
func (s *Session) DeleteProject(ctx context.Context, id int) error {
	return s.do(ctx, http.MethodDelete, "/projects/"+itoa(id), nil, nil, nil)
}

// Members lists a project's memberships enriched with profile fields.
func (s *Session) Members(ctx context.Context, projectID int) ([]team.Member, error) {
	var out []team.Member
	if err := s.do(ctx, http.MethodGet, "/projects/"+itoa(projectID)+"/members", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember creates a membership, optionally under a role name.
func (s *Session) AddMember(ctx context.Context, projectID, userID int, roleName string) error {
	var query url.Values
	if roleName != "" {
		query = url.Values{"role_name": {roleName}}
	}
	return s.do(ctx, http.MethodPost, "/projects/"+itoa(projectID)+"/members/"+itoa(userID), query, nil, nil)
}

// RemoveMember destroys a membership.
func (s *Session) RemoveMember(ctx context.Context, projectID, userID int) error {
	return s.do(ctx, http.MethodDelete, "/projects/"+itoa(projectID)+"/members/"+itoa(userID), nil, nil, nil)
}
