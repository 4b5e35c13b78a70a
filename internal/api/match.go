package api

import (
	"context"
	"net/http"

	"github.com/Negibkaya/Mias-sema/internal/team"
)

// TopN bounds accepted by the matching service.
const (
	MinTopN     = 1
	MaxTopN     = 20
	DefaultTopN = 3
)

type matchRequest struct {
	ProjectID int    `json:"project_id"`
	RoleName  string `json:"role_name,omitempty"`
	TopN      int    `json:"top_n"`
}

// Match asks the matching service to rank candidates. An empty roleName
// means every role on the project is scored. The call is synchronous and
// can take a while; pass a context the caller can abandon.
func (s *Session) Match(ctx context.Context, projectID int, roleName string, topN int) ([]team.RoleMatch, error) {
	if topN < MinTopN {
		topN = DefaultTopN
	}
	if topN > MaxTopN {
		topN = MaxTopN
	}
	req := matchRequest{ProjectID: projectID, RoleName: roleName, TopN: topN}
	var out []team.RoleMatch
	if err := s.do(ctx, http.MethodPost, "/ai/match", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
