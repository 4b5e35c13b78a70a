package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Negibkaya/Mias-sema/internal/team"
)

func TestSessionSendsAuthAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]team.User{})
	}))
	defer server.Close()

	s := NewSession(server.URL, "secret-token")
	if _, err := s.Users(context.Background()); err != nil {
		t.Fatalf("users: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("request id header missing")
	}
}

func TestSessionDecodesErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Only owner can run matching"})
	}))
	defer server.Close()

	s := NewSession(server.URL, "token")
	_, err := s.Match(context.Background(), 1, "", 3)
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Detail != "Only owner can run matching" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestSessionNotFoundSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Project not found"})
	}))
	defer server.Close()

	s := NewSession(server.URL, "token")
	_, err := s.Project(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionUnauthorizedClearsTokenAndFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
	}))
	defer server.Close()

	hookCalls := 0
	s := NewSession(server.URL, "stale-token", WithUnauthorizedHook(func() { hookCalls++ }))
	_, err := s.Me(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("token must be cleared after 401")
	}
	if hookCalls != 1 {
		t.Fatalf("hook called %d times, want 1", hookCalls)
	}

	// Subsequent 401s must not re-fire the hook; the token is gone.
	_, _ = s.Me(context.Background())
	if hookCalls != 1 {
		t.Fatalf("hook must fire once, got %d", hookCalls)
	}
}

func TestAddMemberEncodesRoleNameQuery(t *testing.T) {
	var gotPath, gotRole string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRole = r.URL.Query().Get("role_name")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewSession(server.URL, "token")
	if err := s.AddMember(context.Background(), 3, 7, "Backend Developer"); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if gotPath != "/projects/3/members/7" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotRole != "Backend Developer" {
		t.Fatalf("role_name = %q", gotRole)
	}
}

func TestAddMemberOmitsEmptyRoleName(t *testing.T) {
	var hadRole bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadRole = r.URL.Query()["role_name"]
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewSession(server.URL, "token")
	if err := s.AddMember(context.Background(), 3, 7, ""); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if hadRole {
		t.Fatalf("empty role must not be sent as a query param")
	}
}

func TestMatchRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/match" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ProjectID != 5 || req.TopN != 3 || req.RoleName != "" {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode([]team.RoleMatch{{
			RoleName: "Backend",
			Needed:   2,
			Filled:   0,
			Candidates: []team.Candidate{
				{ID: 7, Score: 82, Reason: "strong Go background"},
			},
		}})
	}))
	defer server.Close()

	s := NewSession(server.URL, "token")
	roles, err := s.Match(context.Background(), 5, "", 0)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(roles) != 1 || roles[0].RoleName != "Backend" || roles[0].Candidates[0].Score != 82 {
		t.Fatalf("unexpected response: %+v", roles)
	}
}

func TestMatchClampsTopN(t *testing.T) {
	var gotTopN int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotTopN = req.TopN
		json.NewEncoder(w).Encode([]team.RoleMatch{})
	}))
	defer server.Close()

	s := NewSession(server.URL, "token")
	if _, err := s.Match(context.Background(), 1, "", 100); err != nil {
		t.Fatal(err)
	}
	if gotTopN != MaxTopN {
		t.Fatalf("top_n = %d, want %d", gotTopN, MaxTopN)
	}
}

func TestDecodeDetailHandlesStructuredErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [{"loc": ["body", "name"], "msg": "field required"}]}`))
	}))
	defer server.Close()

	s := NewSession(server.URL, "token")
	_, err := s.CreateProject(context.Background(), ProjectDraft{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Detail == "" {
		t.Fatalf("structured detail must survive as text")
	}
}
