package team

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotLoaded     = errors.New("team: roster not loaded")
	ErrNotOwner      = errors.New("team: only the project owner may do this")
	ErrNoRoles       = errors.New("team: project has no roles defined")
	ErrNoSession     = errors.New("team: no match session")
	ErrAlreadyMember = errors.New("team: user is already a project member")
	ErrRoleFilled    = errors.New("team: role is already filled")
)

// Backend is the collaborator API surface the engine depends on. The
// concrete implementation lives in internal/api; tests substitute fakes.
type Backend interface {
	Project(ctx context.Context, id int) (Project, error)
	Members(ctx context.Context, projectID int) ([]Member, error)
	Users(ctx context.Context) ([]User, error)
	AddMember(ctx context.Context, projectID, userID int, roleName string) error
	RemoveMember(ctx context.Context, projectID, userID int) error
	Match(ctx context.Context, projectID int, roleName string, topN int) ([]RoleMatch, error)
}

// Engine keeps the three overlapping views of a project consistent as the
// viewer mutates it: the authoritative roster (reload-driven), the role
// requirements on the project record, and the advisory match session
// (patch-driven).
//
// The methods split into two tiers. Remote calls (Fetch, SubmitMember,
// WithdrawMember, Score, SubmitAccept) touch only the backend and return
// results without writing engine state, so they may run on any goroutine.
// State methods (Install, InstallMatch, ApplyAccept, the accessors and the
// Can* checks) read and write the held snapshot and must stay confined to
// the single goroutine driving the UI. A caller validates with Can*, runs
// the remote call, then applies the result — reconciliation is always a
// continuation of a confirmed backend response, never speculative.
type Engine struct {
	backend  Backend
	viewerID int

	roster  Roster
	session *MatchSession
	loaded  bool
}

// NewEngine builds an engine for the given viewer. The viewer id gates
// owner-only operations locally; the backend is still the final authority.
func NewEngine(backend Backend, viewerID int) *Engine {
	return &Engine{backend: backend, viewerID: viewerID}
}

// Roster returns the current authoritative snapshot.
func (e *Engine) Roster() Roster { return e.roster }

// Session returns the advisory match session, or nil when none is held.
func (e *Engine) Session() *MatchSession { return e.session }

// Loaded reports whether a roster snapshot is available.
func (e *Engine) Loaded() bool { return e.loaded }

// ViewerIsOwner reports whether the viewer owns the loaded project.
func (e *Engine) ViewerIsOwner() bool {
	return e.loaded && e.roster.OwnedBy(e.viewerID)
}

// Fetch retrieves the project, its members, and the user directory. The
// three fetches are independent and run concurrently; if any fails the
// error is returned and no snapshot is produced — partial data never
// escapes. Engine state is untouched; the caller installs the result.
func (e *Engine) Fetch(ctx context.Context, projectID int) (Roster, error) {
	var (
		wg      sync.WaitGroup
		project Project
		members []Member
		users   []User
		errs    [3]error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		project, errs[0] = e.backend.Project(ctx, projectID)
	}()
	go func() {
		defer wg.Done()
		members, errs[1] = e.backend.Members(ctx, projectID)
	}()
	go func() {
		defer wg.Done()
		users, errs[2] = e.backend.Users(ctx)
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return Roster{}, fmt.Errorf("team: load project %d: %w", projectID, err)
		}
	}
	return Roster{Project: project, Members: members, Users: users}, nil
}

// Install replaces the authoritative snapshot. A failed Fetch never reaches
// Install, so the prior snapshot survives load errors.
func (e *Engine) Install(roster Roster) {
	e.roster = roster
	e.loaded = true
}

// CanAddMember reports whether a manual assignment for the user may be
// submitted: viewer owns the project and the user is not already on it.
func (e *Engine) CanAddMember(userID int) error {
	if err := e.requireOwner(); err != nil {
		return err
	}
	if e.roster.IsMember(userID) {
		return ErrAlreadyMember
	}
	return nil
}

// CanRemoveMember reports whether membership removal may be submitted.
func (e *Engine) CanRemoveMember() error {
	return e.requireOwner()
}

// SubmitMember assigns a user to the project, optionally under a role name,
// and returns a fresh snapshot. Membership changes can move fill counts
// across several roles, and the declarative source is cheaper to re-fetch
// than to re-derive.
func (e *Engine) SubmitMember(ctx context.Context, projectID, userID int, roleName string) (Roster, error) {
	if err := e.backend.AddMember(ctx, projectID, userID, roleName); err != nil {
		return Roster{}, err
	}
	return e.Fetch(ctx, projectID)
}

// WithdrawMember drops a user's membership and returns a fresh snapshot.
func (e *Engine) WithdrawMember(ctx context.Context, projectID, userID int) (Roster, error) {
	if err := e.backend.RemoveMember(ctx, projectID, userID); err != nil {
		return Roster{}, err
	}
	return e.Fetch(ctx, projectID)
}

// CanMatch reports whether a match run may be started: viewer owns the
// project and at least one role is declared.
func (e *Engine) CanMatch() error {
	if err := e.requireOwner(); err != nil {
		return err
	}
	if len(e.roster.Project.Roles) == 0 {
		return ErrNoRoles
	}
	return nil
}

// Score asks the matching service to rank candidates for every role on the
// project. The result is returned, not installed; InstallMatch applies it.
func (e *Engine) Score(ctx context.Context, projectID, topN int) ([]RoleMatch, error) {
	return e.backend.Match(ctx, projectID, "", topN)
}

// InstallMatch replaces any prior session outright; each run is a clean
// snapshot taken against the live roster.
func (e *Engine) InstallMatch(roles []RoleMatch) {
	e.session = &MatchSession{Roles: roles}
}

// CanAccept reports whether the accept action is currently offered for a
// candidate. Membership is checked against the authoritative roster, not
// the session's possibly stale tallies; that is what keeps double
// assignment out of the UI.
func (e *Engine) CanAccept(roleName string, userID int) error {
	if err := e.requireOwner(); err != nil {
		return err
	}
	role, ok := e.session.Role(roleName)
	if !ok {
		return ErrNoSession
	}
	if e.roster.IsMember(userID) {
		return ErrAlreadyMember
	}
	if role.Full() {
		return ErrRoleFilled
	}
	return nil
}

// SubmitAccept confirms a suggested assignment with the backend. No state
// changes here: on success the caller runs ApplyAccept, on failure the
// session stays exactly as it was.
func (e *Engine) SubmitAccept(ctx context.Context, projectID int, roleName string, userID int) error {
	return e.backend.AddMember(ctx, projectID, userID, roleName)
}

// ApplyAccept patches the session in place after a confirmed accept —
// filled goes up by one and the candidate leaves that role's list — without
// re-fetching the roster. The roster and session may disagree until the
// next full reload; that staleness is the accepted price of keeping the
// ranked list interactive.
func (e *Engine) ApplyAccept(roleName string, userID int) error {
	if e.session == nil {
		return ErrNoSession
	}
	return e.session.Accept(roleName, userID)
}

// Invalidate discards the advisory session. Called when the view unmounts
// or a full reload makes the snapshot meaningless.
func (e *Engine) Invalidate() {
	e.session = nil
}

func (e *Engine) requireOwner() error {
	if !e.loaded {
		return ErrNotLoaded
	}
	if !e.roster.OwnedBy(e.viewerID) {
		return ErrNotOwner
	}
	return nil
}
