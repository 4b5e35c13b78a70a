// Package tui is the terminal front end. It follows The Elm Architecture
// via bubbletea: all state lives on the model, every user action or
// completed network call arrives as a message, and the update loop is the
// only place state changes. Network calls run inside tea.Cmd closures, so
// the model itself never blocks.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Negibkaya/Mias-sema/internal/api"
	"github.com/Negibkaya/Mias-sema/internal/config"
	"github.com/Negibkaya/Mias-sema/internal/logbook"
	"github.com/Negibkaya/Mias-sema/internal/team"
)

// appState represents which screen we're on.
type appState int

const (
	stateProjects    appState = iota // project list
	stateNewProject                  // name prompt for a new project
	stateProjectView                 // roster + match view for one project
	stateRolesEdit                   // role requirements editor
	stateProfile                     // viewer's own profile editor
)

// Backend is the API surface the TUI needs on top of the reconciliation
// engine's: listing and editing projects, and the profile endpoints.
// *api.Session satisfies it.
type Backend interface {
	team.Backend
	Me(ctx context.Context) (team.User, error)
	UpdateMe(ctx context.Context, update api.ProfileUpdate) (team.User, error)
	User(ctx context.Context, id int) (team.User, error)
	Projects(ctx context.Context) ([]team.Project, error)
	CreateProject(ctx context.Context, draft api.ProjectDraft) (team.Project, error)
	UpdateProject(ctx context.Context, id int, patch api.ProjectPatch) (team.Project, error)
	DeleteProject(ctx context.Context, id int) error
}

type bootMsg struct {
	viewer   team.User
	projects []team.Project
	err      error
}

type projectsMsg struct {
	projects []team.Project
	err      error
}

type projectCreatedMsg struct {
	project team.Project
	err     error
}

type projectDeletedMsg struct {
	id  int
	err error
}

// App is the root model holding all client state.
type App struct {
	state   appState
	cfg     *config.Config
	backend Backend
	logbook *logbook.Logbook

	viewer       team.User
	viewerLoaded bool

	projectMenu list.Model
	projects    []team.Project

	projectView *projectView
	rolesView   *rolesView
	profileView *profileView

	nameInput     textinput.Model
	confirmDelete *team.Project

	width  int
	height int

	statusMsg     string
	fatalErr      error
	lastLogStatus string
}

// projectItem implements list.Item for the project menu.
type projectItem struct {
	project team.Project
}

func (i projectItem) Title() string { return i.project.Name }
func (i projectItem) Description() string {
	roles := len(i.project.Roles)
	needed := i.project.Roles.TotalNeeded()
	if roles == 0 {
		return "no roles declared yet"
	}
	return fmt.Sprintf("%d role(s) · needs %d people", roles, needed)
}
func (i projectItem) FilterValue() string { return i.project.Name }

// NewApp creates the root model.
func NewApp(cfg *config.Config, backend Backend, lb *logbook.Logbook) *App {
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "⬡ PROJECTS"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	nameInput := textinput.New()
	nameInput.Placeholder = "Project name"
	nameInput.CharLimit = 120

	if lb != nil {
		lb.Info("Session opened")
	}

	return &App{
		state:       stateProjects,
		cfg:         cfg,
		backend:     backend,
		logbook:     lb,
		projectMenu: menu,
		nameInput:   nameInput,
		statusMsg:   "Loading…",
	}
}

func (a *App) logInfo(format string, args ...any)  { a.logbook.Info(format, args...) }
func (a *App) logWarn(format string, args ...any)  { a.logbook.Warn(format, args...) }
func (a *App) logError(format string, args ...any) { a.logbook.Error(format, args...) }

// logProgress mirrors a status-line change into the logbook, skipping
// repeats so holding a key doesn't flood the file.
func (a *App) logProgress(status string) {
	status = strings.TrimSpace(status)
	if status == "" || status == a.lastLogStatus {
		return
	}
	a.lastLogStatus = status
	a.logInfo(status)
}

func (a *App) setStatus(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	a.statusMsg = message
	a.logProgress(message)
}

// Init fetches the viewer's profile and the project list.
func (a *App) Init() tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		ctx := context.Background()
		viewer, err := backend.Me(ctx)
		if err != nil {
			return bootMsg{err: err}
		}
		projects, err := backend.Projects(ctx)
		if err != nil {
			return bootMsg{err: err}
		}
		return bootMsg{viewer: viewer, projects: projects}
	}
}

// Update is the single state-transition function.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.projectMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		if a.projectView != nil {
			a.projectView.setSize(msg.Width, msg.Height)
		}
		return a, nil

	case bootMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				a.fatalErr = fmt.Errorf("session expired; set SEMA_TOKEN and restart: %w", msg.err)
			} else {
				a.fatalErr = msg.err
			}
			a.logError("Startup failed: %v", msg.err)
			return a, nil
		}
		a.viewer = msg.viewer
		a.viewerLoaded = true
		a.installProjects(msg.projects)
		a.setStatus(fmt.Sprintf("Signed in as %s · %d project(s)", a.viewer.DisplayName(), len(msg.projects)))
		return a, nil

	case projectsMsg:
		if msg.err != nil {
			a.setStatus(fmt.Sprintf("Refresh failed: %v", msg.err))
			return a, nil
		}
		a.installProjects(msg.projects)
		a.setStatus(fmt.Sprintf("%d project(s)", len(msg.projects)))
		return a, nil

	case projectCreatedMsg:
		if msg.err != nil {
			a.setStatus(fmt.Sprintf("Create failed: %v", msg.err))
			return a, nil
		}
		a.state = stateProjects
		a.setStatus(fmt.Sprintf("Created %s", msg.project.Name))
		return a, a.fetchProjects()

	case projectDeletedMsg:
		if msg.err != nil {
			a.setStatus(fmt.Sprintf("Delete failed: %v", msg.err))
			return a, nil
		}
		a.setStatus("Project deleted")
		return a, a.fetchProjects()

	case rolesSavedMsg:
		return a.handleRolesSaved(msg)

	case profileSavedMsg:
		return a.handleProfileSaved(msg)

	case tea.KeyMsg:
		if model, cmd, handled := a.handleKey(msg); handled {
			return model, cmd
		}
	}

	return a.routeToState(msg)
}

// handleKey deals with global and screen-switching keys. Screen-local keys
// fall through to routeToState.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit, true
	}
	switch a.state {
	case stateProjects:
		return a.handleProjectsKey(key)
	case stateNewProject:
		switch key {
		case "esc":
			a.state = stateProjects
			a.nameInput.Blur()
			return a, nil, true
		case "enter":
			return a.submitNewProject()
		}
	case stateProjectView:
		if key == "esc" && a.projectView != nil && a.projectView.canLeave() {
			return a.closeProjectView()
		}
		if key == "e" && a.projectView != nil && a.projectView.canEditRoles() {
			return a.openRolesEditor()
		}
	case stateRolesEdit:
		if key == "esc" {
			a.state = stateProjectView
			a.rolesView = nil
			a.setStatus("Edit cancelled")
			return a, nil, true
		}
	case stateProfile:
		if key == "esc" {
			a.state = stateProjects
			a.profileView = nil
			a.setStatus("Profile edit cancelled")
			return a, nil, true
		}
	}
	return a, nil, false
}

func (a *App) handleProjectsKey(key string) (tea.Model, tea.Cmd, bool) {
	if a.confirmDelete != nil {
		switch key {
		case "y":
			project := *a.confirmDelete
			a.confirmDelete = nil
			a.logInfo("Deleting project %s", project.Name)
			return a, a.deleteProject(project.ID), true
		case "n", "esc":
			a.confirmDelete = nil
			a.setStatus("Delete cancelled")
			return a, nil, true
		}
		return a, nil, true
	}
	switch key {
	case "q":
		return a, tea.Quit, true
	case "r":
		a.setStatus("Refreshing projects…")
		return a, a.fetchProjects(), true
	case "n":
		a.state = stateNewProject
		a.nameInput.SetValue("")
		a.nameInput.Focus()
		a.setStatus("Name the new project")
		return a, textinput.Blink, true
	case "p":
		if !a.viewerLoaded {
			a.setStatus("Still loading your profile")
			return a, nil, true
		}
		a.state = stateProfile
		a.profileView = newProfileView(a)
		a.setStatus("Editing your profile")
		return a, textinput.Blink, true
	case "d":
		if item, ok := a.projectMenu.SelectedItem().(projectItem); ok {
			if item.project.OwnerID != a.viewer.ID {
				a.setStatus("Only the owner can delete a project")
				return a, nil, true
			}
			a.confirmDelete = &item.project
			return a, nil, true
		}
	case "enter":
		if item, ok := a.projectMenu.SelectedItem().(projectItem); ok {
			return a.openProjectView(item.project)
		}
	}
	return a, nil, false
}

func (a *App) submitNewProject() (tea.Model, tea.Cmd, bool) {
	name := strings.TrimSpace(a.nameInput.Value())
	if name == "" {
		a.setStatus("Project name is required")
		return a, nil, true
	}
	a.nameInput.Blur()
	backend := a.backend
	a.setStatus(fmt.Sprintf("Creating %s…", name))
	return a, func() tea.Msg {
		project, err := backend.CreateProject(context.Background(), api.ProjectDraft{Name: name})
		return projectCreatedMsg{project: project, err: err}
	}, true
}

func (a *App) openProjectView(project team.Project) (tea.Model, tea.Cmd, bool) {
	if !a.viewerLoaded {
		a.setStatus("Still loading your profile")
		return a, nil, true
	}
	a.state = stateProjectView
	a.projectView = newProjectView(a, project.ID)
	a.projectView.setSize(a.width, a.height)
	a.logInfo("Opened project %s", project.Name)
	return a, a.projectView.Init(), true
}

// closeProjectView leaves the project screen. The match session dies with
// the view; responses from still-in-flight requests are dropped because
// the view they were issued for is gone.
func (a *App) closeProjectView() (tea.Model, tea.Cmd, bool) {
	if a.projectView != nil {
		a.projectView.discard()
	}
	a.projectView = nil
	a.state = stateProjects
	a.setStatus("Back to projects")
	return a, a.fetchProjects(), true
}

func (a *App) openRolesEditor() (tea.Model, tea.Cmd, bool) {
	roster := a.projectView.engine.Roster()
	a.rolesView = newRolesView(a, roster.Project)
	a.state = stateRolesEdit
	a.setStatus("Editing role requirements")
	return a, textinput.Blink, true
}

func (a *App) handleRolesSaved(msg rolesSavedMsg) (tea.Model, tea.Cmd) {
	if a.state != stateRolesEdit || a.rolesView == nil {
		return a, nil
	}
	if msg.err != nil {
		a.rolesView.saving = false
		a.rolesView.errMsg = msg.err.Error()
		a.setStatus("Saving roles failed")
		return a, nil
	}
	a.rolesView = nil
	a.state = stateProjectView
	a.setStatus(fmt.Sprintf("Roles saved for %s", msg.project.Name))
	if a.projectView != nil {
		return a, a.projectView.reload()
	}
	return a, nil
}

func (a *App) handleProfileSaved(msg profileSavedMsg) (tea.Model, tea.Cmd) {
	if a.state != stateProfile || a.profileView == nil {
		return a, nil
	}
	if msg.err != nil {
		a.profileView.saving = false
		a.profileView.errMsg = msg.err.Error()
		a.setStatus("Saving profile failed")
		return a, nil
	}
	a.viewer = msg.user
	a.profileView = nil
	a.state = stateProjects
	a.setStatus(fmt.Sprintf("Profile saved for %s", msg.user.DisplayName()))
	return a, nil
}

func (a *App) routeToState(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch a.state {
	case stateProjects:
		var menuCmd tea.Cmd
		a.projectMenu, menuCmd = a.projectMenu.Update(msg)
		if menuCmd != nil {
			cmds = append(cmds, menuCmd)
		}
	case stateNewProject:
		var inputCmd tea.Cmd
		a.nameInput, inputCmd = a.nameInput.Update(msg)
		if inputCmd != nil {
			cmds = append(cmds, inputCmd)
		}
	case stateProjectView:
		if a.projectView != nil {
			if cmd := a.projectView.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateRolesEdit:
		if a.rolesView != nil {
			if cmd := a.rolesView.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateProfile:
		if a.profileView != nil {
			if cmd := a.profileView.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return a, tea.Batch(cmds...)
}

func (a *App) fetchProjects() tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		projects, err := backend.Projects(context.Background())
		return projectsMsg{projects: projects, err: err}
	}
}

func (a *App) deleteProject(id int) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		err := backend.DeleteProject(context.Background(), id)
		return projectDeletedMsg{id: id, err: err}
	}
}

func (a *App) installProjects(projects []team.Project) {
	a.projects = projects
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{project: p}
	}
	a.projectMenu.SetItems(items)
}

// View renders the current screen inside the shared chrome.
func (a *App) View() string {
	if a.fatalErr != nil {
		return fmt.Sprintf("⬡ SEMA\n\n%s\n\npress ctrl+c to quit\n", errorStyle.Render(a.fatalErr.Error()))
	}
	var content string
	switch a.state {
	case stateProjects:
		content = a.renderProjects()
	case stateNewProject:
		content = a.renderNewProject()
	case stateProjectView:
		if a.projectView != nil {
			content = a.projectView.View()
		} else {
			content = "Loading project…"
		}
	case stateRolesEdit:
		if a.rolesView != nil {
			content = a.rolesView.View()
		}
	case stateProfile:
		if a.profileView != nil {
			content = a.profileView.View()
		}
	}
	sections := []string{
		headerStyle.Render("⬡ SEMA"),
		panelStyle.Width(max(20, a.width-2)).Render(content),
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, footerStyle.Render(a.statusMsg))
	return strings.Join(sections, "\n")
}

func (a *App) renderProjects() string {
	if a.confirmDelete != nil {
		return fmt.Sprintf(
			"Delete project %q? This cannot be undone.\n\n%s",
			a.confirmDelete.Name,
			hintStyle.Render("y → delete    n → keep"),
		)
	}
	view := a.projectMenu.View()
	hint := hintStyle.Render("enter → open    n → new    d → delete    p → profile    r → refresh    q → quit")
	return lipgloss.JoinVertical(lipgloss.Left, view, "", hint)
}

func (a *App) renderNewProject() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("New project"),
		"",
		a.nameInput.View(),
		"",
		hintStyle.Render("enter → create    esc → cancel"),
	)
}

func (a *App) renderLogPanel() string {
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	head := sectionStyle.Render(fmt.Sprintf("LOG · %s", fileName))
	body := hintStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
