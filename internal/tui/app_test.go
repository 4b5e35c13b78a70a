package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Negibkaya/Mias-sema/internal/team"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBootInstallsProjects(t *testing.T) {
	backend := newTestBackend()
	app := newTestApp(t, backend)
	app.viewerLoaded = false

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app.Update(bootMsg{
		viewer:   team.User{ID: 1, Name: "Owner"},
		projects: []team.Project{backend.project},
	})

	if !app.viewerLoaded {
		t.Fatalf("viewer not installed")
	}
	if len(app.projectMenu.Items()) != 1 {
		t.Fatalf("menu items = %d, want 1", len(app.projectMenu.Items()))
	}
	if !strings.Contains(app.statusMsg, "Owner") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestBootFailureIsFatal(t *testing.T) {
	backend := newTestBackend()
	app := newTestApp(t, backend)

	app.Update(bootMsg{err: errors.New("connection refused")})
	if app.fatalErr == nil {
		t.Fatalf("boot failure must be fatal")
	}
	if !strings.Contains(app.View(), "connection refused") {
		t.Fatalf("fatal error not rendered")
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	backend := newTestBackend()
	backend.project.OwnerID = 2
	app := newTestApp(t, backend)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app.installProjects([]team.Project{backend.project})

	app.Update(keyPress('d'))
	if app.confirmDelete != nil {
		t.Fatalf("delete prompt opened for non-owner")
	}
	if !strings.Contains(app.statusMsg, "owner") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	backend := newTestBackend()
	app := newTestApp(t, backend)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app.installProjects([]team.Project{backend.project})

	app.Update(keyPress('d'))
	if app.confirmDelete == nil {
		t.Fatalf("delete prompt did not open")
	}
	app.Update(keyPress('n'))
	if app.confirmDelete != nil {
		t.Fatalf("n did not cancel the prompt")
	}
}

func TestNewProjectRequiresName(t *testing.T) {
	backend := newTestBackend()
	app := newTestApp(t, backend)

	app.Update(keyPress('n'))
	if app.state != stateNewProject {
		t.Fatalf("state = %d, want new-project prompt", app.state)
	}
	app.nameInput.SetValue("   ")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("blank name must not create a project")
	}
	if app.state != stateNewProject {
		t.Fatalf("prompt closed on blank name")
	}
}

func TestProfileSaveUpdatesViewer(t *testing.T) {
	backend := newTestBackend()
	app := newTestApp(t, backend)

	app.Update(keyPress('p'))
	if app.state != stateProfile || app.profileView == nil {
		t.Fatalf("p did not open the profile editor")
	}

	pv := app.profileView
	pv.nameInput.SetValue("Olga K")
	pv.skillNameInput.SetValue("Go")
	pv.skillLevelInput.SetValue("8")
	pv.addSkill()
	if pv.errMsg != "" {
		t.Fatalf("add skill: %s", pv.errMsg)
	}

	cmd, handled := pv.handleKey("ctrl+s")
	if !handled || cmd == nil {
		t.Fatalf("ctrl+s did not start the save")
	}
	app.Update(cmd())

	if app.state != stateProjects {
		t.Fatalf("save did not return to the project list")
	}
	if app.viewer.Name != "Olga K" {
		t.Fatalf("viewer name = %q, want Olga K", app.viewer.Name)
	}
	if !app.viewer.Skills.Has("Go") {
		t.Fatalf("viewer skills missing Go: %+v", app.viewer.Skills)
	}
	me, _ := backend.Me(context.Background())
	if me.Name != "Olga K" || !me.Skills.Has("Go") {
		t.Fatalf("backend profile not updated: %+v", me)
	}
}

func TestProfileDuplicateSkillRejected(t *testing.T) {
	backend := newTestBackend()
	backend.users[0].Skills = team.SkillSet{{Name: "Go", Level: 5}}
	app := newTestApp(t, backend)
	app.viewer = backend.users[0]

	app.Update(keyPress('p'))
	pv := app.profileView
	pv.skillNameInput.SetValue("go")
	pv.skillLevelInput.SetValue("9")
	pv.addSkill()
	if pv.errMsg == "" {
		t.Fatalf("case-insensitive duplicate must be rejected")
	}
	if len(pv.skills) != 1 {
		t.Fatalf("working set changed on rejection: %+v", pv.skills)
	}
}

func TestOpenProjectStartsLoad(t *testing.T) {
	backend := newTestBackend()
	app := newTestApp(t, backend)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app.installProjects([]team.Project{backend.project})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != stateProjectView || app.projectView == nil {
		t.Fatalf("enter did not open the project view")
	}
	if cmd == nil {
		t.Fatalf("opening a project must kick off a load")
	}
	deliver(t, app.projectView, cmd)
	if !app.projectView.engine.Loaded() {
		t.Fatalf("project did not load")
	}
}
