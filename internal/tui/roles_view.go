package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Negibkaya/Mias-sema/internal/api"
	"github.com/Negibkaya/Mias-sema/internal/team"
)

// rolesField enumerates the editor's focus stops in tab order.
type rolesField int

const (
	fieldRoleName rolesField = iota
	fieldRoleCount
	fieldSkillName
	fieldSkillLevel
	fieldRoleList
	fieldCount // number of stops
)

type rolesSavedMsg struct {
	project team.Project
	err     error
}

// rolesView edits a project's role requirements against a working copy.
// Nothing reaches the backend until ctrl+s; esc throws the copy away.
type rolesView struct {
	app       *App
	projectID int

	working    team.RoleList
	roleCursor int

	// skills staged for the role currently being composed
	pending team.SkillSet

	nameInput       textinput.Model
	countInput      textinput.Model
	skillNameInput  textinput.Model
	skillLevelInput textinput.Model

	focus  rolesField
	saving bool
	errMsg string
}

func newRolesView(app *App, project team.Project) *rolesView {
	nameInput := textinput.New()
	nameInput.Placeholder = "Role name (e.g. Backend)"
	nameInput.CharLimit = 80
	nameInput.Focus()

	countInput := textinput.New()
	countInput.Placeholder = "1"
	countInput.CharLimit = 3
	countInput.Width = 4

	skillNameInput := textinput.New()
	skillNameInput.Placeholder = "Skill (e.g. Go)"
	skillNameInput.CharLimit = 80

	skillLevelInput := textinput.New()
	skillLevelInput.Placeholder = "5"
	skillLevelInput.CharLimit = 2
	skillLevelInput.Width = 3

	return &rolesView{
		app:             app,
		projectID:       project.ID,
		working:         project.Roles.Clone(),
		nameInput:       nameInput,
		countInput:      countInput,
		skillNameInput:  skillNameInput,
		skillLevelInput: skillLevelInput,
	}
}

func (v *rolesView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := v.handleKey(key.String()); handled {
			return cmd
		}
	}
	return v.updateInputs(msg)
}

func (v *rolesView) handleKey(key string) (tea.Cmd, bool) {
	if v.saving {
		return nil, true
	}
	switch key {
	case "tab":
		v.setFocus((v.focus + 1) % fieldCount)
		return nil, true
	case "shift+tab":
		v.setFocus((v.focus + fieldCount - 1) % fieldCount)
		return nil, true
	case "ctrl+s":
		return v.save(), true
	case "enter":
		switch v.focus {
		case fieldRoleName, fieldRoleCount:
			v.commitRole()
		case fieldSkillName, fieldSkillLevel:
			v.stageSkill()
		}
		return nil, true
	}
	if v.focus == fieldRoleList {
		switch key {
		case "up", "k":
			v.roleCursor = clampIndex(v.roleCursor-1, len(v.working))
		case "down", "j":
			v.roleCursor = clampIndex(v.roleCursor+1, len(v.working))
		case "d":
			v.working.RemoveRole(v.roleCursor)
			v.roleCursor = clampIndex(v.roleCursor, len(v.working))
		case "+", "=":
			v.adjustCount(1)
		case "-":
			v.adjustCount(-1)
		}
		return nil, true
	}
	return nil, false
}

func (v *rolesView) adjustCount(delta int) {
	if v.roleCursor >= len(v.working) {
		return
	}
	v.working.SetCount(v.roleCursor, v.working[v.roleCursor].Count+delta)
}

// stageSkill validates and parks a skill threshold for the role being
// composed. Staged skills attach when the role itself is committed.
func (v *rolesView) stageSkill() {
	name := v.skillNameInput.Value()
	levelText := strings.TrimSpace(v.skillLevelInput.Value())
	level, err := strconv.Atoi(levelText)
	if levelText != "" && err != nil {
		v.errMsg = fmt.Sprintf("skill level %q is not a number", levelText)
		return
	}
	if err := v.pending.Add(name, level); err != nil {
		v.errMsg = editErrorText(err)
		return
	}
	v.errMsg = ""
	v.skillNameInput.SetValue("")
	v.skillLevelInput.SetValue("")
	v.setFocus(fieldSkillName)
}

// commitRole moves the composed role (name, headcount, staged skills) into
// the working list.
func (v *rolesView) commitRole() {
	countText := strings.TrimSpace(v.countInput.Value())
	count := 1
	if countText != "" {
		parsed, err := strconv.Atoi(countText)
		if err != nil {
			v.errMsg = fmt.Sprintf("headcount %q is not a number", countText)
			return
		}
		count = parsed
	}
	if err := v.working.AddRole(v.nameInput.Value(), count, v.pending); err != nil {
		v.errMsg = editErrorText(err)
		return
	}
	v.errMsg = ""
	v.pending = nil
	v.nameInput.SetValue("")
	v.countInput.SetValue("")
	v.roleCursor = len(v.working) - 1
	v.setFocus(fieldRoleName)
}

func editErrorText(err error) string {
	switch err {
	case team.ErrSkillName:
		return "skill name is required"
	case team.ErrDuplicateSkill:
		return "that skill is already listed"
	case team.ErrRoleName:
		return "role name is required"
	case team.ErrDuplicateRole:
		return "a role with that name already exists"
	}
	return err.Error()
}

func (v *rolesView) save() tea.Cmd {
	v.saving = true
	v.errMsg = ""
	backend := v.app.backend
	projectID := v.projectID
	roles := v.working.Clone()
	v.app.setStatus("Saving roles…")
	return func() tea.Msg {
		project, err := backend.UpdateProject(context.Background(), projectID, api.ProjectPatch{Roles: &roles})
		return rolesSavedMsg{project: project, err: err}
	}
}

func (v *rolesView) setFocus(field rolesField) {
	v.focus = field
	v.nameInput.Blur()
	v.countInput.Blur()
	v.skillNameInput.Blur()
	v.skillLevelInput.Blur()
	switch field {
	case fieldRoleName:
		v.nameInput.Focus()
	case fieldRoleCount:
		v.countInput.Focus()
	case fieldSkillName:
		v.skillNameInput.Focus()
	case fieldSkillLevel:
		v.skillLevelInput.Focus()
	}
}

func (v *rolesView) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.nameInput, cmd = v.nameInput.Update(msg)
	cmds = append(cmds, cmd)
	v.countInput, cmd = v.countInput.Update(msg)
	cmds = append(cmds, cmd)
	v.skillNameInput, cmd = v.skillNameInput.Update(msg)
	cmds = append(cmds, cmd)
	v.skillLevelInput, cmd = v.skillLevelInput.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (v *rolesView) View() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Role requirements") + "\n\n")

	if len(v.working) == 0 {
		b.WriteString(mutedStyle.Render("no roles yet") + "\n")
	}
	for i, role := range v.working {
		marker := "  "
		if v.focus == fieldRoleList && i == v.roleCursor {
			marker = selectedStyle.Render("▸ ")
		}
		line := fmt.Sprintf("%s%s × %d", marker, role.Name, role.Count)
		if len(role.Skills) > 0 {
			tags := make([]string, len(role.Skills))
			for j, skill := range role.Skills {
				tags[j] = renderThresholdTag(skill)
			}
			line += "  " + strings.Join(tags, " ")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("total needed: %d", v.working.TotalNeeded())) + "\n\n")

	b.WriteString(sectionStyle.Render("New role") + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		v.nameInput.View(), "  × ", v.countInput.View(),
	) + "\n")

	b.WriteString(sectionStyle.Render("Skill thresholds") + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		v.skillNameInput.View(), "  ≥ ", v.skillLevelInput.View(),
	) + "\n")
	if len(v.pending) > 0 {
		tags := make([]string, len(v.pending))
		for i, skill := range v.pending {
			tags[i] = renderThresholdTag(skill)
		}
		b.WriteString("staged: " + strings.Join(tags, " ") + "\n")
	}

	b.WriteString("\n")
	if v.saving {
		b.WriteString(mutedStyle.Render("saving…") + "\n")
	}
	if v.errMsg != "" {
		b.WriteString(errorStyle.Render(v.errMsg) + "\n")
	}
	b.WriteString(hintStyle.Render(
		"tab → next field    enter → add    d → remove role (in list)    +/- → headcount    ctrl+s → save    esc → cancel",
	))
	return b.String()
}
