package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Negibkaya/Mias-sema/internal/api"
	"github.com/Negibkaya/Mias-sema/internal/team"
)

// profileField enumerates the editor's focus stops in tab order.
type profileField int

const (
	profileFieldName profileField = iota
	profileFieldBio
	profileFieldSkillName
	profileFieldSkillLevel
	profileFieldSkillList
	profileFieldCount // number of stops
)

type profileSavedMsg struct {
	user team.User
	err  error
}

// profileView edits the viewer's own profile against a working copy. The
// self-reported skills feed the matching service, so this is where a user
// influences their own candidate scores. Nothing reaches the backend until
// ctrl+s; esc throws the copy away.
type profileView struct {
	app *App

	skills      team.SkillSet
	skillCursor int

	nameInput       textinput.Model
	bioInput        textinput.Model
	skillNameInput  textinput.Model
	skillLevelInput textinput.Model

	focus  profileField
	saving bool
	errMsg string
}

func newProfileView(app *App) *profileView {
	nameInput := textinput.New()
	nameInput.Placeholder = "Display name"
	nameInput.CharLimit = 120
	nameInput.SetValue(app.viewer.Name)
	nameInput.Focus()

	bioInput := textinput.New()
	bioInput.Placeholder = "Short bio"
	bioInput.CharLimit = 500
	bioInput.SetValue(app.viewer.Bio)

	skillNameInput := textinput.New()
	skillNameInput.Placeholder = "Skill (e.g. Go)"
	skillNameInput.CharLimit = 80

	skillLevelInput := textinput.New()
	skillLevelInput.Placeholder = "5"
	skillLevelInput.CharLimit = 2
	skillLevelInput.Width = 3

	return &profileView{
		app:             app,
		skills:          app.viewer.Skills.Clone(),
		nameInput:       nameInput,
		bioInput:        bioInput,
		skillNameInput:  skillNameInput,
		skillLevelInput: skillLevelInput,
	}
}

func (v *profileView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := v.handleKey(key.String()); handled {
			return cmd
		}
	}
	return v.updateInputs(msg)
}

func (v *profileView) handleKey(key string) (tea.Cmd, bool) {
	if v.saving {
		return nil, true
	}
	switch key {
	case "tab":
		v.setFocus((v.focus + 1) % profileFieldCount)
		return nil, true
	case "shift+tab":
		v.setFocus((v.focus + profileFieldCount - 1) % profileFieldCount)
		return nil, true
	case "ctrl+s":
		return v.save(), true
	case "enter":
		if v.focus == profileFieldSkillName || v.focus == profileFieldSkillLevel {
			v.addSkill()
		}
		return nil, true
	}
	if v.focus == profileFieldSkillList {
		switch key {
		case "up", "k":
			v.skillCursor = clampIndex(v.skillCursor-1, len(v.skills))
		case "down", "j":
			v.skillCursor = clampIndex(v.skillCursor+1, len(v.skills))
		case "d":
			v.skills.Remove(v.skillCursor)
			v.skillCursor = clampIndex(v.skillCursor, len(v.skills))
		}
		return nil, true
	}
	return nil, false
}

func (v *profileView) addSkill() {
	name := v.skillNameInput.Value()
	levelText := strings.TrimSpace(v.skillLevelInput.Value())
	level := 0
	if levelText != "" {
		parsed, err := strconv.Atoi(levelText)
		if err != nil {
			v.errMsg = fmt.Sprintf("skill level %q is not a number", levelText)
			return
		}
		level = parsed
	}
	if err := v.skills.Add(name, level); err != nil {
		v.errMsg = editErrorText(err)
		return
	}
	v.errMsg = ""
	v.skillNameInput.SetValue("")
	v.skillLevelInput.SetValue("")
	v.setFocus(profileFieldSkillName)
}

func (v *profileView) save() tea.Cmd {
	v.saving = true
	v.errMsg = ""
	backend := v.app.backend
	name := strings.TrimSpace(v.nameInput.Value())
	bio := strings.TrimSpace(v.bioInput.Value())
	skills := v.skills.Clone()
	v.app.setStatus("Saving profile…")
	return func() tea.Msg {
		user, err := backend.UpdateMe(context.Background(), api.ProfileUpdate{
			Name:   &name,
			Bio:    &bio,
			Skills: &skills,
		})
		return profileSavedMsg{user: user, err: err}
	}
}

func (v *profileView) setFocus(field profileField) {
	v.focus = field
	v.nameInput.Blur()
	v.bioInput.Blur()
	v.skillNameInput.Blur()
	v.skillLevelInput.Blur()
	switch field {
	case profileFieldName:
		v.nameInput.Focus()
	case profileFieldBio:
		v.bioInput.Focus()
	case profileFieldSkillName:
		v.skillNameInput.Focus()
	case profileFieldSkillLevel:
		v.skillLevelInput.Focus()
	}
}

func (v *profileView) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.nameInput, cmd = v.nameInput.Update(msg)
	cmds = append(cmds, cmd)
	v.bioInput, cmd = v.bioInput.Update(msg)
	cmds = append(cmds, cmd)
	v.skillNameInput, cmd = v.skillNameInput.Update(msg)
	cmds = append(cmds, cmd)
	v.skillLevelInput, cmd = v.skillLevelInput.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (v *profileView) View() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Your profile") + "\n\n")

	b.WriteString("Name  " + v.nameInput.View() + "\n")
	b.WriteString("Bio   " + v.bioInput.View() + "\n\n")

	b.WriteString(sectionStyle.Render("Skills") + "\n")
	if len(v.skills) == 0 {
		b.WriteString(mutedStyle.Render("none listed") + "\n")
	}
	for i, skill := range v.skills {
		marker := "  "
		if v.focus == profileFieldSkillList && i == v.skillCursor {
			marker = selectedStyle.Render("▸ ")
		}
		b.WriteString(marker + renderSkillTag(skill) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(v.skillNameInput.View() + "  lvl " + v.skillLevelInput.View() + "\n\n")

	if v.saving {
		b.WriteString(mutedStyle.Render("saving…") + "\n")
	}
	if v.errMsg != "" {
		b.WriteString(errorStyle.Render(v.errMsg) + "\n")
	}
	b.WriteString(hintStyle.Render(
		"tab → next field    enter → add skill    d → remove skill (in list)    ctrl+s → save    esc → cancel",
	))
	return b.String()
}
