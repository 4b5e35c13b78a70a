package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Negibkaya/Mias-sema/internal/team"
)

// focusArea selects which panel cursor keys drive.
type focusArea int

const (
	focusRoster focusArea = iota
	focusCandidates
)

// stampCounter issues unique stamps for async messages. Update runs on one
// goroutine, so a plain counter is enough.
var stampCounter int

func nextStamp() int {
	stampCounter++
	return stampCounter
}

type rosterLoadedMsg struct {
	stamp  int
	roster team.Roster
	err    error
}

type matchDoneMsg struct {
	stamp int
	roles []team.RoleMatch
	err   error
}

type memberChangedMsg struct {
	stamp  int
	action string
	roster team.Roster
	err    error
}

type acceptDoneMsg struct {
	stamp    int
	roleName string
	userID   int
	err      error
}

type userDetailMsg struct {
	stamp int
	user  team.User
	err   error
}

// candidateRow is one selectable line in the match panel.
type candidateRow struct {
	roleName  string
	candidate team.Candidate
}

// projectView is the roster and matching screen for a single project. It
// owns a reconciliation engine; commands perform the remote call and return
// the result in their message, and the engine's held state changes only
// here in Update. Every async response carries the stamp of the request
// that produced it, and responses whose stamp is no longer current are
// dropped.
type projectView struct {
	app       *App
	projectID int
	engine    *team.Engine
	epoch     int

	loading  bool
	matching bool
	mutating bool
	spin     spinner.Model

	focus        focusArea
	rosterCursor int
	candCursor   int

	pickingUser   bool
	pickingRole   bool
	pickUserIdx   int
	pickRoleIdx   int
	pickedUserID  int
	confirmRemove *team.Member

	detail        *team.User
	detailLoading bool

	width  int
	height int
	errMsg string
}

func newProjectView(app *App, projectID int) *projectView {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return &projectView{
		app:       app,
		projectID: projectID,
		engine:    team.NewEngine(app.backend, app.viewer.ID),
		spin:      spin,
	}
}

func (v *projectView) setSize(width, height int) {
	v.width = width
	v.height = height
}

// Init kicks off the first roster load.
func (v *projectView) Init() tea.Cmd {
	return tea.Batch(v.reload(), v.spin.Tick)
}

// reload fetches a full snapshot; the engine installs it once the message
// comes back through Update. The advisory session is kept; accepting from
// it stays safe because CanAccept consults the fresh roster.
func (v *projectView) reload() tea.Cmd {
	v.loading = true
	v.errMsg = ""
	stamp := v.stamp()
	engine := v.engine
	projectID := v.projectID
	return func() tea.Msg {
		roster, err := engine.Fetch(context.Background(), projectID)
		return rosterLoadedMsg{stamp: stamp, roster: roster, err: err}
	}
}

// stamp issues a new current stamp, superseding any in-flight request.
func (v *projectView) stamp() int {
	v.epoch = nextStamp()
	return v.epoch
}

// discard invalidates the view on close: the session is dropped and the
// stamp moves on so late responses fall on the floor.
func (v *projectView) discard() {
	v.engine.Invalidate()
	v.stamp()
}

// busy reports whether a backend call is outstanding. All triggers are
// disabled while busy, which keeps backend calls single-flight.
func (v *projectView) busy() bool {
	return v.loading || v.matching || v.mutating || v.detailLoading
}

// canLeave blocks esc-to-projects while a sub-prompt wants the key.
func (v *projectView) canLeave() bool {
	return !v.pickingUser && !v.pickingRole && v.confirmRemove == nil && v.detail == nil
}

func (v *projectView) canEditRoles() bool {
	return !v.busy() && v.canLeave() && v.engine.ViewerIsOwner()
}

func (v *projectView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {

	case spinner.TickMsg:
		if !v.busy() {
			return nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return cmd

	case rosterLoadedMsg:
		if msg.stamp != v.epoch {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.app.setStatus(fmt.Sprintf("Load failed: %v", msg.err))
			return nil
		}
		v.engine.Install(msg.roster)
		v.clampCursors()
		roster := v.engine.Roster()
		v.app.setStatus(fmt.Sprintf(
			"%s · %d/%d filled",
			roster.Project.Name, roster.TotalFilled(), roster.Project.Roles.TotalNeeded(),
		))
		return nil

	case matchDoneMsg:
		if msg.stamp != v.epoch {
			return nil
		}
		v.matching = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.app.setStatus(fmt.Sprintf("Matching failed: %v", msg.err))
			return nil
		}
		v.engine.InstallMatch(msg.roles)
		v.focus = focusCandidates
		v.candCursor = 0
		v.app.setStatus(fmt.Sprintf("Matching done: %d role(s) scored", len(msg.roles)))
		return nil

	case memberChangedMsg:
		if msg.stamp != v.epoch {
			return nil
		}
		v.mutating = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.app.setStatus(fmt.Sprintf("%s failed: %v", msg.action, msg.err))
			return nil
		}
		v.engine.Install(msg.roster)
		v.clampCursors()
		v.app.setStatus(fmt.Sprintf("%s done", msg.action))
		return nil

	case acceptDoneMsg:
		if msg.stamp != v.epoch {
			return nil
		}
		v.mutating = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.app.setStatus(fmt.Sprintf("Accept failed: %v", msg.err))
			return nil
		}
		if err := v.engine.ApplyAccept(msg.roleName, msg.userID); err != nil {
			// A newer match run replaced the session mid-flight; the
			// membership is real, only the local patch has no target.
			v.app.logWarn("accepted user %d not in current session: %v", msg.userID, err)
		}
		v.clampCursors()
		v.app.setStatus(fmt.Sprintf("Accepted user %d for %s", msg.userID, msg.roleName))
		return nil

	case userDetailMsg:
		if msg.stamp != v.epoch {
			return nil
		}
		v.detailLoading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.app.setStatus(fmt.Sprintf("Profile fetch failed: %v", msg.err))
			return nil
		}
		user := msg.user
		v.detail = &user
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg.String())
	}
	return nil
}

func (v *projectView) handleKey(key string) tea.Cmd {
	if v.detail != nil {
		if key == "esc" || key == "v" {
			v.detail = nil
		}
		return nil
	}
	if v.confirmRemove != nil {
		return v.handleRemoveConfirmKey(key)
	}
	if v.pickingUser || v.pickingRole {
		return v.handlePickerKey(key)
	}
	if v.busy() {
		return nil
	}

	switch key {
	case "r":
		v.app.setStatus("Reloading roster…")
		return tea.Batch(v.reload(), v.spin.Tick)
	case "tab":
		v.toggleFocus()
	case "up", "k":
		v.moveCursor(-1)
	case "down", "j":
		v.moveCursor(1)
	case "m":
		return v.startMatch()
	case "a":
		v.startAddPicker()
	case "x":
		v.startRemoveConfirm()
	case "v":
		return v.openUserDetail()
	case "+", "=":
		v.adjustTopN(1)
	case "-":
		v.adjustTopN(-1)
	case "enter":
		if v.focus == focusCandidates {
			return v.acceptSelected()
		}
	}
	return nil
}

// adjustTopN changes how many candidates each match run requests and
// persists the setting so the next session keeps it.
func (v *projectView) adjustTopN(delta int) {
	cfg := v.app.cfg
	cfg.Settings.TopN = cfg.Settings.TopN + delta
	if err := cfg.Save(); err != nil {
		v.app.setStatus(fmt.Sprintf("Saving settings failed: %v", err))
		return
	}
	v.app.setStatus(fmt.Sprintf("Suggestions per role: %d (saved)", cfg.TopN()))
}

func (v *projectView) toggleFocus() {
	if v.focus == focusRoster && v.engine.Session() != nil {
		v.focus = focusCandidates
	} else {
		v.focus = focusRoster
	}
}

func (v *projectView) moveCursor(delta int) {
	if v.focus == focusCandidates {
		rows := v.candidateRows()
		v.candCursor = clampIndex(v.candCursor+delta, len(rows))
		return
	}
	v.rosterCursor = clampIndex(v.rosterCursor+delta, len(v.rosterMembers()))
}

func (v *projectView) clampCursors() {
	v.rosterCursor = clampIndex(v.rosterCursor, len(v.rosterMembers()))
	v.candCursor = clampIndex(v.candCursor, len(v.candidateRows()))
	if v.engine.Session() == nil {
		v.focus = focusRoster
	}
}

// rosterMembers flattens the grouped roster into cursor order.
func (v *projectView) rosterMembers() []team.Member {
	var members []team.Member
	for _, group := range v.engine.Roster().GroupByRole() {
		members = append(members, group.Members...)
	}
	return members
}

func (v *projectView) candidateRows() []candidateRow {
	session := v.engine.Session()
	if session == nil {
		return nil
	}
	var rows []candidateRow
	for _, role := range session.Roles {
		for _, c := range role.Candidates {
			rows = append(rows, candidateRow{roleName: role.RoleName, candidate: c})
		}
	}
	return rows
}

// selectedUserID resolves the person under the cursor in either panel.
func (v *projectView) selectedUserID() (int, bool) {
	if v.focus == focusCandidates {
		rows := v.candidateRows()
		if len(rows) == 0 {
			return 0, false
		}
		return rows[v.candCursor].candidate.ID, true
	}
	members := v.rosterMembers()
	if len(members) == 0 {
		return 0, false
	}
	return members[v.rosterCursor].ID, true
}

// openUserDetail fetches the selected person's full profile. The directory
// copy may be stale; the detail pane always shows a fresh read.
func (v *projectView) openUserDetail() tea.Cmd {
	userID, ok := v.selectedUserID()
	if !ok {
		return nil
	}
	v.detailLoading = true
	v.errMsg = ""
	stamp := v.stamp()
	backend := v.app.backend
	return tea.Batch(func() tea.Msg {
		user, err := backend.User(context.Background(), userID)
		return userDetailMsg{stamp: stamp, user: user, err: err}
	}, v.spin.Tick)
}

func (v *projectView) startMatch() tea.Cmd {
	if err := v.engine.CanMatch(); err != nil {
		switch {
		case errors.Is(err, team.ErrNotOwner):
			v.app.setStatus("Only the owner can run matching")
		case errors.Is(err, team.ErrNoRoles):
			v.app.setStatus("Declare roles before matching (press e)")
		default:
			v.app.setStatus(err.Error())
		}
		return nil
	}
	v.matching = true
	v.errMsg = ""
	v.app.setStatus("Scoring candidates…")
	stamp := v.stamp()
	engine := v.engine
	projectID := v.projectID
	topN := v.app.cfg.TopN()
	return tea.Batch(func() tea.Msg {
		roles, err := engine.Score(context.Background(), projectID, topN)
		return matchDoneMsg{stamp: stamp, roles: roles, err: err}
	}, v.spin.Tick)
}

func (v *projectView) startAddPicker() {
	if !v.engine.ViewerIsOwner() {
		v.app.setStatus("Only the owner can add members")
		return
	}
	if len(v.engine.Roster().AvailableUsers()) == 0 {
		v.app.setStatus("Everyone is already on the project")
		return
	}
	v.pickingUser = true
	v.pickUserIdx = 0
	v.app.setStatus("Pick a user to add")
}

func (v *projectView) startRemoveConfirm() {
	if v.engine.CanRemoveMember() != nil {
		v.app.setStatus("Only the owner can remove members")
		return
	}
	members := v.rosterMembers()
	if v.focus != focusRoster || len(members) == 0 {
		return
	}
	member := members[v.rosterCursor]
	v.confirmRemove = &member
}

func (v *projectView) handleRemoveConfirmKey(key string) tea.Cmd {
	switch key {
	case "y":
		member := *v.confirmRemove
		v.confirmRemove = nil
		return v.submitRemove(member)
	case "n", "esc":
		v.confirmRemove = nil
		v.app.setStatus("Remove cancelled")
	}
	return nil
}

func (v *projectView) submitRemove(member team.Member) tea.Cmd {
	action := fmt.Sprintf("Remove %s", member.DisplayName())
	v.mutating = true
	v.errMsg = ""
	v.app.setStatus(action + "…")
	stamp := v.stamp()
	engine := v.engine
	projectID := v.projectID
	userID := member.ID
	return tea.Batch(func() tea.Msg {
		roster, err := engine.WithdrawMember(context.Background(), projectID, userID)
		return memberChangedMsg{stamp: stamp, action: action, roster: roster, err: err}
	}, v.spin.Tick)
}

// roleChoices is the role list offered when adding a member by hand. The
// first entry assigns no role.
func (v *projectView) roleChoices() []string {
	choices := []string{team.RoleUnassigned}
	for _, role := range v.engine.Roster().Project.Roles {
		choices = append(choices, role.Name)
	}
	return choices
}

func (v *projectView) handlePickerKey(key string) tea.Cmd {
	switch key {
	case "esc":
		v.pickingUser = false
		v.pickingRole = false
		v.app.setStatus("Add cancelled")
		return nil
	case "up", "k":
		if v.pickingUser {
			v.pickUserIdx = clampIndex(v.pickUserIdx-1, len(v.engine.Roster().AvailableUsers()))
		} else {
			v.pickRoleIdx = clampIndex(v.pickRoleIdx-1, len(v.roleChoices()))
		}
		return nil
	case "down", "j":
		if v.pickingUser {
			v.pickUserIdx = clampIndex(v.pickUserIdx+1, len(v.engine.Roster().AvailableUsers()))
		} else {
			v.pickRoleIdx = clampIndex(v.pickRoleIdx+1, len(v.roleChoices()))
		}
		return nil
	case "enter":
		if v.pickingUser {
			available := v.engine.Roster().AvailableUsers()
			if len(available) == 0 {
				v.pickingUser = false
				return nil
			}
			v.pickedUserID = available[v.pickUserIdx].ID
			v.pickingUser = false
			v.pickingRole = true
			v.pickRoleIdx = 0
			v.app.setStatus("Pick a role for the new member")
			return nil
		}
		choices := v.roleChoices()
		roleName := choices[v.pickRoleIdx]
		userID := v.pickedUserID
		v.pickingRole = false
		if err := v.engine.CanAddMember(userID); err != nil {
			v.app.setStatus(acceptBlockedReason(err))
			return nil
		}
		assigned := ""
		if roleName != team.RoleUnassigned {
			assigned = roleName
		}
		return v.submitAdd(userID, roleName, assigned)
	}
	return nil
}

func (v *projectView) submitAdd(userID int, label, roleName string) tea.Cmd {
	action := fmt.Sprintf("Add user %d as %s", userID, label)
	v.mutating = true
	v.errMsg = ""
	v.app.setStatus(action + "…")
	stamp := v.stamp()
	engine := v.engine
	projectID := v.projectID
	return tea.Batch(func() tea.Msg {
		roster, err := engine.SubmitMember(context.Background(), projectID, userID, roleName)
		return memberChangedMsg{stamp: stamp, action: action, roster: roster, err: err}
	}, v.spin.Tick)
}

func (v *projectView) acceptSelected() tea.Cmd {
	rows := v.candidateRows()
	if len(rows) == 0 {
		return nil
	}
	row := rows[v.candCursor]
	if err := v.engine.CanAccept(row.roleName, row.candidate.ID); err != nil {
		v.app.setStatus(acceptBlockedReason(err))
		return nil
	}
	v.mutating = true
	v.errMsg = ""
	v.app.setStatus(fmt.Sprintf("Accepting user %d for %s…", row.candidate.ID, row.roleName))
	stamp := v.stamp()
	engine := v.engine
	projectID := v.projectID
	roleName := row.roleName
	userID := row.candidate.ID
	return tea.Batch(func() tea.Msg {
		err := engine.SubmitAccept(context.Background(), projectID, roleName, userID)
		return acceptDoneMsg{stamp: stamp, roleName: roleName, userID: userID, err: err}
	}, v.spin.Tick)
}

func acceptBlockedReason(err error) string {
	switch {
	case errors.Is(err, team.ErrAlreadyMember):
		return "Already a member"
	case errors.Is(err, team.ErrRoleFilled):
		return "Role is already filled"
	case errors.Is(err, team.ErrNotOwner):
		return "Only the owner can accept candidates"
	default:
		return err.Error()
	}
}

func (v *projectView) View() string {
	if !v.engine.Loaded() {
		if v.errMsg != "" {
			return errorStyle.Render(v.errMsg)
		}
		return fmt.Sprintf("%s loading project…", v.spin.View())
	}
	if v.detail != nil {
		return v.renderUserDetail()
	}
	if v.confirmRemove != nil {
		return fmt.Sprintf(
			"Remove %s from the project?\n\n%s",
			v.confirmRemove.DisplayName(),
			hintStyle.Render("y → remove    n → keep"),
		)
	}
	if v.pickingUser {
		return v.renderUserPicker()
	}
	if v.pickingRole {
		return v.renderRolePicker()
	}

	columnWidth := max(30, (v.width-10)/2)
	left := lipgloss.NewStyle().Width(columnWidth).Render(v.renderRoster())
	right := lipgloss.NewStyle().Width(columnWidth).Render(v.renderMatches())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	var footer []string
	if v.busy() {
		footer = append(footer, fmt.Sprintf("%s working…", v.spin.View()))
	}
	if v.errMsg != "" {
		footer = append(footer, errorStyle.Render(v.errMsg))
	}
	footer = append(footer, hintStyle.Render(v.hints()))
	return lipgloss.JoinVertical(lipgloss.Left, body, "", strings.Join(footer, "\n"))
}

func (v *projectView) hints() string {
	if !v.engine.ViewerIsOwner() {
		return "v → profile    tab → focus    r → reload    esc → back"
	}
	return "a → add    x → remove    m → match    enter → accept    v → profile    e → edit roles    +/- → suggestions    tab → focus    r → reload    esc → back"
}

func (v *projectView) renderRoster() string {
	roster := v.engine.Roster()
	title := roster.Project.Name
	if v.focus == focusRoster {
		title = selectedStyle.Render(title)
	} else {
		title = sectionStyle.Render(title)
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	if desc := strings.TrimSpace(roster.Project.Description); desc != "" {
		b.WriteString(mutedStyle.Render(desc) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Requirements") + "\n")
	if len(roster.Project.Roles) == 0 {
		b.WriteString(mutedStyle.Render("no roles declared") + "\n")
	}
	for _, role := range roster.Project.Roles {
		filled := roster.FillCount(role.Name)
		b.WriteString(fmt.Sprintf("  %s %s", renderFill(filled, role.Count), role.Name))
		if len(role.Skills) > 0 {
			tags := make([]string, len(role.Skills))
			for i, skill := range role.Skills {
				tags[i] = renderThresholdTag(skill)
			}
			b.WriteString("  " + strings.Join(tags, " "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Roster") + "\n")
	groups := roster.GroupByRole()
	if len(groups) == 0 {
		b.WriteString(mutedStyle.Render("no members yet") + "\n")
	}
	row := 0
	for _, group := range groups {
		b.WriteString(mutedStyle.Render(group.Name) + "\n")
		for _, member := range group.Members {
			line := "  " + member.DisplayName()
			if len(member.Skills) > 0 {
				tags := make([]string, 0, len(member.Skills))
				for _, skill := range member.Skills {
					tags = append(tags, renderSkillTag(skill))
				}
				line += "  " + strings.Join(tags, " ")
			}
			if v.focus == focusRoster && row == v.rosterCursor {
				line = selectedStyle.Render("▸") + line[1:]
			}
			b.WriteString(line + "\n")
			row++
		}
	}
	return b.String()
}

func (v *projectView) renderMatches() string {
	session := v.engine.Session()
	title := "Match"
	if v.focus == focusCandidates {
		title = selectedStyle.Render(title)
	} else {
		title = sectionStyle.Render(title)
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	if session == nil {
		if v.engine.ViewerIsOwner() {
			b.WriteString(mutedStyle.Render("no match run yet — press m") + "\n")
		} else {
			b.WriteString(mutedStyle.Render("matching is owner-only") + "\n")
		}
		return b.String()
	}

	roster := v.engine.Roster()
	row := 0
	for _, role := range session.Roles {
		head := fmt.Sprintf("%s %s", role.RoleName, renderFill(role.Filled, role.Needed))
		if role.Full() {
			head += " " + okStyle.Render("· filled")
		}
		b.WriteString(sectionStyle.Render(head) + "\n")
		if len(role.Candidates) == 0 {
			b.WriteString(mutedStyle.Render("  no candidates") + "\n")
		}
		for _, c := range role.Candidates {
			marker := "  "
			if v.focus == focusCandidates && row == v.candCursor {
				marker = selectedStyle.Render("▸ ")
			}
			name := fmt.Sprintf("user %d", c.ID)
			if user, ok := roster.UserByID(c.ID); ok {
				name = user.DisplayName()
			}
			line := fmt.Sprintf("%s%s %s", marker, renderScore(c.Score), name)
			if roster.IsMember(c.ID) {
				line += " " + okStyle.Render("✓ member")
			} else if role.Full() {
				line += " " + mutedStyle.Render("(role filled)")
			}
			b.WriteString(line + "\n")
			if reason := strings.TrimSpace(c.Reason); reason != "" {
				b.WriteString(mutedStyle.Render("    "+reason) + "\n")
			}
			row++
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *projectView) renderUserDetail() string {
	user := *v.detail
	var b strings.Builder
	b.WriteString(sectionStyle.Render(user.DisplayName()) + "\n")
	if user.Username != "" && user.Name != "" {
		b.WriteString(mutedStyle.Render("@"+user.Username) + "\n")
	}
	b.WriteString("\n")
	if bio := strings.TrimSpace(user.Bio); bio != "" {
		b.WriteString(bio + "\n\n")
	}
	b.WriteString(sectionStyle.Render("Skills") + "\n")
	if len(user.Skills) == 0 {
		b.WriteString(mutedStyle.Render("none listed") + "\n")
	}
	for _, skill := range user.Skills {
		b.WriteString("  " + renderSkillTag(skill) + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("esc → back"))
	return b.String()
}

func (v *projectView) renderUserPicker() string {
	available := v.engine.Roster().AvailableUsers()
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Add member · pick a user") + "\n\n")
	for i, user := range available {
		marker := "  "
		if i == v.pickUserIdx {
			marker = selectedStyle.Render("▸ ")
		}
		line := marker + user.DisplayName()
		if len(user.Skills) > 0 {
			tags := make([]string, 0, len(user.Skills))
			for _, skill := range user.Skills {
				tags = append(tags, renderSkillTag(skill))
			}
			line += "  " + strings.Join(tags, " ")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("enter → pick    esc → cancel"))
	return b.String()
}

func (v *projectView) renderRolePicker() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Add member · pick a role") + "\n\n")
	for i, name := range v.roleChoices() {
		marker := "  "
		if i == v.pickRoleIdx {
			marker = selectedStyle.Render("▸ ")
		}
		b.WriteString(marker + name + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("enter → assign    esc → cancel"))
	return b.String()
}

// clampIndex keeps a cursor inside [0, length). An empty list pins it at 0.
func clampIndex(i, length int) int {
	if length == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= length {
		return length - 1
	}
	return i
}
