package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Negibkaya/Mias-sema/internal/team"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4CAF50"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	tierStyles = map[team.Tier]lipgloss.Style{
		team.TierLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("#DC3545")),
		team.TierMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		team.TierHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("#28A745")),
	}
)

// renderSkillTag renders "Name (level)" colored by the skill's tier.
func renderSkillTag(skill team.Skill) string {
	return tierStyles[team.ClassifyLevel(skill.Level)].Render(
		fmt.Sprintf("%s (%d)", skill.Name, skill.Level),
	)
}

// renderThresholdTag renders a role requirement as "Name (level+)".
func renderThresholdTag(skill team.Skill) string {
	return tierStyles[team.ClassifyLevel(skill.Level)].Render(
		fmt.Sprintf("%s (%d+)", skill.Name, skill.Level),
	)
}

// renderScore renders "NN%" colored by the score band. Score bands use
// their own thresholds, not the skill-level ones.
func renderScore(score int) string {
	return tierStyles[team.ClassifyScore(score)].Render(fmt.Sprintf("%d%%", score))
}

// renderFill renders a "filled/needed" tally, green once the role is met.
func renderFill(filled, needed int) string {
	text := fmt.Sprintf("%d/%d", filled, needed)
	if filled >= needed {
		return okStyle.Render(text)
	}
	return mutedStyle.Render(text)
}
