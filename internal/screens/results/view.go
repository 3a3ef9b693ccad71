package results

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

const trophyArt = `  ___________
 '._==_==_=_.'
 .-\:      /-.
| (|:.     |) |
 '-|:.     |-'
   \::.    /
    '::. .'
      ) (
    _.' '._
   '"""""""'`

const trophyCompact = "🏆"

func (s *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if s.err != nil {
		body := lipgloss.JoinVertical(lipgloss.Center,
			components.Alert("These results could not be read.", cw),
			"",
			s.menu.View(),
		)
		return components.Center(body, width, height)
	}

	start, end := theme.Gradient(s.grade.Colors)
	compact := layout.IsCompactHeight(height)

	var sections []string

	trophy := trophyArt
	if compact {
		trophy = trophyCompact
	}
	sections = append(sections, trophyStyle(s.grade).Render(trophy), "")

	pct := lipgloss.NewStyle().Foreground(start).Bold(true).Render(fmt.Sprintf("%d%%", s.pct))
	sections = append(sections, pct)
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(s.grade.Message))
	sections = append(sections, theme.Muted.Render(fmt.Sprintf("You scored %d out of %d", s.result.Score, s.result.Total)))

	if s.result.Total == 0 {
		sections = append(sections, "", theme.Hint.Render("No questions were available for this selection."))
	}

	sections = append(sections, "", s.menu.View())

	notice := " "
	if s.notice != "" {
		notice = theme.Correct.Render(s.notice)
	}
	sections = append(sections, "", notice)

	body := lipgloss.JoinVertical(lipgloss.Center, sections...)
	card := components.CardWithBorder(body, cw, end)
	return components.Center(card, width, height)
}

// trophyStyle picks gold, silver or bronze for the grade's trophy.
func trophyStyle(g quiz.Grade) lipgloss.Style {
	switch g.Band {
	case quiz.BandPerfect:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	case quiz.BandExcellent:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#CD7F32"))
	}
}

