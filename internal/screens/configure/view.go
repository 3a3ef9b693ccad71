package configure

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

func (s *ConfigureScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if s.loading {
		msg := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(components.SpinnerFrame(s.spinner) + "  Loading categories...")
		return components.Center(msg, width, height)
	}

	var sections []string

	sections = append(sections, theme.Title.Width(cw).Render("Set up your quiz"))
	sections = append(sections, "")

	if s.loadErr != "" {
		sections = append(sections, components.Alert(s.loadErr, cw), "")
	}

	amountLabel := theme.Muted
	if s.focus == fieldAmount {
		amountLabel = theme.Selected
	}
	sections = append(sections,
		amountLabel.Render("Questions   ")+s.amount.View(),
		"",
		s.difficulty.View(),
		"",
		s.category.View(),
		"",
	)

	start := theme.Unselected.Render("    Start quiz")
	if s.focus == fieldStart {
		start = theme.Selected.Render("  ▸ Start quiz")
	}
	sections = append(sections, start)

	if s.validation != "" {
		sections = append(sections, "", theme.Incorrect.Render(s.validation))
	}

	form := lipgloss.NewStyle().Width(cw - 6).Render(strings.Join(sections, "\n"))
	return components.Center(components.Card(form, cw), width, height)
}
