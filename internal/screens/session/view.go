package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, height, s.errMsg)
	case s.loading || s.session == nil:
		return renderLoading(width, height, s.spinner, s.cfg)
	case s.confirmQuit:
		return renderQuitConfirm(width, height)
	case s.session.Finished():
		return components.Center(theme.Muted.Render("Tallying your score..."), width, height)
	}
	return s.renderQuestionView(width, height)
}

// renderQuestionView renders the progress bar, question and options.
func (s *SessionScreen) renderQuestionView(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder

	info := fmt.Sprintf("%s · %s", s.cfg.Difficulty.DisplayName(), categoryLabel(s.cfg))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(info))
	b.WriteString("\n")
	bar := components.NewProgressBar("", s.session.Index()+1, s.session.Total(), cw)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	mc := s.mc
	mc.Question = lipgloss.NewStyle().Width(cw).Render(mc.Question)
	b.WriteString(mc.View())

	if s.session.Phase() == quiz.PhaseRevealing {
		b.WriteString("\n")
		if s.session.CurrentAnswer().Answered && s.mc.IsCorrect() {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite"))
		}
	}

	block := lipgloss.NewStyle().Width(cw).Render(b.String())
	return components.Center(block, width, height)
}

func categoryLabel(cfg quiz.Configuration) string {
	if cfg.CategoryID == "" {
		return "Any category"
	}
	return "Category " + cfg.CategoryID
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width, height int) string {
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Quit this quiz?"),
		theme.Muted.Render("Your answers so far will be discarded."),
		"",
		lipgloss.NewStyle().Foreground(theme.Error).Render("[Y] Yes, quit"),
		lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, keep going"),
	}
	return components.Center(lipgloss.JoinVertical(lipgloss.Center, lines...), width, height)
}

// renderLoading renders the fetch busy state.
func renderLoading(width, height, tick int, cfg quiz.Configuration) string {
	msg := fmt.Sprintf("%s  Fetching %d %s questions...",
		components.SpinnerFrame(tick), cfg.Amount, strings.ToLower(cfg.Difficulty.DisplayName()))
	return components.Center(theme.Muted.Render(msg), width, height)
}

// renderError renders the terminal fetch error.
func renderError(width, height int, errMsg string) string {
	cw := components.ContentWidth(width)
	body := lipgloss.JoinVertical(lipgloss.Center,
		components.Alert(errMsg, cw),
		"",
		theme.Hint.Render("Press R to retry, Esc to go back."),
	)
	return components.Center(body, width, height)
}
