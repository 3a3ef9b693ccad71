// Package review implements the per-question answer review screen.
package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

const defaultPage = 10

// ReviewScreen lists every question with the chosen and correct answers.
type ReviewScreen struct {
	review quiz.Review
	err    error

	offset       int
	page         int
	mistakesOnly bool
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New decodes transfer and builds the review. The transfer is not modified.
func New(transfer []byte, log logrus.FieldLogger) *ReviewScreen {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &ReviewScreen{page: defaultPage}
	r, err := quiz.DecodeTransfer(transfer)
	if err != nil {
		log.WithError(err).Error("decode review transfer")
		s.err = err
		return s
	}
	s.review = quiz.BuildReview(r)
	return s
}

func (s *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (s *ReviewScreen) Title() string {
	return "Review Answers"
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	filter := "Mistakes only"
	if s.mistakesOnly {
		filter = "Show all"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "M", Description: filter},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		s.offset--
	case "down", "j":
		s.offset++
	case "pgup", "b":
		s.offset -= s.page
	case "pgdown", "space", "f":
		s.offset += s.page
	case "home", "g":
		s.offset = 0
	case "end", "G":
		s.offset = len(s.lines(0))
	case "m", "M":
		s.mistakesOnly = !s.mistakesOnly
		s.offset = 0
	}
	if s.offset < 0 {
		s.offset = 0
	}
	return s, nil
}

// Items returns the review items currently shown.
func (s *ReviewScreen) Items() []quiz.ReviewItem {
	if !s.mistakesOnly {
		return s.review.Items
	}
	var out []quiz.ReviewItem
	for _, it := range s.review.Items {
		if !it.Correct {
			out = append(out, it)
		}
	}
	return out
}

func (s *ReviewScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if s.err != nil {
		return components.Center(components.Alert("This review could not be loaded.", cw), width, height)
	}

	summary := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Score %d/%d  ·  %d%%", s.review.Score, s.review.Total, s.review.Percentage))
	top := []string{lipgloss.PlaceHorizontal(width, lipgloss.Center, summary), ""}

	body := s.lines(cw)
	if len(body) == 0 {
		msg := "No questions to review."
		if s.mistakesOnly && len(s.review.Items) > 0 {
			msg = "No mistakes. Nice work!"
		}
		body = []string{theme.Hint.Render(msg)}
	}

	visible := height - len(top)
	if visible < 1 {
		visible = 1
	}
	s.page = visible

	maxOffset := len(body) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.offset > maxOffset {
		s.offset = maxOffset
	}

	end := s.offset + visible
	if end > len(body) {
		end = len(body)
	}

	shown := make([]string, 0, end-s.offset)
	for _, line := range body[s.offset:end] {
		shown = append(shown, lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
	}
	return strings.Join(append(top, shown...), "\n")
}

// lines renders every visible item into display lines of width cw.
func (s *ReviewScreen) lines(cw int) []string {
	var out []string
	for _, it := range s.Items() {
		out = append(out, strings.Split(renderItem(it, cw), "\n")...)
		out = append(out, "")
	}
	return out
}

func renderItem(it quiz.ReviewItem, cw int) string {
	w := cw
	if w <= 0 {
		w = 72
	}

	var b strings.Builder

	status := theme.Correct.Render("✓")
	switch {
	case !it.Answered:
		status = theme.Muted.Render("–")
	case !it.Correct:
		status = theme.Incorrect.Render("✗")
	}
	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d", it.Index+1))
	b.WriteString(status + " " + label + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(w).Render(it.Question))
	b.WriteString("\n")

	for _, opt := range it.Options {
		var style lipgloss.Style
		marker := "  "
		switch {
		case opt.IsCorrect:
			style = theme.Correct
			marker = "✓ "
		case opt.IsChosen:
			style = theme.Incorrect
			marker = "✗ "
		default:
			style = theme.Muted
		}
		b.WriteString("  " + style.Render(marker+opt.Text) + "\n")
	}

	if !it.Correct {
		yours := it.YourAnswer
		if !it.Answered {
			yours = "(no answer)"
		}
		bold := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
		b.WriteString(bold.Render("Your answer:") + " " + theme.Incorrect.Render(yours) + "\n")
		b.WriteString(bold.Render("Correct answer:") + " " + theme.Correct.Render(it.CorrectAnswer))
	}

	return strings.TrimRight(b.String(), "\n")
}
