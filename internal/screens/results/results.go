// Package results implements the graded score screen shown after a quiz.
package results

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/share"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
)

const (
	noticeDuration = 2 * time.Second
	shareTimeout   = 5 * time.Second
)

// sharedMsg reports the outcome of a share attempt.
type sharedMsg struct {
	Err error
}

// noticeExpiredMsg clears the notice with the matching sequence number.
type noticeExpiredMsg struct {
	Seq int
}

// Options are the dependencies of the results screen.
type Options struct {
	Sharer share.Sharer
	Logger logrus.FieldLogger
	// Review builds the review screen from the same transfer.
	Review func(transfer []byte) screen.Screen
}

// ResultsScreen displays the grade and the replay, review and share actions.
type ResultsScreen struct {
	opts     Options
	transfer []byte

	result quiz.SessionResult
	grade  quiz.Grade
	pct    int
	err    error

	menu      components.Menu
	notice    string
	noticeSeq int
	sharing   bool
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New decodes transfer and builds the screen. A malformed transfer yields an
// error view that only offers to start over.
func New(transfer []byte, opts Options) *ResultsScreen {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	s := &ResultsScreen{opts: opts, transfer: transfer}

	r, err := quiz.DecodeTransfer(transfer)
	if err != nil {
		opts.Logger.WithError(err).Error("decode results transfer")
		s.err = err
		s.menu = components.NewMenu([]components.MenuItem{
			{Label: "Start over", Shortcut: "r", Action: s.replay},
		})
		return s
	}

	s.result = r
	s.pct = r.Percentage()
	s.grade = quiz.GradeFor(s.pct)
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Try again", Shortcut: "r", Action: s.replay},
		{Label: "Review answers", Shortcut: "v", Action: s.review, Disabled: r.Total == 0},
		{Label: "Share score", Shortcut: "s", Action: s.share, Disabled: opts.Sharer == nil},
	})
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "New quiz"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sharedMsg:
		return s.handleShared(msg)

	case noticeExpiredMsg:
		if msg.Seq == s.noticeSeq {
			s.notice = ""
		}
		return s, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultsScreen) replay() tea.Cmd {
	return func() tea.Msg { return router.ResetScreenMsg{} }
}

func (s *ResultsScreen) review() tea.Cmd {
	if s.opts.Review == nil {
		return nil
	}
	next := s.opts.Review(s.transfer)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *ResultsScreen) share() tea.Cmd {
	if s.sharing || s.opts.Sharer == nil {
		return nil
	}
	s.sharing = true
	sharer := s.opts.Sharer
	message := quiz.ShareMessage(s.result.Score, s.result.Total)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shareTimeout)
		defer cancel()
		return sharedMsg{Err: sharer.Share(ctx, message)}
	}
}

// handleShared shows a notice on success. Failures are logged only.
func (s *ResultsScreen) handleShared(msg sharedMsg) (screen.Screen, tea.Cmd) {
	s.sharing = false
	if msg.Err != nil {
		s.opts.Logger.WithError(msg.Err).Warn("share score")
		return s, nil
	}
	s.noticeSeq++
	s.notice = "Score copied to clipboard!"
	seq := s.noticeSeq
	return s, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{Seq: seq}
	})
}
