package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/triviaz/internal/logging"
	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/trivia"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
)

const (
	// DefaultRevealDelay is how long the chosen and correct answers stay
	// highlighted before the next question.
	DefaultRevealDelay = 800 * time.Millisecond

	spinnerInterval = 100 * time.Millisecond
)

// Options are the dependencies of the session screen.
type Options struct {
	Source trivia.Source
	Logger logrus.FieldLogger
	// Rand shuffles answer options. Nil uses the global source.
	Rand        *rand.Rand
	RevealDelay time.Duration
	// Results builds the results screen from an encoded quiz.Transfer.
	Results func(transfer []byte) screen.Screen
}

// SessionScreen fetches a question set and runs the answer loop.
type SessionScreen struct {
	cfg  quiz.Configuration
	opts Options

	ctx    context.Context
	cancel context.CancelFunc
	log    logrus.FieldLogger

	gen     int
	loading bool
	spinner int
	errMsg  string

	session     *quiz.Session
	mc          components.MultiChoice
	confirmQuit bool
	finished    bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.Closer = (*SessionScreen)(nil)
var _ screen.BackHandler = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)

// New creates a SessionScreen for cfg. The fetch starts on Init.
func New(cfg quiz.Configuration, opts Options) *SessionScreen {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.RevealDelay <= 0 {
		opts.RevealDelay = DefaultRevealDelay
	}

	ctx := logging.NewContext(context.Background(), opts.Logger)
	ctx, cancel := context.WithCancel(ctx)

	return &SessionScreen{
		cfg:    cfg,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		log:    logging.WithContext(ctx),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return s.startFetch()
}

func (s *SessionScreen) Title() string {
	return "Quiz"
}

// Close cancels the in-flight fetch. Late responses are dropped.
func (s *SessionScreen) Close() {
	s.cancel()
}

// HandlesBack reports whether Esc should go to the screen rather than pop it.
// It is true while questions are on screen so quitting can be confirmed.
func (s *SessionScreen) HandlesBack() bool {
	return s.session != nil && !s.session.Finished()
}

func (s *SessionScreen) Status() layout.Status {
	if s.session == nil || s.session.Total() == 0 {
		return layout.Status{}
	}
	return layout.Status{
		Question: s.session.Index() + 1,
		Total:    s.session.Total(),
		Score:    s.session.Score(),
	}
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.loading:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	case s.errMsg != "":
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.session != nil && s.session.Phase() == quiz.PhaseRevealing:
		return nil
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsReadyMsg:
		return s.handleQuestions(msg)

	case spinnerTickMsg:
		if msg.Gen != s.gen || !s.loading {
			return s, nil
		}
		s.spinner++
		return s, spinnerTick(s.gen)

	case components.ChoiceMsg:
		return s.handleChoice(msg.Index)

	case revealDoneMsg:
		return s.handleRevealDone(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// startFetch begins a new fetch generation.
func (s *SessionScreen) startFetch() tea.Cmd {
	s.gen++
	s.loading = true
	s.errMsg = ""
	return tea.Batch(s.fetch(s.gen), spinnerTick(s.gen))
}

// fetch requests a session token, then the question set. The calls are
// strictly sequential.
func (s *SessionScreen) fetch(gen int) tea.Cmd {
	ctx, src, cfg, log := s.ctx, s.opts.Source, s.cfg, s.log
	return func() tea.Msg {
		start := time.Now()
		token, err := src.RequestToken(ctx)
		if err != nil {
			return questionsReadyMsg{Gen: gen, Err: err}
		}
		raws, err := src.Questions(ctx, cfg.QuestionsRequest(token))
		if err != nil {
			return questionsReadyMsg{Gen: gen, Err: err}
		}
		log.WithFields(logrus.Fields{
			"requested":  cfg.Amount,
			"received":   len(raws),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("questions fetched")
		return questionsReadyMsg{Gen: gen, Questions: raws}
	}
}

func (s *SessionScreen) handleQuestions(msg questionsReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.gen || s.ctx.Err() != nil {
		return s, nil
	}
	s.loading = false

	if msg.Err != nil {
		s.log.WithError(msg.Err).Error("fetch questions")
		s.errMsg = describeError(msg.Err)
		return s, nil
	}

	s.session = quiz.NewSession(quiz.NormalizeAll(msg.Questions, s.opts.Rand))
	if s.session.Finished() {
		return s, s.finish()
	}
	s.loadQuestion()
	return s, nil
}

// loadQuestion builds the choice component for the current question.
func (s *SessionScreen) loadQuestion() {
	q, ok := s.session.Current()
	if !ok {
		return
	}
	correct := 0
	for i, o := range q.Options {
		if q.IsCorrect(o) {
			correct = i
			break
		}
	}
	s.mc = components.NewMultiChoice(q.Text, q.Options, correct)
}

func (s *SessionScreen) handleChoice(i int) (screen.Screen, tea.Cmd) {
	if s.session == nil || s.confirmQuit {
		return s, nil
	}
	index := s.session.Index()
	correct, err := s.session.SelectIndex(i)
	if err != nil {
		// First selection wins; repeats during the reveal are dropped.
		s.log.WithError(err).Debug("selection rejected")
		return s, nil
	}
	s.log.WithFields(logrus.Fields{
		"index":   index,
		"correct": correct,
	}).Debug("answer recorded")

	s.mc.Reveal(i)
	return s, tea.Tick(s.opts.RevealDelay, func(time.Time) tea.Msg {
		return revealDoneMsg{Index: index}
	})
}

func (s *SessionScreen) handleRevealDone(msg revealDoneMsg) (screen.Screen, tea.Cmd) {
	if s.session == nil || s.session.Phase() != quiz.PhaseRevealing || s.session.Index() != msg.Index {
		return s, nil
	}
	phase, err := s.session.Advance()
	if err != nil {
		return s, nil
	}
	if phase == quiz.PhaseFinished {
		s.confirmQuit = false
		return s, s.finish()
	}
	s.loadQuestion()
	return s, nil
}

// finish hands the result to the results screen, replacing this one.
func (s *SessionScreen) finish() tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true

	result := s.session.Result()
	s.log.WithFields(logrus.Fields{
		"score": result.Score,
		"total": result.Total,
	}).Info("quiz finished")

	data, err := quiz.EncodeTransfer(result)
	if err != nil {
		s.log.WithError(err).Error("encode result")
		s.errMsg = "Could not prepare your results."
		return nil
	}
	next := s.opts.Results(data)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		switch key {
		case "r", "R":
			return s, s.startFetch()
		case "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.session == nil || s.session.Finished() {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.log.WithField("index", s.session.Index()).Info("quiz abandoned")
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	if s.session.Phase() != quiz.PhaseAwaiting {
		return s, nil
	}

	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	return s, cmd
}

func spinnerTick(gen int) tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{Gen: gen}
	})
}

// describeError turns a fetch failure into a user-facing message.
func describeError(err error) string {
	var (
		rl   *trivia.ErrRateLimit
		code *trivia.ErrResponseCode
	)
	switch {
	case errors.As(err, &rl):
		return "The trivia service is busy. Wait a few seconds and retry."
	case errors.As(err, &code):
		switch code.Code {
		case trivia.CodeInvalidParam:
			return "The trivia service rejected this quiz setup."
		case trivia.CodeTokenNotFound, trivia.CodeTokenEmpty:
			return "The quiz session expired. Retry to start a fresh one."
		}
	}
	return "Could not load questions. Check your connection and retry."
}
