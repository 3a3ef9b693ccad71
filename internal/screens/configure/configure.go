// Package configure implements the screen that collects the question count,
// difficulty and category before a quiz starts.
package configure

import (
	"context"
	"errors"
	"html"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/trivia"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
)

const (
	spinnerInterval = 100 * time.Millisecond

	// AnyCategory is the picker value for "no category filter", used when
	// the category list failed to load.
	AnyCategory = ""
)

type field int

const (
	fieldAmount field = iota
	fieldDifficulty
	fieldCategory
	fieldStart
	fieldCount
)

// categoriesMsg carries the result of the category fetch.
type categoriesMsg struct {
	Gen        int
	Categories []trivia.Category
	Err        error
}

type spinnerTickMsg struct {
	Gen int
}

// Options are the dependencies of the configure screen.
type Options struct {
	Source trivia.Source
	Logger logrus.FieldLogger
	// Start builds the session screen for a validated configuration.
	Start func(quiz.Configuration) screen.Screen
}

// ConfigureScreen collects a quiz.Configuration.
type ConfigureScreen struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	gen        int
	loading    bool
	spinner    int
	loadErr    string
	categories []trivia.Category

	amount     components.TextInput
	difficulty components.Picker
	category   components.Picker
	focus      field
	validation string
}

var _ screen.Screen = (*ConfigureScreen)(nil)
var _ screen.KeyHintProvider = (*ConfigureScreen)(nil)
var _ screen.Closer = (*ConfigureScreen)(nil)

// New creates a ConfigureScreen. Categories are fetched on Init.
func New(opts Options) *ConfigureScreen {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())

	amount := components.NewTextInput(strconv.Itoa(quiz.DefaultAmount), true, 3)
	amount.SetValue(strconv.Itoa(quiz.DefaultAmount))

	s := &ConfigureScreen{
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
		amount:     amount,
		difficulty: components.NewPicker("Difficulty", difficultyOptions(), string(quiz.DifficultyEasy)),
		category:   components.NewPicker("Category", categoryOptions(nil), AnyCategory),
	}
	return s
}

func (s *ConfigureScreen) Init() tea.Cmd {
	return tea.Batch(s.startLoad(), s.amount.Init())
}

func (s *ConfigureScreen) Title() string {
	return "New Quiz"
}

// Close cancels any in-flight category request.
func (s *ConfigureScreen) Close() {
	s.cancel()
}

func (s *ConfigureScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Start"},
	}
	if s.loadErr != "" {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry categories"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *ConfigureScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesMsg:
		return s.handleCategories(msg)

	case spinnerTickMsg:
		if msg.Gen != s.gen || !s.loading {
			return s, nil
		}
		s.spinner++
		return s, spinnerTick(s.gen)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.focus == fieldAmount && !s.loading {
		var cmd tea.Cmd
		s.amount, cmd = s.amount.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ConfigureScreen) startLoad() tea.Cmd {
	s.gen++
	s.loading = true
	s.loadErr = ""
	return tea.Batch(s.loadCategories(s.gen), spinnerTick(s.gen))
}

func (s *ConfigureScreen) loadCategories(gen int) tea.Cmd {
	ctx, src := s.ctx, s.opts.Source
	return func() tea.Msg {
		cats, err := src.Categories(ctx)
		return categoriesMsg{Gen: gen, Categories: cats, Err: err}
	}
}

func (s *ConfigureScreen) handleCategories(msg categoriesMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.gen {
		return s, nil
	}
	s.loading = false

	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return s, nil
		}
		s.opts.Logger.WithError(msg.Err).Warn("load categories")
		s.loadErr = "Could not load categories. Press R to retry, or start with any category."
		s.categories = nil
		s.category = components.NewPicker("Category", categoryOptions(nil), AnyCategory)
		return s, nil
	}

	s.categories = msg.Categories
	initial := AnyCategory
	if len(msg.Categories) > 0 {
		initial = strconv.Itoa(msg.Categories[0].ID)
	}
	s.category = components.NewPicker("Category", categoryOptions(msg.Categories), initial)
	s.category.Focused = s.focus == fieldCategory
	s.opts.Logger.WithField("count", len(msg.Categories)).Debug("categories loaded")
	return s, nil
}

func (s *ConfigureScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}

	key := msg.String()
	switch key {
	case "up", "shift+tab":
		return s, s.setFocus((s.focus - 1 + fieldCount) % fieldCount)
	case "down", "tab":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "enter":
		return s.submit()
	case "r", "R":
		if s.loadErr != "" {
			return s, s.startLoad()
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldAmount:
		s.validation = ""
		s.amount, cmd = s.amount.Update(msg)
	case fieldDifficulty:
		s.difficulty, cmd = s.difficulty.Update(msg)
	case fieldCategory:
		s.category, cmd = s.category.Update(msg)
	}
	return s, cmd
}

func (s *ConfigureScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.difficulty.Focused = f == fieldDifficulty
	s.category.Focused = f == fieldCategory
	if f == fieldAmount {
		return s.amount.Focus()
	}
	s.amount.Blur()
	return nil
}

func (s *ConfigureScreen) submit() (screen.Screen, tea.Cmd) {
	cfg, err := quiz.ParseConfiguration(
		s.amount.Value(),
		quiz.Difficulty(s.difficulty.Value()),
		s.category.Value(),
		s.categories,
	)
	if err != nil {
		var ve *quiz.ValidationError
		if errors.As(err, &ve) {
			s.validation = ve.Message
		} else {
			s.validation = err.Error()
		}
		if ve == nil || ve.Field == "amount" {
			s.amount.MarkInvalid()
		}
		return s, nil
	}

	s.validation = ""
	s.opts.Logger.WithFields(logrus.Fields{
		"amount":     cfg.Amount,
		"difficulty": cfg.Difficulty,
		"category":   cfg.CategoryID,
	}).Info("quiz configured")

	next := s.opts.Start(cfg)
	return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func spinnerTick(gen int) tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{Gen: gen}
	})
}

func difficultyOptions() []components.PickerOption {
	opts := make([]components.PickerOption, 0, len(quiz.Difficulties))
	for _, d := range quiz.Difficulties {
		opts = append(opts, components.PickerOption{Label: d.DisplayName(), Value: string(d)})
	}
	return opts
}

// categoryOptions lists the loaded categories. "Any category" is offered
// only when none could be loaded.
func categoryOptions(cats []trivia.Category) []components.PickerOption {
	if len(cats) == 0 {
		return []components.PickerOption{{Label: "Any category", Value: AnyCategory}}
	}
	opts := make([]components.PickerOption, 0, len(cats))
	for _, c := range cats {
		opts = append(opts, components.PickerOption{
			Label: html.UnescapeString(c.Name),
			Value: strconv.Itoa(c.ID),
		})
	}
	return opts
}
