// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/screens/configure"
	"github.com/abhisek/triviaz/internal/screens/results"
	"github.com/abhisek/triviaz/internal/screens/review"
	"github.com/abhisek/triviaz/internal/screens/session"
	"github.com/abhisek/triviaz/internal/screens/welcome"
	"github.com/abhisek/triviaz/internal/share"
	"github.com/abhisek/triviaz/internal/trivia"
	"github.com/abhisek/triviaz/internal/ui/layout"
)

// Options are the dependencies shared by every screen.
type Options struct {
	Source trivia.Source
	Sharer share.Sharer
	Logger logrus.FieldLogger

	// InitialConfig, when set, starts a quiz straight away on top of the
	// configure screen.
	InitialConfig *quiz.Configuration

	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	screens *screens
	initial *quiz.Configuration
	width   int
	height  int
}

// screens builds each screen with its dependencies.
type screens struct {
	opts Options
}

func (f *screens) configure() screen.Screen {
	return configure.New(configure.Options{
		Source: f.opts.Source,
		Logger: f.opts.Logger,
		Start:  f.session,
	})
}

func (f *screens) session(cfg quiz.Configuration) screen.Screen {
	return session.New(cfg, session.Options{
		Source:  f.opts.Source,
		Logger:  f.opts.Logger,
		Results: f.results,
	})
}

func (f *screens) results(transfer []byte) screen.Screen {
	return results.New(transfer, results.Options{
		Sharer: f.opts.Sharer,
		Logger: f.opts.Logger,
		Review: f.review,
	})
}

func (f *screens) review(transfer []byte) screen.Screen {
	return review.New(transfer, f.opts.Logger)
}

// newAppModel creates the root model. The configure screen is the root of
// the stack; the splash replaces itself with it.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	f := &screens{opts: opts}

	var root screen.Screen
	if opts.SkipSplash || opts.InitialConfig != nil {
		root = f.configure()
	} else {
		root = welcome.New(f.configure)
	}

	return AppModel{
		router:  router.New(root),
		screens: f,
		initial: opts.InitialConfig,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.initial == nil {
		return cmd
	}
	next := m.screens.session(*m.initial)
	return tea.Batch(cmd, func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	})
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.Close()
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, active screen and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := newAppModel(opts)
	defer m.router.Close()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
