package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/triviaz/internal/logging"
	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screens/configure"
	"github.com/abhisek/triviaz/internal/screens/results"
	"github.com/abhisek/triviaz/internal/screens/session"
	"github.com/abhisek/triviaz/internal/screens/welcome"
	"github.com/abhisek/triviaz/internal/share"
	"github.com/abhisek/triviaz/internal/trivia"
)

func testOptions() Options {
	return Options{
		Source: trivia.NewMockSource(),
		Sharer: &share.MockSharer{},
		Logger: logging.Discard(),
	}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func sampleTransfer(t *testing.T) []byte {
	t.Helper()
	data, err := quiz.EncodeTransfer(quiz.SessionResult{
		Score:     1,
		Total:     1,
		Questions: []quiz.Question{{Text: "Q", Correct: "A", Options: []string{"A", "B"}}},
		Answers:   quiz.AnswerLog{{Option: "A", Answered: true}},
	})
	if err != nil {
		t.Fatalf("EncodeTransfer: %v", err)
	}
	return data
}

func TestNewAppModel_StartsWithSplash(t *testing.T) {
	m := newAppModel(testOptions())
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("root = %T, want splash", m.router.Active())
	}
}

func TestNewAppModel_SkipSplash(t *testing.T) {
	opts := testOptions()
	opts.SkipSplash = true
	m := newAppModel(opts)
	if _, ok := m.router.Active().(*configure.ConfigureScreen); !ok {
		t.Fatalf("root = %T, want configure", m.router.Active())
	}
}

func TestNewAppModel_InitialConfigUsesConfigureRoot(t *testing.T) {
	opts := testOptions()
	opts.InitialConfig = &quiz.Configuration{Amount: 5, Difficulty: quiz.DifficultyHard}
	m := newAppModel(opts)
	if _, ok := m.router.Active().(*configure.ConfigureScreen); !ok {
		t.Fatalf("root = %T, want configure", m.router.Active())
	}
	if m.Init() == nil {
		t.Error("expected init command to start the quiz")
	}
}

func TestEsc_AtRootDoesNothing(t *testing.T) {
	opts := testOptions()
	opts.SkipSplash = true
	m := newAppModel(opts)

	_, cmd := m.Update(specialKey(tea.KeyEscape))
	if cmd != nil {
		t.Error("esc at the root should be ignored")
	}
}

func TestEsc_PopsResults(t *testing.T) {
	opts := testOptions()
	opts.SkipSplash = true
	m := newAppModel(opts)
	m.router.Update(router.PushScreenMsg{Screen: m.screens.results(sampleTransfer(t))})

	if _, ok := m.router.Active().(*results.ResultsScreen); !ok {
		t.Fatalf("active = %T, want results", m.router.Active())
	}

	_, cmd := m.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEsc_LoadingSessionIsPopped(t *testing.T) {
	opts := testOptions()
	opts.SkipSplash = true
	m := newAppModel(opts)
	m.router.Update(router.PushScreenMsg{
		Screen: m.screens.session(quiz.Configuration{Amount: 3, Difficulty: quiz.DifficultyEasy}),
	})

	if _, ok := m.router.Active().(*session.SessionScreen); !ok {
		t.Fatalf("active = %T, want session", m.router.Active())
	}

	_, cmd := m.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop command while loading")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(testOptions())

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestView_RendersHeaderAndFooter(t *testing.T) {
	opts := testOptions()
	opts.SkipSplash = true
	m := newAppModel(opts)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	content := updated.(AppModel).render()
	for _, want := range []string{"Triviaz", "New Quiz", "Ctrl+C"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_TooSmall(t *testing.T) {
	m := newAppModel(testOptions())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	if updated.(AppModel).render() == "" {
		t.Error("expected minimum size message")
	}
}
