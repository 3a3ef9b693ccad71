package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/triviaz/internal/logging"
	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/trivia"
	"github.com/abhisek/triviaz/internal/ui/components"
)

// resultsStub records the transfer handed to the results screen.
type resultsStub struct {
	transfer []byte
}

func (r *resultsStub) Init() tea.Cmd                           { return nil }
func (r *resultsStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return r, nil }
func (r *resultsStub) View(int, int) string                    { return "results" }
func (r *resultsStub) Title() string                           { return "Results" }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func rawQuestions() []trivia.RawQuestion {
	return []trivia.RawQuestion{
		{Question: "Capital of France?", CorrectAnswer: "Paris", IncorrectAnswers: []string{"Berlin", "Rome", "Madrid"}},
		{Question: "2 &amp; 2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5", "22"}},
		{Question: "Largest ocean?", CorrectAnswer: "Pacific", IncorrectAnswers: []string{"Atlantic", "Indian", "Arctic"}},
	}
}

var testConfig = quiz.Configuration{Amount: 3, Difficulty: quiz.DifficultyEasy, CategoryID: "9"}

func testSessionScreen(src trivia.Source) *SessionScreen {
	return New(testConfig, Options{
		Source:      src,
		Logger:      logging.Discard(),
		Rand:        rand.New(rand.NewPCG(7, 11)),
		RevealDelay: time.Millisecond,
		Results: func(transfer []byte) screen.Screen {
			return &resultsStub{transfer: transfer}
		},
	})
}

// started runs Init and delivers the fetch result synchronously.
func started(t *testing.T, src trivia.Source) (*SessionScreen, tea.Cmd) {
	t.Helper()
	s := testSessionScreen(src)
	s.Init()
	_, cmd := s.Update(s.fetch(s.gen)())
	return s, cmd
}

// answer picks option i and completes the reveal.
func answer(t *testing.T, s *SessionScreen, i int) tea.Cmd {
	t.Helper()
	index := s.session.Index()
	if _, cmd := s.Update(components.ChoiceMsg{Index: i}); cmd == nil {
		t.Fatalf("question %d: expected reveal timer", index)
	}
	_, cmd := s.Update(revealDoneMsg{Index: index})
	return cmd
}

func wrongIndex(s *SessionScreen) int {
	return (s.mc.CorrectIndex + 1) % len(s.mc.Options)
}

func replacedTransfer(t *testing.T, cmd tea.Cmd) quiz.SessionResult {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	r, err := quiz.DecodeTransfer(msg.Screen.(*resultsStub).transfer)
	if err != nil {
		t.Fatalf("DecodeTransfer: %v", err)
	}
	return r
}

func TestSessionScreen_Title(t *testing.T) {
	s := testSessionScreen(trivia.NewMockSource())
	if s.Title() != "Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz")
	}
}

func TestSessionScreen_View_Loading(t *testing.T) {
	s := testSessionScreen(trivia.NewMockSource())
	s.Init()
	if !strings.Contains(s.View(80, 24), "Fetching 3 easy questions") {
		t.Errorf("unexpected loading view: %q", s.View(80, 24))
	}
}

func TestSessionScreen_FetchRequestsTokenThenQuestions(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	started(t, src)

	if src.TokenCalls != 1 {
		t.Errorf("token calls = %d, want 1", src.TokenCalls)
	}
	if len(src.QuestionCalls) != 1 {
		t.Fatalf("question calls = %d, want 1", len(src.QuestionCalls))
	}
	req := src.QuestionCalls[0]
	want := trivia.QuestionsRequest{Amount: 3, Difficulty: "easy", Category: "9", Type: trivia.TypeMultiple, Token: "mock-token"}
	if req != want {
		t.Errorf("request = %+v, want %+v", req, want)
	}
}

func TestSessionScreen_TokenFailureSkipsQuestions(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	src.TokenErr = &trivia.ErrUnavailable{StatusCode: 502}

	s, _ := started(t, src)
	if s.errMsg == "" {
		t.Fatal("expected error state")
	}
	if s.session != nil {
		t.Error("no partial session should exist")
	}
	if len(src.QuestionCalls) != 0 {
		t.Error("questions must not be requested without a token")
	}
}

func TestSessionScreen_NormalizesQuestions(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s, _ := started(t, src)

	if s.session.Total() != 3 {
		t.Fatalf("total = %d", s.session.Total())
	}
	answer(t, s, 0)
	q, _ := s.session.Current()
	if q.Text != "2 & 2?" {
		t.Errorf("question not decoded: %q", q.Text)
	}
}

func TestSessionScreen_ExampleScenario(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s, _ := started(t, src)

	answer(t, s, s.mc.CorrectIndex)
	answer(t, s, wrongIndex(s))
	cmd := answer(t, s, s.mc.CorrectIndex)

	r := replacedTransfer(t, cmd)
	if r.Score != 2 || r.Total != 3 {
		t.Fatalf("result = %d/%d, want 2/3", r.Score, r.Total)
	}
	if r.Percentage() != 67 {
		t.Errorf("percentage = %d, want 67", r.Percentage())
	}
	if quiz.GradeFor(r.Percentage()).Band != quiz.BandGood {
		t.Errorf("band = %s", quiz.GradeFor(r.Percentage()).Band)
	}
}

func TestSessionScreen_FirstSelectionWins(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s, _ := started(t, src)

	wrong := wrongIndex(s)
	s.Update(components.ChoiceMsg{Index: wrong})

	// Further picks during the reveal are rejected.
	if _, cmd := s.Update(components.ChoiceMsg{Index: s.mc.CorrectIndex}); cmd != nil {
		t.Error("second selection should be ignored")
	}
	if _, cmd := s.Update(keyPress('1')); cmd != nil {
		t.Error("keys should be ignored while revealing")
	}
	if s.session.Score() != 0 {
		t.Errorf("score = %d, want 0", s.session.Score())
	}
	if !strings.Contains(s.View(80, 30), "Not quite") {
		t.Error("expected reveal feedback")
	}
}

func TestSessionScreen_NumberKeyAnswers(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s, _ := started(t, src)

	_, cmd := s.Update(keyPress(rune('1' + s.mc.CorrectIndex)))
	if cmd == nil {
		t.Fatal("expected choice command")
	}
	s.Update(cmd())
	if s.session.Score() != 1 || s.session.Phase() != quiz.PhaseRevealing {
		t.Errorf("score=%d phase=%s", s.session.Score(), s.session.Phase())
	}
}

func TestSessionScreen_StaleRevealIgnored(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s, _ := started(t, src)

	s.Update(components.ChoiceMsg{Index: 0})
	s.Update(revealDoneMsg{Index: 0})
	s.Update(revealDoneMsg{Index: 0})
	if s.session.Index() != 1 || s.session.Phase() != quiz.PhaseAwaiting {
		t.Errorf("index=%d phase=%s", s.session.Index(), s.session.Phase())
	}
}

func TestSessionScreen_ZeroQuestions(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: []trivia.RawQuestion{}})
	_, cmd := started(t, src)

	r := replacedTransfer(t, cmd)
	if r.Total != 0 || r.Percentage() != 0 {
		t.Errorf("result = %+v", r)
	}
}

func TestSessionScreen_FewerQuestionsThanRequested(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()[:1]})
	s, _ := started(t, src)

	if s.session.Total() != 1 {
		t.Fatalf("total = %d, want 1", s.session.Total())
	}
	r := replacedTransfer(t, answer(t, s, s.mc.CorrectIndex))
	if r.Score != 1 || r.Total != 1 {
		t.Errorf("result = %d/%d", r.Score, r.Total)
	}
}

func TestSessionScreen_ErrorAndRetry(t *testing.T) {
	src := trivia.NewMockSource(
		trivia.MockQuestions{Err: &trivia.ErrRateLimit{RetryAfter: time.Second}},
		trivia.MockQuestions{Questions: rawQuestions()},
	)
	s, _ := started(t, src)

	if !strings.Contains(s.errMsg, "busy") {
		t.Fatalf("errMsg = %q", s.errMsg)
	}
	if !strings.Contains(s.View(80, 24), "retry") {
		t.Error("error view should offer retry")
	}

	_, cmd := s.Update(keyPress('r'))
	if cmd == nil || !s.loading {
		t.Fatal("expected a new fetch")
	}
	s.Update(s.fetch(s.gen)())
	if s.errMsg != "" || s.session == nil || s.session.Total() != 3 {
		t.Errorf("retry failed: err=%q", s.errMsg)
	}
}

func TestSessionScreen_StaleFetchDropped(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s := testSessionScreen(src)
	s.Init()
	stale := s.fetch(s.gen)()

	s.startFetch()
	s.Update(stale)
	if s.session != nil {
		t.Error("stale response should be dropped")
	}
}

func TestSessionScreen_CloseCancelsFetch(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s := testSessionScreen(src)
	s.Init()
	s.Close()

	msg := s.fetch(s.gen)().(questionsReadyMsg)
	if !errors.Is(msg.Err, context.Canceled) {
		t.Errorf("fetch err = %v, want context.Canceled", msg.Err)
	}
	s.Update(msg)
	if s.errMsg != "" || s.session != nil {
		t.Error("response after Close should be dropped")
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s, _ := started(t, src)

	if !s.HandlesBack() {
		t.Fatal("expected screen to handle Esc during the quiz")
	}

	s.Update(specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation dialog")
	}
	if _, cmd := s.Update(keyPress('1')); cmd != nil {
		t.Error("answers should be blocked while confirming")
	}

	s.Update(keyPress('n'))
	if s.confirmQuit {
		t.Error("expected quit confirmation to be dismissed")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after quit confirmation")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestSessionScreen_Status(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s, _ := started(t, src)

	answer(t, s, s.mc.CorrectIndex)
	st := s.Status()
	if st.Question != 2 || st.Total != 3 || st.Score != 1 {
		t.Errorf("status = %+v", st)
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	src := trivia.NewMockSource(trivia.MockQuestions{Questions: rawQuestions()})
	s, _ := started(t, src)

	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&trivia.ErrRateLimit{}, "busy"},
		{&trivia.ErrResponseCode{Code: trivia.CodeInvalidParam}, "rejected"},
		{&trivia.ErrResponseCode{Code: trivia.CodeTokenEmpty}, "expired"},
		{errors.New("dial tcp"), "connection"},
	}
	for _, tt := range tests {
		if got := describeError(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("describeError(%v) = %q, want mention of %q", tt.err, got, tt.want)
		}
	}
}
