package quiz

// Phase is the answer-loop state of a session.
type Phase int

const (
	PhaseAwaiting  Phase = iota // AwaitingAnswer(index)
	PhaseRevealing              // answer recorded, chosen/correct shown, input rejected
	PhaseFinished               // no questions left
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaiting:
		return "awaiting"
	case PhaseRevealing:
		return "revealing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Answer is one AnswerLog entry. Answered is false when the user left before
// choosing an option.
type Answer struct {
	Option   string `json:"option"`
	Answered bool   `json:"answered"`
}

// AnswerLog holds one entry per question index.
type AnswerLog []Answer

// At returns the entry for index i, or an unanswered entry if out of range.
func (l AnswerLog) At(i int) Answer {
	if i < 0 || i >= len(l) {
		return Answer{}
	}
	return l[i]
}

// Session drives the sequential answer loop over a fixed question set.
// It is not safe for concurrent use; the UI event loop owns it.
type Session struct {
	questions []Question
	answers   AnswerLog
	index     int
	score     int
	phase     Phase
}

// NewSession starts a session at the first question. An empty question set
// yields a session that is already finished.
func NewSession(questions []Question) *Session {
	s := &Session{
		questions: questions,
		answers:   make(AnswerLog, len(questions)),
	}
	if len(questions) == 0 {
		s.phase = PhaseFinished
	}
	return s
}

// Phase returns the current loop state.
func (s *Session) Phase() Phase { return s.phase }

// Index returns the current question index.
func (s *Session) Index() int { return s.index }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Total returns the number of questions in the session.
func (s *Session) Total() int { return len(s.questions) }

// Finished reports whether the loop has completed.
func (s *Session) Finished() bool { return s.phase == PhaseFinished }

// Current returns the question at the current index.
func (s *Session) Current() (Question, bool) {
	if s.phase == PhaseFinished || s.index >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.index], true
}

// CurrentAnswer returns the recorded answer for the current question.
func (s *Session) CurrentAnswer() Answer {
	return s.answers.At(s.index)
}

// Select records option as the answer to the current question. Only the first
// selection for a question counts; later calls return ErrAlreadyAnswered.
func (s *Session) Select(option string) (bool, error) {
	switch s.phase {
	case PhaseFinished:
		return false, ErrFinished
	case PhaseRevealing:
		return false, ErrAlreadyAnswered
	}

	q := s.questions[s.index]
	if s.answers[s.index].Answered {
		return false, ErrAlreadyAnswered
	}
	if !q.HasOption(option) {
		return false, ErrUnknownOption
	}

	s.answers[s.index] = Answer{Option: option, Answered: true}
	correct := q.IsCorrect(option)
	if correct {
		s.score++
	}
	s.phase = PhaseRevealing
	return correct, nil
}

// SelectIndex selects the option at position i of the current question.
func (s *Session) SelectIndex(i int) (bool, error) {
	q, ok := s.Current()
	if !ok {
		return false, ErrFinished
	}
	if i < 0 || i >= len(q.Options) {
		return false, ErrUnknownOption
	}
	return s.Select(q.Options[i])
}

// Advance leaves the reveal state for the next question, or finishes the
// session after the last one.
func (s *Session) Advance() (Phase, error) {
	switch s.phase {
	case PhaseFinished:
		return s.phase, ErrFinished
	case PhaseAwaiting:
		return s.phase, ErrNotAnswered
	}

	if s.index+1 < len(s.questions) {
		s.index++
		s.phase = PhaseAwaiting
	} else {
		s.phase = PhaseFinished
	}
	return s.phase, nil
}

// Result snapshots the session. It may be called before the session finishes,
// in which case unanswered questions are recorded as such.
func (s *Session) Result() SessionResult {
	questions := make([]Question, len(s.questions))
	copy(questions, s.questions)
	answers := make(AnswerLog, len(s.answers))
	copy(answers, s.answers)
	return SessionResult{
		Score:     s.score,
		Total:     len(s.questions),
		Questions: questions,
		Answers:   answers,
	}
}
