package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Transfer is the payload carried between the session, results and review
// screens.
type Transfer struct {
	Score       int        `json:"score"`
	Total       int        `json:"total"`
	Questions   []Question `json:"questions"`
	UserAnswers AnswerLog  `json:"userAnswers"`
}

// EncodeTransfer validates r and encodes it for the next screen.
func EncodeTransfer(r SessionResult) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, &ErrMalformedTransfer{Reason: "invalid result", Err: err}
	}

	t := Transfer{
		Score:       r.Score,
		Total:       r.Total,
		Questions:   r.Questions,
		UserAnswers: r.Answers,
	}
	if t.Questions == nil {
		t.Questions = []Question{}
	}
	if t.UserAnswers == nil {
		t.UserAnswers = AnswerLog{}
	}
	for len(t.UserAnswers) < len(t.Questions) {
		t.UserAnswers = append(t.UserAnswers, Answer{})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		return nil, &ErrMalformedTransfer{Reason: "encode", Err: err}
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeTransfer decodes and validates a payload produced by EncodeTransfer.
// Missing collections are rejected rather than defaulted.
func DecodeTransfer(data []byte) (SessionResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return SessionResult{}, &ErrMalformedTransfer{Reason: "empty payload"}
	}

	var raw struct {
		Score       *int       `json:"score"`
		Total       *int       `json:"total"`
		Questions   []Question `json:"questions"`
		UserAnswers AnswerLog  `json:"userAnswers"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return SessionResult{}, &ErrMalformedTransfer{Reason: "decode", Err: err}
	}

	switch {
	case raw.Score == nil:
		return SessionResult{}, &ErrMalformedTransfer{Reason: "missing score"}
	case raw.Total == nil:
		return SessionResult{}, &ErrMalformedTransfer{Reason: "missing total"}
	case raw.Questions == nil:
		return SessionResult{}, &ErrMalformedTransfer{Reason: "missing questions"}
	case raw.UserAnswers == nil:
		return SessionResult{}, &ErrMalformedTransfer{Reason: "missing userAnswers"}
	}

	answers := raw.UserAnswers
	for len(answers) < len(raw.Questions) {
		answers = append(answers, Answer{})
	}

	r := SessionResult{
		Score:     *raw.Score,
		Total:     *raw.Total,
		Questions: raw.Questions,
		Answers:   answers,
	}
	if err := r.Validate(); err != nil {
		return SessionResult{}, &ErrMalformedTransfer{Reason: "invalid result", Err: err}
	}
	return r, nil
}

// IsMalformedTransfer reports whether err is an ErrMalformedTransfer.
func IsMalformedTransfer(err error) bool {
	var mt *ErrMalformedTransfer
	return errors.As(err, &mt)
}
