package quiz

import (
	"fmt"
	"math"
)

// SessionResult is the finalized score and logs handed to Results and Review.
type SessionResult struct {
	Score     int
	Total     int
	Questions []Question
	Answers   AnswerLog
}

// CountCorrect recomputes the score from the logs.
func (r SessionResult) CountCorrect() int {
	n := 0
	for i, q := range r.Questions {
		a := r.Answers.At(i)
		if a.Answered && q.IsCorrect(a.Option) {
			n++
		}
	}
	return n
}

// Percentage returns the rounded score percentage.
func (r SessionResult) Percentage() int {
	return Percentage(r.Score, r.Total)
}

// Validate checks the invariants every SessionResult must hold.
func (r SessionResult) Validate() error {
	if r.Total < 0 {
		return fmt.Errorf("negative total %d", r.Total)
	}
	if r.Total != len(r.Questions) {
		return fmt.Errorf("total %d does not match %d questions", r.Total, len(r.Questions))
	}
	if len(r.Answers) > r.Total {
		return fmt.Errorf("%d answers for %d questions", len(r.Answers), r.Total)
	}
	if r.Score < 0 || r.Score > r.Total {
		return fmt.Errorf("score %d out of range [0, %d]", r.Score, r.Total)
	}
	for i, q := range r.Questions {
		if !q.HasOption(q.Correct) {
			return fmt.Errorf("question %d: correct answer not among options", i)
		}
		if a := r.Answers.At(i); a.Answered && !q.HasOption(a.Option) {
			return fmt.Errorf("question %d: answer %q not among options", i, a.Option)
		}
	}
	if c := r.CountCorrect(); c != r.Score {
		return fmt.Errorf("score %d does not match %d correct answers", r.Score, c)
	}
	return nil
}

// Percentage computes round(100*score/total). A zero total yields 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
