package quiz

// OptionMark annotates one option in the review.
type OptionMark struct {
	Text      string
	IsCorrect bool
	IsChosen  bool
}

// ReviewItem is the per-question comparison of chosen and correct answers.
type ReviewItem struct {
	Index    int
	Question string
	Options  []OptionMark
	Answered bool
	Correct  bool
	// YourAnswer and CorrectAnswer are set only for incorrect or unanswered items.
	YourAnswer    string
	CorrectAnswer string
}

// Review is the full review of a session.
type Review struct {
	Score      int
	Total      int
	Percentage int
	Items      []ReviewItem
}

// BuildReview derives a Review from a result. It never mutates r.
func BuildReview(r SessionResult) Review {
	items := make([]ReviewItem, 0, len(r.Questions))
	for i, q := range r.Questions {
		a := r.Answers.At(i)
		correct := a.Answered && q.IsCorrect(a.Option)

		marks := make([]OptionMark, 0, len(q.Options))
		for _, opt := range q.Options {
			marks = append(marks, OptionMark{
				Text:      opt,
				IsCorrect: q.IsCorrect(opt),
				IsChosen:  a.Answered && opt == a.Option,
			})
		}

		item := ReviewItem{
			Index:    i,
			Question: q.Text,
			Options:  marks,
			Answered: a.Answered,
			Correct:  correct,
		}
		if !correct {
			item.YourAnswer = a.Option
			item.CorrectAnswer = q.Correct
		}
		items = append(items, item)
	}

	return Review{
		Score:      r.Score,
		Total:      r.Total,
		Percentage: Percentage(r.Score, r.Total),
		Items:      items,
	}
}
