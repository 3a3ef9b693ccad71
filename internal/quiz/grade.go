package quiz

import "fmt"

// Band is the qualitative grade band for a percentage.
type Band string

const (
	BandPerfect   Band = "perfect"
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPractice  Band = "practice"
)

// Grade is everything the results screen derives from a percentage.
type Grade struct {
	Band    Band
	Message string
	// Colors is a gradient pair, start then end.
	Colors [2]string
	// Animation and Trophy are illustrative asset references.
	Animation string
	Trophy    string
}

const (
	animPerfect   = "https://assets6.lottiefiles.com/packages/lf20_ollj3omi.json"
	animExcellent = "https://assets6.lottiefiles.com/packages/lf20_ye1rljef.json"
	animGood      = "https://assets6.lottiefiles.com/packages/lf20_obhph3sh.json"
	animLow       = "https://assets6.lottiefiles.com/packages/lf20_ypvsrqxh.json"

	trophyGold   = "https://cdn-icons-png.flaticon.com/512/3132/3132735.png"
	trophySilver = "https://cdn-icons-png.flaticon.com/512/3132/3132739.png"
	trophyBronze = "https://cdn-icons-png.flaticon.com/512/3132/3132733.png"
)

// GradeFor maps a percentage onto its band. The fair band only changes the
// message; it shares colors and assets with the lowest band.
func GradeFor(percentage int) Grade {
	switch {
	case percentage >= 100:
		return Grade{
			Band:      BandPerfect,
			Message:   "Perfect Score! You're a genius!",
			Colors:    [2]string{"#4CAF50", "#2E7D32"},
			Animation: animPerfect,
			Trophy:    trophyGold,
		}
	case percentage >= 80:
		return Grade{
			Band:      BandExcellent,
			Message:   "Excellent! You know your stuff!",
			Colors:    [2]string{"#2196F3", "#1565C0"},
			Animation: animExcellent,
			Trophy:    trophySilver,
		}
	case percentage >= 60:
		return Grade{
			Band:      BandGood,
			Message:   "Good job! Keep learning!",
			Colors:    [2]string{"#FFC107", "#FF8F00"},
			Animation: animGood,
			Trophy:    trophyBronze,
		}
	case percentage >= 40:
		return Grade{
			Band:      BandFair,
			Message:   "Not bad! Try again!",
			Colors:    [2]string{"#FF5722", "#E64A19"},
			Animation: animLow,
			Trophy:    trophyBronze,
		}
	default:
		return Grade{
			Band:      BandPractice,
			Message:   "Keep practicing! You'll get better!",
			Colors:    [2]string{"#FF5722", "#E64A19"},
			Animation: animLow,
			Trophy:    trophyBronze,
		}
	}
}

// ShareMessage formats the summary handed to the sharing facility.
func ShareMessage(score, total int) string {
	return fmt.Sprintf("I scored %d/%d (%d%%) on the Trivia Challenge! Can you beat me?",
		score, total, Percentage(score, total))
}
