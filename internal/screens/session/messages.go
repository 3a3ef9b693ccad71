package session

import (
	"github.com/abhisek/triviaz/internal/trivia"
)

// questionsReadyMsg is sent when the token and question fetch completes.
// Gen identifies the fetch so responses from abandoned attempts are dropped.
type questionsReadyMsg struct {
	Gen       int
	Questions []trivia.RawQuestion
	Err       error
}

// spinnerTickMsg animates the loading spinner.
type spinnerTickMsg struct {
	Gen int
}

// revealDoneMsg is sent when the reveal period for question Index ends.
type revealDoneMsg struct {
	Index int
}
