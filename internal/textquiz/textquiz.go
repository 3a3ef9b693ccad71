// Package textquiz runs a quiz over plain line-oriented input and output.
package textquiz

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/triviaz/internal/logging"
	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/trivia"
)

// Options are the collaborators of a text quiz.
type Options struct {
	Source trivia.Source
	Logger logrus.FieldLogger
	In     io.Reader
	Out    io.Writer
	// Rand shuffles answer options. Nil uses the global source.
	Rand *rand.Rand
}

// Run fetches a question set for cfg and plays it on opts.In/opts.Out. It
// returns the result even when input closes early.
func Run(ctx context.Context, cfg quiz.Configuration, opts Options) (quiz.SessionResult, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	ctx = logging.NewContext(ctx, opts.Logger)
	log := logging.WithContext(ctx)
	out := opts.Out

	fmt.Fprintf(out, "Fetching %d %s questions...\n\n", cfg.Amount, strings.ToLower(cfg.Difficulty.DisplayName()))

	token, err := opts.Source.RequestToken(ctx)
	if err != nil {
		return quiz.SessionResult{}, fmt.Errorf("request session token: %w", err)
	}
	raws, err := opts.Source.Questions(ctx, cfg.QuestionsRequest(token))
	if err != nil {
		return quiz.SessionResult{}, fmt.Errorf("fetch questions: %w", err)
	}

	session := quiz.NewSession(quiz.NormalizeAll(raws, opts.Rand))
	if session.Total() == 0 {
		fmt.Fprintln(out, "No questions were available for this selection.")
		return session.Result(), nil
	}

	// Stops the reader goroutine once the quiz returns.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go scanLines(ctx, opts.In, lines)

	for !session.Finished() {
		q, _ := session.Current()
		printQuestion(out, session.Index(), session.Total(), q)

		choice, err := readChoice(ctx, out, lines, len(q.Options))
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "\n(input closed)")
				break
			}
			return session.Result(), err
		}

		correct, err := session.SelectIndex(choice)
		if err != nil {
			return session.Result(), err
		}
		if correct {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintf(out, "✗ Not quite. Answer: %s\n", q.Correct)
		}
		fmt.Fprintln(out)

		if _, err := session.Advance(); err != nil {
			return session.Result(), err
		}
	}

	result := session.Result()
	pct := result.Percentage()
	grade := quiz.GradeFor(pct)
	fmt.Fprintf(out, "── Score: %d/%d (%d%%) ──\n%s\n", result.Score, result.Total, pct, grade.Message)

	log.WithFields(logrus.Fields{
		"score": result.Score,
		"total": result.Total,
	}).Info("text quiz finished")
	return result, nil
}

func printQuestion(out io.Writer, index, total int, q quiz.Question) {
	fmt.Fprintf(out, "── Question %d/%d ──\n", index+1, total)
	fmt.Fprintln(out, q.Text)
	for i, o := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, o)
	}
}

// readChoice prompts until a valid option number is entered.
func readChoice(ctx context.Context, out io.Writer, lines <-chan string, n int) (int, error) {
	for {
		fmt.Fprint(out, "\nYour answer: ")
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return 0, io.EOF
			}
			v, err := strconv.Atoi(strings.TrimSpace(line))
			if err == nil && v >= 1 && v <= n {
				return v - 1, nil
			}
			fmt.Fprintf(out, "Enter a number from 1 to %d.", n)
		}
	}
}

// scanLines feeds lines from r until EOF or ctx is done, then closes lines.
func scanLines(ctx context.Context, r io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}
