package trivia

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// LoggingSource is a decorator that logs every API call with its latency.
type LoggingSource struct {
	inner Source
	log   logrus.FieldLogger
}

// WithLogging wraps a Source with request logging.
func WithLogging(s Source, log logrus.FieldLogger) Source {
	return &LoggingSource{inner: s, log: log}
}

func (l *LoggingSource) Categories(ctx context.Context) ([]Category, error) {
	start := time.Now()
	cats, err := l.inner.Categories(ctx)
	l.record("categories", start, err, logrus.Fields{"count": len(cats)})
	return cats, err
}

func (l *LoggingSource) RequestToken(ctx context.Context) (string, error) {
	start := time.Now()
	tok, err := l.inner.RequestToken(ctx)
	l.record("token", start, err, nil)
	return tok, err
}

func (l *LoggingSource) Questions(ctx context.Context, req QuestionsRequest) ([]RawQuestion, error) {
	start := time.Now()
	qs, err := l.inner.Questions(ctx, req)
	l.record("questions", start, err, logrus.Fields{
		"amount":     req.Amount,
		"difficulty": req.Difficulty,
		"category":   req.Category,
		"returned":   len(qs),
	})
	return qs, err
}

func (l *LoggingSource) record(endpoint string, start time.Time, err error, fields logrus.Fields) {
	entry := l.log.WithFields(logrus.Fields{
		"endpoint":   endpoint,
		"latency_ms": time.Since(start).Milliseconds(),
	})
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	if err != nil {
		entry.WithError(err).Warn("trivia API call failed")
		return
	}
	entry.Debug("trivia API call")
}
