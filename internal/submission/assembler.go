package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/applybot/core/logger"
	"github.com/m3rciful/applybot/internal/questionnaire"
)

var (
	// ErrPersist wraps failures to store the record. Nothing is broadcast.
	ErrPersist = errors.New("submission: persist failed")
	// ErrNotify wraps failures to deliver the channel summary.
	// It is reported to the Recorder and logged, never returned by Submit.
	ErrNotify = errors.New("submission: notify failed")
)

// Saver stores a record and returns its id.
type Saver interface {
	Save(ctx context.Context, r *Record) (int64, error)
}

// Notifier posts a MarkdownV2 text to the broadcast channel.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Result labels passed to the Recorder.
const (
	ResultOK   = "ok"
	ResultFail = "fail"
)

// Recorder observes submission results.
type Recorder interface {
	SubmissionDone(result string, took time.Duration)
	NotificationDone(result string)
}

type nopRecorder struct{}

func (nopRecorder) SubmissionDone(string, time.Duration) {}
func (nopRecorder) NotificationDone(string)              {}

// Assembler persists completed answers, then announces them.
type Assembler struct {
	saver    Saver
	notifier Notifier
	recorder Recorder
}

// NewAssembler wires the collaborators. recorder may be nil.
func NewAssembler(saver Saver, notifier Notifier, recorder Recorder) (*Assembler, error) {
	if saver == nil {
		return nil, errors.New("submission: nil saver")
	}
	if notifier == nil {
		return nil, errors.New("submission: nil notifier")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Assembler{saver: saver, notifier: notifier, recorder: recorder}, nil
}

// Submit stores the answers and broadcasts the summary.
// Only a storage failure is returned (wrapping ErrPersist); a broadcast failure
// is logged and recorded since the application is already accepted.
func (a *Assembler) Submit(ctx context.Context, answers questionnaire.Answers) error {
	start := time.Now()
	rec := RecordFromAnswers(answers)

	id, err := a.saver.Save(ctx, rec)
	if err != nil {
		a.recorder.SubmissionDone(ResultFail, time.Since(start))
		logger.Error(ctx, logger.CompSubmission, "persist",
			slog.String("outcome", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	rec.ID = id
	a.recorder.SubmissionDone(ResultOK, time.Since(start))

	if err := a.notify(ctx, rec); err != nil {
		a.recorder.NotificationDone(ResultFail)
		logger.Warn(ctx, logger.CompSubmission, "notify",
			slog.Int64("application_id", id),
			slog.String("outcome", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	} else {
		a.recorder.NotificationDone(ResultOK)
	}

	logger.Info(ctx, logger.CompSubmission, "stored",
		slog.Int64("application_id", id),
		slog.String("outcome", "ok"),
		slog.Duration("took", logger.Took(start)),
	)
	return nil
}

func (a *Assembler) notify(ctx context.Context, rec *Record) error {
	if err := a.notifier.Notify(ctx, Summary(rec)); err != nil {
		return fmt.Errorf("%w: %w", ErrNotify, err)
	}
	return nil
}
