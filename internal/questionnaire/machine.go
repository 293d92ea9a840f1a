// Package questionnaire drives users through the fixed application form:
// region gate, five free-text answers and three yes/no questions, then hands
// the completed answers to a Submitter.
package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/applybot/core/logger"
	"github.com/m3rciful/applybot/core/telegram/state"
)

// Submitter finalizes completed answers. A nil error means the record is stored;
// failures after storing (such as the broadcast) are the submitter's to report.
type Submitter interface {
	Submit(ctx context.Context, a Answers) error
}

// Session outcomes reported to the Observer.
const (
	OutcomeStarted   = "started"
	OutcomeRestarted = "restarted"
	OutcomeRejected  = "rejected"
	OutcomeCancelled = "cancelled"
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Observer receives session outcomes, typically for metrics.
type Observer interface {
	SessionEvent(outcome string)
}

type nopObserver struct{}

func (nopObserver) SessionEvent(string) {}

// Machine is the session state machine. It is safe for concurrent use: calls
// for one user are serialized by the store, different users run in parallel.
type Machine struct {
	store     state.Store
	submitter Submitter
	observer  Observer
	graph     graph
	byStep    map[state.State]Question
}

// New builds a Machine. observer may be nil.
func New(store state.Store, submitter Submitter, observer Observer) (*Machine, error) {
	if store == nil {
		return nil, errors.New("questionnaire: nil session store")
	}
	if submitter == nil {
		return nil, errors.New("questionnaire: nil submitter")
	}
	if observer == nil {
		observer = nopObserver{}
	}
	byStep := make(map[state.State]Question, len(questions))
	for _, q := range questions {
		byStep[q.Step] = q
	}
	return &Machine{
		store:     store,
		submitter: submitter,
		observer:  observer,
		graph:     newGraph(questions),
		byStep:    byStep,
	}, nil
}

// Transitions returns the full transition graph.
func (m *Machine) Transitions() []Transition {
	out := make([]Transition, len(m.graph.transitions))
	copy(out, m.graph.transitions)
	return out
}

// Graph renders the transition graph in graphviz dot format.
func (m *Machine) Graph() string {
	return m.graph.visualize()
}

// Active reports whether userID has a session in progress.
func (m *Machine) Active(userID int64) bool {
	return m.store.InProgress(userID)
}

// Start opens a new session for userID and asks the first question.
// An active session is discarded and the form starts over.
func (m *Machine) Start(ctx context.Context, userID int64, r Replier) error {
	h := m.store.Lock(userID)
	defer h.Unlock()

	if old, ok := h.Session(); ok {
		logger.Info(logger.WithSession(ctx, old.ID.String()), logger.CompFSM, "session.restart",
			slog.String("step", string(old.State)),
		)
		m.observer.SessionEvent(OutcomeRestarted)
	}

	sess := state.NewSession(StepStart)
	next, err := m.graph.fire(ctx, sess.State, EventBegin)
	if err != nil {
		h.Clear()
		return err
	}
	sess.State = next
	h.Set(sess)
	m.observer.SessionEvent(OutcomeStarted)

	ctx = logger.WithSession(ctx, sess.ID.String())
	logger.Info(ctx, logger.CompFSM, "session.start", slog.String("next_step", string(next)))
	return r.Reply(ctx, promptFor(m.byStep[next]))
}

// Answer applies text to the current step of userID's session and replies with
// the next prompt, the rejection, or the completion acknowledgment.
// Without a session the user gets /start guidance and ErrSessionNotFound is returned.
func (m *Machine) Answer(ctx context.Context, userID int64, text string, r Replier) error {
	h := m.store.Lock(userID)
	defer h.Unlock()

	sess, ok := h.Session()
	if !ok {
		return m.noSession(ctx, "answer", r)
	}
	ctx = logger.WithSession(ctx, sess.ID.String())

	q, ok := m.byStep[sess.State]
	if !ok {
		h.Clear()
		m.observer.SessionEvent(OutcomeFailed)
		logger.Error(ctx, logger.CompFSM, "session.bad_step", slog.String("step", string(sess.State)))
		return errors.Join(
			fmt.Errorf("questionnaire: no question for step %q", sess.State),
			r.Reply(ctx, Message{Text: TextBroken, Keyboard: KeyboardRemove}),
		)
	}

	switch q.Kind {
	case KindRegion:
		if !AcceptRegion(text) {
			return m.reject(ctx, h, sess, text, r)
		}
		sess.Put(q.Field, text)
	case KindYesNo:
		sess.Put(q.Field, ParseYesNo(text))
	default:
		sess.Put(q.Field, text)
	}

	next, err := m.graph.fire(ctx, sess.State, EventAnswer)
	if err != nil {
		return err
	}
	logger.Debug(ctx, logger.CompFSM, "step.answered",
		slog.String("step", string(sess.State)),
		slog.String("next_step", string(next)),
	)

	if next == StepEnd {
		return m.complete(ctx, h, sess, r)
	}
	sess.State = next
	return r.Reply(ctx, promptFor(m.byStep[next]))
}

// Cancel discards userID's session.
// Without a session the user gets /start guidance and ErrSessionNotFound is returned.
func (m *Machine) Cancel(ctx context.Context, userID int64, r Replier) error {
	h := m.store.Lock(userID)
	defer h.Unlock()

	sess, ok := h.Session()
	if !ok {
		return m.noSession(ctx, "cancel", r)
	}
	ctx = logger.WithSession(ctx, sess.ID.String())

	if _, err := m.graph.fire(ctx, sess.State, EventCancel); err != nil {
		return err
	}
	h.Clear()
	m.observer.SessionEvent(OutcomeCancelled)
	logger.Info(ctx, logger.CompFSM, "session.cancel", slog.String("step", string(sess.State)))
	return r.Reply(ctx, Message{Text: TextCancelled, Keyboard: KeyboardRemove})
}

func (m *Machine) noSession(ctx context.Context, op string, r Replier) error {
	logger.Debug(ctx, logger.CompFSM, "session.not_found", slog.String("op", op))
	if err := r.Reply(ctx, Message{Text: TextNoSession, Keyboard: KeyboardRemove}); err != nil {
		return errors.Join(ErrSessionNotFound, err)
	}
	return ErrSessionNotFound
}

func (m *Machine) reject(ctx context.Context, h *state.Handle, sess *state.Session, text string, r Replier) error {
	if _, err := m.graph.fire(ctx, sess.State, EventReject); err != nil {
		return err
	}
	h.Clear()
	m.observer.SessionEvent(OutcomeRejected)
	logger.Info(ctx, logger.CompFSM, "session.rejected",
		slog.String("step", string(sess.State)),
		slog.String("outcome", "rejected"),
		slog.String("region", logger.SanitizeLimit(text, 50)),
	)
	return r.Reply(ctx, Message{Text: TextRejected, Keyboard: KeyboardRemove})
}

func (m *Machine) complete(ctx context.Context, h *state.Handle, sess *state.Session, r Replier) error {
	answers, err := AnswersFrom(sess)
	if err != nil {
		h.Clear()
		m.observer.SessionEvent(OutcomeFailed)
		logger.Error(ctx, logger.CompFSM, "session.incomplete", slog.String("err", err.Error()))
		return errors.Join(err, r.Reply(ctx, Message{Text: TextBroken, Keyboard: KeyboardRemove}))
	}

	if err := m.submitter.Submit(ctx, answers); err != nil {
		// The session stays on the last step so the answer can be resent.
		logger.Warn(ctx, logger.CompFSM, "session.submit_failed",
			slog.String("step", string(sess.State)),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return errors.Join(
			fmt.Errorf("questionnaire: submit: %w", err),
			r.Reply(ctx, Message{Text: TextSubmitFailed, Keyboard: KeyboardYesNo}),
		)
	}

	h.Clear()
	m.observer.SessionEvent(OutcomeCompleted)
	logger.Info(ctx, logger.CompFSM, "session.complete",
		slog.String("outcome", "ok"),
		slog.Duration("elapsed", logger.Took(sess.StartedAt)),
	)
	return r.Reply(ctx, Message{Text: TextCompleted, Keyboard: KeyboardRemove})
}
