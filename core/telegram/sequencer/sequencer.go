// Package sequencer runs work in per-key FIFO lanes: functions submitted for
// the same key execute one at a time in submission order, while different
// keys run in parallel. A lane's goroutine exits once its queue drains.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/m3rciful/applybot/core/logger"
	tghelpers "github.com/m3rciful/applybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// ErrClosed is returned by Go after Close was called.
var ErrClosed = errors.New("sequencer: closed")

type lane struct {
	queue []func()
}

// Sequencer owns the lanes. The zero value is not usable; call New.
type Sequencer struct {
	mu     sync.Mutex
	lanes  map[int64]*lane
	closed bool
	wg     sync.WaitGroup

	// OnError receives handler errors of updates run through Middleware.
	OnError func(error, tele.Context)
}

// New constructs an empty Sequencer.
func New() *Sequencer {
	return &Sequencer{lanes: make(map[int64]*lane)}
}

// Go schedules fn after every function previously submitted with key.
func (s *Sequencer) Go(key int64, fn func()) error {
	if fn == nil {
		return fmt.Errorf("sequencer: nil function")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if l, ok := s.lanes[key]; ok {
		l.queue = append(l.queue, fn)
		return nil
	}
	l := &lane{queue: []func(){fn}}
	s.lanes[key] = l
	s.wg.Add(1)
	go s.drain(key, l)
	return nil
}

// Lanes returns the number of keys with pending or running work.
func (s *Sequencer) Lanes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lanes)
}

// Close rejects new work and waits until every queued function has run.
func (s *Sequencer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Sequencer) drain(key int64, l *lane) {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		if len(l.queue) == 0 {
			delete(s.lanes, key)
			s.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		s.mu.Unlock()

		s.run(key, fn)
	}
}

func (s *Sequencer) run(key int64, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(context.Background(), logger.CompTG, "sequencer.panic",
				slog.Int64("user_id", key),
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn()
}

// Middleware moves update handling onto the sender's lane and returns immediately.
// Updates without a sender or chat run inline.
func (s *Sequencer) Middleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		key := laneKey(c)
		if key == 0 {
			return next(c)
		}
		err := s.Go(key, func() {
			if err := next(c); err != nil {
				s.reportError(err, c)
			}
		})
		if errors.Is(err, ErrClosed) {
			logger.Warn(tghelpers.BuildContext(c), logger.CompTG, "sequencer.dropped",
				slog.Int64("user_id", key),
			)
			return nil
		}
		return err
	}
}

func (s *Sequencer) reportError(err error, c tele.Context) {
	if s.OnError != nil {
		s.OnError(err, c)
		return
	}
	logger.Error(tghelpers.BuildContext(c), logger.CompTG, "handler.error",
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
}

func laneKey(c tele.Context) int64 {
	if u := c.Sender(); u != nil && u.ID != 0 {
		return u.ID
	}
	if ch := c.Chat(); ch != nil {
		return ch.ID
	}
	return 0
}
