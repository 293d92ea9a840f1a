package sequencer

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestSequencerKeepsOrderPerKey(t *testing.T) {
	s := New()
	const n = 500

	var mu sync.Mutex
	got := map[int64][]int{}
	for i := 0; i < n; i++ {
		for key := int64(1); key <= 3; key++ {
			i, key := i, key
			require.NoError(t, s.Go(key, func() {
				mu.Lock()
				got[key] = append(got[key], i)
				mu.Unlock()
			}))
		}
	}
	s.Close()

	for key := int64(1); key <= 3; key++ {
		require.Len(t, got[key], n)
		for i, v := range got[key] {
			assert.Equal(t, i, v)
		}
	}
	assert.Zero(t, s.Lanes())
}

func TestSequencerRunsKeysInParallel(t *testing.T) {
	s := New()
	release := make(chan struct{})
	done := make(chan struct{})

	require.NoError(t, s.Go(1, func() { <-release }))
	require.NoError(t, s.Go(2, func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("key 2 was blocked by key 1")
	}
	close(release)
	s.Close()
}

func TestSequencerOneAtATimePerKey(t *testing.T) {
	s := New()
	var running, peak atomic.Int32
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Go(7, func() {
			cur := running.Add(1)
			if cur > peak.Load() {
				peak.Store(cur)
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
		}))
	}
	s.Close()
	assert.EqualValues(t, 1, peak.Load())
}

func TestSequencerRecoversPanics(t *testing.T) {
	s := New()
	var after atomic.Bool
	require.NoError(t, s.Go(1, func() { panic("boom") }))
	require.NoError(t, s.Go(1, func() { after.Store(true) }))
	s.Close()
	assert.True(t, after.Load())
}

func TestSequencerClosed(t *testing.T) {
	s := New()
	s.Close()
	assert.ErrorIs(t, s.Go(1, func() {}), ErrClosed)
	assert.Error(t, s.Go(1, nil))
}

type fakeContext struct {
	tele.Context
	user *tele.User
	chat *tele.Chat
}

func (f fakeContext) Sender() *tele.User { return f.user }
func (f fakeContext) Chat() *tele.Chat   { return f.chat }

func TestMiddlewareRoutesErrorsToOnError(t *testing.T) {
	s := New()
	var got error
	s.OnError = func(err error, _ tele.Context) { got = err }

	boom := errors.New("boom")
	h := s.Middleware(func(tele.Context) error { return boom })
	require.NoError(t, h(fakeContext{user: &tele.User{ID: 42}}))
	s.Close()
	assert.ErrorIs(t, got, boom)
}

func TestMiddlewareRunsInlineWithoutKey(t *testing.T) {
	s := New()
	defer s.Close()
	boom := errors.New("boom")
	h := s.Middleware(func(tele.Context) error { return boom })
	assert.ErrorIs(t, h(fakeContext{}), boom)
}
