package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	assert.False(t, store.InProgress(1))

	h := store.Lock(1)
	_, ok := h.Session()
	assert.False(t, ok)
	h.Set(NewSession("q1"))
	h.Unlock()

	assert.True(t, store.InProgress(1))
	assert.Equal(t, 1, store.Active())

	h = store.Lock(1)
	sess, ok := h.Session()
	require.True(t, ok)
	assert.Equal(t, State("q1"), sess.State)
	h.Clear()
	h.Unlock()
	h.Unlock()

	assert.False(t, store.InProgress(1))
	assert.Zero(t, store.Active())
	store.mu.Lock()
	assert.Empty(t, store.slots, "empty slots are dropped")
	store.mu.Unlock()
}

func TestSessionTypedAccessors(t *testing.T) {
	sess := NewSession(StateIdle)
	sess.Put("name", "Иван")
	sess.Put("flag", true)

	s, ok := sess.String("name")
	assert.True(t, ok)
	assert.Equal(t, "Иван", s)

	_, ok = sess.String("flag")
	assert.False(t, ok)

	b, ok := sess.Bool("flag")
	assert.True(t, ok)
	assert.True(t, b)
	assert.NotEqual(t, NewSession(StateIdle).ID, sess.ID)
}

func TestMemoryStoreSerializesPerKey(t *testing.T) {
	store := NewMemoryStore()
	const (
		users = 8
		iters = 200
	)

	var wg sync.WaitGroup
	for u := int64(1); u <= users; u++ {
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				for i := 0; i < iters; i++ {
					h := store.Lock(userID)
					sess, ok := h.Session()
					if !ok {
						sess = NewSession(StateIdle)
						sess.Put("n", 0)
						h.Set(sess)
					}
					n := sess.Fields["n"].(int)
					sess.Put("n", n+1)
					h.Unlock()
				}
			}(u)
		}
	}
	wg.Wait()

	for u := int64(1); u <= users; u++ {
		h := store.Lock(u)
		sess, ok := h.Session()
		require.True(t, ok)
		assert.Equal(t, 4*iters, sess.Fields["n"])
		h.Unlock()
	}
	assert.Equal(t, users, store.Active())
}
