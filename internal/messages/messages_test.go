package messages_test

import (
	"sync"
	"testing"

	"github.com/OliverSchlueter/smsgate/internal/messages"
	"github.com/OliverSchlueter/smsgate/internal/messages/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(maxSize int) *messages.Store {
	return messages.NewStore(messages.Configuration{
		DB:             memory.NewDB(),
		MaxMessageSize: maxSize,
	})
}

func insert(t *testing.T, s *messages.Store, content string) *messages.Message {
	t.Helper()
	msg := s.Create()
	require.NoError(t, s.Write(msg, []byte(content)))
	require.NoError(t, s.Insert(msg))
	return msg
}

func contents(s *messages.Store) []string {
	var out []string
	c := s.Cursor()
	for {
		msg, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, string(msg.Bytes()))
	}
}

func TestAppendGrowth(t *testing.T) {
	s := newStore(0)
	msg := s.Create()

	for n := 1; n <= 1000; n++ {
		require.NoError(t, s.Append(msg, byte(n)))
		assert.Equal(t, n, msg.Len())

		// capacity is twice the largest power of two not above the length
		p := 1
		for p*2 <= n {
			p *= 2
		}
		assert.Equal(t, 2*p, msg.Cap(), "length %d", n)
		assert.Greater(t, msg.Cap(), msg.Len())
	}
	assert.Equal(t, byte(1), msg.Bytes()[0])
	assert.Equal(t, byte(1000%256), msg.Bytes()[999])
}

func TestAppendTooLargeReleases(t *testing.T) {
	s := newStore(4)
	msg := s.Create()

	require.NoError(t, s.Write(msg, []byte("abcd")))
	err := s.Append(msg, 'e')
	assert.ErrorIs(t, err, messages.ErrMessageTooLarge)
	assert.Equal(t, 0, msg.Len())
	assert.Equal(t, 0, msg.Cap())
}

func TestCreatedMessageIsInvisible(t *testing.T) {
	s := newStore(0)
	msg := s.Create()
	require.NoError(t, s.Write(msg, []byte("pending")))

	count, octets := s.Stat()
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, octets)

	require.NoError(t, s.Insert(msg))
	count, octets = s.Stat()
	assert.Equal(t, 1, count)
	assert.Equal(t, 7, octets)
}

func TestInsertTwice(t *testing.T) {
	s := newStore(0)
	msg := insert(t, s, "A")

	assert.ErrorIs(t, s.Insert(msg), messages.ErrAlreadyInserted)
	assert.ErrorIs(t, s.Append(msg, 'x'), messages.ErrMessageSealed)
	assert.Equal(t, []string{"A"}, contents(s))
}

func TestOrdinalsRenumberAfterDelete(t *testing.T) {
	s := newStore(0)
	insert(t, s, "A")
	insert(t, s, "B")
	insert(t, s, "C")

	assert.Equal(t, []string{"A", "B", "C"}, contents(s))

	deleted, err := s.DeleteNth(2)
	require.NoError(t, err)
	assert.Equal(t, "B", string(deleted.Bytes()))

	assert.Equal(t, []string{"A", "C"}, contents(s))
	assert.Equal(t, 2, s.Count())

	second, err := s.Nth(2)
	require.NoError(t, err)
	assert.Equal(t, "C", string(second.Bytes()))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "A", string(list[0].Bytes()))
	assert.Equal(t, "C", string(list[1].Bytes()))

	_, err = s.Nth(3)
	assert.ErrorIs(t, err, messages.ErrMessageNotFound)
	_, err = s.Nth(0)
	assert.ErrorIs(t, err, messages.ErrMessageNotFound)
}

func TestDeleteNeverInserted(t *testing.T) {
	s := newStore(0)
	insert(t, s, "A")

	msg := s.Create()
	require.NoError(t, s.Write(msg, []byte("partial")))
	require.NoError(t, s.Delete(msg))

	assert.Equal(t, 0, msg.Len())
	assert.Equal(t, []string{"A"}, contents(s))
}

func TestDeleteAlreadyDeleted(t *testing.T) {
	s := newStore(0)
	msg := insert(t, s, "A")

	require.NoError(t, s.Delete(msg))
	assert.ErrorIs(t, s.Delete(msg), messages.ErrMessageNotFound)
}

func TestCursorSurvivesDeletion(t *testing.T) {
	s := newStore(0)
	a := insert(t, s, "A")
	b := insert(t, s, "B")
	insert(t, s, "C")

	c := s.Cursor()
	first, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, a.ID, first.ID)

	require.NoError(t, s.Delete(a))
	require.NoError(t, s.Delete(b))

	next, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, "C", string(next.Bytes()))

	_, ok = c.Next()
	assert.False(t, ok)
	_, ok = c.Next()
	assert.False(t, ok)

	c.Reset()
	again, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, "C", string(again.Bytes()))
}

func TestConcurrentInsertAndTraverse(t *testing.T) {
	s := newStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				msg := s.Create()
				_ = s.Write(msg, []byte("payload"))
				_ = s.Insert(msg)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Stat()
			}
		}()
	}
	wg.Wait()

	count, octets := s.Stat()
	assert.Equal(t, 400, count)
	assert.Equal(t, 400*7, octets)
}

func TestEmptyMessageIsTerminated(t *testing.T) {
	s := newStore(0)
	msg := s.Create()
	assert.Equal(t, 0, msg.Cap())

	require.NoError(t, s.Insert(msg))
	assert.Equal(t, 0, msg.Len())
	assert.Equal(t, 1, msg.Cap())
	assert.Empty(t, msg.Bytes())
}

func TestConcurrentDeleteNth(t *testing.T) {
	s := newStore(0)
	for i := 0; i < 200; i++ {
		insert(t, s, "payload")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		deleted = map[string]bool{}
		failed  int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				msg, err := s.DeleteNth(1)
				mu.Lock()
				if err != nil {
					failed++
				} else {
					deleted[msg.ID] = true
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, failed)
	assert.Len(t, deleted, 200)
	count, octets := s.Stat()
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, octets)
}
