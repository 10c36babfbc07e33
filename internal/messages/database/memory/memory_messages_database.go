package memory

import (
	"sort"
	"sync"

	"github.com/OliverSchlueter/smsgate/internal/messages"
)

type DB struct {
	Messages []*messages.Message
	nextSeq  uint64
	mu       sync.RWMutex
}

func NewDB() *DB {
	return &DB{
		Messages: []*messages.Message{},
		mu:       sync.RWMutex{},
	}
}

func (db *DB) Insert(msg *messages.Message) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.Messages {
		if existing.ID == msg.ID {
			return messages.ErrMessageAlreadyExists
		}
	}

	db.nextSeq++
	msg.Seq = db.nextSeq
	db.Messages = append(db.Messages, msg)
	return nil
}

func (db *DB) Delete(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, msg := range db.Messages {
		if msg.ID == id {
			db.Messages = append(db.Messages[:i], db.Messages[i+1:]...)
			return nil
		}
	}
	return messages.ErrMessageNotFound
}

// DeleteNth finds and removes the message at 1-based ordinal n in one step.
func (db *DB) DeleteNth(n int) (*messages.Message, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if n < 1 || n > len(db.Messages) {
		return nil, messages.ErrMessageNotFound
	}

	msg := db.Messages[n-1]
	db.Messages = append(db.Messages[:n-1], db.Messages[n:]...)
	return msg, nil
}

func (db *DB) Nth(n int) (*messages.Message, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if n < 1 || n > len(db.Messages) {
		return nil, false
	}
	return db.Messages[n-1], true
}

func (db *DB) Stat() (count int, octets int) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, msg := range db.Messages {
		octets += msg.Len()
	}
	return len(db.Messages), octets
}

func (db *DB) Next(afterSeq uint64) (*messages.Message, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	// Messages is ordered by Seq since Insert only appends
	i := sort.Search(len(db.Messages), func(i int) bool {
		return db.Messages[i].Seq > afterSeq
	})
	if i == len(db.Messages) {
		return nil, false
	}
	return db.Messages[i], true
}

func (db *DB) List() []*messages.Message {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]*messages.Message, len(db.Messages))
	copy(out, db.Messages)
	return out
}
