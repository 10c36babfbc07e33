package messages

import (
	"time"

	"github.com/OliverSchlueter/smsgate/internal/metrics"
	"github.com/google/uuid"
)

type DB interface {
	Insert(msg *Message) error
	Delete(id string) error
	// Next returns the first message whose Seq is greater than afterSeq.
	Next(afterSeq uint64) (*Message, bool)
	List() []*Message
	// Nth, DeleteNth and Stat each see one consistent view of the
	// collection, with ordinals counted from 1 in insertion order.
	Nth(n int) (*Message, bool)
	DeleteNth(n int) (*Message, error)
	Stat() (count int, octets int)
}

// Store is the process-lifetime collection of committed messages. All
// access to the underlying DB is serialized by the DB itself, so any
// number of protocol sessions may share one Store.
type Store struct {
	db      DB
	maxSize int
}

type Configuration struct {
	DB DB
	// MaxMessageSize bounds a single message in bytes, 0 means unbounded.
	MaxMessageSize int
}

func NewStore(cfg Configuration) *Store {
	return &Store{
		db:      cfg.DB,
		maxSize: cfg.MaxMessageSize,
	}
}

// Create returns an empty message that is not yet visible to traversals.
func (s *Store) Create() *Message {
	return &Message{
		ID:         uuid.New().String(),
		Direction:  Inbound,
		ReceivedAt: time.Now(),
	}
}

// Append grows msg by one byte. On failure the message content is released
// and the message must be discarded.
func (s *Store) Append(msg *Message, b byte) error {
	return msg.append(b, s.maxSize)
}

// Write appends every byte of p, stopping at the first failure.
func (s *Store) Write(msg *Message, p []byte) error {
	for _, b := range p {
		if err := msg.append(b, s.maxSize); err != nil {
			return err
		}
	}
	return nil
}

// Insert seals msg and makes it visible at the tail of the collection.
func (s *Store) Insert(msg *Message) error {
	if msg.inserted {
		return ErrAlreadyInserted
	}

	msg.seal()
	msg.inserted = true
	if err := s.db.Insert(msg); err != nil {
		msg.inserted = false
		return err
	}

	metrics.MessagesStored.WithLabelValues(string(msg.Direction)).Inc()
	metrics.StoreMessagesCurrent.Inc()
	metrics.StoreBytesCurrent.Add(float64(msg.length))
	return nil
}

// Delete removes msg from the collection. A message that was never inserted
// only has its storage released.
func (s *Store) Delete(msg *Message) error {
	if !msg.inserted {
		msg.release()
		return nil
	}

	if err := s.db.Delete(msg.ID); err != nil {
		return err
	}

	metrics.MessagesDeleted.Inc()
	metrics.StoreMessagesCurrent.Dec()
	metrics.StoreBytesCurrent.Sub(float64(msg.length))
	return nil
}

// List returns the visible messages in traversal order.
func (s *Store) List() []*Message {
	return s.db.List()
}

// Nth returns the message at 1-based ordinal n in current traversal order.
func (s *Store) Nth(n int) (*Message, error) {
	msg, ok := s.db.Nth(n)
	if !ok {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

// DeleteNth removes the message at 1-based ordinal n. Lookup and removal
// happen under the same lock, so concurrent sessions never see an ordinal
// vanish between the two.
func (s *Store) DeleteNth(n int) (*Message, error) {
	msg, err := s.db.DeleteNth(n)
	if err != nil {
		return nil, err
	}

	metrics.MessagesDeleted.Inc()
	metrics.StoreMessagesCurrent.Dec()
	metrics.StoreBytesCurrent.Sub(float64(msg.length))
	return msg, nil
}

// Count returns the number of visible messages.
func (s *Store) Count() int {
	count, _ := s.db.Stat()
	return count
}

// Stat returns the number of visible messages and their summed length.
func (s *Store) Stat() (count int, octets int) {
	return s.db.Stat()
}

// Cursor starts a new traversal at the head of the collection.
func (s *Store) Cursor() *Cursor {
	return &Cursor{db: s.db}
}

// Cursor walks the collection in insertion order. It survives deletions:
// each step resumes after the last message it returned.
type Cursor struct {
	db      DB
	lastSeq uint64
	done    bool
}

func (c *Cursor) Next() (*Message, bool) {
	if c.done {
		return nil, false
	}

	msg, ok := c.db.Next(c.lastSeq)
	if !ok {
		c.done = true
		return nil, false
	}
	c.lastSeq = msg.Seq
	return msg, true
}

// Reset makes the next call to Next start again at the head.
func (c *Cursor) Reset() {
	c.lastSeq = 0
	c.done = false
}
