package messages

import "time"

type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// Message is one stored mail item. Until it is inserted it belongs to the
// session building it; afterwards its content never changes.
type Message struct {
	ID         string
	Seq        uint64 // assigned by the DB on insert, orders traversal
	Direction  Direction
	ReceivedAt time.Time

	data     []byte
	length   int
	inserted bool
}

// Len is the number of valid bytes written, independent of Cap.
func (m *Message) Len() int {
	return m.length
}

// Cap is the size of the backing buffer.
func (m *Message) Cap() int {
	return len(m.data)
}

// Bytes returns the message content. Callers must not modify it.
func (m *Message) Bytes() []byte {
	return m.data[:m.length:m.length]
}

// append grows the buffer by one byte, doubling the backing storage each
// time the length reaches a power of two.
func (m *Message) append(b byte, maxSize int) error {
	if m.inserted {
		return ErrMessageSealed
	}

	n := m.length + 1
	if n <= 0 || (maxSize > 0 && n > maxSize) {
		m.release()
		return ErrMessageTooLarge
	}

	if n&(n-1) == 0 {
		grown := make([]byte, 2*n)
		copy(grown, m.data[:m.length])
		m.data = grown
	}

	m.data[n-1] = b
	m.length = n
	return nil
}

// seal zero-terminates the content. The terminator lives in the spare
// capacity and is not counted by Len.
func (m *Message) seal() {
	if m.length == len(m.data) {
		grown := make([]byte, m.length+1)
		copy(grown, m.data[:m.length])
		m.data = grown
	}
	m.data[m.length] = 0
}

func (m *Message) release() {
	m.data = nil
	m.length = 0
}
