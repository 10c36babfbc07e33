// Package textline frames a connection into CRLF terminated protocol lines.
package textline

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"
)

const DefaultMaxLine = 1024

var ErrLineTooLong = errors.New("line too long")

// Reader is owned by exactly one connection. Every read from the network
// pushes the read deadline forward by the idle timeout.
type Reader struct {
	r       *bufio.Reader
	maxLine int
	buf     []byte
}

func NewReader(conn net.Conn, idle time.Duration, maxLine int) *Reader {
	if maxLine <= 1 {
		maxLine = DefaultMaxLine
	}

	var src io.Reader = conn
	if idle > 0 {
		src = &deadlineReader{conn: conn, idle: idle}
	}

	return &Reader{
		r:       bufio.NewReader(src),
		maxLine: maxLine,
		buf:     make([]byte, 0, 128),
	}
}

// ReadLine returns the next line without its CR LF terminator. A bare LF is
// part of the line. It returns io.EOF if the stream ends or fails before a
// terminator and ErrLineTooLong once maxLine-1 bytes are buffered without
// one; both are fatal for the connection.
func (r *Reader) ReadLine() (string, error) {
	r.buf = r.buf[:0]

	prev, err := r.r.ReadByte()
	if err != nil {
		return "", eof(err)
	}

	for {
		cur, err := r.r.ReadByte()
		if err != nil {
			return "", eof(err)
		}

		if prev == '\r' && cur == '\n' {
			return string(r.buf), nil
		}

		if len(r.buf) == r.maxLine-1 {
			return "", ErrLineTooLong
		}
		r.buf = append(r.buf, prev)
		prev = cur
	}
}

// ReadByte reads one raw byte from the same buffered stream.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, eof(err)
	}
	return b, nil
}

// Timeout reports whether err came from an expired idle deadline.
func Timeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func eof(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	return errors.Join(io.EOF, err)
}

type deadlineReader struct {
	conn net.Conn
	idle time.Duration
}

func (d *deadlineReader) Read(p []byte) (int, error) {
	if err := d.conn.SetReadDeadline(time.Now().Add(d.idle)); err != nil {
		return 0, err
	}
	return d.conn.Read(p)
}
