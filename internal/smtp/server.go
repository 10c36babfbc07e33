package smtp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/OliverSchlueter/goutils/sloki"
	"github.com/OliverSchlueter/smsgate/internal/messages"
	"github.com/OliverSchlueter/smsgate/internal/metrics"
	"github.com/OliverSchlueter/smsgate/internal/textline"
)

const protocol = "smtp"

var dataTerminator = [5]byte{'\r', '\n', '.', '\r', '\n'}

type Server struct {
	hostname    string
	addr        string
	store       *messages.Store
	idleTimeout time.Duration
	stripNUL    bool
	verifyDKIM  bool
	lookupTXT   func(domain string) ([]string, error)

	mu       sync.Mutex
	listener net.Listener
}

type Configuration struct {
	Hostname    string
	Addr        string
	Store       *messages.Store
	IdleTimeout time.Duration
	// StripNUL drops NUL bytes from DATA before they are stored.
	StripNUL   bool
	VerifyDKIM bool
	// LookupTXT replaces DNS lookups during DKIM verification.
	LookupTXT func(domain string) ([]string, error)
}

func NewServer(config Configuration) *Server {
	if config.Addr == "" {
		config.Addr = ":25"
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 2 * time.Minute
	}

	return &Server{
		hostname:    config.Hostname,
		addr:        config.Addr,
		store:       config.Store,
		idleTimeout: config.IdleTimeout,
		stripNUL:    config.StripNUL,
		verifyDKIM:  config.VerifyDKIM,
		lookupTXT:   config.LookupTXT,
	}
}

func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(listener)
}

func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	defer listener.Close()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Warn("Failed to accept connection", sloki.WrapError(err))
			continue
		}

		go s.handle(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	metrics.ConnectionsTotal.WithLabelValues(protocol).Inc()
	metrics.ConnectionsCurrent.WithLabelValues(protocol).Inc()
	defer metrics.ConnectionsCurrent.WithLabelValues(protocol).Dec()

	session := &Session{
		RemoteAddr: conn.RemoteAddr().String(),
		State:      StateGreeting,
	}

	slog.Debug("New connection established", "remote_addr", session.RemoteAddr, "protocol", protocol)

	// no partially collected message may outlive the connection
	defer func() {
		if session.Message != nil {
			_ = s.store.Delete(session.Message)
			session.Message = nil
			metrics.MessagesDiscarded.WithLabelValues("aborted").Inc()
		}
	}()

	r := textline.NewReader(conn, s.idleTimeout, textline.DefaultMaxLine)
	w := bufio.NewWriter(conn)

	if err := s.run(session, conn, r, w); err != nil {
		logSessionError(session, err)
		return
	}
	slog.Debug("Connection closed", "remote_addr", session.RemoteAddr)
}

func (s *Server) run(session *Session, conn net.Conn, r *textline.Reader, w *bufio.Writer) error {
	refresh := func() error {
		return conn.SetWriteDeadline(time.Now().Add(s.idleTimeout))
	}

	if err := refresh(); err != nil {
		return err
	}
	if err := writeLine(w, fmt.Sprintf(StatusServiceReady, s.hostname)); err != nil {
		return err
	}

	session.State = StateHandshake
	line, err := readLine(r)
	if err != nil {
		return err
	}
	if !CmdHelo.Matches(line) && !CmdEhlo.Matches(line) {
		return fmt.Errorf("expected HELO or EHLO, got %q", line)
	}
	session.Hostname = CmdHelo.Argument(line)

	if err := refresh(); err != nil {
		return err
	}
	if err := writeLine(w, fmt.Sprintf(StatusHello, session.Hostname)); err != nil {
		return err
	}

	session.State = StateTransaction
	for session.State == StateTransaction {
		line, err := readLine(r)
		if err != nil {
			return err
		}
		if err := refresh(); err != nil {
			return err
		}

		switch {
		case CmdMailFrom.Matches(line):
			countCommand(CmdMailFrom)
			session.From = strings.TrimSpace(CmdMailFrom.Argument(line))
			err = writeLine(w, StatusOK)

		case CmdRcptTo.Matches(line):
			countCommand(CmdRcptTo)
			rcpt := strings.TrimSpace(CmdRcptTo.Argument(line))
			if rcpt == s.localRecipient() {
				session.To = append(session.To, rcpt)
				err = writeLine(w, StatusOK)
			} else {
				slog.Debug("Recipient is not local", "recipient", rcpt, "remote_addr", session.RemoteAddr)
				err = writeLine(w, StatusUserNotLocal)
			}

		case CmdData.Matches(line):
			countCommand(CmdData)
			err = s.collect(session, conn, r, w)

		case CmdNoop.Matches(line):
			countCommand(CmdNoop)
			err = writeLine(w, StatusOK)

		case CmdRset.Matches(line):
			countCommand(CmdRset)
			session.From = ""
			session.To = nil
			err = writeLine(w, StatusOK)

		case CmdQuit.Matches(line):
			// the session lasts until the client hangs up
			countCommand(CmdQuit)
			err = writeLine(w, StatusBye)

		default:
			err = writeLine(w, StatusNotImplemented)
		}

		if err != nil {
			return err
		}
	}

	for {
		line, err := readLine(r)
		if err != nil {
			return err
		}
		if err := refresh(); err != nil {
			return err
		}

		reply := StatusNotImplemented
		if CmdQuit.Matches(line) {
			countCommand(CmdQuit)
			reply = StatusBye
		}
		if err := writeLine(w, reply); err != nil {
			return err
		}
	}
}

// collect streams raw DATA bytes into a new message until the CR LF . CR LF
// terminator. The terminator is matched on a sliding window over the raw
// stream, so dot lines inside the body are stored unchanged.
func (s *Server) collect(session *Session, conn net.Conn, r *textline.Reader, w *bufio.Writer) error {
	if err := writeLine(w, StatusStartMailInput); err != nil {
		return err
	}

	session.State = StateCollect
	session.Message = s.store.Create()

	// the CR LF ending the DATA line opens the window, so ".\r\n" right
	// away ends an empty body
	window := [5]byte{'\r', '\n'}
	primed := 2
	for i := 2; i < len(window); i++ {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		window[i] = b
	}

	for window != dataTerminator {
		switch {
		case primed > 0:
			primed--
		case window[0] == 0 && s.stripNUL:
		default:
			if err := s.store.Append(session.Message, window[0]); err != nil {
				metrics.MessagesDiscarded.WithLabelValues("too_large").Inc()
				session.Message = nil
				return fmt.Errorf("failed to append to message: %w", err)
			}
		}

		copy(window[:4], window[1:])
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		window[4] = b
	}

	msg := session.Message
	if err := s.store.Insert(msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	session.Message = nil
	session.State = StatePost

	slog.Info("Incoming mail received", "message_id", msg.ID, "bytes", msg.Len(), "from", session.From, "remote_addr", session.RemoteAddr)

	if s.verifyDKIM {
		go s.checkDKIM(msg)
	}

	if err := conn.SetWriteDeadline(time.Now().Add(s.idleTimeout)); err != nil {
		return err
	}
	return writeLine(w, StatusOK)
}

func (s *Server) localRecipient() string {
	return fmt.Sprintf("<localhost@%s>", s.hostname)
}

func readLine(r *textline.Reader) (string, error) {
	line, err := r.ReadLine()
	if err != nil {
		return "", err
	}
	slog.Debug("C: " + line)
	return line, nil
}

func countCommand(cmd Command) {
	metrics.CommandsTotal.WithLabelValues(protocol, cmd.Name).Inc()
}

func logSessionError(session *Session, err error) {
	switch {
	case textline.Timeout(err):
		slog.Warn("Connection timed out", "remote_addr", session.RemoteAddr, "state", session.State.String())
	case errors.Is(err, textline.ErrLineTooLong):
		slog.Warn("Received line exceeds maximum length", "remote_addr", session.RemoteAddr, "state", session.State.String())
	case errors.Is(err, io.EOF):
		slog.Debug("Client dropped connection", "remote_addr", session.RemoteAddr, "state", session.State.String())
	default:
		slog.Warn("Aborting connection", "remote_addr", session.RemoteAddr, "state", session.State.String(), sloki.WrapError(err))
	}
}

func writeLine(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line + "\r\n"); err != nil {
		slog.Error("Failed to write to connection", sloki.WrapError(err))
		return err
	}
	if err := w.Flush(); err != nil {
		slog.Error("Failed to flush writer", sloki.WrapError(err))
		return err
	}

	slog.Debug("S: " + line)
	return nil
}
