package pop3

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/OliverSchlueter/goutils/idgen"
	"github.com/OliverSchlueter/goutils/sloki"
	"github.com/OliverSchlueter/smsgate/internal/auth"
	"github.com/OliverSchlueter/smsgate/internal/messages"
	"github.com/OliverSchlueter/smsgate/internal/metrics"
	"github.com/OliverSchlueter/smsgate/internal/textline"
)

const protocol = "pop3"

type Server struct {
	hostname    string
	addr        string
	store       *messages.Store
	auth        *auth.Authenticator
	idleTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
}

type Configuration struct {
	Hostname    string
	Addr        string
	Store       *messages.Store
	Auth        *auth.Authenticator
	IdleTimeout time.Duration
}

func NewServer(config Configuration) *Server {
	if config.Addr == "" {
		config.Addr = ":110"
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 10 * time.Minute
	}
	if config.Auth == nil {
		config.Auth = auth.New(auth.Configuration{})
	}

	return &Server{
		hostname:    config.Hostname,
		addr:        config.Addr,
		store:       config.Store,
		auth:        config.Auth,
		idleTimeout: config.IdleTimeout,
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
		State:      StateAuthorization,
	}

	slog.Debug("New connection established", "remote_addr", session.RemoteAddr, "protocol", protocol)

	c := &connection{
		conn: conn,
		r:    textline.NewReader(conn, s.idleTimeout, textline.DefaultMaxLine),
		w:    bufio.NewWriter(conn),
		idle: s.idleTimeout,
	}

	if err := s.run(session, c); err != nil {
		switch {
		case textline.Timeout(err):
			slog.Warn("Connection timed out", "remote_addr", session.RemoteAddr, "state", session.State.String())
		case errors.Is(err, textline.ErrLineTooLong):
			slog.Warn("Received line exceeds maximum length", "remote_addr", session.RemoteAddr, "state", session.State.String())
		case errors.Is(err, io.EOF):
			slog.Debug("Client dropped connection", "remote_addr", session.RemoteAddr, "state", session.State.String())
		default:
			slog.Warn("Aborting connection", "remote_addr", session.RemoteAddr, sloki.WrapError(err))
		}
		return
	}
	slog.Debug("Connection closed", "remote_addr", session.RemoteAddr)
}

func (s *Server) run(session *Session, c *connection) error {
	if err := c.writeLine(fmt.Sprintf(StatusGreeting, idgen.GenerateID(20), s.hostname)); err != nil {
		return err
	}

	for session.State == StateAuthorization {
		line, err := c.readLine()
		if err != nil {
			return err
		}

		done, err := s.authorize(session, c, line)
		if err != nil || done {
			return err
		}
	}

	for {
		line, err := c.readLine()
		if err != nil {
			return err
		}

		done, err := s.transact(c, line)
		if err != nil || done {
			return err
		}
	}
}

// authorize handles one command before login and reports whether the
// session is over.
func (s *Server) authorize(session *Session, c *connection, line string) (bool, error) {
	if arg, ok := CmdUser.Parse(line); ok {
		countCommand(CmdUser)
		session.Username = arg
		session.UserSet = true
		return false, c.writeLine(fmt.Sprintf(StatusUserSelected, arg))
	}

	if password, ok := CmdPass.Parse(line); ok {
		countCommand(CmdPass)
		if session.UserSet && s.auth.Check(session.Username, password) {
			metrics.AuthenticationAttempts.WithLabelValues(protocol, "success").Inc()
			slog.Info("User logged in", "username", session.Username, "remote_addr", session.RemoteAddr)
			session.State = StateTransaction
			return false, c.writeLine(StatusLoggedIn)
		}

		metrics.AuthenticationAttempts.WithLabelValues(protocol, "failure").Inc()
		slog.Warn("Invalid login attempt", "username", session.Username, "remote_addr", session.RemoteAddr)
		return false, c.writeLine(StatusInvalidLogin)
	}

	switch {
	case CmdQuit.Matches(line):
		countCommand(CmdQuit)
		return true, c.writeLine(StatusOK)
	case CmdCapa.Matches(line):
		countCommand(CmdCapa)
		return false, c.writeMultiline(StatusCapabilities, capabilities)
	case CmdAuthPlain.Matches(line):
		countCommand(CmdAuthPlain)
		return false, c.writeLine(StatusOK)
	case CmdWho.Matches(line):
		countCommand(CmdWho)
		return false, c.writeLine(StatusWho)
	case CmdNoop.Matches(line):
		countCommand(CmdNoop)
		return false, c.writeLine(StatusOK)
	default:
		return false, c.writeLine(StatusNotLoggedIn)
	}
}

// transact handles one command after login and reports whether the session
// is over. Ordinals are resolved against the store at execution time.
func (s *Server) transact(c *connection, line string) (bool, error) {
	if arg, ok := CmdList.Parse(line); ok {
		countCommand(CmdList)
		if arg == "" {
			return false, s.list(c)
		}

		n, err := parseOrdinal(arg)
		if err != nil {
			return false, c.writeLine(StatusNoSuchMessage)
		}
		msg, err := s.store.Nth(n)
		if err != nil {
			return false, c.writeLine(StatusNoSuchMessage)
		}
		return false, c.writeLine(fmt.Sprintf(StatusListEntry, n, msg.Len()))
	}

	if arg, ok := CmdRetr.Parse(line); ok {
		countCommand(CmdRetr)
		n, err := parseOrdinal(arg)
		if err != nil {
			return false, c.writeLine(StatusNonExistingMessage)
		}
		msg, err := s.store.Nth(n)
		if err != nil {
			return false, c.writeLine(StatusNonExistingMessage)
		}
		return false, c.writeMessage(msg)
	}

	if arg, ok := CmdDele.Parse(line); ok {
		countCommand(CmdDele)
		n, err := parseOrdinal(arg)
		if err != nil {
			return false, c.writeLine(StatusNonExistingMessage)
		}
		msg, err := s.store.DeleteNth(n)
		if err != nil {
			if !errors.Is(err, messages.ErrMessageNotFound) {
				slog.Error("Failed to delete message", "ordinal", n, sloki.WrapError(err))
			}
			return false, c.writeLine(StatusNonExistingMessage)
		}
		slog.Info("Message deleted", "message_id", msg.ID, "ordinal", n)
		return false, c.writeLine(fmt.Sprintf(StatusDeleted, n))
	}

	switch {
	case CmdQuit.Matches(line):
		countCommand(CmdQuit)
		return true, c.writeLine(StatusOK)
	case CmdStat.Matches(line):
		countCommand(CmdStat)
		count, octets := s.store.Stat()
		return false, c.writeLine(fmt.Sprintf(StatusStat, count, octets))
	case CmdRset.Matches(line):
		countCommand(CmdRset)
		return false, c.writeLine(StatusOK)
	case CmdWho.Matches(line):
		countCommand(CmdWho)
		return false, c.writeLine(StatusWho)
	case CmdNoop.Matches(line):
		countCommand(CmdNoop)
		return false, c.writeLine(StatusOK)
	default:
		return false, c.writeLine(StatusInvalidCommand)
	}
}

func (s *Server) list(c *connection) error {
	var entries []string
	octets := 0

	cursor := s.store.Cursor()
	for n := 1; ; n++ {
		msg, ok := cursor.Next()
		if !ok {
			break
		}
		octets += msg.Len()
		entries = append(entries, fmt.Sprintf("%d %d", n, msg.Len()))
	}

	return c.writeMultiline(fmt.Sprintf(StatusListing, len(entries), octets), entries)
}

func parseOrdinal(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, messages.ErrMessageNotFound
	}
	return n, nil
}

func countCommand(cmd Command) {
	metrics.CommandsTotal.WithLabelValues(protocol, cmd.Name).Inc()
}

type connection struct {
	conn net.Conn
	r    *textline.Reader
	w    *bufio.Writer
	idle time.Duration
}

func (c *connection) readLine() (string, error) {
	line, err := c.r.ReadLine()
	if err != nil {
		return "", err
	}
	slog.Debug("C: " + line)
	return line, nil
}

func (c *connection) writeLine(line string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.idle)); err != nil {
		return err
	}
	return writeLine(c.w, line)
}

func (c *connection) writeMultiline(status string, lines []string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.idle)); err != nil {
		return err
	}

	c.w.WriteString(status + "\r\n")
	for _, line := range lines {
		c.w.WriteString(line + "\r\n")
	}
	return writeLine(c.w, endOfMultiline)
}

// writeMessage sends the stored bytes unchanged, followed by the end marker.
func (c *connection) writeMessage(msg *messages.Message) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.idle)); err != nil {
		return err
	}

	data := msg.Bytes()
	c.w.WriteString(fmt.Sprintf(StatusRetrieve, len(data)) + "\r\n")
	if _, err := c.w.Write(data); err != nil {
		return err
	}
	c.w.WriteString("\r\n")

	slog.Debug("S: message payload", "message_id", msg.ID, "bytes", len(data))
	return writeLine(c.w, endOfMultiline)
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
