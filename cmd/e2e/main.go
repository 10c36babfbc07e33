package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/OliverSchlueter/goutils/sloki"
	"github.com/OliverSchlueter/smsgate/internal/auth"
	"github.com/OliverSchlueter/smsgate/internal/gsm"
	"github.com/OliverSchlueter/smsgate/internal/messages"
	"github.com/OliverSchlueter/smsgate/internal/messages/database/memory"
	"github.com/OliverSchlueter/smsgate/internal/pager"
	"github.com/OliverSchlueter/smsgate/internal/pop3"
	"github.com/OliverSchlueter/smsgate/internal/sms"
	"github.com/OliverSchlueter/smsgate/internal/smtp"
	"github.com/wneessen/go-mail"
)

const hostname = "localhost"

// e2e runs SMTP and POP3 in process on loopback ports, delivers one mail
// with go-mail, fetches it back over POP3 and pages an SMS.
func main() {
	lokiService := sloki.NewService(sloki.Configuration{
		URL:          "http://localhost:3100/loki/api/v1/push",
		Service:      "smsgate-e2e",
		ConsoleLevel: slog.LevelDebug,
		LokiLevel:    slog.LevelInfo,
		EnableLoki:   false,
	})
	slog.SetDefault(slog.New(lokiService))

	if err := run(); err != nil {
		slog.Error("End-to-end run failed", sloki.WrapError(err))
		os.Exit(1)
	}
	slog.Info("End-to-end run succeeded")
}

func run() error {
	store := messages.NewStore(messages.Configuration{
		DB: memory.NewDB(),
	})

	// smtp server
	smtpListener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	smtpServer := smtp.NewServer(smtp.Configuration{
		Hostname: hostname,
		Store:    store,
		StripNUL: true,
	})
	go smtpServer.Serve(smtpListener)
	defer smtpServer.Close()

	// pop3 server
	pop3Listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	pop3Server := pop3.NewServer(pop3.Configuration{
		Hostname: hostname,
		Store:    store,
		Auth:     auth.New(auth.Configuration{Username: "smsgate", Password: "e2e"}),
	})
	go pop3Server.Serve(pop3Listener)
	defer pop3Server.Close()

	text := "Hello from e2e {€}"
	if err := deliver(smtpListener.Addr().(*net.TCPAddr).Port, text); err != nil {
		return err
	}

	raw, err := fetch(pop3Listener.Addr().String())
	if err != nil {
		return err
	}
	_, body, ok := strings.Cut(raw, "\r\n\r\n")
	if !ok {
		return fmt.Errorf("retrieved message has no body: %q", raw)
	}
	if got := gsm.DecodeString([]byte(body)); got != text {
		return fmt.Errorf("expected body %q, got %q", text, got)
	}

	gateway := sms.NewGateway(sms.Configuration{
		Pager:       pager.Instrument("log", pager.LogPager{}),
		Store:       store,
		Hostname:    hostname,
		StoreCopies: true,
	})
	result, err := gateway.Send(context.Background(), sms.Request{
		Destination: "+4900000",
		Text:        strings.Repeat("segment test ", 20),
	})
	if err != nil {
		return err
	}
	slog.Info("SMS paged", "segments", len(result.Segments), "message_id", result.MessageID)

	count, octets := store.Stat()
	slog.Info("Store contents", "messages", count, "octets", octets)
	return nil
}

func deliver(port int, text string) error {
	m := mail.NewMsg()
	if err := m.From("e2e@example.com"); err != nil {
		return err
	}
	if err := m.To("localhost@" + hostname); err != nil {
		return err
	}
	m.Subject("e2e")
	m.SetBodyString(mail.TypeTextPlain, strings.TrimRight(gsm.EncodeBase64(gsm.Encode(text)), "="))

	c, err := mail.NewClient(
		"127.0.0.1",
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.NoTLS),
	)
	if err != nil {
		return err
	}

	if err := c.DialAndSend(m); err != nil && !m.IsDelivered() {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// fetch logs in over POP3 and returns the first message.
func fetch(addr string) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	r := bufio.NewReader(conn)
	expect := func(prefix string) (string, error) {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSuffix(line, "\r\n")
		if !strings.HasPrefix(line, prefix) {
			return "", fmt.Errorf("expected %q, got %q", prefix, line)
		}
		return line, nil
	}

	if _, err := expect("+OK"); err != nil {
		return "", err
	}
	for _, cmd := range []string{"USER smsgate", "PASS e2e", "RETR 1"} {
		if _, err := fmt.Fprintf(conn, "%s\r\n", cmd); err != nil {
			return "", err
		}
		if _, err := expect("+OK"); err != nil {
			return "", err
		}
	}

	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSuffix(line, "\r\n")
		if line == "." {
			break
		}
		lines = append(lines, line)
	}

	fmt.Fprintf(conn, "QUIT\r\n")
	return strings.Join(lines, "\r\n"), nil
}
