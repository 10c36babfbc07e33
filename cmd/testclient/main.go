package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/OliverSchlueter/smsgate/internal/gsm"
	"github.com/spf13/cobra"
	"github.com/wneessen/go-mail"
)

func main() {
	var (
		host    string
		port    int
		gateway string
		from    string
		subject string
		plain   bool
	)

	rootCmd := &cobra.Command{
		Use:   "testclient [text]",
		Short: "Submit a test mail to a running smsgate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if gateway == "" {
				gateway = host
			}

			body := args[0]
			if !plain {
				body = transportBody(body)
			}
			return send(host, port, from, "localhost@"+gateway, subject, body)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&host, "host", "localhost", "SMTP host of the gateway")
	flags.IntVar(&port, "port", 25, "SMTP port of the gateway")
	flags.StringVar(&gateway, "gateway-hostname", "", "Hostname the gateway announces (default: --host)")
	flags.StringVar(&from, "from", "tester@localhost", "Sender address")
	flags.StringVar(&subject, "subject", "smsgate test", "Subject line")
	flags.BoolVar(&plain, "plain", false, "Send the text as is instead of base64 encoded GSM units")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func send(host string, port int, from, to, subject, body string) error {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return fmt.Errorf("failed to set From address: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("failed to set To address: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)

	c, err := mail.NewClient(
		host,
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.NoTLS),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := c.DialAndSend(m); err != nil {
		// the gateway refuses everything but QUIT once DATA is done
		if m.IsDelivered() {
			fmt.Printf("delivered to %s (gateway rejected follow-up command: %v)\n", to, err)
			return nil
		}
		return fmt.Errorf("failed to send mail: %w", err)
	}

	fmt.Printf("delivered to %s\n", to)
	return nil
}

// transportBody encodes text the way the gateway stores outbound copies. The
// padding is dropped and lines stay short so quoted-printable leaves the
// base64 untouched.
func transportBody(text string) string {
	encoded := strings.TrimRight(gsm.EncodeBase64(gsm.Encode(text)), "=")

	var b strings.Builder
	for len(encoded) > 64 {
		b.WriteString(encoded[:64])
		b.WriteString("\r\n")
		encoded = encoded[64:]
	}
	b.WriteString(encoded)
	return b.String()
}
