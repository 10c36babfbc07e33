package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OliverSchlueter/goutils/sloki"
	"github.com/OliverSchlueter/smsgate/internal/auth"
	"github.com/OliverSchlueter/smsgate/internal/config"
	"github.com/OliverSchlueter/smsgate/internal/inboxhandler"
	"github.com/OliverSchlueter/smsgate/internal/messages"
	"github.com/OliverSchlueter/smsgate/internal/messages/database/memory"
	"github.com/OliverSchlueter/smsgate/internal/pager"
	"github.com/OliverSchlueter/smsgate/internal/pop3"
	"github.com/OliverSchlueter/smsgate/internal/sms"
	"github.com/OliverSchlueter/smsgate/internal/smtp"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "smsgate",
		Short: "Mail to SMS gateway with SMTP ingestion and POP3 retrieval",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}

			level, err := cfg.Logging.GetLevel()
			if err != nil {
				return err
			}
			lokiService := sloki.NewService(sloki.Configuration{
				URL:          cfg.Logging.LokiURL,
				Service:      "smsgate",
				ConsoleLevel: level,
				LokiLevel:    slog.LevelInfo,
				EnableLoki:   cfg.Logging.EnableLoki,
			})
			slog.SetDefault(slog.New(lokiService))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	config.RegisterFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	smtpIdle, err := cfg.SMTP.GetIdleTimeout()
	if err != nil {
		return err
	}
	pop3Idle, err := cfg.POP3.GetIdleTimeout()
	if err != nil {
		return err
	}
	pagerTimeout, err := cfg.SMS.Pager.GetTimeout()
	if err != nil {
		return err
	}

	// messages
	store := messages.NewStore(messages.Configuration{
		DB:             memory.NewDB(),
		MaxMessageSize: cfg.SMTP.MaxMessageSize,
	})

	// sms
	p, err := pager.New(pager.Configuration{
		Kind:    cfg.SMS.Pager.Kind,
		Command: cfg.SMS.Pager.Command,
		Script:  cfg.SMS.Pager.Script,
		Timeout: pagerTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to set up pager: %w", err)
	}
	gateway := sms.NewGateway(sms.Configuration{
		Pager:       p,
		Store:       store,
		Hostname:    cfg.Hostname,
		MaxUnits:    cfg.SMS.MaxUnits,
		StoreCopies: cfg.SMS.StoreCopies,
	})

	// smtp server
	smtpServer := smtp.NewServer(smtp.Configuration{
		Hostname:    cfg.Hostname,
		Addr:        cfg.SMTP.Addr,
		Store:       store,
		IdleTimeout: smtpIdle,
		StripNUL:    cfg.SMTP.StripNUL,
		VerifyDKIM:  cfg.SMTP.VerifyDKIM,
	})

	// pop3 server
	pop3Server := pop3.NewServer(pop3.Configuration{
		Hostname: cfg.Hostname,
		Addr:     cfg.POP3.Addr,
		Store:    store,
		Auth: auth.New(auth.Configuration{
			Username: cfg.POP3.Username,
			Password: cfg.POP3.Password,
		}),
		IdleTimeout: pop3Idle,
	})

	// http api
	router := mux.NewRouter()
	inboxhandler.New(store, gateway).Register("/api/v1", router)
	router.Handle("/metrics", promhttp.Handler())
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 3)
	go func() { errs <- smtpServer.Start() }()
	slog.Info("Started SMTP server", "addr", cfg.SMTP.Addr, "hostname", cfg.Hostname)
	go func() { errs <- pop3Server.Start() }()
	slog.Info("Started POP3 server", "addr", cfg.POP3.Addr)
	go func() {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- err
			return
		}
		errs <- nil
	}()
	slog.Info("Started HTTP server", "addr", cfg.HTTP.Addr)

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
	case runErr = <-errs:
		slog.Error("Server stopped unexpectedly", sloki.WrapError(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = smtpServer.Close()
	_ = pop3Server.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Failed to shut down HTTP server", sloki.WrapError(err))
	}
	if closer, ok := p.(interface{ Close() }); ok {
		closer.Close()
	}

	return runErr
}
