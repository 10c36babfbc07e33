// Package pager hands finished SMS segments to the program or script that
// delivers them.
package pager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/OliverSchlueter/smsgate/internal/metrics"
)

var (
	ErrNoCommand      = errors.New("no pager command configured")
	ErrNoPageFunction = errors.New("script does not define a page function")
	ErrUnknownPager   = errors.New("unknown pager kind")
	ErrPagerRejected  = errors.New("pager rejected segment")
)

// Pager delivers one segment of at most one SMS worth of text.
type Pager interface {
	Page(ctx context.Context, destination, text string) error
}

type instrumented struct {
	name string
	next Pager
}

// Instrument records the duration and outcome of every call to p.
func Instrument(name string, p Pager) Pager {
	return &instrumented{name: name, next: p}
}

func (i *instrumented) Page(ctx context.Context, destination, text string) error {
	start := time.Now()
	err := i.next.Page(ctx, destination, text)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.PagerDuration.WithLabelValues(i.name, status).Observe(time.Since(start).Seconds())
	return err
}

// Close releases the wrapped pager if it holds resources.
func (i *instrumented) Close() {
	if c, ok := i.next.(interface{ Close() }); ok {
		c.Close()
	}
}

type LogPager struct{}

func (LogPager) Page(ctx context.Context, destination, text string) error {
	slog.Info("Dry-run page", "destination", destination, "text", text)
	return nil
}

type Configuration struct {
	// Kind is one of "log", "exec" or "lua".
	Kind    string
	Command []string
	Script  string
	Timeout time.Duration
}

// New builds the configured pager, instrumented under its kind.
func New(config Configuration) (Pager, error) {
	var (
		p   Pager
		err error
	)

	switch config.Kind {
	case "", "log":
		config.Kind = "log"
		p = LogPager{}
	case "exec":
		p, err = NewExecPager(ExecConfiguration{Command: config.Command, Timeout: config.Timeout})
	case "lua":
		p, err = LoadLuaPager(config.Script)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPager, config.Kind)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(config.Kind, p), nil
}
