package pager

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	destinationPlaceholder = "{destination}"
	textPlaceholder        = "{text}"
)

// ExecPager runs a command once per segment. Arguments are passed to the
// program directly, never through a shell.
type ExecPager struct {
	command []string
	timeout time.Duration
}

type ExecConfiguration struct {
	// Command is the argv; "{destination}" and "{text}" are substituted in
	// every element.
	Command []string
	Timeout time.Duration
}

func NewExecPager(config ExecConfiguration) (*ExecPager, error) {
	if len(config.Command) == 0 || config.Command[0] == "" {
		return nil, ErrNoCommand
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &ExecPager{
		command: config.Command,
		timeout: config.Timeout,
	}, nil
}

func (p *ExecPager) Page(ctx context.Context, destination, text string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	argv := p.Args(destination, text)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to run %s: %w: %s", argv[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Args returns the argv for one invocation.
func (p *ExecPager) Args(destination, text string) []string {
	r := strings.NewReplacer(destinationPlaceholder, destination, textPlaceholder, text)

	argv := make([]string, len(p.command))
	for i, arg := range p.command {
		argv[i] = r.Replace(arg)
	}
	return argv
}
