package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "smsgate", RunE: func(*cobra.Command, []string) error { return nil }}
	RegisterFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "smsgate.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.SMTP.StripNUL)
	assert.Equal(t, "smsgate", cfg.POP3.Username)
	assert.Empty(t, cfg.POP3.Password)
	assert.Equal(t, 140, cfg.SMS.MaxUnits)
	assert.Equal(t, "log", cfg.SMS.Pager.Kind)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(newCommand(t, "--hostname", "gw.example.com"))
	require.NoError(t, err)

	assert.Equal(t, "gw.example.com", cfg.Hostname)
	assert.Equal(t, "127.0.0.1:25", cfg.SMTP.Addr)
}

func TestLoadFallsBackToSystemHostname(t *testing.T) {
	expected, err := os.Hostname()
	require.NoError(t, err)

	cfg, err := Load(newCommand(t))
	require.NoError(t, err)
	assert.Equal(t, expected, cfg.Hostname)
}

func TestLoadFileAndFlags(t *testing.T) {
	path := writeConfig(t, `
hostname = "file.example.com"

[smtp]
addr = ":2525"
idle_timeout = "30s"
strip_nul = false
max_message_size = 1048576

[pop3]
username = "operator"
password = "secret"

[sms]
max_units = 70
store_copies = true

[sms.pager]
kind = "exec"
command = ["sendsms", "{destination}", "{text}"]
timeout = "5s"

[logging]
level = "debug"
`)

	cfg, err := Load(newCommand(t, "--config", path, "--smtp-addr", ":2626"))
	require.NoError(t, err)

	assert.Equal(t, "file.example.com", cfg.Hostname)
	assert.Equal(t, ":2626", cfg.SMTP.Addr)
	assert.False(t, cfg.SMTP.StripNUL)
	assert.Equal(t, 1048576, cfg.SMTP.MaxMessageSize)
	assert.Equal(t, "127.0.0.1:110", cfg.POP3.Addr)
	assert.Equal(t, "operator", cfg.POP3.Username)
	assert.Equal(t, "secret", cfg.POP3.Password)
	assert.Equal(t, 70, cfg.SMS.MaxUnits)
	assert.True(t, cfg.SMS.StoreCopies)
	assert.Equal(t, []string{"sendsms", "{destination}", "{text}"}, cfg.SMS.Pager.Command)

	idle, err := cfg.SMTP.GetIdleTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, idle)

	timeout, err := cfg.SMS.Pager.GetTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)

	level, err := cfg.Logging.GetLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []string{
		"[smtp]\nidle_timeout = \"soon\"\n",
		"[pop3]\nidle_timeout = \"-1s\"\n",
		"[logging]\nlevel = \"loud\"\n",
		"[smtp]\nmax_message_size = -1\n",
		"[sms]\nmax_units = -5\n",
	}

	for _, content := range tests {
		_, err := Load(newCommand(t, "--config", writeConfig(t, content), "--hostname", "h"))
		assert.ErrorIs(t, err, ErrInvalidConfig, content)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	_, err := Load(newCommand(t, "--config", writeConfig(t, "hostname = "), "--hostname", "h"))
	assert.Error(t, err)

	_, err = Load(newCommand(t, "--config", filepath.Join(t.TempDir(), "missing.toml")))
	assert.Error(t, err)
}

func TestDurationDefaults(t *testing.T) {
	idle, err := POP3Config{}.GetIdleTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, idle)
}
