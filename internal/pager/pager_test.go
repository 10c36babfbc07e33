package pager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestExecPagerArgs(t *testing.T) {
	p, err := NewExecPager(ExecConfiguration{
		Command: []string{"sendsms", "-n", "{destination}", "--text={text}"},
	})
	require.NoError(t, err)

	args := p.Args("+4912345", "hello {destination}")
	assert.Equal(t, []string{"sendsms", "-n", "+4912345", "--text=hello {destination}"}, args)
}

func TestExecPagerRequiresCommand(t *testing.T) {
	_, err := NewExecPager(ExecConfiguration{})
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestExecPagerExitStatus(t *testing.T) {
	ok, err := NewExecPager(ExecConfiguration{Command: []string{"true"}})
	require.NoError(t, err)
	assert.NoError(t, ok.Page(context.Background(), "123", "hi"))

	fail, err := NewExecPager(ExecConfiguration{Command: []string{"false"}})
	require.NoError(t, err)
	assert.Error(t, fail.Page(context.Background(), "123", "hi"))
}

func TestExecPagerTimeout(t *testing.T) {
	p, err := NewExecPager(ExecConfiguration{
		Command: []string{"sleep", "5"},
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	assert.Error(t, p.Page(context.Background(), "123", "hi"))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestLuaPager(t *testing.T) {
	p, err := NewLuaPager(`
sent = {}

function page(destination, text)
	if destination == "000" then
		return "blocked destination"
	end
	table.insert(sent, destination .. ":" .. text)
	log("paged " .. destination)
end
`)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Page(context.Background(), "+4912", "first"))
	require.NoError(t, p.Page(context.Background(), "+4912", "second"))

	err = p.Page(context.Background(), "000", "third")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPagerRejected))
	assert.Contains(t, err.Error(), "blocked destination")

	sent := p.L.GetGlobal("sent")
	assert.Equal(t, "+4912:second", p.L.GetTable(sent, lua.LNumber(2)).String())
}

func TestLuaPagerScriptError(t *testing.T) {
	p, err := NewLuaPager(`function page(destination, text) error("boom") end`)
	require.NoError(t, err)
	defer p.Close()

	err = p.Page(context.Background(), "1", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	// the state stays usable after a failed call
	err = p.Page(context.Background(), "1", "x")
	assert.Contains(t, err.Error(), "boom")
}

func TestLuaPagerMissingFunction(t *testing.T) {
	_, err := NewLuaPager(`x = 1`)
	assert.ErrorIs(t, err, ErrNoPageFunction)

	_, err = NewLuaPager(`function page(`)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	p, err := New(Configuration{})
	require.NoError(t, err)
	assert.NoError(t, p.Page(context.Background(), "123", "dry run"))

	_, err = New(Configuration{Kind: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrUnknownPager)

	_, err = New(Configuration{Kind: "exec"})
	assert.ErrorIs(t, err, ErrNoCommand)

	script := filepath.Join(t.TempDir(), "page.lua")
	require.NoError(t, os.WriteFile(script, []byte(`function page(d, t) return nil end`), 0o600))

	p, err = New(Configuration{Kind: "lua", Script: script})
	require.NoError(t, err)
	assert.NoError(t, p.Page(context.Background(), "123", "hi"))
}
