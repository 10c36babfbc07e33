package pager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaPager calls page(destination, text) from a script. A string returned
// by page is treated as an error message. The script may call log(msg).
type LuaPager struct {
	mu sync.Mutex
	L  *lua.LState
	fn lua.LValue
}

func LoadLuaPager(path string) (*LuaPager, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pager script: %w", err)
	}
	return NewLuaPager(string(source))
}

func NewLuaPager(source string) (*LuaPager, error) {
	L := lua.NewState()
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		slog.Info("Pager script: " + L.CheckString(1))
		return 0
	}))

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load pager script: %w", err)
	}

	fn := L.GetGlobal("page")
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, ErrNoPageFunction
	}

	return &LuaPager{L: L, fn: fn}, nil
}

func (p *LuaPager) Page(ctx context.Context, destination, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.L.SetContext(ctx)
	defer p.L.RemoveContext()

	top := p.L.GetTop()
	if err := p.L.CallByParam(lua.P{
		Fn:      p.fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(destination), lua.LString(text)); err != nil {
		p.L.SetTop(top)
		return fmt.Errorf("pager script failed: %w", err)
	}

	ret := p.L.Get(-1)
	p.L.SetTop(top)

	if msg, ok := ret.(lua.LString); ok && msg != "" {
		return fmt.Errorf("%w: %s", ErrPagerRejected, string(msg))
	}
	return nil
}

func (p *LuaPager) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.L.Close()
}
