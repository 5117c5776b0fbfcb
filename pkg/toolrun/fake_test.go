package toolrun

import (
	"context"
	"sync"
)

// fakeRunner replays canned results and records the commands it was given
type fakeRunner struct {
	mu       sync.Mutex
	result   Result
	err      error
	commands []Command
	run      func(cmd Command)
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (Result, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()
	if f.run != nil {
		f.run(cmd)
	}
	return f.result, f.err
}
