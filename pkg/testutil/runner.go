package testutil

import (
	"context"
	"sync"

	"github.com/arthur-debert/presubmit/pkg/toolrun"
)

// FakeRunner is a toolrun.Runner answering from a script. It is safe for
// concurrent use.
type FakeRunner struct {
	mu       sync.Mutex
	commands []toolrun.Command

	// Script computes the result of a command; nil returns a clean exit
	Script func(cmd toolrun.Command) (toolrun.Result, error)
}

// NewFakeRunner creates a runner answering with script
func NewFakeRunner(script func(cmd toolrun.Command) (toolrun.Result, error)) *FakeRunner {
	return &FakeRunner{Script: script}
}

// Run records cmd and replays the scripted answer
func (f *FakeRunner) Run(_ context.Context, cmd toolrun.Command) (toolrun.Result, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()

	if f.Script == nil {
		return toolrun.Result{}, nil
	}
	return f.Script(cmd)
}

// Commands returns the commands run so far
func (f *FakeRunner) Commands() []toolrun.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]toolrun.Command(nil), f.commands...)
}

// CommandsNamed returns the commands whose executable is name
func (f *FakeRunner) CommandsNamed(name string) []toolrun.Command {
	var out []toolrun.Command
	for _, c := range f.Commands() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
