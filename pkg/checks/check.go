package checks

import (
	"context"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/registry"
	"github.com/arthur-debert/presubmit/pkg/types"
)

// Kind classifies how a check does its work
type Kind string

const (
	// KindScan runs line rules through the scanner
	KindScan Kind = "scan"

	// KindWholeFile inspects whole files or the repository
	KindWholeFile Kind = "whole-file"

	// KindExternal invokes an external tool
	KindExternal Kind = "external-tool"
)

// Func is the logic of a check. A returned error means the check itself
// broke; the pipeline turns it into a blocking finding naming the check.
type Func func(ctx context.Context, rc *types.RunContext) ([]types.Finding, error)

// Check is one independently runnable unit of verification
type Check struct {
	ID          string
	Description string
	Kind        Kind

	// WarnOnUpload makes the check's errors count as warnings on upload.
	// Findings keep their severity; only the outcome is affected.
	WarnOnUpload bool

	// UploadOnly checks are skipped in commit mode
	UploadOnly bool

	// Tools are executables that must be on PATH for the check to run
	Tools []string

	Run Func
}

// RunsIn reports whether the check is part of a run in mode
func (c Check) RunsIn(mode types.Mode) bool {
	return !c.UploadOnly || mode == types.ModeUpload
}

// Registry is the ordered set of checks of a pipeline
type Registry struct {
	reg registry.Registry[Check]
}

// NewRegistry creates a registry holding checks in the given order
func NewRegistry(checks ...Check) (*Registry, error) {
	r := &Registry{reg: registry.New[Check]()}
	for _, c := range checks {
		if err := r.Add(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry for static catalogues
func MustRegistry(checks ...Check) *Registry {
	r, err := NewRegistry(checks...)
	if err != nil {
		panic(err)
	}
	return r
}

// Add appends a check. Ids must be unique.
func (r *Registry) Add(c Check) error {
	if c.Run == nil {
		return errors.Newf(errors.ErrInvalidInput, "check %s has no logic", c.ID)
	}
	switch c.Kind {
	case KindScan, KindWholeFile, KindExternal:
	default:
		return errors.Newf(errors.ErrInvalidInput, "check %s has unknown kind %q", c.ID, c.Kind)
	}
	return r.reg.Register(c.ID, c)
}

// Checks returns every check in registration order
func (r *Registry) Checks() []Check {
	return r.reg.Values()
}

// ForMode returns the checks that run in mode, in registration order
func (r *Registry) ForMode(mode types.Mode) []Check {
	var out []Check
	for _, c := range r.Checks() {
		if c.RunsIn(mode) {
			out = append(out, c)
		}
	}
	return out
}

// Get returns the check with the given id
func (r *Registry) Get(id string) (Check, bool) {
	c, err := r.reg.Get(id)
	return c, err == nil
}

// Has reports whether a check id is registered
func (r *Registry) Has(id string) bool {
	return r.reg.Has(id)
}

// Len returns the number of checks
func (r *Registry) Len() int {
	return r.reg.Count()
}

// Without returns a copy of the registry lacking the given ids
func (r *Registry) Without(ids ...string) *Registry {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := &Registry{reg: registry.New[Check]()}
	for _, c := range r.Checks() {
		if !drop[c.ID] {
			_ = out.reg.Register(c.ID, c)
		}
	}
	return out
}

// Tools returns the distinct tools needed by the checks of mode, in order
func (r *Registry) Tools(mode types.Mode) []string {
	seen := make(map[string]bool)
	var tools []string
	for _, c := range r.ForMode(mode) {
		for _, t := range c.Tools {
			if t != "" && !seen[t] {
				seen[t] = true
				tools = append(tools, t)
			}
		}
	}
	return tools
}
