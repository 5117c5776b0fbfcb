// Package testutil provides utilities for testing presubmit components.
//
// Key components:
//   - Repo: a throwaway repository on disk with helpers to build the
//     changed-file snapshot of a run
//   - FakeRunner: a toolrun.Runner that answers from scripted results and
//     records every command
//   - finding helpers to compare findings without repeating boilerplate
//
// Usage guidelines:
//   - External tools are never invoked in unit tests; use FakeRunner
//   - All test data should be defined inline
//   - Each test should be completely isolated with no shared state
package testutil
