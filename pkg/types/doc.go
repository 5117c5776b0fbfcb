// Package types defines the value types shared by every stage of the
// presubmit pipeline: the immutable ChangedFile snapshot, Finding, the
// per-invocation RunContext and the final Verdict.
package types
