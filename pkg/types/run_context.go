package types

// RunContext is everything a check may read during one pipeline invocation.
// It is created once per invocation and never mutated after checks start.
type RunContext struct {
	// ID correlates log lines of one invocation
	ID string

	// Mode is the operation being guarded
	Mode Mode

	// Root is the local repository root external tools run in
	Root string

	// Files is the changed-file set after exclusion filtering, sorted by Path
	Files []*ChangedFile
}

// FilesWhere returns the files matching pred, preserving order
func (rc *RunContext) FilesWhere(pred func(*ChangedFile) bool) []*ChangedFile {
	var out []*ChangedFile
	for _, f := range rc.Files {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}
