package types

import (
	"bytes"
	"path"
	"strings"
	"sync"

	"github.com/arthur-debert/presubmit/pkg/elide"
)

// FileKind classifies a changed file for rule and check predicates
type FileKind string

const (
	// FileKindHeader is a C/C++ declaration file
	FileKindHeader FileKind = "header"

	// FileKindSource is a C/C++ (or Objective-C) definition file
	FileKindSource FileKind = "source"

	// FileKindBuild is a GN build file
	FileKindBuild FileKind = "build"

	// FileKindOther is anything else
	FileKindOther FileKind = "other"
)

var kindByExt = map[string]FileKind{
	".h":   FileKindHeader,
	".hh":  FileKindHeader,
	".hpp": FileKindHeader,
	".cc":  FileKindSource,
	".cpp": FileKindSource,
	".cxx": FileKindSource,
	".c":   FileKindSource,
	".m":   FileKindSource,
	".mm":  FileKindSource,
	".gn":  FileKindBuild,
	".gni": FileKindBuild,
}

// ClassifyKind returns the FileKind for a slash-separated path
func ClassifyKind(p string) FileKind {
	if path.Base(p) == "BUILD.gn" {
		return FileKindBuild
	}
	if kind, ok := kindByExt[strings.ToLower(path.Ext(p))]; ok {
		return kind
	}
	return FileKindOther
}

// binarySniffLen is how much of a file is inspected for NUL bytes
const binarySniffLen = 8 << 10

// ChangedFile is the immutable snapshot of one file touched by the revision.
// Lines and their elided shadow must not be modified by callers.
type ChangedFile struct {
	// Path is the slash-separated path relative to the repository root
	Path string

	// AbsPath is the absolute path on disk
	AbsPath string

	// Kind drives rule and check predicates
	Kind FileKind

	// Binary is set when the content looks binary; binary files have no lines
	Binary bool

	content []byte
	lines   []string

	elideOnce sync.Once
	elided    []string
}

// NewChangedFile builds a snapshot from content read at absPath.
// The content slice is retained and must not be modified afterwards.
func NewChangedFile(relPath, absPath string, content []byte) *ChangedFile {
	f := &ChangedFile{
		Path:    relPath,
		AbsPath: absPath,
		Kind:    ClassifyKind(relPath),
		content: content,
	}

	sniff := content
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		f.Binary = true
		f.Kind = FileKindOther
		return f
	}

	f.lines = splitLines(string(content))
	return f
}

// splitLines splits on \n; a trailing newline does not produce an empty line
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Content returns the raw bytes of the snapshot
func (f *ChangedFile) Content() []byte {
	return f.content
}

// Lines returns the physical lines of the file, without line terminators
func (f *ChangedFile) Lines() []string {
	return f.lines
}

// Elided returns the comment and string cleansed shadow of Lines.
// It is computed on first use and shared by all readers.
func (f *ChangedFile) Elided() []string {
	f.elideOnce.Do(func() {
		f.elided = elide.Lines(f.lines)
	})
	return f.elided
}

// IsCpp reports whether the file is a C/C++ header or source file
func (f *ChangedFile) IsCpp() bool {
	return f.Kind == FileKindHeader || f.Kind == FileKindSource
}
