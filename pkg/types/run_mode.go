package types

import "fmt"

// Mode is the operation the pipeline is guarding
type Mode string

const (
	// ModeUpload runs before a revision is uploaded for review.
	// Blocking findings may be overridden by a human.
	ModeUpload Mode = "upload"

	// ModeCommit runs before a revision lands. Blocking findings are fatal.
	ModeCommit Mode = "commit"
)

// ParseMode parses "upload" or "commit"
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeUpload, ModeCommit:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}
