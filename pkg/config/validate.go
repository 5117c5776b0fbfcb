package config

import (
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/exclusion"
	"github.com/arthur-debert/presubmit/pkg/rules"
)

// Formats lists the accepted report formats
var Formats = []string{"auto", "term", "text", "json", "junit"}

// Validate checks the values that cannot be caught by decoding
func (c *Config) Validate() error {
	if c.Pipeline.Workers < 1 {
		return invalid("pipeline.workers", c.Pipeline.Workers, "must be at least 1")
	}
	if c.Tools.Timeout <= 0 {
		return invalid("tools.timeout", c.Tools.Timeout.Std().String(), "must be positive")
	}
	if c.Lint.MaxLineLength < 1 {
		return invalid("lint.max_line_length", c.Lint.MaxLineLength, "must be at least 1")
	}
	if _, err := exclusion.Compile(c.Exclusions.Patterns); err != nil {
		return errors.Wrap(err, errors.ErrConfigInvalid, "invalid exclusions.patterns").
			WithDetail("key", "exclusions.patterns")
	}
	if _, err := rules.ParseFilters(c.Lint.Filters...); err != nil {
		return errors.Wrap(err, errors.ErrConfigInvalid, "invalid lint.filters").
			WithDetail("key", "lint.filters")
	}
	if !contains(Formats, c.Report.Format) {
		return invalid("report.format", c.Report.Format, "must be one of auto, term, text, json, junit")
	}
	return nil
}

func invalid(key string, value interface{}, reason string) error {
	return errors.Newf(errors.ErrConfigInvalid, "%s %s (got %v)", key, reason, value).
		WithDetail("key", key).
		WithDetail("value", value)
}
