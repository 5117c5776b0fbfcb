package config

import (
	"bytes"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# presubmit configuration
# Generated from the effective configuration. Place it at <root>/.presubmit.toml
# or at $XDG_CONFIG_HOME/presubmit/config.toml and drop what you do not change.

`

// Marshal renders the configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	enc.SetArraysMultiline(true)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.Bytes(), nil
}

// GenerateConfigContent returns the effective configuration as a config file
func GenerateConfigContent(c *Config) (string, error) {
	body, err := c.Marshal()
	if err != nil {
		return "", err
	}
	return generatedHeader + string(body), nil
}
