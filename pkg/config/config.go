package config

import (
	"time"
)

// Config is the effective configuration of a run
type Config struct {
	Exclusions   Exclusions   `koanf:"exclusions" toml:"exclusions"`
	Pipeline     Pipeline     `koanf:"pipeline" toml:"pipeline"`
	Checks       Checks       `koanf:"checks" toml:"checks"`
	Lint         Lint         `koanf:"lint" toml:"lint"`
	Tools        Tools        `koanf:"tools" toml:"tools"`
	RemoteConfig RemoteConfig `koanf:"remote_config" toml:"remote_config"`
	ThirdParty   ThirdParty   `koanf:"third_party" toml:"third_party"`
	Report       Report       `koanf:"report" toml:"report"`
}

// Exclusions lists the paths hidden from every check
type Exclusions struct {
	Patterns []string `koanf:"patterns" toml:"patterns"`
}

// Pipeline tunes check scheduling
type Pipeline struct {
	// Workers > 1 runs checks concurrently
	Workers int `koanf:"workers" toml:"workers"`
}

// Checks selects and tunes checks by id
type Checks struct {
	Disabled     []string `koanf:"disabled" toml:"disabled"`
	WarnOnUpload []string `koanf:"warn_on_upload" toml:"warn_on_upload"`
}

// Lint configures the line rules
type Lint struct {
	MaxLineLength int      `koanf:"max_line_length" toml:"max_line_length"`
	Filters       []string `koanf:"filters" toml:"filters"`
	LicenseHeader string   `koanf:"license_header" toml:"license_header"`
}

// Tools names the external executables
type Tools struct {
	GN          string   `koanf:"gn" toml:"gn"`
	ClangFormat string   `koanf:"clang_format" toml:"clang_format"`
	Checkdeps   []string `koanf:"checkdeps" toml:"checkdeps"`
	Timeout     Duration `koanf:"timeout" toml:"timeout"`
}

// RemoteConfig locates the service configuration files checked on upload
type RemoteConfig struct {
	Dirs   []string `koanf:"dirs" toml:"dirs"`
	Schema string   `koanf:"schema" toml:"schema"`
}

// ThirdParty locates vendored code
type ThirdParty struct {
	Dir string `koanf:"dir" toml:"dir"`
}

// Report selects the output format
type Report struct {
	Format string `koanf:"format" toml:"format"`
	// Styles is a YAML style sheet for the term format, relative to the root
	Styles string `koanf:"styles" toml:"styles"`
}

// Duration is a time.Duration that reads and writes as "5m"
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Disabled reports whether the check id is switched off
func (c *Config) Disabled(id string) bool {
	return contains(c.Checks.Disabled, id)
}

// WarnOnUpload reports whether errors of the check only warn on upload
func (c *Config) WarnOnUpload(id string) bool {
	return contains(c.Checks.WarnOnUpload, id)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
