package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "PRESUBMIT_"

// RepoConfigNames are looked up in the repository root, first match wins
var RepoConfigNames = []string{".presubmit.toml", "presubmit.toml", ".presubmit.yaml", ".presubmit.yml"}

// Options controls where Load looks for configuration
type Options struct {
	// Root is the repository root holding the repository file
	Root string

	// File replaces the repository file lookup when set; it must exist
	File string

	// Overrides are applied after every other layer, keyed by dotted path
	Overrides map[string]interface{}
}

// Load builds the effective configuration from all layers and validates it
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. User file
	if path := UserConfigPath(); fileExists(path) {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load user config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded user config")
	}

	// 3. Repository file, or the explicit one
	repoFile, err := repoConfigPath(opts)
	if err != nil {
		return nil, err
	}
	if repoFile != "" {
		if err := k.Load(file.Provider(repoFile), parserFor(repoFile)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", repoFile).
				WithDetail("path", repoFile)
		}
		logger.Debug().Str("path", repoFile).Msg("Loaded repository config")
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 5. Programmatic overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults alone
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(err)
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic(err)
	}
	return cfg
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

// UserConfigPath returns the per-user config file location
func UserConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, logging.AppName, "config.toml")
}

func repoConfigPath(opts Options) (string, error) {
	if opts.File != "" {
		if !fileExists(opts.File) {
			return "", errors.Newf(errors.ErrConfigLoad, "config file %s does not exist", opts.File).
				WithDetail("path", opts.File)
		}
		return opts.File, nil
	}
	if opts.Root == "" {
		return "", nil
	}
	for _, name := range RepoConfigNames {
		path := filepath.Join(opts.Root, name)
		if fileExists(path) {
			return path, nil
		}
	}
	return "", nil
}

// parserFor picks the YAML parser for .yaml and .yml files, TOML otherwise
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// sections are the top-level keys, longest first so that remote_config
// wins over a hypothetical remote
var sections = func() []string {
	s := []string{"exclusions", "pipeline", "checks", "lint", "tools", "remote_config", "third_party", "report"}
	sort.Slice(s, func(i, j int) bool { return len(s[i]) > len(s[j]) })
	return s
}()

// envKey maps PRESUBMIT_REMOTE_CONFIG_DIRS to remote_config.dirs. Only the
// section boundary becomes a dot; underscores inside keys are kept.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}
