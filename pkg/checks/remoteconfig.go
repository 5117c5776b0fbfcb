package checks

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// RemoteConfig validates changed service configuration files. Each file
// must parse as YAML, TOML or JSON according to its extension and, when a
// schema is configured, validate against it.
func RemoteConfig(dirs []string, schemaPath string) Check {
	prefixes := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d = strings.Trim(filepath.ToSlash(d), "/"); d != "" {
			prefixes = append(prefixes, d+"/")
		}
	}

	return Check{
		ID:          IDRemoteConfig,
		Description: "changed remote configuration files parse and match their schema",
		Kind:        KindWholeFile,
		UploadOnly:  true,
		Run: func(_ context.Context, rc *types.RunContext) ([]types.Finding, error) {
			files := rc.FilesWhere(func(f *types.ChangedFile) bool {
				return !f.Binary && underAny(f.Path, prefixes) && configFormat(f.Path) != ""
			})
			if len(files) == 0 {
				return nil, nil
			}

			var schema *jsonschema.Schema
			if schemaPath != "" {
				p := schemaPath
				if !filepath.IsAbs(p) {
					p = filepath.Join(rc.Root, p)
				}
				s, err := jsonschema.NewCompiler().Compile(p)
				if err != nil {
					return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "failed to compile remote config schema %s", schemaPath)
				}
				schema = s
			}

			var findings []types.Finding
			for _, f := range files {
				if finding, bad := validateConfigFile(f, schema); bad {
					findings = append(findings, finding)
				}
			}
			return findings, nil
		},
	}
}

func underAny(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func configFormat(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return ""
	}
}

func validateConfigFile(f *types.ChangedFile, schema *jsonschema.Schema) (types.Finding, bool) {
	finding := types.Finding{
		Check:    IDRemoteConfig,
		Path:     f.Path,
		Severity: types.SeverityError,
	}

	doc, line, err := decodeConfig(configFormat(f.Path), f.Content())
	if err != nil {
		finding.Line = line
		finding.Message = fmt.Sprintf("invalid %s: %v", configFormat(f.Path), err)
		return finding, true
	}
	if schema == nil {
		return finding, false
	}
	if err := schema.Validate(doc); err != nil {
		finding.Message = fmt.Sprintf("does not match the remote config schema: %v", err)
		return finding, true
	}
	return finding, false
}

// decodeConfig parses content into JSON-compatible values. On failure it
// returns the offending line when the parser reports one.
func decodeConfig(format string, content []byte) (interface{}, int, error) {
	var raw interface{}
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, yamlErrorLine(err), err
		}
	case "toml":
		var m map[string]interface{}
		if err := toml.Unmarshal(content, &m); err != nil {
			var derr *toml.DecodeError
			if stderrors.As(err, &derr) {
				row, _ := derr.Position()
				return nil, row, err
			}
			return nil, 0, err
		}
		raw = m
	case "json":
		v, err := decodeJSON(content)
		if err != nil {
			var serr *json.SyntaxError
			if stderrors.As(err, &serr) {
				return nil, lineAtOffset(content, serr.Offset), err
			}
			return nil, 0, err
		}
		return v, 0, nil
	}

	// Normalise YAML and TOML values to what a JSON decoder produces
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, 0, err
	}
	v, err := decodeJSON(data)
	return v, 0, err
}

// decodeJSON decodes numbers as json.Number, which the schema validator
// expects
func decodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, stderrors.New("unexpected data after the top-level value")
	}
	return v, nil
}

func yamlErrorLine(err error) int {
	var line int
	msg := err.Error()
	if i := strings.Index(msg, "line "); i >= 0 {
		_, _ = fmt.Sscanf(msg[i:], "line %d", &line)
	}
	return line
}

func lineAtOffset(content []byte, offset int64) int {
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
