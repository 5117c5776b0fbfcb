package checks

import (
	"github.com/arthur-debert/presubmit/pkg/config"
	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/arthur-debert/presubmit/pkg/rules"
	"github.com/arthur-debert/presubmit/pkg/toolrun"
	"github.com/arthur-debert/presubmit/pkg/types"
)

// Check ids of the built-in catalogue
const (
	IDLint               = "lint"
	IDPanProject         = "pan-project"
	IDEOL                = "eol"
	IDLicenseHeader      = "license-header"
	IDClangFormat        = "clang-format"
	IDGNFormat           = "gn-format"
	IDCheckdeps          = "checkdeps"
	IDThirdPartyLicenses = "third-party-licenses"
	IDBuildGraph         = "build-graph"
	IDRemoteConfig       = "remote-config"
)

// IDs lists the catalogue in registration order
var IDs = []string{
	IDLint, IDPanProject, IDEOL, IDLicenseHeader, IDClangFormat,
	IDGNFormat, IDCheckdeps, IDThirdPartyLicenses, IDBuildGraph, IDRemoteConfig,
}

// LintRuleSet returns the filtered C/C++ lint rules of cfg
func LintRuleSet(cfg *config.Config) (*rules.RuleSet, error) {
	filters, err := rules.ParseFilters(cfg.Lint.Filters...)
	if err != nil {
		return nil, err
	}
	set, err := rules.NewRuleSet(rules.LintRules()...)
	if err != nil {
		return nil, err
	}
	return set.Filter(filters), nil
}

// PanProjectRuleSet returns the rules applied to every text file
func PanProjectRuleSet(cfg *config.Config) (*rules.RuleSet, error) {
	return rules.NewRuleSet(rules.PanProjectRules(cfg.Lint.MaxLineLength)...)
}

// Default builds the full catalogue from cfg. Disabled checks are left out
// and the upload warning policy is applied per check.
func Default(cfg *config.Config, runner toolrun.Runner) (*Registry, error) {
	for _, list := range [][]string{cfg.Checks.Disabled, cfg.Checks.WarnOnUpload} {
		for _, id := range list {
			if !known(id) {
				return nil, errors.Newf(errors.ErrConfigInvalid, "unknown check %q", id).
					WithDetail("check", id)
			}
		}
	}

	lint, err := LintRuleSet(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid lint rules")
	}
	pan, err := PanProjectRuleSet(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid pan-project rules")
	}

	timeout := cfg.Tools.Timeout.Std()
	all := []Check{
		Scan(IDLint, "C/C++ lint rules", lint, (*types.ChangedFile).IsCpp),
		Scan(IDPanProject, "line rules for every text file", pan, nil),
		EOL(),
		LicenseHeader(cfg.Lint.LicenseHeader),
		ClangFormat(runner, cfg.Tools.ClangFormat, timeout),
		GNFormat(runner, cfg.Tools.GN, timeout),
		Checkdeps(runner, cfg.Tools.Checkdeps, timeout),
		ThirdPartyLicenses(cfg.ThirdParty.Dir),
		BuildGraph(runner, cfg.Tools.GN, timeout),
		RemoteConfig(cfg.RemoteConfig.Dirs, cfg.RemoteConfig.Schema),
	}

	reg := MustRegistry()
	for _, c := range all {
		if cfg.Disabled(c.ID) {
			continue
		}
		c.WarnOnUpload = cfg.WarnOnUpload(c.ID)
		if err := reg.Add(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func known(id string) bool {
	for _, k := range IDs {
		if k == id {
			return true
		}
	}
	return false
}
