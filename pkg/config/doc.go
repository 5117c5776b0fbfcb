// Package config loads presubmit configuration.
//
// Layers are applied in order, later ones winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/presubmit/config.toml
//  3. the repository file, <root>/.presubmit.toml or <root>/presubmit.toml,
//     or an explicit file given on the command line
//  4. PRESUBMIT_* environment variables, e.g. PRESUBMIT_PIPELINE_WORKERS=4
//
// Lists are replaced, not merged, so a repository that sets
// exclusions.patterns drops the default exclusions.
package config
