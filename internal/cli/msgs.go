package cli

// Command descriptions
const (
	MsgRootShort = "Run presubmit checks over the files changed in a revision"
	MsgRootLong  = `presubmit runs a configurable set of independent checks (line rules,
formatting diffs, external tools and build-graph verification) over the files
changed in a pending revision and decides whether it may be uploaded or committed.

Blocking findings fail a commit. On upload they may be overridden with
--allow-override.`

	MsgUploadShort = "Check a revision before upload for review"
	MsgUploadLong  = "Runs the common checks plus the upload-only ones. Blocking findings may be overridden with --allow-override."
	MsgCommitShort = "Check a revision before it lands"
	MsgCommitLong  = "Runs the common checks. Any blocking finding fails the command."

	MsgRulesShort     = "List the checks and line rules"
	MsgExplainShort   = "Show the documentation of a line rule"
	MsgGenConfigShort = "Print the effective configuration as TOML"
	MsgWatchShort     = "Re-run upload checks whenever files change"
	MsgVersionShort   = "Print version information"
)

// Flag descriptions
const (
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot          = "Repository root (default: nearest ancestor with .gn or .git)"
	MsgFlagConfig        = "Configuration file replacing <root>/.presubmit.toml"
	MsgFlagFormat        = "Output format: auto, term, text, json or junit"
	MsgFlagFilesFrom     = "Read changed paths from a file, one per line (- for stdin)"
	MsgFlagAllowOverride = "Report blocking findings but let the upload proceed"
	MsgFlagWrite         = "Write the configuration to <root>/.presubmit.toml"
	MsgFlagDebounce      = "Quiet period before a batch of changes is checked"
	MsgFlagDefaults      = "Use the built-in defaults instead of the effective configuration"
)

// Status and error messages
const (
	MsgOverrideNotice  = "Blocking findings were overridden; the upload may proceed."
	MsgConfigWritten   = "Wrote %s\n"
	MsgWatching        = "Watching %s for changes (Ctrl-C to stop)\n"
	MsgErrNoCommand    = "no command specified"
	MsgErrNoFiles      = "no changed files given; pass paths or --files-from"
	MsgErrBlocked      = "presubmit %s blocked by %d error(s)"
	MsgErrUnknownRule  = "unknown rule %q; run 'presubmit rules' for the list"
	MsgErrConfigExists = "%s already exists"
)
