// Package shim resolves OS launcher wrappers to the real program behind
// them. Package managers and version managers put small generated scripts on
// PATH (cmd-shim .cmd/.ps1/extensionless files, Volta shims, setup-action
// wrappers); executing those directly hides the actual entry point from the
// caller. The resolver unwinds that indirection.
package shim

import "regexp"

// Dialect identifies one wrapper-script flavor. Each dialect knows how to
// extract the relative path the wrapper forwards to. Dialects are tried in a
// fixed priority order per wrapper family; the first non-empty match wins.
type Dialect int

// Supported wrapper dialects.
const (
	// DialectCmdEnvVar matches the npm/npx/pnpm .cmd launchers that assign
	// the CLI entry point to an environment variable, e.g.
	// SET "NPM_CLI_JS=%~dp0\node_modules\npm\bin\npm-cli.js".
	DialectCmdEnvVar Dialect = iota

	// DialectCmdShim matches cmd-shim generated .cmd wrappers, e.g.
	// "%_prog%"  "%dp0%\..\mypkg\bin\cli.js" %*.
	DialectCmdShim

	// DialectPowerShell matches cmd-shim generated .ps1 wrappers, e.g.
	// & "$basedir/node$exe"  "$basedir/../mypkg/bin/cli.js" $args.
	DialectPowerShell

	// DialectPosixExec matches cmd-shim generated extensionless POSIX
	// wrappers, e.g. exec node  "$basedir/../mypkg/bin/cli.js" "$@".
	DialectPosixExec
)

var dialectNames = map[Dialect]string{
	DialectCmdEnvVar:  "cmd-envvar",
	DialectCmdShim:    "cmd-shim",
	DialectPowerShell: "powershell",
	DialectPosixExec:  "posix-exec",
}

// String returns the dialect name.
func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return "unknown"
}

var (
	// %~dp0 expands to the wrapper's directory in cmd. The env-var form is
	// used by the launchers npm ships itself.
	cmdEnvVarRe = regexp.MustCompile(`(?im)^\s*(?:SET\s+)?"?(?:NPM_CLI_JS|NPX_CLI_JS|NPM_PREFIX_JS|PNPM_CLI_JS|YARN_CLI_JS)\s*=\s*"?%~dp0\\?([^"%\r\n]+)`)

	// cmd-shim writes "%dp0%\<rel>" immediately before %* on the
	// invocation line. Anchoring on %* keeps the interpreter path, which
	// also starts with %dp0%, from matching.
	cmdShimRe = regexp.MustCompile(`"%dp0%\\([^"\r\n]+)"\s*%\*`)

	// The .ps1 twin uses $basedir and forwards $args.
	powerShellRe = regexp.MustCompile(`"\$basedir[/\\]([^"\r\n]+)"\s*\$args`)

	// The POSIX twin uses $basedir and forwards "$@".
	posixExecRe = regexp.MustCompile(`"\$basedir/([^"\n]+)"\s*"\$@"`)
)

// Extract returns the relative path argument the wrapper source forwards to,
// or "" when the dialect's anchor pattern does not occur in src.
func (d Dialect) Extract(src string) string {
	var re *regexp.Regexp
	switch d {
	case DialectCmdEnvVar:
		re = cmdEnvVarRe
	case DialectCmdShim:
		re = cmdShimRe
	case DialectPowerShell:
		re = powerShellRe
	case DialectPosixExec:
		re = posixExecRe
	default:
		return ""
	}

	m := re.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return m[1]
}

// extractFirst runs dialects in order against src and returns the first
// non-empty relative path.
func extractFirst(src string, dialects []Dialect) string {
	for _, d := range dialects {
		if rel := d.Extract(src); rel != "" {
			return rel
		}
	}
	return ""
}
