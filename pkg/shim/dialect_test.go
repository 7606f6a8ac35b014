package shim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const npmCmdFixture = `:: Created by npm, please don't edit manually.
@ECHO OFF
SETLOCAL
SET "NODE_EXE=%~dp0\node.exe"
IF NOT EXIST "%NODE_EXE%" (
  SET "NODE_EXE=node"
)
SET "NPM_CLI_JS=%~dp0\node_modules\npm\bin\npm-cli.js"
"%NODE_EXE%" "%NPM_CLI_JS%" %*
`

const cmdShimFixture = `@ECHO off
GOTO start
:find_dp0
SET dp0=%~dp0
EXIT /b
:start
SETLOCAL
CALL :find_dp0

IF EXIST "%dp0%\node.exe" (
  SET "_prog=%dp0%\node.exe"
) ELSE (
  SET "_prog=node"
  SET PATHEXT=%PATHEXT:;.JS;=;%
)

endLocal & goto #_undefined_# 2>NUL || title %COMSPEC% & "%_prog%"  "%dp0%\..\cowsay\cli.js" %*
`

const powerShellFixture = `#!/usr/bin/env pwsh
$basedir=Split-Path $MyInvocation.MyCommand.Definition -Parent

$exe=""
if ($PSVersionTable.PSVersion -lt "6.0" -or $IsWindows) {
  $exe=".exe"
}
$ret=0
if (Test-Path "$basedir/node$exe") {
  & "$basedir/node$exe"  "$basedir/../cowsay/cli.js" $args
  $ret=$LASTEXITCODE
} else {
  & "node$exe"  "$basedir/../cowsay/cli.js" $args
  $ret=$LASTEXITCODE
}
exit $ret
`

const posixFixture = `#!/bin/sh
basedir=$(dirname "$(echo "$0" | sed -e 's,\\,/,g')")

case ` + "`uname`" + ` in
    *CYGWIN*|*MINGW*|*MSYS*) basedir=` + "`cygpath -w \"$basedir\"`" + `;;
esac

if [ -x "$basedir/node" ]; then
  exec "$basedir/node"  "$basedir/../cowsay/cli.js" "$@"
else
  exec node  "$basedir/../cowsay/cli.js" "$@"
fi
`

func TestDialectExtract(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		src     string
		want    string
	}{
		{
			name:    "npm cmd env var launcher",
			dialect: DialectCmdEnvVar,
			src:     npmCmdFixture,
			want:    `node_modules\npm\bin\npm-cli.js`,
		},
		{
			name:    "cmd-shim wrapper",
			dialect: DialectCmdShim,
			src:     cmdShimFixture,
			want:    `..\cowsay\cli.js`,
		},
		{
			name:    "powershell wrapper",
			dialect: DialectPowerShell,
			src:     powerShellFixture,
			want:    `../cowsay/cli.js`,
		},
		{
			name:    "posix exec wrapper",
			dialect: DialectPosixExec,
			src:     posixFixture,
			want:    `../cowsay/cli.js`,
		},
		{
			name:    "no anchor pattern",
			dialect: DialectCmdShim,
			src:     "@ECHO OFF\r\nECHO hello\r\n",
			want:    "",
		},
		{
			name:    "wrong dialect for source",
			dialect: DialectPosixExec,
			src:     cmdShimFixture,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.Extract(tt.src))
		})
	}
}

func TestDialectFallbackOrder(t *testing.T) {
	// npm's own .cmd launcher carries both an env-var assignment and a
	// quoted invocation; the env-var dialect must win.
	rel := extractFirst(npmCmdFixture, []Dialect{DialectCmdEnvVar, DialectCmdShim})
	assert.Equal(t, `node_modules\npm\bin\npm-cli.js`, rel)

	// A plain cmd-shim wrapper falls through to the second dialect.
	rel = extractFirst(cmdShimFixture, []Dialect{DialectCmdEnvVar, DialectCmdShim})
	assert.Equal(t, `..\cowsay\cli.js`, rel)
}
