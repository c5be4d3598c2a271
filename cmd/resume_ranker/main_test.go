package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ranker/internal/types"
)

const requestJSON = `{
	"job_description": "Senior backend engineer: golang, postgres, kubernetes",
	"required_skills": ["Golang", "Kubernetes"],
	"resumes": [
		{"_id": "chef", "text": "Head chef, pastry and sauces"},
		{"_id": "gopher", "text": "Golang microservices on Kubernetes with Postgres"}
	]
}`

// execute runs the root command in-process with fresh flag values.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{}, args...))

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag to its default, since cobra keeps flag
// values in package variables between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func decodeEnvelope(t *testing.T, s string) types.RankResponse {
	t.Helper()
	var resp types.RankResponse
	require.NoError(t, json.Unmarshal([]byte(s), &resp), s)
	return resp
}

func assertExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *exitError
	require.True(t, errors.As(err, &exitErr), "expected exit error, got %v", err)
	assert.Equal(t, code, exitErr.code)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.json", `{"max_features": 50, "log_level": "warn", "verbose": true}`)

	_, stderr, err := execute(t, requestJSON, "rank", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 50, appCfg.MaxFeatures)
	assert.Equal(t, "warn", appCfg.LogLevel)
	assert.Contains(t, stderr, "TOP RANKED RESUMES", "verbose from config file")

	_, _, err = execute(t, requestJSON, "rank", "--config", cfgPath, "--max-features", "7", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, 7, appCfg.MaxFeatures)
	assert.Equal(t, "error", appCfg.LogLevel)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad log format flag", []string{"rank", "--log-format", "xml"}, "log_format"},
		{"missing config file", []string{"rank", "--config", filepath.Join(t.TempDir(), "missing.json")}, "failed to read config file"},
		{"other commands too", []string{"validate", "--log-format", "xml"}, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, requestJSON, tt.args...)
			assertExitCode(t, err, 1)
			assert.Empty(t, stdout)

			resp := decodeEnvelope(t, stderr)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.wantErr)
		})
	}
}

func TestSplitLines(t *testing.T) {
	lines, err := splitLines([]byte("{\"a\":1}\n\n  \n{\"b\":2}\r\n{\"c\":3}"))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, `{"a":1}`, string(lines[0]))
	assert.Equal(t, `{"b":2}`, string(lines[1]))
	assert.Equal(t, `{"c":3}`, string(lines[2]))

	lines, err = splitLines(nil)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
