package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCommand_Success(t *testing.T) {
	stdout, stderr, err := execute(t, requestJSON, "rank", "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	resp := decodeEnvelope(t, stdout)
	assert.True(t, resp.Success)
	require.Len(t, resp.RankedResumes, 2)
	assert.Equal(t, "gopher", resp.RankedResumes[0].ResumeID)
	assert.Greater(t, resp.RankedResumes[0].MatchScore, 0.0)
	assert.Empty(t, resp.RankedResumes[0].MissingSkills)
	assert.Equal(t, "chef", resp.RankedResumes[1].ResumeID)
	assert.Equal(t, 0.0, resp.RankedResumes[1].MatchScore)
	assert.Equal(t, []string{"Golang", "Kubernetes"}, resp.RankedResumes[1].MissingSkills)
	assert.Nil(t, resp.RankedResumes[0].MatchedSkills)
}

func TestRankCommand_FromFileWithMatched(t *testing.T) {
	path := writeFile(t, t.TempDir(), "request.json", requestJSON)

	stdout, _, err := execute(t, "", "rank", "--in", path, "--with-matched", "--log-level", "error")
	require.NoError(t, err)

	resp := decodeEnvelope(t, stdout)
	require.True(t, resp.Success)
	assert.Equal(t, []string{"Golang", "Kubernetes"}, resp.RankedResumes[0].MatchedSkills)
}

func TestRankCommand_Failures(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"malformed JSON", `{"job_description": `, nil, ""},
		{"no resumes", `{"job_description": "go", "resumes": []}`, nil, ""},
		{"missing job description", `{"resumes": [{"_id": "a", "text": "go"}]}`, nil, ""},
		{"missing input file", "", []string{"--in", "/nonexistent/request.json"}, "failed to read input file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"rank", "--log-level", "error"}, tt.args...)
			stdout, stderr, err := execute(t, tt.stdin, args...)

			assertExitCode(t, err, 1)
			assert.Empty(t, stdout, "failures never reach stdout")

			resp := decodeEnvelope(t, stderr)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
			assert.Nil(t, resp.RankedResumes)
			if tt.want != "" {
				assert.Contains(t, resp.Error, tt.want)
			}
		})
	}
}

func TestRankCommand_Verbose(t *testing.T) {
	stdout, stderr, err := execute(t, requestJSON, "rank", "-v", "--log-level", "error")
	require.NoError(t, err)

	assert.True(t, decodeEnvelope(t, stdout).Success, "stdout stays pure JSON")
	assert.Contains(t, stderr, "RANKING REQUEST")
	assert.Contains(t, stderr, "#1  gopher")
}

func TestRankCommand_VerboseTop(t *testing.T) {
	_, stderr, err := execute(t, requestJSON, "rank", "-v", "--top", "1", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, stderr, "#1  gopher")
	assert.NotContains(t, stderr, "#2  chef")
	assert.Contains(t, stderr, "... and 1 more resumes")
}
