package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {"name": {"type": "string"}, "age": {"type": "integer"}}
}`

func TestValidateRankRequest(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		valid   bool
	}{
		{"Minimal", `{"job_description":"Go","resumes":[{"_id":"r1","text":"Go"}]}`, true},
		{"Plain id alias", `{"job_description":"Go","resumes":[{"id":"r1","text":"Go"}]}`, true},
		{"With skills", `{"job_description":"Go","required_skills":["Go","C++"],"resumes":[{"_id":"r1","text":""}]}`, true},
		{"Missing job description", `{"resumes":[{"_id":"r1","text":"Go"}]}`, false},
		{"Missing resumes", `{"job_description":"Go"}`, false},
		{"Empty resumes", `{"job_description":"Go","resumes":[]}`, false},
		{"Resume without id", `{"job_description":"Go","resumes":[{"text":"Go"}]}`, false},
		{"Resume without text", `{"job_description":"Go","resumes":[{"_id":"r1"}]}`, false},
		{"Skills wrong type", `{"job_description":"Go","required_skills":"Go","resumes":[{"_id":"r1","text":"Go"}]}`, false},
		{"Job description wrong type", `{"job_description":42,"resumes":[{"_id":"r1","text":"Go"}]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRankRequest([]byte(tt.payload))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateRankRequest_Malformed(t *testing.T) {
	err := ValidateRankRequest([]byte(`{"job_description":`))
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateRankResponse(t *testing.T) {
	assert.NoError(t, ValidateRankResponse([]byte(`{"success":true,"ranked_resumes":[{"resume_id":"r1","match_score":0.4,"missing_skills":[]}]}`)))
	assert.NoError(t, ValidateRankResponse([]byte(`{"success":false,"error":"boom"}`)))
	assert.Error(t, ValidateRankResponse([]byte(`{"success":true}`)))
	assert.Error(t, ValidateRankResponse([]byte(`{"success":false}`)))
	assert.Error(t, ValidateRankResponse([]byte(`{"success":true,"ranked_resumes":[{"resume_id":"r1","match_score":1.5,"missing_skills":[]}]}`)))
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	validPath := filepath.Join(dir, "valid.json")
	invalidPath := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(personSchema), 0644))
	require.NoError(t, os.WriteFile(validPath, []byte(`{"name":"Ada","age":36}`), 0644))
	require.NoError(t, os.WriteFile(invalidPath, []byte(`{"age":"old"}`), 0644))

	assert.NoError(t, ValidateJSON(schemaPath, validPath))

	err := ValidateJSON(schemaPath, invalidPath)
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Len(t, validationErr.Errors, 2)
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(personSchema), 0644))

	err := ValidateJSON(filepath.Join(dir, "nope.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "(root)", Message: "resumes is required"},
		{Field: "job_description", Message: "Invalid type"},
	}}
	assert.Equal(t, "validation failed: (root): resumes is required; job_description: Invalid type", err.Error())
}
