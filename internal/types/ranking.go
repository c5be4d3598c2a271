// Package types provides type definitions for structured data used throughout the resume-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"math"

	"github.com/go-playground/validator/v10"
)

// Document is a candidate resume: a caller-supplied identifier plus raw text.
type Document struct {
	ID   string `json:"_id" validate:"required"`
	Text string `json:"text"`
}

// UnmarshalJSON accepts both "_id" and "id" as the identifier field.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		UnderscoreID *string `json:"_id"`
		ID           *string `json:"id"`
		Text         string  `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Text = raw.Text
	d.ID = ""
	switch {
	case raw.UnderscoreID != nil:
		d.ID = *raw.UnderscoreID
	case raw.ID != nil:
		d.ID = *raw.ID
	}
	return nil
}

// RankRequest is the structured input for one ranking run.
type RankRequest struct {
	JobDescription string     `json:"job_description" validate:"required"`
	RequiredSkills []string   `json:"required_skills,omitempty"`
	Resumes        []Document `json:"resumes" validate:"required,min=1,dive"`
}

// Validate validates the RankRequest using the validator.
func (r *RankRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// RankedResult is the outcome for a single candidate.
type RankedResult struct {
	ResumeID      string   `json:"resume_id"`
	MatchScore    float64  `json:"match_score"`
	MissingSkills []string `json:"missing_skills"`
	// MatchedSkills is only filled when explicitly requested
	MatchedSkills []string `json:"matched_skills,omitempty"`
}

// MatchPercent returns the score as a rounded percentage in [0, 100].
func (r RankedResult) MatchPercent() int {
	return int(math.Round(r.MatchScore * 100))
}

// RankResponse is the envelope written back to callers.
type RankResponse struct {
	Success       bool           `json:"success"`
	RankedResumes []RankedResult `json:"ranked_resumes,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// NewSuccessResponse wraps ranked results in a success envelope.
func NewSuccessResponse(results []RankedResult) RankResponse {
	return RankResponse{Success: true, RankedResumes: results}
}

// NewErrorResponse wraps an error in a failure envelope.
func NewErrorResponse(err error) RankResponse {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return RankResponse{Success: false, Error: msg}
}
