// Package ranking scores candidate resumes against a job description using
// TF-IDF vectors over a shared vocabulary and cosine similarity.
package ranking

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-ranker/internal/skills"
	"github.com/jonathan/resume-ranker/internal/types"
)

// Options configures a Ranker.
type Options struct {
	// MaxFeatures caps the vocabulary size. Zero means DefaultMaxFeatures.
	MaxFeatures int
	// IncludeMatched fills RankedResult.MatchedSkills.
	IncludeMatched bool
	// Logger receives debug output. The zero value discards everything.
	Logger zerolog.Logger
}

// Ranker ranks candidate documents against a query document.
// It holds no per-request state and is safe for concurrent use.
type Ranker struct {
	maxFeatures    int
	includeMatched bool
	logger         zerolog.Logger
}

// NewRanker creates a Ranker from opts.
func NewRanker(opts Options) *Ranker {
	maxFeatures := opts.MaxFeatures
	if maxFeatures == 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Ranker{
		maxFeatures:    maxFeatures,
		includeMatched: opts.IncludeMatched,
		logger:         opts.Logger,
	}
}

// Rank ranks candidates with default options.
func Rank(query string, requiredSkills []string, candidates []types.Document) ([]types.RankedResult, error) {
	return NewRanker(Options{}).Rank(query, requiredSkills, candidates)
}

// RankRequest ranks a decoded request.
func (r *Ranker) RankRequest(req *types.RankRequest) ([]types.RankedResult, error) {
	if req == nil {
		return nil, &InvalidInputError{Message: "request is nil"}
	}
	return r.Rank(req.JobDescription, req.RequiredSkills, req.Resumes)
}

// Rank scores every candidate against query over one shared vocabulary,
// attaches the required skills each candidate lacks and returns the results
// sorted by score descending. Equal scores keep their input order.
//
// A corpus without any usable term is not an error: every candidate scores 0.
func (r *Ranker) Rank(query string, requiredSkills []string, candidates []types.Document) ([]types.RankedResult, error) {
	if len(candidates) == 0 {
		return nil, &InvalidInputError{Field: "resumes", Message: "at least one resume is required"}
	}
	if strings.TrimSpace(query) == "" {
		return nil, &InvalidInputError{Field: "job_description", Message: "job description is empty"}
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}

	space, err := BuildVectorsWithLimit(query, texts, r.maxFeatures)
	if err != nil {
		if !errors.Is(err, ErrEmptyVocabulary) {
			return nil, fmt.Errorf("failed to build vector space: %w", err)
		}
		r.logger.Warn().Int("candidates", len(candidates)).Msg("degenerate corpus, all scores set to zero")
		space = nil
	} else {
		r.logger.Debug().
			Int("candidates", len(candidates)).
			Int("vocabulary", space.Dimension()).
			Msg("built vector space")
	}

	results := make([]types.RankedResult, 0, len(candidates))
	for i, c := range candidates {
		score := 0.0
		if space != nil {
			score = CosineSimilarity(space.Query, space.Candidates[i])
		}

		result := types.RankedResult{
			ResumeID:      c.ID,
			MatchScore:    score,
			MissingSkills: skills.FindMissingSkills(c.Text, requiredSkills),
		}
		if r.includeMatched {
			result.MatchedSkills = skills.FindMatchedSkills(c.Text, requiredSkills)
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	return results, nil
}
