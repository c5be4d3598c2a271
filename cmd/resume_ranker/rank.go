package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ranker/internal/parsing"
	"github.com/jonathan/resume-ranker/internal/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the resumes of one JSON request",
	Long: `Read one ranking request as JSON from --in or stdin:

  {"job_description": "...", "required_skills": ["..."], "resumes": [{"_id": "...", "text": "..."}]}

On success the ranked resumes are written to stdout and the exit status is 0.
On failure {"success": false, "error": "..."} is written to stderr and the
exit status is 1.`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

var (
	rankInputFile   string
	rankWithMatched bool
)

func init() {
	rankCmd.Flags().StringVarP(&rankInputFile, "in", "i", "", "Path to request JSON (default: stdin)")
	rankCmd.Flags().BoolVar(&rankWithMatched, "with-matched", false, "Also report the required skills each resume contains")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	data, err := readInput(cmd, rankInputFile)
	if err != nil {
		return fail(cmd, err)
	}

	req, err := parsing.ParseRankRequest(data)
	if err != nil {
		return fail(cmd, err)
	}

	p := printer(cmd)
	if p != nil {
		p.PrintRequestSummary(req)
	}

	results, err := newRanker(rankWithMatched).RankRequest(req)
	if err != nil {
		return fail(cmd, err)
	}

	if p != nil {
		p.PrintRankedResults(results)
	}
	return emit(cmd, types.NewSuccessResponse(results))
}
