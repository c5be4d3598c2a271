package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ranker/internal/fetch"
	"github.com/jonathan/resume-ranker/internal/ingestion"
	"github.com/jonathan/resume-ranker/internal/skills"
	"github.com/jonathan/resume-ranker/internal/types"
)

var rankDirCmd = &cobra.Command{
	Use:   "rank-dir <dir|archive.zip>",
	Short: "Rank a directory or zip archive of resume files",
	Long: `Extract the text of every resume in a directory or .zip archive (.txt, .md,
.pdf, .docx, .html) and rank them against a job description read from a file
(--job) or fetched from a job posting URL (--job-url). File names become the
resume IDs. Empty and unsupported files are skipped with a warning.

Output and exit status follow the rank command.`,
	Args: cobra.ExactArgs(1),
	RunE: runRankDir,
}

var (
	rankDirJob         string
	rankDirJobURL      string
	rankDirSkills      string
	rankDirWithMatched bool
	rankDirTimeout     time.Duration
	rankDirUseBrowser  bool
	rankDirBrowserWait time.Duration
)

func init() {
	rankDirCmd.Flags().StringVarP(&rankDirJob, "job", "j", "", "Path to job description file (mutually exclusive with --job-url)")
	rankDirCmd.Flags().StringVar(&rankDirJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	rankDirCmd.Flags().StringVarP(&rankDirSkills, "skills", "s", "", "Comma-separated required skills")
	rankDirCmd.Flags().BoolVar(&rankDirWithMatched, "with-matched", false, "Also report the required skills each resume contains")
	rankDirCmd.Flags().DurationVar(&rankDirTimeout, "timeout", fetch.DefaultTimeout, "Timeout for fetching --job-url")
	rankDirCmd.Flags().BoolVar(&rankDirUseBrowser, "use-browser", false, "Render --job-url in headless Chrome when the page has too little text")
	rankDirCmd.Flags().DurationVar(&rankDirBrowserWait, "browser-timeout", fetch.DefaultBrowserTimeout, "Timeout for headless browser rendering")

	rootCmd.AddCommand(rankDirCmd)
}

func runRankDir(cmd *cobra.Command, args []string) error {
	if (rankDirJob == "") == (rankDirJobURL == "") {
		return fail(cmd, fmt.Errorf("exactly one of --job or --job-url is required"))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobText, err := loadJobDescription(ctx, jobFetchOptions(cmd))
	if err != nil {
		return fail(cmd, err)
	}

	batch, err := ingestion.LoadPath(args[0], logger)
	if err != nil {
		return fail(cmd, err)
	}
	logger.Info().
		Str("path", args[0]).
		Int("loaded", len(batch.Documents)).
		Int("skipped", len(batch.Skipped)).
		Msg("loaded resumes")
	for _, meta := range batch.Metadata {
		logger.Debug().
			Str("file", meta.Name()).
			Str("format", string(meta.Format)).
			Int("chars", meta.Chars).
			Str("sha256", meta.Hash).
			Msg("resume extracted")
	}

	req := &types.RankRequest{
		JobDescription: jobText,
		RequiredSkills: skills.ParseSkillList(rankDirSkills),
		Resumes:        batch.Documents,
	}

	p := printer(cmd)
	if p != nil {
		p.PrintRequestSummary(req)
	}

	results, err := newRanker(rankDirWithMatched).RankRequest(req)
	if err != nil {
		return fail(cmd, err)
	}

	if p != nil {
		p.PrintRankedResults(results)
	}
	return emit(cmd, types.NewSuccessResponse(results))
}

// jobFetchOptions builds the --job-url fetch options. --use-browser overrides
// the use_browser config value.
func jobFetchOptions(cmd *cobra.Command) *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.Timeout = rankDirTimeout
	opts.UseBrowser = appCfg.UseBrowser
	if cmd.Flags().Changed("use-browser") {
		opts.UseBrowser = rankDirUseBrowser
	}
	opts.BrowserTimeout = rankDirBrowserWait
	return opts
}

// loadJobDescription reads --job through the resume extractors, so PDF and
// DOCX postings work too, or fetches --job-url.
func loadJobDescription(ctx context.Context, opts *fetch.Options) (string, error) {
	if rankDirJobURL != "" {
		text, meta, err := ingestion.IngestFromURL(ctx, rankDirJobURL, opts, logger)
		if err != nil {
			return "", err
		}
		logger.Info().Str("platform", meta.Platform).Int("chars", meta.Chars).Msg("fetched job posting")
		return text, nil
	}

	text, _, err := ingestion.ExtractFile(rankDirJob)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return text, nil
}
