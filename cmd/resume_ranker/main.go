// Package main provides the resume_ranker command line: one-shot ranking,
// batch ranking, schema validation, the HTTP API server and the queue worker.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ranker/internal/config"
	"github.com/jonathan/resume-ranker/internal/observability"
	"github.com/jonathan/resume-ranker/internal/ranking"
)

var rootCmd = &cobra.Command{
	Use:   "resume_ranker",
	Short: "Rank resumes against a job description",
	Long: `resume_ranker scores resumes against a job description with TF-IDF cosine
similarity and reports which required skills each resume is missing.

Configuration can be loaded from a JSON file using --config. Environment
variables override the file and command-line flags override both.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	configPath  string
	logLevel    string
	logFormat   string
	verbose     bool
	topN        int
	maxFeatures int

	// appCfg and logger are filled by setup before any command runs.
	appCfg config.Config
	logger = zerolog.Nop()
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: json or text")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print a ranking summary to stderr")
	flags.IntVar(&topN, "top", 5, "Resumes listed in the verbose summary")
	flags.IntVar(&maxFeatures, "max-features", 0, "Vocabulary cap per request")
}

// exitError ends the process with code after its output has already been
// written.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errFailed = &exitError{code: 1}

// setup merges the config file, environment and flags, then builds the logger.
// Configuration errors are reported as failure envelopes.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fail(cmd, err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("max-features") {
		cfg.MaxFeatures = maxFeatures
	}
	if err := cfg.Validate(); err != nil {
		return fail(cmd, err)
	}

	appCfg = cfg
	logger = observability.NewLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// newRanker builds a ranker from the merged configuration.
func newRanker(includeMatched bool) *ranking.Ranker {
	return ranking.NewRanker(ranking.Options{
		MaxFeatures:    appCfg.MaxFeatures,
		IncludeMatched: includeMatched || appCfg.IncludeMatched,
		Logger:         logger,
	})
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
