package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ranker/internal/pipeline"
	"github.com/jonathan/resume-ranker/internal/types"
)

// maxLineBytes bounds one JSON Lines request.
const maxLineBytes = 16 << 20

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Rank many JSON Lines requests concurrently",
	Long: `Read one ranking request per line from --in or stdin and write one response
envelope per line, in input order, to --out or stdout. Blank lines are ignored.
A failing request only fails its own line. The exit status is 1 when any
request failed.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

var (
	batchInputFile   string
	batchOutputFile  string
	batchWorkers     int
	batchWithMatched bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchInputFile, "in", "i", "", "Path to JSON Lines requests (default: stdin)")
	batchCmd.Flags().StringVarP(&batchOutputFile, "out", "o", "", "Path to write JSON Lines responses (default: stdout)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Requests ranked concurrently (default from config)")
	batchCmd.Flags().BoolVar(&batchWithMatched, "with-matched", false, "Also report the required skills each resume contains")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	data, err := readInput(cmd, batchInputFile)
	if err != nil {
		return err
	}
	payloads, err := splitLines(data)
	if err != nil {
		return err
	}

	workers := appCfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = batchWorkers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	responses := pipeline.RankBatch(ctx, newRanker(batchWithMatched), payloads, pipeline.BatchOptions{
		Workers: workers,
		OnProgress: func(e pipeline.ProgressEvent) {
			logger.Debug().
				Str("batch_id", e.BatchID).
				Int("index", e.Index).
				Bool("success", e.Success).
				Str("error", e.Error).
				Dur("duration", e.Duration).
				Msgf("request %d/%d done", e.Index+1, e.Total)
		},
	})

	failed := 0
	for _, resp := range responses {
		if !resp.Success {
			failed++
		}
	}

	if batchOutputFile == "" {
		err = writeResponses(cmd.OutOrStdout(), responses)
	} else {
		err = writeResponsesFile(batchOutputFile, responses)
	}
	if err != nil {
		return err
	}

	logger.Info().Int("requests", len(responses)).Int("failed", failed).Msg("batch finished")
	if failed > 0 {
		return errFailed
	}
	return nil
}

// createOutput opens the --out file.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeResponses writes one JSON envelope per line.
func writeResponses(out io.Writer, responses []types.RankResponse) error {
	w := bufio.NewWriter(out)
	for _, resp := range responses {
		if err := writeJSON(w, resp); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeResponsesFile writes responses to path. A failed close is reported,
// since it can lose the final write.
func writeResponsesFile(path string, responses []types.RankResponse) (err error) {
	f, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()
	return writeResponses(f, responses)
}

// splitLines returns the non-blank lines of a JSON Lines document.
func splitLines(data []byte) ([][]byte, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines [][]byte
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, bytes.Clone(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read JSON Lines input: %w", err)
	}
	return lines, nil
}
