package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ranker/internal/observability"
	"github.com/jonathan/resume-ranker/internal/types"
)

// emit writes a success envelope to stdout. A failure envelope goes to
// stderr and the command exits with status 1.
func emit(cmd *cobra.Command, resp types.RankResponse) error {
	if resp.Success {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	if err := writeJSON(cmd.ErrOrStderr(), resp); err != nil {
		return err
	}
	return errFailed
}

// fail reports err as a failure envelope.
func fail(cmd *cobra.Command, err error) error {
	logger.Debug().Err(err).Msg("ranking failed")
	return emit(cmd, types.NewErrorResponse(err))
}

func writeJSON(w io.Writer, v any) error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

// readInput reads path, or the command's stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// printer returns the verbose-mode printer, or nil when verbose is off.
func printer(cmd *cobra.Command) *observability.Printer {
	if !appCfg.Verbose {
		return nil
	}
	return observability.NewPrinter(cmd.ErrOrStderr()).WithMaxItems(topN)
}
