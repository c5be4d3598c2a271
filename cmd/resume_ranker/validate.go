package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ranker/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against a schema",
	Long: `Validate a ranking request (default) or response against the built-in JSON
Schema, or any JSON file against a schema file given with --schema. Exits 1
when validation fails.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var (
	validateSchemaFile string
	validateJSONFile   string
	validateResponse   bool
)

func init() {
	validateCmd.Flags().StringVar(&validateSchemaFile, "schema", "", "Path to a JSON Schema file (default: built-in request schema)")
	validateCmd.Flags().StringVar(&validateJSONFile, "json", "", "Path to the JSON document (default: stdin)")
	validateCmd.Flags().BoolVar(&validateResponse, "response", false, "Validate against the built-in response schema")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validateSchemaFile != "" && validateResponse {
		return fmt.Errorf("--schema and --response cannot be combined")
	}

	var err error
	switch {
	case validateSchemaFile != "":
		if validateJSONFile == "" {
			return fmt.Errorf("--json is required with --schema")
		}
		err = schemas.ValidateJSON(validateSchemaFile, validateJSONFile)
	default:
		var data []byte
		data, err = readInput(cmd, validateJSONFile)
		if err != nil {
			return err
		}
		if validateResponse {
			err = schemas.ValidateRankResponse(data)
		} else {
			err = schemas.ValidateRankRequest(data)
		}
	}

	if err != nil {
		var validationErr *schemas.ValidationError
		if !errors.As(err, &validationErr) {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed:\n")
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  - %s: %s\n", fe.Field, fe.Message)
		}
		return errFailed
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed\n")
	return nil
}
