package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mailspectre/internal/config"
	"mailspectre/internal/refdata"
	"mailspectre/internal/validator"
)

func buildEngine(cmd *cobra.Command) (*validator.Engine, config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, cfg, err
	}

	data := refdata.NewStore()
	data.LoadDynamic(cfg.Data.FraudEmailsPath, cfg.Data.VerifiedCompaniesPath)

	engine, err := validator.New(data, validator.Options{
		DNSTimeout:      cfg.DNS.Timeout,
		DNSCacheTTL:     cfg.DNS.CacheTTL,
		BreachURL:       cfg.Breach.URL,
		BreachTimeout:   cfg.Breach.Timeout,
		MaxFailedChecks: cfg.Scoring.MaxFailedChecks,
	})
	return engine, cfg, err
}

func newValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <email> [email...]",
		Short: "Validate one or more email addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := buildEngine(cmd)
			if err != nil {
				return fmt.Errorf("building engine: %w", err)
			}

			anyInvalid := false
			for _, email := range args {
				result := engine.Validate(cmd.Context(), email)
				if !result.Valid {
					anyInvalid = true
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					if err := enc.Encode(result); err != nil {
						return err
					}
					continue
				}
				fmt.Fprint(cmd.OutOrStdout(), renderResult(result))
			}

			if anyInvalid {
				return fmt.Errorf("one or more addresses failed validation")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON results")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Validate every address in the first column of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cfg, err := buildEngine(cmd)
			if err != nil {
				return fmt.Errorf("building engine: %w", err)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening CSV: %w", err)
			}
			defer f.Close()

			reader := csv.NewReader(f)
			reader.FieldsPerRecord = -1
			var emails []string
			for {
				record, err := reader.Read()
				if err == io.EOF {
					break
				}
				if err != nil {
					return fmt.Errorf("parsing CSV: %w", err)
				}
				if len(record) > 0 && record[0] != "" {
					emails = append(emails, record[0])
				}
			}
			if len(emails) == 0 {
				return fmt.Errorf("no addresses found in %s", args[0])
			}

			results := engine.ValidateMany(cmd.Context(), emails, cfg.Batch.Workers)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			invalid := 0
			for _, result := range results {
				fmt.Fprint(cmd.OutOrStdout(), renderResult(result))
				if !result.Valid {
					invalid++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d addresses failed validation\n", invalid, len(results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON results")
	return cmd
}
