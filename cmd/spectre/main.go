package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "spectre",
		Short:         "Assess the trustworthiness of email addresses",
		Long:          "MailSpectre runs a battery of heuristic and network checks against email addresses and reports a risk verdict, without paid verification APIs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("config", os.Getenv("MAILSPECTRE_CONFIG"), "path to YAML config file")
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newBatchCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
