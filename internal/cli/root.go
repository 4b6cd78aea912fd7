// Package cli implements the api2can command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute runs the api2can CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI
// easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "api2can",
		Short:         "Generate canonical utterances for REST API operations",
		Long:          "api2can reads OpenAPI/Swagger documents and produces canonical natural-language utterances for their operations, along with delexicalized utterance templates.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("grammar-url", "", "LanguageTool server URL; empty disables grammar correction")
	cmd.PersistentFlags().String("params-tsv", "", "Parameter frequency table (TSV) for value sampling")
	cmd.PersistentFlags().String("entities", "", "Named entity list for value sampling")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

	cmd.AddCommand(newCanonicalsCmd())
	cmd.AddCommand(newDatasetCmd())
	cmd.AddCommand(newTemplatesCmd())

	return cmd
}
