package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/api2can/api2can/internal/usecase"
)

func newCanonicalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canonicals",
		Short: "Generate canonical utterances for one API description",
		Example: `  api2can canonicals --input petstore.yaml
  api2can canonicals --input https://example.com/openapi.json --translators RULE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			if input == "" {
				return fmt.Errorf("--input is required")
			}
			translators, _ := cmd.Flags().GetStringSlice("translators")
			sample, _ := cmd.Flags().GetBool("sample-values")

			p, err := buildPipeline(cmd)
			if err != nil {
				return err
			}

			opts := usecase.GenerateOptions{SampleValues: sample}
			for _, t := range translators {
				opts.Translators = append(opts.Translators, usecase.Translator(t))
			}

			api, err := p.generateUC.ExecuteSource(cmd.Context(), input, opts)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(api)
		},
	}

	cmd.Flags().String("input", "", "Path or URL of the OpenAPI/Swagger document")
	cmd.Flags().StringSlice("translators", nil, "Translators to run (RULE, SUMMARY); defaults to all")
	cmd.Flags().Bool("sample-values", false, "Render sampled example values instead of parameter placeholders")

	return cmd
}
