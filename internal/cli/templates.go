package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/template"
	"github.com/api2can/api2can/internal/usecase"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Mine and apply delexicalized utterance templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newTemplatesBuildCmd())
	cmd.AddCommand(newTemplatesApplyCmd())

	return cmd
}

func newTemplatesBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		Short:   "Mine a template bank from a directory of API descriptions",
		Example: `  api2can templates build --specs ./apis --bank templates.tsv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specsDir, _ := cmd.Flags().GetString("specs")
			bankPath, _ := cmd.Flags().GetString("bank")
			if specsDir == "" || bankPath == "" {
				return fmt.Errorf("--specs and --bank are required")
			}

			p, err := buildPipeline(cmd)
			if err != nil {
				return err
			}

			files, err := specFiles(specsDir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no API descriptions found in %s", specsDir)
			}

			bank := template.NewBank()
			builder := usecase.NewBuildTemplateBankUseCase(p.generateUC, p.classifier, p.templatizer, bank, p.logger)
			stats, err := builder.Execute(cmd.Context(), files)
			if err != nil {
				return err
			}

			if err := bank.Save(bankPath); err != nil {
				return fmt.Errorf("saving template bank: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "templated %d of %d operations; bank holds %d templates\n",
				stats.Templated, stats.Operations, bank.Len())
			return nil
		},
	}

	cmd.Flags().String("specs", "", "Directory of OpenAPI/Swagger documents")
	cmd.Flags().String("bank", "", "Path of the template bank file to write")

	return cmd
}

func newTemplatesApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apply",
		Short:   "Lexicalize an API description's operations from a template bank",
		Example: `  api2can templates apply --input petstore.yaml --bank templates.tsv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			bankPath, _ := cmd.Flags().GetString("bank")
			if input == "" || bankPath == "" {
				return fmt.Errorf("--input and --bank are required")
			}

			p, err := buildPipeline(cmd)
			if err != nil {
				return err
			}

			bank, err := template.LoadBank(bankPath)
			if err != nil {
				return fmt.Errorf("loading template bank: %w", err)
			}
			if bank.Len() == 0 {
				return fmt.Errorf("template bank %s is empty", bankPath)
			}

			api, err := p.loader.Load(cmd.Context(), input)
			if err != nil {
				return err
			}

			lexicalize := usecase.NewLexicalizeUseCase(p.classifier, p.templatizer, p.norm, bank, p.logger)
			for i := range api.Operations {
				op := &api.Operations[i]
				utterance, err := lexicalize.Execute(cmd.Context(), op)
				if err != nil {
					p.logger.Warn("Unable to lexicalize operation, skipping.",
						slog.String("verb", op.Verb),
						slog.String("url", op.URL),
						slog.Any("error", err))
					continue
				}
				op.Canonicals = append(op.Canonicals, domain.Canonical{
					Intent:    op.Intent,
					Utterance: utterance,
					Params:    op.PathParams(),
				})
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(api)
		},
	}

	cmd.Flags().String("input", "", "OpenAPI/Swagger document (path or URL)")
	cmd.Flags().String("bank", "", "Path of the template bank file to read")

	return cmd
}
