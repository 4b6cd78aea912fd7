package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/usecase"
)

// datasetItem is one operation row in an emitted dataset file.
type datasetItem struct {
	API string `json:"api"`
	domain.Operation
}

func newDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Build train/validation/test canonical datasets from a directory of API descriptions",
		Long: "Build canonical-utterance datasets from every OpenAPI/Swagger document in a directory. " +
			"Files are split 90/5/5 into train, validation and test sets; expert-written canonicals " +
			"can override the generated ones.",
		Example: `  api2can dataset --specs ./apis --out ./dataset
  api2can dataset --specs ./apis --out ./dataset --expert expert-canonicals.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specsDir, _ := cmd.Flags().GetString("specs")
			outDir, _ := cmd.Flags().GetString("out")
			expertPath, _ := cmd.Flags().GetString("expert")
			if specsDir == "" || outDir == "" {
				return fmt.Errorf("--specs and --out are required")
			}

			p, err := buildPipeline(cmd)
			if err != nil {
				return err
			}

			expert, err := loadExpertCanonicals(expertPath)
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

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			stages := splitStages(files)
			for _, stage := range []string{"test", "validation", "train"} {
				if err := buildStage(cmd.Context(), p, stage, stages[stage], expert, outDir); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("specs", "", "Directory of OpenAPI/Swagger documents")
	cmd.Flags().String("out", "", "Output directory for the dataset files")
	cmd.Flags().String("expert", "", "JSON file mapping verb+url to an expert-written canonical")

	return cmd
}

// splitStages partitions the file list 90/5/5 into train, validation and
// test sets.
func splitStages(files []string) map[string][]string {
	n := len(files)
	trainEnd := n * 90 / 100
	validationEnd := n * 95 / 100
	return map[string][]string{
		"train":      files[:trainEnd],
		"validation": files[trainEnd:validationEnd],
		"test":       files[validationEnd:],
	}
}

func buildStage(ctx context.Context, p *pipeline, stage string, files []string, expert map[string]string, outDir string) error {
	summaryOpts := usecase.GenerateOptions{
		Translators:         []usecase.Translator{usecase.TranslatorSummary},
		IgnoreNonPathParams: true,
	}
	ruleOpts := usecase.GenerateOptions{
		Translators:         []usecase.Translator{usecase.TranslatorRule},
		IgnoreNonPathParams: true,
	}

	items := []datasetItem{}
	failed := 0
	for _, file := range files {
		api, err := p.loader.Load(ctx, file)
		if err != nil {
			p.logger.Warn("Unable to parse API description, skipping.",
				slog.String("file", file), slog.Any("error", err))
			failed++
			continue
		}

		// Summary-based canonicals first; an expert-written utterance
		// replaces them; a successful rule translation beats both.
		p.generateUC.Execute(ctx, api.Operations, summaryOpts)
		for i := range api.Operations {
			op := &api.Operations[i]
			if utterance, ok := expert[op.Verb+op.URL]; ok {
				op.Canonicals = []domain.Canonical{{Intent: op.Intent, Utterance: utterance}}
			}
			if ruled := p.generateUC.Translate(op, ruleOpts); len(ruled) > 0 {
				op.Canonicals = ruled
			}
			items = append(items, datasetItem{API: filepath.Base(file), Operation: *op})
		}
	}

	out := filepath.Join(outDir, fmt.Sprintf("API2Can-%s.json", stage))
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s dataset: %w", stage, err)
	}

	p.logger.Info("Dataset stage written.",
		slog.String("stage", stage),
		slog.String("path", out),
		slog.Int("files", len(files)),
		slog.Int("failed_files", failed),
		slog.Int("operations", len(items)))
	return nil
}

// loadExpertCanonicals reads the optional verb+url to utterance overrides.
func loadExpertCanonicals(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading expert canonicals: %w", err)
	}
	var ret map[string]string
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("parsing expert canonicals: %w", err)
	}
	return ret, nil
}
