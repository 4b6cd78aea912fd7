package cli

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/api2can/api2can/internal/adapter/outbound/langtool"
	"github.com/api2can/api2can/internal/adapter/outbound/openapi"
	"github.com/api2can/api2can/internal/adapter/outbound/sampler"
	"github.com/api2can/api2can/internal/classify"
	"github.com/api2can/api2can/internal/lexical"
	"github.com/api2can/api2can/internal/phrase"
	"github.com/api2can/api2can/internal/template"
	"github.com/api2can/api2can/internal/usecase"
)

// pipeline bundles the wired components a command needs.
type pipeline struct {
	logger      *slog.Logger
	lex         *lexical.Service
	loader      *openapi.Loader
	classifier  *classify.Classifier
	templatizer *template.Templatizer
	norm        *phrase.Normalizer
	generateUC  *usecase.GenerateCanonicalsUseCase
}

// buildPipeline wires the pipeline from persistent flags.
func buildPipeline(cmd *cobra.Command) (*pipeline, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	httpClient := &http.Client{Timeout: 30 * time.Second}

	lex := lexical.NewService()

	paramsTSV, _ := cmd.Flags().GetString("params-tsv")
	entities, _ := cmd.Flags().GetString("entities")
	table := lexical.NewParamTable(lex)
	if paramsTSV != "" {
		loaded, err := lexical.LoadParamTable(lex, paramsTSV, entities)
		if err != nil {
			return nil, err
		}
		table = loaded
	}

	var grammar phrase.GrammarChecker = phrase.NoopGrammarChecker{}
	var spell lexical.SpellChecker
	if grammarURL, _ := cmd.Flags().GetString("grammar-url"); grammarURL != "" {
		lt := langtool.New(grammarURL, httpClient, logger)
		grammar = lt
		spell = lt
	}

	values := sampler.New(lex, table, logger)
	classifier := classify.New(lex, logger)
	rules := phrase.NewGenerator(lex, values, logger)
	norm := phrase.NewNormalizer(lex, grammar, spell)
	extractor := phrase.NewExtractor(lex, norm, logger)
	templatizer := template.New(lex, grammar, spell, logger)
	loader := openapi.NewLoader(httpClient, lex, logger)

	return &pipeline{
		logger:      logger,
		lex:         lex,
		loader:      loader,
		classifier:  classifier,
		templatizer: templatizer,
		norm:        norm,
		generateUC: usecase.NewGenerateCanonicalsUseCase(loader, classifier, rules, extractor, norm, lex, logger),
	}, nil
}

// specFiles lists the YAML and JSON documents directly under dir, sorted.
func specFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if hasAnySuffix(name, ".yaml", ".yml", ".json") {
			files = append(files, dir+"/"+name)
		}
	}
	return files, nil
}

func hasAnySuffix(name string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
