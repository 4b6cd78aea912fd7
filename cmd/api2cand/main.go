package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/api2can/api2can/configs"
	"github.com/api2can/api2can/internal/adapter/inbound/httpapi"
	"github.com/api2can/api2can/internal/adapter/outbound/langtool"
	"github.com/api2can/api2can/internal/adapter/outbound/openapi"
	"github.com/api2can/api2can/internal/adapter/outbound/sampler"
	"github.com/api2can/api2can/internal/classify"
	"github.com/api2can/api2can/internal/lexical"
	"github.com/api2can/api2can/internal/phrase"
	"github.com/api2can/api2can/internal/template"
	"github.com/api2can/api2can/internal/usecase"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// === Logging ===
	logLevel := cfg.ParsedLogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Info("Logger initialized.", slog.String("level", logLevel.String()))

	// === OpenTelemetry Initialization ===
	shutdownOtel, err := initOtelProvider(cfg)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry.", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	// === Dependency Injection ===
	logger.Info("Initializing dependencies...")

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	lex := lexical.NewService()

	table, err := lexical.LoadParamTable(lex, cfg.ParamsTSVPath(), cfg.EntityListPath())
	if err != nil {
		logger.Warn("Parameter table unavailable, sampling falls back to synthesized values.",
			slog.Any("error", err))
		table = lexical.NewParamTable(lex)
	}

	var grammar phrase.GrammarChecker = phrase.NoopGrammarChecker{}
	var spell lexical.SpellChecker
	if cfg.GrammarServiceURL != "" {
		lt := langtool.New(cfg.GrammarServiceURL, httpClient, logger)
		grammar = lt
		spell = lt
		logger.Info("Grammar service configured.", slog.String("url", cfg.GrammarServiceURL))
	} else {
		logger.Info("No grammar service configured, corrections disabled.")
	}

	values := sampler.New(lex, table, logger)
	classifier := classify.New(lex, logger)
	rules := phrase.NewGenerator(lex, values, logger)
	norm := phrase.NewNormalizer(lex, grammar, spell)
	extractor := phrase.NewExtractor(lex, norm, logger)
	templatizer := template.New(lex, grammar, spell, logger)
	loader := openapi.NewLoader(httpClient, lex, logger)

	bank, err := template.LoadBank(cfg.TemplateBankPath())
	if err != nil {
		logger.Error("Failed to load template bank.", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Template bank loaded.", slog.Int("template_count", bank.Len()))

	generateUC := usecase.NewGenerateCanonicalsUseCase(loader, classifier, rules, extractor, norm, lex, logger)
	lexicalizeUC := usecase.NewLexicalizeUseCase(classifier, templatizer, norm, bank, logger)

	// === Initial Template Mining ===
	if len(cfg.SpecSources) > 0 {
		logger.Info("Mining templates from configured sources...",
			slog.Int("source_count", len(cfg.SpecSources)))
		bankUC := usecase.NewBuildTemplateBankUseCase(generateUC, classifier, templatizer, bank, logger)
		if _, err := bankUC.Execute(ctx, cfg.SpecSources); err != nil {
			logger.Error("Initial template mining failed. Server startup continuing.", slog.Any("error", err))
		} else if err := bank.Save(cfg.TemplateBankPath()); err != nil {
			logger.Warn("Failed to persist template bank.", slog.Any("error", err))
		}
	}

	// === HTTP Server ===
	mux := http.NewServeMux()
	handlers := httpapi.NewHandlers(loader, generateUC, lexicalizeUC, values, logger)
	handlers.RegisterRoutes(mux)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	go func() {
		logger.Info("HTTP server starting.", slog.String("address", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed to start.", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	// === Server Shutdown ===
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed.", slog.Any("error", err))
	}
	logger.Info("Server shut down gracefully.")
}

// initOtelProvider initializes the OpenTelemetry SDK and sets up the OTLP
// trace exporter. It returns a shutdown function to be called on exit.
func initOtelProvider(cfg *configs.Config) (func(context.Context) error, error) {
	ctx := context.Background()

	if cfg.OtelExporterOtlpEndpoint == "" {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, OpenTelemetry tracing disabled.")
		return func(context.Context) error { return nil }, nil
	}

	slog.Info("Initializing OTLP exporter.", slog.String("endpoint", cfg.OtelExporterOtlpEndpoint))

	grpcOpts := []grpc.DialOption{}
	if cfg.OtelExporterOtlpInsecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		slog.Warn("Using insecure connection for OTLP exporter.")
	}

	conn, err := grpc.NewClient(cfg.OtelExporterOtlpEndpoint, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP endpoint: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("api2cand"),
		),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) error {
		providerErr := tp.Shutdown(ctx)
		connErr := conn.Close()
		return errors.Join(providerErr, connErr)
	}, nil
}
