// Package main implements a load generator that runs concurrent reserve, cancel and search requests
// against the configured storage engine and verifies the inventory conservation law at the end.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-reservations-go/catalog/oteladapters"
	"github.com/AntonStoeckl/library-reservations-go/catalog/zerologadapter"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/config"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/storage"
)

const (
	serviceName    = "library-load-generator"
	serviceVersion = "0.1.0"
)

const (
	defaultWorkers       = 16
	defaultDuration      = 30 * time.Second
	defaultBooks         = 20
	defaultCopiesPerBook = 3
	defaultUsers         = 50
	defaultWeights       = "50,30,20" // reserve, cancel, search
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly})

	settings, err := parseFlags()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}

	cfg, err := config.Load(settings.EnvFile)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	observability, shutdown := buildObservability(ctx, cfg)
	defer shutdown()

	connection, err := storage.Open(ctx, cfg, observability.storage())
	if err != nil {
		log.Fatal().Err(err).Str("adapter", cfg.AdapterType).Msg("opening storage failed")
	}
	defer connection.Close()

	generator, err := NewLoadGenerator(connection.Store, settings, observability)
	if err != nil {
		log.Fatal().Err(err).Msg("creating load generator failed")
	}

	log.Info().
		Str("adapter", connection.AdapterType).
		Int("workers", settings.Workers).
		Dur("duration", settings.Duration).
		Int("books", settings.Books).
		Int("copies_per_book", settings.CopiesPerBook).
		Ints("weights", settings.Weights).
		Msg("load generator starting, press Ctrl+C to stop early")

	runCtx, cancel := context.WithTimeout(ctx, settings.Duration)
	defer cancel()

	if err = generator.Run(runCtx); err != nil {
		log.Fatal().Err(err).Msg("load generation failed")
	}

	stats := generator.Stats()
	log.Info().
		Int64("reserved", stats.Reserved).
		Int64("out_of_stock", stats.OutOfStock).
		Int64("canceled", stats.Canceled).
		Int64("searches", stats.Searches).
		Int64("errors", stats.Errors).
		Msg("load generation finished")

	verifyCtx, verifyCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer verifyCancel()

	violations, err := generator.VerifyConservation(verifyCtx)
	if err != nil {
		log.Fatal().Err(err).Msg("verifying the conservation law failed")
	}

	for _, violation := range violations {
		log.Error().
			Str("book_id", violation.BookID.String()).
			Int("initial", violation.Initial).
			Int("quantity", violation.Quantity).
			Int("active_reservations", violation.ActiveReservations).
			Msg("conservation law violated")
	}

	if len(violations) > 0 {
		os.Exit(1)
	}

	log.Info().Int("books", settings.Books).Msg("conservation law holds for every book")
}

func parseFlags() (Settings, error) {
	var (
		workers       = flag.Int("workers", defaultWorkers, "Number of concurrent workers")
		duration      = flag.Duration("duration", defaultDuration, "How long to generate load")
		books         = flag.Int("books", defaultBooks, "Number of books to create")
		copiesPerBook = flag.Int("copies", defaultCopiesPerBook, "Initial copies per book")
		users         = flag.Int("users", defaultUsers, "Number of distinct users")
		weights       = flag.String("weights", defaultWeights, "Comma-separated weights for reserve,cancel,search")
		envFile       = flag.String("env-file", ".env", "Optional .env file")
	)

	flag.Parse()

	parsedWeights, err := ParseWeights(*weights)
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		Workers:       *workers,
		Duration:      *duration,
		Books:         *books,
		CopiesPerBook: *copiesPerBook,
		Users:         *users,
		Weights:       parsedWeights,
		EnvFile:       *envFile,
	}

	return settings, settings.Validate()
}

// Observability holds the adapters shared by the storage engine and the handlers.
type Observability struct {
	StorageLogger    *zerologadapter.Logger
	ContextualLogger *oteladapters.SlogBridgeLogger
	MetricsCollector *oteladapters.MetricsCollector
	TracingCollector *oteladapters.TracingCollector
}

func (o Observability) storage() storage.Observability {
	observability := storage.Observability{}

	if o.StorageLogger != nil {
		observability.Logger = o.StorageLogger
	}

	if o.ContextualLogger != nil {
		observability.ContextualLogger = o.ContextualLogger
	}

	if o.MetricsCollector != nil {
		observability.Metrics = o.MetricsCollector
	}

	if o.TracingCollector != nil {
		observability.Tracing = o.TracingCollector
	}

	return observability
}

func buildObservability(ctx context.Context, cfg config.Config) (Observability, func()) {
	observability := Observability{
		StorageLogger: zerologadapter.New(log.Logger.Level(zerolog.WarnLevel)),
	}

	if !cfg.OTelEnabled {
		return observability, func() {}
	}

	providers, err := config.NewObservabilityProviders(ctx, cfg, serviceName, serviceVersion)
	if err != nil {
		log.Warn().Err(err).Msg("OpenTelemetry disabled, creating providers failed")
		return observability, func() {}
	}

	observability.ContextualLogger = oteladapters.NewSlogBridgeLogger(serviceName)
	observability.MetricsCollector = oteladapters.NewMetricsCollector(otel.Meter(serviceName))
	observability.TracingCollector = oteladapters.NewTracingCollector(otel.Tracer(serviceName))

	log.Info().Str("endpoint", cfg.OTLPEndpoint).Msg("OpenTelemetry enabled")

	return observability, func() {
		if shutdownErr := providers.Shutdown(); shutdownErr != nil {
			log.Warn().Err(shutdownErr).Msg("shutting down OpenTelemetry providers failed")
		}
	}
}
