// Package main runs the outbox relay: it publishes the catalog and reservation events
// written by the storage engine to a RabbitMQ topic exchange.
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
	"github.com/AntonStoeckl/library-reservations-go/catalog/outbox"
	"github.com/AntonStoeckl/library-reservations-go/catalog/outbox/amqppublisher"
	"github.com/AntonStoeckl/library-reservations-go/catalog/zerologadapter"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/config"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/storage"
)

const (
	serviceName    = "library-outbox-relay"
	serviceVersion = "0.1.0"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly})

	envFile := flag.String("env-file", ".env", "Optional .env file")
	batchSize := flag.Int("batch-size", 100, "Events loaded per round")
	debug := flag.Bool("debug", false, "Log every published event")
	flag.Parse()

	if !*debug {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := zerologadapter.New(log.Logger)
	storageObservability := storage.Observability{Logger: zerologadapter.New(log.Logger.Level(zerolog.WarnLevel))}
	relayOptions := []outbox.Option{
		outbox.WithInterval(cfg.OutboxInterval),
		outbox.WithBatchSize(*batchSize),
		outbox.WithLogger(logger),
	}

	if cfg.OTelEnabled {
		providers, providersErr := config.NewObservabilityProviders(ctx, cfg, serviceName, serviceVersion)
		if providersErr != nil {
			log.Fatal().Err(providersErr).Msg("creating OpenTelemetry providers failed")
		}

		defer func() {
			if shutdownErr := providers.Shutdown(); shutdownErr != nil {
				log.Warn().Err(shutdownErr).Msg("shutting down OpenTelemetry providers failed")
			}
		}()

		metrics := oteladapters.NewMetricsCollector(otel.Meter(serviceName))
		storageObservability.Metrics = metrics
		storageObservability.Tracing = oteladapters.NewTracingCollector(otel.Tracer(serviceName))
		relayOptions = append(relayOptions, outbox.WithMetrics(metrics))
	}

	connection, err := storage.Open(ctx, cfg, storageObservability)
	if err != nil {
		log.Fatal().Err(err).Str("adapter", cfg.AdapterType).Msg("opening storage failed")
	}
	defer connection.Close()

	publisher, err := amqppublisher.Dial(cfg.RabbitMQURL, cfg.OutboxExchange)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to RabbitMQ failed")
	}
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("closing RabbitMQ publisher failed")
		}
	}()

	relay, err := outbox.NewRelay(connection.Store, publisher, relayOptions...)
	if err != nil {
		log.Fatal().Err(err).Msg("creating outbox relay failed")
	}

	log.Info().
		Str("adapter", connection.AdapterType).
		Str("exchange", cfg.OutboxExchange).
		Dur("interval", cfg.OutboxInterval).
		Msg("relaying outbox events, press Ctrl+C to stop")

	relay.Run(ctx)
}
