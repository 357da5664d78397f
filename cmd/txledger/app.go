package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/adapter/csvio"
	redisRepo "github.com/iho/txledger/internal/adapter/repository/redis"
	"github.com/iho/txledger/internal/infrastructure/config"
	"github.com/iho/txledger/internal/infrastructure/eventpublisher"
	"github.com/iho/txledger/internal/infrastructure/idgen"
	"github.com/iho/txledger/internal/infrastructure/logger"
	"github.com/iho/txledger/internal/infrastructure/metrics"
	"github.com/iho/txledger/internal/infrastructure/redis"
	"github.com/iho/txledger/internal/ledger"
	"github.com/iho/txledger/internal/usecase"
)

// app wires the ledger to its optional adapters for one process run.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	ledger   *ledger.Ledger

	redisClient *goredis.Client
	kafka       *eventpublisher.KafkaPublisher
	outbox      *eventpublisher.Outbox
	stopOutbox  context.CancelFunc
	outboxDone  chan struct{}

	ingestUC         *usecase.IngestUseCase
	ledgerUC         *usecase.LedgerUseCase
	reconciliationUC *usecase.ReconciliationUseCase // nil without a snapshot store
}

func newApp(ctx context.Context, cfg *config.Config, stderr io.Writer) (*app, error) {
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	a := &app{
		cfg:      cfg,
		logger:   log,
		registry: registry,
		metrics:  m,
		ledger:   ledger.New(),
	}

	var publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(logger.Component(log, "events"))
	if len(cfg.KafkaBrokers) > 0 {
		a.kafka = eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = a.kafka
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing freeze events to kafka")
	}

	a.outbox = eventpublisher.NewOutbox(eventpublisher.Config{
		Publisher: publisher,
		Logger:    logger.Component(log, "outbox"),
		Metrics:   m,
	})
	outboxCtx, cancel := context.WithCancel(context.Background())
	a.stopOutbox = cancel
	a.outboxDone = make(chan struct{})
	go func() {
		defer close(a.outboxDone)
		_ = a.outbox.Start(outboxCtx)
	}()

	var snapshots usecase.SnapshotStore
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, logger.Component(log, "redis"))
		if err != nil {
			a.close()
			return nil, err
		}
		a.redisClient = client
		snapshots = redisRepo.NewSnapshotStore(client, redisRepo.NewRetrier(logger.Component(log, "redis")), m, cfg.SnapshotTTL)
	}

	a.ingestUC = usecase.NewIngestUseCase(a.ledger, a.outbox, idgen.NewULIDGenerator(), metrics.NewIngestRecorder(m, a.ledger), logger.Component(log, "ingest"))
	a.ledgerUC = usecase.NewLedgerUseCase(a.ledger, snapshots)
	if snapshots != nil {
		a.reconciliationUC = usecase.NewReconciliationUseCase(a.ledger, snapshots)
	}

	return a, nil
}

// ingest reads the CSV file at path into the ledger and flushes pending events.
func (a *app) ingest(ctx context.Context, path string) (*usecase.IngestReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	report, err := a.ingestUC.Run(ctx, csvio.NewReader(f))
	if err != nil {
		return report, err
	}

	a.outbox.Flush(ctx)

	return report, nil
}

// saveSnapshot stores the ledger under runID when a store is configured.
// Failures are logged and do not fail the run.
func (a *app) saveSnapshot(ctx context.Context, runID string) {
	if err := a.ledgerUC.SaveSnapshot(ctx, runID); err != nil {
		a.logger.Error().Err(err).Str("run_id", runID).Msg("failed to store snapshot")
	}
}

// writeMetrics exports the registry to the configured textfile, if any.
func (a *app) writeMetrics() {
	if a.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(a.cfg.MetricsFile, a.registry); err != nil {
		a.logger.Error().Err(err).Msg("failed to export metrics")
	}
}

func (a *app) close() {
	if a.stopOutbox != nil {
		a.stopOutbox()
		<-a.outboxDone

		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		a.outbox.Flush(flushCtx)
		cancel()
	}

	var errs []error
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
	}
	if a.redisClient != nil {
		errs = append(errs, a.redisClient.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn().Err(err).Msg("error while closing connections")
	}
}
