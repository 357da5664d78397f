package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/ledger"
)

// IngestReport summarizes one ingestion run.
type IngestReport struct {
	RunID    string
	RowsRead int
	Applied  int
	Ignored  int
	Dropped  int
	Frozen   int
	Duration time.Duration
}

// IngestUseCase feeds a transaction stream into the ledger.
type IngestUseCase struct {
	ledger    *ledger.Ledger
	publisher EventPublisher
	idGen     IDGenerator
	observer  IngestObserver
	logger    zerolog.Logger
}

// NewIngestUseCase creates a new IngestUseCase. observer may be nil.
func NewIngestUseCase(
	l *ledger.Ledger,
	publisher EventPublisher,
	idGen IDGenerator,
	observer IngestObserver,
	logger zerolog.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		ledger:    l,
		publisher: publisher,
		idGen:     idGen,
		observer:  observer,
		logger:    logger,
	}
}

// Run applies every transaction from src in order. Dropped rows and ignored
// transactions are counted, never fatal. A freeze is published as an event;
// publish failures are logged and ingestion continues.
func (uc *IngestUseCase) Run(ctx context.Context, src TransactionSource) (*IngestReport, error) {
	start := time.Now()
	report := &IngestReport{RunID: uc.idGen.Generate()}
	logger := uc.logger.With().Str("run_id", report.RunID).Logger()

	logger.Info().Msg("ingestion started")

	finish := func() {
		report.Duration = time.Since(start)
		if uc.observer != nil {
			uc.observer.RunFinished(report)
		}
	}

	for {
		tx, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && errors.Is(err, domain.ErrMalformedInput) {
			report.RowsRead++
			report.Dropped++
			if uc.observer != nil {
				uc.observer.RowDropped()
			}
			logger.Debug().Err(err).Msg("dropping malformed row")
			continue
		}
		if err != nil {
			finish()
			return report, fmt.Errorf("failed to read transaction: %w", err)
		}
		report.RowsRead++

		result := uc.ledger.Apply(tx)
		if uc.observer != nil {
			uc.observer.TransactionHandled(tx, result)
		}

		if !result.Applied {
			report.Ignored++
			logger.Debug().Err(result.Reason).Stringer("tx", tx).Msg("transaction ignored")
			continue
		}
		report.Applied++

		if result.Froze {
			report.Frozen++
			uc.publishFrozen(ctx, logger, report.RunID, tx)
		}
	}

	finish()

	logger.Info().
		Int("rows_read", report.RowsRead).
		Int("applied", report.Applied).
		Int("ignored", report.Ignored).
		Int("dropped", report.Dropped).
		Int("frozen", report.Frozen).
		Int("accounts", uc.ledger.Len()).
		Dur("duration", report.Duration).
		Msg("ingestion finished")

	return report, nil
}

func (uc *IngestUseCase) publishFrozen(ctx context.Context, logger zerolog.Logger, runID string, tx domain.Transaction) {
	account, _ := uc.ledger.GetAccount(tx.ClientID())
	event := domain.NewAccountFrozenEvent(uc.idGen.Generate(), runID, tx, account)

	logger.Info().
		Uint16("client", uint16(tx.ClientID())).
		Uint32("tx", uint32(tx.TxID())).
		Msg("account frozen by chargeback")

	if err := uc.publisher.Publish(ctx, event); err != nil {
		logger.Error().Err(err).
			Str("event_id", event.ID).
			Uint16("client", uint16(tx.ClientID())).
			Msg("failed to publish account frozen event")
	}
}
