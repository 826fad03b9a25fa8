package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"github.com/rs/zerolog/log"
)

// Sink keeps a failed commerce update somewhere an operator can replay it from.
type Sink interface {
	Name() string
	Publish(ctx context.Context, record domain.ReconciliationRecord) error
}

// Fanout always logs the record and then hands it to every durable sink.
type Fanout struct {
	sinks []Sink
}

func CreateFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Reconcile succeeds when at least one durable sink accepted the record.
// With no durable sink configured the log line is the only trail.
func (f *Fanout) Reconcile(ctx context.Context, record domain.ReconciliationRecord) error {
	log.Ctx(ctx).Error().Str("component", "Reconcile").
		Str("order_reference", record.OrderReference).
		Str("event", record.Event).
		Str("transaction_id", record.TransactionID).
		Str("status", record.Status).
		Str("amount", record.Amount).
		Str("currency", record.Currency).
		Str("reason", record.Reason).
		Msg("commerce update failed, needs reconciliation")

	if len(f.sinks) == 0 {
		return nil
	}

	var errList []error
	for _, sink := range f.sinks {
		if err := sink.Publish(ctx, record); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "Reconcile").Str("sink", sink.Name()).Msg("")
			errList = append(errList, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}

	if len(errList) == len(f.sinks) {
		return errors.Join(errList...)
	}

	return nil
}
