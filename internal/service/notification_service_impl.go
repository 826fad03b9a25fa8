package service

import (
	"context"
	"time"

	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/dto"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/payment-gateway/digistore"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/metrics"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/repository"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

const (
	transactionKind    = "capture"
	transactionGateway = "Digistore24"

	// claimTTL bounds how long an in-flight delivery blocks its duplicates.
	claimTTL       = 5 * time.Minute
	cleanupTimeout = 5 * time.Second
)

type NotificationServiceImpl struct {
	repository repository.NotificationRepository
	commerce   CommerceClient
	reconciler Reconciler
	ipnLog     NotificationLog
	secret     string
	dedupTTL   time.Duration
	now        func() time.Time
}

func CreateNotificationService(repository repository.NotificationRepository, commerce CommerceClient, reconciler Reconciler, ipnLog NotificationLog, secret string, dedupTTL time.Duration) NotificationService {
	return &NotificationServiceImpl{
		repository: repository,
		commerce:   commerce,
		reconciler: reconciler,
		ipnLog:     ipnLog,
		secret:     secret,
		dedupTTL:   dedupTTL,
		now:        time.Now,
	}
}

// HandleNotification applies one verified payment event to its order at most once.
// A nil error means the processor may consider the delivery done.
func (s *NotificationServiceImpl) HandleNotification(ctx context.Context, notification domain.Notification) (err error) {
	s.ipnLog.LogNotification(notification)

	event := notification.Event()
	logger := log.Ctx(ctx).With().Str("component", "HandleNotification").
		Str("event", event).
		Str("transaction_id", notification.TransactionID()).
		Logger()

	if !digistore.VerifySignature(notification, s.secret) {
		logger.Warn().Msg("rejected notification with invalid signature")
		metrics.Notifications.WithLabelValues(event, "invalid_signature").Inc()
		return errs.ErrInvalidSignature
	}

	status, ok := domain.StatusForEvent(event)
	if !ok {
		s.ipnLog.LogUnhandledEvent(event)
		logger.Info().Msg("ignored unhandled event")
		metrics.Notifications.WithLabelValues(event, "ignored").Inc()
		return nil
	}

	ref, err := domain.ParseOrderReference(notification.Custom())
	if err != nil {
		logger.Error().Err(err).Str("custom", notification.Custom()).Msg("notification carries no usable order reference")
		metrics.Notifications.WithLabelValues(event, "invalid_reference").Inc()
		return nil
	}
	logger = logger.With().Str("order_reference", ref.String()).Logger()

	key := notification.DedupKey()
	reserved, err := s.repository.Reserve(ctx, key, min(claimTTL, s.dedupTTL))
	if err != nil {
		logger.Error().Err(err).Msg("failed to claim notification")
		metrics.Notifications.WithLabelValues(event, "store_error").Inc()
		return errs.ErrInternalServer
	}
	if !reserved {
		logger.Info().Msg("duplicate notification")
		metrics.Notifications.WithLabelValues(event, "duplicate").Inc()
		return nil
	}

	alreadyApplied, err := s.applyStatus(ctx, ref, status, notification)

	// The caller hanging up must not leave the claim or the record behind.
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err == nil {
		if extendErr := s.repository.Extend(cleanupCtx, key, s.dedupTTL); extendErr != nil {
			logger.Error().Err(extendErr).Msg("failed to extend notification claim")
		}

		outcome := "applied"
		if alreadyApplied {
			outcome = "already_applied"
		}
		logger.Info().Str("status", string(status)).Msg(outcome)
		metrics.Notifications.WithLabelValues(event, outcome).Inc()
		return nil
	}

	logger.Error().Err(err).Str("status", string(status)).Msg("failed to update order")

	// Releasing lets a redelivery try again.
	if releaseErr := s.repository.Release(cleanupCtx, key); releaseErr != nil {
		logger.Error().Err(releaseErr).Msg("failed to release notification claim")
	}

	record := domain.ReconciliationRecord{
		OrderReference: ref.String(),
		Event:          event,
		TransactionID:  notification.TransactionID(),
		Status:         string(status),
		Amount:         notification.Amount(),
		Currency:       notification.Currency(),
		ReceiptURL:     notification.ReceiptURL(),
		Reason:         err.Error(),
		FailedAt:       s.now().Unix(),
	}
	if err := s.reconciler.Reconcile(cleanupCtx, record); err != nil {
		logger.Error().Err(err).Msg("failed to hand over update for reconciliation")
		metrics.Notifications.WithLabelValues(event, "failed").Inc()
		return errs.ErrInternalServer
	}

	metrics.Notifications.WithLabelValues(event, "reconciliation").Inc()

	return nil
}

// applyStatus reports true when the order already carries this transaction with this status.
func (s *NotificationServiceImpl) applyStatus(ctx context.Context, ref domain.OrderReference, status domain.OrderStatus, notification domain.Notification) (bool, error) {
	transactions, err := s.commerce.ListTransactions(ctx, int64(ref))
	if err != nil {
		return false, err
	}

	for _, transaction := range transactions {
		if transaction.Authorization == notification.TransactionID() && transaction.Status == string(status) {
			return true, nil
		}
	}

	transaction := dto.ShopifyTransaction{
		Kind:          transactionKind,
		Status:        string(status),
		Amount:        notification.Amount(),
		Currency:      notification.Currency(),
		Gateway:       transactionGateway,
		Authorization: notification.TransactionID(),
	}
	if receiptURL := notification.ReceiptURL(); receiptURL != "" {
		transaction.Receipt = &dto.ShopifyReceipt{URL: receiptURL}
	}

	_, err = s.commerce.CreateTransaction(ctx, int64(ref), transaction)

	return false, err
}
