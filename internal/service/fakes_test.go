package service

import (
	"context"
	"sync"
	"time"

	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/dto"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/payment-gateway/digistore"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/repository"
)

type fakeCommerce struct {
	mu           sync.Mutex
	nextOrderID  int64
	orders       []dto.ShopifyOrder
	notes        map[int64]string
	transactions map[int64][]dto.ShopifyTransaction
	createCalls  int

	// cancelOnList simulates the caller hanging up during the lookup.
	cancelOnList context.CancelFunc

	createOrderErr error
	noteErr        error
	listErr        error
	createTrxErr   error
}

func newFakeCommerce() *fakeCommerce {
	return &fakeCommerce{
		nextOrderID:  1001,
		notes:        make(map[int64]string),
		transactions: make(map[int64][]dto.ShopifyTransaction),
	}
}

func (f *fakeCommerce) CreateOrder(ctx context.Context, order dto.ShopifyOrder) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.orders = append(f.orders, order)
	if f.createOrderErr != nil {
		return 0, f.createOrderErr
	}
	return f.nextOrderID, nil
}

func (f *fakeCommerce) UpdateOrderNote(ctx context.Context, orderID int64, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.noteErr != nil {
		return f.noteErr
	}
	f.notes[orderID] = note
	return nil
}

func (f *fakeCommerce) ListTransactions(ctx context.Context, orderID int64) ([]dto.ShopifyTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancelOnList != nil {
		f.cancelOnList()
		f.cancelOnList = nil
		return nil, ctx.Err()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]dto.ShopifyTransaction(nil), f.transactions[orderID]...), nil
}

func (f *fakeCommerce) CreateTransaction(ctx context.Context, orderID int64, transaction dto.ShopifyTransaction) (dto.ShopifyTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createTrxErr != nil {
		return dto.ShopifyTransaction{}, f.createTrxErr
	}
	transaction.ID = int64(len(f.transactions[orderID]) + 1)
	f.transactions[orderID] = append(f.transactions[orderID], transaction)
	return transaction, nil
}

type fakeGateway struct {
	requests []digistore.BuyURLRequest
	url      string
	err      error
}

func (f *fakeGateway) CreateBuyURL(ctx context.Context, req digistore.BuyURLRequest) (digistore.BuyURL, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return digistore.BuyURL{}, f.err
	}
	return digistore.BuyURL{URL: f.url}, nil
}

type fakeReconciler struct {
	mu      sync.Mutex
	records []domain.ReconciliationRecord
	err     error
}

func (f *fakeReconciler) Reconcile(ctx context.Context, record domain.ReconciliationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	f.records = append(f.records, record)
	return f.err
}

type fakeNotificationLog struct {
	mu            sync.Mutex
	notifications []domain.Notification
	unhandled     []string
}

func (f *fakeNotificationLog) LogNotification(notification domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, notification)
}

func (f *fakeNotificationLog) LogUnhandledEvent(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unhandled = append(f.unhandled, event)
}

type fakeRepository struct {
	reserveErr  error
	reservedTTL []time.Duration
	extended    map[string]time.Duration
	released    []string
}

func (f *fakeRepository) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.reservedTTL = append(f.reservedTTL, ttl)
	return f.reserveErr == nil, f.reserveErr
}

func (f *fakeRepository) Extend(ctx context.Context, key string, ttl time.Duration) error {
	if f.extended == nil {
		f.extended = make(map[string]time.Duration)
	}
	f.extended[key] = ttl
	return nil
}

func (f *fakeRepository) Release(ctx context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

// contextRepository fails every call made on a finished context, like a network store does.
type contextRepository struct {
	*repository.MemoryNotificationRepository
}

func (r contextRepository) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.MemoryNotificationRepository.Reserve(ctx, key, ttl)
}

func (r contextRepository) Extend(ctx context.Context, key string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.MemoryNotificationRepository.Extend(ctx, key, ttl)
}

func (r contextRepository) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.MemoryNotificationRepository.Release(ctx, key)
}
