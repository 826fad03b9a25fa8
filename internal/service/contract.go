package service

import (
	"context"

	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/dto"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/payment-gateway/digistore"
)

type CheckoutService interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (resp dto.CheckoutResponse, err error)
}

type NotificationService interface {
	HandleNotification(ctx context.Context, notification domain.Notification) (err error)
}

type CommerceClient interface {
	CreateOrder(ctx context.Context, order dto.ShopifyOrder) (orderID int64, err error)
	UpdateOrderNote(ctx context.Context, orderID int64, note string) (err error)
	ListTransactions(ctx context.Context, orderID int64) (transactions []dto.ShopifyTransaction, err error)
	CreateTransaction(ctx context.Context, orderID int64, transaction dto.ShopifyTransaction) (created dto.ShopifyTransaction, err error)
}

type PaymentGateway interface {
	CreateBuyURL(ctx context.Context, req digistore.BuyURLRequest) (buyURL digistore.BuyURL, err error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, record domain.ReconciliationRecord) (err error)
}

type NotificationLog interface {
	LogNotification(notification domain.Notification)
	LogUnhandledEvent(event string)
}
