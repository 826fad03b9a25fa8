package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alimikegami/point-of-sales/checkout-service/config"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/dto"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/payment-gateway/digistore"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/metrics"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	defaultCustomerName  = "Guest User"
	defaultCustomerEmail = "guest@example.com"
	orderTag             = "Digistore24 Payment"
	notePrefix           = "Payment pending. Pay here: "
)

type CheckoutServiceImpl struct {
	commerce CommerceClient
	gateway  PaymentGateway
	config   config.DigistoreConfig
}

func CreateCheckoutService(commerce CommerceClient, gateway PaymentGateway, config config.DigistoreConfig) CheckoutService {
	return &CheckoutServiceImpl{
		commerce: commerce,
		gateway:  gateway,
		config:   config,
	}
}

func (s *CheckoutServiceImpl) Checkout(ctx context.Context, req dto.CheckoutRequest) (resp dto.CheckoutResponse, err error) {
	if err = req.Validate(); err != nil {
		metrics.Checkouts.WithLabelValues("invalid").Inc()
		return
	}

	email := strings.TrimSpace(req.Customer.Email)
	if email == "" {
		email = defaultCustomerEmail
	}
	name := strings.TrimSpace(req.Customer.Name)
	if name == "" {
		name = defaultCustomerName
	}

	orderID, err := s.commerce.CreateOrder(ctx, dto.ShopifyOrder{
		Email:               email,
		FinancialStatus:     "pending",
		PaymentGatewayNames: []string{"manual"},
		Tags:                orderTag,
		LineItems:           buildLineItems(req.Cart.Items),
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Checkout").Msg("failed to create order")
		metrics.Checkouts.WithLabelValues("order_failed").Inc()
		return resp, fmt.Errorf("%w: failed to create order: %v", errs.ErrBadGateway, err)
	}

	ref := domain.OrderReference(orderID)
	firstName, lastName := utils.SplitCustomerName(name)

	buyURL, err := s.gateway.CreateBuyURL(ctx, digistore.BuyURLRequest{
		ProductID: s.config.ProductID,
		Buyer: digistore.Buyer{
			Email:        email,
			FirstName:    firstName,
			LastName:     lastName,
			ReadonlyKeys: "email_and_name",
		},
		PaymentPlan: s.paymentPlan(req.Cart.Total),
		Tracking:    digistore.Tracking{Custom: ref.CorrelationToken()},
		URLs:        digistore.URLs{ThankyouURL: s.config.ThankYouURL},
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Checkout").Int64("order_id", orderID).Msg("failed to create payment link")
		metrics.Checkouts.WithLabelValues("payment_link_failed").Inc()
		return resp, fmt.Errorf("%w: %v", errs.ErrBadGateway, err)
	}

	// A failed note update does not fail the checkout.
	if err := s.commerce.UpdateOrderNote(ctx, orderID, notePrefix+buyURL.URL); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "Checkout").Int64("order_id", orderID).Msg("failed to update order note")
	}

	metrics.Checkouts.WithLabelValues("success").Inc()

	return dto.CheckoutResponse{
		Success:     true,
		OrderID:     orderID,
		PaymentLink: buyURL.URL,
	}, nil
}

func (s *CheckoutServiceImpl) paymentPlan(total decimal.Decimal) digistore.PaymentPlan {
	plan := digistore.PaymentPlan{
		FirstAmount:           total,
		FirstBillingInterval:  s.config.FirstBillingInterval,
		OtherBillingIntervals: s.config.OtherBillingIntervals,
		Currency:              s.config.Currency,
	}

	if s.config.OtherAmounts != "" {
		otherAmounts, err := decimal.NewFromString(s.config.OtherAmounts)
		if err != nil {
			log.Warn().Err(err).Str("component", "paymentPlan").Msg("ignoring invalid recurring amount")
		} else {
			plan.OtherAmounts = &otherAmounts
		}
	}

	return plan
}

func buildLineItems(items []dto.CheckoutItem) []dto.ShopifyLineItem {
	lineItems := make([]dto.ShopifyLineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, dto.ShopifyLineItem{
			VariantID:  item.VariantID,
			Quantity:   item.Quantity,
			Price:      item.UnitAmount.Value,
			Title:      item.Name,
			Properties: decodeProperties(item.Description),
		})
	}
	return lineItems
}

// decodeProperties reads a description holding a JSON object as line item properties.
func decodeProperties(description string) []dto.ShopifyLineItemProperty {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(description), &raw); err != nil || len(raw) == 0 {
		return nil
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	properties := make([]dto.ShopifyLineItemProperty, 0, len(names))
	for _, name := range names {
		var value string
		if err := json.Unmarshal(raw[name], &value); err != nil {
			value = string(raw[name])
		}
		properties = append(properties, dto.ShopifyLineItemProperty{Name: name, Value: value})
	}

	return properties
}
