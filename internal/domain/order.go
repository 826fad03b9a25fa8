package domain

import (
	"strconv"
	"strings"

	"github.com/alimikegami/point-of-sales/checkout-service/pkg/errs"
)

const correlationPrefix = "shopify_order_"

// OrderReference is the commerce order id carried through the payment link.
type OrderReference int64

func (r OrderReference) String() string {
	return strconv.FormatInt(int64(r), 10)
}

func (r OrderReference) CorrelationToken() string {
	return correlationPrefix + r.String()
}

// ParseOrderReference accepts the token produced at checkout as well as a bare order id.
func ParseOrderReference(token string) (OrderReference, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(token), correlationPrefix)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.ErrInvalidOrderReference
	}

	return OrderReference(id), nil
}

// ReconciliationRecord carries what an operator needs to replay a failed update.
type ReconciliationRecord struct {
	OrderReference string `json:"order_reference"`
	Event          string `json:"event"`
	TransactionID  string `json:"transaction_id"`
	Status         string `json:"status"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	ReceiptURL     string `json:"receipt_url"`
	Reason         string `json:"reason"`
	FailedAt       int64  `json:"failed_at"`
}
