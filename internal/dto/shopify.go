package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type ShopifyLineItemProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ShopifyLineItem struct {
	VariantID  json.Number               `json:"variant_id,omitempty"`
	Quantity   int                       `json:"quantity"`
	Price      decimal.Decimal           `json:"price"`
	Title      string                    `json:"title,omitempty"`
	Properties []ShopifyLineItemProperty `json:"properties,omitempty"`
}

type ShopifyOrder struct {
	ID                  int64             `json:"id,omitempty"`
	Email               string            `json:"email,omitempty"`
	FinancialStatus     string            `json:"financial_status,omitempty"`
	PaymentGatewayNames []string          `json:"payment_gateway_names,omitempty"`
	Tags                string            `json:"tags,omitempty"`
	Note                string            `json:"note,omitempty"`
	LineItems           []ShopifyLineItem `json:"line_items,omitempty"`
}

type ShopifyOrderEnvelope struct {
	Order ShopifyOrder `json:"order"`
}

type ShopifyReceipt struct {
	URL string `json:"url,omitempty"`
}

type ShopifyTransaction struct {
	ID            int64           `json:"id,omitempty"`
	Kind          string          `json:"kind"`
	Status        string          `json:"status"`
	Amount        string          `json:"amount,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	Gateway       string          `json:"gateway,omitempty"`
	Authorization string          `json:"authorization,omitempty"`
	Receipt       *ShopifyReceipt `json:"receipt,omitempty"`
}

type ShopifyTransactionEnvelope struct {
	Transaction ShopifyTransaction `json:"transaction"`
}

type ShopifyTransactionsEnvelope struct {
	Transactions []ShopifyTransaction `json:"transactions"`
}
