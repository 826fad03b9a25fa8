package dto

import (
	"encoding/json"

	"github.com/alimikegami/point-of-sales/checkout-service/pkg/errs"
	"github.com/shopspring/decimal"
)

type CheckoutCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UnitAmount struct {
	Value decimal.Decimal `json:"value"`
}

type CheckoutItem struct {
	VariantID   json.Number `json:"variant_id"`
	Quantity    int         `json:"quantity"`
	UnitAmount  UnitAmount  `json:"unit_amount"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
}

type CheckoutCart struct {
	Items []CheckoutItem  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type CheckoutRequest struct {
	Customer *CheckoutCustomer `json:"customer"`
	Cart     *CheckoutCart     `json:"cart"`
}

func (r CheckoutRequest) Validate() error {
	if r.Customer == nil || r.Cart == nil || len(r.Cart.Items) == 0 {
		return errs.ErrInvalidRequestData
	}
	return nil
}
