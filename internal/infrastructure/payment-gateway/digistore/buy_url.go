package digistore

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Buyer struct {
	Email        string `json:"email,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	ReadonlyKeys string `json:"readonly_keys,omitempty"`
}

type PaymentPlan struct {
	FirstAmount           decimal.Decimal  `json:"first_amount"`
	OtherAmounts          *decimal.Decimal `json:"other_amounts,omitempty"`
	FirstBillingInterval  string           `json:"first_billing_interval,omitempty"`
	OtherBillingIntervals string           `json:"other_billing_intervals,omitempty"`
	Currency              string           `json:"currency,omitempty"`
}

type Tracking struct {
	Custom    string `json:"custom,omitempty"`
	Affiliate string `json:"affiliate,omitempty"`
}

type URLs struct {
	ThankyouURL string `json:"thankyou_url,omitempty"`
}

type BuyURLRequest struct {
	ProductID    string
	Buyer        Buyer
	PaymentPlan  PaymentPlan
	Tracking     Tracking
	ValidUntil   string
	URLs         URLs
	Placeholders map[string]string
	Settings     map[string]string
}

type BuyURL struct {
	URL string `json:"url"`
}

// CreateBuyURL requests a hosted payment link for one product.
func (c *Client) CreateBuyURL(ctx context.Context, req BuyURLRequest) (BuyURL, error) {
	data, err := c.Invoke(ctx, "createBuyUrl",
		req.ProductID,
		req.Buyer,
		req.PaymentPlan,
		req.Tracking,
		req.ValidUntil,
		req.URLs,
		req.Placeholders,
		req.Settings,
	)
	if err != nil {
		return BuyURL{}, err
	}

	var result BuyURL
	if err := json.Unmarshal(data, &result); err != nil || result.URL == "" {
		return BuyURL{}, newError(ErrBadServerResponse, truncate(string(data), 256))
	}

	return result, nil
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Invoke(ctx, "ping")
	return err
}
