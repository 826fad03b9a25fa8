package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/alimikegami/point-of-sales/checkout-service/config"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/dto"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/metrics"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/httpclient"
)

type Client struct {
	baseURL     string
	apiVersion  string
	accessToken string
	httpClient  *httpclient.Client
}

// Error is returned when the admin api answers with an unexpected status.
type Error struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("shopify %s returned status %d: %s", e.Operation, e.StatusCode, e.Body)
}

func CreateShopifyClient(conf config.ShopifyConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(conf.BaseURL, "/"),
		apiVersion:  conf.APIVersion,
		accessToken: conf.AccessToken,
		httpClient:  httpclient.CreateClient("shopify", conf.Timeout),
	}
}

// CreateOrder returns the id of the created order.
func (c *Client) CreateOrder(ctx context.Context, order dto.ShopifyOrder) (int64, error) {
	var resp struct {
		Order struct {
			ID int64 `json:"id"`
		} `json:"order"`
	}
	err := c.do(ctx, "create_order", http.MethodPost, "/orders.json", dto.ShopifyOrderEnvelope{Order: order}, http.StatusCreated, &resp)
	if err != nil {
		return 0, err
	}

	if resp.Order.ID == 0 {
		return 0, &Error{Operation: "create_order", StatusCode: http.StatusCreated, Body: "response carries no order id"}
	}

	return resp.Order.ID, nil
}

func (c *Client) UpdateOrderNote(ctx context.Context, orderID int64, note string) error {
	payload := dto.ShopifyOrderEnvelope{Order: dto.ShopifyOrder{ID: orderID, Note: note}}
	return c.do(ctx, "update_order", http.MethodPut, "/orders/"+strconv.FormatInt(orderID, 10)+".json", payload, http.StatusOK, nil)
}

func (c *Client) ListTransactions(ctx context.Context, orderID int64) ([]dto.ShopifyTransaction, error) {
	var resp dto.ShopifyTransactionsEnvelope
	err := c.do(ctx, "list_transactions", http.MethodGet, "/orders/"+strconv.FormatInt(orderID, 10)+"/transactions.json", nil, http.StatusOK, &resp)
	if err != nil {
		return nil, err
	}

	return resp.Transactions, nil
}

func (c *Client) CreateTransaction(ctx context.Context, orderID int64, transaction dto.ShopifyTransaction) (dto.ShopifyTransaction, error) {
	var resp dto.ShopifyTransactionEnvelope
	err := c.do(ctx, "create_transaction", http.MethodPost, "/orders/"+strconv.FormatInt(orderID, 10)+"/transactions.json",
		dto.ShopifyTransactionEnvelope{Transaction: transaction}, http.StatusCreated, &resp)
	if err != nil {
		return dto.ShopifyTransaction{}, err
	}

	return resp.Transaction, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, payload any, expectedStatus int, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error marshalling %s request: %w", operation, err)
		}
	}

	statusCode, respBody, err := c.httpClient.SendRequest(ctx, httpclient.HttpRequest{
		URL:    fmt.Sprintf("%s/admin/api/%s%s", c.baseURL, c.apiVersion, path),
		Method: method,
		Body:   body,
		Headers: map[string]string{
			"Content-Type":           "application/json",
			"Accept":                 "application/json",
			"X-Shopify-Access-Token": c.accessToken,
		},
	})
	if err != nil {
		metrics.CommerceRequests.WithLabelValues(operation, "transport_error").Inc()
		return fmt.Errorf("error calling shopify %s: %w", operation, err)
	}

	metrics.CommerceRequests.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()

	if statusCode != expectedStatus {
		return &Error{Operation: operation, StatusCode: statusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("error unmarshalling shopify %s response: %w", operation, err)
		}
	}

	return nil
}
