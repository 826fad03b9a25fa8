package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alimikegami/point-of-sales/checkout-service/config"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/commerce/shopify"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/ipnlog"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/payment-gateway/digistore"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/reconciliation"
	localmiddleware "github.com/alimikegami/point-of-sales/checkout-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/repository"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	allowedOrigin = "https://shop.example.com"
	ipnSecret     = "ipn-secret"
)

type outboundCall struct {
	Method string
	Path   string
	Body   string
}

type recorder struct {
	mu    sync.Mutex
	calls []outboundCall
}

func (r *recorder) record(req *http.Request) string {
	b, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, outboundCall{Method: req.Method, Path: req.URL.Path, Body: string(b)})
	return string(b)
}

func (r *recorder) all() []outboundCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]outboundCall(nil), r.calls...)
}

type testServer struct {
	echo     *echo.Echo
	shopify  *recorder
	payments *recorder
	ipnLog   *bytes.Buffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	shopifyCalls := &recorder{}
	shopifySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := shopifyCalls.record(r)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/admin/api/2023-07/orders.json":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"order":{"id":1001}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/admin/api/2023-07/orders/1001.json":
			w.Write([]byte(`{"order":{"id":1001}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/admin/api/2023-07/orders/1001/transactions.json":
			w.Write([]byte(`{"transactions":[]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/admin/api/2023-07/orders/1001/transactions.json":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(body))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(shopifySrv.Close)

	paymentCalls := &recorder{}
	paymentSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paymentCalls.record(r)
		w.Write([]byte(`{"api_version":"1.2","result":"success","data":{"url":"https://www.digistore24.com/product/12345?ds24=abc"}}`))
	}))
	t.Cleanup(paymentSrv.Close)

	conf := &config.Config{
		AllowedOrigin: allowedOrigin,
		DedupTTL:      time.Hour,
		DigistoreConfig: config.DigistoreConfig{
			APIKey:    "123-testkey",
			ProductID: "12345",
			IPNSecret: ipnSecret,
			BaseURL:   paymentSrv.URL,
			Currency:  "EUR",
			Timeout:   5 * time.Second,
		},
		ShopifyConfig: config.ShopifyConfig{
			AccessToken: "shpat_test",
			APIVersion:  "2023-07",
			BaseURL:     shopifySrv.URL,
			Timeout:     5 * time.Second,
		},
	}

	var ipnBuf bytes.Buffer
	shopifyClient := shopify.CreateShopifyClient(conf.ShopifyConfig)
	checkoutSvc := service.CreateCheckoutService(shopifyClient, digistore.CreateDigistoreClient(conf.DigistoreConfig), conf.DigistoreConfig)
	notificationSvc := service.CreateNotificationService(
		repository.CreateMemoryNotificationRepository(),
		shopifyClient,
		reconciliation.CreateFanout(),
		ipnlog.CreateIPNLoggerWithWriter(&ipnBuf),
		conf.DigistoreConfig.IPNSecret,
		conf.DedupTTL,
	)

	e := echo.New()
	CreateCheckoutController(e.Group("/api/v1"), checkoutSvc, notificationSvc, localmiddleware.AllowOrigin(conf.AllowedOrigin))

	return &testServer{echo: e, shopify: shopifyCalls, payments: paymentCalls, ipnLog: &ipnBuf}
}

func (s *testServer) postNotification(fields domain.Notification) *httptest.ResponseRecorder {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ipn", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postCheckout(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, allowedOrigin)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func signedNotification(event string) domain.Notification {
	n := domain.Notification{
		"event":                event,
		"custom":               "shopify_order_1001",
		"transaction_id":       "T1",
		"receipt_url":          "https://www.digistore24.com/receipt/T1",
		"transaction_amount":   "25.00",
		"transaction_currency": "EUR",
		"order_id":             "ABC123",
	}
	n["sha_sign"] = digistore.Sign(n, ipnSecret)
	return n
}

func transactionWrites(calls []outboundCall) []outboundCall {
	var writes []outboundCall
	for _, c := range calls {
		if c.Method == http.MethodPost && strings.HasSuffix(c.Path, "/transactions.json") {
			writes = append(writes, c)
		}
	}
	return writes
}

func TestNotification_ValidPayment(t *testing.T) {
	s := newTestServer(t)

	rec := s.postNotification(signedNotification("on_payment"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	writes := transactionWrites(s.shopify.all())
	require.Len(t, writes, 1)
	assert.Equal(t, "/admin/api/2023-07/orders/1001/transactions.json", writes[0].Path)

	var sent map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(writes[0].Body), &sent))
	assert.Equal(t, "success", sent["transaction"]["status"])
	assert.Equal(t, "capture", sent["transaction"]["kind"])
	assert.Equal(t, "T1", sent["transaction"]["authorization"])
	assert.Contains(t, s.ipnLog.String(), `"transaction_id":"T1"`)
}

func TestNotification_TamperedAmount(t *testing.T) {
	s := newTestServer(t)

	n := signedNotification("on_payment")
	n["transaction_amount"] = "2500.00"
	rec := s.postNotification(n)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid signature", rec.Body.String())
	assert.Empty(t, s.shopify.all())
}

func TestNotification_UnknownEvent(t *testing.T) {
	s := newTestServer(t)

	rec := s.postNotification(signedNotification("on_something_new"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Empty(t, s.shopify.all())
	assert.Contains(t, s.ipnLog.String(), `"event":"on_something_new"`)
	assert.Contains(t, s.ipnLog.String(), `"type":"unhandled_event"`)
}

func TestNotification_Redelivery(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 3; i++ {
		rec := s.postNotification(signedNotification("on_payment"))
		assert.Equal(t, "OK", rec.Body.String())
	}

	assert.Len(t, transactionWrites(s.shopify.all()), 1)
}

func TestNotification_MultipartBody(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range signedNotification("on_payment") {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ipn", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Len(t, transactionWrites(s.shopify.all()), 1)
}

func TestNotification_QueryParametersAreNotSigned(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{}
	for k, v := range signedNotification("on_payment") {
		form.Set(k, v)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ipn?source=retry", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestNotification_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ipn", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", rec.Body.String())
}

func TestCheckout_MissingItems(t *testing.T) {
	s := newTestServer(t)

	rec := s.postCheckout(`{"customer":{"name":"Jane Doe","email":"jane@example.com"},"cart":{"total":"25.00"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request data"}`, rec.Body.String())
	assert.Empty(t, s.shopify.all())
	assert.Empty(t, s.payments.all())
}

func TestCheckout_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.postCheckout(`{"customer":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request data"}`, rec.Body.String())
	assert.Empty(t, s.shopify.all())
}

func TestCheckout_Success(t *testing.T) {
	s := newTestServer(t)

	rec := s.postCheckout(`{
		"customer": {"name": "Jane Doe", "email": "jane@example.com"},
		"cart": {
			"items": [{"variant_id": 40000000001, "quantity": 1, "unit_amount": {"value": 25}, "name": "Poster", "description": "{\"size\":\"A2\"}"}],
			"total": 25
		}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"order_id":1001,"payment_link":"https://www.digistore24.com/product/12345?ds24=abc"}`, rec.Body.String())
	assert.Equal(t, allowedOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	calls := s.shopify.all()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[1].Method)
	assert.Contains(t, calls[1].Body, "Payment pending. Pay here: https://www.digistore24.com/product/12345?ds24=abc")

	payments := s.payments.all()
	require.Len(t, payments, 1)
	form, err := url.ParseQuery(payments[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "shopify_order_1001", form.Get("arg4[custom]"))
}

func TestCheckout_UnlabelledJSONBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(
		`{"customer":{"name":"Jane Doe","email":"jane@example.com"},"cart":{"items":[{"variant_id":1,"quantity":1,"unit_amount":{"value":"25.00"},"name":"Poster","description":""}],"total":"25.00"}}`,
	))
	req.Header.Set(echo.HeaderOrigin, allowedOrigin)
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"order_id":1001,"payment_link":"https://www.digistore24.com/product/12345?ds24=abc"}`, rec.Body.String())
}

func TestCheckout_ForbiddenOrigin(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderOrigin, "https://evil.example.com")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden: Invalid Origin"}`, rec.Body.String())
}

func TestCheckout_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	req.Header.Set(echo.HeaderOrigin, allowedOrigin)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Method Not Allowed"}`, rec.Body.String())
}
