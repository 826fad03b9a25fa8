package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	circuitbreaker "github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/circuit-breaker"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HttpRequest is a struct to hold request parameters
type HttpRequest struct {
	URL     string
	Method  string
	Body    []byte
	Headers map[string]string
}

type HttpResponse struct {
	StatusCode int
	Body       []byte
}

// errServerStatus marks 5xx answers as breaker failures while still
// handing the response back to the caller.
var errServerStatus = errors.New("server responded with an error status")

// Client sends single-attempt requests through a circuit breaker.
type Client struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[HttpResponse]
}

func CreateClient(name string, timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		breaker: circuitbreaker.CreateCircuitBreaker[HttpResponse](name),
	}
}

// SendRequest sends an HTTP request based on the given HttpRequest struct
func (c *Client) SendRequest(ctx context.Context, req HttpRequest) (int, []byte, error) {
	resp, err := c.breaker.Execute(func() (HttpResponse, error) {
		return c.do(ctx, req)
	})
	if err != nil {
		if errors.Is(err, errServerStatus) {
			return resp.StatusCode, resp.Body, nil
		}
		return 0, nil, err
	}

	return resp.StatusCode, resp.Body, nil
}

func (c *Client) do(ctx context.Context, req HttpRequest) (HttpResponse, error) {
	request, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewBuffer(req.Body))
	if err != nil {
		return HttpResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range req.Headers {
		request.Header.Set(key, value)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return HttpResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return HttpResponse{StatusCode: response.StatusCode}, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := HttpResponse{StatusCode: response.StatusCode, Body: body}
	if response.StatusCode >= http.StatusInternalServerError {
		return resp, errServerStatus
	}

	return resp, nil
}
