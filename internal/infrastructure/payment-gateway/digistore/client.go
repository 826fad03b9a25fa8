package digistore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alimikegami/point-of-sales/checkout-service/config"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/httpclient"
	"github.com/rs/zerolog/log"
)

const (
	connectorVersion = "1.2"
	userAgent        = "DigiStore-API-Connector/1.0 (Go; checkout-service)"
)

type Client struct {
	apiKey     string
	baseURL    string
	language   string
	operator   string
	httpClient *httpclient.Client
}

func CreateDigistoreClient(conf config.DigistoreConfig) *Client {
	return &Client{
		apiKey:     conf.APIKey,
		baseURL:    strings.TrimRight(conf.BaseURL, "/"),
		language:   conf.Language,
		operator:   conf.Operator,
		httpClient: httpclient.CreateClient("digistore24", conf.Timeout),
	}
}

type envelope struct {
	APIVersion json.RawMessage `json:"api_version"`
	Result     *string         `json:"result"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Code       json.RawMessage `json:"code"`
}

// Invoke calls a named api function once. Arguments are sent positionally as arg1..argN.
func (c *Client) Invoke(ctx context.Context, procedure string, args ...any) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, newError(ErrNotConnected)
	}

	if procedure == "" {
		return nil, newError(ErrBadParameters, "()")
	}

	logger := log.Ctx(ctx).With().Str("component", "DigistoreClient").Str("procedure", procedure).Logger()
	logger.Info().Msg("call started")

	params := url.Values{}
	for i, arg := range args {
		setPostParam(params, "arg"+strconv.Itoa(i+1), arg)
	}
	params.Set("language", c.language)
	params.Set("operator", c.operator)
	params.Set("ds24ver", connectorVersion)

	statusCode, body, err := c.httpClient.SendRequest(ctx, httpclient.HttpRequest{
		URL:    fmt.Sprintf("%s/api/call/%s", c.baseURL, url.PathEscape(procedure)),
		Method: http.MethodPost,
		Body:   []byte(params.Encode()),
		Headers: map[string]string{
			"Content-Type":   "application/x-www-form-urlencoded; charset=utf-8",
			"Accept-Charset": "utf-8",
			"Accept":         "application/json",
			"User-Agent":     userAgent,
			"X-DS-API-KEY":   c.apiKey,
		},
	})
	if err != nil {
		apiErr := newError(ErrTransport, err.Error())
		logger.Error().Err(apiErr).Msg("")
		return nil, apiErr
	}

	data, apiErr := decodeEnvelope(statusCode, body)
	if apiErr != nil {
		logger.Error().Err(apiErr).Int("status", statusCode).Msg("")
		return nil, apiErr
	}

	logger.Info().Msg("call completed")

	return data, nil
}

func decodeEnvelope(statusCode int, body []byte) (json.RawMessage, *APIError) {
	var env envelope
	trimmed := bytes.TrimSpace(body)
	decodeErr := json.Unmarshal(trimmed, &env)

	if decodeErr != nil || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		switch {
		case statusCode == http.StatusTooManyRequests:
			return nil, newError(ErrTooManyRequests)
		case statusCode != http.StatusOK:
			return nil, newError(ErrBadHTTPStatus, statusCode)
		default:
			return nil, newError(ErrBadServerResponse, truncate(string(trimmed), 256))
		}
	}

	if len(env.APIVersion) == 0 || env.Result == nil {
		return nil, newError(ErrBadServerResponse, truncate(string(trimmed), 256))
	}

	switch *env.Result {
	case "success":
		return env.Data, nil
	case "error":
		code := parseCode(env.Code)
		return nil, &APIError{Kind: kindFromCode(code), Code: code, Message: env.Message}
	default:
		return nil, newError(ErrBadServerResponse, truncate(string(trimmed), 256))
	}
}

func parseCode(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	code, err := strconv.Atoi(s)
	if err != nil {
		return int(ErrUnknown)
	}
	return code
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func unmarshalUseNumber(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
