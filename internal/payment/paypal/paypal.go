package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("paypal config invalid")
	ErrAuthFailed      = errors.New("paypal auth failed")
	ErrRequestFailed   = errors.New("paypal request failed")
	ErrResponseInvalid = errors.New("paypal response invalid")
)

const (
	defaultSandboxBaseURL = "https://api-m.sandbox.paypal.com"
	defaultTimeout        = 12 * time.Second
)

// Config holds PayPal REST credentials.
type Config struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	BaseURL      string `json:"base_url"`
}

// OrderDetail is a fetched checkout order. CaptureID is the first
// capture found under the purchase unit, empty when nothing was
// captured yet.
type OrderDetail struct {
	OrderID       string
	Status        string
	CaptureID     string
	CaptureStatus string
	Amount        string
	Currency      string
	Raw           map[string]interface{}
}

// RefundResult is a created capture refund.
type RefundResult struct {
	RefundID string
	Status   string
	Raw      map[string]interface{}
}

// Normalize trims config values and applies defaults.
func (c *Config) Normalize() {
	c.ClientID = strings.TrimSpace(c.ClientID)
	c.ClientSecret = strings.TrimSpace(c.ClientSecret)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultSandboxBaseURL
	}
}

// ValidateConfig checks required settings.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return fmt.Errorf("%w: client_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return fmt.Errorf("%w: client_secret is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.BaseURL)); err != nil {
		return fmt.Errorf("%w: base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// GetOrder fetches a checkout order and resolves its capture.
func GetOrder(ctx context.Context, cfg *Config, orderID string) (*OrderDetail, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is empty", ErrConfigInvalid)
	}

	token, err := getAccessToken(ctx, cfg)
	if err != nil {
		return nil, err
	}

	endpoint := "/v2/checkout/orders/" + url.PathEscape(orderID)
	respBody, statusCode, err := doJSONRequest(ctx, cfg, http.MethodGet, endpoint, token, nil)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: get order status %d", ErrResponseInvalid, statusCode)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}

	detail := &OrderDetail{Raw: raw}
	detail.OrderID = strings.TrimSpace(readString(raw, "id"))
	detail.Status = strings.TrimSpace(readString(raw, "status"))

	captures := readArray(raw, "purchase_units", "0", "payments", "captures")
	for _, item := range captures {
		captureMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		status := strings.ToUpper(strings.TrimSpace(readString(captureMap, "status")))
		// Prefer the completed capture; fall back to the first one
		if detail.CaptureID == "" || status == "COMPLETED" {
			detail.CaptureID = strings.TrimSpace(readString(captureMap, "id"))
			detail.CaptureStatus = status
			detail.Amount = strings.TrimSpace(readString(captureMap, "amount", "value"))
			detail.Currency = strings.TrimSpace(readString(captureMap, "amount", "currency_code"))
		}
		if status == "COMPLETED" {
			break
		}
	}

	if detail.OrderID == "" {
		detail.OrderID = orderID
	}
	if detail.Status == "" {
		return nil, fmt.Errorf("%w: missing order status", ErrResponseInvalid)
	}
	return detail, nil
}

// RefundCapture refunds part or all of a completed capture.
func RefundCapture(ctx context.Context, cfg *Config, captureID, amount, currency, note string) (*RefundResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	captureID = strings.TrimSpace(captureID)
	if captureID == "" {
		return nil, fmt.Errorf("%w: capture id is empty", ErrConfigInvalid)
	}

	token, err := getAccessToken(ctx, cfg)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{}
	if strings.TrimSpace(amount) != "" {
		payload["amount"] = map[string]string{
			"value":         strings.TrimSpace(amount),
			"currency_code": strings.ToUpper(strings.TrimSpace(currency)),
		}
	}
	if strings.TrimSpace(note) != "" {
		payload["note_to_payer"] = strings.TrimSpace(note)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}

	endpoint := "/v2/payments/captures/" + url.PathEscape(captureID) + "/refund"
	respBody, statusCode, err := doJSONRequest(ctx, cfg, http.MethodPost, endpoint, token, body)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		message := readRefundErrorMessage(respBody)
		if message != "" {
			return nil, fmt.Errorf("%w: refund status %d: %s", ErrResponseInvalid, statusCode, message)
		}
		return nil, fmt.Errorf("%w: refund status %d", ErrResponseInvalid, statusCode)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}

	result := &RefundResult{Raw: raw}
	result.RefundID = strings.TrimSpace(readString(raw, "id"))
	result.Status = strings.TrimSpace(readString(raw, "status"))
	if result.RefundID == "" {
		return nil, fmt.Errorf("%w: missing refund id", ErrResponseInvalid)
	}
	return result, nil
}

func readRefundErrorMessage(body []byte) string {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	if message := strings.TrimSpace(readString(raw, "message")); message != "" {
		return message
	}
	return strings.TrimSpace(readString(raw, "details", "0", "description"))
}

func getAccessToken(ctx context.Context, cfg *Config) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	values := url.Values{}
	values.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.BaseURL, "/")+"/v1/oauth2/token", strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build token request failed", ErrAuthFailed)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request token failed", ErrAuthFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read token response failed", ErrAuthFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token status %d", ErrAuthFailed, resp.StatusCode)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode token response failed", ErrAuthFailed)
	}
	token := strings.TrimSpace(readString(parsed, "access_token"))
	if token == "" {
		return "", fmt.Errorf("%w: access_token is empty", ErrAuthFailed)
	}
	return token, nil
}

func doJSONRequest(ctx context.Context, cfg *Config, method, endpoint, token string, body []byte) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(cfg.BaseURL, "/")+endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: http request failed", ErrRequestFailed)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	return respBody, resp.StatusCode, nil
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

func readString(raw map[string]interface{}, path ...string) string {
	if raw == nil {
		return ""
	}
	var current interface{} = raw
	for _, seg := range path {
		if idx, err := strconv.Atoi(seg); err == nil {
			arr, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return ""
			}
			current = arr[idx]
			continue
		}
		next, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current = next[seg]
	}
	if current == nil {
		return ""
	}
	if str, ok := current.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", current)
}

func readArray(raw map[string]interface{}, path ...string) []interface{} {
	if raw == nil {
		return nil
	}
	var current interface{} = raw
	for _, seg := range path {
		if idx, err := strconv.Atoi(seg); err == nil {
			arr, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return nil
			}
			current = arr[idx]
			continue
		}
		next, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = next[seg]
	}
	arr, ok := current.([]interface{})
	if !ok {
		return nil
	}
	return arr
}
