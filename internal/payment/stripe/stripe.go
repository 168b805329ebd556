package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("stripe config invalid")
	ErrRequestFailed    = errors.New("stripe request failed")
	ErrResponseInvalid  = errors.New("stripe response invalid")
	ErrSignatureInvalid = errors.New("stripe signature invalid")
)

const (
	defaultAPIBaseURL        = "https://api.stripe.com"
	defaultTimeout           = 12 * time.Second
	defaultWebhookToleranceS = 300
)

var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {},
	"CLP": {},
	"DJF": {},
	"GNF": {},
	"JPY": {},
	"KMF": {},
	"KRW": {},
	"MGA": {},
	"PYG": {},
	"RWF": {},
	"UGX": {},
	"VND": {},
	"VUV": {},
	"XAF": {},
	"XOF": {},
	"XPF": {},
}

// Config holds Stripe channel settings.
type Config struct {
	SecretKey               string `json:"secret_key"`
	WebhookSecret           string `json:"webhook_secret"`
	SuccessURL              string `json:"success_url"`
	CancelURL               string `json:"cancel_url"`
	APIBaseURL              string `json:"api_base_url"`
	WebhookToleranceSeconds int    `json:"webhook_tolerance_seconds"`
}

// LineItem is one hosted checkout line.
type LineItem struct {
	Name       string
	Quantity   int
	UnitAmount string // major units, 2 decimals
}

// CreateSessionInput describes a hosted checkout session.
type CreateSessionInput struct {
	OrderNo    string
	OrderID    uint
	Currency   string
	Lines      []LineItem
	Amount     string // fallback single line when Lines is empty
	SuccessURL string
	CancelURL  string
}

// SessionResult is a created checkout session.
type SessionResult struct {
	SessionID       string
	PaymentIntentID string
	URL             string
	Status          string
	Raw             map[string]interface{}
}

// RefundResult is a created refund.
type RefundResult struct {
	RefundID string
	Status   string
	Raw      map[string]interface{}
}

// WebhookResult is a verified webhook event.
type WebhookResult struct {
	EventID         string
	EventType       string
	OrderID         uint
	OrderNo         string
	SessionID       string
	PaymentIntentID string
	Status          string
	Amount          string
	Currency        string
	PaidAt          *time.Time
	Raw             map[string]interface{}
}

// Normalize trims config values and applies defaults.
func (c *Config) Normalize() {
	c.SecretKey = strings.TrimSpace(c.SecretKey)
	c.WebhookSecret = strings.TrimSpace(c.WebhookSecret)
	c.SuccessURL = strings.TrimSpace(c.SuccessURL)
	c.CancelURL = strings.TrimSpace(c.CancelURL)
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.WebhookToleranceSeconds <= 0 {
		c.WebhookToleranceSeconds = defaultWebhookToleranceS
	}
}

// validateAPIConfig checks the settings every API call needs.
func validateAPIConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return fmt.Errorf("%w: api_base_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.APIBaseURL)); err != nil {
		return fmt.Errorf("%w: api_base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// ValidateConfig checks the settings hosted checkout needs, the
// redirect URLs included.
func ValidateConfig(cfg *Config) error {
	if err := validateAPIConfig(cfg); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.SuccessURL) == "" {
		return fmt.Errorf("%w: success_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.CancelURL) == "" {
		return fmt.Errorf("%w: cancel_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(sanitizeURLForValidation(cfg.SuccessURL)); err != nil {
		return fmt.Errorf("%w: success_url is invalid", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(sanitizeURLForValidation(cfg.CancelURL)); err != nil {
		return fmt.Errorf("%w: cancel_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// CreateCheckoutSession creates a hosted checkout session from order lines.
func CreateCheckoutSession(ctx context.Context, cfg *Config, input CreateSessionInput) (*SessionResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	orderNo := strings.TrimSpace(input.OrderNo)
	if orderNo == "" {
		return nil, fmt.Errorf("%w: order_no is required", ErrConfigInvalid)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}

	successURL := strings.TrimSpace(input.SuccessURL)
	if successURL == "" {
		successURL = cfg.SuccessURL
	}
	cancelURL := strings.TrimSpace(input.CancelURL)
	if cancelURL == "" {
		cancelURL = cfg.CancelURL
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("client_reference_id", orderNo)
	form.Set("metadata[order_id]", strconv.FormatUint(uint64(input.OrderID), 10))
	form.Set("metadata[order_no]", orderNo)
	form.Set("payment_intent_data[metadata][order_id]", strconv.FormatUint(uint64(input.OrderID), 10))
	form.Set("payment_intent_data[metadata][order_no]", orderNo)
	form.Add("payment_method_types[]", "card")

	lines := input.Lines
	if len(lines) == 0 {
		// Single fallback line carrying the whole order total
		lines = []LineItem{{Name: "Order " + orderNo, Quantity: 1, UnitAmount: input.Amount}}
	}
	for i, line := range lines {
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		minor, err := toMinorAmount(line.UnitAmount, currency)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(line.Name)
		if name == "" {
			name = "Order " + orderNo
		}
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(qty))
		form.Set(prefix+"[price_data][currency]", strings.ToLower(currency))
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(minor, 10))
		form.Set(prefix+"[price_data][product_data][name]", name)
	}

	respBody, statusCode, err := doFormRequest(ctx, cfg, http.MethodPost, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: create checkout session status %d", ErrResponseInvalid, statusCode)
	}

	raw, err := decodeRawMap(respBody)
	if err != nil {
		return nil, err
	}
	result := &SessionResult{Raw: raw}
	result.SessionID = strings.TrimSpace(readString(raw, "id"))
	result.URL = strings.TrimSpace(readString(raw, "url"))
	result.Status = strings.TrimSpace(readString(raw, "status"))
	result.PaymentIntentID = strings.TrimSpace(readPaymentIntentID(raw))
	if result.SessionID == "" || result.URL == "" {
		return nil, fmt.Errorf("%w: missing session id or url", ErrResponseInvalid)
	}
	return result, nil
}

// CreateRefund refunds part or all of a payment intent.
func CreateRefund(ctx context.Context, cfg *Config, paymentIntentID, amount, currency string) (*RefundResult, error) {
	if err := validateAPIConfig(cfg); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	paymentIntentID = strings.TrimSpace(paymentIntentID)
	if paymentIntentID == "" {
		return nil, fmt.Errorf("%w: payment_intent is required", ErrConfigInvalid)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	minor, err := toMinorAmount(amount, currency)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)
	form.Set("amount", strconv.FormatInt(minor, 10))

	respBody, statusCode, err := doFormRequest(ctx, cfg, http.MethodPost, "/v1/refunds", form)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		message := readErrorMessage(respBody)
		if message != "" {
			return nil, fmt.Errorf("%w: create refund status %d: %s", ErrResponseInvalid, statusCode, message)
		}
		return nil, fmt.Errorf("%w: create refund status %d", ErrResponseInvalid, statusCode)
	}

	raw, err := decodeRawMap(respBody)
	if err != nil {
		return nil, err
	}
	result := &RefundResult{Raw: raw}
	result.RefundID = strings.TrimSpace(readString(raw, "id"))
	result.Status = strings.TrimSpace(readString(raw, "status"))
	if result.RefundID == "" {
		return nil, fmt.Errorf("%w: missing refund id", ErrResponseInvalid)
	}
	return result, nil
}

// VerifyAndParseWebhook checks the signature and decodes the event.
func VerifyAndParseWebhook(cfg *Config, headers map[string]string, body []byte, now time.Time) (*WebhookResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.WebhookSecret) == "" {
		return nil, fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrResponseInvalid)
	}
	if now.IsZero() {
		now = time.Now()
	}

	signatureHeader := getHeaderValue(headers, "Stripe-Signature")
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, fmt.Errorf("%w: Stripe-Signature is required", ErrSignatureInvalid)
	}
	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}
	tolerance := cfg.WebhookToleranceSeconds
	if tolerance <= 0 {
		tolerance = defaultWebhookToleranceS
	}
	delta := math.Abs(float64(now.Unix() - timestamp))
	if delta > float64(tolerance) {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureInvalid)
	}

	expected := computeSignature(cfg.WebhookSecret, timestamp, body)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(strings.ToLower(sig)), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: verify failed", ErrSignatureInvalid)
	}

	eventRaw, err := decodeRawMap(body)
	if err != nil {
		return nil, err
	}
	eventType := strings.TrimSpace(readString(eventRaw, "type"))
	if eventType == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrResponseInvalid)
	}
	dataRaw, ok := eventRaw["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing data object", ErrResponseInvalid)
	}
	objectRaw, ok := dataRaw["object"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing event object", ErrResponseInvalid)
	}

	result := &WebhookResult{
		EventID:   strings.TrimSpace(readString(eventRaw, "id")),
		EventType: eventType,
		Raw:       eventRaw,
	}
	fillWebhookResult(result, eventType, objectRaw)
	return result, nil
}

func fillWebhookResult(result *WebhookResult, eventType string, objectRaw map[string]interface{}) {
	metadata := readMap(objectRaw, "metadata")
	result.OrderID = parseOrderID(metadata)
	result.OrderNo = strings.TrimSpace(readString(metadata, "order_no"))
	result.SessionID = strings.TrimSpace(readString(objectRaw, "id"))
	result.PaymentIntentID = strings.TrimSpace(readPaymentIntentID(objectRaw))
	result.Currency = strings.ToUpper(strings.TrimSpace(readString(objectRaw, "currency")))
	amountMinor := readInt64(objectRaw, "amount_total")
	if amountMinor > 0 && result.Currency != "" {
		result.Amount = fromMinorAmount(amountMinor, result.Currency)
	}
	if created := readInt64(objectRaw, "created"); created > 0 {
		paidAt := time.Unix(created, 0)
		result.PaidAt = &paidAt
	}
	result.Status = mapEventTypeStatus(eventType, objectRaw)
}

func mapEventTypeStatus(eventType string, objectRaw map[string]interface{}) string {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		return "success"
	case "checkout.session.expired":
		return "expired"
	case "checkout.session.async_payment_failed":
		return "failed"
	}
	paymentStatus := strings.ToLower(strings.TrimSpace(readString(objectRaw, "payment_status")))
	if paymentStatus == "paid" || paymentStatus == "no_payment_required" {
		return "success"
	}
	return "pending"
}

func parseOrderID(metadata map[string]interface{}) uint {
	if len(metadata) == 0 {
		return 0
	}
	raw := strings.TrimSpace(readString(metadata, "order_id"))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0
	}
	return uint(id)
}

func sanitizeURLForValidation(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return trimmed
	}
	return strings.ReplaceAll(trimmed, "{CHECKOUT_SESSION_ID}", "cs_test_placeholder")
}

func toMinorAmount(amount string, currency string) (int64, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: amount is invalid", ErrConfigInvalid)
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	scale := currencyScale(currency)
	minor := parsed.Shift(int32(scale)).Round(0)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: amount precision is invalid", ErrConfigInvalid)
	}
	return minor.IntPart(), nil
}

func fromMinorAmount(minor int64, currency string) string {
	scale := currencyScale(currency)
	return decimal.NewFromInt(minor).Shift(int32(-scale)).StringFixed(int32(scale))
}

func currencyScale(currency string) int {
	upper := strings.ToUpper(strings.TrimSpace(currency))
	if _, ok := zeroDecimalCurrencies[upper]; ok {
		return 0
	}
	return 2
}

func doFormRequest(ctx context.Context, cfg *Config, method, path string, form url.Values) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := (&http.Client{Timeout: defaultTimeout}).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return body, resp.StatusCode, nil
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func readErrorMessage(body []byte) string {
	raw, err := decodeRawMap(body)
	if err != nil {
		return ""
	}
	errObj := readMap(raw, "error")
	if errObj == nil {
		return ""
	}
	return strings.TrimSpace(readString(errObj, "message"))
}

func readPaymentIntentID(raw map[string]interface{}) string {
	if raw == nil {
		return ""
	}
	value, ok := raw["payment_intent"]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]interface{}:
		return strings.TrimSpace(readString(typed, "id"))
	default:
		return ""
	}
}

func computeSignature(secret string, timestamp int64, body []byte) string {
	payload := strconv.FormatInt(timestamp, 10) + "." + string(body)
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(payload))
	return strings.ToLower(hex.EncodeToString(h.Sum(nil)))
}

func parseSignatureHeader(signatureHeader string) (int64, []string, error) {
	timestamp := int64(0)
	signatures := make([]string, 0)
	parts := strings.Split(signatureHeader, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil || parsed <= 0 {
				return 0, nil, fmt.Errorf("%w: invalid timestamp", ErrSignatureInvalid)
			}
			timestamp = parsed
		case "v1":
			if value != "" {
				signatures = append(signatures, strings.ToLower(value))
			}
		}
	}
	if timestamp <= 0 {
		return 0, nil, fmt.Errorf("%w: timestamp is missing", ErrSignatureInvalid)
	}
	if len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: v1 signature is missing", ErrSignatureInvalid)
	}
	return timestamp, signatures, nil
}

func getHeaderValue(headers map[string]string, key string) string {
	if len(headers) == 0 || strings.TrimSpace(key) == "" {
		return ""
	}
	for h, value := range headers {
		if strings.EqualFold(strings.TrimSpace(h), key) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil || strings.TrimSpace(key) == "" {
		return ""
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return strings.TrimSpace(typed.String())
	case float64:
		return strings.TrimSpace(strconv.FormatInt(int64(typed), 10))
	case int64:
		return strings.TrimSpace(strconv.FormatInt(typed, 10))
	case int:
		return strings.TrimSpace(strconv.Itoa(typed))
	default:
		return ""
	}
}

func readMap(raw map[string]interface{}, key string) map[string]interface{} {
	if raw == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return nil
	}
	mapped, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	return mapped
}

func readInt64(raw map[string]interface{}, key string) int64 {
	if raw == nil || strings.TrimSpace(key) == "" {
		return 0
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return 0
	}
	switch typed := value.(type) {
	case int64:
		return typed
	case int:
		return int64(typed)
	case float64:
		return int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err == nil {
			return parsed
		}
		floatVal, err := typed.Float64()
		if err != nil {
			return 0
		}
		return int64(floatVal)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
