package shiprocket

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
	ErrConfigInvalid   = errors.New("shiprocket config invalid")
	ErrAuthFailed      = errors.New("shiprocket auth failed")
	ErrRequestFailed   = errors.New("shiprocket request failed")
	ErrResponseInvalid = errors.New("shiprocket response invalid")
)

const (
	defaultAPIBaseURL = "https://apiv2.shiprocket.in"
	defaultTimeout    = 12 * time.Second
)

// Placeholder package dimensions used until real decal packaging data
// is wired in.
const (
	packageLengthCM = 10
	packageWidthCM  = 10
	packageHeightCM = 5
	packageWeightKG = 0.5
)

// Config holds Shiprocket credentials.
type Config struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	APIBaseURL     string `json:"api_base_url"`
	PickupLocation string `json:"pickup_location"`
}

// Address is one side of the shipment.
type Address struct {
	FirstName string
	LastName  string
	Address1  string
	Address2  string
	City      string
	State     string
	Postcode  string
	Country   string
	Email     string
	Phone     string
}

// OrderItem is one shipped line.
type OrderItem struct {
	SKU       string
	Name      string
	Quantity  int
	UnitPrice string
}

// CreateOrderInput is the adhoc order payload source.
type CreateOrderInput struct {
	OrderNo       string
	OrderDate     time.Time
	Billing       Address
	Shipping      Address
	SameAsBilling bool
	Items         []OrderItem
	Subtotal      string
	PaymentMethod string // Prepaid | COD
}

// CreateOrderResult is a created adhoc order.
type CreateOrderResult struct {
	OrderID    string
	ShipmentID string
	AWBCode    string
	Status     string
	Raw        map[string]interface{}
}

// Normalize trims config values and applies defaults.
func (c *Config) Normalize() {
	c.Email = strings.TrimSpace(c.Email)
	c.Password = strings.TrimSpace(c.Password)
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	c.PickupLocation = strings.TrimSpace(c.PickupLocation)
	if c.PickupLocation == "" {
		c.PickupLocation = "Primary"
	}
}

// ValidateConfig checks required settings.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return fmt.Errorf("%w: password is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return fmt.Errorf("%w: api_base_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.APIBaseURL)); err != nil {
		return fmt.Errorf("%w: api_base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// CreateOrder authenticates and posts the adhoc order.
func CreateOrder(ctx context.Context, cfg *Config, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	orderNo := strings.TrimSpace(input.OrderNo)
	if orderNo == "" {
		return nil, fmt.Errorf("%w: order_no is required", ErrConfigInvalid)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: items are required", ErrConfigInvalid)
	}

	token, err := login(ctx, cfg)
	if err != nil {
		return nil, err
	}

	payload := buildAdhocPayload(cfg, input)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}

	respBody, statusCode, err := doJSONRequest(ctx, cfg, http.MethodPost, "/v1/external/orders/create/adhoc", token, body)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		message := readErrorMessage(respBody)
		if message != "" {
			return nil, fmt.Errorf("%w: create order status %d: %s", ErrResponseInvalid, statusCode, message)
		}
		return nil, fmt.Errorf("%w: create order status %d", ErrResponseInvalid, statusCode)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}

	result := &CreateOrderResult{Raw: raw}
	result.OrderID = strings.TrimSpace(readString(raw, "order_id"))
	result.ShipmentID = strings.TrimSpace(readString(raw, "shipment_id"))
	result.AWBCode = strings.TrimSpace(readString(raw, "awb_code"))
	result.Status = strings.TrimSpace(readString(raw, "status"))
	if result.ShipmentID == "" {
		return nil, fmt.Errorf("%w: missing shipment id", ErrResponseInvalid)
	}
	return result, nil
}

func buildAdhocPayload(cfg *Config, input CreateOrderInput) map[string]interface{} {
	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	shipping := input.Shipping
	if input.SameAsBilling {
		shipping = input.Billing
	}

	items := make([]map[string]interface{}, 0, len(input.Items))
	for _, item := range input.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, map[string]interface{}{
			"name":          item.Name,
			"sku":           item.SKU,
			"units":         qty,
			"selling_price": item.UnitPrice,
		})
	}

	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = "Prepaid"
	}

	payload := map[string]interface{}{
		"order_id":               input.OrderNo,
		"order_date":             orderDate.Format("2006-01-02 15:04"),
		"pickup_location":        cfg.PickupLocation,
		"billing_customer_name":  input.Billing.FirstName,
		"billing_last_name":      input.Billing.LastName,
		"billing_address":        input.Billing.Address1,
		"billing_address_2":      input.Billing.Address2,
		"billing_city":           input.Billing.City,
		"billing_pincode":        input.Billing.Postcode,
		"billing_state":          input.Billing.State,
		"billing_country":        input.Billing.Country,
		"billing_email":          input.Billing.Email,
		"billing_phone":          input.Billing.Phone,
		"shipping_is_billing":    input.SameAsBilling,
		"shipping_customer_name": shipping.FirstName,
		"shipping_last_name":     shipping.LastName,
		"shipping_address":       shipping.Address1,
		"shipping_address_2":     shipping.Address2,
		"shipping_city":          shipping.City,
		"shipping_pincode":       shipping.Postcode,
		"shipping_state":         shipping.State,
		"shipping_country":       shipping.Country,
		"shipping_email":         shipping.Email,
		"shipping_phone":         shipping.Phone,
		"order_items":            items,
		"payment_method":         paymentMethod,
		"sub_total":              input.Subtotal,
		"length":                 packageLengthCM,
		"breadth":                packageWidthCM,
		"height":                 packageHeightCM,
		"weight":                 packageWeightKG,
	}
	return payload
}

func login(ctx context.Context, cfg *Config) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(map[string]string{
		"email":    cfg.Email,
		"password": cfg.Password,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal login failed", ErrAuthFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.APIBaseURL, "/")+"/v1/external/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build login request failed", ErrAuthFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: login request failed", ErrAuthFailed)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read login response failed", ErrAuthFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: login status %d", ErrAuthFailed, resp.StatusCode)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode login response failed", ErrAuthFailed)
	}
	token := strings.TrimSpace(readString(parsed, "token"))
	if token == "" {
		return "", fmt.Errorf("%w: token is empty", ErrAuthFailed)
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
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(cfg.APIBaseURL, "/")+endpoint, reader)
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

func readErrorMessage(body []byte) string {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	return strings.TrimSpace(readString(raw, "message"))
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
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	default:
		return ""
	}
}
