package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/config"
	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/logger"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/payment/paypal"
	"github.com/decalforge/decalforge/internal/payment/stripe"
	"github.com/decalforge/decalforge/internal/pricing"
	"github.com/decalforge/decalforge/internal/queue"
	"github.com/decalforge/decalforge/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutAddress is one address block of the checkout form.
type CheckoutAddress struct {
	FirstName string
	LastName  string
	Address1  string
	Address2  string
	City      string
	State     string
	Postcode  string
	Country   string
}

// CheckoutInput is the storefront checkout payload.
type CheckoutInput struct {
	CartToken       string
	Email           string
	Phone           string
	Billing         CheckoutAddress
	ShipToDifferent bool
	Shipping        CheckoutAddress
	PaymentMethod   string
	AffiliateCode   string
	// ExpectedTotal is what the storefront displayed. The server
	// recomputes and rejects the order when they disagree.
	ExpectedTotal string
	// PaypalOrderID is required for the paypal method; the client
	// approves the PayPal order before submitting checkout.
	PaypalOrderID string
}

// CheckoutResult is a placed order plus any follow-up the client must
// perform.
type CheckoutResult struct {
	Order *models.CheckoutOrder `json:"order"`
	// RedirectURL sends the shopper to Stripe Checkout when set.
	RedirectURL string `json:"redirect_url,omitempty"`
	// NewCartToken replaces the consumed cart token.
	NewCartToken string `json:"new_cart_token"`
}

// CheckoutService turns carts into orders, branching per payment
// method.
type CheckoutService struct {
	cfg          *config.Config
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	stripeRepo   repository.StripePaymentRepository
	cartService  *CartService
	discountServ *DiscountService
	affiliateSvc *AffiliateService
	queueClient  *queue.Client
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	stripeRepo repository.StripePaymentRepository,
	cartService *CartService,
	discountServ *DiscountService,
	affiliateSvc *AffiliateService,
	queueClient *queue.Client,
) *CheckoutService {
	return &CheckoutService{
		cfg:          cfg,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		stripeRepo:   stripeRepo,
		cartService:  cartService,
		discountServ: discountServ,
		affiliateSvc: affiliateSvc,
		queueClient:  queueClient,
	}
}

// Checkout validates the cart, recomputes totals, persists the order
// and its commission atomically, then hands off to the chosen payment
// provider.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	method := strings.TrimSpace(input.PaymentMethod)
	switch method {
	case constants.PaymentMethodStripe, constants.PaymentMethodPaypal, constants.PaymentMethodCOD:
	default:
		return nil, ErrPaymentMethodInvalid
	}
	if !isAddressComplete(input.Billing) {
		return nil, ErrBillingIncomplete
	}
	if input.ShipToDifferent && !isAddressComplete(input.Shipping) {
		return nil, ErrBillingIncomplete
	}

	cart, err := s.cartRepo.GetByToken(input.CartToken)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	items := usableItems(cart.Items)
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	var code *models.DiscountCode
	if cart.DiscountCode != "" {
		code, err = s.discountServ.Resolve(cart.DiscountCode)
		if err != nil {
			return nil, err
		}
	}

	totals := pricing.ComputeTotalsWithCode(items, s.cartService.ShippingAmount(len(items)), code)
	if err := verifyExpectedTotal(input.ExpectedTotal, totals.TotalAmount.Decimal); err != nil {
		return nil, err
	}

	var affiliate *models.AffiliateUser
	if strings.TrimSpace(input.AffiliateCode) != "" {
		affiliate, err = s.affiliateSvc.ResolveCode(input.AffiliateCode)
		if err != nil {
			return nil, err
		}
	}

	// PayPal orders are approved client-side; confirm with the
	// gateway before anything is written.
	var paypalDetail *paypal.OrderDetail
	if method == constants.PaymentMethodPaypal {
		paypalDetail, err = s.verifyPaypalOrder(ctx, input.PaypalOrderID, totals.TotalAmount.Decimal)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	order := s.buildOrder(input, email, method, cart, totals, now)
	if affiliate != nil {
		order.AffiliateCode = affiliate.Code
	}
	if paypalDetail != nil {
		order.PaypalOrderID = paypalDetail.OrderID
		order.PaypalCaptureID = paypalDetail.CaptureID
		order.Status = constants.OrderStatusCompleted
		order.PaidAt = &now
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}
		if err := s.affiliateSvc.HandleOrderCreatedTx(tx, order, affiliate); err != nil {
			return err
		}
		if order.Status == constants.OrderStatusCompleted {
			if err := s.affiliateSvc.HandleOrderCompletedTx(tx, order.ID); err != nil {
				return err
			}
		}
		if code != nil {
			if err := s.discountServ.ConsumeTx(tx, code.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Items = items

	result := &CheckoutResult{Order: order}
	if token, err := s.rotateCart(); err == nil {
		result.NewCartToken = token
	}

	switch method {
	case constants.PaymentMethodStripe:
		redirectURL, err := s.startStripeSession(ctx, order, totals)
		if err != nil {
			return nil, err
		}
		result.RedirectURL = redirectURL
	case constants.PaymentMethodPaypal, constants.PaymentMethodCOD:
		s.enqueueShipmentPush(order.ID)
	}
	return result, nil
}

func (s *CheckoutService) buildOrder(input CheckoutInput, email, method string, cart *models.Cart, totals pricing.Totals, now time.Time) *models.CheckoutOrder {
	status := constants.OrderStatusPending
	if method == constants.PaymentMethodCOD {
		status = constants.OrderStatusOnHold
	}

	order := &models.CheckoutOrder{
		OrderNo:          generateOrderNo(),
		CartID:           &cart.ID,
		Email:            email,
		Phone:            strings.TrimSpace(input.Phone),
		BillingFirstName: strings.TrimSpace(input.Billing.FirstName),
		BillingLastName:  strings.TrimSpace(input.Billing.LastName),
		BillingAddress1:  strings.TrimSpace(input.Billing.Address1),
		BillingAddress2:  strings.TrimSpace(input.Billing.Address2),
		BillingCity:      strings.TrimSpace(input.Billing.City),
		BillingState:     strings.TrimSpace(input.Billing.State),
		BillingPostcode:  strings.TrimSpace(input.Billing.Postcode),
		BillingCountry:   strings.TrimSpace(input.Billing.Country),
		ShipToDifferent:  input.ShipToDifferent,
		PaymentMethod:    method,
		Status:           status,
		SubtotalAmount:   totals.SubtotalAmount,
		ShippingAmount:   totals.ShippingAmount,
		DiscountAmount:   totals.DiscountAmount,
		TotalAmount:      totals.TotalAmount,
		RefundedAmount:   models.NewMoneyFromDecimal(decimal.Zero),
		DiscountCode:     cart.DiscountCode,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if input.ShipToDifferent {
		order.ShippingFirstName = strings.TrimSpace(input.Shipping.FirstName)
		order.ShippingLastName = strings.TrimSpace(input.Shipping.LastName)
		order.ShippingAddress1 = strings.TrimSpace(input.Shipping.Address1)
		order.ShippingAddress2 = strings.TrimSpace(input.Shipping.Address2)
		order.ShippingCity = strings.TrimSpace(input.Shipping.City)
		order.ShippingState = strings.TrimSpace(input.Shipping.State)
		order.ShippingPostcode = strings.TrimSpace(input.Shipping.Postcode)
		order.ShippingCountry = strings.TrimSpace(input.Shipping.Country)
	}
	return order
}

// verifyPaypalOrder confirms the approved PayPal order is captured and
// charged the recomputed amount.
func (s *CheckoutService) verifyPaypalOrder(ctx context.Context, paypalOrderID string, expected decimal.Decimal) (*paypal.OrderDetail, error) {
	paypalOrderID = strings.TrimSpace(paypalOrderID)
	if paypalOrderID == "" {
		return nil, ErrPaymentMethodInvalid
	}

	cfg := &paypal.Config{
		ClientID:     s.cfg.Paypal.ClientID,
		ClientSecret: s.cfg.Paypal.Secret,
		BaseURL:      s.cfg.Paypal.APIBaseURL,
	}
	detail, err := paypal.GetOrder(ctx, cfg, paypalOrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if detail.CaptureID == "" || !strings.EqualFold(detail.CaptureStatus, "COMPLETED") {
		return nil, fmt.Errorf("%w: paypal order %s is not captured", ErrPaymentGateway, paypalOrderID)
	}
	if detail.Amount != "" {
		captured, err := decimal.NewFromString(detail.Amount)
		if err != nil || !captured.Round(2).Equal(expected.Round(2)) {
			return nil, ErrTotalsMismatch
		}
	}
	return detail, nil
}

// startStripeSession creates the Stripe Checkout session after the
// order row exists. A gateway failure marks the order failed.
func (s *CheckoutService) startStripeSession(ctx context.Context, order *models.CheckoutOrder, totals pricing.Totals) (string, error) {
	cfg := &stripe.Config{
		SecretKey:     s.cfg.Stripe.SecretKey,
		WebhookSecret: s.cfg.Stripe.WebhookSecret,
		SuccessURL:    s.cfg.Stripe.SuccessURL,
		CancelURL:     s.cfg.Stripe.CancelURL,
		APIBaseURL:    s.cfg.Stripe.APIBaseURL,
	}
	cfg.Normalize()

	// Each priced line becomes a quantity-1 item carrying its
	// discounted total, so the session sum matches the order exactly.
	// A cart-level code discount cannot be expressed as line items, so
	// those orders fall back to a single order-total line.
	var lines []stripe.LineItem
	if order.DiscountCode == "" {
		lines = make([]stripe.LineItem, 0, len(totals.Lines)+1)
		for _, line := range totals.Lines {
			name := line.Name
			if line.Quantity > 1 {
				name = fmt.Sprintf("%s x%d", line.Name, line.Quantity)
			}
			lines = append(lines, stripe.LineItem{
				Name:       name,
				Quantity:   1,
				UnitAmount: line.LineTotal.Decimal.StringFixed(2),
			})
		}
		if totals.ShippingAmount.Decimal.IsPositive() {
			lines = append(lines, stripe.LineItem{
				Name:       "Shipping",
				Quantity:   1,
				UnitAmount: totals.ShippingAmount.Decimal.StringFixed(2),
			})
		}
	}

	session, err := stripe.CreateCheckoutSession(ctx, cfg, stripe.CreateSessionInput{
		OrderNo:  order.OrderNo,
		OrderID:  order.ID,
		Currency: s.cfg.Shipping.Currency,
		Lines:    lines,
		Amount:   order.TotalAmount.Decimal.StringFixed(2),
	})
	if err != nil {
		if markErr := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusFailed, nil); markErr != nil {
			logger.Errorw("mark order failed after stripe error", "order_id", order.ID, "error", markErr)
		}
		order.Status = constants.OrderStatusFailed
		return "", fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	updates := map[string]interface{}{
		"stripe_session_id": session.SessionID,
		"updated_at":        time.Now(),
	}
	if err := s.orderRepo.UpdateStatus(order.ID, "", updates); err != nil {
		return "", err
	}
	order.StripeSessionID = session.SessionID

	payment := &models.StripePayment{
		OrderID:   order.ID,
		SessionID: session.SessionID,
		Amount:    order.TotalAmount,
		Currency:  strings.ToLower(strings.TrimSpace(s.cfg.Shipping.Currency)),
		Status:    constants.StripePaymentStatusPending,
	}
	if err := s.stripeRepo.Create(payment); err != nil {
		logger.Errorw("record stripe payment", "order_id", order.ID, "error", err)
	}
	return session.URL, nil
}

func (s *CheckoutService) rotateCart() (string, error) {
	fresh := &models.Cart{Token: uuid.NewString()}
	if err := s.cartRepo.Create(fresh); err != nil {
		return "", err
	}
	return fresh.Token, nil
}

func (s *CheckoutService) enqueueShipmentPush(orderID uint) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueShipmentPush(queue.ShipmentPushPayload{OrderID: orderID}); err != nil {
		logger.Warnw("enqueue shipment push", "order_id", orderID, "error", err)
	}
}

// isAddressComplete checks the fields the carrier requires. Address2
// and state stay optional.
func isAddressComplete(a CheckoutAddress) bool {
	required := []string{a.FirstName, a.LastName, a.Address1, a.City, a.Postcode, a.Country}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

func usableItems(items []models.CartItem) []models.CartItem {
	usable := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			usable = append(usable, item)
		}
	}
	return usable
}

func verifyExpectedTotal(expected string, computed decimal.Decimal) error {
	expected = strings.TrimSpace(expected)
	if expected == "" {
		return nil
	}
	value, err := decimal.NewFromString(expected)
	if err != nil {
		return ErrTotalsMismatch
	}
	if !value.Round(2).Equal(computed.Round(2)) {
		return ErrTotalsMismatch
	}
	return nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("DF%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
