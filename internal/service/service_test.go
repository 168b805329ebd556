package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/decalforge/decalforge/internal/config"
	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var orderNoSeq int64

type serviceTestEnv struct {
	db  *gorm.DB
	cfg *config.Config

	orderRepo     *repository.GormOrderRepository
	cartRepo      *repository.GormCartRepository
	productRepo   *repository.GormProductRepository
	discountRepo  *repository.GormDiscountCodeRepository
	stripeRepo    *repository.GormStripePaymentRepository
	affiliateRepo *repository.GormAffiliateRepository

	discounts *DiscountService
	affiliate *AffiliateService
	carts     *CartService
	checkout  *CheckoutService
	orders    *OrderService
	refunds   *RefundService
	shipping  *ShippingService
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.DiscountCode{},
		&models.Cart{},
		&models.CartItem{},
		&models.CheckoutOrder{},
		&models.StripePayment{},
		&models.AffiliateUser{},
		&models.AffiliateCommission{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{
		Shipping: config.ShippingConfig{
			FlatRate: "5.00",
			Currency: "USD",
		},
	}

	env := &serviceTestEnv{
		db:            db,
		cfg:           cfg,
		orderRepo:     repository.NewOrderRepository(db),
		cartRepo:      repository.NewCartRepository(db),
		productRepo:   repository.NewProductRepository(db),
		discountRepo:  repository.NewDiscountCodeRepository(db),
		stripeRepo:    repository.NewStripePaymentRepository(db),
		affiliateRepo: repository.NewAffiliateRepository(db),
	}
	env.discounts = NewDiscountService(env.discountRepo)
	env.affiliate = NewAffiliateService(env.affiliateRepo)
	env.carts = NewCartService(cfg, env.cartRepo, env.productRepo, env.discounts)
	env.checkout = NewCheckoutService(cfg, env.orderRepo, env.cartRepo, env.stripeRepo, env.carts, env.discounts, env.affiliate, nil)
	env.orders = NewOrderService(env.orderRepo, env.cartRepo)
	env.refunds = NewRefundService(cfg, env.orderRepo, env.stripeRepo, env.affiliate)
	env.shipping = NewShippingService(cfg, env.orderRepo, env.cartRepo)
	return env
}

func seedProduct(t *testing.T, env *serviceTestEnv, slug, price string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:        slug,
		SKU:         strings.ToUpper(slug),
		Name:        slug,
		PriceAmount: models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Stock:       100,
		IsActive:    active,
	}
	if err := env.db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func seedCart(t *testing.T, env *serviceTestEnv, token string) *models.Cart {
	t.Helper()
	cart := &models.Cart{Token: token}
	if err := env.db.Create(cart).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
	return cart
}

func seedCartItem(t *testing.T, env *serviceTestEnv, cart *models.Cart, product *models.Product, quantity int) {
	t.Helper()
	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		UnitPrice: product.PriceAmount,
		Quantity:  quantity,
	}
	if err := env.db.Create(item).Error; err != nil {
		t.Fatalf("seed cart item failed: %v", err)
	}
}

func seedOrder(t *testing.T, env *serviceTestEnv, order *models.CheckoutOrder) *models.CheckoutOrder {
	t.Helper()
	if order.OrderNo == "" {
		order.OrderNo = fmt.Sprintf("DF-TEST-%d", atomic.AddInt64(&orderNoSeq, 1))
	}
	if order.Email == "" {
		order.Email = "buyer@example.com"
	}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	return order
}

func seedAffiliate(t *testing.T, env *serviceTestEnv, code string) *models.AffiliateUser {
	t.Helper()
	user := &models.AffiliateUser{
		Code:          code,
		Name:          "Test Partner",
		Email:         "partner@example.com",
		Status:        constants.AffiliateStatusActive,
		TotalEarnings: models.NewMoneyFromDecimal(decimal.Zero),
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("seed affiliate failed: %v", err)
	}
	return user
}

func seedCommission(t *testing.T, env *serviceTestEnv, userID, orderID uint, amount, status string) *models.AffiliateCommission {
	t.Helper()
	value := decimal.RequireFromString(amount)
	commission := &models.AffiliateCommission{
		AffiliateUserID:  userID,
		OrderID:          orderID,
		BaseAmount:       models.NewMoneyFromDecimal(value.Mul(decimal.NewFromInt(10))),
		RatePercent:      models.NewMoneyFromDecimal(decimal.NewFromInt(constants.AffiliateCommissionRatePercent)),
		CommissionAmount: models.NewMoneyFromDecimal(value),
		Status:           status,
	}
	if err := env.db.Create(commission).Error; err != nil {
		t.Fatalf("seed commission failed: %v", err)
	}
	if status == constants.AffiliateCommissionStatusEarned {
		if err := env.affiliateRepo.AddEarnings(userID, value); err != nil {
			t.Fatalf("seed earnings failed: %v", err)
		}
	}
	return commission
}

func reloadOrder(t *testing.T, env *serviceTestEnv, id uint) *models.CheckoutOrder {
	t.Helper()
	order, err := env.orderRepo.GetByID(id)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if order == nil {
		t.Fatalf("order %d disappeared", id)
	}
	return order
}

func reloadCommission(t *testing.T, env *serviceTestEnv, id uint) *models.AffiliateCommission {
	t.Helper()
	var commission models.AffiliateCommission
	if err := env.db.First(&commission, id).Error; err != nil {
		t.Fatalf("reload commission failed: %v", err)
	}
	return &commission
}

func reloadAffiliate(t *testing.T, env *serviceTestEnv, id uint) *models.AffiliateUser {
	t.Helper()
	var user models.AffiliateUser
	if err := env.db.First(&user, id).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	return &user
}

func assertMoney(t *testing.T, label string, got models.Money, want string) {
	t.Helper()
	expected := decimal.RequireFromString(want)
	if !got.Decimal.Round(2).Equal(expected.Round(2)) {
		t.Fatalf("%s want %s got %s", label, expected.StringFixed(2), got.Decimal.StringFixed(2))
	}
}
