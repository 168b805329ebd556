package service

import (
	"strings"

	"github.com/decalforge/decalforge/internal/config"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/pricing"
	"github.com/decalforge/decalforge/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartView is a cart with its totals recomputed from current catalog
// prices and tier rules. Totals are never stored.
type CartView struct {
	Token        string         `json:"token"`
	DiscountCode string         `json:"discount_code,omitempty"`
	Totals       pricing.Totals `json:"totals"`
}

// CartService handles guest carts keyed by opaque tokens.
type CartService struct {
	cfg          *config.Config
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	discountServ *DiscountService
}

// NewCartService creates a cart service.
func NewCartService(cfg *config.Config, cartRepo repository.CartRepository, productRepo repository.ProductRepository, discountServ *DiscountService) *CartService {
	return &CartService{
		cfg:          cfg,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		discountServ: discountServ,
	}
}

// GetOrCreate resolves a cart by token, creating one when the token is
// empty or unknown.
func (s *CartService) GetOrCreate(token string) (*models.Cart, error) {
	if token = strings.TrimSpace(token); token != "" {
		cart, err := s.cartRepo.GetByToken(token)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}
	}

	cart := &models.Cart{Token: uuid.NewString()}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// View returns the cart with freshly computed totals.
func (s *CartService) View(token string) (*CartView, error) {
	cart, err := s.cartRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return s.buildView(cart)
}

// AddItem adds quantity of a product to the cart, merging with an
// existing line for the same product.
func (s *CartService) AddItem(token string, productID uint, quantity int) (*CartView, error) {
	if productID == 0 || quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.GetOrCreate(token)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}

	existing, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, existing.Quantity+quantity); err != nil {
			return nil, err
		}
	} else {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			UnitPrice: product.PriceAmount,
			Quantity:  quantity,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}

	return s.View(cart.Token)
}

// UpdateItem sets the quantity of a line. Zero or negative removes it.
func (s *CartService) UpdateItem(token string, productID uint, quantity int) (*CartView, error) {
	cart, err := s.cartRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(item.ID); err != nil {
			return nil, err
		}
	} else if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}

	return s.View(cart.Token)
}

// RemoveItem drops a line from the cart.
func (s *CartService) RemoveItem(token string, productID uint) (*CartView, error) {
	return s.UpdateItem(token, productID, 0)
}

// ApplyDiscountCode validates and attaches a code to the cart.
func (s *CartService) ApplyDiscountCode(token, code string) (*CartView, error) {
	cart, err := s.cartRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	row, err := s.discountServ.Resolve(code)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.SetDiscountCode(cart.ID, row.Code); err != nil {
		return nil, err
	}
	return s.View(cart.Token)
}

// RemoveDiscountCode detaches the code from the cart.
func (s *CartService) RemoveDiscountCode(token string) (*CartView, error) {
	cart, err := s.cartRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if err := s.cartRepo.SetDiscountCode(cart.ID, ""); err != nil {
		return nil, err
	}
	return s.View(cart.Token)
}

// buildView refreshes line snapshots from the catalog, drops lines
// whose product vanished, and recomputes totals.
func (s *CartService) buildView(cart *models.Cart) (*CartView, error) {
	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil || !product.IsActive {
			_ = s.cartRepo.DeleteItem(item.ID)
			continue
		}
		item.SKU = product.SKU
		item.Name = product.Name
		item.UnitPrice = product.PriceAmount
		items = append(items, item)
	}

	// An unusable stored code prices as no discount rather than
	// blocking the cart read.
	var code *models.DiscountCode
	if cart.DiscountCode != "" {
		row, err := s.discountServ.Resolve(cart.DiscountCode)
		if err == nil {
			code = row
		}
	}

	view := &CartView{
		Token:        cart.Token,
		DiscountCode: cart.DiscountCode,
		Totals:       pricing.ComputeTotalsWithCode(items, s.ShippingAmount(len(items)), code),
	}
	return view, nil
}

// ShippingAmount returns the flat shipping rate, free for empty carts.
func (s *CartService) ShippingAmount(lineCount int) models.Money {
	if lineCount == 0 {
		return models.NewMoneyFromDecimal(decimal.Zero)
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(s.cfg.Shipping.FlatRate))
	if err != nil || rate.IsNegative() {
		rate = decimal.Zero
	}
	return models.NewMoneyFromDecimal(rate.Round(2))
}
