package service

import (
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AffiliateService maintains the referral commission ledger. Every
// commission is a fixed percentage of the order total and follows the
// order through its lifecycle.
type AffiliateService struct {
	repo repository.AffiliateRepository
}

// NewAffiliateService creates an affiliate service.
func NewAffiliateService(repo repository.AffiliateRepository) *AffiliateService {
	return &AffiliateService{repo: repo}
}

// AffiliateUserInput is the admin create/update payload.
type AffiliateUserInput struct {
	Code   string
	Name   string
	Email  string
	Status string
}

// ResolveCode returns the active affiliate behind a referral code, or
// nil when the code is unknown or disabled. Checkout treats a bad code
// as no referral rather than an error.
func (s *AffiliateService) ResolveCode(code string) (*models.AffiliateUser, error) {
	user, err := s.repo.GetUserByCode(code)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != constants.AffiliateStatusActive {
		return nil, nil
	}
	return user, nil
}

// HandleOrderCreatedTx records the commission for a referred order
// inside the checkout transaction. The entry starts in the state that
// mirrors the order: on-hold for COD, pending otherwise.
func (s *AffiliateService) HandleOrderCreatedTx(tx *gorm.DB, order *models.CheckoutOrder, affiliate *models.AffiliateUser) error {
	if tx == nil || order == nil || order.ID == 0 || affiliate == nil || affiliate.ID == 0 {
		return nil
	}

	repoTx := s.repo.WithTx(tx)
	existing, err := repoTx.GetCommissionByOrderAndUser(order.ID, affiliate.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	baseAmount := order.TotalAmount.Decimal.Round(2)
	if baseAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	rate := decimal.NewFromInt(constants.AffiliateCommissionRatePercent)
	commissionAmount := baseAmount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	if commissionAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	status := constants.AffiliateCommissionStatusPending
	if order.Status == constants.OrderStatusOnHold {
		status = constants.AffiliateCommissionStatusOnHold
	}

	commission := &models.AffiliateCommission{
		AffiliateUserID:  affiliate.ID,
		OrderID:          order.ID,
		BaseAmount:       models.NewMoneyFromDecimal(baseAmount),
		RatePercent:      models.NewMoneyFromDecimal(rate),
		CommissionAmount: models.NewMoneyFromDecimal(commissionAmount),
		Status:           status,
	}
	return repoTx.CreateCommission(commission)
}

// HandleOrderCompletedTx settles the order's commissions. Pending and
// on-hold entries become earned and count toward lifetime earnings.
func (s *AffiliateService) HandleOrderCompletedTx(tx *gorm.DB, orderID uint) error {
	if tx == nil || orderID == 0 {
		return nil
	}

	repoTx := s.repo.WithTx(tx)
	rows, err := repoTx.ListCommissionsByOrderForUpdate(orderID, []string{
		constants.AffiliateCommissionStatusPending,
		constants.AffiliateCommissionStatusOnHold,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range rows {
		item := rows[i]
		item.Status = constants.AffiliateCommissionStatusEarned
		item.EarnedAt = &now
		item.UpdatedAt = now
		if err := repoTx.UpdateCommission(&item); err != nil {
			return err
		}
		if err := repoTx.AddEarnings(item.AffiliateUserID, item.CommissionAmount.Decimal); err != nil {
			return err
		}
	}
	return nil
}

// HandleOrderCancelledTx reverses every live commission on the order.
// Earned amounts are clawed back from lifetime earnings.
func (s *AffiliateService) HandleOrderCancelledTx(tx *gorm.DB, orderID uint, reason string) error {
	if tx == nil || orderID == 0 {
		return nil
	}

	repoTx := s.repo.WithTx(tx)
	rows, err := repoTx.ListCommissionsByOrderForUpdate(orderID, []string{
		constants.AffiliateCommissionStatusPending,
		constants.AffiliateCommissionStatusOnHold,
		constants.AffiliateCommissionStatusEarned,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	reasonText := strings.TrimSpace(reason)
	if reasonText == "" {
		reasonText = "order_cancelled"
	}
	for i := range rows {
		item := rows[i]
		wasEarned := item.Status == constants.AffiliateCommissionStatusEarned
		amount := item.CommissionAmount.Decimal.Round(2)

		item.Status = constants.AffiliateCommissionStatusReversed
		item.ReversalReason = reasonText
		item.ReversedAt = &now
		item.UpdatedAt = now
		if err := repoTx.UpdateCommission(&item); err != nil {
			return err
		}
		if wasEarned && amount.IsPositive() {
			if err := repoTx.AddEarnings(item.AffiliateUserID, amount.Neg()); err != nil {
				return err
			}
		}
	}
	return nil
}

// HandleOrderRefundedTx shrinks the order's commissions in proportion
// to the refunded share of the remaining balance. A commission driven
// to zero is reversed outright.
func (s *AffiliateService) HandleOrderRefundedTx(
	tx *gorm.DB,
	order *models.CheckoutOrder,
	refundDelta decimal.Decimal,
	refundedBefore decimal.Decimal,
	reason string,
) error {
	if tx == nil || order == nil || order.ID == 0 {
		return nil
	}
	delta := refundDelta.Round(2)
	if delta.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	totalAmount := order.TotalAmount.Decimal.Round(2)
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	before := refundedBefore.Round(2)
	if before.LessThan(decimal.Zero) {
		before = decimal.Zero
	}
	if before.GreaterThan(totalAmount) {
		before = totalAmount
	}
	remaining := totalAmount.Sub(before).Round(2)
	if remaining.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	if delta.GreaterThan(remaining) {
		delta = remaining
	}

	repoTx := s.repo.WithTx(tx)
	rows, err := repoTx.ListCommissionsByOrderForUpdate(order.ID, []string{
		constants.AffiliateCommissionStatusPending,
		constants.AffiliateCommissionStatusOnHold,
		constants.AffiliateCommissionStatusEarned,
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	now := time.Now()
	reasonText := strings.TrimSpace(reason)
	if reasonText == "" {
		reasonText = "order_refunded"
	}
	for i := range rows {
		item := rows[i]
		wasEarned := item.Status == constants.AffiliateCommissionStatusEarned
		currentCommission := item.CommissionAmount.Decimal.Round(2)
		if currentCommission.LessThanOrEqual(decimal.Zero) {
			item.Status = constants.AffiliateCommissionStatusReversed
			item.ReversalReason = reasonText
			item.ReversedAt = &now
			item.UpdatedAt = now
			if err := repoTx.UpdateCommission(&item); err != nil {
				return err
			}
			continue
		}

		// Deduct by refund delta over the remaining unrefunded balance
		// so repeated partial refunds never over-shrink the ledger.
		deduct := currentCommission.Mul(delta).Div(remaining).Round(2)
		nextCommission := currentCommission.Sub(deduct).Round(2)
		if nextCommission.LessThan(decimal.Zero) {
			nextCommission = decimal.Zero
		}
		currentBase := item.BaseAmount.Decimal.Round(2)
		nextBase := currentBase
		if currentBase.GreaterThan(decimal.Zero) {
			baseDeduct := currentBase.Mul(delta).Div(remaining).Round(2)
			nextBase = currentBase.Sub(baseDeduct).Round(2)
			if nextBase.LessThan(decimal.Zero) {
				nextBase = decimal.Zero
			}
		}

		item.CommissionAmount = models.NewMoneyFromDecimal(nextCommission)
		item.BaseAmount = models.NewMoneyFromDecimal(nextBase)
		item.UpdatedAt = now
		if nextCommission.LessThanOrEqual(decimal.Zero) {
			item.Status = constants.AffiliateCommissionStatusReversed
			item.ReversalReason = reasonText
			item.ReversedAt = &now
		}
		if err := repoTx.UpdateCommission(&item); err != nil {
			return err
		}

		if wasEarned {
			actualDeduct := currentCommission.Sub(nextCommission).Round(2)
			if actualDeduct.IsPositive() {
				if err := repoTx.AddEarnings(item.AffiliateUserID, actualDeduct.Neg()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ListUsers returns a paginated affiliate page.
func (s *AffiliateService) ListUsers(page, pageSize int) ([]models.AffiliateUser, int64, error) {
	return s.repo.ListUsers(page, pageSize)
}

// GetUserByID returns one affiliate.
func (s *AffiliateService) GetUserByID(id uint) (*models.AffiliateUser, error) {
	user, err := s.repo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAffiliateNotFound
	}
	return user, nil
}

// CreateUser registers an affiliate, generating a code when absent.
func (s *AffiliateService) CreateUser(input AffiliateUserInput) (*models.AffiliateUser, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		code = generateAffiliateCode()
	}

	existing, err := s.repo.GetUserByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCodeExists
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.AffiliateStatusActive
	}

	user := &models.AffiliateUser{
		Code:          code,
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Status:        status,
		TotalEarnings: models.NewMoneyFromDecimal(decimal.Zero),
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser saves affiliate changes.
func (s *AffiliateService) UpdateUser(id uint, input AffiliateUserInput) (*models.AffiliateUser, error) {
	user, err := s.repo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAffiliateNotFound
	}

	if code := strings.ToUpper(strings.TrimSpace(input.Code)); code != "" && code != user.Code {
		existing, err := s.repo.GetUserByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrCodeExists
		}
		user.Code = code
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		user.Email = email
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		user.Status = status
	}

	if err := s.repo.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListCommissions returns a filtered ledger page.
func (s *AffiliateService) ListCommissions(filter repository.CommissionListFilter) ([]models.AffiliateCommission, int64, error) {
	return s.repo.ListCommissions(filter)
}

func generateAffiliateCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:8]
}
