package service

import (
	"errors"
	"testing"
	"time"

	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedDiscountCode(t *testing.T, env *serviceTestEnv, code *models.DiscountCode) *models.DiscountCode {
	t.Helper()
	if code.Type == "" {
		code.Type = constants.DiscountTypePercent
	}
	if code.Value.Decimal.IsZero() {
		code.Value = models.NewMoneyFromDecimal(decimal.NewFromInt(10))
	}
	if err := env.db.Create(code).Error; err != nil {
		t.Fatalf("seed discount code failed: %v", err)
	}
	return code
}

func TestDiscountResolve(t *testing.T) {
	env := setupServiceTest(t)
	seedDiscountCode(t, env, &models.DiscountCode{Code: "GOOD10", IsActive: true})
	seedDiscountCode(t, env, &models.DiscountCode{Code: "OFF10", IsActive: false})
	expired := time.Now().Add(-time.Hour)
	seedDiscountCode(t, env, &models.DiscountCode{Code: "OLD10", IsActive: true, ExpiresAt: &expired})
	seedDiscountCode(t, env, &models.DiscountCode{Code: "DONE10", IsActive: true, UsageLimit: 2, UsedCount: 2})

	if row, err := env.discounts.Resolve("GOOD10"); err != nil || row == nil {
		t.Fatalf("resolve active code failed: %v", err)
	}
	if _, err := env.discounts.Resolve("OFF10"); !errors.Is(err, ErrDiscountCodeInvalid) {
		t.Fatalf("inactive code want ErrDiscountCodeInvalid got %v", err)
	}
	if _, err := env.discounts.Resolve("OLD10"); !errors.Is(err, ErrDiscountCodeExpired) {
		t.Fatalf("expired code want ErrDiscountCodeExpired got %v", err)
	}
	if _, err := env.discounts.Resolve("DONE10"); !errors.Is(err, ErrDiscountCodeExhausted) {
		t.Fatalf("exhausted code want ErrDiscountCodeExhausted got %v", err)
	}
	if _, err := env.discounts.Resolve("NOPE"); !errors.Is(err, ErrDiscountCodeInvalid) {
		t.Fatalf("unknown code want ErrDiscountCodeInvalid got %v", err)
	}
}

func TestDiscountConsumeRespectsLimit(t *testing.T) {
	env := setupServiceTest(t)
	code := seedDiscountCode(t, env, &models.DiscountCode{Code: "LIMIT1", IsActive: true, UsageLimit: 1})

	if err := env.discounts.Consume(code.ID); err != nil {
		t.Fatalf("first consume failed: %v", err)
	}
	if err := env.discounts.Consume(code.ID); !errors.Is(err, ErrDiscountCodeExhausted) {
		t.Fatalf("second consume want ErrDiscountCodeExhausted got %v", err)
	}

	var reloaded models.DiscountCode
	if err := env.db.First(&reloaded, code.ID).Error; err != nil {
		t.Fatalf("reload code failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("used count want 1 got %d", reloaded.UsedCount)
	}
}

func TestDiscountConsumeRollsBackWithTransaction(t *testing.T) {
	env := setupServiceTest(t)
	code := seedDiscountCode(t, env, &models.DiscountCode{Code: "TX10", IsActive: true, UsageLimit: 1})

	boom := errors.New("insert failed")
	err := env.db.Transaction(func(tx *gorm.DB) error {
		if err := env.discounts.ConsumeTx(tx, code.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want the injected error got %v", err)
	}

	// The rolled-back increment must not burn the only use.
	var reloaded models.DiscountCode
	if err := env.db.First(&reloaded, code.ID).Error; err != nil {
		t.Fatalf("reload code failed: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("used count want 0 got %d", reloaded.UsedCount)
	}
	if err := env.discounts.Consume(code.ID); err != nil {
		t.Fatalf("consume after rollback failed: %v", err)
	}
}

func TestDiscountCreateRejectsDuplicates(t *testing.T) {
	env := setupServiceTest(t)

	created, err := env.discounts.Create(DiscountCodeInput{
		Code:  "fresh5",
		Type:  constants.DiscountTypeFixed,
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Code != "FRESH5" {
		t.Fatalf("code want FRESH5 got %s", created.Code)
	}
	if !created.IsActive {
		t.Fatalf("new codes default to active")
	}

	if _, err := env.discounts.Create(DiscountCodeInput{
		Code:  "FRESH5",
		Type:  constants.DiscountTypeFixed,
		Value: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
	}); !errors.Is(err, ErrCodeExists) {
		t.Fatalf("want ErrCodeExists got %v", err)
	}

	if _, err := env.discounts.Create(DiscountCodeInput{
		Code: "BADTYPE",
		Type: "bogo",
	}); !errors.Is(err, ErrDiscountCodeInvalid) {
		t.Fatalf("want ErrDiscountCodeInvalid got %v", err)
	}
}
