package main

import (
	"time"

	"github.com/decalforge/decalforge/internal/config"
	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/logger"
	"github.com/decalforge/decalforge/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	seedProducts(stdLog)
	seedGallery(stdLog)
	seedPosts(stdLog)
	seedDiscountCodes(stdLog)
	seedAffiliates(stdLog)

	stdLog.Printf("Seed completed")
}

type printfLogger interface {
	Printf(format string, args ...interface{})
}

func seedProducts(stdLog printfLogger) {
	products := []models.Product{
		{
			Slug:        "die-cut-vinyl-decal",
			SKU:         "DF-VINYL-001",
			Name:        "Die-Cut Vinyl Decal",
			Description: "Weatherproof die-cut vinyl decal, outdoor rated for five years.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(4.99)),
			ImageURL:    "/uploads/products/die-cut-vinyl.jpg",
			Stock:       500,
			IsActive:    true,
			SortOrder:   1,
		},
		{
			Slug:        "holographic-sticker-pack",
			SKU:         "DF-HOLO-002",
			Name:        "Holographic Sticker Pack",
			Description: "Pack of holographic stickers with a rainbow shimmer finish.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(9.99)),
			ImageURL:    "/uploads/products/holo-pack.jpg",
			Stock:       300,
			IsActive:    true,
			SortOrder:   2,
		},
		{
			Slug:        "custom-bumper-decal",
			SKU:         "DF-BUMP-003",
			Name:        "Custom Bumper Decal",
			Description: "Large-format bumper decal printed from your own artwork.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(14.50)),
			ImageURL:    "/uploads/products/bumper.jpg",
			Stock:       200,
			IsActive:    true,
			SortOrder:   3,
		},
		{
			Slug:        "laptop-skin-matte",
			SKU:         "DF-SKIN-004",
			Name:        "Matte Laptop Skin",
			Description: "Full-cover matte laptop skin, bubble-free application.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(19.00)),
			ImageURL:    "/uploads/products/laptop-skin.jpg",
			Stock:       150,
			IsActive:    true,
			SortOrder:   4,
		},
	}

	for _, p := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", p.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", p.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", p.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", p.Slug)
		}
	}
}

func seedGallery(stdLog printfLogger) {
	items := []models.GalleryItem{
		{Title: "Fleet branding for a courier van", ImageURL: "/uploads/gallery/fleet-van.jpg", Category: "vehicles", SortOrder: 1},
		{Title: "Storefront window lettering", ImageURL: "/uploads/gallery/storefront.jpg", Category: "signage", SortOrder: 2},
		{Title: "Laptop covered in holographic stickers", ImageURL: "/uploads/gallery/laptop-holo.jpg", Category: "stickers", SortOrder: 3},
		{Title: "Motorcycle tank decal set", ImageURL: "/uploads/gallery/moto-tank.jpg", Category: "vehicles", SortOrder: 4},
	}

	for _, item := range items {
		var existing models.GalleryItem
		if err := models.DB.Where("title = ?", item.Title).First(&existing).Error; err != nil {
			if err := models.DB.Create(&item).Error; err != nil {
				stdLog.Printf("Failed to create gallery item %q: %v", item.Title, err)
			} else {
				stdLog.Printf("Created gallery item: %s", item.Title)
			}
		} else {
			stdLog.Printf("Gallery item already exists: %s", item.Title)
		}
	}
}

func seedPosts(stdLog printfLogger) {
	now := time.Now()
	posts := []models.Post{
		{
			Slug:        "how-to-apply-vinyl-decals",
			Title:       "How to Apply Vinyl Decals Without Bubbles",
			Summary:     "A step-by-step guide to a clean, bubble-free application.",
			Content:     "Clean the surface with isopropyl alcohol, peel the backing slowly, and squeegee from the center outward.",
			IsPublished: true,
			PublishedAt: &now,
		},
		{
			Slug:        "choosing-the-right-finish",
			Title:       "Gloss, Matte, or Holographic: Choosing the Right Finish",
			Summary:     "What each finish looks like in daylight and where it works best.",
			Content:     "Gloss pops on vehicles, matte suits laptops and interiors, and holographic is for standing out.",
			IsPublished: true,
			PublishedAt: &now,
		},
	}

	for _, post := range posts {
		var existing models.Post
		if err := models.DB.Where("slug = ?", post.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&post).Error; err != nil {
				stdLog.Printf("Failed to create post %s: %v", post.Slug, err)
			} else {
				stdLog.Printf("Created post: %s", post.Slug)
			}
		} else {
			stdLog.Printf("Post already exists: %s", post.Slug)
		}
	}
}

func seedDiscountCodes(stdLog printfLogger) {
	expires := time.Now().AddDate(0, 3, 0)
	codes := []models.DiscountCode{
		{
			Code:       "WELCOME10",
			Type:       "percent",
			Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			UsageLimit: 0,
			IsActive:   true,
		},
		{
			Code:       "LAUNCH5",
			Type:       "fixed",
			Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			UsageLimit: 100,
			ExpiresAt:  &expires,
			IsActive:   true,
		},
	}

	for _, code := range codes {
		var existing models.DiscountCode
		if err := models.DB.Where("code = ?", code.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&code).Error; err != nil {
				stdLog.Printf("Failed to create discount code %s: %v", code.Code, err)
			} else {
				stdLog.Printf("Created discount code: %s", code.Code)
			}
		} else {
			stdLog.Printf("Discount code already exists: %s", code.Code)
		}
	}
}

func seedAffiliates(stdLog printfLogger) {
	affiliates := []models.AffiliateUser{
		{Code: "CARWRAPS", Name: "Car Wraps Weekly", Email: "partners@carwrapsweekly.example", Status: constants.AffiliateStatusActive},
		{Code: "STICKERFAN", Name: "Sticker Fan Club", Email: "hello@stickerfan.example", Status: constants.AffiliateStatusActive},
	}

	for _, aff := range affiliates {
		var existing models.AffiliateUser
		if err := models.DB.Where("code = ?", aff.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&aff).Error; err != nil {
				stdLog.Printf("Failed to create affiliate %s: %v", aff.Code, err)
			} else {
				stdLog.Printf("Created affiliate: %s", aff.Code)
			}
		} else {
			stdLog.Printf("Affiliate already exists: %s", aff.Code)
		}
	}
}
