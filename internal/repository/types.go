package repository

import "time"

// OrderListFilter filters admin order queries.
type OrderListFilter struct {
	Status        string
	PaymentMethod string
	Email         string
	Page          int
	PageSize      int
}

// ProductListFilter filters product queries.
type ProductListFilter struct {
	ActiveOnly bool
	Keyword    string
	Page       int
	PageSize   int
}

// PostListFilter filters blog queries.
type PostListFilter struct {
	PublishedOnly bool
	Page          int
	PageSize      int
}

// GalleryListFilter filters gallery queries.
type GalleryListFilter struct {
	Category string
	Page     int
	PageSize int
}

// DiscountCodeListFilter filters discount code queries.
type DiscountCodeListFilter struct {
	ActiveOnly bool
	Page       int
	PageSize   int
}

// CommissionListFilter filters commission ledger queries.
type CommissionListFilter struct {
	AffiliateUserID uint
	Status          string
	Page            int
	PageSize        int
}

// PaymentReportFilter bounds the payments report.
type PaymentReportFilter struct {
	From *time.Time
	To   *time.Time
}

// PaymentReportRow is one aggregate in the payments report.
type PaymentReportRow struct {
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	OrderCount    int64  `json:"order_count"`
	TotalAmount   string `json:"total_amount"`
	RefundedTotal string `json:"refunded_total"`
}
