package model

import "time"

// RawRecord is a column-name keyed row exactly as read from the source.
// Values stay as raw strings until the transform phase coerces them.
type RawRecord map[string]string

// Data quality flags, at most one per row
const (
	FlagInvalidEmail    = "Invalid Email"
	FlagInvalidPrice    = "Invalid Price"
	FlagInvalidQuantity = "Invalid Quantity"
)

// Price tiers
const (
	TierBudget   = "Budget"
	TierMidRange = "Mid-range"
	TierPremium  = "Premium"
	TierLuxury   = "Luxury"
)

// Customer segments
const (
	SegmentVIP     = "VIP"
	SegmentRegular = "Regular"
	SegmentNew     = "New"
)

// OrderRecord is a single processed row: coerced source fields plus the
// derived fields attached during transform. Nullable columns use pointers so
// failed coercion survives as an explicit null instead of a zero value.
type OrderRecord struct {
	OrderID         string `json:"order_id"`
	CustomerID      string `json:"customer_id"`
	CustomerName    string `json:"customer_name,omitempty"`
	CustomerEmail   string `json:"customer_email"`
	ProductName     string `json:"product_name"`
	Category        string `json:"category"`
	Region          string `json:"region"`
	OrderStatus     string `json:"order_status"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	ShippingAddress string `json:"shipping_address,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`

	OrderDate       *time.Time `json:"order_date"`
	Price           *float64   `json:"price"`
	Quantity        *int       `json:"quantity"`
	DiscountPercent *float64   `json:"discount_percent"`
	TotalAmount     *float64   `json:"total_amount"`

	QualityFlag     string   `json:"data_quality_flag,omitempty"`
	PriceTier       string   `json:"price_tier,omitempty"`
	Revenue         *float64 `json:"revenue"`
	Month           string   `json:"month,omitempty"`
	Quarter         string   `json:"quarter,omitempty"`
	CustomerSegment string   `json:"customer_segment"`
	DaysSinceOrder  *int     `json:"days_since_order"`
	IsWeekendOrder  *bool    `json:"is_weekend_order"`
}

// Clean reports whether the row passed every validation rule.
func (r *OrderRecord) Clean() bool {
	return r.QualityFlag == ""
}
