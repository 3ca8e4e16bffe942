package pipeline

import (
	"fmt"
	"strings"

	"order-etl/internal/model"
	"order-etl/pkg/coerce"
)

// qualityRule pairs a predicate with the flag it attaches. Rules run in
// slice order and the first match wins, so a row never carries more than
// one flag.
type qualityRule struct {
	flag    string
	issue   string // label used in the quality-issue message
	matches func(*model.OrderRecord) bool
}

var qualityRules = []qualityRule{
	{
		flag:  model.FlagInvalidEmail,
		issue: "Invalid emails",
		matches: func(r *model.OrderRecord) bool {
			return !strings.Contains(r.CustomerEmail, "@")
		},
	},
	{
		flag:  model.FlagInvalidPrice,
		issue: "Invalid prices",
		matches: func(r *model.OrderRecord) bool {
			// failed coercion counts as invalid
			return r.Price == nil || *r.Price <= 0
		},
	},
	{
		flag:  model.FlagInvalidQuantity,
		issue: "Invalid quantities",
		matches: func(r *model.OrderRecord) bool {
			return r.Quantity != nil && *r.Quantity <= 0
		},
	},
}

// validateTable coerces every raw row and attaches at most one quality flag
// per row. Rows are annotated, never rejected. The returned issue messages
// cover each rule that matched at least one row, in rule order.
func validateTable(raw []model.RawRecord) ([]model.OrderRecord, []string) {
	rows := make([]model.OrderRecord, len(raw))
	counts := make([]int, len(qualityRules))

	for i, rr := range raw {
		rows[i] = coerceRecord(rr)
		for j := range qualityRules {
			if qualityRules[j].matches(&rows[i]) {
				rows[i].QualityFlag = qualityRules[j].flag
				counts[j]++
				break
			}
		}
	}

	issues := make([]string, 0, len(qualityRules))
	for j, rule := range qualityRules {
		if counts[j] > 0 {
			issues = append(issues, fmt.Sprintf("%s: %d", rule.issue, counts[j]))
		}
	}
	return rows, issues
}

// coerceRecord converts one raw row into a typed order record. Unparseable
// numeric and date values become nulls rather than errors; the total amount
// is recomputed from price, quantity and discount whenever both price and
// quantity coerce, never trusted verbatim from the source.
func coerceRecord(rr model.RawRecord) model.OrderRecord {
	rec := model.OrderRecord{
		OrderID:         rr["order_id"],
		CustomerID:      rr["customer_id"],
		CustomerName:    rr["customer_name"],
		CustomerEmail:   rr["customer_email"],
		ProductName:     rr["product_name"],
		Category:        rr["category"],
		Region:          rr["region"],
		OrderStatus:     rr["order_status"],
		PaymentMethod:   rr["payment_method"],
		ShippingAddress: rr["shipping_address"],
		PhoneNumber:     rr["phone_number"],

		OrderDate:       coerce.Date(rr["order_date"]),
		Price:           coerce.Float(rr["price"]),
		Quantity:        coerce.Int(rr["quantity"]),
		DiscountPercent: coerce.Float(rr["discount_percent"]),
		TotalAmount:     coerce.Float(rr["total_amount"]),
	}

	if rec.Price != nil && rec.Quantity != nil {
		discount := 0.0
		if rec.DiscountPercent != nil {
			discount = *rec.DiscountPercent
		}
		subtotal := *rec.Price * float64(*rec.Quantity)
		total := coerce.Round2(subtotal * (1 - discount/100))
		rec.TotalAmount = &total
	}
	return rec
}
