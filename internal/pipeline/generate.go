package pipeline

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"order-etl/internal/model"
	"order-etl/pkg/coerce"
)

var (
	sampleCategories = []string{"Electronics", "Clothing", "Home & Garden", "Sports", "Books", "Automotive"}
	sampleRegions    = []string{"North America", "Europe", "Asia", "South America", "Africa", "Oceania"}
	sampleStatuses   = []string{"Completed", "Pending", "Cancelled", "Returned"}
	sampleDomains    = []string{"gmail.com", "yahoo.com", "outlook.com", "company.com"}
)

// generateSample builds n synthetic order rows over the last six months with
// intentionally injected defects: ~5% of emails lack an "@", ~2% of prices
// are negative, and discounts land preferentially on quantities above 5.
func generateSample(n int, seed int64) []model.RawRecord {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	start := time.Now().AddDate(0, 0, -180)

	rows := make([]model.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		orderDate := start.AddDate(0, 0, rng.Intn(181))

		price := coerce.Round2(5 + rng.Float64()*994.99)
		if rng.Float64() < 0.02 {
			price = -price
		}
		quantity := 1 + rng.Intn(10)
		discount := sampleDiscount(rng, quantity)

		subtotal := price * float64(quantity)
		total := coerce.Round2(subtotal - subtotal*discount/100)

		rows = append(rows, model.RawRecord{
			"order_id":         fmt.Sprintf("ORD-%d", 1000+i),
			"customer_id":      fmt.Sprintf("CUST-%d", 1+rng.Intn(500)),
			"product_name":     fmt.Sprintf("Product %c%02d", 'A'+i%26, i%100),
			"category":         sampleCategories[rng.Intn(len(sampleCategories))],
			"price":            strconv.FormatFloat(price, 'f', 2, 64),
			"quantity":         strconv.Itoa(quantity),
			"region":           sampleRegions[rng.Intn(len(sampleRegions))],
			"order_status":     sampleStatuses[rng.Intn(len(sampleStatuses))],
			"order_date":       orderDate.Format("2006-01-02"),
			"customer_email":   sampleEmail(rng, i),
			"discount_percent": strconv.FormatFloat(discount, 'f', 1, 64),
			"total_amount":     strconv.FormatFloat(total, 'f', 2, 64),
		})
	}
	return rows
}

func sampleEmail(rng *rand.Rand, i int) string {
	if rng.Float64() < 0.05 {
		return fmt.Sprintf("invalid-email-%d", i)
	}
	return fmt.Sprintf("customer%d@%s", i, sampleDomains[rng.Intn(len(sampleDomains))])
}

// sampleDiscount skews discounts toward bulk orders.
func sampleDiscount(rng *rand.Rand, quantity int) float64 {
	switch {
	case quantity > 5:
		return roundTenth(10 + rng.Float64()*15)
	case quantity > 3:
		return roundTenth(5 + rng.Float64()*10)
	case rng.Float64() < 0.3:
		return roundTenth(rng.Float64() * 10)
	default:
		return 0
	}
}

func roundTenth(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
