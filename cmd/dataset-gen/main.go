// dataset-gen produces large schema-compatible order CSVs for demos and
// load testing. Rows are written in fixed-size batches so memory stays
// bounded regardless of the requested count.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/op/go-logging"

	"order-etl/pkg/coerce"
)

var log = logging.MustGetLogger("dataset-gen")

const batchSize = 10000

var header = []string{
	"order_id", "customer_id", "customer_name", "customer_email",
	"product_name", "category", "price", "quantity", "discount_percent",
	"total_amount", "region", "order_status", "payment_method",
	"order_date", "shipping_address", "phone_number",
}

var (
	categories = []string{
		"Electronics", "Clothing", "Home & Garden", "Sports & Outdoors",
		"Books & Media", "Automotive", "Health & Beauty", "Toys & Games",
		"Food & Beverages", "Office Supplies", "Jewelry", "Pet Supplies",
	}
	regions = []string{
		"Lagos", "Abuja", "Port Harcourt", "Kano", "Ibadan", "Benin City",
		"Jos", "Kaduna", "Warri", "Aba", "Onitsha", "Enugu",
	}
	statuses       = []string{"Completed", "Pending", "Cancelled", "Returned", "Processing", "Shipped"}
	paymentMethods = []string{"Card", "Bank Transfer", "Mobile Money", "Cash on Delivery"}

	productPrefixes = []string{"Premium", "Standard", "Deluxe", "Pro", "Basic", "Ultra", "Smart", "Classic"}
	productTypes    = []string{"Phone", "Laptop", "Shirt", "Shoes", "Book", "Watch", "Bag", "Headset"}

	// price ranges per category so the data looks plausible
	priceRanges = map[string][2]float64{
		"Electronics":       {50, 1500},
		"Clothing":          {20, 300},
		"Home & Garden":     {30, 800},
		"Sports & Outdoors": {25, 500},
		"Books & Media":     {5, 100},
		"Automotive":        {100, 2000},
		"Health & Beauty":   {15, 200},
		"Toys & Games":      {10, 150},
		"Food & Beverages":  {5, 50},
		"Office Supplies":   {10, 300},
		"Jewelry":           {50, 1000},
		"Pet Supplies":      {15, 200},
	}
)

func main() {
	count := flag.Int("records", 10000, "number of records to generate")
	output := flag.String("output", "demo_orders.csv", "output CSV file")
	seed := flag.Int64("seed", 42, "random seed for reproducible output")
	flag.Parse()

	if err := generate(*count, *output, *seed); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

func generate(count int, output string, seed int64) error {
	log.Infof("🚀 Generating %d records into %s", count, output)
	start := time.Now()

	rng := rand.New(rand.NewSource(seed))
	faker := gofakeit.New(uint64(seed))

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	dateStart := time.Now().AddDate(0, 0, -365)
	written := 0
	for written < count {
		batch := batchSize
		if remaining := count - written; remaining < batch {
			batch = remaining
		}
		for i := 0; i < batch; i++ {
			if err := w.Write(buildRow(rng, faker, dateStart, written+i)); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("failed to flush batch: %w", err)
		}
		written += batch
		log.Infof("⚡ Wrote %d/%d records", written, count)
	}

	log.Infof("✅ Generated %d records in %v", count, time.Since(start).Round(time.Millisecond))
	return nil
}

func buildRow(rng *rand.Rand, faker *gofakeit.Faker, dateStart time.Time, id int) []string {
	category := categories[rng.Intn(len(categories))]

	bounds := priceRanges[category]
	price := coerce.Round2(bounds[0] + rng.Float64()*(bounds[1]-bounds[0]))
	// 2% negative prices for validation demos
	if rng.Float64() < 0.02 {
		price = -price
	}

	quantity := 1 + rng.Intn(8)
	discount := discountFor(rng, quantity)

	// a negative price still gets a total computed from its magnitude
	subtotal := abs(price) * float64(quantity)
	total := coerce.Round2(subtotal - subtotal*discount/100)

	email := faker.Email()
	if rng.Float64() < 0.05 {
		email = fmt.Sprintf("invalid-email-%d", id)
	}

	orderDate := dateStart.AddDate(0, 0, rng.Intn(366))

	return []string{
		fmt.Sprintf("ORD-%d", 10000+id),
		fmt.Sprintf("CUST-%d", 1000+rng.Intn(99000)),
		faker.Name(),
		email,
		fmt.Sprintf("%s %s %d",
			productPrefixes[rng.Intn(len(productPrefixes))],
			productTypes[rng.Intn(len(productTypes))],
			100+rng.Intn(900)),
		category,
		strconv.FormatFloat(price, 'f', 2, 64),
		strconv.Itoa(quantity),
		strconv.FormatFloat(discount, 'f', 1, 64),
		strconv.FormatFloat(total, 'f', 2, 64),
		regions[rng.Intn(len(regions))],
		statuses[rng.Intn(len(statuses))],
		paymentMethods[rng.Intn(len(paymentMethods))],
		orderDate.Format("2006-01-02"),
		strings.ReplaceAll(faker.Address().Address, "\n", ", "),
		faker.Phone(),
	}
}

// discountFor skews discounts toward bulk orders.
func discountFor(rng *rand.Rand, quantity int) float64 {
	switch {
	case quantity > 5:
		return coerce.Round2(10 + rng.Float64()*15)
	case quantity > 3:
		return coerce.Round2(5 + rng.Float64()*10)
	case rng.Float64() < 0.3:
		return coerce.Round2(rng.Float64() * 10)
	default:
		return 0
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
