package main

import (
	"flag"
	"fmt"

	"github.com/op/go-logging"

	"order-etl/internal/pipeline"
)

var log = logging.MustGetLogger("etl")

func main() {
	input := flag.String("input", "", "CSV file to process; omitted means generated sample data")
	records := flag.Int("records", pipeline.DefaultSampleSize, "number of sample records to generate")
	seed := flag.Int64("seed", 0, "seed for deterministic sample generation, 0 means random")
	flag.Parse()

	p := pipeline.New()

	opts := pipeline.ExtractOptions{Path: *input, SampleSize: *records, Seed: *seed}
	if err := p.Extract(opts); err != nil {
		log.Fatalf("extraction failed: %v", err)
	}
	if err := p.Transform(); err != nil {
		log.Fatalf("transformation failed: %v", err)
	}
	insights, err := p.LoadAndAnalyze()
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	report := p.Report()
	fmt.Println("🔍 Data Quality Report")
	fmt.Printf("  Total records: %d\n", report.TotalRecords)
	fmt.Printf("  Clean records: %d\n", report.CleanRecords)
	fmt.Printf("  Error records: %d\n", report.ErrorRecords)
	if report.Score != nil {
		fmt.Printf("  Quality score: %.2f%%\n", *report.Score)
	} else {
		fmt.Println("  Quality score: N/A (empty table)")
	}
	if len(report.Issues) > 0 {
		fmt.Println("  Issues:")
		for _, issue := range report.Issues {
			fmt.Printf("    • %s\n", issue)
		}
	}

	fmt.Println("\n📊 Insights Summary")
	fmt.Printf("  Total revenue:    $%.2f\n", insights.TotalRevenue)
	fmt.Printf("  Avg order value:  $%.2f\n", insights.AvgOrderValue)
	fmt.Printf("  Total orders:     %d\n", insights.TotalOrders)
	fmt.Printf("  Unique customers: %d\n", insights.UniqueCustomers)
	fmt.Printf("  Top category:     %s\n", insights.TopCategory)
	fmt.Printf("  Best region:      %s\n", insights.BestRegion)
	fmt.Printf("  Monthly growth:   %.2f%%\n", insights.MonthlyGrowth)

	fmt.Println("\n📝 Processing Log")
	for _, entry := range p.Logs() {
		fmt.Println("  " + entry)
	}
}
