package main

import (
	"net/http"

	"github.com/op/go-logging"

	_ "order-etl/docs"
	"order-etl/internal/api"
	"order-etl/internal/api/handler"
	"order-etl/internal/config"
	"order-etl/internal/store"
)

var log = logging.MustGetLogger("main")

// @title Order ETL API
// @version 1.0
// @description Order record ETL pipeline with data quality reporting and insight aggregation
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := store.InitDB(cfg.DBPath); err != nil {
		log.Fatalf("failed to init database: %v", err)
	}

	r := api.NewRouter(handler.New(cfg.SampleSize, cfg.RecordLimit))

	log.Infof("🚀 Server started on http://localhost%s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}
