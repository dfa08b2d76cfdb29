package main

import (
	"context"
	"net/http"

	"playtrail/internal/store"
	"playtrail/pkg/logging"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.New(logging.Config{}).Fatal(err, "load config")
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	logging.SetGlobalLogger(logger)

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(err, "connect database")
	}
	defer db.Close()

	dataStore := store.New(db)

	handler := newHTTPHandler(cfg, dataStore)

	logger.Info("listening on " + cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal(err, "server error")
	}
}
