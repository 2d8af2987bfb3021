package main

import (
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/kamaracell/minha-loja-virtual/internal/config"
	apphttp "github.com/kamaracell/minha-loja-virtual/internal/http"
	"github.com/kamaracell/minha-loja-virtual/internal/mercadopago"
	"github.com/kamaracell/minha-loja-virtual/internal/modules/checkout"
	"github.com/kamaracell/minha-loja-virtual/internal/modules/orders"
	"github.com/kamaracell/minha-loja-virtual/internal/modules/payments"
	"github.com/kamaracell/minha-loja-virtual/internal/shared/retry"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	store := orders.NewRepo(db)
	gateway := mercadopago.NewClient(cfg.MPAccessToken)
	exec := retry.NewExecutor(retry.DefaultMaxAttempts, retry.DefaultBaseDelay, logger)

	webhookSvc := payments.NewWebhookService(store, gateway, exec, logger)
	webhookSvc.SetEventLog(payments.NewEventLog(db))

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:    logger,
		Checkout:  checkout.NewService(store, gateway, exec, cfg.AppBaseURL, logger),
		Webhooks:  webhookSvc,
		PublicDir: "./public",
	})

	logger.Info("server starting", "port", cfg.Port, "base_url", cfg.AppBaseURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
