package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/kamaracell/minha-loja-virtual/internal/http/handlers"
	"github.com/kamaracell/minha-loja-virtual/internal/http/middleware"
	"github.com/kamaracell/minha-loja-virtual/internal/modules/checkout"
	"github.com/kamaracell/minha-loja-virtual/internal/modules/payments"
)

type Deps struct {
	Logger   *slog.Logger
	Checkout *checkout.Service
	Webhooks *payments.WebhookService

	// PublicDir holds the static storefront assets; empty disables serving.
	PublicDir string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.ErrorHandler(d.Logger),
	)

	ph := handlers.NewPreferenceHandler(d.Checkout, d.Logger)
	wh := handlers.NewWebhookHandler(d.Webhooks, d.Logger)
	fh := handlers.NewFeedbackHandler()

	r.GET("/", handlers.Home)
	r.POST("/create_preference", ph.Create)
	// Mercado Pago delivers notifications with POST but probes with GET.
	r.POST("/webhooks/mercadopago", wh.Handle)
	r.GET("/webhooks/mercadopago", wh.Handle)
	r.GET("/feedback", fh.Show)

	if d.PublicDir != "" {
		r.StaticFile("/product", d.PublicDir+"/product.html")
		r.Static("/public", d.PublicDir)
	}

	return r
}
