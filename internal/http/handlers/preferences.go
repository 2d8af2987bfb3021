package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kamaracell/minha-loja-virtual/internal/http/middleware"
	"github.com/kamaracell/minha-loja-virtual/internal/http/validation"
	"github.com/kamaracell/minha-loja-virtual/internal/modules/checkout"
	"github.com/kamaracell/minha-loja-virtual/internal/shared/apperr"
)

type PreferenceHandler struct {
	Svc    *checkout.Service
	Logger *slog.Logger
}

func NewPreferenceHandler(svc *checkout.Service, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{Svc: svc, Logger: logger}
}

type createPreferenceInput struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Description  string          `json:"description" binding:"required,max=255"`
	PayerEmail   string          `json:"payer_email" binding:"required,email,max=255"`
	ProductID    string          `json:"product_id" binding:"required,max=64"`
	Quantity     int             `json:"quantity" binding:"omitempty,gt=0"`
	SelectedSize string          `json:"selected_size" binding:"omitempty,max=32"`
}

// POST /create_preference
func (h *PreferenceHandler) Create(c *gin.Context) {
	var in createPreferenceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr(
			"Missing required fields: amount, description, payer_email, product_id",
			validation.FromBindError(err, &in),
		))
		return
	}

	res, err := h.Svc.CreatePreference(c.Request.Context(), checkout.CreatePreferenceInput{
		Amount:       in.Amount,
		Description:  in.Description,
		PayerEmail:   in.PayerEmail,
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		SelectedSize: in.SelectedSize,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferenceId":     res.PreferenceID,
		"orderId":          res.OrderID,
		"initPoint":        res.InitPoint,
		"sandboxInitPoint": res.SandboxInitPoint,
	})
}
