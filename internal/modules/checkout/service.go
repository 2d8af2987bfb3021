package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kamaracell/minha-loja-virtual/internal/modules/orders"
	"github.com/kamaracell/minha-loja-virtual/internal/modules/payments"
	"github.com/kamaracell/minha-loja-virtual/internal/shared/apperr"
	"github.com/kamaracell/minha-loja-virtual/internal/shared/retry"
)

type Service struct {
	store   orders.Store
	gateway payments.Gateway
	retry   *retry.Executor
	baseURL string
	logger  *slog.Logger
}

// NewService wires the preference creation flow. baseURL is the public base
// used to build the gateway's callback and notification links.
func NewService(store orders.Store, gw payments.Gateway, exec *retry.Executor, baseURL string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		gateway: gw,
		retry:   exec,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type CreatePreferenceInput struct {
	Amount       decimal.Decimal
	Description  string
	PayerEmail   string
	ProductID    string
	Quantity     int
	SelectedSize string
}

type CreatePreferenceResult struct {
	PreferenceID     string
	OrderID          string
	InitPoint        string
	SandboxInitPoint string
}

// CreatePreference creates a pending order, asks the gateway for a hosted
// checkout session and attaches the preference id to the order. The order row
// is inserted before any gateway interaction so the order id can serve as the
// correlation token on both the external_reference and the notification URL.
func (s *Service) CreatePreference(ctx context.Context, in CreatePreferenceInput) (CreatePreferenceResult, error) {
	if err := s.validate(in); err != nil {
		return CreatePreferenceResult{}, err
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	// Step 1: pending order, all gateway fields null. A failure here is safe
	// to surface immediately — no gateway state exists yet, so the client can
	// simply retry the whole request.
	o := &orders.Order{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		TotalAmount: in.Amount,
		PayerEmail:  in.PayerEmail,
		Status:      orders.StatusPending,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return CreatePreferenceResult{}, apperr.StoreErr("Failed to create order.", err)
	}
	s.logger.InfoContext(ctx, "order created", "order_id", o.ID, "status", o.Status)

	// Step 2: gateway preference. On failure the order stays pending with no
	// preference id — an orphan, not a corrupted record.
	pref, err := s.gateway.CreatePreference(ctx, s.buildPreference(in, o.ID))
	if err != nil {
		s.logger.ErrorContext(ctx, "preference creation failed, order left pending",
			"order_id", o.ID, "err", err)
		return CreatePreferenceResult{}, apperr.GatewayErr("Failed to create payment preference.", err)
	}
	s.logger.InfoContext(ctx, "preference created", "order_id", o.ID, "preference_id", pref.ID)

	// Step 3: attach the preference id, hardened against transient store
	// failure. If this still exhausts, the preference exists at the gateway
	// but its id is lost from the record: log loudly before surfacing.
	err = s.retry.Do(ctx, "order "+o.ID, func(ctx context.Context) error {
		return s.store.Update(ctx, o.ID, map[string]any{"mp_preference_id": pref.ID})
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "ORPHANED PREFERENCE: created at gateway but not recorded",
			"order_id", o.ID, "preference_id", pref.ID, "err", err)
		return CreatePreferenceResult{}, apperr.GatewayErr("Failed to record payment preference on order.", err)
	}

	return CreatePreferenceResult{
		PreferenceID:     pref.ID,
		OrderID:          o.ID,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
	}, nil
}

func (s *Service) validate(in CreatePreferenceInput) error {
	fields := map[string]string{}
	if in.Description == "" {
		fields["description"] = "required"
	}
	if in.PayerEmail == "" {
		fields["payer_email"] = "required"
	}
	if in.ProductID == "" {
		fields["product_id"] = "required"
	}
	if !in.Amount.IsPositive() {
		fields["amount"] = ErrInvalidAmount.Error()
	}
	if len(fields) > 0 {
		return apperr.InvalidErr("Missing required fields: amount, description, payer_email, product_id", fields)
	}
	return nil
}

func (s *Service) buildPreference(in CreatePreferenceInput, orderID string) payments.PreferenceRequest {
	title := in.Description
	if in.SelectedSize != "" {
		title = fmt.Sprintf("%s (Tamanho: %s)", in.Description, in.SelectedSize)
	}

	return payments.PreferenceRequest{
		Items: []payments.PreferenceItem{{
			ID:        in.ProductID,
			Title:     title,
			UnitPrice: in.Amount,
			Quantity:  in.Quantity,
		}},
		Payer: payments.PreferencePayer{Email: in.PayerEmail},
		BackURLs: payments.BackURLs{
			Success: fmt.Sprintf("%s/feedback?status=success&orderId=%s", s.baseURL, orderID),
			Failure: fmt.Sprintf("%s/feedback?status=failure&orderId=%s", s.baseURL, orderID),
			Pending: fmt.Sprintf("%s/feedback?status=pending&orderId=%s", s.baseURL, orderID),
		},
		AutoReturn:        "approved",
		NotificationURL:   fmt.Sprintf("%s/webhooks/mercadopago?orderId=%s", s.baseURL, orderID),
		ExternalReference: orderID,
	}
}
