package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamaracell/minha-loja-virtual/internal/modules/orders"
	"github.com/kamaracell/minha-loja-virtual/internal/modules/payments"
	"github.com/kamaracell/minha-loja-virtual/internal/shared/apperr"
	"github.com/kamaracell/minha-loja-virtual/internal/shared/retry"
)

type fakeStore struct {
	rows        map[string]orders.Order
	createErr   error
	updates     []map[string]any
	failUpdates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]orders.Order{}}
}

func (f *fakeStore) Create(ctx context.Context, o *orders.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = "order-1"
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	f.rows[o.ID] = *o
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (orders.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return orders.Order{}, orders.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, fields map[string]any) error {
	if f.failUpdates > 0 {
		f.failUpdates--
		return errors.New("store unavailable")
	}
	o := f.rows[id]
	if v, ok := fields["mp_preference_id"]; ok {
		s := v.(string)
		o.MPPreferenceID = &s
	}
	f.rows[id] = o
	f.updates = append(f.updates, fields)
	return nil
}

type fakeGateway struct {
	pref    payments.Preference
	prefErr error
	req     payments.PreferenceRequest
	calls   int
}

func (f *fakeGateway) CreatePreference(ctx context.Context, req payments.PreferenceRequest) (payments.Preference, error) {
	f.calls++
	f.req = req
	if f.prefErr != nil {
		return payments.Preference{}, f.prefErr
	}
	return f.pref, nil
}

func (f *fakeGateway) GetPayment(ctx context.Context, id string) (payments.Payment, error) {
	return payments.Payment{}, errors.New("not used")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testService(store *fakeStore, gw *fakeGateway) *Service {
	exec := retry.NewExecutor(3, time.Microsecond, testLogger())
	return NewService(store, gw, exec, "https://loja.example/", testLogger())
}

func validInput() CreatePreferenceInput {
	return CreatePreferenceInput{
		Amount:      decimal.RequireFromString("49.90"),
		Description: "Camisa",
		PayerEmail:  "a@b.com",
		ProductID:   "prod_001",
	}
}

func TestCreatePreference_Success(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{pref: payments.Preference{
		ID:               "pref-1",
		InitPoint:        "https://mp.example/init",
		SandboxInitPoint: "https://mp.example/sandbox",
	}}
	svc := testService(store, gw)

	res, err := svc.CreatePreference(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "pref-1", res.PreferenceID)
	assert.Equal(t, "order-1", res.OrderID)
	assert.Equal(t, "https://mp.example/init", res.InitPoint)
	assert.Equal(t, "https://mp.example/sandbox", res.SandboxInitPoint)

	o := store.rows["order-1"]
	assert.Equal(t, orders.StatusPending, o.Status)
	require.NotNil(t, o.MPPreferenceID)
	assert.Equal(t, "pref-1", *o.MPPreferenceID)
	assert.Nil(t, o.MPPaymentID)

	// preference carries the order id on every correlation channel
	assert.Equal(t, "order-1", gw.req.ExternalReference)
	assert.Equal(t, "https://loja.example/webhooks/mercadopago?orderId=order-1", gw.req.NotificationURL)
	assert.Equal(t, "https://loja.example/feedback?status=success&orderId=order-1", gw.req.BackURLs.Success)
	assert.Equal(t, "https://loja.example/feedback?status=failure&orderId=order-1", gw.req.BackURLs.Failure)
	assert.Equal(t, "https://loja.example/feedback?status=pending&orderId=order-1", gw.req.BackURLs.Pending)
	assert.Equal(t, "approved", gw.req.AutoReturn)

	require.Len(t, gw.req.Items, 1)
	assert.Equal(t, "Camisa", gw.req.Items[0].Title)
	assert.Equal(t, 1, gw.req.Items[0].Quantity, "quantity defaults to 1")
}

func TestCreatePreference_SelectedSizeAnnotatesTitle(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{pref: payments.Preference{ID: "pref-1"}}
	svc := testService(store, gw)

	in := validInput()
	in.SelectedSize = "M"
	in.Quantity = 2

	_, err := svc.CreatePreference(context.Background(), in)

	require.NoError(t, err)
	require.Len(t, gw.req.Items, 1)
	assert.Equal(t, "Camisa (Tamanho: M)", gw.req.Items[0].Title)
	assert.Equal(t, 2, gw.req.Items[0].Quantity)
}

func TestCreatePreference_ValidationRejectsWithoutSideEffects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreatePreferenceInput)
		field  string
	}{
		{"missing payer_email", func(in *CreatePreferenceInput) { in.PayerEmail = "" }, "payer_email"},
		{"missing description", func(in *CreatePreferenceInput) { in.Description = "" }, "description"},
		{"missing product_id", func(in *CreatePreferenceInput) { in.ProductID = "" }, "product_id"},
		{"zero amount", func(in *CreatePreferenceInput) { in.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(in *CreatePreferenceInput) { in.Amount = decimal.NewFromInt(-5) }, "amount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			gw := &fakeGateway{}
			svc := testService(store, gw)

			in := validInput()
			tc.mutate(&in)

			_, err := svc.CreatePreference(context.Background(), in)

			require.Error(t, err)
			ae, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.Invalid, ae.Kind)
			assert.Contains(t, ae.Fields, tc.field)
			assert.Empty(t, store.rows, "no record created")
			assert.Zero(t, gw.calls, "no gateway call attempted")
		})
	}
}

func TestCreatePreference_StoreFailureSkipsGateway(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("insert failed")
	gw := &fakeGateway{}
	svc := testService(store, gw)

	_, err := svc.CreatePreference(context.Background(), validInput())

	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Store, ae.Kind)
	assert.Equal(t, "insert failed", ae.Details)
	assert.Zero(t, gw.calls)
}

func TestCreatePreference_GatewayFailureLeavesPendingOrphan(t *testing.T) {
	store := newFakeStore()
	gw := &fakeGateway{prefErr: errors.New("gateway 500")}
	svc := testService(store, gw)

	_, err := svc.CreatePreference(context.Background(), validInput())

	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Gateway, ae.Kind)
	assert.Equal(t, "gateway 500", ae.Details)

	o := store.rows["order-1"]
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.Nil(t, o.MPPreferenceID, "orphaned pending order, not corrupted")
}

func TestCreatePreference_AttachRetryExhaustion(t *testing.T) {
	store := newFakeStore()
	store.failUpdates = 100
	gw := &fakeGateway{pref: payments.Preference{ID: "pref-1"}}
	svc := testService(store, gw)

	_, err := svc.CreatePreference(context.Background(), validInput())

	require.Error(t, err)
	var ex *retry.ExhaustedError
	require.ErrorAs(t, err, &ex)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Gateway, ae.Kind)
	assert.Nil(t, store.rows["order-1"].MPPreferenceID)
}

func TestCreatePreference_AttachTransientFailureRecovered(t *testing.T) {
	store := newFakeStore()
	store.failUpdates = 2
	gw := &fakeGateway{pref: payments.Preference{ID: "pref-1"}}
	svc := testService(store, gw)

	res, err := svc.CreatePreference(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "pref-1", res.PreferenceID)
	require.NotNil(t, store.rows["order-1"].MPPreferenceID)
	assert.Len(t, store.updates, 1)
}
