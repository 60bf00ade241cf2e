package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type gatewayMock struct {
	mock.Mock
}

func (m *gatewayMock) CreatePreference(ctx context.Context, in PreferenceInput) (Preference, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(Preference), args.Error(1)
}

type checkoutFixture struct {
	st      *fakeState
	gateway *gatewayMock
	cache   *memCache
	holds   *HoldUsecase
	u       *CheckoutUsecase
}

func newCheckoutFixture() *checkoutFixture {
	st := newFakeState()
	tx := &fakeTxManager{st: st}
	clock := fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	holds := NewHoldUsecase(tx, clock, 10*time.Minute, zerolog.Nop())
	gw := &gatewayMock{}
	cache := newMemCache()
	u := NewCheckoutUsecase(tx, holds, gw, cache, &seqIDGen{}, zerolog.Nop())
	return &checkoutFixture{st: st, gateway: gw, cache: cache, holds: holds, u: u}
}

func validCustomer() Customer {
	return Customer{Name: "Ana", Mail: "ana@example.com", Document: "12345678"}
}

func TestReserveHappyPath(t *testing.T) {
	f := newCheckoutFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)

	f.gateway.On("CreatePreference", mock.Anything, mock.MatchedBy(func(in PreferenceInput) bool {
		return len(in.Items) == 1 && in.Items[0].UnitPrice == 150 && in.ExternalReference != ""
	})).Return(Preference{Reference: "pref-1", PaymentLink: "https://pay/pref-1"}, nil)

	out, err := f.u.Reserve(context.Background(), ReserveInput{
		Items:    []HoldLine{{ProductDetailID: d, Quantity: 4}},
		Customer: validCustomer(),
	})
	require.NoError(t, err)

	assert.Equal(t, "pref-1", out.ExternalRef)
	assert.Equal(t, "https://pay/pref-1", out.PaymentLink)
	assert.Equal(t, int64(6), f.st.details[d].Quantity)

	order := f.st.orders[out.OrderID]
	assert.Equal(t, model.OrderStatusPaymentRequired, order.Status)
	assert.Equal(t, "pref-1", order.ExternalRef)
	assert.Equal(t, "Ana", order.PayerName)
	assert.NotZero(t, order.HoldGroupID)
	f.gateway.AssertExpectations(t)
}

func TestReserveGatewayFailureReturnsHolds(t *testing.T) {
	f := newCheckoutFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)

	f.gateway.On("CreatePreference", mock.Anything, mock.Anything).
		Return(Preference{}, errors.New("gateway down"))

	_, err := f.u.Reserve(context.Background(), ReserveInput{
		Items:    []HoldLine{{ProductDetailID: d, Quantity: 4}},
		Customer: validCustomer(),
	})

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Status)

	// the stock consumed by the group came back
	assert.Equal(t, int64(10), f.st.details[d].Quantity)
	for _, h := range f.st.holds {
		assert.Equal(t, model.HoldStatusReversed, h.Status)
	}
	assert.Empty(t, f.st.orders)
}

func TestReserveDuplicateReference(t *testing.T) {
	f := newCheckoutFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)

	f.st.orders[900] = model.Order{ID: 900, ExternalRef: "pref-dup", Status: model.OrderStatusPending}
	f.gateway.On("CreatePreference", mock.Anything, mock.Anything).
		Return(Preference{Reference: "pref-dup", PaymentLink: "https://pay/dup"}, nil)

	_, err := f.u.Reserve(context.Background(), ReserveInput{
		Items:    []HoldLine{{ProductDetailID: d, Quantity: 2}},
		Customer: validCustomer(),
	})

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Equal(t, int64(10), f.st.details[d].Quantity)
}

func TestReserveValidation(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.u.Reserve(context.Background(), ReserveInput{Customer: validCustomer()})
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	_, err = f.u.Reserve(context.Background(), ReserveInput{
		Items: []HoldLine{{ProductDetailID: 1, Quantity: 1}},
	})
	he, ok = AsHTTPError(err)
	require.True(t, ok)
	assert.Len(t, he.Details, 3)
	f.gateway.AssertNotCalled(t, "CreatePreference", mock.Anything, mock.Anything)
}

func TestOrderStatusReadThrough(t *testing.T) {
	f := newCheckoutFixture()
	f.st.orders[1] = model.Order{ID: 1, ExternalRef: "pref-9", Status: model.OrderStatusPending}

	status, err := f.u.OrderStatus(context.Background(), "pref-9")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, status)
	assert.Equal(t, model.OrderStatusPending, f.cache.values["pref-9"])

	// stale cache wins until invalidated
	f.st.orders[1] = model.Order{ID: 1, ExternalRef: "pref-9", Status: model.OrderStatusPaid}
	status, err = f.u.OrderStatus(context.Background(), "pref-9")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, status)
}

func TestOrderStatusUnknownReference(t *testing.T) {
	f := newCheckoutFixture()
	_, err := f.u.OrderStatus(context.Background(), "missing")
	require.ErrorIs(t, err, repo.ErrNotFound)
}
