package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type webhookFixture struct {
	st    *fakeState
	cache *memCache
	holds *HoldUsecase
	u     *WebhookUsecase
}

func newWebhookFixture() *webhookFixture {
	st := newFakeState()
	tx := &fakeTxManager{st: st}
	clock := fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	holds := NewHoldUsecase(tx, clock, 10*time.Minute, zerolog.Nop())
	movements := NewMovementUsecase(tx, clock, zerolog.Nop())
	cache := newMemCache()
	return &webhookFixture{
		st:    st,
		cache: cache,
		holds: holds,
		u:     NewWebhookUsecase(tx, holds, movements, cache, zerolog.Nop()),
	}
}

// reserve seeds a pending order the way checkout leaves it: group created,
// stock consumed by the holds, order awaiting payment.
func (f *webhookFixture) reserve(t *testing.T, detailID int64, qty int64, ref string) model.Order {
	t.Helper()
	group, err := f.holds.CreateGroup(context.Background(), []HoldLine{
		{ProductDetailID: detailID, Quantity: qty},
	})
	require.NoError(t, err)

	id := f.st.id()
	order := model.Order{
		ID:          id,
		ExternalRef: ref,
		Status:      model.OrderStatusPaymentRequired,
		HoldGroupID: group.ID,
	}
	f.st.orders[id] = order
	return order
}

func (f *webhookFixture) holdStatuses(groupID int64) []model.HoldStatus {
	var out []model.HoldStatus
	for _, h := range f.st.holds {
		if h.GroupID != nil && *h.GroupID == groupID {
			out = append(out, h.Status)
		}
	}
	return out
}

func TestNotificationValidation(t *testing.T) {
	f := newWebhookFixture()

	err := f.u.HandleNotification(context.Background(), NotificationInput{Status: "PAID"})
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	err = f.u.HandleNotification(context.Background(), NotificationInput{Reference: "r"})
	_, ok = AsHTTPError(err)
	require.True(t, ok)
}

func TestNotificationUnknownReference(t *testing.T) {
	f := newWebhookFixture()
	err := f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "missing", Status: "PAID",
	})
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestNotificationPendingUpdatesStatusOnly(t *testing.T) {
	f := newWebhookFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)
	order := f.reserve(t, d, 3, "pref-1")

	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "pending",
	}))

	assert.Equal(t, model.OrderStatusPending, f.st.orders[order.ID].Status)
	assert.Equal(t, int64(7), f.st.details[d].Quantity)
	assert.Equal(t, []model.HoldStatus{model.HoldStatusNone}, f.holdStatuses(order.HoldGroupID))
	assert.Empty(t, f.st.outflows)
}

func TestNotificationPaidApprovesAndMaterializes(t *testing.T) {
	f := newWebhookFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)
	order := f.reserve(t, d, 3, "pref-1")
	f.cache.values["pref-1"] = model.OrderStatusPaymentRequired

	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "PAID",
	}))

	assert.Equal(t, model.OrderStatusPaid, f.st.orders[order.ID].Status)
	assert.Equal(t, []model.HoldStatus{model.HoldStatusApproved}, f.holdStatuses(order.HoldGroupID))
	// stock stays where the hold left it
	assert.Equal(t, int64(7), f.st.details[d].Quantity)
	require.Len(t, f.st.outflows, 1)
	for _, out := range f.st.outflows {
		assert.Equal(t, model.OutflowSale, out.Type)
		assert.Equal(t, model.MovementApproved, out.Status)
		require.NotNil(t, out.OrderID)
		assert.Equal(t, order.ID, *out.OrderID)
	}
	_, cached := f.cache.values["pref-1"]
	assert.False(t, cached)
}

func TestNotificationPaidReplayedCreatesNothing(t *testing.T) {
	f := newWebhookFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)
	f.reserve(t, d, 3, "pref-1")

	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "PAID",
	}))
	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "PAID",
	}))

	assert.Len(t, f.st.outflows, 1)
	assert.Equal(t, int64(7), f.st.details[d].Quantity)
}

func TestNotificationRejectedReturnsStock(t *testing.T) {
	f := newWebhookFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)
	order := f.reserve(t, d, 3, "pref-1")

	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "REJECTED",
	}))

	assert.Equal(t, model.OrderStatusRejected, f.st.orders[order.ID].Status)
	assert.Equal(t, int64(10), f.st.details[d].Quantity)
	assert.Equal(t, []model.HoldStatus{model.HoldStatusReversed}, f.holdStatuses(order.HoldGroupID))
	assert.Empty(t, f.st.outflows)
}

func TestNotificationExpiredReturnsStock(t *testing.T) {
	f := newWebhookFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)
	order := f.reserve(t, d, 3, "pref-1")

	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "EXPIRED",
	}))

	assert.Equal(t, int64(10), f.st.details[d].Quantity)
	assert.Equal(t, []model.HoldStatus{model.HoldStatusReversed}, f.holdStatuses(order.HoldGroupID))
}

func TestNotificationRevertedCompensatesPaidOrder(t *testing.T) {
	f := newWebhookFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)
	order := f.reserve(t, d, 3, "pref-1")

	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "PAID",
	}))
	require.Equal(t, int64(7), f.st.details[d].Quantity)

	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "REVERTED",
	}))

	assert.Equal(t, model.OrderStatusReverted, f.st.orders[order.ID].Status)
	// the sale outflow flipped and the refund inflow put the stock back
	for _, out := range f.st.outflows {
		assert.Equal(t, model.MovementReversed, out.Status)
	}
	require.Len(t, f.st.inflows, 1)
	for _, in := range f.st.inflows {
		assert.Equal(t, model.InflowRefund, in.Type)
	}
	assert.Equal(t, int64(10), f.st.details[d].Quantity)

	// a replayed Reverted delivery finds nothing active
	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "REVERTED",
	}))
	assert.Len(t, f.st.inflows, 1)
	assert.Equal(t, int64(10), f.st.details[d].Quantity)
}

func TestNotificationUnknownStatusStoredWithoutSideEffect(t *testing.T) {
	f := newWebhookFixture()
	p := seedProduct(f.st, 1)
	d := seedDetail(f.st, p, 10, 100, 150)
	order := f.reserve(t, d, 3, "pref-1")

	require.NoError(t, f.u.HandleNotification(context.Background(), NotificationInput{
		Reference: "pref-1", Status: "IN_MEDIATION",
	}))

	assert.Equal(t, "IN_MEDIATION", f.st.orders[order.ID].Status)
	assert.Equal(t, int64(7), f.st.details[d].Quantity)
	assert.Equal(t, []model.HoldStatus{model.HoldStatusNone}, f.holdStatuses(order.HoldGroupID))
	assert.Empty(t, f.st.outflows)
}
