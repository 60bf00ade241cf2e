package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"app/internal/domain/model"
	"app/internal/metrics"
	repo "app/internal/repository"
)

// WebhookUsecase reconciles asynchronous gateway notifications into hold
// and ledger transitions. The gateway retries deliveries, so every branch
// must tolerate replays.
type WebhookUsecase struct {
	tx        repo.TransactionManager
	holds     *HoldUsecase
	movements *MovementUsecase
	cache     OrderCache
	log       zerolog.Logger
}

func NewWebhookUsecase(
	tx repo.TransactionManager,
	holds *HoldUsecase,
	movements *MovementUsecase,
	cache OrderCache,
	log zerolog.Logger,
) *WebhookUsecase {
	return &WebhookUsecase{
		tx:        tx,
		holds:     holds,
		movements: movements,
		cache:     cache,
		log:       log,
	}
}

type NotificationInput struct {
	Reference     string `json:"reference"`
	Status        string `json:"status"`
	PayerName     string `json:"payer_name,omitempty"`
	PayerMail     string `json:"payer_mail,omitempty"`
	PayerDocument string `json:"payer_document,omitempty"`
}

// HandleNotification applies the delivered status to every local order
// matching the reference. Status is stored as delivered (last write wins);
// side effects follow the transition table.
func (u *WebhookUsecase) HandleNotification(ctx context.Context, in NotificationInput) error {
	ref := strings.TrimSpace(in.Reference)
	if ref == "" || strings.TrimSpace(in.Status) == "" {
		return NewHTTPError(http.StatusBadRequest, "reference and status are required")
	}

	var orders []model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		orders, err = r.Orders().ListByExternalRef(ctx, ref)
		return err
	})
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return repo.ErrNotFound
	}

	status := strings.ToUpper(strings.TrimSpace(in.Status))
	for _, order := range orders {
		if err := u.applyTransition(ctx, order, status); err != nil {
			return err
		}
	}

	if err := u.cache.Invalidate(ctx, ref); err != nil {
		u.log.Warn().Err(err).Str("ref", ref).Msg("order status cache invalidation failed")
	}

	metrics.WebhookDeliveries.WithLabelValues(status).Inc()
	u.log.Info().Str("ref", ref).Str("status", status).Int("orders", len(orders)).Msg("notification processed")
	return nil
}

func (u *WebhookUsecase) applyTransition(ctx context.Context, order model.Order, status string) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Orders().UpdateStatus(ctx, order.ID, status)
	})
	if err != nil {
		return err
	}

	switch status {
	case model.OrderStatusPaymentRequired, model.OrderStatusPending, model.OrderStatusPartiallyPaid:
		return nil

	case model.OrderStatusPaid:
		if err := u.holds.ApproveGroup(ctx, order.HoldGroupID); err != nil {
			return err
		}
		// existence-guarded: a replayed Paid delivery creates nothing
		_, err := u.movements.MaterializeOrderSale(ctx, order.ID, order.HoldGroupID)
		return err

	case model.OrderStatusRejected, model.OrderStatusExpired:
		return u.holds.ReturnGroup(ctx, order.HoldGroupID)

	case model.OrderStatusReverted:
		_, err := u.movements.Reverse(ctx, order.ID)
		return err

	default:
		// unknown gateway vocabulary: status stored, no side effect
		u.log.Warn().Str("status", status).Int64("order_id", order.ID).Msg("unknown gateway status")
		return nil
	}
}
