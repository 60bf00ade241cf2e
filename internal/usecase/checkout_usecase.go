package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CheckoutUsecase drives the reservation flow: hold the stock, ask the
// gateway for a payment link, and roll the reservation back if anything
// downstream fails.
type CheckoutUsecase struct {
	tx      repo.TransactionManager
	holds   *HoldUsecase
	gateway PaymentGateway
	cache   OrderCache
	idGen   IDGenerator
	log     zerolog.Logger
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	holds *HoldUsecase,
	gateway PaymentGateway,
	cache OrderCache,
	idGen IDGenerator,
	log zerolog.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:      tx,
		holds:   holds,
		gateway: gateway,
		cache:   cache,
		idGen:   idGen,
		log:     log,
	}
}

type ReserveInput struct {
	Items    []HoldLine `json:"items"`
	Customer Customer   `json:"customer"`
}

type ReserveOutput struct {
	OrderID     int64     `json:"order_id"`
	ExternalRef string    `json:"external_ref"`
	PaymentLink string    `json:"payment_link"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func validateCustomer(c Customer) error {
	var details []ErrorDetail
	if strings.TrimSpace(c.Name) == "" {
		details = append(details, ErrorDetail{Field: "customer.name", Message: "required"})
	}
	if strings.TrimSpace(c.Mail) == "" {
		details = append(details, ErrorDetail{Field: "customer.mail", Message: "required"})
	}
	if strings.TrimSpace(c.Document) == "" {
		details = append(details, ErrorDetail{Field: "customer.document", Message: "required"})
	}
	if len(details) > 0 {
		return NewValidationError(http.StatusBadRequest, "invalid customer", details)
	}
	return nil
}

// Reserve creates the hold group (stock is consumed here), then requests
// the payment preference. Any failure past the group creation returns the
// group before the error surfaces.
func (u *CheckoutUsecase) Reserve(ctx context.Context, in ReserveInput) (ReserveOutput, error) {
	if err := validateHoldLines(in.Items); err != nil {
		return ReserveOutput{}, err
	}
	if err := validateCustomer(in.Customer); err != nil {
		return ReserveOutput{}, err
	}

	group, err := u.holds.CreateGroup(ctx, in.Items)
	if err != nil {
		return ReserveOutput{}, err
	}

	out, err := u.completeReservation(ctx, group, in)
	if err != nil {
		// compensate across the external boundary before surfacing
		if rbErr := u.holds.ReturnGroup(ctx, group.ID); rbErr != nil {
			u.log.Error().Err(rbErr).Int64("group_id", group.ID).Msg("reservation rollback failed")
		}
		return ReserveOutput{}, err
	}
	return out, nil
}

func (u *CheckoutUsecase) completeReservation(ctx context.Context, group model.HoldGroup, in ReserveInput) (ReserveOutput, error) {
	prefIn := PreferenceInput{
		ExternalReference: u.idGen.NewID(),
		Customer:          in.Customer,
	}
	for _, it := range in.Items {
		var unitPrice int64
		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			pd, err := r.ProductDetails().FindByID(ctx, it.ProductDetailID)
			if err != nil {
				return err
			}
			unitPrice = pd.SalePrice
			return nil
		})
		if err != nil {
			return ReserveOutput{}, err
		}
		prefIn.Items = append(prefIn.Items, PreferenceItem{
			ProductDetailID: it.ProductDetailID,
			Quantity:        it.Quantity,
			UnitPrice:       unitPrice,
		})
	}

	pref, err := u.gateway.CreatePreference(ctx, prefIn)
	if err != nil {
		u.log.Warn().Err(err).Int64("group_id", group.ID).Msg("payment gateway refused preference")
		return ReserveOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
	}

	var orderID int64
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		orderID, err = r.Orders().Create(ctx, model.Order{
			ExternalRef:   pref.Reference,
			Status:        model.OrderStatusPaymentRequired,
			HoldGroupID:   group.ID,
			PayerName:     in.Customer.Name,
			PayerMail:     in.Customer.Mail,
			PayerDocument: in.Customer.Document,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateReference) {
			return ReserveOutput{}, NewHTTPError(http.StatusConflict, "duplicate payment reference")
		}
		return ReserveOutput{}, err
	}

	return ReserveOutput{
		OrderID:     orderID,
		ExternalRef: pref.Reference,
		PaymentLink: pref.PaymentLink,
		ExpiresAt:   group.ExpiresAt,
	}, nil
}

// OrderStatus serves the storefront polling path through the cache.
func (u *CheckoutUsecase) OrderStatus(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", NewHTTPError(http.StatusBadRequest, "invalid reference")
	}

	if status, ok, err := u.cache.Get(ctx, ref); err == nil && ok {
		return status, nil
	}

	var status string
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByExternalRef(ctx, ref)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return repo.ErrNotFound
		}
		status = orders[0].Status
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := u.cache.Set(ctx, ref, status); err != nil {
		u.log.Warn().Err(err).Str("ref", ref).Msg("order status cache write failed")
	}
	return status, nil
}
