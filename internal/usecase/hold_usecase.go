package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"app/internal/domain/model"
	"app/internal/metrics"
	repo "app/internal/repository"
)

const DefaultHoldTTL = 10 * time.Minute

// HoldUsecase manages stock reservations. Creating a hold decrements stock
// immediately; Approve finalizes without touching stock; Return gives the
// quantity back.
type HoldUsecase struct {
	tx      repo.TransactionManager
	clock   Clock
	holdTTL time.Duration
	log     zerolog.Logger
}

func NewHoldUsecase(tx repo.TransactionManager, clock Clock, holdTTL time.Duration, log zerolog.Logger) *HoldUsecase {
	if holdTTL <= 0 {
		holdTTL = DefaultHoldTTL
	}
	return &HoldUsecase{tx: tx, clock: clock, holdTTL: holdTTL, log: log}
}

type HoldLine struct {
	ProductDetailID int64 `json:"product_detail_id"`
	Quantity        int64 `json:"quantity"`
}

func validateHoldLines(lines []HoldLine) error {
	if len(lines) == 0 {
		return NewHTTPError(http.StatusBadRequest, "at least one line is required")
	}
	var details []ErrorDetail
	for i, line := range lines {
		if line.ProductDetailID <= 0 {
			details = append(details, ErrorDetail{Field: lineField(i), Message: "invalid product detail id"})
		}
		if line.Quantity <= 0 {
			details = append(details, ErrorDetail{Field: lineField(i), Message: "quantity must be positive"})
		}
	}
	if len(details) > 0 {
		return NewValidationError(http.StatusBadRequest, "invalid hold lines", details)
	}
	return nil
}

// createHoldTx participates in the caller's transaction. The decrement is
// unconditional: no floor check happens here, matching the original ledger
// behavior.
func createHoldTx(ctx context.Context, r repo.TxRepos, line HoldLine, groupID *int64) (int64, error) {
	if _, err := r.ProductDetails().FindByID(ctx, line.ProductDetailID); err != nil {
		return 0, err
	}

	id, err := r.Holds().Create(ctx, model.Hold{
		ProductDetailID: line.ProductDetailID,
		Quantity:        line.Quantity,
		Status:          model.HoldStatusNone,
		GroupID:         groupID,
	})
	if err != nil {
		return 0, err
	}

	if err := r.Stock().Decrease(ctx, line.ProductDetailID, line.Quantity); err != nil {
		return 0, err
	}
	return id, nil
}

// Create reserves a single quantity in its own transaction.
func (u *HoldUsecase) Create(ctx context.Context, line HoldLine) (int64, error) {
	if err := validateHoldLines([]HoldLine{line}); err != nil {
		return 0, err
	}

	var id int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		id, err = createHoldTx(ctx, r, line, nil)
		return err
	})
	if err != nil {
		return 0, err
	}

	metrics.HoldsCreated.Inc()
	return id, nil
}

// CreateGroup reserves every line atomically: group header first, then one
// hold per line wired to it, all inside a single transaction. This is the
// only multi-hold atomic boundary in the system.
func (u *HoldUsecase) CreateGroup(ctx context.Context, lines []HoldLine) (model.HoldGroup, error) {
	if err := validateHoldLines(lines); err != nil {
		return model.HoldGroup{}, err
	}

	group := model.HoldGroup{ExpiresAt: u.clock.Now().Add(u.holdTTL)}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		gid, err := r.HoldGroups().Create(ctx, group)
		if err != nil {
			return err
		}
		group.ID = gid

		for _, line := range lines {
			hid, err := createHoldTx(ctx, r, line, &gid)
			if err != nil {
				return err
			}
			group.Holds = append(group.Holds, model.Hold{
				ID:              hid,
				ProductDetailID: line.ProductDetailID,
				Quantity:        line.Quantity,
				Status:          model.HoldStatusNone,
				GroupID:         &gid,
			})
		}
		return nil
	})
	if err != nil {
		return model.HoldGroup{}, err
	}

	metrics.HoldsCreated.Add(float64(len(group.Holds)))
	return group, nil
}

// Approve finalizes the reservation. Stock stays untouched: the decrement
// already happened at creation time.
func (u *HoldUsecase) Approve(ctx context.Context, holdID int64) error {
	if holdID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid hold id")
	}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		_, err := r.Holds().Resolve(ctx, holdID, model.HoldStatusApproved)
		return err
	})
	if err != nil {
		return err
	}
	metrics.HoldsResolved.WithLabelValues(string(model.HoldStatusApproved)).Inc()
	return nil
}

// Return reverses the reservation and restores stock. The status flip and
// the increment run in one transaction.
func (u *HoldUsecase) Return(ctx context.Context, holdID int64) error {
	if holdID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid hold id")
	}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		h, err := r.Holds().Resolve(ctx, holdID, model.HoldStatusReversed)
		if err != nil {
			return err
		}
		return r.Stock().Increase(ctx, h.ProductDetailID, h.Quantity)
	})
	if err != nil {
		return err
	}
	metrics.HoldsResolved.WithLabelValues(string(model.HoldStatusReversed)).Inc()
	return nil
}

// ApproveGroup resolves every member hold independently, one transaction
// per hold. Already-resolved members no-op, so retrying after a partial
// failure completes the remainder.
func (u *HoldUsecase) ApproveGroup(ctx context.Context, groupID int64) error {
	return u.resolveGroup(ctx, groupID, u.Approve)
}

// ReturnGroup gives back every member hold's stock, same fan-out contract
// as ApproveGroup.
func (u *HoldUsecase) ReturnGroup(ctx context.Context, groupID int64) error {
	return u.resolveGroup(ctx, groupID, u.Return)
}

func (u *HoldUsecase) resolveGroup(ctx context.Context, groupID int64, resolve func(context.Context, int64) error) error {
	if groupID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid group id")
	}

	var holds []model.Hold
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.HoldGroups().FindByID(ctx, groupID); err != nil {
			return err
		}
		var err error
		holds, err = r.Holds().ListByGroupID(ctx, groupID)
		return err
	})
	if err != nil {
		return err
	}

	for _, h := range holds {
		if err := resolve(ctx, h.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue // already resolved
			}
			return err
		}
	}
	return nil
}

// GroupInventory resolves the inventory owning the group, for permission
// checks upstream.
func (u *HoldUsecase) GroupInventory(ctx context.Context, groupID int64) (int64, error) {
	if groupID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid group id")
	}
	var inventoryID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		inventoryID, err = r.HoldGroups().InventoryID(ctx, groupID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inventoryID, nil
}
