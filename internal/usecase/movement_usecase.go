package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"app/internal/domain/model"
	"app/internal/metrics"
	repo "app/internal/repository"
)

// MovementUsecase is the append-only movement ledger. Every Create writes
// header + details + stock deltas as one transaction; Reverse is the only
// compensating path.
type MovementUsecase struct {
	tx    repo.TransactionManager
	clock Clock
	log   zerolog.Logger
}

func NewMovementUsecase(tx repo.TransactionManager, clock Clock, log zerolog.Logger) *MovementUsecase {
	return &MovementUsecase{tx: tx, clock: clock, log: log}
}

type MovementLine struct {
	ProductDetailID int64 `json:"product_detail_id"`
	Quantity        int64 `json:"quantity"`
}

type MovementInput struct {
	Kind        model.MovementKind
	InventoryID int64
	Date        time.Time
	InflowType  model.InflowType
	OutflowType model.OutflowType
	Outsider    string
	OrderID     *int64
	Lines       []MovementLine
}

func validateMovementInput(in MovementInput) error {
	if in.InventoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid inventory id")
	}
	if len(in.Lines) == 0 {
		return NewHTTPError(http.StatusBadRequest, "at least one detail line is required")
	}

	switch in.Kind {
	case model.MovementKindInflow:
		if !model.ValidInflowType(in.InflowType) {
			return NewHTTPError(http.StatusBadRequest, "invalid inflow type")
		}
	case model.MovementKindOutflow:
		if !model.ValidOutflowType(in.OutflowType) {
			return NewHTTPError(http.StatusBadRequest, "invalid outflow type")
		}
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid movement kind")
	}

	var details []ErrorDetail
	for i, line := range in.Lines {
		if line.ProductDetailID <= 0 {
			details = append(details, ErrorDetail{
				Field:   lineField(i),
				Message: "invalid product detail id",
			})
			continue
		}
		// CORRECTION carries an absolute value and may be zero; every other
		// line must be a positive delta.
		if in.Kind == model.MovementKindInflow && in.InflowType == model.InflowCorrection {
			if line.Quantity < 0 {
				details = append(details, ErrorDetail{
					Field:   lineField(i),
					Message: "correction quantity must not be negative",
				})
			}
			continue
		}
		if line.Quantity <= 0 {
			details = append(details, ErrorDetail{
				Field:   lineField(i),
				Message: "quantity must be positive",
			})
		}
	}
	if len(details) > 0 {
		return NewValidationError(http.StatusBadRequest, "invalid detail lines", details)
	}
	return nil
}

func lineField(i int) string {
	return fmt.Sprintf("lines[%d]", i)
}

// Create writes the movement atomically. updateStock=false writes the audit
// rows only, for callers that already consumed stock through a hold.
func (u *MovementUsecase) Create(ctx context.Context, in MovementInput, updateStock bool) (int64, error) {
	if err := validateMovementInput(in); err != nil {
		return 0, err
	}

	if in.Date.IsZero() {
		in.Date = u.clock.Now()
	}

	var id int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		switch in.Kind {
		case model.MovementKindInflow:
			id, err = createInflowTx(ctx, r, model.Inflow{
				InventoryID: in.InventoryID,
				Date:        in.Date,
				Type:        in.InflowType,
				Status:      model.MovementAccepted,
				Outsider:    in.Outsider,
				OrderID:     in.OrderID,
			}, in.Lines, updateStock)
		case model.MovementKindOutflow:
			id, err = createOutflowTx(ctx, r, model.Outflow{
				InventoryID: in.InventoryID,
				Date:        in.Date,
				Type:        in.OutflowType,
				Status:      model.MovementAccepted,
				Outsider:    in.Outsider,
				OrderID:     in.OrderID,
			}, in.Lines, updateStock)
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	kind, typ := movementLabels(in)
	metrics.MovementsCreated.WithLabelValues(kind, typ).Inc()
	return id, nil
}

func movementLabels(in MovementInput) (string, string) {
	if in.Kind == model.MovementKindInflow {
		return string(model.MovementKindInflow), string(in.InflowType)
	}
	return string(model.MovementKindOutflow), string(in.OutflowType)
}

// createInflowTx participates in the caller's transaction. Each detail
// insert is paired with exactly one stock write when updateStock is set.
func createInflowTx(ctx context.Context, r repo.TxRepos, header model.Inflow, lines []MovementLine, updateStock bool) (int64, error) {
	id, err := r.Inflows().Create(ctx, header)
	if err != nil {
		return 0, err
	}

	for _, line := range lines {
		_, err := r.Inflows().CreateDetail(ctx, model.InflowDetail{
			InflowID:        id,
			ProductDetailID: line.ProductDetailID,
			Quantity:        line.Quantity,
		})
		if err != nil {
			return 0, err
		}
		if !updateStock {
			continue
		}
		if header.Type == model.InflowCorrection {
			// correction sets the absolute quantity, not a delta
			err = r.Stock().SetQuantity(ctx, line.ProductDetailID, line.Quantity)
		} else {
			err = r.Stock().Increase(ctx, line.ProductDetailID, line.Quantity)
		}
		if err != nil {
			return 0, err
		}
	}
	return id, nil
}

func createOutflowTx(ctx context.Context, r repo.TxRepos, header model.Outflow, lines []MovementLine, updateStock bool) (int64, error) {
	id, err := r.Outflows().Create(ctx, header)
	if err != nil {
		return 0, err
	}

	for _, line := range lines {
		_, err := r.Outflows().CreateDetail(ctx, model.OutflowDetail{
			OutflowID:       id,
			ProductDetailID: line.ProductDetailID,
			Quantity:        line.Quantity,
		})
		if err != nil {
			return 0, err
		}
		if !updateStock {
			continue
		}
		ok, err := r.Stock().DecreaseIfEnough(ctx, line.ProductDetailID, line.Quantity)
		if err != nil {
			return 0, err
		}
		if !ok {
			// aborts the whole movement; nothing from this call survives
			return 0, &repo.InsufficientStockError{ProductDetailID: line.ProductDetailID}
		}
	}
	return id, nil
}

type MovementDetailOutput struct {
	ID              int64 `json:"id"`
	ProductDetailID int64 `json:"product_detail_id"`
	Quantity        int64 `json:"quantity"`
}

type MovementOutput struct {
	ID          int64                  `json:"id"`
	Kind        model.MovementKind     `json:"kind"`
	InventoryID int64                  `json:"inventory_id"`
	Date        time.Time              `json:"date"`
	Type        string                 `json:"type"`
	Status      model.MovementStatus   `json:"status"`
	Outsider    string                 `json:"outsider,omitempty"`
	RelatedID   *int64                 `json:"related_id,omitempty"`
	OrderID     *int64                 `json:"order_id,omitempty"`
	DetailCount int64                  `json:"detail_count"`
	Details     []MovementDetailOutput `json:"details,omitempty"`
	Investment  int64                  `json:"investment"`
	Utility     int64                  `json:"utility"`
}

// Get returns the header always; details and the monetary rollups only when
// requested, otherwise a cheap count stands in.
func (u *MovementUsecase) Get(ctx context.Context, kind model.MovementKind, id int64, includeDetails bool) (MovementOutput, error) {
	if id <= 0 {
		return MovementOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out MovementOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		switch kind {
		case model.MovementKindInflow:
			return u.getInflow(ctx, r, id, includeDetails, &out)
		case model.MovementKindOutflow:
			return u.getOutflow(ctx, r, id, includeDetails, &out)
		default:
			return NewHTTPError(http.StatusBadRequest, "invalid movement kind")
		}
	})
	if err != nil {
		return MovementOutput{}, err
	}
	return out, nil
}

func (u *MovementUsecase) getInflow(ctx context.Context, r repo.TxRepos, id int64, includeDetails bool, out *MovementOutput) error {
	m, err := r.Inflows().FindByID(ctx, id)
	if err != nil {
		return err
	}
	*out = MovementOutput{
		ID:          m.ID,
		Kind:        model.MovementKindInflow,
		InventoryID: m.InventoryID,
		Date:        m.Date,
		Type:        string(m.Type),
		Status:      m.Status,
		Outsider:    m.Outsider,
		RelatedID:   m.OutflowRelatedID,
		OrderID:     m.OrderID,
	}

	if !includeDetails {
		n, err := r.Inflows().CountDetails(ctx, id)
		if err != nil {
			return err
		}
		out.DetailCount = n
		return nil
	}

	ds, err := r.Inflows().ListDetails(ctx, id)
	if err != nil {
		return err
	}
	out.DetailCount = int64(len(ds))
	for _, d := range ds {
		out.Details = append(out.Details, MovementDetailOutput{
			ID:              d.ID,
			ProductDetailID: d.ProductDetailID,
			Quantity:        d.Quantity,
		})
		pd, err := r.ProductDetails().FindByID(ctx, d.ProductDetailID)
		if err != nil {
			return err
		}
		out.Investment += InflowInvestment(m.Type, pd.PurchasePrice, d.Quantity)
		out.Utility += InflowUtility(m.Type, pd.PurchasePrice, pd.SalePrice, d.Quantity)
	}
	return nil
}

func (u *MovementUsecase) getOutflow(ctx context.Context, r repo.TxRepos, id int64, includeDetails bool, out *MovementOutput) error {
	m, err := r.Outflows().FindByID(ctx, id)
	if err != nil {
		return err
	}
	*out = MovementOutput{
		ID:          m.ID,
		Kind:        model.MovementKindOutflow,
		InventoryID: m.InventoryID,
		Date:        m.Date,
		Type:        string(m.Type),
		Status:      m.Status,
		Outsider:    m.Outsider,
		RelatedID:   m.InflowRelatedID,
		OrderID:     m.OrderID,
	}

	if !includeDetails {
		n, err := r.Outflows().CountDetails(ctx, id)
		if err != nil {
			return err
		}
		out.DetailCount = n
		return nil
	}

	ds, err := r.Outflows().ListDetails(ctx, id)
	if err != nil {
		return err
	}
	out.DetailCount = int64(len(ds))
	for _, d := range ds {
		out.Details = append(out.Details, MovementDetailOutput{
			ID:              d.ID,
			ProductDetailID: d.ProductDetailID,
			Quantity:        d.Quantity,
		})
		pd, err := r.ProductDetails().FindByID(ctx, d.ProductDetailID)
		if err != nil {
			return err
		}
		out.Investment += OutflowInvestment(m.Type, pd.PurchasePrice, d.Quantity)
		out.Utility += OutflowUtility(m.Type, pd.PurchasePrice, pd.SalePrice, d.Quantity)
	}
	return nil
}

// UpdateDate is the only header mutation besides the Reversed flip.
func (u *MovementUsecase) UpdateDate(ctx context.Context, kind model.MovementKind, id int64, date time.Time) error {
	if id <= 0 || date.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "invalid id or date")
	}
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		switch kind {
		case model.MovementKindInflow:
			return r.Inflows().UpdateDate(ctx, id, date)
		case model.MovementKindOutflow:
			return r.Outflows().UpdateDate(ctx, id, date)
		default:
			return NewHTTPError(http.StatusBadRequest, "invalid movement kind")
		}
	})
}

// Reverse flips every non-reversed outflow of the order and synthesizes one
// compensating REFUND inflow that restores stock in the same transaction.
// Repeated deliveries find nothing to flip and return 0 without writing.
func (u *MovementUsecase) Reverse(ctx context.Context, orderID int64) (int64, error) {
	if orderID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var inflowID int64
	var flipped int
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		outs, err := r.Outflows().ListActiveByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if len(outs) == 0 {
			return nil
		}

		var lines []MovementLine
		var related *int64
		inventoryID := outs[0].InventoryID
		for i := range outs {
			ok, err := r.Outflows().MarkReversed(ctx, outs[i].ID)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			flipped++
			if related == nil {
				related = &outs[i].ID
			}
			ds, err := r.Outflows().ListDetails(ctx, outs[i].ID)
			if err != nil {
				return err
			}
			for _, d := range ds {
				lines = append(lines, MovementLine{
					ProductDetailID: d.ProductDetailID,
					Quantity:        d.Quantity,
				})
			}
		}
		if len(lines) == 0 {
			return nil
		}

		inflowID, err = createInflowTx(ctx, r, model.Inflow{
			InventoryID:      inventoryID,
			Date:             u.clock.Now(),
			Type:             model.InflowRefund,
			Status:           model.MovementAccepted,
			OutflowRelatedID: related,
			OrderID:          &orderID,
		}, lines, true)
		return err
	})
	if err != nil {
		return 0, err
	}

	if flipped > 0 {
		metrics.MovementsReversed.Add(float64(flipped))
		u.log.Info().
			Int64("order_id", orderID).
			Int64("refund_inflow_id", inflowID).
			Int("outflows_reversed", flipped).
			Msg("order reversed")
	}
	return inflowID, nil
}

// MaterializeOrderSale writes the real outflow for a paid order, guarded by
// an existence check on the order id. The guard and the insert share one
// transaction; concurrent duplicate deliveries can still race past it
// because nothing unique constrains order_id on outflows.
func (u *MovementUsecase) MaterializeOrderSale(ctx context.Context, orderID int64, holdGroupID int64) (int64, error) {
	var id int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		has, err := r.Outflows().HasByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if has {
			return nil
		}

		holds, err := r.Holds().ListByGroupID(ctx, holdGroupID)
		if err != nil {
			return err
		}
		if len(holds) == 0 {
			return repo.ErrNotFound
		}
		inventoryID, err := r.HoldGroups().InventoryID(ctx, holdGroupID)
		if err != nil {
			return err
		}

		lines := make([]MovementLine, 0, len(holds))
		for _, h := range holds {
			lines = append(lines, MovementLine{
				ProductDetailID: h.ProductDetailID,
				Quantity:        h.Quantity,
			})
		}

		// stock was consumed when the holds were created
		id, err = createOutflowTx(ctx, r, model.Outflow{
			InventoryID: inventoryID,
			Date:        u.clock.Now(),
			Type:        model.OutflowSale,
			Status:      model.MovementApproved,
			OrderID:     &orderID,
		}, lines, false)
		return err
	})
	if err != nil {
		return 0, err
	}

	if id > 0 {
		metrics.MovementsCreated.WithLabelValues(string(model.MovementKindOutflow), string(model.OutflowSale)).Inc()
	}
	return id, nil
}

type MovementListOutput struct {
	Items []MovementOutput `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *MovementUsecase) List(ctx context.Context, kind model.MovementKind, inventoryID int64, page, limit int) (MovementListOutput, error) {
	if inventoryID <= 0 {
		return MovementListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid inventory id")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := repo.MovementListQuery{InventoryID: inventoryID, Page: page, Limit: limit}
	out := MovementListOutput{Items: []MovementOutput{}, Page: page, Limit: limit}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		switch kind {
		case model.MovementKindInflow:
			ms, total, err := r.Inflows().List(ctx, q)
			if err != nil {
				return err
			}
			out.Total = total
			for _, m := range ms {
				out.Items = append(out.Items, MovementOutput{
					ID:          m.ID,
					Kind:        model.MovementKindInflow,
					InventoryID: m.InventoryID,
					Date:        m.Date,
					Type:        string(m.Type),
					Status:      m.Status,
					Outsider:    m.Outsider,
					RelatedID:   m.OutflowRelatedID,
					OrderID:     m.OrderID,
				})
			}
			return nil
		case model.MovementKindOutflow:
			ms, total, err := r.Outflows().List(ctx, q)
			if err != nil {
				return err
			}
			out.Total = total
			for _, m := range ms {
				out.Items = append(out.Items, MovementOutput{
					ID:          m.ID,
					Kind:        model.MovementKindOutflow,
					InventoryID: m.InventoryID,
					Date:        m.Date,
					Type:        string(m.Type),
					Status:      m.Status,
					Outsider:    m.Outsider,
					RelatedID:   m.InflowRelatedID,
					OrderID:     m.OrderID,
				})
			}
			return nil
		default:
			return NewHTTPError(http.StatusBadRequest, "invalid movement kind")
		}
	})
	if err != nil {
		return MovementListOutput{}, err
	}
	return out, nil
}
