package usecase

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// In-memory store with snapshot-based rollback so transactional semantics
// (all-or-nothing per WithinTx) hold in tests.

type fakeState struct {
	nextID         int64
	products       map[int64]model.Product
	details        map[int64]model.ProductDetail
	inflows        map[int64]model.Inflow
	inflowDetails  []model.InflowDetail
	outflows       map[int64]model.Outflow
	outflowDetails []model.OutflowDetail
	holds          map[int64]model.Hold
	groups         map[int64]model.HoldGroup
	orders         map[int64]model.Order
}

func newFakeState() *fakeState {
	return &fakeState{
		products: map[int64]model.Product{},
		details:  map[int64]model.ProductDetail{},
		inflows:  map[int64]model.Inflow{},
		outflows: map[int64]model.Outflow{},
		holds:    map[int64]model.Hold{},
		groups:   map[int64]model.HoldGroup{},
		orders:   map[int64]model.Order{},
	}
}

func (s *fakeState) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextID = s.nextID
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.details {
		c.details[k] = v
	}
	for k, v := range s.inflows {
		c.inflows[k] = v
	}
	c.inflowDetails = append(c.inflowDetails, s.inflowDetails...)
	for k, v := range s.outflows {
		c.outflows[k] = v
	}
	c.outflowDetails = append(c.outflowDetails, s.outflowDetails...)
	for k, v := range s.holds {
		c.holds[k] = v
	}
	for k, v := range s.groups {
		c.groups[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	return c
}

type fakeTxManager struct {
	st *fakeState
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	snap := m.st.clone()
	if err := fn(&fakeRepos{st: m.st}); err != nil {
		*m.st = *snap
		return err
	}
	return nil
}

type fakeRepos struct {
	st *fakeState
}

func (r *fakeRepos) Stock() repo.StockRepository                  { return &fakeStock{st: r.st} }
func (r *fakeRepos) ProductDetails() repo.ProductDetailRepository { return &fakeDetails{st: r.st} }
func (r *fakeRepos) Inflows() repo.InflowRepository               { return &fakeInflows{st: r.st} }
func (r *fakeRepos) Outflows() repo.OutflowRepository             { return &fakeOutflows{st: r.st} }
func (r *fakeRepos) Holds() repo.HoldRepository                   { return &fakeHolds{st: r.st} }
func (r *fakeRepos) HoldGroups() repo.HoldGroupRepository         { return &fakeGroups{st: r.st} }
func (r *fakeRepos) Orders() repo.OrderRepository                 { return &fakeOrders{st: r.st} }

type fakeStock struct{ st *fakeState }

func (f *fakeStock) SetQuantity(ctx context.Context, id int64, qty int64) error {
	d, ok := f.st.details[id]
	if !ok {
		return repo.ErrNotFound
	}
	d.Quantity = qty
	f.st.details[id] = d
	return nil
}

func (f *fakeStock) Increase(ctx context.Context, id int64, qty int64) error {
	d, ok := f.st.details[id]
	if !ok {
		return repo.ErrNotFound
	}
	d.Quantity += qty
	f.st.details[id] = d
	return nil
}

func (f *fakeStock) Decrease(ctx context.Context, id int64, qty int64) error {
	d, ok := f.st.details[id]
	if !ok {
		return repo.ErrNotFound
	}
	d.Quantity -= qty
	f.st.details[id] = d
	return nil
}

func (f *fakeStock) DecreaseIfEnough(ctx context.Context, id int64, qty int64) (bool, error) {
	d, ok := f.st.details[id]
	if !ok || d.Quantity < qty {
		return false, nil
	}
	d.Quantity -= qty
	f.st.details[id] = d
	return true, nil
}

type fakeDetails struct{ st *fakeState }

func (f *fakeDetails) FindByID(ctx context.Context, id int64) (model.ProductDetail, error) {
	d, ok := f.st.details[id]
	if !ok {
		return model.ProductDetail{}, repo.ErrNotFound
	}
	return d, nil
}

type fakeInflows struct{ st *fakeState }

func (f *fakeInflows) Create(ctx context.Context, header model.Inflow) (int64, error) {
	header.ID = f.st.id()
	f.st.inflows[header.ID] = header
	return header.ID, nil
}

func (f *fakeInflows) CreateDetail(ctx context.Context, d model.InflowDetail) (int64, error) {
	d.ID = f.st.id()
	f.st.inflowDetails = append(f.st.inflowDetails, d)
	return d.ID, nil
}

func (f *fakeInflows) FindByID(ctx context.Context, id int64) (model.Inflow, error) {
	m, ok := f.st.inflows[id]
	if !ok {
		return model.Inflow{}, repo.ErrNotFound
	}
	return m, nil
}

func (f *fakeInflows) ListDetails(ctx context.Context, inflowID int64) ([]model.InflowDetail, error) {
	var ds []model.InflowDetail
	for _, d := range f.st.inflowDetails {
		if d.InflowID == inflowID {
			ds = append(ds, d)
		}
	}
	return ds, nil
}

func (f *fakeInflows) CountDetails(ctx context.Context, inflowID int64) (int64, error) {
	ds, _ := f.ListDetails(ctx, inflowID)
	return int64(len(ds)), nil
}

func (f *fakeInflows) List(ctx context.Context, q repo.MovementListQuery) ([]model.Inflow, int64, error) {
	var ms []model.Inflow
	for _, m := range f.st.inflows {
		if m.InventoryID == q.InventoryID {
			ms = append(ms, m)
		}
	}
	return ms, int64(len(ms)), nil
}

func (f *fakeInflows) UpdateDate(ctx context.Context, id int64, date time.Time) error {
	m, ok := f.st.inflows[id]
	if !ok {
		return repo.ErrNotFound
	}
	m.Date = date
	f.st.inflows[id] = m
	return nil
}

type fakeOutflows struct{ st *fakeState }

func (f *fakeOutflows) Create(ctx context.Context, header model.Outflow) (int64, error) {
	header.ID = f.st.id()
	f.st.outflows[header.ID] = header
	return header.ID, nil
}

func (f *fakeOutflows) CreateDetail(ctx context.Context, d model.OutflowDetail) (int64, error) {
	d.ID = f.st.id()
	f.st.outflowDetails = append(f.st.outflowDetails, d)
	return d.ID, nil
}

func (f *fakeOutflows) FindByID(ctx context.Context, id int64) (model.Outflow, error) {
	m, ok := f.st.outflows[id]
	if !ok {
		return model.Outflow{}, repo.ErrNotFound
	}
	return m, nil
}

func (f *fakeOutflows) ListDetails(ctx context.Context, outflowID int64) ([]model.OutflowDetail, error) {
	var ds []model.OutflowDetail
	for _, d := range f.st.outflowDetails {
		if d.OutflowID == outflowID {
			ds = append(ds, d)
		}
	}
	return ds, nil
}

func (f *fakeOutflows) CountDetails(ctx context.Context, outflowID int64) (int64, error) {
	ds, _ := f.ListDetails(ctx, outflowID)
	return int64(len(ds)), nil
}

func (f *fakeOutflows) List(ctx context.Context, q repo.MovementListQuery) ([]model.Outflow, int64, error) {
	var ms []model.Outflow
	for _, m := range f.st.outflows {
		if m.InventoryID == q.InventoryID {
			ms = append(ms, m)
		}
	}
	return ms, int64(len(ms)), nil
}

func (f *fakeOutflows) UpdateDate(ctx context.Context, id int64, date time.Time) error {
	m, ok := f.st.outflows[id]
	if !ok {
		return repo.ErrNotFound
	}
	m.Date = date
	f.st.outflows[id] = m
	return nil
}

func (f *fakeOutflows) ListActiveByOrderID(ctx context.Context, orderID int64) ([]model.Outflow, error) {
	var ms []model.Outflow
	for _, m := range f.st.outflows {
		if m.OrderID != nil && *m.OrderID == orderID && m.Status != model.MovementReversed {
			ms = append(ms, m)
		}
	}
	return ms, nil
}

func (f *fakeOutflows) MarkReversed(ctx context.Context, id int64) (bool, error) {
	m, ok := f.st.outflows[id]
	if !ok || m.Status == model.MovementReversed {
		return false, nil
	}
	m.Status = model.MovementReversed
	f.st.outflows[id] = m
	return true, nil
}

func (f *fakeOutflows) HasByOrderID(ctx context.Context, orderID int64) (bool, error) {
	for _, m := range f.st.outflows {
		if m.OrderID != nil && *m.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

type fakeHolds struct{ st *fakeState }

func (f *fakeHolds) Create(ctx context.Context, h model.Hold) (int64, error) {
	h.ID = f.st.id()
	f.st.holds[h.ID] = h
	return h.ID, nil
}

func (f *fakeHolds) FindByID(ctx context.Context, id int64) (model.Hold, error) {
	h, ok := f.st.holds[id]
	if !ok {
		return model.Hold{}, repo.ErrNotFound
	}
	return h, nil
}

func (f *fakeHolds) ListByGroupID(ctx context.Context, groupID int64) ([]model.Hold, error) {
	var hs []model.Hold
	for _, h := range f.st.holds {
		if h.GroupID != nil && *h.GroupID == groupID {
			hs = append(hs, h)
		}
	}
	return hs, nil
}

func (f *fakeHolds) Resolve(ctx context.Context, id int64, to model.HoldStatus) (model.Hold, error) {
	h, ok := f.st.holds[id]
	if !ok || h.Status != model.HoldStatusNone {
		return model.Hold{}, repo.ErrNotFound
	}
	h.Status = to
	f.st.holds[id] = h
	return h, nil
}

type fakeGroups struct{ st *fakeState }

func (f *fakeGroups) Create(ctx context.Context, g model.HoldGroup) (int64, error) {
	g.ID = f.st.id()
	g.Holds = nil
	f.st.groups[g.ID] = g
	return g.ID, nil
}

func (f *fakeGroups) FindByID(ctx context.Context, id int64) (model.HoldGroup, error) {
	g, ok := f.st.groups[id]
	if !ok {
		return model.HoldGroup{}, repo.ErrNotFound
	}
	return g, nil
}

func (f *fakeGroups) InventoryID(ctx context.Context, groupID int64) (int64, error) {
	for _, h := range f.st.holds {
		if h.GroupID == nil || *h.GroupID != groupID {
			continue
		}
		d, ok := f.st.details[h.ProductDetailID]
		if !ok {
			continue
		}
		p, ok := f.st.products[d.ProductID]
		if !ok {
			continue
		}
		return p.InventoryID, nil
	}
	return 0, repo.ErrNotFound
}

func (f *fakeGroups) ListExpired(ctx context.Context, before time.Time) ([]model.HoldGroup, error) {
	var gs []model.HoldGroup
	for _, g := range f.st.groups {
		if !g.ExpiresAt.Before(before) {
			continue
		}
		for _, h := range f.st.holds {
			if h.GroupID != nil && *h.GroupID == g.ID && h.Status == model.HoldStatusNone {
				gs = append(gs, g)
				break
			}
		}
	}
	return gs, nil
}

type fakeOrders struct{ st *fakeState }

func (f *fakeOrders) Create(ctx context.Context, o model.Order) (int64, error) {
	for _, ex := range f.st.orders {
		if ex.ExternalRef == o.ExternalRef {
			return 0, repo.ErrDuplicateReference
		}
	}
	o.ID = f.st.id()
	f.st.orders[o.ID] = o
	return o.ID, nil
}

func (f *fakeOrders) FindByID(ctx context.Context, id int64) (model.Order, error) {
	o, ok := f.st.orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListByExternalRef(ctx context.Context, ref string) ([]model.Order, error) {
	var os []model.Order
	for _, o := range f.st.orders {
		if o.ExternalRef == ref {
			os = append(os, o)
		}
	}
	return os, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, id int64, status string) error {
	o, ok := f.st.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	f.st.orders[id] = o
	return nil
}

// test doubles shared across the usecase tests

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return "ref-" + time.Unix(int64(g.n), 0).UTC().Format("150405")
}

type memCache struct {
	values map[string]string
}

func newMemCache() *memCache { return &memCache{values: map[string]string{}} }

func (c *memCache) Get(ctx context.Context, ref string) (string, bool, error) {
	v, ok := c.values[ref]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, ref string, status string) error {
	c.values[ref] = status
	return nil
}

func (c *memCache) Invalidate(ctx context.Context, ref string) error {
	delete(c.values, ref)
	return nil
}

func seedProduct(st *fakeState, inventoryID int64) int64 {
	id := st.id()
	st.products[id] = model.Product{ID: id, InventoryID: inventoryID, Name: "product"}
	return id
}

func seedDetail(st *fakeState, productID int64, qty, purchase, sale int64) int64 {
	id := st.id()
	st.details[id] = model.ProductDetail{
		ID:            id,
		ProductID:     productID,
		PurchasePrice: purchase,
		SalePrice:     sale,
		Quantity:      qty,
		Status:        model.DetailStatusNormal,
	}
	return id
}
