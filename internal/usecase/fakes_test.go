package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// memStore is an in-memory database implementing every repository and the
// Transactor. Transactions are serialized and roll back to a snapshot.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	orders      map[uuid.UUID]model.Order
	proofs      map[uuid.UUID]model.PaymentProof
	ents        map[string]model.Entitlement
	transitions []model.OrderTransition
	nextID      int64

	// test hooks
	onCAS     func(id uuid.UUID)
	recordErr error
}

func newMemStore() *memStore {
	return &memStore{
		orders: map[uuid.UUID]model.Order{},
		proofs: map[uuid.UUID]model.PaymentProof{},
		ents:   map[string]model.Entitlement{},
	}
}

type memTxKey struct{}

type memTx struct {
	hooks []func(ctx context.Context)
}

type memSnapshot struct {
	orders      map[uuid.UUID]model.Order
	proofs      map[uuid.UUID]model.PaymentProof
	ents        map[string]model.Entitlement
	transitions []model.OrderTransition
	nextID      int64
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		orders:      make(map[uuid.UUID]model.Order, len(s.orders)),
		proofs:      make(map[uuid.UUID]model.PaymentProof, len(s.proofs)),
		ents:        make(map[string]model.Entitlement, len(s.ents)),
		transitions: append([]model.OrderTransition(nil), s.transitions...),
		nextID:      s.nextID,
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.proofs {
		snap.proofs[k] = v
	}
	for k, v := range s.ents {
		snap.ents[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = snap.orders
	s.proofs = snap.proofs
	s.ents = snap.ents
	s.transitions = snap.transitions
	s.nextID = snap.nextID
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	snap := s.snapshot()
	tx := &memTx{}
	err := fn(context.WithValue(ctx, memTxKey{}, tx))
	if err != nil {
		s.restore(snap)
	}
	s.txMu.Unlock()

	if err != nil {
		return err
	}
	for _, hook := range tx.hooks {
		hook(ctx)
	}
	return nil
}

func (s *memStore) AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if tx, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		tx.hooks = append(tx.hooks, fn)
		return
	}
	fn(ctx)
}

// orders

type memOrders struct{ s *memStore }

func (r memOrders) Create(_ context.Context, order *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; ok {
		return domainRepo.ErrDuplicate
	}
	for _, o := range r.s.orders {
		if o.Reference == order.Reference {
			return domainRepo.ErrDuplicate
		}
	}
	r.s.orders[order.ID] = *order
	return nil
}

func (r memOrders) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, domainRepo.ErrNotFound
	}
	return &o, nil
}

func (r memOrders) LockByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.GetByID(ctx, id)
}

func (r memOrders) List(_ context.Context, filter entity.OrderFilter, limit, offset int) ([]*model.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*model.Order
	for _, o := range r.s.orders {
		if filter.BuyerID != "" && o.BuyerID != filter.BuyerID {
			continue
		}
		if filter.State != "" && o.State != filter.State {
			continue
		}
		o := o
		matched = append(matched, &o)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	if offset >= len(matched) {
		return []*model.Order{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r memOrders) CompareAndSwapState(_ context.Context, id uuid.UUID, from []model.OrderState, change domainRepo.StateChange) (bool, error) {
	if r.s.onCAS != nil {
		r.s.onCAS(id)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, f := range from {
		if o.State == f {
			matched = true
		}
	}
	if !matched {
		return false, nil
	}
	applyChange(&o, change)
	r.s.orders[id] = o
	return true, nil
}

// proofs

type memProofs struct{ s *memStore }

func (r memProofs) Replace(_ context.Context, proof *model.PaymentProof) (*model.PaymentProof, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var previous *model.PaymentProof
	if p, ok := r.s.proofs[proof.OrderID]; ok {
		previous = &p
	}
	r.s.proofs[proof.OrderID] = *proof
	return previous, nil
}

func (r memProofs) GetByOrderID(_ context.Context, orderID uuid.UUID) (*model.PaymentProof, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proofs[orderID]
	if !ok {
		return nil, domainRepo.ErrNotFound
	}
	return &p, nil
}

func (r memProofs) OrdersWithChecksum(_ context.Context, checksum string, excludeOrderID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uuid.UUID
	for orderID, p := range r.s.proofs {
		if p.Checksum == checksum && orderID != excludeOrderID {
			ids = append(ids, orderID)
		}
	}
	return ids, nil
}

// entitlements

type memEntitlements struct{ s *memStore }

func entKey(buyerID string, itemType model.ItemType, itemRef string) string {
	return buyerID + "|" + string(itemType) + "|" + itemRef
}

func (r memEntitlements) InsertIfAbsent(_ context.Context, e *model.Entitlement) (*model.Entitlement, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := entKey(e.BuyerID, e.ItemType, e.ItemRef)
	if existing, ok := r.s.ents[key]; ok {
		return &existing, false, nil
	}
	r.s.ents[key] = *e
	stored := *e
	return &stored, true, nil
}

func (r memEntitlements) Get(_ context.Context, buyerID string, itemType model.ItemType, itemRef string) (*model.Entitlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.ents[entKey(buyerID, itemType, itemRef)]
	if !ok {
		return nil, domainRepo.ErrNotFound
	}
	return &e, nil
}

func (r memEntitlements) ListByBuyer(_ context.Context, buyerID string) ([]*model.Entitlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*model.Entitlement
	for _, e := range r.s.ents {
		if e.BuyerID == buyerID {
			e := e
			list = append(list, &e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].GrantedAt.Before(list[j].GrantedAt) })
	return list, nil
}

// transitions

type memTransitions struct{ s *memStore }

func (r memTransitions) Record(_ context.Context, t *model.OrderTransition) error {
	if r.s.recordErr != nil {
		return r.s.recordErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	t.ID = r.s.nextID
	r.s.transitions = append(r.s.transitions, *t)
	return nil
}

func (r memTransitions) ListByOrder(_ context.Context, orderID uuid.UUID) ([]*model.OrderTransition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*model.OrderTransition
	for _, t := range r.s.transitions {
		if t.OrderID == orderID {
			t := t
			list = append(list, &t)
		}
	}
	return list, nil
}

func (s *memStore) entitlementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ents)
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// MockCatalog is a mock implementation of provider.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetPrice(ctx context.Context, itemType model.ItemType, itemRef string) (*provider.CatalogItem, error) {
	args := m.Called(ctx, itemType, itemRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CatalogItem), args.Error(1)
}

// MockStorage is a mock implementation of provider.ObjectStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, key string, body []byte, contentType string) error {
	return m.Called(ctx, key, body, contentType).Error(0)
}

func (m *MockStorage) Fetch(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// recordingPublisher keeps every published event and the size of each call.
type recordingPublisher struct {
	mu      sync.Mutex
	events  []*provider.OrderEvent
	batches []int
}

func (p *recordingPublisher) Publish(_ context.Context, events ...*provider.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	p.batches = append(p.batches, len(events))
	return nil
}

func (p *recordingPublisher) batchSizes() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.batches...)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) states(orderID uuid.UUID) []model.OrderState {
	p.mu.Lock()
	defer p.mu.Unlock()
	var states []model.OrderState
	for _, e := range p.events {
		if e.OrderID == orderID.String() {
			states = append(states, e.To)
		}
	}
	return states
}

// memCache is an in-process provider.EntitlementCache.
type memCache struct {
	mu          sync.Mutex
	data        map[string][]*model.Entitlement
	gens        map[string]int64
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]*model.Entitlement{}, gens: map[string]int64{}}
}

func (c *memCache) Get(_ context.Context, buyerID string) ([]*model.Entitlement, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.data[buyerID]
	return list, ok, nil
}

func (c *memCache) Generation(_ context.Context, buyerID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[buyerID], nil
}

func (c *memCache) Set(_ context.Context, buyerID string, gen int64, list []*model.Entitlement) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[buyerID] != gen {
		return false, nil
	}
	c.data[buyerID] = list
	return true, nil
}

func (c *memCache) Invalidate(_ context.Context, buyerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[buyerID]++
	delete(c.data, buyerID)
	c.invalidated = append(c.invalidated, buyerID)
	return nil
}

// harness wires every service over one memStore.
type harness struct {
	store     *memStore
	catalog   *MockCatalog
	storage   *MockStorage
	publisher *recordingPublisher
	cache     *memCache
	metrics   *Metrics

	grantor   *AccessGrantor
	orders    *OrderService
	proofs    *ProofService
	approvals *ApprovalService
	workflow  *WorkflowService
}

var (
	buyer   = entity.Actor{ID: "buyer-1", Role: entity.RoleBuyer}
	other   = entity.Actor{ID: "buyer-2", Role: entity.RoleBuyer}
	admin   = entity.Actor{ID: "admin-1", Role: entity.RoleAdmin}
	paidID  = "course-paid"
	freeID  = "course-free"
	ebookID = "ebook-free"
)

func newHarness() *harness {
	logger := zap.NewNop()
	store := newMemStore()
	h := &harness{
		store:     store,
		catalog:   new(MockCatalog),
		storage:   new(MockStorage),
		publisher: &recordingPublisher{},
		cache:     newMemCache(),
		metrics:   NewMetrics(prometheus.NewRegistry()),
	}

	orders := memOrders{store}
	proofs := memProofs{store}
	ents := memEntitlements{store}
	transitions := memTransitions{store}

	h.grantor = NewAccessGrantor(store, ents, h.cache, h.metrics, logger)
	h.orders = NewOrderService(store, orders, transitions, h.catalog, h.grantor, h.publisher, h.metrics, logger)
	h.proofs = NewProofService(store, orders, proofs, transitions, h.storage, h.publisher, h.metrics, ProofConfig{MaxBytes: 1024}, logger)
	h.approvals = NewApprovalService(store, orders, proofs, transitions, h.grantor, h.publisher, h.metrics, logger)
	h.workflow = NewWorkflowService(h.orders, h.proofs, PayeeConfig{UPIID: "institute@upi", Name: "Career Path"})

	h.catalog.On("GetPrice", mock.Anything, model.ItemTypeCourse, paidID).
		Return(&provider.CatalogItem{Type: model.ItemTypeCourse, Ref: paidID, Title: "Paid Course", Amount: 49900}, nil).Maybe()
	h.catalog.On("GetPrice", mock.Anything, model.ItemTypeCourse, freeID).
		Return(&provider.CatalogItem{Type: model.ItemTypeCourse, Ref: freeID, Title: "Free Course", Amount: 0}, nil).Maybe()
	h.catalog.On("GetPrice", mock.Anything, model.ItemTypeEbook, ebookID).
		Return(&provider.CatalogItem{Type: model.ItemTypeEbook, Ref: ebookID, Title: "Free E-book", Amount: 0}, nil).Maybe()
	h.catalog.On("GetPrice", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, provider.ErrItemNotFound).Maybe()

	return h
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func (h *harness) allowStorage() {
	h.storage.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	h.storage.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()
}
