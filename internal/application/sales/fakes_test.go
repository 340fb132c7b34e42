package sales

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memoryDB is an in-memory stand-in for the relational store. Units of work
// are serialized and rolled back from a snapshot on error.
type memoryDB struct {
	unit      sync.Mutex
	mu        sync.Mutex
	stores    map[uuid.UUID]*catalog.Store
	users     map[uuid.UUID]*identity.User
	variants  map[uuid.UUID]*catalog.ProductVariant
	txns      map[uuid.UUID]*sales.Transaction
	numbers   map[string]uuid.UUID
	movements []*inventory.StockMovement
	events    []shared.DomainEvent
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		stores:   map[uuid.UUID]*catalog.Store{},
		users:    map[uuid.UUID]*identity.User{},
		variants: map[uuid.UUID]*catalog.ProductVariant{},
		txns:     map[uuid.UUID]*sales.Transaction{},
		numbers:  map[string]uuid.UUID{},
	}
}

type snapshot struct {
	stock     map[uuid.UUID]int64
	txns      map[uuid.UUID]*sales.Transaction
	numbers   map[string]uuid.UUID
	movements int
	events    int
}

func (db *memoryDB) snapshot() snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := snapshot{
		stock:     map[uuid.UUID]int64{},
		txns:      map[uuid.UUID]*sales.Transaction{},
		numbers:   map[string]uuid.UUID{},
		movements: len(db.movements),
		events:    len(db.events),
	}
	for id, v := range db.variants {
		s.stock[id] = v.StockQuantity
	}
	for id, t := range db.txns {
		s.txns[id] = t
	}
	for n, id := range db.numbers {
		s.numbers[n] = id
	}
	return s
}

func (db *memoryDB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for id, q := range s.stock {
		db.variants[id].StockQuantity = q
	}
	db.txns = s.txns
	db.numbers = s.numbers
	db.movements = db.movements[:s.movements]
	db.events = db.events[:s.events]
}

func (db *memoryDB) stock(id uuid.UUID) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.variants[id].StockQuantity
}

func (db *memoryDB) transactionCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.txns)
}

func (db *memoryDB) eventTypes() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	types := make([]string, len(db.events))
	for i, e := range db.events {
		types[i] = e.EventType()
	}
	return types
}

// memoryScope implements TransactionScope over memoryDB
type memoryScope struct {
	db *memoryDB
	// executed counts Execute calls
	executed int
	// onExecute runs before fn; tests use it to interfere with the caller
	onExecute func(ctx context.Context)
}

func (s *memoryScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	s.db.unit.Lock()
	defer s.db.unit.Unlock()
	s.executed++
	if s.onExecute != nil {
		s.onExecute(ctx)
	}
	snap := s.db.snapshot()
	if err := fn(memoryRepos{db: s.db}); err != nil {
		s.db.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		s.db.restore(snap)
		return err
	}
	return nil
}

type memoryRepos struct{ db *memoryDB }

func (r memoryRepos) Transactions() sales.TransactionRepository { return memoryTransactions{r.db} }
func (r memoryRepos) StockLedger() inventory.StockLedger        { return memoryLedger{r.db} }
func (r memoryRepos) Outbox() shared.OutboxEventSaver           { return memoryOutbox{r.db} }

type memoryStores struct{ db *memoryDB }

func (r memoryStores) Create(_ context.Context, s *catalog.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.stores[s.ID] = s
	return nil
}

func (r memoryStores) FindByIDForTenant(_ context.Context, ownerID, id uuid.UUID) (*catalog.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stores[id]
	if !ok || s.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r memoryStores) FindAllForTenant(_ context.Context, ownerID uuid.UUID, _ shared.Filter) ([]*catalog.Store, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*catalog.Store
	for _, s := range r.db.stores {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (r memoryStores) DeleteForTenant(_ context.Context, ownerID, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stores[id]
	if !ok || s.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(r.db.stores, id)
	return nil
}

type memoryUsers struct{ db *memoryDB }

func (r memoryUsers) Create(_ context.Context, u *identity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.users[u.ID] = u
	return nil
}

func (r memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memoryUsers) FindCashierForTenant(_ context.Context, ownerID, userID uuid.UUID) (*identity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userID]
	if !ok || !u.CanActAsCashierFor(ownerID) {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r memoryUsers) FindEmployeesForTenant(_ context.Context, ownerID uuid.UUID, _ shared.Filter) ([]*identity.User, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*identity.User
	for _, u := range r.db.users {
		if u.OwnerID != nil && *u.OwnerID == ownerID {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (r memoryUsers) CountByStore(_ context.Context, _, storeID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, u := range r.db.users {
		if u.StoreID != nil && *u.StoreID == storeID {
			n++
		}
	}
	return n, nil
}

type memoryProducts struct{ db *memoryDB }

func (r memoryProducts) Create(_ context.Context, p *catalog.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, v := range p.Variants {
		r.db.variants[v.ID] = v
	}
	return nil
}

func (r memoryProducts) FindVariantForTenant(_ context.Context, ownerID, variantID uuid.UUID) (*catalog.ProductVariant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.variants[variantID]
	if !ok || v.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r memoryProducts) FindVariantsForTenant(_ context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*catalog.ProductVariant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*catalog.ProductVariant
	for _, id := range ids {
		if v, ok := r.db.variants[id]; ok && v.OwnerID == ownerID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memoryProducts) CountByStore(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

type memoryTransactions struct{ db *memoryDB }

func (r memoryTransactions) Create(_ context.Context, t *sales.Transaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, taken := r.db.numbers[t.TransactionNumber]; taken {
		return sales.ErrDuplicateTransactionNumber
	}
	r.db.numbers[t.TransactionNumber] = t.ID
	r.db.txns[t.ID] = t
	return nil
}

func (r memoryTransactions) FindByIDForTenant(_ context.Context, ownerID, id uuid.UUID) (*sales.Transaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.txns[id]
	if !ok || t.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r memoryTransactions) ExistsForTenant(_ context.Context, ownerID, id uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.txns[id]
	return ok && t.OwnerID == ownerID, nil
}

func (r memoryTransactions) FindAllForTenant(_ context.Context, ownerID uuid.UUID, _ sales.TransactionFilter) ([]*sales.Transaction, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*sales.Transaction
	for _, t := range r.db.txns {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r memoryTransactions) StatsForTenant(_ context.Context, ownerID uuid.UUID, _ sales.TransactionFilter) (*sales.Stats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	byType := map[sales.Type]sales.TypeStats{}
	for _, t := range r.db.txns {
		if t.OwnerID != ownerID {
			continue
		}
		ts := byType[t.Type]
		ts.Count++
		ts.Total = ts.Total.Add(t.Total)
		ts.Items += t.ItemCount()
		byType[t.Type] = ts
	}
	return sales.NewStats(byType), nil
}

func (r memoryTransactions) CountByStore(_ context.Context, ownerID, storeID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, t := range r.db.txns {
		if t.OwnerID == ownerID && t.StoreID == storeID {
			n++
		}
	}
	return n, nil
}

// memoryLedger applies deltas with the same check-and-set the database does
type memoryLedger struct{ db *memoryDB }

func (r memoryLedger) ApplyDelta(_ context.Context, ownerID uuid.UUID, delta inventory.StockDelta) (*inventory.StockMovement, error) {
	if err := delta.Validate(); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.variants[delta.VariantID]
	if !ok || v.OwnerID != ownerID {
		return nil, shared.NewNotFoundError("Product variant")
	}
	if v.StockQuantity+delta.Delta < 0 {
		return nil, inventory.ErrInsufficientStock
	}
	v.StockQuantity += delta.Delta
	m := inventory.NewStockMovement(ownerID, delta, v.StockQuantity)
	r.db.movements = append(r.db.movements, m)
	return m, nil
}

type memoryOutbox struct{ db *memoryDB }

func (r memoryOutbox) SaveEvents(_ context.Context, events ...shared.DomainEvent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.events = append(r.db.events, events...)
	return nil
}

// fixture is one tenant with a store, a cashier and a catalog
type fixture struct {
	owner   *identity.User
	cashier *identity.User
	manager *identity.User
	store   *catalog.Store
	cola    *catalog.ProductVariant
	chips   *catalog.ProductVariant
}

func (f fixture) ownerCtx(t *testing.T) identity.TenantContext {
	return contextFor(t, f.owner)
}

func (f fixture) cashierCtx(t *testing.T) identity.TenantContext {
	return contextFor(t, f.cashier)
}

func (f fixture) managerCtx(t *testing.T) identity.TenantContext {
	return contextFor(t, f.manager)
}

func contextFor(t *testing.T, u *identity.User) identity.TenantContext {
	tc, err := identity.TenantContextFor(u)
	require.NoError(t, err)
	return tc
}

func seedTenant(t *testing.T, db *memoryDB, prefix string, colaStock, chipsStock int64) fixture {
	ctx := context.Background()
	owner, err := identity.NewOwner(prefix+"owner@example.com", "Owner")
	require.NoError(t, err)
	require.NoError(t, memoryUsers{db}.Create(ctx, owner))

	store, err := catalog.NewStore(owner.ID, prefix+" Main", "1 High St", "")
	require.NoError(t, err)
	require.NoError(t, memoryStores{db}.Create(ctx, store))

	cashier, err := identity.NewEmployee(owner.ID, prefix+"cashier@example.com", "Cashier", identity.RoleCashier, &store.ID)
	require.NoError(t, err)
	require.NoError(t, memoryUsers{db}.Create(ctx, cashier))

	manager, err := identity.NewEmployee(owner.ID, prefix+"manager@example.com", "Manager", identity.RoleManager, &store.ID)
	require.NoError(t, err)
	require.NoError(t, memoryUsers{db}.Create(ctx, manager))

	product, err := catalog.NewProduct(owner.ID, uuid.New(), store.ID, "Snacks", "")
	require.NoError(t, err)
	cola, err := product.AddVariant(catalog.VariantSpec{
		Name: "Cola 330ml", SKU: prefix + "-COLA", SellingPrice: decimal.RequireFromString("1.50"),
		InitialStock: colaStock, LowStockThreshold: 2,
	})
	require.NoError(t, err)
	chips, err := product.AddVariant(catalog.VariantSpec{
		Name: "Chips", SKU: prefix + "-CHIPS", SellingPrice: decimal.RequireFromString("2.25"),
		InitialStock: chipsStock,
	})
	require.NoError(t, err)
	require.NoError(t, memoryProducts{db}.Create(ctx, product))

	return fixture{owner: owner, cashier: cashier, manager: manager, store: store, cola: cola, chips: chips}
}

// sequenceNumbers hands out the given numbers, then unique ones
type sequenceNumbers struct {
	mu   sync.Mutex
	next []string
}

func (g *sequenceNumbers) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.next) > 0 {
		n := g.next[0]
		g.next = g.next[1:]
		return n
	}
	return sales.NewTimestampNumberGenerator().Next(now)
}
