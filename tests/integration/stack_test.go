package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	identityapp "github.com/retailpos/backend/internal/application/identity"
	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/router"
	"github.com/retailpos/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// stack is the API wired the way the server wires it, minus telemetry
type stack struct {
	db         *TestDB
	api        *testutil.APIClient
	auth       *identityapp.AuthService
	serializer *event.EventSerializer
	logger     *zap.Logger
}

func newStack(t *testing.T) *stack {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	log := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))

	stores := persistence.NewGormStoreRepository(tdb.DB)
	categories := persistence.NewGormCategoryRepository(tdb.DB)
	products := persistence.NewGormProductRepository(tdb.DB)
	users := persistence.NewGormUserRepository(tdb.DB)
	transactions := persistence.NewGormTransactionRepository(tdb.DB)
	movements := persistence.NewGormStockMovementRepository(tdb.DB)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	scope := persistence.NewGormTransactionScope(tdb.DB, func(tx *gorm.DB) shared.OutboxEventSaver {
		return event.NewOutboxPublisher(serializer, event.NewGormOutboxRepository(tx), 5)
	})

	gate := identity.NewDefaultGate()
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                "integration-test-secret-with-32-bytes!",
		AccessTokenExpiration: time.Hour,
		Issuer:                "retailpos-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	committer := salesapp.NewTransactionCommitter(
		gate,
		salesapp.NewReferentialValidator(stores, users, products, transactions),
		scope.SalesScope(),
		sales.NewTimestampNumberGenerator(),
		log,
		salesapp.DefaultCommitterConfig(),
	)
	committer.SetIdempotencyStore(cache.NewInMemoryIdempotencyStore(0))

	authService := identityapp.NewAuthService(users, tokens, blacklist, log)
	engine, err := router.NewEngine(router.Config{
		Logger:      log,
		HTTP:        config.HTTPConfig{MaxBodySize: 1 << 20},
		ServiceName: "retailpos-test",
		Gate:        gate,
		Resolver:    auth.NewTenantContextResolver(tokens, blacklist),
		Handlers: router.Handlers{
			System: handler.NewSystemHandler("retailpos-test", "test", map[string]handler.HealthCheck{
				"database": func(ctx context.Context) error { return tdb.SqlDB.PingContext(ctx) },
			}),
			Auth:         handler.NewAuthHandler(authService),
			Stores:       handler.NewStoreHandler(catalogapp.NewStoreService(gate, stores, users, products, transactions)),
			Catalog:      handler.NewCatalogHandler(catalogapp.NewProductService(gate, stores, categories, products)),
			Employees:    handler.NewEmployeeHandler(identityapp.NewEmployeeService(gate, users, stores, log)),
			Transactions: handler.NewTransactionHandler(committer, salesapp.NewTransactionQueryService(gate, transactions)),
			Stock:        handler.NewStockHandler(inventoryapp.NewStockService(gate, products, movements, scope.InventoryScope(), log)),
		},
	})
	require.NoError(t, err)

	return &stack{
		db:         tdb,
		api:        testutil.NewAPIClient(engine),
		auth:       authService,
		serializer: serializer,
		logger:     log,
	}
}

// startOutbox delivers outbox entries to handler until the test ends
func (s *stack) startOutbox(t *testing.T, h shared.EventHandler) {
	t.Helper()
	bus := event.NewInMemoryEventBus(s.logger)
	bus.Subscribe(h)

	cfg := event.DefaultOutboxProcessorConfig()
	cfg.PollInterval = 50 * time.Millisecond
	cfg.CleanupEnabled = false
	processor := event.NewOutboxProcessor(event.NewGormOutboxRepository(s.db.DB), bus, s.serializer, cfg, s.logger)
	require.NoError(t, processor.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = processor.Stop(ctx)
	})
}

// tenant is an owner with one store, one category and one product
type tenant struct {
	ownerToken string
	ownerID    uuid.UUID
	storeID    uuid.UUID
	categoryID uuid.UUID
	variantID  uuid.UUID
}

func (s *stack) newTenant(t *testing.T, name string, stock int64) *tenant {
	t.Helper()
	issued, err := s.auth.RegisterOwner(context.Background(), name+"@example.com", name)
	require.NoError(t, err)
	tn := &tenant{ownerToken: issued.Token, ownerID: issued.User.ID}
	owner := s.api.As(tn.ownerToken)

	res := owner.Post(t, "/api/v1/stores", map[string]any{"name": name + " Corner Shop"})
	require.Equal(t, http.StatusCreated, res.Status, string(res.Body))
	var store struct{ ID uuid.UUID }
	res.Decode(t, &store)
	tn.storeID = store.ID

	res = owner.Post(t, "/api/v1/categories", map[string]any{"name": "Drinks"})
	require.Equal(t, http.StatusCreated, res.Status, string(res.Body))
	var category struct{ ID uuid.UUID }
	res.Decode(t, &category)
	tn.categoryID = category.ID

	res = owner.Post(t, "/api/v1/products", map[string]any{
		"category_id": tn.categoryID,
		"store_id":    tn.storeID,
		"name":        "Cola",
		"variants": []map[string]any{{
			"name":                "330ml",
			"sku":                 fmt.Sprintf("COLA-%s", name),
			"selling_price":       "2.50",
			"cost_price":          "1.00",
			"initial_stock":       stock,
			"low_stock_threshold": 2,
		}},
	})
	require.Equal(t, http.StatusCreated, res.Status, string(res.Body))
	var product struct {
		Variants []struct{ ID uuid.UUID }
	}
	res.Decode(t, &product)
	require.Len(t, product.Variants, 1)
	tn.variantID = product.Variants[0].ID
	return tn
}

// hireCashier creates a cashier in the tenant and returns their token
func (s *stack) hireCashier(t *testing.T, tn *tenant, email string) string {
	t.Helper()
	res := s.api.As(tn.ownerToken).Post(t, "/api/v1/employees", map[string]any{
		"email":    email,
		"name":     "Cashier",
		"role":     "CASHIER",
		"store_id": tn.storeID,
	})
	require.Equal(t, http.StatusCreated, res.Status, string(res.Body))

	issued, err := s.auth.IssueForEmail(context.Background(), email)
	require.NoError(t, err)
	return issued.Token
}

func sale(tn *tenant, qty int64) map[string]any {
	return map[string]any{
		"store_id":       tn.storeID,
		"type":           "SALE",
		"payment_method": "CASH",
		"amount_paid":    "100.00",
		"items":          []map[string]any{{"variant_id": tn.variantID, "quantity": qty}},
	}
}
