package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every cross-tenant reference reads as missing, never as forbidden.
func TestTenantIsolation(t *testing.T) {
	s := newStack(t)
	a := s.newTenant(t, "ivan", 5)
	b := s.newTenant(t, "judy", 5)
	ownerA := s.api.As(a.ownerToken)
	ownerB := s.api.As(b.ownerToken)

	res := ownerA.Post(t, "/api/v1/transactions", sale(a, 1))
	require.Equal(t, http.StatusCreated, res.Status, string(res.Body))
	var txnA struct{ ID uuid.UUID }
	res.Decode(t, &txnA)

	t.Run("foreign reads are not found", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/stores/" + a.storeID.String(),
			"/api/v1/variants/" + a.variantID.String(),
			"/api/v1/variants/" + a.variantID.String() + "/stock-movements",
			"/api/v1/transactions/" + txnA.ID.String(),
		} {
			res := ownerB.Get(t, path)
			assert.Equal(t, http.StatusNotFound, res.Status, path)
			assert.Equal(t, "ERR_NOT_FOUND", res.ErrorCode(), path)
		}
	})

	t.Run("foreign variant in a sale", func(t *testing.T) {
		req := sale(b, 1)
		req["items"] = []map[string]any{{"variant_id": a.variantID, "quantity": 1}}
		res := ownerB.Post(t, "/api/v1/transactions", req)
		assert.Equal(t, http.StatusNotFound, res.Status)
		assert.Equal(t, int64(4), s.db.StockOf(a.variantID))
	})

	t.Run("foreign store in a sale", func(t *testing.T) {
		req := sale(b, 1)
		req["store_id"] = a.storeID
		res := ownerB.Post(t, "/api/v1/transactions", req)
		assert.Equal(t, http.StatusNotFound, res.Status)
	})

	t.Run("foreign reference transaction", func(t *testing.T) {
		req := sale(b, 1)
		req["type"] = "RETURN"
		req["reference_transaction_id"] = txnA.ID
		res := ownerB.Post(t, "/api/v1/transactions", req)
		assert.Equal(t, http.StatusNotFound, res.Status)
		assert.Equal(t, int64(5), s.db.StockOf(b.variantID))
	})

	t.Run("foreign stock adjustment", func(t *testing.T) {
		res := ownerB.Post(t, "/api/v1/variants/"+a.variantID.String()+"/stock-adjustments",
			map[string]any{"delta": 10, "reason": "Recount"})
		assert.Equal(t, http.StatusNotFound, res.Status)
		assert.Equal(t, int64(4), s.db.StockOf(a.variantID))
	})

	t.Run("foreign store delete", func(t *testing.T) {
		res := ownerB.Delete(t, "/api/v1/stores/"+a.storeID.String())
		assert.Equal(t, http.StatusNotFound, res.Status)
	})

	t.Run("lists are scoped", func(t *testing.T) {
		res := ownerB.Get(t, "/api/v1/transactions")
		require.Equal(t, http.StatusOK, res.Status)
		require.NotNil(t, res.Envelope.Meta)
		assert.Equal(t, int64(0), res.Envelope.Meta.Total)

		res = ownerB.Get(t, "/api/v1/stores")
		require.Equal(t, http.StatusOK, res.Status)
		var stores []struct{ ID uuid.UUID }
		res.Decode(t, &stores)
		require.Len(t, stores, 1)
		assert.Equal(t, b.storeID, stores[0].ID)
	})

	t.Run("cashier of another tenant", func(t *testing.T) {
		req := sale(b, 1)
		req["cashier_id"] = a.ownerID
		res := ownerB.Post(t, "/api/v1/transactions", req)
		assert.Equal(t, http.StatusNotFound, res.Status)
	})
}
