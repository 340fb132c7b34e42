package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Many tills selling the last unit at once: exactly one wins.
func TestPOS_LastUnitUnderContention(t *testing.T) {
	s := newStack(t)
	tn := s.newTenant(t, "grace", 1)
	owner := s.api.As(tn.ownerToken)

	const tills = 10
	statuses := make([]int, tills)
	codes := make([]string, tills)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < tills; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			res := owner.Post(t, "/api/v1/transactions", sale(tn, 1))
			statuses[i] = res.Status
			codes[i] = res.ErrorCode()
		}(i)
	}
	close(start)
	wg.Wait()

	created := 0
	for i, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			assert.Equal(t, "ERR_INSUFFICIENT_STOCK", codes[i])
		default:
			t.Errorf("till %d: unexpected status %d (%s)", i, status, codes[i])
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, int64(0), s.db.StockOf(tn.variantID))

	var committed, sold int64
	require.NoError(t, s.db.DB.Raw(`SELECT COUNT(*) FROM transactions WHERE owner_id = ?`, tn.ownerID).Scan(&committed).Error)
	require.NoError(t, s.db.DB.Raw(`SELECT COUNT(*) FROM stock_movements WHERE variant_id = ? AND delta < 0`, tn.variantID).Scan(&sold).Error)
	assert.Equal(t, int64(1), committed)
	assert.Equal(t, int64(1), sold)
}

// Concurrent sales that all fit must all commit and the balance must add up.
func TestPOS_ConcurrentSalesKeepLedgerConsistent(t *testing.T) {
	s := newStack(t)
	tn := s.newTenant(t, "heidi", 50)
	owner := s.api.As(tn.ownerToken)

	const sales = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0
	for i := 0; i < sales; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res := owner.Post(t, "/api/v1/transactions", sale(tn, 2)); res.Status != http.StatusCreated {
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures)
	assert.Equal(t, int64(10), s.db.StockOf(tn.variantID))

	var ledgerSum int64
	require.NoError(t, s.db.DB.Raw(`SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE variant_id = ?`, tn.variantID).Scan(&ledgerSum).Error)
	assert.Equal(t, int64(10), ledgerSum)
}
