package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/db/dbtest"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
)

func TestProducts_SeedsOnce(t *testing.T) {
	r := repo.New(dbtest.Open(t))
	ctx := context.Background()

	inserted, err := Products(ctx, r, logging.Discard())
	require.NoError(t, err)
	assert.Len(t, inserted, 9)

	inserted, err = Products(ctx, r, logging.Discard())
	require.NoError(t, err)
	assert.Empty(t, inserted)

	count, err := r.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 9, count)
}

func TestCatalogue_Valid(t *testing.T) {
	names := map[string]bool{}
	for _, p := range Catalogue() {
		assert.False(t, names[p.Name], "duplicate %s", p.Name)
		names[p.Name] = true
		assert.True(t, p.Price.IsPositive())
		assert.Positive(t, p.StockQuantity)
		assert.NotEmpty(t, p.Description)
	}
}
