//go:build integration

package order

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"klarnasync/internal/adapters/outbound/persistence/postgresql/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRepositoryIntegration(t *testing.T) {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set TEST_DATABASE_URL to run integration test")
	}

	ctx := context.Background()
	db, err := sql.Open("pgx", databaseURL)
	require.NoError(t, err)
	defer db.Close()

	logger := zaptest.NewLogger(t)
	require.NoError(t, migrations.Apply(ctx, db, logger))
	require.NoError(t, migrations.Apply(ctx, db, logger))

	_, err = db.ExecContext(ctx, `DELETE FROM oxorder WHERE oxid IN ('it-o1', 'it-o2')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO oxcountry (oxid, oxisoalpha2) VALUES ('it-de', 'DE') ON CONFLICT (oxid) DO NOTHING`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
INSERT INTO oxorder (oxid, oxordernr, oxpaymenttype, oxtotalordersum, oxcurrency, oxbillcountryid, klorderid, klmerchantid, klservermode)
VALUES
  ('it-o1', 1, 'klarna_checkout', 49.95, 'EUR', 'it-de', 'it-kl-1', 'K100', 'playground'),
  ('it-o2', 2, 'oxidinvoice', 10.00, 'EUR', 'it-de', '', '', '')
`)
	require.NoError(t, err)

	repo := NewRepository(db)

	order, found, appErr := repo.FindByKlarnaOrderID(ctx, "it-kl-1")
	require.Nil(t, appErr)
	require.True(t, found)
	assert.Equal(t, "it-o1", order.ID)
	assert.Equal(t, "DE", order.BillCountryISO)
	assert.Equal(t, int64(4995), order.TotalMinorUnits())
	assert.True(t, order.InSync)

	require.Nil(t, repo.SaveSyncFlag(ctx, "it-o1", false))
	ids, appErr := repo.ListSyncableOrderIDs(ctx, "it-", 10)
	require.Nil(t, appErr)
	assert.Contains(t, ids, "it-o1")
	assert.NotContains(t, ids, "it-o2")

	require.Nil(t, repo.MarkCancelled(ctx, "it-o1"))
	order, _, appErr = repo.FindByID(ctx, "it-o1")
	require.Nil(t, appErr)
	assert.True(t, order.Cancelled)
	assert.False(t, order.InSync)
}
