package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/ratekit/qctl/pkg/quote"
)

// TestPostgresStore verifies driver parity: the same store code seeded
// and queried against a real Postgres instance.
func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("qctl"),
		tcpostgres.WithUsername("qctl"),
		tcpostgres.WithPassword("qctl"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(ctr))
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := OpenPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(db, DriverPostgres)

	res, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Carriers)
	assert.Equal(t, 10, res.Rates)
	assert.Equal(t, 6, res.Surcharges)

	rows, err := s.QueryRates(ctx, quote.RateQuery{Origin: "rotter", Destination: "SHANG"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	air, err := s.QueryRates(ctx, quote.RateQuery{Origin: "Rotterdam", Destination: "Shanghai", Mode: quote.ModeAir})
	require.NoError(t, err)
	require.Len(t, air, 1)
	assert.Equal(t, "DHL", air[0].CarrierName.String)

	quotes := quote.Normalize(air)
	require.Len(t, quotes, 1)
	assert.Equal(t, quote.BasisPerKg, quotes[0].ChargeBasis)

	surcharges, err := s.ListSurcharges(ctx)
	require.NoError(t, err)
	assert.Len(t, surcharges, 6)
}
