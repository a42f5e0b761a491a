package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratekit/qctl/pkg/quote"
)

func TestSeed_PopulatesStore(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	res, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Carriers)
	assert.Equal(t, 10, res.Rates)
	assert.Equal(t, 6, res.Surcharges)
	assert.Zero(t, res.Errors)

	carriers, err := s.ListCarriers(ctx)
	require.NoError(t, err)
	assert.Len(t, carriers, 8)

	surcharges, err := s.ListSurcharges(ctx)
	require.NoError(t, err)
	require.Len(t, surcharges, 6)
	assert.Equal(t, "DOC", surcharges[0].Code)
}

func TestSeed_QueryableLanes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Seed(ctx)
	require.NoError(t, err)

	rows, err := s.QueryRates(ctx, quote.RateQuery{Origin: "Rotterdam", Destination: "Shanghai"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	ocean, err := s.QueryRates(ctx, quote.RateQuery{Origin: "Rotterdam", Destination: "Shanghai", Mode: quote.ModeOcean})
	require.NoError(t, err)
	assert.Len(t, ocean, 2)
}

func TestSeed_SurchargeCodesStable(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Seed(ctx)
	require.NoError(t, err)

	// Second run keeps existing surcharge codes without failing the batch.
	_, err = s.Seed(ctx)
	require.NoError(t, err)

	surcharges, err := s.ListSurcharges(ctx)
	require.NoError(t, err)
	assert.Len(t, surcharges, 6)
}

func TestSeed_NoConnection(t *testing.T) {
	s := NewStore(nil, DriverSQLite)
	_, err := s.Seed(context.Background())
	assert.Error(t, err)
}
