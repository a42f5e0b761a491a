package data

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratekit/qctl/pkg/quote"
)

func saveTestLane(t *testing.T, s *Store, carrier, origin, destination, mode string, base float64, active bool) *Rate {
	t.Helper()
	ctx := context.Background()

	c := &Carrier{Name: carrier}
	require.NoError(t, s.SaveCarrier(ctx, c))

	r := &Rate{
		CarrierID:   c.ID,
		Origin:      origin,
		Destination: destination,
		Mode:        mode,
		BaseRate:    base,
		ChargeBasis: "per_shipment",
		Currency:    "EUR",
		ValidFrom:   time.Now().UTC().AddDate(0, -1, 0),
		ValidTo:     time.Now().UTC().AddDate(0, 1, 0),
		TransitDays: lo.ToPtr(5),
	}
	require.NoError(t, s.SaveRate(ctx, r))

	if !active {
		_, err := s.DB().Exec("UPDATE rates SET is_active = FALSE WHERE id = ?", r.ID)
		require.NoError(t, err)
	}
	return r
}

func TestQueryRates_SubstringMatchCaseInsensitive(t *testing.T) {
	s := setupTestStore(t)
	saveTestLane(t, s, "Maersk Line", "Rotterdam", "Shanghai", "ocean", 1200, true)

	rows, err := s.QueryRates(context.Background(), quote.RateQuery{Origin: "ROTTER", Destination: "shang"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rotterdam", rows[0].Origin)
	assert.Equal(t, "Maersk Line", rows[0].CarrierName.String)
	assert.Equal(t, "5", rows[0].TransitDays.String)
}

func TestQueryRates_ModeFilter(t *testing.T) {
	s := setupTestStore(t)
	saveTestLane(t, s, "Maersk Line", "Rotterdam", "Shanghai", "ocean", 1200, true)
	saveTestLane(t, s, "DHL", "Rotterdam", "Shanghai", "air", 2400, true)

	ctx := context.Background()

	all, err := s.QueryRates(ctx, quote.RateQuery{Origin: "Rotterdam", Destination: "Shanghai"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	air, err := s.QueryRates(ctx, quote.RateQuery{Origin: "Rotterdam", Destination: "Shanghai", Mode: quote.ModeAir})
	require.NoError(t, err)
	require.Len(t, air, 1)
	assert.Equal(t, "air", air[0].Mode)
}

func TestQueryRates_ExcludesInactive(t *testing.T) {
	s := setupTestStore(t)
	saveTestLane(t, s, "Maersk Line", "Rotterdam", "Shanghai", "ocean", 1200, false)

	rows, err := s.QueryRates(context.Background(), quote.RateQuery{Origin: "Rotterdam", Destination: "Shanghai"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestQueryRates_ExcludesExpiredWindow(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	c := &Carrier{Name: "Hapag-Lloyd"}
	require.NoError(t, s.SaveCarrier(ctx, c))

	expired := &Rate{
		CarrierID:   c.ID,
		Origin:      "Hamburg",
		Destination: "New York",
		Mode:        "ocean",
		BaseRate:    980,
		ChargeBasis: "per_shipment",
		Currency:    "EUR",
		ValidFrom:   time.Now().UTC().AddDate(-1, 0, 0),
		ValidTo:     time.Now().UTC().AddDate(0, -6, 0),
	}
	require.NoError(t, s.SaveRate(ctx, expired))

	rows, err := s.QueryRates(ctx, quote.RateQuery{Origin: "Hamburg", Destination: "New York"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestQueryRates_LimitsResults(t *testing.T) {
	s := setupTestStore(t)
	for i := 0; i < rateQueryLimit+10; i++ {
		saveTestLane(t, s, "XPO", "Chicago", "Dallas", "LTL", 500, true)
	}

	rows, err := s.QueryRates(context.Background(), quote.RateQuery{Origin: "Chicago", Destination: "Dallas"})
	require.NoError(t, err)
	assert.Len(t, rows, rateQueryLimit)
}

func TestQueryRates_NoConnection(t *testing.T) {
	s := NewStore(nil, DriverSQLite)

	rows, err := s.QueryRates(context.Background(), quote.RateQuery{Origin: "any", Destination: "where"})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestQueryRates_FeedsNormalizer(t *testing.T) {
	s := setupTestStore(t)
	saveTestLane(t, s, "DHL", "Frankfurt", "Chicago", "air", 2400, true)

	rows, err := s.QueryRates(context.Background(), quote.RateQuery{Origin: "Frank", Destination: "Chic"})
	require.NoError(t, err)

	quotes := quote.Normalize(rows)
	require.Len(t, quotes, 1)
	assert.Equal(t, quote.ModeAir, quotes[0].Mode)
	assert.Equal(t, "DHL", quotes[0].CarrierName)
	require.NotNil(t, quotes[0].TransitDays)
	assert.Equal(t, 5, *quotes[0].TransitDays)
}
