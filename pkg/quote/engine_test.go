package quote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rows []RateRow
	err  error
	got  RateQuery
}

func (f *fakeSource) QueryRates(_ context.Context, q RateQuery) ([]RateRow, error) {
	f.got = q
	return f.rows, f.err
}

func TestFetchAndNormalize_NoStore(t *testing.T) {
	e := New(nil, DefaultOptions(), nil)

	quotes := e.FetchAndNormalize(context.Background(), ShipmentSpec{Origin: "Rotterdam", Destination: "Shanghai", WeightLbs: 2000})
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestFetchAndNormalize_QueryFailureAbsorbed(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	e := New(src, DefaultOptions(), nil)

	quotes := e.FetchAndNormalize(context.Background(), ShipmentSpec{Origin: "Rotterdam", Destination: "Shanghai", WeightLbs: 2000})
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestFetchAndNormalize_MapsRows(t *testing.T) {
	src := &fakeSource{rows: []RateRow{
		{CarrierID: "m1", Origin: "Rotterdam", Destination: "Shanghai", Mode: "ocean", BaseRate: nullFloat(1200)},
		{CarrierID: "d1", Origin: "Rotterdam", Destination: "Shanghai", Mode: "air", BaseRate: nullFloat(2400)},
	}}
	e := New(src, DefaultOptions(), nil)

	spec := ShipmentSpec{Origin: "rotter", Destination: "shang", WeightLbs: 2000, Mode: ModeOcean}
	quotes := e.FetchAndNormalize(context.Background(), spec)

	require.Len(t, quotes, 2)
	assert.Equal(t, "m1", quotes[0].CarrierID)
	assert.Equal(t, ModeOcean, quotes[0].Mode)

	assert.Equal(t, RateQuery{Origin: "rotter", Destination: "shang", Mode: ModeOcean}, src.got)
}

func TestShipmentSpecValidate(t *testing.T) {
	valid := ShipmentSpec{Origin: "Rotterdam", Destination: "Shanghai", WeightLbs: 100}
	assert.NoError(t, valid.Validate())

	cases := []ShipmentSpec{
		{Origin: "R", Destination: "Shanghai", WeightLbs: 100},
		{Origin: "Rotterdam", Destination: " ", WeightLbs: 100},
		{Origin: "Rotterdam", Destination: "Shanghai", WeightLbs: 0},
		{Origin: "Rotterdam", Destination: "Shanghai", WeightLbs: -5},
	}
	for i, c := range cases {
		assert.Error(t, c.Validate(), "case %d", i)
	}
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode(" FTL ")
	assert.True(t, ok)
	assert.Equal(t, ModeFTL, m)

	_, ok = ParseMode("rail")
	assert.False(t, ok)
}
