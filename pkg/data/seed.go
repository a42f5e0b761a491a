package data

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

// SeedResult summarizes a seeding run.
type SeedResult struct {
	Carriers   int `json:"carriers" yaml:"carriers"`
	Rates      int `json:"rates" yaml:"rates"`
	Surcharges int `json:"surcharges" yaml:"surcharges"`
	Errors     int `json:"errors" yaml:"errors"`
}

// Seed populates the store with a demo rate card: a handful of carriers,
// lane rates spanning all modes and charge bases, and the standard
// surcharge catalog. Row failures are collected and reported together;
// the batch keeps going.
func (s *Store) Seed(ctx context.Context) (*SeedResult, error) {
	if s == nil || s.db == nil {
		return nil, errDBNotInitialized
	}

	res := &SeedResult{}
	var merr *multierror.Error

	carriers := seedCarriers()
	for _, c := range carriers {
		if err := s.SaveCarrier(ctx, c); err != nil {
			merr = multierror.Append(merr, err)
			res.Errors++
			continue
		}
		res.Carriers++
	}

	byName := lo.KeyBy(carriers, func(c *Carrier) string { return c.Name })
	for _, r := range seedRates(byName) {
		if err := s.SaveRate(ctx, r); err != nil {
			merr = multierror.Append(merr, err)
			res.Errors++
			continue
		}
		res.Rates++
	}

	for _, sc := range seedSurcharges() {
		if err := s.SaveSurcharge(ctx, sc); err != nil {
			merr = multierror.Append(merr, err)
			res.Errors++
			continue
		}
		res.Surcharges++
	}

	slog.Info("store seeded",
		"carriers", res.Carriers,
		"rates", res.Rates,
		"surcharges", res.Surcharges,
		"errors", res.Errors,
	)

	return res, merr.ErrorOrNil()
}

func seedCarriers() []*Carrier {
	return []*Carrier{
		{Name: "FedEx", Code: "FDX", Mode: "parcel", Country: "US"},
		{Name: "UPS", Code: "UPS", Mode: "parcel", Country: "US"},
		{Name: "DHL", Code: "DHL", Mode: "air", Country: "DE"},
		{Name: "TForce", Code: "TFIN", Mode: "LTL", Country: "US"},
		{Name: "XPO", Code: "XPO", Mode: "LTL", Country: "US"},
		{Name: "CH Robinson", Code: "CHRW", Mode: "FTL", Country: "US"},
		{Name: "Maersk Line", Code: "MAEU", Mode: "ocean", Country: "DK"},
		{Name: "Hapag-Lloyd", Code: "HLCU", Mode: "ocean", Country: "DE"},
	}
}

func seedRates(carriers map[string]*Carrier) []*Rate {
	from := time.Now().UTC().AddDate(0, -1, 0)
	to := time.Now().UTC().AddDate(1, 0, 0)

	rate := func(carrier, origin, destination, mode, basis string, base, fuel float64, transit int, minW, maxW *float64) *Rate {
		return &Rate{
			CarrierID:     carriers[carrier].ID,
			Origin:        origin,
			Destination:   destination,
			Mode:          mode,
			BaseRate:      base,
			ChargeBasis:   basis,
			FuelSurcharge: fuel,
			Currency:      "EUR",
			ValidFrom:     from,
			ValidTo:       to,
			TransitDays:   lo.ToPtr(transit),
			MinWeight:     minW,
			MaxWeight:     maxW,
		}
	}

	return []*Rate{
		rate("Maersk Line", "Rotterdam", "Shanghai", "ocean", "per_shipment", 1200, 6, 32, lo.ToPtr(500.0), lo.ToPtr(44000.0)),
		rate("Hapag-Lloyd", "Rotterdam", "Shanghai", "ocean", "per_cbm", 95, 8, 35, lo.ToPtr(500.0), nil),
		rate("DHL", "Rotterdam", "Shanghai", "air", "per_kg", 4.2, 14, 4, nil, lo.ToPtr(2200.0)),
		rate("DHL", "Frankfurt", "Chicago", "air", "per_kg", 3.8, 12, 3, nil, lo.ToPtr(2200.0)),
		rate("Maersk Line", "Hamburg", "New York", "ocean", "per_shipment", 980, 5, 21, lo.ToPtr(400.0), lo.ToPtr(44000.0)),
		rate("TForce", "Chicago", "Dallas", "LTL", "per_lb", 0.38, 18, 3, lo.ToPtr(150.0), lo.ToPtr(10000.0)),
		rate("XPO", "Chicago", "Dallas", "LTL", "per_lb", 0.35, 21, 4, lo.ToPtr(150.0), lo.ToPtr(12000.0)),
		rate("CH Robinson", "Chicago", "Dallas", "FTL", "per_shipment", 1650, 24, 2, lo.ToPtr(10000.0), lo.ToPtr(44000.0)),
		rate("FedEx", "Memphis", "Seattle", "parcel", "per_lb", 1.9, 9, 2, nil, lo.ToPtr(150.0)),
		rate("UPS", "Memphis", "Seattle", "parcel", "per_lb", 2.1, 8, 2, nil, lo.ToPtr(150.0)),
	}
}

// seedSurcharges mirrors the standard accessorial catalog.
func seedSurcharges() []*Surcharge {
	return []*Surcharge{
		{Code: "THC", Description: "Terminal Handling Charge", Kind: SurchargeKindFixed, Amount: 150, Currency: "EUR"},
		{Code: "DOC", Description: "Documentation Fee", Kind: SurchargeKindFixed, Amount: 75, Currency: "EUR"},
		{Code: "SEC", Description: "Security Surcharge", Kind: SurchargeKindFixed, Amount: 40, Currency: "EUR", AppliesToMode: "air"},
		{Code: "FSCX", Description: "Extra Fuel Surcharge (seasonal)", Kind: SurchargeKindPercent, Amount: 2.5, Currency: "EUR"},
		{Code: "RESI", Description: "Residential Delivery", Kind: SurchargeKindFixed, Amount: 35, Currency: "EUR", AppliesToMode: "parcel"},
		{Code: "LIFT", Description: "Liftgate Service", Kind: SurchargeKindFixed, Amount: 55, Currency: "EUR", AppliesToMode: "ltl"},
	}
}
