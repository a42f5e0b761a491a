package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ratekit/qctl/pkg/quote"
)

// rateQueryLimit caps the number of candidate rows per lookup.
const rateQueryLimit = 50

// timestampLayout is the stored form of validity-window bounds.
const timestampLayout = "2006-01-02 15:04:05"

const (
	selectRatesSQL = `SELECT
			r.origin,
			r.destination,
			r.mode,
			r.carrier_id,
			c.name AS carrier_name,
			r.min_weight,
			r.max_weight,
			r.base_rate,
			r.charge_basis,
			r.fuel_surcharge,
			r.currency,
			r.transit_days
		FROM rates r
		LEFT JOIN carriers c ON c.id = r.carrier_id
		WHERE LOWER(r.origin) LIKE LOWER(?)
		  AND LOWER(r.destination) LIKE LOWER(?)
		  AND (? = '' OR r.mode = ?)
		  AND CURRENT_TIMESTAMP BETWEEN r.valid_from AND r.valid_to
		  AND (r.is_active = TRUE OR r.is_active IS NULL)
		LIMIT ?
	`

	insertRateSQL = `INSERT INTO rates (
			id, carrier_id, origin, destination, mode, rate_type, base_rate,
			charge_basis, fuel_surcharge, currency, valid_from, valid_to,
			transit_days, min_weight, max_weight, contract_number, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)
	`
)

// Rate is a stored carrier rate row, as written by seeding and
// administration, before engine normalization.
type Rate struct {
	ID             string     `json:"id" yaml:"id"`
	CarrierID      string     `json:"carrier_id" yaml:"carrierId"`
	Origin         string     `json:"origin" yaml:"origin"`
	Destination    string     `json:"destination" yaml:"destination"`
	Mode           string     `json:"mode" yaml:"mode"`
	RateType       string     `json:"rate_type" yaml:"rateType"`
	BaseRate       float64    `json:"base_rate" yaml:"baseRate"`
	ChargeBasis    string     `json:"charge_basis" yaml:"chargeBasis"`
	FuelSurcharge  float64    `json:"fuel_surcharge" yaml:"fuelSurcharge"`
	Currency       string     `json:"currency" yaml:"currency"`
	ValidFrom      time.Time  `json:"valid_from" yaml:"validFrom"`
	ValidTo        time.Time  `json:"valid_to" yaml:"validTo"`
	TransitDays    *int       `json:"transit_days,omitempty" yaml:"transitDays,omitempty"`
	MinWeight      *float64   `json:"min_weight,omitempty" yaml:"minWeight,omitempty"`
	MaxWeight      *float64   `json:"max_weight,omitempty" yaml:"maxWeight,omitempty"`
	ContractNumber string     `json:"contract_number,omitempty" yaml:"contractNumber,omitempty"`
}

// QueryRates implements the engine's record-store contract: up to 50 rate
// rows joined with their carrier, matched by case-insensitive
// origin/destination substring, inside their validity window, active or
// unflagged, and on the exact mode when one is given. A store without a
// connection yields an empty result, not an error.
func (s *Store) QueryRates(ctx context.Context, q quote.RateQuery) ([]quote.RateRow, error) {
	if s == nil || s.db == nil {
		slog.Warn("rate store has no connection, returning empty result")
		return []quote.RateRow{}, nil
	}

	origin := "%" + strings.TrimSpace(q.Origin) + "%"
	destination := "%" + strings.TrimSpace(q.Destination) + "%"
	mode := string(q.Mode)

	rows, err := s.db.QueryContext(ctx, s.rebind(selectRatesSQL),
		origin, destination, mode, mode, rateQueryLimit)
	if err != nil {
		return nil, fmt.Errorf("querying rates: %w", err)
	}
	defer rows.Close()

	list := make([]quote.RateRow, 0)
	for rows.Next() {
		var r quote.RateRow
		if err := rows.Scan(
			&r.Origin,
			&r.Destination,
			&r.Mode,
			&r.CarrierID,
			&r.CarrierName,
			&r.MinWeight,
			&r.MaxWeight,
			&r.BaseRate,
			&r.ChargeBasis,
			&r.FuelSurcharge,
			&r.Currency,
			&r.TransitDays,
		); err != nil {
			return nil, fmt.Errorf("scanning rate row: %w", err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rate rows: %w", err)
	}

	return list, nil
}

// SaveRate inserts a rate row, assigning an ID when absent.
func (s *Store) SaveRate(ctx context.Context, r *Rate) error {
	if s == nil || s.db == nil {
		return errDBNotInitialized
	}
	if r == nil {
		return errors.New("rate is required")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RateType == "" {
		r.RateType = "contract"
	}

	var transit *string
	if r.TransitDays != nil {
		v := fmt.Sprintf("%d", *r.TransitDays)
		transit = &v
	}

	// Timestamps are bound as UTC text so the validity-window comparison
	// against CURRENT_TIMESTAMP behaves the same on both drivers.
	_, err := s.db.ExecContext(ctx, s.rebind(insertRateSQL),
		r.ID, r.CarrierID, r.Origin, r.Destination, r.Mode, r.RateType,
		r.BaseRate, r.ChargeBasis, r.FuelSurcharge, r.Currency,
		r.ValidFrom.UTC().Format(timestampLayout),
		r.ValidTo.UTC().Format(timestampLayout),
		transit, r.MinWeight, r.MaxWeight,
		nullable(r.ContractNumber))
	if err != nil {
		return fmt.Errorf("inserting rate %s: %w", r.ID, err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
