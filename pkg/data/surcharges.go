package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Surcharge kinds.
const (
	SurchargeKindFixed   = "fixed"
	SurchargeKindPercent = "percent"
)

const (
	selectSurchargesSQL = `SELECT id, code, COALESCE(description, ''),
			COALESCE(applies_to_mode, ''), COALESCE(applies_to_rate_type, ''),
			kind, amount, COALESCE(currency, 'EUR')
		FROM surcharges
		WHERE is_active = TRUE OR is_active IS NULL
		ORDER BY code
	`

	upsertSurchargeSQL = `INSERT INTO surcharges (
			id, code, description, applies_to_mode, applies_to_rate_type,
			kind, amount, currency, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, TRUE)
		ON CONFLICT (code) DO NOTHING
	`
)

// Surcharge is a catalog row for accessorial charges. The catalog is a
// data surface for administration; the engine's generic loading is the
// fixed policy documented on the cost model.
type Surcharge struct {
	ID                string  `json:"id" yaml:"id"`
	Code              string  `json:"code" yaml:"code"`
	Description       string  `json:"description,omitempty" yaml:"description,omitempty"`
	AppliesToMode     string  `json:"applies_to_mode,omitempty" yaml:"appliesToMode,omitempty"`
	AppliesToRateType string  `json:"applies_to_rate_type,omitempty" yaml:"appliesToRateType,omitempty"`
	Kind              string  `json:"kind" yaml:"kind"`
	Amount            float64 `json:"amount" yaml:"amount"`
	Currency          string  `json:"currency" yaml:"currency"`
}

// ListSurcharges returns the active surcharge catalog ordered by code.
func (s *Store) ListSurcharges(ctx context.Context) ([]*Surcharge, error) {
	if s == nil || s.db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := s.db.QueryContext(ctx, selectSurchargesSQL)
	if err != nil {
		return nil, fmt.Errorf("querying surcharges: %w", err)
	}
	defer rows.Close()

	list := make([]*Surcharge, 0)
	for rows.Next() {
		var sc Surcharge
		if err := rows.Scan(&sc.ID, &sc.Code, &sc.Description, &sc.AppliesToMode,
			&sc.AppliesToRateType, &sc.Kind, &sc.Amount, &sc.Currency); err != nil {
			return nil, fmt.Errorf("scanning surcharge row: %w", err)
		}
		list = append(list, &sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating surcharge rows: %w", err)
	}

	return list, nil
}

// SaveSurcharge inserts a surcharge, keeping the existing row when the
// code is already cataloged.
func (s *Store) SaveSurcharge(ctx context.Context, sc *Surcharge) error {
	if s == nil || s.db == nil {
		return errDBNotInitialized
	}
	if sc == nil || sc.Code == "" {
		return errors.New("surcharge code is required")
	}
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	if sc.Kind == "" {
		sc.Kind = SurchargeKindFixed
	}
	if sc.Currency == "" {
		sc.Currency = "EUR"
	}

	_, err := s.db.ExecContext(ctx, s.rebind(upsertSurchargeSQL),
		sc.ID, sc.Code, nullable(sc.Description), nullable(sc.AppliesToMode),
		nullable(sc.AppliesToRateType), sc.Kind, sc.Amount, sc.Currency)
	if err != nil {
		return fmt.Errorf("saving surcharge %s: %w", sc.Code, err)
	}
	return nil
}
