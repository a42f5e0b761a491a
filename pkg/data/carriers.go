package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	selectCarriersSQL = `SELECT id, name, COALESCE(code, ''), COALESCE(mode, ''), COALESCE(country, '')
		FROM carriers
		WHERE is_active = TRUE OR is_active IS NULL
		ORDER BY name
	`

	upsertCarrierSQL = `INSERT INTO carriers (id, name, code, mode, country, is_active)
		VALUES (?, ?, ?, ?, ?, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			code = excluded.code,
			mode = excluded.mode,
			country = excluded.country,
			updated_at = CURRENT_TIMESTAMP
	`
)

// Carrier is a transport provider row.
type Carrier struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Mode    string `json:"mode,omitempty" yaml:"mode,omitempty"`
	Country string `json:"country,omitempty" yaml:"country,omitempty"`
}

// ListCarriers returns all active carriers ordered by name.
func (s *Store) ListCarriers(ctx context.Context) ([]*Carrier, error) {
	if s == nil || s.db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := s.db.QueryContext(ctx, selectCarriersSQL)
	if err != nil {
		return nil, fmt.Errorf("querying carriers: %w", err)
	}
	defer rows.Close()

	list := make([]*Carrier, 0)
	for rows.Next() {
		var c Carrier
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Mode, &c.Country); err != nil {
			return nil, fmt.Errorf("scanning carrier row: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating carrier rows: %w", err)
	}

	return list, nil
}

// SaveCarrier inserts or updates a carrier, assigning an ID when absent.
func (s *Store) SaveCarrier(ctx context.Context, c *Carrier) error {
	if s == nil || s.db == nil {
		return errDBNotInitialized
	}
	if c == nil || c.Name == "" {
		return errors.New("carrier name is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(upsertCarrierSQL),
		c.ID, c.Name, nullable(c.Code), nullable(c.Mode), nullable(c.Country))
	if err != nil {
		return fmt.Errorf("saving carrier %s: %w", c.Name, err)
	}
	return nil
}
