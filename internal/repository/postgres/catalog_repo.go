package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pggpgg/stfc-optimizer/internal/model"
)

// CatalogRepo stores the ship, hostile, and officer catalogs that back
// pkg/stfcdata's in-memory registry. Each row is a stable id plus a JSONB
// payload shaped exactly like the stfcdata record it decodes into, so
// adding a new catalog field never requires a migration.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo creates a CatalogRepo.
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) ListShips(ctx context.Context) ([]model.CatalogShip, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, payload FROM catalog_ships ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list ships: %w", err)
	}
	defer rows.Close()
	var out []model.CatalogShip
	for rows.Next() {
		var s model.CatalogShip
		var payload []byte
		if err := rows.Scan(&s.ID, &s.Name, &payload); err != nil {
			return nil, fmt.Errorf("scan ship: %w", err)
		}
		s.Payload = json.RawMessage(payload)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) ListHostiles(ctx context.Context) ([]model.CatalogHostile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, payload FROM catalog_hostiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list hostiles: %w", err)
	}
	defer rows.Close()
	var out []model.CatalogHostile
	for rows.Next() {
		var h model.CatalogHostile
		var payload []byte
		if err := rows.Scan(&h.ID, &h.Name, &payload); err != nil {
			return nil, fmt.Errorf("scan hostile: %w", err)
		}
		h.Payload = json.RawMessage(payload)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) ListOfficers(ctx context.Context) ([]model.CatalogOfficer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, payload FROM catalog_officers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list officers: %w", err)
	}
	defer rows.Close()
	var out []model.CatalogOfficer
	for rows.Next() {
		var o model.CatalogOfficer
		var payload []byte
		if err := rows.Scan(&o.ID, &o.Name, &payload); err != nil {
			return nil, fmt.Errorf("scan officer: %w", err)
		}
		o.Payload = json.RawMessage(payload)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) UpsertShip(ctx context.Context, ship model.CatalogShip) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO catalog_ships (id, name, payload) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, payload = EXCLUDED.payload`,
		ship.ID, ship.Name, []byte(ship.Payload))
	if err != nil {
		return fmt.Errorf("upsert ship: %w", err)
	}
	return nil
}

func (r *CatalogRepo) UpsertHostile(ctx context.Context, hostile model.CatalogHostile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO catalog_hostiles (id, name, payload) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, payload = EXCLUDED.payload`,
		hostile.ID, hostile.Name, []byte(hostile.Payload))
	if err != nil {
		return fmt.Errorf("upsert hostile: %w", err)
	}
	return nil
}

func (r *CatalogRepo) UpsertOfficer(ctx context.Context, officer model.CatalogOfficer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO catalog_officers (id, name, payload) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, payload = EXCLUDED.payload`,
		officer.ID, officer.Name, []byte(officer.Payload))
	if err != nil {
		return fmt.Errorf("upsert officer: %w", err)
	}
	return nil
}
