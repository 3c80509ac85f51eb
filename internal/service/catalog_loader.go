package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pggpgg/stfc-optimizer/internal/repository"
	"github.com/pggpgg/stfc-optimizer/pkg/stfcdata"
)

// LoadRegistry builds the shared, read-only Registry from the catalog
// repository's persisted ship/hostile/officer rows. Called once at startup;
// every worker and HTTP handler shares the returned handle.
func LoadRegistry(ctx context.Context, catalogRepo repository.CatalogRepository) (*stfcdata.Registry, error) {
	shipRows, err := catalogRepo.ListShips(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ships: %w", err)
	}
	ships := make([]stfcdata.ShipRecord, 0, len(shipRows))
	for _, row := range shipRows {
		var rec stfcdata.ShipRecord
		if err := json.Unmarshal(row.Payload, &rec); err != nil {
			return nil, fmt.Errorf("decode ship %s: %w", row.ID, err)
		}
		ships = append(ships, rec)
	}

	hostileRows, err := catalogRepo.ListHostiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load hostiles: %w", err)
	}
	hostiles := make([]stfcdata.HostileRecord, 0, len(hostileRows))
	for _, row := range hostileRows {
		var rec stfcdata.HostileRecord
		if err := json.Unmarshal(row.Payload, &rec); err != nil {
			return nil, fmt.Errorf("decode hostile %s: %w", row.ID, err)
		}
		hostiles = append(hostiles, rec)
	}

	officerRows, err := catalogRepo.ListOfficers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load officers: %w", err)
	}
	officers := make([]stfcdata.Officer, 0, len(officerRows))
	for _, row := range officerRows {
		var rec stfcdata.Officer
		if err := json.Unmarshal(row.Payload, &rec); err != nil {
			return nil, fmt.Errorf("decode officer %s: %w", row.ID, err)
		}
		officers = append(officers, rec)
	}

	return &stfcdata.Registry{
		Ships:    stfcdata.NewShipIndex(ships),
		Hostiles: stfcdata.NewHostileIndex(hostiles),
		Officers: stfcdata.NewOfficerIndex(officers),
	}, nil
}
