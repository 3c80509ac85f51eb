package handler

import (
	"net/http"

	"github.com/pggpgg/stfc-optimizer/internal/repository"
)

// CatalogHandler exposes the ship, hostile, and officer catalogs backing
// the combat engine so clients can populate job-submission forms.
type CatalogHandler struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalogRepo repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalogRepo: catalogRepo}
}

// ListShips handles GET /api/v1/catalog/ships
func (h *CatalogHandler) ListShips(w http.ResponseWriter, r *http.Request) {
	ships, err := h.catalogRepo.ListShips(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ships == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, ships)
}

// ListHostiles handles GET /api/v1/catalog/hostiles
func (h *CatalogHandler) ListHostiles(w http.ResponseWriter, r *http.Request) {
	hostiles, err := h.catalogRepo.ListHostiles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hostiles == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, hostiles)
}

// ListOfficers handles GET /api/v1/catalog/officers
func (h *CatalogHandler) ListOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.catalogRepo.ListOfficers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if officers == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, officers)
}
