package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/middleware"
	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
	"github.com/Ramish-fuh/Inventory-sub000/internal/repo"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AssetHandler struct {
	Repo      *repo.AssetRepo
	AuditRepo *repo.AuditRepo
}

// assetInput is the JSON body for create and update. Date fields are
// RFC 3339 timestamps; absent fields mean "not tracked".
type assetInput struct {
	Name            string     `json:"name" validate:"required,min=2,max=255"`
	Tag             string     `json:"tag" validate:"max=100"`
	Description     string     `json:"description" validate:"max=1000"`
	NextMaintenance *time.Time `json:"next_maintenance"`
	WarrantyExpiry  *time.Time `json:"warranty_expiry"`
	LicenseExpiry   *time.Time `json:"license_expiry"`
	AssignedTo      *int       `json:"assigned_to"`
}

func (in assetInput) toRepo() repo.AssetInput {
	return repo.AssetInput{
		Name:            in.Name,
		Tag:             in.Tag,
		Description:     in.Description,
		NextMaintenance: in.NextMaintenance,
		WarrantyExpiry:  in.WarrantyExpiry,
		LicenseExpiry:   in.LicenseExpiry,
		AssignedTo:      in.AssignedTo,
	}
}

//
// ==========================
// Create Asset
// ==========================
//

func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var input assetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Repo.Create(r.Context(), input.toRepo())
	if err != nil {
		JSONError(w, "failed to create asset", http.StatusInternalServerError)
		return
	}

	h.logAudit(r, "asset.create", asset.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

//
// ==========================
// List Assets
// ==========================
//

func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 1000 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	search := r.URL.Query().Get("search")

	var assets []models.Asset
	var err error
	if search != "" {
		assets, err = h.Repo.SearchPaginated(r.Context(), search, limit, offset)
	} else {
		assets, err = h.Repo.ListPaginated(r.Context(), limit, offset)
	}
	if err != nil {
		JSONError(w, "failed to fetch assets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assets)
}

//
// ==========================
// Get Asset By ID
// ==========================
//

func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	asset, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if asset == nil {
		JSONError(w, "asset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

//
// ==========================
// Update Asset
// ==========================
//

func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	var input assetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Repo.UpdateByID(r.Context(), id, input.toRepo())
	if err != nil {
		JSONError(w, "failed to update asset", http.StatusInternalServerError)
		return
	}

	h.logAudit(r, "asset.update", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

//
// ==========================
// Delete Asset
// ==========================
//

func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DeleteByID(r.Context(), id); err != nil {
		JSONError(w, "failed to delete asset", http.StatusInternalServerError)
		return
	}

	h.logAudit(r, "asset.delete", id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *AssetHandler) logAudit(r *http.Request, event string, assetID int) {
	if h.AuditRepo == nil {
		return
	}
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		details, _ := json.Marshal(map[string]int{"asset_id": assetID})
		_ = h.AuditRepo.Log(r.Context(), &userID, "info", event, string(details))
	}
}
