package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/eci-arep/secureweb/internal/middleware"
	"github.com/eci-arep/secureweb/internal/models"
	"github.com/eci-arep/secureweb/internal/repo"
	"github.com/go-chi/chi/v5"
)

type PropertyHandler struct {
	Repo      *repo.PropertyRepo
	AuditRepo *repo.AuditRepo
}

//
// ==========================
// Create Property
// ==========================
//

// CreateProperty accepts any field set; there is deliberately no validation on
// property payloads, matching the deployed API contract.
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Address     string  `json:"address"`
		Price       float64 `json:"price"`
		Size        float64 `json:"size"`
		Description string  `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	property, err := h.Repo.Create(r.Context(), input.Address, input.Price, input.Size, input.Description)
	if err != nil {
		JSONError(w, "failed to create property", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", property.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(property)
}

//
// ==========================
// List Properties
// ==========================
//

// ListProperties returns every stored property. limit/offset query parameters
// page the result when provided; the bare call returns all rows.
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	var properties []models.Property
	var err error

	// A malformed or non-positive limit is ignored, keeping the default
	// all-rows behavior instead of silently capping the result.
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, convErr := strconv.Atoi(l); convErr == nil && val > 0 {
			limit = val
		}
	}

	if limit > 0 {
		offset := 0
		if o := r.URL.Query().Get("offset"); o != "" {
			if val, convErr := strconv.Atoi(o); convErr == nil && val >= 0 {
				offset = val
			}
		}
		properties, err = h.Repo.ListPaginated(r.Context(), limit, offset)
	} else {
		properties, err = h.Repo.List(r.Context())
	}

	if err != nil {
		JSONError(w, "failed to fetch properties", http.StatusInternalServerError)
		return
	}

	if properties == nil {
		properties = []models.Property{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(properties)
}

//
// ==========================
// Get Property By ID
// ==========================
//

// GetProperty responds 200 with the property, or 200 with a null body when the
// id does not exist. The null-instead-of-404 shape is what existing consumers
// of this API expect.
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid property id", http.StatusBadRequest)
		return
	}

	property, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(nil)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(property)
}

//
// ==========================
// Update Property
// ==========================
//

// UpdateProperty overwrites address, price, size and description in one
// statement. Every failure, a missing row included, maps to 400 so the status
// surface stays compatible with existing clients.
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid property id", http.StatusBadRequest)
		return
	}

	var input struct {
		Address     string  `json:"address"`
		Price       float64 `json:"price"`
		Size        float64 `json:"size"`
		Description string  `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	property, err := h.Repo.UpdateByID(r.Context(), id, input.Address, input.Price, input.Size, input.Description)
	if err != nil {
		JSONError(w, "failed to update property", http.StatusBadRequest)
		return
	}

	h.audit(r, "update", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(property)
}

//
// ==========================
// Delete Property
// ==========================
//

// DeleteProperty responds 200 with an empty body. Deleting an id that is
// already gone still succeeds; only a storage failure maps to 400.
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid property id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DeleteByID(r.Context(), id); err != nil {
		JSONError(w, "failed to delete property", http.StatusBadRequest)
		return
	}

	h.audit(r, "delete", id)

	w.WriteHeader(http.StatusOK)
}

// audit records the action with the acting user when a bearer token was
// presented; anonymous writes are recorded with user id 0.
func (h *PropertyHandler) audit(r *http.Request, action string, propertyID int) {
	if h.AuditRepo == nil {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())
	_ = h.AuditRepo.Log(r.Context(), userID, action, "property", propertyID, "")
}
