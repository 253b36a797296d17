package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/stylegenie/stylist-backend/internal/store"
)

func (h *Handler) handleListWardrobe(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	if h.requireUser(w, r, userID) == nil {
		return
	}

	limit := defaultWardrobeListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httpError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, err := h.Store.ListWardrobeItems(r.Context(), userID, limit)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to list wardrobe items", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

// validateItemInput enforces the minimal shape of a wardrobe item.
func validateItemInput(in store.WardrobeItemInput) string {
	if strings.TrimSpace(in.Category) == "" {
		return "category is required"
	}
	if strings.TrimSpace(in.Name) == "" && strings.TrimSpace(in.Title) == "" {
		return "name or title is required"
	}
	return ""
}

func (h *Handler) handleCreateWardrobeItem(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	if h.requireUser(w, r, userID) == nil {
		return
	}

	var in store.WardrobeItemInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		return
	}
	if msg := validateItemInput(in); msg != "" {
		httpError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.Store.CreateWardrobeItem(r.Context(), userID, in)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to create wardrobe item", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleGetWardrobeItem(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	itemID := pathItemID(w, r)
	if itemID == 0 {
		return
	}

	item, err := h.Store.GetWardrobeItem(r.Context(), userID, itemID)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to load wardrobe item", err.Error())
		return
	}
	if item == nil {
		httpError(w, http.StatusNotFound, "wardrobe item not found")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleUpdateWardrobeItem(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	itemID := pathItemID(w, r)
	if itemID == 0 {
		return
	}

	var in store.WardrobeItemInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		return
	}
	if msg := validateItemInput(in); msg != "" {
		httpError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.Store.UpdateWardrobeItem(r.Context(), userID, itemID, in)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to update wardrobe item", err.Error())
		return
	}
	if item == nil {
		httpError(w, http.StatusNotFound, "wardrobe item not found")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleDeleteWardrobeItem(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	itemID := pathItemID(w, r)
	if itemID == 0 {
		return
	}

	deleted, err := h.Store.DeleteWardrobeItem(r.Context(), userID, itemID)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to delete wardrobe item", err.Error())
		return
	}
	if !deleted {
		httpError(w, http.StatusNotFound, "wardrobe item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
