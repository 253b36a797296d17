package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stylegenie/stylist-backend/internal/store"
	"github.com/stylegenie/stylist-backend/internal/stylist"
)

// maxBodyBytes bounds request bodies; wardrobe items and profiles are
// small JSON documents.
const maxBodyBytes = 256 * 1024

// decodeJSONBody reads and decodes a JSON body, writing the error
// response itself on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, out interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		httpError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return err
	}
	if len(data) == 0 {
		httpError(w, http.StatusBadRequest, "request body is required")
		return fmt.Errorf("empty body")
	}
	if err := json.Unmarshal(data, out); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return err
	}
	return nil
}

type profileResponse struct {
	UserID           int64    `json:"user_id"`
	Gender           string   `json:"gender"`
	SkinTone         string   `json:"skin_tone"`
	FaceShape        string   `json:"face_shape"`
	BodyShape        string   `json:"body_shape"`
	ColorPreferences []string `json:"color_preferences"`
	Complete         bool     `json:"complete"`
	MissingFields    []string `json:"missing_fields,omitempty"`
}

func profileToResponse(userID int64, rec *store.ProfileRecord) profileResponse {
	resp := profileResponse{
		UserID:           userID,
		ColorPreferences: []string{},
	}
	if rec != nil {
		resp.Gender = rec.Gender
		resp.SkinTone = rec.SkinTone
		resp.FaceShape = rec.FaceShape
		resp.BodyShape = rec.BodyShape
		if rec.ColorPreferences != nil {
			resp.ColorPreferences = rec.ColorPreferences
		}
	}
	missing := stylist.MissingProfileFields(stylist.Profile{
		Gender:    resp.Gender,
		SkinTone:  resp.SkinTone,
		FaceShape: resp.FaceShape,
		BodyShape: resp.BodyShape,
	})
	resp.Complete = len(missing) == 0
	resp.MissingFields = missing
	return resp
}

// handleGetProfile returns the profile, or an empty one with all
// fields flagged missing when the user has not filled it in yet.
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	if h.requireUser(w, r, userID) == nil {
		return
	}

	rec, err := h.Store.GetProfileRecord(r.Context(), userID)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to load profile", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, profileToResponse(userID, rec))
}

type profileUpdateRequest struct {
	Gender           *string   `json:"gender"`
	SkinTone         *string   `json:"skin_tone"`
	FaceShape        *string   `json:"face_shape"`
	BodyShape        *string   `json:"body_shape"`
	ColorPreferences *[]string `json:"color_preferences"`
}

// handlePutProfile merges the supplied fields into the stored profile
// and upserts the row. Absent fields keep their stored values, so the
// same handler serves both PUT and PATCH.
func (h *Handler) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	if h.requireUser(w, r, userID) == nil {
		return
	}

	var req profileUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	current, err := h.Store.GetProfileRecord(r.Context(), userID)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to load profile", err.Error())
		return
	}
	if current == nil {
		current = &store.ProfileRecord{UserID: userID}
	}

	if req.Gender != nil {
		current.Gender = *req.Gender
	}
	if req.SkinTone != nil {
		current.SkinTone = *req.SkinTone
	}
	if req.FaceShape != nil {
		current.FaceShape = *req.FaceShape
	}
	if req.BodyShape != nil {
		current.BodyShape = *req.BodyShape
	}
	if req.ColorPreferences != nil {
		current.ColorPreferences = *req.ColorPreferences
	}

	if err := h.Store.UpsertProfile(r.Context(), *current); err != nil {
		httpError(w, http.StatusInternalServerError, "failed to save profile", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, profileToResponse(userID, current))
}
