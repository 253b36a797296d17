// Package api exposes the HTTP surface of the stylist backend. The
// same handler serves the standalone server and the Lambda adapter.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stylegenie/stylist-backend/internal/events"
	"github.com/stylegenie/stylist-backend/internal/store"
	"github.com/stylegenie/stylist-backend/internal/stylist"
)

// Recommender runs the stylist pipeline.
type Recommender interface {
	Recommend(ctx context.Context, p stylist.RecommendParams) (*stylist.AIRecommendations, error)
}

// Store is the relational persistence the handlers need.
type Store interface {
	GetUserRecord(ctx context.Context, userID int64) (*store.UserRecord, error)
	GetProfileRecord(ctx context.Context, userID int64) (*store.ProfileRecord, error)
	UpsertProfile(ctx context.Context, p store.ProfileRecord) error
	ListWardrobeItems(ctx context.Context, userID int64, limit int) ([]store.WardrobeItem, error)
	GetWardrobeItem(ctx context.Context, userID, itemID int64) (*store.WardrobeItem, error)
	CreateWardrobeItem(ctx context.Context, userID int64, in store.WardrobeItemInput) (*store.WardrobeItem, error)
	UpdateWardrobeItem(ctx context.Context, userID, itemID int64, in store.WardrobeItemInput) (*store.WardrobeItem, error)
	DeleteWardrobeItem(ctx context.Context, userID, itemID int64) (bool, error)
}

// URLSigner issues presigned upload URLs for wardrobe photos and
// finalizes completed uploads.
type URLSigner interface {
	UploadURL(ctx context.Context, userID int64, filename, contentType string) (url, key string, err error)
	FinalizeUpload(ctx context.Context, userID int64, key string) (imageURL string, err error)
}

// Handler holds the dependencies behind the HTTP routes. History,
// Signer, and Emitter may be nil or no-op when the deployment does not
// configure them.
type Handler struct {
	Recommender Recommender
	Store       Store
	History     store.HistoryStore
	Signer      URLSigner
	Emitter     events.Emitter
}

// defaultWardrobeListLimit caps GET /wardrobe responses.
const defaultWardrobeListLimit = 100

// Routes builds the full route table with middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.handleHealth)

	mux.HandleFunc("GET /api/users/{id}/profile", h.handleGetProfile)
	mux.HandleFunc("PUT /api/users/{id}/profile", h.handlePutProfile)
	mux.HandleFunc("PATCH /api/users/{id}/profile", h.handlePutProfile)

	mux.HandleFunc("GET /api/users/{id}/wardrobe", h.handleListWardrobe)
	mux.HandleFunc("POST /api/users/{id}/wardrobe", h.handleCreateWardrobeItem)
	mux.HandleFunc("GET /api/users/{id}/wardrobe/upload-url", h.handleUploadURL)
	mux.HandleFunc("POST /api/users/{id}/wardrobe/upload-complete", h.handleUploadComplete)
	mux.HandleFunc("GET /api/users/{id}/wardrobe/{itemID}", h.handleGetWardrobeItem)
	mux.HandleFunc("PUT /api/users/{id}/wardrobe/{itemID}", h.handleUpdateWardrobeItem)
	mux.HandleFunc("DELETE /api/users/{id}/wardrobe/{itemID}", h.handleDeleteWardrobeItem)

	mux.HandleFunc("POST /api/users/{id}/recommendations", h.handleRecommend)
	mux.HandleFunc("GET /api/users/{id}/recommendations", h.handleListRecommendations)

	return withLogging(withCORS(mux))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathUserID parses the {id} segment. A zero return means the error
// response was already written.
func pathUserID(w http.ResponseWriter, r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpError(w, http.StatusBadRequest, "invalid user id")
		return 0
	}
	return id
}

func pathItemID(w http.ResponseWriter, r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil || id <= 0 {
		httpError(w, http.StatusBadRequest, "invalid item id")
		return 0
	}
	return id
}

// requireUser loads the user row or writes a 404.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request, userID int64) *store.UserRecord {
	user, err := h.Store.GetUserRecord(r.Context(), userID)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to load user", err.Error())
		return nil
	}
	if user == nil {
		httpError(w, http.StatusNotFound, "user not found")
		return nil
	}
	return user
}

// writeDomainError maps stylist errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var nf *stylist.NotFoundError
	if errors.As(err, &nf) {
		httpError(w, http.StatusNotFound, nf.Error())
		return
	}
	var verr *stylist.ValidationError
	if errors.As(err, &verr) {
		httpError(w, http.StatusBadRequest, verr.Error())
		return
	}
	var eerr *stylist.EngineError
	if errors.As(err, &eerr) {
		httpError(w, http.StatusServiceUnavailable, "recommendation engine unavailable", eerr.Error())
		return
	}
	httpError(w, http.StatusInternalServerError, "internal error", err.Error())
}

// --- Recommendations ---

type recommendRequest struct {
	Destination    string                  `json:"destination"`
	Occasion       string                  `json:"occasion"`
	Datetime       string                  `json:"datetime"`
	ThreadID       string                  `json:"thread_id"`
	DrawerProducts []stylist.DrawerProduct `json:"drawer_products"`
}

type recommendResponse struct {
	ThreadID        string                   `json:"thread_id"`
	RecordID        string                   `json:"record_id,omitempty"`
	Recommendations []stylist.Recommendation `json:"recommendations"`
}

func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}

	var req recommendRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	recs, err := h.Recommender.Recommend(r.Context(), stylist.RecommendParams{
		UserID:                 userID,
		Destination:            req.Destination,
		Occasion:               req.Occasion,
		Datetime:               req.Datetime,
		DrawerProductsOverride: req.DrawerProducts,
		SessionID:              threadID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := recommendResponse{
		ThreadID:        threadID,
		Recommendations: recs.Recommendations,
	}

	if h.History != nil {
		record := &store.RecommendationRecord{
			UserID:          userID,
			SessionID:       threadID,
			Destination:     req.Destination,
			Occasion:        req.Occasion,
			EventDatetime:   req.Datetime,
			Recommendations: recs.Recommendations,
		}
		if err := h.History.PutRecommendation(r.Context(), record); err != nil {
			// History is best-effort; the user still gets their outfits.
			log.Warn().Err(err).Int64("userId", userID).Msg("Failed to persist recommendation history")
		} else {
			resp.RecordID = record.ID
		}
	}

	if h.Emitter != nil {
		event := events.RecommendationGenerated{
			UserID:        userID,
			SessionID:     threadID,
			RecordID:      resp.RecordID,
			Destination:   req.Destination,
			Occasion:      req.Occasion,
			EventDatetime: req.Datetime,
			OutfitCount:   len(recs.Recommendations),
			ModelName:     stylist.GetModelName(),
		}
		if err := h.Emitter.EmitRecommendationGenerated(r.Context(), event); err != nil {
			log.Warn().Err(err).Int64("userId", userID).Msg("Failed to emit RecommendationGenerated event")
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	if h.History == nil {
		httpError(w, http.StatusNotImplemented, "recommendation history is not configured")
		return
	}
	if h.requireUser(w, r, userID) == nil {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httpError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := h.History.ListRecommendations(r.Context(), userID, limit)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to list recommendations", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"recommendations": records})
}

// --- Upload URL ---

func (h *Handler) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	if h.Signer == nil {
		httpError(w, http.StatusNotImplemented, "photo uploads are not configured")
		return
	}
	if h.requireUser(w, r, userID) == nil {
		return
	}

	filename := r.URL.Query().Get("filename")
	contentType := r.URL.Query().Get("contentType")
	if filename == "" || contentType == "" {
		httpError(w, http.StatusBadRequest, "filename and contentType are required")
		return
	}

	url, key, err := h.Signer.UploadURL(r.Context(), userID, filename, contentType)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"uploadUrl": url,
		"key":       key,
	})
}

type uploadCompleteRequest struct {
	Key string `json:"key"`
}

// handleUploadComplete tags the uploaded object and hands back the URL
// to store on the wardrobe item.
func (h *Handler) handleUploadComplete(w http.ResponseWriter, r *http.Request) {
	userID := pathUserID(w, r)
	if userID == 0 {
		return
	}
	if h.Signer == nil {
		httpError(w, http.StatusNotImplemented, "photo uploads are not configured")
		return
	}
	if h.requireUser(w, r, userID) == nil {
		return
	}

	var req uploadCompleteRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}
	if req.Key == "" {
		httpError(w, http.StatusBadRequest, "key is required")
		return
	}

	imageURL, err := h.Signer.FinalizeUpload(r.Context(), userID, req.Key)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"imageUrl": imageURL,
		"key":      req.Key,
	})
}
