// Package server exposes the scheduling engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/fsrs"
	"github.com/kioku-app/kioku/internal/progress"
	"github.com/kioku-app/kioku/internal/review"
	"github.com/kioku-app/kioku/internal/session"
)

//go:generate mockgen -source=handler.go -destination=../mocks/server/mock_service.go -package=mock_server

// ReviewService is the part of the review service the HTTP surface needs.
type ReviewService interface {
	SubmitReview(ctx context.Context, userID, itemID, collectionID uuid.UUID, rating fsrs.Rating, now time.Time) (*review.ReviewResult, error)
	PreviewItem(ctx context.Context, userID, itemID, collectionID uuid.UUID, now time.Time) (map[fsrs.Rating]string, error)
	TodaySession(ctx context.Context, userID, collectionID uuid.UUID, now time.Time) (*session.StudySession, error)
	CollectionProgress(ctx context.Context, userID, collectionID uuid.UUID, now time.Time) (*progress.Aggregate, error)
}

// Handler serves the scheduling API.
type Handler struct {
	service ReviewService
	now     func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(service ReviewService) *Handler {
	return &Handler{service: service, now: time.Now}
}

// Router builds the HTTP route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
		r.Get("/collections/{collectionID}/session", h.getSession)
		r.Get("/collections/{collectionID}/progress", h.getProgress)
		r.Post("/items/{itemID}/reviews", h.postReview)
		r.Get("/items/{itemID}/preview", h.getPreview)
	})
	return r
}

type reviewRequest struct {
	CollectionID uuid.UUID `json:"collection_id"`
	Rating       int       `json:"rating"`
}

type reviewResponse struct {
	Record   recordResponse      `json:"record"`
	Progress *progress.Aggregate `json:"progress"`
}

type recordResponse struct {
	ItemID uuid.UUID `json:"item_id"`
	fsrs.Record
}

type sessionResponse struct {
	ReviewItems      []sessionItem `json:"review_items"`
	NewItemIDs       []uuid.UUID   `json:"new_item_ids"`
	EstimatedMinutes int           `json:"estimated_minutes"`
	TotalCount       int           `json:"total_count"`
}

type sessionItem struct {
	ItemID uuid.UUID  `json:"item_id"`
	State  fsrs.State `json:"state"`
	DueAt  time.Time  `json:"due_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) postReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CollectionID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "collection_id is required")
		return
	}
	rating := fsrs.Rating(req.Rating)
	if !rating.Valid() {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 4")
		return
	}

	result, err := h.service.SubmitReview(r.Context(), userID, itemID, req.CollectionID, rating, h.now())
	if err != nil {
		if errors.Is(err, review.ErrConcurrentUpdate) {
			writeError(w, http.StatusConflict, "record was updated concurrently")
			return
		}
		slog.Error("submit review", "error", err, "user_id", userID, "item_id", itemID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, reviewResponse{
		Record: recordResponse{
			ItemID: result.Record.ItemID,
			Record: result.Record.Record,
		},
		Progress: result.Progress,
	})
}

func (h *Handler) getPreview(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	collectionID, err := uuid.Parse(r.URL.Query().Get("collection_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "collection_id query parameter is required")
		return
	}

	labels, err := h.service.PreviewItem(r.Context(), userID, itemID, collectionID, h.now())
	if err != nil {
		slog.Error("preview item", "error", err, "user_id", userID, "item_id", itemID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	preview := make(map[string]string, len(labels))
	for rating, label := range labels {
		preview[rating.String()] = label
	}
	writeJSON(w, http.StatusOK, map[string]map[string]string{"preview": preview})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	collectionID, ok := pathID(w, r, "collectionID")
	if !ok {
		return
	}

	studySession, err := h.service.TodaySession(r.Context(), userID, collectionID, h.now())
	if err != nil {
		slog.Error("compose session", "error", err, "user_id", userID, "collection_id", collectionID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]sessionItem, len(studySession.ReviewItems))
	for i, entry := range studySession.ReviewItems {
		items[i] = sessionItem{
			ItemID: entry.ItemID,
			State:  entry.Record.State,
			DueAt:  entry.Record.DueAt,
		}
	}
	newIDs := studySession.NewItemIDs
	if newIDs == nil {
		newIDs = []uuid.UUID{}
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ReviewItems:      items,
		NewItemIDs:       newIDs,
		EstimatedMinutes: studySession.EstimatedMinutes,
		TotalCount:       studySession.TotalCount(),
	})
}

func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	collectionID, ok := pathID(w, r, "collectionID")
	if !ok {
		return
	}

	aggregate, err := h.service.CollectionProgress(r.Context(), userID, collectionID, h.now())
	if err != nil {
		slog.Error("load progress", "error", err, "user_id", userID, "collection_id", collectionID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, aggregate)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
