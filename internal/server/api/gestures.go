// Package api provides HTTP API handlers for the mudra gesture recognition system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/arjunv/mudra/internal/gesturestore"
	"github.com/arjunv/mudra/internal/hand"
)

// GestureHandler handles HTTP requests for gesture resources.
type GestureHandler struct {
	store *gesturestore.Store
}

// NewGestureHandler creates a new GestureHandler with the given store.
func NewGestureHandler(s *gesturestore.Store) *GestureHandler {
	return &GestureHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/gestures or /api/gestures/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/gestures")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createGestureRequest struct {
	Name   string      `json:"name"`
	Frames []hand.Hand `json:"frames"`
}

type updateGestureRequest struct {
	Name string `json:"name"`
}

type gestureResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FrameCount int    `json:"frame_count"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type gestureDetailResponse struct {
	gestureResponse
	Frames []hand.Hand `json:"frames"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(r *gesturestore.Record) gestureResponse {
	return gestureResponse{
		ID:         r.ID,
		Name:       r.Name,
		FrameCount: r.FrameCount,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  r.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/gestures and returns every gesture in the library.
func (h *GestureHandler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Gestures().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list gestures")
		return
	}

	response := listGesturesResponse{
		Gestures: make([]gestureResponse, 0, len(records)),
	}
	for _, rec := range records {
		response.Gestures = append(response.Gestures, toResponse(rec))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/gestures/{id} and returns one gesture with its frames.
func (h *GestureHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, gesturestore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}

	writeJSON(w, http.StatusOK, gestureDetailResponse{
		gestureResponse: toResponse(rec),
		Frames:          rec.Frames,
	})
}

// create handles POST /api/gestures and stores a recorded gesture directly
// (the pipeline's stream.ToGesture output, not a landmark sample set).
func (h *GestureHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if len(req.Frames) == 0 {
		writeError(w, http.StatusBadRequest, "At least one frame is required")
		return
	}

	rec, err := h.store.Gestures().Create(req.Name, req.Frames)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create gesture")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(rec))
}

// update handles PUT /api/gestures/{id} and renames a gesture. Frames are
// recorded wholesale by the live pipeline and are not editable here.
func (h *GestureHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updateGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := h.store.Gestures().Rename(id, req.Name); err != nil {
		if errors.Is(err, gesturestore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update gesture")
		return
	}

	rec, err := h.store.Gestures().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get updated gesture")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec))
}

// delete handles DELETE /api/gestures/{id} and removes a gesture.
func (h *GestureHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Gestures().Delete(id); err != nil {
		if errors.Is(err, gesturestore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete gesture")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
