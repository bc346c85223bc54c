package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
	"github.com/erazemk/katalog/internal/workflow"
)

// RequestsHandler handles item-request endpoints for regular users.
type RequestsHandler struct {
	DB *sql.DB
}

type createRequestRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type appealRequestRequest struct {
	Message string `json:"message"`
}

// Create handles POST /api/requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := workflow.CreateRequest(r.Context(), h.DB, actor(r), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

// Mine handles GET /api/requests/mine.
func (h *RequestsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListRequestsByUser(r.Context(), h.DB, actor(r).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		requests = []model.ItemRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Appeal handles POST /api/requests/{id}/appeal.
func (h *RequestsHandler) Appeal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req appealRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := workflow.AppealRequest(r.Context(), h.DB, actor(r), id, req.Message); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// AdminRequestsHandler handles item-request adjudication (admin only).
type AdminRequestsHandler struct {
	DB *sql.DB
}

type denyRequestRequest struct {
	Reason string `json:"reason"`
}

// List handles GET /api/admin/requests.
func (h *AdminRequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListRequests(r.Context(), h.DB)
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		requests = []model.ItemRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Approve handles POST /api/admin/requests/{id}/approve.
func (h *AdminRequestsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	itemID, err := workflow.ApproveRequest(r.Context(), h.DB, actor(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"request_id": id, "new_item_id": itemID})
}

// Deny handles POST /api/admin/requests/{id}/deny.
func (h *AdminRequestsHandler) Deny(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req denyRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := workflow.DenyRequest(r.Context(), h.DB, actor(r), id, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"denied": true})
}
