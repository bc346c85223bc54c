package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

// AuditHandler exposes the audit ledger to admins.
type AuditHandler struct {
	DB *sql.DB
}

// List handles GET /api/admin/audit.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := store.ListAuditRecords(r.Context(), h.DB, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []model.AuditRecord{}
	}
	jsonResponse(w, http.StatusOK, records)
}
