package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hanbitworks/backoffice/modules/swasset/domain/ports"
	"github.com/hanbitworks/backoffice/modules/swasset/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
)

type SWAssetsController struct {
	Store ports.SWAssetStore
}

// HandleSWAssetsAPI routes GET /api/swasset/records and
// GET /api/swasset/records/{id}.
func (c SWAssetsController) HandleSWAssetsAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/swasset/records")
	id = strings.TrimPrefix(id, "/")
	if id == "" {
		records, err := c.Store.ListSWAssets(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "internal_error", "list failed")
			return
		}
		if records == nil {
			records = make([]types.SWAsset, 0)
		}
		writeJSON(w, http.StatusOK, map[string]any{"records": records})
		return
	}

	record, err := c.Store.GetSWAsset(r.Context(), id)
	if err != nil {
		if httperr.IsNotFound(err) {
			writeError(w, r, http.StatusNotFound, "not_found", "software asset not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal_error", "get failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"record": record})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Method  string `json:"method"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	writeJSON(w, status, errorEnvelope{
		Code:    code,
		Message: message,
		Path:    r.URL.Path,
		Method:  r.Method,
	})
}
