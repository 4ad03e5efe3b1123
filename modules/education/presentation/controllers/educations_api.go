package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hanbitworks/backoffice/modules/education/domain/ports"
	"github.com/hanbitworks/backoffice/modules/education/domain/types"
	"github.com/hanbitworks/backoffice/pkg/httperr"
)

// EducationsController serves the read side of education records; all
// writes go through the dialog API.
type EducationsController struct {
	Store ports.EducationStore
}

// HandleEducationsAPI routes GET /api/education/records and
// GET /api/education/records/{id}.
func (c EducationsController) HandleEducationsAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/education/records")
	id = strings.TrimPrefix(id, "/")
	if id == "" {
		records, err := c.Store.ListEducations(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "internal_error", "list failed")
			return
		}
		if records == nil {
			records = make([]types.Education, 0)
		}
		writeJSON(w, http.StatusOK, map[string]any{"records": records})
		return
	}

	record, err := c.Store.GetEducation(r.Context(), id)
	if err != nil {
		if httperr.IsNotFound(err) {
			writeError(w, r, http.StatusNotFound, "not_found", "education not found")
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
