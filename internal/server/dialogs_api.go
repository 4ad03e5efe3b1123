package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/hanbitworks/backoffice/pkg/dialog"
	"github.com/hanbitworks/backoffice/pkg/draft"
	"github.com/hanbitworks/backoffice/pkg/httperr"
	"github.com/hanbitworks/backoffice/pkg/localid"
)

// DialogOpener builds a dialog session for one record kind. Each
// module's services package contributes one.
type DialogOpener interface {
	Open(ctx context.Context, mode draft.Mode, recordID string) (*dialog.Session, error)
}

// DialogOpenerFactory binds an opener to one HTTP session's draft
// store and acting user.
type DialogOpenerFactory func(drafts *draft.Store, author func(ctx context.Context) string) DialogOpener

// dialogsAPI serves the per-kind dialog endpoints. Open dialogs live
// server-side, keyed by HTTP session id and record kind; opening a
// kind's dialog again replaces the previous one, with any staged
// drafts recovered from the session KV.
type dialogsAPI struct {
	kinds map[string]DialogOpenerFactory
	kv    SessionKVFactory

	mu       sync.Mutex
	sessions map[string]*browserSession
}

type browserSession struct {
	mtx     sync.Mutex
	drafts  *draft.Store
	dialogs map[string]*dialog.Session
}

func (bs *browserSession) dialog(kind string) *dialog.Session {
	bs.mtx.Lock()
	defer bs.mtx.Unlock()
	return bs.dialogs[kind]
}

func (bs *browserSession) setDialog(kind string, s *dialog.Session) {
	bs.mtx.Lock()
	defer bs.mtx.Unlock()
	bs.dialogs[kind] = s
}

func (bs *browserSession) dropDialog(kind string) {
	bs.mtx.Lock()
	defer bs.mtx.Unlock()
	delete(bs.dialogs, kind)
}

func newDialogsAPI(kinds map[string]DialogOpenerFactory, kv SessionKVFactory) *dialogsAPI {
	return &dialogsAPI{
		kinds:    kinds,
		kv:       kv,
		sessions: map[string]*browserSession{},
	}
}

func (api *dialogsAPI) session(sid string) *browserSession {
	api.mu.Lock()
	defer api.mu.Unlock()
	bs, ok := api.sessions[sid]
	if !ok {
		bs = &browserSession{
			drafts:  draft.NewStore(api.kv.KVForSession(sid)),
			dialogs: map[string]*dialog.Session{},
		}
		api.sessions[sid] = bs
	}
	return bs
}

// ServeHTTP routes /api/<kind>/dialog/<op>[/...].
func (api *dialogsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind, rest, ok := splitDialogPath(r.URL.Path)
	if !ok {
		writeError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}
	factory, ok := api.kinds[kind]
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown_kind", "unknown record kind")
		return
	}
	if r.Method != http.MethodPost && !(r.Method == http.MethodGet && rest == "state") {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	sid, ok := currentSessionID(r.Context())
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "session_missing", "session missing")
		return
	}
	bs := api.session(sid)

	if rest == "open" {
		api.handleOpen(w, r, bs, kind, factory)
		return
	}

	s := bs.dialog(kind)
	if s == nil {
		writeError(w, r, http.StatusConflict, "no_dialog", "no open dialog")
		return
	}

	switch {
	case rest == "state":
		writeDialogState(w, s)
	case rest == "field":
		api.handleField(w, r, s)
	case rest == "save":
		api.handleSave(w, r, bs, kind, s)
	case rest == "cancel":
		s.Cancel(r.Context())
		bs.dropDialog(kind)
		writeJSON(w, http.StatusOK, map[string]any{"closed": true})
	case strings.HasPrefix(rest, "collection/"):
		api.handleCollection(w, r, s, strings.TrimPrefix(rest, "collection/"))
	default:
		writeError(w, r, http.StatusNotFound, "not_found", "not found")
	}
}

// splitDialogPath extracts ("education", "collection/curriculum/add")
// from /api/education/dialog/collection/curriculum/add.
func splitDialogPath(path string) (kind string, rest string, ok bool) {
	p := strings.TrimPrefix(path, "/api/")
	if p == path {
		return "", "", false
	}
	parts := strings.SplitN(p, "/", 3)
	if len(parts) < 3 || parts[1] != "dialog" || parts[0] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[0], parts[2], true
}

type openDialogRequest struct {
	Mode     string `json:"mode"`
	RecordID string `json:"record_id"`
}

func (api *dialogsAPI) handleOpen(w http.ResponseWriter, r *http.Request, bs *browserSession, kind string, factory DialogOpenerFactory) {
	var req openDialogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", "bad json")
		return
	}

	var mode draft.Mode
	switch req.Mode {
	case "add":
		mode = draft.ModeAdd
	case "edit":
		mode = draft.ModeEdit
	default:
		writeError(w, r, http.StatusBadRequest, "invalid_mode", "mode must be add or edit")
		return
	}

	opener := factory(bs.drafts, authorFromContext)
	s, err := opener.Open(r.Context(), mode, strings.TrimSpace(req.RecordID))
	if err != nil {
		writeDialogError(w, r, err, "open failed")
		return
	}

	bs.setDialog(kind, s)
	writeDialogState(w, s)
}

type setFieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (api *dialogsAPI) handleField(w http.ResponseWriter, r *http.Request, s *dialog.Session) {
	var req setFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", "bad json")
		return
	}
	if err := s.SetField(req.Name, req.Value); err != nil {
		writeDialogError(w, r, err, "field update failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": s.Fields()})
}

type collectionItemRequest struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
	All   *bool  `json:"all"`
	Page  int    `json:"page"`
}

func (api *dialogsAPI) handleCollection(w http.ResponseWriter, r *http.Request, s *dialog.Session, rest string) {
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		writeError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}
	name, op := parts[0], parts[1]
	col, ok := s.Collection(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown_collection", "unknown collection")
		return
	}

	// add and delete take no parameters; an empty body is fine.
	var req collectionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "bad_json", "bad json")
		return
	}

	switch op {
	case "add":
		item := col.Add(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"item": item, "items": col.Items()})
	case "edit":
		id, err := localid.Parse(req.ID)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_id", "invalid item id")
			return
		}
		if !col.EditField(r.Context(), id, req.Field, req.Value) {
			writeError(w, r, http.StatusNotFound, "item_not_found", "item not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": col.Items()})
	case "select":
		if req.All != nil {
			col.SelectAll(*req.All)
		} else {
			id, err := localid.Parse(req.ID)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, "invalid_id", "invalid item id")
				return
			}
			col.ToggleSelect(id)
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case "delete":
		deleted := col.DeleteSelected(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted, "items": col.Items()})
	case "page":
		n := req.Page
		if n < 1 {
			n = 1
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"page":  n,
			"pages": col.Pages(),
			"items": col.Page(n),
		})
	default:
		writeError(w, r, http.StatusNotFound, "not_found", "not found")
	}
}

func (api *dialogsAPI) handleSave(w http.ResponseWriter, r *http.Request, bs *browserSession, kind string, s *dialog.Session) {
	res, err := s.Save(r.Context())
	if err != nil {
		writeDialogError(w, r, err, "save failed")
		return
	}
	bs.dropDialog(kind)

	warnings := make([]string, 0, len(res.Warnings))
	for _, werr := range res.Warnings {
		warnings = append(warnings, werr.Error())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"record_id": res.RecordID,
		"warnings":  warnings,
	})
}

func writeDialogState(w http.ResponseWriter, s *dialog.Session) {
	collections := map[string]any{}
	for _, c := range s.Collections() {
		collections[c.Name()] = map[string]any{
			"items":     c.Items(),
			"pages":     c.Pages(),
			"page_size": c.PageSize(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":        string(s.Mode()),
		"record_id":   s.RecordID(),
		"fields":      s.Fields(),
		"collections": collections,
	})
}

// writeDialogError maps the typed dialog errors onto stable HTTP
// codes.
func writeDialogError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case httperr.IsValidation(err):
		writeError(w, r, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case httperr.IsBadRequest(err):
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
	case httperr.IsNotFound(err):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	case httperr.IsConflict(err):
		writeError(w, r, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal_error", fallback)
	}
}
