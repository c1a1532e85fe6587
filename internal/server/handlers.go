package server

import (
	"encoding/json"
	"net/http"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-chi/chi/v5"

	"github.com/paramedit/paramedit/pkg/types"
)

// sessionView is the response body for session endpoints.
type sessionView struct {
	Session *types.SessionInfo `json:"session"`
	Params  []*types.Parameter `json:"params"`
}

// openSession handles POST /session.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Open(r.Context())
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView{
		Session: sess.Info(),
		Params:  sess.Working().All(),
	})
}

// getSession handles GET /session.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess := s.service.Current()
	if sess == nil {
		writeError(w, http.StatusConflict, string(types.ErrCodeSessionClosed), "no open session")
		return
	}
	writeJSON(w, http.StatusOK, sessionView{
		Session: sess.Info(),
		Params:  sess.Working().All(),
	})
}

type navigateRequest struct {
	Direction types.Direction `json:"direction,omitempty"`
	Focus     string          `json:"focus,omitempty"`
}

// navigate handles POST /session/navigate. Either a direction or an explicit
// focus target may be given.
func (s *Server) navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	sess := s.service.Current()
	if sess == nil {
		writeError(w, http.StatusConflict, string(types.ErrCodeSessionClosed), "no open session")
		return
	}

	var err error
	switch {
	case req.Focus != "":
		err = sess.Focus(req.Focus)
	case req.Direction == types.DirectionNext || req.Direction == types.DirectionPrev:
		err = sess.Navigate(req.Direction)
	default:
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "direction or focus required")
		return
	}
	if err != nil {
		writeEditError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"session": sess.Info()})
}

type previewRequest struct {
	// Name is optional; empty targets the focused record.
	Name  string      `json:"name,omitempty"`
	Field types.Field `json:"field"`
	Value string      `json:"value"`
}

// previewEdit handles POST /session/preview.
func (s *Server) previewEdit(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "field required")
		return
	}

	param, err := s.service.OnFieldChanged(r.Context(), req.Name, req.Field, req.Value)
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"param": param})
}

type addParameterRequest struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Unit       string `json:"unit,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

// addParameter handles POST /session/params.
func (s *Server) addParameter(w http.ResponseWriter, r *http.Request) {
	var req addParameterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Expression == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "name and expression required")
		return
	}

	sess := s.service.Current()
	if sess == nil {
		writeError(w, http.StatusConflict, string(types.ErrCodeSessionClosed), "no open session")
		return
	}

	param, err := sess.AddParameter(r.Context(), req.Name, req.Expression, req.Unit, req.Comment)
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"param": param})
}

// deleteParameter handles DELETE /session/params/{name}.
func (s *Server) deleteParameter(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	sess := s.service.Current()
	if sess == nil {
		writeError(w, http.StatusConflict, string(types.ErrCodeSessionClosed), "no open session")
		return
	}

	if err := sess.DeleteParameter(r.Context(), name); err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// commitSession handles POST /session/commit.
func (s *Server) commitSession(w http.ResponseWriter, r *http.Request) {
	set, summary, err := s.service.Commit(r.Context())
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"params":  set.All(),
		"summary": summary,
	})
}

// cancelSession handles POST /session/cancel.
func (s *Server) cancelSession(w http.ResponseWriter, r *http.Request) {
	set, issues, err := s.service.Cancel(r.Context())
	if err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"params": set.All(),
		"issues": issues,
	})
}

// listParameters handles GET /params: the host's current parameters, outside
// any session. An optional filter query is matched against names as a glob.
func (s *Server) listParameters(w http.ResponseWriter, r *http.Request) {
	set, err := s.service.Host().List(r.Context())
	if err != nil {
		writeEditError(w, types.WrapHostError("", err))
		return
	}

	params := set.All()
	if pattern := r.URL.Query().Get("filter"); pattern != "" {
		if !doublestar.ValidatePattern(pattern) {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid filter pattern")
			return
		}
		filtered := params[:0]
		for _, p := range params {
			if ok, _ := doublestar.Match(pattern, p.Name); ok {
				filtered = append(filtered, p)
			}
		}
		params = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{"params": params})
}
