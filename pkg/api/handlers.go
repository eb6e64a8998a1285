package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pidlayout/pkg/buildinfo"
	"github.com/matzehuels/pidlayout/pkg/diagram"
	pkgerrors "github.com/matzehuels/pidlayout/pkg/errors"
	pidio "github.com/matzehuels/pidlayout/pkg/io"
	"github.com/matzehuels/pidlayout/pkg/pipeline"
	"github.com/matzehuels/pidlayout/pkg/preview"
	"github.com/matzehuels/pidlayout/pkg/session"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// LayoutRequest is the body of POST /v1/layout and POST /v1/sessions.
// Input is an input document as accepted by the CLI.
type LayoutRequest struct {
	Input   json.RawMessage  `json:"input"`
	Options pipeline.Options `json:"options"`
}

// RearrangeRequest is the body of POST /v1/rearrange.
type RearrangeRequest struct {
	Diagram  *diagram.Diagram `json:"diagram"`
	Tag      string           `json:"tag"`
	Position diagram.Point    `json:"position"`
	Options  pipeline.Options `json:"options"`
}

// MoveRequest is the body of POST /v1/sessions/{id}/moves.
type MoveRequest struct {
	Tag      string        `json:"tag"`
	Position diagram.Point `json:"position"`
}

// LayoutResponse carries a laid-out diagram.
type LayoutResponse struct {
	SessionID string           `json:"session_id,omitempty"`
	InputHash string           `json:"input_hash,omitempty"`
	Cached    bool             `json:"cached"`
	Diagram   *diagram.Diagram `json:"diagram"`
	Stats     StatsResponse    `json:"stats"`

	// Artifacts holds requested renderings. Text formats are inline;
	// msgpack is base64.
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// StatsResponse summarizes a run.
type StatsResponse struct {
	Equipment   int   `json:"equipment"`
	Routes      int   `json:"routes"`
	Instruments int   `json:"instruments"`
	Annotations int   `json:"annotations"`
	Diagnostics int   `json:"diagnostics"`
	DurationMS  int64 `json:"duration_ms"`
}

// SessionResponse describes a stored session.
type SessionResponse struct {
	ID        string           `json:"id"`
	Moves     int              `json:"moves"`
	ExpiresAt string           `json:"expires_at"`
	Diagram   *diagram.Diagram `json:"diagram"`
}

func newLayoutResponse(res *pipeline.Result) LayoutResponse {
	out := LayoutResponse{
		InputHash: res.InputHash,
		Cached:    res.CacheInfo.DiagramHit,
		Diagram:   res.Diagram,
		Stats: StatsResponse{
			Equipment:   res.Stats.Equipment,
			Routes:      res.Stats.Routes,
			Instruments: res.Stats.Instruments,
			Annotations: res.Stats.Annotations,
			Diagnostics: res.Stats.Diagnostics,
			DurationMS:  (res.Stats.Total() + res.Stats.RenderTime).Milliseconds(),
		},
	}
	if len(res.Artifacts) > 0 {
		out.Artifacts = make(map[string]string, len(res.Artifacts))
		for format, data := range res.Artifacts {
			if format == pipeline.FormatMsgpack {
				out.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
				continue
			}
			out.Artifacts[format] = string(data)
		}
	}
	return out
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(pidio.InputSchema())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.layout(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newLayoutResponse(res))
}

func (s *Server) handleRearrange(w http.ResponseWriter, r *http.Request) {
	var req RearrangeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Diagram == nil || req.Tag == "" {
		s.writeError(w, r, badRequest("diagram and tag are required", nil))
		return
	}

	opts := s.options(req.Options)
	res, err := s.runner(r).Rearrange(r.Context(), req.Diagram, req.Tag, req.Position, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newLayoutResponse(res))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	res, opts, err := s.layout(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(res.Diagram, opts, s.sessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	out := newLayoutResponse(res)
	out.SessionID = sess.ID
	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		ID:        sess.ID,
		Moves:     sess.Moves,
		ExpiresAt: sess.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
		Diagram:   sess.Diagram,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req MoveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Tag == "" {
		s.writeError(w, r, badRequest("tag is required", nil))
		return
	}

	res, err := s.runner(r).Rearrange(r.Context(), sess.Diagram, req.Tag, req.Position, sess.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Update(res.Diagram)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	out := newLayoutResponse(res)
	out.SessionID = sess.ID
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	dot := preview.ToDOT(sess.Diagram, preview.AllLayers)
	switch format := r.URL.Query().Get("format"); format {
	case "", pipeline.FormatSVG:
		svg, err := preview.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	default:
		s.writeError(w, r, pkgerrors.New(pkgerrors.ErrCodeInvalidFormat, "preview format must be svg or dot, got %q", format))
	}
}

// =============================================================================
// Helpers
// =============================================================================

// layout decodes a LayoutRequest and runs the pipeline.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) (*pipeline.Result, pipeline.Options, error) {
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		return nil, pipeline.Options{}, err
	}
	if len(req.Input) == 0 {
		return nil, pipeline.Options{}, badRequest("input is required", nil)
	}
	in, err := pidio.ReadInput(bytes.NewReader(req.Input), pidio.FormatJSON)
	if err != nil {
		return nil, pipeline.Options{}, err
	}

	opts := s.options(req.Options)
	res, err := s.runner(r).Execute(r.Context(), in, opts)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	return res, opts, nil
}

// options fills unset request options from the server defaults.
func (s *Server) options(opts pipeline.Options) pipeline.Options {
	s.defaults.Apply(&opts)
	opts.Logger = nil
	return opts
}

func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, notFound("session " + id + " not found")
	}
	return sess, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body", err)
	}
	return nil
}
