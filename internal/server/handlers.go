package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tornado/pkg/buildinfo"
	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/errors"
	"github.com/matzehuels/tornado/pkg/observability"
	"github.com/matzehuels/tornado/pkg/pipeline"
	"github.com/matzehuels/tornado/pkg/session"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
	"github.com/matzehuels/tornado/pkg/tornado/sink"
)

// =============================================================================
// Request and response types
// =============================================================================

type viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type renderOptions struct {
	Format      string  `json:"format,omitempty"`
	Selected    *int    `json:"selected,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	Tooltips    bool    `json:"tooltips,omitempty"`
	EmbedFont   bool    `json:"embed_font,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

type renderRequest struct {
	Data     *dataview.DataView `json:"data"`
	Settings json.RawMessage    `json:"settings,omitempty"`
	Viewport viewport           `json:"viewport"`
	Options  renderOptions      `json:"options"`
}

type createRequest struct {
	Data     *dataview.DataView `json:"data"`
	Settings json.RawMessage    `json:"settings,omitempty"`
	Viewport viewport           `json:"viewport"`
}

type clickRequest struct {
	// Index is the clicked column; null means a background click.
	Index *int `json:"index"`
}

type chartResponse struct {
	ID        string        `json:"id"`
	ExpiresAt time.Time     `json:"expires_at"`
	Document  sink.Document `json:"document"`
}

// =============================================================================
// Helpers
// =============================================================================

// parseSettings applies a partial JSON settings object over the defaults.
func parseSettings(raw json.RawMessage) (settings.Settings, error) {
	s := settings.Default()
	if len(raw) == 0 || string(raw) == "null" {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return settings.Settings{}, errors.Wrap(errors.ErrCodeInvalidSettings, err, "decode settings")
	}
	if err := s.Validate(); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

func (v viewport) resolve() (layout.Viewport, error) {
	vp := layout.Viewport{Width: v.Width, Height: v.Height}
	if vp.Width == 0 {
		vp.Width = pipeline.DefaultWidth
	}
	if vp.Height == 0 {
		vp.Height = pipeline.DefaultHeight
	}
	if err := errors.ValidateViewport(vp.Width, vp.Height); err != nil {
		return layout.Viewport{}, err
	}
	return vp, nil
}

func requireData(dv *dataview.DataView) error {
	if dv == nil {
		return errors.New(errors.ErrCodeMissingData, "request has no data")
	}
	return nil
}

func document(f tornado.Frame) sink.Document {
	idx, ok := f.Selection.Index()
	return sink.NewDocument(f.Layout, sink.WithJSONModel(f.Model), sink.WithJSONSelection(idx, ok))
}

func chartResponseFor(sess *session.Session, v *tornado.Visual) chartResponse {
	return chartResponse{ID: sess.ID, ExpiresAt: sess.ExpiresAt, Document: document(v.Frame())}
}

// withSession loads a session, restores its Visual and runs fn. When write
// is set, the updated session is stored back with a refreshed expiry.
func (s *Server) withSession(r *http.Request, write bool, fn func(*session.Session, *tornado.Visual) error) (*session.Session, *tornado.Visual, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := r.Context()
	sess, err := s.cfg.Store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return nil, nil, err
	}
	v := sess.Restore(s.visualOptions()...)
	if fn != nil {
		if err := fn(sess, v); err != nil {
			return nil, nil, err
		}
	}
	if write {
		sess.Record(v)
		sess.Touch(s.cfg.SessionTTL)
		if err := s.cfg.Store.Set(ctx, sess); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "store session")
		}
	}
	return sess, v, nil
}

func (s *Server) visualOptions() []tornado.Option {
	return []tornado.Option{tornado.WithMeasurer(s.measurer), tornado.WithLogger(s.cfg.Logger)}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireData(req.Data); err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := parseSettings(req.Settings)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	vp, err := req.Viewport.resolve()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := req.Options.Format
	if format == "" {
		format = pipeline.FormatSVG
	}

	res, err := s.cfg.Runner.ExecuteData(r.Context(), req.Data, pipeline.Options{
		Settings:    &st,
		Width:       vp.Width,
		Height:      vp.Height,
		Selected:    req.Options.Selected,
		Formats:     []string{format},
		Interactive: req.Options.Interactive,
		Tooltips:    req.Options.Tooltips,
		EmbedFont:   req.Options.EmbedFont,
		Scale:       req.Options.Scale,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format])
}

func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireData(req.Data); err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := parseSettings(req.Settings)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	vp, err := req.Viewport.resolve()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(req.Data, &st, vp, s.cfg.SessionTTL)
	v := sess.Restore(s.visualOptions()...)
	if err := s.cfg.Store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	observability.Charts().OnChartCreated(r.Context(), sess.ID, req.Data.Rows())
	w.Header().Set("Location", "/api/v1/charts/"+sess.ID)
	writeJSON(w, http.StatusCreated, chartResponseFor(sess, v))
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	sess, v, err := s.withSession(r, false, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chartResponseFor(sess, v))
}

func (s *Server) handleDeleteChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.cfg.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Charts().OnChartDeleted(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, v, err := s.withSession(r, true, func(_ *session.Session, v *tornado.Visual) error {
		if req.Index == nil {
			v.ClickBackground()
		} else {
			v.Click(*req.Index)
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Charts().OnSelectionChanged(r.Context(), sess.ID, v.Selection().String())
	writeJSON(w, http.StatusOK, chartResponseFor(sess, v))
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req viewport
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	vp, err := req.resolve()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, v, err := s.withSession(r, true, func(sess *session.Session, v *tornado.Visual) error {
		sess.Viewport = vp
		v.Update(sess.Data, sess.Settings, vp)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chartResponseFor(sess, v))
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	object := chi.URLParam(r, "object")
	if !slices.Contains(settings.Objects, object) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "unknown settings object %q", object))
		return
	}
	_, v, err := s.withSession(r, false, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Settings(object))
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "column"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "column index"))
		return
	}
	_, v, err := s.withSession(r, false, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cols := v.Frame().Layout.Columns
	if i < 0 || i >= len(cols) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "column %d out of range (0..%d)", i, len(cols)-1))
		return
	}
	writeJSON(w, http.StatusOK, cols[i].Tooltip)
}

func (s *Server) handleRenderChart(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	_, v, err := s.withSession(r, false, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:     []string{format},
		Interactive: q.Get("interactive") == "true",
		Tooltips:    q.Get("tooltips") == "true",
		EmbedFont:   q.Get("embed_font") == "true",
	}
	if sc := q.Get("scale"); sc != "" {
		scale, err := strconv.ParseFloat(sc, 64)
		if err != nil || scale <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", sc))
			return
		}
		opts.Scale = scale
	}

	artifacts, err := s.cfg.Runner.Render(r.Context(), document(v.Frame()), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}
