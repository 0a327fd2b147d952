package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/snapline/pkg/align"
	"github.com/matzehuels/snapline/pkg/assist"
	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/geometry"
	"github.com/matzehuels/snapline/pkg/learning"
	"github.com/matzehuels/snapline/pkg/scene"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"profile": s.profile,
	})
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid json")
	}
	return nil
}

func readScene(raw json.RawMessage) (*scene.Scene, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scene required")
	}
	return scene.ReadJSON(bytes.NewReader(raw))
}

type evaluateRequest struct {
	Scene json.RawMessage `json:"scene"`
	assist.Request
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sc, err := readScene(req.Scene)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	res := s.engine.Evaluate(r.Context(), sc, req.Request)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sc, err := scene.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	analysis := s.engine.Analyze(sc)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, analysis)
}

type selectionRequest struct {
	Scene json.RawMessage        `json:"scene"`
	IDs   []geometry.ComponentID `json:"ids"`
	Op    string                 `json:"op,omitempty"`
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sc, err := readScene(req.Scene)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	guides, targets := s.engine.Distribute(sc, req.IDs)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"guides":    guides,
		"positions": targets,
	})
}

func (s *Server) handleArrange(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	op, err := align.ParseOperation(req.Op)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "op"))
		return
	}
	sc, err := readScene(req.Scene)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	positions := s.engine.Arrange(sc, req.IDs, op)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"positions": positions})
}

func (s *Server) handleRecordActivation(w http.ResponseWriter, r *http.Request) {
	var a learning.Activation
	if err := decodeBody(w, r, &a); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	updated := s.engine.RecordActivation(r.Context(), a)
	persisted := s.persist(r.Context())

	writeJSON(w, http.StatusCreated, map[string]any{
		"preferences_updated": updated,
		"total_activations":   s.engine.Statistics().TotalActivations,
		"persisted":           persisted,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var c learning.Context
	for _, p := range []struct {
		key string
		dst *float64
	}{
		{"canvas_width", &c.CanvasSize.W},
		{"canvas_height", &c.CanvasSize.H},
		{"zoom", &c.ZoomLevel},
	} {
		if v := q.Get(p.key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", p.key))
				return
			}
			*p.dst = f
		}
	}
	if v := q.Get("component_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "component_count must be a non-negative integer"))
			return
		}
		c.ComponentCount = n
	}

	s.mu.Lock()
	rec := s.engine.Recommendations(c)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.engine.Statistics()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleExportLearning(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.engine.ExportLearningData()
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleImportLearning(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.ImportLearningData(r.Context(), data); err != nil {
		writeError(w, err)
		return
	}
	persisted := s.persist(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"total_activations": s.engine.Statistics().TotalActivations,
		"persisted":         persisted,
	})
}

func (s *Server) handleResetLearning(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.ResetLearning()
	persisted := s.persist(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{"persisted": persisted})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	settings := s.engine.Settings()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// fields missing from the body keep their current value
	settings := s.engine.Settings()
	if err := decodeBody(w, r, &settings); err != nil {
		writeError(w, err)
		return
	}
	s.engine.Configure(settings)

	writeJSON(w, http.StatusOK, s.engine.Settings())
}
