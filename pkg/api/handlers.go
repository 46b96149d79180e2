package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storyreel/reelgraph/pkg/canvas"
	rgerrors "github.com/storyreel/reelgraph/pkg/errors"
	"github.com/storyreel/reelgraph/pkg/layout"
	"github.com/storyreel/reelgraph/pkg/store"
	"github.com/storyreel/reelgraph/pkg/timeline"
)

// maxBodyBytes bounds request bodies; a canvas is a node list, not media.
const maxBodyBytes = 4 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListCanvases(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, rgerrors.Wrap(rgerrors.ErrCodeStore, err, "list canvases"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"canvases": infos})
}

func (s *Server) handlePutCanvas(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "canvasID")
	doc, ok := s.decodeCanvas(w, r)
	if !ok {
		return
	}
	doc.ID = id

	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, rgerrors.Wrap(rgerrors.ErrCodeStore, err, "store canvas %s", id))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "nodes": len(doc.Nodes), "hash": doc.Hash()})
}

func (s *Server) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadCanvas(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, doc.Normalize())
}

func (s *Server) handleDeleteCanvas(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "canvasID")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, rgerrors.Wrap(rgerrors.ErrCodeStore, err, "delete canvas %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCanvasLayout(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadCanvas(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, layout.Compute(doc.Nodes))
}

func (s *Server) handleCanvasTimeline(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadCanvas(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, timeline.Project(doc.Nodes))
}

func (s *Server) handlePostLayout(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeCanvas(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, layout.Compute(doc.Nodes))
}

func (s *Server) handlePostTimeline(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeCanvas(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, timeline.Project(doc.Nodes))
}

// handlePostDropZone resolves the insertion zone for a cursor position
// against the posted canvas's freshly computed layout.
func (s *Server) handlePostDropZone(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		s.writeError(w, rgerrors.New(rgerrors.ErrCodeInvalidInput, "query params x and y must be numbers"))
		return
	}

	doc, ok := s.decodeCanvas(w, r)
	if !ok {
		return
	}
	zone := layout.ResolveZone(x, y, layout.Compute(doc.Nodes))
	s.writeJSON(w, http.StatusOK, zone)
}

// loadCanvas fetches the canvas named in the URL, writing the error
// response on failure.
func (s *Server) loadCanvas(w http.ResponseWriter, r *http.Request) (canvas.Document, bool) {
	id := chi.URLParam(r, "canvasID")
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, rgerrors.New(rgerrors.ErrCodeCanvasNotFound, "canvas %s not found", id))
		} else {
			s.writeError(w, rgerrors.Wrap(rgerrors.ErrCodeStore, err, "load canvas %s", id))
		}
		return canvas.Document{}, false
	}
	return doc, true
}

// decodeCanvas parses a canvas document from the request body, writing
// the error response on failure.
func (s *Server) decodeCanvas(w http.ResponseWriter, r *http.Request) (canvas.Document, bool) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var doc canvas.Document
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		s.writeError(w, rgerrors.Wrap(rgerrors.ErrCodeInvalidCanvas, err, "decode canvas body"))
		return canvas.Document{}, false
	}
	return doc, true
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    rgerrors.Code `json:"code"`
	Message string        `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err *rgerrors.Error) {
	status := statusFor(err.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", err.Code, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Code: err.Code, Message: rgerrors.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code rgerrors.Code) int {
	switch code {
	case rgerrors.ErrCodeInvalidInput, rgerrors.ErrCodeInvalidCanvas,
		rgerrors.ErrCodeInvalidManifest, rgerrors.ErrCodeInvalidAnchor,
		rgerrors.ErrCodeInvalidNodeType, rgerrors.ErrCodeInvalidRate,
		rgerrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case rgerrors.ErrCodeNotFound, rgerrors.ErrCodeCanvasNotFound, rgerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
