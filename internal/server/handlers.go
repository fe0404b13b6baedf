package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/swipestack/pkg/deck"
	serrors "github.com/matzehuels/swipestack/pkg/errors"
	"github.com/matzehuels/swipestack/pkg/sink"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeOptional(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	cfg, params, err := req.apply(s.settings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	labels := req.Labels
	if labels == nil {
		labels = s.settings.Labels
	}
	labels = fillLabels(labels, cfg.Items())

	sess, err := s.sessions.create(s.ctx, cfg, params, labels, s.interval)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("session created", "id", sess.id, "visible", cfg.VisibleCount, "items", cfg.Items())
	writeJSON(w, http.StatusCreated, createResponse{ID: sess.id.String(), Top: sess.view().Top})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.id.String(), view: sess.view()})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dragStart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var accepted bool
	sess.driver.Do(func(c *swipe.Controller) {
		target := c.Top()
		if req.Target != nil {
			target = *req.Target
		}
		accepted = c.DragStart(swipe.Point{X: req.X, Y: req.Y}, target)
	})
	writeJSON(w, http.StatusOK, dragResponse{Accepted: accepted, view: sess.view()})
}

func (s *Server) dragUpdate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sess.driver.Do(func(c *swipe.Controller) {
		c.DragUpdate(swipe.Point{X: req.X, Y: req.Y})
	})
	writeJSON(w, http.StatusOK, sess.view())
}

func (s *Server) dragEnd(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req releaseRequest
	if err := decodeOptional(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	var out swipe.Outcome
	sess.driver.Do(func(c *swipe.Controller) {
		out = c.DragEnd(req.Velocity)
	})
	writeJSON(w, http.StatusOK, outcomeResponse{Outcome: out.String(), view: sess.view()})
}

func (s *Server) swipe(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req swipeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	dir, err := parseDirection(req.Direction)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var out swipe.Outcome
	sess.driver.Do(func(c *swipe.Controller) {
		if dir == deck.Forward {
			out = c.SwipeForward()
		} else {
			out = c.SwipeBackward()
		}
	})
	writeJSON(w, http.StatusOK, outcomeResponse{Outcome: out.String(), view: sess.view()})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.driver.Do(func(c *swipe.Controller) { c.Reset() })
	writeJSON(w, http.StatusOK, sess.view())
}

func (s *Server) frame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	layers, err := sess.layers()
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := frameResponse{Layers: make([]layerResponse, len(layers))}
	for i, l := range layers {
		resp.Layers[i] = layerResponse{Placement: l.Placement, Label: l.Content}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) frameSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	svg := sink.RenderSVG(sess.placements(),
		sink.WithCard(sess.width, sess.height),
		sink.WithLabels(sess.labels),
	)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

// writeError maps error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := serrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case serrors.ErrCodeInvalidConfig, serrors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case serrors.ErrCodeNotFound:
		status = http.StatusNotFound
	}

	msg := serrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("internal error", "error", err)
		code, msg = serrors.ErrCodeInternal, "internal error"
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// decodeOptional is decode that accepts an empty body.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := decode(r, v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func parseDirection(s string) (deck.Direction, error) {
	switch s {
	case "forward":
		return deck.Forward, nil
	case "backward":
		return deck.Backward, nil
	}
	return 0, serrors.New(serrors.ErrCodeInvalidInput, "direction must be forward or backward, got %q", s)
}

// fillLabels pads labels up to n with "#id" defaults.
func fillLabels(labels []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		if i < len(labels) && labels[i] != "" {
			out[i] = labels[i]
		} else {
			out[i] = fmt.Sprintf("#%d", i)
		}
	}
	return out
}
