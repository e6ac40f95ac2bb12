// Package server serves the interactive justification page and its JSON API
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/forensia/internal/controller"
	"github.com/ppiankov/forensia/internal/model"
	"github.com/ppiankov/forensia/internal/worker"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html.tmpl").ParseFS(templateFS, "templates/index.html.tmpl"))

// Server wires sessions, the generate limiter and the handlers into net/http
type Server struct {
	cfg      model.ServerConfig
	sessions *SessionManager
	limiter  *worker.Limiter
	logger   *zap.Logger
	mux      *http.ServeMux
}

// New creates a server. A nil logger disables logging.
func New(cfg model.ServerConfig, service controller.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		cfg:      cfg,
		sessions: NewSessionManager(cfg.SessionTTL, service, logger),
		limiter:  worker.NewLimiter(cfg.GenerateRate, cfg.GenerateBurst, cfg.SessionTTL),
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /{$}", s.handleForm)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/radar", s.handleRadar)
	s.mux.HandleFunc("POST /api/features", s.handleFeatures)
	s.mux.HandleFunc("POST /api/classification", s.handleClassification)
	s.mux.HandleFunc("POST /api/generate", s.handleGenerate)
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Sessions exposes the session manager
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// ListenAndServe serves until ctx ends, then drains in-flight requests
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	s.renderPage(w, sess)
}

// handleForm is the no-script path: the page posts its whole form here
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}

	for _, rg := range model.FeatureRanges() {
		if v := r.PostForm.Get(string(rg.Field)); v != "" {
			if err := applyFeature(sess, string(rg.Field), v); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
	}
	if v := r.PostForm.Get(string(model.FieldLanguage)); v != "" {
		if err := applyFeature(sess, string(model.FieldLanguage), v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if v := r.PostForm.Get("classification"); v != "" {
		c, err := model.ParseClassification(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sess.Selector.Select(c)
	}

	if r.PostForm.Get("action") == "generate" {
		if !s.allowGenerate(r) {
			writeError(w, http.StatusTooManyRequests, "too many generate requests")
			return
		}
		// Without script the page can only show a settled result
		if _, err := sess.Controller.GenerateAndWait(r.Context()); err != nil {
			s.logger.Debug("page generate abandoned", zap.String("session", sess.ID), zap.Error(err))
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	writeJSON(w, http.StatusOK, newStateResponse(sess))
}

func (s *Server) handleRadar(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	writeJSON(w, http.StatusOK, newStateResponse(sess).Radar)
}

type featureRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)

	var req featureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	// Numbers and strings are both accepted
	value := string(req.Value)
	var str string
	if err := json.Unmarshal(req.Value, &str); err == nil {
		value = str
	}

	if err := applyFeature(sess, req.Field, value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(sess))
}

type classificationRequest struct {
	Classification string `json:"classification"`
}

func (s *Server) handleClassification(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)

	var req classificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	c, err := model.ParseClassification(req.Classification)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Selector.Select(c)
	writeJSON(w, http.StatusOK, newStateResponse(sess))
}

// handleGenerate starts a request and answers with the Pending state, or
// with the settled state when ?wait=true
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)

	if !s.allowGenerate(r) {
		writeError(w, http.StatusTooManyRequests, "too many generate requests")
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		if _, err := sess.Controller.GenerateAndWait(r.Context()); err != nil {
			s.logger.Debug("generate wait abandoned", zap.String("session", sess.ID), zap.Error(err))
		}
		writeJSON(w, http.StatusOK, newStateResponse(sess))
		return
	}

	sess.Controller.Generate(r.Context())
	writeJSON(w, http.StatusAccepted, newStateResponse(sess))
}

func (s *Server) allowGenerate(r *http.Request) bool {
	return s.limiter.Allow(clientIP(r))
}

func (s *Server) renderPage(w http.ResponseWriter, sess *Session) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, newPageView(sess)); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

func applyFeature(sess *Session, field, value string) error {
	u, err := model.ParseFeatureUpdate(field, value)
	if err != nil {
		return err
	}
	sess.Features.Update(u)
	return nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeJSON encodes before writing the header so a value that cannot be
// encoded turns into a 500 instead of an empty 200
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(map[string]string{"status": "error", "message": "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}
