// Package server exposes the planner over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/barcut/internal/archive"
	"github.com/piwi3910/barcut/internal/config"
	"github.com/piwi3910/barcut/internal/engine"
	"github.com/piwi3910/barcut/internal/export"
	"github.com/piwi3910/barcut/internal/logger"
	"github.com/piwi3910/barcut/internal/model"
)

// Archive is the part of archive.Store the server needs.
type Archive interface {
	Record(ctx context.Context, plan model.Plan) (string, error)
	Recent(ctx context.Context, limit int) ([]archive.Entry, error)
}

// Server serves the planning endpoints. Config is read from the snapshot on
// every request, so reloads apply without a restart.
type Server struct {
	snap  *config.Snapshot
	store Archive
	mux   *http.ServeMux

	srv *http.Server
	ln  net.Listener
}

// New creates a server. store may be nil, which disables /history and recording.
func New(snap *config.Snapshot, store Archive) *Server {
	s := &Server{snap: snap, store: store, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /optimize", s.handleOptimize)
	s.mux.HandleFunc("POST /download_pdf", s.handleDownloadPDF)
	s.mux.HandleFunc("POST /labels", s.handleLabels)
	s.mux.HandleFunc("POST /download_xlsx", s.handleDownloadXLSX)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /history", s.handleHistory)
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return withRequestLog(s.mux)
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	cfg := s.snap.Get().Server
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", cfg.Addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("serve failed", "err", err)
		}
	}()
	logger.Info("listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// plan decodes the request body and runs the planner. On failure it has
// already written the error response and returns false.
func (s *Server) plan(w http.ResponseWriter, r *http.Request) (model.Plan, bool) {
	cfg := s.snap.Get()

	req, status, err := decodeRequest(w, r, cfg.Server.MaxBodyBytes)
	if err != nil {
		writeError(w, status, err.Error())
		return model.Plan{}, false
	}

	plan, err := engine.New(cfg.Settings()).Optimize(req)
	if err != nil {
		if engine.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			logger.Error("planning failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return model.Plan{}, false
	}

	if s.store != nil {
		if id, err := s.store.Record(r.Context(), plan); err != nil {
			logger.Warn("archive record failed", "err", err)
		} else {
			logger.Debug("plan archived", "id", id)
		}
	}
	return plan, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, limit int64) (model.OptimizeRequest, int, error) {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req model.OptimizeRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return req, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return req, http.StatusBadRequest, errors.New("request body is empty")
		default:
			return req, http.StatusBadRequest, fmt.Errorf("malformed JSON: %v", err)
		}
	}
	if dec.More() {
		return req, http.StatusBadRequest, errors.New("malformed JSON: trailing data after object")
	}
	return req, 0, nil
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.plan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, model.NewOptimizeResponse(plan, engine.FormatBars(plan)))
}

func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.plan(w, r)
	if !ok {
		return
	}
	opts := export.ReportOptions{
		Title:   s.snap.Get().Report.Title,
		Offcuts: model.DetectOffcuts(plan, model.MinOffcutLength, 0),
	}
	s.writeFile(w, "application/pdf", "cutting_report.pdf", func(buf io.Writer) error {
		return export.WritePDF(buf, plan, opts)
	})
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.plan(w, r)
	if !ok {
		return
	}
	s.writeFile(w, "application/pdf", "labels.pdf", func(buf io.Writer) error {
		return export.WriteLabels(buf, plan)
	})
}

func (s *Server) handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.plan(w, r)
	if !ok {
		return
	}
	const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	s.writeFile(w, xlsxType, "cut_sheet.xlsx", func(buf io.Writer) error {
		return export.WriteXLSX(buf, plan)
	})
}

// writeFile renders into memory first so a render failure still gets a JSON error.
func (s *Server) writeFile(w http.ResponseWriter, contentType, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logger.Error("render failed", "file", filename, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to render "+filename)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "archive is disabled")
		return
	}
	limit := archive.DefaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	entries, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		logger.Error("history query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// statusRecorder captures the status code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
