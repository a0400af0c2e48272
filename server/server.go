// Package server is a reference task backend for local development and
// end-to-end tests. It serves the same REST surface the client speaks.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/amonks/tasktrack/insight"
	"github.com/amonks/tasktrack/task"
)

const (
	shutdownTimeout = 5 * time.Second
	suggestTimeout  = 60 * time.Second
	maxBodyBytes    = 1 << 20
)

// Options configures a Server.
type Options struct {
	Store *Store
	// Suggester answers POST /ai/suggest. Requests fail with 503 when nil.
	Suggester insight.Suggester
	// Legacy emits the older wire format: "pending" for in-progress tasks
	// and "_id" instead of "id".
	Legacy bool
	Logger *log.Logger
}

// Server handles task requests.
type Server struct {
	store     *Store
	suggester insight.Suggester
	legacy    bool
	logger    *log.Logger
}

// New creates a server. A memory-only store is used when none is given.
func New(opts Options) (*Server, error) {
	store := opts.Store
	if store == nil {
		created, err := OpenStore(StoreOptions{})
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		store = created
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "tt serve: ", log.LstdFlags)
	}
	return &Server{
		store:     store,
		suggester: opts.Suggester,
		legacy:    opts.Legacy,
		logger:    logger,
	}, nil
}

// Handler returns the HTTP handler for the task API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", s.handleList)
	mux.HandleFunc("POST /tasks", s.handleCreate)
	mux.HandleFunc("GET /tasks/{id}", s.handleGet)
	mux.HandleFunc("PATCH /tasks/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /tasks/{id}", s.handleDelete)
	mux.HandleFunc("POST /ai/suggest", s.handleSuggest)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s.recoverHandler(mux)
}

// Serve runs the server on addr until interrupted.
func (s *Server) Serve(addr string) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  s.Handler(),
		ErrorLog: s.logger,
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	s.logf("listening on %s", addr)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("server stopped: %v", err)
			return err
		}
		return nil
	case <-interrupts:
		s.logf("interrupt received, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := task.Filter{Query: query.Get("q")}
	if raw := query.Get("status"); raw != "" {
		status, err := task.NormalizeStatus(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		filter.Status = status
	}
	if raw := query.Get("focus"); raw != "" {
		focus, err := task.NormalizeFocus(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		filter.Focus = focus
	}
	s.writeTasks(w, http.StatusOK, s.store.List(filter))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeTask(w, http.StatusOK, item)
}

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Focus       string     `json:"focus"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	status, err := task.NormalizeStatus(req.Status)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	focus, err := task.NormalizeFocus(req.Focus)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	created, err := s.store.Create(task.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Focus:       focus,
		Status:      status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeTask(w, http.StatusCreated, created)
}

// nullableTime records whether a JSON field was present, so that an
// explicit null can be told apart from an omitted field.
type nullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *nullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var value time.Time
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("%w: %v", task.ErrInvalidDueDate, err)
	}
	n.Value = &value
	return nil
}

type updateRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Focus       *string      `json:"focus"`
	Status      *string      `json:"status"`
	Reason      string       `json:"reason"`
	DelayReason *string      `json:"delay_reason"`
	DueDate     nullableTime `json:"due_date"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	upd := Update{
		Title:       req.Title,
		Description: req.Description,
		Reason:      req.Reason,
		DelayReason: req.DelayReason,
		DueDate:     req.DueDate.Value,
		SetDueDate:  req.DueDate.Set,
	}
	if req.Status != nil {
		status, err := task.NormalizeStatus(*req.Status)
		if err != nil {
			s.writeError(w, r, http.StatusUnprocessableEntity, err)
			return
		}
		upd.Status = &status
	}
	if req.Focus != nil {
		focus, err := task.NormalizeFocus(*req.Focus)
		if err != nil {
			s.writeError(w, r, http.StatusUnprocessableEntity, err)
			return
		}
		upd.Focus = &focus
	}

	updated, err := s.store.Update(r.PathValue("id"), upd)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeTask(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type suggestRequest struct {
	Tasks []task.Task `json:"tasks"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if s.suggester == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, fmt.Errorf("suggestions are not configured"))
		return
	}
	var req suggestRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), suggestTimeout)
	defer cancel()
	suggestions, err := s.suggester.Suggest(ctx, req.Tasks)
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logf("panic handling request %s %s: %v\n%s", r.Method, r.URL.Path, recovered, debug.Stack())
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		s.writeError(w, r, http.StatusNotFound, err)
	case errors.Is(err, ErrReasonRequired), task.IsValidationError(err):
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
	default:
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeTask(w http.ResponseWriter, status int, item task.Task) {
	if s.legacy {
		writeJSON(w, status, toLegacy(item))
		return
	}
	writeJSON(w, status, item)
}

func (s *Server) writeTasks(w http.ResponseWriter, status int, items []task.Task) {
	if s.legacy {
		legacy := make([]legacyTask, 0, len(items))
		for _, item := range items {
			legacy = append(legacy, toLegacy(item))
		}
		writeJSON(w, status, legacy)
		return
	}
	writeJSON(w, status, items)
}

// legacyTask is the wire shape of older backends.
type legacyTask struct {
	ID               string     `json:"_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Focus            task.Focus `json:"focus"`
	Status           string     `json:"status"`
	DueDate          *time.Time `json:"due_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	TransitionReason string     `json:"transition_reason,omitempty"`
	DelayReason      string     `json:"delay_reason,omitempty"`
}

func toLegacy(item task.Task) legacyTask {
	status := string(item.Status)
	if item.Status == task.StatusInProgress {
		status = "pending"
	}
	return legacyTask{
		ID:               item.ID,
		Title:            item.Title,
		Description:      item.Description,
		Focus:            item.Focus,
		Status:           status,
		DueDate:          item.DueDate,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
		TransitionReason: item.TransitionReason,
		DelayReason:      item.DelayReason,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logRequestError(r, status, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) logRequestError(r *http.Request, status int, err error) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf("request %s %s failed (%d): %v", r.Method, r.URL.Path, status, err)
}

func (s *Server) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}
