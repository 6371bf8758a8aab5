//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package server exposes the document engine over HTTP: version history
// lookups, export, and SSE streaming of create and update operations.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
	"trpc.group/trpc-go/trpc-artifact-go/export"
	"trpc.group/trpc-go/trpc-artifact-go/log"
	"trpc.group/trpc-go/trpc-artifact-go/runner"
	"trpc.group/trpc-go/trpc-artifact-go/stream"
)

// Server exposes HTTP endpoints over a kind registry and a document
// service. Streaming endpoints relay handler events as SSE and finish
// with the stored document.
type Server struct {
	registry *artifact.Registry
	service  artifact.Service
	runner   *runner.Runner
	router   *mux.Router
	info     artifact.SessionInfo
}

// Option configures the Server instance.
type Option func(*Server)

// WithSessionInfo sets the session scope of the served documents.
func WithSessionInfo(info artifact.SessionInfo) Option {
	return func(s *Server) { s.info = info }
}

// New creates a server over the given registry and document service.
func New(registry *artifact.Registry, service artifact.Service, opts ...Option) (*Server, error) {
	s := &Server{
		registry: registry,
		service:  service,
		router:   mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	rn, err := runner.New(registry, service, runner.WithSessionInfo(s.info))
	if err != nil {
		return nil, err
	}
	s.runner = rn

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s, nil
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/kinds", s.handleListKinds).Methods(http.MethodGet)

	// Document APIs.
	s.router.HandleFunc("/documents", s.handleCreate).Methods(http.MethodPost)
	s.router.HandleFunc("/documents/{documentId}", s.handleGetDocument).Methods(http.MethodGet)
	s.router.HandleFunc("/documents/{documentId}/versions", s.handleListVersions).Methods(http.MethodGet)
	s.router.HandleFunc("/documents/{documentId}/export", s.handleExport).Methods(http.MethodGet)
	s.router.HandleFunc("/documents/{documentId}/update", s.handleUpdate).Methods(http.MethodPost)
	s.router.HandleFunc("/documents/{documentId}/stop", s.handleStop).Methods(http.MethodPost)

	// OPTIONS handlers to allow CORS pre-flight.
	preflight := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	s.router.HandleFunc("/documents", preflight).Methods(http.MethodOptions)
	s.router.HandleFunc("/documents/{documentId}/update", preflight).Methods(http.MethodOptions)
}

// ---- Handlers -----------------------------------------------------------

func (s *Server) handleListKinds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.registry.Kinds())
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["documentId"]
	doc, err := s.service.GetDocument(r.Context(), s.info, documentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, doc)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["documentId"]
	versions, err := s.service.ListVersions(r.Context(), s.info, documentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, versions)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["documentId"]
	doc, err := s.service.GetDocument(r.Context(), s.info, documentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	switch format := r.URL.Query().Get("format"); format {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		if err := export.PDF(w, doc); err != nil {
			log.Errorf("export pdf failed: %v", err)
		}
	case "html", "":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := export.HTML(w, doc); err != nil {
			log.Errorf("export html failed: %v", err)
		}
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
	}
}

type createRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	events, err := s.runner.CreateDocument(r.Context(), req.ID, req.Title, artifact.Kind(req.Kind))
	if err != nil {
		// Unknown kind is a configuration error on the caller's side.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.streamSSE(w, r, events, req.ID)
}

type updateRequest struct {
	Instruction string `json:"instruction"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["documentId"]
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	events, err := s.runner.UpdateDocument(r.Context(), documentID, req.Instruction)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.streamSSE(w, r, events, documentID)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.runner.Stop()
	w.WriteHeader(http.StatusOK)
}

// streamSSE relays stream events as server-sent events and finishes with
// the stored document.
func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request, events <-chan *stream.Event, documentID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			log.Errorf("error marshalling SSE event: %v", err)
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	// The stream is closed; the latest version is the operation result.
	doc, err := s.service.GetDocument(r.Context(), s.info, documentID)
	if err != nil || doc == nil {
		fmt.Fprint(w, "event: error\ndata: {}\n\n")
		flusher.Flush()
		return
	}
	data, err := json.Marshal(doc)
	if err != nil {
		log.Errorf("error marshalling document: %v", err)
		return
	}
	fmt.Fprintf(w, "event: document\ndata: %s\n\n", data)
	flusher.Flush()
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("error encoding response: %v", err)
	}
}
