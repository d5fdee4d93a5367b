// ABOUTME: Development HTTP server implementing the team posts API from a local social store.
// ABOUTME: Serves /health and /teams/{team}/posts with x-api-key checks, routed by gorilla/mux.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/2389-research/socialify/internal/models"
	"github.com/2389-research/socialify/internal/storage"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	maxBodyBytes = 1 << 20
)

// Config configures the dev server.
type Config struct {
	Addr   string
	APIKey string
	TeamID string

	// Logger for request logging. Falls back to slog.Default() if nil.
	Logger *slog.Logger
}

// Server serves the posts API backed by a SocialStore.
type Server struct {
	store  storage.SocialStore
	cfg    Config
	router *mux.Router
	log    *slog.Logger
}

// New creates a server. APIKey and TeamID are required; every request must match them.
func New(store storage.SocialStore, cfg Config) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("social store is required")
	}
	if cfg.APIKey == "" || cfg.TeamID == "" {
		return nil, fmt.Errorf("api key and team id are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store: store,
		cfg:   cfg,
		log:   logger.WithGroup("server"),
	}
	s.router = s.newRouter()
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) newRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	team := r.PathPrefix("/teams/{team}").Subrouter()
	team.Use(s.requireKey)
	team.HandleFunc("/posts", s.handleListPosts).Methods(http.MethodGet)
	team.HandleFunc("/posts", s.handleCreatePost).Methods(http.MethodPost)

	r.Use(s.logRequests)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr, "team", s.cfg.TeamID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprintln(w, "OK")
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	all, err := s.store.ListPosts(storage.ListPostsOptions{
		Limit:       math.MaxInt32,
		AgentFilter: q.Get("agent"),
		TagFilter:   q.Get("tag"),
		ThreadID:    q.Get("thread_id"),
	})
	if err != nil {
		s.log.Error("list posts failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	resp := storage.RemoteListResponse{
		Posts:      []storage.RemotePost{},
		TotalCount: len(all),
	}
	if offset < len(all) {
		page := all[offset:]
		if len(page) > limit {
			page = page[:limit]
		}
		for _, p := range page {
			resp.Posts = append(resp.Posts, storage.ToRemotePost(p))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var payload storage.RemotePostPayload
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payload.Content = strings.TrimSpace(payload.Content)
	payload.AuthorName = strings.TrimSpace(payload.AuthorName)
	if payload.Content == "" || payload.AuthorName == "" {
		writeError(w, http.StatusBadRequest, "content and author are required")
		return
	}

	var parentID *uuid.UUID
	if payload.ParentPostID != "" {
		id, err := uuid.Parse(payload.ParentPostID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid parentPostId")
			return
		}
		parentID = &id
	}

	post := models.NewSocialPost(payload.AuthorName, payload.Content, payload.Tags, parentID)
	post.AvatarURL = payload.Avatar
	post.MediaURL = payload.Media
	post.Synced = true
	if err := s.store.CreatePost(post); err != nil {
		s.log.Error("create post failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	s.log.Info("post created", "id", post.ID, "author", post.AuthorName)
	writeJSON(w, http.StatusCreated, storage.ToRemotePost(post))
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != s.cfg.APIKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		if mux.Vars(r)["team"] != s.cfg.TeamID {
			writeError(w, http.StatusNotFound, "team not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
