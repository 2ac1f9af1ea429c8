package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"cyberscribe/internal/core"
	"cyberscribe/internal/pipeline"
)

// imageFilePattern is the only filename shape the pipeline ever writes;
// anything else in the path segment is rejected before touching the disk.
var imageFilePattern = regexp.MustCompile(`^img-\d+\.png$`)

// imageSlugPattern mirrors the slug alphabet. Dots and slashes never
// appear in slugs, so path segments that would escape the data dir are
// rejected here.
var imageSlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type generationResponse struct {
	Slug         string        `json:"slug"`
	PostURL      string        `json:"postUrl"`
	HTML         string        `json:"html"`
	LinkedInPost string        `json:"linkedinPost"`
	Meta         core.PostMeta `json:"meta"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (srv *Server) writePipelineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, pipeline.ErrInvalidInput) {
		status = http.StatusBadRequest
	}

	var stageErr *pipeline.Error
	if errors.As(err, &stageErr) {
		srv.log.Error("Generation failed", "stage", stageErr.Stage, "error", stageErr.Err)
	} else {
		srv.log.Error("Generation failed", "error", err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (srv *Server) writePost(w http.ResponseWriter, post *core.Post) {
	writeJSON(w, http.StatusOK, generationResponse{
		Slug:         post.Slug,
		PostURL:      "/post/" + post.Slug,
		HTML:         post.HTML,
		LinkedInPost: post.LinkedInPost,
		Meta:         post.Meta,
		CreatedAt:    post.CreatedAt,
	})
}

func (srv *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	post, err := srv.pipe.GenerateFromURL(r.Context(), req.URL)
	if err != nil {
		srv.writePipelineError(w, err)
		return
	}
	srv.writePost(w, post)
}

func (srv *Server) handleFindAndGenerate(w http.ResponseWriter, r *http.Request) {
	post, err := srv.pipe.FindAndGenerate(r.Context())
	if err != nil {
		srv.writePipelineError(w, err)
		return
	}
	srv.writePost(w, post)
}

func (srv *Server) handleResearchAndGenerate(w http.ResponseWriter, r *http.Request) {
	post, err := srv.pipe.ResearchAndGenerate(r.Context())
	if err != nil {
		srv.writePipelineError(w, err)
		return
	}
	srv.writePost(w, post)
}

func (srv *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	summaries := srv.posts.List()
	if summaries == nil {
		summaries = []core.PostSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (srv *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := srv.posts.Load(slug)
	if err != nil {
		srv.log.Error("Failed to load post", "slug", slug, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load post"})
		return
	}
	if post == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Post not found"})
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (srv *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	filename := chi.URLParam(r, "filename")

	if !imageSlugPattern.MatchString(slug) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid post slug"})
		return
	}
	if !imageFilePattern.MatchString(filename) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid image filename"})
		return
	}

	path := srv.posts.ImagePath(slug, filename)
	if _, err := os.Stat(path); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Image not found"})
		return
	}

	http.ServeFile(w, r, path)
}

func (srv *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	runs, err := srv.runs.Recent(limit)
	if err != nil {
		srv.log.Error("Failed to query runs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to query runs"})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
