package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/linksign"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// WelcomeMessage opens every conversation.
const WelcomeMessage = "Hi! I'm Ali, your personal chef friend! Tell me what ingredients you have, " +
	"and I'll help you whip up something delicious!"

var errServiceMissing = fmt.Errorf("%w: not available on this server", domain.ErrBackendUnavailable)

type pageData struct {
	Categories []domain.Category
	Welcome    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.page.Execute(w, pageData{
		Categories: domain.AllCategories(),
		Welcome:    WelcomeMessage,
	})
	if err != nil {
		logger.Warn("web: rendering page: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// askRequest is the body of POST /api/ask.
type askRequest struct {
	Query      string               `json:"query"`
	Category   string               `json:"category"`
	History    []domain.ChatMessage `json:"history"`
	UseHistory bool                 `json:"use_history"`
}

type relatedBody struct {
	RelativePath string `json:"relative_path"`
	URL          string `json:"url,omitempty"`
}

type resultBody struct {
	RelativePath string  `json:"relative_path"`
	Category     string  `json:"category,omitempty"`
	Chunk        string  `json:"chunk"`
	Score        float64 `json:"score"`
}

type askResponse struct {
	Answer      string        `json:"answer"`
	SearchQuery string        `json:"search_query"`
	Context     []resultBody  `json:"context"`
	Related     []relatedBody `json:"related"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid json: %w", domain.ErrInvalidInput, err))
		return
	}
	category, err := domain.ParseCategoryFilter(req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := s.ports.Chat.Ask(r.Context(), domain.AskRequest{
		Query:      req.Query,
		Category:   category,
		History:    conversation(req.History),
		UseHistory: req.UseHistory,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := askResponse{
		Answer:      answer.Text,
		SearchQuery: answer.SearchQuery,
		Context:     resultBodies(answer.Context),
		Related:     make([]relatedBody, len(answer.Related)),
	}
	for i, d := range answer.Related {
		resp.Related[i] = relatedBody{RelativePath: d.RelativePath, URL: d.URL}
	}
	writeJSON(w, http.StatusOK, resp)
}

// conversation keeps the user and assistant turns of a page's message list.
// Error notices shown in the page are not part of the chat.
func conversation(history []domain.ChatMessage) []domain.ChatMessage {
	var out []domain.ChatMessage
	for _, m := range history {
		if m.Role == domain.ChatRoleUser || m.Role == domain.ChatRoleAssistant {
			out = append(out, m)
		}
	}
	return out
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, err := domain.ParseCategoryFilter(q.Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, r, fmt.Errorf("%w: limit %q", domain.ErrInvalidInput, raw))
			return
		}
	}

	results, err := s.ports.Chat.Search(r.Context(), q.Get("q"), domain.SearchOptions{
		Limit:    limit,
		Category: category,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": resultBodies(results)})
}

func resultBodies(results []domain.SearchResult) []resultBody {
	out := make([]resultBody, len(results))
	for i, r := range results {
		out[i] = resultBody{
			RelativePath: r.RelativePath,
			Category:     string(r.Category),
			Chunk:        r.Chunk,
			Score:        r.Score,
		}
	}
	return out
}

type uploadResponse struct {
	Staged   []domain.StagedFile    `json:"staged"`
	Ingest   *domain.IngestReport   `json:"ingest,omitempty"`
	Classify *domain.ClassifyReport `json:"classify,omitempty"`
}

// handleUpload stages the multipart "files" and optionally ingests and
// classifies them ("ingest" and "classify" form switches).
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.ports.Ingest == nil {
		writeError(w, r, errServiceMissing)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, r, fmt.Errorf("%w: failed to parse form: %w", domain.ErrInvalidInput, err))
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, r, fmt.Errorf("%w: missing files field", domain.ErrInvalidInput))
		return
	}

	tmpDir, err := os.MkdirTemp("", "cortex-chef-upload-*")
	if err != nil {
		writeError(w, r, fmt.Errorf("creating temp dir: %w", err))
		return
	}
	defer os.RemoveAll(tmpDir)

	paths := make([]string, 0, len(headers))
	for _, h := range headers {
		name := filepath.Base(h.Filename)
		if name == "." || name == string(filepath.Separator) {
			writeError(w, r, fmt.Errorf("%w: bad file name %q", domain.ErrInvalidInput, h.Filename))
			return
		}
		dst := filepath.Join(tmpDir, name)
		if err := saveUpload(h, dst); err != nil {
			writeError(w, r, err)
			return
		}
		paths = append(paths, dst)
	}

	resp := uploadResponse{}
	resp.Staged, err = s.ports.Ingest.Upload(r.Context(), paths, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if formBool(r, "ingest") || formBool(r, "classify") {
		report, err := s.ports.Ingest.Ingest(r.Context(), domain.IngestOptions{Reload: formBool(r, "reload")})
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Ingest = &report
	}
	if formBool(r, "classify") {
		if s.ports.Classifier == nil {
			writeError(w, r, errServiceMissing)
			return
		}
		resp.Classify, err = s.ports.Classifier.Classify(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func saveUpload(h *multipart.FileHeader, dst string) error {
	src, err := h.Open()
	if err != nil {
		return fmt.Errorf("%w: reading upload: %w", domain.ErrInvalidInput, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("saving upload: %w", err)
	}
	return out.Close()
}

func formBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.FormValue(key))
	return err == nil && v
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", domain.ErrInvalidInput, key, raw)
	}
	return v, nil
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.ports.Ingest == nil {
		writeError(w, r, errServiceMissing)
		return
	}
	reload, err := queryBool(r, "reload")
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := s.ports.Ingest.Ingest(r.Context(), domain.IngestOptions{Reload: reload})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if s.ports.Classifier == nil {
		writeError(w, r, errServiceMissing)
		return
	}
	report, err := s.ports.Classifier.Classify(r.Context())
	if err != nil {
		if report != nil && errors.Is(err, domain.ErrUnknownCategory) {
			writeJSON(w, statusFor(err), map[string]any{
				"error":    err.Error(),
				"rejected": report.Rejected,
			})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if s.ports.Documents == nil {
		writeError(w, r, errServiceMissing)
		return
	}
	docs, err := s.ports.Documents.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if s.ports.Documents == nil {
		writeError(w, r, errServiceMissing)
		return
	}
	path := r.PathValue("path")
	rows, err := s.ports.Documents.Chunks(r.Context(), path)
	if err != nil {
		writeError(w, r, err)
		return
	}
	link, err := s.ports.Documents.Link(r.Context(), path)
	if err != nil {
		logger.Warn("web: no link for %s: %v", path, err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"relative_path": path,
		"url":           link,
		"chunks":        rows,
	})
}

// handleStageFile serves a staged file for a local scoped link. Unsigned,
// tampered and expired links are refused.
func (s *Server) handleStageFile(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	if !filepath.IsLocal(path) {
		http.NotFound(w, r)
		return
	}
	if err := s.cfg.Links.Verify(path, r.URL.Query(), s.cfg.Now()); err != nil {
		switch {
		case errors.Is(err, linksign.ErrExpired):
			http.Error(w, "link expired", http.StatusGone)
		case errors.Is(err, linksign.ErrBadSignature):
			http.Error(w, "bad link signature", http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	http.ServeFileFS(w, r, os.DirFS(s.cfg.StageDir), filepath.ToSlash(path))
}
