// Package chi is an in-memory HTTP stub of the OCR service, used for local
// development and end-to-end tests of the client.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
	"github.com/kailas-cloud/ocrdesk/internal/domain/upload"
	logpkg "github.com/kailas-cloud/ocrdesk/internal/logger"
	"github.com/kailas-cloud/ocrdesk/internal/metrics"
	healthuc "github.com/kailas-cloud/ocrdesk/internal/usecase/health"
)

const (
	// multipart framing and the title field on top of the file itself
	multipartOverhead = 1 << 20
	maxFormMemory     = 32 << 20
	maxPageLimit      = 100
	minPasswordLength = 6
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the OCR service API from a Store.
type Server struct {
	store         *Store
	logger        *zap.Logger
	maxFileSize   int64
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates the stub API server.
func NewServer(store *Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{store: store, logger: logger, maxFileSize: upload.MaxFileSize, health: healthuc.New()}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "Document not found"),
		sentinelHandler(errUserExists, http.StatusBadRequest, "User already exists"),
		sentinelHandler(errInvalidCredentials, http.StatusBadRequest, "Invalid credentials"),
	}
	return s
}

// WithMaxFileSize overrides the server-side upload limit.
func (s *Server) WithMaxFileSize(n int64) *Server {
	if n > 0 {
		s.maxFileSize = n
	}
	return s
}

// WithHealth replaces the component checks reported by /health.
func (s *Server) WithHealth(h *healthuc.Service) *Server {
	if h != nil {
		s.health = h
	}
	return s
}

// NewRouter mounts the API on a chi router. mws run before authentication.
func NewRouter(s *Server, mws ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	for _, mw := range mws {
		r.Use(mw)
	}
	r.Use(BearerAuthMiddleware(s.store))

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/auth/register", s.Register)
	r.Post("/auth/login", s.Login)
	r.Get("/auth/me", s.Me)

	r.Post("/upload", s.Upload)
	r.Get("/documents", s.ListDocuments)
	r.Get("/documents/search", s.SearchDocuments)
	r.Get("/documents/{id}", s.GetDocument)
	r.Get("/documents/{id}/file", s.GetDocumentFile)
	r.Delete("/documents/{id}", s.DeleteDocument)
	return r
}

// --- wire types ---

type errorBody struct {
	Message string `json:"message"`
}

type userJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type documentJSON struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	OriginalName  string    `json:"originalName"`
	FileType      string    `json:"fileType"`
	FileSize      int64     `json:"fileSize"`
	OCRStatus     string    `json:"ocrStatus"`
	ExtractedText string    `json:"extractedText,omitempty"`
	FileURL       string    `json:"fileUrl"`
	PageCount     int       `json:"pageCount,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type healthJSON struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks,omitempty"`
}

type paginationJSON struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type listJSON struct {
	Documents  []documentJSON  `json:"documents"`
	Pagination *paginationJSON `json:"pagination,omitempty"`
}

// --- auth ---

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	token, u, err := s.store.Register(strings.TrimSpace(req.Username), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    userToJSON(u),
	})
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	token, u, err := s.store.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": userToJSON(u)})
}

// Me handles GET /auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.User(userIDFrom(r.Context()))
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userToJSON(u)})
}

// --- documents ---

// Upload handles POST /upload (multipart: document, title).
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	log := logpkg.FromContext(r.Context())
	tooLarge := fmt.Sprintf("File too large. Maximum size is %dMB", s.maxFileSize>>20)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusBadRequest, tooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid upload request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := hdr.Header.Get("Content-Type")
	if _, ok := upload.AllowedTypes[contentType]; !ok {
		writeError(w, http.StatusBadRequest, "Invalid file type. Only JPEG, PNG and PDF files are allowed.")
		return
	}
	if hdr.Size > s.maxFileSize {
		writeError(w, http.StatusBadRequest, tooLarge)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("read upload: %w", err))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = upload.DeriveTitle(hdr.Filename)
	}
	rec := record{
		ownerID:      userIDFrom(r.Context()),
		title:        title,
		originalName: hdr.Filename,
		fileType:     contentType,
		fileSize:     int64(len(data)),
		content:      data,
	}
	if contentType == "application/pdf" {
		info, err := inspectPDF(data)
		if err != nil {
			log.Warn("pdf rejected", zap.String("file", hdr.Filename), zap.Error(err))
			rec.status = domdoc.StatusFailed
		} else {
			rec.pages = info.pages
			rec.pendingText = info.text
		}
	} else {
		rec.pendingText = imageText(hdr.Filename)
	}

	saved := s.store.Add(rec)
	log.Info("document uploaded",
		zap.String("document_id", saved.id),
		zap.String("type", saved.fileType),
		zap.Int64("size", saved.fileSize),
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Document uploaded successfully",
		"document": recordToJSON(saved),
	})
}

// ListDocuments handles GET /documents. Without a limit parameter every
// matching document is returned.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	var (
		page   = 1
		limit  int
		search string
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page parameter")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "search", q, &search); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid search parameter")
		return
	}
	if page < 1 || limit < 0 {
		writeError(w, http.StatusBadRequest, "page must be >= 1 and limit >= 0")
		return
	}

	recs := s.store.List(userIDFrom(r.Context()), search)
	if limit == 0 {
		writeJSON(w, http.StatusOK, listJSON{Documents: recordsToJSON(recs)})
		return
	}

	limit = min(limit, maxPageLimit)
	total := len(recs)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	writeJSON(w, http.StatusOK, listJSON{
		Documents: recordsToJSON(recs[start:end]),
		Pagination: &paginationJSON{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: (total + limit - 1) / limit,
		},
	})
}

// SearchDocuments handles GET /documents/search?q=.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var text string
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &text); err != nil ||
		strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "Search query is required")
		return
	}
	recs := s.store.List(userIDFrom(r.Context()), text)
	writeJSON(w, http.StatusOK, listJSON{Documents: recordsToJSON(recs)})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"document": recordToJSON(rec)})
}

// GetDocumentFile handles GET /documents/{id}/file.
func (s *Server) GetDocumentFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.store.Content(userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, errorBody{Message: "Document deleted successfully"})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthJSON{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Debug("request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Server error")
}

func userToJSON(u user) userJSON {
	return userJSON{ID: u.id, Username: u.username, Email: u.email}
}

func recordToJSON(rec record) documentJSON {
	return documentJSON{
		ID:            rec.id,
		Title:         rec.title,
		OriginalName:  rec.originalName,
		FileType:      rec.fileType,
		FileSize:      rec.fileSize,
		OCRStatus:     string(rec.status),
		ExtractedText: rec.extractedText,
		FileURL:       "/documents/" + rec.id + "/file",
		PageCount:     rec.pages,
		CreatedAt:     rec.createdAt,
	}
}

func recordsToJSON(recs []record) []documentJSON {
	out := make([]documentJSON, len(recs))
	for i, rec := range recs {
		out[i] = recordToJSON(rec)
	}
	return out
}
