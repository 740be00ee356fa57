package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Totarae/URLProbe/internal/extract"
	"github.com/Totarae/URLProbe/internal/model"
	"github.com/Totarae/URLProbe/internal/service"
	"go.uber.org/zap"
)

//go:generate mockgen -source=handlers.go -destination=../mocks/mock_checker.go -package=mocks

// Checker проверяет пакет URL и собирает отчёт.
type Checker interface {
	Check(ctx context.Context, urls []string) (*model.Report, error)
}

// Handler обработчики HTTP API.
type Handler struct {
	Checker        Checker
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// NewHandler создаёт Handler.
func NewHandler(checker Checker, logger *zap.Logger, maxUploadBytes int64) *Handler {
	return &Handler{
		Checker:        checker,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
	}
}

// FileUpload принимает URL из поля формы url и/или таблицы из поля file.
func (h *Handler) FileUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid form: %v", err))
		return
	}

	var fileURLs []string
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		if header.Filename != "" {
			if !extract.Supported(header.Filename) {
				h.writeError(w, http.StatusBadRequest, "Only CSV and Excel files are allowed")
				return
			}
			fileURLs, err = extract.FromUpload(header.Filename, file)
			if err != nil {
				h.Logger.Warn("failed to read upload", zap.String("file", header.Filename), zap.Error(err))
				h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read file: %v", err))
				return
			}
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid form: %v", err))
		return
	}

	h.check(w, r, extract.Combine(r.FormValue("url"), fileURLs))
}

// CheckJSON принимает {"urls": [...]}.
func (h *Handler) CheckJSON(w http.ResponseWriter, r *http.Request) {
	var req model.CheckRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.check(w, r, req.URLs)
}

// Ping сообщает, что сервис жив.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request, urls []string) {
	report, err := h.Checker.Check(r.Context(), urls)
	if err != nil {
		if errors.Is(err, service.ErrNoURLs) {
			h.writeError(w, http.StatusBadRequest, "No URL or file provided.")
			return
		}
		h.Logger.Error("batch check failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to check URLs: %v", err))
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, model.ErrorResponse{Error: msg})
}
