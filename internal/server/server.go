// Package server exposes the planner over a small JSON API for the reporting
// and export layers. The server only formats and forwards read-only results;
// no computation happens downstream of the planner.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mediamix/mixplan/internal/config"
	"github.com/mediamix/mixplan/internal/planner"
	"github.com/mediamix/mixplan/pkg/constants"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the planning API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Planning API endpoint (YAML config upload)
	mux.HandleFunc("/api/plan", h.handlePlan)

	// Validation-only endpoint for editor-driven checks
	mux.HandleFunc("/api/plan/validate", h.handleValidate)

	// Config serialization endpoint for normalized downloads
	mux.HandleFunc("/api/export", h.handleExport)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type planResponse struct {
	Plan     *planner.Plan `json:"plan"`
	Warnings []string      `json:"warnings,omitempty"`
	Duration string        `json:"duration"`
}

type validateResponse struct {
	Valid    bool     `json:"valid"`
	Field    string   `json:"field,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "POST required", "")
		return
	}

	conf, ok := h.readConfiguration(w, r)
	if !ok {
		return
	}
	warnings := conf.ValidateConfiguration()

	start := time.Now()
	plan, err := planner.Run(h.logger, conf)
	if err != nil {
		var fieldErr *config.FieldError
		if errors.As(err, &fieldErr) {
			h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: fieldErr.Message, Field: fieldErr.Field})
			return
		}
		h.logger.Error("plan failed",
			zap.String("op", "server.handlePlan"),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to compute plan", "")
		return
	}

	h.writeJSON(w, http.StatusOK, planResponse{
		Plan:     plan,
		Warnings: warnings,
		Duration: time.Since(start).String(),
	})
}

func (h *handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "POST required", "")
		return
	}

	conf, ok := h.readConfiguration(w, r)
	if !ok {
		return
	}

	resp := validateResponse{Valid: true, Warnings: conf.ValidateConfiguration()}
	if err := conf.Validate(); err != nil {
		resp.Valid = false
		var fieldErr *config.FieldError
		if errors.As(err, &fieldErr) {
			resp.Field = fieldErr.Field
			resp.Error = fieldErr.Message
		} else {
			resp.Error = err.Error()
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "POST required", "")
		return
	}

	conf, ok := h.readConfiguration(w, r)
	if !ok {
		return
	}

	data, err := yaml.Marshal(conf)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to serialize configuration", "")
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", "attachment; filename=\"mixplan-config.yaml\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "GET required", "")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// readConfiguration parses and size-caps the uploaded YAML configuration.
// On failure it writes the error response itself and returns ok=false.
func (h *handler) readConfiguration(w http.ResponseWriter, r *http.Request) (*config.Configuration, bool) {
	defer func() {
		_ = r.Body.Close()
	}()

	limited := http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	conf, err := config.ParseConfiguration(limited)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid configuration: %v", err), "")
		return nil, false
	}
	return conf, true
}

func (h *handler) writeError(w http.ResponseWriter, status int, message, field string) {
	h.writeJSON(w, status, errorResponse{Error: message, Field: field})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
