// Package server exposes the session workflow over HTTP.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhabedank/ad-agent/internal/core"
	"github.com/dhabedank/ad-agent/internal/dataset"
)

// Options configures a Handler.
type Options struct {
	Controller *core.Controller
	Logger     *zap.Logger
	// DataPath is loaded when no file is uploaded. Empty means dataset.DefaultPath.
	DataPath string
	// Credentials is used when a request does not carry its own key.
	Credentials string
	Now         func() time.Time
}

// Handler serves one session. The controller serializes stage calls;
// the handler only guards the loaded records.
type Handler struct {
	ctrl        *core.Controller
	logger      *zap.Logger
	dataPath    string
	credentials string
	now         func() time.Time

	mu      sync.Mutex
	loaded  bool
	records []core.AdRecord
	source  dataset.Source
}

// NewHandler creates a handler.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		ctrl:        opts.Controller,
		logger:      logger,
		dataPath:    opts.DataPath,
		credentials: opts.Credentials,
		now:         now,
	}
}

type StateResponse struct {
	State  core.State `json:"state"`
	Source string     `json:"source,omitempty"`
}

type ErrorResponse struct {
	Error string      `json:"error"`
	Field string      `json:"field,omitempty"`
	State *core.State `json:"state,omitempty"`
}

type AnalyzeRequest struct {
	Credentials string `json:"credentials"`
}

type GenerateRequest struct {
	Brand       string `json:"brand"`
	Credentials string `json:"credentials"`
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetState(c *gin.Context) {
	h.mu.Lock()
	src := h.source.Name
	h.mu.Unlock()
	c.JSON(http.StatusOK, StateResponse{State: h.ctrl.State(), Source: src})
}

// PostAds ranks an uploaded CSV (multipart field "file"), or the configured
// default file when nothing is uploaded.
func (h *Handler) PostAds(c *gin.Context) {
	records, src, err := h.readUpload(c)
	if err != nil {
		h.fail(c, err, nil)
		return
	}

	if _, err := h.ctrl.LoadAds(records, h.now()); err != nil {
		h.fail(c, err, nil)
		return
	}

	h.mu.Lock()
	h.loaded = true
	h.records = records
	h.source = src
	h.mu.Unlock()

	c.JSON(http.StatusOK, StateResponse{State: h.ctrl.State(), Source: src.Name})
}

func (h *Handler) readUpload(c *gin.Context) ([]core.AdRecord, dataset.Source, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return dataset.Resolve(h.dataPath)
	}
	if err != nil {
		return nil, dataset.Source{}, &core.InputValidationError{Field: "file", Message: err.Error()}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, dataset.Source{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	records, err := dataset.Load(f)
	return records, dataset.Source{Name: fh.Filename}, err
}

func (h *Handler) PostAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if !h.bindOptional(c, &req) {
		return
	}

	records, err := h.loadedRecords()
	if err != nil {
		h.fail(c, err, nil)
		return
	}

	state, err := h.ctrl.Analyze(c.Request.Context(), core.AnalyzeInput{
		Records:     records,
		AsOf:        h.now(),
		Credentials: h.credentialsFor(req.Credentials),
	})
	if err != nil {
		h.fail(c, err, &state)
		return
	}
	c.JSON(http.StatusOK, StateResponse{State: state})
}

func (h *Handler) PostGenerate(c *gin.Context) {
	var req GenerateRequest
	if !h.bindOptional(c, &req) {
		return
	}

	state, err := h.ctrl.Generate(c.Request.Context(), core.GenerateInput{
		Brand:       req.Brand,
		Credentials: h.credentialsFor(req.Credentials),
	})
	if err != nil {
		h.fail(c, err, &state)
		return
	}
	c.JSON(http.StatusOK, StateResponse{State: state})
}

// loadedRecords returns the last upload, loading the default file only when
// nothing was loaded yet. An upload without rows stays empty.
func (h *Handler) loadedRecords() ([]core.AdRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		return h.records, nil
	}
	records, src, err := dataset.Resolve(h.dataPath)
	if err != nil {
		return nil, err
	}
	h.loaded = true
	h.records = records
	h.source = src
	return records, nil
}

func (h *Handler) credentialsFor(fromRequest string) string {
	if v := strings.TrimSpace(fromRequest); v != "" {
		return v
	}
	return strings.TrimSpace(h.credentials)
}

// bindOptional accepts an empty body as the zero request.
func (h *Handler) bindOptional(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, &core.InputValidationError{Field: "body", Message: err.Error()}, nil)
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error, state *core.State) {
	status := StatusFor(err)
	res := ErrorResponse{Error: err.Error(), State: state}

	var verr *core.InputValidationError
	if errors.As(err, &verr) {
		res.Field = verr.Field
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	} else {
		h.logger.Warn("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, res)
}

// StatusFor maps workflow errors to HTTP status codes.
func StatusFor(err error) int {
	var stateErr *core.StateError
	switch {
	case errors.As(err, &stateErr):
		return http.StatusConflict
	case core.IsValidation(err):
		return http.StatusBadRequest
	case core.IsUpstream(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
