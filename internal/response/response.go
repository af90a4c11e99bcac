// file: internal/response/response.go
package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sprintdeck/internal/contextutils"
	"sprintdeck/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE CONFIGURATION
// ===============================

// Config holds configuration for the response system
type Config struct {
	PrettyJSON         bool   `json:"pretty_json"`
	IncludeRequestID   bool   `json:"include_request_id"`
	IncludeTimestamp   bool   `json:"include_timestamp"`
	APIVersion         string `json:"api_version"`
	MaskInternalErrors bool   `json:"mask_internal_errors"`
}

// DefaultConfig returns production-ready response configuration
func DefaultConfig() *Config {
	return &Config{
		PrettyJSON:         false,
		IncludeRequestID:   true,
		IncludeTimestamp:   true,
		APIVersion:         "v1",
		MaskInternalErrors: true,
	}
}

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
	Version   string       `json:"version,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder writes standardized API responses
type Builder struct {
	config *Config
	logger *zap.Logger
}

// NewBuilder creates a response builder
func NewBuilder(config *Config, logger *zap.Logger) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Builder{config: config, logger: logger}
}

// WriteSuccess writes a 200 response with the given payload
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, b.envelope(r.Context(), data, nil), http.StatusOK)
}

// WriteCreated writes a 201 response with the given payload
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, b.envelope(r.Context(), data, nil), http.StatusCreated)
}

// WriteNoContent writes a 204 response
func (b *Builder) WriteNoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError translates a service error into the response envelope
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	detail := b.convertError(err)
	status := services.GetServiceError(err).GetStatusCode()
	b.logError(r.Context(), err, status)
	b.WriteJSON(w, r, b.envelope(r.Context(), nil, detail), status)
}

// WriteUnauthorized writes a 401 response
func (b *Builder) WriteUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	b.WriteError(w, r, services.NewUnauthorizedError(message))
}

// WriteForbidden writes a 403 response
func (b *Builder) WriteForbidden(w http.ResponseWriter, r *http.Request, message string) {
	b.WriteError(w, r, services.NewForbiddenError(message))
}

// WriteValidationError writes a 400 response for bad input
func (b *Builder) WriteValidationError(w http.ResponseWriter, r *http.Request, message string) {
	b.WriteError(w, r, services.NewValidationError(message, nil))
}

// WriteJSON serializes the response envelope
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, response *APIResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	if b.config.PrettyJSON {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(response); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// ===============================
// INTERNALS
// ===============================

func (b *Builder) envelope(ctx context.Context, data interface{}, errDetail *ErrorDetail) *APIResponse {
	resp := &APIResponse{
		Success: errDetail == nil,
		Data:    data,
		Error:   errDetail,
		Version: b.config.APIVersion,
	}
	if b.config.IncludeRequestID {
		resp.RequestID = contextutils.GetRequestID(ctx)
	}
	if b.config.IncludeTimestamp {
		resp.Timestamp = time.Now().Unix()
	}
	return resp
}

func (b *Builder) convertError(err error) *ErrorDetail {
	svcErr := services.GetServiceError(err)

	detail := &ErrorDetail{
		Type:    svcErr.Type,
		Message: svcErr.Message,
		Code:    svcErr.Code,
		Details: svcErr.Details,
	}

	// Never leak internals to clients in production
	if b.config.MaskInternalErrors && svcErr.GetStatusCode() >= http.StatusInternalServerError {
		detail.Message = "An internal error occurred"
		detail.Details = nil
	}

	return detail
}

func (b *Builder) logError(ctx context.Context, err error, status int) {
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", contextutils.GetRequestID(ctx)),
	}
	if status >= http.StatusInternalServerError {
		b.logger.Error("Request failed", fields...)
	} else {
		b.logger.Debug("Request rejected", fields...)
	}
}
