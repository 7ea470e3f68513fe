package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"caseable-catalog/internal/middleware"
	"caseable-catalog/internal/model"
	"caseable-catalog/internal/transport"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds the request bodies the picker API decodes.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already sent; nothing useful reaches the client.
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	correlationID := middleware.GetRequestID(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("error", code).
		Str("message", message).
		Int("status", status).
		Str("request_id", correlationID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps err onto an HTTP status and writes it.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, r, status, code, message, logger)
}

// classify returns the HTTP status, error code and client-facing message for err.
func classify(err error) (int, string, string) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case model.ErrCodeValidation, model.ErrCodeUnknownFilter, model.ErrCodeMultiValueNotAllowed:
			return http.StatusBadRequest, domainErr.Code, domainErr.Message
		case model.ErrCodeNotFound:
			return http.StatusNotFound, domainErr.Code, domainErr.Message
		case model.ErrCodeNotInitialized:
			return http.StatusServiceUnavailable, domainErr.Code, domainErr.Message
		case model.ErrCodeUnexpectedResponse:
			return http.StatusBadGateway, domainErr.Code, domainErr.Message
		}
		return http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error"
	}

	var statusErr *transport.InvalidStatusError
	switch {
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, model.ErrCodeUpstream,
			fmt.Sprintf("catalog service responded with status %d", statusErr.StatusCode)
	case errors.Is(err, transport.ErrTransfer):
		return http.StatusBadGateway, model.ErrCodeUpstream, "catalog service is unreachable"
	case errors.Is(err, transport.ErrParse):
		return http.StatusBadGateway, model.ErrCodeUpstream, "catalog service returned malformed JSON"
	}

	return http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error"
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}
