package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bazaar-be/internal/cart"
	"bazaar-be/internal/fault"
	"bazaar-be/internal/logger"

	"go.uber.org/zap"
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.L().Error("response marshal failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		logger.L().Error("response write failed", zap.Error(err))
	}
}

// respondServiceError maps the shared error taxonomy onto status codes.
// Anything outside the taxonomy is a server fault and its detail stays
// out of the response body.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := mapErrorToStatusCode(err)
	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed", zap.Error(err))
		respondWithError(w, code, "internal server error")
		return
	}
	respondWithError(w, code, err.Error())
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, cart.ErrUserNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidRemoveCartInput):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrProductNotFound), errors.Is(err, cart.ErrCartItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, fault.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, fault.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, fault.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fault.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, fault.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// queryInt32 parses an optional numeric query parameter; nil when absent
// or unparsable.
func queryInt32(r *http.Request, key string) *int32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil
	}
	v := int32(n)
	return &v
}

func queryString(r *http.Request, key string) *string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	return &raw
}
