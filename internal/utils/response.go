package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"portfolio-site/internal/dto"
)

// maxJSONBody bounds request bodies decoded by DecodeJSONRequest.
const maxJSONBody = 1 << 20

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a dto.ErrorResponse with the given status
func WriteErrorResponse(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errMsg, Message: message})
}

// DecodeJSONRequest decodes the request body into dst. On failure it writes a
// 400 response and returns the error; callers just return.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "Invalid request body", "request body too large")
			return err
		}
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}
