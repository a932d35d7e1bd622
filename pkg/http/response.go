package http

import (
	"encoding/json"
	"net/http"

	apperrors "holidayplanner/pkg/errors"
)

type SuccessResponse struct {
	Data any `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err using the AppError taxonomy. Errors that are not
// AppErrors are reported as a generic internal error.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), apperrors.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}
