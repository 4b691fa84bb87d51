package api

import (
	"encoding/json"
	"log"
	"net/http"

	"gocpd/internal/errors"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, appErr *errors.AppError) {
	s.respondJSON(w, statusForCode(appErr.Code), errorEnvelope{
		Error: errorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
	})
}

// statusForCode maps taxonomy codes to HTTP statuses. Grammar and
// invocation violations are well-formed requests the model rules reject,
// hence 422 rather than 400.
func statusForCode(code string) int {
	switch code {
	case errors.CodeModelSyntax,
		errors.CodeModelArity,
		errors.CodeModelUnderspecified,
		errors.CodeUnsupportedDistribution,
		errors.CodeInvocationInvalid,
		errors.CodeSeriesInvalid:
		return http.StatusUnprocessableEntity
	case errors.CodeBadRequest:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
