package httpx

import (
	"errors"
	"net/http"

	"catalogapi/internal/record"
)

const (
	internalErrorMessage   = "Internal server error"
	requestTooLargeMessage = "Request body too large"
)

// TranslateError maps an error coming out of a service or the Book Request
// Validator to an HTTP status and the message returned to the client.
func TranslateError(err error) (int, string) {
	var (
		unresolved *record.UnresolvedReferenceError
		notFound   *record.NotFoundError
		invalid    *record.ValidationError
		badInput   *record.InvalidInputError
		conflict   *record.ConflictError
		tooLarge   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &unresolved):
		return http.StatusUnprocessableEntity, unresolved.Error()
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Error()
	case errors.As(err, &badInput):
		return http.StatusBadRequest, badInput.Error()
	case errors.As(err, &conflict):
		return http.StatusConflict, conflict.Error()
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, requestTooLargeMessage
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// WriteError translates err and writes it as the response. Unexpected
// errors are logged; their text never reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := TranslateError(err)
	if status == http.StatusInternalServerError {
		LoggerFrom(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	JSONError(w, status, message)
}
