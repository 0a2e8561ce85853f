package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalogapi/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "not found",
			err:         fmt.Errorf("get book: %w", record.NotFound("Book", 999)),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Couldn't find Book with 'id'=999",
		},
		{
			name:        "blank field",
			err:         &record.ValidationError{Messages: []string{"Name can't be blank"}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation failed: Name can't be blank",
		},
		{
			name:        "invalid input passes through",
			err:         &record.InvalidInputError{Message: "'authors_ids' has an invalid JSON value"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "'authors_ids' has an invalid JSON value",
		},
		{
			name:        "unresolved reference",
			err:         &record.UnresolvedReferenceError{Model: "Publisher", ID: "2934759"},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Couldn't find Publisher with 'id'=2934759",
		},
		{
			name:        "conflict",
			err:         &record.ConflictError{Message: "Cannot delete Publisher with 'id'=1 because dependent books exist"},
			wantStatus:  http.StatusConflict,
			wantMessage: "Cannot delete Publisher with 'id'=1 because dependent books exist",
		},
		{
			name:        "body too large",
			err:         &http.MaxBytesError{Limit: 10},
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantMessage: "Request body too large",
		},
		{
			name:        "anything else is hidden",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := TranslateError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/genres/999", nil)

	WriteError(w, r, record.NotFound("Genre", 999))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Couldn't find Genre with 'id'=999", body.Message)
}
