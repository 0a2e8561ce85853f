package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"catalogapi/internal/record"
	"catalogapi/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, kind Kind) (*MockRepository, http.Handler) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	mux := http.NewServeMux()
	NewHTTPHandler(kind, NewService(mockRepo)).Register(mux)
	return mockRepo, mux
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHTTPHandler_List(t *testing.T) {
	for _, kind := range []Kind{Authors, Genres, Publishers} {
		t.Run(kind.Table, func(t *testing.T) {
			mockRepo, srv := newTestServer(t, kind)

			t.Run("empty", func(t *testing.T) {
				mockRepo.EXPECT().List(gomock.Any()).Return([]Record{}, nil)

				w := httptest.NewRecorder()
				srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, kind.Path(), nil))

				assert.Equal(t, http.StatusOK, w.Code)
				assert.JSONEq(t, `[]`, w.Body.String())
			})

			t.Run("some", func(t *testing.T) {
				mockRepo.EXPECT().List(gomock.Any()).Return([]Record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, nil)

				w := httptest.NewRecorder()
				srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, kind.Path(), nil))

				var got []Record
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Len(t, got, 2)
			})

			t.Run("error", func(t *testing.T) {
				mockRepo.EXPECT().List(gomock.Any()).Return(nil, context.DeadlineExceeded)

				w := httptest.NewRecorder()
				srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, kind.Path(), nil))

				assert.Equal(t, http.StatusInternalServerError, w.Code)
			})
		})
	}
}

func TestHTTPHandler_Get(t *testing.T) {
	mockRepo, srv := newTestServer(t, Publishers)

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), int64(1)).Return(Record{ID: 1, Name: "Penguin"}, nil)

		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/publishers/1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["id"])
		assert.Equal(t, "Penguin", body["name"])
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), int64(999)).Return(Record{}, record.NotFound("Publisher", 999))

		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/publishers/999", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Couldn't find Publisher with 'id'=999", decodeBody(t, w)["message"])
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/publishers/abc", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Couldn't find Publisher with 'id'=abc", decodeBody(t, w)["message"])
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	mockRepo, srv := newTestServer(t, Genres)

	t.Run("valid", func(t *testing.T) {
		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rec *Record) error {
				assert.Equal(t, "Satire", rec.Name)
				rec.ID = 6
				return nil
			})

		w := httptest.NewRecorder()
		srv.ServeHTTP(w, testutil.NewFormRequest(http.MethodPost, "/genres", url.Values{"name": {"Satire"}}))

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(6), body["id"])
		assert.Equal(t, "/genres/6", body["url"])
	})

	t.Run("missing name", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, testutil.NewFormRequest(http.MethodPost, "/genres", url.Values{}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Validation failed: Name can't be blank", decodeBody(t, w)["message"])
	})

	t.Run("blank name as json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/genres", strings.NewReader(`{"name":"  "}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Validation failed: Name can't be blank", decodeBody(t, w)["message"])
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/genres", strings.NewReader(`{"name"`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeBody(t, w)["message"])
	})
}

func TestHTTPHandler_Upsert(t *testing.T) {
	mockRepo, srv := newTestServer(t, Authors)

	t.Run("creates unknown id", func(t *testing.T) {
		mockRepo.EXPECT().
			Upsert(gomock.Any(), &Record{ID: 999, Name: "George Orwell"}).
			Return(true, nil)

		w := httptest.NewRecorder()
		srv.ServeHTTP(w, testutil.NewFormRequest(http.MethodPut, "/authors/999", url.Values{"name": {"George Orwell"}}))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, map[string]any{"url": "/authors/999"}, decodeBody(t, w))
	})

	t.Run("updates existing id", func(t *testing.T) {
		mockRepo.EXPECT().
			Upsert(gomock.Any(), &Record{ID: 1, Name: "Eric Blair"}).
			Return(false, nil)

		w := httptest.NewRecorder()
		srv.ServeHTTP(w, testutil.NewFormRequest(http.MethodPut, "/authors/1", url.Values{"name": {"Eric Blair"}}))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("blank name", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, testutil.NewFormRequest(http.MethodPut, "/authors/1", url.Values{"name": {""}}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, testutil.NewFormRequest(http.MethodPut, "/authors/-1", url.Values{"name": {"x"}}))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	mockRepo, srv := newTestServer(t, Publishers)

	t.Run("exists", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/publishers/1", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), int64(999)).Return(record.NotFound("Publisher", 999))

		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/publishers/999", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Couldn't find Publisher with 'id'=999", decodeBody(t, w)["message"])
	})

	t.Run("still referenced", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), int64(2)).Return(&record.ConflictError{
			Message: "Cannot delete Publisher with 'id'=2 because dependent books exist",
		})

		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/publishers/2", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHTTPHandler_MethodNotAllowed(t *testing.T) {
	_, srv := newTestServer(t, Genres)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/genres/1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestKind_URL(t *testing.T) {
	assert.Equal(t, "/authors", Authors.Path())
	assert.Equal(t, "/publishers/42", Publishers.URL(42))
}
