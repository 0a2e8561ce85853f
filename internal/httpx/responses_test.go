package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONSuccess_EmptySlice(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccess(w, []string{})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Expected JSON content type, got %q", got)
	}
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("Expected empty array, got %q", got)
	}
}

func TestJSONSuccessCreated(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccessCreated(w, map[string]any{"id": 6, "url": "/genres/6"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["url"] != "/genres/6" {
		t.Errorf("Expected url /genres/6, got %v", body["url"])
	}
}

func TestJSONSuccessNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccessNoContent(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()

	JSONError(w, http.StatusBadRequest, "Validation failed: Name can't be blank")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	var response ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Message != "Validation failed: Name can't be blank" {
		t.Errorf("Unexpected message %q", response.Message)
	}
}
