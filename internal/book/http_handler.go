package book

import (
	"net/http"

	"catalogapi/internal/httpx"
	"catalogapi/internal/record"
)

type HTTPHandler struct {
	service   *Service
	validator *Validator
}

func NewHTTPHandler(service *Service, validator *Validator) *HTTPHandler {
	return &HTTPHandler{service: service, validator: validator}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("GET /books/{id}", h.Get)
	mux.HandleFunc("PUT /books/{id}", h.Upsert)
	mux.HandleFunc("DELETE /books/{id}", h.Delete)
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, ok := record.ParseID(raw)
	if !ok {
		return 0, &record.NotFoundError{Model: Model, ID: raw}
	}
	return id, nil
}

// readPayload validates the request parameters and resolves the book's
// author and publisher references.
func (h *HTTPHandler) readPayload(r *http.Request) (Payload, error) {
	params, err := httpx.ReadParams(r)
	if err != nil {
		return Payload{}, err
	}
	return h.validator.Validate(r.Context(), FormFromParams(params))
}

// List handles GET /books
// @Summary List books
// @Tags books
// @Produce json
// @Success 200 {array} Book
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, books)
}

// Get handles GET /books/{id}
// @Summary Get a book by id
// @Tags books
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {object} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Create handles POST /books
// @Summary Create a book
// @Tags books
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Title"
// @Param pages formData string true "Number of pages"
// @Param authors_ids formData string true "JSON array of author ids"
// @Param publisher_id formData string true "Publisher id"
// @Success 201 {object} map[string]any
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := h.readPayload(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	b, err := h.service.Create(r.Context(), payload)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, map[string]any{
		"id":  b.ID,
		"url": URL(b.ID),
	})
}

// Upsert handles PUT /books/{id}
// @Summary Create or replace a book with a given id
// @Tags books
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "Book id"
// @Param title formData string true "Title"
// @Param pages formData string true "Number of pages"
// @Param authors_ids formData string true "JSON array of author ids"
// @Param publisher_id formData string true "Publisher id"
// @Success 201 {object} map[string]string
// @Success 204 "No Content"
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /books/{id} [put]
func (h *HTTPHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	payload, err := h.readPayload(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	_, created, err := h.service.Upsert(r.Context(), id, payload)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if !created {
		httpx.JSONSuccessNoContent(w)
		return
	}
	httpx.JSONSuccessCreated(w, map[string]string{"url": URL(id)})
}

// Delete handles DELETE /books/{id}
// @Summary Delete a book
// @Tags books
// @Param id path int true "Book id"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
