package resource

import (
	"net/http"

	"catalogapi/internal/httpx"
	"catalogapi/internal/record"
)

type HTTPHandler struct {
	kind    Kind
	service *Service
}

func NewHTTPHandler(kind Kind, service *Service) *HTTPHandler {
	return &HTTPHandler{kind: kind, service: service}
}

// Register mounts the five CRUD routes under the kind's collection path.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	base := h.kind.Path()
	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PUT "+base+"/{id}", h.Upsert)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// pathID reads {id}; a malformed id is reported like an unknown one.
func (h *HTTPHandler) pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, ok := record.ParseID(raw)
	if !ok {
		return 0, &record.NotFoundError{Model: h.kind.Model, ID: raw}
	}
	return id, nil
}

// List handles GET /{resource}
// @Summary List records
// @Tags authors,genres,publishers
// @Produce json
// @Success 200 {array} Record
// @Router /{resource} [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, records)
}

// Get handles GET /{resource}/{id}
// @Summary Get a record by id
// @Tags authors,genres,publishers
// @Produce json
// @Param id path int true "Record id"
// @Success 200 {object} Record
// @Failure 404 {object} httpx.ErrorResponse
// @Router /{resource}/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, rec)
}

// Create handles POST /{resource}
// @Summary Create a record
// @Tags authors,genres,publishers
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Name"
// @Success 201 {object} map[string]any
// @Failure 400 {object} httpx.ErrorResponse
// @Router /{resource} [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	params, err := httpx.ReadParams(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	rec, err := h.service.Create(r.Context(), params.Get("name"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, map[string]any{
		"id":  rec.ID,
		"url": h.kind.URL(rec.ID),
	})
}

// Upsert handles PUT /{resource}/{id}
// @Summary Create or update a record with a given id
// @Tags authors,genres,publishers
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "Record id"
// @Param name formData string true "Name"
// @Success 201 {object} map[string]string
// @Success 204 "No Content"
// @Failure 400 {object} httpx.ErrorResponse
// @Router /{resource}/{id} [put]
func (h *HTTPHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	params, err := httpx.ReadParams(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	_, created, err := h.service.Upsert(r.Context(), id, params.Get("name"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if !created {
		httpx.JSONSuccessNoContent(w)
		return
	}
	httpx.JSONSuccessCreated(w, map[string]string{"url": h.kind.URL(id)})
}

// Delete handles DELETE /{resource}/{id}
// @Summary Delete a record
// @Tags authors,genres,publishers
// @Param id path int true "Record id"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /{resource}/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
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
