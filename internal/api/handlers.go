package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/kamado/internal/apperr"
	"github.com/starford/kamado/internal/catalog"
	"github.com/starford/kamado/internal/query"
)

// Handler holds API route handlers.
type Handler struct {
	store *catalog.Store
}

// NewHandler creates a new Handler.
func NewHandler(store *catalog.Store) *Handler {
	return &Handler{store: store}
}

// sortOrder maps the query parameter to a known sort order; anything
// unrecognized falls back to storage (creation) order.
func sortOrder(raw string) string {
	switch raw {
	case query.SortCreatedAsc, query.SortCreatedDesc, query.SortRatingAsc, query.SortRatingDesc:
		return raw
	}
	return query.SortCreatedAsc
}

// ListRecords handles GET /api/records.
//
//	@Summary		List records with optional filtering and sorting
//	@Tags			records
//	@Produce		json
//	@Param			folder	query		string	false	"Exact category match, or 'all'"
//	@Param			q		query		string	false	"Free-text search over title and ingredient names"
//	@Param			sort	query		string	false	"Sort order"	Enums(created_asc, created_desc, rating_asc, rating_desc)
//	@Success		200		{object}	RecordListResponse
//	@Security		BearerAuth
//	@Router			/records [get]
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := query.Filter{
		Folder: q.Get("folder"),
		Text:   q.Get("q"),
	}
	records := query.Run(h.store.Records(), f, sortOrder(q.Get("sort")))
	writeJSON(w, http.StatusOK, RecordListResponse{
		Records: records,
		Total:   len(records),
	})
}

// GetRecord handles GET /api/records/{id}.
//
//	@Summary		Get a single record by id
//	@Tags			records
//	@Produce		json
//	@Param			id	path		string	true	"Record id"
//	@Success		200	{object}	models.Record
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{id} [get]
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.store.GetRecord(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get record failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateRecord handles POST /api/records.
//
//	@Summary		Create a new record
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RecordPayload	true	"Record to create"
//	@Success		201		{object}	models.Record
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records [post]
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RecordPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	rec, err := h.store.CreateRecord(r.Context(), req.input())
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("create record failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// UpdateRecord handles PUT /api/records/{id}.
//
//	@Summary		Replace a record's editable fields
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Record id"
//	@Param			body	body		RecordPayload	true	"Updated fields"
//	@Success		200		{object}	models.Record
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{id} [put]
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req RecordPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ok, err := h.store.UpdateRecord(r.Context(), id, req.input())
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("update record failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	rec, err := h.store.GetRecord(id)
	if err != nil {
		slog.Error("reload updated record failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateRating handles PATCH /api/records/{id}/rating.
//
//	@Summary		Update only a record's rating
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Record id"
//	@Param			body	body		RatingPayload	true	"New rating (0–5)"
//	@Success		200		{object}	models.Record
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{id}/rating [patch]
func (h *Handler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req RatingPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ok, err := h.store.UpdateRating(r.Context(), id, req.Rating)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("update rating failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	rec, _ := h.store.GetRecord(id)
	writeJSON(w, http.StatusOK, rec)
}

// AppendLog handles POST /api/records/{id}/logs.
//
//	@Summary		Append a timestamped cooking log entry
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Record id"
//	@Param			body	body		LogPayload	true	"Log text"
//	@Success		201		{object}	models.Record
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{id}/logs [post]
func (h *Handler) AppendLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req LogPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ok, err := h.store.AppendLog(r.Context(), id, req.Text)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("append log failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	rec, _ := h.store.GetRecord(id)
	writeJSON(w, http.StatusCreated, rec)
}

// DeleteRecord handles DELETE /api/records/{id}.
// Deleting an id that is already gone is a tolerated no-op, per the
// store's contract, so this always answers 204 unless storage fails.
//
//	@Summary		Delete a record
//	@Tags			records
//	@Param			id	path	string	true	"Record id"
//	@Success		204	"Record deleted (or was already gone)"
//	@Security		BearerAuth
//	@Router			/records/{id} [delete]
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteRecord(r.Context(), id); err != nil {
		slog.Error("delete record failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFolders handles GET /api/folders.
//
//	@Summary		List category folders
//	@Tags			folders
//	@Produce		json
//	@Success		200	{object}	FolderListResponse
//	@Security		BearerAuth
//	@Router			/folders [get]
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FolderListResponse{Folders: h.store.ListFolders()})
}

// AddFolder handles POST /api/folders.
//
//	@Summary		Add a category folder
//	@Tags			folders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		FolderPayload	true	"Folder to add"
//	@Success		201		{object}	FolderListResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders [post]
func (h *Handler) AddFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ok, err := h.store.AddFolder(r.Context(), req.Name)
	if err != nil {
		slog.Error("add folder failed", slog.String("name", req.Name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !ok {
		writeJSON(w, http.StatusConflict, errorBody("folder name is empty or already exists"))
		return
	}
	writeJSON(w, http.StatusCreated, FolderListResponse{Folders: h.store.ListFolders()})
}

// SyncNow handles POST /api/sync.
//
//	@Summary		Push the catalog to the remote mirror now
//	@Tags			sync
//	@Success		204	"Mirror is up to date"
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sync [post]
func (h *Handler) SyncNow(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SyncNow(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncStatus handles GET /api/sync/status.
//
//	@Summary		Report the outcome of the most recent mirror push
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	SyncStatusResponse
//	@Security		BearerAuth
//	@Router			/sync/status [get]
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	resp := SyncStatusResponse{Synced: true}
	if err := h.store.LastSyncError(); err != nil {
		resp.Synced = false
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
