package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/kamado/internal/catalog"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(store *catalog.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(store)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Records CRUD.
	r.Get("/records", h.ListRecords)
	r.Post("/records", h.CreateRecord)
	r.Get("/records/{id}", h.GetRecord)
	r.Put("/records/{id}", h.UpdateRecord)
	r.Patch("/records/{id}/rating", h.UpdateRating)
	r.Post("/records/{id}/logs", h.AppendLog)
	r.Delete("/records/{id}", h.DeleteRecord)

	// Folders.
	r.Get("/folders", h.ListFolders)
	r.Post("/folders", h.AddFolder)

	// Remote mirror.
	r.Post("/sync", h.SyncNow)
	r.Get("/sync/status", h.SyncStatus)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
