package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cafe-fausse/server/internal/cafeservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events inside the
// session-protected group.
func NewRouter(svc *cafeservice.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Public endpoints.
	r.Get("/health", h.Health)
	r.Get("/menu", h.GetMenu)
	r.Post("/reservations", h.CreateReservation)
	r.Post("/newsletter", h.SubscribeNewsletter)
	r.Post("/admin", h.AdminLogin)

	// Admin endpoints require a live session token.
	r.Group(func(pr chi.Router) {
		pr.Use(RequireSession(svc))

		pr.Post("/admin/logout", h.AdminLogout)
		pr.Post("/menuchange", h.ChangeMenuItem)
		pr.Delete("/menu/items/{name}", h.DeleteMenuItem)

		if sseHandler != nil {
			pr.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
