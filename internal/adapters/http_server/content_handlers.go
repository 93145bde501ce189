package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hotel_finder/internal/domain"
)

func (h *Handlers) mountContent(m chi.Router, auth func(http.Handler) http.Handler) {
	c := h.Content

	m.Route("/v1/blog", func(r chi.Router) {
		r.Get("/", listAll(c.ListBlogPosts))
		r.Get("/{id}", getByID(c.GetBlogPost))
		r.With(auth).Post("/", create(c.CreateBlogPost))
		r.With(auth).Put("/{id}", h.updateBlogPost)
	})
	m.Route("/v1/city-guides", func(r chi.Router) {
		r.Get("/", listAll(c.ListCityGuides))
		r.Get("/{id}", getByID(c.GetCityGuide))
		r.With(auth).Post("/", create(c.CreateCityGuide))
	})
	m.Route("/v1/events", func(r chi.Router) {
		r.Get("/", listAll(c.ListUpcomingEvents))
		r.Get("/{id}", getByID(c.GetEvent))
		r.With(auth).Post("/", create(c.CreateEvent))
	})
	m.Route("/v1/restaurants", func(r chi.Router) {
		r.Get("/", listByCity(c.ListRestaurants))
		r.Get("/{id}", getByID(c.GetRestaurant))
		r.With(auth).Post("/", create(c.CreateRestaurant))
	})
	m.Route("/v1/transportation", func(r chi.Router) {
		r.Get("/", listByCity(c.ListTransportation))
		r.Get("/{id}", getByID(c.GetTransportation))
		r.With(auth).Post("/", create(c.CreateTransportation))
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

func listAll[T any](fn func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if out == nil {
			out = []T{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": out})
	}
}

// listByCity passes the optional ?city= filter through.
func listByCity[T any](fn func(context.Context, string) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("city")
		listAll(func(ctx context.Context) ([]T, error) { return fn(ctx, city) })(w, r)
	}
}

func getByID[T any](fn func(context.Context, int64) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		v, err := fn(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func create[T any](fn func(context.Context, domain.Principal, T) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFrom(r.Context())
		if !ok {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		var in T
		if !decodeJSON(w, r, &in) {
			return
		}
		out, err := fn(r.Context(), p, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func (h *Handlers) updateBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, ok := principalFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return
	}
	var in domain.BlogPost
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Content.UpdateBlogPost(r.Context(), p, id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
