package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/validation"
)

// HotelResolver answers a city search.
type HotelResolver interface {
	Resolve(ctx context.Context, city string) []domain.HotelRecord
}

type AccountService interface {
	Authenticator
	Signup(ctx context.Context, in app.SignupInput) (domain.User, error)
	Login(ctx context.Context, in app.LoginInput) (app.Session, error)
	Me(ctx context.Context, p domain.Principal) (domain.User, error)
}

type Handlers struct {
	Hotels   HotelResolver
	Accounts AccountService
	Content  *app.Content
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// hotelJSON is the public shape of a search hit.
type hotelJSON struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Rating      *float64 `json:"rating"`
	Address     *string  `json:"address"`
	Description *string  `json:"description"`
}

type searchResponse struct {
	Hotels []hotelJSON `json:"hotels"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/search", h.search)
	s.mux.Get("/v1/hotels", h.search)

	if h.Accounts != nil {
		s.mux.Route("/v1/auth", func(r chi.Router) {
			r.Post("/signup", h.signup)
			r.Post("/login", h.login)
			r.With(RequireAuth(h.Accounts)).Get("/me", h.me)
		})
	}
	if h.Content != nil && h.Accounts != nil {
		h.mountContent(s.mux, RequireAuth(h.Accounts))
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain and validation errors to problem responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{Type: "about:blank", Title: "Invalid input", Status: http.StatusBadRequest,
			Detail: "one or more fields are invalid", Errors: ve.Fields})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", "resource already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired session")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "not allowed")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// search serves both the form post (POST /search, field "city") and GET /v1/hotels?city=.
func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.FormValue("city"))
	if city == "" {
		writeProblem(w, http.StatusBadRequest, "Missing city", "Please enter a city name")
		return
	}

	hotels := h.Hotels.Resolve(r.Context(), city)
	if len(hotels) == 0 {
		writeProblem(w, http.StatusNotFound, "Not Found", fmt.Sprintf("No hotels found for %s", city))
		return
	}

	resp := searchResponse{Hotels: make([]hotelJSON, 0, len(hotels))}
	for _, x := range hotels {
		resp.Hotels = append(resp.Hotels, hotelJSON{
			Name: x.Name, Price: x.Price, Rating: x.Rating, Address: x.Address, Description: x.Description,
		})
	}

	etag, body := calcETagAndBody(resp)
	if r.Method == http.MethodGet {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write search body")
	}
}
