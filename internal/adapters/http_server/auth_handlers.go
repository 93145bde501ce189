package httpserver

import (
	"net/http"

	"hotel_finder/internal/app"
)

func (h *Handlers) signup(w http.ResponseWriter, r *http.Request) {
	var in app.SignupInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.Accounts.Signup(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	sess, err := h.Accounts.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	u, err := h.Accounts.Me(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
