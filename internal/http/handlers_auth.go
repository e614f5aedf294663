package http

import (
	"errors"
	"net/http"

	"tracker/internal/core"
	applog "tracker/internal/log"
)

// authPageData feeds the login and register templates. Submitted values come
// back on errors so the user does not retype everything.
type authPageData struct {
	Error   string
	ID      string
	Name    string
	Balance string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", authPageData{})
	case http.MethodPost:
		s.handleLoginSubmit(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	id := formValue(r, "id")
	password := r.Form.Get("password")

	sess, err := s.accounts.Login(r.Context(), id, password)
	switch {
	case errors.Is(err, core.ErrValidation):
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "login.html", authPageData{Error: "All fields are required.", ID: id})
		return
	case errors.Is(err, core.ErrAuthentication):
		s.logger.WarnContext(r.Context(), "Login rejected", applog.FieldAccount, id)
		s.renderStatus(w, r, http.StatusUnauthorized, "login.html", authPageData{Error: "Invalid user ID or password.", ID: id})
		return
	case err != nil:
		InternalServerError("Login failed").Write(w)
		return
	}

	s.setSession(sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "register.html", authPageData{})
	case http.MethodPost:
		s.handleRegisterSubmit(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	id := formValue(r, "id")
	name := formValue(r, "name")
	password := r.Form.Get("password")
	balance := formValue(r, "balance")

	data := authPageData{ID: id, Name: name, Balance: balance}

	err := s.accounts.Register(r.Context(), id, name, password, balance)
	switch {
	case errors.Is(err, core.ErrDuplicateAccount):
		data.Error = "That user ID is already taken."
		s.renderStatus(w, r, http.StatusConflict, "register.html", data)
		return
	case errors.Is(err, core.ErrValidation):
		data.Error = "All fields are required and the balance must be a non-negative number."
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "register.html", data)
		return
	case err != nil:
		InternalServerError("Registration failed").Write(w)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	s.setSession(s.accounts.Logout(s.currentSession()))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
