package handlers

import (
	"context"
	"errors"
	"net/http"

	"artshare/internal/apiclient"
	"artshare/internal/guard"
	"artshare/internal/middleware"
	"artshare/internal/service"
	"artshare/internal/session"
)

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", Page{
		Title: "Log in",
		Form:  map[string]string{"from": r.URL.Query().Get("from")},
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := service.LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	from := r.PostFormValue("from")
	page := Page{
		Title: "Log in",
		Form:  map[string]string{"email": form.Email, "from": from},
	}

	user, err := h.AuthService.Login(r.Context(), middleware.SessionID(r.Context()), form)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		status, errs := authFormError(err, "Invalid email or password")
		if status >= http.StatusInternalServerError {
			h.logFailure(r, "login failed", err)
		}
		page.Errors = errs
		h.render(w, r, status, "login", page)
		return
	}

	h.flash(r, session.FlashSuccess, "Welcome back", "Logged in as "+user.Username+".")
	redirect(w, r, guard.ReturnTo(from))
}

func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", Page{
		Title: "Sign up",
		Form: map[string]string{
			"from":         r.URL.Query().Get("from"),
			"account_type": service.AccountCollector,
		},
	})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := service.RegisterForm{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		AcceptTerms:     r.PostFormValue("terms") != "",
		AccountType:     r.PostFormValue("account_type"),
	}
	from := r.PostFormValue("from")
	page := Page{
		Title: "Sign up",
		Form: map[string]string{
			"username":     form.Username,
			"email":        form.Email,
			"account_type": form.AccountType,
			"terms":        r.PostFormValue("terms"),
			"from":         from,
		},
	}

	res, err := h.AuthService.Register(r.Context(), middleware.SessionID(r.Context()), form)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		status, errs := authFormError(err, "Registration was refused")
		if status >= http.StatusInternalServerError {
			h.logFailure(r, "registration failed", err)
		}
		page.Errors = errs
		h.render(w, r, status, "register", page)
		return
	}

	h.flash(r, session.FlashSuccess, "Success", "Your "+form.AccountType+" account has been created successfully.")
	if !res.LoggedIn {
		redirect(w, r, guard.LoginURL(from))
		return
	}
	redirect(w, r, guard.ReturnTo(from))
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.AuthService.Logout(r.Context(), middleware.SessionID(r.Context()))
	h.flash(r, session.FlashInfo, "Logged out", "See you soon.")
	redirect(w, r, "/")
}

// authFormError maps a failed login or registration to the status and the
// inline errors of the re-rendered form.
func authFormError(err error, refused string) (int, service.ValidationErrors) {
	var verrs service.ValidationErrors
	var apiErr *apiclient.APIError

	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, verrs
	case errors.Is(err, service.ErrInFlight):
		return http.StatusConflict, service.ValidationErrors{"form": "Your previous request is still being processed."}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, service.ValidationErrors{"form": genericError}
	case errors.Is(err, apiclient.ErrUnauthorized):
		return http.StatusUnauthorized, service.ValidationErrors{"form": refused}
	case errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError:
		msg := apiErr.Message
		if msg == "" {
			msg = refused
		}
		return apiErr.StatusCode, service.ValidationErrors{"form": msg}
	default:
		return http.StatusBadGateway, service.ValidationErrors{"form": genericError}
	}
}
