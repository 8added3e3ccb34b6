package handlers

import (
	"errors"
	"net/http"

	"artshare/internal/apiclient"
	"artshare/internal/middleware"
	"artshare/internal/models"
	"artshare/internal/service"
	"artshare/internal/session"
)

type ProfileData struct {
	User      *models.User
	LoadError string
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r.Context())

	user, err := h.AuthService.CurrentUser(r.Context(), sid)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		if service.IsAuthError(err) {
			h.requireLogin(w, r, r.URL.RequestURI())
			return
		}
		// fall back to the user stored with the session
		data := ProfileData{User: h.Sessions.Get(r.Context(), sid).User}
		var apiErr *apiclient.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode >= http.StatusInternalServerError {
			data.LoadError = h.loadError(r, "your latest profile", err)
		}
		if data.User == nil {
			h.requireLogin(w, r, r.URL.RequestURI())
			return
		}
		h.render(w, r, http.StatusOK, "profile", Page{Title: "Profile", Data: data})
		return
	}

	h.render(w, r, http.StatusOK, "profile", Page{Title: "Profile", Data: ProfileData{User: user}})
}

func (h *Handlers) BecomeArtist(w http.ResponseWriter, r *http.Request) {
	_, err := h.AuthService.BecomeArtist(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.failAction(w, r, err, "/profile")
		return
	}

	h.flash(r, session.FlashSuccess, "You are now an artist", "You can now upload your artworks!")
	redirect(w, r, "/upload")
}
