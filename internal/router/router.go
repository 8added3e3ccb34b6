// Package router builds the page routes and their middleware.
package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"artshare/internal/config"
	handlers "artshare/internal/handler"
	"artshare/internal/middleware"
)

// access is the auth requirement a route declares.
type access int

const (
	public access = iota
	guestOnly
	membersOnly
)

type Router struct {
	Mux      *mux.Router
	sessions middleware.SessionReader
}

func (rt *Router) handle(path string, a access, h http.HandlerFunc, methods ...string) {
	var handler http.Handler = h
	switch a {
	case guestOnly:
		handler = middleware.RouteGuard(rt.sessions, false)(handler)
	case membersOnly:
		handler = middleware.RouteGuard(rt.sessions, true)(handler)
	}
	rt.Mux.Handle(path, handler).Methods(methods...)
}

// New wires every route. The returned handler runs, outermost first:
// recover, request logging, session cookie, then the route guard.
func New(h *handlers.Handlers, sessions middleware.SessionReader, cfg *config.Config, logger *zap.Logger) http.Handler {
	rt := &Router{
		Mux:      mux.NewRouter(),
		sessions: sessions,
	}

	rt.handle("/", public, h.Home, http.MethodGet)
	rt.handle("/gallery", public, h.Gallery, http.MethodGet)
	rt.handle("/artwork/{id}", public, h.Artwork, http.MethodGet)
	rt.handle("/health", public, h.HealthCheck, http.MethodGet)

	rt.handle("/login", guestOnly, h.LoginPage, http.MethodGet)
	rt.handle("/login", guestOnly, h.Login, http.MethodPost)
	rt.handle("/register", guestOnly, h.RegisterPage, http.MethodGet)
	rt.handle("/register", guestOnly, h.Register, http.MethodPost)

	rt.handle("/logout", membersOnly, h.Logout, http.MethodPost)
	rt.handle("/profile", membersOnly, h.Profile, http.MethodGet)
	rt.handle("/profile/artist", membersOnly, h.BecomeArtist, http.MethodPost)
	rt.handle("/favorites", membersOnly, h.Favorites, http.MethodGet)
	rt.handle("/favorites/{id}", membersOnly, h.ToggleFavoriteFromList, http.MethodPost)
	rt.handle("/upload", membersOnly, h.UploadPage, http.MethodGet)
	rt.handle("/upload", membersOnly, h.Upload, http.MethodPost)
	rt.handle("/artwork/{id}/like", membersOnly, h.ToggleLike, http.MethodPost)
	rt.handle("/artwork/{id}/favorite", membersOnly, h.ToggleFavorite, http.MethodPost)
	rt.handle("/artwork/{id}/comments", membersOnly, h.AddComment, http.MethodPost)

	rt.Mux.NotFoundHandler = http.HandlerFunc(h.NotFound)
	rt.Mux.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return middleware.Chain(
		rt.Mux,
		middleware.Sessions(middleware.CookieOptions{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.TTL,
			Secure: cfg.Session.CookieSecure,
		}),
		middleware.Logging(logger),
		middleware.Recover(logger),
	)
}
