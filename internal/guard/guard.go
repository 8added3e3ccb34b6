// Package guard decides whether a page may render for the current session.
package guard

import (
	"net/url"
	"strings"
)

const (
	LoginPath   = "/login"
	LandingPath = "/gallery"
)

type Outcome int

const (
	Render Outcome = iota
	RedirectLogin
	RedirectLanding
)

func (o Outcome) String() string {
	switch o {
	case RedirectLogin:
		return "redirect_login"
	case RedirectLanding:
		return "redirect_landing"
	default:
		return "render"
	}
}

type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide applies a route's auth requirement to the session. requested is the
// path and query of the current request and is carried to the login page.
func Decide(requireAuth, authenticated bool, requested string) Decision {
	switch {
	case requireAuth && !authenticated:
		return Decision{Outcome: RedirectLogin, Location: LoginURL(requested)}
	case !requireAuth && authenticated:
		return Decision{Outcome: RedirectLanding, Location: LandingPath}
	default:
		return Decision{Outcome: Render}
	}
}

func LoginURL(from string) string {
	if from == "" {
		return LoginPath
	}
	return LoginPath + "?from=" + url.QueryEscape(from)
}

// ReturnTo picks where to go after a login. Only local absolute paths are
// honored.
func ReturnTo(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return LandingPath
	}
	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return LandingPath
	}
	if u.Path == LoginPath || u.Path == "/register" {
		return LandingPath
	}
	return from
}
