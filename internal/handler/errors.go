package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"artshare/internal/apiclient"
	"artshare/internal/guard"
	"artshare/internal/middleware"
	"artshare/internal/service"
	"artshare/internal/session"
)

// ErrorResponse is the JSON body of failed JSON requests.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, ErrorResponse{Error: message}, statusCode)
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// wantsJSON is true for script-driven form posts that expect data back
// instead of a redirect.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

const genericError = "Something went wrong. Please try again."

// failAction answers a failed form action. Auth failures send the user to
// the login page, everything else goes back to the page the action came
// from with a toast.
func (h *Handlers) failAction(w http.ResponseWriter, r *http.Request, err error, back string) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		return
	}

	var verrs service.ValidationErrors
	switch {
	case errors.Is(err, session.ErrSessionChanged):
		// another tab logged in while this action was running
		if wantsJSON(r) {
			WriteError(w, "Your session changed, please retry", http.StatusConflict)
			return
		}
		h.flash(r, session.FlashInfo, "Session changed", "Your session changed while this was running. Please try again.")
	case service.IsAuthError(err):
		h.requireLogin(w, r, back)
		return
	case errors.Is(err, service.ErrInFlight):
		if wantsJSON(r) {
			WriteError(w, "This action is already in progress", http.StatusConflict)
			return
		}
		h.flash(r, session.FlashInfo, "Please wait", "Your previous request is still being processed.")
	case errors.As(err, &verrs):
		if wantsJSON(r) {
			writeSuccess(w, ErrorResponse{Error: "invalid form", Fields: verrs}, http.StatusUnprocessableEntity)
			return
		}
		for _, msg := range verrs {
			h.flash(r, session.FlashError, "Error", msg)
		}
	default:
		h.logFailure(r, "action failed", err)
		if wantsJSON(r) {
			WriteError(w, genericError, statusFor(err))
			return
		}
		h.flash(r, session.FlashError, "Error", genericError)
	}

	redirect(w, r, back)
}

// requireLogin clears what is left of the session and sends the user to log
// in, returning to back afterwards.
func (h *Handlers) requireLogin(w http.ResponseWriter, r *http.Request, back string) {
	h.AuthService.Logout(r.Context(), middleware.SessionID(r.Context()))
	if wantsJSON(r) {
		WriteError(w, "Please log in", http.StatusUnauthorized)
		return
	}
	h.flash(r, session.FlashError, "Please log in", "You need to be logged in to do that.")
	redirect(w, r, guard.LoginURL(back))
}

func statusFor(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		return apiErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}

// loadError is the error state text of a page whose data could not be
// fetched.
func (h *Handlers) loadError(r *http.Request, what string, err error) string {
	h.logFailure(r, "failed to load page data", err)
	return "We could not load " + what + " right now. Please try again later."
}

func (h *Handlers) logFailure(r *http.Request, msg string, err error) {
	h.Logger.Warn(msg,
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.RequestID(r.Context())),
		zap.Error(err))
}
