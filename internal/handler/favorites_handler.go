package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"artshare/internal/middleware"
	"artshare/internal/models"
	"artshare/internal/service"
	"artshare/internal/session"
)

type FavoritesData struct {
	Favorites []models.Artwork
	LoadError string
}

func (h *Handlers) Favorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.FavoritesService.List(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		if service.IsAuthError(err) {
			h.requireLogin(w, r, r.URL.RequestURI())
			return
		}
		h.render(w, r, http.StatusBadGateway, "favorites", Page{
			Title: "Favorites",
			Data:  FavoritesData{LoadError: h.loadError(r, "your favorites", err)},
		})
		return
	}

	h.render(w, r, http.StatusOK, "favorites", Page{
		Title: "Favorites",
		Data:  FavoritesData{Favorites: favorites},
	})
}

func (h *Handlers) ToggleFavoriteFromList(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := h.FavoritesService.Toggle(r.Context(), middleware.SessionID(r.Context()), id)
	if err != nil {
		h.failAction(w, r, err, "/favorites")
		return
	}

	if wantsJSON(r) {
		writeSuccess(w, view, http.StatusOK)
		return
	}
	if !view.IsFavorited {
		h.flash(r, session.FlashInfo, "Removed from favorites", "")
	}
	redirect(w, r, "/favorites")
}
