package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"artshare/internal/apiclient"
	"artshare/internal/middleware"
	"artshare/internal/service"
	"artshare/internal/session"
)

type ArtworkData struct {
	Detail     *service.ArtworkDetail
	MaxComment int
}

func artworkURL(id string) string {
	return "/artwork/" + id
}

func (h *Handlers) Artwork(w http.ResponseWriter, r *http.Request) {
	h.renderArtwork(w, r, http.StatusOK, Page{})
}

func (h *Handlers) renderArtwork(w http.ResponseWriter, r *http.Request, status int, page Page) {
	id := mux.Vars(r)["id"]

	detail, err := h.ArtworkService.Detail(r.Context(), id)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		if errors.Is(err, apiclient.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logFailure(r, "failed to load artwork", err)
		h.flash(r, session.FlashError, "Error", "We could not load this artwork. Please try again later.")
		redirect(w, r, "/gallery")
		return
	}

	if detail.CommentsUnavailable {
		page.Flashes = append(page.Flashes, session.Flash{
			Kind:    session.FlashError,
			Title:   "Error",
			Message: "Comments could not be loaded.",
		})
	}

	page.Title = detail.Artwork.Title
	page.Data = ArtworkData{Detail: detail, MaxComment: service.MaxCommentLength}
	h.render(w, r, status, "artwork", page)
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	likes, _ := strconv.Atoi(r.PostFormValue("likes"))
	shown := service.LikeView{
		IsLiked: r.PostFormValue("is_liked") == "true",
		Likes:   likes,
	}

	view, err := h.ArtworkService.ToggleLike(r.Context(), middleware.SessionID(r.Context()), id, shown)
	if err != nil {
		h.failAction(w, r, err, artworkURL(id))
		return
	}

	if wantsJSON(r) {
		writeSuccess(w, view, http.StatusOK)
		return
	}
	redirect(w, r, artworkURL(id))
}

func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	shown := service.FavoriteView{IsFavorited: r.PostFormValue("is_favorited") == "true"}

	view, err := h.ArtworkService.ToggleFavorite(r.Context(), middleware.SessionID(r.Context()), id, shown)
	if err != nil {
		h.failAction(w, r, err, artworkURL(id))
		return
	}

	if wantsJSON(r) {
		writeSuccess(w, view, http.StatusOK)
		return
	}
	if view.IsFavorited {
		h.flash(r, session.FlashSuccess, "Added to favorites", "You can find it on your favorites page.")
	} else {
		h.flash(r, session.FlashInfo, "Removed from favorites", "")
	}
	redirect(w, r, artworkURL(id))
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	form := service.CommentForm{Content: r.PostFormValue("content")}

	_, err := h.ArtworkService.AddComment(r.Context(), middleware.SessionID(r.Context()), id, form)
	if err != nil {
		var verrs service.ValidationErrors
		if errors.As(err, &verrs) && !wantsJSON(r) {
			h.renderArtwork(w, r, http.StatusUnprocessableEntity, Page{
				Errors: verrs,
				Form:   map[string]string{"content": form.Content},
			})
			return
		}
		h.failAction(w, r, err, artworkURL(id))
		return
	}

	h.flash(r, session.FlashSuccess, "Comment posted", "")
	redirect(w, r, artworkURL(id))
}
