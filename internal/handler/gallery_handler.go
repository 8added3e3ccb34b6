package handlers

import (
	"net/http"

	"artshare/internal/models"
	"artshare/internal/service"
)

const featuredCount = 6

type HomeData struct {
	Featured  []models.Artwork
	LoadError string
}

type GalleryData struct {
	*service.GalleryPage
	Sorts     map[string]string
	LoadError string
}

var sortLabels = map[string]string{
	service.SortNewest:  "Newest first",
	service.SortOldest:  "Oldest first",
	service.SortPopular: "Most liked",
	service.SortTitle:   "Title A-Z",
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	data := HomeData{}

	featured, err := h.GalleryService.Featured(r.Context(), featuredCount)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		data.LoadError = h.loadError(r, "featured artworks", err)
	}
	data.Featured = featured

	h.render(w, r, http.StatusOK, "home", Page{Data: data})
}

func (h *Handlers) Gallery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.GalleryQuery{
		Search:   q.Get("search"),
		Tag:      q.Get("tag"),
		Sort:     q.Get("sort"),
		ArtistID: q.Get("artist"),
		Category: q.Get("category"),
	}

	data := GalleryData{Sorts: sortLabels}
	status := http.StatusOK

	page, err := h.GalleryService.List(r.Context(), query)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		data.LoadError = h.loadError(r, "the gallery", err)
		page = &service.GalleryPage{Query: query}
		status = http.StatusBadGateway
	}
	data.GalleryPage = page

	h.render(w, r, status, "gallery", Page{Title: "Gallery", Data: data})
}
