package handlers

import (
	"errors"
	"io"
	"net/http"

	"artshare/internal/middleware"
	"artshare/internal/service"
	"artshare/internal/session"
)

// multipart fields and headers on top of the image itself
const formOverhead = 1 << 20

type UploadData struct {
	NotArtist bool
	MaxSize   int64
}

func (h *Handlers) uploadPage(status int, notArtist bool) (int, Page) {
	return status, Page{
		Title: "Upload artwork",
		Data:  UploadData{NotArtist: notArtist, MaxSize: h.UploadService.MaxSize()},
	}
}

func (h *Handlers) UploadPage(w http.ResponseWriter, r *http.Request) {
	st := h.Sessions.Get(r.Context(), middleware.SessionID(r.Context()))
	notArtist := st.User == nil || !st.User.IsArtist

	status, page := h.uploadPage(http.StatusOK, notArtist)
	h.render(w, r, status, "upload", page)
}

// readImage returns at most limit+1 bytes of the uploaded image so an
// oversized file is detected without buffering all of it.
func readImage(r *http.Request, limit int64) ([]byte, string, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

// badUpload answers a body that is not a readable multipart form.
func (h *Handlers) badUpload(w http.ResponseWriter, r *http.Request, err error) {
	h.logFailure(r, "unreadable upload form", err)
	if wantsJSON(r) {
		WriteError(w, "Invalid form", http.StatusBadRequest)
		return
	}
	status, page := h.uploadPage(http.StatusBadRequest, false)
	page.Errors = service.ValidationErrors{"form": "The upload could not be read. Please try again."}
	h.render(w, r, status, "upload", page)
}

func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if st := h.Sessions.Get(r.Context(), middleware.SessionID(r.Context())); st.User != nil && !st.User.IsArtist {
		status, page := h.uploadPage(http.StatusForbidden, true)
		h.render(w, r, status, "upload", page)
		return
	}

	maxSize := h.UploadService.MaxSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+formOverhead)

	form := service.UploadForm{}
	var verrs service.ValidationErrors

	if err := r.ParseMultipartForm(maxSize + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			h.badUpload(w, r, err)
			return
		}
		verrs = service.ValidationErrors{"image": "The upload is too large"}
	} else {
		form.Title = r.PostFormValue("title")
		form.Description = r.PostFormValue("description")
		form.Tags = r.PostFormValue("tags")

		image, name, err := readImage(r, maxSize)
		if err != nil {
			h.badUpload(w, r, err)
			return
		}
		form.Image, form.ImageName = image, name
	}

	refill := map[string]string{
		"title":       form.Title,
		"description": form.Description,
		"tags":        form.Tags,
	}

	if verrs == nil {
		created, err := h.UploadService.Upload(r.Context(), middleware.SessionID(r.Context()), form)
		switch {
		case err == nil:
			h.flash(r, session.FlashSuccess, "Artwork uploaded", "Your artwork is now visible in the gallery.")
			redirect(w, r, artworkURL(created.ID.String()))
			return
		case errors.Is(err, service.ErrNotArtist):
			status, page := h.uploadPage(http.StatusForbidden, true)
			h.render(w, r, status, "upload", page)
			return
		case errors.As(err, &verrs):
		default:
			h.failAction(w, r, err, "/upload")
			return
		}
	}

	status, page := h.uploadPage(http.StatusUnprocessableEntity, false)
	page.Errors = verrs
	page.Form = refill
	h.render(w, r, status, "upload", page)
}
