package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"artshare/internal/apiclient"
	"artshare/internal/models"
)

type UploadForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"required"`
	Tags        string `form:"tags"`
	ImageName   string `form:"-"`
	Image       []byte `form:"-"`
}

type UploadService interface {
	Upload(ctx context.Context, sid string, form UploadForm) (*models.Artwork, error)
	MaxSize() int64
}

type uploadService struct {
	api      apiclient.ArtworkAPI
	sessions Sessions
	maxSize  int64
}

func NewUploadService(api apiclient.ArtworkAPI, sessions Sessions, maxSize int64) UploadService {
	return &uploadService{
		api:      api,
		sessions: sessions,
		maxSize:  maxSize,
	}
}

func (s *uploadService) MaxSize() int64 { return s.maxSize }

// ParseTags splits a comma separated list, dropping blanks.
func ParseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// validate checks the form and returns the sniffed image type.
func (s *uploadService) validate(form *UploadForm) (string, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)

	errs := check(*form)

	var imageType string
	switch {
	case len(form.Image) == 0:
		errs.add("image", "Please select an image to upload")
	case s.maxSize > 0 && int64(len(form.Image)) > s.maxSize:
		errs.add("image", fmt.Sprintf("Image must be %s or smaller", humanize.IBytes(uint64(s.maxSize))))
	default:
		mt := mimetype.Detect(form.Image)
		if !strings.HasPrefix(mt.String(), "image/") {
			errs.add("image", "The selected file is not an image")
		}
		imageType = mt.String()
	}

	return imageType, orNil(errs)
}

func (s *uploadService) Upload(ctx context.Context, sid string, form UploadForm) (*models.Artwork, error) {
	st, err := authorized(ctx, s.sessions, sid)
	if err != nil {
		return nil, err
	}
	if !st.User.IsArtist {
		return nil, ErrNotArtist
	}

	imageType, err := s.validate(&form)
	if err != nil {
		return nil, err
	}

	done, ok := s.sessions.Begin(sid, "upload")
	if !ok {
		return nil, ErrInFlight
	}
	defer done()

	name := form.ImageName
	if name == "" {
		name = "artwork"
		if mt := mimetype.Lookup(imageType); mt != nil {
			name += mt.Extension()
		}
	}

	created, err := s.api.AddArtwork(ctx, models.NewArtwork{
		Title:       form.Title,
		Description: form.Description,
		Tags:        ParseTags(form.Tags),
		ImageName:   name,
		ImageType:   imageType,
		Image:       form.Image,
	}, st.Token)
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return nil, fmt.Errorf("failed to upload artwork: %w", err)
	}
	return created, nil
}
