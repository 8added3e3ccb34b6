package handlers

import (
	"context"

	"go.uber.org/zap"

	"artshare/internal/config"
	"artshare/internal/service"
	"artshare/internal/session"
)

// SessionView is what pages need from the session store.
type SessionView interface {
	Get(ctx context.Context, id string) session.State
	AddFlash(id string, f session.Flash)
	PopFlashes(id string) []session.Flash
}

// HealthChecker reports on session persistence.
type HealthChecker interface {
	Count(ctx context.Context) (int, error)
	Kind() string
}

type Handlers struct {
	AuthService      service.AuthService
	GalleryService   service.GalleryService
	ArtworkService   service.ArtworkService
	FavoritesService service.FavoritesService
	UploadService    service.UploadService
	Sessions         SessionView
	Health           HealthChecker
	Templates        *Templates
	Cfg              *config.Config
	Logger           *zap.Logger
}

func NewHandlers(svc *service.Service, sessions SessionView, health HealthChecker, cfg *config.Config, logger *zap.Logger) (*Handlers, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handlers{
		AuthService:      svc.Auth,
		GalleryService:   svc.Gallery,
		ArtworkService:   svc.Artwork,
		FavoritesService: svc.Favorites,
		UploadService:    svc.Upload,
		Sessions:         sessions,
		Health:           health,
		Templates:        templates,
		Cfg:              cfg,
		Logger:           logger,
	}, nil
}
