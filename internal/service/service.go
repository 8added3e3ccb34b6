package service

import (
	"context"
	"errors"

	"artshare/internal/apiclient"
	"artshare/internal/config"
	"artshare/internal/models"
	"artshare/internal/session"
)

var (
	ErrNotArtist = errors.New("only artists can upload artworks")
	ErrInFlight  = errors.New("the same action is already in progress")
)

// Sessions is the part of the session store the page logic drives.
type Sessions interface {
	Get(ctx context.Context, id string) session.State
	Login(ctx context.Context, id, token string, user *models.User)
	Logout(ctx context.Context, id string)
	Elevate(ctx context.Context, id, expectedToken, newToken string, user *models.User) error
	Begin(id, action string) (done func(), ok bool)
}

type Service struct {
	Auth      AuthService
	Gallery   GalleryService
	Artwork   ArtworkService
	Favorites FavoritesService
	Upload    UploadService
}

func NewService(auth apiclient.AuthAPI, artworks apiclient.ArtworkAPI, sessions Sessions, cfg *config.Config) *Service {
	return &Service{
		Auth:      NewAuthService(auth, sessions),
		Gallery:   NewGalleryService(artworks),
		Artwork:   NewArtworkService(artworks, sessions),
		Favorites: NewFavoritesService(artworks, sessions),
		Upload:    NewUploadService(artworks, sessions, cfg.MaxUploadSize),
	}
}

// authorized reads the token of sid and fails if the session is anonymous.
func authorized(ctx context.Context, sessions Sessions, sid string) (session.State, error) {
	st := sessions.Get(ctx, sid)
	if !st.IsAuthenticated() {
		return st, session.ErrNotAuthenticated
	}
	return st, nil
}

// remoteDone is called once an API call returns. A cancelled request must not
// mutate the session, and an unauthorized answer clears it.
func remoteDone(ctx context.Context, sessions Sessions, sid string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, apiclient.ErrUnauthorized) {
		sessions.Logout(ctx, sid)
	}
	return err
}

// IsAuthError reports errors after which the user has to log in again.
func IsAuthError(err error) bool {
	return errors.Is(err, apiclient.ErrUnauthorized) ||
		errors.Is(err, session.ErrNotAuthenticated) ||
		errors.Is(err, session.ErrSessionChanged)
}
