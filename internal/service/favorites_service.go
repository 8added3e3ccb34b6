package service

import (
	"context"
	"fmt"

	"artshare/internal/apiclient"
	"artshare/internal/models"
)

type FavoritesService interface {
	List(ctx context.Context, sid string) ([]models.Artwork, error)
	Toggle(ctx context.Context, sid, id string) (FavoriteView, error)
}

type favoritesService struct {
	api      apiclient.ArtworkAPI
	sessions Sessions
}

func NewFavoritesService(api apiclient.ArtworkAPI, sessions Sessions) FavoritesService {
	return &favoritesService{
		api:      api,
		sessions: sessions,
	}
}

func (s *favoritesService) List(ctx context.Context, sid string) ([]models.Artwork, error) {
	st, err := authorized(ctx, s.sessions, sid)
	if err != nil {
		return nil, err
	}

	favorites, err := s.api.GetUserFavorites(ctx, st.Token)
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return favorites, nil
}

// Toggle flips an artwork listed on the favorites page, so the shown state
// is always favorited.
func (s *favoritesService) Toggle(ctx context.Context, sid, id string) (FavoriteView, error) {
	st, err := authorized(ctx, s.sessions, sid)
	if err != nil {
		return FavoriteView{IsFavorited: true}, err
	}

	done, ok := s.sessions.Begin(sid, "favorite:"+id)
	if !ok {
		return FavoriteView{IsFavorited: true}, ErrInFlight
	}
	defer done()

	state, err := s.api.ToggleFavorite(ctx, id, st.Token)
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return FavoriteView{IsFavorited: true}, fmt.Errorf("failed to update favorites: %w", err)
	}
	return ApplyFavorite(FavoriteView{IsFavorited: true}, state), nil
}

// WithoutArtwork drops id from a favorites list once it is unfavorited.
func WithoutArtwork(list []models.Artwork, id models.ID) []models.Artwork {
	out := make([]models.Artwork, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
