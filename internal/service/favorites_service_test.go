package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artshare/internal/apiclient"
	"artshare/internal/models"
)

func TestFavoritesService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the session token", func(t *testing.T) {
		api := new(MockArtworkAPI)
		svc := NewFavoritesService(api, loggedIn(models.User{ID: "1"}))

		api.On("GetUserFavorites", mock.Anything, "tok").Return(sampleArtworks()[:2], nil)

		list, err := svc.List(ctx, "sid")

		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("forbidden logs out", func(t *testing.T) {
		api := new(MockArtworkAPI)
		sessions := loggedIn(models.User{ID: "1"})
		svc := NewFavoritesService(api, sessions)

		api.On("GetUserFavorites", mock.Anything, "tok").Return(nil, &apiclient.APIError{StatusCode: http.StatusForbidden})

		_, err := svc.List(ctx, "sid")

		assert.True(t, IsAuthError(err))
		assert.False(t, sessions.Get(ctx, "sid").IsAuthenticated())
	})
}

func TestFavoritesService_Toggle(t *testing.T) {
	api := new(MockArtworkAPI)
	svc := NewFavoritesService(api, loggedIn(models.User{ID: "1"}))

	api.On("ToggleFavorite", mock.Anything, "2", "tok").Return(&models.FavoriteState{IsFavorited: boolPtr(false)}, nil)

	view, err := svc.Toggle(context.Background(), "sid", "2")

	require.NoError(t, err)
	assert.False(t, view.IsFavorited)
	assert.Equal(t, []models.ID{"1", "3"}, ids(WithoutArtwork(sampleArtworks(), "2")))
}

func TestFavoritesService_ToggleWithoutReportedState(t *testing.T) {
	api := new(MockArtworkAPI)
	svc := NewFavoritesService(api, loggedIn(models.User{ID: "1"}))

	api.On("ToggleFavorite", mock.Anything, "2", "tok").Return(&models.FavoriteState{}, nil)

	view, err := svc.Toggle(context.Background(), "sid", "2")

	require.NoError(t, err)
	assert.False(t, view.IsFavorited)
}
