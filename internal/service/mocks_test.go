package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"artshare/internal/models"
	"artshare/internal/repository"
	"artshare/internal/session"
)

type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) UpdateArtistStatus(ctx context.Context, isArtist bool, token string) (*models.AuthResponse, error) {
	args := m.Called(ctx, isArtist, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockArtworkAPI struct {
	mock.Mock
}

func (m *MockArtworkAPI) GetAllArtworks(ctx context.Context, filter models.ArtworkFilter) (*models.ArtworkList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArtworkList), args.Error(1)
}

func (m *MockArtworkAPI) GetArtworkByID(ctx context.Context, id string) (*models.Artwork, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artwork), args.Error(1)
}

func (m *MockArtworkAPI) AddArtwork(ctx context.Context, artwork models.NewArtwork, token string) (*models.Artwork, error) {
	args := m.Called(ctx, artwork, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artwork), args.Error(1)
}

func (m *MockArtworkAPI) ToggleLike(ctx context.Context, artworkID, token string) (*models.LikeState, error) {
	args := m.Called(ctx, artworkID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeState), args.Error(1)
}

func (m *MockArtworkAPI) ToggleFavorite(ctx context.Context, artworkID, token string) (*models.FavoriteState, error) {
	args := m.Called(ctx, artworkID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FavoriteState), args.Error(1)
}

func (m *MockArtworkAPI) GetUserFavorites(ctx context.Context, token string) ([]models.Artwork, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artwork), args.Error(1)
}

func (m *MockArtworkAPI) AddComment(ctx context.Context, artworkID, content, token string) (*models.Comment, error) {
	args := m.Called(ctx, artworkID, content, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockArtworkAPI) GetComments(ctx context.Context, artworkID string) ([]models.Comment, error) {
	args := m.Called(ctx, artworkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func newSessions() *session.Store {
	return session.NewStore(repository.NewMemorySessionRepository(), 0, nil)
}

func loggedIn(user models.User) *session.Store {
	s := newSessions()
	s.Login(context.Background(), "sid", "tok", &user)
	return s
}
