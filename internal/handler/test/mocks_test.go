package test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"artshare/internal/models"
	"artshare/internal/service"
	"artshare/internal/session"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, sid string, form service.LoginForm) (*models.User, error) {
	args := m.Called(ctx, sid, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, sid string, form service.RegisterForm) (*service.RegisterResult, error) {
	args := m.Called(ctx, sid, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegisterResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sid string) {
	m.Called(ctx, sid)
}

func (m *MockAuthService) BecomeArtist(ctx context.Context, sid string) (*models.User, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, sid string) (*models.User, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) List(ctx context.Context, q service.GalleryQuery) (*service.GalleryPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GalleryPage), args.Error(1)
}

func (m *MockGalleryService) Featured(ctx context.Context, n int) ([]models.Artwork, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artwork), args.Error(1)
}

type MockArtworkService struct {
	mock.Mock
}

func (m *MockArtworkService) Detail(ctx context.Context, id string) (*service.ArtworkDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArtworkDetail), args.Error(1)
}

func (m *MockArtworkService) ToggleLike(ctx context.Context, sid, id string, shown service.LikeView) (service.LikeView, error) {
	args := m.Called(ctx, sid, id, shown)
	return args.Get(0).(service.LikeView), args.Error(1)
}

func (m *MockArtworkService) ToggleFavorite(ctx context.Context, sid, id string, shown service.FavoriteView) (service.FavoriteView, error) {
	args := m.Called(ctx, sid, id, shown)
	return args.Get(0).(service.FavoriteView), args.Error(1)
}

func (m *MockArtworkService) AddComment(ctx context.Context, sid, id string, form service.CommentForm) (*models.Comment, error) {
	args := m.Called(ctx, sid, id, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockArtworkService) Related(ctx context.Context, artwork *models.Artwork, n int) ([]models.Artwork, error) {
	args := m.Called(ctx, artwork, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artwork), args.Error(1)
}

type MockFavoritesService struct {
	mock.Mock
}

func (m *MockFavoritesService) List(ctx context.Context, sid string) ([]models.Artwork, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artwork), args.Error(1)
}

func (m *MockFavoritesService) Toggle(ctx context.Context, sid, id string) (service.FavoriteView, error) {
	args := m.Called(ctx, sid, id)
	return args.Get(0).(service.FavoriteView), args.Error(1)
}

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, sid string, form service.UploadForm) (*models.Artwork, error) {
	args := m.Called(ctx, sid, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artwork), args.Error(1)
}

func (m *MockUploadService) MaxSize() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockHealthChecker) Kind() string {
	return m.Called().String(0)
}

// fakeSessions is an in-memory SessionView keyed by session id.
type fakeSessions struct {
	mu      sync.Mutex
	states  map[string]session.State
	flashes map[string][]session.Flash
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		states:  make(map[string]session.State),
		flashes: make(map[string][]session.Flash),
	}
}

func (f *fakeSessions) loggedIn(sid string, user *models.User) *fakeSessions {
	f.states[sid] = session.State{User: user, Token: "tok"}
	return f
}

func (f *fakeSessions) Get(ctx context.Context, id string) session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[id]
}

func (f *fakeSessions) AddFlash(id string, fl session.Flash) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flashes[id] = append(f.flashes[id], fl)
}

func (f *fakeSessions) PopFlashes(id string) []session.Flash {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.flashes[id]
	delete(f.flashes, id)
	return out
}

// pending returns the flashes queued for id without consuming them.
func (f *fakeSessions) pending(id string) []session.Flash {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]session.Flash(nil), f.flashes[id]...)
}
