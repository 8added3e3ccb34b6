package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"artshare/internal/apiclient"
	"artshare/internal/models"
)

const (
	AccountCollector = "collector"
	AccountArtist    = "artist"
)

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type RegisterForm struct {
	Username        string `form:"username" validate:"required,max=50"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
	AcceptTerms     bool   `form:"terms" validate:"required"`
	AccountType     string `form:"account_type" validate:"required,oneof=collector artist"`
}

// RegisterResult tells the page whether the new account is already logged in.
type RegisterResult struct {
	User     *models.User
	LoggedIn bool
}

type AuthService interface {
	Login(ctx context.Context, sid string, form LoginForm) (*models.User, error)
	Register(ctx context.Context, sid string, form RegisterForm) (*RegisterResult, error)
	Logout(ctx context.Context, sid string)
	BecomeArtist(ctx context.Context, sid string) (*models.User, error)
	CurrentUser(ctx context.Context, sid string) (*models.User, error)
}

type authService struct {
	api      apiclient.AuthAPI
	sessions Sessions
}

func NewAuthService(api apiclient.AuthAPI, sessions Sessions) AuthService {
	return &authService{
		api:      api,
		sessions: sessions,
	}
}

func (s *authService) Login(ctx context.Context, sid string, form LoginForm) (*models.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := orNil(check(form)); err != nil {
		return nil, err
	}

	done, ok := s.sessions.Begin(sid, "login")
	if !ok {
		return nil, ErrInFlight
	}
	defer done()

	resp, err := s.api.Login(ctx, models.LoginRequest{Email: form.Email, Password: form.Password})
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" || resp.User == nil {
		return nil, errors.New("login failed: the server answered without a token")
	}

	s.sessions.Login(ctx, sid, resp.Token, resp.User)
	return resp.User, nil
}

func (s *authService) Register(ctx context.Context, sid string, form RegisterForm) (*RegisterResult, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if err := orNil(check(form)); err != nil {
		return nil, err
	}

	done, ok := s.sessions.Begin(sid, "register")
	if !ok {
		return nil, ErrInFlight
	}
	defer done()

	req := models.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	}
	if form.AccountType == AccountArtist {
		isArtist := true
		req.IsArtist = &isArtist
	}

	resp, err := s.api.Register(ctx, req)
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	// some deployments create the account without issuing a token
	if resp.Token == "" || resp.User == nil {
		return &RegisterResult{User: resp.User}, nil
	}

	s.sessions.Login(ctx, sid, resp.Token, resp.User)
	return &RegisterResult{User: resp.User, LoggedIn: true}, nil
}

func (s *authService) Logout(ctx context.Context, sid string) {
	s.sessions.Logout(ctx, sid)
}

func (s *authService) BecomeArtist(ctx context.Context, sid string) (*models.User, error) {
	st, err := authorized(ctx, s.sessions, sid)
	if err != nil {
		return nil, err
	}

	done, ok := s.sessions.Begin(sid, "become-artist")
	if !ok {
		return nil, ErrInFlight
	}
	defer done()

	resp, err := s.api.UpdateArtistStatus(ctx, true, st.Token)
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return nil, fmt.Errorf("artist status update failed: %w", err)
	}

	user := *st.User
	if resp.User != nil {
		user = *resp.User
	}
	user.IsArtist = true

	token := resp.Token
	if token == "" {
		token = st.Token
	}

	if err := s.sessions.Elevate(ctx, sid, st.Token, token, &user); err != nil {
		return nil, fmt.Errorf("artist status update failed: %w", err)
	}
	return &user, nil
}

func (s *authService) CurrentUser(ctx context.Context, sid string) (*models.User, error) {
	st, err := authorized(ctx, s.sessions, sid)
	if err != nil {
		return nil, err
	}

	user, err := s.api.GetCurrentUser(ctx, st.Token)
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	// keep the stored user in step with the API without touching the token
	if *user != *st.User {
		if err := s.sessions.Elevate(ctx, sid, st.Token, st.Token, user); err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}
	return user, nil
}
