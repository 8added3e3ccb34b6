package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"artshare/internal/models"
)

type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	UpdateArtistStatus(ctx context.Context, isArtist bool, token string) (*models.AuthResponse, error)
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
}

type authAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) AuthAPI {
	return &authAPI{c: c}
}

func (a *authAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.c.sendJSON(ctx, http.MethodPost, "/register", req, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.c.sendJSON(ctx, http.MethodPost, "/login", req, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAPI) UpdateArtistStatus(ctx context.Context, isArtist bool, token string) (*models.AuthResponse, error) {
	payload := struct {
		IsArtist bool `json:"is_artist"`
	}{IsArtist: isArtist}

	var resp models.AuthResponse
	if err := a.c.sendJSON(ctx, http.MethodPut, "/update-artist-status", payload, token, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAPI) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	var raw json.RawMessage
	if err := a.c.getJSON(ctx, "/user", token, &raw); err != nil {
		return nil, err
	}
	user, err := unwrap[models.User](raw, "user")
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}
