package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"artshare/internal/models"
)

type ArtworkAPI interface {
	GetAllArtworks(ctx context.Context, filter models.ArtworkFilter) (*models.ArtworkList, error)
	GetArtworkByID(ctx context.Context, id string) (*models.Artwork, error)
	AddArtwork(ctx context.Context, artwork models.NewArtwork, token string) (*models.Artwork, error)
	ToggleLike(ctx context.Context, artworkID, token string) (*models.LikeState, error)
	ToggleFavorite(ctx context.Context, artworkID, token string) (*models.FavoriteState, error)
	GetUserFavorites(ctx context.Context, token string) ([]models.Artwork, error)
	AddComment(ctx context.Context, artworkID, content, token string) (*models.Comment, error)
	GetComments(ctx context.Context, artworkID string) ([]models.Comment, error)
}

type artworkAPI struct {
	c *Client
}

func NewArtworkAPI(c *Client) ArtworkAPI {
	return &artworkAPI{c: c}
}

func artworkPath(id string, suffix string) string {
	return "/artworks/" + url.PathEscape(id) + suffix
}

func (a *artworkAPI) GetAllArtworks(ctx context.Context, filter models.ArtworkFilter) (*models.ArtworkList, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Tag != "" {
		q.Set("tag", filter.Tag)
	}
	if filter.ArtistID != "" {
		q.Set("artist_id", filter.ArtistID)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}

	path := "/artworks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list models.ArtworkList
	if err := a.c.getJSON(ctx, path, "", &list); err != nil {
		return nil, err
	}
	if list.Count == 0 {
		list.Count = len(list.Artworks)
	}
	return &list, nil
}

func (a *artworkAPI) GetArtworkByID(ctx context.Context, id string) (*models.Artwork, error) {
	var raw json.RawMessage
	if err := a.c.getJSON(ctx, artworkPath(id, ""), "", &raw); err != nil {
		return nil, err
	}
	artwork, err := unwrap[models.Artwork](raw, "artwork")
	if err != nil {
		return nil, fmt.Errorf("decode artwork %s: %w", id, err)
	}
	return artwork, nil
}

func (a *artworkAPI) AddArtwork(ctx context.Context, artwork models.NewArtwork, token string) (*models.Artwork, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("title", artwork.Title); err != nil {
		return nil, err
	}
	if err := mw.WriteField("description", artwork.Description); err != nil {
		return nil, err
	}
	for _, tag := range artwork.Tags {
		if err := mw.WriteField("tags", tag); err != nil {
			return nil, err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, artwork.ImageName))
	contentType := artwork.ImageType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(artwork.Image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := a.c.newRequest(ctx, http.MethodPost, "/artworks", &buf, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var raw json.RawMessage
	if err := a.c.do(req, &raw); err != nil {
		return nil, err
	}
	created, err := unwrap[models.Artwork](raw, "artwork")
	if err != nil {
		return nil, fmt.Errorf("decode created artwork: %w", err)
	}
	return created, nil
}

// toggleAnswer reads a toggle state from the top level of the answer or,
// failing that, from the updated artwork some API versions send back as
// {"message": ..., "artwork": {...}}.
type toggleAnswer[T any] struct {
	State   T
	Artwork *T
}

func (t *toggleAnswer[T]) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &t.State); err != nil {
		return err
	}
	var envelope struct {
		Artwork json.RawMessage `json:"artwork"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	inner := bytes.TrimSpace(envelope.Artwork)
	if len(inner) > 0 && inner[0] == '{' {
		t.Artwork = new(T)
		return json.Unmarshal(inner, t.Artwork)
	}
	return nil
}

func (a *artworkAPI) ToggleLike(ctx context.Context, artworkID, token string) (*models.LikeState, error) {
	var answer toggleAnswer[models.LikeState]
	if err := a.c.sendJSON(ctx, http.MethodPost, artworkPath(artworkID, "/like"), struct{}{}, token, &answer); err != nil {
		return nil, err
	}

	state := answer.State
	if art := answer.Artwork; art != nil {
		if state.IsLiked == nil {
			state.IsLiked = art.IsLiked
		}
		if state.Likes == nil {
			state.Likes = art.Likes
		}
	}
	return &state, nil
}

func (a *artworkAPI) ToggleFavorite(ctx context.Context, artworkID, token string) (*models.FavoriteState, error) {
	var answer toggleAnswer[models.FavoriteState]
	if err := a.c.sendJSON(ctx, http.MethodPost, artworkPath(artworkID, "/favorite"), struct{}{}, token, &answer); err != nil {
		return nil, err
	}

	state := answer.State
	if art := answer.Artwork; art != nil && state.IsFavorited == nil {
		state.IsFavorited = art.IsFavorited
	}
	return &state, nil
}

func (a *artworkAPI) GetUserFavorites(ctx context.Context, token string) ([]models.Artwork, error) {
	var raw json.RawMessage
	if err := a.c.getJSON(ctx, "/favorites", token, &raw); err != nil {
		return nil, err
	}
	favorites, err := unwrapList[models.Artwork](raw, "favorites")
	if err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return favorites, nil
}

func (a *artworkAPI) AddComment(ctx context.Context, artworkID, content, token string) (*models.Comment, error) {
	payload := struct {
		Content string `json:"content"`
	}{Content: content}

	var comment models.Comment
	if err := a.c.sendJSON(ctx, http.MethodPost, artworkPath(artworkID, "/comments"), payload, token, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (a *artworkAPI) GetComments(ctx context.Context, artworkID string) ([]models.Comment, error) {
	var raw json.RawMessage
	if err := a.c.getJSON(ctx, artworkPath(artworkID, "/comments"), "", &raw); err != nil {
		return nil, err
	}
	comments, err := unwrapList[models.Comment](raw, "comments")
	if err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}
