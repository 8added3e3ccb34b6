package service

import (
	"context"
	"fmt"
	"strings"

	"artshare/internal/apiclient"
	"artshare/internal/models"
)

const MaxCommentLength = 1000

// LikeView is the like state as a page displays it.
type LikeView struct {
	IsLiked bool `json:"isLiked"`
	Likes   int  `json:"likes"`
}

type FavoriteView struct {
	IsFavorited bool `json:"isFavorited"`
}

type CommentForm struct {
	Content string `form:"content" validate:"required,max=1000"`
}

type ArtworkDetail struct {
	Artwork  *models.Artwork
	Comments []models.Comment
	// CommentsUnavailable is set when the artwork loaded but its comments
	// did not.
	CommentsUnavailable bool
	Related             []models.Artwork
}

type ArtworkService interface {
	Detail(ctx context.Context, id string) (*ArtworkDetail, error)
	ToggleLike(ctx context.Context, sid, id string, shown LikeView) (LikeView, error)
	ToggleFavorite(ctx context.Context, sid, id string, shown FavoriteView) (FavoriteView, error)
	AddComment(ctx context.Context, sid, id string, form CommentForm) (*models.Comment, error)
	Related(ctx context.Context, artwork *models.Artwork, n int) ([]models.Artwork, error)
}

type artworkService struct {
	api      apiclient.ArtworkAPI
	sessions Sessions
}

func NewArtworkService(api apiclient.ArtworkAPI, sessions Sessions) ArtworkService {
	return &artworkService{
		api:      api,
		sessions: sessions,
	}
}

const relatedCount = 4

func (s *artworkService) Detail(ctx context.Context, id string) (*ArtworkDetail, error) {
	artwork, err := s.api.GetArtworkByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load artwork %s: %w", id, err)
	}

	detail := &ArtworkDetail{Artwork: artwork}

	comments, err := s.api.GetComments(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		detail.CommentsUnavailable = true
	} else {
		detail.Comments = comments
	}

	// related artworks are decoration; the page renders without them
	if related, err := s.Related(ctx, artwork, relatedCount); err == nil {
		detail.Related = related
	}

	return detail, nil
}

func (s *artworkService) ToggleLike(ctx context.Context, sid, id string, shown LikeView) (LikeView, error) {
	st, err := authorized(ctx, s.sessions, sid)
	if err != nil {
		return shown, err
	}

	done, ok := s.sessions.Begin(sid, "like:"+id)
	if !ok {
		return shown, ErrInFlight
	}
	defer done()

	state, err := s.api.ToggleLike(ctx, id, st.Token)
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return shown, fmt.Errorf("failed to update like: %w", err)
	}
	return ApplyLike(shown, state), nil
}

// ApplyLike moves the displayed like state to the API's answer. An
// unreported flag flips locally and an unreported count follows the flag.
func ApplyLike(shown LikeView, remote *models.LikeState) LikeView {
	next := LikeView{IsLiked: !shown.IsLiked, Likes: shown.Likes}
	if remote != nil && remote.IsLiked != nil {
		next.IsLiked = *remote.IsLiked
	}

	if remote != nil && remote.Likes != nil {
		next.Likes = *remote.Likes
		return next
	}

	switch {
	case next.IsLiked && !shown.IsLiked:
		next.Likes++
	case !next.IsLiked && shown.IsLiked && next.Likes > 0:
		next.Likes--
	}
	return next
}

func (s *artworkService) ToggleFavorite(ctx context.Context, sid, id string, shown FavoriteView) (FavoriteView, error) {
	st, err := authorized(ctx, s.sessions, sid)
	if err != nil {
		return shown, err
	}

	done, ok := s.sessions.Begin(sid, "favorite:"+id)
	if !ok {
		return shown, ErrInFlight
	}
	defer done()

	state, err := s.api.ToggleFavorite(ctx, id, st.Token)
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return shown, fmt.Errorf("failed to update favorites: %w", err)
	}
	return ApplyFavorite(shown, state), nil
}

// ApplyFavorite is the favorite counterpart of ApplyLike.
func ApplyFavorite(shown FavoriteView, remote *models.FavoriteState) FavoriteView {
	if remote != nil && remote.IsFavorited != nil {
		return FavoriteView{IsFavorited: *remote.IsFavorited}
	}
	return FavoriteView{IsFavorited: !shown.IsFavorited}
}

func (s *artworkService) AddComment(ctx context.Context, sid, id string, form CommentForm) (*models.Comment, error) {
	form.Content = strings.TrimSpace(form.Content)
	if err := orNil(check(form)); err != nil {
		return nil, err
	}

	st, err := authorized(ctx, s.sessions, sid)
	if err != nil {
		return nil, err
	}

	done, ok := s.sessions.Begin(sid, "comment:"+id)
	if !ok {
		return nil, ErrInFlight
	}
	defer done()

	comment, err := s.api.AddComment(ctx, id, form.Content, st.Token)
	if err = remoteDone(ctx, s.sessions, sid, err); err != nil {
		return nil, fmt.Errorf("failed to post comment: %w", err)
	}
	return comment, nil
}

// Related picks up to n other artworks by the same artist or sharing a tag,
// artist matches first.
func (s *artworkService) Related(ctx context.Context, artwork *models.Artwork, n int) ([]models.Artwork, error) {
	if artwork == nil || n <= 0 {
		return nil, nil
	}

	list, err := s.api.GetAllArtworks(ctx, models.ArtworkFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load related artworks: %w", err)
	}

	var byArtist, byTag []models.Artwork
	for _, a := range list.Artworks {
		if a.ID == artwork.ID {
			continue
		}
		switch {
		case artwork.Artist.ID != "" && a.Artist.ID == artwork.Artist.ID:
			byArtist = append(byArtist, a)
		case sharesTag(a, artwork):
			byTag = append(byTag, a)
		}
	}

	related := append(byArtist, byTag...)
	if len(related) > n {
		related = related[:n]
	}
	return related, nil
}

func sharesTag(a models.Artwork, b *models.Artwork) bool {
	for _, t := range b.Tags {
		if hasTag(a, t) {
			return true
		}
	}
	return false
}
