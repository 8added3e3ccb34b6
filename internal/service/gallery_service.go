package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"artshare/internal/apiclient"
	"artshare/internal/models"
)

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
	SortTitle   = "title"
)

type GalleryQuery struct {
	Search   string
	Tag      string
	Sort     string
	ArtistID string
	Category string
}

type GalleryPage struct {
	Query    GalleryQuery
	Artworks []models.Artwork
	// Tags lists every tag of the unfiltered result, for the filter bar.
	Tags []string
	// Total is the number of artworks the API reported.
	Total int
}

type GalleryService interface {
	List(ctx context.Context, q GalleryQuery) (*GalleryPage, error)
	Featured(ctx context.Context, n int) ([]models.Artwork, error)
}

type galleryService struct {
	api apiclient.ArtworkAPI
}

func NewGalleryService(api apiclient.ArtworkAPI) GalleryService {
	return &galleryService{api: api}
}

func normalizeSort(s string) string {
	switch s {
	case SortOldest, SortPopular, SortTitle:
		return s
	default:
		return SortNewest
	}
}

func (s *galleryService) List(ctx context.Context, q GalleryQuery) (*GalleryPage, error) {
	q.Search = strings.TrimSpace(q.Search)
	q.Tag = strings.TrimSpace(q.Tag)
	q.Sort = normalizeSort(q.Sort)

	list, err := s.api.GetAllArtworks(ctx, models.ArtworkFilter{
		Search:   q.Search,
		Tag:      q.Tag,
		ArtistID: q.ArtistID,
		Category: q.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load artworks: %w", err)
	}

	return &GalleryPage{
		Query:    q,
		Artworks: SortArtworks(FilterArtworks(list.Artworks, q.Search, q.Tag), q.Sort),
		Tags:     collectTags(list.Artworks),
		Total:    list.Count,
	}, nil
}

func (s *galleryService) Featured(ctx context.Context, n int) ([]models.Artwork, error) {
	list, err := s.api.GetAllArtworks(ctx, models.ArtworkFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load featured artworks: %w", err)
	}

	popular := SortArtworks(list.Artworks, SortPopular)
	if n >= 0 && len(popular) > n {
		popular = popular[:n]
	}
	return popular, nil
}

// FilterArtworks keeps artworks whose title or artist matches search and that
// carry tag. Matching is case-insensitive; empty criteria match everything.
func FilterArtworks(artworks []models.Artwork, search, tag string) []models.Artwork {
	search = strings.ToLower(search)
	out := make([]models.Artwork, 0, len(artworks))
	for _, a := range artworks {
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Title), search) &&
			!strings.Contains(strings.ToLower(a.Artist.Username), search) {
			continue
		}
		if tag != "" && !hasTag(a, tag) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SortArtworks returns a sorted copy.
func SortArtworks(artworks []models.Artwork, order string) []models.Artwork {
	out := append([]models.Artwork(nil), artworks...)

	var less func(a, b models.Artwork) bool
	switch normalizeSort(order) {
	case SortOldest:
		less = func(a, b models.Artwork) bool { return a.CreatedAt.Before(b.CreatedAt.Time) }
	case SortPopular:
		less = func(a, b models.Artwork) bool { return a.Likes > b.Likes }
	case SortTitle:
		less = func(a, b models.Artwork) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default:
		less = func(a, b models.Artwork) bool { return a.CreatedAt.After(b.CreatedAt.Time) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func hasTag(a models.Artwork, tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func collectTags(artworks []models.Artwork) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, a := range artworks {
		for _, t := range a.Tags {
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok || key == "" {
				continue
			}
			seen[key] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}
