package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ID accepts both JSON numbers and strings; the API is not consistent.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Timestamp reads the API's dates in any of the shapes it has been seen to
// send: RFC 3339, ISO 8601 without a zone (taken as UTC), a bare date, or
// unix seconds. Empty, null and unrecognized values decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	t.Time = time.Time{}
	if len(data) == 0 || data[0] != '"' {
		var n json.Number
		if json.Unmarshal(data, &n) == nil {
			if secs, err := n.Int64(); err == nil {
				t.Time = time.Unix(secs, 0).UTC()
			}
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsArtist bool   `json:"is_artist"`
}

// Session pairs a bearer token with the user it was issued to.
// Token is non-empty iff User is non-nil.
type Session struct {
	ID        string
	User      *User
	Token     string
	UpdatedAt time.Time
}

type ArtistRef struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type Artwork struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description"`
	Artist      ArtistRef `json:"artist"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	IsLiked     bool      `json:"isLiked"`
	IsFavorited bool      `json:"isFavorited"`
	CreatedAt   Timestamp `json:"createdAt"`
	Tags        []string  `json:"tags,omitempty"`
}

type ArtworkList struct {
	Artworks []Artwork `json:"artworks"`
	Count    int       `json:"count"`
}

type Comment struct {
	ID        ID        `json:"id"`
	Content   string    `json:"content"`
	User      ArtistRef `json:"user"`
	CreatedAt Timestamp `json:"createdAt"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LikeState is the remote answer to a like toggle. A nil field was not
// reported by the API.
type LikeState struct {
	IsLiked *bool `json:"isLiked,omitempty"`
	Likes   *int  `json:"likes,omitempty"`
}

// FavoriteState is the remote answer to a favorite toggle; IsFavorited is
// nil when the API does not report it.
type FavoriteState struct {
	IsFavorited *bool `json:"isFavorited,omitempty"`
}

type ArtworkFilter struct {
	Search   string
	Tag      string
	ArtistID string
	Category string
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsArtist *bool  `json:"is_artist,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewArtwork is the multipart payload of an upload.
type NewArtwork struct {
	Title       string
	Description string
	Tags        []string
	ImageName   string
	ImageType   string
	Image       []byte
}
