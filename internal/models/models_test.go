package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "number", input: `{"id": 42}`, want: "42"},
		{name: "string", input: `{"id": "a1b2"}`, want: "a1b2"},
		{name: "null", input: `{"id": null}`, want: ""},
		{name: "object", input: `{"id": {"x": 1}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				ID ID `json:"id"`
			}
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.ID)
		})
	}
}

func TestArtwork_DecodesRemotePayload(t *testing.T) {
	payload := `{
		"id": 7,
		"title": "Ethereal Dreams",
		"imageUrl": "https://cdn.example.com/7.jpg",
		"description": "blue",
		"artist": {"id": 3, "username": "sophia"},
		"likes": 12,
		"comments": 2,
		"isLiked": true,
		"isFavorited": false,
		"createdAt": "2024-05-01T10:00:00Z",
		"tags": ["abstract", "blue"]
	}`

	var a Artwork
	require.NoError(t, json.Unmarshal([]byte(payload), &a))

	assert.Equal(t, ID("7"), a.ID)
	assert.Equal(t, ID("3"), a.Artist.ID)
	assert.Equal(t, "sophia", a.Artist.Username)
	assert.Equal(t, 12, a.Likes)
	assert.True(t, a.IsLiked)
	assert.Equal(t, []string{"abstract", "blue"}, a.Tags)
	assert.Equal(t, 2024, a.CreatedAt.Year())
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "rfc3339", input: `"2024-05-01T10:00:00Z"`, want: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "offset", input: `"2024-05-01T12:00:00+02:00"`, want: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "no zone", input: `"2024-05-01T10:00:00.123456"`, want: time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{name: "space separated", input: `"2024-05-01 10:00:00"`, want: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "date only", input: `"2024-05-01"`, want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{name: "unix seconds", input: `1714557600`, want: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "empty", input: `""`},
		{name: "null", input: `null`},
		{name: "garbage", input: `"yesterday"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				At Timestamp `json:"at"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"at": `+tt.input+`}`), &v))
			assert.True(t, tt.want.Equal(v.At.Time), "got %v", v.At.Time)
		})
	}
}

func TestArtworkList_OddDatesDoNotFailTheList(t *testing.T) {
	payload := `{"artworks": [
		{"id": 1, "createdAt": ""},
		{"id": 2, "createdAt": "2024-05-01T10:00:00.5"},
		{"id": 3}
	], "count": 3}`

	var list ArtworkList
	require.NoError(t, json.Unmarshal([]byte(payload), &list))

	require.Len(t, list.Artworks, 3)
	assert.True(t, list.Artworks[0].CreatedAt.IsZero())
	assert.Equal(t, 2024, list.Artworks[1].CreatedAt.Year())
	assert.True(t, list.Artworks[2].CreatedAt.IsZero())
}
