package test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artshare/internal/middleware"
	"artshare/internal/models"
	"artshare/internal/service"
)

func multipartRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", "sunset.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(middleware.WithSessionID(req.Context(), testSID))
}

func artistSessions() *fakeSessions {
	return newFakeSessions().loggedIn(testSID, &models.User{ID: "1", Username: "ann", IsArtist: true})
}

func TestUploadPage_NotArtist(t *testing.T) {
	sessions := newFakeSessions().loggedIn(testSID, &models.User{ID: "1", Username: "ann"})
	h, deps := createTestHandler(t, sessions)
	deps.upload.On("MaxSize").Return(int64(1 << 20))

	rr := httptest.NewRecorder()
	h.UploadPage(rr, newRequest(http.MethodGet, "/upload", nil, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Only artists can upload artworks.")
}

func TestUploadPage_ShowsLimit(t *testing.T) {
	h, deps := createTestHandler(t, artistSessions())
	deps.upload.On("MaxSize").Return(int64(5 << 20))

	rr := httptest.NewRecorder()
	h.UploadPage(rr, newRequest(http.MethodGet, "/upload", nil, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "5.0 MiB")
}

func TestUpload_Success(t *testing.T) {
	h, deps := createTestHandler(t, artistSessions())
	deps.upload.On("MaxSize").Return(int64(1 << 20))
	deps.upload.On("Upload", mock.Anything, testSID, service.UploadForm{
		Title:       "Sunset",
		Description: "warm",
		Tags:        "sky, orange",
		ImageName:   "sunset.png",
		Image:       []byte("pngbytes"),
	}).Return(&models.Artwork{ID: "42", Title: "Sunset"}, nil)

	req := multipartRequest(t, map[string]string{
		"title":       "Sunset",
		"description": "warm",
		"tags":        "sky, orange",
	}, []byte("pngbytes"))
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assertRedirect(t, rr, "/artwork/42")
	deps.upload.AssertExpectations(t)
}

func TestUpload_ValidationKeepsInput(t *testing.T) {
	h, deps := createTestHandler(t, artistSessions())
	deps.upload.On("MaxSize").Return(int64(1 << 20))
	deps.upload.On("Upload", mock.Anything, testSID, mock.Anything).
		Return(nil, service.ValidationErrors{"image": "Please select an image to upload"})

	req := multipartRequest(t, map[string]string{"title": "Sunset", "description": "warm"}, nil)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Please select an image to upload")
	assert.Contains(t, rr.Body.String(), `value="Sunset"`)
}

func TestUpload_NonArtistRejectedBeforeUpload(t *testing.T) {
	sessions := newFakeSessions().loggedIn(testSID, &models.User{ID: "1", Username: "ann"})
	h, deps := createTestHandler(t, sessions)
	deps.upload.On("MaxSize").Return(int64(1 << 20))

	req := multipartRequest(t, map[string]string{"title": "Sunset"}, []byte("pngbytes"))
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	deps.upload.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_TooLarge(t *testing.T) {
	h, deps := createTestHandler(t, artistSessions())
	deps.upload.On("MaxSize").Return(int64(16))

	req := multipartRequest(t, map[string]string{"title": "Big"}, bytes.Repeat([]byte("x"), 2<<20))
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "The upload is too large")
	deps.upload.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_MalformedBodyRerendersForm(t *testing.T) {
	h, deps := createTestHandler(t, artistSessions())
	deps.upload.On("MaxSize").Return(int64(1 << 20))

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=missing")
	req = req.WithContext(middleware.WithSessionID(req.Context(), testSID))
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "The upload could not be read.")
	deps.upload.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}
