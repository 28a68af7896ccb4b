package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/oto-servis/internal/testutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadPhoto(ts *testServer, woID uint, field string, data []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile(field, "arac.png")
	_, _ = part.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/work-orders/%d/photos", woID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testutil.UserToken())

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestPhotoUploadDisabledWithoutStore(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createWorkOrder(t, ts, map[string]any{})

	w := uploadPhoto(ts, id, "photo", pngBytes(t, 10, 10))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "storage_disabled", testutil.ParseResponse(w)["error_code"])
}

func TestPhotoUploadConvertsToWebP(t *testing.T) {
	store := newFakeStore()
	ts := newTestServer(t, store)
	id := createWorkOrder(t, ts, map[string]any{})

	w := uploadPhoto(ts, id, "photo", pngBytes(t, 128, 32))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := testutil.ParseResponse(w)
	key := body["object_key"].(string)
	assert.True(t, strings.HasPrefix(key, fmt.Sprintf("work-orders/%d/", id)))
	assert.True(t, strings.HasSuffix(key, ".webp"))
	assert.Equal(t, "image/webp", body["content_type"])
	assert.Equal(t, float64(64), body["width"])
	assert.Equal(t, float64(16), body["height"])
	assert.Equal(t, "https://cdn.test/"+key, body["url"])
	assert.Contains(t, store.objects, key)

	w = testutil.DoRequest(ts.router, http.MethodGet, fmt.Sprintf("/api/work-orders/%d/photos", id), nil, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), testutil.ParseResponse(w)["total"])

	photoID := uint(body["id"].(float64))
	w = testutil.DoRequest(ts.router, http.MethodDelete,
		fmt.Sprintf("/api/work-orders/%d/photos/%d", id, photoID), nil, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, store.objects, key)
	assert.Equal(t, []string{key}, store.deleted)
}

func TestPhotoUploadRejectsGarbage(t *testing.T) {
	ts := newTestServer(t, newFakeStore())
	id := createWorkOrder(t, ts, map[string]any{})

	w := uploadPhoto(ts, id, "photo", []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_photo", testutil.ParseResponse(w)["error_code"])

	w = uploadPhoto(ts, id, "file", pngBytes(t, 4, 4))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhotoRoutesUnknownOrder(t *testing.T) {
	ts := newTestServer(t, newFakeStore())

	w := uploadPhoto(ts, 42, "photo", pngBytes(t, 4, 4))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoRequest(ts.router, http.MethodGet, "/api/work-orders/42/photos", nil, testutil.UserToken())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePhotoOfOtherOrder(t *testing.T) {
	ts := newTestServer(t, newFakeStore())
	a := createWorkOrder(t, ts, map[string]any{})
	b := createWorkOrder(t, ts, map[string]any{})

	w := uploadPhoto(ts, a, "photo", pngBytes(t, 8, 8))
	require.Equal(t, http.StatusCreated, w.Code)

	var photo struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &photo))

	w = testutil.DoRequest(ts.router, http.MethodDelete,
		fmt.Sprintf("/api/work-orders/%d/photos/%d", b, photo.ID), nil, testutil.UserToken())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "photo_not_found", testutil.ParseResponse(w)["error_code"])
}
