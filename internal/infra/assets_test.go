package infra

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAssetFetcherHappyPath(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	f := NewAssetFetcher(2 * time.Second)
	asset := f.Fetch(context.Background(), &srv.URL)

	assert.True(t, asset.Present())
	assert.Equal(t, "PNG", asset.Format)
	assert.Equal(t, data, asset.Data)
}

func TestAssetFetcherFailuresDegradeToZeroAsset(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	notImage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>not a logo</html>"))
	}))
	defer notImage.Close()

	f := NewAssetFetcher(2 * time.Second)
	unreachable := "http://127.0.0.1:1/logo.png"

	for name, url := range map[string]*string{
		"nil url":     nil,
		"404":         &notFound.URL,
		"non-image":   &notImage.URL,
		"unreachable": &unreachable,
	} {
		asset := f.Fetch(context.Background(), url)
		assert.False(t, asset.Present(), name)
	}
}

func TestFetchSenderAssetsPartialFailure(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	f := NewAssetFetcher(2 * time.Second)
	dead := "http://127.0.0.1:1/stamp.png"

	assets := f.FetchSenderAssets(context.Background(), &srv.URL, nil, &dead)

	assert.True(t, assets.Logo.Present(), "reachable logo fetched")
	assert.False(t, assets.Signature.Present(), "nil url stays empty")
	assert.False(t, assets.Stamp.Present(), "unreachable stamp degrades silently")
}
