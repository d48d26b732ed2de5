package infra

// assets.go — resolves a sender company's logo/signature/stamp URLs to
// embeddable image bytes. Degradation is the whole point of this component:
// a broken logo URL must never block invoice generation, so every failure
// mode maps to "no image" rather than an error.

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Image formats fpdf can embed.
var embeddableImageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/jpg":  "JPG",
	"image/gif":  "GIF",
}

const maxAssetBytes = 8 << 20 // 8 MiB per image

// Asset is one fetched image ready for embedding. A zero Asset means the
// image is absent and the renderer draws its placeholder instead.
type Asset struct {
	Data []byte
	// Format is fpdf's image type string: "PNG" | "JPG" | "GIF".
	Format string
}

// Present reports whether there is anything to embed.
func (a Asset) Present() bool { return len(a.Data) > 0 }

// SenderAssets bundles the three optional sender images.
type SenderAssets struct {
	Logo      Asset
	Signature Asset
	Stamp     Asset
}

// AssetFetcher performs tolerant image lookups over HTTP.
type AssetFetcher struct {
	client *http.Client
}

func NewAssetFetcher(timeout time.Duration) *AssetFetcher {
	return &AssetFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch resolves one URL to image bytes. A nil/empty URL, a transport error,
// a non-2xx status or a non-image content type all yield a zero Asset —
// never an error.
func (f *AssetFetcher) Fetch(ctx context.Context, url *string) Asset {
	if url == nil || *url == "" {
		return Asset{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *url, nil)
	if err != nil {
		log.Debug().Str("url", *url).Err(err).Msg("asset: bad url, skipping")
		return Asset{}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Debug().Str("url", *url).Err(err).Msg("asset: fetch failed, skipping")
		return Asset{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Str("url", *url).Int("status", resp.StatusCode).Msg("asset: non-success status, skipping")
		return Asset{}
	}

	ct := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	format, ok := embeddableImageTypes[strings.TrimSpace(strings.ToLower(ct))]
	if !ok {
		log.Debug().Str("url", *url).Str("content_type", ct).Msg("asset: not an image, skipping")
		return Asset{}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil || len(data) == 0 {
		log.Debug().Str("url", *url).Err(err).Msg("asset: body read failed, skipping")
		return Asset{}
	}
	return Asset{Data: data, Format: format}
}

// FetchSenderAssets resolves the three sender images concurrently. The three
// lookups are independent — a slow or failed fetch for one never delays or
// fails the others.
func (f *AssetFetcher) FetchSenderAssets(ctx context.Context, logoURL, signatureURL, stampURL *string) SenderAssets {
	var assets SenderAssets
	var wg sync.WaitGroup

	fetch := func(url *string, dst *Asset) {
		defer wg.Done()
		*dst = f.Fetch(ctx, url)
	}

	wg.Add(3)
	go fetch(logoURL, &assets.Logo)
	go fetch(signatureURL, &assets.Signature)
	go fetch(stampURL, &assets.Stamp)
	wg.Wait()

	return assets
}
