package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// PexelsConfig configures the image search endpoint and HTTP behavior.
type PexelsConfig struct {
	APIKey     string
	URL        string
	HTTPClient *http.Client
}

type pexelsImageFinder struct {
	cfg PexelsConfig
}

// NewPexelsImageFinder builds an image finder backed by the Pexels
// search API.
func NewPexelsImageFinder(cfg PexelsConfig) ImageFinder {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = "https://api.pexels.com/v1/search"
	}
	return &pexelsImageFinder{cfg: cfg}
}

func (f *pexelsImageFinder) FindImages(ctx context.Context, query string, count int) ([]Image, error) {
	apiKey := strings.TrimSpace(f.cfg.APIKey)
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("image query is required")
	}
	if count <= 0 {
		count = 3
	}

	u, err := url.Parse(f.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse image search url: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build image search request: %w", err)
	}
	// Pexels authenticates with the bare key, not a Bearer scheme.
	req.Header.Set("Authorization", apiKey)

	res, err := f.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return nil, fmt.Errorf("read image search error body: %w", err)
		}
		return nil, fmt.Errorf("image search request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Photos []struct {
			Alt          string `json:"alt"`
			Photographer string `json:"photographer"`
			Src          struct {
				Large string `json:"large"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode image search response: %w", err)
	}

	images := make([]Image, 0, len(payload.Photos))
	for _, photo := range payload.Photos {
		if strings.TrimSpace(photo.Src.Large) == "" {
			continue
		}
		images = append(images, Image{
			URL:          photo.Src.Large,
			Alt:          photo.Alt,
			Photographer: photo.Photographer,
		})
	}
	return images, nil
}
