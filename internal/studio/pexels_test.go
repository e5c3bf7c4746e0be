package studio

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNewPexelsImageFinderDefaults(t *testing.T) {
	finder := NewPexelsImageFinder(PexelsConfig{})
	typed, ok := finder.(*pexelsImageFinder)
	if !ok {
		t.Fatalf("finder type = %T, want *pexelsImageFinder", finder)
	}
	if typed.cfg.HTTPClient == nil {
		t.Fatal("expected non-nil HTTP client")
	}
	if typed.cfg.URL != "https://api.pexels.com/v1/search" {
		t.Fatalf("url = %q", typed.cfg.URL)
	}
}

func TestPexelsFindImagesRequiresCredential(t *testing.T) {
	finder := &pexelsImageFinder{cfg: PexelsConfig{
		URL:        "https://provider.example.com/v1/search",
		HTTPClient: noTrafficClient(t),
	}}

	_, err := finder.FindImages(context.Background(), "warehouse", 3)
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("error = %v, want ErrNoCredential", err)
	}
}

func TestPexelsFindImagesRequiresQuery(t *testing.T) {
	finder := &pexelsImageFinder{cfg: PexelsConfig{
		APIKey:     "px-1",
		URL:        "https://provider.example.com/v1/search",
		HTTPClient: noTrafficClient(t),
	}}

	if _, err := finder.FindImages(context.Background(), "  ", 3); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestPexelsFindImagesSuccess(t *testing.T) {
	finder := &pexelsImageFinder{cfg: PexelsConfig{
		APIKey: "px-1",
		URL:    "https://provider.example.com/v1/search",
		HTTPClient: &http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				if req.Header.Get("Authorization") != "px-1" {
					t.Fatalf("authorization = %q", req.Header.Get("Authorization"))
				}
				q := req.URL.Query()
				if q.Get("query") != "container ports" {
					t.Fatalf("query = %q", q.Get("query"))
				}
				if q.Get("per_page") != "2" {
					t.Fatalf("per_page = %q", q.Get("per_page"))
				}
				return response(http.StatusOK, `{"photos":[
					{"alt":"cranes at dusk","photographer":"A. Silva","src":{"large":"https://images.example/cranes.jpg"}},
					{"alt":"no source photo","photographer":"B. Chen","src":{"large":""}}
				]}`), nil
			}),
		},
	}}

	images, err := finder.FindImages(context.Background(), "container ports", 2)
	if err != nil {
		t.Fatalf("find images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("images = %d, want 1 (source-less photos dropped)", len(images))
	}
	if images[0].URL != "https://images.example/cranes.jpg" {
		t.Fatalf("url = %q", images[0].URL)
	}
	if images[0].Alt != "cranes at dusk" || images[0].Photographer != "A. Silva" {
		t.Fatalf("image = %+v", images[0])
	}
}

func TestPexelsFindImagesDefaultsCount(t *testing.T) {
	finder := &pexelsImageFinder{cfg: PexelsConfig{
		APIKey: "px-1",
		URL:    "https://provider.example.com/v1/search",
		HTTPClient: &http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				if got := req.URL.Query().Get("per_page"); got != "3" {
					t.Fatalf("per_page = %q, want 3", got)
				}
				return response(http.StatusOK, `{"photos":[]}`), nil
			}),
		},
	}}

	images, err := finder.FindImages(context.Background(), "warehouse", 0)
	if err != nil {
		t.Fatalf("find images: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("images = %d, want 0", len(images))
	}
}

func TestPexelsFindImagesNon2xx(t *testing.T) {
	finder := &pexelsImageFinder{cfg: PexelsConfig{
		APIKey: "px-1",
		URL:    "https://provider.example.com/v1/search",
		HTTPClient: &http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				return response(http.StatusTooManyRequests, "rate limited"), nil
			}),
		},
	}}

	_, err := finder.FindImages(context.Background(), "warehouse", 3)
	if err == nil || !strings.Contains(err.Error(), "status 429") {
		t.Fatalf("error = %v, want status 429", err)
	}
}
