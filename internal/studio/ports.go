package studio

import (
	"context"
	"errors"

	"github.com/freightpress/freightpress/internal/storage"
)

// ErrNoCredential reports that the provider a call needs has no API key
// configured. It is returned before any request leaves the process.
var ErrNoCredential = errors.New("provider credential is not configured")

// TextGenerator produces publish-ready drafts from research input.
type TextGenerator interface {
	GenerateArticle(ctx context.Context, req ArticleRequest) (ArticleDraft, error)
	GenerateSocialPost(ctx context.Context, req SocialRequest) (SocialDraft, error)
}

// Translator renders text in another language. Target languages are
// BCP 47 tags; adapters normalize them before calling out.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// ImageFinder searches stock imagery for a query.
type ImageFinder interface {
	FindImages(ctx context.Context, query string, count int) ([]Image, error)
}

// ArticleRequest carries the research parameters and editorial
// preferences an article draft is generated from.
type ArticleRequest struct {
	Topic    string
	Focus    string
	Keywords []string
	Depth    storage.ResearchDepth
	GeoFocus string
	Length   storage.ArticleLength
	Style    storage.ArticleStyle
	Rules    []string
}

// SocialRequest carries the inputs for a platform-specific post draft.
type SocialRequest struct {
	Topic    string
	Focus    string
	Keywords []string
	Platform storage.Platform
	Style    storage.ArticleStyle
	Rules    []string
}

// ArticleDraft is generated long-form content.
type ArticleDraft struct {
	Title string
	Body  string
}

// SocialDraft is a generated social post.
type SocialDraft struct {
	Title string
	Body  string
}

// Image is one stock-imagery result.
type Image struct {
	URL          string
	Alt          string
	Photographer string
}
