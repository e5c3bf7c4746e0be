// Package studio turns stored research parameters and preferences into
// content items. It orchestrates three provider ports: text generation,
// translation, and image search. Provider adapters are built from the
// stored settings at call time, so key changes take effect without a
// restart.
package studio

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/telemetry"
)

const defaultImageCount = 3

// Studio composes articles and social posts through the configured
// store and provider ports.
type Studio struct {
	store      storage.Store
	telemetry  *telemetry.Emitter
	text       TextGenerator
	translator Translator
	images     ImageFinder
}

// ComposeResult is the outcome of one compose call: the stored item and
// any stored translations of it.
type ComposeResult struct {
	Item         storage.ContentItem
	Translations []storage.ContentItem
}

// New creates a studio over the given store. Provider adapters default
// to the hosted services keyed by the stored settings.
func New(store storage.Store) *Studio {
	return &Studio{store: store, telemetry: telemetry.NewEmitter()}
}

// SetTextGenerator overrides the default text generator. Nil inputs are
// ignored.
func (s *Studio) SetTextGenerator(gen TextGenerator) {
	if s == nil || gen == nil {
		return
	}
	s.text = gen
}

// SetTranslator overrides the default translator. Nil inputs are ignored.
func (s *Studio) SetTranslator(tr Translator) {
	if s == nil || tr == nil {
		return
	}
	s.translator = tr
}

// SetImageFinder overrides the default image finder. Nil inputs are
// ignored.
func (s *Studio) SetImageFinder(finder ImageFinder) {
	if s == nil || finder == nil {
		return
	}
	s.images = finder
}

// ComposeArticle generates an article from the stored research
// parameters, stores it, and stores one translation per additional
// target language. Image search and translation are enrichments: when
// their provider is not configured or fails, the article still lands.
func (s *Studio) ComposeArticle(ctx context.Context) (result ComposeResult, err error) {
	if s == nil || s.store == nil {
		return ComposeResult{}, fmt.Errorf("studio is not configured")
	}
	ctx, finish := s.telemetry.Span(ctx, "studio.compose_article")
	defer func() { finish(err) }()

	settings, prefs, params, err := s.loadInputs(ctx)
	if err != nil {
		return ComposeResult{}, err
	}
	rules, err := s.store.ActiveSEORules(ctx, storage.PlatformArticle)
	if err != nil {
		return ComposeResult{}, fmt.Errorf("load seo rules: %w", err)
	}

	gen, err := s.textGenerator(settings)
	if err != nil {
		return ComposeResult{}, err
	}
	draft, err := gen.GenerateArticle(ctx, ArticleRequest{
		Topic:    params.Topic,
		Focus:    params.Focus,
		Keywords: params.Keywords,
		Depth:    params.Depth,
		GeoFocus: params.GeoFocus,
		Length:   prefs.ArticleLength,
		Style:    prefs.ArticleStyle,
		Rules:    ruleTexts(rules),
	})
	if err != nil {
		return ComposeResult{}, fmt.Errorf("generate article: %w", err)
	}

	status := storage.ContentStatusDraft
	if prefs.AutoPublishArticles {
		status = storage.ContentStatusPublished
	}
	item, err := s.store.CreateContentItem(ctx, storage.NewContentItem{
		Title:  draft.Title,
		Type:   storage.ContentTypeArticle,
		Body:   draft.Body,
		Images: s.findImages(ctx, settings, params.Topic),
		Status: status,
	})
	if err != nil {
		return ComposeResult{}, fmt.Errorf("store article: %w", err)
	}

	return ComposeResult{
		Item:         item,
		Translations: s.composeTranslations(ctx, settings, prefs, item),
	}, nil
}

// ComposeSocialPost mirrors ComposeArticle for one social platform.
// Default hashtags are appended to the post body before it is stored.
func (s *Studio) ComposeSocialPost(ctx context.Context, platform storage.Platform) (result ComposeResult, err error) {
	if s == nil || s.store == nil {
		return ComposeResult{}, fmt.Errorf("studio is not configured")
	}
	ctx, finish := s.telemetry.Span(ctx, "studio.compose_social_post")
	defer func() { finish(err) }()

	contentType, ok := postTypeFor(platform)
	if !ok {
		return ComposeResult{}, fmt.Errorf("platform %q does not take social posts", platform)
	}

	settings, prefs, params, err := s.loadInputs(ctx)
	if err != nil {
		return ComposeResult{}, err
	}
	rules, err := s.store.ActiveSEORules(ctx, platform)
	if err != nil {
		return ComposeResult{}, fmt.Errorf("load seo rules: %w", err)
	}

	gen, err := s.textGenerator(settings)
	if err != nil {
		return ComposeResult{}, err
	}
	draft, err := gen.GenerateSocialPost(ctx, SocialRequest{
		Topic:    params.Topic,
		Focus:    params.Focus,
		Keywords: params.Keywords,
		Platform: platform,
		Style:    prefs.ArticleStyle,
		Rules:    ruleTexts(rules),
	})
	if err != nil {
		return ComposeResult{}, fmt.Errorf("generate %s post: %w", platform, err)
	}

	status := storage.ContentStatusDraft
	if prefs.AutoPublishSocial {
		status = storage.ContentStatusPublished
	}
	item, err := s.store.CreateContentItem(ctx, storage.NewContentItem{
		Title:  draft.Title,
		Type:   contentType,
		Body:   appendHashtags(draft.Body, prefs.DefaultHashtags),
		Images: s.findImages(ctx, settings, params.Topic),
		Status: status,
	})
	if err != nil {
		return ComposeResult{}, fmt.Errorf("store %s post: %w", platform, err)
	}

	return ComposeResult{
		Item:         item,
		Translations: s.composeTranslations(ctx, settings, prefs, item),
	}, nil
}

func (s *Studio) loadInputs(ctx context.Context) (storage.Settings, storage.Preferences, storage.ResearchParams, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return storage.Settings{}, storage.Preferences{}, storage.ResearchParams{}, fmt.Errorf("load settings: %w", err)
	}
	prefs, err := s.store.Preferences(ctx)
	if err != nil {
		return storage.Settings{}, storage.Preferences{}, storage.ResearchParams{}, fmt.Errorf("load preferences: %w", err)
	}
	params, err := s.store.ResearchParams(ctx)
	if err != nil {
		return storage.Settings{}, storage.Preferences{}, storage.ResearchParams{}, fmt.Errorf("load research params: %w", err)
	}
	if strings.TrimSpace(params.Topic) == "" {
		return storage.Settings{}, storage.Preferences{}, storage.ResearchParams{}, fmt.Errorf("research topic is not set")
	}
	return settings, prefs, params, nil
}

func (s *Studio) textGenerator(settings storage.Settings) (TextGenerator, error) {
	if s.text != nil {
		return s.text, nil
	}
	if strings.TrimSpace(settings.OpenAIAPIKey) == "" {
		return nil, fmt.Errorf("text generator: %w", ErrNoCredential)
	}
	return NewOpenAITextGenerator(OpenAIConfig{APIKey: settings.OpenAIAPIKey}), nil
}

// findImages returns image URLs for the query, or nothing when image
// search is unconfigured or failing.
func (s *Studio) findImages(ctx context.Context, settings storage.Settings, query string) []string {
	finder := s.images
	if finder == nil {
		if strings.TrimSpace(settings.PexelsAPIKey) == "" {
			return nil
		}
		finder = NewPexelsImageFinder(PexelsConfig{APIKey: settings.PexelsAPIKey})
	}
	found, err := finder.FindImages(ctx, query, defaultImageCount)
	if err != nil {
		log.Printf("image search failed, composing without images: %v", err)
		return nil
	}
	urls := make([]string, 0, len(found))
	for _, image := range found {
		if image.URL != "" {
			urls = append(urls, image.URL)
		}
	}
	return urls
}

// composeTranslations stores one translated copy of the item per target
// language after the first. Failed languages are logged and skipped.
func (s *Studio) composeTranslations(ctx context.Context, settings storage.Settings, prefs storage.Preferences, item storage.ContentItem) []storage.ContentItem {
	if len(prefs.TargetLanguages) <= 1 {
		return nil
	}
	tr := s.translator
	if tr == nil {
		if strings.TrimSpace(settings.DeepLAPIKey) == "" {
			log.Printf("translations skipped: no translator credential")
			return nil
		}
		tr = NewDeepLTranslator(DeepLConfig{APIKey: settings.DeepLAPIKey})
	}

	var items []storage.ContentItem
	for _, lang := range prefs.TargetLanguages[1:] {
		title, err := tr.Translate(ctx, item.Title, lang)
		if err != nil {
			log.Printf("translate title to %s failed: %v", lang, err)
			continue
		}
		body, err := tr.Translate(ctx, item.Body, lang)
		if err != nil {
			log.Printf("translate body to %s failed: %v", lang, err)
			continue
		}
		created, err := s.store.CreateContentItem(ctx, storage.NewContentItem{
			Title:  title,
			Type:   item.Type,
			Body:   body,
			Images: item.Images,
			Status: item.Status,
		})
		if err != nil {
			log.Printf("store %s translation: %v", lang, err)
			continue
		}
		items = append(items, created)
	}
	return items
}

func postTypeFor(platform storage.Platform) (storage.ContentType, bool) {
	switch platform {
	case storage.PlatformLinkedIn:
		return storage.ContentTypeLinkedInPost, true
	case storage.PlatformX:
		return storage.ContentTypeXPost, true
	case storage.PlatformInstagram:
		return storage.ContentTypeInstagramPost, true
	default:
		return "", false
	}
}

func ruleTexts(rules []storage.SEORule) []string {
	texts := make([]string, 0, len(rules))
	for _, rule := range rules {
		if strings.TrimSpace(rule.Rule) == "" {
			continue
		}
		texts = append(texts, rule.Rule)
	}
	return texts
}

func appendHashtags(body string, hashtags []string) string {
	tags := make([]string, 0, len(hashtags))
	for _, tag := range hashtags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return body
	}
	return strings.TrimRight(body, "\n") + "\n\n" + strings.Join(tags, " ")
}
