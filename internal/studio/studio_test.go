package studio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/storage/memory"
)

type fakeGenerator struct {
	articleReq ArticleRequest
	socialReq  SocialRequest
	article    ArticleDraft
	social     SocialDraft
	err        error
}

func (f *fakeGenerator) GenerateArticle(_ context.Context, req ArticleRequest) (ArticleDraft, error) {
	f.articleReq = req
	if f.err != nil {
		return ArticleDraft{}, f.err
	}
	return f.article, nil
}

func (f *fakeGenerator) GenerateSocialPost(_ context.Context, req SocialRequest) (SocialDraft, error) {
	f.socialReq = req
	if f.err != nil {
		return SocialDraft{}, f.err
	}
	return f.social, nil
}

type fakeTranslator struct {
	langs []string
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, text, targetLang string) (string, error) {
	f.langs = append(f.langs, targetLang)
	if f.err != nil {
		return "", f.err
	}
	return "[" + targetLang + "] " + text, nil
}

type fakeImageFinder struct {
	query  string
	count  int
	images []Image
	err    error
}

func (f *fakeImageFinder) FindImages(_ context.Context, query string, count int) ([]Image, error) {
	f.query = query
	f.count = count
	if f.err != nil {
		return nil, f.err
	}
	return f.images, nil
}

func saveResearchTopic(t *testing.T, store storage.Store, topic string) {
	t.Helper()
	err := store.SaveResearchParams(context.Background(), storage.ResearchParams{
		Topic:    topic,
		Focus:    "cost control",
		Keywords: []string{"demurrage", "detention"},
		Depth:    storage.ResearchDepthDeep,
		GeoFocus: "north america",
	})
	if err != nil {
		t.Fatalf("save research params: %v", err)
	}
}

func TestComposeArticleStoresDraft(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")

	if _, err := store.CreateSEORule(ctx, storage.NewSEORule{
		Platform: storage.PlatformArticle,
		Name:     "intro hook",
		Rule:     "open with a concrete number",
		Active:   true,
	}); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if _, err := store.CreateSEORule(ctx, storage.NewSEORule{
		Platform: storage.PlatformArticle,
		Name:     "retired rule",
		Rule:     "stuff every keyword in",
		Active:   false,
	}); err != nil {
		t.Fatalf("create inactive rule: %v", err)
	}

	gen := &fakeGenerator{article: ArticleDraft{Title: "Dwell Fees Decoded", Body: "Every idle day costs."}}
	finder := &fakeImageFinder{images: []Image{{URL: "https://images.example/yard.jpg"}}}
	st := New(store)
	st.SetTextGenerator(gen)
	st.SetImageFinder(finder)

	result, err := st.ComposeArticle(ctx)
	if err != nil {
		t.Fatalf("compose article: %v", err)
	}

	if result.Item.ID == 0 {
		t.Fatal("stored item missing id")
	}
	if result.Item.Title != "Dwell Fees Decoded" || result.Item.Body != "Every idle day costs." {
		t.Fatalf("stored item = %+v", result.Item)
	}
	if result.Item.Type != storage.ContentTypeArticle {
		t.Fatalf("type = %q", result.Item.Type)
	}
	if result.Item.Status != storage.ContentStatusDraft || result.Item.PublishedAt != nil {
		t.Fatalf("status = %q, published_at = %v", result.Item.Status, result.Item.PublishedAt)
	}
	if len(result.Item.Images) != 1 || result.Item.Images[0] != "https://images.example/yard.jpg" {
		t.Fatalf("images = %v", result.Item.Images)
	}
	if len(result.Translations) != 0 {
		t.Fatalf("translations = %+v, want none for a single target language", result.Translations)
	}

	if gen.articleReq.Topic != "container dwell fees" {
		t.Fatalf("generator topic = %q", gen.articleReq.Topic)
	}
	if gen.articleReq.Depth != storage.ResearchDepthDeep || gen.articleReq.GeoFocus != "north america" {
		t.Fatalf("generator request = %+v", gen.articleReq)
	}
	if len(gen.articleReq.Rules) != 1 || gen.articleReq.Rules[0] != "open with a concrete number" {
		t.Fatalf("generator rules = %v, want only the active rule", gen.articleReq.Rules)
	}
	if finder.query != "container dwell fees" || finder.count != defaultImageCount {
		t.Fatalf("finder call = %q/%d", finder.query, finder.count)
	}

	items, err := store.ContentItems(ctx)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("stored items = %d, want 1", len(items))
	}
}

func TestComposeArticleAutoPublish(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")
	if err := store.SavePreferences(ctx, storage.Preferences{AutoPublishArticles: true}); err != nil {
		t.Fatalf("save preferences: %v", err)
	}

	st := New(store)
	st.SetTextGenerator(&fakeGenerator{article: ArticleDraft{Title: "Dwell Fees", Body: "Body."}})

	result, err := st.ComposeArticle(ctx)
	if err != nil {
		t.Fatalf("compose article: %v", err)
	}
	if result.Item.Status != storage.ContentStatusPublished {
		t.Fatalf("status = %q, want published", result.Item.Status)
	}
	if result.Item.PublishedAt == nil {
		t.Fatal("published item missing publish time")
	}
}

func TestComposeArticleCreatesTranslations(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")
	if err := store.SavePreferences(ctx, storage.Preferences{
		TargetLanguages: []string{"en", "de", "fr"},
	}); err != nil {
		t.Fatalf("save preferences: %v", err)
	}

	tr := &fakeTranslator{}
	st := New(store)
	st.SetTextGenerator(&fakeGenerator{article: ArticleDraft{Title: "Dwell Fees", Body: "Body."}})
	st.SetTranslator(tr)

	result, err := st.ComposeArticle(ctx)
	if err != nil {
		t.Fatalf("compose article: %v", err)
	}
	if len(result.Translations) != 2 {
		t.Fatalf("translations = %d, want 2", len(result.Translations))
	}
	if result.Translations[0].Title != "[de] Dwell Fees" || result.Translations[1].Title != "[fr] Dwell Fees" {
		t.Fatalf("translated titles = %q, %q", result.Translations[0].Title, result.Translations[1].Title)
	}
	if result.Translations[0].Type != storage.ContentTypeArticle {
		t.Fatalf("translated type = %q", result.Translations[0].Type)
	}
	// Title and body are translated separately per language.
	if len(tr.langs) != 4 {
		t.Fatalf("translate calls = %v", tr.langs)
	}

	items, err := store.ContentItems(ctx)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("stored items = %d, want original plus two translations", len(items))
	}
}

func TestComposeArticleNoTextCredential(t *testing.T) {
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")

	_, err := New(store).ComposeArticle(context.Background())
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("error = %v, want ErrNoCredential", err)
	}
}

func TestComposeArticleGenerationFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")

	st := New(store)
	st.SetTextGenerator(&fakeGenerator{err: errors.New("model overloaded")})

	_, err := st.ComposeArticle(ctx)
	if err == nil || !strings.Contains(err.Error(), "generate article") {
		t.Fatalf("error = %v, want generate article failure", err)
	}

	items, err := store.ContentItems(ctx)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("stored items = %d, want none after generation failure", len(items))
	}
}

func TestComposeArticleToleratesImageFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")

	st := New(store)
	st.SetTextGenerator(&fakeGenerator{article: ArticleDraft{Title: "Dwell Fees", Body: "Body."}})
	st.SetImageFinder(&fakeImageFinder{err: errors.New("rate limited")})

	result, err := st.ComposeArticle(ctx)
	if err != nil {
		t.Fatalf("compose article: %v", err)
	}
	if len(result.Item.Images) != 0 {
		t.Fatalf("images = %v, want none", result.Item.Images)
	}
}

func TestComposeArticleSkipsFailedTranslations(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")
	if err := store.SavePreferences(ctx, storage.Preferences{
		TargetLanguages: []string{"en", "de"},
	}); err != nil {
		t.Fatalf("save preferences: %v", err)
	}

	st := New(store)
	st.SetTextGenerator(&fakeGenerator{article: ArticleDraft{Title: "Dwell Fees", Body: "Body."}})
	st.SetTranslator(&fakeTranslator{err: errors.New("quota exceeded")})

	result, err := st.ComposeArticle(ctx)
	if err != nil {
		t.Fatalf("compose article should survive translation failures: %v", err)
	}
	if len(result.Translations) != 0 {
		t.Fatalf("translations = %+v, want none", result.Translations)
	}

	items, err := store.ContentItems(ctx)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("stored items = %d, want only the original", len(items))
	}
}

type emptyParamsStore struct {
	storage.Store
}

func (s emptyParamsStore) ResearchParams(context.Context) (storage.ResearchParams, error) {
	return storage.ResearchParams{}, nil
}

func TestComposeArticleRequiresTopic(t *testing.T) {
	st := New(emptyParamsStore{memory.New()})
	st.SetTextGenerator(&fakeGenerator{article: ArticleDraft{Title: "x", Body: "y"}})

	_, err := st.ComposeArticle(context.Background())
	if err == nil || !strings.Contains(err.Error(), "research topic") {
		t.Fatalf("error = %v, want missing topic", err)
	}
}

func TestComposeSocialPostAppendsHashtags(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")
	if err := store.SavePreferences(ctx, storage.Preferences{
		DefaultHashtags: []string{"#ops", "freight"},
	}); err != nil {
		t.Fatalf("save preferences: %v", err)
	}
	if _, err := store.CreateSEORule(ctx, storage.NewSEORule{
		Platform: storage.PlatformLinkedIn,
		Name:     "short posts",
		Rule:     "stay under 700 characters",
		Active:   true,
	}); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	gen := &fakeGenerator{social: SocialDraft{Title: "container dwell fees", Body: "Idle boxes burn margin."}}
	st := New(store)
	st.SetTextGenerator(gen)

	result, err := st.ComposeSocialPost(ctx, storage.PlatformLinkedIn)
	if err != nil {
		t.Fatalf("compose social post: %v", err)
	}

	if result.Item.Type != storage.ContentTypeLinkedInPost {
		t.Fatalf("type = %q", result.Item.Type)
	}
	if want := "Idle boxes burn margin.\n\n#ops #freight"; result.Item.Body != want {
		t.Fatalf("body = %q, want %q", result.Item.Body, want)
	}
	if result.Item.Status != storage.ContentStatusDraft {
		t.Fatalf("status = %q", result.Item.Status)
	}
	if gen.socialReq.Platform != storage.PlatformLinkedIn {
		t.Fatalf("generator platform = %q", gen.socialReq.Platform)
	}
	if len(gen.socialReq.Rules) != 1 || gen.socialReq.Rules[0] != "stay under 700 characters" {
		t.Fatalf("generator rules = %v", gen.socialReq.Rules)
	}
}

func TestComposeSocialPostAutoPublish(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")
	if err := store.SavePreferences(ctx, storage.Preferences{
		AutoPublishSocial: true,
		DefaultHashtags:   []string{},
	}); err != nil {
		t.Fatalf("save preferences: %v", err)
	}

	st := New(store)
	st.SetTextGenerator(&fakeGenerator{social: SocialDraft{Title: "dwell", Body: "Post."}})

	result, err := st.ComposeSocialPost(ctx, storage.PlatformX)
	if err != nil {
		t.Fatalf("compose social post: %v", err)
	}
	if result.Item.Type != storage.ContentTypeXPost {
		t.Fatalf("type = %q", result.Item.Type)
	}
	if result.Item.Status != storage.ContentStatusPublished || result.Item.PublishedAt == nil {
		t.Fatalf("status = %q, published_at = %v", result.Item.Status, result.Item.PublishedAt)
	}
	if result.Item.Body != "Post." {
		t.Fatalf("body = %q, want no hashtag suffix", result.Item.Body)
	}
}

func TestComposeSocialPostRejectsNonSocialPlatform(t *testing.T) {
	store := memory.New()
	saveResearchTopic(t, store, "container dwell fees")
	st := New(store)
	st.SetTextGenerator(&fakeGenerator{social: SocialDraft{Title: "x", Body: "y"}})

	if _, err := st.ComposeSocialPost(context.Background(), storage.PlatformArticle); err == nil {
		t.Fatal("expected rejection for the article platform")
	}
	if _, err := st.ComposeSocialPost(context.Background(), storage.Platform("tiktok")); err == nil {
		t.Fatal("expected rejection for an unknown platform")
	}
}
