package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a requested write conflicts with uniqueness or invariant constraints.
	ErrConflict = errors.New("record conflict")
	// ErrUnavailable indicates the backing store could not be reached.
	ErrUnavailable = errors.New("storage unavailable")
)

// ArticleLength identifies one generated-article length preset.
type ArticleLength string

const (
	// ArticleLengthShort targets roughly 300-500 words.
	ArticleLengthShort ArticleLength = "short"
	// ArticleLengthMedium targets roughly 800-1200 words.
	ArticleLengthMedium ArticleLength = "medium"
	// ArticleLengthLong targets roughly 1500-2500 words.
	ArticleLengthLong ArticleLength = "long"
)

// Valid reports whether the length is one of the known presets.
func (l ArticleLength) Valid() bool {
	switch l {
	case ArticleLengthShort, ArticleLengthMedium, ArticleLengthLong:
		return true
	}
	return false
}

// ArticleStyle identifies one generated-article voice preset.
type ArticleStyle string

const (
	// ArticleStyleInformative is neutral, fact-forward prose.
	ArticleStyleInformative ArticleStyle = "informative"
	// ArticleStyleConversational is first-person, reader-directed prose.
	ArticleStyleConversational ArticleStyle = "conversational"
	// ArticleStyleTechnical is terminology-heavy prose for practitioners.
	ArticleStyleTechnical ArticleStyle = "technical"
)

// Valid reports whether the style is one of the known presets.
func (s ArticleStyle) Valid() bool {
	switch s {
	case ArticleStyleInformative, ArticleStyleConversational, ArticleStyleTechnical:
		return true
	}
	return false
}

// ResearchDepth identifies how broadly topic research should range.
type ResearchDepth string

const (
	// ResearchDepthQuick limits research to headline facts.
	ResearchDepthQuick ResearchDepth = "quick"
	// ResearchDepthStandard is the default research breadth.
	ResearchDepthStandard ResearchDepth = "standard"
	// ResearchDepthDeep requests exhaustive background research.
	ResearchDepthDeep ResearchDepth = "deep"
)

// Valid reports whether the depth is one of the known presets.
func (d ResearchDepth) Valid() bool {
	switch d {
	case ResearchDepthQuick, ResearchDepthStandard, ResearchDepthDeep:
		return true
	}
	return false
}

// ContentType identifies the channel/format a content item targets.
type ContentType string

const (
	// ContentTypeArticle is a long-form blog article.
	ContentTypeArticle ContentType = "article"
	// ContentTypeLinkedInPost is a LinkedIn feed post.
	ContentTypeLinkedInPost ContentType = "linkedin_post"
	// ContentTypeXPost is an X/Twitter post.
	ContentTypeXPost ContentType = "x_post"
	// ContentTypeInstagramPost is an Instagram caption post.
	ContentTypeInstagramPost ContentType = "instagram_post"
)

// Valid reports whether the content type is one of the known tags.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeArticle, ContentTypeLinkedInPost, ContentTypeXPost, ContentTypeInstagramPost:
		return true
	}
	return false
}

// Platform returns the SEO-rule platform tag matching the content type.
func (t ContentType) Platform() Platform {
	switch t {
	case ContentTypeLinkedInPost:
		return PlatformLinkedIn
	case ContentTypeXPost:
		return PlatformX
	case ContentTypeInstagramPost:
		return PlatformInstagram
	default:
		return PlatformArticle
	}
}

// ContentStatus identifies one content publishing state.
type ContentStatus string

const (
	// ContentStatusDraft means the item awaits review.
	ContentStatusDraft ContentStatus = "draft"
	// ContentStatusScheduled means the item is queued for publishing.
	ContentStatusScheduled ContentStatus = "scheduled"
	// ContentStatusPublished means the item has been published.
	ContentStatusPublished ContentStatus = "published"
)

// Valid reports whether the status is one of the known states.
func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusScheduled, ContentStatusPublished:
		return true
	}
	return false
}

// Platform identifies the channel an SEO rule applies to.
type Platform string

const (
	// PlatformArticle covers long-form blog articles.
	PlatformArticle Platform = "article"
	// PlatformLinkedIn covers LinkedIn posts.
	PlatformLinkedIn Platform = "linkedin"
	// PlatformX covers X/Twitter posts.
	PlatformX Platform = "x"
	// PlatformInstagram covers Instagram posts.
	PlatformInstagram Platform = "instagram"
)

// Valid reports whether the platform is one of the known tags.
func (p Platform) Valid() bool {
	switch p {
	case PlatformArticle, PlatformLinkedIn, PlatformX, PlatformInstagram:
		return true
	}
	return false
}

// Settings stores the singleton external-service credential set.
type Settings struct {
	OpenAIAPIKey string
	DeepLAPIKey  string
	PexelsAPIKey string
	AhrefsAPIKey string
	BufferAPIKey string
	UpdatedAt    time.Time
}

// Preferences stores the singleton content-generation preference set.
type Preferences struct {
	ArticleLength       ArticleLength
	ArticleStyle        ArticleStyle
	AutoPublishArticles bool
	AutoPublishSocial   bool
	DefaultHashtags     []string
	TargetLanguages     []string
	UpdatedAt           time.Time
}

// ResearchParams stores the singleton topic-research parameter set.
type ResearchParams struct {
	Topic     string
	Focus     string
	Keywords  []string
	Depth     ResearchDepth
	GeoFocus  string
	UpdatedAt time.Time
}

// ContentItem stores one generated article or social post.
type ContentItem struct {
	ID          int64
	Title       string
	Type        ContentType
	Body        string
	Images      []string
	Status      ContentStatus
	Fingerprint string
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// DatabaseConfig stores one named backing-store connection descriptor.
type DatabaseConfig struct {
	ID         int64
	Name       string
	DSN        string
	Active     bool
	Notes      string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// ContentHash stores one content fingerprint used for duplicate detection.
type ContentHash struct {
	ID          int64
	Fingerprint string
	Source      string
	SourceURL   string
	SourceTitle string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SEORule stores one per-platform optimization rule.
type SEORule struct {
	ID         int64
	Platform   Platform
	Name       string
	Rule       string
	Importance int
	Category   string
	Active     bool
	UpdatedAt  time.Time
}

// NewContentItem carries caller-supplied fields for content creation.
// Identity, fingerprint, and timestamps are assigned by the store.
type NewContentItem struct {
	Title  string
	Type   ContentType
	Body   string
	Images []string
	Status ContentStatus
}

// NewDatabaseConfig carries caller-supplied fields for config creation.
type NewDatabaseConfig struct {
	Name   string
	DSN    string
	Active bool
	Notes  string
}

// NewContentHash carries caller-supplied fields for hash creation.
type NewContentHash struct {
	Fingerprint string
	Source      string
	SourceURL   string
	SourceTitle string
}

// NewSEORule carries caller-supplied fields for rule creation.
type NewSEORule struct {
	Platform   Platform
	Name       string
	Rule       string
	Importance int
	Category   string
	Active     bool
}

// ContentItemPatch lists optional field overrides for a content update.
// Nil fields keep their stored values.
type ContentItemPatch struct {
	Title  *string
	Type   *ContentType
	Body   *string
	Images *[]string
	Status *ContentStatus
}

// DatabaseConfigPatch lists optional field overrides for a config update.
type DatabaseConfigPatch struct {
	Name   *string
	DSN    *string
	Active *bool
	Notes  *string
}

// SEORulePatch lists optional field overrides for a rule update.
type SEORulePatch struct {
	Platform   *Platform
	Name       *string
	Rule       *string
	Importance *int
	Category   *string
	Active     *bool
}

// SettingsStore persists the credential singleton.
type SettingsStore interface {
	// Settings returns the live credential set, seeded with defaults
	// before the first save.
	Settings(ctx context.Context) (Settings, error)
	// SaveSettings replaces the singleton wholesale. UpdatedAt is
	// assigned by the store.
	SaveSettings(ctx context.Context, settings Settings) error
}

// PreferencesStore persists the generation-preference singleton.
type PreferencesStore interface {
	Preferences(ctx context.Context) (Preferences, error)
	SavePreferences(ctx context.Context, prefs Preferences) error
}

// ResearchParamsStore persists the research-parameter singleton.
type ResearchParamsStore interface {
	ResearchParams(ctx context.Context) (ResearchParams, error)
	SaveResearchParams(ctx context.Context, params ResearchParams) error
}

// ContentItemStore persists generated content records.
type ContentItemStore interface {
	// ContentItems lists every item in insertion order.
	ContentItems(ctx context.Context) ([]ContentItem, error)
	// ContentItemByID loads one item; found is false when absent.
	ContentItemByID(ctx context.Context, id int64) (ContentItem, bool, error)
	// CreateContentItem assigns identity, timestamps, and fingerprint,
	// applying duplicate detection before persisting.
	CreateContentItem(ctx context.Context, input NewContentItem) (ContentItem, error)
	// UpdateContentItem overwrites only the patched fields; found is
	// false when the identity is absent and nothing was changed.
	UpdateContentItem(ctx context.Context, id int64, patch ContentItemPatch) (ContentItem, bool, error)
	// DeleteContentItem removes one item and its fingerprint row
	// best-effort; deleted is false when the identity was absent.
	DeleteContentItem(ctx context.Context, id int64) (bool, error)
}

// DatabaseConfigStore persists backing-store connection descriptors.
type DatabaseConfigStore interface {
	// DatabaseConfigs lists every config in insertion order.
	DatabaseConfigs(ctx context.Context) ([]DatabaseConfig, error)
	// ActiveDatabaseConfig loads the at-most-one active config.
	ActiveDatabaseConfig(ctx context.Context) (DatabaseConfig, bool, error)
	// CreateDatabaseConfig persists one config; a requested active flag
	// deactivates every other config in the same logical operation.
	// Duplicate names fail with ErrConflict.
	CreateDatabaseConfig(ctx context.Context, input NewDatabaseConfig) (DatabaseConfig, error)
	// UpdateDatabaseConfig overwrites only the patched fields; setting
	// active deactivates every other config and refreshes LastUsedAt.
	UpdateDatabaseConfig(ctx context.Context, id int64, patch DatabaseConfigPatch) (DatabaseConfig, bool, error)
	// ActivateDatabaseConfig marks one config active and every other
	// config inactive; activated is false when the identity is absent.
	ActivateDatabaseConfig(ctx context.Context, id int64) (bool, error)
	// DeleteDatabaseConfig removes one config; deleting the active
	// config is refused with deleted=false.
	DeleteDatabaseConfig(ctx context.Context, id int64) (bool, error)
}

// ContentHashStore persists duplicate-detection fingerprints.
type ContentHashStore interface {
	ContentHashes(ctx context.Context) ([]ContentHash, error)
	ContentHashByFingerprint(ctx context.Context, fingerprint string) (ContentHash, bool, error)
	CreateContentHash(ctx context.Context, input NewContentHash) (ContentHash, error)
	DeleteContentHashByFingerprint(ctx context.Context, fingerprint string) (bool, error)
}

// SEORuleStore persists per-platform optimization rules.
type SEORuleStore interface {
	// SEORules lists every rule in insertion order.
	SEORules(ctx context.Context) ([]SEORule, error)
	// ActiveSEORules lists active rules for one platform ordered by
	// importance (highest first) then name.
	ActiveSEORules(ctx context.Context, platform Platform) ([]SEORule, error)
	CreateSEORule(ctx context.Context, input NewSEORule) (SEORule, error)
	UpdateSEORule(ctx context.Context, id int64, patch SEORulePatch) (SEORule, bool, error)
	DeleteSEORule(ctx context.Context, id int64) (bool, error)
}

// Store is the full capability set the application depends on. Both
// backends satisfy it with identical caller-visible behavior.
type Store interface {
	SettingsStore
	PreferencesStore
	ResearchParamsStore
	ContentItemStore
	DatabaseConfigStore
	ContentHashStore
	SEORuleStore
	Close() error
}

// DefaultSettings returns the seed credential singleton.
func DefaultSettings() Settings {
	return Settings{}
}

// DefaultPreferences returns the seed generation preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		ArticleLength:   ArticleLengthMedium,
		ArticleStyle:    ArticleStyleInformative,
		DefaultHashtags: []string{"#logistics", "#supplychain"},
		TargetLanguages: []string{"en"},
	}
}

// DefaultResearchParams returns the seed research parameters.
func DefaultResearchParams() ResearchParams {
	return ResearchParams{
		Topic:    "logistics",
		Focus:    "industry trends",
		Keywords: []string{"freight", "supply chain"},
		Depth:    ResearchDepthStandard,
		GeoFocus: "global",
	}
}

// NormalizeSettings trims credential values.
func NormalizeSettings(settings Settings) Settings {
	settings.OpenAIAPIKey = strings.TrimSpace(settings.OpenAIAPIKey)
	settings.DeepLAPIKey = strings.TrimSpace(settings.DeepLAPIKey)
	settings.PexelsAPIKey = strings.TrimSpace(settings.PexelsAPIKey)
	settings.AhrefsAPIKey = strings.TrimSpace(settings.AhrefsAPIKey)
	settings.BufferAPIKey = strings.TrimSpace(settings.BufferAPIKey)
	return settings
}

// NormalizePreferences validates enums and fills empty fields with defaults.
func NormalizePreferences(prefs Preferences) (Preferences, error) {
	if prefs.ArticleLength == "" {
		prefs.ArticleLength = ArticleLengthMedium
	}
	if !prefs.ArticleLength.Valid() {
		return Preferences{}, fmt.Errorf("unsupported article length %q", prefs.ArticleLength)
	}
	if prefs.ArticleStyle == "" {
		prefs.ArticleStyle = ArticleStyleInformative
	}
	if !prefs.ArticleStyle.Valid() {
		return Preferences{}, fmt.Errorf("unsupported article style %q", prefs.ArticleStyle)
	}
	prefs.DefaultHashtags = trimStrings(prefs.DefaultHashtags)
	prefs.TargetLanguages = trimStrings(prefs.TargetLanguages)
	return prefs, nil
}

// NormalizeResearchParams validates the depth enum and trims fields.
func NormalizeResearchParams(params ResearchParams) (ResearchParams, error) {
	params.Topic = strings.TrimSpace(params.Topic)
	params.Focus = strings.TrimSpace(params.Focus)
	params.GeoFocus = strings.TrimSpace(params.GeoFocus)
	params.Keywords = trimStrings(params.Keywords)
	if params.Topic == "" {
		return ResearchParams{}, fmt.Errorf("research topic is required")
	}
	if params.Depth == "" {
		params.Depth = ResearchDepthStandard
	}
	if !params.Depth.Valid() {
		return ResearchParams{}, fmt.Errorf("unsupported research depth %q", params.Depth)
	}
	return params, nil
}

// NormalizeNewContentItem validates and trims content creation input.
func NormalizeNewContentItem(input NewContentItem) (NewContentItem, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)
	input.Images = trimStrings(input.Images)
	if input.Title == "" {
		return NewContentItem{}, fmt.Errorf("content title is required")
	}
	if input.Type == "" {
		return NewContentItem{}, fmt.Errorf("content type is required")
	}
	if !input.Type.Valid() {
		return NewContentItem{}, fmt.Errorf("unsupported content type %q", input.Type)
	}
	if input.Status == "" {
		input.Status = ContentStatusDraft
	}
	if !input.Status.Valid() {
		return NewContentItem{}, fmt.Errorf("unsupported content status %q", input.Status)
	}
	return input, nil
}

// NormalizeNewDatabaseConfig validates and trims config creation input.
func NormalizeNewDatabaseConfig(input NewDatabaseConfig) (NewDatabaseConfig, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.DSN = strings.TrimSpace(input.DSN)
	input.Notes = strings.TrimSpace(input.Notes)
	if input.Name == "" {
		return NewDatabaseConfig{}, fmt.Errorf("config name is required")
	}
	if input.DSN == "" {
		return NewDatabaseConfig{}, fmt.Errorf("config connection descriptor is required")
	}
	return input, nil
}

// NormalizeNewContentHash validates and trims hash creation input.
func NormalizeNewContentHash(input NewContentHash) (NewContentHash, error) {
	input.Fingerprint = strings.TrimSpace(input.Fingerprint)
	input.Source = strings.TrimSpace(input.Source)
	input.SourceURL = strings.TrimSpace(input.SourceURL)
	input.SourceTitle = strings.TrimSpace(input.SourceTitle)
	if input.Fingerprint == "" {
		return NewContentHash{}, fmt.Errorf("fingerprint is required")
	}
	return input, nil
}

// NormalizeNewSEORule validates and trims rule creation input.
func NormalizeNewSEORule(input NewSEORule) (NewSEORule, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Rule = strings.TrimSpace(input.Rule)
	input.Category = strings.TrimSpace(input.Category)
	if input.Platform == "" {
		return NewSEORule{}, fmt.Errorf("rule platform is required")
	}
	if !input.Platform.Valid() {
		return NewSEORule{}, fmt.Errorf("unsupported rule platform %q", input.Platform)
	}
	if input.Name == "" {
		return NewSEORule{}, fmt.Errorf("rule name is required")
	}
	if input.Rule == "" {
		return NewSEORule{}, fmt.Errorf("rule text is required")
	}
	return input, nil
}

func trimStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	trimmed := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		trimmed = append(trimmed, value)
	}
	if len(trimmed) == 0 {
		return nil
	}
	return trimmed
}
