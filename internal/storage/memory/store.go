package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/freightpress/freightpress/internal/storage"
)

// Store provides process-local persistence for the content-operations
// record kinds. It is the fallback backend when the durable store
// cannot be opened at startup; everything it holds is lost on restart.
//
// Identities are assigned by per-kind counters starting at 1 and are
// never reused within the process lifetime, so listings in ascending
// identity order match insertion order.
type Store struct {
	mu sync.Mutex

	settings       storage.Settings
	preferences    storage.Preferences
	researchParams storage.ResearchParams

	contentItems map[int64]storage.ContentItem
	configs      map[int64]storage.DatabaseConfig
	hashes       map[int64]storage.ContentHash
	seoRules     map[int64]storage.SEORule

	nextContentItemID int64
	nextConfigID      int64
	nextHashID        int64
	nextSEORuleID     int64
}

var _ storage.Store = (*Store)(nil)

// New constructs an empty volatile store with seeded singleton defaults.
func New() *Store {
	now := time.Now().UTC()
	settings := storage.DefaultSettings()
	settings.UpdatedAt = now
	preferences := storage.DefaultPreferences()
	preferences.UpdatedAt = now
	researchParams := storage.DefaultResearchParams()
	researchParams.UpdatedAt = now

	return &Store{
		settings:          settings,
		preferences:       preferences,
		researchParams:    researchParams,
		contentItems:      make(map[int64]storage.ContentItem),
		configs:           make(map[int64]storage.DatabaseConfig),
		hashes:            make(map[int64]storage.ContentHash),
		seoRules:          make(map[int64]storage.SEORule),
		nextContentItemID: 1,
		nextConfigID:      1,
		nextHashID:        1,
		nextSEORuleID:     1,
	}
}

// Close releases nothing; the volatile store holds no external resources.
func (s *Store) Close() error {
	return nil
}

// Settings returns the live credential singleton.
func (s *Store) Settings(ctx context.Context) (storage.Settings, error) {
	if err := ctx.Err(); err != nil {
		return storage.Settings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

// SaveSettings replaces the credential singleton wholesale.
func (s *Store) SaveSettings(ctx context.Context, settings storage.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	settings = storage.NormalizeSettings(settings)
	settings.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

// Preferences returns the live generation-preference singleton.
func (s *Store) Preferences(ctx context.Context) (storage.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return storage.Preferences{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs := s.preferences
	prefs.DefaultHashtags = cloneStrings(prefs.DefaultHashtags)
	prefs.TargetLanguages = cloneStrings(prefs.TargetLanguages)
	return prefs, nil
}

// SavePreferences replaces the generation-preference singleton wholesale.
func (s *Store) SavePreferences(ctx context.Context, prefs storage.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefs, err := storage.NormalizePreferences(prefs)
	if err != nil {
		return err
	}
	prefs.DefaultHashtags = cloneStrings(prefs.DefaultHashtags)
	prefs.TargetLanguages = cloneStrings(prefs.TargetLanguages)
	prefs.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences = prefs
	return nil
}

// ResearchParams returns the live research-parameter singleton.
func (s *Store) ResearchParams(ctx context.Context) (storage.ResearchParams, error) {
	if err := ctx.Err(); err != nil {
		return storage.ResearchParams{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	params := s.researchParams
	params.Keywords = cloneStrings(params.Keywords)
	return params, nil
}

// SaveResearchParams replaces the research-parameter singleton wholesale.
func (s *Store) SaveResearchParams(ctx context.Context, params storage.ResearchParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params, err := storage.NormalizeResearchParams(params)
	if err != nil {
		return err
	}
	params.Keywords = cloneStrings(params.Keywords)
	params.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.researchParams = params
	return nil
}

// ContentItems lists stored content in insertion order.
func (s *Store) ContentItems(ctx context.Context) ([]storage.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]storage.ContentItem, 0, len(s.contentItems))
	for _, item := range s.contentItems {
		items = append(items, cloneContentItem(item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// ContentItemByID loads one content item by identity.
func (s *Store) ContentItemByID(ctx context.Context, id int64) (storage.ContentItem, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentItem{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.contentItems[id]
	if !ok {
		return storage.ContentItem{}, false, nil
	}
	return cloneContentItem(item), true, nil
}

// CreateContentItem persists one content item, marking the title when
// its fingerprint matches an already-recorded content hash.
func (s *Store) CreateContentItem(ctx context.Context, input storage.NewContentItem) (storage.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentItem{}, err
	}
	input, err := storage.NormalizeNewContentItem(input)
	if err != nil {
		return storage.ContentItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	fingerprint := storage.Fingerprint(input.Title, input.Body)
	title := input.Title
	_, duplicate := s.hashByFingerprintLocked(fingerprint)
	if duplicate {
		title = storage.MarkDuplicateTitle(title)
	}

	item := storage.ContentItem{
		ID:          s.nextContentItemID,
		Title:       title,
		Type:        input.Type,
		Body:        input.Body,
		Images:      cloneStrings(input.Images),
		Status:      input.Status,
		Fingerprint: fingerprint,
		CreatedAt:   now,
	}
	s.nextContentItemID++
	if item.Status == storage.ContentStatusPublished {
		publishedAt := now
		item.PublishedAt = &publishedAt
	}
	s.contentItems[item.ID] = item

	if !duplicate {
		s.insertHashLocked(storage.NewContentHash{
			Fingerprint: fingerprint,
			Source:      string(item.Type),
			SourceTitle: item.Title,
		}, now)
	}
	return cloneContentItem(item), nil
}

// UpdateContentItem overwrites the patched fields of one content item,
// re-running duplicate detection when title or body changed.
func (s *Store) UpdateContentItem(ctx context.Context, id int64, patch storage.ContentItemPatch) (storage.ContentItem, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentItem{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contentItems[id]
	if !ok {
		return storage.ContentItem{}, false, nil
	}

	updated, err := storage.ApplyContentItemPatch(existing, patch, time.Now().UTC())
	if err != nil {
		return storage.ContentItem{}, false, err
	}

	if patch.Title != nil || patch.Body != nil {
		fingerprint := storage.Fingerprint(updated.Title, updated.Body)
		if fingerprint != existing.Fingerprint {
			if _, duplicate := s.hashByFingerprintLocked(fingerprint); duplicate {
				// Existing hash row and stored fingerprint stay untouched.
				if patch.Title != nil {
					updated.Title = storage.MarkDuplicateTitle(updated.Title)
				}
			} else {
				updated.Fingerprint = fingerprint
				s.insertHashLocked(storage.NewContentHash{
					Fingerprint: fingerprint,
					Source:      string(updated.Type),
					SourceTitle: updated.Title,
				}, time.Now().UTC())
			}
		}
	}

	s.contentItems[id] = updated
	return cloneContentItem(updated), true, nil
}

// DeleteContentItem removes one content item and its fingerprint row.
func (s *Store) DeleteContentItem(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.contentItems[id]
	if !ok {
		return false, nil
	}
	delete(s.contentItems, id)
	if item.Fingerprint != "" {
		s.deleteHashByFingerprintLocked(item.Fingerprint)
	}
	return true, nil
}

// DatabaseConfigs lists stored configs in insertion order.
func (s *Store) DatabaseConfigs(ctx context.Context) ([]storage.DatabaseConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	configs := make([]storage.DatabaseConfig, 0, len(s.configs))
	for _, config := range s.configs {
		configs = append(configs, config)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].ID < configs[j].ID })
	return configs, nil
}

// ActiveDatabaseConfig loads the at-most-one active config.
func (s *Store) ActiveDatabaseConfig(ctx context.Context) (storage.DatabaseConfig, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.DatabaseConfig{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, config := range s.configs {
		if config.Active {
			return config, true, nil
		}
	}
	return storage.DatabaseConfig{}, false, nil
}

// CreateDatabaseConfig persists one config, deactivating every other
// config when the new one is requested active.
func (s *Store) CreateDatabaseConfig(ctx context.Context, input storage.NewDatabaseConfig) (storage.DatabaseConfig, error) {
	if err := ctx.Err(); err != nil {
		return storage.DatabaseConfig{}, err
	}
	input, err := storage.NormalizeNewDatabaseConfig(input)
	if err != nil {
		return storage.DatabaseConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, config := range s.configs {
		if config.Name == input.Name {
			return storage.DatabaseConfig{}, storage.ErrConflict
		}
	}

	now := time.Now().UTC()
	config := storage.DatabaseConfig{
		ID:         s.nextConfigID,
		Name:       input.Name,
		DSN:        input.DSN,
		Active:     input.Active,
		Notes:      input.Notes,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	s.nextConfigID++
	if config.Active {
		s.deactivateConfigsLocked(config.ID)
	}
	s.configs[config.ID] = config
	return config, nil
}

// UpdateDatabaseConfig overwrites the patched fields of one config,
// flipping every other config inactive when active is set.
func (s *Store) UpdateDatabaseConfig(ctx context.Context, id int64, patch storage.DatabaseConfigPatch) (storage.DatabaseConfig, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.DatabaseConfig{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.configs[id]
	if !ok {
		return storage.DatabaseConfig{}, false, nil
	}
	config, err := storage.ApplyDatabaseConfigPatch(existing, patch, time.Now().UTC())
	if err != nil {
		return storage.DatabaseConfig{}, false, err
	}
	if patch.Name != nil {
		for otherID, other := range s.configs {
			if otherID != id && other.Name == config.Name {
				return storage.DatabaseConfig{}, false, storage.ErrConflict
			}
		}
	}
	if config.Active {
		s.deactivateConfigsLocked(id)
	}
	s.configs[id] = config
	return config, true, nil
}

// ActivateDatabaseConfig marks one config active and the rest inactive.
func (s *Store) ActivateDatabaseConfig(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	config, ok := s.configs[id]
	if !ok {
		return false, nil
	}
	config.Active = true
	config.LastUsedAt = time.Now().UTC()
	s.deactivateConfigsLocked(id)
	s.configs[id] = config
	return true, nil
}

// DeleteDatabaseConfig removes one config unless it is active.
func (s *Store) DeleteDatabaseConfig(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	config, ok := s.configs[id]
	if !ok {
		return false, nil
	}
	if config.Active {
		return false, storage.ErrConflict
	}
	delete(s.configs, id)
	return true, nil
}

// ContentHashes lists stored hashes in insertion order.
func (s *Store) ContentHashes(ctx context.Context) ([]storage.ContentHash, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	hashes := make([]storage.ContentHash, 0, len(s.hashes))
	for _, hash := range s.hashes {
		hashes = append(hashes, hash)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i].ID < hashes[j].ID })
	return hashes, nil
}

// ContentHashByFingerprint loads one hash row by fingerprint value.
func (s *Store) ContentHashByFingerprint(ctx context.Context, fingerprint string) (storage.ContentHash, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentHash{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, ok := s.hashByFingerprintLocked(fingerprint)
	if !ok {
		return storage.ContentHash{}, false, nil
	}
	return hash, true, nil
}

// CreateContentHash persists one fingerprint row.
func (s *Store) CreateContentHash(ctx context.Context, input storage.NewContentHash) (storage.ContentHash, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContentHash{}, err
	}
	input, err := storage.NormalizeNewContentHash(input)
	if err != nil {
		return storage.ContentHash{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.hashByFingerprintLocked(input.Fingerprint); exists {
		return storage.ContentHash{}, storage.ErrConflict
	}
	return s.insertHashLocked(input, time.Now().UTC()), nil
}

// DeleteContentHashByFingerprint removes one fingerprint row.
func (s *Store) DeleteContentHashByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteHashByFingerprintLocked(fingerprint), nil
}

// SEORules lists stored rules in insertion order.
func (s *Store) SEORules(ctx context.Context) ([]storage.SEORule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rules := make([]storage.SEORule, 0, len(s.seoRules))
	for _, rule := range s.seoRules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules, nil
}

// ActiveSEORules lists active rules for one platform, most important first.
func (s *Store) ActiveSEORules(ctx context.Context, platform storage.Platform) ([]storage.SEORule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rules := make([]storage.SEORule, 0, len(s.seoRules))
	for _, rule := range s.seoRules {
		if rule.Active && rule.Platform == platform {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Importance != rules[j].Importance {
			return rules[i].Importance > rules[j].Importance
		}
		return rules[i].Name < rules[j].Name
	})
	return rules, nil
}

// CreateSEORule persists one optimization rule.
func (s *Store) CreateSEORule(ctx context.Context, input storage.NewSEORule) (storage.SEORule, error) {
	if err := ctx.Err(); err != nil {
		return storage.SEORule{}, err
	}
	input, err := storage.NormalizeNewSEORule(input)
	if err != nil {
		return storage.SEORule{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rule := storage.SEORule{
		ID:         s.nextSEORuleID,
		Platform:   input.Platform,
		Name:       input.Name,
		Rule:       input.Rule,
		Importance: input.Importance,
		Category:   input.Category,
		Active:     input.Active,
		UpdatedAt:  time.Now().UTC(),
	}
	s.nextSEORuleID++
	s.seoRules[rule.ID] = rule
	return rule, nil
}

// UpdateSEORule overwrites the patched fields of one rule.
func (s *Store) UpdateSEORule(ctx context.Context, id int64, patch storage.SEORulePatch) (storage.SEORule, bool, error) {
	if err := ctx.Err(); err != nil {
		return storage.SEORule{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.seoRules[id]
	if !ok {
		return storage.SEORule{}, false, nil
	}
	updated, err := storage.ApplySEORulePatch(rule, patch)
	if err != nil {
		return storage.SEORule{}, false, err
	}
	updated.UpdatedAt = time.Now().UTC()
	s.seoRules[id] = updated
	return updated, true, nil
}

// DeleteSEORule removes one rule.
func (s *Store) DeleteSEORule(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seoRules[id]; !ok {
		return false, nil
	}
	delete(s.seoRules, id)
	return true, nil
}

func (s *Store) hashByFingerprintLocked(fingerprint string) (storage.ContentHash, bool) {
	for _, hash := range s.hashes {
		if hash.Fingerprint == fingerprint {
			return hash, true
		}
	}
	return storage.ContentHash{}, false
}

func (s *Store) insertHashLocked(input storage.NewContentHash, now time.Time) storage.ContentHash {
	hash := storage.ContentHash{
		ID:          s.nextHashID,
		Fingerprint: input.Fingerprint,
		Source:      input.Source,
		SourceURL:   input.SourceURL,
		SourceTitle: input.SourceTitle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextHashID++
	s.hashes[hash.ID] = hash
	return hash
}

func (s *Store) deleteHashByFingerprintLocked(fingerprint string) bool {
	for id, hash := range s.hashes {
		if hash.Fingerprint == fingerprint {
			delete(s.hashes, id)
			return true
		}
	}
	return false
}

func (s *Store) deactivateConfigsLocked(activeID int64) {
	for id, config := range s.configs {
		if id == activeID || !config.Active {
			continue
		}
		config.Active = false
		s.configs[id] = config
	}
}

func cloneContentItem(item storage.ContentItem) storage.ContentItem {
	item.Images = cloneStrings(item.Images)
	if item.PublishedAt != nil {
		publishedAt := *item.PublishedAt
		item.PublishedAt = &publishedAt
	}
	return item
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}
