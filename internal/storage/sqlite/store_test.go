package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/storage/storagetest"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "freightpress.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close sqlite store: %v", err)
		}
	})
	return store
}

func TestStoreContract(t *testing.T) {
	t.Parallel()
	storagetest.TestStore(t, func(t *testing.T) storage.Store {
		return openTempStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := Open("   "); err == nil {
		t.Fatal("open with a blank path should fail")
	}
}

func TestReopenPreservesRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "freightpress.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	item, err := store.CreateContentItem(ctx, storage.NewContentItem{
		Title: "Cold Chain Basics",
		Type:  storage.ContentTypeArticle,
		Body:  "Temperature excursions cost money.",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := store.SaveResearchParams(ctx, storage.ResearchParams{
		Topic: "reefer freight",
		Depth: storage.ResearchDepthDeep,
	}); err != nil {
		t.Fatalf("save research params: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	loaded, found, err := reopened.ContentItemByID(ctx, item.ID)
	if err != nil || !found {
		t.Fatalf("load item after reopen: found=%v err=%v", found, err)
	}
	if loaded.Title != item.Title || loaded.Fingerprint != item.Fingerprint {
		t.Fatalf("item changed across reopen: %+v", loaded)
	}

	// Reopening must not reset singletons that were saved before.
	params, err := reopened.ResearchParams(ctx)
	if err != nil {
		t.Fatalf("load research params after reopen: %v", err)
	}
	if params.Topic != "reefer freight" || params.Depth != storage.ResearchDepthDeep {
		t.Fatalf("seeding overwrote saved research params: %+v", params)
	}

	next, err := reopened.CreateContentItem(ctx, storage.NewContentItem{
		Title: "Port Congestion",
		Type:  storage.ContentTypeArticle,
		Body:  "Queues at anchor cost more than queues at berth.",
	})
	if err != nil {
		t.Fatalf("create item after reopen: %v", err)
	}
	if next.ID <= item.ID {
		t.Fatalf("identity went backwards across reopen: %d then %d", item.ID, next.ID)
	}
}

func TestReadsDegradeWhenBackendFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := Open(filepath.Join(t.TempDir(), "freightpress.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.CreateContentItem(ctx, storage.NewContentItem{
		Title: "Detention Fees",
		Type:  storage.ContentTypeArticle,
		Body:  "The clock starts at the gate.",
	}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	items, err := store.ContentItems(ctx)
	if err != nil {
		t.Fatalf("degraded list should absorb the fault, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("degraded list should be empty, got %d items", len(items))
	}
	if _, found, err := store.ContentItemByID(ctx, 1); err != nil || found {
		t.Fatalf("degraded lookup: found=%v err=%v", found, err)
	}
	if _, found, err := store.ActiveDatabaseConfig(ctx); err != nil || found {
		t.Fatalf("degraded active config: found=%v err=%v", found, err)
	}
	settings, err := store.Settings(ctx)
	if err != nil {
		t.Fatalf("degraded settings read: %v", err)
	}
	if settings.OpenAIAPIKey != "" {
		t.Fatalf("degraded settings should fall back to defaults: %+v", settings)
	}
}

func TestWritesReportUnavailableWhenBackendFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := Open(filepath.Join(t.TempDir(), "freightpress.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	if err := store.SaveSettings(ctx, storage.Settings{OpenAIAPIKey: "sk-x"}); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("save settings err = %v, want ErrUnavailable", err)
	}
	if _, err := store.CreateContentItem(ctx, storage.NewContentItem{
		Title: "Bonded Warehouses",
		Type:  storage.ContentTypeArticle,
		Body:  "Duty deferred is cash flow.",
	}); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("create item err = %v, want ErrUnavailable", err)
	}
	if _, err := store.CreateSEORule(ctx, storage.NewSEORule{
		Platform: storage.PlatformX,
		Name:     "short posts",
		Rule:     "stay under 200 characters",
		Active:   true,
	}); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("create rule err = %v, want ErrUnavailable", err)
	}
}

func TestCanceledContextPropagates(t *testing.T) {
	t.Parallel()
	store := openTempStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.ContentItems(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("list err = %v, want context.Canceled", err)
	}
	if err := store.SaveSettings(ctx, storage.Settings{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("save err = %v, want context.Canceled", err)
	}
	if _, err := store.CreateContentItem(ctx, storage.NewContentItem{
		Title: "Ghost",
		Type:  storage.ContentTypeArticle,
	}); !errors.Is(err, context.Canceled) {
		t.Fatalf("create err = %v, want context.Canceled", err)
	}
}
