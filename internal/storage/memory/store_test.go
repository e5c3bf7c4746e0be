package memory

import (
	"context"
	"testing"

	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	t.Parallel()
	storagetest.TestStore(t, func(t *testing.T) storage.Store {
		return New()
	})
}

func TestIdentitiesAreNotReused(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()

	first, err := store.CreateContentItem(ctx, storage.NewContentItem{
		Title: "Reefer Rates",
		Type:  storage.ContentTypeArticle,
		Body:  "Cold chain pricing update.",
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := store.DeleteContentItem(ctx, first.ID); err != nil {
		t.Fatalf("delete first: %v", err)
	}

	second, err := store.CreateContentItem(ctx, storage.NewContentItem{
		Title: "Spot Market Watch",
		Type:  storage.ContentTypeArticle,
		Body:  "Rates softened this week.",
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("second id = %d, want greater than %d", second.ID, first.ID)
	}
}

func TestPerKindCountersAreIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()

	item, err := store.CreateContentItem(ctx, storage.NewContentItem{
		Title: "Fuel Surcharges",
		Type:  storage.ContentTypeArticle,
		Body:  "Indexed to diesel.",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	config, err := store.CreateDatabaseConfig(ctx, storage.NewDatabaseConfig{Name: "primary", DSN: "sqlite://one"})
	if err != nil {
		t.Fatalf("create config: %v", err)
	}
	rule, err := store.CreateSEORule(ctx, storage.NewSEORule{
		Platform: storage.PlatformArticle,
		Name:     "meta length",
		Rule:     "under 160 characters",
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	if item.ID != 1 || config.ID != 1 || rule.ID != 1 {
		t.Fatalf("first ids = item %d, config %d, rule %d; want 1 each", item.ID, config.ID, rule.ID)
	}
}

func TestReturnedSlicesAreDetached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()

	item, err := store.CreateContentItem(ctx, storage.NewContentItem{
		Title:  "Port Calls",
		Type:   storage.ContentTypeArticle,
		Body:   "Schedules tightened.",
		Images: []string{"https://img.example/port.jpg"},
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	item.Images[0] = "mutated"

	reloaded, found, err := store.ContentItemByID(ctx, item.ID)
	if err != nil || !found {
		t.Fatalf("reload item: found=%v err=%v", found, err)
	}
	if reloaded.Images[0] != "https://img.example/port.jpg" {
		t.Fatalf("stored image mutated through returned slice: %q", reloaded.Images[0])
	}

	prefs, err := store.Preferences(ctx)
	if err != nil {
		t.Fatalf("load preferences: %v", err)
	}
	if len(prefs.DefaultHashtags) == 0 {
		t.Fatal("expected seeded default hashtags")
	}
	prefs.DefaultHashtags[0] = "mutated"
	again, err := store.Preferences(ctx)
	if err != nil {
		t.Fatalf("reload preferences: %v", err)
	}
	if again.DefaultHashtags[0] == "mutated" {
		t.Fatal("stored hashtags mutated through returned slice")
	}
}

func TestCanceledContextIsRejected(t *testing.T) {
	t.Parallel()
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.ContentItems(ctx); err == nil {
		t.Fatal("expected context error from read")
	}
	if _, err := store.CreateContentItem(ctx, storage.NewContentItem{
		Title: "x",
		Type:  storage.ContentTypeArticle,
		Body:  "y",
	}); err == nil {
		t.Fatal("expected context error from write")
	}
}
