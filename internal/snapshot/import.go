package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/telemetry"
)

// ErrUnknownSource reports an import source with no registered adapter.
var ErrUnknownSource = errors.New("unknown import source")

// Adapter translates one import source's payload into store records.
// Identity and timestamp fields are reassigned by the store.
type Adapter interface {
	Import(ctx context.Context, store storage.Store, payload []byte) (bool, error)
}

// Importer resolves source tags to registered adapters. The zero value
// is unusable; construct with NewImporter.
type Importer struct {
	adapters  map[string]Adapter
	telemetry *telemetry.Emitter
}

// NewImporter returns an importer with the built-in native adapter
// registered.
func NewImporter() *Importer {
	importer := &Importer{
		adapters:  make(map[string]Adapter),
		telemetry: telemetry.NewEmitter(),
	}
	importer.Register(SourceNative, nativeAdapter{})
	return importer
}

// Register binds one source tag to an adapter, replacing any previous
// binding for the same tag.
func (i *Importer) Register(source string, adapter Adapter) {
	if i == nil || adapter == nil {
		return
	}
	source = normalizeSource(source)
	if source == "" {
		return
	}
	i.adapters[source] = adapter
}

// Import applies one payload through the adapter registered for source.
// The boolean reports whether the payload was applied.
func (i *Importer) Import(ctx context.Context, store storage.Store, source string, payload []byte) (applied bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if i == nil {
		return false, fmt.Errorf("importer is not configured")
	}
	ctx, finish := i.telemetry.Span(ctx, "snapshot.import")
	defer func() { finish(err) }()

	adapter, ok := i.adapters[normalizeSource(source)]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return adapter.Import(ctx, store, payload)
}

// Sources lists the registered source tags for diagnostics.
func (i *Importer) Sources() []string {
	if i == nil {
		return nil
	}
	sources := make([]string, 0, len(i.adapters))
	for source := range i.adapters {
		sources = append(sources, source)
	}
	return sources
}

func normalizeSource(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}
