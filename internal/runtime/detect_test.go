package runtime

import (
	"context"
	"testing"
)

func TestDetectCoversAllKnownRuntimes(t *testing.T) {
	infos := Detect(context.Background())

	if len(infos) != len(Known()) {
		t.Fatalf("expected %d results, got %d", len(Known()), len(infos))
	}

	seen := make(map[string]Info)
	for _, info := range infos {
		seen[info.Name] = info
	}

	for _, name := range Known() {
		info, ok := seen[name]
		if !ok {
			t.Errorf("missing result for runtime %s", name)
			continue
		}
		// Availability is host-dependent; only the internal consistency
		// is checked here: available implies a version string.
		if info.Available && info.Version == "" {
			t.Errorf("%s reported available without a version", name)
		}
		if !info.Available && info.Version != "" {
			t.Errorf("%s reported a version without being available", name)
		}
	}
}
