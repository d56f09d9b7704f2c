// Package fixtures bundles a small demo data set for the mock backend.
package fixtures

import (
	"context"
	"embed"
	"fmt"
	"slices"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

//go:embed data/*.json
var data embed.FS

// Loader serves the embedded data sets by name. Its signature matches
// service.Loader.
func Loader(_ context.Context, name string) ([]byte, error) {
	if !slices.Contains(domain.SnapshotSets, name) {
		return nil, fmt.Errorf("unknown data set %q", name)
	}
	b, err := data.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded %s: %w", name, err)
	}
	return b, nil
}
