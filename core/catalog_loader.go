package core

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/orrery/model"
)

// LoadCatalog decodes a YAML catalog from r and validates it. Unknown keys
// are rejected so typos in a hand-edited file surface early.
func LoadCatalog(r io.Reader) (model.Catalog, error) {
	var cat model.Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return model.Catalog{}, fmt.Errorf("LoadCatalog: decode failed: %w", err)
	}
	if err := ValidateCatalog(cat); err != nil {
		return model.Catalog{}, fmt.Errorf("LoadCatalog: %w", err)
	}
	return cat, nil
}

// LoadCatalogFile reads a catalog from path. An empty path yields the
// built-in catalog.
func LoadCatalogFile(path string) (model.Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("open catalog %q: %w", path, err)
	}
	defer f.Close()
	return LoadCatalog(f)
}
