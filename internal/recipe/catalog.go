package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a catalog. A bare top-level list is also
// accepted so hand-written files stay short.
type catalogFile struct {
	Recipes []Recipe `json:"recipes" yaml:"recipes"`
}

// LoadCatalog reads a recipe catalog from a YAML or JSON file (decided by
// extension), normalizes every entry and validates the set.
func LoadCatalog(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("catalog file %s is empty", path)
	}

	var recipes []Recipe
	if strings.EqualFold(filepath.Ext(path), ".json") {
		recipes, err = parseJSONCatalog(data)
	} else {
		recipes, err = parseYAMLCatalog(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no recipes", path)
	}

	seen := make(map[string]struct{}, len(recipes))
	for i := range recipes {
		recipes[i].Normalize()
		if err := recipes[i].Validate(); err != nil {
			return nil, fmt.Errorf("catalog file %s: %w", path, err)
		}
		if _, dup := seen[recipes[i].ID]; dup {
			return nil, fmt.Errorf("catalog file %s: duplicate recipe id %q", path, recipes[i].ID)
		}
		seen[recipes[i].ID] = struct{}{}
	}
	return recipes, nil
}

func parseYAMLCatalog(data []byte) ([]Recipe, error) {
	var wrapped catalogFile
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.Recipes) > 0 {
		return wrapped.Recipes, nil
	}
	var bare []Recipe
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

func parseJSONCatalog(data []byte) ([]Recipe, error) {
	var wrapped catalogFile
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Recipes) > 0 {
		return wrapped.Recipes, nil
	}
	var bare []Recipe
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}
