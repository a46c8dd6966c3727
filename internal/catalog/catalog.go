// File path: internal/catalog/catalog.go

// Package catalog loads the template catalog: the external set of document
// blueprints, each identified by a template id and carrying placeholder-bearing
// text. The catalog is loaded once per run and read-only afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/camline/agreementd/internal/common"
)

// Definition is one document blueprint from the template catalog.
type Definition struct {
	ID      string `json:"template_id"`
	Name    string `json:"template_name"`
	Content string `json:"template_content"`
}

// Catalog indexes template definitions by id.
type Catalog struct {
	byID  map[string]Definition
	order []string
}

// Load decodes a JSON array of template definitions.
func Load(r io.Reader) (*Catalog, error) {
	var defs []Definition
	if err := json.NewDecoder(r).Decode(&defs); err != nil {
		return nil, fmt.Errorf("catalog: decode templates: %w", err)
	}
	cat := &Catalog{byID: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if def.ID == "" {
			continue
		}
		if _, exists := cat.byID[def.ID]; !exists {
			cat.order = append(cat.order, def.ID)
		}
		cat.byID[def.ID] = def
	}
	common.Logger().Debug("catalog: templates loaded", "count", len(cat.byID))
	return cat, nil
}

// Lookup returns the definition for the given template id.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	def, ok := c.byID[id]
	return def, ok
}

// IDs returns the known template ids in catalog order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Definitions returns the catalog entries in load order.
func (c *Catalog) Definitions() []Definition {
	if c == nil {
		return nil
	}
	out := make([]Definition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of definitions in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}
