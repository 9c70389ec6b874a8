// Package catalog merges the built-in airports with user-added ones.
package catalog

import (
	"context"
	"fmt"

	"github.com/skymetrics/skymetrics/internal/model"
)

// Saver persists the full custom airport list.
type Saver interface {
	SaveCustomCatalog(ctx context.Context, list []model.AirportDefinition) error
}

// Catalog holds the default airports and the custom airports added at runtime.
type Catalog struct {
	defaults []model.AirportDefinition
	custom   []model.AirportDefinition
	saver    Saver
}

// New builds a catalog. Custom entries that collide with an earlier code are dropped, so the
// combined list never holds a code twice. saver may be nil for a read-only catalog.
func New(defaults, custom []model.AirportDefinition, saver Saver) *Catalog {
	c := &Catalog{saver: saver}
	seen := map[string]struct{}{}
	for _, ap := range defaults {
		ap.Code = model.NormalizeCode(ap.Code)
		if _, ok := seen[ap.Code]; ok || ap.Code == "" {
			continue
		}
		seen[ap.Code] = struct{}{}
		ap.IsCustom = false
		c.defaults = append(c.defaults, ap)
	}
	for _, ap := range custom {
		ap.Code = model.NormalizeCode(ap.Code)
		if _, ok := seen[ap.Code]; ok || ap.Code == "" {
			continue
		}
		seen[ap.Code] = struct{}{}
		ap.IsCustom = true
		c.custom = append(c.custom, ap)
	}
	return c
}

// ListAll returns defaults in fixed order followed by custom airports in insertion order.
func (c *Catalog) ListAll() []model.AirportDefinition {
	out := make([]model.AirportDefinition, 0, len(c.defaults)+len(c.custom))
	out = append(out, c.defaults...)
	out = append(out, c.custom...)
	return out
}

// Custom returns a copy of the custom airports.
func (c *Catalog) Custom() []model.AirportDefinition {
	return append([]model.AirportDefinition(nil), c.custom...)
}

// Lookup finds an airport by code.
func (c *Catalog) Lookup(code string) (model.AirportDefinition, bool) {
	code = model.NormalizeCode(code)
	for _, ap := range c.defaults {
		if ap.Code == code {
			return ap, true
		}
	}
	for _, ap := range c.custom {
		if ap.Code == code {
			return ap, true
		}
	}
	return model.AirportDefinition{}, false
}

// IsDefault reports whether code belongs to the built-in set.
func (c *Catalog) IsDefault(code string) bool {
	code = model.NormalizeCode(code)
	for _, ap := range c.defaults {
		if ap.Code == code {
			return true
		}
	}
	return false
}

// AddCustom appends a custom airport. It returns false without touching storage when the
// code is already present in the combined set.
func (c *Catalog) AddCustom(ctx context.Context, code, name string) (bool, error) {
	code = model.NormalizeCode(code)
	if code == "" {
		return false, fmt.Errorf("airport code is empty")
	}
	if _, ok := c.Lookup(code); ok {
		return false, nil
	}
	c.custom = append(c.custom, model.AirportDefinition{Code: code, Name: name, IsCustom: true})
	return true, c.persist(ctx)
}

// RemoveCustom drops a custom airport. Default and unknown codes are ignored.
func (c *Catalog) RemoveCustom(ctx context.Context, code string) (bool, error) {
	code = model.NormalizeCode(code)
	idx := -1
	for i, ap := range c.custom {
		if ap.Code == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	c.custom = append(c.custom[:idx:idx], c.custom[idx+1:]...)
	return true, c.persist(ctx)
}

func (c *Catalog) persist(ctx context.Context) error {
	if c.saver == nil {
		return nil
	}
	if err := c.saver.SaveCustomCatalog(ctx, c.Custom()); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	return nil
}
