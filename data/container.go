// Package data provides thread-safe storage for the medicine registry.
// The registry is replaced wholesale on reload, so it is held behind atomic
// values and swapped with zero downtime.
package data

import (
	"sync/atomic"
	"time"

	"github.com/mediscan/mediscan-api/dataset"
	"github.com/mediscan/mediscan-api/logging"
)

// Container holds the current registry snapshot with atomic pointers for
// zero-downtime updates.
type Container struct {
	medicines   atomic.Value // []dataset.Medicine
	byNormName  atomic.Value // map[string]dataset.Medicine
	lastUpdated atomic.Value // time.Time
	updating    atomic.Bool
}

// NewContainer creates a Container with empty data.
func NewContainer() *Container {
	c := &Container{}
	c.medicines.Store(make([]dataset.Medicine, 0))
	c.byNormName.Store(make(map[string]dataset.Medicine))
	c.lastUpdated.Store(time.Time{})
	return c
}

// GetMedicines returns the current registry snapshot.
func (c *Container) GetMedicines() []dataset.Medicine {
	if v := c.medicines.Load(); v != nil {
		if medicines, ok := v.([]dataset.Medicine); ok {
			return medicines
		}
	}

	logging.Warn("Medicine list is empty or invalid")
	return []dataset.Medicine{}
}

// GetByNormName returns the normalized-name index for O(1) exact lookups.
func (c *Container) GetByNormName() map[string]dataset.Medicine {
	if v := c.byNormName.Load(); v != nil {
		if index, ok := v.(map[string]dataset.Medicine); ok {
			return index
		}
	}

	logging.Warn("Medicine index is empty or invalid")
	return make(map[string]dataset.Medicine)
}

// GetLastUpdated returns the timestamp of the last registry load.
func (c *Container) GetLastUpdated() time.Time {
	if v := c.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating reports whether a registry reload is in progress.
func (c *Container) IsUpdating() bool {
	return c.updating.Load()
}

// Update atomically replaces the registry snapshot and its index.
func (c *Container) Update(medicines []dataset.Medicine) {
	index := make(map[string]dataset.Medicine, len(medicines))
	for i := range medicines {
		index[medicines[i].NormDrug] = medicines[i]
	}

	c.medicines.Store(medicines)
	c.byNormName.Store(index)
	c.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a reload. Returns false when another
// reload is already running.
func (c *Container) BeginUpdate() bool {
	return c.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload.
func (c *Container) EndUpdate() {
	c.updating.Store(false)
}
