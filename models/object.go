package models

import (
	"path"
	"sort"
	"strings"
)

// ObjectRecord ist ein Objekt im primären Speicher.
type ObjectRecord struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// Ext gibt die Dateiendung ohne Punkt und in Kleinbuchstaben zurück.
func (o ObjectRecord) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(o.Key), "."))
}

// ID gibt den Inhaltshash zurück, oder "" wenn der Schlüssel keinem {id}.{ext} entspricht.
func (o ObjectRecord) ID() string {
	id := strings.TrimSuffix(o.Key, path.Ext(o.Key))
	if !IsContentID(id) {
		return ""
	}
	return id
}

// Inventory ist eine indizierte Sicht auf die Objektliste eines Buckets.
type Inventory struct {
	objects []ObjectRecord
	sizes   map[string]int64
}

// NewInventory indiziert die Objektliste nach Schlüssel.
func NewInventory(objects []ObjectRecord) *Inventory {
	inv := &Inventory{
		objects: objects,
		sizes:   make(map[string]int64, len(objects)),
	}
	for _, o := range objects {
		inv.sizes[o.Key] = o.Size
	}
	return inv
}

func (i *Inventory) Objects() []ObjectRecord {
	return i.objects
}

func (i *Inventory) Len() int {
	return len(i.objects)
}

func (i *Inventory) Has(key string) bool {
	_, ok := i.sizes[key]
	return ok
}

func (i *Inventory) Size(key string) (int64, bool) {
	size, ok := i.sizes[key]
	return size, ok
}

// Keys liefert alle Schlüssel sortiert.
func (i *Inventory) Keys() []string {
	keys := make([]string, 0, len(i.sizes))
	for k := range i.sizes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ArtifactRequirement hält fest, welche Cover-Formate für eine id fehlen.
type ArtifactRequirement struct {
	ID        string
	NeedsJPG  bool
	NeedsWebP bool
}
