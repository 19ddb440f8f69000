package services

import (
	"sort"

	"docsync/models"
)

// Requirements berechnet für jede Rohdatei ohne vollständige Cover, welche Formate fehlen.
// Rohdateien, die noch als unveröffentlichter Upload im Backend liegen, werden ausgelassen.
func Requirements(inv *models.Inventory, pending []models.PendingFile) []models.ArtifactRequirement {
	pendingNames := make(map[string]bool, len(pending))
	for _, p := range pending {
		pendingNames[p.FileName] = true
	}

	raw := make(map[string]bool)
	jpg := make(map[string]bool)
	webp := make(map[string]bool)
	for _, obj := range inv.Objects() {
		id := obj.ID()
		if id == "" {
			continue
		}
		switch obj.Ext() {
		case "pdf", "zip":
			if !pendingNames[obj.Key] {
				raw[id] = true
			}
		case "jpg":
			jpg[id] = true
		case "webp":
			webp[id] = true
		}
	}

	var reqs []models.ArtifactRequirement
	for id := range raw {
		req := models.ArtifactRequirement{ID: id, NeedsJPG: !jpg[id], NeedsWebP: !webp[id]}
		if req.NeedsJPG || req.NeedsWebP {
			reqs = append(reqs, req)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ID < reqs[j].ID })
	return reqs
}

// NeedsCover = (raw − jpg) ∪ (raw − webp), sortiert.
func NeedsCover(inv *models.Inventory, pending []models.PendingFile) []string {
	reqs := Requirements(inv, pending)
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	return ids
}
