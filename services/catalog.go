package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"docsync/isbn"
	"docsync/models"
)

// MergeCatalog übernimmt die Dateigröße aus dem Inventar ({id}.pdf, sonst {id}.zip),
// schreibt ISBNs in Bindestrich-Form und serialisiert alle Datensätze nach id sortiert
// als JSON-Array. Die Datensätze werden dabei verändert.
func MergeCatalog(records []*models.DocumentRecord, inv *models.Inventory, logger *zap.Logger) ([]byte, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sorted := make([]*models.DocumentRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, rec := range sorted {
		rec.SetFilesize(fileSize(inv, rec.ID))
		if rec.Book == nil {
			continue
		}
		for i, code := range rec.Book.ISBN {
			h, err := isbn.Hyphenate(code)
			switch {
			case err == nil:
				rec.Book.ISBN[i] = h
			case errors.Is(err, isbn.ErrUnknownRange):
				rec.Book.ISBN[i] = isbn.Normalize(code)
				logger.Warn("no hyphenation range, keeping plain ISBN", zap.String("id", rec.ID), zap.String("isbn", code))
			default:
				return nil, fmt.Errorf("hyphenate ISBN of %s: %w", rec.ID, err)
			}
		}
	}

	data, err := json.Marshal(sorted)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	logger.Info("catalog merged", zap.Int("records", len(sorted)), zap.Int("bytes", len(data)))
	return data, nil
}

func fileSize(inv *models.Inventory, id string) *int64 {
	for _, ext := range []string{".pdf", ".zip"} {
		if size, ok := inv.Size(id + ext); ok {
			return &size
		}
	}
	return nil
}
