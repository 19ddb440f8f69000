package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"docsync/metrics"
	"docsync/models"
)

// Backend ist der Ausschnitt der Backend-API, den der PublishGate braucht.
type Backend interface {
	NotPublished(ctx context.Context) ([]models.PendingFile, error)
	Publish(ctx context.Context, ids []uint64) error
}

// PublishGate gleicht lokal validierte Metadaten mit den unveröffentlichten Uploads ab.
type PublishGate struct {
	backend Backend
	logger  *zap.Logger
}

func NewPublishGate(backend Backend, logger *zap.Logger) *PublishGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublishGate{backend: backend, logger: logger}
}

// Pending lädt die unveröffentlichten Uploads.
func (g *PublishGate) Pending(ctx context.Context) ([]models.PendingFile, error) {
	files, err := g.backend.NotPublished(ctx)
	if err != nil {
		return nil, &NetworkError{Op: "list", Key: "notPublished", Err: err}
	}
	return files, nil
}

// Resolve: Kandidaten sind Uploads, deren Dateiname mit einer lokal validierten id beginnt.
// Geliefert werden ihre Backend-ids (sortiert, eindeutig) und die übrigen Uploads.
func (g *PublishGate) Resolve(localIDs []string, pending []models.PendingFile) ([]uint64, []models.PendingFile) {
	local := make(map[string]bool, len(localIDs))
	for _, id := range localIDs {
		local[id] = true
	}

	seen := make(map[uint64]bool)
	var ids []uint64
	remaining := make([]models.PendingFile, 0, len(pending))
	for _, p := range pending {
		cid := p.ContentID()
		if cid == "" || !local[cid] {
			remaining = append(remaining, p)
			continue
		}
		if !seen[p.ID] {
			seen[p.ID] = true
			ids = append(ids, p.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	g.logger.Info("publish candidates resolved", zap.Int("candidates", len(ids)), zap.Int("remaining", len(remaining)))
	return ids, remaining
}

// Publish veröffentlicht ids. Eine leere Liste sendet nichts.
func (g *PublishGate) Publish(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		g.logger.Info("nothing to publish")
		return nil
	}
	if err := g.backend.Publish(ctx, ids); err != nil {
		return &NetworkError{Op: "publish", Key: "files", Err: err}
	}
	metrics.Published.Add(float64(len(ids)))
	g.logger.Info("files published", zap.Int("count", len(ids)))
	return nil
}
