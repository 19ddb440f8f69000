package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"docsync/storage"
)

// SnapshotStore ist der sekundäre Speicher für Katalog und Snapshots.
type SnapshotStore interface {
	ObjectPutter
	List(ctx context.Context, prefix string, strict bool) (*storage.ListResult, error)
	Delete(ctx context.Context, key string) error
}

const snapshotPrefix = "snapshots/"

// Archiver legt den Katalog unter einem festen Schlüssel ab und behält zusätzlich
// die neuesten keep gzip-Snapshots.
type Archiver struct {
	store  SnapshotStore
	key    string
	keep   int
	now    func() time.Time
	logger *zap.Logger
}

func NewArchiver(store SnapshotStore, key string, keep int, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{store: store, key: key, keep: keep, now: time.Now, logger: logger}
}

// Archive lädt data als application/json hoch, dann den Snapshot, dann wird rotiert.
func (a *Archiver) Archive(ctx context.Context, data []byte) error {
	if err := a.store.Put(ctx, a.key, data, "application/json"); err != nil {
		return &NetworkError{Op: "archive", Key: a.key, Err: err}
	}
	a.logger.Info("catalog archived", zap.String("key", a.key), zap.Int("bytes", len(data)))

	if a.keep <= 0 {
		return nil
	}
	gz, err := gzipBytes(data)
	if err != nil {
		return err
	}
	key := a.snapshotKey(a.now())
	if err := a.store.Put(ctx, key, gz, "application/gzip"); err != nil {
		return &NetworkError{Op: "snapshot", Key: key, Err: err}
	}
	return a.rotate(ctx)
}

func (a *Archiver) snapshotBase() string {
	return snapshotPrefix + strings.TrimSuffix(path.Base(a.key), path.Ext(a.key)) + "-"
}

func (a *Archiver) snapshotKey(t time.Time) string {
	return a.snapshotBase() + t.UTC().Format("20060102T150405Z") + ".json.gz"
}

// rotate löscht alle Snapshots außer den neuesten keep. Die Zeitstempel im Schlüssel sortieren lexikalisch.
func (a *Archiver) rotate(ctx context.Context) error {
	res, err := a.store.List(ctx, a.snapshotBase(), true)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	keys := make([]string, 0, len(res.Objects))
	for _, o := range res.Objects {
		keys = append(keys, o.Key)
	}
	if len(keys) <= a.keep {
		return nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	for _, key := range keys[a.keep:] {
		if err := a.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}
		a.logger.Info("old snapshot deleted", zap.String("key", key))
	}
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
