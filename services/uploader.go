package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"docsync/metrics"
	"docsync/retry"
)

type ObjectPutter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Uploader lädt die erzeugten Cover mit begrenzter Wiederholung in den primären Speicher.
type Uploader struct {
	store   ObjectPutter
	policy  retry.Policy
	workers int
	logger  *zap.Logger
}

func NewUploader(store ObjectPutter, policy retry.Policy, workers int, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{store: store, policy: policy, workers: workers, logger: logger}
}

// UploadReport zählt erfolgreiche und fehlgeschlagene Uploads.
type UploadReport struct {
	Uploaded int
	Failed   int
}

// UploadCovers lädt jpg/ als image/jpeg und webp/ als image/webp hoch.
// Die Stufe gilt nur als erfolgreich, wenn keine Datei fehlgeschlagen ist.
func (u *Uploader) UploadCovers(ctx context.Context, scratch Scratch) (*UploadReport, error) {
	jpg, jpgErr := u.UploadDir(ctx, scratch.JPG(), "image/jpeg")
	webp, webpErr := u.UploadDir(ctx, scratch.WebP(), "image/webp")

	report := &UploadReport{
		Uploaded: jpg.Uploaded + webp.Uploaded,
		Failed:   jpg.Failed + webp.Failed,
	}
	u.logger.Info("covers uploaded", zap.Int("uploaded", report.Uploaded), zap.Int("failed", report.Failed))
	if jpgErr != nil || webpErr != nil {
		return report, fmt.Errorf("upload covers: %d files failed", report.Failed)
	}
	return report, nil
}

// UploadDir lädt jede Datei in dir unter ihrem Dateinamen hoch.
func (u *Uploader) UploadDir(ctx context.Context, dir, contentType string) (*UploadReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &UploadReport{}, fmt.Errorf("read %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	err = RunBatch(ctx, names, u.workers,
		func(name string) string { return name },
		func(ctx context.Context, name string) error {
			return u.upload(ctx, filepath.Join(dir, name), name, contentType)
		})

	report := &UploadReport{Uploaded: len(names)}
	var be *BatchError
	if errors.As(err, &be) {
		report.Failed = be.Failed
		report.Uploaded -= be.Failed
	}
	return report, err
}

func (u *Uploader) upload(ctx context.Context, path, key, contentType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	log := u.logger.With(zap.String("key", key))
	err = u.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		if err := u.store.Put(ctx, key, data, contentType); err != nil {
			log.Warn("upload attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		metrics.Uploads.WithLabelValues("failed").Inc()
		log.Error("upload failed, skipping file", zap.Error(err))
		return &NetworkError{Op: "upload", Key: key, Err: err}
	}
	metrics.Uploads.WithLabelValues("success").Inc()
	log.Debug("uploaded")
	return nil
}
