package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"docsync/metadata"
	"docsync/metrics"
	"docsync/models"
	"docsync/storage"
)

// Lister listet die Objekte eines Buckets.
type Lister interface {
	List(ctx context.Context, prefix string, strict bool) (*storage.ListResult, error)
}

// StageError: eine Stufe ist gescheitert, alle folgenden wurden nicht ausgeführt.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// Summary fasst einen Lauf zusammen.
type Summary struct {
	Metadata     *metadata.Report
	Objects      int
	Partial      bool
	Covers       *CoverReport
	Uploads      *UploadReport
	Published    int
	CatalogBytes int
}

func (s *Summary) String() string {
	out := ""
	if s.Metadata != nil {
		out = s.Metadata.Summary()
	}
	out += fmt.Sprintf(", Objects: %d", s.Objects)
	if s.Covers != nil {
		out += fmt.Sprintf(", Covers: %d/%d (skipped %d)", s.Covers.Rendered, s.Covers.Attempted, len(s.Covers.Skipped))
	}
	if s.Uploads != nil {
		out += fmt.Sprintf(", Uploaded: %d, Upload failures: %d", s.Uploads.Uploaded, s.Uploads.Failed)
	}
	out += fmt.Sprintf(", Published: %d, Catalog bytes: %d", s.Published, s.CatalogBytes)
	return out
}

// Pipeline verbindet die Stufen eines Laufs. Jede Stufe läuft vollständig, bevor die
// nächste beginnt; eine gescheiterte Stufe beendet den Lauf.
type Pipeline struct {
	Dir             string
	Domain          string
	Inventory       Lister
	StrictInventory bool
	Scratch         Scratch
	Covers          *CoverService
	Uploader        *Uploader
	Gate            *PublishGate
	Archiver        *Archiver
	Logger          *zap.Logger
}

// CatalogFile ist der Dateiname des Katalogs im Scratch-Verzeichnis.
const CatalogFile = "catalog.json"

func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	sum := &Summary{}

	if err := p.stage("scratch", p.Scratch.Reset); err != nil {
		return sum, err
	}

	var inv *models.Inventory
	err := p.stage("inventory", func() error {
		res, err := p.Inventory.List(ctx, "", p.StrictInventory)
		if res != nil {
			sum.Objects = len(res.Objects)
			sum.Partial = res.Partial
		}
		if err != nil {
			return &NetworkError{Op: "list", Key: "inventory", Err: err}
		}
		inv = models.NewInventory(res.Objects)
		return nil
	})
	if err != nil {
		return sum, err
	}

	err = p.stage("validate", func() error {
		opts := []metadata.Option{metadata.WithLogger(p.Logger)}
		if sum.Partial {
			p.Logger.Warn("inventory is partial, skipping object presence checks")
		} else {
			opts = append(opts, metadata.WithInventory(inv))
		}
		v := metadata.NewValidator(metadata.NewISBNRegistry(), p.Domain, opts...)
		report, err := v.CheckDir(p.Dir)
		if err != nil {
			return err
		}
		sum.Metadata = report
		for _, rec := range report.Valid {
			metrics.DocumentsChecked.WithLabelValues(string(rec.Type), "success").Inc()
		}
		metrics.DocumentsChecked.WithLabelValues("unknown", "failed").Add(float64(len(report.Failures)))
		return report.Err()
	})
	if err != nil {
		return sum, err
	}

	var publishIDs []uint64
	var pending []models.PendingFile
	err = p.stage("reconcile", func() error {
		files, err := p.Gate.Pending(ctx)
		if err != nil {
			return err
		}
		publishIDs, pending = p.Gate.Resolve(sum.Metadata.IDs(), files)
		return nil
	})
	if err != nil {
		return sum, err
	}

	reqs := Requirements(inv, pending)
	p.Logger.Info("covers missing", zap.Int("count", len(reqs)))

	err = p.stage("covers", func() error {
		report, err := p.Covers.Generate(ctx, reqs, inv)
		sum.Covers = report
		return err
	})
	if err != nil {
		return sum, err
	}

	err = p.stage("upload", func() error {
		report, err := p.Uploader.UploadCovers(ctx, p.Scratch)
		sum.Uploads = report
		return err
	})
	if err != nil {
		return sum, err
	}

	err = p.stage("publish", func() error {
		if err := p.Gate.Publish(ctx, publishIDs); err != nil {
			return err
		}
		sum.Published = len(publishIDs)
		return nil
	})
	if err != nil {
		return sum, err
	}

	err = p.stage("catalog", func() error {
		data, err := MergeCatalog(sum.Metadata.Valid, inv, p.Logger)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(p.Scratch.Root, CatalogFile), data, 0o644); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
		sum.CatalogBytes = len(data)
		return p.Archiver.Archive(ctx, data)
	})
	if err != nil {
		return sum, err
	}

	p.Logger.Info("run finished", zap.String("summary", sum.String()))
	return sum, nil
}

func (p *Pipeline) stage(name string, fn func() error) error {
	log := p.Logger.With(zap.String("stage", name))
	start := time.Now()
	log.Info("stage started")
	if err := fn(); err != nil {
		metrics.StageFailures.WithLabelValues(name).Inc()
		log.Error("stage failed", zap.Duration("took", time.Since(start)), zap.Error(err))
		return &StageError{Stage: name, Err: err}
	}
	log.Info("stage finished", zap.Duration("took", time.Since(start)))
	return nil
}
