package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"docsync/metadata"
	"docsync/metrics"
	"docsync/models"
)

// IntegrityError: der md5 der heruntergeladenen Datei passt nicht zur id.
type IntegrityError struct {
	ID  string
	Got string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %s: content hash is %s", e.ID, e.Got)
}

// NetworkError umhüllt Fehler von Speicher, Backend oder Vorschaudienst.
type NetworkError struct {
	Op  string
	Key string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// ErrPreviewSkipped markiert eine Zip-Datei, deren Vorschau übersprungen wurde.
var ErrPreviewSkipped = errors.New("zip preview skipped")

type ObjectGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// PageRenderer rendert die erste Seite eines PDFs.
type PageRenderer interface {
	FirstPage(data []byte) (image.Image, error)
}

// PreviewRenderer rendert ein Vorschaubild aus einem Zip-Dateibaum.
type PreviewRenderer interface {
	Preview(ctx context.Context, files []*models.FileNode) (image.Image, error)
}

// Scratch verwaltet die Arbeitsverzeichnisse raw/, jpg/ und webp/ unter Root.
type Scratch struct {
	Root string
}

func (s Scratch) Raw() string  { return filepath.Join(s.Root, "raw") }
func (s Scratch) JPG() string  { return filepath.Join(s.Root, "jpg") }
func (s Scratch) WebP() string { return filepath.Join(s.Root, "webp") }

// Reset löscht die Arbeitsverzeichnisse und legt sie leer neu an.
func (s Scratch) Reset() error {
	for _, dir := range []string{s.Raw(), s.JPG(), s.WebP()} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clear scratch dir %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create scratch dir %s: %w", dir, err)
		}
	}
	return nil
}

type CoverOptions struct {
	JPEGQuality int
	WebPBudget  int
	WebPTarget  int
	Workers     int
	// ZipStrict lässt fehlgeschlagene Zip-Vorschauen die Stufe scheitern, statt sie zu überspringen.
	ZipStrict bool
}

// CoverReport zählt die Ergebnisse eines Generate-Laufs.
type CoverReport struct {
	Attempted int
	Rendered  int
	Skipped   []string
}

// CoverService lädt Rohdateien, prüft sie und erzeugt JPEG- und WebP-Cover im Scratch-Verzeichnis.
type CoverService struct {
	store   ObjectGetter
	pdf     PageRenderer
	zip     PreviewRenderer
	webp    WebPEncoder
	scratch Scratch
	opts    CoverOptions
	logger  *zap.Logger
}

func NewCoverService(store ObjectGetter, pdf PageRenderer, zip PreviewRenderer, webp WebPEncoder,
	scratch Scratch, opts CoverOptions, logger *zap.Logger) *CoverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoverService{
		store:   store,
		pdf:     pdf,
		zip:     zip,
		webp:    webp,
		scratch: scratch,
		opts:    opts,
		logger:  logger,
	}
}

// Generate erzeugt die fehlenden Cover für alle Anforderungen. Ob eine id als PDF oder
// Zip vorliegt, entscheidet das Inventar. Alle Dateien werden versucht, bevor ein
// *BatchError gemeldet wird.
func (s *CoverService) Generate(ctx context.Context, reqs []models.ArtifactRequirement, inv *models.Inventory) (*CoverReport, error) {
	report := &CoverReport{Attempted: len(reqs)}
	skipped := make([]bool, len(reqs))
	index := make(map[string]int, len(reqs))
	for i, r := range reqs {
		index[r.ID] = i
	}

	err := RunBatch(ctx, reqs, s.opts.Workers,
		func(r models.ArtifactRequirement) string { return r.ID },
		func(ctx context.Context, r models.ArtifactRequirement) error {
			err := s.generateOne(ctx, r, inv)
			if errors.Is(err, ErrPreviewSkipped) {
				skipped[index[r.ID]] = true
				return nil
			}
			return err
		})

	for i, r := range reqs {
		if skipped[i] {
			report.Skipped = append(report.Skipped, r.ID)
		}
	}
	report.Rendered = report.Attempted - len(report.Skipped)
	var batchErr *BatchError
	if errors.As(err, &batchErr) {
		report.Rendered -= batchErr.Failed
	}
	s.logger.Info("covers generated",
		zap.Int("attempted", report.Attempted),
		zap.Int("rendered", report.Rendered),
		zap.Int("skipped", len(report.Skipped)))
	return report, err
}

func (s *CoverService) generateOne(ctx context.Context, req models.ArtifactRequirement, inv *models.Inventory) error {
	log := s.logger.With(zap.String("id", req.ID))

	key, source := req.ID+".pdf", "pdf"
	if !inv.Has(key) {
		key, source = req.ID+".zip", "zip"
	}

	data, err := s.download(ctx, req.ID, key)
	if err != nil {
		log.Error("download failed", zap.String("key", key), zap.Error(err))
		return err
	}

	var img image.Image
	switch source {
	case "pdf":
		img, err = s.pdf.FirstPage(data)
		if err != nil {
			log.Error("pdf render failed", zap.Error(err))
			return fmt.Errorf("render %s: %w", key, err)
		}
	case "zip":
		img, err = s.renderZip(ctx, key, data)
		if err != nil {
			if !s.opts.ZipStrict {
				log.Warn("zip preview skipped", zap.Error(err))
				return fmt.Errorf("%w: %v", ErrPreviewSkipped, err)
			}
			log.Error("zip preview failed", zap.Error(err))
			return err
		}
	}
	return s.writeCovers(req, source, img)
}

// download holt die Rohdatei, legt sie unter raw/ ab und prüft den Inhaltshash.
func (s *CoverService) download(ctx context.Context, id, key string) ([]byte, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, &NetworkError{Op: "download", Key: key, Err: err}
	}
	path := filepath.Join(s.scratch.Raw(), key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := metadata.VerifyContent(id, data); err != nil {
		_ = os.Remove(path)
		return nil, &IntegrityError{ID: id, Got: metadata.ContentHash(data)}
	}
	return data, nil
}

func (s *CoverService) renderZip(ctx context.Context, key string, data []byte) (image.Image, error) {
	tree, err := BuildTree(data)
	if err != nil {
		return nil, err
	}
	img, err := s.zip.Preview(ctx, tree)
	if err != nil {
		return nil, &NetworkError{Op: "preview", Key: key, Err: err}
	}
	return img, nil
}

func (s *CoverService) writeCovers(req models.ArtifactRequirement, source string, img image.Image) error {
	if req.NeedsJPG {
		data, err := EncodeJPEG(img, s.opts.JPEGQuality)
		if err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
		if err := os.WriteFile(filepath.Join(s.scratch.JPG(), req.ID+".jpg"), data, 0o644); err != nil {
			return err
		}
		metrics.CoversGenerated.WithLabelValues("jpg", source).Inc()
	}
	if req.NeedsWebP {
		data, q, err := EncodeWithinBudget(s.webp, img, s.opts.WebPBudget, s.opts.WebPTarget)
		if err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
		if err := os.WriteFile(filepath.Join(s.scratch.WebP(), req.ID+".webp"), data, 0o644); err != nil {
			return err
		}
		s.logger.Debug("webp encoded", zap.String("id", req.ID), zap.Float32("quality", q), zap.Int("bytes", len(data)))
		metrics.CoversGenerated.WithLabelValues("webp", source).Inc()
	}
	return nil
}
