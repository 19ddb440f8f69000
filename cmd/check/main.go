// check prüft ein Verzeichnis mit Metadaten-Dateien. Mit --remote werden zusätzlich
// das Objekt im Speicher und der Inhaltshash unveröffentlichter Uploads geprüft.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"docsync/config"
	"docsync/metadata"
	"docsync/models"
	"docsync/providers/backend"
	"docsync/storage"
)

type options struct {
	dir    string
	domain string
	remote bool
	debug  bool
}

func parseFlags(args []string) (*options, error) {
	fs := pflag.NewFlagSet("check", pflag.ContinueOnError)
	opts := &options{}
	fs.StringVarP(&opts.dir, "dir", "d", "", "directory containing {id}.yml metadata files")
	fs.StringVar(&opts.domain, "domain", "", "content domain (default from DOMAIN or byrdocs.org)")
	fs.BoolVar(&opts.remote, "remote", false, "also check object storage and pending upload hashes")
	fs.BoolVar(&opts.debug, "debug", false, "development logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.dir == "" {
		return nil, fmt.Errorf("--dir is required")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logging, err := zap.NewProduction()
	if opts.debug {
		logging, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}

	code := run(context.Background(), opts, logging, os.Stdout)
	_ = logging.Sync()
	os.Exit(code)
}

func run(ctx context.Context, opts *options, logging *zap.Logger, out io.Writer) int {
	var remote *remoteCheck
	domain := opts.domain
	if opts.remote {
		cfg, err := config.LoadCheck()
		if err != nil {
			logging.Error("Config load error", zap.Error(err))
			return 2
		}
		if domain == "" {
			domain = cfg.Domain
		}
		remote, err = newRemoteCheck(ctx, cfg, logging)
		if err != nil {
			logging.Error("Remote setup failed", zap.Error(err))
			return 2
		}
	}
	if domain == "" {
		domain = "byrdocs.org"
	}

	var validatorOpts []metadata.Option
	validatorOpts = append(validatorOpts, metadata.WithLogger(logging))
	if remote != nil {
		validatorOpts = append(validatorOpts, metadata.WithInventory(remote.inventory))
	}
	v := metadata.NewValidator(metadata.NewISBNRegistry(), domain, validatorOpts...)

	report, err := v.CheckDir(opts.dir)
	if err != nil {
		logging.Error("Check failed", zap.Error(err))
		return 2
	}
	if remote != nil {
		remote.apply(ctx, report)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(out, "%s: %v\n", f.File, f.Err)
	}
	fmt.Fprintln(out, report.Summary())
	if report.Err() != nil {
		return 1
	}
	return 0
}

// remoteCheck prüft gültige Datensätze gegen Speicher und Backend.
type remoteCheck struct {
	bucket    *storage.Bucket
	inventory *models.Inventory
	pending   []models.PendingFile
	logger    *zap.Logger
}

type pendingSource interface {
	NotPublished(ctx context.Context) ([]models.PendingFile, error)
}

func newRemoteCheck(ctx context.Context, cfg *config.CheckConfig, logging *zap.Logger) (*remoteCheck, error) {
	client, err := storage.NewS3Client(ctx, cfg.S3URL, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		return nil, err
	}
	return loadRemote(ctx, storage.NewBucket(client, cfg.S3Bucket, logging),
		backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendRPS, logging), logging)
}

func loadRemote(ctx context.Context, bucket *storage.Bucket, src pendingSource, logging *zap.Logger) (*remoteCheck, error) {
	res, err := bucket.List(ctx, "", true)
	if err != nil {
		return nil, err
	}
	pending, err := src.NotPublished(ctx)
	if err != nil {
		return nil, err
	}
	return &remoteCheck{
		bucket:    bucket,
		inventory: models.NewInventory(res.Objects),
		pending:   pending,
		logger:    logging,
	}, nil
}

// apply verschiebt Datensätze mit fehlgeschlagener Inhaltsprüfung zu den Fehlschlägen.
func (r *remoteCheck) apply(ctx context.Context, report *metadata.Report) {
	errs := r.verify(ctx, report.Valid)
	ids := make([]string, 0, len(errs))
	for id := range errs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		report.Reject(id, errs[id])
	}
}

// verify lädt für jeden unveröffentlichten Upload eines gültigen Datensatzes die Datei
// und vergleicht ihren md5 mit der id. Der Schlüssel der Ergebnisse ist die id.
func (r *remoteCheck) verify(ctx context.Context, records []*models.DocumentRecord) map[string]error {
	byName := make(map[string]models.PendingFile, len(r.pending))
	for _, p := range r.pending {
		byName[p.FileName] = p
	}

	errs := make(map[string]error)
	for _, rec := range records {
		for _, ext := range []string{".pdf", ".zip"} {
			key := rec.ID + ext
			p, ok := byName[key]
			if !ok {
				continue
			}
			if p.Status == models.StatusPublished {
				r.logger.Info("already published", zap.String("key", key))
				break
			}
			data, err := r.bucket.Get(ctx, key)
			if err != nil {
				errs[rec.ID] = err
				break
			}
			if err := metadata.VerifyContent(rec.ID, data); err != nil {
				errs[rec.ID] = err
			}
			break
		}
	}
	return errs
}
