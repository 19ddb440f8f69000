package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"docsync/config"
	"docsync/metrics"
	"docsync/providers/backend"
	"docsync/providers/filelist"
	"docsync/render"
	"docsync/retry"
	"docsync/services"
	"docsync/storage"
)

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logging, err := newLogger(cfg.LogDebug)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	pipeline, err := buildPipeline(context.Background(), cfg, logging)
	if err != nil {
		logging.Fatal("Pipeline setup failed", zap.Error(err))
	}

	if cfg.CronSchedule == "" {
		code := runOnce(cfg, pipeline, logging)
		_ = logging.Sync()
		os.Exit(code)
	}
	serve(cfg, pipeline, logging)
}

func buildPipeline(ctx context.Context, cfg *config.Config, logging *zap.Logger) (*services.Pipeline, error) {
	primaryClient, err := storage.NewS3Client(ctx, cfg.S3URL, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		return nil, fmt.Errorf("primary s3 client: %w", err)
	}
	archiveClient, err := storage.NewS3Client(ctx, cfg.R2URL, cfg.R2Region, cfg.R2AccessKey, cfg.R2SecretKey)
	if err != nil {
		return nil, fmt.Errorf("archive s3 client: %w", err)
	}
	primary := storage.NewBucket(primaryClient, cfg.S3Bucket, logging)
	archive := storage.NewBucket(archiveClient, cfg.R2Bucket, logging)

	scratch := services.Scratch{Root: cfg.ScratchDir}
	covers := services.NewCoverService(
		primary,
		render.NewPDFRenderer(cfg.CoverWidth, cfg.CoverMaxHeight),
		filelist.NewClient(cfg.FilelistURL),
		services.ChaiWebP{},
		scratch,
		services.CoverOptions{
			JPEGQuality: cfg.JPEGQuality,
			WebPBudget:  cfg.WebPBudget,
			WebPTarget:  cfg.WebPTarget,
			Workers:     cfg.Workers,
			ZipStrict:   cfg.ZipPreviewStrict,
		},
		logging,
	)
	uploader := services.NewUploader(primary, retry.Policy{Attempts: cfg.UploadAttempts, Backoff: cfg.UploadBackoff}, cfg.Workers, logging)
	gate := services.NewPublishGate(backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendRPS, logging), logging)

	return &services.Pipeline{
		Dir:             cfg.Dir,
		Domain:          cfg.Domain,
		Inventory:       primary,
		StrictInventory: cfg.InventoryStrict,
		Scratch:         scratch,
		Covers:          covers,
		Uploader:        uploader,
		Gate:            gate,
		Archiver:        services.NewArchiver(archive, cfg.CatalogKey, cfg.KeepSnapshots, logging),
		Logger:          logging,
	}, nil
}

// runOnce führt einen Lauf aus und liefert den Exit-Code.
func runOnce(cfg *config.Config, pipeline *services.Pipeline, logging *zap.Logger) int {
	sum, err := pipeline.Run(context.Background())
	fmt.Println(sum.String())

	if cfg.PushgatewayURL != "" {
		if perr := metrics.Push(cfg.PushgatewayURL, "docsync"); perr != nil {
			logging.Warn("Pushing metrics failed", zap.Error(perr))
		}
	}
	if err != nil {
		logging.Error("Run failed", zap.Error(err))
		return 1
	}
	return 0
}

// runState hält das Ergebnis des letzten geplanten Laufs für /healthz.
type runState struct {
	mu       sync.Mutex
	lastRun  time.Time
	lastErr  error
	finished bool
}

func (s *runState) set(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.finished = true
}

func (s *runState) snapshot() gin.H {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := gin.H{"status": "ok"}
	if !s.finished {
		return h
	}
	h["last_run"] = s.lastRun.UTC().Format(time.RFC3339)
	if s.lastErr != nil {
		h["status"] = "degraded"
		h["last_error"] = s.lastErr.Error()
	}
	return h
}

// cronLogger leitet die Meldungen des Schedulers an zap weiter.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

func newRouter(state *runState) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, state.snapshot())
	})
	return router
}

func serve(cfg *config.Config, pipeline *services.Pipeline, logging *zap.Logger) {
	state := &runState{}
	clog := cronLogger{log: logging.Sugar()}

	cronScheduler := cron.New(cron.WithLogger(clog), cron.WithChain(cron.SkipIfStillRunning(clog)))
	_, err := cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled sync")
		sum, err := pipeline.Run(context.Background())
		state.set(err)
		if err != nil {
			logging.Error("Scheduled sync failed", zap.Error(err))
			return
		}
		logging.Info("Scheduled sync completed", zap.String("summary", sum.String()))
	})
	if err != nil {
		logging.Fatal("Invalid cron schedule", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	router := newRouter(state)
	logging.Info("Starting server", zap.String("port", cfg.HTTPPort), zap.String("schedule", cfg.CronSchedule))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}
