package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	// Verzeichnis mit den Metadaten-Dateien ({id}.yml)
	Dir    string `envconfig:"DIR" required:"true"`
	Domain string `envconfig:"DOMAIN" default:"byrdocs.org"`

	// Primärer Objektspeicher (Rohdateien und Cover)
	S3URL       string `envconfig:"S3_URL" required:"true"`
	S3Region    string `envconfig:"S3_REGION" default:"apac"`
	S3AccessKey string `envconfig:"ACCESS_KEY_ID" required:"true"`
	S3SecretKey string `envconfig:"SECRET_ACCESS_KEY" required:"true"`
	S3Bucket    string `envconfig:"BUCKET" required:"true"`

	// Sekundärer Archivspeicher für den Katalog
	R2URL       string `envconfig:"R2_URL" required:"true"`
	R2Region    string `envconfig:"R2_REGION" default:"auto"`
	R2AccessKey string `envconfig:"R2_ACCESS_KEY_ID" required:"true"`
	R2SecretKey string `envconfig:"R2_SECRET_ACCESS_KEY" required:"true"`
	R2Bucket    string `envconfig:"R2_BUCKET" required:"true"`

	BackendURL   string  `envconfig:"BACKEND_URL" required:"true"`
	BackendToken string  `envconfig:"BACKEND_TOKEN" required:"true"`
	BackendRPS   float64 `envconfig:"BACKEND_RPS" default:"5"`

	// Dienst, der aus einem Dateibaum ein Vorschaubild rendert
	FilelistURL string `envconfig:"FILELIST_URL" required:"true"`

	ScratchDir string `envconfig:"SCRATCH_DIR" default:"./scratch"`
	Workers    int    `envconfig:"WORKERS" default:"1"`

	UploadAttempts int           `envconfig:"UPLOAD_ATTEMPTS" default:"3"`
	UploadBackoff  time.Duration `envconfig:"UPLOAD_BACKOFF" default:"0s"`

	InventoryStrict  bool `envconfig:"INVENTORY_STRICT" default:"false"`
	ZipPreviewStrict bool `envconfig:"ZIP_PREVIEW_STRICT" default:"false"`

	CoverWidth     int `envconfig:"COVER_WIDTH" default:"2000"`
	CoverMaxHeight int `envconfig:"COVER_MAX_HEIGHT" default:"2000"`
	JPEGQuality    int `envconfig:"JPEG_QUALITY" default:"85"`
	WebPBudget     int `envconfig:"WEBP_BUDGET" default:"51200"`
	WebPTarget     int `envconfig:"WEBP_TARGET" default:"49152"`

	CatalogKey    string `envconfig:"CATALOG_KEY" default:"metadata2.json"`
	KeepSnapshots int    `envconfig:"KEEP_SNAPSHOTS" default:"7"`

	// Leer = einmaliger Lauf; sonst Cron-Modus mit /metrics
	CronSchedule   string `envconfig:"CRON_SCHEDULE"`
	HTTPPort       string `envconfig:"HTTP_PORT" default:"4242"`
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL"`

	LogDebug bool `envconfig:"LOG_DEBUG" default:"false"`
}

// Validate prüft Wertebereiche, die envconfig nicht abdeckt.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be >= 1, got %d", c.Workers)
	}
	if c.UploadAttempts < 1 {
		return fmt.Errorf("UPLOAD_ATTEMPTS must be >= 1, got %d", c.UploadAttempts)
	}
	if c.UploadBackoff < 0 {
		return fmt.Errorf("UPLOAD_BACKOFF must not be negative")
	}
	if c.CoverWidth <= 0 || c.CoverMaxHeight <= 0 {
		return fmt.Errorf("cover dimensions must be positive")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be within 1..100, got %d", c.JPEGQuality)
	}
	if c.WebPTarget <= 0 || c.WebPBudget < c.WebPTarget {
		return fmt.Errorf("WEBP_TARGET must be positive and not exceed WEBP_BUDGET")
	}
	if c.KeepSnapshots < 0 {
		return fmt.Errorf("KEEP_SNAPSHOTS must not be negative")
	}
	return nil
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// CheckConfig ist die reduzierte Konfiguration für cmd/check im Remote-Modus.
type CheckConfig struct {
	Domain       string  `envconfig:"DOMAIN" default:"byrdocs.org"`
	S3URL        string  `envconfig:"S3_URL" required:"true"`
	S3Region     string  `envconfig:"S3_REGION" default:"apac"`
	S3AccessKey  string  `envconfig:"ACCESS_KEY_ID" required:"true"`
	S3SecretKey  string  `envconfig:"SECRET_ACCESS_KEY" required:"true"`
	S3Bucket     string  `envconfig:"BUCKET" required:"true"`
	BackendURL   string  `envconfig:"BACKEND_URL" required:"true"`
	BackendToken string  `envconfig:"BACKEND_TOKEN" required:"true"`
	BackendRPS   float64 `envconfig:"BACKEND_RPS" default:"5"`
}

// LoadCheck lädt die Remote-Konfiguration für cmd/check.
func LoadCheck() (*CheckConfig, error) {
	_ = godotenv.Load()
	var c CheckConfig
	err := envconfig.Process("", &c)
	return &c, err
}
