package metadata

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"docsync/models"
)

// FileFailure hält den Fehler einer abgelehnten Datei fest.
type FileFailure struct {
	File string
	Err  error
}

// Report fasst einen Prüflauf über ein Verzeichnis zusammen.
type Report struct {
	Total    int
	Valid    []*models.DocumentRecord
	Failures []FileFailure
	Counts   map[models.DocType]int
}

func (r *Report) Success() int { return len(r.Valid) }

// Summary im Format "Total: N, Success: S, Book: b, Test: t, Doc: d".
func (r *Report) Summary() string {
	return fmt.Sprintf("Total: %d, Success: %d, Book: %d, Test: %d, Doc: %d",
		r.Total, r.Success(), r.Counts[models.TypeBook], r.Counts[models.TypeTest], r.Counts[models.TypeDoc])
}

// Err ist nil, wenn alle Dateien gültig sind.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d metadata files are invalid", len(r.Failures), r.Total)
}

// IDs liefert die ids aller gültigen Datensätze.
func (r *Report) IDs() []string {
	ids := make([]string, 0, len(r.Valid))
	for _, rec := range r.Valid {
		ids = append(ids, rec.ID)
	}
	return ids
}

// Reject verschiebt einen gültigen Datensatz nachträglich zu den Fehlschlägen,
// etwa nach einer fehlgeschlagenen Inhaltsprüfung. Unbekannte ids werden ignoriert.
func (r *Report) Reject(id string, err error) {
	for i, rec := range r.Valid {
		if rec.ID != id {
			continue
		}
		r.Valid = append(r.Valid[:i], r.Valid[i+1:]...)
		r.Counts[rec.Type]--
		r.Failures = append(r.Failures, FileFailure{File: id + ".yml", Err: err})
		return
	}
}

// CheckFile parst und prüft eine einzelne Datei.
func (v *Validator) CheckFile(path string) (*models.DocumentRecord, error) {
	rec, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(rec, filepath.Base(path)); err != nil {
		return nil, err
	}
	return rec, nil
}

// CheckDir prüft alle *.yml-Dateien in lexikalischer Reihenfolge. Der Fehler ist nur
// dann gesetzt, wenn das Verzeichnis selbst nicht lesbar ist.
func (v *Validator) CheckDir(dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read metadata dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	report := &Report{Counts: make(map[models.DocType]int)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yml") {
			continue
		}
		report.Total++
		rec, err := v.CheckFile(filepath.Join(dir, e.Name()))
		if err != nil {
			v.logger.Warn("metadata file rejected", zap.String("file", e.Name()), zap.Error(err))
			report.Failures = append(report.Failures, FileFailure{File: e.Name(), Err: err})
			continue
		}
		report.Valid = append(report.Valid, rec)
		report.Counts[rec.Type]++
	}
	v.logger.Info("metadata checked", zap.Int("total", report.Total), zap.Int("success", report.Success()))
	return report, nil
}

// ContentHash ist der md5-Hash des Inhalts in Kleinbuchstaben-Hex.
func ContentHash(body []byte) string {
	sum := md5.Sum(body)
	return hex.EncodeToString(sum[:])
}

// VerifyContent prüft, dass der Inhalt zum Hash in id passt.
func VerifyContent(id string, body []byte) error {
	if got := ContentHash(body); !strings.EqualFold(got, id) {
		return &ConsistencyError{
			Kind:    MismatchHash,
			Message: fmt.Sprintf("content hash %s does not match id %s", got, id),
		}
	}
	return nil
}
