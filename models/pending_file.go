package models

import (
	"encoding/json"
	"fmt"
)

// FileStatus ist der Status einer Datei im Backend.
type FileStatus string

const (
	StatusPublished FileStatus = "Published"
	StatusPending   FileStatus = "Pending"
	StatusTimeout   FileStatus = "Timeout"
	StatusExpired   FileStatus = "Expired"
	StatusError     FileStatus = "Error"
	StatusUploaded  FileStatus = "Uploaded"
)

// UnmarshalJSON lehnt unbekannte Statuswerte ab.
func (s *FileStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch FileStatus(raw) {
	case StatusPublished, StatusPending, StatusTimeout, StatusExpired, StatusError, StatusUploaded:
		*s = FileStatus(raw)
		return nil
	}
	return fmt.Errorf("unknown file status %q", raw)
}

// PendingFile ist ein vom Backend verfolgter, noch nicht veröffentlichter Upload.
type PendingFile struct {
	ID           uint64     `json:"id"`
	CreatedAt    string     `json:"createdAt"`
	FileName     string     `json:"fileName"`
	FileSize     *int64     `json:"fileSize"`
	Uploader     string     `json:"uploader"`
	UploadTime   *string    `json:"uploadTime"`
	Status       FileStatus `json:"status"`
	ErrorMessage *string    `json:"errorMessage"`
}

// ContentID gibt die ersten 32 Zeichen des Dateinamens zurück, oder "" bei kürzeren Namen.
func (p PendingFile) ContentID() string {
	if len(p.FileName) < 32 {
		return ""
	}
	return p.FileName[:32]
}
