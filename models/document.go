package models

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// DocType ist der Diskriminator einer Metadaten-Datei.
type DocType string

const (
	TypeTest DocType = "test"
	TypeBook DocType = "book"
	TypeDoc  DocType = "doc"
)

var contentIDRegex = regexp.MustCompile(`^[a-fA-F0-9]{32}$`)

// IsContentID meldet, ob s ein 32-stelliger Hex-Inhaltshash ist.
func IsContentID(s string) bool {
	return contentIDRegex.MatchString(s)
}

// Course beschreibt eine Lehrveranstaltung.
type Course struct {
	Type string `json:"type,omitempty" validate:"omitempty,oneof=undergraduate graduate"`
	Name string `json:"name" validate:"required"`
}

// TimeRange ist der Zeitraum einer Prüfung. Start und End sind Jahreszahlen als Text.
type TimeRange struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Semester string `json:"semester,omitempty" validate:"omitempty,oneof=first second"`
	Stage    string `json:"stage,omitempty" validate:"omitempty,oneof=midterm final"`
}

// Test ist die Nutzlast einer Prüfungs-Datei.
type Test struct {
	Title    string    `json:"title" validate:"required"`
	College  []string  `json:"college,omitempty" validate:"omitempty,dive,required"`
	Course   Course    `json:"course"`
	Time     TimeRange `json:"time"`
	Filetype string    `json:"filetype" validate:"oneof=pdf zip"`
	Content  []string  `json:"content" validate:"min=1,dive,oneof=original-question answer"`
	Filesize *int64    `json:"filesize,omitempty" validate:"-"`
}

// Book ist die Nutzlast eines Buches.
type Book struct {
	Title       string   `json:"title" validate:"required"`
	Authors     []string `json:"authors" validate:"min=1"`
	Translators []string `json:"translators,omitempty"`
	Edition     string   `json:"edition,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	PublishYear string   `json:"publish_year,omitempty" validate:"omitempty,year"`
	ISBN        []string `json:"isbn" validate:"dive,isbn13"`
	Filetype    string   `json:"filetype" validate:"eq=pdf"`
	Filesize    *int64   `json:"filesize,omitempty" validate:"-"`
}

// Doc ist die Nutzlast sonstiger Lernmaterialien.
type Doc struct {
	Title    string   `json:"title" validate:"required"`
	Filetype string   `json:"filetype" validate:"oneof=pdf zip"`
	Course   []Course `json:"course" validate:"min=1,dive"`
	Content  []string `json:"content" validate:"min=1,dive,oneof=mind-map question-bank answer key-points slides"`
	Filesize *int64   `json:"filesize,omitempty" validate:"-"`
}

// DocumentRecord ist eine geparste Metadaten-Datei. Genau eine der Nutzlasten
// Test, Book oder Doc ist gesetzt, passend zu Type.
type DocumentRecord struct {
	ID   string
	URL  string
	Type DocType

	Test *Test
	Book *Book
	Doc  *Doc
}

// Payload gibt die aktive Nutzlast zurück.
func (r *DocumentRecord) Payload() any {
	switch {
	case r.Type == TypeTest && r.Test != nil:
		return r.Test
	case r.Type == TypeBook && r.Book != nil:
		return r.Book
	case r.Type == TypeDoc && r.Doc != nil:
		return r.Doc
	}
	return nil
}

// Filesize liefert die Dateigröße, sofern sie beim Katalog-Merge gesetzt wurde.
func (r *DocumentRecord) Filesize() *int64 {
	switch {
	case r.Test != nil:
		return r.Test.Filesize
	case r.Book != nil:
		return r.Book.Filesize
	case r.Doc != nil:
		return r.Doc.Filesize
	}
	return nil
}

// SetFilesize setzt die Dateigröße auf der aktiven Nutzlast.
func (r *DocumentRecord) SetFilesize(size *int64) {
	switch {
	case r.Test != nil:
		r.Test.Filesize = size
	case r.Book != nil:
		r.Book.Filesize = size
	case r.Doc != nil:
		r.Doc.Filesize = size
	}
}

// Filetype liefert den deklarierten Dateityp der Nutzlast.
func (r *DocumentRecord) Filetype() string {
	switch {
	case r.Test != nil:
		return r.Test.Filetype
	case r.Book != nil:
		return r.Book.Filetype
	case r.Doc != nil:
		return r.Doc.Filetype
	}
	return ""
}

type documentJSON struct {
	ID   string  `json:"id"`
	URL  string  `json:"url"`
	Type DocType `json:"type"`
	Data any     `json:"data"`
}

// MarshalJSON schreibt das Katalogformat {id, url, type, data}.
func (r DocumentRecord) MarshalJSON() ([]byte, error) {
	data := r.Payload()
	if data == nil {
		return nil, fmt.Errorf("document %s has no payload for type %q", r.ID, r.Type)
	}
	return json.Marshal(documentJSON{ID: r.ID, URL: r.URL, Type: r.Type, Data: data})
}
