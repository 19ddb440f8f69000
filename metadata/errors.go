package metadata

import (
	"errors"
	"fmt"
)

// ErrDuplicateISBN ist über errors.Is erreichbar, wenn eine ISBN bereits vergeben ist.
var ErrDuplicateISBN = errors.New("duplicate ISBN")

// ParseError: Datei nicht lesbar, kein gültiges YAML oder Pflichtfeld fehlt.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError ist eine einzelne Regelverletzung. Err ist optional die Ursache.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// Arten von Konsistenzfehlern.
const (
	MismatchFilename = "filename"
	MismatchID       = "id"
	MismatchURL      = "url"
	MismatchObject   = "object"
	MismatchHash     = "hash"
)

// ConsistencyError: URL, Dateiname, id, Objekt oder Inhaltshash passen nicht zusammen.
type ConsistencyError struct {
	Kind    string
	Message string
}

func (e *ConsistencyError) Error() string { return e.Message }

// DuplicateISBNError meldet eine ISBN, die bereits einem anderen Dokument gehört.
type DuplicateISBNError struct {
	ISBN  string
	ID    string
	Owner string
}

func (e *DuplicateISBNError) Error() string {
	return fmt.Sprintf("duplicate ISBN %s in %s: already used by %s", e.ISBN, e.ID, e.Owner)
}

func (e *DuplicateISBNError) Is(target error) bool { return target == ErrDuplicateISBN }
