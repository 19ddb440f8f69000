package metadata

import (
	"sync"

	"docsync/isbn"
)

// ISBNRegistry ordnet jeder normalisierten ISBN die id des ersten Dokuments zu.
// Wer zuerst registriert, gewinnt; spätere Duplikate schlagen fehl.
type ISBNRegistry struct {
	mu     sync.Mutex
	owners map[string]string
}

func NewISBNRegistry() *ISBNRegistry {
	return &ISBNRegistry{owners: make(map[string]string)}
}

// Owner liefert die id, der die ISBN gehört.
func (r *ISBNRegistry) Owner(code string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.owners[isbn.Normalize(code)]
	return id, ok
}

func (r *ISBNRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owners)
}

// Register vergibt eine einzelne ISBN. Ist sie schon vergeben, bleibt der Eintrag unverändert.
func (r *ISBNRegistry) Register(code, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := isbn.Normalize(code)
	if owner, ok := r.owners[n]; ok {
		return &DuplicateISBNError{ISBN: n, ID: id, Owner: owner}
	}
	r.owners[n] = id
	return nil
}

// Check meldet alle Kollisionen der Liste, ohne etwas zu registrieren.
func (r *ISBNRegistry) Check(id string, codes []string) []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conflicts(id, codes)
}

// Claim registriert alle ISBNs für id, aber nur wenn keine davon kollidiert.
func (r *ISBNRegistry) Claim(id string, codes []string) []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if errs := r.conflicts(id, codes); len(errs) > 0 {
		return errs
	}
	for _, c := range codes {
		r.owners[isbn.Normalize(c)] = id
	}
	return nil
}

func (r *ISBNRegistry) conflicts(id string, codes []string) []error {
	var errs []error
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		n := isbn.Normalize(c)
		if owner, ok := r.owners[n]; ok {
			errs = append(errs, &DuplicateISBNError{ISBN: n, ID: id, Owner: owner})
			continue
		}
		if seen[n] {
			errs = append(errs, &DuplicateISBNError{ISBN: n, ID: id, Owner: id})
			continue
		}
		seen[n] = true
	}
	return errs
}
