package metadata

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"docsync/isbn"
	"docsync/models"
)

var yearRegex = regexp.MustCompile(`^\d{4}$`)

// Validator prüft geparste Metadaten gegen Feldregeln, Konsistenz und ISBN-Eindeutigkeit.
type Validator struct {
	validate  *validator.Validate
	registry  *ISBNRegistry
	urlRegex  *regexp.Regexp
	inventory *models.Inventory
	logger    *zap.Logger
}

type Option func(*Validator)

// WithInventory aktiviert die Prüfung, ob das referenzierte Objekt im Speicher liegt.
func WithInventory(inv *models.Inventory) Option {
	return func(v *Validator) { v.inventory = inv }
}

func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

func NewValidator(registry *ISBNRegistry, domain string, opts ...Option) *Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Fehler bei der Registrierung wären Programmierfehler.
	_ = validate.RegisterValidation("year", func(fl validator.FieldLevel) bool {
		return yearRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("isbn13", func(fl validator.FieldLevel) bool {
		return isbn.Valid(fl.Field().String())
	})
	validate.RegisterStructValidation(timeRangeRule, models.TimeRange{})

	v := &Validator{
		validate: validate,
		registry: registry,
		urlRegex: regexp.MustCompile(`^https://` + regexp.QuoteMeta(domain) + `/files/[a-fA-F0-9]{32}\.(pdf|zip)$`),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Start und End müssen Ganzzahlen sein, End gleich Start oder Start+1.
func timeRangeRule(sl validator.StructLevel) {
	tr := sl.Current().Interface().(models.TimeRange)
	start, errStart := strconv.ParseUint(tr.Start, 10, 32)
	end, errEnd := strconv.ParseUint(tr.End, 10, 32)
	if errStart != nil || errEnd != nil {
		sl.ReportError(tr, "time", "Time", "timeformat", "")
		return
	}
	if end != start && end != start+1 {
		sl.ReportError(tr, "time", "Time", "timerange", "")
	}
}

// Validate sammelt alle Verletzungen eines Datensatzes. filename ist der Basisname der Quelldatei.
// Die ISBNs eines Buches werden nur registriert, wenn der Datensatz sonst fehlerfrei ist.
func (v *Validator) Validate(rec *models.DocumentRecord, filename string) error {
	payload := rec.Payload()
	if payload == nil {
		return &ParseError{File: filename, Err: fmt.Errorf("no payload for type %q", rec.Type)}
	}

	var errs error
	if err := v.validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate %s: %w", filename, err)
		}
		for _, fe := range fieldErrs {
			errs = multierr.Append(errs, &ValidationError{
				Field:   fe.Namespace(),
				Rule:    fe.Tag(),
				Message: message(fe),
			})
		}
	}
	errs = multierr.Append(errs, v.checkConsistency(rec, filename))

	if rec.Book != nil {
		codes := make([]string, 0, len(rec.Book.ISBN))
		for _, c := range rec.Book.ISBN {
			if isbn.Valid(c) {
				codes = append(codes, c)
			}
		}
		var dups []error
		if errs == nil {
			dups = v.registry.Claim(rec.ID, codes)
		} else {
			dups = v.registry.Check(rec.ID, codes)
		}
		for _, d := range dups {
			errs = multierr.Append(errs, &ValidationError{Field: "isbn", Rule: "unique", Message: d.Error(), Err: d})
		}
	}
	return errs
}

func (v *Validator) checkConsistency(rec *models.DocumentRecord, filename string) error {
	var errs error
	if !models.IsContentID(rec.ID) {
		errs = multierr.Append(errs, &ConsistencyError{
			Kind:    MismatchID,
			Message: fmt.Sprintf("id %q is not a 32 digit hex hash", rec.ID),
		})
	}
	if filename != rec.ID+".yml" {
		errs = multierr.Append(errs, &ConsistencyError{
			Kind:    MismatchFilename,
			Message: fmt.Sprintf("filename %s does not match id %s", filename, rec.ID),
		})
	}
	if !v.urlRegex.MatchString(rec.URL) {
		errs = multierr.Append(errs, &ConsistencyError{
			Kind:    MismatchURL,
			Message: fmt.Sprintf("url %q is not a content file url", rec.URL),
		})
		return errs
	}

	key := path.Base(rec.URL)
	if strings.TrimSuffix(key, path.Ext(key)) != rec.ID {
		errs = multierr.Append(errs, &ConsistencyError{
			Kind:    MismatchURL,
			Message: fmt.Sprintf("url %q does not embed id %s", rec.URL, rec.ID),
		})
	}
	if v.inventory != nil && !v.inventory.Has(key) {
		errs = multierr.Append(errs, &ConsistencyError{
			Kind:    MismatchObject,
			Message: fmt.Sprintf("object %s not found in storage", key),
		})
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("invalid %s %q: must be one of %s", fe.Field(), fmt.Sprint(fe.Value()),
			strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eq":
		return fmt.Sprintf("invalid %s %q: must be %s", fe.Field(), fmt.Sprint(fe.Value()), fe.Param())
	case "year":
		return fmt.Sprintf("invalid %s %q: must be a four digit year", fe.Field(), fmt.Sprint(fe.Value()))
	case "isbn13":
		return fmt.Sprintf("invalid ISBN %q", fmt.Sprint(fe.Value()))
	case "timeformat":
		tr, _ := fe.Value().(models.TimeRange)
		return fmt.Sprintf("malformed time range %q-%q: start and end must be years", tr.Start, tr.End)
	case "timerange":
		tr, _ := fe.Value().(models.TimeRange)
		return fmt.Sprintf("invalid time range %s-%s: end must equal start or start+1", tr.Start, tr.End)
	}
	return fmt.Sprintf("%s failed rule %s", fe.Field(), fe.Tag())
}
