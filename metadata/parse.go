package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"docsync/models"
)

// Parse liest eine Metadaten-Datei und löst die Nutzlast anhand von "type" auf.
func Parse(path string) (*models.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{File: filepath.Base(path), Err: err}
	}
	return ParseBytes(filepath.Base(path), data)
}

// ParseBytes dekodiert zweistufig: erst generisch in eine Map, dann die Nutzlast
// in die zum Diskriminator passende Struktur.
func ParseBytes(name string, data []byte) (*models.DocumentRecord, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	if raw == nil {
		return nil, &ParseError{File: name, Err: errors.New("empty document")}
	}

	rec := &models.DocumentRecord{}
	var err error
	if rec.ID, err = stringField(raw, "id"); err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	if rec.URL, err = stringField(raw, "url"); err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	typ, err := stringField(raw, "type")
	if err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	payload, ok := raw["data"]
	if !ok || payload == nil {
		return nil, &ParseError{File: name, Err: errors.New("missing data")}
	}

	rec.Type = models.DocType(typ)
	switch rec.Type {
	case models.TypeTest:
		rec.Test = &models.Test{}
		err = decodePayload(payload, rec.Test)
	case models.TypeBook:
		rec.Book = &models.Book{}
		err = decodePayload(payload, rec.Book)
	case models.TypeDoc:
		rec.Doc = &models.Doc{}
		err = decodePayload(payload, rec.Doc)
	default:
		err = fmt.Errorf("unknown type %q", typ)
	}
	if err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	return rec, nil
}

func stringField(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, v)
	}
	return s, nil
}

func decodePayload(in, out any) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Metadata:         &md,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	if missing := requiredUnset(reflect.TypeOf(out), md.Unset); len(missing) > 0 {
		return fmt.Errorf("decode data: missing field %s", strings.Join(missing, ", "))
	}
	return nil
}

// requiredUnset filtert die nicht gesetzten Schlüssel auf Felder ohne omitempty.
// Schlüssel haben die Form "time.start" oder "course[1].name".
func requiredUnset(t reflect.Type, unset []string) []string {
	var missing []string
	for _, key := range unset {
		if isRequired(t, strings.Split(key, ".")) {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func isRequired(t reflect.Type, path []string) bool {
	for i, seg := range path {
		if j := strings.IndexByte(seg, '['); j >= 0 {
			seg = seg[:j]
		}
		t = elem(t)
		if t.Kind() != reflect.Struct {
			return false
		}
		f, ok := fieldByTag(t, seg)
		if !ok {
			return false
		}
		if i == len(path)-1 {
			name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
			return name != "-" && !strings.Contains(opts, "omitempty")
		}
		t = f.Type
	}
	return false
}

func elem(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t
}

func fieldByTag(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == name || (tag == "" && f.Name == name) {
			return f, true
		}
	}
	return reflect.StructField{}, false
}
