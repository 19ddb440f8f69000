package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"

	"docsync/models"
)

// BuildTree liest die Einträge eines Zip-Archivs als Dateibaum. Namen, die kein gültiges
// UTF-8 sind, werden als GB18030 dekodiert. __MACOSX, versteckte Einträge und Office-
// Sperrdateien (~$) fallen heraus. Gleichnamige Datei und Ordner sind ein Fehler.
func BuildTree(data []byte) ([]*models.FileNode, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	root := &models.FileNode{Type: models.NodeFolder}
	for _, f := range zr.File {
		name, err := decodeEntryName(f.Name)
		if err != nil {
			return nil, err
		}
		isDir := strings.HasSuffix(name, "/") || f.FileInfo().IsDir()

		var parts []string
		for _, p := range strings.Split(name, "/") {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 || skipEntry(parts) {
			continue
		}
		if err := insert(root, parts, isDir); err != nil {
			return nil, fmt.Errorf("zip entry %q: %w", name, err)
		}
	}
	if root.Children == nil {
		return []*models.FileNode{}, nil
	}
	return root.Children, nil
}

func decodeEntryName(name string) (string, error) {
	if utf8.ValidString(name) {
		return name, nil
	}
	decoded, err := simplifiedchinese.GB18030.NewDecoder().String(name)
	if err != nil {
		return "", fmt.Errorf("decode zip entry name: %w", err)
	}
	return decoded, nil
}

func skipEntry(parts []string) bool {
	for _, p := range parts {
		if p == "__MACOSX" || strings.HasPrefix(p, ".") || strings.HasPrefix(p, "~$") {
			return true
		}
	}
	return false
}

func insert(root *models.FileNode, parts []string, isDir bool) error {
	node := root
	for i, p := range parts {
		last := i == len(parts)-1
		want := models.NodeFolder
		if last && !isDir {
			want = models.NodeFile
		}

		child := node.Child(p)
		if child == nil {
			child = &models.FileNode{Type: want, Name: p}
			node.Children = append(node.Children, child)
		} else if child.Type != want {
			return fmt.Errorf("%s exists as both file and folder", strings.Join(parts[:i+1], "/"))
		}
		node = child
	}
	return nil
}
