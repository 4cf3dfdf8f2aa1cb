package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gbxml-service/internal/converter/gbxml"
)

// ============================================================
// File Storage
// ============================================================

var ErrInvalidName = errors.New("invalid file name")

// FileStorage writes per-space documents to <root>/<project>/<space>.xml.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) Root() string {
	return s.root
}

func (s *FileStorage) ProjectDir(project string) string {
	return filepath.Join(s.root, sanitize(project, "project"))
}

func (s *FileStorage) SpacePath(project, spaceName string) string {
	return filepath.Join(s.ProjectDir(project), sanitize(spaceName, "space")+".xml")
}

func (s *FileStorage) EnsureProjectDir(project string) error {
	path := s.ProjectDir(project)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir project dir: %w", err)
	}
	return nil
}

// WriteSpace encodes the document and writes it under the project
// directory, creating the directory when absent.
func (s *FileStorage) WriteSpace(ctx context.Context, project, spaceName string, doc *gbxml.GBXML) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(spaceName) == "" {
		return "", ErrInvalidName
	}
	data, err := gbxml.Marshal(doc)
	if err != nil {
		return "", err
	}
	if err := s.EnsureProjectDir(project); err != nil {
		return "", err
	}
	target := s.SpacePath(project, spaceName)
	if err := s.SaveFile(target, data); err != nil {
		return "", err
	}
	return target, nil
}

// SaveFile writes through a temporary file so readers never see a partial
// document.
func (s *FileStorage) SaveFile(target string, data []byte) error {
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", target, err)
	}
	return nil
}

// sanitize keeps a name usable as a single path element.
func sanitize(name, fallback string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}
