package referencedata

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileSource loads reference data from a YAML or JSON snapshot file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Load(ctx context.Context) (*domain.ReferenceData, error) {
	if f.Path == "" {
		return nil, errors.New("load snapshot: path is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	ref, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", f.Path, err)
	}
	ref.LoadedAt = time.Now()
	return ref, nil
}

// Decode parses a snapshot document. JSON is accepted as a subset of YAML.
func Decode(b []byte) (*domain.ReferenceData, error) {
	var s snapshot
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return s.toDomain()
}

// Encode renders ref as a YAML snapshot document.
func Encode(ref *domain.ReferenceData) ([]byte, error) {
	b, err := yaml.Marshal(fromDomain(ref))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// WriteFile stores ref as a YAML snapshot at path, creating parent directories.
func WriteFile(path string, ref *domain.ReferenceData) error {
	b, err := Encode(ref)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
