// Package storage archives uploaded contract documents and filled templates
// on local disk, one folder per contract.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentStore persists document files under a base directory
type DocumentStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewDocumentStore creates a document store rooted at baseDir
func NewDocumentStore(baseDir string, logger *zap.Logger) (*DocumentStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create document storage dir: %w", err)
	}
	return &DocumentStore{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// Save archives a document for a contract and returns its storage path. The
// stored name carries a uuid prefix so repeated uploads never collide.
func (s *DocumentStore) Save(contractID int64, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.baseDir, fmt.Sprintf("contract-%d", contractID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create contract folder: %w", err)
	}

	name := uuid.NewString() + "_" + filepath.Base(filename)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create document file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write document file: %w", err)
	}

	s.logger.Info("Document archived",
		zap.Int64("contract_id", contractID),
		zap.String("path", path),
		zap.Int64("bytes", written))

	return path, nil
}

// Open opens a previously stored document
func (s *DocumentStore) Open(path string) (io.ReadCloser, error) {
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return nil, fmt.Errorf("path %q is outside the document store", path)
	}
	return os.Open(path)
}
