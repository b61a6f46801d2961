package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
)

// LocalArtifactStore implements port.ArtifactStore on the local filesystem.
// Artifacts are laid out under baseDir by date, and the returned locator is
// the path relative to baseDir.
type LocalArtifactStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalArtifactStore creates a new LocalArtifactStore
func NewLocalArtifactStore(baseDir string, logger *zap.Logger) port.ArtifactStore {
	return &LocalArtifactStore{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Store writes artifact bytes and returns the locator for the record.
func (s *LocalArtifactStore) Store(ctx context.Context, name string, content []byte, contentType string) (string, error) {
	relPath := filepath.Join(time.Now().Format("2006-01-02"), sanitizeName(name)+extensionFor(contentType))
	fullPath := filepath.Join(s.baseDir, relPath)

	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create artifact directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write artifact",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	s.logger.Debug("Artifact stored",
		zap.String("locator", relPath),
		zap.Int("size", len(content)))

	return relPath, nil
}

// Read retrieves artifact bytes by locator.
func (s *LocalArtifactStore) Read(ctx context.Context, locator string) ([]byte, error) {
	fullPath := filepath.Join(s.baseDir, locator)

	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		s.logger.Error("Failed to read artifact",
			zap.String("locator", locator),
			zap.Error(err))
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return content, nil
}

// sanitizeName strips path separators and other filesystem-hostile characters
// from an artifact name.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		"..", "-",
		" ", "_",
		":", "-",
	)
	cleaned := replacer.Replace(strings.TrimSpace(name))
	if cleaned == "" {
		cleaned = "artifact"
	}
	return cleaned
}

func extensionFor(contentType string) string {
	switch contentType {
	case "text/plain":
		return ".txt"
	case "text/markdown":
		return ".md"
	case "application/json":
		return ".json"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// validatePath checks that the path stays within baseDir
func (s *LocalArtifactStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}

// Verify interface compliance
var _ port.ArtifactStore = (*LocalArtifactStore)(nil)
