package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// ArtifactRepository implements port.ArtifactRepository
type ArtifactRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *sql.DB, logger *zap.Logger) port.ArtifactRepository {
	return &ArtifactRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists one execution byproduct record
func (r *ArtifactRepository) Create(ctx context.Context, artifact *entity.FileArtifact) error {
	query := `
		INSERT INTO file_artifacts (step_id, name, kind, content, content_type, locator, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		artifact.StepID,
		artifact.Name,
		artifact.Kind,
		artifact.Content,
		artifact.ContentType,
		artifact.Locator,
		artifact.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create artifact", zap.Error(err))
		return fmt.Errorf("failed to create artifact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	artifact.ID = id
	return nil
}

// GetByStepID retrieves the artifacts a step produced
func (r *ArtifactRepository) GetByStepID(ctx context.Context, stepID int64) ([]*entity.FileArtifact, error) {
	query := `
		SELECT id, step_id, name, kind, content, content_type, locator, created_at
		FROM file_artifacts
		WHERE step_id = ?
		ORDER BY id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, stepID)
	if err != nil {
		r.logger.Error("Failed to get artifacts by step ID", zap.Int64("step_id", stepID), zap.Error(err))
		return nil, fmt.Errorf("failed to get artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*entity.FileArtifact
	for rows.Next() {
		var artifact entity.FileArtifact
		var stepID sql.NullInt64

		err := rows.Scan(
			&artifact.ID,
			&stepID,
			&artifact.Name,
			&artifact.Kind,
			&artifact.Content,
			&artifact.ContentType,
			&artifact.Locator,
			&artifact.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}

		if stepID.Valid {
			artifact.StepID = &stepID.Int64
		}
		artifacts = append(artifacts, &artifact)
	}

	return artifacts, rows.Err()
}

// Verify interface compliance
var _ port.ArtifactRepository = (*ArtifactRepository)(nil)
