package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/port"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// ProfileRepository implements port.ProfileRepository
type ProfileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) port.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserID retrieves a user's profile. A missing profile returns nil
// without error; form fields then fall back to user-supplied values.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	query := `
		SELECT user_id, full_name, email, phone, address, school, extra, updated_at
		FROM profiles
		WHERE user_id = ?
	`

	var profile entity.Profile
	var fullName, email, phone, address, school sql.NullString
	var extra string

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&fullName,
		&email,
		&phone,
		&address,
		&school,
		&extra,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get profile", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.FullName = fullName.String
	profile.Email = email.String
	profile.Phone = phone.String
	profile.Address = address.String
	profile.School = school.String
	if err := unmarshalJSON(extra, &profile.Extra); err != nil {
		return nil, err
	}

	return &profile, nil
}

// Verify interface compliance
var _ port.ProfileRepository = (*ProfileRepository)(nil)
