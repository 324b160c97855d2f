package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"farm-backend/internal/apperr"
	"farm-backend/internal/models"
)

type SystemSettingRepository struct {
	DB *pgxpool.Pool
}

func NewSystemSettingRepository(db *pgxpool.Pool) *SystemSettingRepository {
	return &SystemSettingRepository{DB: db}
}

func (r *SystemSettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	query := `
		SELECT id, setting_key, setting_value, description, updated_at, COALESCE(updated_by_user_id, 0)
		FROM system_settings
		WHERE setting_key = $1
	`

	setting := &models.SystemSetting{}
	err := r.DB.QueryRow(ctx, query, key).Scan(
		&setting.ID,
		&setting.SettingKey,
		&setting.SettingValue,
		&setting.Description,
		&setting.UpdatedAt,
		&setting.UpdatedByUserID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("setting", key)
	}
	if err != nil {
		return nil, err
	}

	return setting, nil
}

func (r *SystemSettingRepository) List(ctx context.Context) ([]*models.SystemSetting, error) {
	query := `
		SELECT id, setting_key, setting_value, description, updated_at, COALESCE(updated_by_user_id, 0)
		FROM system_settings
		ORDER BY setting_key
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.SystemSetting
	for rows.Next() {
		setting := &models.SystemSetting{}
		err := rows.Scan(
			&setting.ID,
			&setting.SettingKey,
			&setting.SettingValue,
			&setting.Description,
			&setting.UpdatedAt,
			&setting.UpdatedByUserID,
		)
		if err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}

	return settings, rows.Err()
}

// Upsert creates a new setting or updates an existing one. A zero userID is
// stored as NULL.
func (r *SystemSettingRepository) Upsert(ctx context.Context, key, value, description string, userID int) error {
	query := `
		INSERT INTO system_settings (setting_key, setting_value, description, updated_at, updated_by_user_id)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, NULLIF($4, 0))
		ON CONFLICT (setting_key)
		DO UPDATE SET setting_value = $2,
			description = CASE WHEN $3 = '' THEN system_settings.description ELSE $3 END,
			updated_at = CURRENT_TIMESTAMP,
			updated_by_user_id = NULLIF($4, 0)
	`

	_, err := r.DB.Exec(ctx, query, key, value, description, userID)
	return err
}

// InsertDefault stores a setting only when the key is absent.
func (r *SystemSettingRepository) InsertDefault(ctx context.Context, key, value, description string) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO system_settings (setting_key, setting_value, description)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (setting_key) DO NOTHING`,
		key, value, description)
	return err
}
