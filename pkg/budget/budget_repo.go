package budget

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	GetSettings(ctx context.Context, userId int) (Settings, error)
	SaveSettings(ctx context.Context, userId int, settings Settings) (Settings, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) GetSettings(ctx context.Context, userId int) (Settings, error) {
	query := `SELECT id, monthly_limit, notification_threshold FROM budget_settings WHERE user_id = $1`
	var settingsId int
	var settings Settings
	err := r.db.QueryRow(ctx, query, userId).Scan(&settingsId, &settings.MonthlyLimit, &settings.NotificationThreshold)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, ErrNoSettings
	} else if err != nil {
		log.Errorf("failed to get budget settings for user %d: %v", userId, err)
		return Settings{}, err
	}

	limitsQuery := `SELECT category, category_limit FROM budget_category_limits WHERE settings_id = $1`
	rows, err := r.db.Query(ctx, limitsQuery, settingsId)
	if err != nil {
		log.Errorf("failed to get category limits: %v", err)
		return Settings{}, err
	}
	defer rows.Close()

	settings.CategoryLimits = make(map[string]float64)
	for rows.Next() {
		var category string
		var limit float64
		if err := rows.Scan(&category, &limit); err != nil {
			log.Errorf("failed to scan category limit: %v", err)
			return Settings{}, err
		}
		settings.CategoryLimits[category] = limit
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over category limits: %v", err)
		return Settings{}, err
	}
	return settings, nil
}

// SaveSettings upserts the per-user settings row and replaces its category
// limits in a single transaction.
func (r *RepoImpl) SaveSettings(ctx context.Context, userId int, settings Settings) (Settings, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		log.Errorf("failed to begin transaction: %v", err)
		return Settings{}, err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO budget_settings (user_id, monthly_limit, notification_threshold)
				VALUES ($1, $2, $3)
				ON CONFLICT (user_id) DO UPDATE
				SET monthly_limit = EXCLUDED.monthly_limit, notification_threshold = EXCLUDED.notification_threshold
				RETURNING id`
	var settingsId int
	err = tx.QueryRow(ctx, query, userId, settings.MonthlyLimit, settings.NotificationThreshold).Scan(&settingsId)
	if err != nil {
		log.Errorf("failed to save budget settings for user %d: %v", userId, err)
		return Settings{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM budget_category_limits WHERE settings_id = $1`, settingsId); err != nil {
		log.Errorf("failed to clear category limits: %v", err)
		return Settings{}, err
	}
	for category, limit := range settings.CategoryLimits {
		_, err := tx.Exec(ctx,
			`INSERT INTO budget_category_limits (settings_id, category, category_limit) VALUES ($1, $2, $3)`,
			settingsId, category, limit)
		if err != nil {
			log.Errorf("failed to save category limit for %s: %v", category, err)
			return Settings{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Errorf("failed to commit budget settings: %v", err)
		return Settings{}, err
	}
	return settings, nil
}
