package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/pkg/models"
)

var (
	ErrProfileNotFound      = errors.New("style profile not found")
	ErrInventoryUnavailable = errors.New("inventory store is not configured")
)

// DatabaseQuerier is the subset of *pgxpool.Pool used by the repository.
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const listItemsQuery = `
	SELECT id::text, COALESCE(name, ''), COALESCE(category, ''), COALESCE(colors, '{}'),
	       COALESCE(style, ''), COALESCE(occasions, '{}'), COALESCE(seasons, '{}'), COALESCE(tags, '{}')
	FROM wardrobe_items
	WHERE user_id = $1 AND archived = false
	ORDER BY created_at`

const getProfileQuery = `
	SELECT user_id::text, COALESCE(preferred_style, ''), COALESCE(favorite_colors, '{}'),
	       COALESCE(color_palette_colors, '{}'), COALESCE(goals, '{}')
	FROM style_profiles
	WHERE user_id = $1`

// InventoryRepository loads wardrobe items and style profiles from Postgres.
type InventoryRepository struct {
	db     DatabaseQuerier
	logger *logrus.Logger
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db DatabaseQuerier, logger *logrus.Logger) *InventoryRepository {
	return &InventoryRepository{
		db:     db,
		logger: logger,
	}
}

// ListItems returns the user's active wardrobe items. Rows that fail to scan
// are skipped.
func (r *InventoryRepository) ListItems(ctx context.Context, userID uuid.UUID) ([]models.WardrobeItem, error) {
	rows, err := r.db.Query(ctx, listItemsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wardrobe items: %w", err)
	}
	defer rows.Close()

	var items []models.WardrobeItem
	for rows.Next() {
		var item models.WardrobeItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Category, &item.Color,
			&item.Style, &item.Occasion, &item.Season, &item.Tags,
		); err != nil {
			r.logger.WithError(err).WithField("user_id", userID).Warn("Skipping malformed wardrobe item")
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wardrobe items: %w", err)
	}

	return items, nil
}

// GetProfile returns the user's style profile or ErrProfileNotFound.
func (r *InventoryRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.StyleProfile, error) {
	var profile models.StyleProfile
	err := r.db.QueryRow(ctx, getProfileQuery, userID).Scan(
		&profile.ID, &profile.PreferredStyle, &profile.FavoriteColors,
		&profile.ColorPaletteColors, &profile.Goals,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get style profile: %w", err)
	}
	return &profile, nil
}
