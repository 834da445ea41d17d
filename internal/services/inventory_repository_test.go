package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepository_ListItems(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewInventoryRepository(mockDB, testLogger())
	userID := uuid.New()

	t.Run("returns stored items", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "name", "category", "colors", "style", "occasions", "seasons", "tags"}).
			AddRow("item-1", "Oxford Shirt", "tops", []string{"white"}, "classic", []string{"business"}, []string{"all"}, []string{"cotton"}).
			AddRow("item-2", "Chinos", "bottoms", []string{"khaki"}, "smart-casual", []string{"versatile"}, []string{}, []string{})

		mockDB.ExpectQuery("SELECT (.+) FROM wardrobe_items").
			WithArgs(userID).
			WillReturnRows(rows)

		items, err := repo.ListItems(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "item-1", items[0].ID)
		assert.Equal(t, []string{"white"}, items[0].Color)
		assert.Equal(t, []string{"business"}, items[0].Occasion)
		assert.Equal(t, "smart-casual", items[1].Style)

		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT (.+) FROM wardrobe_items").
			WithArgs(userID).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.ListItems(context.Background(), userID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query wardrobe items")

		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("empty wardrobe", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT (.+) FROM wardrobe_items").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "colors", "style", "occasions", "seasons", "tags"}))

		items, err := repo.ListItems(context.Background(), userID)
		require.NoError(t, err)
		assert.Empty(t, items)

		require.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestInventoryRepository_GetProfile(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewInventoryRepository(mockDB, testLogger())
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"user_id", "preferred_style", "favorite_colors", "color_palette_colors", "goals"}).
			AddRow(userID.String(), "minimalist", []string{"navy"}, []string{"cream", "sage"}, []string{"versatile"})

		mockDB.ExpectQuery("SELECT (.+) FROM style_profiles").
			WithArgs(userID).
			WillReturnRows(rows)

		profile, err := repo.GetProfile(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), profile.ID)
		assert.Equal(t, "minimalist", profile.PreferredStyle)
		assert.Equal(t, []string{"cream", "sage"}, profile.ColorPaletteColors)

		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT (.+) FROM style_profiles").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "preferred_style", "favorite_colors", "color_palette_colors", "goals"}))

		_, err := repo.GetProfile(context.Background(), userID)
		assert.ErrorIs(t, err, ErrProfileNotFound)

		require.NoError(t, mockDB.ExpectationsWereMet())
	})
}
