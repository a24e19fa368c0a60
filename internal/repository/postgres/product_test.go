package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiepon/store-backend/pkg/database"
	apperrors "github.com/Kiepon/store-backend/pkg/errors"
)

func TestProductRepository_GetActive(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "rating", "is_active"}).
		AddRow("prod-001", "Ceramic Mug", 4.5, true)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs("prod-001").
		WillReturnRows(rows)

	p, err := repo.GetActive(context.Background(), "prod-001")
	require.NoError(t, err)
	assert.Equal(t, "Ceramic Mug", p.Name)
	assert.InDelta(t, 4.5, p.Rating, 0.0001)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetActive_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "rating", "is_active"})

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs("missing").
		WillReturnRows(rows)

	_, err = repo.GetActive(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
