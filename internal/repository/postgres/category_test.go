package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneakpeak/storefront/internal/domain"
)

func newCategoryRepo(t *testing.T) (*CategoryRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewCategoryRepository(sqlxDB), mock, func() { _ = db.Close() }
}

func TestCategoryRepository_Create_Success(t *testing.T) {
	repo, mock, closeDB := newCategoryRepo(t)
	defer closeDB()

	createdBy := uuid.New()
	description := "Road and trail shoes"
	category := &domain.Category{
		Name:        "Running",
		Description: &description,
		IsActive:    true,
		CreatedBy:   &createdBy,
	}

	mock.ExpectQuery("INSERT INTO categories").
		WithArgs(category.Name, category.Description, category.IsActive,
			category.CreatedBy, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(uuid.New(), time.Now(), time.Now()))

	err := repo.Create(context.Background(), category)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, category.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Create_DuplicateName(t *testing.T) {
	repo, mock, closeDB := newCategoryRepo(t)
	defer closeDB()

	category := &domain.Category{Name: "Running", IsActive: true}

	// The unique index on LOWER(name) is the authority; a concurrent
	// insert that slipped past the name check surfaces as 23505
	mock.ExpectQuery("INSERT INTO categories").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := repo.Create(context.Background(), category)

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Update_DuplicateName(t *testing.T) {
	repo, mock, closeDB := newCategoryRepo(t)
	defer closeDB()

	updatedBy := uuid.New()
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      "running",
		IsActive:  true,
		UpdatedBy: &updatedBy,
	}

	mock.ExpectQuery("UPDATE categories").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := repo.Update(context.Background(), category)

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildCategoryWhere_SearchEscapesLikeMetacharacters(t *testing.T) {
	where, args := buildCategoryWhere(domain.CategoryFilter{Search: "kids_%"})

	assert.Contains(t, where, "c.name ILIKE $1")
	require.Len(t, args, 1)
	assert.Equal(t, `%kids\_\%%`, args[0])
}
