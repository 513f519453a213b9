package repositories_test

import (
	"fmt"
	"testing"

	"tienda/internal/models"
	"tienda/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The in-memory repositories must behave like the GORM ones: same
// creation defaults, same not-found errors, same category filtering.

func TestMockProductRepository_CreateAppliesDefaults(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	product := &models.Product{SKU: "DEF-001", Name: "Defaulted", Stock: 99}
	require.NoError(t, repo.Create(product))
	assert.NotEmpty(t, product.ID)

	stored, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock)
	assert.True(t, stored.Active)
	assert.Equal(t, models.StatusNew, stored.Status)
	assert.Equal(t, models.NotDeleted, stored.Deleted)
	assert.Equal(t, models.DefaultCurrency, stored.Currency)
}

func TestMockProductRepository_Pagination(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&models.Product{
			SKU:  fmt.Sprintf("PAGE-%03d", i),
			Name: fmt.Sprintf("Product %d", i),
		}))
	}

	first, err := repo.GetAll(0, 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	last, err := repo.GetAll(2, 2)
	require.NoError(t, err)
	assert.Len(t, last, 1)

	beyond, err := repo.GetAll(5, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestMockProductRepository_GetByCategoryExcludesDeleted(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	kept := &models.Product{SKU: "KEEP-001", Name: "Kept", CategoryID: "cat-1"}
	gone := &models.Product{SKU: "GONE-001", Name: "Gone", CategoryID: "cat-1"}
	require.NoError(t, repo.Create(kept))
	require.NoError(t, repo.Create(gone))

	gone.Deleted = models.SoftDeleted
	require.NoError(t, repo.Update(gone))

	products, err := repo.GetByCategory("cat-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, kept.ID, products[0].ID)
}

func TestMockProductRepository_NotFoundErrors(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	_, err := repo.GetByID("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = repo.Update(&models.Product{ID: "missing"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found for update")

	err = repo.Delete("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found for deletion")
}

func TestMockCategoryRepository(t *testing.T) {
	repo := repositories.NewMockCategoryRepository()

	category := &models.Category{Name: "Electronics"}
	require.NoError(t, repo.Create(category))
	assert.NotEmpty(t, category.ID)

	stored, err := repo.GetByID(category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", stored.Name)

	categories, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	_, err = repo.GetByID("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
