package repositories

import (
	"tienda/internal/models"
)

// DefaultPageSize caps product listings when the caller passes no size.
const DefaultPageSize = 20

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(page, size int) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByCategory(categoryID string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
